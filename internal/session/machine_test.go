package session_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmind/internal/llm"
	"github.com/abhisek/quizmind/internal/questiongen"
	"github.com/abhisek/quizmind/internal/quiz"
	"github.com/abhisek/quizmind/internal/session"
	"github.com/abhisek/quizmind/internal/store"
)

// --- fakes ---

func makeQuestion(id string, level quiz.Difficulty) *quiz.Question {
	return &quiz.Question{
		ID:   id,
		Text: "Question " + id + "?",
		Options: []quiz.Option{
			{ID: "a", Text: "Right", IsCorrect: true},
			{ID: "b", Text: "Wrong 1"},
			{ID: "c", Text: "Wrong 2"},
			{ID: "d", Text: "Wrong 3"},
		},
		Explanation: "Because.",
		Difficulty:  level,
		Topic:       quiz.TopicScience,
	}
}

type genResult struct {
	q   *quiz.Question
	err error
}

// scriptedGen replays results in order, then produces valid questions
// with ids q1, q2, ...
type scriptedGen struct {
	mu      sync.Mutex
	results []genResult
	inputs  []questiongen.GenerateInput
}

func (g *scriptedGen) Generate(_ context.Context, in questiongen.GenerateInput) (*quiz.Question, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.inputs = append(g.inputs, in)
	if len(g.results) > 0 {
		r := g.results[0]
		g.results = g.results[1:]
		if r.q != nil || r.err != nil {
			return r.q, r.err
		}
	}
	return makeQuestion(fmt.Sprintf("q%d", len(g.inputs)), in.Difficulty), nil
}

func (g *scriptedGen) Inputs() []questiongen.GenerateInput {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]questiongen.GenerateInput(nil), g.inputs...)
}

// blockingGen holds every request until release is closed.
type blockingGen struct {
	called    chan questiongen.GenerateInput
	release   chan struct{}
	ignoreCtx bool
}

func newBlockingGen(ignoreCtx bool) *blockingGen {
	return &blockingGen{
		called:    make(chan questiongen.GenerateInput, 8),
		release:   make(chan struct{}),
		ignoreCtx: ignoreCtx,
	}
}

func (g *blockingGen) Generate(ctx context.Context, in questiongen.GenerateInput) (*quiz.Question, error) {
	g.called <- in
	if g.ignoreCtx {
		<-g.release
		return makeQuestion("late", in.Difficulty), nil
	}
	select {
	case <-g.release:
		return makeQuestion("late", in.Difficulty), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type recordingRepo struct {
	mu        sync.Mutex
	createErr error
	answerErr error
	statsErr  error
	finishErr error
	calls     []string
	answers   []store.AnswerRecord
	stats     [][2]int
	finished  [][2]int
}

func (r *recordingRepo) CreateSession(_ context.Context, userID, topic, level string, total int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "create")
	if r.createErr != nil {
		return "", r.createErr
	}
	return "remote-" + userID + "-" + topic + "-" + level + fmt.Sprint(total), nil
}

func (r *recordingRepo) RecordAnswer(_ context.Context, sessionID string, rec store.AnswerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "answer")
	r.answers = append(r.answers, rec)
	return r.answerErr
}

func (r *recordingRepo) UpdateStats(_ context.Context, _ string, answered, correct int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "stats")
	r.stats = append(r.stats, [2]int{answered, correct})
	return r.statsErr
}

func (r *recordingRepo) FinishSession(_ context.Context, _ string, answered, correct int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "finish")
	r.finished = append(r.finished, [2]int{answered, correct})
	return r.finishErr
}

func (r *recordingRepo) ListSessions(context.Context, string, int) ([]store.SessionRow, error) {
	return nil, nil
}

func (r *recordingRepo) SessionAnswers(context.Context, string) ([]store.AnswerRow, error) {
	return nil, nil
}

func (r *recordingRepo) DeleteUserData(context.Context, string) (int, error) {
	return 0, nil
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, nil)), buf
}

// --- helpers ---

func start(t *testing.T, m *session.Machine) session.Playing {
	t.Helper()
	st, err := m.Start(context.Background(), quiz.TopicScience, quiz.Easy)
	require.NoError(t, err)
	p, ok := st.(session.Playing)
	require.True(t, ok, "got %s", st.Status())
	return p
}

func answer(t *testing.T, m *session.Machine, option string) session.Answered {
	t.Helper()
	_, err := m.SelectOption(option)
	require.NoError(t, err)
	st, err := m.Confirm()
	require.NoError(t, err)
	a, ok := st.(session.Answered)
	require.True(t, ok, "got %s", st.Status())
	return a
}

// --- tests ---

func TestMachine_FullQuiz(t *testing.T) {
	gen := &scriptedGen{}
	repo := &recordingRepo{}
	clock := newFakeClock()
	m := session.New(session.Config{
		Generator:      gen,
		Repo:           repo,
		UserID:         "u1",
		TotalQuestions: 3,
		Now:            clock.Now,
	})

	assert.Equal(t, session.StatusIdle, m.State().Status())

	p := start(t, m)
	assert.Equal(t, "q1", p.Question.ID)
	assert.Equal(t, clock.Now(), p.StartedAt)
	assert.Empty(t, p.Session.Answers)
	assert.Equal(t, quiz.Easy, p.Session.InitialDifficulty)
	assert.Equal(t, 3, p.Session.TotalQuestions)
	assert.Empty(t, gen.Inputs()[0].PreviousQuestionIDs)

	clock.Advance(2600 * time.Millisecond)
	a := answer(t, m, "a")
	assert.True(t, a.Answer.IsCorrect)
	assert.Equal(t, 3, a.Answer.ElapsedSeconds)
	assert.Equal(t, quiz.Easy, a.Answer.Difficulty)

	st, err := m.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, session.StatusPlaying, st.Status())
	a = answer(t, m, "b")
	assert.False(t, a.Answer.IsCorrect)
	assert.Equal(t, 0, a.Answer.ElapsedSeconds)

	_, err = m.Next(context.Background())
	require.NoError(t, err)
	answer(t, m, "a")

	st, err = m.Next(context.Background())
	require.NoError(t, err)
	fin, ok := st.(session.Finished)
	require.True(t, ok, "got %s", st.Status())
	require.NotNil(t, fin.Session.EndedAt)
	assert.Equal(t, clock.Now(), *fin.Session.EndedAt)

	// Finished is terminal; a second Next changes nothing.
	st, err = m.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.StatusFinished, st.Status())

	sum, ok := m.Summary()
	require.True(t, ok)
	assert.Equal(t, 3, sum.TotalAnswered)
	assert.Equal(t, 2, sum.Correct)
	assert.Equal(t, 1, sum.Wrong)
	assert.Equal(t, 67, sum.Accuracy)
	assert.Equal(t, 3, sum.DurationSeconds)
	assert.Equal(t, 1, sum.AverageSeconds)

	inputs := gen.Inputs()
	require.Len(t, inputs, 3)
	assert.Equal(t, []string{"q1"}, inputs[1].PreviousQuestionIDs)
	assert.Equal(t, []string{"q1", "q2"}, inputs[2].PreviousQuestionIDs)
	assert.Equal(t, "u1", inputs[2].UserID)

	m.Close()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, []string{"create", "answer", "stats", "answer", "stats", "answer", "stats", "finish"}, repo.calls)
	assert.Equal(t, [][2]int{{1, 1}, {2, 1}, {3, 2}}, repo.stats)
	assert.Equal(t, [][2]int{{3, 2}}, repo.finished)
	assert.Equal(t, store.AnswerRecord{
		Question:  "Question q2?",
		Selected:  "Wrong 1",
		Correct:   "Right",
		IsCorrect: false,
	}, repo.answers[1])
}

func TestMachine_StartAgainAfterFinish(t *testing.T) {
	m := session.New(session.Config{Generator: &scriptedGen{}, TotalQuestions: 1})
	first := start(t, m)
	answer(t, m, "a")
	_, err := m.Next(context.Background())
	require.NoError(t, err)

	second := start(t, m)
	assert.NotEqual(t, first.Session.ID, second.Session.ID)
	assert.Empty(t, second.Session.Answers)
}

func TestMachine_DifficultyAdapts(t *testing.T) {
	gen := &scriptedGen{}
	m := session.New(session.Config{Generator: gen})
	start(t, m)

	for range 3 {
		answer(t, m, "a")
		_, err := m.Next(context.Background())
		require.NoError(t, err)
	}

	inputs := gen.Inputs()
	require.Len(t, inputs, 4)
	assert.Equal(t, quiz.Easy, inputs[2].Difficulty)
	assert.Equal(t, quiz.Medium, inputs[3].Difficulty)

	p, ok := m.State().(session.Playing)
	require.True(t, ok)
	assert.Equal(t, quiz.Medium, p.Session.CurrentDifficulty)
	assert.Equal(t, quiz.Medium, p.Question.Difficulty)
	assert.Equal(t, quiz.Easy, p.Session.InitialDifficulty)
}

func TestMachine_StartFailureLeavesNoSession(t *testing.T) {
	gen := &scriptedGen{results: []genResult{{err: &llm.ErrRateLimit{Err: errors.New("429")}}}}
	repo := &recordingRepo{}
	m := session.New(session.Config{Generator: gen, Repo: repo, UserID: "u1"})

	st, err := m.Start(context.Background(), quiz.TopicHistory, quiz.Hard)

	var perr *session.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "start", perr.Op)
	f, ok := st.(session.Failed)
	require.True(t, ok, "got %s", st.Status())
	assert.Nil(t, f.Session)
	assert.Equal(t, quiz.TopicHistory, f.Topic)
	assert.Equal(t, quiz.Hard, f.Difficulty)
	assert.Equal(t, "Too many requests. Wait a moment and try again.", session.UserMessage(f.Err))

	_, ok = m.Summary()
	assert.False(t, ok)

	// Retry needs a session; the way out is a fresh Start.
	st, err = m.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.StatusError, st.Status())

	st, err = m.Start(context.Background(), quiz.TopicHistory, quiz.Hard)
	require.NoError(t, err)
	assert.Equal(t, session.StatusPlaying, st.Status())

	m.Close()
	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, []string{"create"}, repo.calls)
}

func TestMachine_NextFailureThenRetry(t *testing.T) {
	gen := &scriptedGen{results: []genResult{
		{},
		{err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")}},
	}}
	m := session.New(session.Config{Generator: gen})
	start(t, m)
	answer(t, m, "a")

	st, err := m.Next(context.Background())
	var perr *session.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "next", perr.Op)
	f, ok := st.(session.Failed)
	require.True(t, ok, "got %s", st.Status())
	require.NotNil(t, f.Session)
	assert.Len(t, f.Session.Answers, 1)

	sum, ok := m.Summary()
	require.True(t, ok)
	assert.Equal(t, 1, sum.TotalAnswered)

	// A session in the error state cannot be restarted, only retried.
	st, err = m.Start(context.Background(), quiz.TopicScience, quiz.Easy)
	require.NoError(t, err)
	assert.Equal(t, session.StatusError, st.Status())

	st, err = m.Retry(context.Background())
	require.NoError(t, err)
	p, ok := st.(session.Playing)
	require.True(t, ok, "got %s", st.Status())
	assert.Equal(t, f.Session.ID, p.Session.ID)

	inputs := gen.Inputs()
	require.Len(t, inputs, 3)
	assert.Equal(t, []string{"q1"}, inputs[2].PreviousQuestionIDs)
	assert.Equal(t, quiz.Easy, inputs[2].Difficulty)
}

func TestMachine_InvalidQuestionIsProviderFailure(t *testing.T) {
	bad := makeQuestion("bad", quiz.Easy)
	bad.Options = bad.Options[:2]
	gen := &scriptedGen{results: []genResult{{q: bad}}}
	m := session.New(session.Config{Generator: gen})

	st, err := m.Start(context.Background(), quiz.TopicScience, quiz.Easy)

	var verr *quiz.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, session.StatusError, st.Status())
	assert.Equal(t, "The generated question was malformed. Try again.", session.UserMessage(err))
}

func TestMachine_InvalidArguments(t *testing.T) {
	m := session.New(session.Config{Generator: &scriptedGen{}})

	_, err := m.Start(context.Background(), "astrology", quiz.Easy)
	assert.Error(t, err)
	_, err = m.Start(context.Background(), quiz.TopicScience, "extreme")
	assert.Error(t, err)
	assert.Equal(t, session.StatusIdle, m.State().Status())
}

func TestMachine_PreconditionsAreNoOps(t *testing.T) {
	ctx := context.Background()
	tests := map[string]struct {
		setup      func(t *testing.T, m *session.Machine)
		op         func(m *session.Machine) (session.State, error)
		wantStatus session.Status
	}{
		"confirm in idle": {
			op:         func(m *session.Machine) (session.State, error) { return m.Confirm() },
			wantStatus: session.StatusIdle,
		},
		"select in idle": {
			op:         func(m *session.Machine) (session.State, error) { return m.SelectOption("a") },
			wantStatus: session.StatusIdle,
		},
		"next in idle": {
			op:         func(m *session.Machine) (session.State, error) { return m.Next(ctx) },
			wantStatus: session.StatusIdle,
		},
		"retry in idle": {
			op:         func(m *session.Machine) (session.State, error) { return m.Retry(ctx) },
			wantStatus: session.StatusIdle,
		},
		"confirm without selection": {
			setup:      func(t *testing.T, m *session.Machine) { start(t, m) },
			op:         func(m *session.Machine) (session.State, error) { return m.Confirm() },
			wantStatus: session.StatusPlaying,
		},
		"next while playing": {
			setup:      func(t *testing.T, m *session.Machine) { start(t, m) },
			op:         func(m *session.Machine) (session.State, error) { return m.Next(ctx) },
			wantStatus: session.StatusPlaying,
		},
		"start while playing": {
			setup: func(t *testing.T, m *session.Machine) { start(t, m) },
			op: func(m *session.Machine) (session.State, error) {
				return m.Start(ctx, quiz.TopicHistory, quiz.Hard)
			},
			wantStatus: session.StatusPlaying,
		},
		"second confirm": {
			setup: func(t *testing.T, m *session.Machine) {
				start(t, m)
				answer(t, m, "a")
			},
			op:         func(m *session.Machine) (session.State, error) { return m.Confirm() },
			wantStatus: session.StatusAnswered,
		},
		"select after answering": {
			setup: func(t *testing.T, m *session.Machine) {
				start(t, m)
				answer(t, m, "a")
			},
			op:         func(m *session.Machine) (session.State, error) { return m.SelectOption("b") },
			wantStatus: session.StatusAnswered,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			gen := &scriptedGen{}
			m := session.New(session.Config{Generator: gen})
			if tt.setup != nil {
				tt.setup(t, m)
			}
			before, _ := m.Summary()
			calls := len(gen.Inputs())

			st, err := tt.op(m)

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, st.Status())
			after, _ := m.Summary()
			assert.Equal(t, before, after)
			assert.Len(t, gen.Inputs(), calls)
		})
	}
}

func TestMachine_SelectOption(t *testing.T) {
	m := session.New(session.Config{Generator: &scriptedGen{}})
	start(t, m)

	st, err := m.SelectOption("b")
	require.NoError(t, err)
	assert.Equal(t, "b", st.(session.Playing).Selected)

	st, _ = m.SelectOption("zz")
	assert.Equal(t, "b", st.(session.Playing).Selected, "unknown ids are ignored")

	st, _ = m.SelectOption("a")
	assert.Equal(t, "a", st.(session.Playing).Selected, "last selection wins")

	a := answer(t, m, "a")
	assert.Equal(t, "a", a.Answer.SelectedOptionID)
}

func TestMachine_ResetDiscardsInFlightResponse(t *testing.T) {
	gen := newBlockingGen(false)
	m := session.New(session.Config{Generator: gen})

	errCh := make(chan error, 1)
	go func() {
		_, err := m.Start(context.Background(), quiz.TopicScience, quiz.Easy)
		errCh <- err
	}()
	<-gen.called

	st := m.State()
	l, ok := st.(session.Loading)
	require.True(t, ok, "got %s", st.Status())
	assert.Nil(t, l.Session)
	assert.Equal(t, quiz.TopicScience, l.Topic)

	// Only one request may be in flight.
	st, err := m.Start(context.Background(), quiz.TopicHistory, quiz.Hard)
	require.NoError(t, err)
	assert.Equal(t, session.StatusLoading, st.Status())

	st, err = m.Reset()
	require.NoError(t, err)
	assert.Equal(t, session.StatusIdle, st.Status())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, session.ErrStale)
	case <-time.After(5 * time.Second):
		t.Fatal("start did not return after reset")
	}
	assert.Equal(t, session.StatusIdle, m.State().Status())
	assert.Len(t, gen.called, 0)
}

func TestMachine_FetchTimeout(t *testing.T) {
	gen := newBlockingGen(true)
	t.Cleanup(func() { close(gen.release) })
	m := session.New(session.Config{Generator: gen, FetchTimeout: 20 * time.Millisecond})

	st, err := m.Start(context.Background(), quiz.TopicScience, quiz.Easy)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, session.StatusError, st.Status())
	assert.Equal(t, "The question took too long to arrive. Try again.", session.UserMessage(err))
}

func TestMachine_ResetFromPlaying(t *testing.T) {
	m := session.New(session.Config{Generator: &scriptedGen{}})
	start(t, m)

	st, err := m.Reset()
	require.NoError(t, err)
	assert.Equal(t, session.StatusIdle, st.Status())
	_, ok := m.Summary()
	assert.False(t, ok)
}

func TestMachine_SnapshotsAreIsolated(t *testing.T) {
	m := session.New(session.Config{Generator: &scriptedGen{}})
	p := start(t, m)

	p.Session.Answers = append(p.Session.Answers, quiz.Answer{QuestionID: "forged"})
	p.Question.Options[0].Text = "tampered"

	sum, _ := m.Summary()
	assert.Equal(t, 0, sum.TotalAnswered)
	assert.Equal(t, "Right", m.State().(session.Playing).Question.Options[0].Text)
}

func TestMachine_AnonymousIsNotPersisted(t *testing.T) {
	repo := &recordingRepo{}
	m := session.New(session.Config{Generator: &scriptedGen{}, Repo: repo, TotalQuestions: 1})
	start(t, m)
	answer(t, m, "a")
	_, err := m.Next(context.Background())
	require.NoError(t, err)
	m.Close()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Empty(t, repo.calls)
}

func TestMachine_FailedCreateSkipsLaterWrites(t *testing.T) {
	logger, logs := newLogger()
	repo := &recordingRepo{createErr: errors.New("disk full")}
	m := session.New(session.Config{
		Generator:      &scriptedGen{},
		Repo:           repo,
		UserID:         "u1",
		TotalQuestions: 1,
		Logger:         logger,
	})
	start(t, m)
	answer(t, m, "a")
	st, err := m.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.StatusFinished, st.Status(), "persistence failures never block the quiz")
	m.Close()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, []string{"create"}, repo.calls)
	assert.Contains(t, logs.String(), "disk full")
	assert.Contains(t, logs.String(), "session: skipping write")
	assert.Contains(t, logs.String(), "task=finish-session")
}

func TestMachine_FailingWritesNeverBlockTheQuiz(t *testing.T) {
	logger, logs := newLogger()
	repo := &recordingRepo{
		answerErr: errors.New("answers table locked"),
		statsErr:  errors.New("stats table locked"),
		finishErr: errors.New("sessions table locked"),
	}
	m := session.New(session.Config{
		Generator:      &scriptedGen{},
		Repo:           repo,
		UserID:         "u1",
		TotalQuestions: 2,
		Logger:         logger,
	})
	start(t, m)
	answer(t, m, "a")
	st, err := m.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, session.StatusPlaying, st.Status())
	answer(t, m, "b")
	st, err = m.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.StatusFinished, st.Status())

	sum, ok := m.Summary()
	require.True(t, ok)
	assert.Equal(t, 2, sum.TotalAnswered)
	assert.Equal(t, 1, sum.Correct)
	m.Close()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, []string{"create", "answer", "stats", "answer", "stats", "finish"}, repo.calls)

	out := logs.String()
	assert.Contains(t, out, "dispatch: task failed")
	assert.Contains(t, out, "task=record-answer")
	assert.Contains(t, out, "task=update-stats")
	assert.Contains(t, out, "task=finish-session")
	assert.Contains(t, out, "answers table locked")
	assert.Contains(t, out, "sessions table locked")
}

func TestMachine_ClockGoingBackwardsClampsElapsed(t *testing.T) {
	clock := newFakeClock()
	m := session.New(session.Config{Generator: &scriptedGen{}, Now: clock.Now})
	start(t, m)

	clock.Advance(-5 * time.Second)
	a := answer(t, m, "a")
	assert.Equal(t, 0, a.Answer.ElapsedSeconds)
}

func TestMachine_NextAndRetryWhileLoadingAreNoOps(t *testing.T) {
	gen := newBlockingGen(false)
	m := session.New(session.Config{Generator: gen, TotalQuestions: 3})

	go func() { _, _ = m.Start(context.Background(), quiz.TopicScience, quiz.Easy) }()
	<-gen.called
	gen.release <- struct{}{}
	require.Eventually(t, func() bool {
		return m.State().Status() == session.StatusPlaying
	}, 5*time.Second, 10*time.Millisecond)
	answer(t, m, "a")

	errCh := make(chan error, 1)
	go func() {
		_, err := m.Next(context.Background())
		errCh <- err
	}()
	<-gen.called

	st, err := m.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.StatusLoading, st.Status())

	st, err = m.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.StatusLoading, st.Status())

	st, err = m.Start(context.Background(), quiz.TopicHistory, quiz.Hard)
	require.NoError(t, err)
	assert.Equal(t, session.StatusLoading, st.Status())

	assert.Len(t, gen.called, 0, "no second request while one is in flight")

	gen.release <- struct{}{}
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("next did not return after release")
	}
	p, ok := m.State().(session.Playing)
	require.True(t, ok, "got %s", m.State().Status())
	assert.Len(t, p.Session.Answers, 1)
	assert.Equal(t, quiz.TopicScience, p.Session.Topic)
	assert.Len(t, gen.called, 0)
}

func TestMachine_RetryKeepsCurrentDifficulty(t *testing.T) {
	gen := &scriptedGen{results: []genResult{
		{}, {}, {},
		{err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")}},
	}}
	m := session.New(session.Config{Generator: gen})
	start(t, m)
	for i := range 3 {
		answer(t, m, "a")
		if i < 2 {
			_, err := m.Next(context.Background())
			require.NoError(t, err)
		}
	}

	st, err := m.Next(context.Background())
	require.Error(t, err)
	f, ok := st.(session.Failed)
	require.True(t, ok, "got %s", st.Status())
	assert.Equal(t, quiz.Medium, f.Difficulty, "the failed request was for the adapted level")
	assert.Equal(t, quiz.Easy, f.Session.CurrentDifficulty)

	st, err = m.Retry(context.Background())
	require.NoError(t, err)
	p, ok := st.(session.Playing)
	require.True(t, ok, "got %s", st.Status())
	assert.Equal(t, quiz.Easy, p.Session.CurrentDifficulty)

	inputs := gen.Inputs()
	require.Len(t, inputs, 5)
	assert.Equal(t, quiz.Medium, inputs[3].Difficulty)
	assert.Equal(t, quiz.Easy, inputs[4].Difficulty)

	// The adapted level applies again on the next question.
	answer(t, m, "a")
	_, err = m.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, quiz.Medium, gen.Inputs()[5].Difficulty)
}

func TestUserMessage(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"nil":         {err: nil, want: ""},
		"stale":       {err: session.ErrStale, want: ""},
		"rate limit":  {err: &session.ProviderError{Op: "next", Err: &llm.ErrRateLimit{}}, want: "Too many requests. Wait a moment and try again."},
		"quota":       {err: &llm.ErrQuotaExceeded{}, want: "The question service is out of credits. Check your provider account."},
		"unavailable": {err: &llm.ErrProviderUnavailable{}, want: "The question service is unavailable right now. Try again."},
		"truncated":   {err: &llm.ErrMaxTokensExceeded{}, want: "The generated question was malformed. Try again."},
		"validator":   {err: &questiongen.ValidationError{Validator: "choices"}, want: "The generated question was malformed. Try again."},
		"timeout":     {err: fmt.Errorf("wrap: %w", context.DeadlineExceeded), want: "The question took too long to arrive. Try again."},
		"other":       {err: errors.New("boom"), want: "Could not load a question. Try again."},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, session.UserMessage(tt.err))
		})
	}
}
