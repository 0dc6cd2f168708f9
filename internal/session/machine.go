// Package session drives a single adaptive quiz: it requests questions,
// scores answers, adapts the difficulty and hands persistence writes to a
// background queue.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/abhisek/quizmind/internal/difficulty"
	"github.com/abhisek/quizmind/internal/dispatch"
	"github.com/abhisek/quizmind/internal/questiongen"
	"github.com/abhisek/quizmind/internal/quiz"
	"github.com/abhisek/quizmind/internal/store"
)

// DefaultFetchTimeout bounds a single question request.
const DefaultFetchTimeout = 20 * time.Second

// Config wires a Machine.
type Config struct {
	Generator questiongen.Generator

	// Repo receives best-effort writes. Nil disables persistence.
	Repo store.SessionRepo

	// Queue runs the writes. When nil and Repo is set the machine owns a
	// queue of its own, released by Close.
	Queue *dispatch.Queue

	// UserID scopes persistence. Anonymous players are never persisted.
	UserID string

	TotalQuestions int
	FetchTimeout   time.Duration
	Now            func() time.Time
	Logger         *slog.Logger
}

// Machine is the quiz state machine. All methods are safe for concurrent
// use; at most one question request is in flight at a time.
type Machine struct {
	gen          questiongen.Generator
	repo         store.SessionRepo
	queue        *dispatch.Queue
	ownsQueue    bool
	userID       string
	total        int
	fetchTimeout time.Duration
	now          func() time.Time
	logger       *slog.Logger

	mu      sync.Mutex
	state   State
	session *quiz.Session
	seq     uint64
	cancel  context.CancelFunc
	remote  *remoteSession
}

// New returns a machine in the idle state.
func New(c Config) *Machine {
	if c.TotalQuestions <= 0 {
		c.TotalQuestions = quiz.DefaultTotalQuestions
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	m := &Machine{
		gen:          c.Generator,
		repo:         c.Repo,
		queue:        c.Queue,
		userID:       c.UserID,
		total:        c.TotalQuestions,
		fetchTimeout: c.FetchTimeout,
		now:          c.Now,
		logger:       c.Logger,
		state:        Idle{},
	}
	if m.repo != nil && m.queue == nil {
		m.queue = dispatch.New(dispatch.Options{Logger: c.Logger})
		m.ownsQueue = true
	}
	return m
}

// Close cancels any in-flight request and drains the persistence queue
// when the machine owns it.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()

	if m.ownsQueue {
		m.queue.Close()
	}
}

// State returns a snapshot of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot(m.state)
}

// Summary summarizes the current session. It reports false when there is
// no session.
func (m *Machine) Summary() (quiz.Summary, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return quiz.Summary{}, false
	}
	return quiz.Summarize(m.session), true
}

// Start begins a new quiz and loads its first question. It is accepted
// from idle, finished, and from the error state of a quiz that never got
// its first question. No session exists until that question arrives.
func (m *Machine) Start(ctx context.Context, topic quiz.Topic, level quiz.Difficulty) (State, error) {
	if _, ok := quiz.LookupTopic(topic); !ok {
		return m.State(), fmt.Errorf("start: unknown topic %q", topic)
	}
	if !level.Valid() {
		return m.State(), fmt.Errorf("start: unknown difficulty %q", level)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch s := m.state.(type) {
	case Idle, Finished:
	case Failed:
		if s.Session != nil {
			return snapshot(m.state), nil
		}
	default:
		return snapshot(m.state), nil
	}

	m.session = nil
	m.remote = nil
	return m.loadLocked(ctx, "start", nil, topic, level)
}

// SelectOption marks an option of the current question. The last
// selection wins; unknown ids are ignored.
func (m *Machine) SelectOption(id string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.state.(Playing)
	if !ok || p.Question == nil {
		return snapshot(m.state), nil
	}
	if _, ok := p.Question.Option(id); !ok {
		return snapshot(m.state), nil
	}
	p.Selected = id
	m.state = p
	return snapshot(m.state), nil
}

// Confirm scores the selected option and moves to answered.
func (m *Machine) Confirm() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.state.(Playing)
	if !ok || p.Selected == "" || p.Question == nil || p.Session == nil || p.StartedAt.IsZero() {
		return snapshot(m.state), nil
	}
	opt, ok := p.Question.Option(p.Selected)
	if !ok || p.Session.Done() {
		return snapshot(m.state), nil
	}

	elapsed := int(math.Round(m.now().Sub(p.StartedAt).Seconds()))
	if elapsed < 0 {
		elapsed = 0
	}

	answer := quiz.Answer{
		QuestionID:       p.Question.ID,
		SelectedOptionID: opt.ID,
		IsCorrect:        opt.IsCorrect,
		ElapsedSeconds:   elapsed,
		Difficulty:       p.Session.CurrentDifficulty,
	}
	p.Session.Answers = append(p.Session.Answers, answer)
	m.state = Answered{Session: p.Session, Question: p.Question, Answer: answer}

	m.persistAnswerLocked(p.Question, opt, answer)
	return snapshot(m.state), nil
}

// Next finishes the quiz when the question target is reached and
// otherwise loads the next question at the adapted difficulty.
func (m *Machine) Next(ctx context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.state.(Answered)
	if !ok {
		return snapshot(m.state), nil
	}
	sess := a.Session

	if sess.Done() {
		ended := m.now()
		sess.EndedAt = &ended
		m.state = Finished{Session: sess}
		m.persistFinishLocked(sess)
		return snapshot(m.state), nil
	}

	level := difficulty.Next(sess.Answers, sess.CurrentDifficulty)
	return m.loadLocked(ctx, "next", sess, sess.Topic, level)
}

// Retry requests a question again after a failure mid-quiz, at the
// session's current difficulty.
func (m *Machine) Retry(ctx context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.state.(Failed)
	if !ok || f.Session == nil {
		return snapshot(m.state), nil
	}
	// CurrentDifficulty only moves when a question at the adapted level
	// arrives, so the retry asks at the last delivered level and Next
	// adapts again afterwards.
	return m.loadLocked(ctx, "retry", f.Session, f.Session.Topic, f.Session.CurrentDifficulty)
}

// Reset abandons the current quiz and returns to idle. A request in
// flight is cancelled and its response discarded.
func (m *Machine) Reset() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.seq++
	m.state = Idle{}
	m.session = nil
	m.remote = nil
	return snapshot(m.state), nil
}

// loadLocked must be called with m.mu held. It releases the lock while
// the question is fetched and holds it again on return.
func (m *Machine) loadLocked(ctx context.Context, op string, sess *quiz.Session, topic quiz.Topic, level quiz.Difficulty) (State, error) {
	m.seq++
	seq := m.seq
	fetchCtx, cancel := context.WithTimeout(ctx, m.fetchTimeout)
	m.cancel = cancel
	m.state = Loading{Session: sess, Topic: topic, Difficulty: level, Seq: seq}

	input := questiongen.GenerateInput{
		UserID:     m.userID,
		Topic:      topic,
		Difficulty: level,
	}
	if sess != nil {
		input.PreviousQuestionIDs = sess.AskedQuestionIDs()
	}

	m.mu.Unlock()
	q, err := m.fetch(fetchCtx, input)
	cancel()
	m.mu.Lock()

	if l, ok := m.state.(Loading); !ok || l.Seq != seq {
		m.logger.DebugContext(ctx, "session: discarding stale question", "op", op, "seq", seq)
		return snapshot(m.state), ErrStale
	}
	m.cancel = nil

	if err != nil {
		perr := &ProviderError{Op: op, Err: err}
		m.logger.WarnContext(ctx, "session: question request failed",
			"op", op,
			"topic", topic,
			"difficulty", level,
			"error", err,
		)
		m.state = Failed{Session: sess, Topic: topic, Difficulty: level, Err: perr}
		return snapshot(m.state), perr
	}

	if sess == nil {
		sess = quiz.NewSession(topic, level, m.total, m.now())
		m.session = sess
		m.persistCreateLocked(ctx, sess)
	} else {
		sess.CurrentDifficulty = level
	}

	m.state = Playing{Session: sess, Question: q, StartedAt: m.now()}
	return snapshot(m.state), nil
}

type fetchResult struct {
	q   *quiz.Question
	err error
}

// fetch enforces ctx even when the generator ignores it, and rejects
// questions that break the shape invariants.
func (m *Machine) fetch(ctx context.Context, input questiongen.GenerateInput) (*quiz.Question, error) {
	done := make(chan fetchResult, 1)
	go func() {
		q, err := m.gen.Generate(ctx, input)
		done <- fetchResult{q: q, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		if err := quiz.ValidateQuestion(r.q); err != nil {
			return nil, err
		}
		return r.q, nil
	}
}
