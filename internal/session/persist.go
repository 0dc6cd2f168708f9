package session

import (
	"context"
	"errors"

	"github.com/abhisek/quizmind/internal/quiz"
	"github.com/abhisek/quizmind/internal/store"
)

var errNoRemoteSession = errors.New("remote session was not created")

// remoteSession holds the store-side id of the current quiz. It is only
// touched by queued tasks, which run one at a time in order.
type remoteSession struct {
	id string
}

func (m *Machine) persistEnabled() bool {
	return m.repo != nil && m.userID != ""
}

func (m *Machine) persistCreateLocked(ctx context.Context, sess *quiz.Session) {
	if !m.persistEnabled() {
		return
	}

	rs := &remoteSession{}
	m.remote = rs

	userID := m.userID
	topic := string(sess.Topic)
	level := string(sess.InitialDifficulty)
	total := sess.TotalQuestions
	m.queue.Submit(ctx, "create-session", func(ctx context.Context) error {
		id, err := m.repo.CreateSession(ctx, userID, topic, level, total)
		if err != nil {
			return err
		}
		rs.id = id
		return nil
	})
}

func (m *Machine) persistAnswerLocked(q *quiz.Question, selected quiz.Option, a quiz.Answer) {
	rs := m.remote
	if rs == nil {
		return
	}

	correct, _ := q.CorrectOption()
	rec := store.AnswerRecord{
		Question:  q.Text,
		Selected:  selected.Text,
		Correct:   correct.Text,
		IsCorrect: a.IsCorrect,
	}
	answered := len(m.session.Answers)
	right := m.session.CorrectCount()

	ctx := context.Background()
	m.queue.Submit(ctx, "record-answer", m.remoteTask(rs, "record-answer", func(ctx context.Context, id string) error {
		return m.repo.RecordAnswer(ctx, id, rec)
	}))
	m.queue.Submit(ctx, "update-stats", m.remoteTask(rs, "update-stats", func(ctx context.Context, id string) error {
		return m.repo.UpdateStats(ctx, id, answered, right)
	}))
}

func (m *Machine) persistFinishLocked(sess *quiz.Session) {
	rs := m.remote
	if rs == nil {
		return
	}

	answered := len(sess.Answers)
	right := sess.CorrectCount()
	m.queue.Submit(context.Background(), "finish-session", m.remoteTask(rs, "finish-session", func(ctx context.Context, id string) error {
		return m.repo.FinishSession(ctx, id, answered, right)
	}))
}

// remoteTask skips fn when the session row was never created.
func (m *Machine) remoteTask(rs *remoteSession, name string, fn func(ctx context.Context, id string) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if rs.id == "" {
			m.logger.WarnContext(ctx, "session: skipping write", "task", name, "error", errNoRemoteSession)
			return nil
		}
		return fn(ctx, rs.id)
	}
}
