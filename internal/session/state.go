package session

import (
	"slices"
	"time"

	"github.com/abhisek/quizmind/internal/quiz"
)

// Status names a machine state.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusLoading  Status = "loading"
	StatusPlaying  Status = "playing"
	StatusAnswered Status = "answered"
	StatusError    Status = "error"
	StatusFinished Status = "finished"
)

// State is one of Idle, Loading, Playing, Answered, Failed or Finished.
// Values returned by the Machine are snapshots and may be read freely.
type State interface {
	Status() Status
	isState()
}

// Idle is the state before a quiz starts and after a reset.
type Idle struct{}

// Loading waits for a question. Session is nil while the first question
// of a new quiz is requested.
type Loading struct {
	Session    *quiz.Session
	Topic      quiz.Topic
	Difficulty quiz.Difficulty
	Seq        uint64
}

// Playing shows a question. Selected is empty until an option is picked.
type Playing struct {
	Session   *quiz.Session
	Question  *quiz.Question
	Selected  string
	StartedAt time.Time
}

// Answered shows feedback for the confirmed answer.
type Answered struct {
	Session  *quiz.Session
	Question *quiz.Question
	Answer   quiz.Answer
}

// Failed is the error state. Session is nil when the first question of a
// quiz could not be loaded.
type Failed struct {
	Session    *quiz.Session
	Topic      quiz.Topic
	Difficulty quiz.Difficulty
	Err        error
}

// Finished is the terminal state of a completed quiz.
type Finished struct {
	Session *quiz.Session
}

func (Idle) Status() Status     { return StatusIdle }
func (Loading) Status() Status  { return StatusLoading }
func (Playing) Status() Status  { return StatusPlaying }
func (Answered) Status() Status { return StatusAnswered }
func (Failed) Status() Status   { return StatusError }
func (Finished) Status() Status { return StatusFinished }

func (Idle) isState()     {}
func (Loading) isState()  {}
func (Playing) isState()  {}
func (Answered) isState() {}
func (Failed) isState()   {}
func (Finished) isState() {}

// SessionOf returns the session carried by s, or nil.
func SessionOf(s State) *quiz.Session {
	switch s := s.(type) {
	case Loading:
		return s.Session
	case Playing:
		return s.Session
	case Answered:
		return s.Session
	case Failed:
		return s.Session
	case Finished:
		return s.Session
	}
	return nil
}

func snapshot(s State) State {
	switch s := s.(type) {
	case Loading:
		s.Session = s.Session.Clone()
		return s
	case Playing:
		s.Session = s.Session.Clone()
		s.Question = cloneQuestion(s.Question)
		return s
	case Answered:
		s.Session = s.Session.Clone()
		s.Question = cloneQuestion(s.Question)
		return s
	case Failed:
		s.Session = s.Session.Clone()
		return s
	case Finished:
		s.Session = s.Session.Clone()
		return s
	}
	return s
}

func cloneQuestion(q *quiz.Question) *quiz.Question {
	if q == nil {
		return nil
	}
	c := *q
	c.Options = slices.Clone(q.Options)
	return &c
}
