package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when an update targets a row that does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int       // id > After
	Before int       // id < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SessionRow is a persisted quiz session as shown in history.
type SessionRow struct {
	ID             string
	UserID         string
	Topic          string
	InitialLevel   string
	TotalQuestions int
	CorrectAnswers int
	StartedAt      time.Time
	FinishedAt     *time.Time
}

// Complete reports whether the session reached its final question.
func (r SessionRow) Complete() bool {
	return r.FinishedAt != nil
}

// AnswerRecord is what the quiz writes for each confirmed answer. The
// texts are stored rather than ids so history survives without the
// generated question.
type AnswerRecord struct {
	Question  string
	Selected  string
	Correct   string
	IsCorrect bool
}

// AnswerRow is a persisted answer.
type AnswerRow struct {
	ID         string
	SessionID  string
	Question   string
	Selected   string
	Correct    string
	IsCorrect  bool
	AnsweredAt time.Time
}

// SessionRepo persists quiz sessions and their answers.
type SessionRepo interface {
	// CreateSession inserts a new session row and returns its id.
	CreateSession(ctx context.Context, userID, topic, difficulty string, totalQuestions int) (string, error)

	// RecordAnswer appends an answer to a session.
	RecordAnswer(ctx context.Context, sessionID string, rec AnswerRecord) error

	// UpdateStats overwrites the running totals of a session.
	UpdateStats(ctx context.Context, sessionID string, totalAnswered, correct int) error

	// FinishSession stamps finished_at and writes the final totals.
	FinishSession(ctx context.Context, sessionID string, totalAnswered, correct int) error

	// ListSessions returns a user's sessions, newest first. limit <= 0
	// means no limit.
	ListSessions(ctx context.Context, userID string, limit int) ([]SessionRow, error)

	// SessionAnswers returns a session's answers in the order given.
	SessionAnswers(ctx context.Context, sessionID string) ([]AnswerRow, error)

	// DeleteUserData removes every session and answer of a user and
	// returns the number of sessions deleted.
	DeleteUserData(ctx context.Context, userID string) (int, error)
}

// LLMRequestEventData captures the data for a single LLM request.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request.
type LLMEventRecord struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates requests under one key (purpose or model).
type LLMUsage struct {
	Key          string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
}

// LLMEventRepo is the write side used by the LLM logging middleware.
type LLMEventRepo interface {
	// AppendLLMRequest records an LLM API call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// EventRepo adds the read side used by `quizmind llm`.
type EventRepo interface {
	LLMEventRepo

	// QueryLLMEvents returns requests newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns a single request, or nil if none has that id.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates requests per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates requests per model id.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
