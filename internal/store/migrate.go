package store

import (
	"context"
	"fmt"
	"math"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	sessionsTable    = "quiz_sessions"
	answersTable     = "quiz_answers"
	llmRequestsTable = "llm_requests"
)

var (
	sessionColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "user_id", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString},
		{Name: "initial_level", Type: field.TypeString},
		{Name: "total_questions", Type: field.TypeInt, Default: 0},
		{Name: "correct_answers", Type: field.TypeInt, Default: 0},
		{Name: "started_at", Type: field.TypeInt64},
		{Name: "finished_at", Type: field.TypeInt64, Nullable: true},
	}
	sessionsSchema = &schema.Table{
		Name:       sessionsTable,
		Columns:    sessionColumns,
		PrimaryKey: []*schema.Column{sessionColumns[0]},
		Indexes: []*schema.Index{
			{Name: "quizsession_user_id_started_at", Columns: []*schema.Column{sessionColumns[1], sessionColumns[6]}},
		},
	}

	answerColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "session_id", Type: field.TypeString, Size: 36},
		{Name: "question", Type: field.TypeString, Size: math.MaxInt32},
		{Name: "selected_answer", Type: field.TypeString, Size: math.MaxInt32},
		{Name: "correct_answer", Type: field.TypeString, Size: math.MaxInt32},
		{Name: "is_correct", Type: field.TypeBool},
		{Name: "answered_at", Type: field.TypeInt64},
	}
	answersSchema = &schema.Table{
		Name:       answersTable,
		Columns:    answerColumns,
		PrimaryKey: []*schema.Column{answerColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quiz_answers_quiz_sessions_answers",
				Columns:    []*schema.Column{answerColumns[1]},
				RefColumns: []*schema.Column{sessionColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "quizanswer_session_id_answered_at", Columns: []*schema.Column{answerColumns[1], answerColumns[6]}},
		},
	}

	llmRequestColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: math.MaxInt32, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: math.MaxInt32, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: math.MaxInt32, Default: ""},
	}
	llmRequestsSchema = &schema.Table{
		Name:       llmRequestsTable,
		Columns:    llmRequestColumns,
		PrimaryKey: []*schema.Column{llmRequestColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequest_purpose", Columns: []*schema.Column{llmRequestColumns[4]}},
			{Name: "llmrequest_timestamp", Columns: []*schema.Column{llmRequestColumns[1]}},
		},
	}

	tables = []*schema.Table{sessionsSchema, answersSchema, llmRequestsSchema}
)

func init() {
	answersSchema.ForeignKeys[0].RefTable = sessionsSchema
}

// migrate creates or updates all tables for the store's dialect.
func (s *Store) migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(entsql.OpenDB(s.dialect, s.db))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
