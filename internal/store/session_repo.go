package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// sessionRepo implements SessionRepo with ent's SQL builder.
type sessionRepo struct {
	s *Store
}

func (r *sessionRepo) CreateSession(ctx context.Context, userID, topic, difficulty string, totalQuestions int) (string, error) {
	id := uuid.NewString()

	query, args := entsql.Dialect(r.s.dialect).
		Insert(sessionsTable).
		Columns("id", "user_id", "topic", "initial_level", "total_questions", "correct_answers", "started_at").
		Values(id, userID, topic, difficulty, totalQuestions, 0, toMillis(r.s.now())).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

func (r *sessionRepo) RecordAnswer(ctx context.Context, sessionID string, rec AnswerRecord) error {
	query, args := entsql.Dialect(r.s.dialect).
		Insert(answersTable).
		Columns("id", "session_id", "question", "selected_answer", "correct_answer", "is_correct", "answered_at").
		Values(uuid.NewString(), sessionID, rec.Question, rec.Selected, rec.Correct, rec.IsCorrect, toMillis(r.s.now())).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}
	return nil
}

func (r *sessionRepo) UpdateStats(ctx context.Context, sessionID string, totalAnswered, correct int) error {
	query, args := entsql.Dialect(r.s.dialect).
		Update(sessionsTable).
		Set("total_questions", totalAnswered).
		Set("correct_answers", correct).
		Where(entsql.EQ("id", sessionID)).
		Query()
	return r.execOne(ctx, "update session stats", query, args)
}

func (r *sessionRepo) FinishSession(ctx context.Context, sessionID string, totalAnswered, correct int) error {
	query, args := entsql.Dialect(r.s.dialect).
		Update(sessionsTable).
		Set("total_questions", totalAnswered).
		Set("correct_answers", correct).
		Set("finished_at", toMillis(r.s.now())).
		Where(entsql.EQ("id", sessionID)).
		Query()
	return r.execOne(ctx, "finish session", query, args)
}

// execOne runs an UPDATE that must touch exactly one row.
func (r *sessionRepo) execOne(ctx context.Context, op, query string, args []any) error {
	res, err := r.s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func (r *sessionRepo) ListSessions(ctx context.Context, userID string, limit int) ([]SessionRow, error) {
	b := entsql.Dialect(r.s.dialect)
	selector := b.Select("id", "user_id", "topic", "initial_level", "total_questions", "correct_answers", "started_at", "finished_at").
		From(b.Table(sessionsTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("started_at"))
	if limit > 0 {
		selector.Limit(limit)
	}

	query, args := selector.Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRow
	for rows.Next() {
		var (
			row        SessionRow
			startedAt  int64
			finishedAt sql.NullInt64
		)
		if err := rows.Scan(&row.ID, &row.UserID, &row.Topic, &row.InitialLevel,
			&row.TotalQuestions, &row.CorrectAnswers, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		row.StartedAt = fromMillis(startedAt)
		if finishedAt.Valid {
			t := fromMillis(finishedAt.Int64)
			row.FinishedAt = &t
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (r *sessionRepo) SessionAnswers(ctx context.Context, sessionID string) ([]AnswerRow, error) {
	b := entsql.Dialect(r.s.dialect)
	query, args := b.Select("id", "session_id", "question", "selected_answer", "correct_answer", "is_correct", "answered_at").
		From(b.Table(answersTable)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Asc("answered_at"), entsql.Asc("id")).
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerRow
	for rows.Next() {
		var (
			row        AnswerRow
			answeredAt int64
		)
		if err := rows.Scan(&row.ID, &row.SessionID, &row.Question, &row.Selected,
			&row.Correct, &row.IsCorrect, &answeredAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		row.AnsweredAt = fromMillis(answeredAt)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}
	return out, nil
}

func (r *sessionRepo) DeleteUserData(ctx context.Context, userID string) (int, error) {
	b := entsql.Dialect(r.s.dialect)

	query, args := b.Select("id").
		From(b.Table(sessionsTable)).
		Where(entsql.EQ("user_id", userID)).
		Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("query user sessions: %w", err)
	}
	var ids []any
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate session ids: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	query, args = b.Delete(answersTable).Where(entsql.In("session_id", ids...)).Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("delete answers: %w", err)
	}
	query, args = b.Delete(sessionsTable).Where(entsql.In("id", ids...)).Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(ids), nil
}
