package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizAnswer records a single answered question with its texts.
type QuizAnswer struct {
	ent.Schema
}

func (QuizAnswer) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			MaxLen(36).
			NotEmpty().
			Immutable(),
		field.String("session_id").
			MaxLen(36).
			NotEmpty().
			Comment("Links to QuizSession"),
		field.Text("question"),
		field.Text("selected_answer").
			Comment("Text of the option the player chose"),
		field.Text("correct_answer"),
		field.Bool("is_correct"),
		field.Int64("answered_at").
			Comment("Unix seconds"),
	}
}

func (QuizAnswer) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("session", QuizSession.Type).
			Ref("answers").
			Field("session_id").
			Unique().
			Required(),
	}
}

func (QuizAnswer) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id", "answered_at"),
	}
}
