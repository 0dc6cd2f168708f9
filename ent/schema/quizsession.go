package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizSession is one quiz played by a named user.
type QuizSession struct {
	ent.Schema
}

func (QuizSession) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			MaxLen(36).
			NotEmpty().
			Immutable().
			Comment("UUID assigned when the quiz starts"),
		field.String("user_id").
			NotEmpty().
			Comment("Player the quiz belongs to"),
		field.String("topic").
			NotEmpty().
			Comment("Topic id, e.g. science"),
		field.String("initial_level").
			NotEmpty().
			Comment("easy, medium or hard"),
		field.Int("total_questions").
			Default(0).
			Comment("Questions answered so far"),
		field.Int("correct_answers").
			Default(0),
		field.Int64("started_at").
			Comment("Unix seconds"),
		field.Int64("finished_at").
			Optional().
			Nillable().
			Comment("Unix seconds; null while the quiz is incomplete"),
	}
}

func (QuizSession) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("answers", QuizAnswer.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

func (QuizSession) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "started_at"),
	}
}
