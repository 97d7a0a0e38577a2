package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records an answer submitted while taking a test.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.Int("test_id"),
		field.Int("question_id"),
		field.Int("option_id"),
		field.Bool("correct").
			Comment("Server verdict"),
		field.String("message").
			Default("").
			Comment("Server message shown in the feedback modal"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("test_id"),
	}
}
