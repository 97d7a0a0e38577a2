package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// APICallEvent records one HTTP round trip to the classroom API.
type APICallEvent struct {
	ent.Schema
}

func (APICallEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (APICallEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("operation").
			NotEmpty().
			Comment("Gateway operation label, e.g. submit_answer"),
		field.String("method").
			NotEmpty(),
		field.String("path").
			NotEmpty().
			Comment("Request path without query"),
		field.Int("status").
			Default(0).
			Comment("HTTP status, 0 when no response arrived"),
		field.Int64("latency_ms").
			Default(0),
		field.Bool("success"),
		field.String("error_message").
			Default(""),
		field.String("request_id").
			Default("").
			Comment("Value of X-Request-Id sent with the call"),
	}
}

func (APICallEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("operation"),
	}
}
