package store

import (
	"testing"

	"entgo.io/ent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entschema "github.com/abhisek/classquiz/ent/schema"
)

func columns(t *testing.T, s *Store, table string) map[string]bool {
	t.Helper()
	rows, err := s.DB().Query("PRAGMA table_info(" + table + ")")
	require.NoError(t, err)
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notnull int
			dflt    any
			pk      int
		)
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk))
		cols[name] = true
	}
	require.NoError(t, rows.Err())
	return cols
}

func TestTablesMatchEntSchema(t *testing.T) {
	s := openTestStore(t)
	mixinFields := entschema.EventMixin{}.Fields()

	tests := []struct {
		table  string
		fields []ent.Field
	}{
		{"api_call_events", entschema.APICallEvent{}.Fields()},
		{"answer_events", entschema.AnswerEvent{}.Fields()},
		{"score_events", entschema.ScoreEvent{}.Fields()},
	}
	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			cols := columns(t, s, tt.table)
			want := append(append([]ent.Field{}, mixinFields...), tt.fields...)
			assert.Len(t, cols, len(want)+1, "columns besides id")
			for _, f := range want {
				name := f.Descriptor().Name
				assert.True(t, cols[name], "missing column %s", name)
			}
		})
	}
}
