package store

import (
	"testing"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entschema "github.com/abhisek/quizmind/ent/schema"
)

type entSchema interface {
	Fields() []ent.Field
	Indexes() []ent.Index
}

// TestTablesMatchEntSchema keeps the migrated tables in step with the ent
// schema definitions.
func TestTablesMatchEntSchema(t *testing.T) {
	tests := map[string]struct {
		schema entSchema
		table  *schema.Table
		index  string
	}{
		"sessions":     {entschema.QuizSession{}, sessionsSchema, "quizsession"},
		"answers":      {entschema.QuizAnswer{}, answersSchema, "quizanswer"},
		"llm requests": {entschema.LLMRequest{}, llmRequestsSchema, "llmrequest"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			for _, f := range tc.schema.Fields() {
				d := f.Descriptor()
				col, ok := tc.table.Column(d.Name)
				require.True(t, ok, "column %s missing from %s", d.Name, tc.table.Name)
				assert.Equal(t, d.Info.Type, col.Type, d.Name)
				assert.Equal(t, d.Size, col.Size, d.Name)
				assert.Equal(t, d.Optional, col.Nullable, d.Name)
			}

			fields := len(tc.schema.Fields())
			if tc.table.PrimaryKey[0].Increment {
				fields++
			}
			assert.Len(t, tc.table.Columns, fields)

			var want []string
			for _, idx := range tc.schema.Indexes() {
				name := tc.index
				for _, f := range idx.Descriptor().Fields {
					name += "_" + f
				}
				want = append(want, name)
			}
			var got []string
			for _, idx := range tc.table.Indexes {
				got = append(got, idx.Name)
			}
			assert.ElementsMatch(t, want, got)
		})
	}
}
