package search_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/murmur/pkg/core"
	"github.com/aretw0/murmur/pkg/search"
)

func sample() []core.Note {
	return []core.Note{
		{ID: "4", Content: "Call MOM about Sunday"},
		{ID: "3", Content: "Buy milk"},
		{ID: "2", Content: "milkshake recipe"},
		{ID: "1", Content: "Ideias para o projeto"},
	}
}

func ids(notes []core.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func TestFilter_EmptyQueryIsIdentity(t *testing.T) {
	notes := sample()
	got := search.Filter(notes, "")
	require.Len(t, got, len(notes))
	assert.Equal(t, notes, got)
	// Same backing array: the identity filter does not copy.
	assert.Same(t, &notes[0], &got[0])
}

func TestFilter(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"milk", []string{"3", "2"}},
		{"MILK", []string{"3", "2"}},
		{"mom", []string{"4"}},
		{"bread", []string{}},
		{"o p", []string{"1"}},
		{" ", []string{"4", "3", "2", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(search.Filter(sample(), tt.query)))
		})
	}
}

func TestFilter_SoundAndComplete(t *testing.T) {
	notes := sample()
	for _, q := range []string{"a", "M", "milk", "sunday", "x", "ideias", "e r"} {
		got := search.Filter(notes, q)
		inResult := make(map[string]bool)
		for _, n := range got {
			inResult[n.ID] = true
			assert.True(t, strings.Contains(strings.ToLower(n.Content), strings.ToLower(q)),
				"unsound: %q does not contain %q", n.Content, q)
		}
		for _, n := range notes {
			if search.Matches(n, q) {
				assert.True(t, inResult[n.ID], "incomplete: %q missing for %q", n.Content, q)
			}
		}
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	notes := sample()
	_ = search.Filter(notes, "milk")
	assert.Equal(t, sample(), notes)
}

func BenchmarkFilter(b *testing.B) {
	notes := make([]core.Note, 0, 1000)
	for i := 0; i < 1000; i++ {
		notes = append(notes, core.Note{ID: fmt.Sprint(i), Content: fmt.Sprintf("note number %d about groceries", i)})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		search.Filter(notes, "Groceries")
	}
}
