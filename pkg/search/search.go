// Package search derives the visible subset of notes from a query string.
//
// Matching is plain case-insensitive substring containment over the note
// content. There is no ranking, tokenization or index: the collection is
// scanned linearly on every query change.
package search

import (
	"strings"

	"github.com/aretw0/murmur/pkg/core"
)

// Filter returns, in their original order, the notes whose content contains
// query ignoring case. An empty query returns notes unchanged.
// Filter has no side effects and never modifies notes.
func Filter(notes []core.Note, query string) []core.Note {
	if query == "" {
		return notes
	}

	needle := strings.ToLower(query)
	out := make([]core.Note, 0, len(notes))
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Content), needle) {
			out = append(out, n)
		}
	}
	return out
}

// Matches reports whether a single note passes Filter for query.
func Matches(n core.Note, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(n.Content), strings.ToLower(query))
}
