package core

import "time"

// Note is the central entity of the domain.
// It is an immutable, timestamped piece of text identified by an ID.
// Once created a Note is never modified; deleting it removes it wholesale.
type Note struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	Content   string    `json:"content" yaml:"content"`
}

// Clone returns a copy of the collection so callers never share the
// backing array owned by the Store.
func Clone(notes []Note) []Note {
	if notes == nil {
		return []Note{}
	}
	out := make([]Note, len(notes))
	copy(out, notes)
	return out
}

// IndexOf returns the position of the note with the given id, or -1.
func IndexOf(notes []Note, id string) int {
	for i, n := range notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}
