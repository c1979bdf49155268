package core

import "context"

// Repository defines the contract for the durable notes record.
// The whole collection is a single record: it is read once at startup and
// overwritten in full on every mutation. Adhering to this interface keeps the
// core independent of the storage mechanism (file, SQLite, memory).
type Repository interface {
	// Initialize ensures the underlying storage is ready (directories, schema).
	Initialize(ctx context.Context) error

	// Load returns the persisted collection, newest first.
	// It returns ErrRecordNotFound if nothing was ever saved.
	Load(ctx context.Context) ([]Note, error)

	// Save overwrites the persisted collection.
	Save(ctx context.Context, notes []Note) error
}

// Watchable is implemented by repositories that can report external changes
// to the record (e.g. another process writing the same file).
type Watchable interface {
	// Watch emits an event each time the record changes on the backing store.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
