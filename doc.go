// Package murmur is the Composition Root for the murmur note taker.
//
// murmur captures short notes, typed or dictated through live speech-to-text,
// keeps them durably on the local device and finds them again with a live
// substring search.
//
// The core is split into small packages:
//
//   - pkg/core: notes, the Store that owns the collection, errors and events.
//   - pkg/search: the case-insensitive substring filter.
//   - pkg/dictation: recognition streams and the one-at-a-time Session.
//   - pkg/capture: the typed/dictated capture state machine.
//   - pkg/board: the inbound event surface for a presentation layer.
//
// Storage adapters live under pkg/adapters (fs with optional git history,
// sqlite, memory) next to the speech daemon provider.
//
// Usage:
//
//	b, err := murmur.New("~/.murmur",
//		murmur.WithLogger(logger),
//		murmur.WithLocale("en-US"),
//	)
//
//	b.OnBufferEdited("Buy milk")
//	err = b.OnSaveRequested(ctx)
//	milk := b.OnQueryChanged("milk")
package murmur
