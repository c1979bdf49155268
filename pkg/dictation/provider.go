// Package dictation turns a live transcription stream into incrementally
// updated note text.
//
// A Provider opens recognition streams; a Session drives one stream, keeps
// the accumulated transcript and publishes full-text snapshots until it is
// stopped or the provider ends the stream. Exclusive guarantees that at most
// one Session records at a time.
package dictation

import (
	"context"
	"strings"
)

// DefaultLocale is the recognition language used when none is configured.
const DefaultLocale = "pt-BR"

// Config describes how the provider should recognize speech.
type Config struct {
	Locale string `json:"locale"`
	// Continuous keeps listening until explicitly stopped instead of ending after a pause.
	Continuous bool `json:"continuous"`
	// MaxAlternatives is the number of readings returned per segment.
	MaxAlternatives int `json:"maxAlternatives"`
	// InterimResults delivers partial results while the user is still speaking.
	InterimResults bool `json:"interimResults"`
}

// DefaultConfig returns the recognition settings used for note dictation:
// continuous, single best reading, interim results on.
func DefaultConfig(locale string) Config {
	if locale == "" {
		locale = DefaultLocale
	}
	return Config{
		Locale:          locale,
		Continuous:      true,
		MaxAlternatives: 1,
		InterimResults:  true,
	}
}

// Alternative is one reading of a recognized segment.
type Alternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

// Segment is a recognized stretch of speech. Alternatives are ranked best first.
// Final is false while the provider may still revise the segment.
type Segment struct {
	Alternatives []Alternative `json:"alternatives"`
	Final        bool          `json:"final"`
}

// Result is one provider update: every segment observed so far in the
// stream, in arrival order, interim segments included.
type Result struct {
	Segments []Segment `json:"segments"`
}

// Transcript concatenates the best reading of every segment.
func (r Result) Transcript() string {
	var sb strings.Builder
	for _, seg := range r.Segments {
		if len(seg.Alternatives) == 0 {
			continue
		}
		sb.WriteString(seg.Alternatives[0].Transcript)
	}
	return sb.String()
}

// Provider opens recognition streams on the host transcription capability.
type Provider interface {
	// Open starts listening. It returns an error wrapping
	// core.ErrCapabilityUnavailable when the host cannot transcribe speech.
	Open(ctx context.Context, cfg Config) (Stream, error)
}

// Checker is implemented by providers that can tell, without opening a
// stream, whether their backend is reachable.
type Checker interface {
	Available() bool
}

// Stream is a live recognition stream.
type Stream interface {
	// Recv blocks until the next result.
	// Errors wrapping core.ErrRecognitionStream are transient; io.EOF or any
	// other error means the provider ended the stream.
	Recv(ctx context.Context) (Result, error)

	// Close ends the stream and releases the capture device.
	Close() error
}
