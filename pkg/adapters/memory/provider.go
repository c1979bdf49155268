package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/murmur/pkg/core"
	"github.com/aretw0/murmur/pkg/dictation"
)

// Provider is a scripted transcription provider. Each Open creates a Stream
// the test drives with Partial, Emit, Fail and End.
type Provider struct {
	mu          sync.Mutex
	unavailable bool
	streams     []*Stream
	opened      chan *Stream
}

// NewProvider creates a provider with transcription available.
func NewProvider() *Provider {
	return &Provider{opened: make(chan *Stream, 16)}
}

// SetUnavailable makes subsequent Open calls fail with core.ErrCapabilityUnavailable.
func (p *Provider) SetUnavailable(unavailable bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unavailable = unavailable
}

// Open implements dictation.Provider.
func (p *Provider) Open(ctx context.Context, cfg dictation.Config) (dictation.Stream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unavailable {
		return nil, core.ErrCapabilityUnavailable
	}
	s := &Stream{
		cfg:    cfg,
		items:  make(chan item),
		closed: make(chan struct{}),
	}
	p.streams = append(p.streams, s)
	select {
	case p.opened <- s:
	default:
	}
	return s, nil
}

// Streams returns every stream opened so far.
func (p *Provider) Streams() []*Stream {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Stream, len(p.streams))
	copy(out, p.streams)
	return out
}

// Last returns the most recently opened stream, or nil.
func (p *Provider) Last() *Stream {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.streams) == 0 {
		return nil
	}
	return p.streams[len(p.streams)-1]
}

// Opened delivers streams as they are opened.
func (p *Provider) Opened() <-chan *Stream {
	return p.opened
}

type item struct {
	res dictation.Result
	err error
}

// Stream is a scripted recognition stream.
type Stream struct {
	cfg       dictation.Config
	items     chan item
	closed    chan struct{}
	closeOnce sync.Once
}

// Config returns the settings the stream was opened with.
func (s *Stream) Config() dictation.Config { return s.cfg }

// Recv implements dictation.Stream.
func (s *Stream) Recv(ctx context.Context) (dictation.Result, error) {
	select {
	case it := <-s.items:
		return it.res, it.err
	case <-s.closed:
		return dictation.Result{}, io.EOF
	case <-ctx.Done():
		return dictation.Result{}, ctx.Err()
	}
}

// Close implements dictation.Stream.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

// Closed reports whether the capture device was released.
func (s *Stream) Closed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// Emit delivers res to the reader. It returns false if the stream was closed
// before the result was taken.
func (s *Stream) Emit(res dictation.Result) bool {
	return s.send(item{res: res})
}

// Partial delivers a result made of one interim segment per text.
func (s *Stream) Partial(texts ...string) bool {
	res := dictation.Result{}
	for _, t := range texts {
		res.Segments = append(res.Segments, dictation.Segment{
			Alternatives: []dictation.Alternative{{Transcript: t, Confidence: 0.9}},
		})
	}
	return s.Emit(res)
}

// Fail delivers a transient recognition error.
func (s *Stream) Fail(msg string) bool {
	return s.send(item{err: fmt.Errorf("%w: %s", core.ErrRecognitionStream, msg)})
}

// End makes the provider terminate the stream on its own.
func (s *Stream) End() bool {
	return s.send(item{err: io.EOF})
}

// Abort terminates the stream with a non-transient error.
func (s *Stream) Abort(msg string) bool {
	return s.send(item{err: errors.New(msg)})
}

func (s *Stream) send(it item) bool {
	select {
	case s.items <- it:
		return true
	case <-s.closed:
		return false
	}
}

var _ dictation.Provider = (*Provider)(nil)
var _ dictation.Stream = (*Stream)(nil)
