package dictation_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/murmur/pkg/adapters/memory"
	"github.com/aretw0/murmur/pkg/core"
	"github.com/aretw0/murmur/pkg/dictation"
)

const waitFor = time.Second

func TestDefaultConfig(t *testing.T) {
	cfg := dictation.DefaultConfig("")
	assert.Equal(t, dictation.DefaultLocale, cfg.Locale)
	assert.True(t, cfg.Continuous)
	assert.Equal(t, 1, cfg.MaxAlternatives)
	assert.True(t, cfg.InterimResults)

	assert.Equal(t, "en-US", dictation.DefaultConfig("en-US").Locale)
}

func TestResult_Transcript(t *testing.T) {
	res := dictation.Result{Segments: []dictation.Segment{
		{Alternatives: []dictation.Alternative{{Transcript: "call"}, {Transcript: "tall"}}, Final: true},
		{},
		{Alternatives: []dictation.Alternative{{Transcript: " mom"}}},
	}}
	assert.Equal(t, "call mom", res.Transcript())
}

func TestStart_NoProvider(t *testing.T) {
	_, err := dictation.Start(context.Background(), nil, dictation.DefaultConfig(""), nil)
	assert.ErrorIs(t, err, core.ErrCapabilityUnavailable)
}

func TestStart_ProviderUnavailable(t *testing.T) {
	p := memory.NewProvider()
	p.SetUnavailable(true)
	_, err := dictation.Start(context.Background(), p, dictation.DefaultConfig(""), nil)
	assert.ErrorIs(t, err, core.ErrCapabilityUnavailable)
}

func TestSession_Snapshots(t *testing.T) {
	p := memory.NewProvider()
	s, err := dictation.Start(context.Background(), p, dictation.DefaultConfig("pt-BR"), nil)
	require.NoError(t, err)
	defer s.Stop()

	assert.Equal(t, core.SessionRecording, s.State())
	stream := p.Last()
	require.NotNil(t, stream)
	assert.True(t, stream.Config().Continuous)
	assert.Equal(t, "pt-BR", stream.Config().Locale)

	require.True(t, stream.Partial("hello"))
	assert.Equal(t, "hello", next(t, s))

	// Full recomputation: the second result supersedes the first.
	require.True(t, stream.Partial("hello", " world"))
	assert.Equal(t, "hello world", next(t, s))
	assert.Equal(t, "hello world", s.Transcript())
}

func TestSession_Stop(t *testing.T) {
	p := memory.NewProvider()
	s, err := dictation.Start(context.Background(), p, dictation.DefaultConfig(""), nil)
	require.NoError(t, err)
	stream := p.Last()

	require.True(t, stream.Partial("call mom"))
	assert.Equal(t, "call mom", next(t, s))

	require.NoError(t, s.Stop())
	assert.Equal(t, core.SessionStopped, s.State())
	assert.True(t, stream.Closed(), "stop must release the capture device")
	assert.Equal(t, "call mom", s.Transcript())

	// Stopping again is a no-op.
	require.NoError(t, s.Stop())
	assert.Equal(t, core.SessionStopped, s.State())

	select {
	case <-s.Done():
	case <-time.After(waitFor):
		t.Fatal("session did not finish after stop")
	}

	// Late results are never accepted once closed.
	assert.False(t, stream.Partial("call mommy"))
	assert.Equal(t, "call mom", s.Transcript())
}

func TestSession_TransientErrorKeepsRecording(t *testing.T) {
	p := memory.NewProvider()
	s, err := dictation.Start(context.Background(), p, dictation.DefaultConfig(""), nil)
	require.NoError(t, err)
	defer s.Stop()
	stream := p.Last()

	require.True(t, stream.Fail("no-speech"))
	require.True(t, stream.Partial("still here"))
	assert.Equal(t, "still here", next(t, s))
	assert.Equal(t, core.SessionRecording, s.State())
}

func TestSession_ProviderEndsStream(t *testing.T) {
	t.Run("EOF", func(t *testing.T) {
		p := memory.NewProvider()
		s, err := dictation.Start(context.Background(), p, dictation.DefaultConfig(""), nil)
		require.NoError(t, err)

		require.True(t, p.Last().Partial("partial"))
		require.True(t, p.Last().End())

		waitDone(t, s)
		assert.Equal(t, core.SessionIdle, s.State())
		assert.NoError(t, s.Err())
		assert.Equal(t, "partial", s.Transcript())
		assert.True(t, p.Last().Closed())
	})

	t.Run("Fatal Error", func(t *testing.T) {
		p := memory.NewProvider()
		s, err := dictation.Start(context.Background(), p, dictation.DefaultConfig(""), nil)
		require.NoError(t, err)

		require.True(t, p.Last().Abort("network down"))

		waitDone(t, s)
		assert.Equal(t, core.SessionIdle, s.State())
		assert.EqualError(t, s.Err(), "network down")
		assert.Equal(t, "network down", s.Snapshot().Error)
	})
}

// stubbornStream keeps delivering results after Close, like a provider
// callback that was already in flight.
type stubbornStream struct {
	mu      sync.Mutex
	results chan dictation.Result
	closed  bool
}

func (s *stubbornStream) Recv(ctx context.Context) (dictation.Result, error) {
	res, ok := <-s.results
	if !ok {
		return dictation.Result{}, io.EOF
	}
	return res, nil
}

func (s *stubbornStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type stubbornProvider struct{ stream *stubbornStream }

func (p *stubbornProvider) Open(ctx context.Context, cfg dictation.Config) (dictation.Stream, error) {
	return p.stream, nil
}

func TestSession_LateResultAfterStop(t *testing.T) {
	stream := &stubbornStream{results: make(chan dictation.Result)}
	s, err := dictation.Start(context.Background(), &stubbornProvider{stream: stream}, dictation.DefaultConfig(""), nil)
	require.NoError(t, err)

	stream.results <- dictation.Result{Segments: []dictation.Segment{{Alternatives: []dictation.Alternative{{Transcript: "before"}}}}}
	assert.Equal(t, "before", next(t, s))

	require.NoError(t, s.Stop())

	// The in-flight result is received by the pump but must be discarded.
	select {
	case stream.results <- dictation.Result{Segments: []dictation.Segment{{Alternatives: []dictation.Alternative{{Transcript: "after"}}}}}:
	case <-s.Done():
	case <-time.After(waitFor):
	}
	close(stream.results)

	waitDone(t, s)
	assert.Equal(t, "before", s.Transcript())
	for snap := range s.Snapshots() {
		assert.NotEqual(t, "after", snap)
	}
}

func TestExclusive(t *testing.T) {
	p := memory.NewProvider()
	ex := dictation.NewExclusive(p, nil)
	assert.True(t, ex.Available())
	assert.Nil(t, ex.Active())

	first, err := ex.Start(context.Background(), dictation.DefaultConfig(""))
	require.NoError(t, err)
	assert.Same(t, first, ex.Active())

	second, err := ex.Start(context.Background(), dictation.DefaultConfig(""))
	require.NoError(t, err)

	assert.Equal(t, core.SessionStopped, first.State(), "previous session must be stopped first")
	assert.True(t, p.Streams()[0].Closed())
	assert.Equal(t, core.SessionRecording, second.State())
	assert.Same(t, second, ex.Active())

	require.NoError(t, ex.Stop())
	assert.Nil(t, ex.Active())
	assert.Equal(t, core.SessionStopped, second.State())
	require.NoError(t, ex.Stop())
}

func TestExclusive_NoProvider(t *testing.T) {
	ex := dictation.NewExclusive(nil, nil)
	assert.False(t, ex.Available())
	_, err := ex.Start(context.Background(), dictation.DefaultConfig(""))
	assert.True(t, errors.Is(err, core.ErrCapabilityUnavailable))
}

// checkedProvider reports a fixed availability.
type checkedProvider struct {
	*memory.Provider
	up bool
}

func (p checkedProvider) Available() bool { return p.up }

func TestExclusive_AsksProvider(t *testing.T) {
	assert.False(t, dictation.NewExclusive(checkedProvider{memory.NewProvider(), false}, nil).Available())
	assert.True(t, dictation.NewExclusive(checkedProvider{memory.NewProvider(), true}, nil).Available())
}

func next(t *testing.T, s *dictation.Session) string {
	t.Helper()
	select {
	case snap, ok := <-s.Snapshots():
		require.True(t, ok, "snapshots closed")
		return snap
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for snapshot")
		return ""
	}
}

func waitDone(t *testing.T, s *dictation.Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for session to end")
	}
}
