package capture_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/murmur/pkg/adapters/memory"
	"github.com/aretw0/murmur/pkg/capture"
	"github.com/aretw0/murmur/pkg/core"
	"github.com/aretw0/murmur/pkg/dictation"
)

// recordingSink keeps every notification for assertions.
type recordingSink struct {
	core.NopSink
	mu          sync.Mutex
	buffers     []string
	states      []core.SessionState
	successes   []string
	unavailable int
	errs        []error
}

func (s *recordingSink) VisibleBufferChanged(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffers = append(s.buffers, text)
}

func (s *recordingSink) SessionStateChanged(state core.SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = append(s.states, state)
}

func (s *recordingSink) NotifySuccess(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successes = append(s.successes, msg)
}

func (s *recordingSink) NotifyCapabilityUnavailable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable++
}

func (s *recordingSink) NotifyError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *recordingSink) stateLog() []core.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.SessionState(nil), s.states...)
}

type fixture struct {
	ctrl     *capture.Controller
	store    *core.Store
	repo     *memory.Repository
	provider *memory.Provider
	sink     *recordingSink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memory.NewRepository()
	store := core.NewStore(repo)
	store.Load(context.Background())
	provider := memory.NewProvider()
	sink := &recordingSink{}
	ctrl := capture.NewController(capture.Config{
		Committer: store,
		Dictation: dictation.NewExclusive(provider, nil),
		Sink:      sink,
		Locale:    "en-US",
	})
	return &fixture{ctrl: ctrl, store: store, repo: repo, provider: provider, sink: sink}
}

func waitBuffer(t *testing.T, c *capture.Controller, want string) {
	t.Helper()
	require.Eventually(t, func() bool { return c.Buffer() == want },
		time.Second, 5*time.Millisecond, "buffer never became %q", want)
}

func TestController_TypedFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assert.Equal(t, capture.ModeChoosing, f.ctrl.Mode())

	f.ctrl.EditBuffer("B")
	assert.Equal(t, capture.ModeTyped, f.ctrl.Mode(), "non-empty buffer implies typing")

	f.ctrl.EditBuffer("")
	assert.Equal(t, capture.ModeChoosing, f.ctrl.Mode(), "cleared buffer reverts to choosing")

	require.NoError(t, f.ctrl.ChooseMode(ctx, core.InputTyped))
	assert.Equal(t, capture.ModeTyped, f.ctrl.Mode())
	f.ctrl.EditBuffer("Buy milk")

	require.NoError(t, f.ctrl.Save(ctx))
	assert.Equal(t, capture.ModeChoosing, f.ctrl.Mode())
	assert.Empty(t, f.ctrl.Buffer())

	notes := f.store.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "Buy milk", notes[0].Content)
	assert.Equal(t, []string{capture.SuccessMessage}, f.sink.successes)
}

func TestController_SaveEmptyIsIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Save(ctx))
	require.NoError(t, f.ctrl.ChooseMode(ctx, core.InputTyped))
	require.NoError(t, f.ctrl.Save(ctx))

	assert.Empty(t, f.store.Notes())
	assert.Equal(t, 0, f.repo.Writes())
	assert.Empty(t, f.sink.successes)
	assert.Empty(t, f.sink.errs)
}

func TestController_DictationReplacesBuffer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.ChooseMode(ctx, core.InputDictate))
	assert.Equal(t, capture.ModeDictating, f.ctrl.Mode())
	stream := f.provider.Last()
	require.NotNil(t, stream)
	assert.Equal(t, "en-US", stream.Config().Locale)

	require.True(t, stream.Partial("hello"))
	waitBuffer(t, f.ctrl, "hello")
	require.True(t, stream.Partial("hello", " world"))
	waitBuffer(t, f.ctrl, "hello world")

	require.NoError(t, f.ctrl.StopDictation())
	assert.Equal(t, "hello world", f.ctrl.Buffer())
	assert.Equal(t, capture.ModeTyped, f.ctrl.Mode())
	assert.True(t, stream.Closed())
}

func TestController_DictateStopSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.ChooseMode(ctx, core.InputDictate))
	stream := f.provider.Last()

	require.True(t, stream.Partial("call mo"))
	waitBuffer(t, f.ctrl, "call mo")
	require.True(t, stream.Partial("call mom"))
	waitBuffer(t, f.ctrl, "call mom")

	require.NoError(t, f.ctrl.StopDictation())
	require.NoError(t, f.ctrl.Save(ctx))

	notes := f.store.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "call mom", notes[0].Content)
	assert.Equal(t, capture.ModeChoosing, f.ctrl.Mode())
}

func TestController_SaveWhileDictatingStopsFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.ChooseMode(ctx, core.InputDictate))
	stream := f.provider.Last()
	require.True(t, stream.Partial("remember the keys"))
	waitBuffer(t, f.ctrl, "remember the keys")

	require.NoError(t, f.ctrl.Save(ctx))
	assert.True(t, stream.Closed(), "session must be stopped before saving")
	assert.Equal(t, "remember the keys", f.store.Notes()[0].Content)
	assert.Contains(t, f.sink.stateLog(), core.SessionStopped)
}

func TestController_SaveEmptyWhileDictatingKeepsRecording(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.ChooseMode(ctx, core.InputDictate))
	require.NoError(t, f.ctrl.Save(ctx))

	assert.Equal(t, capture.ModeDictating, f.ctrl.Mode())
	assert.False(t, f.provider.Last().Closed())
	require.NoError(t, f.ctrl.CancelDictation())
}

func TestController_LateSnapshotAfterStop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.ChooseMode(ctx, core.InputDictate))
	stream := f.provider.Last()
	require.True(t, stream.Partial("final words"))
	waitBuffer(t, f.ctrl, "final words")

	require.NoError(t, f.ctrl.StopDictation())
	assert.False(t, stream.Partial("final words and more"), "closed stream must refuse results")

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, "final words", f.ctrl.Buffer())
}

func TestController_CancelDictation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.ctrl.CancelDictation()
	assert.ErrorIs(t, err, core.ErrInvalidTransition)

	require.NoError(t, f.ctrl.ChooseMode(ctx, core.InputDictate))
	stream := f.provider.Last()
	require.True(t, stream.Partial("never mind"))
	waitBuffer(t, f.ctrl, "never mind")

	require.NoError(t, f.ctrl.CancelDictation())
	assert.Empty(t, f.ctrl.Buffer())
	assert.Equal(t, capture.ModeChoosing, f.ctrl.Mode())
	assert.True(t, stream.Closed(), "cancel must release the capture device")
	assert.Empty(t, f.store.Notes())
}

func TestController_CapabilityUnavailable(t *testing.T) {
	f := newFixture(t)
	f.provider.SetUnavailable(true)

	err := f.ctrl.ChooseMode(context.Background(), core.InputDictate)
	assert.ErrorIs(t, err, core.ErrCapabilityUnavailable)
	assert.Equal(t, capture.ModeTyped, f.ctrl.Mode())
	assert.Equal(t, 1, f.sink.unavailable)
}

func TestController_NoProvider(t *testing.T) {
	sink := &recordingSink{}
	ctrl := capture.NewController(capture.Config{Sink: sink})

	err := ctrl.ChooseMode(context.Background(), core.InputDictate)
	assert.ErrorIs(t, err, core.ErrCapabilityUnavailable)
	assert.Equal(t, 1, sink.unavailable)
}

func TestController_RestartStopsPrevious(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.ChooseMode(ctx, core.InputDictate))
	first := f.provider.Last()
	require.NoError(t, f.ctrl.ChooseMode(ctx, core.InputDictate))
	second := f.provider.Last()

	assert.NotSame(t, first, second)
	assert.True(t, first.Closed())
	assert.False(t, second.Closed())

	require.True(t, second.Partial("second take"))
	waitBuffer(t, f.ctrl, "second take")
	require.NoError(t, f.ctrl.CancelDictation())
}

func TestController_ProviderEndsStream(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.ChooseMode(ctx, core.InputDictate))
	stream := f.provider.Last()
	require.True(t, stream.Partial("cut off mid"))
	waitBuffer(t, f.ctrl, "cut off mid")
	require.True(t, stream.End())

	require.Eventually(t, func() bool { return f.ctrl.Mode() == capture.ModeTyped },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, "cut off mid", f.ctrl.Buffer())
	assert.Contains(t, f.sink.stateLog(), core.SessionIdle)

	// The captured text can still be saved.
	require.NoError(t, f.ctrl.Save(ctx))
	assert.Equal(t, "cut off mid", f.store.Notes()[0].Content)
}

func TestController_PersistenceFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.repo.FailWith = errors.New("read-only filesystem")

	f.ctrl.EditBuffer("tentative")
	err := f.ctrl.Save(ctx)
	assert.ErrorIs(t, err, core.ErrPersistenceUnavailable)

	assert.Len(t, f.store.Notes(), 1, "note stays in memory")
	assert.Empty(t, f.ctrl.Buffer())
	require.Len(t, f.sink.errs, 1)
	assert.Empty(t, f.sink.successes)
}

func TestController_State(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.ChooseMode(ctx, core.InputDictate))
	st, ok := f.ctrl.State().(capture.ControllerState)
	require.True(t, ok)
	assert.Equal(t, capture.ModeDictating, st.Mode)
	assert.True(t, st.Dictation)
	require.NotNil(t, st.Session)
	assert.Equal(t, core.SessionRecording, st.Session.State)
	assert.Equal(t, "capture", f.ctrl.ComponentType())

	require.NoError(t, f.ctrl.CancelDictation())
	st = f.ctrl.State().(capture.ControllerState)
	assert.Nil(t, st.Session)
}
