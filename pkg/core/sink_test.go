package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/murmur/pkg/core"
)

func TestChannelSink(t *testing.T) {
	sink := core.NewChannelSink(10)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	sink.VisibleBufferChanged("hello")
	sink.SessionStateChanged(core.SessionRecording)
	sink.NotifyError(errors.New("boom"))

	e, err := sink.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.EventBufferChanged, e.Type)
	assert.Equal(t, "hello", e.Text)
	assert.Equal(t, `BUFFER_CHANGED "hello"`, e.String())

	e, err = sink.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.SessionRecording, e.State)

	e, err = sink.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ERROR boom", e.String())
}

func TestChannelSink_DropsWhenFull(t *testing.T) {
	sink := core.NewChannelSink(1)
	sink.NotifySuccess("one")
	sink.NotifySuccess("two") // must not block

	assert.Len(t, sink.Events(), 1)
	e := <-sink.Events()
	assert.Equal(t, "one", e.Message)
}

func TestChannelSink_CollectionIsCopied(t *testing.T) {
	sink := core.NewChannelSink(1)
	notes := []core.Note{{ID: "a", Content: "x"}}
	sink.CollectionChanged(notes)
	notes[0].Content = "changed"

	e := <-sink.Events()
	assert.Equal(t, "x", e.Notes[0].Content)
}
