package core

import "context"

// Sink receives outbound notifications for the presentation layer.
// Implementations are called while the caller holds its own lock and must
// not call back into the Board or Controller synchronously.
type Sink interface {
	CollectionChanged(notes []Note)
	VisibleBufferChanged(text string)
	SessionStateChanged(state SessionState)
	NotifySuccess(message string)
	NotifyCapabilityUnavailable()
	NotifyError(err error)
}

// NopSink discards every notification.
type NopSink struct{}

func (NopSink) CollectionChanged([]Note)         {}
func (NopSink) VisibleBufferChanged(string)      {}
func (NopSink) SessionStateChanged(SessionState) {}
func (NopSink) NotifySuccess(string)             {}
func (NopSink) NotifyCapabilityUnavailable()     {}
func (NopSink) NotifyError(error)                {}

// ChannelSink publishes every notification as an Event on a buffered channel.
// When the buffer is full the notification is dropped rather than blocking the core.
type ChannelSink struct {
	ch chan Event
}

// NewChannelSink creates a ChannelSink. Zero or negative size means 100.
func NewChannelSink(size int) *ChannelSink {
	if size <= 0 {
		size = 100
	}
	return &ChannelSink{ch: make(chan Event, size)}
}

// Events returns the channel carrying notifications.
func (s *ChannelSink) Events() <-chan Event {
	return s.ch
}

// Next blocks until an event arrives or ctx is done.
func (s *ChannelSink) Next(ctx context.Context) (Event, error) {
	select {
	case e := <-s.ch:
		return e, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

func (s *ChannelSink) publish(e Event) {
	select {
	case s.ch <- e:
	default:
	}
}

func (s *ChannelSink) CollectionChanged(notes []Note) {
	s.publish(Event{Type: EventCollectionChanged, Notes: Clone(notes)})
}

func (s *ChannelSink) VisibleBufferChanged(text string) {
	s.publish(Event{Type: EventBufferChanged, Text: text})
}

func (s *ChannelSink) SessionStateChanged(state SessionState) {
	s.publish(Event{Type: EventSessionStateChanged, State: state})
}

func (s *ChannelSink) NotifySuccess(message string) {
	s.publish(Event{Type: EventSuccess, Message: message})
}

func (s *ChannelSink) NotifyCapabilityUnavailable() {
	s.publish(Event{Type: EventCapabilityUnavailable, Message: ErrCapabilityUnavailable.Error()})
}

func (s *ChannelSink) NotifyError(err error) {
	s.publish(Event{Type: EventError, Err: err})
}

var _ Sink = NopSink{}
var _ Sink = (*ChannelSink)(nil)
