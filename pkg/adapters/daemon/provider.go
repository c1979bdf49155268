package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/murmur/pkg/core"
	"github.com/aretw0/murmur/pkg/dictation"
)

// Provider opens recognition streams on the speech daemon.
type Provider struct {
	SocketPath string
	Logger     *slog.Logger
}

// NewProvider creates a provider for the daemon listening on socketPath.
// An empty path uses SocketPath().
func NewProvider(socketPath string, logger *slog.Logger) *Provider {
	if socketPath == "" {
		socketPath = SocketPath()
	}
	return &Provider{SocketPath: socketPath, Logger: logger}
}

// Available reports whether the daemon socket exists.
func (p *Provider) Available() bool {
	info, err := os.Stat(p.SocketPath)
	return err == nil && info.Mode()&os.ModeSocket != 0
}

// Open implements dictation.Provider.
//
// A daemon that cannot be reached, or that refuses to start, means the
// host has no transcription capability.
func (p *Provider) Open(ctx context.Context, cfg dictation.Config) (dictation.Stream, error) {
	client, err := Connect(ctx, p.SocketPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrCapabilityUnavailable, err)
	}

	resp, err := client.SendCommand(StartCommand(cfg))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("start dictation: %w", err)
	}
	if !resp.OK {
		client.Close()
		return nil, fmt.Errorf("%w: daemon refused to start: %s", core.ErrCapabilityUnavailable, resp.Error)
	}

	s := &Stream{
		client:    client,
		sessionID: resp.SessionID,
		logger:    p.Logger,
		events:    make(chan streamItem),
		closed:    make(chan struct{}),
	}
	if p.Logger != nil {
		p.Logger.Debug("daemon session started", "session", resp.SessionID, "locale", cfg.Locale)
	}

	lifecycle.Go(context.WithoutCancel(ctx), s.readLoop, lifecycle.WithErrorHandler(func(err error) {
		if p.Logger != nil {
			p.Logger.Error("daemon reader panic", "error", err)
		}
	}))
	return s, nil
}

type streamItem struct {
	ev  Event
	err error
}

// Stream is one daemon recognition session.
type Stream struct {
	client    *Client
	sessionID string
	logger    *slog.Logger

	events    chan streamItem
	closed    chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// SessionID returns the id the daemon assigned to the session.
func (s *Stream) SessionID() string { return s.sessionID }

func (s *Stream) readLoop(ctx context.Context) error {
	defer close(s.events)
	for {
		ev, err := s.client.ReadEvent()
		select {
		case s.events <- streamItem{ev: ev, err: err}:
		case <-s.closed:
			return nil
		}
		if err != nil {
			return nil
		}
	}
}

// Recv implements dictation.Stream.
func (s *Stream) Recv(ctx context.Context) (dictation.Result, error) {
	for {
		select {
		case <-s.closed:
			return dictation.Result{}, io.EOF
		case <-ctx.Done():
			return dictation.Result{}, ctx.Err()
		case it, ok := <-s.events:
			if !ok {
				return dictation.Result{}, io.EOF
			}
			if it.err != nil {
				return dictation.Result{}, it.err
			}
			switch it.ev.Event {
			case EventResult:
				return dictation.Result{Segments: it.ev.Segments}, nil
			case EventError:
				if it.ev.Transient != nil && *it.ev.Transient {
					return dictation.Result{}, fmt.Errorf("%w: %s", core.ErrRecognitionStream, it.ev.Message)
				}
				return dictation.Result{}, errors.New(it.ev.Message)
			case EventEnd:
				return dictation.Result{}, io.EOF
			default:
				// Acknowledgements and unknown events.
				continue
			}
		}
	}
}

// Close sends the stop command and closes the connection.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		close(s.closed)
		if err := s.client.Send(Command{Cmd: CmdStop}); err != nil && s.logger != nil {
			s.logger.Debug("stop command not delivered", "session", s.sessionID, "error", err)
		}
		s.closeErr = s.client.Close()
	})
	return s.closeErr
}

var _ dictation.Provider = (*Provider)(nil)
var _ dictation.Stream = (*Stream)(nil)
var _ dictation.Checker = (*Provider)(nil)
