// File: session/session.go
// Package session implements sessions, their buffers, and the registry.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0
//
// A Session joins the transport's byte stream to the pipeline: the transport
// feeds inbound bytes and drains the outbound mailbox; pipeline stages read
// the input buffer and enqueue sends. Inbound work is single-goroutine per
// session, outbound enqueue/drain crosses goroutines and is locked.

package session

import (
	"context"
	"sync"

	"github.com/eapache/queue"
	"github.com/google/uuid"

	"github.com/protomux/wspipe/api"
)

// Session is the concrete api.Session.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc

	input *Buffer
	proto api.ProtocolState

	mu   sync.Mutex
	out  *queue.Queue
	wake chan struct{}

	closeOnce sync.Once
	closeHook func()
}

var _ api.Session = (*Session)(nil)

// Option configures a Session at construction time.
type Option func(*Session)

// WithID overrides the generated session identifier.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithContext parents the session context, so canceling parent tears the
// session down.
func WithContext(parent context.Context) Option {
	return func(s *Session) {
		s.ctx, s.cancel = context.WithCancel(parent)
	}
}

// WithCloseHook registers fn to run exactly once when the session closes.
// The transport uses this to close the underlying connection.
func WithCloseHook(fn func()) Option {
	return func(s *Session) { s.closeHook = fn }
}

// New constructs a session with a fresh UUID and empty buffers.
func New(opts ...Option) *Session {
	s := &Session{
		id:    uuid.NewString(),
		input: NewBuffer(),
		out:   queue.New(),
		wake:  make(chan struct{}, 1),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Context is canceled when the session closes.
func (s *Session) Context() context.Context { return s.ctx }

// Input returns the inbound buffer.
func (s *Session) Input() api.InputBuffer { return s.input }

// Protocol returns the current protocol state. Only the dispatch goroutine
// touches protocol state, so no lock is taken.
func (s *Session) Protocol() api.ProtocolState { return s.proto }

// SetProtocol replaces the protocol state.
func (s *Session) SetProtocol(state api.ProtocolState) { s.proto = state }

// Feed appends inbound bytes read by the transport.
func (s *Session) Feed(p []byte) {
	s.input.Append(p)
}

// Send enqueues p in the outbound mailbox and wakes the writer. It returns
// api.ErrSessionClosed once the session has been closed.
func (s *Session) Send(p []byte) error {
	if s.ctx.Err() != nil {
		return api.ErrSessionClosed
	}
	s.mu.Lock()
	s.out.Add(p)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

// PopOutbound removes and returns the oldest pending outbound buffer. The
// second return is false when the mailbox is empty.
func (s *Session) PopOutbound() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.out.Length() == 0 {
		return nil, false
	}
	return s.out.Remove().([]byte), true
}

// PendingOutbound reports the number of queued outbound buffers.
func (s *Session) PendingOutbound() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Length()
}

// Wake signals whenever the mailbox goes non-empty. The channel has a single
// slot; the drain loop must pop until empty after each receive.
func (s *Session) Wake() <-chan struct{} { return s.wake }

// Close cancels the session context and runs the close hook. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		if s.closeHook != nil {
			s.closeHook()
		}
	})
}
