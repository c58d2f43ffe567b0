// File: api/session.go
// Package api defines the Session contract and its protocol state.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package api

import "context"

// ProtocolKind identifies which protocol currently owns a session.
type ProtocolKind uint8

const (
	// ProtocolNone marks a fresh session with nothing negotiated yet.
	ProtocolNone ProtocolKind = iota
	// ProtocolHTTP marks a session that has shown plain HTTP traffic but may
	// still upgrade.
	ProtocolHTTP
	// ProtocolWebSocket marks an upgraded session; frames flow from here on.
	ProtocolWebSocket
	// ProtocolOther marks a session claimed by some other upgraded protocol.
	ProtocolOther
)

// String implements fmt.Stringer.
func (k ProtocolKind) String() string {
	switch k {
	case ProtocolNone:
		return "none"
	case ProtocolHTTP:
		return "http"
	case ProtocolWebSocket:
		return "websocket"
	case ProtocolOther:
		return "other"
	default:
		return "unknown"
	}
}

// ProtocolState is the variant attached to every session. Exactly one of the
// payload fields is meaningful, keyed by Kind: Conn when Kind is
// ProtocolWebSocket, Name when Kind is ProtocolOther.
type ProtocolState struct {
	Kind ProtocolKind
	Conn WebSocketConn
	Name string
}

// Session is one peer connection as seen by pipeline stages. Implementations
// deliver inbound events for a session serially, so stages read and mutate
// session state without locking. The protocol state moves forward only:
// None/HTTP to WebSocket at most once, never back.
type Session interface {
	// ID returns the stable session identifier.
	ID() string

	// Context is canceled when the session closes.
	Context() context.Context

	// Input returns the buffered inbound byte stream.
	Input() InputBuffer

	// Protocol returns the current protocol state.
	Protocol() ProtocolState

	// SetProtocol replaces the protocol state.
	SetProtocol(state ProtocolState)

	// Send enqueues p toward the peer and returns immediately. It never
	// waits for the write to complete; it fails only when the session is
	// already closed.
	Send(p []byte) error

	// Close requests teardown of the session. Idempotent.
	Close()
}
