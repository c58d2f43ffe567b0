// File: api/websocket.go
// Package api defines the per-session WebSocket write channel.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package api

// WebSocketConn is the frame-level write channel installed on a session once
// its handshake completes. Writes are fire-and-forget: they enqueue on the
// session and fail only when the session is already closed.
type WebSocketConn interface {
	// WriteFrame serializes and sends one final, unmasked frame.
	WriteFrame(op Opcode, payload []byte) error

	// WriteText sends a text frame.
	WriteText(text string) error

	// WriteBinary sends a binary frame.
	WriteBinary(p []byte) error

	// WriteClose sends a close frame whose payload is the big-endian status
	// code followed by the reason bytes.
	WriteClose(code StatusCode, reason string) error
}
