// File: api/handshake.go
// Package api defines the upgrade-handshake collaborator contracts.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package api

// Header names used during the RFC 6455 opening handshake.
const (
	HeaderConnection          = "Connection"
	HeaderUpgrade             = "Upgrade"
	HeaderSecWebSocketKey     = "Sec-WebSocket-Key"
	HeaderSecWebSocketVersion = "Sec-WebSocket-Version"
	HeaderSecWebSocketAccept  = "Sec-WebSocket-Accept"
)

// WebSocketVersion is the only protocol version the handshake accepts.
const WebSocketVersion = "13"

// UpgradeRequest is a fully parsed HTTP request head inspected for the
// RFC 6455 upgrade markers.
type UpgradeRequest interface {
	// IsWebSocketUpgrade reports whether the request carries the complete
	// required marker set: GET method, an Upgrade token in Connection,
	// a websocket token in Upgrade, a non-empty Sec-WebSocket-Key, and
	// Sec-WebSocket-Version 13. A request missing any marker is not a
	// WebSocket upgrade; it is ordinary HTTP.
	IsWebSocketUpgrade() bool

	// Header returns the first value of the named header. The lookup is
	// case-insensitive per HTTP semantics.
	Header(name string) (string, bool)
}

// HandshakeResult reports one parse attempt over buffered input.
//
// IsHTTP false means the bytes cannot be an HTTP request at all; another
// protocol's stage may claim them. IsHTTP true with a nil Request means the
// head is plausibly HTTP but still incomplete; the caller waits for more
// bytes and re-parses. A non-nil Request is complete, and Consumed is the
// exact number of bytes the head occupied in the buffer.
type HandshakeResult struct {
	IsHTTP   bool
	Request  UpgradeRequest
	Consumed int
}

// UpgradeParser turns raw buffered bytes into at most one HTTP request head.
type UpgradeParser interface {
	// Parse inspects buf without consuming it. An error wrapping
	// ErrMalformedHandshake is fatal to the session.
	Parse(buf []byte) (HandshakeResult, error)
}

// AcceptBuilder produces the 101 Switching Protocols response.
type AcceptBuilder interface {
	// Build returns the complete HTTP/1.1 101 response bytes answering the
	// client's Sec-WebSocket-Key.
	Build(secWebSocketKey string) ([]byte, error)
}
