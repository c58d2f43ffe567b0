// File: api/errors.go
// Package api defines the shared error taxonomy for wspipe.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package api

import "errors"

// Sentinel errors used across the library. Callers classify with errors.Is;
// producers wrap them with fmt.Errorf("%w: ...") to attach detail.
var (
	// ErrIncompleteData reports that the buffered input does not yet hold a
	// complete unit (handshake head or frame). Not fatal: keep the buffer
	// and wait for more bytes.
	ErrIncompleteData = errors.New("incomplete data")

	// ErrInvalidFraming reports bytes that cannot be a legal WebSocket frame.
	// Fatal to the session: frames decoded before the failure are still
	// delivered, then the session is closed.
	ErrInvalidFraming = errors.New("invalid framing")

	// ErrMalformedHandshake reports HTTP-shaped input that cannot be parsed,
	// or a response that cannot be built. Fatal to the session: the byte
	// boundary is unknowable, so the whole input buffer is dropped.
	ErrMalformedHandshake = errors.New("malformed handshake")

	// ErrSessionClosed reports a send or enqueue on a closed session.
	ErrSessionClosed = errors.New("session is closed")
)
