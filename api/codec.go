// File: api/codec.go
// Package api defines the frame codec contract.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package api

// FrameCodec parses and serializes single WebSocket frames against a byte
// buffer. Implementations are stateless and shareable across sessions.
type FrameCodec interface {
	// Decode parses one frame from the head of buf and returns it together
	// with the number of bytes it occupied. It returns ErrIncompleteData
	// when buf does not yet hold a whole frame, and an error wrapping
	// ErrInvalidFraming when the head bytes cannot be a legal frame.
	Decode(buf []byte) (Frame, int, error)

	// Encode serializes an unmasked server-to-client frame.
	Encode(f Frame) ([]byte, error)
}
