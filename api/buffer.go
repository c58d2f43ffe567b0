// File: api/buffer.go
// Package api defines the inbound buffer contract.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package api

// InputBuffer is a session's accumulated inbound bytes between dispatches.
// Not safe for concurrent use; event delivery per session is serial.
type InputBuffer interface {
	// Bytes returns a contiguous view of everything buffered. The slice is
	// valid only until the next mutation.
	Bytes() []byte

	// Len reports the number of buffered bytes.
	Len() int

	// Discard drops exactly the first n bytes. n larger than Len empties
	// the buffer.
	Discard(n int)

	// Clear drops everything buffered.
	Clear()
}
