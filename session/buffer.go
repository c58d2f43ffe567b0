// File: session/buffer.go
// Package session implements sessions, their buffers, and the registry.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package session

import "github.com/protomux/wspipe/api"

// Buffer accumulates a session's inbound bytes between pipeline dispatches.
// Discard compacts in place so the head of the buffer always sits at index
// zero and the backing array is reused across reads.
//
// Not safe for concurrent use: the transport feeds and the pipeline drains
// from the same goroutine.
type Buffer struct {
	buf []byte
}

var _ api.InputBuffer = (*Buffer)(nil)

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds p to the end of the buffer.
func (b *Buffer) Append(p []byte) {
	b.buf = append(b.buf, p...)
}

// Bytes returns the buffered bytes. Valid until the next mutation.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Len reports the number of buffered bytes.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Discard drops the first n bytes.
func (b *Buffer) Discard(n int) {
	switch {
	case n <= 0:
	case n >= len(b.buf):
		b.buf = b.buf[:0]
	default:
		b.buf = append(b.buf[:0], b.buf[n:]...)
	}
}

// Clear drops everything buffered, keeping the backing array.
func (b *Buffer) Clear() {
	b.buf = b.buf[:0]
}
