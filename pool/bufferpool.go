// File: pool/bufferpool.go
// Package pool provides typed object and buffer pooling.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0
//
// Fixed-size read buffers recycled across connections.

package pool

// DefaultBufferSize is used when no read buffer size is configured.
const DefaultBufferSize = 4096

// BufferPool hands out byte slices of one fixed size.
type BufferPool struct {
	size int
	pool *SyncPool[*[]byte]
}

// NewBufferPool builds a pool of size-byte buffers.
func NewBufferPool(size int) *BufferPool {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &BufferPool{
		size: size,
		pool: NewSyncPool(func() *[]byte {
			b := make([]byte, size)
			return &b
		}),
	}
}

// Get returns a buffer of exactly Size bytes.
func (p *BufferPool) Get() []byte {
	return *p.pool.Get()
}

// Put recycles a buffer obtained from Get. Undersized slices are dropped.
func (p *BufferPool) Put(buf []byte) {
	if cap(buf) < p.size {
		return
	}
	buf = buf[:p.size]
	p.pool.Put(&buf)
}

// Size reports the fixed buffer length.
func (p *BufferPool) Size() int {
	return p.size
}
