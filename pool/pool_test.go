// File: pool/pool_test.go
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSyncPoolCreatesAndRecycles(t *testing.T) {
	created := 0
	sp := NewSyncPool(func() *int {
		created++
		n := new(int)
		return n
	})

	v := sp.Get()
	require.NotNil(t, v)
	require.Equal(t, 1, created)

	*v = 42
	sp.Put(v)

	// Recycled values keep their state; callers reset what they need.
	got := sp.Get()
	if got == v {
		require.Equal(t, 42, *got)
	}
}

func TestBufferPoolFixedSize(t *testing.T) {
	p := NewBufferPool(1024)
	require.Equal(t, 1024, p.Size())

	buf := p.Get()
	require.Len(t, buf, 1024)
	p.Put(buf)

	again := p.Get()
	require.Len(t, again, 1024)
}

func TestBufferPoolDefaultsSize(t *testing.T) {
	p := NewBufferPool(0)
	require.Equal(t, DefaultBufferSize, p.Size())
	require.Len(t, p.Get(), DefaultBufferSize)
}

func TestBufferPoolDropsUndersized(t *testing.T) {
	p := NewBufferPool(512)
	p.Put(make([]byte, 16))

	require.Len(t, p.Get(), 512)
}

func TestBufferPoolRestoresFullLength(t *testing.T) {
	p := NewBufferPool(256)
	buf := p.Get()

	// Callers often shrink the slice to what was read before returning it.
	p.Put(buf[:10])
	require.Len(t, p.Get(), 256)
}
