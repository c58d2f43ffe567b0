// File: session/registry_test.go
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryPutGetDelete(t *testing.T) {
	r := NewRegistry(8)
	s := New(WithID("alpha"))
	r.Put(s)

	got, ok := r.Get("alpha")
	require.True(t, ok)
	require.Same(t, s, got)

	r.Delete("alpha")
	_, ok = r.Get("alpha")
	require.False(t, ok)
	// Delete also closes the session.
	require.Error(t, s.Context().Err())
}

func TestRegistryGetMissing(t *testing.T) {
	r := NewRegistry(4)
	_, ok := r.Get("nope")
	require.False(t, ok)
}

func TestRegistryRangeAndLen(t *testing.T) {
	r := NewRegistry(3) // rounds up to 4 shards
	for i := 0; i < 50; i++ {
		r.Put(New(WithID(fmt.Sprintf("s-%d", i))))
	}
	require.Equal(t, 50, r.Len())

	seen := 0
	r.Range(func(*Session) { seen++ })
	require.Equal(t, 50, seen)
}

func TestRegistryZeroShardCount(t *testing.T) {
	r := NewRegistry(0)
	r.Put(New(WithID("x")))
	_, ok := r.Get("x")
	require.True(t, ok)
}
