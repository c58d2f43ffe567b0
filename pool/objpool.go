// File: pool/objpool.go
// Package pool provides typed object and buffer pooling.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package pool

import "sync"

// SyncPool adapts sync.Pool for typed use.
type SyncPool[T any] struct {
	pool sync.Pool
}

// NewSyncPool builds a pool that creates missing values with newFn.
func NewSyncPool[T any](newFn func() T) *SyncPool[T] {
	sp := &SyncPool[T]{}
	sp.pool.New = func() any { return newFn() }
	return sp
}

// Get returns a pooled or freshly created value.
func (sp *SyncPool[T]) Get() T {
	return sp.pool.Get().(T)
}

// Put returns a value to the pool.
func (sp *SyncPool[T]) Put(v T) {
	sp.pool.Put(v)
}
