// File: api/control.go
// Package api defines the runtime control surface.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package api

// Control exposes configuration and statistics management at runtime.
type Control interface {
	// GetConfig returns a snapshot of the current configuration.
	GetConfig() map[string]any

	// SetConfig merges the given values into the configuration and
	// notifies reload listeners.
	SetConfig(cfg map[string]any) error

	// Stats returns a snapshot of runtime counters.
	Stats() map[string]any

	// OnReload registers fn to run after each configuration change.
	OnReload(fn func())
}
