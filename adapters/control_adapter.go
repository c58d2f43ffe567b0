// File: adapters/control_adapter.go
// Package adapters binds the api collaborator contracts to real libraries.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0
//
// ControlBridge implements api.Control over the control package loader and
// metrics registry.

package adapters

import (
	"github.com/protomux/wspipe/control"
)

// ControlBridge exposes a Loader and a MetricsRegistry through api.Control.
type ControlBridge struct {
	loader  *control.Loader
	metrics *control.MetricsRegistry
}

// NewControlBridge wires the runtime control surface. A nil metrics registry
// gets a fresh one.
func NewControlBridge(loader *control.Loader, metrics *control.MetricsRegistry) *ControlBridge {
	if metrics == nil {
		metrics = control.NewMetricsRegistry()
	}
	return &ControlBridge{loader: loader, metrics: metrics}
}

// Metrics returns the registry behind Stats, for components that record
// counters directly.
func (c *ControlBridge) Metrics() *control.MetricsRegistry {
	return c.metrics
}

func (c *ControlBridge) GetConfig() map[string]any {
	return c.loader.Snapshot()
}

func (c *ControlBridge) SetConfig(cfg map[string]any) error {
	return c.loader.Merge(cfg)
}

func (c *ControlBridge) Stats() map[string]any {
	return c.metrics.Snapshot()
}

func (c *ControlBridge) OnReload(fn func()) {
	c.loader.OnReload(func(*control.Config) { fn() })
}
