// File: server/options.go
// Package server hosts the pipeline over plain TCP connections.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0
//
// Functional options for the Server facade.

package server

import (
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/protomux/wspipe/api"
	"github.com/protomux/wspipe/control"
	"github.com/protomux/wspipe/pipeline"
)

// Option customizes server initialization.
type Option func(*Server)

// WithLogger sets the server logger. Components get named child loggers.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracerProvider sets the provider used by the stage and the callback
// instrumentation. The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tracerProvider = tp }
}

// WithEvents sets the application hooks invoked by the frame dispatcher.
func WithEvents(e api.Events) Option {
	return func(s *Server) {
		if e != nil {
			s.events = e
		}
	}
}

// WithStages appends pipeline stages after the WebSocket stage, in FIFO
// order. They see every event the WebSocket stage declines.
func WithStages(stages ...api.InboundHandler) Option {
	return func(s *Server) {
		s.extraStages = append(s.extraStages, stages...)
	}
}

// WithMiddleware wraps the dispatch chain with additional middleware,
// inside the built-in recovery and metrics decorators.
func WithMiddleware(mw ...pipeline.Middleware) Option {
	return func(s *Server) {
		s.middleware = append(s.middleware, mw...)
	}
}

// WithMetrics shares an existing metrics registry, typically the one behind
// an api.Control bridge. A fresh registry is used by default.
func WithMetrics(reg *control.MetricsRegistry) Option {
	return func(s *Server) {
		if reg != nil {
			s.metrics = reg
		}
	}
}
