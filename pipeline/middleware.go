// File: pipeline/middleware.go
// Package pipeline implements the ordered inbound-event dispatch chain.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0
//
// Middleware decorators wrap a stage (or a whole pipeline) with logging,
// panic recovery, and metrics.

package pipeline

import (
	"go.uber.org/zap"

	"github.com/protomux/wspipe/api"
	"github.com/protomux/wspipe/control"
)

// Middleware wraps an inbound handler with additional behavior.
type Middleware func(next api.InboundHandler) api.InboundHandler

// Chain applies middleware so that the first argument is the outermost
// wrapper.
func Chain(h api.InboundHandler, mw ...Middleware) api.InboundHandler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// Logging reports each dispatch outcome at debug level.
func Logging(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next api.InboundHandler) api.InboundHandler {
		return HandlerFunc(func(sess api.Session) bool {
			handled := next.OnInbound(sess)
			logger.Debug("inbound event dispatched",
				zap.String("session_id", sess.ID()),
				zap.Bool("handled", handled))
			return handled
		})
	}
}

// Recovery turns a stage panic into a closed session. The event is reported
// handled so the chain does not run the remaining stages on a session in an
// unknown state.
func Recovery(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next api.InboundHandler) api.InboundHandler {
		return HandlerFunc(func(sess api.Session) (handled bool) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("stage panic",
						zap.String("session_id", sess.ID()),
						zap.Any("panic", r))
					sess.Close()
					handled = true
				}
			}()
			return next.OnInbound(sess)
		})
	}
}

// Metrics counts dispatched and handled events in the registry.
func Metrics(reg *control.MetricsRegistry) Middleware {
	return func(next api.InboundHandler) api.InboundHandler {
		return HandlerFunc(func(sess api.Session) bool {
			reg.Inc("pipeline.events_total")
			handled := next.OnInbound(sess)
			if handled {
				reg.Inc("pipeline.events_handled")
			}
			return handled
		})
	}
}
