// File: websocket/stage.go
// Package websocket implements the upgrade and frame-dispatch stage.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0
//
// Stage is one handler in the inbound pipeline. For sessions it owns it
// drains complete frames to the application hooks; for fresh sessions it
// watches the buffered bytes for an RFC 6455 upgrade request and answers it.
// Everything byte-format shaped (frame codec, HTTP parsing, 101 response) is
// delegated to collaborators; the stage holds only the decision logic.

package websocket

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/protomux/wspipe/adapters"
	"github.com/protomux/wspipe/api"
)

// Stage routes inbound session events between the handshake responder and
// the frame dispatcher. Safe for concurrent use across sessions; per-session
// serialization is the pipeline's contract.
type Stage struct {
	parser api.UpgradeParser
	accept api.AcceptBuilder
	codec  api.FrameCodec
	events api.Events
	logger *zap.Logger
	tracer trace.Tracer
}

var _ api.InboundHandler = (*Stage)(nil)

// Option configures a Stage.
type Option func(*Stage)

// WithParser replaces the upgrade-request parser.
func WithParser(p api.UpgradeParser) Option {
	return func(st *Stage) { st.parser = p }
}

// WithAcceptBuilder replaces the 101-response builder.
func WithAcceptBuilder(b api.AcceptBuilder) Option {
	return func(st *Stage) { st.accept = b }
}

// WithCodec replaces the frame codec.
func WithCodec(c api.FrameCodec) Option {
	return func(st *Stage) { st.codec = c }
}

// WithEvents sets the application hooks.
func WithEvents(e api.Events) Option {
	return func(st *Stage) { st.events = e }
}

// WithLogger sets the stage logger.
func WithLogger(l *zap.Logger) Option {
	return func(st *Stage) { st.logger = l }
}

// WithTracerProvider sets the provider backing the stage tracer. The global
// provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(st *Stage) {
		if tp == nil {
			tp = otel.GetTracerProvider()
		}
		st.tracer = tp.Tracer(pkgName, trace.WithInstrumentationVersion(pkgVersion))
	}
}

// NewStage constructs a stage bound to the default collaborators: the gobwas
// wire codec, the net/http request parser, and the literal response builder.
func NewStage(opts ...Option) *Stage {
	st := &Stage{
		parser: adapters.NewRequestParser(),
		accept: adapters.NewResponseBuilder(),
		codec:  adapters.NewWireCodec(),
		events: NopEvents{},
		logger: zap.NewNop(),
		tracer: otel.GetTracerProvider().Tracer(pkgName, trace.WithInstrumentationVersion(pkgVersion)),
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// OnInbound implements api.InboundHandler.
func (st *Stage) OnInbound(sess api.Session) bool {
	switch state := sess.Protocol(); state.Kind {
	case api.ProtocolWebSocket:
		st.dispatchFrames(sess, state.Conn)
		return true
	case api.ProtocolNone, api.ProtocolHTTP:
		return st.handshake(sess)
	default:
		// The session belongs to another upgraded protocol.
		return false
	}
}
