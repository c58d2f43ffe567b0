// File: websocket/handshake.go
// Package websocket implements the upgrade and frame-dispatch stage.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package websocket

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/protomux/wspipe/api"
)

// handshake inspects the session's buffered bytes for an upgrade request and
// answers it. The return value is the stage's handled/not-handled verdict:
// false passes the event (and the untouched buffer) to the next stage.
func (st *Stage) handshake(sess api.Session) bool {
	_, span := st.tracer.Start(sess.Context(), spanHandshake,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(attrSessionID, sess.ID()),
		))
	defer span.End()
	defer span.SetStatus(codes.Ok, codes.Ok.String())

	in := sess.Input()
	res, err := st.parser.Parse(in.Bytes())
	if err != nil {
		// The byte boundary is unknowable once parsing fails, so the whole
		// buffer goes with the session.
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed handshake")
		st.logger.Warn("malformed handshake, closing session",
			zap.String("session_id", sess.ID()), zap.Error(err))
		in.Clear()
		sess.Close()
		return true
	}
	if !res.IsHTTP {
		span.AddEvent(eventNotHTTP)
		return false
	}
	if res.Request == nil {
		span.AddEvent(eventAwaitingBytes)
		return true
	}
	if !res.Request.IsWebSocketUpgrade() {
		span.AddEvent(eventPlainHTTP)
		return false
	}

	// Consume exactly the head; an eager client's first frames stay buffered
	// for the dispatcher.
	in.Discard(res.Consumed)

	key, _ := res.Request.Header(api.HeaderSecWebSocketKey)
	response, err := st.accept.Build(key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "response build failed")
		st.logger.Warn("handshake response build failed, closing session",
			zap.String("session_id", sess.ID()), zap.Error(err))
		in.Clear()
		sess.Close()
		return true
	}

	if err := sess.Send(response); err != nil {
		// No wrapper and no state change: the transport observes the failed
		// write on its own.
		span.RecordError(err)
		span.SetStatus(codes.Error, "response send failed")
		st.logger.Warn("handshake response send failed",
			zap.String("session_id", sess.ID()), zap.Error(err))
		return true
	}

	sess.SetProtocol(api.ProtocolState{
		Kind: api.ProtocolWebSocket,
		Conn: NewConn(sess, st.codec),
	})
	span.AddEvent(eventUpgraded)
	st.logger.Debug("session upgraded to websocket", zap.String("session_id", sess.ID()))
	return true
}
