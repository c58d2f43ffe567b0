// File: websocket/dispatcher.go
// Package websocket implements the upgrade and frame-dispatch stage.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package websocket

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/protomux/wspipe/api"
)

// dispatchFrames drains every complete frame from the session's buffer and
// routes the batch, in arrival order, through the frame machine. Partial
// trailing bytes stay buffered for the next delivery; an empty buffer is a
// no-op, so replaying a delivery has no effect.
func (st *Stage) dispatchFrames(sess api.Session, conn api.WebSocketConn) {
	in := sess.Input()
	if in.Len() == 0 {
		return
	}

	_, span := st.tracer.Start(sess.Context(), spanDispatch,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(attrSessionID, sess.ID()),
		))
	defer span.End()
	defer span.SetStatus(codes.Ok, codes.Ok.String())

	var frames []api.Frame
	for in.Len() > 0 {
		frame, n, err := st.codec.Decode(in.Bytes())
		if err != nil {
			if errors.Is(err, api.ErrIncompleteData) {
				break
			}
			// The wire state is unrecoverable. Close goes out first; the
			// intact frames decoded before the failure are still delivered.
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid framing")
			st.logger.Warn("invalid framing, closing session",
				zap.String("session_id", sess.ID()), zap.Error(err))
			sess.Close()
			break
		}
		in.Discard(n)
		frames = append(frames, frame)
	}

	span.SetAttributes(attribute.Int(attrFrameCount, len(frames)))
	for _, frame := range frames {
		st.handleFrame(sess, conn, frame)
	}
}
