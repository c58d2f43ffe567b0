// File: websocket/instrument.go
// Package websocket implements the upgrade and frame-dispatch stage.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0
//
// Instrumentation decorator wrapping user hooks with spans.

package websocket

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/protomux/wspipe/api"
)

// instrumentedEvents traces calls into the decorated hooks.
type instrumentedEvents struct {
	next   api.Events
	tracer trace.Tracer
}

// InstrumentEvents decorates next so every hook runs inside a span carrying
// the session ID and payload size. A nil tracerProvider falls back to the
// global provider.
func InstrumentEvents(next api.Events, tracerProvider trace.TracerProvider) api.Events {
	if tracerProvider == nil {
		tracerProvider = otel.GetTracerProvider()
	}
	return &instrumentedEvents{
		next:   next,
		tracer: tracerProvider.Tracer(pkgName, trace.WithInstrumentationVersion(pkgVersion)),
	}
}

func (d *instrumentedEvents) OnText(sess api.Session, text string) {
	_, span := d.tracer.Start(sess.Context(), spanOnText,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(attrSessionID, sess.ID()),
			attribute.Int(attrPayloadLength, len(text)),
		))
	defer span.End()
	defer span.SetStatus(codes.Ok, codes.Ok.String())
	d.next.OnText(sess, text)
}

func (d *instrumentedEvents) OnBinary(sess api.Session, payload []byte) {
	_, span := d.tracer.Start(sess.Context(), spanOnBinary,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(attrSessionID, sess.ID()),
			attribute.Int(attrPayloadLength, len(payload)),
		))
	defer span.End()
	defer span.SetStatus(codes.Ok, codes.Ok.String())
	d.next.OnBinary(sess, payload)
}

func (d *instrumentedEvents) OnPing(sess api.Session, payload []byte) {
	_, span := d.tracer.Start(sess.Context(), spanOnPing,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(attrSessionID, sess.ID()),
			attribute.Int(attrPayloadLength, len(payload)),
		))
	defer span.End()
	defer span.SetStatus(codes.Ok, codes.Ok.String())
	d.next.OnPing(sess, payload)
}

func (d *instrumentedEvents) OnPong(sess api.Session, payload []byte) {
	_, span := d.tracer.Start(sess.Context(), spanOnPong,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(attrSessionID, sess.ID()),
			attribute.Int(attrPayloadLength, len(payload)),
		))
	defer span.End()
	defer span.SetStatus(codes.Ok, codes.Ok.String())
	d.next.OnPong(sess, payload)
}

func (d *instrumentedEvents) OnClose(sess api.Session, code api.StatusCode) {
	_, span := d.tracer.Start(sess.Context(), spanOnClose,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(attrSessionID, sess.ID()),
			attribute.Int(attrCloseCode, int(code)),
		))
	defer span.End()
	defer span.SetStatus(codes.Ok, codes.Ok.String())
	d.next.OnClose(sess, code)
}
