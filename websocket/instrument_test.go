// File: websocket/instrument_test.go
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package websocket

import (
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/protomux/wspipe/api"
	"github.com/protomux/wspipe/session"
)

func TestInstrumentEventsPassThrough(t *testing.T) {
	rec := &recorder{}
	wrapped := InstrumentEvents(rec, nil)
	s := session.New()

	wrapped.OnText(s, "a")
	wrapped.OnBinary(s, []byte("b"))
	wrapped.OnPing(s, []byte("c"))
	wrapped.OnPong(s, []byte("d"))
	wrapped.OnClose(s, api.StatusNormalClosure)

	require.Equal(t, []string{"text:a", "binary:b", "ping:c", "pong:d", "close:1000"}, rec.events)
}

func TestInstrumentEventsEmitsSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	rec := &recorder{}
	wrapped := InstrumentEvents(rec, tp)
	s := session.New()

	wrapped.OnText(s, "traced")
	wrapped.OnClose(s, api.StatusGoingAway)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "wspipe.callback.on_text", spans[0].Name())
	require.Equal(t, "wspipe.callback.on_close", spans[1].Name())
}
