// File: websocket/tracing.go
// Package websocket implements the upgrade and frame-dispatch stage.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package websocket

// Constants used for tracing purpose.
const (
	// Instrumentation name used by the library tracer.
	pkgName = "github.com/protomux/wspipe/websocket"
	// Instrumentation version.
	pkgVersion = "0.1.0"

	// Namespace used by spans, events and attributes.
	namespace = "wspipe"
	// Sub-namespace used by spans wrapping user provided hooks.
	callbacksNamespace = namespace + ".callback"

	// Name of the span around one handshake attempt.
	spanHandshake = namespace + ".handshake"
	// Name of the span around one frame-dispatch batch.
	spanDispatch = namespace + ".dispatch"

	// Names of the spans around user hooks.
	spanOnText   = callbacksNamespace + ".on_text"
	spanOnBinary = callbacksNamespace + ".on_binary"
	spanOnPing   = callbacksNamespace + ".on_ping"
	spanOnPong   = callbacksNamespace + ".on_pong"
	spanOnClose  = callbacksNamespace + ".on_close"

	// Event recorded when buffered bytes are not HTTP and pass downstream.
	eventNotHTTP = namespace + ".not_http"
	// Event recorded while an HTTP head is still incomplete.
	eventAwaitingBytes = namespace + ".awaiting_bytes"
	// Event recorded when a complete request is not a WebSocket upgrade.
	eventPlainHTTP = namespace + ".plain_http"
	// Event recorded when the session upgrades.
	eventUpgraded = namespace + ".upgraded"

	// Attribute carrying the session identifier.
	attrSessionID = namespace + ".session_id"
	// Attribute carrying the number of frames decoded in one batch.
	attrFrameCount = namespace + ".frame_count"
	// Attribute carrying a hook payload length.
	attrPayloadLength = namespace + ".payload_length"
	// Attribute carrying the close status code.
	attrCloseCode = namespace + ".close_code"
)
