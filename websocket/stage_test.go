// File: websocket/stage_test.go
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package websocket

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gobwas/ws"
	"github.com/stretchr/testify/require"

	"github.com/protomux/wspipe/api"
	"github.com/protomux/wspipe/session"
)

const sampleUpgradeHead = "GET /chat HTTP/1.1\r\n" +
	"Host: example.com\r\n" +
	"Upgrade: websocket\r\n" +
	"Connection: Upgrade\r\n" +
	"Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\n" +
	"Sec-WebSocket-Version: 13\r\n" +
	"\r\n"

// recorder captures hook invocations in order.
type recorder struct {
	events []string
	// set inside OnPing: whether a reply was already queued on the session
	pongQueuedAtPing bool
	// set inside OnClose: whether the session context was already canceled
	sessionClosedAtClose bool
}

func (r *recorder) OnText(_ api.Session, text string) {
	r.events = append(r.events, "text:"+text)
}

func (r *recorder) OnBinary(_ api.Session, payload []byte) {
	r.events = append(r.events, "binary:"+string(payload))
}

func (r *recorder) OnPing(sess api.Session, payload []byte) {
	if s, ok := sess.(*session.Session); ok {
		r.pongQueuedAtPing = s.PendingOutbound() > 0
	}
	r.events = append(r.events, "ping:"+string(payload))
}

func (r *recorder) OnPong(_ api.Session, payload []byte) {
	r.events = append(r.events, "pong:"+string(payload))
}

func (r *recorder) OnClose(sess api.Session, code api.StatusCode) {
	r.sessionClosedAtClose = sess.Context().Err() != nil
	r.events = append(r.events, fmt.Sprintf("close:%d", code))
}

// maskedClientFrame compiles a masked client frame for feeding a session.
func maskedClientFrame(t *testing.T, f ws.Frame) []byte {
	t.Helper()
	return ws.MustCompileFrame(ws.MaskFrameInPlace(f))
}

// drainOutbound pops every pending outbound buffer.
func drainOutbound(s *session.Session) [][]byte {
	var out [][]byte
	for {
		p, ok := s.PopOutbound()
		if !ok {
			return out
		}
		out = append(out, p)
	}
}

func TestNonHTTPBytesAreForwarded(t *testing.T) {
	st := NewStage()
	s := session.New()
	s.Feed([]byte{0x16, 0x03, 0x01, 0x00, 0xc8})

	handled := st.OnInbound(s)

	require.False(t, handled)
	require.Equal(t, api.ProtocolNone, s.Protocol().Kind)
	require.Equal(t, []byte{0x16, 0x03, 0x01, 0x00, 0xc8}, s.Input().Bytes())
	require.Empty(t, drainOutbound(s))
}

func TestPlainHTTPRequestIsForwarded(t *testing.T) {
	st := NewStage()
	s := session.New()
	head := "GET /index.html HTTP/1.1\r\nHost: example.com\r\n\r\n"
	s.Feed([]byte(head))

	handled := st.OnInbound(s)

	require.False(t, handled)
	require.Equal(t, api.ProtocolNone, s.Protocol().Kind)
	// The request stays buffered for whichever stage claims it.
	require.Equal(t, []byte(head), s.Input().Bytes())
}

func TestOtherProtocolSessionIsForwarded(t *testing.T) {
	st := NewStage()
	s := session.New()
	s.SetProtocol(api.ProtocolState{Kind: api.ProtocolOther, Name: "mqtt"})
	s.Feed([]byte("anything"))

	require.False(t, st.OnInbound(s))
	require.Equal(t, []byte("anything"), s.Input().Bytes())
}

func TestUpgradeHandshake(t *testing.T) {
	st := NewStage()
	s := session.New()
	s.Feed([]byte(sampleUpgradeHead))

	handled := st.OnInbound(s)

	require.True(t, handled)
	state := s.Protocol()
	require.Equal(t, api.ProtocolWebSocket, state.Kind)
	require.NotNil(t, state.Conn)
	require.Zero(t, s.Input().Len())

	out := drainOutbound(s)
	require.Len(t, out, 1)
	response := string(out[0])
	require.True(t, strings.HasPrefix(response, "HTTP/1.1 101 Switching Protocols\r\n"))
	require.Contains(t, response, "Sec-WebSocket-Accept: s3pPLMBiTxaQ9kYGzzhZRbK+xOo=\r\n")
}

func TestSplitHandshakeUpgradesExactlyOnce(t *testing.T) {
	st := NewStage()
	s := session.New()
	head := []byte(sampleUpgradeHead)

	// Deliver the head byte-groups at a time; only the final delivery may
	// produce the response.
	for _, cut := range []int{10, 40, len(head)} {
		already := s.Input().Len()
		s.Feed(head[already:cut])
		handled := st.OnInbound(s)
		require.True(t, handled)
		if cut < len(head) {
			require.Equal(t, api.ProtocolNone, s.Protocol().Kind)
			require.Empty(t, drainOutbound(s))
		}
	}

	require.Equal(t, api.ProtocolWebSocket, s.Protocol().Kind)
	require.Len(t, drainOutbound(s), 1)

	// Replaying with an empty buffer neither responds again nor regresses.
	require.True(t, st.OnInbound(s))
	require.Equal(t, api.ProtocolWebSocket, s.Protocol().Kind)
	require.Empty(t, drainOutbound(s))
}

func TestHandshakeKeepsTrailingFrameBytes(t *testing.T) {
	rec := &recorder{}
	st := NewStage(WithEvents(rec))
	s := session.New()

	frame := maskedClientFrame(t, ws.NewPingFrame([]byte("hi")))
	s.Feed(append([]byte(sampleUpgradeHead), frame...))

	require.True(t, st.OnInbound(s))
	require.Equal(t, api.ProtocolWebSocket, s.Protocol().Kind)
	require.Equal(t, frame, s.Input().Bytes())
	require.Empty(t, rec.events)

	// The next delivery dispatches the buffered frame.
	require.True(t, st.OnInbound(s))
	require.Equal(t, []string{"ping:hi"}, rec.events)
}

func TestMalformedHandshakeClosesSession(t *testing.T) {
	rec := &recorder{}
	st := NewStage(WithEvents(rec))
	s := session.New()
	s.Feed([]byte("GET / HTTP/1.1\r\nthis header has no colon\r\n\r\n"))

	handled := st.OnInbound(s)

	require.True(t, handled)
	require.Zero(t, s.Input().Len())
	require.Error(t, s.Context().Err())
	require.Equal(t, api.ProtocolNone, s.Protocol().Kind)
	require.Empty(t, rec.events)
}

func TestHandshakeSendFailureLeavesStateUntouched(t *testing.T) {
	st := NewStage()
	s := session.New()
	s.Feed([]byte(sampleUpgradeHead))
	s.Close()

	handled := st.OnInbound(s)

	require.True(t, handled)
	require.Equal(t, api.ProtocolNone, s.Protocol().Kind)
	require.Nil(t, s.Protocol().Conn)
}

func TestEmptyBufferHandshakeIsNoOp(t *testing.T) {
	st := NewStage()
	s := session.New()

	require.True(t, st.OnInbound(s))
	require.Equal(t, api.ProtocolNone, s.Protocol().Kind)
	require.NoError(t, s.Context().Err())
}
