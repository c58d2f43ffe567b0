// File: server/server_test.go
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package server

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/stretchr/testify/require"

	"github.com/protomux/wspipe/api"
	"github.com/protomux/wspipe/control"
	"github.com/protomux/wspipe/pipeline"
	"github.com/protomux/wspipe/websocket"
)

// echoEvents writes every text and binary payload straight back.
type echoEvents struct {
	websocket.NopEvents
}

func (echoEvents) OnText(sess api.Session, text string) {
	_ = sess.Protocol().Conn.WriteText(text)
}

func (echoEvents) OnBinary(sess api.Session, payload []byte) {
	_ = sess.Protocol().Conn.WriteBinary(payload)
}

func testConfig() *control.Config {
	cfg := control.DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.WriteTimeout = 2 * time.Second
	cfg.ShutdownTimeout = 2 * time.Second
	return cfg
}

func startServer(t *testing.T, srv *Server) (string, context.CancelFunc, chan error) {
	t.Helper()
	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	return srv.Addr().String(), cancel, done
}

func stopServer(t *testing.T, cancel context.CancelFunc, done chan error) {
	t.Helper()
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestEchoOverWebSocket(t *testing.T) {
	srv := New(testConfig(), WithEvents(echoEvents{}))
	addr, cancel, done := startServer(t, srv)

	ctx, dialCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer dialCancel()
	conn, br, _, err := ws.Dialer{}.Dial(ctx, "ws://"+addr+"/")
	require.NoError(t, err)
	require.Nil(t, br)
	defer conn.Close()

	frame := ws.MaskFrameInPlace(ws.NewTextFrame([]byte("hello")))
	require.NoError(t, ws.WriteFrame(conn, frame))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	echo, err := ws.ReadFrame(conn)
	require.NoError(t, err)
	require.Equal(t, ws.OpText, echo.Header.OpCode)
	require.False(t, echo.Header.Masked)
	require.Equal(t, "hello", string(echo.Payload))

	stopServer(t, cancel, done)
}

func TestPingGetsPong(t *testing.T) {
	srv := New(testConfig())
	addr, cancel, done := startServer(t, srv)

	ctx, dialCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer dialCancel()
	conn, _, _, err := ws.Dialer{}.Dial(ctx, "ws://"+addr+"/")
	require.NoError(t, err)
	defer conn.Close()

	frame := ws.MaskFrameInPlace(ws.NewPingFrame([]byte("are you there")))
	require.NoError(t, ws.WriteFrame(conn, frame))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	pong, err := ws.ReadFrame(conn)
	require.NoError(t, err)
	require.Equal(t, ws.OpPong, pong.Header.OpCode)
	require.Equal(t, "are you there", string(pong.Payload))

	stopServer(t, cancel, done)
}

func TestCloseFrameTearsDownConnection(t *testing.T) {
	srv := New(testConfig())
	addr, cancel, done := startServer(t, srv)

	ctx, dialCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer dialCancel()
	conn, _, _, err := ws.Dialer{}.Dial(ctx, "ws://"+addr+"/")
	require.NoError(t, err)
	defer conn.Close()

	body := ws.NewCloseFrameBody(ws.StatusNormalClosure, "done")
	frame := ws.MaskFrameInPlace(ws.NewCloseFrame(body))
	require.NoError(t, ws.WriteFrame(conn, frame))

	// The server closes the TCP connection after dispatching the close.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	buf := make([]byte, 1)
	for {
		_, err = conn.Read(buf)
		if err != nil {
			break
		}
	}
	require.ErrorIs(t, err, io.EOF)

	stopServer(t, cancel, done)
}

func TestUnhandledBytesCloseConnection(t *testing.T) {
	srv := New(testConfig())
	addr, cancel, done := startServer(t, srv)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	// A complete non-upgrade HTTP request is declined by the WebSocket
	// stage; with no further stages the server drops the connection.
	_, err = conn.Write([]byte("GET / HTTP/1.1\r\nHost: example.com\r\n\r\n"))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	buf := make([]byte, 1)
	for {
		_, err = conn.Read(buf)
		if err != nil {
			break
		}
	}
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, int64(1), srv.Metrics().Snapshot()["server.unhandled_events"])

	stopServer(t, cancel, done)
}

func TestExtraStageClaimsForeignProtocol(t *testing.T) {
	got := make(chan string, 1)
	claim := pipeline.HandlerFunc(func(sess api.Session) bool {
		data := string(sess.Input().Bytes())
		sess.Input().Clear()
		select {
		case got <- data:
		default:
		}
		return true
	})

	srv := New(testConfig(), WithStages(claim))
	addr, cancel, done := startServer(t, srv)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte{0x00, 0x01, 0x02, 0xff})
	require.NoError(t, err)

	select {
	case data := <-got:
		require.Equal(t, string([]byte{0x00, 0x01, 0x02, 0xff}), data)
	case <-time.After(3 * time.Second):
		t.Fatal("extra stage never saw the bytes")
	}

	stopServer(t, cancel, done)
}

func TestGracefulShutdownClosesSessions(t *testing.T) {
	srv := New(testConfig())
	addr, cancel, done := startServer(t, srv)

	ctx, dialCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer dialCancel()
	conn, _, _, err := ws.Dialer{}.Dial(ctx, "ws://"+addr+"/")
	require.NoError(t, err)
	defer conn.Close()

	stopServer(t, cancel, done)

	// The session was torn down with the server.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, err = conn.Read(make([]byte, 1))
	require.Error(t, err)
	require.Equal(t, 0, srv.Registry().Len())
}
