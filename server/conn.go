// File: server/conn.go
// Package server hosts the pipeline over plain TCP connections.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0
//
// Per-connection pumps. The reader feeds bytes into the session and
// dispatches through the pipeline; the writer drains the outbound mailbox
// onto the socket. Dispatch is single-goroutine per session.

package server

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/protomux/wspipe/session"
)

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()

	sess := session.New(
		session.WithContext(ctx),
		session.WithCloseHook(func() { _ = conn.Close() }),
	)
	s.registry.Put(sess)
	s.metrics.Add("server.connections_active", 1)
	defer func() {
		s.registry.Delete(sess.ID())
		s.metrics.Add("server.connections_active", -1)
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.writeLoop(sess, conn)
	}()

	s.readLoop(sess, conn)
}

// readLoop reads socket bytes into the session and dispatches each delivery.
func (s *Server) readLoop(sess *session.Session, conn net.Conn) {
	buf := s.buffers.Get()
	defer s.buffers.Put(buf)

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			sess.Feed(buf[:n])
			if !s.handler.OnInbound(sess) {
				s.metrics.Inc("server.unhandled_events")
				s.logger.Warn("inbound bytes unhandled by every stage, closing session",
					zap.String("session_id", sess.ID()),
					zap.String("remote_addr", conn.RemoteAddr().String()))
				sess.Close()
				return
			}
			if sess.Context().Err() != nil {
				return
			}
		}
		if err != nil {
			sess.Close()
			return
		}
	}
}

// writeLoop drains the outbound mailbox onto the socket. On session close it
// makes one final drain attempt so an already queued close frame still goes
// out.
func (s *Server) writeLoop(sess *session.Session, conn net.Conn) {
	for {
		select {
		case <-sess.Context().Done():
			s.flushOutbound(sess, conn)
			return
		case <-sess.Wake():
			if !s.flushOutbound(sess, conn) {
				sess.Close()
				return
			}
		}
	}
}

func (s *Server) flushOutbound(sess *session.Session, conn net.Conn) bool {
	for {
		buf, ok := sess.PopOutbound()
		if !ok {
			return true
		}
		_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		if _, err := conn.Write(buf); err != nil {
			s.logger.Debug("outbound write failed",
				zap.String("session_id", sess.ID()), zap.Error(err))
			return false
		}
	}
}
