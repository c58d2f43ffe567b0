// File: server/server.go
// Package server hosts the pipeline over plain TCP connections.
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0
//
// The server is a thin event loop around the inbound pipeline: it accepts
// TCP connections, feeds their bytes into sessions, dispatches each delivery
// through the stage chain, and drains the outbound mailboxes back onto the
// sockets. All protocol logic lives in the stages.

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/protomux/wspipe/adapters"
	"github.com/protomux/wspipe/api"
	"github.com/protomux/wspipe/control"
	"github.com/protomux/wspipe/pipeline"
	"github.com/protomux/wspipe/pool"
	"github.com/protomux/wspipe/session"
	"github.com/protomux/wspipe/websocket"
)

// Server accepts connections and runs the inbound pipeline over them.
type Server struct {
	cfg            *control.Config
	logger         *zap.Logger
	tracerProvider trace.TracerProvider
	events         api.Events
	extraStages    []api.InboundHandler
	middleware     []pipeline.Middleware

	metrics  *control.MetricsRegistry
	registry *session.Registry
	handler  api.InboundHandler
	buffers  *pool.BufferPool

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

// New wires the WebSocket stage, any extra stages, and the built-in
// middleware into a ready-to-run server.
func New(cfg *control.Config, opts ...Option) *Server {
	if cfg == nil {
		cfg = control.DefaultConfig()
	}
	s := &Server{
		cfg:     cfg,
		logger:  zap.NewNop(),
		events:  websocket.NopEvents{},
		metrics: control.NewMetricsRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}

	codec := adapters.NewWireCodec()
	codec.MaxPayload = cfg.MaxFramePayload
	parser := adapters.NewRequestParser()
	parser.MaxHeadBytes = cfg.MaxHandshakeBytes

	stage := websocket.NewStage(
		websocket.WithCodec(codec),
		websocket.WithParser(parser),
		websocket.WithEvents(websocket.InstrumentEvents(s.events, s.tracerProvider)),
		websocket.WithLogger(s.logger.Named("websocket")),
		websocket.WithTracerProvider(s.tracerProvider),
	)

	stages := append([]api.InboundHandler{stage}, s.extraStages...)
	chain := append([]pipeline.Middleware{
		pipeline.Recovery(s.logger.Named("pipeline")),
		pipeline.Metrics(s.metrics),
		pipeline.Logging(s.logger.Named("pipeline")),
	}, s.middleware...)
	s.handler = pipeline.Chain(pipeline.New(stages...), chain...)

	s.registry = session.NewRegistry(cfg.ShardCount)
	s.buffers = pool.NewBufferPool(cfg.ReadBufferSize)
	return s
}

// Listen binds the configured address. Run calls it when needed; tests call
// it directly to learn the bound port before serving.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	return nil
}

// Addr returns the bound address, nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Metrics returns the server's counter registry.
func (s *Server) Metrics() *control.MetricsRegistry {
	return s.metrics
}

// Registry returns the live session registry.
func (s *Server) Registry() *session.Registry {
	return s.registry
}

// Run serves until ctx is canceled, then closes the listener, closes every
// session, and waits for the connection pumps within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	if s.Addr() == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()

	s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return ln.Close()
	})
	g.Go(func() error {
		return s.acceptLoop(ctx, ln)
	})

	err := g.Wait()
	s.registry.Range(func(sess *session.Session) {
		sess.Close()
	})
	s.waitPumps()

	if errors.Is(err, net.ErrClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Temporary() {
				continue
			}
			return err
		}
		s.metrics.Inc("server.connections_total")
		s.wg.Add(1)
		go s.serveConn(ctx, conn)
	}
}

func (s *Server) waitPumps() {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(s.cfg.ShutdownTimeout):
		s.logger.Warn("shutdown timeout reached with connection pumps still running")
	}
}
