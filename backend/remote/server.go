// SPDX-License-Identifier: MIT

package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/rep"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/netqaoa/backend"
)

// Server hosts a backend.Backend behind a REP socket.
type Server struct {
	cfg  serverConfig
	b    backend.Backend
	sock mangos.Socket
}

// NewServer opens a REP socket serving b.
func NewServer(b backend.Backend, opts ...ServerOption) (*Server, error) {
	sock, err := rep.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("remote: open rep socket: %w", err)
	}
	return &Server{cfg: newServerConfig(opts...), b: b, sock: sock}, nil
}

// Listen binds addr. It may be called several times for several transports.
func (s *Server) Listen(addr string) error {
	if err := s.sock.Listen(addr); err != nil {
		return fmt.Errorf("remote: listen %s: %w", addr, err)
	}
	s.cfg.log.Info("remote backend listening", "addr", addr, "backend", s.b.Name(), "workers", s.cfg.workers)
	return nil
}

// Serve answers requests with the configured number of workers until ctx
// ends, then closes the socket. It returns nil on a clean shutdown.
func (s *Server) Serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < s.cfg.workers; w++ {
		mctx, err := s.sock.OpenContext()
		if err != nil {
			_ = s.sock.Close()
			return fmt.Errorf("remote: open rep context: %w", err)
		}
		g.Go(func() error { return s.work(gctx, mctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		return s.sock.Close()
	})

	err := g.Wait()
	if errors.Is(err, mangos.ErrClosed) || ctx.Err() != nil {
		return nil
	}
	return err
}

// Close closes the socket; a running Serve returns.
func (s *Server) Close() error { return s.sock.Close() }

func (s *Server) work(ctx context.Context, mctx mangos.Context) error {
	defer mctx.Close()
	for {
		raw, err := mctx.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// ErrClosed after Close also lands here and ends the group.
			return fmt.Errorf("remote: recv: %w", err)
		}
		out, err := json.Marshal(s.handle(ctx, raw))
		if err != nil {
			return fmt.Errorf("remote: encode response: %w", err)
		}
		if err = mctx.Send(out); err != nil {
			if ctx.Err() != nil || errors.Is(err, mangos.ErrClosed) {
				return nil
			}
			s.cfg.log.Error(err, "send response")
		}
	}
}

func (s *Server) handle(ctx context.Context, raw []byte) response {
	var r request
	if err := json.Unmarshal(raw, &r); err != nil {
		return response{Error: fmt.Sprintf("decode request: %v", err)}
	}
	resp := response{ID: r.ID}
	if r.Circuit == nil {
		resp.Error = "request without circuit"
		return resp
	}
	if err := r.Circuit.Validate(); err != nil {
		resp.Error = err.Error()
		return resp
	}

	dist, err := s.b.Run(ctx, r.Circuit, r.Shots)
	if err != nil {
		s.cfg.log.V(1).Info("run failed", "id", r.ID, "err", err.Error())
		resp.Error = err.Error()
		resp.Retryable = backend.IsRetryable(err)
		return resp
	}
	resp.Counts = dist
	return resp
}

// Serve is NewServer, Listen and Serve in one call.
func Serve(ctx context.Context, addr string, b backend.Backend, opts ...ServerOption) error {
	s, err := NewServer(b, opts...)
	if err != nil {
		return err
	}
	if err = s.Listen(addr); err != nil {
		_ = s.Close()
		return err
	}
	return s.Serve(ctx)
}
