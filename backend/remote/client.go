// SPDX-License-Identifier: MIT

package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/req"

	// register tcp, ipc, inproc, ...
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/katalvlaran/netqaoa/backend"
	"github.com/katalvlaran/netqaoa/circuit"
	"github.com/katalvlaran/netqaoa/sample"
)

// ErrRemote marks a non-transient failure reported by the server.
var ErrRemote = errors.New("remote: server error")

// Client is a backend.Backend speaking to a Server.
type Client struct {
	cfg  clientConfig
	addr string
	sock mangos.Socket
}

var _ backend.Backend = (*Client)(nil)

// Dial opens a REQ socket towards addr. The dial is asynchronous: a server
// that is not up yet surfaces later, per call, as *backend.UnavailableError.
func Dial(addr string, opts ...ClientOption) (*Client, error) {
	cfg := newClientConfig(opts...)
	sock, err := req.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("remote: open req socket: %w", err)
	}
	if err = sock.DialOptions(addr, map[string]interface{}{mangos.OptionDialAsynch: true}); err != nil {
		_ = sock.Close()
		return nil, backend.Unavailable(cfg.name, fmt.Errorf("dial %s: %w", addr, err))
	}
	return &Client{cfg: cfg, addr: addr, sock: sock}, nil
}

// Name implements backend.Backend.
func (c *Client) Name() string { return c.cfg.name }

// Close releases the socket.
func (c *Client) Close() error { return c.sock.Close() }

// Run sends one request on its own mangos context and waits for the reply.
// The exchange is bounded by the configured timeout and by ctx.
func (c *Client) Run(ctx context.Context, circ *circuit.Circuit, shots int) (sample.Distribution, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("%w: got %d", backend.ErrShots, shots)
	}
	if err := circ.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	payload, err := json.Marshal(request{ID: id, Circuit: circ, Shots: shots})
	if err != nil {
		return nil, fmt.Errorf("remote: encode request: %w", err)
	}

	mctx, err := c.sock.OpenContext()
	if err != nil {
		return nil, backend.Unavailable(c.cfg.name, err)
	}
	defer mctx.Close()
	stop := context.AfterFunc(ctx, func() { _ = mctx.Close() })
	defer stop()

	wait := c.cfg.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < wait {
			wait = left
		}
	}
	if wait <= 0 {
		return nil, backend.Unavailable(c.cfg.name, context.DeadlineExceeded)
	}
	_ = mctx.SetOption(mangos.OptionSendDeadline, wait)
	_ = mctx.SetOption(mangos.OptionRecvDeadline, wait)

	start := time.Now()
	if err = mctx.Send(payload); err != nil {
		return nil, c.transportErr(ctx, "send", err)
	}
	raw, err := mctx.Recv()
	if err != nil {
		return nil, c.transportErr(ctx, "recv", err)
	}

	var resp response
	if err = json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", backend.ErrMalformedResult, err)
	}
	if resp.ID != id {
		return nil, fmt.Errorf("%w: response id %q, want %q", backend.ErrMalformedResult, resp.ID, id)
	}
	if resp.Error != "" {
		if resp.Retryable {
			return nil, backend.Unavailable(c.cfg.name, errors.New(resp.Error))
		}
		return nil, fmt.Errorf("%w: %s", ErrRemote, resp.Error)
	}

	c.cfg.log.V(1).Info("remote run", "addr", c.addr, "id", id, "shots", shots, "elapsed", time.Since(start))
	return resp.Counts, nil
}

// transportErr maps a socket failure: caller cancellation stays as is,
// everything else is transient.
func (c *Client) transportErr(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return backend.Unavailable(c.cfg.name, fmt.Errorf("%s %s: %w", op, c.addr, err))
}
