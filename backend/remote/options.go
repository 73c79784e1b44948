// SPDX-License-Identifier: MIT

package remote

import (
	"time"

	"github.com/go-logr/logr"
)

const (
	// DefaultTimeout bounds one request/response exchange.
	DefaultTimeout = 30 * time.Second
	// DefaultWorkers is the number of concurrent server contexts.
	DefaultWorkers = 4
	// DefaultName is the client backend name.
	DefaultName = "remote"
)

// ClientOption customises Dial.
type ClientOption func(*clientConfig)

type clientConfig struct {
	timeout time.Duration
	name    string
	log     logr.Logger
}

func newClientConfig(opts ...ClientOption) clientConfig {
	cfg := clientConfig{timeout: DefaultTimeout, name: DefaultName, log: logr.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithTimeout bounds each exchange. Panics if d <= 0.
func WithTimeout(d time.Duration) ClientOption {
	if d <= 0 {
		panic("remote: WithTimeout(d<=0)")
	}
	return func(c *clientConfig) { c.timeout = d }
}

// WithName overrides the backend name. Panics on "".
func WithName(name string) ClientOption {
	if name == "" {
		panic("remote: WithName(\"\")")
	}
	return func(c *clientConfig) { c.name = name }
}

// WithClientLogger attaches a logger to the client.
func WithClientLogger(l logr.Logger) ClientOption {
	return func(c *clientConfig) { c.log = l }
}

// ServerOption customises NewServer.
type ServerOption func(*serverConfig)

type serverConfig struct {
	workers int
	log     logr.Logger
}

func newServerConfig(opts ...ServerOption) serverConfig {
	cfg := serverConfig{workers: DefaultWorkers, log: logr.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithWorkers sets how many requests are served concurrently. Panics if n < 1.
func WithWorkers(n int) ServerOption {
	if n < 1 {
		panic("remote: WithWorkers(n<1)")
	}
	return func(c *serverConfig) { c.workers = n }
}

// WithServerLogger attaches a logger to the server.
func WithServerLogger(l logr.Logger) ServerOption {
	return func(c *serverConfig) { c.log = l }
}
