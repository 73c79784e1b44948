// SPDX-License-Identifier: MIT

package qaoa

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/katalvlaran/netqaoa/backend"
	"github.com/katalvlaran/netqaoa/backend/remote"
	"github.com/katalvlaran/netqaoa/backend/statevector"
	"github.com/katalvlaran/netqaoa/config"
)

// ErrUnknownBackend is returned by NewBackend for an unrecognised name.
var ErrUnknownBackend = errors.New("qaoa: unknown backend")

// NewBackend builds the backend named by cfg.Backend. The returned close
// function releases its resources and is never nil.
func NewBackend(cfg config.Config, log logr.Logger) (backend.Backend, func() error, error) {
	switch cfg.Backend {
	case "sim", "simulator", "statevector":
		sim := statevector.New(
			statevector.WithSeed(cfg.Seed),
			statevector.WithMaxQubits(cfg.MaxQubits),
			statevector.WithLogger(log.WithName("statevector")),
		)
		return sim, func() error { return nil }, nil
	case "remote":
		if cfg.RemoteAddr == "" {
			return nil, nil, fmt.Errorf("%w: remote backend without remote_addr", ErrUnknownBackend)
		}
		cl, err := remote.Dial(cfg.RemoteAddr,
			remote.WithTimeout(cfg.BackendTimeout),
			remote.WithClientLogger(log.WithName("remote")),
		)
		if err != nil {
			return nil, nil, err
		}
		return cl, cl.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
