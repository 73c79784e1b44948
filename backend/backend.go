// SPDX-License-Identifier: MIT

// Package backend defines the execution boundary of the solver: anything
// that can run a circuit for a number of shots and return an outcome
// distribution.
//
// Contract of Run:
//   - the returned counts are non-negative and sum to shots;
//   - every bit-string follows the ordering documented in package sample
//     (character q is qubit q);
//   - sampling noise is expected and never an error;
//   - unreachable services and timeouts are reported as *UnavailableError,
//     which is Retryable.
//
// Implementations live in subpackages (statevector, remote). This package
// adds the shared error taxonomy and three decorators: Checked (result
// contract), WithTimeout (deadline mapping) and Instrument (metrics).
package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/netqaoa/circuit"
	"github.com/katalvlaran/netqaoa/metrics"
	"github.com/katalvlaran/netqaoa/sample"
)

var (
	// ErrUnavailable is matched by every *UnavailableError.
	ErrUnavailable = errors.New("backend: unavailable")

	// ErrMalformedResult marks a distribution that breaks the Run contract.
	ErrMalformedResult = errors.New("backend: malformed result")

	// ErrShots marks a non-positive shot count.
	ErrShots = errors.New("backend: shots must be > 0")
)

// Backend executes circuits.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	// Run executes c shots times.
	Run(ctx context.Context, c *circuit.Circuit, shots int) (sample.Distribution, error)
}

// UnavailableError reports a backend that could not be reached or did not
// answer in time. The same angles may be retried.
type UnavailableError struct {
	Backend string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("backend %s unavailable: %v", e.Backend, e.Err)
}

// Unwrap exposes both ErrUnavailable and the cause.
func (e *UnavailableError) Unwrap() []error { return []error{ErrUnavailable, e.Err} }

// Retryable marks the failure as transient.
func (e *UnavailableError) Retryable() bool { return true }

// Unavailable wraps err as an *UnavailableError for backend name.
func Unavailable(name string, err error) error {
	return &UnavailableError{Backend: name, Err: err}
}

// IsRetryable reports whether err (or anything it wraps) declares itself
// transient through a Retryable() bool method.
func IsRetryable(err error) bool {
	var r interface{ Retryable() bool }
	return errors.As(err, &r) && r.Retryable()
}

// Check validates dist against the Run contract for a circuit over qubits
// qubits executed shots times.
func Check(dist sample.Distribution, shots, qubits int) error {
	if err := dist.Validate(shots, qubits); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResult, err)
	}
	return nil
}

// checked enforces Check on every result of the wrapped backend.
type checked struct {
	Backend
}

// Checked wraps b so that every distribution is validated before it is
// returned. Contract violations surface as ErrMalformedResult.
func Checked(b Backend) Backend { return checked{b} }

func (c checked) Run(ctx context.Context, circ *circuit.Circuit, shots int) (sample.Distribution, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrShots, shots)
	}
	dist, err := c.Backend.Run(ctx, circ, shots)
	if err != nil {
		return nil, err
	}
	if err = Check(dist, shots, circ.Qubits); err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name(), err)
	}
	return dist, nil
}

// timeout bounds every Run with a deadline.
type timeout struct {
	Backend
	d time.Duration
}

// WithTimeout bounds each Run of b by d. Expiry of that deadline is
// reported as *UnavailableError; cancellation of the caller's own context
// is returned unchanged. A non-positive d returns b as is.
func WithTimeout(b Backend, d time.Duration) Backend {
	if d <= 0 {
		return b
	}
	return timeout{Backend: b, d: d}
}

func (t timeout) Run(ctx context.Context, c *circuit.Circuit, shots int) (sample.Distribution, error) {
	runCtx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()

	dist, err := t.Backend.Run(runCtx, c, shots)
	if err == nil {
		return dist, nil
	}
	if ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) && !IsRetryable(err) {
		return nil, Unavailable(t.Name(), fmt.Errorf("no result within %s: %w", t.d, err))
	}
	return nil, err
}

// instrumented records every Run in a metrics.Registry.
type instrumented struct {
	Backend
	reg *metrics.Registry
}

// Instrument wraps b so that each Run is counted and timed in reg. A nil
// reg returns b as is.
func Instrument(b Backend, reg *metrics.Registry) Backend {
	if reg == nil {
		return b
	}
	return instrumented{Backend: b, reg: reg}
}

func (i instrumented) Run(ctx context.Context, c *circuit.Circuit, shots int) (sample.Distribution, error) {
	start := time.Now()
	dist, err := i.Backend.Run(ctx, c, shots)
	status := metrics.StatusOK
	if err != nil {
		status = metrics.StatusError
	}
	i.reg.RecordBackendRun(i.Name(), status, time.Since(start))
	return dist, err
}
