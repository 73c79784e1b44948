// SPDX-License-Identifier: MIT

// Package store keeps a history of solver runs in an embedded SQLite
// database (pure-Go driver, no cgo).
//
// A run is created before optimisation starts, receives one row per
// objective evaluation while the optimiser works, and is finished with
// either a JSON report or an error message. The network and parameters are
// stored as JSON snapshots so that a run can be inspected without the
// files it was started from.
//
// Timestamps are stored as Unix nanoseconds (UTC).
package store
