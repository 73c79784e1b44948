// SPDX-License-Identifier: MIT

// Package remote runs circuits on another process over nanomsg REQ/REP
// sockets (mangos). Client is a backend.Backend; Server hosts any
// backend.Backend behind a REP socket.
//
// Wire format, one JSON document per message:
//
//	request  {"id": "<uuid>", "circuit": {...}, "shots": 1024}
//	response {"id": "<uuid>", "counts": {"0101": 17, ...}}
//	         {"id": "<uuid>", "error": "...", "retryable": true}
//
// Bit-strings on the wire use the same ordering as package sample; a
// service that prints qubit 0 last must be adapted at its own boundary.
//
// Failure mapping on the client: socket errors, send/receive deadlines and
// responses flagged retryable become *backend.UnavailableError; any other
// server error is returned as ErrRemote and is not retried.
//
// Any mangos transport URL works: tcp://host:port, ipc:///path, inproc://name.
package remote
