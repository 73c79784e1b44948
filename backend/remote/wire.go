// SPDX-License-Identifier: MIT

package remote

import (
	"github.com/katalvlaran/netqaoa/circuit"
	"github.com/katalvlaran/netqaoa/sample"
)

type request struct {
	ID      string           `json:"id"`
	Circuit *circuit.Circuit `json:"circuit"`
	Shots   int              `json:"shots"`
}

type response struct {
	ID        string              `json:"id"`
	Counts    sample.Distribution `json:"counts,omitempty"`
	Error     string              `json:"error,omitempty"`
	Retryable bool                `json:"retryable,omitempty"`
}
