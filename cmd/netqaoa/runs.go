// SPDX-License-Identifier: MIT

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/netqaoa/store"
)

var errNoStore = errors.New("no run store configured (--store-path)")

func newRunsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the run history",
	}

	open := func() (*store.Store, error) {
		if a.cfg.StorePath == "" {
			return nil, errNoStore
		}
		return store.Open(a.cfg.StorePath)
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := open()
			if err != nil {
				return err
			}
			defer st.Close()
			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printRuns(cmd.OutOrStdout(), runs)
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum number of runs (0: all)")

	var trace bool
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := open()
			if err != nil {
				return err
			}
			defer st.Close()
			run, err := st.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := struct {
				store.Run
				Trace any `json:"trace,omitempty"`
			}{Run: run}
			if trace {
				evs, err := st.Evaluations(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				out.Trace = evs
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	show.Flags().BoolVar(&trace, "trace", false, "include the evaluation trace")

	cmd.AddCommand(list, show)
	return cmd
}
