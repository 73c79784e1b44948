// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/netqaoa/config"
	"github.com/katalvlaran/netqaoa/metrics"
)

// app is the state shared by all subcommands after flag parsing.
type app struct {
	configFile string
	envFile    string

	cfg  config.Config
	log  logr.Logger
	sync func()
}

func newRootCmd() *cobra.Command {
	a := &app{log: logr.Discard(), sync: func() {}}
	root := &cobra.Command{
		Use:          "netqaoa",
		Short:        "Variational QUBO solver for small energy-flow networks",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.Sources{ConfigFile: a.configFile, EnvFile: a.envFile, Flags: cmd.Flags()})
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log, a.sync, err = newLogger(cfg.LogLevel)
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) { a.sync() },
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "YAML configuration file")
	pf.StringVar(&a.envFile, "env-file", "", "dotenv file with NETQAOA_* variables")
	config.RegisterFlags(pf)

	root.AddCommand(
		newSolveCmd(a),
		newExactCmd(a),
		newQUBOCmd(a),
		newCheckCmd(a),
		newServeCmd(a),
		newRunsCmd(a),
	)
	return root
}

// serveMetrics exposes reg on addr/metrics until the returned stop is
// called. Listen errors are logged, not fatal.
func serveMetrics(addr string, reg *metrics.Registry, log logr.Logger) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, "metrics server")
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
