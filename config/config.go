// SPDX-License-Identifier: MIT

// Package config loads the run configuration shared by the CLI and the
// solver.
//
// Sources, highest precedence first:
//
//	command-line flags (only those the user changed)
//	environment variables NETQAOA_<KEY>
//	dotenv file (same NETQAOA_<KEY> names)
//	YAML config file
//	Default()
//
// Keys are snake_case (max_iterations); the matching flag is kebab-case
// (--max-iterations).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "NETQAOA"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config holds every tunable of a solve.
type Config struct {
	Penalty              float64       `mapstructure:"penalty" validate:"gt=0"`
	Layers               int           `mapstructure:"layers" validate:"min=1,max=32"`
	Shots                int           `mapstructure:"shots" validate:"min=1"`
	MaxIterations        int           `mapstructure:"max_iterations" validate:"min=1"`
	InitialAngle         float64       `mapstructure:"initial_angle"`
	Seed                 int64         `mapstructure:"seed"`
	Backend              string        `mapstructure:"backend" validate:"oneof=sim simulator statevector remote"`
	RemoteAddr           string        `mapstructure:"remote_addr" validate:"required_if=Backend remote"`
	BackendTimeout       time.Duration `mapstructure:"backend_timeout" validate:"gt=0"`
	MaxQubits            int           `mapstructure:"max_qubits" validate:"min=1,max=30"`
	MaxRetries           int           `mapstructure:"max_retries" validate:"min=0"`
	RetryInitialInterval time.Duration `mapstructure:"retry_initial_interval" validate:"gte=0"`
	WarmStart            int           `mapstructure:"warm_start" validate:"min=0"`
	Workers              int           `mapstructure:"workers" validate:"min=1"`
	ExactLimit           int           `mapstructure:"exact_limit" validate:"min=0,max=30"`
	StorePath            string        `mapstructure:"store_path"`
	LogLevel             string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	MetricsAddr          string        `mapstructure:"metrics_addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Penalty:              10,
		Layers:               1,
		Shots:                1024,
		MaxIterations:        100,
		InitialAngle:         0.1,
		Backend:              "sim",
		BackendTimeout:       30 * time.Second,
		MaxQubits:            22,
		MaxRetries:           3,
		RetryInitialInterval: 100 * time.Millisecond,
		Workers:              4,
		ExactLimit:           20,
		LogLevel:             "info",
	}
}

// Keys lists every configuration key in declaration order.
func Keys() []string {
	return []string{
		"penalty", "layers", "shots", "max_iterations", "initial_angle", "seed",
		"backend", "remote_addr", "backend_timeout", "max_qubits", "max_retries",
		"retry_initial_interval", "warm_start", "workers", "exact_limit",
		"store_path", "log_level", "metrics_addr",
	}
}

// FlagName maps a key to its flag name.
func FlagName(key string) string { return strings.ReplaceAll(key, "_", "-") }

var validate = validator.New()

// Validate checks the documented ranges.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("%w: %s fails %q (value %v)", ErrInvalid, e.Field(), tagWithParam(e), e.Value())
		}
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func tagWithParam(e validator.FieldError) string {
	if e.Param() == "" {
		return e.Tag()
	}
	return e.Tag() + "=" + e.Param()
}

// Sources names where Load reads from. Empty paths and a nil flag set are
// skipped.
type Sources struct {
	ConfigFile string
	EnvFile    string
	Flags      *pflag.FlagSet
}

// Load merges all sources over Default() and validates the result.
func Load(src Sources) (Config, error) {
	v := viper.New()
	def := Default()
	defaults := map[string]any{
		"penalty": def.Penalty, "layers": def.Layers, "shots": def.Shots,
		"max_iterations": def.MaxIterations, "initial_angle": def.InitialAngle,
		"seed": def.Seed, "backend": def.Backend, "remote_addr": def.RemoteAddr,
		"backend_timeout": def.BackendTimeout, "max_qubits": def.MaxQubits,
		"max_retries": def.MaxRetries, "retry_initial_interval": def.RetryInitialInterval,
		"warm_start": def.WarmStart, "workers": def.Workers, "exact_limit": def.ExactLimit,
		"store_path": def.StorePath, "log_level": def.LogLevel, "metrics_addr": def.MetricsAddr,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if src.ConfigFile != "" {
		v.SetConfigFile(src.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", src.ConfigFile, err)
		}
	}
	if src.EnvFile != "" {
		values, err := readEnvFile(src.EnvFile)
		if err != nil {
			return Config{}, err
		}
		if err = v.MergeConfigMap(values); err != nil {
			return Config{}, fmt.Errorf("config: merge %s: %w", src.EnvFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if src.Flags != nil {
		for _, k := range Keys() {
			if f := src.Flags.Lookup(FlagName(k)); f != nil {
				if err := v.BindPFlag(k, f); err != nil {
					return Config{}, fmt.Errorf("config: bind --%s: %w", f.Name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	c.Backend = strings.ToLower(c.Backend)
	c.LogLevel = strings.ToLower(c.LogLevel)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// readEnvFile reads KEY=value lines and keeps NETQAOA_* keys, renamed to
// configuration keys. Unknown keys are ignored.
func readEnvFile(path string) (map[string]any, error) {
	ev := viper.New()
	ev.SetConfigFile(path)
	ev.SetConfigType("env")
	if err := ev.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	known := make(map[string]bool, len(Keys()))
	for _, k := range Keys() {
		known[k] = true
	}
	prefix := strings.ToLower(EnvPrefix) + "_"
	out := make(map[string]any)
	for _, raw := range ev.AllKeys() {
		k, ok := strings.CutPrefix(raw, prefix)
		if ok && known[k] {
			out[k] = ev.Get(raw)
		}
	}
	return out, nil
}

// RegisterFlags adds one flag per key to fs, with Default() values.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.Float64(FlagName("penalty"), d.Penalty, "constraint penalty weight P")
	fs.Int(FlagName("layers"), d.Layers, "circuit depth p")
	fs.Int(FlagName("shots"), d.Shots, "samples per circuit execution")
	fs.Int(FlagName("max_iterations"), d.MaxIterations, "optimiser iteration cap")
	fs.Float64(FlagName("initial_angle"), d.InitialAngle, "initial value of every angle")
	fs.Int64(FlagName("seed"), d.Seed, "seed for sampling and warm start (0: default)")
	fs.String(FlagName("backend"), d.Backend, "execution backend: sim|remote")
	fs.String(FlagName("remote_addr"), d.RemoteAddr, "remote backend address, e.g. tcp://127.0.0.1:40899")
	fs.Duration(FlagName("backend_timeout"), d.BackendTimeout, "timeout of one backend run")
	fs.Int(FlagName("max_qubits"), d.MaxQubits, "simulator qubit limit")
	fs.Int(FlagName("max_retries"), d.MaxRetries, "retries of a transient backend failure")
	fs.Duration(FlagName("retry_initial_interval"), d.RetryInitialInterval, "first retry delay")
	fs.Int(FlagName("warm_start"), d.WarmStart, "random warm-start candidates")
	fs.Int(FlagName("workers"), d.Workers, "warm-start concurrency")
	fs.Int(FlagName("exact_limit"), d.ExactLimit, "largest variable count solved by enumeration")
	fs.String(FlagName("store_path"), d.StorePath, "SQLite run history (empty: disabled)")
	fs.String(FlagName("log_level"), d.LogLevel, "debug|info|warn|error")
	fs.String(FlagName("metrics_addr"), d.MetricsAddr, "serve /metrics on this address (empty: disabled)")
}
