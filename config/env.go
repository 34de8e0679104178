package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Env holds the configuration read from the environment.
type Env struct {
	Seed            uint64  `env:"CONTRACTMODEL_SEED"`
	MaxRuns         int     `env:"CONTRACTMODEL_MAX_RUNS"          envDefault:"100"`
	MaxSize         int     `env:"CONTRACTMODEL_MAX_SIZE"          envDefault:"100"`
	MaxShrinks      int     `env:"CONTRACTMODEL_MAX_SHRINKS"       envDefault:"1000"`
	NumConcurrent   int     `env:"CONTRACTMODEL_NUM_CONCURRENT"`
	WaitProbability float64 `env:"CONTRACTMODEL_WAIT_PROBABILITY"  envDefault:"0.1"`
	IgnoreErrors    bool    `env:"CONTRACTMODEL_IGNORE_ERRORS"`
	IgnorePanics    bool    `env:"CONTRACTMODEL_IGNORE_PANICS"`
	LogLevel        string  `env:"CONTRACTMODEL_LOG_LEVEL"         envDefault:"info"`
	Report          string  `env:"CONTRACTMODEL_REPORT"`
}

// The configuration used when no environment variable is set.
func Defaults() Env {
	return Env{
		MaxRuns:         100,
		MaxSize:         100,
		MaxShrinks:      1000,
		WaitProbability: 0.1,
		LogLevel:        "info",
	}
}

// FromEnv loads the configuration from environment variables.
func FromEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, errors.Wrap(err, "parse env")
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return Env{}, errors.Wrap(err, "parse env")
	}
	return cfg, nil
}

// The check options described by the configuration.
//
// A zero seed or number of concurrent runs is left to the default.
func (cfg Env) Options() []Option {
	opts := []Option{
		MaxRunsOption{MaxRuns: cfg.MaxRuns},
		MaxSizeOption{MaxSize: cfg.MaxSize},
		MaxShrinksOption{MaxShrinks: cfg.MaxShrinks},
		WaitProbabilityOption{P: cfg.WaitProbability},
	}
	if cfg.Seed != 0 {
		opts = append(opts, SeedOption{Seed: cfg.Seed})
	}
	if cfg.NumConcurrent > 0 {
		opts = append(opts, NumConcurrentOption{N: cfg.NumConcurrent})
	}
	if cfg.IgnoreErrors {
		opts = append(opts, IgnoreErrorOption{})
	}
	if cfg.IgnorePanics {
		opts = append(opts, IgnorePanicOption{})
	}
	return opts
}

// Set the level of the standard logger
func (cfg Env) ConfigureLogging() error {
	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	log.SetLevel(lvl)
	return nil
}
