package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// benchConfig carries the bench defaults. Values come from the environment;
// flags override whatever the environment said.
type benchConfig struct {
	Workers      int           `env:"CALLCACHE_BENCH_WORKERS" envDefault:"8"`
	Members      int           `env:"CALLCACHE_BENCH_MEMBERS" envDefault:"50"`
	Duration     time.Duration `env:"CALLCACHE_BENCH_DURATION" envDefault:"5s"`
	MinInterval  time.Duration `env:"CALLCACHE_BENCH_MIN_INTERVAL" envDefault:"100ms"`
	BackendDelay time.Duration `env:"CALLCACHE_BENCH_BACKEND_DELAY" envDefault:"5ms"`
	Shards       int           `env:"CALLCACHE_BENCH_SHARDS" envDefault:"4"`
}

func loadBenchConfig() (benchConfig, error) {
	var cfg benchConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
