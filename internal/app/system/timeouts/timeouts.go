// Package timeouts provides centralized timeout values for handler operations.
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing  = 2 * time.Second
	DefaultWrite = 5 * time.Second
	DefaultRead  = 10 * time.Second
)

// Config holds timeout configuration values. Zero fields are left unchanged
// by Configure.
type Config struct {
	Ping  time.Duration // health probes
	Write time.Duration // single-record inserts and updates
	Read  time.Duration // history reads and windowed aggregates
}

var (
	mu      sync.RWMutex
	current = defaults()
)

func defaults() Config {
	return Config{Ping: DefaultPing, Write: DefaultWrite, Read: DefaultRead}
}

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Ping
}

// Write returns the timeout for tracking writes.
func Write() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Write
}

// Read returns the timeout for history reads and statistics.
func Read() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return current.Read
}

// Configure sets custom timeout values.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		current.Ping = cfg.Ping
	}
	if cfg.Write > 0 {
		current.Write = cfg.Write
	}
	if cfg.Read > 0 {
		current.Read = cfg.Read
	}
}

// Reset restores all timeouts to defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = defaults()
}

// ConfigureFromEnv reads TIMEOUT_PING, TIMEOUT_WRITE and TIMEOUT_READ as Go
// durations. Unparseable or non-positive values are ignored. It returns the
// number of values applied.
func ConfigureFromEnv() int {
	var cfg Config
	configured := 0
	for name, dst := range map[string]*time.Duration{
		"TIMEOUT_PING":  &cfg.Ping,
		"TIMEOUT_WRITE": &cfg.Write,
		"TIMEOUT_READ":  &cfg.Read,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
			configured++
		}
	}
	Configure(cfg)
	return configured
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// WithTimeout creates a context with timeout and logs when the deadline is hit.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
