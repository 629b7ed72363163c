// File: logging/logging.go
// Author: momentics <momentics@gmail.com>
//
// Package-level *zap.Logger, initialized once and used throughout the
// connection core as logging.L.Info(msg, zap.Int(...)), following
// fzft-go-mock-redis's log/log.go convention.

package logging

import (
	"go.uber.org/zap"
)

// L is the shared logger. Defaults to a no-op logger until Init is called,
// so library code never needs a nil check.
var L = zap.NewNop()

// Init installs a production-configured logger as L. Safe to call once at
// process startup; not safe to call concurrently with logging calls.
func Init() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	L = logger
	return nil
}

// InitDevelopment installs a development-configured logger (human-readable,
// debug level enabled) as L, for tests and local runs.
func InitDevelopment() error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	L = logger
	return nil
}
