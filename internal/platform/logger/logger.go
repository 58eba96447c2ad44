// Package logger provides the configured zerolog logger for curio binaries.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns the service logger. The level comes from CURIO_LOG_LEVEL
// (zerolog names: trace, debug, info, ...); unset or unparseable means info.
// It is read here rather than in config because logging must exist before
// config loads.
func New(serviceName string) zerolog.Logger {
	level := zerolog.InfoLevel
	if raw := os.Getenv("CURIO_LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil && parsed != zerolog.NoLevel {
			level = parsed
		}
	}
	return zerolog.New(os.Stdout).Level(level).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}
