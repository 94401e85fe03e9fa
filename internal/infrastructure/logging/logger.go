package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Canonical field names shared by all components.
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldFamily    = "family"
	FieldBaseURL   = "base_url"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldCount     = "count"
)

// Config captures options for configuring the base logger.
type Config struct {
	Level   string    // "debug", "info", ...; falls back to LOG_LEVEL, then info
	Output  io.Writer // defaults to os.Stdout
	Service string    // attached to every entry
	Version string
}

var (
	mu   sync.Mutex
	base = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Configure replaces the base logger. It is called once from main before any
// component logger is derived.
func Configure(cfg Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	} else if env := os.Getenv("LOG_LEVEL"); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	writer := cfg.Output
	if writer == nil {
		writer = os.Stdout
	}

	service := cfg.Service
	if service == "" {
		service = "nextpvr-go"
	}

	l := zerolog.New(writer).With().
		Timestamp().
		Str("service", service).
		Str("version", cfg.Version).
		Logger()

	mu.Lock()
	base = l
	mu.Unlock()
	return l
}

// Base returns the configured base logger.
func Base() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return base
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str(FieldComponent, component).Logger()
}
