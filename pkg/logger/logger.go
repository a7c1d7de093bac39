package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// contextKey is a typed key for context values to avoid collisions.
type contextKey string

const (
	// RequestIDKey is the context key for request ID.
	RequestIDKey contextKey = "request_id"
	// AddressKey is the context key for the address a request is scoped to.
	AddressKey contextKey = "address"
	// TxHashKey is the context key for the transaction a request targets.
	TxHashKey contextKey = "tx_hash"
	// TokenIDKey is the context key for the token a request targets.
	TokenIDKey contextKey = "token_id"
)

// scopedKeys are copied from a context onto the logger, in this order
var scopedKeys = []contextKey{RequestIDKey, AddressKey, TxHashKey, TokenIDKey}

// Logger is a structured logger wrapper around slog
type Logger struct {
	*slog.Logger
}

// Options selects output format and level
type Options struct {
	Env string
	// Format forces "json" outside production; production always logs JSON
	Format string
	// Level overrides the env default (debug, info, warn, error)
	Level string
}

// New creates a new structured logger. LOG_FORMAT=json forces JSON output
// outside production and LOG_LEVEL overrides the level.
func New(env string, output io.Writer) *Logger {
	return NewWithOptions(Options{
		Env:    env,
		Format: os.Getenv("LOG_FORMAT"),
		Level:  os.Getenv("LOG_LEVEL"),
	}, output)
}

// NewWithOptions creates a new structured logger from explicit options.
func NewWithOptions(o Options, output io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level:       levelFor(o.Env, o.Level),
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	}

	var handler slog.Handler
	if o.Env == "production" || o.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// NewDefault creates a new logger with default settings (stdout)
func NewDefault(env string) *Logger {
	return New(env, os.Stdout)
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return NewWithOptions(Options{Env: "production"}, io.Discard)
}

func levelFor(env, override string) slog.Level {
	var level slog.Level
	if override != "" && level.UnmarshalText([]byte(override)) == nil {
		return level
	}
	if env == "production" {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// replaceAttr formats timestamps as RFC3339 and trims source paths to file:line
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format(time.RFC3339))
		}
	case slog.SourceKey:
		if src, ok := a.Value.Any().(*slog.Source); ok {
			file := src.File
			if idx := strings.LastIndex(file, "/"); idx >= 0 {
				file = file[idx+1:]
			}
			a.Value = slog.StringValue(fmt.Sprintf("%s:%d", file, src.Line))
		}
	}
	return a
}

// WithScope stores value under key for later WithContext calls. Empty values
// are not stored.
func WithScope(ctx context.Context, key contextKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

// WithContext adds request-scoped fields to the logger
func (l *Logger) WithContext(ctx context.Context) *Logger {
	var args []any
	for _, key := range scopedKeys {
		if v := ctx.Value(key); v != nil {
			args = append(args, string(key), v)
		}
	}
	if len(args) == 0 {
		return l
	}
	return &Logger{Logger: l.With(args...)}
}

// WithField creates a new logger with an additional field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{Logger: l.With(key, value)}
}
