package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Format selects the logger output format.
type Format string

const (
	// FormatJSON emits structured records for log aggregation
	FormatJSON Format = "json"
	// FormatText emits human-readable records for development
	FormatText Format = "text"
)

type options struct {
	format Format
	level  slog.Level
	output io.Writer
	attrs  []slog.Attr
}

// Option configures logger construction.
type Option func(*options)

// WithFormat sets the output format. Panics on unknown formats so a
// misconfigured process fails at startup instead of logging garbage.
func WithFormat(f Format) Option {
	return func(o *options) {
		switch f {
		case FormatJSON, FormatText:
			o.format = f
		default:
			panic(fmt.Errorf("logger: invalid format %q", f))
		}
	}
}

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithOutput sets the destination. Nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithAttrs attaches static attributes to every record.
func WithAttrs(attrs ...slog.Attr) Option {
	return func(o *options) {
		o.attrs = append(o.attrs, attrs...)
	}
}

// New builds a *slog.Logger. Defaults: json format, info level, stdout.
func New(opts ...Option) *slog.Logger {
	o := options{
		format: FormatJSON,
		level:  slog.LevelInfo,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	handlerOpts := &slog.HandlerOptions{Level: o.level}

	var handler slog.Handler
	switch o.format {
	case FormatText:
		handler = slog.NewTextHandler(o.output, handlerOpts)
	default:
		handler = slog.NewJSONHandler(o.output, handlerOpts)
	}

	if len(o.attrs) > 0 {
		handler = handler.WithAttrs(o.attrs)
	}

	return slog.New(handler)
}
