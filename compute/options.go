package compute

import "log/slog"

// Option configures a Bridge.
type Option func(*options)

type options struct {
	isolated  bool
	name      string
	queueSize int
	logger    *slog.Logger
}

func defaultOptions() options {
	return options{
		isolated:  true,
		name:      "compute",
		queueSize: 64,
		logger:    slog.New(slog.DiscardHandler),
	}
}

// WithIsolation selects the worker strategy. When false the bridge runs
// every call synchronously.
func WithIsolation(enabled bool) Option {
	return func(o *options) {
		o.isolated = enabled
	}
}

// WithName labels the bridge in log records.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithQueueSize bounds the number of requests waiting for the worker.
// Submissions beyond the bound are rejected with ErrQueueFull.
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithLogger sets the logger. Nil keeps the silent default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
