package host

import "log/slog"

// Options configure the window.
type Options struct {
	Title         string
	Width, Height int

	// TPS is the update rate in ticks per second.
	TPS int

	// Distance is the initial camera distance.
	Distance float64

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "retrodesk"
	}
	if o.Width <= 0 {
		o.Width = 1280
	}
	if o.Height <= 0 {
		o.Height = 760
	}
	if o.TPS <= 0 {
		o.TPS = 60
	}
	if o.Distance <= 0 {
		o.Distance = 3
	}
	o.Distance = min(max(o.Distance, MinDistance), MaxDistance)
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
