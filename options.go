package tinyweb

import (
	"log/slog"

	"github.com/belyalov/tinyweb/config"
	"github.com/belyalov/tinyweb/metrics"
)

// Option tunes the app at construction time.
type Option func(*App)

// WithConfig replaces config.Default(). The config also seeds the app's route
// table, so per-route defaults follow it.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.cfg = cfg
	}
}

// WithLogger replaces slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(a *App) {
		a.log = log
	}
}

// WithMetrics enables Prometheus instrumentation. Without it nothing is
// recorded.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *App) {
		a.observe = m
	}
}

// WithDefaultHeaders replaces the headers rendered into every response unless
// the handler sets its own value for them. Without this option the set is
// "Server: tinyweb" extended by config.Headers.Default; pass an empty non-nil
// map to render no default headers at all.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(a *App) {
		a.defaultHeaders = headers
	}
}
