package router

import (
	"github.com/belyalov/tinyweb/http/method"
	"github.com/belyalov/tinyweb/kv"
)

// Option tunes a single route at registration time.
type Option func(*Route)

// WithMethods replaces the allowed method list, GET only by default.
func WithMethods(methods ...method.Method) Option {
	return func(r *Route) {
		r.Methods = methods
	}
}

// WithoutHeaderParsing leaves the header block unread for this route. Handlers
// see no headers and, as a consequence, no body.
func WithoutHeaderParsing() Option {
	return func(r *Route) {
		r.ParseHeaders = false
	}
}

// WithMaxBodySize replaces the body size cap, config.Body.MaxSize by default.
func WithMaxBodySize(n int64) Option {
	return func(r *Route) {
		r.MaxBodySize = n
	}
}

// WithSaveHeaders keeps only the named headers, matched exactly as spelled on
// the wire. Without this option every header is retained.
func WithSaveHeaders(names ...string) Option {
	return func(r *Route) {
		r.SaveHeaders = names
	}
}

// WithoutAutoOptions disables the automatic OPTIONS response, handing the
// method to the route's own list instead.
func WithoutAutoOptions() Option {
	return func(r *Route) {
		r.AutoOptions = false
	}
}

// WithAllowOrigin replaces the Access-Control-Allow-Origin value, "*" by
// default.
func WithAllowOrigin(origin string) Option {
	return func(r *Route) {
		r.AllowOrigin = origin
	}
}

// WithAllowHeaders replaces the Access-Control-Allow-Headers value, "*" by
// default.
func WithAllowHeaders(headers string) Option {
	return func(r *Route) {
		r.AllowHeaders = headers
	}
}

// WithExtra attaches a registration-time value the handler can read back via
// Request.Extra.
func WithExtra(key, value string) Option {
	return func(r *Route) {
		if r.Extra == nil {
			r.Extra = kv.New()
		}

		r.Extra.Add(key, value)
	}
}
