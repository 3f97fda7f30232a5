package router

import (
	"fmt"
	"strings"

	"github.com/belyalov/tinyweb/config"
	"github.com/belyalov/tinyweb/http"
	"github.com/belyalov/tinyweb/http/method"
	"github.com/belyalov/tinyweb/kv"
)

// Handler processes a request and returns the response to serialize. Returning
// the untouched builder produces a bare 200.
type Handler func(request *http.Request) *http.Response

// Route is the immutable post-registration record the server dispatches by.
type Route struct {
	Handler Handler
	Methods method.List
	// ParseHeaders disabled leaves the header block unread on the socket.
	ParseHeaders bool
	MaxBodySize  int64
	// AutoOptions makes the server answer OPTIONS itself, CORS headers
	// included, without invoking the handler.
	AutoOptions bool
	// SaveHeaders, when non-nil, lists the only header names worth
	// retaining. Matching is exact, the wire spelling counts.
	SaveHeaders []string
	// AllowOrigin, AllowHeaders are configured per route; AllowMethods is
	// derived from Methods at registration.
	AllowOrigin  string
	AllowHeaders string
	AllowMethods string
	// ParamName is the <name> a parameterized pattern declared.
	ParamName string
	// Extra carries arbitrary registration-time values through to the
	// handler.
	Extra *kv.Storage
}

// Router maps request paths to routes. All registration happens before the
// server starts listening, after that the table is read-only and safe for
// concurrent resolution.
type Router struct {
	cfg           *config.Config
	explicit      map[string]*Route
	parameterized map[string]*Route
	err           error
}

func New(cfg *config.Config) *Router {
	return &Router{
		cfg:           cfg,
		explicit:      make(map[string]*Route),
		parameterized: make(map[string]*Route),
	}
}

// Route registers handler under pattern. A trailing <name> segment makes the
// route parameterized: it catches every path extending the pattern's prefix by
// a single segment, which is captured raw into Request.Param. The full literal
// pattern stays matchable directly in either case.
//
// Calls chain; the first failed registration is remembered and surfaced by
// Err, so a typo fails the app on startup instead of dropping an endpoint.
func (r *Router) Route(pattern string, handler Handler, opts ...Option) *Router {
	if err := r.register(pattern, handler, opts); err != nil && r.err == nil {
		r.err = err
	}

	return r
}

// Get registers a handler for GET requests.
func (r *Router) Get(pattern string, handler Handler, opts ...Option) *Router {
	return r.Route(pattern, handler, append(opts, WithMethods(method.GET))...)
}

// Post registers a handler for POST requests.
func (r *Router) Post(pattern string, handler Handler, opts ...Option) *Router {
	return r.Route(pattern, handler, append(opts, WithMethods(method.POST))...)
}

// Put registers a handler for PUT requests.
func (r *Router) Put(pattern string, handler Handler, opts ...Option) *Router {
	return r.Route(pattern, handler, append(opts, WithMethods(method.PUT))...)
}

// Delete registers a handler for DELETE requests.
func (r *Router) Delete(pattern string, handler Handler, opts ...Option) *Router {
	return r.Route(pattern, handler, append(opts, WithMethods(method.DELETE))...)
}

// Err reports the first registration failure, if any.
func (r *Router) Err() error {
	return r.err
}

func (r *Router) register(pattern string, handler Handler, opts []Option) error {
	if len(pattern) == 0 || strings.IndexByte(pattern, '?') != -1 {
		return fmt.Errorf("invalid pattern: %q", pattern)
	}

	route := &Route{
		Handler:      handler,
		Methods:      method.List{method.GET},
		ParseHeaders: true,
		MaxBodySize:  r.cfg.Body.MaxSize,
		AutoOptions:  true,
		AllowOrigin:  "*",
		AllowHeaders: "*",
	}
	for _, opt := range opts {
		opt(route)
	}
	route.AllowMethods = route.Methods.String()

	var (
		parameterized bool
		prefix        string
	)
	if strings.HasSuffix(pattern, ">") {
		idx := strings.LastIndexByte(pattern, '<')
		if idx == -1 {
			return fmt.Errorf("invalid pattern: %q has no parameter opener", pattern)
		}

		parameterized = true
		prefix = pattern[:idx]
		route.ParamName = pattern[idx+1 : len(pattern)-1]

		if _, occupied := r.parameterized[prefix]; occupied {
			return fmt.Errorf("route already registered: %s", pattern)
		}
	}

	if _, occupied := r.explicit[pattern]; occupied {
		return fmt.Errorf("route already registered: %s", pattern)
	}

	// all checks passed, a failed registration never got here and so has
	// left the table untouched
	if parameterized {
		r.parameterized[prefix] = route
	}
	r.explicit[pattern] = route

	return nil
}

// Resolve finds the route serving path. An explicit match always wins; failing
// that, the path's prefix up to and including its last '/' is tried against
// the parameterized routes and the remainder, possibly empty, is captured as
// the parameter.
func (r *Router) Resolve(path string) (route *Route, param string, found bool) {
	if route, found = r.explicit[path]; found {
		return route, "", true
	}

	idx := strings.LastIndexByte(path, '/')
	if idx == -1 {
		return nil, "", false
	}

	if route, found = r.parameterized[path[:idx+1]]; found {
		return route, path[idx+1:], true
	}

	return nil, "", false
}
