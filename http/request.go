package http

import (
	"context"
	"net"

	"github.com/belyalov/tinyweb/config"
	"github.com/belyalov/tinyweb/http/method"
	"github.com/belyalov/tinyweb/http/query"
	"github.com/belyalov/tinyweb/kv"
)

var zeroContext = context.Background()

type Headers = *kv.Storage

// Request represents a single HTTP request. It lives exactly as long as the
// connection it arrived on does.
type Request struct {
	// Method is an enum representing the request method.
	Method method.Method
	// Path is the raw request path. No percent-decoding is applied to it, so
	// it matches routes byte for byte; handlers decode via the query package
	// when they need to.
	Path string
	// Query wraps the raw query string, parsed lazily on first access.
	Query *query.Query
	// Proto is the verbatim protocol token from the request line, e.g. "HTTP/1.0".
	// It is recorded but never interpreted.
	Proto string
	// Headers holds header pairs in their wire spelling. Lookups are
	// exact-match, and only the names from the route's save-list are retained
	// when one is configured.
	Headers Headers
	// Param is the trailing segment captured by a parameterized route, raw as
	// it appeared on the wire. Empty for explicit matches.
	Param string
	// Extra carries per-route values configured at registration time.
	Extra *kv.Storage
	// Remote holds the peer address.
	Remote net.Addr
	// Ctx is a user-managed context living as long as the connection does.
	Ctx context.Context
	// Env contains a fixed set of contextual values the server fills in once
	// the route is known. They aren't passed via Ctx to spare the allocation.
	Env Environment
	// Body provides lazy access to the message body. The server binds it once
	// the route, and thereby the body size cap, is known.
	Body     *Body
	response *Response
	cfg      *config.Config
}

func NewRequest(cfg *config.Config, response *Response, remote net.Addr) *Request {
	return &Request{
		Method:   method.Unknown,
		Query:    query.New(),
		Headers:  kv.New(),
		Remote:   remote,
		Ctx:      zeroContext,
		response: response,
		cfg:      cfg,
	}
}

// Respond returns the connection's response builder.
//
// The builder is cleared on every call, so anything set on it earlier in the
// handler is discarded.
func (r *Request) Respond() *Response {
	return r.response.Clear()
}

// Environment carries per-route values the handler may want to reflect back.
type Environment struct {
	// AllowOrigin, AllowMethods and AllowHeaders hold the route's CORS
	// values. Automatic OPTIONS responses and REST handlers render them as
	// the Access-Control-Allow-* headers.
	AllowOrigin  string
	AllowMethods string
	AllowHeaders string
}
