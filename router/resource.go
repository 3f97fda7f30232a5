package router

import (
	"errors"
	"iter"

	"github.com/belyalov/tinyweb/http"
	"github.com/belyalov/tinyweb/http/method"
	"github.com/belyalov/tinyweb/http/query"
	"github.com/belyalov/tinyweb/http/status"
)

var errNoResult = errors.New("restful handler returned no result")

// ResourceFunc serves one verb of a REST resource. data is the decoded body
// merged with the query string, query winning on collisions; param is the
// captured path segment, empty on explicit routes.
type ResourceFunc func(data map[string]any, param string) (Result, error)

// Resource is a set of per-verb handlers. Nil verbs aren't served and stay out
// of the route's method list, so the automatic OPTIONS response advertises
// exactly what the resource implements.
type Resource struct {
	Get    ResourceFunc
	Post   ResourceFunc
	Put    ResourceFunc
	Delete ResourceFunc
}

type resultKind uint8

const (
	resultInvalid resultKind = iota
	resultValue
	resultValueWithStatus
	resultStream
)

// Result is what a ResourceFunc produces: a value serialized to JSON under
// 200, a value under an explicit status code, or a stream sent chunk by
// chunk. The zero Result is invalid and reports a 500.
type Result struct {
	value  any
	stream iter.Seq[string]
	code   status.Code
	kind   resultKind
}

// Value replies 200 with v serialized to JSON.
func Value(v any) Result {
	return Result{kind: resultValue, value: v}
}

// ValueWithStatus replies with v serialized to JSON under an explicit status
// code.
func ValueWithStatus(v any, code status.Code) Result {
	return Result{kind: resultValueWithStatus, value: v, code: code}
}

// Stream replies with chunked transfer coding, one chunk per yielded string.
// The producer is lazy: it runs as the chunks leave, nothing is buffered up
// front.
func Stream(seq iter.Seq[string]) Result {
	return Result{kind: resultStream, stream: seq}
}

// Resource registers a REST resource under pattern. The allowed methods
// follow from the verbs the resource implements, responses carry JSON and the
// route's CORS headers.
func (r *Router) Resource(pattern string, res Resource, opts ...Option) *Router {
	verbs := [...]struct {
		m  method.Method
		fn ResourceFunc
	}{
		{method.GET, res.Get},
		{method.POST, res.Post},
		{method.PUT, res.Put},
		{method.DELETE, res.Delete},
	}

	methods := make(method.List, 0, len(verbs))
	callmap := make(map[method.Method]ResourceFunc, len(verbs))
	for _, verb := range verbs {
		if verb.fn != nil {
			methods = append(methods, verb.m)
			callmap[verb.m] = verb.fn
		}
	}

	handler := func(request *http.Request) *http.Response {
		return serveResource(request, callmap)
	}

	return r.Route(pattern, handler, append(opts, WithMethods(methods...))...)
}

func serveResource(request *http.Request, callmap map[method.Method]ResourceFunc) *http.Response {
	data, err := request.Body.Form()
	if err != nil {
		return request.Respond().Error(err)
	}

	// query pairs override body fields, handy when developing an API by hand
	if raw := request.Query.Raw(); len(raw) > 0 {
		for key, value := range query.Parse(raw, nil).Pairs() {
			data[key] = value
		}
	}

	result, err := callmap[request.Method](data, request.Param)
	if err != nil {
		return request.Respond().Error(err)
	}

	switch result.kind {
	case resultValue:
		return withAccessControl(request, request.Respond().JSON(result.value))
	case resultValueWithStatus:
		return withAccessControl(request, request.Respond().Code(result.code).JSON(result.value))
	case resultStream:
		return withAccessControl(request, request.Respond().Stream(result.stream))
	default:
		return request.Respond().Error(errNoResult)
	}
}

// withAccessControl renders the route's CORS values, in the same order the
// automatic OPTIONS response does.
func withAccessControl(request *http.Request, resp *http.Response) *http.Response {
	return resp.
		Header("Access-Control-Allow-Origin", request.Env.AllowOrigin).
		Header("Access-Control-Allow-Methods", request.Env.AllowMethods).
		Header("Access-Control-Allow-Headers", request.Env.AllowHeaders)
}
