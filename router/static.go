package router

import (
	"path"
	"strings"

	"github.com/belyalov/tinyweb/http"
	"github.com/belyalov/tinyweb/http/status"
)

// Static serves the files under root at prefix: /static/site.css maps to
// root/site.css. A parameter spans a single segment, so nested directories
// under root aren't reachable. Requests trying to climb out of root with ".."
// are answered 404, same as a missing file.
func (r *Router) Static(prefix, root string, opts ...Option) *Router {
	pattern := strings.TrimSuffix(prefix, "/") + "/<path>"

	handler := func(request *http.Request) *http.Response {
		if !isSafePath(request.Param) {
			return request.Respond().Error(status.ErrFileNotFound)
		}

		return request.Respond().FileWith(path.Join(root, request.Param), http.FileOptions{
			MaxAge: r.cfg.HTTP.FileCacheMaxAge,
		})
	}

	return r.Route(pattern, handler, opts...)
}

// isSafePath tells whether the captured segment stays inside the served root.
// path.Join cleans traversals away, yet a cleaned path may still begin with
// ".." and escape, so any dot-dot segment disqualifies the whole path.
func isSafePath(p string) bool {
	for _, segment := range strings.Split(p, "/") {
		if segment == ".." {
			return false
		}
	}

	return true
}
