package router

import (
	"testing"

	"github.com/belyalov/tinyweb/config"
	"github.com/belyalov/tinyweb/http"
	"github.com/belyalov/tinyweb/http/method"
	"github.com/stretchr/testify/require"
)

func nop(request *http.Request) *http.Response {
	return nil
}

func TestRouterRegister(t *testing.T) {
	cfg := config.Default()

	t.Run("defaults", func(t *testing.T) {
		r := New(cfg).Route("/", nop)
		require.NoError(t, r.Err())

		route, param, found := r.Resolve("/")
		require.True(t, found)
		require.Empty(t, param)
		require.Equal(t, method.List{method.GET}, route.Methods)
		require.Equal(t, "GET", route.AllowMethods)
		require.Equal(t, "*", route.AllowOrigin)
		require.Equal(t, "*", route.AllowHeaders)
		require.True(t, route.ParseHeaders)
		require.True(t, route.AutoOptions)
		require.Nil(t, route.SaveHeaders)
		require.Equal(t, cfg.Body.MaxSize, route.MaxBodySize)
	})

	t.Run("options override defaults", func(t *testing.T) {
		r := New(cfg).Route("/upload", nop,
			WithMethods(method.POST, method.PUT),
			WithoutHeaderParsing(),
			WithMaxBodySize(1<<20),
			WithoutAutoOptions(),
			WithAllowOrigin("https://example.com"),
			WithAllowHeaders("Content-Type"),
			WithSaveHeaders("Content-Length"),
			WithExtra("backend", "s3"),
		)
		require.NoError(t, r.Err())

		route, _, found := r.Resolve("/upload")
		require.True(t, found)
		require.Equal(t, method.List{method.POST, method.PUT}, route.Methods)
		require.Equal(t, "POST, PUT", route.AllowMethods)
		require.False(t, route.ParseHeaders)
		require.False(t, route.AutoOptions)
		require.EqualValues(t, 1<<20, route.MaxBodySize)
		require.Equal(t, "https://example.com", route.AllowOrigin)
		require.Equal(t, "Content-Type", route.AllowHeaders)
		require.Equal(t, []string{"Content-Length"}, route.SaveHeaders)
		require.Equal(t, "s3", route.Extra.Value("backend"))
	})

	t.Run("shorthands pin the method", func(t *testing.T) {
		r := New(cfg).
			Get("/a", nop).
			Post("/b", nop).
			Put("/c", nop).
			Delete("/d", nop)
		require.NoError(t, r.Err())

		for path, want := range map[string]method.Method{
			"/a": method.GET, "/b": method.POST, "/c": method.PUT, "/d": method.DELETE,
		} {
			route, _, found := r.Resolve(path)
			require.True(t, found)
			require.Equal(t, method.List{want}, route.Methods)
		}
	})

	t.Run("shorthand wins over an explicit method option", func(t *testing.T) {
		r := New(cfg).Post("/only-post", nop, WithMethods(method.GET, method.DELETE))
		require.NoError(t, r.Err())

		route, _, _ := r.Resolve("/only-post")
		require.Equal(t, method.List{method.POST}, route.Methods)
		require.Equal(t, "POST", route.AllowMethods)
	})

	t.Run("empty pattern", func(t *testing.T) {
		require.Error(t, New(cfg).Route("", nop).Err())
	})

	t.Run("pattern with a question mark", func(t *testing.T) {
		require.Error(t, New(cfg).Route("/search?q=1", nop).Err())
	})

	t.Run("closer without an opener", func(t *testing.T) {
		require.Error(t, New(cfg).Route("/users/id>", nop).Err())
	})

	t.Run("duplicate explicit", func(t *testing.T) {
		r := New(cfg).Route("/twice", nop).Route("/twice", nop)
		require.Error(t, r.Err())
	})

	t.Run("duplicate parameterized prefix", func(t *testing.T) {
		r := New(cfg).
			Route("/users/<id>", nop).
			Route("/users/<name>", nop)
		require.Error(t, r.Err())
	})

	t.Run("failed registration leaves the table untouched", func(t *testing.T) {
		r := New(cfg).
			Route("/users/<id>", nop).
			Route("/users/<name>", nop, WithMethods(method.DELETE))
		require.Error(t, r.Err())

		route, param, found := r.Resolve("/users/42")
		require.True(t, found)
		require.Equal(t, "42", param)
		require.Equal(t, "id", route.ParamName)
		require.Equal(t, method.List{method.GET}, route.Methods)
	})

	t.Run("first error sticks", func(t *testing.T) {
		r := New(cfg).Route("", nop).Route("/dup", nop).Route("/dup", nop)
		require.EqualError(t, r.Err(), `invalid pattern: ""`)
	})
}

func TestRouterResolve(t *testing.T) {
	r := New(config.Default()).
		Route("/", nop).
		Route("/about", nop).
		Route("/users/<id>", nop).
		Route("/files/<name>", nop, WithExtra("kind", "file"))
	require.NoError(t, r.Err())

	t.Run("explicit", func(t *testing.T) {
		route, param, found := r.Resolve("/about")
		require.True(t, found)
		require.Empty(t, param)
		require.Empty(t, route.ParamName)
	})

	t.Run("parameterized", func(t *testing.T) {
		route, param, found := r.Resolve("/users/42")
		require.True(t, found)
		require.Equal(t, "42", param)
		require.Equal(t, "id", route.ParamName)
	})

	t.Run("empty parameter", func(t *testing.T) {
		route, param, found := r.Resolve("/users/")
		require.True(t, found)
		require.Empty(t, param)
		require.Equal(t, "id", route.ParamName)
	})

	t.Run("literal pattern stays matchable", func(t *testing.T) {
		route, param, found := r.Resolve("/users/<id>")
		require.True(t, found)
		require.Empty(t, param)
		require.Equal(t, "id", route.ParamName)
	})

	t.Run("deeper paths don't match", func(t *testing.T) {
		_, _, found := r.Resolve("/users/42/posts")
		require.False(t, found)
	})

	t.Run("unknown path", func(t *testing.T) {
		_, _, found := r.Resolve("/nowhere")
		require.False(t, found)
	})

	t.Run("no slash at all", func(t *testing.T) {
		_, _, found := r.Resolve("about")
		require.False(t, found)
	})

	t.Run("routes stay distinct", func(t *testing.T) {
		users, _, _ := r.Resolve("/users/1")
		files, _, _ := r.Resolve("/files/report.pdf")
		require.Nil(t, users.Extra)
		require.Equal(t, "file", files.Extra.Value("kind"))
	})
}

func TestRouterStatic(t *testing.T) {
	r := New(config.Default()).Static("/static/", "/var/www", WithExtra("kind", "static"))
	require.NoError(t, r.Err())

	route, param, found := r.Resolve("/static/site.css")
	require.True(t, found)
	require.Equal(t, "site.css", param)
	require.Equal(t, "path", route.ParamName)
	require.Equal(t, "static", route.Extra.Value("kind"))

	_, _, found = r.Resolve("/static/css/site.css")
	require.False(t, found)
}

func TestIsSafePath(t *testing.T) {
	require.True(t, isSafePath("site.css"))
	require.True(t, isSafePath(""))
	require.True(t, isSafePath("..hidden"))
	require.False(t, isSafePath(".."))
	require.False(t, isSafePath("../etc/passwd"))
	require.False(t, isSafePath("a/../../b"))
}
