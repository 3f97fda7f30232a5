package tinyweb

import (
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/belyalov/tinyweb/http"
	"github.com/belyalov/tinyweb/http/status"
	"github.com/belyalov/tinyweb/internal/httptest"
	"github.com/belyalov/tinyweb/router"
	"github.com/stretchr/testify/require"
)

const addr = "localhost:18617"

// fire sends one raw request and brings back the whole response, the closing
// of the connection included.
func fire(t *testing.T, raw string) httptest.Response {
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(raw))
	require.NoError(t, err)

	data, err := io.ReadAll(conn)
	require.NoError(t, err)

	response, err := httptest.Parse(string(data))
	require.NoError(t, err, "raw response: %q", string(data))

	return response
}

func testApp(t *testing.T) *App {
	app := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "hello.txt"), []byte("file payload"), 0o644))

	app.Router().
		Get("/greet", func(request *http.Request) *http.Response {
			return request.Respond().String("Hello, world!")
		}).
		Post("/echo", func(request *http.Request) *http.Response {
			body, err := request.Body.Bytes()
			if err != nil {
				return request.Respond().Error(err)
			}

			return request.Respond().Bytes(body)
		}).
		Get("/old", func(request *http.Request) *http.Response {
			return request.Respond().Redirect("/greet")
		}).
		Get("/feed", func(request *http.Request) *http.Response {
			return request.Respond().Stream(func(yield func(string) bool) {
				for _, part := range []string{"live", "", "updates"} {
					if !yield(part) {
						return
					}
				}
			})
		}).
		Resource("/api/notes/<id>", router.Resource{
			Get: func(data map[string]any, param string) (router.Result, error) {
				return router.Value(map[string]any{"id": param}), nil
			},
			Post: func(data map[string]any, param string) (router.Result, error) {
				return router.ValueWithStatus(data["name"], status.Created), nil
			},
		}).
		Static("/static/", static)

	require.NoError(t, app.Router().Err())

	return app
}

func TestApp(t *testing.T) {
	// one app for every case: the server starts once, the cases just talk to it
	app := testApp(t)

	ready := make(chan struct{})
	app.OnStart(func() { close(ready) })

	var stopped bool
	app.OnStop(func() { stopped = true })

	served := make(chan error)
	go func() { served <- app.Serve(addr) }()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("the app takes too long to start")
	}

	defer func() {
		app.GracefulStop()

		select {
		case err := <-served:
			require.ErrorIs(t, err, status.ErrShutdown)
			require.True(t, stopped)
		case <-time.After(5 * time.Second):
			t.Error("the app takes too long to shut down")
		}
	}()

	t.Run("plain text", func(t *testing.T) {
		response := fire(t, "GET /greet HTTP/1.0\r\n\r\n")
		require.Equal(t, "HTTP/1.0", response.Proto)
		require.Equal(t, 200, response.Code)
		require.Equal(t, "OK", response.Status)
		require.Equal(t, "Hello, world!", response.Body)
		require.Equal(t, "tinyweb", response.Headers.Value("Server"))
		require.Equal(t, "13", response.Headers.Value("Content-Length"))
	})

	t.Run("echoed body", func(t *testing.T) {
		response := fire(t, "POST /echo HTTP/1.0\r\nContent-Length: 4\r\n\r\nping")
		require.Equal(t, 200, response.Code)
		require.Equal(t, "ping", response.Body)
	})

	t.Run("unknown path", func(t *testing.T) {
		response := fire(t, "GET /nowhere HTTP/1.0\r\n\r\n")
		require.Equal(t, 404, response.Code)
		require.Empty(t, response.Body)
	})

	t.Run("wrong method", func(t *testing.T) {
		response := fire(t, "DELETE /greet HTTP/1.0\r\n\r\n")
		require.Equal(t, 405, response.Code)
		require.Empty(t, response.Body)
	})

	t.Run("redirect", func(t *testing.T) {
		response := fire(t, "GET /old HTTP/1.0\r\n\r\n")
		require.Equal(t, 302, response.Code)
		require.Equal(t, "/greet", response.Headers.Value("Location"))
	})

	t.Run("preflight", func(t *testing.T) {
		response := fire(t, "OPTIONS /api/notes/7 HTTP/1.0\r\n\r\n")
		require.Equal(t, 200, response.Code)
		require.Equal(t, "*", response.Headers.Value("Access-Control-Allow-Origin"))
		require.Equal(t, "GET, POST", response.Headers.Value("Access-Control-Allow-Methods"))
		require.Equal(t, "*", response.Headers.Value("Access-Control-Allow-Headers"))
		require.Empty(t, response.Body)
	})

	t.Run("restful get", func(t *testing.T) {
		response := fire(t, "GET /api/notes/42 HTTP/1.0\r\n\r\n")
		require.Equal(t, 200, response.Code)
		require.Equal(t, `{"id":"42"}`, response.Body)
		require.Equal(t, "application/json", response.Headers.Value("Content-Type"))
		require.Equal(t, "*", response.Headers.Value("Access-Control-Allow-Origin"))
	})

	t.Run("restful post", func(t *testing.T) {
		response := fire(t, "POST /api/notes/1 HTTP/1.0\r\n"+
			"Content-Type: application/json\r\nContent-Length: 15\r\n\r\n"+
			`{"name":"milk"}`)
		require.Equal(t, 201, response.Code)
		require.Equal(t, "Created", response.Status)
		require.Equal(t, `"milk"`, response.Body)
	})

	t.Run("restful query overrides body", func(t *testing.T) {
		response := fire(t, "POST /api/notes/1?name=urgent HTTP/1.0\r\n"+
			"Content-Type: application/x-www-form-urlencoded\r\nContent-Length: 9\r\n\r\n"+
			"name=milk")
		require.Equal(t, 201, response.Code)
		require.Equal(t, `"urgent"`, response.Body)
	})

	t.Run("streamed feed", func(t *testing.T) {
		response := fire(t, "GET /feed HTTP/1.0\r\n\r\n")
		require.Equal(t, 200, response.Code)
		require.Equal(t, "chunked", response.Headers.Value("Transfer-Encoding"))
		require.Equal(t, "close", response.Headers.Value("Connection"))
		require.Equal(t, "liveupdates", response.Body)
	})

	t.Run("static file", func(t *testing.T) {
		response := fire(t, "GET /static/hello.txt HTTP/1.0\r\n\r\n")
		require.Equal(t, 200, response.Code)
		require.Equal(t, "file payload", response.Body)
		require.Equal(t, "text/plain", response.Headers.Value("Content-Type"))
		require.Equal(t, "max-age=2592000, public", response.Headers.Value("Cache-Control"))
	})

	t.Run("missing file", func(t *testing.T) {
		response := fire(t, "GET /static/gone.txt HTTP/1.0\r\n\r\n")
		require.Equal(t, 404, response.Code)
		require.Equal(t, "File Not Found", response.Body)
	})

	t.Run("escaping the static root", func(t *testing.T) {
		response := fire(t, "GET /static/.. HTTP/1.0\r\n\r\n")
		require.Equal(t, 404, response.Code)
		require.Equal(t, "File Not Found", response.Body)
	})

	t.Run("instant disconnect", func(t *testing.T) {
		conn, err := net.Dial("tcp", addr)
		require.NoError(t, err)
		require.NoError(t, conn.Close())
	})
}

func TestAppRegistrationError(t *testing.T) {
	app := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	app.Router().Get("", func(request *http.Request) *http.Response {
		return request.Respond()
	})

	require.Error(t, app.Serve(addr))
}
