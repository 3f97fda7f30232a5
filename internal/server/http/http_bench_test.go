package http

import (
	"io"
	"log/slog"
	"testing"

	"github.com/belyalov/tinyweb/config"
	"github.com/belyalov/tinyweb/http"
	"github.com/belyalov/tinyweb/http/method"
	"github.com/belyalov/tinyweb/internal/transport/dummy"
	"github.com/belyalov/tinyweb/router"
)

var (
	simpleGETRequest = "GET / HTTP/1.0\r\n\r\n"

	tenHeadersGETRequest = "GET / HTTP/1.0\r\n" +
		"Hello: world\r\n" +
		"One: ok\r\n" +
		"Content-Type: nothing but true;q=0.9\r\n" +
		"Four: lorem ipsum\r\n" +
		"Mistake: is made here\r\n" +
		"Lorem: ipsum\r\n" +
		"Tired: of all this\r\n" +
		"Eight: finally only two left\r\n" +
		"My-Brain: is not so creative\r\n" +
		"To-Create: ten random headers from scratch\r\n" +
		"\r\n"

	simplePOSTRequest = "POST / HTTP/1.0\r\nContent-Length: 13\r\n\r\nHello, world!"

	preflightRequest = "OPTIONS / HTTP/1.0\r\n\r\n"
)

func benchServer(b *testing.B) *Server {
	cfg := config.Default()
	r := router.New(cfg).Route("/", func(request *http.Request) *http.Response {
		if request.Method == method.POST {
			if _, err := request.Body.Bytes(); err != nil {
				return request.Respond().Error(err)
			}
		}

		return request.Respond()
	}, router.WithMethods(method.GET, method.POST))

	if err := r.Err(); err != nil {
		b.Fatal(err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewServer(cfg, r, log, nil, map[string]string{"Server": "tinyweb"})
}

func Benchmark_ServeConn(b *testing.B) {
	server := benchServer(b)

	bench := func(raw string) func(*testing.B) {
		return func(b *testing.B) {
			b.SetBytes(int64(len(raw)))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				server.ServeConn(dummy.NewConn(raw))
			}
		}
	}

	b.Run("simple get", bench(simpleGETRequest))
	b.Run("ten headers", bench(tenHeadersGETRequest))
	b.Run("simple post", bench(simplePOSTRequest))
	b.Run("preflight", bench(preflightRequest))
}
