package tinyweb

import (
	"log/slog"
	"net"

	"github.com/belyalov/tinyweb/config"
	"github.com/belyalov/tinyweb/http/status"
	httpserver "github.com/belyalov/tinyweb/internal/server/http"
	"github.com/belyalov/tinyweb/internal/server/tcp"
	"github.com/belyalov/tinyweb/metrics"
	"github.com/belyalov/tinyweb/router"
)

// App ties the pieces together: a route table to register endpoints on and a
// listener loop serving them, one request per connection.
type App struct {
	cfg            *config.Config
	log            *slog.Logger
	observe        *metrics.Metrics
	defaultHeaders map[string]string
	router         *router.Router
	hooks          hooks
	errCh          chan error
}

type hooks struct {
	onStart, onStop func()
}

func New(opts ...Option) *App {
	a := &App{
		cfg:   config.Default(),
		log:   slog.Default(),
		errCh: make(chan error),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.router = router.New(a.cfg)

	if a.defaultHeaders == nil {
		a.defaultHeaders = map[string]string{"Server": "tinyweb"}
		for key, value := range a.cfg.Headers.Default {
			a.defaultHeaders[key] = value
		}
	}

	return a
}

// Router returns the app's route table, ready for registration.
func (a *App) Router() *router.Router {
	return a.router
}

// OnStart calls cb once the app accepts connections.
func (a *App) OnStart(cb func()) *App {
	a.hooks.onStart = cb
	return a
}

// OnStop calls cb once the listener is down and every connection has finished.
func (a *App) OnStop(cb func()) *App {
	a.hooks.onStop = cb
	return a
}

// Serve listens on addr and serves until the listener fails or the app is told
// to stop. A deliberate Stop or GracefulStop shows up as status.ErrShutdown; a
// failed route registration surfaces here, before the socket is even opened.
func (a *App) Serve(addr string) error {
	if err := a.router.Err(); err != nil {
		return err
	}

	sock, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	handler := httpserver.NewServer(a.cfg, a.router, a.log, a.observe, a.defaultHeaders)
	server := tcp.NewServer(sock, handler.ServeConn)

	go func() {
		a.errCh <- server.Start()
	}()

	a.log.Info("listening", "addr", sock.Addr().String())
	callIfNotNil(a.hooks.onStart)

	switch err = <-a.errCh; err {
	case status.ErrGracefulShutdown:
		_ = server.GracefulShutdown()
		err = <-a.errCh
	case status.ErrShutdown:
		_ = server.Stop()
		err = <-a.errCh
	default:
		// the listener failed on its own; sweep up whatever is still alive
		_ = server.Stop()
	}

	callIfNotNil(a.hooks.onStop)
	a.log.Info("stopped")

	return err
}

// Stop shuts the app down, active connections included. It blocks until Serve
// picks the command up, so it must only be called while Serve is running.
func (a *App) Stop() {
	a.errCh <- status.ErrShutdown
}

// GracefulStop closes the listener but lets active connections finish. Same as
// Stop, it must only be called while Serve is running.
func (a *App) GracefulStop() {
	a.errCh <- status.ErrGracefulShutdown
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
