package http

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/belyalov/tinyweb/config"
	"github.com/belyalov/tinyweb/http"
	"github.com/belyalov/tinyweb/http/method"
	"github.com/belyalov/tinyweb/http/status"
	"github.com/belyalov/tinyweb/internal/transport/http1"
	"github.com/belyalov/tinyweb/kv"
	"github.com/belyalov/tinyweb/metrics"
	"github.com/belyalov/tinyweb/router"
	"github.com/dchest/uniuri"
)

// noExtra spares handlers a nil check on routes registered without extras.
// It is shared and must stay empty.
var noExtra = kv.New()

// Server walks a connection through the exchange: request line, route, gates,
// headers, handler, response. One request per connection, the connection is
// closed no matter how the exchange went.
type Server struct {
	cfg            *config.Config
	router         *router.Router
	log            *slog.Logger
	observe        *metrics.Metrics
	defaultHeaders map[string]string
}

func NewServer(
	cfg *config.Config,
	r *router.Router,
	log *slog.Logger,
	observe *metrics.Metrics,
	defaultHeaders map[string]string,
) *Server {
	return &Server{
		cfg:            cfg,
		router:         r,
		log:            log,
		observe:        observe,
		defaultHeaders: defaultHeaders,
	}
}

// ServeConn serves a single connection and closes it.
func (s *Server) ServeConn(conn net.Conn) {
	defer conn.Close()

	s.observe.ConnOpened()
	defer s.observe.ConnClosed()

	started := time.Now()
	id := uniuri.New()
	s.log.Debug("connection accepted", "id", id, "remote", conn.RemoteAddr())

	// a single deadline covers the whole exchange
	_ = conn.SetReadDeadline(started.Add(s.cfg.NET.ReadTimeout))

	response := http.NewResponse()
	request := http.NewRequest(s.cfg, response, conn.RemoteAddr())
	parser := http1.NewParser(bufio.NewReaderSize(conn, s.cfg.NET.ReadBufferSize), s.cfg)

	resp := s.serve(request, parser)
	if resp == nil {
		// the peer vanished before saying anything worth answering
		s.log.Debug("connection dropped", "id", id)
		return
	}

	serializer := http1.NewSerializer(
		make([]byte, 0, s.cfg.HTTP.ResponseBuffSize), s.cfg.HTTP.FileChunkSize, s.defaultHeaders,
	)
	if err := serializer.Write(resp, conn); err != nil && !isDisconnect(err) {
		s.log.Error("writing response", "id", id, "error", err)
	}

	code := resp.Reveal().Code
	s.observe.ObserveRequest(request.Method, code, time.Since(started))
	s.log.Debug("request served",
		"id", id,
		"method", request.Method,
		"path", http.Escape(request.Path),
		"code", code,
		"took", time.Since(started),
	)
}

// serve produces the response to send, or nil when the connection deserves a
// silent close.
func (s *Server) serve(request *http.Request, parser *http1.Parser) *http.Response {
	if err := parser.ReadRequestLine(request); err != nil {
		if isDisconnect(err) {
			return nil
		}

		return request.Respond().Error(err)
	}

	route, param, found := s.router.Resolve(request.Path)
	if !found {
		return request.Respond().Error(status.ErrNotFound)
	}

	request.Param = param
	request.Extra = route.Extra
	if request.Extra == nil {
		request.Extra = noExtra
	}
	request.Env = http.Environment{
		AllowOrigin:  route.AllowOrigin,
		AllowMethods: route.AllowMethods,
		AllowHeaders: route.AllowHeaders,
	}

	// the preflight never reaches the handler, and takes precedence over the
	// method gate so a bare OPTIONS isn't a 405
	if request.Method == method.OPTIONS && route.AutoOptions {
		return request.Respond().
			Header("Access-Control-Allow-Origin", route.AllowOrigin).
			Header("Access-Control-Allow-Methods", route.AllowMethods).
			Header("Access-Control-Allow-Headers", route.AllowHeaders)
	}

	if !route.Methods.Contains(request.Method) {
		return request.Respond().Error(status.ErrMethodNotAllowed)
	}

	if route.ParseHeaders {
		if err := parser.ReadHeaders(request, route.SaveHeaders); err != nil {
			if isDisconnect(err) {
				return nil
			}

			return request.Respond().Error(err)
		}
	}

	request.Body = http.NewBody(request, parser, route.MaxBodySize)

	return s.invoke(route.Handler, request)
}

func (s *Server) invoke(handler router.Handler, request *http.Request) (resp *http.Response) {
	defer func() {
		if v := recover(); v != nil {
			s.log.Error("handler panicked",
				"method", request.Method,
				"path", request.Path,
				"panic", v,
			)
			s.observe.ObservePanic()
			resp = request.Respond().Error(status.ErrInternalServerError)
		}
	}()

	if resp = handler(request); resp == nil {
		resp = http.Respond(request)
	}

	return resp
}

// isDisconnect tells the errors worth no reaction apart from closing: the peer
// going away or the exchange deadline firing. There is nobody left to answer.
func isDisconnect(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET)
}
