package tcp

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/belyalov/tinyweb/http/status"
)

type onConnection func(net.Conn)

// Server owns the listening socket and tracks every connection it accepted.
type Server struct {
	sock     net.Listener
	onConn   onConnection
	mu       sync.Mutex
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
	shutdown atomic.Bool
}

func NewServer(sock net.Listener, onConn onConnection) *Server {
	return &Server{
		sock:   sock,
		onConn: onConn,
		conns:  map[net.Conn]struct{}{},
	}
}

// Start accepts connections until the listener fails or gets closed, serving each
// connection on a goroutine of its own. By the time Start returns all of them have
// finished. A deliberate Stop or GracefulShutdown surfaces as status.ErrShutdown.
func (s *Server) Start() error {
	for {
		conn, err := s.sock.Accept()
		if err != nil {
			s.wg.Wait()

			if s.shutdown.Load() {
				return status.ErrShutdown
			}

			return err
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.connHandler(conn)
	}
}

// Stop shuts the listener and ALL the connections down.
func (s *Server) Stop() error {
	err := s.stopListener()

	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.conns {
		_ = conn.Close()
	}

	return err
}

// GracefulShutdown stops the listener, leaving all the connections free to end their
// lives peacefully.
func (s *Server) GracefulShutdown() error {
	return s.stopListener()
}

func (s *Server) stopListener() error {
	s.shutdown.Store(true)

	return s.sock.Close()
}

func (s *Server) connHandler(conn net.Conn) {
	s.onConn(conn)

	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()

	s.wg.Done()
}
