package dummy

import (
	"io"
	"net"
	"time"
)

// Conn is a scripted net.Conn standing in for a socket in tests. Reads drain the
// preloaded frames one per call, then report io.EOF; writes accumulate with their
// boundaries preserved.
type Conn struct {
	reads    [][]byte
	frames   [][]byte
	writeErr error
	deadline time.Time
	closed   bool
}

func NewConn(frames ...string) *Conn {
	c := new(Conn)
	for _, frame := range frames {
		c.reads = append(c.reads, []byte(frame))
	}

	return c
}

func (c *Conn) Read(p []byte) (int, error) {
	if c.closed {
		return 0, net.ErrClosed
	}

	if len(c.reads) == 0 {
		return 0, io.EOF
	}

	frame := c.reads[0]
	n := copy(p, frame)
	if n < len(frame) {
		c.reads[0] = frame[n:]
	} else {
		c.reads = c.reads[1:]
	}

	return n, nil
}

func (c *Conn) Write(p []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}

	frame := make([]byte, len(p))
	copy(frame, p)
	c.frames = append(c.frames, frame)

	return len(p), nil
}

func (c *Conn) Close() error {
	c.closed = true
	return nil
}

// FailWrites makes every following Write return err without recording anything.
func (c *Conn) FailWrites(err error) {
	c.writeErr = err
}

func (c *Conn) Closed() bool {
	return c.closed
}

// Frames returns every Write's payload separately, in order.
func (c *Conn) Frames() [][]byte {
	return c.frames
}

// Written returns everything written, concatenated.
func (c *Conn) Written() []byte {
	var total []byte
	for _, frame := range c.frames {
		total = append(total, frame...)
	}

	return total
}

func (c *Conn) ReadDeadline() time.Time {
	return c.deadline
}

func (c *Conn) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8080}
}

func (c *Conn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 49152}
}

func (c *Conn) SetDeadline(t time.Time) error {
	c.deadline = t
	return nil
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	c.deadline = t
	return nil
}

func (c *Conn) SetWriteDeadline(time.Time) error {
	return nil
}
