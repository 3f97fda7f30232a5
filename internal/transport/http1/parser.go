package http1

import (
	"bufio"
	"io"
	"slices"
	"strings"

	"github.com/belyalov/tinyweb/config"
	"github.com/belyalov/tinyweb/http"
	"github.com/belyalov/tinyweb/http/method"
	"github.com/belyalov/tinyweb/http/status"
)

// Parser reads the request off the connection in stages, so that the server
// can resolve the route between the request line and the headers and skip
// whatever the route doesn't ask for. It also implements http.Retriever, as
// the body is just the bytes left in the stream.
type Parser struct {
	src            *bufio.Reader
	lineBuff       []byte
	maxRequestLine int
	maxHeaderLine  int
}

func NewParser(src *bufio.Reader, cfg *config.Config) *Parser {
	return &Parser{
		src:            src,
		maxRequestLine: cfg.URI.MaxRequestLineSize,
		maxHeaderLine:  cfg.Headers.MaxLineSize,
	}
}

// ReadRequestLine parses the request line into the request, skipping any blank
// lines in front of it. A connection closed before a single byte arrived
// reports io.EOF, so the caller can part without a response; anything else
// malformed, an overlong line included, reports status.ErrBadRequest.
func (p *Parser) ReadRequestLine(request *http.Request) error {
	for consumed := false; ; consumed = true {
		line, err := p.readLine(p.maxRequestLine)
		switch {
		case err == io.EOF && consumed:
			// blank lines arrived, but the request line never did
			return status.ErrBadRequest
		case err != nil:
			return err
		}

		if len(line) == 0 {
			continue
		}

		frags := strings.Fields(line)
		if len(frags) != 3 {
			return status.ErrBadRequest
		}

		request.Method = method.Parse(frags[0])
		path, query, _ := strings.Cut(frags[1], "?")
		request.Path = path
		request.Query.Update(query)
		request.Proto = frags[2]

		return nil
	}
}

// ReadHeaders consumes header lines up to and including the blank terminator.
// Names keep their wire spelling, values are trimmed of surrounding space, a
// repeated name overwrites the previous value. With a non-nil save list only
// the listed names are retained, matched exactly.
func (p *Parser) ReadHeaders(request *http.Request, save []string) error {
	for {
		line, err := p.readLine(p.maxHeaderLine)
		switch {
		case err == io.EOF:
			// the terminator never arrived
			return status.ErrBadRequest
		case err != nil:
			return err
		}

		if len(line) == 0 {
			return nil
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			return status.ErrBadRequest
		}

		if save != nil && !slices.Contains(save, key) {
			continue
		}

		request.Headers.Set(key, strings.TrimSpace(value))
	}
}

// Retrieve implements http.Retriever by reading exactly n bytes off the
// connection.
func (p *Parser) Retrieve(n int64) ([]byte, error) {
	buff := make([]byte, n)
	if _, err := io.ReadFull(p.src, buff); err != nil {
		return nil, err
	}

	return buff, nil
}

// readLine returns the next line with its ending stripped. The final line of
// a stream may legitimately lack the ending; only a line that never started
// reports io.EOF. Lines over the limit report status.ErrBadRequest.
func (p *Parser) readLine(limit int) (string, error) {
	p.lineBuff = p.lineBuff[:0]

	for {
		frag, err := p.src.ReadSlice('\n')
		p.lineBuff = append(p.lineBuff, frag...)
		if len(p.lineBuff) > limit {
			return "", status.ErrBadRequest
		}

		switch err {
		case nil:
		case bufio.ErrBufferFull:
			continue
		case io.EOF:
			if len(p.lineBuff) == 0 {
				return "", io.EOF
			}
		default:
			return "", err
		}

		break
	}

	line := p.lineBuff
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}

	return string(line), nil
}
