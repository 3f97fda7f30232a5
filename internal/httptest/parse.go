package httptest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/belyalov/tinyweb/kv"
	"github.com/indigo-web/chunkedbody"
	"github.com/indigo-web/utils/uf"
)

// Response is a decoded wire response, the way test assertions want to see one.
type Response struct {
	Proto   string
	Code    int
	Status  string
	Headers *kv.Storage
	Body    string
}

// Parse decodes a complete raw response. The body is recovered according to the
// response's own framing: de-chunked when chunked, cut to Content-Length when
// declared, otherwise taken verbatim as running until the connection close.
func Parse(raw string) (response Response, err error) {
	response = Response{Headers: kv.New()}

	var found bool
	response.Proto, raw, found = strings.Cut(raw, " ")
	if !found {
		return response, fmt.Errorf("bad status line: lacking code and status")
	}

	var code string
	code, raw, found = strings.Cut(raw, " ")
	if !found {
		return response, fmt.Errorf("bad status line: lacking status")
	}

	if response.Code, err = strconv.Atoi(code); err != nil {
		return response, fmt.Errorf("bad status code: %q", code)
	}

	response.Status, raw, found = strings.Cut(raw, "\r\n")
	if !found {
		return response, fmt.Errorf("bad status line: no terminating CRLF")
	}

	for {
		var line string
		line, raw, found = strings.Cut(raw, "\r\n")
		if len(line) == 0 {
			break
		}
		if !found {
			return response, fmt.Errorf("bad header line %q: no terminating CRLF", line)
		}

		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			return response, fmt.Errorf("bad header line %q: no value", line)
		}

		response.Headers.Add(key, value)
	}

	response.Body, err = body(response, raw)

	return response, err
}

func body(response Response, data string) (string, error) {
	if response.Headers.Value("Transfer-Encoding") == "chunked" {
		return dechunk(data)
	}

	if value, found := response.Headers.Get("Content-Length"); found {
		length, err := strconv.Atoi(value)
		if err != nil {
			return "", fmt.Errorf("bad Content-Length: %q", value)
		}
		if len(data) != length {
			return "", fmt.Errorf("Content-Length promises %d bytes, got %d", length, len(data))
		}

		return data, nil
	}

	return data, nil
}

func dechunk(data string) (string, error) {
	var buff []byte
	parser := chunkedbody.NewParser(chunkedbody.DefaultSettings())

	for len(data) > 0 {
		chunk, extra, err := parser.Parse(uf.S2B(data), false)
		switch err {
		case nil:
		case io.EOF:
			return uf.B2S(append(buff, chunk...)), nil
		default:
			return "", fmt.Errorf("bad chunked body: %s", err)
		}

		buff = append(buff, chunk...)
		data = uf.B2S(extra)
	}

	return uf.B2S(buff), nil
}
