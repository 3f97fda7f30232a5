package http1

import (
	"io"
	"iter"
	"strconv"

	"github.com/belyalov/tinyweb/http"
	"github.com/belyalov/tinyweb/http/status"
	"github.com/belyalov/tinyweb/internal/response"
	"github.com/belyalov/tinyweb/kv"
	"github.com/indigo-web/utils/strcomp"
)

const (
	respProto        = "HTTP/1.0 "
	contentType      = "Content-Type: "
	transferEncoding = "Transfer-Encoding: "
	contentLength    = "Content-Length: "
)

// minimalFileBuffSize is the floor for the file streaming buffer. Anything
// below degrades streaming to near byte-at-a-time reads.
const minimalFileBuffSize = 16

var (
	crlf             = []byte("\r\n")
	colonsp          = []byte(": ")
	chunkedFinalizer = []byte("0\r\n\r\n")
)

// Serializer renders a response onto the wire. The head is always composed in
// a single buffer and sent with one write; bodies follow either inline (sized,
// with a matching Content-Length), as a raw copy of a reader, or chunk by
// chunk for streams.
type Serializer struct {
	buff []byte
	// fileBuff isn't allocated until a file is actually sent, most
	// connections never need it
	fileBuff       []byte
	fileBuffSize   int
	defaultHeaders defaultHeaders
}

func NewSerializer(buff []byte, fileBuffSize int, defHdrs map[string]string) *Serializer {
	if fileBuffSize < minimalFileBuffSize {
		fileBuffSize = minimalFileBuffSize
	}

	return &Serializer{
		buff:           buff[:0],
		fileBuffSize:   fileBuffSize,
		defaultHeaders: processDefaultHeaders(defHdrs),
	}
}

// Write renders the response and sends it to the writer. The response line is
// always HTTP/1.0, as that is what the engine speaks; inline bodies always
// carry a matching Content-Length, zero included.
func (s *Serializer) Write(resp *http.Response, writer io.Writer) error {
	defer s.clear()

	fields := resp.Reveal()
	s.renderResponseLine(fields)
	s.renderHeaders(fields)

	switch att := fields.Attachment; {
	case att.Stream() != nil:
		s.crlf()
		if err := s.send(writer); err != nil {
			return err
		}

		return s.writeStream(att.Stream(), writer)
	case att.Content() != nil:
		if att.Size() > 0 {
			s.renderContentLength(att.Size())
		}
		s.crlf()

		err := s.send(writer)
		if err == nil {
			err = s.writeBody(att.Content(), writer)
		}
		att.Close()

		return err
	default:
		s.renderContentLength(int64(len(fields.Body)))
		s.crlf()
		s.buff = append(s.buff, fields.Body...)

		return s.send(writer)
	}
}

func (s *Serializer) renderResponseLine(fields *response.Fields) {
	s.buff = append(s.buff, respProto...)
	s.buff = append(s.buff, status.StringCode(fields.Code)...)
	s.sp()
	s.buff = append(s.buff, status.Text(fields.Code)...)
	s.crlf()
}

func (s *Serializer) renderHeaders(fields *response.Fields) {
	for _, header := range fields.Headers {
		s.renderHeader(header)
		s.defaultHeaders.Exclude(header.Key)
	}

	for _, header := range s.defaultHeaders {
		if !header.Excluded {
			s.buff = append(s.buff, header.Full...)
		}
	}

	if len(fields.ContentType) > 0 {
		s.renderKnownHeader(contentType, fields.ContentType)
	}
	if len(fields.TransferEncoding) > 0 {
		s.renderKnownHeader(transferEncoding, fields.TransferEncoding)
	}
}

// writeBody copies the reader to the writer through the file buffer, one
// write per read.
func (s *Serializer) writeBody(r io.Reader, writer io.Writer) error {
	if len(s.fileBuff) == 0 {
		s.fileBuff = make([]byte, s.fileBuffSize)
	}

	for {
		n, err := r.Read(s.fileBuff)
		if n > 0 {
			if _, werr := writer.Write(s.fileBuff[:n]); werr != nil {
				return werr
			}
		}

		switch err {
		case nil:
		case io.EOF:
			return nil
		default:
			return err
		}
	}
}

// writeStream renders every produced string as one chunk, a write per chunk,
// so the peer observes the same boundaries the producer chose. Empty strings
// are skipped, as a zero-length chunk would terminate the stream early.
func (s *Serializer) writeStream(seq iter.Seq[string], writer io.Writer) error {
	for chunk := range seq {
		if len(chunk) == 0 {
			continue
		}

		s.buff = strconv.AppendUint(s.buff[:0], uint64(len(chunk)), 16)
		s.buff = append(s.buff, crlf...)
		s.buff = append(s.buff, chunk...)
		s.buff = append(s.buff, crlf...)

		if _, err := writer.Write(s.buff); err != nil {
			return err
		}
	}

	_, err := writer.Write(chunkedFinalizer)

	return err
}

func (s *Serializer) send(writer io.Writer) error {
	_, err := writer.Write(s.buff)
	return err
}

// renderHeader renders the pair into the buffer, CRLF appended.
func (s *Serializer) renderHeader(header kv.Pair) {
	s.buff = append(s.buff, header.Key...)
	s.buff = append(s.buff, colonsp...)
	s.buff = append(s.buff, header.Value...)
	s.buff = append(s.buff, crlf...)
}

func (s *Serializer) renderContentLength(value int64) {
	s.buff = strconv.AppendInt(append(s.buff, contentLength...), value, 10)
	s.crlf()
}

func (s *Serializer) renderKnownHeader(key, value string) {
	s.buff = append(s.buff, key...)
	s.buff = append(s.buff, value...)
	s.buff = append(s.buff, crlf...)
}

func (s *Serializer) sp() {
	s.buff = append(s.buff, ' ')
}

func (s *Serializer) crlf() {
	s.buff = append(s.buff, crlf...)
}

func (s *Serializer) clear() {
	s.buff = s.buff[:0]
	s.defaultHeaders.Reset()
}

func processDefaultHeaders(hdrs map[string]string) defaultHeaders {
	processed := make(defaultHeaders, 0, len(hdrs))

	for key, value := range hdrs {
		full := key + ": " + value + "\r\n"
		processed = append(processed, defaultHeader{
			// the rendered line is sliced instead of keeping the original
			// key, letting the GC release the source map
			Key:  full[:len(key)],
			Full: full,
		})
	}

	return processed
}

type defaultHeader struct {
	Excluded bool
	Key      string
	Full     string
}

type defaultHeaders []defaultHeader

func (d defaultHeaders) Exclude(key string) {
	for i, header := range d {
		if strcomp.EqualFold(header.Key, key) {
			d[i].Excluded = true
			return
		}
	}
}

func (d defaultHeaders) Reset() {
	for i := range d {
		d[i].Excluded = false
	}
}
