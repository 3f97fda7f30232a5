package http

import (
	"io"
	"iter"
	"os"
	"strconv"

	"github.com/belyalov/tinyweb/http/mime"
	"github.com/belyalov/tinyweb/http/status"
	"github.com/belyalov/tinyweb/internal/response"
	"github.com/belyalov/tinyweb/kv"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

const (
	// fits the three Access-Control-Allow headers plus Cache-Control with
	// room to spare
	preallocRespHeaders = 7

	// DefaultFileMaxAge is the Cache-Control TTL File serves static content
	// with, 30 days. FileWith overrides it.
	DefaultFileMaxAge int64 = 2592000
)

// Response is a pure builder: handlers fill it in and return it, the server
// serializes it exactly once afterwards. Nothing reaches the wire while the
// handler is still running.
type Response struct {
	fields *response.Fields
}

// NewResponse returns a new instance of the Response object with the status
// code set to 200 OK and no Content-Type; the header is emitted only for
// responses that opt into one.
// NOTE: inside handlers prefer Request.Respond(), which reuses the
// connection's builder.
func NewResponse() *Response {
	return &Response{
		&response.Fields{
			Code:    status.OK,
			Headers: make([]kv.Pair, 0, preallocRespHeaders),
		},
	}
}

// Code sets the response code. The reason phrase follows automatically,
// unknown codes are sent with the "NA" placeholder.
func (r *Response) Code(code status.Code) *Response {
	r.fields.Code = code
	return r
}

// ContentType sets the Content-Type header value.
func (r *Response) ContentType(value mime.MIME) *Response {
	r.fields.ContentType = value
	return r
}

// TransferEncoding sets the Transfer-Encoding header value.
func (r *Response) TransferEncoding(value string) *Response {
	r.fields.TransferEncoding = value
	return r
}

// Header adds header values to a key. Content-Type and Transfer-Encoding are
// routed to their dedicated setters no matter how the key is spelled.
func (r *Response) Header(key string, values ...string) *Response {
	switch {
	case strcomp.EqualFold(key, "content-type"):
		return r.ContentType(values[0])
	case strcomp.EqualFold(key, "transfer-encoding"):
		return r.TransferEncoding(values[0])
	}

	for i := range values {
		r.fields.Headers = append(r.fields.Headers, kv.Pair{
			Key:   key,
			Value: values[i],
		})
	}

	return r
}

// String sets the response's body to the passed string.
func (r *Response) String(body string) *Response {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response's body to the passed slice WITHOUT copying.
// Changing the slice later affects the response.
func (r *Response) Bytes(body []byte) *Response {
	r.fields.Body = body
	return r
}

// Write appends b to the response body, implementing io.Writer. It never
// fails.
func (r *Response) Write(b []byte) (n int, err error) {
	r.fields.Body = append(r.fields.Body, b...)
	return len(b), nil
}

// Redirect replies 302 with a Location header. A message, when passed, becomes
// the body, otherwise the body stays empty.
func (r *Response) Redirect(location string, msg ...string) *Response {
	resp := r.Code(status.Found).Header("Location", location)
	if len(msg) > 0 {
		resp = resp.String(msg[0])
	}

	return resp
}

// FileOptions overrides how a file attachment is served.
type FileOptions struct {
	// ContentType replaces the extension-based lookup.
	ContentType mime.MIME
	// Encoding is emitted as Content-Encoding when non-empty, for
	// pre-compressed assets.
	Encoding string
	// MaxAge is rendered into Cache-Control as "max-age=<n>, public". Zero
	// keeps the header but disables caching.
	MaxAge int64
}

// TryFile opens a file for reading and returns the response with the file
// attached. Any filesystem failure, a directory target included, reports
// status.ErrFileNotFound.
func (r *Response) TryFile(path string, options ...FileOptions) (*Response, error) {
	opts := FileOptions{MaxAge: DefaultFileMaxAge}
	if len(options) > 0 {
		opts = options[0]
	}

	fd, err := os.Open(path)
	if err != nil {
		return r, status.ErrFileNotFound
	}

	stat, err := fd.Stat()
	if err != nil || stat.IsDir() {
		_ = fd.Close()
		return r, status.ErrFileNotFound
	}

	ct := opts.ContentType
	if ct == "" {
		ct = mime.ByExtension(path)
	}

	resp := r.ContentType(ct)
	if opts.Encoding != "" {
		resp = resp.Header("Content-Encoding", opts.Encoding)
	}

	return resp.
		Header("Cache-Control", "max-age="+strconv.FormatInt(opts.MaxAge, 10)+", public").
		Attachment(fd, stat.Size()), nil
}

// File serves a local file, a miss turning into a 404 with the File Not Found
// body.
func (r *Response) File(path string) *Response {
	resp, err := r.TryFile(path)
	if err != nil {
		return r.Error(err)
	}

	return resp
}

// FileWith serves a local file under explicit options.
func (r *Response) FileWith(path string, opts FileOptions) *Response {
	resp, err := r.TryFile(path, opts)
	if err != nil {
		return r.Error(err)
	}

	return resp
}

// Attachment defers the body to a reader. The response body set so far is
// ignored. With size > 0 the content is framed by a matching Content-Length,
// otherwise it is copied raw and the connection close delimits it.
func (r *Response) Attachment(content io.Reader, size int64) *Response {
	r.fields.Attachment = response.NewAttachment(content, size)
	return r
}

// Stream renders each yielded string as one chunk of a chunked response. The
// connection is marked for closing, as the peer has no other way to know the
// stream is over.
func (r *Response) Stream(seq iter.Seq[string]) *Response {
	r.fields.Attachment = response.NewStream(seq)
	return r.TransferEncoding("chunked").Header("Connection", "close")
}

// TryJSON encodes the model into the response body and returns the response
// along with the encoding error, if any.
func (r *Response) TryJSON(model any) (*Response, error) {
	r.fields.Body = r.fields.Body[:0]
	stream := json.ConfigDefault.BorrowStream(r)
	stream.WriteVal(model)
	err := stream.Flush()
	json.ConfigDefault.ReturnStream(stream)

	return r.ContentType(mime.JSON), err
}

// JSON does the same as TryJSON does, except the returned error is implicitly
// wrapped by Error.
func (r *Response) JSON(model any) *Response {
	resp, err := r.TryJSON(model)
	if err != nil {
		return r.Error(err)
	}

	return resp
}

// Error renders an error. status.HTTPError sets its own code and, when its
// message is non-empty, the message becomes the body. Any other error replies
// with an empty body so that internals never leak to the peer; the code is 500
// unless overridden, only the first override is used. A nil err leaves the
// response untouched.
func (r *Response) Error(err error, code ...status.Code) *Response {
	if err == nil {
		return r
	}

	if http, ok := err.(status.HTTPError); ok {
		resp := r.Code(http.Code)
		if http.Message != "" {
			resp = resp.String(http.Message)
		}

		return resp
	}

	c := status.InternalServerError
	if len(code) > 0 {
		// peek the first, ignore the rest
		c = code[0]
	}

	return r.Code(c)
}

// Reveal returns the raw fields filled by the builder. Used by the serializer.
func (r *Response) Reveal() *response.Fields {
	return r.fields
}

// Clear discards everything done with the Response object before.
func (r *Response) Clear() *Response {
	*r.fields = r.fields.Clear()
	return r
}

// Respond is a predicate to request.Respond(). May be used as a handler for
// endpoints replying with a bare 200.
func Respond(request *Request) *Response {
	return request.Respond()
}
