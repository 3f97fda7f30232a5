package http

import (
	"strconv"

	"github.com/belyalov/tinyweb/http/mime"
	"github.com/belyalov/tinyweb/http/query"
	"github.com/belyalov/tinyweb/http/status"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

// Retriever reads message body bytes off the connection on demand.
type Retriever interface {
	// Retrieve reads and returns exactly n bytes, unless the peer closes the
	// connection early.
	Retrieve(n int64) ([]byte, error)
}

// Body provides lazy access to the message body. Nothing is read off the
// connection until a handler asks, and admission is decided by the retained
// headers: a save-list that omits Content-Length makes the body invisible.
type Body struct {
	retriever Retriever
	request   *Request
	limit     int64
	buff      []byte
	read      bool
	err       error
}

func NewBody(r *Request, impl Retriever, limit int64) *Body {
	return &Body{
		retriever: impl,
		request:   r,
		limit:     limit,
	}
}

// Bytes returns the whole body at once. Without a Content-Length header the
// body is empty and nothing is read. A non-numeric length fails with
// status.ErrBadRequest, a negative one or one above the route's cap with
// status.ErrPayloadTooLarge, both before any byte is consumed. The result is
// memoized, repeated calls are free.
func (b *Body) Bytes() ([]byte, error) {
	if b.read {
		return b.buff, b.err
	}
	b.read = true

	raw, found := b.request.Headers.Get("Content-Length")
	if !found {
		return nil, nil
	}

	size, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		b.err = status.ErrBadRequest
		return nil, b.err
	}
	if size > b.limit || size < 0 {
		b.err = status.ErrPayloadTooLarge
		return nil, b.err
	}

	b.buff, b.err = b.retriever.Retrieve(size)
	return b.buff, b.err
}

// String returns the whole body at once in a string representation.
func (b *Body) String() (string, error) {
	bytes, err := b.Bytes()
	return uf.B2S(bytes), err
}

// JSON decodes the body into the passed model, which must be a pointer. The
// request's Content-Type must comply with mime.JSON, otherwise
// status.ErrBadRequest is returned without touching the body.
func (b *Body) JSON(model any) error {
	ct, _ := b.request.Headers.Get("Content-Type")
	if !mime.Complies(mime.JSON, ct) {
		return status.ErrBadRequest
	}

	data, err := b.Bytes()
	if err != nil {
		return err
	}

	iterator := json.ConfigDefault.BorrowIterator(data)
	iterator.ReadVal(model)
	err = iterator.Error
	json.ConfigDefault.ReturnIterator(iterator)

	if err != nil {
		return status.ErrBadRequest
	}

	return nil
}

// Form interprets the body according to the request's Content-Type, with any
// ";"-qualified parameters stripped: mime.JSON decodes into a mapping,
// mime.FormUrlencoded goes through the query codec, anything else (a missing
// Content-Type included) yields an empty mapping with the raw bytes still
// available via Bytes. Malformed payloads of a known type fail with
// status.ErrBadRequest.
func (b *Body) Form() (map[string]any, error) {
	if !b.request.Headers.Has("Content-Length") {
		return map[string]any{}, nil
	}

	raw, err := b.Bytes()
	if err != nil {
		return nil, err
	}

	ct, found := b.request.Headers.Get("Content-Type")
	if !found {
		return map[string]any{}, nil
	}

	switch {
	case mime.Complies(mime.JSON, ct):
		form := make(map[string]any)
		iterator := json.ConfigDefault.BorrowIterator(raw)
		iterator.ReadVal(&form)
		err = iterator.Error
		json.ConfigDefault.ReturnIterator(iterator)
		if err != nil {
			return nil, status.ErrBadRequest
		}

		return form, nil
	case mime.Complies(mime.FormUrlencoded, ct):
		form := make(map[string]any)
		for key, value := range query.Parse(uf.B2S(raw), nil).Pairs() {
			form[key] = value
		}

		return form, nil
	default:
		return map[string]any{}, nil
	}
}
