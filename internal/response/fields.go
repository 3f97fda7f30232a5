package response

import (
	"github.com/belyalov/tinyweb/http/mime"
	"github.com/belyalov/tinyweb/http/status"
	"github.com/belyalov/tinyweb/kv"
)

// Fields is the raw state accumulated by the response builder. The serializer
// consumes it directly, the builder is a fluent face over it.
type Fields struct {
	Attachment Attachment
	// ContentType is rendered only when non-empty.
	ContentType      mime.MIME
	TransferEncoding string
	Headers          []kv.Pair
	Body             []byte
	Code             status.Code
}

func (f Fields) Clear() Fields {
	f.Code = status.OK
	f.ContentType = ""
	f.TransferEncoding = ""
	f.Headers = f.Headers[:0]
	f.Body = nil
	f.Attachment = Attachment{}

	return f
}
