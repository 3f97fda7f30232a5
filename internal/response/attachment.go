package response

import (
	"io"
	"iter"
)

// Attachment is a deferred response body. At most one of content or stream is
// set. A content reader with a positive size is copied under a matching
// Content-Length; without a size it is copied raw and the connection close
// delimits the body. A stream is rendered as one chunk per yielded string
// using chunked transfer coding.
type Attachment struct {
	content io.Reader
	stream  iter.Seq[string]
	size    int64
}

// NewAttachment returns an attachment backed by a reader. Size <= 0 means the
// total length is unknown.
func NewAttachment(content io.Reader, size int64) Attachment {
	return Attachment{
		content: content,
		size:    size,
	}
}

// NewStream returns an attachment producing one chunk per yielded string.
func NewStream(stream iter.Seq[string]) Attachment {
	return Attachment{
		stream: stream,
	}
}

func (a Attachment) Content() io.Reader {
	return a.content
}

func (a Attachment) Stream() iter.Seq[string] {
	return a.stream
}

func (a Attachment) Size() int64 {
	return a.size
}

func (a Attachment) Empty() bool {
	return a.content == nil && a.stream == nil
}

func (a Attachment) Close() {
	if closer, ok := a.content.(io.Closer); ok {
		_ = closer.Close()
	}
}
