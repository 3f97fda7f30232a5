package mime

import "strings"

type MIME = string

const (
	OctetStream    MIME = "application/octet-stream"
	Plain          MIME = "text/plain"
	HTML           MIME = "text/html"
	CSS            MIME = "text/css"
	JavaScript     MIME = "application/javascript"
	JSON           MIME = "application/json"
	FormUrlencoded MIME = "application/x-www-form-urlencoded"
	PNG            MIME = "image/png"
	JPEG           MIME = "image/jpeg"
	GIF            MIME = "image/gif"
)

// Complies reports whether the value of a Content-Type header names the given MIME.
// Parameters after ";" are ignored, so "application/json; charset=utf-8" complies
// with JSON. The value before ";" is not trimmed.
func Complies(mime MIME, with string) bool {
	with, _, _ = strings.Cut(with, ";")
	return with == mime
}
