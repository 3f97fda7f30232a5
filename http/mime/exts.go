package mime

import "strings"

// Extension maps filename extensions onto content types. The table is deliberately
// tiny; everything it doesn't know about is served as Plain.
var Extension = map[string]MIME{
	"html": HTML,
	"css":  CSS,
	"js":   JavaScript,
	"png":  PNG,
	"jpg":  JPEG,
	"jpeg": JPEG,
	"gif":  GIF,
}

// ByExtension guesses the content type by the extension after the last dot of the
// filename. The match is byte-exact, so "photo.JPG" is Plain. No dot at all, a
// trailing dot and an unknown extension fall back to Plain as well.
func ByExtension(filename string) MIME {
	idx := strings.LastIndexByte(filename, '.')
	if idx == -1 {
		return Plain
	}

	if m, ok := Extension[filename[idx+1:]]; ok {
		return m
	}

	return Plain
}
