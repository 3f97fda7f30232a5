package query

import (
	"strings"

	"github.com/belyalov/tinyweb/kv"
	"github.com/indigo-web/utils/uf"
)

// Decode reverses urlencoding: every '+' becomes a space and every %XX escape becomes
// the byte it names. Malformed escapes are never an error: a '%' that isn't followed
// by two hex digits stays in the output as-is.
func Decode(s string) string {
	if !strings.ContainsAny(s, "+%") {
		return s
	}

	decoded := make([]byte, 0, len(s))

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '+':
			decoded = append(decoded, ' ')
		case '%':
			if i+2 < len(s) {
				hi, okHi := unhex(s[i+1])
				lo, okLo := unhex(s[i+2])
				if okHi && okLo {
					decoded = append(decoded, hi<<4|lo)
					i += 2
					continue
				}
			}

			decoded = append(decoded, '%')
		default:
			decoded = append(decoded, c)
		}
	}

	return uf.B2S(decoded)
}

// Parse splits a raw query string on '&' into pairs and each pair on the first '='.
// A pair without '=' gets an empty value; empty pairs are skipped entirely. Both names
// and values are decoded. The pairs are appended to into, which is allocated when nil.
func Parse(raw string, into *kv.Storage) *kv.Storage {
	if into == nil {
		into = kv.New()
	}

	for len(raw) > 0 {
		pair := raw
		if amp := strings.IndexByte(raw, '&'); amp != -1 {
			pair, raw = raw[:amp], raw[amp+1:]
		} else {
			raw = ""
		}

		if len(pair) == 0 {
			continue
		}

		key, value, _ := strings.Cut(pair, "=")
		into.Add(Decode(key), Decode(value))
	}

	return into
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}

	return 0, false
}
