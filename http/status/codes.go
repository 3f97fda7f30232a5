package status

import "strconv"

type (
	Code   uint16
	Status string
)

const (
	OK                  Code = 200
	Created             Code = 201
	Found               Code = 302
	NotModified         Code = 304
	BadRequest          Code = 400
	Forbidden           Code = 403
	NotFound            Code = 404
	MethodNotAllowed    Code = 405
	PayloadTooLarge     Code = 413
	InternalServerError Code = 500
)

// CloseConnection is not a real status code and never appears on the wire. It instructs
// the server to tear the connection down without responding.
const CloseConnection Code = 0

// KnownCodes enumerates every code with a reason phrase of its own.
var KnownCodes = []Code{
	OK, Created, Found, NotModified, BadRequest, Forbidden,
	NotFound, MethodNotAllowed, PayloadTooLarge, InternalServerError,
}

// Text returns the reason phrase of the code. Codes outside the table get the "NA"
// placeholder, so the status line stays well-formed no matter what the handler set.
func Text(code Code) Status {
	switch code {
	case OK:
		return "OK"
	case Created:
		return "Created"
	case Found:
		return "Found"
	case NotModified:
		return "Not Modified"
	case BadRequest:
		return "Bad Request"
	case Forbidden:
		return "Forbidden"
	case NotFound:
		return "Not Found"
	case MethodNotAllowed:
		return "Method Not Allowed"
	case PayloadTooLarge:
		return "Payload Too Large"
	case InternalServerError:
		return "Internal Server Error"
	default:
		return "NA"
	}
}

// StringCode renders the code in decimal without allocating for the known ones.
func StringCode(code Code) string {
	switch code {
	case OK:
		return "200"
	case Created:
		return "201"
	case Found:
		return "302"
	case NotModified:
		return "304"
	case BadRequest:
		return "400"
	case Forbidden:
		return "403"
	case NotFound:
		return "404"
	case MethodNotAllowed:
		return "405"
	case PayloadTooLarge:
		return "413"
	case InternalServerError:
		return "500"
	default:
		return strconv.Itoa(int(code))
	}
}
