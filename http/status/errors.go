package status

import "errors"

// ErrShutdown is what Serve returns after a deliberate Stop or GracefulStop. It is a
// plain sentinel and never reaches the wire; ErrGracefulShutdown is the internal
// command telling the app to stop accepting while active connections finish.
var (
	ErrShutdown         = errors.New("server shut down")
	ErrGracefulShutdown = errors.New("graceful shutdown")
)

// HTTPError carries the status code of the response the server must answer with. The
// message, when non-empty, becomes the plain-text response body; most protocol errors
// deliberately carry none.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	if len(h.Message) != 0 {
		return h.Message
	}

	return string(Text(h.Code))
}

var (
	ErrCloseConnection = NewError(CloseConnection, "actively closing the connection")

	ErrBadRequest          = NewError(BadRequest, "")
	ErrForbidden           = NewError(Forbidden, "")
	ErrNotFound            = NewError(NotFound, "")
	ErrMethodNotAllowed    = NewError(MethodNotAllowed, "")
	ErrPayloadTooLarge     = NewError(PayloadTooLarge, "")
	ErrInternalServerError = NewError(InternalServerError, "")

	// ErrFileNotFound is the one error that ships a body. Unmatched routes answer a bare
	// 404, missing files answer a descriptive one; the asymmetry is kept on purpose.
	ErrFileNotFound = NewError(NotFound, "File Not Found")
)
