package classifier

import (
	"errors"
	"fmt"
)

// ErrUnavailable wraps transport failures: the backend could not be
// reached or the call was cancelled.
var ErrUnavailable = errors.New("classifier unavailable")

// Error is a failure reported by the backend itself, either through a
// non-2xx status or a "status" other than "success".
type Error struct {
	HTTPStatus int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

func remoteError(httpStatus int, message, fallback string) *Error {
	if message == "" {
		message = fallback
	}
	return &Error{HTTPStatus: httpStatus, Message: message}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
