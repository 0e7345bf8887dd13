package services

import (
	"errors"

	"dtrplay/internal/classifier"
)

// AlertError carries the message the page shows for a failed operation.
// The cause stays reachable through errors.Is and errors.As.
type AlertError struct {
	Message string
	Err     error
}

func (e *AlertError) Error() string { return e.Message }

func (e *AlertError) Unwrap() error { return e.Err }

func alert(message string, err error) error {
	return &AlertError{Message: message, Err: err}
}

// remoteMessage is the backend's own message for an application failure,
// or fallback for transport problems.
func remoteMessage(err error, appFallback, transportFallback string) string {
	var remote *classifier.Error
	if errors.As(err, &remote) && remote.HTTPStatus == 0 {
		if remote.Message != "" {
			return remote.Message
		}
		return appFallback
	}
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return transportFallback
}
