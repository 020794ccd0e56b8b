package errors

import "net/http"

// Default error at handler level is internal server error.
// Errors that map to a different status code travel as ErrorWithStatusCode.
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func IsNotFound(err error) bool {
	e, ok := err.(*ErrorWithStatusCode)
	return ok && e.StatusCode == http.StatusNotFound
}
