package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnavailable wraps transport failures and open-circuit rejections; the
// caller surfaces a generic failure and the user retries manually.
var ErrUnavailable = errors.New("upstream backend unavailable")

// RequestError is a structured 4xx/5xx response from the backend. Field
// messages are carried verbatim so forms can surface them unchanged.
type RequestError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream returned %d", e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err is a business-rule rejection (409 or 400
// with field errors).
func IsConflict(err error) bool {
	var re *RequestError
	if !errors.As(err, &re) {
		return false
	}
	return re.StatusCode == http.StatusConflict ||
		(re.StatusCode == http.StatusBadRequest && len(re.Fields) > 0)
}

// AsRequestError unwraps err into a RequestError when possible.
func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	ok := errors.As(err, &re)
	return re, ok
}
