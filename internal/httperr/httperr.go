// Package httperr defines the structured protocol error used to
// short-circuit request processing into an HTTP error response.
package httperr

import "fmt"

// Error carries an HTTP status, a reason phrase and an optional body text.
// Raising it anywhere between parsing and handling aborts the request and
// sends the corresponding response on the connection.
type Error struct {
	Status int
	Reason string
	Body   string
}

func New(status int, reason string) *Error {
	return &Error{Status: status, Reason: reason}
}

func NewWithBody(status int, reason, body string) *Error {
	return &Error{Status: status, Reason: reason, Body: body}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s", e.Status, e.Reason)
}

// ResponseBody returns the text to send as the error response body: the
// explicit body if one was given, the reason phrase otherwise.
func (e *Error) ResponseBody() string {
	if e.Body != "" {
		return e.Body
	}
	return e.Reason
}
