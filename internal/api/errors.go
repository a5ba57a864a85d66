package api

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusError is a non-2xx response from the server.
type StatusError struct {
	StatusCode int
	// Message is the server's own message when the body carried one,
	// otherwise the HTTP status text.
	Message string

	fromServer bool
}

func (e *StatusError) Error() string {
	if text := http.StatusText(e.StatusCode); text != "" {
		return fmt.Sprintf("HTTP %d %s", e.StatusCode, text)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// summary is the headline used when the error is wrapped for display.
func (e *StatusError) summary() string {
	if e.fromServer {
		return e.Message
	}
	return "Server returned an error"
}

// errorBody is the error shape the server uses. Some handlers use "error",
// others "message".
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newStatusError(status int, body []byte) *StatusError {
	e := &StatusError{StatusCode: status}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		e.Message = strings.TrimSpace(parsed.Message)
		if e.Message == "" {
			e.Message = strings.TrimSpace(parsed.Error)
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		e.Message = text
	}

	e.fromServer = e.Message != ""
	if e.Message == "" {
		e.Message = http.StatusText(status)
		if e.Message == "" {
			e.Message = fmt.Sprintf("HTTP %d", status)
		}
	}
	return e
}

// StatusCode returns the HTTP status of err if it wraps a *StatusError,
// or 0.
func StatusCode(err error) int {
	var se *StatusError
	if stderrors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
