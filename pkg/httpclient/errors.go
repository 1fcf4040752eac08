package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Error is returned for failed calls. Response is nil when nothing was received
// (network failure, timeout, unresolvable URL).
type Error struct {
	Request  *Request
	Response *Response
	Err      error
}

func (e *Error) Error() string {
	method, target := "", ""
	if e.Request != nil {
		method, target = strings.ToUpper(e.Request.Method), e.Request.URL
	}
	if e.Response != nil {
		return fmt.Sprintf("%s %s: status %d", method, target, e.Response.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", method, target, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status, or 0 when no response was received.
func (e *Error) StatusCode() int {
	if e == nil || e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

// Payload returns the response body, decoded when it is JSON. It is nil when
// there is no response or the body is empty.
func (e *Error) Payload() any {
	if e == nil || e.Response == nil || len(e.Response.Body) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(e.Response.Body, &decoded); err == nil {
		return decoded
	}
	return readBodySnippet(e.Response.Body)
}

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode()
	}
	return 0
}

func readBodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(string(body))
}
