package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Request describes one outgoing call. URL is relative to the client's base URL
// unless it is absolute.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Query   map[string]string
	Body    any

	ctx context.Context
}

// Context returns the context of the call carrying this request.
func (r *Request) Context() context.Context {
	if r == nil || r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// Clone returns a copy whose header and query maps can be changed independently.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Headers = cloneMap(r.Headers)
	cp.Query = cloneMap(r.Query)
	return &cp
}

func (r *Request) validate() error {
	if r == nil {
		return errors.New("request is nil")
	}
	if strings.TrimSpace(r.Method) == "" {
		return errors.New("request method is empty")
	}
	if _, err := url.Parse(r.URL); err != nil {
		return fmt.Errorf("invalid request url %q: %w", r.URL, err)
	}
	return nil
}

// Response is the received answer for a Request.
type Response struct {
	Request    *Request
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the response body into v.
func (r *Response) JSON(v any) error {
	if r == nil || len(r.Body) == 0 {
		return errors.New("empty response body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Doer abstracts the client so callers can inject fakes.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// CredentialProvider supplies the bearer token attached to outgoing requests.
// An empty token means no Authorization header is sent.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a CredentialProvider returning a fixed token.
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) { return string(s), nil }

func cloneMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
