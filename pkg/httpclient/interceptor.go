package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Interceptor observes every call made through a Client. Any field may be nil.
//
// Request and Response receive values on the success path and return the value
// handed to the next interceptor. RequestError and ResponseError receive
// failures. They may replace the error but cannot clear it: a nil return keeps
// the incoming error flowing to the caller.
type Interceptor struct {
	Request       func(req *Request) (*Request, error)
	RequestError  func(err error) error
	Response      func(resp *Response) (*Response, error)
	ResponseError func(err error) error
}

type chain []Interceptor

// request runs the request half in registration order. A failure raised by one
// interceptor is handed to the RequestError of the ones after it.
func (c chain) request(req *Request, err error) (*Request, error) {
	for _, ic := range c {
		if err != nil {
			err = reject(ic.RequestError, err)
			continue
		}
		if ic.Request == nil {
			continue
		}
		next, herr := ic.Request(req)
		if herr != nil {
			err = herr
			continue
		}
		if next != nil {
			req = next
		}
	}
	return req, err
}

// response runs the response half in registration order.
func (c chain) response(resp *Response, err error) (*Response, error) {
	for _, ic := range c {
		if err != nil {
			err = reject(ic.ResponseError, err)
			continue
		}
		if ic.Response == nil {
			continue
		}
		next, herr := ic.Response(resp)
		if herr != nil {
			err = herr
			continue
		}
		if next != nil {
			resp = next
		}
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func reject(h func(error) error, err error) error {
	if h == nil {
		return err
	}
	if out := h(err); out != nil {
		return out
	}
	return err
}

// LoggingInterceptor logs outgoing requests and failed responses.
type LoggingInterceptor struct {
	log Logger
}

// NewLoggingInterceptor builds the logging hooks around log.
func NewLoggingInterceptor(log Logger) *LoggingInterceptor {
	return &LoggingInterceptor{log: ensureLogger(log)}
}

// Interceptor returns the hook set for registration on a client.
func (l *LoggingInterceptor) Interceptor() Interceptor {
	return Interceptor{
		Request:       l.OnRequest,
		RequestError:  l.OnRequestError,
		Response:      l.OnResponse,
		ResponseError: l.OnResponseError,
	}
}

// OnRequest logs the method and URL and returns req untouched. A nil req is
// rejected.
func (l *LoggingInterceptor) OnRequest(req *Request) (*Request, error) {
	if req == nil {
		return nil, errors.New("request is nil")
	}
	method := strings.ToUpper(req.Method)
	l.log.InfoObj(fmt.Sprintf("[Request] %s %s", method, req.URL), "request", map[string]string{
		"method": method,
		"url":    req.URL,
	})
	return req, nil
}

// OnRequestError forwards err.
func (l *LoggingInterceptor) OnRequestError(err error) error {
	return err
}

// OnResponse returns resp untouched.
func (l *LoggingInterceptor) OnResponse(resp *Response) (*Response, error) {
	return resp, nil
}

// OnResponseError logs the response payload, or the error message when nothing
// was received, and returns err untouched. A nil err is returned as is.
func (l *LoggingInterceptor) OnResponseError(err error) error {
	if err == nil {
		return nil
	}
	var detail any = err.Error()
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if payload := apiErr.Payload(); payload != nil {
			detail = payload
		}
	}
	l.log.ErrorObj("[API Error]", "detail", detail)

	if StatusCode(err) == http.StatusUnauthorized {
		l.log.WarnObj("Unauthorized access", "status", http.StatusUnauthorized)
	}
	return err
}

// CredentialInterceptor attaches "Authorization: Bearer <token>" using p.
// Requests that already carry an Authorization header are left alone.
func CredentialInterceptor(p CredentialProvider) Interceptor {
	return Interceptor{
		Request: func(req *Request) (*Request, error) {
			if p == nil {
				return req, nil
			}
			if _, ok := req.Headers["Authorization"]; ok {
				return req, nil
			}
			token, err := p.Token(req.Context())
			if err != nil {
				return nil, fmt.Errorf("credential provider: %w", err)
			}
			if token == "" {
				return req, nil
			}
			out := req.Clone()
			if out.Headers == nil {
				out.Headers = make(map[string]string, 1)
			}
			out.Headers["Authorization"] = "Bearer " + token
			return out, nil
		},
	}
}
