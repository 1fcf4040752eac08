package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	ProductionBaseURL  = "/api/finance"
	DevelopmentBaseURL = "http://127.0.0.1:8000/api/finance"
	DefaultTimeout     = 10 * time.Second
	ContentTypeJSON    = "application/json"
)

// Options selects the environment-dependent parts of a Client.
type Options struct {
	Production bool
	// Origin resolves a relative base URL (the production one) into an absolute
	// URL for dispatch. It plays the role of the page origin in a browser.
	Origin      string
	Credentials CredentialProvider
	Logger      Logger
	// Interceptors run after the built-in logging hooks.
	Interceptors []Interceptor
	// Transport replaces the underlying round tripper.
	Transport http.RoundTripper
}

// Client is the shared API client. It is safe for concurrent use and its
// configuration cannot change after New returns.
type Client struct {
	baseURL string
	headers map[string]string
	timeout time.Duration
	chain   chain
	client  *resty.Client
}

// New builds a Client with the base URL picked by opts.Production, a JSON
// content-type header and a fixed timeout.
func New(opts Options) *Client {
	return newClient(opts, DefaultTimeout)
}

func newClient(opts Options, timeout time.Duration) *Client {
	base := DevelopmentBaseURL
	if opts.Production {
		base = ProductionBaseURL
	}

	headers := map[string]string{"Content-Type": ContentTypeJSON}

	rc := resty.New()
	rc.SetBaseURL(resolveBaseURL(base, opts.Origin))
	rc.SetTimeout(timeout)
	rc.SetHeaders(headers)
	if opts.Transport != nil {
		rc.SetTransport(opts.Transport)
	}

	c := chain{}
	if opts.Credentials != nil {
		c = append(c, CredentialInterceptor(opts.Credentials))
	}
	c = append(c, NewLoggingInterceptor(opts.Logger).Interceptor())
	c = append(c, opts.Interceptors...)

	return &Client{
		baseURL: base,
		headers: headers,
		timeout: timeout,
		chain:   c,
		client:  rc,
	}
}

// BaseURL returns the configured base URL before origin resolution.
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Headers returns a copy of the default headers.
func (c *Client) Headers() map[string]string { return cloneMap(c.headers) }

// Do runs req through the interceptor chain and the transport. The error
// returned is exactly the one produced by the response hooks.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req != nil {
		req = req.Clone()
		req.ctx = ctx
	}

	req, err := c.chain.request(req, req.validate())
	if err == nil {
		// hooks may have replaced the request
		err = req.validate()
	}
	if err != nil {
		return c.chain.response(nil, err)
	}

	resp, err := c.send(ctx, req)
	return c.chain.response(resp, err)
}

// Get issues a GET for url.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, URL: url})
}

// Post issues a POST for url with a JSON body.
func (c *Client) Post(ctx context.Context, url string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, URL: url, Body: body})
}

func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	r := c.client.R().SetContext(ctx)
	if len(req.Headers) > 0 {
		r.SetHeaders(req.Headers)
	}
	if len(req.Query) > 0 {
		r.SetQueryParams(req.Query)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	rr, err := r.Execute(strings.ToUpper(req.Method), req.URL)
	if err != nil {
		return nil, &Error{Request: req, Err: err}
	}

	resp := &Response{
		Request:    req,
		StatusCode: rr.StatusCode(),
		Header:     rr.Header(),
		Body:       rr.Body(),
	}
	if !resp.OK() {
		return nil, &Error{Request: req, Response: resp}
	}
	return resp, nil
}

func resolveBaseURL(base, origin string) string {
	u, err := url.Parse(base)
	if err != nil || u.IsAbs() || strings.TrimSpace(origin) == "" {
		return base
	}
	o, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || !o.IsAbs() {
		return base
	}
	return o.ResolveReference(u).String()
}
