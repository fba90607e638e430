package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/vlive-go/vlive/log"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 32 << 20

// Request describes one upstream call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Query  url.Values
}

// Get returns a GET request for rawURL.
func Get(rawURL string) *Request {
	return &Request{
		Method: http.MethodGet,
		URL:    rawURL,
		Header: make(http.Header),
		Query:  make(url.Values),
	}
}

// WithHeader sets a header and returns the request.
func (r *Request) WithHeader(key, value string) *Request {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Set(key, value)
	return r
}

// WithQuery sets a query parameter and returns the request.
func (r *Request) WithQuery(key, value string) *Request {
	if r.Query == nil {
		r.Query = make(url.Values)
	}
	r.Query.Set(key, value)
	return r
}

// Encode returns the request URL with Query merged into any query already present.
func (r *Request) Encode() (string, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	if len(r.Query) > 0 {
		q := u.Query()
		for k, vs := range r.Query {
			q.Del(k)
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// Response is a raw upstream reply. A non-2xx Status is not an error at this layer.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Fetcher performs a request and returns the raw body with its status code.
// Implementations must honour ctx cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, req *Request) (*Response, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, req *Request) (*Response, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// HTTPFetcher is the default Fetcher backed by an *http.Client.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher using client, or the shared Client if nil.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = Client
	}
	return &HTTPFetcher{Client: client}
}

// Fetch performs req. Only connection-level failures are returned as errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, req *Request) (*Response, error) {
	target, err := req.Encode()
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	log.Debugf("%s %s", method, req.URL)
	resp, err := f.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{Status: resp.StatusCode, Body: body}, nil
}
