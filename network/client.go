// Package network provides the HTTP plumbing used to talk to the upstream site.
package network

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds a single round-trip when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client is the shared HTTP client. It is safe for concurrent use; the pipeline
// keeps no other state between calls.
var Client = NewClient(DefaultTimeout, false)

// NewClient returns an HTTP client with a tuned transport. When fingerprint is set,
// TLS connections mimic a desktop Chrome Client Hello.
func NewClient(timeout time.Duration, fingerprint bool) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var transport http.RoundTripper = newTransport()
	if fingerprint {
		transport = newFingerprintTransport(timeout)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// newTransport initializes a tuned http.Transport with pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}
