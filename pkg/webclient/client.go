// Package webclient builds HTTP clients with bounded timeouts for
// synchronous service-to-service calls.
package webclient

import (
	"net"
	"net/http"
	"time"
)

// Defaults keep a slow downstream from holding a calling thread for
// longer than the request deadline.
const (
	defaultClientTimeout         = 5 * time.Second
	defaultResponseHeaderTimeout = 2 * time.Second
	defaultIdleConnTimeout       = 90 * time.Second
	defaultTLSHandshakeTimeout   = 5 * time.Second

	defaultMaxConnsPerHost     = 128
	defaultMaxIdleConnsPerHost = 128

	defaultDialerTimeout   = 500 * time.Millisecond
	defaultDialerKeepAlive = 30 * time.Second
)

// Option overrides a default client setting.
type Option func(*config)

type config struct {
	clientTimeout         time.Duration
	responseHeaderTimeout time.Duration
}

// WithTimeout caps the total time of a single request, body included.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.clientTimeout = d
		}
	}
}

// WithResponseHeaderTimeout caps the time to the first response header byte.
func WithResponseHeaderTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.responseHeaderTimeout = d
		}
	}
}

// New returns an *http.Client with bounded timeouts overridden by opts.
func New(opts ...Option) *http.Client {
	cfg := config{
		clientTimeout:         defaultClientTimeout,
		responseHeaderTimeout: defaultResponseHeaderTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaultDialerTimeout,
			KeepAlive: defaultDialerKeepAlive,
		}).DialContext,
		MaxConnsPerHost:       defaultMaxConnsPerHost,
		MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.responseHeaderTimeout,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: tr,
		Timeout:   cfg.clientTimeout,
	}
}
