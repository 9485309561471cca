package safehttp

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultTimeout = 30 * time.Second

// Options controls how upstream HTTP clients are built.
type Options struct {
	Timeout time.Duration
	// DenyPrivate rejects connections to private or loopback IP ranges to reduce SSRF risk.
	DenyPrivate bool
	Transport   http.RoundTripper
}

// Option mutates Options.
type Option func(*Options)

// WithTimeout sets the overall request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.Timeout = d
		}
	}
}

// WithDenyPrivate toggles the private-network dial guard.
func WithDenyPrivate(deny bool) Option {
	return func(o *Options) { o.DenyPrivate = deny }
}

// WithTransport overrides the base transport, e.g. with a VCR recorder.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *Options) { o.Transport = rt }
}

// NewClient returns an *http.Client for calling collaborators. Outbound calls
// are traced through otelhttp.
func NewClient(opts ...Option) *http.Client {
	options := Options{Timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&options)
	}

	base := options.Transport
	if base == nil {
		if options.DenyPrivate {
			base = SafeTransport
		} else {
			base = http.DefaultTransport
		}
	}

	return &http.Client{
		Timeout:   options.Timeout,
		Transport: otelhttp.NewTransport(base),
	}
}

// SafeTransport rejects connections to private or loopback IP ranges.
var SafeTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		dialer := &net.Dialer{Timeout: 5 * time.Second}
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		host, _, _ := net.SplitHostPort(conn.RemoteAddr().String())
		ip := net.ParseIP(host)
		if ip == nil {
			conn.Close()
			return nil, fmt.Errorf("failed to parse remote IP for %q", addr)
		}

		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() {
			conn.Close()
			return nil, fmt.Errorf("access to private IP %s is denied", ip)
		}

		return conn, nil
	},
	TLSHandshakeTimeout: 10 * time.Second,
	IdleConnTimeout:     90 * time.Second,
}
