// Package httpclient configures the HTTP client shared by the OGC clients.
package httpclient

import (
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "ogc-client/dev"
)

// Default is the process-wide client used when a caller supplies none.
var Default = sync.OnceValue(func() *http.Client {
	return NewOutbound(Options{Timeout: DefaultTimeout, UserAgent: DefaultUserAgent})
})

type Options struct {
	// Timeout bounds a whole request including the body read. Zero disables it.
	Timeout   time.Duration
	UserAgent string
}

// NewOutbound creates a new outbound http client. It is safe for concurrent
// use and meant to be shared by every client built from the same config.
func NewOutbound(opts Options) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	var rt http.RoundTripper = transport
	if opts.UserAgent != "" {
		rt = &userAgent{next: transport, ua: opts.UserAgent}
	}
	return &http.Client{
		Transport: rt,
		Timeout:   opts.Timeout,
	}
}

// sets User-Agent when the caller did not
type userAgent struct {
	next http.RoundTripper
	ua   string
}

func (u *userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get("User-Agent") != "" {
		return u.next.RoundTrip(r)
	}
	r2 := r.Clone(r.Context())
	r2.Header.Set("User-Agent", u.ua)
	return u.next.RoundTrip(r2)
}
