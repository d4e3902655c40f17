package wfs

import (
	"log/slog"
	"net/http"

	"github.com/mohammed-shakir/ogc-client/pkg/ows"
)

const (
	DefaultVersion      = "2.0.0"
	DefaultOutputFormat = "GEOJSON"
	DefaultSRSName      = "EPSG:25832"
)

type settings struct {
	httpClient   *http.Client
	logger       *slog.Logger
	userAgent    string
	auth         ows.AuthStrategy
	version      string
	outputFormat string
	srsName      string
}

type Option func(*settings)

// WithHTTPClient sets the transport. Share one client between Clients to
// reuse connections; configure timeouts on it. The User-Agent is set per
// request (see WithUserAgent), so a bare client still sends one.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.httpClient = c }
}

// WithUserAgent overrides httpclient.DefaultUserAgent on every request.
func WithUserAgent(ua string) Option {
	return func(s *settings) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func WithAuth(a ows.AuthStrategy) Option {
	return func(s *settings) { s.auth = a }
}

func WithVersion(v string) Option {
	return func(s *settings) {
		if v != "" {
			s.version = v
		}
	}
}

func WithOutputFormat(f string) Option {
	return func(s *settings) {
		if f != "" {
			s.outputFormat = f
		}
	}
}

// WithSRSName sets the srsname sent with every request.
func WithSRSName(srs string) Option {
	return func(s *settings) {
		if srs != "" {
			s.srsName = srs
		}
	}
}
