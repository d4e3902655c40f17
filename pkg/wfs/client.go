package wfs

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mohammed-shakir/ogc-client/internal/core/executor"
	"github.com/mohammed-shakir/ogc-client/internal/core/httpclient"
	"github.com/mohammed-shakir/ogc-client/internal/logger"
	"github.com/mohammed-shakir/ogc-client/pkg/ows"
)

const service = "WFS"

type Client struct {
	baseURL      string
	auth         ows.AuthStrategy
	version      string
	outputFormat string
	srsName      string
	userAgent    string
	exec         *executor.Executor
}

// New binds a client to baseURL. The URL must be absolute; it may already
// carry vendor query parameters, which are kept.
func New(baseURL string, opts ...Option) (*Client, error) {
	s := settings{
		version:      DefaultVersion,
		outputFormat: DefaultOutputFormat,
		srsName:      DefaultSRSName,
		userAgent:    httpclient.DefaultUserAgent,
	}
	for _, o := range opts {
		o(&s)
	}
	if _, err := (&ows.Params{}).URL(baseURL); err != nil {
		return nil, fmt.Errorf("wfs base url: %w", err)
	}
	if s.httpClient == nil {
		s.httpClient = httpclient.Default()
	}
	if s.logger == nil {
		s.logger = logger.Discard()
	}
	var redact []string
	if k, ok := s.auth.(ows.APIKey); ok {
		redact = append(redact, k.ParamName)
	}
	return &Client{
		baseURL:      strings.TrimSpace(baseURL),
		auth:         s.auth,
		version:      s.version,
		outputFormat: s.outputFormat,
		srsName:      s.srsName,
		userAgent:    s.userAgent,
		exec:         executor.New(s.logger, s.httpClient, service, redact...),
	}, nil
}

// BuildURL is the first auth phase: the GetFeature parameters followed, for
// an APIKey strategy, by the key parameter.
func (c *Client) BuildURL(q FeatureQuery) (*url.URL, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	p := c.params(q)
	ows.ApplyQuery(c.auth, p)
	u, err := p.URL(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("wfs url: %w", err)
	}
	return u, nil
}

// NewRequest builds the URL and then applies the second auth phase
// (Basic, BearerToken, Cookie) to the request.
func (c *Client) NewRequest(ctx context.Context, q FeatureQuery) (*http.Request, error) {
	u, err := c.BuildURL(q)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json;q=0.9, */*;q=0.1")
	req.Header.Set("User-Agent", c.userAgent)
	ows.Decorate(c.auth, req)
	return req, nil
}

// FetchFeatureCollection runs GetFeature and returns the decoded collection
// with feature properties intact.
func (c *Client) FetchFeatureCollection(ctx context.Context, q FeatureQuery) (*geojson.FeatureCollection, error) {
	fc, _, err := c.fetch(logger.WithLayer(ctx, q.Layer), q)
	return fc, err
}

// FetchFeatures runs GetFeature and returns one geometry per feature. A
// single-feature response still yields a one-element slice.
func (c *Client) FetchFeatures(ctx context.Context, q FeatureQuery) ([]orb.Geometry, error) {
	ctx = logger.WithLayer(ctx, q.Layer)
	fc, resp, err := c.fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	geoms, err := RequireGeometries(fc)
	if err != nil {
		c.exec.DecodeFailed(ctx, err)
		return nil, err
	}
	c.exec.Logger().DebugContext(logger.WithService(ctx, service), "features decoded",
		"features", len(fc.Features),
		"geometries", len(geoms),
		"duration", resp.Duration)
	return geoms, nil
}

func (c *Client) fetch(ctx context.Context, q FeatureQuery) (*geojson.FeatureCollection, *executor.Response, error) {
	req, err := c.NewRequest(ctx, q)
	if err != nil {
		c.exec.Rejected(ctx, err)
		return nil, nil, err
	}
	resp, err := c.exec.Do(req)
	if err != nil {
		return nil, nil, err
	}
	fc, err := DecodeFeatureCollection(resp.Body)
	if err != nil {
		c.exec.DecodeFailed(ctx, err)
		return nil, nil, err
	}
	return fc, resp, nil
}
