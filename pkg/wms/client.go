package wms

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/mohammed-shakir/ogc-client/internal/core/executor"
	"github.com/mohammed-shakir/ogc-client/internal/core/httpclient"
	"github.com/mohammed-shakir/ogc-client/internal/logger"
	"github.com/mohammed-shakir/ogc-client/pkg/ows"
)

const service = "WMS"

type Client struct {
	baseURL   string
	auth      ows.AuthStrategy
	version   string
	styles    string
	userAgent string
	exec      *executor.Executor
}

func New(baseURL string, opts ...Option) (*Client, error) {
	s := settings{
		version:   DefaultVersion,
		styles:    DefaultStyles,
		userAgent: httpclient.DefaultUserAgent,
	}
	for _, o := range opts {
		o(&s)
	}
	if _, err := (&ows.Params{}).URL(baseURL); err != nil {
		return nil, fmt.Errorf("wms base url: %w", err)
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
		baseURL:   strings.TrimSpace(baseURL),
		auth:      s.auth,
		version:   s.version,
		styles:    s.styles,
		userAgent: s.userAgent,
		exec:      executor.New(s.logger, s.httpClient, service, redact...),
	}, nil
}

// BuildURL is the first auth phase: GetMap parameters, then the APIKey
// parameter when that strategy is configured.
func (c *Client) BuildURL(q TileQuery) (*url.URL, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	p := c.params(q)
	ows.ApplyQuery(c.auth, p)
	u, err := p.URL(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("wms url: %w", err)
	}
	return u, nil
}

// NewRequest builds the URL and applies the header auth phase.
func (c *Client) NewRequest(ctx context.Context, q TileQuery) (*http.Request, error) {
	u, err := c.BuildURL(q)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", q.Format+", */*;q=0.1")
	req.Header.Set("User-Agent", c.userAgent)
	ows.Decorate(c.auth, req)
	return req, nil
}

// FetchMapTile runs GetMap and returns the body untouched. Only the HTTP
// status is checked; a server that answers 200 with an XML exception report
// will hand that report back as the tile.
func (c *Client) FetchMapTile(ctx context.Context, q TileQuery) ([]byte, error) {
	ctx = logger.WithLayer(ctx, q.Layers)
	req, err := c.NewRequest(ctx, q)
	if err != nil {
		c.exec.Rejected(ctx, err)
		return nil, err
	}
	resp, err := c.exec.Do(req)
	if err != nil {
		return nil, err
	}

	log := c.exec.Logger()
	lctx := logger.WithService(ctx, service)
	if !sameMediaType(resp.ContentType, q.Format) {
		log.WarnContext(lctx, "tile content type differs from requested format",
			"format", q.Format, "content_type", resp.ContentType)
	}
	log.DebugContext(lctx, "tile fetched",
		"bytes", len(resp.Body),
		"xxhash", Digest(resp.Body),
		"duration", resp.Duration)
	return resp.Body, nil
}

// Digest is a short non-cryptographic fingerprint of a tile, handy for
// spotting identical tiles in logs.
func Digest(tile []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(tile))
}

func sameMediaType(got, want string) bool {
	if got == "" {
		return false
	}
	g, _, err := mime.ParseMediaType(got)
	if err != nil {
		return false
	}
	w, _, err := mime.ParseMediaType(want)
	if err != nil {
		return strings.EqualFold(g, want)
	}
	return strings.EqualFold(g, w)
}
