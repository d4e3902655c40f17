// Package executor runs prepared upstream OGC requests and classifies their
// failures.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mohammed-shakir/ogc-client/internal/core/observability"
	"github.com/mohammed-shakir/ogc-client/internal/logger"
	"github.com/mohammed-shakir/ogc-client/pkg/ows"
)

// how much of an error body is drained so the connection can be reused
const drainLimit = 8 << 10

type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
	Duration    time.Duration
}

type Executor struct {
	logger   *slog.Logger
	client   *http.Client
	service  string
	redact   []string
	now      func() time.Time // stubbed in tests
}

// New returns an executor for one OGC service. redact names query
// parameters whose values must never reach the logs.
func New(log *slog.Logger, client *http.Client, service string, redact ...string) *Executor {
	if log == nil {
		log = logger.Discard()
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Executor{
		logger:   log,
		client:   client,
		service:  service,
		redact:   redact,
		now:      time.Now,
	}
}

func (e *Executor) Logger() *slog.Logger { return e.logger }

// Do sends req and returns the full body of a 2xx response. Non-2xx yields
// *ows.RequestFailedError without reading the body; failures before a
// response, or while reading it, wrap ows.ErrTransport.
func (e *Executor) Do(req *http.Request) (*Response, error) {
	ctx := logger.WithService(req.Context(), e.service)
	target := e.RedactedURL(req.URL)
	start := e.now()

	resp, err := e.client.Do(req)
	if err != nil {
		dur := e.now().Sub(start)
		observability.ObserveUpstream(e.service, observability.OutcomeTransport, dur.Seconds())
		e.logger.WarnContext(ctx, "upstream transport error",
			"url", target, "duration", dur, "err", unwrapURLError(err))
		return nil, fmt.Errorf("%w: %s %s: %w", ows.ErrTransport, e.service, target, unwrapURLError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))
		dur := e.now().Sub(start)
		observability.ObserveUpstream(e.service, observability.OutcomeStatus, dur.Seconds())
		e.logger.WarnContext(ctx, "upstream status",
			"url", target, "status", resp.StatusCode, "duration", dur)
		return nil, &ows.RequestFailedError{Service: e.service, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	dur := e.now().Sub(start)
	if err != nil {
		observability.ObserveUpstream(e.service, observability.OutcomeTransport, dur.Seconds())
		return nil, fmt.Errorf("%w: %s read body: %w", ows.ErrTransport, e.service, err)
	}

	observability.ObserveUpstream(e.service, observability.OutcomeOK, dur.Seconds())
	observability.ObserveResponseBytes(e.service, len(body))
	e.logger.DebugContext(ctx, "upstream done",
		"url", target,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", dur)

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		Duration:    dur,
	}, nil
}

// DecodeFailed records that a 2xx body could not be decoded. Do already
// counted the request as ok, so only the decode outcome is added.
func (e *Executor) DecodeFailed(ctx context.Context, err error) {
	observability.IncUpstream(e.service, observability.OutcomeDecode)
	e.logger.WarnContext(logger.WithService(ctx, e.service), "decode failed", "err", err)
}

// Rejected records a query that failed validation and was never sent.
func (e *Executor) Rejected(ctx context.Context, err error) {
	observability.IncUpstream(e.service, observability.OutcomeInvalidParams)
	e.logger.DebugContext(logger.WithService(ctx, e.service), "query rejected", "err", err)
}

// RedactedURL renders u with the configured secret parameters masked.
func (e *Executor) RedactedURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	if len(e.redact) == 0 || u.RawQuery == "" {
		return u.String()
	}
	q := u.Query()
	hit := false
	for _, k := range e.redact {
		if _, ok := q[k]; ok {
			q.Set(k, "REDACTED")
			hit = true
		}
	}
	if !hit {
		return u.String()
	}
	cp := *u
	cp.RawQuery = q.Encode()
	return cp.String()
}

// *url.Error repeats the full URL, which may carry an API key
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err
	}
	return err
}
