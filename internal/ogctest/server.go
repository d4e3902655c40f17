// Package ogctest runs a fake WFS/WMS server for tests.
//
// GET /wfs answers GetFeature with count Point features (default 1); feature
// i sits at [i, count]. GET /wms answers GetMap with the bytes
// "LAYERS|WIDTHxHEIGHT|TRANSPARENT" and the requested FORMAT as Content-Type.
// Either can be replaced with a canned response.
package ogctest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Request struct {
	Path     string
	RawQuery string
	Query    url.Values
	Header   http.Header
}

type canned struct {
	status      int
	contentType string
	body        []byte
}

type Server struct {
	URL string

	srv  *httptest.Server
	mu   sync.Mutex
	reqs []Request
	wfs  *canned
	wms  *canned
}

// NewServer starts a server that is closed when t finishes.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)
	r.Get("/wfs", s.serveWFS)
	r.Get("/wms", s.serveWMS)

	s.srv = httptest.NewServer(r)
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

func (s *Server) WFSURL() string { return s.URL + "/wfs" }
func (s *Server) WMSURL() string { return s.URL + "/wms" }

// RespondWFS replaces the GetFeature handler with a fixed response.
func (s *Server) RespondWFS(status int, contentType string, body []byte) {
	s.mu.Lock()
	s.wfs = &canned{status: status, contentType: contentType, body: body}
	s.mu.Unlock()
}

// RespondWMS replaces the GetMap handler with a fixed response.
func (s *Server) RespondWMS(status int, contentType string, body []byte) {
	s.mu.Lock()
	s.wms = &canned{status: status, contentType: contentType, body: body}
	s.mu.Unlock()
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.reqs...)
}

// Last returns the most recent request; it fails t when there is none.
func (s *Server) Last(t testing.TB) Request {
	t.Helper()
	reqs := s.Requests()
	if len(reqs) == 0 {
		t.Fatalf("ogctest: no requests recorded")
	}
	return reqs[len(reqs)-1]
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.reqs = append(s.reqs, Request{
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Query:    r.URL.Query(),
			Header:   r.Header.Clone(),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) cannedFor(path string) *canned {
	s.mu.Lock()
	defer s.mu.Unlock()
	if path == "/wfs" {
		return s.wfs
	}
	return s.wms
}

func writeCanned(w http.ResponseWriter, c *canned) {
	if c.contentType != "" {
		w.Header().Set("Content-Type", c.contentType)
	}
	w.WriteHeader(c.status)
	_, _ = w.Write(c.body)
}

func (s *Server) serveWFS(w http.ResponseWriter, r *http.Request) {
	if c := s.cannedFor("/wfs"); c != nil {
		writeCanned(w, c)
		return
	}
	q := r.URL.Query()
	if q.Get("request") != "GetFeature" {
		http.Error(w, "unsupported request", http.StatusBadRequest)
		return
	}
	n := 1
	if v := q.Get("count"); v != "" {
		if c, err := strconv.Atoi(v); err == nil && c > 0 {
			n = c
		}
	}
	feats := make([]string, 0, n)
	for i := range n {
		feats = append(feats, fmt.Sprintf(
			`{"type":"Feature","id":"%s.%d","properties":{"layer":%q},"geometry":{"type":"Point","coordinates":[%d,%d]}}`,
			q.Get("typeName"), i, q.Get("typeName"), i, n))
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = fmt.Fprintf(w, `{"type":"FeatureCollection","features":[%s]}`, strings.Join(feats, ","))
}

func (s *Server) serveWMS(w http.ResponseWriter, r *http.Request) {
	if c := s.cannedFor("/wms"); c != nil {
		writeCanned(w, c)
		return
	}
	q := r.URL.Query()
	if q.Get("REQUEST") != "GetMap" {
		http.Error(w, "unsupported request", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", q.Get("FORMAT"))
	_, _ = fmt.Fprintf(w, "%s|%sx%s|%s", q.Get("LAYERS"), q.Get("WIDTH"), q.Get("HEIGHT"), q.Get("TRANSPARENT"))
}

// TileBody is what the default GetMap handler returns for the given values.
func TileBody(layers string, width, height int, transparent bool) []byte {
	return fmt.Appendf(nil, "%s|%dx%d|%t", layers, width, height, transparent)
}
