package ows

import (
	"errors"
	"net/url"
	"strings"
)

var errMissingSchemeOrHost = errors.New("missing scheme or host")

type param struct {
	key   string
	value string
}

// Params is an ordered query string. Unlike url.Values it keeps keys in the
// order they were added, so the request URL is stable and matches what OGC
// servers and their logs usually show.
type Params struct {
	items []param
}

func (p *Params) Add(key, value string) {
	p.items = append(p.items, param{key: key, value: value})
}

// Get returns the first value for key, matching keys exactly.
func (p *Params) Get(key string) (string, bool) {
	for _, it := range p.items {
		if it.key == key {
			return it.value, true
		}
	}
	return "", false
}

func (p *Params) Len() int { return len(p.items) }

// Encode renders key=value pairs joined by '&' in insertion order.
func (p *Params) Encode() string {
	var sb strings.Builder
	for i, it := range p.items {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(it.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(it.value))
	}
	return sb.String()
}

// URL appends p to base. A query string already present on base (for
// example MapServer's ?map=...) is kept in front of the new parameters.
func (p *Params) URL(base string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &url.Error{Op: "parse", URL: base, Err: errMissingSchemeOrHost}
	}
	enc := p.Encode()
	switch {
	case u.RawQuery == "":
		u.RawQuery = enc
	case enc != "":
		u.RawQuery = strings.TrimRight(u.RawQuery, "&") + "&" + enc
	}
	u.ForceQuery = false
	return u, nil
}
