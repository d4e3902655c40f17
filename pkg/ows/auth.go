package ows

import (
	"fmt"
	"net/http"
	"strings"
)

// AuthStrategy is one of Basic, BearerToken, APIKey or Cookie. A nil
// strategy means the request is sent unauthenticated.
type AuthStrategy interface {
	fmt.Stringer
	authStrategy()
}

// Basic sends HTTP basic credentials.
type Basic struct {
	Username string
	Password string
}

// BearerToken sends "Authorization: Bearer <token>".
type BearerToken string

// APIKey is appended to the query string as ParamName=Key.
type APIKey struct {
	ParamName string
	Key       string
}

// Cookie is sent verbatim as the Cookie header.
type Cookie string

func (Basic) authStrategy()       {}
func (BearerToken) authStrategy() {}
func (APIKey) authStrategy()      {}
func (Cookie) authStrategy()      {}

func (b Basic) String() string     { return "basic(" + b.Username + ":***)" }
func (BearerToken) String() string { return "bearer(***)" }
func (k APIKey) String() string    { return "apikey(" + k.ParamName + "=***)" }
func (Cookie) String() string      { return "cookie(***)" }

// ApplyQuery is the URL-building phase. Only APIKey contributes here; its
// parameter is appended after everything already in p.
func ApplyQuery(s AuthStrategy, p *Params) {
	if k, ok := s.(APIKey); ok {
		p.Add(k.ParamName, k.Key)
	}
}

// Decorate is the request phase. APIKey is a no-op because it has already
// been resolved into the URL by ApplyQuery.
func Decorate(s AuthStrategy, req *http.Request) {
	switch a := s.(type) {
	case Basic:
		req.SetBasicAuth(a.Username, a.Password)
	case BearerToken:
		req.Header.Set("Authorization", "Bearer "+string(a))
	case Cookie:
		req.Header.Set("Cookie", string(a))
	case APIKey, nil:
	}
}

// ParseAuth builds a strategy from configuration strings. kind is one of
// none, basic, bearer, apikey or cookie (case-insensitive); empty means none.
func ParseAuth(kind, username, password, token, param, key, cookie string) (AuthStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "none":
		return nil, nil
	case "basic":
		if username == "" {
			return nil, fmt.Errorf("basic auth: username is required")
		}
		return Basic{Username: username, Password: password}, nil
	case "bearer", "token":
		if token == "" {
			return nil, fmt.Errorf("bearer auth: token is required")
		}
		return BearerToken(token), nil
	case "apikey", "api_key", "api-key":
		if param == "" || key == "" {
			return nil, fmt.Errorf("api key auth: param name and key are required")
		}
		return APIKey{ParamName: param, Key: key}, nil
	case "cookie":
		if cookie == "" {
			return nil, fmt.Errorf("cookie auth: cookie value is required")
		}
		return Cookie(cookie), nil
	default:
		return nil, fmt.Errorf("unknown auth kind %q", kind)
	}
}
