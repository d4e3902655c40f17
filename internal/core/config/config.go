// Package config loads runtime settings for the OGC clients from the
// environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mohammed-shakir/ogc-client/internal/core/httpclient"
	"github.com/mohammed-shakir/ogc-client/pkg/ows"
	"github.com/mohammed-shakir/ogc-client/pkg/wfs"
	"github.com/mohammed-shakir/ogc-client/pkg/wms"
)

type AuthCfg struct {
	Kind     string
	Username string
	Password string
	Token    string
	Param    string
	Key      string
	Cookie   string
}

type WFSCfg struct {
	URL          string
	Version      string
	OutputFormat string
	SRSName      string
}

type WMSCfg struct {
	URL     string
	Version string
	Styles  string
	CRS     string
}

type Config struct {
	LogLevel    string
	LogConsole  bool
	LogSampleN  int
	HTTPTimeout time.Duration
	UserAgent   string
	MetricsFile string
	WFS         WFSCfg
	WMS         WMSCfg
	Auth        AuthCfg
}

const (
	DefaultWFSVersion      = wfs.DefaultVersion
	DefaultWFSOutputFormat = wfs.DefaultOutputFormat
	DefaultWFSSRSName      = wfs.DefaultSRSName
	DefaultWMSVersion      = wms.DefaultVersion
	DefaultWMSStyles       = wms.DefaultStyles
	DefaultUserAgent       = httpclient.DefaultUserAgent
	DefaultHTTPTimeout     = httpclient.DefaultTimeout
)

// Load seeds the environment from the given .env files (or ./.env when none
// are named) and then reads it. A missing default .env is not an error;
// variables already set in the process environment win.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	return FromEnv(), nil
}

func FromEnv() Config {
	return Config{
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogConsole:  getbool("LOG_CONSOLE", false),
		LogSampleN:  getint("LOG_SAMPLE_N", 0),
		HTTPTimeout: getduration("HTTP_TIMEOUT", DefaultHTTPTimeout),
		UserAgent:   getenv("HTTP_USER_AGENT", DefaultUserAgent),
		MetricsFile: getenv("METRICS_FILE", ""),
		WFS: WFSCfg{
			URL:          getenv("WFS_URL", ""),
			Version:      getenv("WFS_VERSION", DefaultWFSVersion),
			OutputFormat: getenv("WFS_OUTPUT_FORMAT", DefaultWFSOutputFormat),
			SRSName:      getenv("WFS_SRS_NAME", DefaultWFSSRSName),
		},
		WMS: WMSCfg{
			URL:     getenv("WMS_URL", ""),
			Version: getenv("WMS_VERSION", DefaultWMSVersion),
			Styles:  getenv("WMS_STYLES", DefaultWMSStyles),
			CRS:     getenv("WMS_CRS", DefaultWFSSRSName),
		},
		Auth: AuthCfg{
			Kind:     strings.ToLower(getenv("OGC_AUTH", "none")),
			Username: os.Getenv("OGC_AUTH_USERNAME"),
			Password: os.Getenv("OGC_AUTH_PASSWORD"),
			Token:    os.Getenv("OGC_AUTH_TOKEN"),
			Param:    os.Getenv("OGC_AUTH_PARAM"),
			Key:      os.Getenv("OGC_AUTH_KEY"),
			Cookie:   os.Getenv("OGC_AUTH_COOKIE"),
		},
	}
}

// AuthStrategy turns the OGC_AUTH* settings into a strategy; nil means none.
func (c Config) AuthStrategy() (ows.AuthStrategy, error) {
	a := c.Auth
	return ows.ParseAuth(a.Kind, a.Username, a.Password, a.Token, a.Param, a.Key, a.Cookie)
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
