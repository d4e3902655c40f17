package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohammed-shakir/ogc-client/internal/core/config"
	"github.com/mohammed-shakir/ogc-client/internal/core/httpclient"
	"github.com/mohammed-shakir/ogc-client/internal/core/observability"
	"github.com/mohammed-shakir/ogc-client/internal/logger"
	"github.com/mohammed-shakir/ogc-client/internal/metrics"
	"github.com/mohammed-shakir/ogc-client/pkg/ows"
)

// app carries what every subcommand needs once flags and env are resolved.
type app struct {
	cfg     config.Config
	log     *slog.Logger
	http    *http.Client
	auth    ows.AuthStrategy
	metrics *metrics.Provider
}

type rootFlags struct {
	envFile     string
	logLevel    string
	auth        string
	metricsFile string
}

func newRootCommand(a *app) *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:           "ogcfetch",
		Short:         "Fetch features (WFS) and map tiles (WMS) from OGC servers",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, f)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.envFile, "env-file", "", "load settings from this .env file (default ./.env if present)")
	pf.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	pf.StringVar(&f.auth, "auth", "", "none, basic, bearer, apikey or cookie (overrides OGC_AUTH; secrets come from OGC_AUTH_*)")
	pf.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit (overrides METRICS_FILE)")

	cmd.AddCommand(newFeaturesCommand(a), newTileCommand(a))
	return cmd
}

func (a *app) init(cmd *cobra.Command, f rootFlags) error {
	var files []string
	if f.envFile != "" {
		files = append(files, f.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.auth != "" {
		cfg.Auth.Kind = f.auth
	}
	if f.metricsFile != "" {
		cfg.MetricsFile = f.metricsFile
	}
	a.cfg = cfg

	zl := logger.Build(logger.Config{
		Level:   cfg.LogLevel,
		Console: cfg.LogConsole,
		SampleN: cfg.LogSampleN,
	}, os.Stderr)
	a.log = logger.NewSlog(&zl)

	// one request id per invocation ties the upstream log lines together
	ctx := logger.WithRequestID(cmd.Context(), "")
	cmd.SetContext(logger.WithComponent(ctx, cmd.CommandPath()))

	a.auth, err = cfg.AuthStrategy()
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	a.metrics = metrics.Init(metrics.Config{Build: metrics.BuildInfo{Version: Version}})
	if err := observability.Register(a.metrics.Registerer()); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	a.http = httpclient.NewOutbound(httpclient.Options{
		Timeout:   cfg.HTTPTimeout,
		UserAgent: cfg.UserAgent,
	})

	a.log.DebugContext(cmd.Context(), "configured",
		"command", cmd.Name(),
		"auth", fmt.Sprint(a.auth),
		"timeout", cfg.HTTPTimeout)
	return nil
}

// finish flushes metrics when a metrics file was requested.
func (a *app) finish() error {
	if a.metrics == nil || a.cfg.MetricsFile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func pickURL(flag, fromEnv, envName string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if fromEnv != "" {
		return fromEnv, nil
	}
	return "", fmt.Errorf("no service url: pass --url or set %s", envName)
}
