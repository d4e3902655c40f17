package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mohammed-shakir/ogc-client/pkg/ows"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &app{}
	root := newRootCommand(app)
	err := root.ExecuteContext(ctx)
	if ferr := app.finish(); ferr != nil && err == nil {
		err = ferr
	}
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	if errors.Is(err, ows.ErrInvalidQuery) {
		return 2
	}
	if ows.Retryable(err) {
		return 75 // EX_TEMPFAIL
	}
	return 1
}
