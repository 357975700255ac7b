package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/stencilgen/stencil/internal/builder"
	"github.com/stencilgen/stencil/internal/config"
)

var (
	watchMode    bool
	serveMode    bool
	portOverride int
)

// runBuild performs the initial pass and then, depending on the flags,
// keeps watching and/or serving until interrupted.
func runBuild(parent context.Context) error {
	b := builder.New(appCfg, logger)

	if err := b.Run(); err != nil {
		return err
	}
	if !watchMode && !serveMode {
		return nil
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reload := func() (*config.Config, error) {
		return config.Load(configPath, projectRoot, logger)
	}

	errs := make(chan error, 2)
	if watchMode {
		go func() { errs <- b.Watch(ctx, configPath, reload) }()
	}
	if serveMode {
		go func() { errs <- b.Serve(ctx) }()
	}

	err := <-errs
	stop()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
