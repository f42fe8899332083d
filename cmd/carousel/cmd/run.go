package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-drift/carousel/cmd/carousel/internal/config"
	"github.com/go-drift/carousel/cmd/carousel/internal/headless"
	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/engine"
)

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Run a carousel without a window",
		Long: `Run the carousel headless, printing every committed page.

Items are local asset names (resolved against assets_dir) or http(s) URLs.
Items on the command line replace those in the configuration file.

Flags:
  --config FILE      Configuration file (default: carousel.yaml)
  --ticks N          Stop after N commits (default: run until interrupted)
  --debug-addr ADDR  Serve frame and state diagnostics on ADDR`,
		Usage: "carousel run [--config FILE] [--ticks N] [--debug-addr ADDR] [items...]",
		Run:   runRun,
	})
}

func runRun(args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}
	resolved, err := config.Resolve(opts.configPath, opts.items)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(resolved.Items) == 0 {
		return fmt.Errorf("no items to show\n\nUsage: carousel run [items...]")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := engine.NewLoop(nil)
	loader, err := newLoader(resolved, loop)
	if err != nil {
		return err
	}

	var current *carousel.Carousel
	stopDebug, err := startDebug(opts.debugAddr, loop, carouselState(func() *carousel.Carousel { return current }))
	if err != nil {
		return err
	}
	defer stopDebug()

	_, err = headless.Run(ctx, headless.Options{
		Bounds:  resolved.Bounds(),
		Items:   resolved.Items,
		Config:  resolved.Carousel,
		Loader:  loader,
		Loop:    loop,
		Ticks:   opts.ticks,
		Out:     os.Stdout,
		Log:     logger,
		Mounted: func(c *carousel.Carousel) { current = c },
	})
	return err
}
