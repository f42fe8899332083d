package cmd

import (
	"context"
	"fmt"

	"github.com/go-drift/carousel/cmd/carousel/internal/config"
	"github.com/go-drift/carousel/cmd/carousel/internal/viewer"
	"github.com/go-drift/carousel/cmd/carousel/internal/viewer/window"
	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/engine"
)

func init() {
	RegisterCommand(&Command{
		Name:  "view",
		Short: "Show a carousel in a window",
		Long: `Open a window showing the carousel.

Drag horizontally to change pages; a quick flick is enough. Click to report
the current page. Space pauses and resumes autoplay, Escape quits.

Items are local asset names (resolved against assets_dir) or http(s) URLs.
Items on the command line replace those in the configuration file.

Flags:
  --config FILE      Configuration file (default: carousel.yaml)
  --watch            Reload the carousel when the configuration file changes
  --debug-addr ADDR  Serve frame and state diagnostics on ADDR`,
		Usage: "carousel view [--config FILE] [--watch] [--debug-addr ADDR] [items...]",
		Run:   runView,
	})
}

func runView(args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}
	resolved, err := config.Resolve(opts.configPath, opts.items)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(resolved.Items) == 0 && !opts.watch {
		return fmt.Errorf("no items to show\n\nUsage: carousel view [items...]")
	}

	loop := engine.NewLoop(nil)
	win, err := window.New(window.Options{
		Title:  "Carousel",
		Width:  resolved.WindowWidth,
		Height: resolved.WindowHeight,
		Loop:   loop,
		Mount:  mounter(resolved, loop),
	})
	if err != nil {
		return err
	}

	stopDebug, err := startDebug(opts.debugAddr, loop, carouselState(win.Carousel))
	if err != nil {
		return err
	}
	defer stopDebug()

	if opts.watch {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		changes := make(chan config.Change)
		if _, err := config.NewWatcher(ctx, resolved.Path, opts.items, changes, config.FileDebounce, logger); err != nil {
			return fmt.Errorf("failed to watch %s: %w", resolved.Path, err)
		}
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case change := <-changes:
					if change.Err != nil {
						logger.Warn("config reload failed", "path", resolved.Path, "error", change.Err)
						continue
					}
					logger.Info("config reloaded", "path", resolved.Path, "items", len(change.Resolved.Items))
					mount := mounter(change.Resolved, loop)
					loop.Dispatch(func() { win.Remount(mount) })
				}
			}
		}()
	}

	return win.Run()
}

// mounter returns a window.MountFunc building a carousel for r.
func mounter(r *config.Resolved, loop *engine.Loop) window.MountFunc {
	return func(bounds carousel.Rect, surface *viewer.Surface) (*carousel.Carousel, error) {
		loader, err := newLoader(r, loop)
		if err != nil {
			return nil, err
		}
		onSelect := func(_ *carousel.Carousel, index int) {
			if index < len(r.Items) {
				fmt.Printf("selected %d: %s\n", index, r.Items[index])
			}
		}
		return carousel.New(bounds, r.ItemValues(), onSelect, r.Carousel, carousel.Deps{
			Loader:    loader,
			Scheduler: loop.Scheduler(),
			Viewport:  surface,
			Indicator: surface,
			OnCommit: func(s carousel.State) {
				logger.Debug("commit", "index", s.CurrentIndex, "direction", s.Direction.String())
			},
		}), nil
	}
}
