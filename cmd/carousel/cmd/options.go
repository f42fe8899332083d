package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-drift/carousel/cmd/carousel/internal/config"
	"github.com/go-drift/carousel/pkg/engine"
	"github.com/go-drift/carousel/pkg/imageload"
)

// options are the flags shared by view and run.
type options struct {
	configPath string
	debugAddr  string
	watch      bool
	ticks      int
	items      []string
}

// parseOptions consumes --config, --debug-addr, --watch and --ticks, in both
// "--flag value" and "--flag=value" forms. Remaining arguments are items.
func parseOptions(args []string) (options, error) {
	opts := options{configPath: config.FileName}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(arg, "=")
		switch name {
		case "--config", "--debug-addr", "--ticks":
			if !hasValue {
				if i+1 >= len(args) {
					return opts, fmt.Errorf("%s requires a value", name)
				}
				value = args[i+1]
				i++
			}
			switch name {
			case "--config":
				opts.configPath = value
			case "--debug-addr":
				opts.debugAddr = value
			default:
				n, err := strconv.Atoi(value)
				if err != nil || n < 0 {
					return opts, fmt.Errorf("--ticks must be a non-negative integer, got %q", value)
				}
				opts.ticks = n
			}
		case "--watch":
			opts.watch = true
		default:
			if strings.HasPrefix(arg, "--") {
				return opts, fmt.Errorf("unknown flag %s", arg)
			}
			opts.items = append(opts.items, arg)
		}
	}
	return opts, nil
}

// newLoader builds the production loader for resolved configuration,
// delivering remote results on the loop.
func newLoader(r *config.Resolved, loop *engine.Loop) (*imageload.Loader, error) {
	opts := imageload.Options{
		Fetcher:       imageload.DefaultHTTPFetcher(),
		Dispatcher:    loop,
		MaxConcurrent: r.MaxConcurrent,
	}
	if info, err := os.Stat(r.AssetsDir); err == nil && info.IsDir() {
		assets, err := imageload.NewFSAssets(os.DirFS(r.AssetsDir), nil, 0)
		if err != nil {
			return nil, err
		}
		opts.Assets = assets
	} else {
		logger.Warn("assets directory unavailable", "dir", r.AssetsDir)
	}
	return imageload.New(opts), nil
}
