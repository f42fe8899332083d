// Package config loads the optional carousel.yaml used by the carousel CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/imageload"
)

// FileName is the default configuration file name.
const FileName = "carousel.yaml"

// Default window size in points.
const (
	DefaultWindowWidth  = 640
	DefaultWindowHeight = 400
)

// File is the on-disk configuration.
type File struct {
	Items              []string      `yaml:"items,omitempty"`
	TimeInterval       time.Duration `yaml:"time_interval,omitempty"`
	AutoCache          *bool         `yaml:"auto_cache,omitempty"`
	IndicatorPosition  string        `yaml:"indicator_position,omitempty"`
	TransitionMode     string        `yaml:"transition_mode,omitempty"`
	TransitionDuration time.Duration `yaml:"transition_duration,omitempty"`
	Window             WindowConfig  `yaml:"window"`
	AssetsDir          string        `yaml:"assets_dir,omitempty"`
	MaxConcurrentLoads int           `yaml:"max_concurrent_loads,omitempty"`
}

// WindowConfig is the viewer window size.
type WindowConfig struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	// Path is the configuration file, which may not exist.
	Path          string
	Items         []string
	Carousel      carousel.Config
	WindowWidth   int
	WindowHeight  int
	AssetsDir     string
	MaxConcurrent int
}

// LoadOptional reads the file at path if present. A missing file yields an
// empty configuration.
func LoadOptional(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return Parse(data)
}

// Parse decodes configuration data.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &f, nil
}

// Resolve loads the file at path (if present) and resolves defaults. Items
// given on the command line replace the configured ones.
func Resolve(path string, items []string) (*Resolved, error) {
	f, err := LoadOptional(path)
	if err != nil {
		return nil, err
	}
	return f.Resolve(path, items)
}

// Resolve resolves defaults for a file loaded from path.
func (f *File) Resolve(path string, items []string) (*Resolved, error) {
	cfg := carousel.DefaultConfig()
	if f.TimeInterval < 0 || f.TransitionDuration < 0 {
		return nil, fmt.Errorf("durations must not be negative")
	}
	if f.TimeInterval > 0 {
		cfg.TimeInterval = f.TimeInterval
	}
	if f.TransitionDuration > 0 {
		cfg.TransitionDuration = f.TransitionDuration
	}
	if f.AutoCache != nil {
		cfg.AutoCache = *f.AutoCache
	}
	pos, err := carousel.ParseIndicatorPosition(f.IndicatorPosition)
	if err != nil {
		return nil, err
	}
	cfg.IndicatorPosition = pos
	mode, err := carousel.ParseTransitionMode(f.TransitionMode)
	if err != nil {
		return nil, err
	}
	cfg.TransitionMode = mode

	if len(items) == 0 {
		items = f.Items
	}
	var cleaned []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}

	dir := filepath.Dir(path)
	assets := strings.TrimSpace(f.AssetsDir)
	switch {
	case assets == "":
		assets = dir
	case !filepath.IsAbs(assets):
		assets = filepath.Join(dir, assets)
	}

	r := &Resolved{
		Path:          path,
		Items:         cleaned,
		Carousel:      cfg,
		WindowWidth:   f.Window.Width,
		WindowHeight:  f.Window.Height,
		AssetsDir:     assets,
		MaxConcurrent: f.MaxConcurrentLoads,
	}
	if r.WindowWidth <= 0 {
		r.WindowWidth = DefaultWindowWidth
	}
	if r.WindowHeight <= 0 {
		r.WindowHeight = DefaultWindowHeight
	}
	if r.MaxConcurrent <= 0 {
		r.MaxConcurrent = imageload.DefaultMaxConcurrent
	}
	return r, nil
}

// Bounds returns the carousel bounds for the configured window.
func (r *Resolved) Bounds() carousel.Rect {
	return carousel.Rect{Width: float64(r.WindowWidth), Height: float64(r.WindowHeight)}
}

// ItemValues returns the items as carousel item values.
func (r *Resolved) ItemValues() []any {
	values := make([]any, len(r.Items))
	for i, item := range r.Items {
		values[i] = item
	}
	return values
}
