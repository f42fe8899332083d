package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-drift/carousel/pkg/imageload"
	"github.com/go-drift/carousel/pkg/imagesource"
)

func init() {
	RegisterCommand(&Command{
		Name:  "inspect",
		Short: "Show format and frame timing of an image",
		Long: `Decode an image file or URL and print its format, size, frame count,
per-frame delays and animation loop duration.`,
		Usage: "carousel inspect <file|url>",
		Run:   runInspect,
	})
}

func runInspect(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("exactly one file or URL is required\n\nUsage: carousel inspect <file|url>")
	}
	data, err := readSource(context.Background(), args[0])
	if err != nil {
		return err
	}
	return inspect(os.Stdout, args[0], data)
}

// readSource reads a URL through the HTTP fetcher and anything else from
// the file system.
func readSource(ctx context.Context, name string) ([]byte, error) {
	src := imagesource.Resolve(name)
	if src.Kind == imagesource.KindRemote {
		return imageload.DefaultHTTPFetcher().Fetch(ctx, src.URL)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

func inspect(w io.Writer, name string, data []byte) error {
	var dec imageload.FrameDecoder
	format, size, frames, err := dec.Inspect(data)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	bmp, err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}

	fmt.Fprintf(w, "Source:   %s\n", name)
	fmt.Fprintf(w, "Format:   %s\n", format)
	fmt.Fprintf(w, "Size:     %dx%d\n", size.X, size.Y)
	fmt.Fprintf(w, "Frames:   %d\n", len(frames))
	if bmp.IsAnimated() {
		fmt.Fprintf(w, "Duration: %s\n", bmp.Duration)
		for i, f := range frames {
			fmt.Fprintf(w, "  frame %d: %s\n", i, f.Delay)
		}
	}
	return nil
}
