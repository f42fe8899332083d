package imageload

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/go-drift/carousel/pkg/imagesource"
)

// DefaultAssetCacheSize is the number of decoded assets FSAssets keeps.
const DefaultAssetCacheSize = 64

// ErrAssetNotFound is returned when no file matches an asset name.
var ErrAssetNotFound = errors.New("imageload: asset not found")

// Assets resolves named local images.
type Assets interface {
	Asset(name string) (*imagesource.Bitmap, error)
}

// FSAssets loads named assets from a file system, decoding each at most
// once while it stays in the cache.
//
// A name without an extension also matches name+".png".
type FSAssets struct {
	fsys    fs.FS
	decoder Decoder
	cache   *lru.Cache[string, *imagesource.Bitmap]
}

// NewFSAssets creates an asset store over fsys. A nil decoder uses
// FrameDecoder{}; a non-positive size uses DefaultAssetCacheSize.
func NewFSAssets(fsys fs.FS, decoder Decoder, size int) (*FSAssets, error) {
	if fsys == nil {
		return nil, errors.New("imageload: nil asset file system")
	}
	if decoder == nil {
		decoder = FrameDecoder{}
	}
	if size <= 0 {
		size = DefaultAssetCacheSize
	}
	cache, err := lru.New[string, *imagesource.Bitmap](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset cache: %w", err)
	}
	return &FSAssets{fsys: fsys, decoder: decoder, cache: cache}, nil
}

// Asset returns the decoded bitmap for name.
func (a *FSAssets) Asset(name string) (*imagesource.Bitmap, error) {
	if bmp, ok := a.cache.Get(name); ok {
		return bmp, nil
	}

	data, err := a.read(name)
	if err != nil {
		return nil, err
	}
	bmp, err := a.decoder.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode asset %s: %w", name, err)
	}
	a.cache.Add(name, bmp)
	return bmp, nil
}

// Len returns the number of cached assets.
func (a *FSAssets) Len() int { return a.cache.Len() }

func (a *FSAssets) read(name string) ([]byte, error) {
	for _, candidate := range assetCandidates(name) {
		data, err := fs.ReadFile(a.fsys, candidate)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read asset %s: %w", candidate, err)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, name)
}

func assetCandidates(name string) []string {
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if clean == "" || !fs.ValidPath(clean) {
		return nil
	}
	if path.Ext(clean) != "" {
		return []string{clean}
	}
	return []string{clean, clean + ".png"}
}
