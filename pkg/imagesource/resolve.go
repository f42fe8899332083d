package imagesource

import (
	"fmt"
	"image"
	"net/url"
	"strings"
)

// Kind classifies a carousel item.
type Kind int

const (
	// KindInvalid is an item that cannot be displayed.
	KindInvalid Kind = iota
	// KindBitmap is an item that is already decoded.
	KindBitmap
	// KindAsset is a named local asset.
	KindAsset
	// KindRemote is a URL fetched over the network.
	KindRemote
)

// String returns a human-readable representation of the source kind.
func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindBitmap:
		return "bitmap"
	case KindAsset:
		return "asset"
	case KindRemote:
		return "remote"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Source is a loadable descriptor produced by [Resolve].
type Source struct {
	Kind Kind
	// Bitmap is set for KindBitmap.
	Bitmap *Bitmap
	// Name is the asset name for KindAsset.
	Name string
	// URL is the absolute URL for KindRemote.
	URL string
	// Type is the Go type of an invalid item, for diagnostics.
	Type string
}

// Key identifies the source for logging and de-duplication.
func (s Source) Key() string {
	switch s.Kind {
	case KindAsset:
		return s.Name
	case KindRemote:
		return s.URL
	default:
		return ""
	}
}

// Resolve classifies an item value.
//
// Accepted values are *Bitmap, image.Image, string, *url.URL and url.URL.
// Strings starting with "http://", "https://" or "www." are remote; a bare
// "www." host is given an http scheme. Other non-empty strings are asset
// names. Everything else, including nil, typed nil images and empty
// strings, is invalid.
func Resolve(v any) Source {
	switch item := v.(type) {
	case *Bitmap:
		if item == nil || len(item.Frames) == 0 {
			return invalid(v)
		}
		return Source{Kind: KindBitmap, Bitmap: item}
	case image.Image:
		if item == nil || !hasBounds(item) {
			return invalid(v)
		}
		return Source{Kind: KindBitmap, Bitmap: Static(item)}
	case string:
		return resolveString(item)
	case *url.URL:
		if item == nil {
			return invalid(v)
		}
		return resolveURL(item)
	case url.URL:
		return resolveURL(&item)
	default:
		return invalid(v)
	}
}

func resolveString(s string) Source {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Source{Kind: KindInvalid, Type: "string"}
	case hasPrefixFold(s, "http://"), hasPrefixFold(s, "https://"):
		return Source{Kind: KindRemote, URL: s}
	case hasPrefixFold(s, "www."):
		return Source{Kind: KindRemote, URL: "http://" + s}
	default:
		return Source{Kind: KindAsset, Name: s}
	}
}

func resolveURL(u *url.URL) Source {
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return Source{Kind: KindInvalid, Type: "*url.URL"}
		}
		return Source{Kind: KindRemote, URL: u.String()}
	default:
		return Source{Kind: KindInvalid, Type: "*url.URL"}
	}
}

// hasBounds reports whether img can report its bounds. Typed nil pointers
// such as (*image.RGBA)(nil) panic there.
func hasBounds(img image.Image) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	img.Bounds()
	return true
}

func invalid(v any) Source {
	return Source{Kind: KindInvalid, Type: fmt.Sprintf("%T", v)}
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
