package imagesource

import (
	"image"
	"net/url"
	"testing"
	"time"
)

func solid(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestResolve(t *testing.T) {
	bmp := Static(solid(4, 4))
	u, _ := url.Parse("https://example.com/a.png")

	tests := []struct {
		name string
		in   any
		kind Kind
		key  string
	}{
		{"bitmap", bmp, KindBitmap, ""},
		{"image", solid(2, 2), KindBitmap, ""},
		{"http", "http://x/y.gif", KindRemote, "http://x/y.gif"},
		{"https upper", "HTTPS://x/y.gif", KindRemote, "HTTPS://x/y.gif"},
		{"www", "www.example.com/a.jpg", KindRemote, "http://www.example.com/a.jpg"},
		{"asset", "a.png", KindAsset, "a.png"},
		{"asset named like scheme", "httpd-logo", KindAsset, "httpd-logo"},
		{"asset with http prefix", "http_banner.png", KindAsset, "http_banner.png"},
		{"url pointer", u, KindRemote, "https://example.com/a.png"},
		{"url value", *u, KindRemote, "https://example.com/a.png"},
		{"file url", &url.URL{Scheme: "file", Path: "/tmp/a.png"}, KindInvalid, ""},
		{"empty string", "  ", KindInvalid, ""},
		{"nil", nil, KindInvalid, ""},
		{"int", 42, KindInvalid, ""},
		{"nil bitmap", (*Bitmap)(nil), KindInvalid, ""},
		{"typed nil rgba", (*image.RGBA)(nil), KindInvalid, ""},
		{"typed nil paletted", (*image.Paletted)(nil), KindInvalid, ""},
		{"empty bitmap", &Bitmap{}, KindInvalid, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := Resolve(tt.in)
			if src.Kind != tt.kind {
				t.Fatalf("Resolve(%v).Kind = %v, want %v", tt.in, src.Kind, tt.kind)
			}
			if got := src.Key(); got != tt.key {
				t.Errorf("Key() = %q, want %q", got, tt.key)
			}
		})
	}
}

func TestResolve_InvalidRecordsType(t *testing.T) {
	if got := Resolve(3.5).Type; got != "float64" {
		t.Errorf("Type = %q, want float64", got)
	}
	if got := Resolve((*image.RGBA)(nil)).Type; got != "*image.RGBA" {
		t.Errorf("Type = %q, want *image.RGBA", got)
	}
}

func TestAnimated_SumsDelays(t *testing.T) {
	frames := []image.Image{solid(1, 1), solid(1, 1), solid(1, 1)}
	b := Animated(frames, []time.Duration{200 * time.Millisecond, 300 * time.Millisecond, 0})
	if b.Duration != 500*time.Millisecond {
		t.Errorf("Duration = %v, want 500ms", b.Duration)
	}
	if !b.IsAnimated() {
		t.Error("expected animated bitmap")
	}
}

func TestAnimated_ZeroDelaysFallBack(t *testing.T) {
	frames := []image.Image{solid(1, 1), solid(1, 1), solid(1, 1), solid(1, 1)}
	b := Animated(frames, []time.Duration{0, 0, 0, 0})
	if b.Duration != 400*time.Millisecond {
		t.Errorf("Duration = %v, want 400ms", b.Duration)
	}
	if b = Animated(frames, nil); b.Duration != 400*time.Millisecond {
		t.Errorf("Duration without delays = %v, want 400ms", b.Duration)
	}
}

func TestAnimated_SingleFrameIsStatic(t *testing.T) {
	b := Animated([]image.Image{solid(3, 2)}, []time.Duration{time.Second})
	if b.IsAnimated() || b.Duration != 0 {
		t.Errorf("single frame should be static, got %+v", b)
	}
	if b.Bounds().Dx() != 3 {
		t.Errorf("Bounds = %v", b.Bounds())
	}
}

func TestFrameAt_Loops(t *testing.T) {
	frames := []image.Image{solid(1, 1), solid(2, 2), solid(3, 3), solid(4, 4)}
	b := Animated(frames, nil) // 400ms, 100ms per frame

	tests := []struct {
		at   time.Duration
		want int
	}{
		{0, 0},
		{99 * time.Millisecond, 0},
		{100 * time.Millisecond, 1},
		{350 * time.Millisecond, 3},
		{400 * time.Millisecond, 0},
		{1450 * time.Millisecond, 2},
	}
	for _, tt := range tests {
		got := b.FrameAt(tt.at)
		if got != frames[tt.want] {
			t.Errorf("FrameAt(%v) returned frame of width %d, want frame %d", tt.at, got.Bounds().Dx(), tt.want)
		}
	}
}

func TestFrameAt_NilAndStatic(t *testing.T) {
	var b *Bitmap
	if b.FrameAt(time.Second) != nil {
		t.Error("nil bitmap should return nil frame")
	}
	img := solid(1, 1)
	if Static(img).FrameAt(time.Hour) != img {
		t.Error("static bitmap should always return its frame")
	}
	if Static(nil) != nil {
		t.Error("Static(nil) should be nil")
	}
}
