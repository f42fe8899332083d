package carousel

import "github.com/go-drift/carousel/pkg/imagesource"

// buffers is the dual-buffer display controller. It owns both buffers and
// the resting content offset; the state machine only asks it to bind,
// reveal and swap.
type buffers struct {
	viewport Viewport
	bufs     [2]Buffer
	visible  int

	width  float64
	height float64
	single bool
}

func newBuffers(viewport Viewport) *buffers {
	b := &buffers{viewport: viewport}
	for id := range b.bufs {
		b.bufs[id] = Buffer{Index: -1}
	}
	b.bufs[0].Visible = true
	b.bufs[0].Alpha = 1
	return b
}

func (b *buffers) pending() int { return 1 - b.visible }

// Visible returns the visible buffer.
func (b *buffers) Visible() Buffer { return b.bufs[b.visible] }

// Pending returns the buffer not currently at rest.
func (b *buffers) Pending() Buffer { return b.bufs[b.pending()] }

// Rest returns the content offset that centers the visible buffer.
func (b *buffers) Rest() float64 {
	if b.single {
		return 0
	}
	return b.width
}

// Layout sizes the content region for the given page size. A single-item
// layout is exactly one page wide with no look-ahead regions.
func (b *buffers) Layout(width, height float64, single bool) {
	b.width, b.height, b.single = width, height, single
	pages := 3.0
	if single {
		pages = 1
	}
	b.viewport.SetContentSize(width*pages, height)
	for id := range b.bufs {
		b.bufs[id].Width = width
	}
	b.ResetToRest()
}

// BindVisible binds the visible buffer to index and shows img.
func (b *buffers) BindVisible(index int, img *imagesource.Bitmap) {
	b.bind(b.visible, index, img)
}

// BindNext binds the pending buffer to index and shows img. A nil img
// clears the buffer.
func (b *buffers) BindNext(index int, img *imagesource.Bitmap) {
	b.bind(b.pending(), index, img)
}

// ReserveVisible binds the visible buffer to index without touching its
// image, for a load that completes later.
func (b *buffers) ReserveVisible(index int) { b.reserve(b.visible, index) }

// ReserveNext binds the pending buffer to index without touching its image.
func (b *buffers) ReserveNext(index int) { b.reserve(b.pending(), index) }

func (b *buffers) reserve(id, index int) {
	b.bufs[id].Index = index
	b.push(id)
}

func (b *buffers) bind(id, index int, img *imagesource.Bitmap) {
	b.bufs[id].Index = index
	b.bufs[id].Image = img
	b.push(id)
}

// ApplyLoaded shows img in every buffer still bound to index and reports
// whether any was.
func (b *buffers) ApplyLoaded(index int, img *imagesource.Bitmap) bool {
	applied := false
	for id := range b.bufs {
		if b.bufs[id].Index != index {
			continue
		}
		b.bufs[id].Image = img
		b.push(id)
		applied = true
	}
	return applied
}

// RepositionForDirection places the pending buffer next to the visible one:
// to the right for Forward, to the left for Backward.
func (b *buffers) RepositionForDirection(dir Direction) {
	id := b.pending()
	switch dir {
	case Forward:
		b.bufs[id].X = b.Rest() + b.width
	case Backward:
		b.bufs[id].X = b.Rest() - b.width
	default:
		return
	}
	b.bufs[id].Alpha = 1
	b.bufs[id].Visible = true
	b.push(id)
}

// PrepareFade stacks the transparent pending buffer over the visible one.
func (b *buffers) PrepareFade() {
	id := b.pending()
	b.bufs[id].X = b.Rest()
	b.bufs[id].Alpha = 0
	b.bufs[id].Visible = true
	b.push(id)
}

// SetFade sets cross-fade progress t in [0, 1].
func (b *buffers) SetFade(t float64) {
	b.bufs[b.visible].Alpha = 1 - t
	b.bufs[b.pending()].Alpha = t
	b.push(b.visible)
	b.push(b.pending())
}

// SwapVisible makes the pending buffer the visible one.
func (b *buffers) SwapVisible() {
	b.visible = b.pending()
}

// ResetToRest centers the visible buffer, hides the pending one and scrolls
// the content back to the resting offset.
func (b *buffers) ResetToRest() {
	v := &b.bufs[b.visible]
	v.X = b.Rest()
	v.Alpha = 1
	v.Visible = true

	p := &b.bufs[b.pending()]
	p.Alpha = 0
	p.Visible = false

	b.viewport.SetContentOffset(b.Rest())
	b.push(b.visible)
	b.push(b.pending())
}

func (b *buffers) push(id int) {
	b.viewport.UpdateBuffer(id, b.bufs[id])
}
