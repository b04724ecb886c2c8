package render

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/lvillar/deckforge"
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
)

// ImageLoader fetches and decodes an image.
type ImageLoader interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

// TargetOption configures a Target.
type TargetOption func(*Target)

// WithImageLoader sets the loader used for page images. Without one every
// image is reported as failed and painted as unavailable.
func WithImageLoader(l ImageLoader) TargetOption {
	return func(t *Target) { t.loader = l }
}

// WithImageResolver sets how image references become URLs.
func WithImageResolver(r ImageResolver) TargetOption {
	return func(t *Target) { t.resolve = r }
}

// WithTheme sets the deck theme.
func WithTheme(th Theme) TargetOption {
	return func(t *Target) { t.theme = th }
}

// WithFonts shares a face cache with the target.
func WithFonts(f *Fonts) TargetOption {
	return func(t *Target) { t.fonts = f }
}

type imageEntry struct {
	state LoadState
	img   image.Image
	err   error
	ready chan struct{}
}

// Target is an off-screen render target sized by an output profile. An
// export shows one page at a time on it; showing a page starts loading its
// images in the background and Loaded reports when they have all finished.
//
// A Target serves one export; Show must not be called concurrently.
type Target struct {
	profile geom.Profile
	layouts Layouts
	theme   Theme
	loader  ImageLoader
	resolve ImageResolver
	fonts   *Fonts
	ownFont bool

	mu       sync.Mutex
	cache    map[string]*imageEntry
	surface  *Surface
	attached bool
	loaded   chan struct{}
}

// NewTarget returns a detached target for profile.
func NewTarget(profile geom.Profile, layouts Layouts, opts ...TargetOption) *Target {
	t := &Target{
		profile: profile,
		layouts: layouts,
		theme:   ThemeFor(document.DefaultStyle),
		resolve: DirectURL,
		cache:   make(map[string]*imageEntry),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.fonts == nil {
		t.fonts = NewFonts()
		t.ownFont = true
	}
	return t
}

// Profile returns the target's output profile.
func (t *Target) Profile() geom.Profile {
	return t.profile
}

// Show lays out page on the target and starts loading its images with ctx.
// Tags without a layout render as a placeholder naming the tag.
func (t *Target) Show(ctx context.Context, page document.Page) (err error) {
	layout := Placeholder
	if t.layouts != nil {
		if l, ok := t.layouts.Layout(page.Template); ok {
			layout = l
		}
	}

	b := NewBuilder(t.profile.RenderWidth, t.profile.RenderHeight(), t.theme, t.fonts, t.resolve)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render: laying out page %d (%s): %v", page.Index, page.Template, r)
		}
	}()
	root := layout(b, page)

	surface := &Surface{Width: b.Width, Height: b.Height, Root: root, Images: t}

	t.mu.Lock()
	t.surface = surface
	t.attached = true
	entries := make([]*imageEntry, 0)
	for _, url := range surface.URLs() {
		e, ok := t.cache[url]
		if !ok {
			e = &imageEntry{state: LoadPending, ready: make(chan struct{})}
			t.cache[url] = e
			go t.load(ctx, url, e)
		}
		entries = append(entries, e)
	}
	loaded := make(chan struct{})
	t.loaded = loaded
	t.mu.Unlock()

	go func() {
		defer close(loaded)
		for _, e := range entries {
			select {
			case <-e.ready:
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func (t *Target) load(ctx context.Context, url string, e *imageEntry) {
	var (
		img image.Image
		err error
	)
	if t.loader == nil {
		err = deckforge.ErrImageUnavailable
	} else {
		img, err = t.loader.Load(ctx, url)
	}

	t.mu.Lock()
	if err != nil || img == nil {
		if err == nil {
			err = deckforge.ErrImageUnavailable
		}
		e.state, e.err = LoadFailed, err
	} else {
		e.state, e.img = LoadDone, img
	}
	t.mu.Unlock()
	close(e.ready)
}

// Image implements ImageSource.
func (t *Target) Image(url string) (image.Image, LoadState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.cache[url]
	if !ok {
		return nil, LoadFailed
	}
	return e.img, e.state
}

// ImageError returns the load error of url, if any.
func (t *Target) ImageError(url string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.cache[url]; ok {
		return e.err
	}
	return nil
}

// Loaded returns a channel closed once every image of the current page has
// finished loading, successfully or not. Before the first Show it returns a
// closed channel.
func (t *Target) Loaded() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loaded == nil {
		c := make(chan struct{})
		close(c)
		return c
	}
	return t.loaded
}

// Surface returns the currently shown surface, or nil when nothing is
// shown or the target was detached.
func (t *Target) Surface() *Surface {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.attached {
		return nil
	}
	return t.surface
}

// Detach removes the current surface from the target.
func (t *Target) Detach() {
	t.mu.Lock()
	t.attached = false
	t.surface = nil
	t.mu.Unlock()
}

// Close detaches the target and releases cached images, and faces unless
// they were supplied with WithFonts.
func (t *Target) Close() error {
	t.Detach()
	t.mu.Lock()
	t.cache = make(map[string]*imageEntry)
	t.mu.Unlock()
	if t.ownFont {
		return t.fonts.Close()
	}
	return nil
}
