package assets

import (
	"context"
	"image"
)

// Source fetches raw image bytes.
type Source interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Loader combines a Source with a byte cache. It satisfies the render
// package's ImageLoader and serves embeddable bytes to the deck exporter.
type Loader struct {
	src       Source
	cache     *Cache
	onFailure func(ref string, err error)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCache sets the byte cache. Without one nothing is cached.
func WithCache(c *Cache) LoaderOption {
	return func(l *Loader) { l.cache = c }
}

// OnFailure registers a callback for failed loads, e.g. for metrics.
func OnFailure(fn func(ref string, err error)) LoaderOption {
	return func(l *Loader) { l.onFailure = fn }
}

// NewLoader returns a loader reading from src.
func NewLoader(src Source, opts ...LoaderOption) *Loader {
	l := &Loader{src: src}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Bytes returns the raw bytes behind ref, from the cache when possible.
func (l *Loader) Bytes(ctx context.Context, ref string) ([]byte, error) {
	if l.cache != nil {
		if data, ok := l.cache.Get(ref); ok {
			return data, nil
		}
	}
	data, err := l.src.Fetch(ctx, ref)
	if err != nil {
		l.fail(ref, err)
		return nil, err
	}
	if l.cache != nil {
		l.cache.Put(ref, data)
	}
	return data, nil
}

// Load fetches and decodes ref.
func (l *Loader) Load(ctx context.Context, ref string) (image.Image, error) {
	data, err := l.Bytes(ctx, ref)
	if err != nil {
		return nil, err
	}
	img, _, err := Decode(data)
	if err != nil {
		l.fail(ref, err)
		return nil, err
	}
	return img, nil
}

// Embeddable fetches ref and returns it as PNG or JPEG bytes.
func (l *Loader) Embeddable(ctx context.Context, ref string) (*Embeddable, error) {
	data, err := l.Bytes(ctx, ref)
	if err != nil {
		return nil, err
	}
	e, err := MakeEmbeddable(data)
	if err != nil {
		l.fail(ref, err)
		return nil, err
	}
	return e, nil
}

func (l *Loader) fail(ref string, err error) {
	if l.onFailure != nil {
		l.onFailure(ref, err)
	}
}
