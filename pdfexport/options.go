package pdfexport

import (
	"github.com/lvillar/deckforge/logger"
	"github.com/lvillar/deckforge/metrics"
	"github.com/lvillar/deckforge/raster"
	"github.com/lvillar/deckforge/render"
)

// Option configures an Exporter.
type Option func(*Exporter)

// WithSettler replaces the default DelaySettler.
func WithSettler(s Settler) Option {
	return func(e *Exporter) {
		if s != nil {
			e.settler = s
		}
	}
}

// WithImageLoader sets the loader used for page images. Without one every
// image is captured as unavailable.
func WithImageLoader(l render.ImageLoader) Option {
	return func(e *Exporter) { e.loader = l }
}

// WithImageResolver sets how image references become URLs.
func WithImageResolver(r render.ImageResolver) Option {
	return func(e *Exporter) { e.resolve = r }
}

// WithCaptureScale sets the raster oversampling factor.
func WithCaptureScale(scale float64) Option {
	return func(e *Exporter) {
		if scale > 0 {
			e.scale = scale
		}
	}
}

// WithJPEGQuality sets the quality of the embedded page images.
func WithJPEGQuality(q int) Option {
	return func(e *Exporter) {
		if q >= 1 && q <= 100 {
			e.quality = q
		}
	}
}

// WithBaselineRatio overrides the top-to-baseline ratio of the text layer.
func WithBaselineRatio(r float64) Option {
	return func(e *Exporter) {
		if r > 0 && r < 1 {
			e.baseline = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMetrics records exports on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Exporter) { e.metrics = m }
}

// WithProgress registers an observer called on every state change of
// Export. Sessions started with Start report to their own Progress as well.
func WithProgress(fn func(Progress)) Option {
	return func(e *Exporter) { e.onProgress = fn }
}

// WithCreator sets the PDF creator field.
func WithCreator(creator string) Option {
	return func(e *Exporter) { e.creator = creator }
}

func defaults(e *Exporter) {
	e.settler = DelaySettler{Delay: DefaultSettleDelay}
	e.resolve = render.DirectURL
	e.scale = raster.DefaultScale
	e.quality = raster.DefaultJPEGQuality
	e.baseline = render.BaselineRatio
	e.log = logger.NewNop()
	e.creator = "deckforge"
}
