// Package deckexport turns a document into an editable slide deck.
//
// Each page becomes one slide drawn by its template's native renderer with
// text boxes, shapes, tables and embedded images, in document order. A tag
// without a renderer yields a placeholder slide naming it, and an image
// that cannot be fetched is drawn as an "Image unavailable" box; neither
// stops the export.
package deckexport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lvillar/deckforge"
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/logger"
	"github.com/lvillar/deckforge/metrics"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
	"github.com/lvillar/deckforge/templates"
)

// Renderers looks up the native renderer of a tag.
type Renderers interface {
	Native(tag document.Tag) (templates.Native, bool)
}

// Exporter produces PPTX decks.
type Exporter struct {
	renderers  Renderers
	images     templates.ImageFetcher
	resolve    render.ImageResolver
	log        logger.Logger
	metrics    *metrics.Metrics
	onProgress func(done, total int)
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithImages sets the source of embedded image bytes. Without one every
// image is drawn as unavailable.
func WithImages(f templates.ImageFetcher) Option {
	return func(e *Exporter) { e.images = f }
}

// WithImageResolver sets how image references become URLs.
func WithImageResolver(r render.ImageResolver) Option {
	return func(e *Exporter) { e.resolve = r }
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

// WithProgress registers an observer called after every slide.
func WithProgress(fn func(done, total int)) Option {
	return func(e *Exporter) { e.onProgress = fn }
}

// BuildOption adjusts a single Build call.
type BuildOption func(*build)

type build struct {
	onSlide func(done, total int)
}

// OnSlide registers an observer for one build, called after every slide
// alongside the WithProgress observer.
func OnSlide(fn func(done, total int)) BuildOption {
	return func(b *build) { b.onSlide = fn }
}

// New returns an exporter drawing slides with renderers.
func New(renderers Renderers, opts ...Option) *Exporter {
	e := &Exporter{renderers: renderers, resolve: render.DirectURL, log: logger.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result summarizes a finished export.
type Result struct {
	Slides        int
	Media         int
	Placeholders  []document.Tag
	ImageFailures []templates.ImageFailure
}

// Export renders doc with style at profile and writes the PPTX to w. On
// error nothing has been written to w.
func (e *Exporter) Export(ctx context.Context, w io.Writer, doc *document.Document, style document.StyleConfig, profile geom.Profile) error {
	data, _, err := e.Build(ctx, doc, style, profile)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return deckforge.NewExportError("write", 0, err)
	}
	return nil
}

// Build renders the deck into memory and reports what it contains.
func (e *Exporter) Build(ctx context.Context, doc *document.Document, style document.StyleConfig, profile geom.Profile, opts ...BuildOption) (out []byte, res Result, err error) {
	var bo build
	for _, opt := range opts {
		opt(&bo)
	}
	start := time.Now()
	e.metrics.ExportStarted(metrics.FormatPPTX)
	defer func() {
		outcome := metrics.OutcomeDone
		if err != nil {
			outcome = metrics.OutcomeFailed
			if errors.Is(err, deckforge.ErrExportAborted) {
				outcome = metrics.OutcomeAborted
			}
			e.log.Warn("deck export failed", logger.Err(err))
		}
		e.metrics.ExportFinished(metrics.FormatPPTX, outcome, start)
	}()

	if err := doc.Validate(); err != nil {
		return nil, res, deckforge.NewExportError("validate", 0, err)
	}
	if len(doc.Pages) == 0 {
		return nil, res, deckforge.NewExportError("validate", 0, fmt.Errorf("%w: no pages", deckforge.ErrInvalidDocument))
	}
	p := profile.In(geom.UnitInch)
	if !(p.Width > 0) || !(p.Height > 0) {
		return nil, res, deckforge.NewExportError("profile", 0, fmt.Errorf("%w: %s", deckforge.ErrInvalidProfile, profile))
	}

	theme := render.ThemeFor(style)
	deck := pptx.New(p.Width, p.Height)
	deck.Title = doc.Title()
	deck.Author = author(doc)
	deck.Accent = strings.TrimPrefix(theme.Palette.Primary, "#")

	log := e.log.With(logger.String("profile", p.Name), logger.Int("pages", len(doc.Pages)))
	log.Info("deck export started")
	for i, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, res, deckforge.NewExportError("render", page.Index, fmt.Errorf("%w: %w", deckforge.ErrExportAborted, err))
		}
		c := templates.NewCanvas(ctx, deck.AddSlide(), p.Width, p.Height, theme, e.images, e.resolve)
		native, ok := e.renderers.Native(page.Template)
		if !ok {
			native = templates.Placeholder
			res.Placeholders = append(res.Placeholders, page.Template)
			log.Warn("no native renderer, drawing placeholder", logger.Int("page", page.Index), logger.String("template", string(page.Template)))
		}
		if err := draw(native, c, page); err != nil {
			return nil, res, deckforge.NewExportError("render", page.Index, err)
		}
		if f := c.Failures(); len(f) > 0 {
			res.ImageFailures = append(res.ImageFailures, f...)
			e.metrics.ImageFailed(metrics.FormatPPTX, len(f))
			for _, fail := range f {
				log.Warn("image unavailable", logger.Int("page", page.Index), logger.String("url", fail.URL), logger.Err(fail.Err))
			}
		}
		e.metrics.PageCommitted(metrics.FormatPPTX)
		if e.onProgress != nil {
			e.onProgress(i+1, len(doc.Pages))
		}
		if bo.onSlide != nil {
			bo.onSlide(i+1, len(doc.Pages))
		}
	}

	var buf bytes.Buffer
	if err := deck.Write(&buf); err != nil {
		return nil, res, deckforge.NewExportError("finalize", 0, err)
	}
	res.Slides = deck.SlideCount()
	res.Media = deck.MediaCount()
	log.Info("deck export finished",
		logger.Int("bytes", buf.Len()),
		logger.Int("media", res.Media),
		logger.Int("image_failures", len(res.ImageFailures)),
		logger.Duration("elapsed", time.Since(start)))
	return buf.Bytes(), res, nil
}

// draw runs a renderer, turning a panic into an error.
func draw(native templates.Native, c *templates.Canvas, page document.Page) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("deckexport: drawing %s: %v", page.Template, r)
		}
	}()
	native(c, page)
	return nil
}

// author is the first author named on a page.
func author(doc *document.Document) string {
	for _, p := range doc.Pages {
		if a := strings.TrimSpace(p.Content.Author); a != "" {
			return a
		}
	}
	return ""
}
