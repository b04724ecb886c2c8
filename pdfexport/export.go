// Package pdfexport turns a document into a paginated PDF.
//
// Every page is shown on one off-screen render target, allowed to settle,
// captured to a bitmap and scanned for text. The bitmap becomes a full-bleed
// JPEG on its own PDF page and the text is laid over it with zero opacity,
// so the page prints exactly as rendered and its text stays selectable.
//
// Pages are processed strictly in order and nothing is written until every
// page has been committed: a failure on any page aborts the whole export.
package pdfexport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/lvillar/deckforge"
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/logger"
	"github.com/lvillar/deckforge/metrics"
	"github.com/lvillar/deckforge/raster"
	"github.com/lvillar/deckforge/render"
	"github.com/lvillar/deckforge/textlayer"
)

// Exporter produces PDFs. It holds configuration only and may run several
// exports concurrently; each export gets its own render target.
type Exporter struct {
	layouts    render.Layouts
	settler    Settler
	loader     render.ImageLoader
	resolve    render.ImageResolver
	scale      float64
	quality    int
	baseline   float64
	log        logger.Logger
	metrics    *metrics.Metrics
	onProgress func(Progress)
	creator    string
}

// New returns an exporter laying pages out with layouts.
func New(layouts render.Layouts, opts ...Option) *Exporter {
	e := &Exporter{layouts: layouts}
	defaults(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export renders doc with style at profile and writes the PDF to w. On
// error nothing has been written to w.
func (e *Exporter) Export(ctx context.Context, w io.Writer, doc *document.Document, style document.StyleConfig, profile geom.Profile) error {
	data, err := e.render(ctx, doc, style, profile, e.onProgress)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return deckforge.NewExportError("write", 0, err)
	}
	return nil
}

// Bytes is Export into memory.
func (e *Exporter) Bytes(ctx context.Context, doc *document.Document, style document.StyleConfig, profile geom.Profile) ([]byte, error) {
	return e.render(ctx, doc, style, profile, e.onProgress)
}

// job is the state of one export.
type job struct {
	e        *Exporter
	profile  geom.Profile
	target   *render.Target
	pdf      *gofpdf.Fpdf
	placer   textlayer.Placer
	progress Progress
	report   func(Progress)
	log      logger.Logger
}

func (j *job) enter(s State, page int) {
	if !CanTransition(j.progress.State, s) {
		panic(fmt.Sprintf("pdfexport: illegal transition %s -> %s", j.progress.State, s))
	}
	j.progress.State = s
	j.progress.Page = page
	if j.report != nil {
		j.report(j.progress)
	}
}

func (e *Exporter) render(ctx context.Context, doc *document.Document, style document.StyleConfig, profile geom.Profile, report func(Progress)) (out []byte, err error) {
	start := time.Now()
	e.metrics.ExportStarted(metrics.FormatPDF)

	j := &job{e: e, report: report, log: e.log}
	defer func() {
		outcome := metrics.OutcomeDone
		if err != nil {
			outcome = metrics.OutcomeFailed
			if errors.Is(err, deckforge.ErrExportAborted) {
				outcome = metrics.OutcomeAborted
			}
			j.progress.State = Failed
			if report != nil {
				report(j.progress)
			}
			j.log.Warn("PDF export failed", logger.Err(err), logger.Int("page", j.progress.Page))
		}
		e.metrics.ExportFinished(metrics.FormatPDF, outcome, start)
	}()

	if err := doc.Validate(); err != nil {
		return nil, deckforge.NewExportError("validate", 0, err)
	}
	if len(doc.Pages) == 0 {
		return nil, deckforge.NewExportError("validate", 0, fmt.Errorf("%w: no pages", deckforge.ErrInvalidDocument))
	}
	p := profile.In(geom.UnitPoint)
	if !(p.Width > 0) || !(p.Height > 0) || !(p.RenderWidth > 0) {
		return nil, deckforge.NewExportError("profile", 0, fmt.Errorf("%w: %s", deckforge.ErrInvalidProfile, profile))
	}

	j.profile = p
	j.progress.Total = len(doc.Pages)
	j.log = e.log.With(logger.String("profile", p.Name), logger.Int("pages", len(doc.Pages)))
	j.target = render.NewTarget(p, e.layouts,
		render.WithImageLoader(e.loader),
		render.WithImageResolver(e.resolve),
		render.WithTheme(render.ThemeFor(style)),
	)
	defer j.target.Close()
	j.pdf = newPDF(p, doc.Title(), e.creator)

	j.log.Info("PDF export started")
	for _, page := range doc.Pages {
		if err := j.page(ctx, page); err != nil {
			return nil, err
		}
		e.metrics.PageCommitted(metrics.FormatPDF)
	}

	j.enter(Finalizing, 0)
	var buf bytes.Buffer
	if err := j.pdf.Output(&buf); err != nil {
		return nil, deckforge.NewExportError("finalize", 0, err)
	}
	j.enter(Done, 0)
	j.log.Info("PDF export finished",
		logger.Int("bytes", buf.Len()),
		logger.Int("text_skipped", j.placer.Skipped),
		logger.Duration("elapsed", time.Since(start)))
	return buf.Bytes(), nil
}

// page runs one page from Rendering to Committed.
func (j *job) page(ctx context.Context, page document.Page) error {
	idx := page.Index
	if err := aborted(ctx); err != nil {
		return deckforge.NewExportError("render", idx, err)
	}

	j.enter(Rendering, idx)
	if err := j.target.Show(ctx, page); err != nil {
		return deckforge.NewExportError("render", idx, err)
	}
	if err := j.e.settler.Settle(ctx, j.target); err != nil {
		return deckforge.NewExportError("settle", idx, abortErr(err))
	}

	j.enter(Capturing, idx)
	if err := aborted(ctx); err != nil {
		return deckforge.NewExportError("capture", idx, err)
	}
	img, err := raster.Capture(j.target.Surface(), raster.Options{Scale: j.e.scale})
	if err != nil {
		return deckforge.NewExportError("capture", idx, err)
	}
	jpg, err := raster.EncodeJPEG(img, j.e.quality)
	if err != nil {
		return deckforge.NewExportError("capture", idx, err)
	}

	j.enter(ExtractingText, idx)
	surface := j.target.Surface()
	if surface == nil {
		return deckforge.NewExportError("extract", idx, deckforge.ErrCaptureTargetNotFound)
	}
	ins := textlayer.Extract(surface, j.profile, textlayer.WithBaselineRatio(j.e.baseline))

	if err := j.composite(idx, jpg, ins); err != nil {
		return deckforge.NewExportError("composite", idx, err)
	}
	j.progress.Completed++
	j.enter(Committed, idx)
	j.log.Debug("page committed", logger.Int("page", idx), logger.Int("text_runs", len(ins)))
	return nil
}

// composite adds one PDF page holding the capture and its text layer.
func (j *job) composite(idx int, jpg []byte, ins []textlayer.Instruction) error {
	name := fmt.Sprintf("page-%d", idx)
	opt := gofpdf.ImageOptions{ImageType: "JPG"}
	j.pdf.AddPage()
	j.pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(jpg))
	j.pdf.ImageOptions(name, 0, 0, j.profile.Width, j.profile.Height, false, opt, 0, "")
	if err := j.pdf.Error(); err != nil {
		return err
	}
	if skipped := j.placer.PlaceAll(j.pdf, ins); skipped > 0 {
		j.e.metrics.TextSkipped(skipped)
		j.log.Debug("text runs skipped", logger.Int("page", idx), logger.Int("skipped", skipped))
	}
	return j.pdf.Error()
}

// newPDF returns an empty document whose pages match p exactly.
func newPDF(p geom.Profile, title, creator string) *gofpdf.Fpdf {
	cfg := &gofpdf.InitType{UnitStr: "pt", OrientationStr: "P", Size: gofpdf.SizeType{Wd: p.Width, Ht: p.Height}}
	if p.Orientation == geom.Landscape {
		// gofpdf swaps the page size for landscape.
		cfg.OrientationStr = "L"
		cfg.Size = gofpdf.SizeType{Wd: p.Height, Ht: p.Width}
	}
	pdf := gofpdf.NewCustom(cfg)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator(creator, true)
	return pdf
}

// aborted reports ctx's end as an abort.
func aborted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return abortErr(err)
	}
	return nil
}

func abortErr(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", deckforge.ErrExportAborted, err)
	}
	return err
}
