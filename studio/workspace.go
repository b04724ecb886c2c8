// Package studio is one editing session: the working document, the
// collaborator that writes it and the store that persists it.
package studio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lvillar/deckforge/ai"
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/logger"
	"github.com/lvillar/deckforge/metrics"
	"github.com/lvillar/deckforge/store"
)

// ErrNoDocument is returned by operations that need a document before one
// has been generated or imported.
var ErrNoDocument = errors.New("studio: no document")

// Workspace owns a document.Store and keeps it persisted. Generator calls
// run outside the store lock; their results are applied by page index.
type Workspace struct {
	docs    *document.Store
	persist *store.Store
	log     logger.Logger
	metrics *metrics.Metrics

	mu    sync.RWMutex
	gen   ai.Generator
	cfg   ai.Config
	style document.StyleConfig
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithStore persists every change to s.
func WithStore(s *store.Store) Option {
	return func(w *Workspace) { w.persist = s }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Workspace) { w.log = l }
}

// WithMetrics counts the calls of generators set by Configure.
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Workspace) { w.metrics = m }
}

// WithStyle sets the initial style.
func WithStyle(s document.StyleConfig) Option {
	return func(w *Workspace) { w.style = s.Normalize() }
}

// WithDocument seeds the workspace.
func WithDocument(doc *document.Document) Option {
	return func(w *Workspace) { w.docs.Replace(doc) }
}

// New returns a workspace generating with gen.
func New(gen ai.Generator, opts ...Option) *Workspace {
	w := &Workspace{
		docs:  document.NewStore(nil),
		log:   logger.NewNop(),
		gen:   gen,
		style: document.DefaultStyle,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.docs.OnChange(w.save)
	return w
}

func (w *Workspace) save(doc *document.Document) {
	if w.persist == nil {
		return
	}
	if err := w.persist.SaveDocument(context.Background(), doc); err != nil {
		w.log.Error("saving document failed", logger.Err(err))
	}
}

// Restore loads the persisted document and provider configuration. Missing
// values are not an error. The returned config has no API key.
func (w *Workspace) Restore(ctx context.Context) (ai.Config, error) {
	if w.persist == nil {
		return ai.Config{}, nil
	}
	doc, err := w.persist.LoadDocument(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return ai.Config{}, fmt.Errorf("studio: restoring document: %w", err)
	default:
		w.docs.Replace(doc)
		w.log.Info("document restored", logger.Int("pages", len(doc.Pages)))
	}

	cfg, err := w.persist.LoadAIConfig(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return ai.Config{}, fmt.Errorf("studio: restoring provider: %w", err)
	}
	return cfg, nil
}

// Document returns a snapshot of the working document, or nil.
func (w *Workspace) Document() *document.Document {
	return w.docs.Snapshot()
}

// Docs exposes the underlying store for typed edits.
func (w *Workspace) Docs() *document.Store {
	return w.docs
}

// Style returns the current style.
func (w *Workspace) Style() document.StyleConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.style
}

// SetStyle changes the style used by later generations and exports.
func (w *Workspace) SetStyle(s document.StyleConfig) {
	w.mu.Lock()
	w.style = s.Normalize()
	w.mu.Unlock()
}

// Generator returns the current collaborator.
func (w *Workspace) Generator() ai.Generator {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.gen
}

// Configure switches to the provider cfg names and persists cfg without
// its API key.
func (w *Workspace) Configure(ctx context.Context, cfg ai.Config, opts ...ai.Option) error {
	gen, err := ai.New(cfg, append([]ai.Option{ai.WithLogger(w.log)}, opts...)...)
	if err != nil {
		return err
	}
	gen = ai.Instrument(gen, cfg.Provider, w.metrics, w.log)
	if w.persist != nil {
		if err := w.persist.SaveAIConfig(ctx, cfg); err != nil {
			return err
		}
	}
	w.mu.Lock()
	w.gen, w.cfg = gen, cfg
	w.mu.Unlock()
	w.log.Info("provider configured", logger.String("provider", cfg.Provider), logger.String("model", cfg.Model))
	return nil
}

// Provider returns the active provider configuration without its key.
func (w *Workspace) Provider() ai.Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	cfg := w.cfg
	cfg.APIKey = ""
	return cfg
}

// Generate replaces the working document with one generated from rawText.
func (w *Workspace) Generate(ctx context.Context, rawText string) (*document.Document, error) {
	doc, err := w.Generator().GenerateDocument(ctx, rawText, w.Style())
	if err != nil {
		return nil, err
	}
	doc.Renumber()
	w.docs.Replace(doc)
	w.log.Info("document generated", logger.String("title", doc.Title()), logger.Int("pages", len(doc.Pages)))
	return w.docs.Snapshot(), nil
}

// Chunk splits rawText into sections without touching the document.
func (w *Workspace) Chunk(ctx context.Context, rawText string) ([]ai.Chunk, error) {
	return w.Generator().ChunkText(ctx, rawText)
}

// AddPage generates a page of template tag from chunk and appends it.
func (w *Workspace) AddPage(ctx context.Context, chunk ai.Chunk, tag document.Tag) (document.Page, error) {
	page, err := w.Generator().GeneratePageForChunk(ctx, chunk, tag, w.Style())
	if err != nil {
		return document.Page{}, err
	}
	doc := w.docs.Snapshot()
	if doc == nil {
		if err := w.docs.SetMetadata(document.Metadata{GeneratedTitle: chunk.Title}); err != nil {
			return document.Page{}, err
		}
		doc = &document.Document{}
	}
	pages := append(doc.Pages, page)
	if err := w.docs.SetPages(pages); err != nil {
		return document.Page{}, err
	}
	return w.docs.Page(len(pages))
}

// RegeneratePage asks the collaborator for a new layout of the page at
// index and replaces only that page.
func (w *Workspace) RegeneratePage(ctx context.Context, index int) (document.Page, error) {
	page, err := w.docs.Page(index)
	if err != nil {
		return document.Page{}, err
	}
	next, err := w.Generator().RegeneratePage(ctx, page, w.Style())
	if err != nil {
		return document.Page{}, err
	}
	next.Locked = page.Locked
	if err := w.docs.ReplacePage(index, next); err != nil {
		return document.Page{}, err
	}
	return w.docs.Page(index)
}

// RemixResult reports a bulk regeneration.
type RemixResult struct {
	Regenerated []int
	Skipped     []int // locked pages
	Failed      map[int]error
}

// Remix regenerates every unlocked page in order. A failing page keeps its
// previous layout; the other pages are still regenerated.
func (w *Workspace) Remix(ctx context.Context) (RemixResult, error) {
	doc := w.docs.Snapshot()
	if doc == nil || len(doc.Pages) == 0 {
		return RemixResult{}, ErrNoDocument
	}
	res := RemixResult{Failed: make(map[int]error)}
	var errs []error
	for _, p := range doc.Pages {
		if p.Locked {
			res.Skipped = append(res.Skipped, p.Index)
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := w.RegeneratePage(ctx, p.Index); err != nil {
			res.Failed[p.Index] = err
			errs = append(errs, fmt.Errorf("page %d: %w", p.Index, err))
			continue
		}
		res.Regenerated = append(res.Regenerated, p.Index)
	}
	w.log.Info("remix finished",
		logger.Int("regenerated", len(res.Regenerated)),
		logger.Int("skipped", len(res.Skipped)),
		logger.Int("failed", len(res.Failed)))
	return res, errors.Join(errs...)
}

// Import replaces the working document with JSON in either the current or
// the legacy shape.
func (w *Workspace) Import(data []byte) (*document.Document, error) {
	var (
		doc *document.Document
		err error
	)
	if document.IsLegacy(data) {
		doc, err = document.ParseLegacy(data)
	} else {
		doc, err = document.Parse(data)
	}
	if err != nil {
		return nil, err
	}
	w.docs.Replace(doc)
	return w.docs.Snapshot(), nil
}

// Reset discards the working document.
func (w *Workspace) Reset() {
	w.docs.Replace(nil)
}
