package ai

import (
	"context"
	"time"

	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/logger"
	"github.com/lvillar/deckforge/metrics"
)

// Instrument wraps g so every call is counted in m and logged. provider
// labels the metrics.
func Instrument(g Generator, provider string, m *metrics.Metrics, log logger.Logger) Generator {
	if log == nil {
		log = logger.NewNop()
	}
	return &instrumented{g: g, provider: provider, m: m, log: log}
}

type instrumented struct {
	g        Generator
	provider string
	m        *metrics.Metrics
	log      logger.Logger
}

func (i *instrumented) done(op string, start time.Time, err error) {
	i.m.Generation(i.provider, op, err)
	fields := []logger.Field{
		logger.String("provider", i.provider),
		logger.String("op", op),
		logger.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		i.log.Warn("generation failed", append(fields, logger.Err(err))...)
		return
	}
	i.log.Info("generation finished", fields...)
}

func (i *instrumented) GenerateDocument(ctx context.Context, rawText string, style document.StyleConfig) (doc *document.Document, err error) {
	defer func(start time.Time) { i.done(OpGenerate, start, err) }(time.Now())
	return i.g.GenerateDocument(ctx, rawText, style)
}

func (i *instrumented) ChunkText(ctx context.Context, rawText string) (chunks []Chunk, err error) {
	defer func(start time.Time) { i.done(OpChunk, start, err) }(time.Now())
	return i.g.ChunkText(ctx, rawText)
}

func (i *instrumented) GeneratePageForChunk(ctx context.Context, chunk Chunk, tag document.Tag, style document.StyleConfig) (page document.Page, err error) {
	defer func(start time.Time) { i.done(OpPage, start, err) }(time.Now())
	return i.g.GeneratePageForChunk(ctx, chunk, tag, style)
}

func (i *instrumented) RegeneratePage(ctx context.Context, page document.Page, style document.StyleConfig) (next document.Page, err error) {
	defer func(start time.Time) { i.done(OpRegenerate, start, err) }(time.Now())
	return i.g.RegeneratePage(ctx, page, style)
}

func (i *instrumented) Ping(ctx context.Context) (err error) {
	defer func(start time.Time) { i.done(OpPing, start, err) }(time.Now())
	return Ping(ctx, i.g)
}
