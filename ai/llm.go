package ai

import (
	"context"
	"errors"
	"time"

	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/logger"
)

// completer sends one system and user prompt pair to a model and returns
// the text of its reply. Errors are *Error values without Op.
type completer interface {
	name() string
	complete(ctx context.Context, system, user string, temperature float64) (string, error)
	ping(ctx context.Context) error
}

// llm implements Generator on top of a completer.
type llm struct {
	c   completer
	log logger.Logger
}

func newLLM(c completer, log logger.Logger) *llm {
	return &llm{c: c, log: log.With(logger.String("provider", c.name()))}
}

func (g *llm) GenerateDocument(ctx context.Context, rawText string, style document.StyleConfig) (*document.Document, error) {
	reply, err := g.call(ctx, OpGenerate, systemPrompt(style), documentPrompt(rawText), tempGenerate)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(reply)
	if err != nil {
		return nil, g.malformed(OpGenerate, err)
	}
	return doc, nil
}

func (g *llm) ChunkText(ctx context.Context, rawText string) ([]Chunk, error) {
	reply, err := g.call(ctx, OpChunk, "Answer only with JSON.", chunkPrompt(rawText), tempChunk)
	if err != nil {
		return nil, err
	}
	chunks, err := parseChunks(reply)
	if err != nil {
		return nil, g.malformed(OpChunk, err)
	}
	return chunks, nil
}

func (g *llm) GeneratePageForChunk(ctx context.Context, chunk Chunk, tag document.Tag, style document.StyleConfig) (document.Page, error) {
	reply, err := g.call(ctx, OpPage, systemPrompt(style), pagePrompt(chunk, tag), tempPage)
	if err != nil {
		return document.Page{}, err
	}
	page, err := parsePage(reply, tag)
	if err != nil {
		return document.Page{}, g.malformed(OpPage, err)
	}
	return page, nil
}

func (g *llm) RegeneratePage(ctx context.Context, page document.Page, style document.StyleConfig) (document.Page, error) {
	user, err := regeneratePrompt(page)
	if err != nil {
		return document.Page{}, &Error{Provider: g.c.name(), Op: OpRegenerate, Kind: KindMalformed, Err: err}
	}
	reply, err := g.call(ctx, OpRegenerate, regenerateSystemPrompt(style, page.Template), user, tempRegenerate)
	if err != nil {
		return document.Page{}, err
	}
	next, err := parsePage(reply, page.Template)
	if err != nil {
		return document.Page{}, g.malformed(OpRegenerate, err)
	}
	next.Index = page.Index
	next.Locked = page.Locked
	return next, nil
}

func (g *llm) Ping(ctx context.Context) error {
	if err := g.c.ping(ctx); err != nil {
		return withOp(err, g.c.name(), OpPing)
	}
	return nil
}

func (g *llm) call(ctx context.Context, op, system, user string, temperature float64) (string, error) {
	start := time.Now()
	reply, err := g.c.complete(ctx, system, user, temperature)
	if err != nil {
		err = withOp(err, g.c.name(), op)
		g.log.Warn("model call failed", logger.String("op", op), logger.Err(err))
		return "", err
	}
	g.log.Debug("model replied",
		logger.String("op", op),
		logger.Int("chars", len(reply)),
		logger.Duration("elapsed", time.Since(start)))
	return reply, nil
}

func (g *llm) malformed(op string, err error) error {
	g.log.Warn("unusable model reply", logger.String("op", op), logger.Err(err))
	return &Error{Provider: g.c.name(), Op: op, Kind: KindMalformed, Err: err}
}

// withOp stamps provider and op on err, classifying plain errors as
// connectivity failures.
func withOp(err error, provider, op string) error {
	var e *Error
	if errors.As(err, &e) {
		out := *e
		out.Op = op
		if out.Provider == "" {
			out.Provider = provider
		}
		return &out
	}
	return &Error{Provider: provider, Op: op, Kind: KindConnectivity, Err: err}
}
