package studio_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/deckforge/ai"
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/store"
	"github.com/lvillar/deckforge/studio"
)

// flipper regenerates pages as stat highlights naming their old index and
// fails for pages listed in fail.
type flipper struct {
	ai.Offline
	fail  map[int]bool
	calls []int
}

func (f *flipper) RegeneratePage(ctx context.Context, page document.Page, style document.StyleConfig) (document.Page, error) {
	f.calls = append(f.calls, page.Index)
	if f.fail[page.Index] {
		return document.Page{}, &ai.Error{Provider: "fake", Op: ai.OpRegenerate, Kind: ai.KindConnectivity, Err: errors.New("offline")}
	}
	return document.Page{
		Index:    99,
		Template: document.TagStatHighlight,
		Content:  document.Content{BigNumber: fmt.Sprintf("#%d", page.Index)},
	}, nil
}

func fivePages() *document.Document {
	doc := &document.Document{Metadata: document.Metadata{GeneratedTitle: "Five"}}
	for i := 1; i <= 5; i++ {
		doc.Pages = append(doc.Pages, document.Page{
			Index:    i,
			Template: document.TagTextImageSplit,
			Content:  document.Content{Title: fmt.Sprintf("Page %d", i)},
		})
	}
	return doc
}

func TestRegeneratePageTouchesOnlyThatPage(t *testing.T) {
	t.Parallel()

	gen := &flipper{}
	w := studio.New(gen, studio.WithDocument(fivePages()))
	before := w.Document()

	page, err := w.RegeneratePage(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Index)
	assert.Equal(t, document.TagStatHighlight, page.Template)

	after := w.Document()
	require.Len(t, after.Pages, 5)
	for i, p := range after.Pages {
		assert.Equal(t, i+1, p.Index)
		if p.Index == 3 {
			continue
		}
		assert.Equal(t, before.Pages[i], p, "page %d changed", p.Index)
	}
}

func TestRemixSkipsLockedAndContinuesOnFailure(t *testing.T) {
	t.Parallel()

	gen := &flipper{fail: map[int]bool{4: true}}
	doc := fivePages()
	doc.Pages[1].Locked = true
	w := studio.New(gen, studio.WithDocument(doc))

	res, err := w.Remix(context.Background())
	require.Error(t, err)
	assert.True(t, ai.IsKind(err, ai.KindConnectivity))
	assert.Equal(t, []int{1, 3, 5}, res.Regenerated)
	assert.Equal(t, []int{2}, res.Skipped)
	assert.Contains(t, res.Failed, 4)
	assert.Equal(t, []int{1, 3, 4, 5}, gen.calls)

	after := w.Document()
	assert.Equal(t, document.TagTextImageSplit, after.Pages[1].Template)
	assert.True(t, after.Pages[1].Locked)
	assert.Equal(t, document.TagTextImageSplit, after.Pages[3].Template)
	assert.Equal(t, "#5", after.Pages[4].Content.BigNumber)
}

func TestRemixNeedsDocument(t *testing.T) {
	t.Parallel()

	_, err := studio.New(ai.Offline{}).Remix(context.Background())
	assert.ErrorIs(t, err, studio.ErrNoDocument)
}

func TestChangesArePersistedAndRestored(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "state")
	b, err := store.NewFile(dir)
	require.NoError(t, err)
	s := store.New(b)

	w := studio.New(ai.Offline{}, studio.WithStore(s))
	_, err = w.Generate(context.Background(), "# Plan\n\nShip the deck on Friday.")
	require.NoError(t, err)
	require.NoError(t, w.Docs().SetLocked(2, true))
	require.NoError(t, w.Configure(context.Background(), ai.Config{Provider: ai.ProviderOffline, APIKey: "never-saved"}))

	restored := studio.New(ai.Offline{}, studio.WithStore(s))
	cfg, err := restored.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ai.ProviderOffline, cfg.Provider)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, w.Document(), restored.Document())
	assert.True(t, restored.Document().Pages[1].Locked)

	restored.Reset()
	_, err = s.LoadDocument(context.Background())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddPageAndImport(t *testing.T) {
	t.Parallel()

	w := studio.New(ai.Offline{})
	page, err := w.AddPage(context.Background(), ai.Chunk{Title: "Intro", Content: "Hello there."}, document.TagSectionCover)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Index)
	assert.Equal(t, "Intro", w.Document().Title())

	page, err = w.AddPage(context.Background(), ai.Chunk{Title: "Wrap", Content: "Bye."}, document.TagConclusionCTA)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Index)

	doc, err := w.Import([]byte(`{"metadados":{"titulo_gerado":"Velho"},"paginas":[{"layout_type":"conclusao_cta","conteudo":{"titulo_final":"Fim"}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Velho", doc.Title())
	assert.Equal(t, document.TagConclusionCTA, w.Document().Pages[0].Template)

	_, err = w.Import([]byte(`{`))
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Cloud 101.pdf", studio.FileName(&document.Document{Metadata: document.Metadata{GeneratedTitle: "Cloud 101"}}, "pdf"))
	assert.Equal(t, "AB test.pptx", studio.FileName(&document.Document{Metadata: document.Metadata{GeneratedTitle: "A/B: test?"}}, ".pptx"))
	assert.Equal(t, "ebook.pdf", studio.FileName(nil, "pdf"))
}
