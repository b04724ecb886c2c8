package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/deckforge/document"
)

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"Here you go:\n```\n[1,2]\n```\nEnjoy", `[1,2]`},
		{`Sure! {"pages": []} Hope it helps.`, `{"pages": []}`},
		{`  {"plain": true}  `, `{"plain": true}`},
		{`sections: [{"title":"x"}] done`, `[{"title":"x"}]`},
		{"no json at all", "no json at all"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, extractJSON(c.in), c.in)
	}
}

func TestParseDocumentShapes(t *testing.T) {
	t.Parallel()

	doc, err := parseDocument("```json\n" + `{"metadata":{"generatedTitle":"Cloud"},"pages":[{"template":"cover","content":{"title":"Cloud"}}]}` + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "Cloud", doc.Title())
	assert.Equal(t, 1, doc.Pages[0].Index)

	legacy, err := parseDocument(`{"metadados":{"titulo_gerado":"Nuvem"},"paginas":[{"pagina_numero":7,"layout_type":"capa_principal","conteudo":{"titulo":"Nuvem"}}]}`)
	require.NoError(t, err)
	assert.Equal(t, document.TagCover, legacy.Pages[0].Template)
	assert.Equal(t, 1, legacy.Pages[0].Index)

	_, err = parseDocument(`{"pages":[]}`)
	assert.Error(t, err)
	_, err = parseDocument(`not json`)
	assert.Error(t, err)
}

func TestParsePageShapes(t *testing.T) {
	t.Parallel()

	p, err := parsePage(`{"template":"timeline","content":{"title":"Steps","steps":[{"title":"A"}]}}`, document.TagCover)
	require.NoError(t, err)
	assert.Equal(t, document.TagTimeline, p.Template)
	assert.Len(t, p.Content.Steps, 1)

	p, err = parsePage(`{"content":{"title":"Only content"}}`, document.TagInfoGrid)
	require.NoError(t, err)
	assert.Equal(t, document.TagInfoGrid, p.Template)

	p, err = parsePage(`{"layout_type":"destaque_numero","conteudo":{"numero_grande":"42%"}}`, document.TagCover)
	require.NoError(t, err)
	assert.Equal(t, document.TagStatHighlight, p.Template)
	assert.Equal(t, "42%", p.Content.BigNumber)

	p, err = parsePage(`{"conteudo":{"titulo":"Legacy content only"}}`, document.TagTextImageSplit)
	require.NoError(t, err)
	assert.Equal(t, document.TagTextImageSplit, p.Template)
	assert.Equal(t, "Legacy content only", p.Content.Title)

	p, err = parsePage(`{"title":"Bare","body":"Text"}`, document.TagTextImageSplit)
	require.NoError(t, err)
	assert.Equal(t, "Bare", p.Content.Title)
	assert.Equal(t, "Text", p.Content.Body)

	p, err = parsePage(`{"pages":[{"template":"faq_section","content":{"title":"Q"}}]}`, document.TagCover)
	require.NoError(t, err)
	assert.Equal(t, document.TagFAQSection, p.Template)

	_, err = parsePage(`[1,2,3]`, document.TagCover)
	assert.Error(t, err)
}

func TestParseChunksShapes(t *testing.T) {
	t.Parallel()

	for _, reply := range []string{
		`[{"title":"A","summary":"s","content":"c"}]`,
		`{"sections":[{"title":"A","summary":"s","content":"c"}]}`,
		`{"chunks":[{"title":"A","summary":"s","content":"c"}]}`,
	} {
		chunks, err := parseChunks(reply)
		require.NoError(t, err, reply)
		require.Len(t, chunks, 1)
		assert.Equal(t, Chunk{Title: "A", Summary: "s", Content: "c"}, chunks[0])
	}
	_, err := parseChunks(`{"other":[]}`)
	assert.Error(t, err)
}

func TestLMStudioRequestShape(t *testing.T) {
	t.Parallel()

	var got lmStudioRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`)
	}))
	t.Cleanup(srv.Close)

	l := &localCompleter{baseURL: srv.URL, model: "qwen", lmStudio: true, httpClient: srv.Client()}
	reply, err := l.complete(context.Background(), "sys", "user", tempRegenerate)
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)
	assert.Equal(t, "qwen", got.Model)
	assert.Equal(t, -1, got.MaxTokens)
	assert.InDelta(t, 0.8, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Contains(t, got.Messages[0].Content, "RETURN ONLY VALID JSON")
}

func TestLocalDetectsLMStudioByPort(t *testing.T) {
	t.Parallel()

	assert.True(t, newLocal(Config{BaseURL: "http://localhost:1234/"}, options{}).lmStudio)
	assert.False(t, newLocal(Config{BaseURL: "http://localhost:11434"}, options{}).lmStudio)
	assert.Equal(t, DefaultLocalModel, newLocal(Config{}, options{}).model)
}
