package ai_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/deckforge/ai"
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/metrics"
)

const generatedDoc = `{"metadata":{"generatedTitle":"Cloud 101"},"pages":[` +
	`{"index":1,"template":"cover","content":{"title":"Cloud 101"}},` +
	`{"index":2,"template":"timeline","content":{"title":"Migrate","steps":[{"title":"Assess"}]}}]}`

// messagesServer fakes the Messages API, answering every request with text.
func messagesServer(t *testing.T, status int, text string, seen func(body map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		if seen != nil {
			var body map[string]any
			data, _ := io.ReadAll(r.Body)
			assert.NoError(t, json.Unmarshal(data, &body))
			seen(body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = io.WriteString(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
			return
		}
		reply, _ := json.Marshal(text)
		_, _ = io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-5",`+
			`"content":[{"type":"text","text":`+string(reply)+`}],"stop_reason":"end_turn",`+
			`"usage":{"input_tokens":10,"output_tokens":20}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnthropicGenerateDocument(t *testing.T) {
	t.Parallel()

	var body map[string]any
	srv := messagesServer(t, http.StatusOK, "Here it is:\n```json\n"+generatedDoc+"\n```", func(b map[string]any) { body = b })
	g, err := ai.New(ai.Config{Provider: ai.ProviderAnthropic, APIKey: "test-key", BaseURL: srv.URL}, ai.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	doc, err := g.GenerateDocument(context.Background(), "Cloud computing basics", document.DefaultStyle)
	require.NoError(t, err)
	assert.Equal(t, "Cloud 101", doc.Title())
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, document.TagTimeline, doc.Pages[1].Template)

	assert.Equal(t, ai.DefaultAnthropicModel, body["model"])
	assert.InDelta(t, 0.4, body["temperature"], 1e-9)
	system, _ := json.Marshal(body["system"])
	assert.Contains(t, string(system), "circle-check")
}

func TestAnthropicRegenerateKeepsIndex(t *testing.T) {
	t.Parallel()

	srv := messagesServer(t, http.StatusOK, `{"template":"full_image_quote","content":{"quote":"Less is more"}}`, nil)
	g, err := ai.New(ai.Config{Provider: ai.ProviderAnthropic, APIKey: "test-key", BaseURL: srv.URL}, ai.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	page := document.Page{Index: 4, Template: document.TagTextImageSplit, Locked: true, Content: document.Content{Title: "Less"}}
	next, err := g.RegeneratePage(context.Background(), page, document.DefaultStyle)
	require.NoError(t, err)
	assert.Equal(t, 4, next.Index)
	assert.True(t, next.Locked)
	assert.Equal(t, document.TagFullImageQuote, next.Template)
}

func TestAnthropicErrorsAreClassified(t *testing.T) {
	t.Parallel()

	srv := messagesServer(t, http.StatusUnauthorized, "", nil)
	g, err := ai.New(ai.Config{Provider: ai.ProviderAnthropic, APIKey: "test-key", BaseURL: srv.URL}, ai.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	_, err = g.ChunkText(context.Background(), "text")
	var aiErr *ai.Error
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, ai.KindConfig, aiErr.Kind)
	assert.Equal(t, ai.OpChunk, aiErr.Op)
	assert.Contains(t, err.Error(), "not configured correctly")

	junk := messagesServer(t, http.StatusOK, "I cannot help with that.", nil)
	g, err = ai.New(ai.Config{Provider: ai.ProviderAnthropic, APIKey: "test-key", BaseURL: junk.URL}, ai.WithHTTPClient(junk.Client()))
	require.NoError(t, err)
	_, err = g.GenerateDocument(context.Background(), "text", document.DefaultStyle)
	assert.True(t, ai.IsKind(err, ai.KindMalformed), "err = %v", err)
}

func TestNewRejectsBadConfig(t *testing.T) {
	t.Parallel()

	_, err := ai.New(ai.Config{Provider: ai.ProviderAnthropic})
	assert.True(t, ai.IsKind(err, ai.KindConfig))
	_, err = ai.New(ai.Config{Provider: "gemini"})
	assert.True(t, ai.IsKind(err, ai.KindConfig))

	g, err := ai.New(ai.Config{})
	require.NoError(t, err)
	assert.IsType(t, ai.Offline{}, g)
}

func TestOllamaChunkAndPage(t *testing.T) {
	t.Parallel()

	var requests []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			requests = append(requests, body)
			content := `{"sections":[{"title":"Intro","summary":"s","content":"c"}]}`
			if len(requests) > 1 {
				content = `{"paginas":[{"layout_type":"grid_informativo","conteudo":{"titulo":"Grid"}}]}`
			}
			reply, _ := json.Marshal(map[string]any{"message": map[string]string{"role": "assistant", "content": content}})
			_, _ = w.Write(reply)
		case "/api/tags":
			_, _ = io.WriteString(w, `{"models":[]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	g, err := ai.New(ai.Config{Provider: ai.ProviderLocal, BaseURL: srv.URL, Model: "llama3.2"}, ai.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	require.NoError(t, ai.Ping(context.Background(), g))

	chunks, err := g.ChunkText(context.Background(), "raw")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	page, err := g.GeneratePageForChunk(context.Background(), chunks[0], document.TagInfoGrid, document.DefaultStyle)
	require.NoError(t, err)
	assert.Equal(t, document.TagInfoGrid, page.Template)
	assert.Equal(t, "Grid", page.Content.Title)

	require.Len(t, requests, 2)
	assert.Equal(t, false, requests[0]["stream"])
	assert.Equal(t, "json", requests[0]["format"])
	opts, _ := requests[1]["options"].(map[string]any)
	assert.InDelta(t, 0.5, opts["temperature"], 1e-9)
}

func TestLocalUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	g, err := ai.New(ai.Config{Provider: ai.ProviderLocal, BaseURL: srv.URL}, ai.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	_, err = g.GenerateDocument(context.Background(), "text", document.DefaultStyle)
	require.True(t, ai.IsKind(err, ai.KindConnectivity), "err = %v", err)
	assert.Contains(t, err.Error(), "model not loaded")
	assert.Error(t, ai.Ping(context.Background(), g))
}

func TestInstrumentRecordsOutcome(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	g := ai.Instrument(ai.Offline{}, ai.ProviderOffline, m, nil)

	_, err := g.GenerateDocument(context.Background(), "Some text to lay out.", document.DefaultStyle)
	require.NoError(t, err)
	_, err = g.ChunkText(context.Background(), "   ")
	require.Error(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(m.GenerationsTotal.WithLabelValues(ai.ProviderOffline, ai.OpGenerate, "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.GenerationsTotal.WithLabelValues(ai.ProviderOffline, ai.OpChunk, "error")), 0)
	assert.NoError(t, ai.Ping(context.Background(), g))
}

func TestErrorMessagesAreReadable(t *testing.T) {
	t.Parallel()

	err := &ai.Error{Provider: "local", Op: ai.OpGenerate, Kind: ai.KindConnectivity, Err: errors.New("connection refused")}
	assert.True(t, strings.HasPrefix(err.Error(), "could not reach the local model"))
	assert.ErrorContains(t, err, "connection refused")
}
