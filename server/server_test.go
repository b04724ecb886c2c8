package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/deckforge/ai"
	"github.com/lvillar/deckforge/assets"
	"github.com/lvillar/deckforge/config"
	"github.com/lvillar/deckforge/deckexport"
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/metrics"
	"github.com/lvillar/deckforge/pdfexport"
	"github.com/lvillar/deckforge/server"
	"github.com/lvillar/deckforge/studio"
	"github.com/lvillar/deckforge/templates"
)

const notes = "# Plan\n\nShip the deck on Friday."

type grayLoader struct{}

func (grayLoader) Load(context.Context, string) (image.Image, error) {
	img := image.NewGray(image.Rect(0, 0, 16, 9))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	return img, nil
}

type fixture struct {
	ws      *studio.Workspace
	handler http.Handler
}

func newFixture(t *testing.T, deckOpts ...deckexport.Option) *fixture {
	t.Helper()
	reg := templates.MustDefault()
	m := metrics.New(nil)
	pdf := pdfexport.New(reg,
		pdfexport.WithSettler(pdfexport.DelaySettler{}),
		pdfexport.WithCaptureScale(0.5),
		pdfexport.WithImageLoader(grayLoader{}),
		pdfexport.WithMetrics(m))
	deck := deckexport.New(reg, deckOpts...)
	ws := studio.New(ai.Offline{})
	srv := server.New(config.Server{ArtifactTTL: time.Minute}, ws, pdf, deck, server.WithMetrics(m))
	return &fixture{ws: ws, handler: srv.Handler()}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (f *fixture) generate(t *testing.T) *document.Document {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/generate", map[string]string{"text": notes})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[*document.Document](t, rec)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","provider":"","pages":0}`, rec.Body.String())
}

func TestGenerateAndReadDocument(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/document", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	doc := f.generate(t)
	require.Len(t, doc.Pages, 3)
	assert.Equal(t, document.TagCover, doc.Pages[0].Template)

	rec = f.do(t, http.MethodGet, "/api/v1/document", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, doc, decode[*document.Document](t, rec))

	rec = f.do(t, http.MethodPost, "/api/v1/generate", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateFromUpload(t *testing.T) {
	f := newFixture(t)

	upload := func(name, content string) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		return rec
	}

	rec := upload("notes.md", notes)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Plan", decode[*document.Document](t, rec).Title())

	rec = upload("slides.pdf", "%PDF-1.4")
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestPatchPage(t *testing.T) {
	f := newFixture(t)
	f.generate(t)

	rec := f.do(t, http.MethodPatch, "/api/v1/pages/2", map[string]any{
		"template": "stat_highlight",
		"locked":   true,
		"content":  map[string]string{"bigNumber": "42%"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decode[document.Page](t, rec)
	assert.Equal(t, document.TagStatHighlight, page.Template)
	assert.True(t, page.Locked)
	assert.Equal(t, 2, page.Index)

	rec = f.do(t, http.MethodPatch, "/api/v1/pages/2", map[string]any{"moveTo": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page = decode[document.Page](t, rec)
	assert.Equal(t, 1, page.Index)
	assert.Equal(t, document.TagStatHighlight, f.ws.Document().Pages[0].Template)

	rec = f.do(t, http.MethodPatch, "/api/v1/pages/1", map[string]any{"template": "carousel"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(t, http.MethodPatch, "/api/v1/pages/9", map[string]any{"locked": false})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodPatch, "/api/v1/pages/two", map[string]any{"locked": false})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/pages/3", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 2, f.ws.Docs().Len())
}

func TestRegenerateAndRemix(t *testing.T) {
	f := newFixture(t)
	before := f.generate(t)

	rec := f.do(t, http.MethodPost, "/api/v1/pages/2/regenerate", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decode[document.Page](t, rec)
	assert.Equal(t, 2, page.Index)
	assert.Equal(t, before.Pages[0], f.ws.Document().Pages[0])

	require.NoError(t, f.ws.Docs().SetLocked(1, true))
	rec = f.do(t, http.MethodPost, "/api/v1/remix", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"regenerated":[2,3],"skipped":[1]}`, rec.Body.String())
}

func TestRemixWithoutDocument(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/v1/remix", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPutLegacyDocument(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPut, "/api/v1/document",
		`{"metadados":{"titulo_gerado":"Velho"},"paginas":[{"layout_type":"capa_principal","conteudo":{"titulo":"Velho"}}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Velho", f.ws.Document().Title())

	rec = f.do(t, http.MethodPut, "/api/v1/document", `{"pages":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/document", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, f.ws.Document())
}

type exportView struct {
	ID        string `json:"id"`
	Format    string `json:"format"`
	Profile   string `json:"profile"`
	Status    string `json:"status"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Error     string `json:"error"`
}

func (f *fixture) export(t *testing.T, format string) exportView {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/exports", map[string]string{"format": format})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	started := decode[exportView](t, rec)
	assert.Equal(t, "/api/v1/exports/"+started.ID, rec.Header().Get("Location"))

	var last exportView
	require.Eventually(t, func() bool {
		rec := f.do(t, http.MethodGet, "/api/v1/exports/"+started.ID, nil)
		if rec.Code != http.StatusOK {
			return false
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &last); err != nil {
			return false
		}
		return last.Status != "running"
	}, 30*time.Second, 20*time.Millisecond)
	return last
}

func TestExportPDF(t *testing.T) {
	f := newFixture(t)
	f.generate(t)

	job := f.export(t, "pdf")
	require.Equal(t, "done", job.Status, job.Error)
	assert.Equal(t, "a4", job.Profile)
	assert.Equal(t, 3, job.Completed)
	assert.Equal(t, 3, job.Total)

	rec := f.do(t, http.MethodGet, "/api/v1/exports/"+job.ID+"/artifact", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Plan.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	body := f.do(t, http.MethodGet, "/metrics", nil).Body.String()
	assert.Contains(t, body, `deckforge_export_total{format="pdf",outcome="done"} 1`)
	assert.Contains(t, body, `deckforge_http_requests_total{method="POST",route="/api/v1/exports",status="202"} 1`)
}

func TestExportPPTX(t *testing.T) {
	f := newFixture(t)
	f.generate(t)

	job := f.export(t, "pptx")
	require.Equal(t, "done", job.Status, job.Error)
	assert.Equal(t, 3, job.Completed)

	rec := f.do(t, http.MethodGet, "/api/v1/exports/"+job.ID+"/artifact", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="Plan.pptx"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = f.do(t, http.MethodGet, "/api/v1/exports", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Exports []exportView `json:"exports"`
	}](t, rec)
	require.Len(t, list.Exports, 1)
	assert.Equal(t, job.ID, list.Exports[0].ID)

	rec = f.do(t, http.MethodDelete, "/api/v1/exports/"+job.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodGet, "/api/v1/exports/"+job.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodDelete, "/api/v1/exports/"+job.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// heldImages blocks every image fetch until release is closed.
type heldImages struct{ release chan struct{} }

func (h heldImages) Embeddable(ctx context.Context, _ string) (*assets.Embeddable, error) {
	select {
	case <-h.release:
	case <-ctx.Done():
	}
	return nil, errors.New("image withheld")
}

func TestExportPPTXReportsSlideProgress(t *testing.T) {
	images := heldImages{release: make(chan struct{})}
	f := newFixture(t, deckexport.WithImages(images))
	rec := f.do(t, http.MethodPut, "/api/v1/document", `{"pages":[
		{"index":1,"template":"cover","content":{"title":"Plain"}},
		{"index":2,"template":"cover","content":{"title":"Pictured","image":{"url":"https://img.test/a.png"}}}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/v1/exports", map[string]string{"format": "pptx"})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	id := decode[exportView](t, rec).ID

	poll := func() exportView {
		return decode[exportView](t, f.do(t, http.MethodGet, "/api/v1/exports/"+id, nil))
	}
	require.Eventually(t, func() bool { return poll().Completed == 1 }, 10*time.Second, 10*time.Millisecond)
	mid := poll()
	assert.Equal(t, "running", mid.Status)
	assert.Equal(t, 2, mid.Total)

	close(images.release)
	require.Eventually(t, func() bool { return poll().Status != "running" }, 10*time.Second, 10*time.Millisecond)
	end := poll()
	assert.Equal(t, "done", end.Status, end.Error)
	assert.Equal(t, 2, end.Completed)
}

func TestExportRejectsBadRequests(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/exports", map[string]string{"format": "pdf"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	f.generate(t)
	rec = f.do(t, http.MethodPost, "/api/v1/exports", map[string]string{"format": "docx"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/v1/exports", map[string]string{"format": "pdf", "profile": "letter"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProviderKeyIsNeverEchoed(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPut, "/api/v1/provider", map[string]string{"provider": "anthropic"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `"config"`, mustField(t, rec, "kind"))

	rec = f.do(t, http.MethodPut, "/api/v1/provider", map[string]string{"provider": "anthropic", "apiKey": "sk-test"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "sk-test")
	assert.Equal(t, ai.ProviderAnthropic, f.ws.Provider().Provider)
}

func mustField(t *testing.T, rec *httptest.ResponseRecorder, key string) string {
	t.Helper()
	m := decode[map[string]json.RawMessage](t, rec)
	return string(m[key])
}

func TestTemplatesAndProfiles(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tpl := decode[struct {
		Templates []struct {
			Tag string `json:"tag"`
		} `json:"templates"`
	}](t, rec)
	assert.Len(t, tpl.Templates, len(document.AllTags()))

	rec = f.do(t, http.MethodGet, "/api/v1/profiles", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"16:9"`)
	assert.Contains(t, rec.Body.String(), "landscape-wide")
}
