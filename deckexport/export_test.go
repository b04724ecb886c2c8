package deckexport_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lvillar/deckforge"
	"github.com/lvillar/deckforge/assets"
	"github.com/lvillar/deckforge/deckexport"
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/templates"
)

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 36))); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ok.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func parts(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip package: %v", err)
	}
	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		out[f.Name] = string(b)
	}
	return out
}

func newExporter() *deckexport.Exporter {
	return deckexport.New(templates.MustDefault(), deckexport.WithImages(newLoader()))
}

func newLoader() *assets.Loader {
	return assets.NewLoader(assets.NewFetcher(assets.WithRateLimit(0, 0)), assets.WithCache(assets.NewCache(1<<20)))
}

func TestExportOneSlidePerPageInOrder(t *testing.T) {
	srv := imageServer(t)
	doc := &document.Document{Metadata: document.Metadata{GeneratedTitle: "Roadmap"}}
	for _, tag := range document.AllTags() {
		marker := "Page " + string(tag)
		doc.Pages = append(doc.Pages, document.Page{Template: tag, Content: document.Content{
			Title: marker, SectionTitle: marker, FinalTitle: marker, BigNumber: marker, Quote: marker,
		}})
	}
	doc.Pages[0].Content.Image = document.ImageRef{URL: srv.URL + "/ok.png"}
	doc.Renumber()

	var progress []int
	e := deckexport.New(templates.MustDefault(),
		deckexport.WithImages(newLoader()),
		deckexport.WithProgress(func(done, total int) {
			if total != len(doc.Pages) {
				t.Errorf("total = %d", total)
			}
			progress = append(progress, done)
		}))

	var buf bytes.Buffer
	if err := e.Export(context.Background(), &buf, doc, document.DefaultStyle, geom.MustSlideProfile(geom.FormatWide)); err != nil {
		t.Fatalf("Export: %v", err)
	}
	pkg := parts(t, buf.Bytes())
	for i := range doc.Pages {
		slide, ok := pkg[fmt.Sprintf("ppt/slides/slide%d.xml", i+1)]
		if !ok {
			t.Fatalf("slide %d missing", i+1)
		}
		if want := "Page " + string(doc.Pages[i].Template); !strings.Contains(slide, want) {
			t.Errorf("slide %d does not carry %q", i+1, want)
		}
	}
	if _, ok := pkg[fmt.Sprintf("ppt/slides/slide%d.xml", len(doc.Pages)+1)]; ok {
		t.Error("extra slide")
	}
	if _, ok := pkg["ppt/media/image1.png"]; !ok {
		t.Error("cover image was not embedded")
	}
	if len(progress) != len(doc.Pages) || progress[len(progress)-1] != len(doc.Pages) {
		t.Errorf("progress = %v", progress)
	}
	if !strings.Contains(pkg["docProps/core.xml"], "Roadmap") {
		t.Error("title missing from core properties")
	}
}

func TestBuildReportsEverySlide(t *testing.T) {
	doc := &document.Document{Pages: []document.Page{
		{Index: 1, Template: document.TagCover, Content: document.Content{Title: "One"}},
		{Index: 2, Template: document.TagFullImageQuote, Content: document.Content{Quote: "Two"}},
		{Index: 3, Template: document.TagCover, Content: document.Content{Title: "Three"}},
	}}
	var seen []string
	_, _, err := deckexport.New(templates.MustDefault()).Build(context.Background(), doc, document.DefaultStyle,
		geom.MustSlideProfile(geom.FormatWide), deckexport.OnSlide(func(done, total int) {
			seen = append(seen, fmt.Sprintf("%d/%d", done, total))
		}))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := strings.Join(seen, " "); got != "1/3 2/3 3/3" {
		t.Fatalf("progress = %q", got)
	}
}

func TestUnknownTagBecomesPlaceholder(t *testing.T) {
	doc := &document.Document{Pages: []document.Page{
		{Index: 1, Template: document.TagCover, Content: document.Content{Title: "Hi"}},
		{Index: 2, Template: "hologram"},
	}}
	data, res, err := deckexport.New(templates.MustDefault()).Build(context.Background(), doc, document.DefaultStyle, geom.MustSlideProfile(geom.FormatWide))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Slides != 2 {
		t.Errorf("slides = %d, want 2", res.Slides)
	}
	if len(res.Placeholders) != 1 || res.Placeholders[0] != "hologram" {
		t.Errorf("placeholders = %v", res.Placeholders)
	}
	if !strings.Contains(parts(t, data)["ppt/slides/slide2.xml"], "Unsupported layout: hologram") {
		t.Error("placeholder slide does not name the tag")
	}
}

func TestImageFailureKeepsSlide(t *testing.T) {
	srv := imageServer(t)
	doc := &document.Document{Pages: []document.Page{{
		Index:    1,
		Template: document.TagTextImageSplit,
		Content:  document.Content{Title: "Broken", Body: "Text", Image: document.ImageRef{URL: srv.URL + "/missing.png"}},
	}}}
	data, res, err := newExporter().Build(context.Background(), doc, document.DefaultStyle, geom.MustSlideProfile(geom.FormatA4))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Slides != 1 || res.Media != 0 {
		t.Errorf("result = %+v", res)
	}
	if len(res.ImageFailures) != 1 || !errors.Is(res.ImageFailures[0].Err, deckforge.ErrImageUnavailable) {
		t.Fatalf("image failures = %+v", res.ImageFailures)
	}
	slide := parts(t, data)["ppt/slides/slide1.xml"]
	if !strings.Contains(slide, "Image unavailable") || !strings.Contains(slide, "Broken") {
		t.Error("slide lacks the unavailable affordance or its content")
	}
}

func TestImagesAreEmbeddedNotLinked(t *testing.T) {
	srv := imageServer(t)
	ref := document.ImageRef{URL: srv.URL + "/ok.png"}
	doc := &document.Document{Pages: []document.Page{
		{Index: 1, Template: document.TagCover, Content: document.Content{Title: "A", Image: ref}},
		{Index: 2, Template: document.TagFullImageQuote, Content: document.Content{Quote: "Less is more", Image: ref}},
	}}
	data, res, err := newExporter().Build(context.Background(), doc, document.DefaultStyle, geom.MustSlideProfile(geom.FormatWide))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Media != 1 {
		t.Errorf("media = %d, want the shared image once", res.Media)
	}
	for name, body := range parts(t, data) {
		if strings.Contains(body, srv.URL) {
			t.Errorf("%s links the remote URL", name)
		}
		if strings.Contains(body, `TargetMode="External"`) {
			t.Errorf("%s has an external relationship", name)
		}
	}
}

func TestExportRejectsBadInput(t *testing.T) {
	e := deckexport.New(templates.MustDefault())
	ctx := context.Background()
	profile := geom.MustSlideProfile(geom.FormatWide)
	var buf bytes.Buffer

	if err := e.Export(ctx, &buf, &document.Document{}, document.DefaultStyle, profile); !errors.Is(err, deckforge.ErrInvalidDocument) {
		t.Errorf("empty document: %v", err)
	}
	doc := &document.Document{Pages: []document.Page{{Index: 1, Template: document.TagCover}}}
	if err := e.Export(ctx, &buf, doc, document.DefaultStyle, geom.Profile{}); !errors.Is(err, deckforge.ErrInvalidProfile) {
		t.Errorf("zero profile: %v", err)
	}
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if err := e.Export(canceled, &buf, doc, document.DefaultStyle, profile); !errors.Is(err, deckforge.ErrExportAborted) {
		t.Errorf("canceled: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("%d bytes written on failure", buf.Len())
	}
}

func TestPanickingRendererFailsExport(t *testing.T) {
	r := templates.NewRegistry()
	if err := r.Register(templates.Definition{Tag: document.TagCover, Native: func(*templates.Canvas, document.Page) { panic("boom") }}); err != nil {
		t.Fatal(err)
	}
	doc := &document.Document{Pages: []document.Page{{Index: 1, Template: document.TagCover}}}
	_, _, err := deckexport.New(r).Build(context.Background(), doc, document.DefaultStyle, geom.MustSlideProfile(geom.FormatWide))
	var ee *deckforge.ExportError
	if !errors.As(err, &ee) || ee.Op != "render" || !strings.Contains(err.Error(), "boom") {
		t.Errorf("err = %v", err)
	}
}
