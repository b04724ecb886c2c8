package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lvillar/deckforge"
	"github.com/lvillar/deckforge/ai"
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/ingest"
	"github.com/lvillar/deckforge/metrics"
	"github.com/lvillar/deckforge/studio"
)

// fail writes err with the status it maps to.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := gin.H{"error": err.Error()}
	var aiErr *ai.Error
	switch {
	case errors.As(err, &aiErr):
		body["kind"] = aiErr.Kind
		status = http.StatusBadGateway
		if aiErr.Kind == ai.KindConfig {
			status = http.StatusUnprocessableEntity
		}
	case errors.Is(err, studio.ErrNoDocument):
		status = http.StatusConflict
	case errors.Is(err, ingest.ErrUnsupported):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, deckforge.ErrInvalidDocument),
		errors.Is(err, deckforge.ErrUnknownTemplate),
		errors.Is(err, deckforge.ErrInvalidProfile):
		status = http.StatusBadRequest
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// pageIndex reads the :index parameter and checks that the page exists.
func (s *Server) pageIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, fmt.Errorf("page index %q is not a number", c.Param("index")))
		return 0, false
	}
	if _, err := s.ws.Docs().Page(index); err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return 0, false
	}
	return index, true
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"provider": s.ws.Provider().Provider,
		"pages":    s.ws.Docs().Len(),
	})
}

type textRequest struct {
	Text  string                `json:"text" binding:"required"`
	Style *document.StyleConfig `json:"style"`
}

// readSource takes the raw text from a JSON body or from an uploaded file
// in the "file" form field. On failure it has already answered.
func readSource(c *gin.Context) (*textRequest, bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var req textRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return nil, false
		}
		return &req, true
	}

	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, err)
		return nil, false
	}
	defer f.Close()
	src, err := ingest.Read(fh.Filename, f)
	if errors.Is(err, ingest.ErrUnsupported) {
		fail(c, err)
		return nil, false
	}
	if err != nil {
		badRequest(c, err)
		return nil, false
	}
	return &textRequest{Text: src.Text}, true
}

func (s *Server) generate(c *gin.Context) {
	req, ok := readSource(c)
	if !ok {
		return
	}
	if req.Style != nil {
		s.ws.SetStyle(*req.Style)
	}
	doc, err := s.ws.Generate(c.Request.Context(), req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (s *Server) chunk(c *gin.Context) {
	req, ok := readSource(c)
	if !ok {
		return
	}
	chunks, err := s.ws.Chunk(c.Request.Context(), req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chunks": chunks})
}

func (s *Server) getDocument(c *gin.Context) {
	doc := s.ws.Document()
	if doc == nil {
		fail(c, studio.ErrNoDocument)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// putDocument replaces the document with the body, in the current or the
// legacy JSON shape.
func (s *Server) putDocument(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, ingest.MaxBytes))
	if err != nil {
		badRequest(c, err)
		return
	}
	doc, err := s.ws.Import(data)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) deleteDocument(c *gin.Context) {
	s.ws.Reset()
	c.Status(http.StatusNoContent)
}

type addPageRequest struct {
	Chunk    ai.Chunk `json:"chunk"`
	Template string   `json:"template" binding:"required"`
}

func (s *Server) addPage(c *gin.Context) {
	var req addPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tag, err := document.ParseTag(req.Template)
	if err != nil {
		fail(c, err)
		return
	}
	page, err := s.ws.AddPage(c.Request.Context(), req.Chunk, tag)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, page)
}

// pagePatch edits one page. Absent fields are left alone; MoveTo is applied
// last.
type pagePatch struct {
	Template *string           `json:"template"`
	Locked   *bool             `json:"locked"`
	Content  *document.Content `json:"content"`
	MoveTo   *int              `json:"moveTo"`
}

func (s *Server) patchPage(c *gin.Context) {
	index, ok := s.pageIndex(c)
	if !ok {
		return
	}
	var req pagePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	docs := s.ws.Docs()
	if req.Template != nil {
		tag, err := document.ParseTag(*req.Template)
		if err != nil {
			fail(c, err)
			return
		}
		if err := docs.SetTemplate(index, tag); err != nil {
			fail(c, err)
			return
		}
	}
	if req.Content != nil {
		if err := docs.UpdatePageContent(index, func(ct *document.Content) { *ct = *req.Content }); err != nil {
			fail(c, err)
			return
		}
	}
	if req.Locked != nil {
		if err := docs.SetLocked(index, *req.Locked); err != nil {
			fail(c, err)
			return
		}
	}
	if req.MoveTo != nil && *req.MoveTo != index {
		if err := docs.MovePage(index, *req.MoveTo); err != nil {
			fail(c, err)
			return
		}
		index = *req.MoveTo
	}
	page, err := docs.Page(index)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) deletePage(c *gin.Context) {
	index, ok := s.pageIndex(c)
	if !ok {
		return
	}
	if err := s.ws.Docs().RemovePage(index); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) regeneratePage(c *gin.Context) {
	index, ok := s.pageIndex(c)
	if !ok {
		return
	}
	page, err := s.ws.RegeneratePage(c.Request.Context(), index)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type remixResponse struct {
	Regenerated []int             `json:"regenerated"`
	Skipped     []int             `json:"skipped"`
	Failed      map[string]string `json:"failed,omitempty"`
}

// remix answers 200 even when some pages failed; the failures are listed
// per page.
func (s *Server) remix(c *gin.Context) {
	res, err := s.ws.Remix(c.Request.Context())
	if errors.Is(err, studio.ErrNoDocument) {
		fail(c, err)
		return
	}
	out := remixResponse{Regenerated: res.Regenerated, Skipped: res.Skipped}
	if len(res.Failed) > 0 {
		out.Failed = make(map[string]string, len(res.Failed))
		for index, ferr := range res.Failed {
			out.Failed[strconv.Itoa(index)] = ferr.Error()
		}
	}
	if out.Regenerated == nil {
		out.Regenerated = []int{}
	}
	if out.Skipped == nil {
		out.Skipped = []int{}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getStyle(c *gin.Context) {
	c.JSON(http.StatusOK, s.ws.Style())
}

func (s *Server) putStyle(c *gin.Context) {
	var style document.StyleConfig
	if err := c.ShouldBindJSON(&style); err != nil {
		badRequest(c, err)
		return
	}
	s.ws.SetStyle(style)
	c.JSON(http.StatusOK, s.ws.Style())
}

func (s *Server) getProvider(c *gin.Context) {
	c.JSON(http.StatusOK, s.ws.Provider())
}

// providerRequest carries the API key, which the response never echoes.
type providerRequest struct {
	ai.Config
	APIKey string `json:"apiKey"`
}

func (s *Server) putProvider(c *gin.Context) {
	var req providerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cfg := req.Config
	cfg.APIKey = req.APIKey
	if err := s.ws.Configure(c.Request.Context(), cfg); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.ws.Provider())
}

type templateView struct {
	Tag         document.Tag `json:"tag"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
}

func (s *Server) listTemplates(c *gin.Context) {
	defs := s.registry.Definitions()
	out := make([]templateView, 0, len(defs))
	for _, d := range defs {
		out = append(out, templateView{Tag: d.Tag, Name: d.Name, Description: d.Description})
	}
	c.JSON(http.StatusOK, gin.H{"templates": out})
}

func (s *Server) listProfiles(c *gin.Context) {
	type profiles struct {
		Document geom.Profile `json:"document"`
		Slides   geom.Profile `json:"slides"`
	}
	out := make(map[geom.Format]profiles)
	for _, f := range geom.Formats() {
		out[f] = profiles{Document: geom.MustDocumentProfile(f), Slides: geom.MustSlideProfile(f)}
	}
	c.JSON(http.StatusOK, gin.H{"profiles": out})
}

type exportRequest struct {
	// Format is pdf or pptx.
	Format string `json:"format" binding:"required,oneof=pdf pptx"`
	// Profile is a catalog format; empty uses the server default.
	Profile string `json:"profile"`
}

func (s *Server) startExport(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	format := s.format
	if req.Profile != "" {
		f, err := geom.ParseFormat(req.Profile)
		if err != nil {
			fail(c, err)
			return
		}
		format = f
	}
	profileFor := geom.DocumentProfile
	if req.Format == metrics.FormatPPTX {
		profileFor = geom.SlideProfile
	}
	profile, err := profileFor(format)
	if err != nil {
		fail(c, err)
		return
	}

	doc := s.ws.Document()
	if doc == nil || len(doc.Pages) == 0 {
		fail(c, studio.ErrNoDocument)
		return
	}
	j := s.exports.start(req.Format, doc, s.ws.Style(), profile)
	c.Header("Location", "/api/v1/exports/"+j.ID)
	c.JSON(http.StatusAccepted, j.view())
}

func (s *Server) listExports(c *gin.Context) {
	jobs := s.exports.list()
	out := make([]jobView, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.view())
	}
	c.JSON(http.StatusOK, gin.H{"exports": out})
}

func (s *Server) job(c *gin.Context) (*job, bool) {
	j, ok := s.exports.get(c.Param("id"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "export not found"})
	}
	return j, ok
}

func (s *Server) getExport(c *gin.Context) {
	if j, ok := s.job(c); ok {
		c.JSON(http.StatusOK, j.view())
	}
}

var contentTypes = map[string]string{
	metrics.FormatPDF:  "application/pdf",
	metrics.FormatPPTX: "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// getArtifact downloads a finished export. A running export answers 409
// and a failed one 410.
func (s *Server) getArtifact(c *gin.Context) {
	j, ok := s.job(c)
	if !ok {
		return
	}
	data, done, err := j.result()
	switch {
	case !done:
		c.AbortWithStatusJSON(http.StatusConflict, j.view())
	case err != nil:
		c.AbortWithStatusJSON(http.StatusGone, j.view())
	default:
		name := studio.FileName(&document.Document{Metadata: document.Metadata{GeneratedTitle: j.Title}}, j.Format)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		c.Data(http.StatusOK, contentTypes[j.Format], data)
	}
}

// deleteExport aborts a running export and forgets it.
func (s *Server) deleteExport(c *gin.Context) {
	if _, ok := s.exports.remove(c.Param("id")); !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "export not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
