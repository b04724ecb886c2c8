package templates

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/lvillar/deckforge"
	"github.com/lvillar/deckforge/assets"
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
)

// Native renderers lay slides out in a fixed 16:9 design space of
// DesignWidth x DesignHeight inches; the canvas scales it to the real slide.
const (
	DesignWidth  = 10.0
	DesignHeight = 5.625
)

// ImageFetcher returns embeddable bytes for an image URL.
type ImageFetcher interface {
	Embeddable(ctx context.Context, ref string) (*assets.Embeddable, error)
}

// ImageFailure records an image that could not be embedded.
type ImageFailure struct {
	URL string
	Err error
}

// Canvas is the drawing surface handed to native renderers.
type Canvas struct {
	Theme render.Theme

	ctx      context.Context
	slide    *pptx.Slide
	sx, sy   float64
	images   ImageFetcher
	resolve  render.ImageResolver
	failures []ImageFailure
}

// NewCanvas returns a canvas drawing on slide, a w x h inch slide. images
// may be nil, in which case every image renders as unavailable.
func NewCanvas(ctx context.Context, slide *pptx.Slide, w, h float64, theme render.Theme, images ImageFetcher, resolve render.ImageResolver) *Canvas {
	if resolve == nil {
		resolve = render.DirectURL
	}
	return &Canvas{
		Theme:   theme,
		ctx:     ctx,
		slide:   slide,
		sx:      w / DesignWidth,
		sy:      h / DesignHeight,
		images:  images,
		resolve: resolve,
	}
}

// Failures returns the images that could not be embedded.
func (c *Canvas) Failures() []ImageFailure {
	return c.failures
}

// Color returns a theme color by role (bg, primary, secondary, text) as
// RRGGBB.
func (c *Canvas) Color(role string) string {
	p := c.Theme.Palette
	var hex string
	switch role {
	case "primary":
		hex = p.Primary
	case "secondary":
		hex = p.Secondary
	case "text":
		hex = p.Text
	default:
		hex = p.Bg
	}
	return strings.ToUpper(strings.TrimPrefix(hex, "#"))
}

// Face returns the slide typeface closest to the theme font.
func (c *Canvas) Face() string {
	switch render.ClassifyFamily(c.Theme.Font.Family) {
	case render.FamilySerif:
		return "Georgia"
	case render.FamilyMono:
		return "Courier New"
	default:
		return "Arial"
	}
}

// Background fills the slide.
func (c *Canvas) Background(color string) {
	c.slide.Background(color)
}

// Overlay covers the whole slide with color at the given transparency.
func (c *Canvas) Overlay(color string, transparency float64) {
	c.Shape(0, 0, DesignWidth, DesignHeight, pptx.ShapeStyle{Fill: &pptx.Fill{Color: color, Transparency: transparency}})
}

// Text draws a text box at design coordinates.
func (c *Canvas) Text(text string, x, y, w, h float64, ts pptx.TextStyle) {
	if strings.TrimSpace(text) == "" {
		return
	}
	c.slide.AddText(text, c.box(x, y, w, h), c.text(ts))
}

// TextShape draws a shape carrying text.
func (c *Canvas) TextShape(text string, x, y, w, h float64, ts pptx.TextStyle, st pptx.ShapeStyle) {
	c.slide.AddTextShape(text, c.box(x, y, w, h), c.text(ts), c.shape(st))
}

// Shape draws a shape without text.
func (c *Canvas) Shape(x, y, w, h float64, st pptx.ShapeStyle) {
	c.slide.AddShape(c.box(x, y, w, h), c.shape(st))
}

// Table draws a table of rows at design coordinates.
func (c *Canvas) Table(rows [][]string, x, y, w float64, ts pptx.TableStyle) {
	k := c.k()
	ts.Size *= k
	if ts.RowHeight > 0 {
		ts.RowHeight *= c.sy
	}
	ts.ColWidths = append([]float64(nil), ts.ColWidths...)
	for i := range ts.ColWidths {
		ts.ColWidths[i] *= c.sx
	}
	c.slide.AddTable(rows, c.box(x, y, w, 0), ts)
}

// Image embeds the image behind ref. A reference that names nothing draws
// nothing; one that cannot be fetched draws an "Image unavailable" box and
// is recorded as a failure. The slide is produced either way.
func (c *Canvas) Image(ref document.ImageRef, x, y, w, h float64, circle bool) {
	url := c.resolve(ref)
	if url == "" {
		return
	}
	var (
		e   *assets.Embeddable
		err error
	)
	if c.images == nil {
		err = fmt.Errorf("%w: no image source configured", deckforge.ErrImageUnavailable)
	} else {
		e, err = c.images.Embeddable(c.ctx, url)
	}
	if err == nil {
		err = c.slide.AddImage(e.Data, e.Ext, c.box(x, y, w, h), e.Width, e.Height, circle)
	}
	if err != nil {
		c.failures = append(c.failures, ImageFailure{URL: url, Err: err})
		c.unavailable(x, y, w, h, circle)
	}
}

func (c *Canvas) unavailable(x, y, w, h float64, circle bool) {
	geometry := pptx.Rect
	if circle {
		geometry = pptx.Ellipse
	}
	size := math.Max(8, math.Min(12, h*8))
	c.TextShape("Image unavailable", x, y, w, h,
		pptx.TextStyle{Face: "Arial", Size: size, Color: "94A3B8", Align: pptx.AlignCenter, Anchor: pptx.AnchorMiddle},
		pptx.ShapeStyle{Geometry: geometry, Fill: &pptx.Fill{Color: "F1F5F9"}, Line: &pptx.Line{Color: "CBD5E1"}})
}

func (c *Canvas) k() float64 {
	return math.Min(c.sx, c.sy)
}

func (c *Canvas) box(x, y, w, h float64) pptx.Box {
	return pptx.Box{X: x * c.sx, Y: y * c.sy, W: w * c.sx, H: h * c.sy}
}

func (c *Canvas) text(ts pptx.TextStyle) pptx.TextStyle {
	ts.Size *= c.k()
	if ts.Face == "" {
		ts.Face = c.Face()
	}
	return ts
}

func (c *Canvas) shape(st pptx.ShapeStyle) pptx.ShapeStyle {
	st.Radius *= c.k()
	return st
}

// Placeholder is the native rendering of a tag without a renderer.
func Placeholder(c *Canvas, page document.Page) {
	c.Background("FFFFFF")
	c.Text("Unsupported layout: "+string(page.Template), 1, 1, 8, 1,
		pptx.TextStyle{Size: 24, Color: "333333"})
}
