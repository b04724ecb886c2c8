package templates

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/icons"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
)

// abstractBackground is used when a page names no image of its own.
var abstractBackground = document.ImageRef{Prompt: "professional abstract background"}

var (
	slate50  = render.RGBA("#f8fafc", 1)
	slate200 = render.RGBA("#e2e8f0", 1)
	slate500 = render.RGBA("#64748b", 1)
	slate950 = render.RGBA("#020617", 1)
)

func itemIcon(it document.Item) string {
	return icons.Resolve(it.IconName, it.IconKeyword, it.Title)
}

func number(i int) string {
	return strconv.Itoa(i + 1)
}

func centered(st render.Style) render.Style {
	st.TextAlign = render.AlignCenter
	return st
}

// stackText appends text to s unless it is blank.
func stackText(s *render.Stack, tag, text string, st render.Style) {
	if strings.TrimSpace(text) == "" {
		return
	}
	s.Text(tag, text, st)
}

// heading is the page title used by the content templates.
func heading(b *render.Builder, text string, x, y, w float64, align render.Align, c color.NRGBA) *render.Node {
	u := b.Unit()
	st := b.Font(3.4*u, "800", c)
	st.LineHeight = 1.15
	st.TextAlign = align
	return b.Text("h3", text, geom.R(x, y, w, 0), st)
}

// card is a rounded white panel.
func card(b *render.Builder, r geom.Rect, radius float64) *render.Node {
	return b.Box("div", r, render.Style{Background: render.White, Radius: radius, BorderWidth: 1, BorderColor: slate200, Shadow: true})
}

// badge is a filled tile with centered text, e.g. a step number.
func badge(b *render.Builder, text string, r geom.Rect, bg color.NRGBA, circle bool) *render.Node {
	radius := r.H * 0.25
	if circle {
		radius = r.H / 2
	}
	tile := b.Box("div", r, render.Style{Background: bg, Radius: radius})
	st := centered(b.Font(r.H*0.42, "800", render.White))
	label := b.Text("span", text, geom.R(r.X, 0, r.W, 0), st)
	label.Shift(0, r.Y+(r.H-label.Box.H)/2)
	return tile.Append(label)
}

// gridRows splits n items into rows of cols.
func gridRows(n, cols int) int {
	if n <= 0 {
		return 0
	}
	return (n + cols - 1) / cols
}

// Native text helpers.

func titleStyle(c *Canvas, size float64, align pptx.Align) pptx.TextStyle {
	return pptx.TextStyle{Face: "Arial Black", Size: size, Bold: true, Color: c.Color("text"), Align: align}
}

func bodyStyle(size float64, color string) pptx.TextStyle {
	return pptx.TextStyle{Size: size, Color: color}
}

func softShadow(color string, blur, offset, opacity float64) *pptx.Shadow {
	return &pptx.Shadow{Color: color, Blur: blur, Offset: offset, Angle: 90, Opacity: opacity}
}
