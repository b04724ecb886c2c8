package templates

import (
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
)

func sectionCoverLayout(b *render.Builder, page document.Page) *render.Node {
	c := page.Content
	u := b.Unit()
	primary := b.Color("primary")
	if bg, ok := document.ParseHex(c.BackgroundColor); ok {
		primary = render.RGBA(bg.Hex(), 1)
	}
	root := b.Root(primary)
	img := b.Image(b.Bounds(), c.Image.Or(abstractBackground), false)
	img.Style.Opacity = 0.35
	root.Append(img, b.Box("div", b.Bounds(), render.Style{Background: render.RGBA(render.Hex(primary), 0.6)}))

	s := b.Stack(8*u, 0, b.Width-16*u, 2*u)
	label := b.Font(1.2*u, "800", render.RGBA("#ffffff", 0.8))
	label.Uppercase = true
	s.Text("span", "Chapter", label)
	title := b.Font(6.5*u, "900", render.White)
	title.LineHeight = 1.05
	stackText(s, "h1", c.SectionTitle, title)
	stackText(s, "p", c.BriefDescription, b.Font(2.2*u, "400", render.RGBA("#ffffff", 0.9)))
	s.CenterIn(0, b.Height)

	bar := b.Box("div", geom.R(8*u, s.Nodes()[0].Box.Y-3*u, 8*u, 0.6*u), render.Style{Background: render.White, Radius: 0.3 * u})
	return root.Append(bar).Append(s.Nodes()...)
}

func sectionCoverNative(c *Canvas, page document.Page) {
	ct := page.Content
	primary := c.Color("primary")
	if bg, ok := document.ParseHex(ct.BackgroundColor); ok {
		primary = bg.Hex()
	}
	c.Background(primary)
	if !ct.Image.IsZero() {
		c.Image(ct.Image, 0, 0, DesignWidth, DesignHeight, false)
		c.Overlay(primary, 40)
	}
	c.Text("CHAPTER", 0.5, 1, 2, 0.3, pptx.TextStyle{Size: 12, Bold: true, Color: "FFFFFF"})
	c.Text(ct.SectionTitle, 0.5, 1.5, 0.9*DesignWidth, 2,
		pptx.TextStyle{Face: "Arial Black", Size: 60, Bold: true, Color: "FFFFFF"})
	c.Text(ct.BriefDescription, 0.5, 4, 0.8*DesignWidth, 1.5, pptx.TextStyle{Size: 24, Color: "FFFFFF"})
}
