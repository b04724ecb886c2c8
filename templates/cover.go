package templates

import (
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
)

func coverLayout(b *render.Builder, page document.Page) *render.Node {
	c := page.Content
	u := b.Unit()
	root := b.Root(render.RGBA("#0f172a", 1))
	root.Append(
		b.Image(b.Bounds(), c.Image.Or(abstractBackground), false),
		b.Box("div", b.Bounds(), render.Style{Background: render.RGBA("#000000", 0.55)}),
	)

	s := b.Stack(10*u, 0, b.Width-20*u, 2.5*u)
	s.Node(b.Icon(geom.R(0, 0, b.Width-20*u, 6*u), "layout", render.White))
	title := centered(b.Font(6*u, "900", render.White))
	title.LineHeight = 1.05
	stackText(s, "h1", c.Title, title)
	stackText(s, "p", c.Subtitle, centered(b.Font(2.2*u, "300", render.RGBA("#e2e8f0", 1))))
	author := centered(b.Font(1.3*u, "700", render.RGBA("#cbd5e1", 1)))
	author.Uppercase = true
	stackText(s, "span", c.Author, author)
	s.CenterIn(0, b.Height)
	return root.Append(s.Nodes()...)
}

func coverNative(c *Canvas, page document.Page) {
	ct := page.Content
	text := c.Color("text")
	if !ct.Image.IsZero() {
		c.Image(ct.Image, 0, 0, DesignWidth, DesignHeight, false)
		c.Overlay("000000", 50)
		text = "FFFFFF"
	}
	c.Text(ct.Title, 1, 0.35*DesignHeight, 8, 1.5,
		pptx.TextStyle{Face: "Arial Black", Size: 44, Bold: true, Color: text, Align: pptx.AlignCenter})
	c.Text(ct.Subtitle, 1, 0.55*DesignHeight, 8, 1,
		pptx.TextStyle{Size: 24, Color: text, Align: pptx.AlignCenter})
	c.Text(ct.Author, 1, 0.8*DesignHeight, 8, 0.5,
		pptx.TextStyle{Size: 14, Italic: true, Color: text, Align: pptx.AlignCenter})
}
