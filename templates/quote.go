package templates

import (
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
)

// Quotes are set in a serif face whatever the deck font.
const quoteFamily = `"Playfair Display", Georgia, serif`

func quoteLayout(b *render.Builder, page document.Page) *render.Node {
	c := page.Content
	u := b.Unit()
	root := b.Root(render.Black)
	root.Append(
		b.Image(b.Bounds(), c.Image.Or(abstractBackground), false),
		b.Box("div", b.Bounds(), render.Style{Background: render.RGBA("#000000", 0.5)}),
	)

	w := b.Width - 24*u
	s := b.Stack(12*u, 0, w, 3*u)
	s.Node(b.Icon(geom.R(0, 0, w, 6*u), "quote", render.RGBA("#ffffff", 0.6)))
	q := centered(render.Style{FontSize: 4*u, FontFamily: quoteFamily, FontWeight: "400", Italic: true, Color: render.White, LineHeight: 1.3})
	stackText(s, "blockquote", c.QuoteText(), q)
	bar := b.Box("div", geom.R(0, 0, 6*u, 0.4*u), render.Style{Background: render.RGBA("#3b82f6", 1)})
	s.Node(bar)
	bar.Shift((b.Width-6*u)/2-bar.Box.X, 0)
	author := centered(b.Font(1.4*u, "700", render.RGBA("#e2e8f0", 1)))
	author.Uppercase = true
	stackText(s, "span", c.QuoteAttribution(), author)
	s.CenterIn(0, b.Height)
	return root.Append(s.Nodes()...)
}

func quoteNative(c *Canvas, page document.Page) {
	ct := page.Content
	if !ct.Image.IsZero() {
		c.Image(ct.Image, 0, 0, DesignWidth, DesignHeight, false)
		c.Overlay("000000", 60)
	} else {
		c.Background("0F172A")
	}
	c.Text(ct.QuoteText(), 1, 0.3*DesignHeight, 8, 1.9,
		pptx.TextStyle{Face: "Georgia", Size: 36, Italic: true, Color: "FFFFFF", Align: pptx.AlignCenter})
	c.Text(ct.QuoteAttribution(), 1, 0.65*DesignHeight, 8, 0.5,
		pptx.TextStyle{Size: 20, Bold: true, Color: "FFFFFF", Align: pptx.AlignCenter})
}
