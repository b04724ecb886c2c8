package templates

import (
	"strings"

	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
)

func imageOnRight(c document.Content) bool {
	return strings.EqualFold(strings.TrimSpace(c.ImageSide), "right")
}

// splitLayout shares the width 1.2:1 between text and image. Portrait
// surfaces stack the image above the text instead.
func splitLayout(b *render.Builder, page document.Page) *render.Node {
	c := page.Content
	u := b.Unit()
	root := b.Root(b.Color("bg"))
	ref := c.Image.Or(abstractBackground)

	if b.Height > b.Width {
		imgH := b.Height * 0.4
		root.Append(b.Image(geom.R(0, 0, b.Width, imgH), ref, false))
		s := b.Stack(8*u, imgH+6*u, b.Width-16*u, 3*u)
		s.Node(heading(b, c.Title, 0, 0, s.W, render.AlignLeft, b.Color("text")))
		body := b.Font(2.6*u, "400", b.Color("text"))
		body.LineHeight = 1.5
		stackText(s, "p", c.Body, body)
		return root.Append(s.Nodes()...)
	}

	textW := b.Width * 1.2 / 2.2
	imgW := b.Width - textW
	textX, imgX := 0.0, textW
	if !imageOnRight(c) {
		textX, imgX = imgW, 0
	}
	root.Append(b.Image(geom.R(imgX, 0, imgW, b.Height), ref, false))

	s := b.Stack(textX+6*u, 0, textW-12*u, 2.5*u)
	accent := b.Box("div", geom.R(0, 0, 5*u, 0.5*u), render.Style{Background: b.Color("primary"), Radius: 0.25 * u})
	s.Node(accent)
	s.Node(heading(b, c.Title, 0, 0, s.W, render.AlignLeft, b.Color("text")))
	body := b.Font(1.6*u, "400", b.Color("text"))
	body.LineHeight = 1.6
	stackText(s, "p", c.Body, body)
	s.CenterIn(0, b.Height)
	return root.Append(s.Nodes()...)
}

func splitNative(c *Canvas, page document.Page) {
	ct := page.Content
	textX, imgX := 5.5, 0.0
	if imageOnRight(ct) {
		textX, imgX = 0.5, 5.5
	}
	c.Image(ct.Image, imgX, 0, 5, DesignHeight, false)
	c.Text(ct.Title, textX, 1.5, 4, 1, titleStyle(c, 32, pptx.AlignLeft))
	body := bodyStyle(18, c.Color("text"))
	body.Align = pptx.AlignLeft
	c.Text(ct.Body, textX, 3, 4, 2.5, body)
}
