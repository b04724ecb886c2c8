package templates

import (
	"strings"

	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
)

// columnImage is the picture of a column card: the item's own image, or one
// generated from its icon keyword and the page prompt.
func columnImage(c document.Content, it document.Item) document.ImageRef {
	if !it.Image.IsZero() {
		return it.Image
	}
	subject := c.Image.Prompt
	if strings.TrimSpace(subject) == "" {
		subject = "object"
	}
	return document.ImageRef{Prompt: strings.TrimSpace(it.IconKeyword + " " + subject)}
}

func threeColumnItems(c document.Content) []document.Item {
	if len(c.Items) > 3 {
		return c.Items[:3]
	}
	return c.Items
}

func threeColumnLayout(b *render.Builder, page document.Page) *render.Node {
	c := page.Content
	u := b.Unit()
	pad := 6 * u
	root := b.Root(b.Color("bg"))
	title := heading(b, c.Title, pad, pad, b.Width-2*pad, render.AlignCenter, b.Color("text"))
	root.Append(title)

	items := threeColumnItems(c)
	if len(items) == 0 {
		return root
	}
	top := title.Box.Bottom() + 4*u
	area := geom.R(pad, top, b.Width-2*pad, b.Height-top-pad)
	var cells []geom.Rect
	if b.Height > b.Width {
		cells = area.Rows(len(items), 3*u)
	} else {
		cells = area.Columns(len(items), 3*u)
	}
	for i, it := range items {
		cell := cells[i]
		box := card(b, cell, 2.5*u)
		imgH := cell.H * 0.45
		img := b.Image(geom.R(cell.X+1.2*u, cell.Y+1.2*u, cell.W-2.4*u, imgH), columnImage(c, it), false)
		img.Style.Radius = 1.5 * u
		s := b.Stack(cell.X+2*u, img.Box.Bottom()+2*u, cell.W-4*u, 1*u)
		stackText(s, "h4", it.Title, b.Font(2*u, "800", b.Color("text")))
		desc := b.Font(1.35*u, "400", slate500)
		desc.LineHeight = 1.5
		stackText(s, "p", it.Description, desc)
		root.Append(box.Append(img).Append(s.Nodes()...))
	}
	return root
}

func threeColumnNative(c *Canvas, page document.Page) {
	ct := page.Content
	c.Text(ct.Title, 0, 0.4, DesignWidth, 0.8, titleStyle(c, 32, pptx.AlignCenter))
	for i, it := range threeColumnItems(ct) {
		x := 0.5 + float64(i)*3.1
		y := 1.4
		c.Shape(x, y, 2.8, 3.95, pptx.ShapeStyle{
			Geometry: pptx.RoundRect,
			Radius:   0.15,
			Fill:     &pptx.Fill{Color: "FFFFFF"},
			Shadow:   softShadow("64748B", 8, 4, 0.1),
		})
		c.Image(columnImage(ct, it), x+0.1, y+0.1, 2.6, 1.8, false)
		c.Text(it.Title, x+0.1, y+2.05, 2.6, 0.4, pptx.TextStyle{Size: 16, Bold: true, Color: c.Color("text")})
		c.Text(it.Description, x+0.1, y+2.5, 2.6, 1.35, bodyStyle(11, c.Color("text")))
	}
}
