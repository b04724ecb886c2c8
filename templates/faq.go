package templates

import (
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
)

func faqLayout(b *render.Builder, page document.Page) *render.Node {
	c := page.Content
	u := b.Unit()
	pad := 6 * u
	root := b.Root(b.Color("bg"))
	title := heading(b, c.Title, pad, pad, b.Width-2*pad, render.AlignLeft, b.Color("text"))
	root.Append(title)

	y := title.Box.Bottom() + 3*u
	w := b.Width - 2*pad
	inner := 2 * u
	for _, it := range c.Items {
		s := b.Stack(pad+inner+4*u, y+inner, w-2*inner-4*u, 0.8*u)
		stackText(s, "h4", it.Title, b.Font(1.7*u, "800", b.Color("text")))
		ans := b.Font(1.35*u, "400", slate500)
		ans.LineHeight = 1.5
		stackText(s, "p", it.Description, ans)
		h := max(s.Height(), 2.5*u) + 2*inner
		box := b.Box("div", geom.R(pad, y, w, h), render.Style{Background: slate50, Radius: 1.5 * u, BorderWidth: 1, BorderColor: slate200})
		box.Append(b.Icon(geom.R(pad+inner, y+inner, 2.5*u, 2.5*u), "help-circle", b.Color("primary")))
		root.Append(box.Append(s.Nodes()...))
		y += h + 1.5*u
	}
	return root
}

func faqNative(c *Canvas, page document.Page) {
	ct := page.Content
	c.Text(ct.Title, 0.5, 0.5, 0.9*DesignWidth, 0.6, pptx.TextStyle{Size: 32, Bold: true, Color: c.Color("text")})
	for i, it := range ct.Items {
		y := 1.3 + float64(i)*1.1
		c.Shape(0.5, y, 9, 1, pptx.ShapeStyle{
			Geometry: pptx.RoundRect,
			Radius:   0.1,
			Fill:     &pptx.Fill{Color: "F8FAFC"},
			Line:     &pptx.Line{Color: "E2E8F0", Width: 1},
		})
		c.Text("Q: "+it.Title, 0.7, y+0.1, 8.6, 0.3, pptx.TextStyle{Size: 14, Bold: true, Color: c.Color("text")})
		c.Text(it.Description, 0.7, y+0.4, 8.6, 0.5, pptx.TextStyle{Size: 11, Color: "64748B"})
	}
}
