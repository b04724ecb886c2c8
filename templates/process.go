package templates

import (
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
)

func processLayout(b *render.Builder, page document.Page) *render.Node {
	c := page.Content
	u := b.Unit()
	pad := 6 * u
	root := b.Root(b.Color("bg"))
	title := heading(b, c.Title, pad, pad, b.Width-2*pad, render.AlignCenter, b.Color("text"))
	root.Append(title)

	n := len(c.Steps)
	if n == 0 {
		return root
	}
	top := title.Box.Bottom() + 5*u
	cols := geom.R(pad, top, b.Width-2*pad, b.Height-top-pad).Columns(n, 2*u)
	dot := 7 * u
	// Connector behind the numbered circles.
	if n > 1 {
		first, last := cols[0], cols[n-1]
		root.Append(b.Box("div", geom.R(first.X+first.W/2, top+dot/2-0.15*u, last.X+last.W/2-first.X-first.W/2, 0.3*u), render.Style{Background: slate200}))
	}
	for i, st := range c.Steps {
		col := cols[i]
		num := badge(b, number(i), geom.R(col.X+(col.W-dot)/2, top, dot, dot), b.Color("primary"), true)
		num.Style.Shadow = true
		s := b.Stack(col.X, top+dot+2.5*u, col.W, 1*u)
		stackText(s, "h4", st.Title, centered(b.Font(1.8*u, "800", b.Color("text"))))
		desc := centered(b.Font(1.25*u, "400", slate500))
		desc.LineHeight = 1.45
		stackText(s, "p", st.Description, desc)
		root.Append(num).Append(s.Nodes()...)
	}
	return root
}

func processNative(c *Canvas, page document.Page) {
	ct := page.Content
	c.Text(ct.Title, 0, 0.5, DesignWidth, 0.6, titleStyle(c, 32, pptx.AlignCenter))
	n := len(ct.Steps)
	if n == 0 {
		return
	}
	stepW := 9 / float64(n)
	for i, st := range ct.Steps {
		x := 0.5 + float64(i)*stepW
		c.TextShape(number(i), x+stepW/2-0.4, 1.5, 0.8, 0.8,
			pptx.TextStyle{Size: 24, Bold: true, Color: "FFFFFF", Align: pptx.AlignCenter, Anchor: pptx.AnchorMiddle},
			pptx.ShapeStyle{Geometry: pptx.Ellipse, Fill: &pptx.Fill{Color: c.Color("primary")}, Shadow: softShadow("000000", 5, 2, 0.2)})
		c.Text(st.Title, x, 2.5, stepW, 0.4, pptx.TextStyle{Size: 16, Bold: true, Color: c.Color("text"), Align: pptx.AlignCenter})
		c.Text(st.Description, x, 3, stepW, 1, pptx.TextStyle{Size: 10, Color: c.Color("text"), Align: pptx.AlignCenter})
	}
}
