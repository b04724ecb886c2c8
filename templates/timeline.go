package templates

import (
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
)

func timelineLayout(b *render.Builder, page document.Page) *render.Node {
	c := page.Content
	u := b.Unit()
	pad := 6 * u
	root := b.Root(b.Color("bg"))
	title := heading(b, c.Title, pad, pad, b.Width-2*pad, render.AlignLeft, b.Color("text"))
	root.Append(title)

	tile := 5 * u
	y := title.Box.Bottom() + 4*u
	textX := pad + tile + 3*u
	var prev *render.Node
	for i, st := range c.Steps {
		num := badge(b, number(i), geom.R(pad, y, tile, tile), b.Color("primary"), false)
		num.Style.Shadow = true
		if prev != nil {
			x := pad + tile/2 - 0.15*u
			top := prev.Box.Bottom()
			root.Append(b.Box("div", geom.R(x, top, 0.3*u, y-top), render.Style{Background: slate200}))
		}
		s := b.Stack(textX, y, b.Width-textX-pad, 0.8*u)
		stackText(s, "h4", st.Title, b.Font(2.1*u, "800", b.Color("text")))
		desc := b.Font(1.45*u, "400", slate500)
		desc.LineHeight = 1.5
		stackText(s, "p", st.Description, desc)
		root.Append(num).Append(s.Nodes()...)
		prev = num
		y += max(tile, s.Height()) + 3*u
	}
	return root
}

func timelineNative(c *Canvas, page document.Page) {
	ct := page.Content
	c.Text(ct.Title, 0.5, 0.5, 0.9*DesignWidth, 0.6, titleStyle(c, 32, pptx.AlignLeft))
	for i, st := range ct.Steps {
		y := 1.5 + float64(i)*1.2
		c.TextShape(number(i), 0.5, y, 0.6, 0.6,
			pptx.TextStyle{Size: 18, Bold: true, Color: "FFFFFF", Align: pptx.AlignCenter, Anchor: pptx.AnchorMiddle},
			pptx.ShapeStyle{Geometry: pptx.Ellipse, Fill: &pptx.Fill{Color: c.Color("primary")}, Shadow: softShadow("000000", 5, 2, 0.2)})
		c.Text(st.Title, 1.3, y, 8, 0.4, pptx.TextStyle{Size: 20, Bold: true, Color: c.Color("text")})
		c.Text(st.Description, 1.3, y+0.4, 8, 0.6, bodyStyle(12, c.Color("text")))
	}
}
