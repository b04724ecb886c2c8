package templates

import (
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
)

func featureListLayout(b *render.Builder, page document.Page) *render.Node {
	c := page.Content
	u := b.Unit()
	pad := 6 * u
	root := b.Root(b.Color("bg"))
	title := heading(b, c.Title, pad, pad, b.Width-2*pad, render.AlignLeft, b.Color("text"))
	root.Append(title)

	cols := 2
	if b.Height > b.Width {
		cols = 1
	}
	rows := gridRows(len(c.Items), cols)
	if rows == 0 {
		return root
	}
	top := title.Box.Bottom() + 3*u
	cells := geom.R(pad, top, b.Width-2*pad, b.Height-top-pad).Rows(rows, 2*u)
	for i, it := range c.Items {
		cell := cells[i/cols].Columns(cols, 2.5*u)[i%cols]
		box := card(b, cell, 2*u)
		icon := b.Icon(geom.R(cell.X+2*u, cell.Y+2*u, 3.2*u, 3.2*u), itemIcon(it), b.Color("primary"))
		s := b.Stack(cell.X+7*u, cell.Y+2*u, cell.W-9*u, 0.8*u)
		stackText(s, "h4", it.Title, b.Font(1.8*u, "800", b.Color("primary")))
		desc := b.Font(1.3*u, "400", slate500)
		desc.LineHeight = 1.45
		stackText(s, "p", it.Description, desc)
		root.Append(box.Append(icon).Append(s.Nodes()...))
	}
	return root
}

func featureListNative(c *Canvas, page document.Page) {
	ct := page.Content
	c.Text(ct.Title, 0.5, 0.5, 0.9*DesignWidth, 0.6, titleStyle(c, 32, pptx.AlignLeft))
	for i, it := range ct.Items {
		col, row := i%2, i/2
		x := 0.5 + float64(col)*4.75
		y := 1.3 + float64(row)*1.8
		c.Shape(x, y, 4.5, 1.6, pptx.ShapeStyle{
			Geometry: pptx.RoundRect,
			Radius:   0.2,
			Fill:     &pptx.Fill{Color: "FFFFFF"},
			Shadow:   softShadow("64748B", 10, 5, 0.1),
		})
		c.Text(it.Title, x+0.2, y+0.2, 4.1, 0.4, pptx.TextStyle{Size: 16, Bold: true, Color: c.Color("primary")})
		c.Text(it.Description, x+0.2, y+0.6, 4.1, 0.8, bodyStyle(11, c.Color("text")))
	}
}
