package templates

import (
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
)

func infoGridLayout(b *render.Builder, page document.Page) *render.Node {
	c := page.Content
	u := b.Unit()
	pad := 6 * u
	root := b.Root(slate50)

	title := heading(b, c.Title, pad, pad, b.Width-2*pad, render.AlignLeft, b.Color("text"))
	rule := b.Box("div", geom.R(pad, title.Box.Bottom()+1.5*u, b.Width-2*pad, 0.15*u), render.Style{Background: slate200})
	root.Append(title, rule)

	cols := 2
	if b.Height > b.Width {
		cols = 1
	}
	top := rule.Box.Bottom() + 3*u
	area := geom.R(pad, top, b.Width-2*pad, b.Height-top-pad)
	rows := gridRows(len(c.Items), cols)
	if rows == 0 {
		return root
	}
	cells := area.Rows(rows, 2.5*u)
	for i, it := range c.Items {
		cell := cells[i/cols].Columns(cols, 2.5*u)[i%cols]
		box := card(b, cell, 2.5*u)
		box.Style.Shadow = false
		tile := geom.R(cell.X+2*u, cell.Y+2*u, 5*u, 5*u)
		box.Append(
			b.Box("div", tile, render.Style{Background: render.Mix(b.Theme.Palette.Primary, "#ffffff", 0.85), Radius: 1.2 * u}),
			b.Icon(tile.Inset(1.1*u), itemIcon(it), b.Color("primary")),
		)
		s := b.Stack(tile.Right()+2*u, cell.Y+2*u, cell.Right()-tile.Right()-4*u, 1*u)
		stackText(s, "h4", it.Title, b.Font(1.9*u, "800", b.Color("text")))
		desc := b.Font(1.35*u, "400", slate500)
		desc.LineHeight = 1.45
		stackText(s, "p", it.Description, desc)
		root.Append(box.Append(s.Nodes()...))
	}
	return root
}

func infoGridNative(c *Canvas, page document.Page) {
	ct := page.Content
	c.Text(ct.Title, 0.5, 0.5, 0.9*DesignWidth, 0.5, titleStyle(c, 28, pptx.AlignLeft))
	for i, it := range ct.Items {
		col, row := i%2, i/2
		x := 0.5 + float64(col)*4.75
		y := 1.5 + float64(row)*2.5
		c.Shape(x, y, 4.25, 2.25, pptx.ShapeStyle{
			Fill: &pptx.Fill{Color: "FFFFFF"},
			Line: &pptx.Line{Color: c.Color("primary"), Width: 1},
		})
		c.Text(it.Title, x+0.2, y+0.2, 3.8, 0.4, pptx.TextStyle{Size: 18, Bold: true, Color: c.Color("primary")})
		c.Text(it.Description, x+0.2, y+0.7, 3.8, 1.3, bodyStyle(12, c.Color("text")))
	}
}
