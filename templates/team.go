package templates

import (
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
)

const (
	teamBackground = "#0f172a"
	teamRole       = "#38bdf8"
)

// portrait is the picture of a team member: the item's image or one
// generated from the member's name.
func portrait(it document.Item) document.ImageRef {
	return it.Image.Or(document.ImageRef{Prompt: it.Title})
}

func teamLayout(b *render.Builder, page document.Page) *render.Node {
	c := page.Content
	u := b.Unit()
	pad := 6 * u
	root := b.Root(render.RGBA(teamBackground, 1))
	title := heading(b, c.Title, pad, pad, b.Width-2*pad, render.AlignCenter, render.White)
	root.Append(title)

	cols := 4
	if b.Height > b.Width {
		cols = 2
	}
	rows := gridRows(len(c.Items), cols)
	if rows == 0 {
		return root
	}
	top := title.Box.Bottom() + 4*u
	cells := geom.R(pad, top, b.Width-2*pad, b.Height-top-pad).Rows(rows, 2*u)
	for i, it := range c.Items {
		cell := cells[i/cols].Columns(cols, 2*u)[i%cols]
		side := min(cell.W*0.6, cell.H*0.6)
		img := b.Image(geom.R(cell.X+(cell.W-side)/2, cell.Y, side, side), portrait(it), true)
		img.Style.BorderWidth = 0.3 * u
		img.Style.BorderColor = render.RGBA(teamRole, 1)
		s := b.Stack(cell.X, img.Box.Bottom()+1.5*u, cell.W, 0.6*u)
		stackText(s, "h4", it.Title, centered(b.Font(1.7*u, "800", render.White)))
		role := centered(b.Font(1.2*u, "700", render.RGBA(teamRole, 1)))
		role.Uppercase = true
		stackText(s, "p", it.Description, role)
		root.Append(img).Append(s.Nodes()...)
	}
	return root
}

func teamNative(c *Canvas, page document.Page) {
	ct := page.Content
	c.Background(teamBackground)
	c.Text(ct.Title, 0, 0.5, DesignWidth, 0.6, pptx.TextStyle{Size: 32, Bold: true, Color: "FFFFFF", Align: pptx.AlignCenter})
	for i, it := range ct.Items {
		col, row := i%4, i/4
		x := 0.5 + float64(col)*2.3
		y := 1.5 + float64(row)*2.5
		c.Image(portrait(it), x+0.4, y, 1.5, 1.5, true)
		c.Text(it.Title, x, y+1.6, 2.3, 0.3, pptx.TextStyle{Size: 14, Bold: true, Color: "FFFFFF", Align: pptx.AlignCenter})
		c.Text(it.Description, x, y+1.9, 2.3, 0.3, pptx.TextStyle{Size: 10, Bold: true, Color: teamRole, Align: pptx.AlignCenter})
	}
}
