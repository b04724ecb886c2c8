package templates

import (
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
)

func comparisonRows(c document.Content) [][]string {
	rows := [][]string{{"Feature", "Description"}}
	for _, it := range c.Items {
		rows = append(rows, []string{it.Title, it.Description})
	}
	return rows
}

func comparisonLayout(b *render.Builder, page document.Page) *render.Node {
	c := page.Content
	u := b.Unit()
	pad := 6 * u
	root := b.Root(b.Color("bg"))
	title := heading(b, c.Title, pad, pad, b.Width-2*pad, render.AlignLeft, b.Color("text"))
	root.Append(title)

	w := b.Width - 2*pad
	firstW := w * 0.32
	table := b.Box("table", geom.R(pad, title.Box.Bottom()+3*u, w, 0), render.Style{Background: render.White, Radius: 1.5 * u, BorderWidth: 1, BorderColor: slate200})
	y := table.Box.Y
	for i, row := range comparisonRows(c) {
		head := i == 0
		weight, col := "400", b.Color("text")
		if head {
			weight, col = "800", render.White
		}
		cellPad := 1.5 * u
		left := b.Text("th", row[0], geom.R(pad+cellPad, 0, firstW-2*cellPad, 0), b.Font(1.5*u, "700", col))
		if !head {
			left.Tag = "td"
		}
		right := b.Text("td", row[1], geom.R(pad+firstW+cellPad, 0, w-firstW-2*cellPad, 0), b.Font(1.5*u, weight, col))
		if head {
			right.Tag = "th"
		}
		h := max(left.Box.H, right.Box.H) + 2*cellPad
		st := render.Style{Background: slate50, BorderWidth: 1, BorderColor: slate200}
		if head {
			st = render.Style{Background: b.Color("primary")}
		}
		tr := b.Box("tr", geom.R(pad, y, w, h), st)
		left.Shift(0, y+cellPad)
		right.Shift(0, y+cellPad)
		table.Append(tr.Append(left, right))
		y += h
	}
	table.Box.H = y - table.Box.Y
	return root.Append(table)
}

func comparisonNative(c *Canvas, page document.Page) {
	ct := page.Content
	c.Text(ct.Title, 0.5, 0.5, 0.9*DesignWidth, 0.6, titleStyle(c, 28, pptx.AlignLeft))
	c.Table(comparisonRows(ct), 0.5, 1.5, 9, pptx.TableStyle{
		Size:        12,
		Color:       c.Color("text"),
		Fill:        "F8FAFC",
		BorderColor: "E2E8F0",
		HeaderBold:  true,
		ColWidths:   []float64{3, 6},
	})
}
