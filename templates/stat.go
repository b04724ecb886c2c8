package templates

import (
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
)

func statLayout(b *render.Builder, page document.Page) *render.Node {
	c := page.Content
	u := b.Unit()
	root := b.Root(slate950)
	bg := b.Image(b.Bounds(), c.BackgroundImage.Or(document.ImageRef{Prompt: "abstract background"}), false)
	bg.Style.Opacity = 0.4
	root.Append(bg)

	s := b.Stack(10*u, 0, b.Width-20*u, 3*u)
	pill := centered(b.Font(1.1*u, "800", render.RGBA("#93c5fd", 1)))
	pill.Uppercase = true
	lw := b.Measure(pill, "KEY METRIC") + 4*u
	tag := b.Box("div", geom.R(0, 0, lw, 3*u), render.Style{Background: render.RGBA("#2563eb", 0.25), Radius: 1.5 * u})
	label := b.Text("span", "Key metric", geom.R(0, 0, lw, 0), pill)
	label.Shift(0, (3*u-label.Box.H)/2)
	s.Node(tag.Append(label))
	tag.Shift((b.Width-lw)/2-tag.Box.X, 0)

	big := centered(b.Font(14*u, "900", render.White))
	big.LineHeight = 1
	stackText(s, "h2", c.BigNumber, big)
	expl := centered(b.Font(2.4*u, "400", render.RGBA("#cbd5e1", 1)))
	expl.LineHeight = 1.4
	stackText(s, "p", c.Explanation, expl)
	s.CenterIn(0, b.Height)
	return root.Append(s.Nodes()...)
}

func statNative(c *Canvas, page document.Page) {
	ct := page.Content
	c.Background("0F172A")
	if !ct.BackgroundImage.IsZero() {
		c.Image(ct.BackgroundImage, 0, 0, DesignWidth, DesignHeight, false)
		c.Overlay("0F172A", 70)
	}
	c.Text(ct.BigNumber, 0, 0.25*DesignHeight, DesignWidth, 2,
		pptx.TextStyle{Face: "Arial Black", Size: 120, Bold: true, Color: "FFFFFF", Align: pptx.AlignCenter})
	c.Text(ct.Explanation, 1, 0.6*DesignHeight, 8, 1,
		pptx.TextStyle{Size: 32, Color: "CCCCCC", Align: pptx.AlignCenter})
}
