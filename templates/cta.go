package templates

import (
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
)

const ctaBackground = "#f0fdf4"

func ctaLayout(b *render.Builder, page document.Page) *render.Node {
	c := page.Content
	u := b.Unit()
	root := b.Root(render.RGBA(ctaBackground, 1))
	root.Append(b.Box("div", geom.R(0, 0, b.Width, 0.8*u), render.Style{Background: b.Color("primary")}))

	w := b.Width - 24*u
	s := b.Stack(12*u, 0, w, 3*u)
	tile := b.Box("div", geom.R(0, 0, 8*u, 8*u), render.Style{Background: render.RGBA("#10b981", 1), Radius: 2 * u, Shadow: true})
	tile.Append(b.Icon(geom.R(2*u, 2*u, 4*u, 4*u), "zap", render.White))
	s.Node(tile)
	tile.Shift((b.Width-8*u)/2-tile.Box.X, 0)

	title := centered(b.Font(5*u, "900", render.RGBA("#064e3b", 1)))
	title.LineHeight = 1.1
	stackText(s, "h2", c.FinalTitle, title)
	summary := centered(b.Font(2*u, "400", render.RGBA("#065f46", 1)))
	summary.LineHeight = 1.5
	stackText(s, "p", c.Summary, summary)

	if c.CTAText != "" {
		st := b.Font(1.8*u, "800", render.White)
		bw := b.Measure(st, c.CTAText) + 10*u
		if bw > w {
			bw = w
		}
		btn := b.Box("div", geom.R(0, 0, bw, 6*u), render.Style{Background: render.RGBA("#0f172a", 1), Radius: 3 * u, Shadow: true})
		label := b.Text("button", c.CTAText, geom.R(3*u, 0, bw-9*u, 0), st)
		label.Shift(0, (6*u-label.Box.H)/2)
		btn.Append(label, b.Icon(geom.R(bw-5.5*u, 1.75*u, 2.5*u, 2.5*u), "arrow-right", render.White))
		s.Space(1 * u)
		s.Node(btn)
		btn.Shift((b.Width-bw)/2-btn.Box.X, 0)
	}
	s.CenterIn(0, b.Height)
	return root.Append(s.Nodes()...)
}

func ctaNative(c *Canvas, page document.Page) {
	ct := page.Content
	c.Background(ctaBackground)
	c.Text(ct.FinalTitle, 0, 1.2, DesignWidth, 1.5, titleStyle(c, 54, pptx.AlignCenter))
	summary := bodyStyle(24, c.Color("text"))
	summary.Align = pptx.AlignCenter
	c.Text(ct.Summary, 1, 2.8, 8, 1.4, summary)
	if ct.CTAText == "" {
		return
	}
	c.TextShape(ct.CTAText, 3.5, 4.4, 3, 0.8,
		pptx.TextStyle{Size: 18, Bold: true, Color: "FFFFFF", Align: pptx.AlignCenter, Anchor: pptx.AnchorMiddle},
		pptx.ShapeStyle{
			Geometry: pptx.RoundRect,
			Radius:   0.4,
			Fill:     &pptx.Fill{Color: c.Color("primary")},
			Shadow:   softShadow("000000", 10, 5, 0.2),
		})
}
