package templates

import (
	"strings"
	"unicode"

	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/pptx"
	"github.com/lvillar/deckforge/render"
)

// featuredPlan is the index of the highlighted plan.
const featuredPlan = 1

// plan returns the structured price of an item, reading the packed
// "price|feature,feature" description when the item has none.
func plan(it document.Item) document.Pricing {
	if it.Pricing != nil {
		return *it.Pricing
	}
	if strings.Contains(it.Description, "|") {
		return *document.SplitPackedPricing(it.Description)
	}
	return document.Pricing{}
}

// priceLabel prefixes bare amounts with a dollar sign.
func priceLabel(price string) string {
	price = strings.TrimSpace(price)
	if price == "" {
		return ""
	}
	if r := []rune(price)[0]; unicode.IsDigit(r) {
		return "$" + price
	}
	return price
}

func pricingLayout(b *render.Builder, page document.Page) *render.Node {
	c := page.Content
	u := b.Unit()
	pad := 6 * u
	root := b.Root(b.Color("bg"))
	title := heading(b, c.Title, pad, pad, b.Width-2*pad, render.AlignCenter, b.Color("text"))
	root.Append(title)

	n := len(c.Items)
	if n == 0 {
		return root
	}
	top := title.Box.Bottom() + 4*u
	area := geom.R(pad, top, b.Width-2*pad, b.Height-top-pad)
	var cells []geom.Rect
	if b.Height > b.Width {
		cells = area.Rows(n, 2.5*u)
	} else {
		cells = area.Columns(n, 2.5*u)
	}
	for i, it := range c.Items {
		cell := cells[i]
		featured := i == featuredPlan
		bg, ink, soft := render.White, b.Color("text"), slate500
		if featured {
			bg, ink, soft = b.Color("primary"), render.White, render.RGBA("#ffffff", 0.85)
		}
		box := card(b, cell, 2.5*u)
		box.Style.Background = bg
		if featured {
			box.Style.BorderWidth = 0
		}
		p := plan(it)
		s := b.Stack(cell.X+2.5*u, cell.Y+3*u, cell.W-5*u, 1.2*u)
		stackText(s, "h4", it.Title, centered(b.Font(2*u, "800", ink)))
		price := centered(b.Font(4.2*u, "900", ink))
		price.LineHeight = 1.1
		stackText(s, "p", priceLabel(p.Price), price)
		s.Space(1.5 * u)
		for _, f := range p.Features {
			stackText(s, "li", "• "+f, b.Font(1.3*u, "400", soft))
		}
		root.Append(box.Append(s.Nodes()...))
	}
	return root
}

func pricingNative(c *Canvas, page document.Page) {
	ct := page.Content
	c.Text(ct.Title, 0, 0.5, DesignWidth, 0.6, titleStyle(c, 32, pptx.AlignCenter))
	for i, it := range ct.Items {
		x := 0.5 + float64(i)*3.1
		featured := i == featuredPlan
		fill, ink := "FFFFFF", c.Color("text")
		if featured {
			fill, ink = c.Color("primary"), "FFFFFF"
		}
		c.Shape(x, 1.4, 2.8, 3.95, pptx.ShapeStyle{
			Geometry: pptx.RoundRect,
			Radius:   0.2,
			Fill:     &pptx.Fill{Color: fill},
			Shadow:   softShadow("64748B", 15, 8, 0.15),
		})
		p := plan(it)
		c.Text(it.Title, x, 1.7, 2.8, 0.4, pptx.TextStyle{Size: 20, Bold: true, Color: ink, Align: pptx.AlignCenter})
		c.Text(priceLabel(p.Price), x, 2.2, 2.8, 0.6, pptx.TextStyle{Size: 36, Bold: true, Color: ink, Align: pptx.AlignCenter})
		for f, feat := range p.Features {
			c.Text("• "+feat, x+0.2, 3.1+float64(f)*0.3, 2.4, 0.3, pptx.TextStyle{Size: 10, Color: ink})
		}
	}
}
