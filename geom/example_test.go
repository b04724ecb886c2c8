package geom_test

import (
	"fmt"

	"github.com/lvillar/deckforge/geom"
)

// ExampleProfile_ToOutput maps render pixels onto an A4 page.
func ExampleProfile_ToOutput() {
	p := geom.MustDocumentProfile(geom.FormatA4)
	fmt.Printf("center: %.2f%s\n", p.ToOutput(620), p.Unit)
	fmt.Printf("width:  %.2f%s\n", p.ToOutput(p.RenderWidth), p.Unit)

	slide := geom.MustSlideProfile(geom.FormatWide)
	fmt.Printf("slide:  %.3f%s\n", slide.ToOutput(800), slide.Unit)
	// Output:
	// center: 297.64pt
	// width:  595.28pt
	// slide:  5.000in
}
