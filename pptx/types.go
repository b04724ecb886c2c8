// Package pptx writes PresentationML (.pptx) packages made of positioned
// native shapes: text boxes, filled geometry, pictures and tables.
//
// Coordinates are in inches from the top-left corner of the slide, font
// sizes in points and colors in RRGGBB hex (a leading # is accepted).
package pptx

import (
	"encoding/xml"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// XML namespaces used in PPTX files.
const (
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsRelationships  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageRels    = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsTable          = "http://schemas.openxmlformats.org/drawingml/2006/table"
)

// EMUPerInch is the number of English Metric Units in an inch.
const EMUPerInch = 914400

const emuPerPoint = 12700

// Geometry is a preset shape outline.
type Geometry string

// Supported geometries.
const (
	Rect      Geometry = "rect"
	RoundRect Geometry = "roundRect"
	Ellipse   Geometry = "ellipse"
)

// Align is a paragraph alignment.
type Align string

// Paragraph alignments.
const (
	AlignLeft   Align = "l"
	AlignCenter Align = "ctr"
	AlignRight  Align = "r"
)

// Anchor is the vertical anchoring of text in its box.
type Anchor string

// Vertical anchors.
const (
	AnchorTop    Anchor = "t"
	AnchorMiddle Anchor = "ctr"
	AnchorBottom Anchor = "b"
)

// Box is a slide region in inches.
type Box struct {
	X, Y, W, H float64
}

// Fill is a solid fill. Transparency runs from 0 (opaque) to 100.
type Fill struct {
	Color        string
	Transparency float64
}

// Line is a shape outline. Width is in points; zero means 1pt.
type Line struct {
	Color string
	Width float64
}

// Shadow is an outer shadow. Blur and Offset are in points, Angle in
// degrees and Opacity from 0 to 1.
type Shadow struct {
	Color   string
	Blur    float64
	Offset  float64
	Angle   float64
	Opacity float64
}

// ShapeStyle describes the geometry and decoration of a shape.
type ShapeStyle struct {
	Geometry Geometry
	Fill     *Fill
	Line     *Line
	Radius   float64 // corner radius in inches, RoundRect only
	Shadow   *Shadow
}

// TextStyle describes the runs of a text box.
type TextStyle struct {
	Face   string
	Size   float64
	Bold   bool
	Italic bool
	Color  string
	Align  Align
	Anchor Anchor
}

// TableStyle describes a table. Column widths default to equal shares of
// the box width.
type TableStyle struct {
	Face        string
	Size        float64
	Color       string
	Fill        string
	BorderColor string
	HeaderBold  bool
	ColWidths   []float64
	RowHeight   float64
}

// contentTypesXML is [Content_Types].xml.
type contentTypesXML struct {
	XMLName   xml.Name          `xml:"Types"`
	Xmlns     string            `xml:"xmlns,attr"`
	Defaults  []defaultTypeXML  `xml:"Default"`
	Overrides []overrideTypeXML `xml:"Override"`
}

type defaultTypeXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type overrideTypeXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// relationshipsXML is a .rels part.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Xmlns        string            `xml:"xmlns,attr"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// emu converts inches to EMU.
func emu(in float64) int64 {
	if math.IsNaN(in) || math.IsInf(in, 0) {
		return 0
	}
	return int64(math.Round(in * EMUPerInch))
}

// hexColor normalizes a color to upper-case RRGGBB. Unparseable colors
// become black.
func hexColor(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "000000"
	}
	return strings.ToUpper(strings.TrimPrefix(c.Clamped().Hex(), "#"))
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
