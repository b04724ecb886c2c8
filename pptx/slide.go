package pptx

import (
	"fmt"
	"math"
	"strings"
)

// Slide is one slide of a presentation. Shapes are drawn in the order they
// are added.
type Slide struct {
	p      *Presentation
	bg     string
	shapes []string
	images []string // media part names, relationship ids rId2...
	nextID int
}

// Background sets the slide background color.
func (s *Slide) Background(color string) {
	s.bg = hexColor(color)
}

// AddShape adds a filled or outlined shape without text.
func (s *Slide) AddShape(b Box, st ShapeStyle) {
	id := s.id()
	var x strings.Builder
	fmt.Fprintf(&x, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Shape %d"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`, id, id-1)
	writeSpPr(&x, b, st)
	x.WriteString(`</p:sp>`)
	s.shapes = append(s.shapes, x.String())
}

// AddText adds a text box. Lines of text become separate paragraphs.
func (s *Slide) AddText(text string, b Box, ts TextStyle) {
	s.AddTextShape(text, b, ts, ShapeStyle{})
}

// AddTextShape adds a shape carrying text, e.g. a filled button.
func (s *Slide) AddTextShape(text string, b Box, ts TextStyle, st ShapeStyle) {
	id := s.id()
	var x strings.Builder
	fmt.Fprintf(&x, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Text %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, id-1)
	writeSpPr(&x, b, st)
	writeTxBody(&x, "p:txBody", text, ts, true)
	x.WriteString(`</p:sp>`)
	s.shapes = append(s.shapes, x.String())
}

// AddImage embeds an image. data must be PNG or JPEG; ext is "png" or
// "jpeg". When srcW and srcH are positive the picture is cropped to cover
// the box without distortion; otherwise it is stretched. Circle clips the
// picture to an ellipse.
func (s *Slide) AddImage(data []byte, ext string, b Box, srcW, srcH int, circle bool) error {
	part, err := s.p.addMedia(data, ext)
	if err != nil {
		return err
	}
	rel := -1
	for i, name := range s.images {
		if name == part {
			rel = i
		}
	}
	if rel < 0 {
		s.images = append(s.images, part)
		rel = len(s.images) - 1
	}

	id := s.id()
	geometry := Rect
	if circle {
		geometry = Ellipse
	}
	var x strings.Builder
	fmt.Fprintf(&x, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`, id, id-1)
	fmt.Fprintf(&x, `<p:blipFill><a:blip r:embed="rId%d"/>`, rel+2)
	if l, t, r, bt, ok := coverCrop(float64(srcW), float64(srcH), b.W, b.H); ok {
		fmt.Fprintf(&x, `<a:srcRect l="%d" t="%d" r="%d" b="%d"/>`, l, t, r, bt)
	}
	x.WriteString(`<a:stretch><a:fillRect/></a:stretch></p:blipFill>`)
	x.WriteString(`<p:spPr>`)
	writeXfrm(&x, "a:xfrm", b)
	fmt.Fprintf(&x, `<a:prstGeom prst="%s"><a:avLst/></a:prstGeom></p:spPr></p:pic>`, geometry)
	s.shapes = append(s.shapes, x.String())
	return nil
}

// AddTable adds a table. Rows may have different lengths; missing cells are
// left empty. The first row is the header.
func (s *Slide) AddTable(rows [][]string, b Box, ts TableStyle) {
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	if cols == 0 {
		return
	}
	widths := ts.ColWidths
	if len(widths) != cols {
		widths = make([]float64, cols)
		for i := range widths {
			widths[i] = b.W / float64(cols)
		}
	}
	rowH := ts.RowHeight
	if rowH <= 0 {
		rowH = 0.4
	}
	b.H = rowH * float64(len(rows))

	id := s.id()
	var x strings.Builder
	fmt.Fprintf(&x, `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Table %d"/><p:cNvGraphicFramePr><a:graphicFrameLocks noGrp="1"/></p:cNvGraphicFramePr><p:nvPr/></p:nvGraphicFramePr>`, id, id-1)
	writeXfrm(&x, "p:xfrm", b)
	fmt.Fprintf(&x, `<a:graphic><a:graphicData uri="%s"><a:tbl><a:tblPr firstRow="1" bandRow="1"/><a:tblGrid>`, nsTable)
	for _, w := range widths {
		fmt.Fprintf(&x, `<a:gridCol w="%d"/>`, emu(w))
	}
	x.WriteString(`</a:tblGrid>`)
	for ri, r := range rows {
		fmt.Fprintf(&x, `<a:tr h="%d">`, emu(rowH))
		for c := 0; c < cols; c++ {
			cell := ""
			if c < len(r) {
				cell = r[c]
			}
			text := TextStyle{Face: ts.Face, Size: ts.Size, Color: ts.Color, Bold: ts.HeaderBold && ri == 0}
			x.WriteString(`<a:tc>`)
			writeTxBody(&x, "a:txBody", cell, text, false)
			x.WriteString(`<a:tcPr>`)
			if ts.BorderColor != "" {
				for _, side := range []string{"lnL", "lnR", "lnT", "lnB"} {
					fmt.Fprintf(&x, `<a:%s w="%d"><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:%s>`, side, emuPerPoint, hexColor(ts.BorderColor), side)
				}
			}
			if ts.Fill != "" {
				fmt.Fprintf(&x, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, hexColor(ts.Fill))
			}
			x.WriteString(`</a:tcPr></a:tc>`)
		}
		x.WriteString(`</a:tr>`)
	}
	x.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
	s.shapes = append(s.shapes, x.String())
}

// ShapeCount returns the number of shapes drawn so far.
func (s *Slide) ShapeCount() int {
	return len(s.shapes)
}

func (s *Slide) id() int {
	s.nextID++
	return s.nextID + 1 // id 1 is the shape tree
}

func (s *Slide) xml() []byte {
	var x strings.Builder
	x.WriteString(xmlHeader)
	fmt.Fprintf(&x, `<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"><p:cSld>`, nsDrawingML, nsRelationships, nsPresentationML)
	if s.bg != "" {
		fmt.Fprintf(&x, `<p:bg><p:bgPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`, s.bg)
	}
	x.WriteString(`<p:spTree>`)
	x.WriteString(groupHeader)
	for _, sh := range s.shapes {
		x.WriteString(sh)
	}
	x.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return []byte(x.String())
}

func (s *Slide) rels() relationshipsXML {
	rels := relationshipsXML{Xmlns: nsPackageRels}
	rels.Relationship = append(rels.Relationship, relationshipXML{
		ID: "rId1", Type: nsRelationships + "/slideLayout", Target: "../slideLayouts/slideLayout1.xml",
	})
	for i, part := range s.images {
		rels.Relationship = append(rels.Relationship, relationshipXML{
			ID: fmt.Sprintf("rId%d", i+2), Type: nsRelationships + "/image", Target: "../media/" + part,
		})
	}
	return rels
}

const groupHeader = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

func writeXfrm(x *strings.Builder, tag string, b Box) {
	fmt.Fprintf(x, `<%s><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></%s>`,
		tag, emu(b.X), emu(b.Y), max(emu(b.W), 0), max(emu(b.H), 0), tag)
}

func writeSpPr(x *strings.Builder, b Box, st ShapeStyle) {
	geometry := st.Geometry
	if geometry == "" {
		geometry = Rect
	}
	x.WriteString(`<p:spPr>`)
	writeXfrm(x, "a:xfrm", b)
	if geometry == RoundRect && st.Radius > 0 {
		fmt.Fprintf(x, `<a:prstGeom prst="%s"><a:avLst><a:gd name="adj" fmla="val %d"/></a:avLst></a:prstGeom>`, geometry, roundAdj(st.Radius, b))
	} else {
		fmt.Fprintf(x, `<a:prstGeom prst="%s"><a:avLst/></a:prstGeom>`, geometry)
	}
	if st.Fill != nil {
		writeSolidFill(x, st.Fill.Color, st.Fill.Transparency)
	} else {
		x.WriteString(`<a:noFill/>`)
	}
	if st.Line != nil {
		w := st.Line.Width
		if w <= 0 {
			w = 1
		}
		fmt.Fprintf(x, `<a:ln w="%d">`, int64(math.Round(w*emuPerPoint)))
		writeSolidFill(x, st.Line.Color, 0)
		x.WriteString(`</a:ln>`)
	} else {
		x.WriteString(`<a:ln><a:noFill/></a:ln>`)
	}
	if sh := st.Shadow; sh != nil {
		op := sh.Opacity
		if op <= 0 || op > 1 {
			op = 0.35
		}
		fmt.Fprintf(x, `<a:effectLst><a:outerShdw blurRad="%d" dist="%d" dir="%d" algn="bl" rotWithShape="0"><a:srgbClr val="%s"><a:alpha val="%d"/></a:srgbClr></a:outerShdw></a:effectLst>`,
			int64(sh.Blur*emuPerPoint), int64(sh.Offset*emuPerPoint), int64(math.Mod(sh.Angle, 360)*60000), hexColor(sh.Color), int64(op*100000))
	}
	x.WriteString(`</p:spPr>`)
}

func writeSolidFill(x *strings.Builder, color string, transparency float64) {
	if transparency > 0 {
		alpha := int64(math.Round((100 - math.Min(transparency, 100)) * 1000))
		fmt.Fprintf(x, `<a:solidFill><a:srgbClr val="%s"><a:alpha val="%d"/></a:srgbClr></a:solidFill>`, hexColor(color), alpha)
		return
	}
	fmt.Fprintf(x, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, hexColor(color))
}

func writeTxBody(x *strings.Builder, tag, text string, ts TextStyle, box bool) {
	fmt.Fprintf(x, `<%s>`, tag)
	if box {
		anchor := ts.Anchor
		if anchor == "" {
			anchor = AnchorTop
		}
		fmt.Fprintf(x, `<a:bodyPr wrap="square" lIns="91440" tIns="45720" rIns="91440" bIns="45720" anchor="%s" rtlCol="0"><a:noAutofit/></a:bodyPr>`, anchor)
	} else {
		x.WriteString(`<a:bodyPr/>`)
	}
	x.WriteString(`<a:lstStyle/>`)
	for _, line := range strings.Split(text, "\n") {
		x.WriteString(`<a:p>`)
		if ts.Align != "" {
			fmt.Fprintf(x, `<a:pPr algn="%s"/>`, ts.Align)
		}
		rpr := runProps(ts)
		if line == "" {
			fmt.Fprintf(x, `<a:endParaRPr %s/>`, rpr)
		} else {
			fmt.Fprintf(x, `<a:r><a:rPr %s>`, rpr)
			if ts.Color != "" {
				writeSolidFill(x, ts.Color, 0)
			}
			if ts.Face != "" {
				fmt.Fprintf(x, `<a:latin typeface="%s"/>`, escape(ts.Face))
			}
			fmt.Fprintf(x, `</a:rPr><a:t>%s</a:t></a:r>`, escape(line))
		}
		x.WriteString(`</a:p>`)
	}
	fmt.Fprintf(x, `</%s>`, tag)
}

func runProps(ts TextStyle) string {
	attrs := []string{`lang="en-US"`}
	if ts.Size > 0 {
		attrs = append(attrs, fmt.Sprintf(`sz="%d"`, int64(math.Round(ts.Size*100))))
	}
	if ts.Bold {
		attrs = append(attrs, `b="1"`)
	}
	if ts.Italic {
		attrs = append(attrs, `i="1"`)
	}
	attrs = append(attrs, `dirty="0"`)
	return strings.Join(attrs, " ")
}

// roundAdj converts a corner radius to the roundRect adjust value, a share
// of the shorter side in 1/100000, capped at half.
func roundAdj(radius float64, b Box) int64 {
	short := math.Min(b.W, b.H)
	if short <= 0 {
		return 0
	}
	return min(int64(math.Round(radius/short*100000)), 50000)
}

// coverCrop returns the srcRect insets (1/100000 of the source) that crop
// a srcW x srcH picture to the aspect of a w x h box.
func coverCrop(srcW, srcH, w, h float64) (l, t, r, b int64, ok bool) {
	if srcW <= 0 || srcH <= 0 || w <= 0 || h <= 0 {
		return 0, 0, 0, 0, false
	}
	src, dst := srcW/srcH, w/h
	switch {
	case math.Abs(src-dst) < 1e-3:
		return 0, 0, 0, 0, false
	case src > dst:
		cut := int64(math.Round((1 - dst/src) / 2 * 100000))
		return cut, 0, cut, 0, true
	default:
		cut := int64(math.Round((1 - src/dst) / 2 * 100000))
		return 0, cut, 0, cut, true
	}
}
