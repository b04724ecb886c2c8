package pptx

import (
	"archive/zip"
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Content types of the package parts.
const (
	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctPresProps    = "application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"
	ctViewProps    = "application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"
	ctTableStyles  = "application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctCore         = "application/vnd.openxmlformats-package.core-properties+xml"
	ctApp          = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels         = "application/vnd.openxmlformats-package.relationships+xml"
)

type media struct {
	name string
	data []byte
}

// Presentation is a deck being assembled in memory.
type Presentation struct {
	Title   string
	Author  string
	Accent  string // theme accent1 color
	Created time.Time

	width, height float64
	slides        []*Slide
	media         []media
	mediaByHash   map[string]string
}

// New returns an empty presentation with slides of w x h inches.
func New(w, h float64) *Presentation {
	return &Presentation{
		Accent:      "2563EB",
		Created:     time.Now().UTC(),
		width:       w,
		height:      h,
		mediaByHash: make(map[string]string),
	}
}

// Size returns the slide size in inches.
func (p *Presentation) Size() (w, h float64) {
	return p.width, p.height
}

// AddSlide appends a blank slide.
func (p *Presentation) AddSlide() *Slide {
	s := &Slide{p: p}
	p.slides = append(p.slides, s)
	return s
}

// SlideCount returns the number of slides.
func (p *Presentation) SlideCount() int {
	return len(p.slides)
}

// MediaCount returns the number of distinct embedded media parts.
func (p *Presentation) MediaCount() int {
	return len(p.media)
}

// addMedia stores data once per content hash and returns its part name.
func (p *Presentation) addMedia(data []byte, ext string) (string, error) {
	switch strings.ToLower(ext) {
	case "png":
		ext = "png"
	case "jpg", "jpeg":
		ext = "jpeg"
	default:
		return "", fmt.Errorf("pptx: unsupported image type %q", ext)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("pptx: empty image")
	}
	sum := sha1.Sum(data)
	key := hex.EncodeToString(sum[:])
	if name, ok := p.mediaByHash[key]; ok {
		return name, nil
	}
	name := fmt.Sprintf("image%d.%s", len(p.media)+1, ext)
	p.media = append(p.media, media{name: name, data: data})
	p.mediaByHash[key] = name
	return name, nil
}

// Bytes returns the encoded package.
func (p *Presentation) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes the package to w.
func (p *Presentation) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		data func() ([]byte, error)
	}{
		{"[Content_Types].xml", func() ([]byte, error) { return marshal(p.contentTypes()) }},
		{"_rels/.rels", func() ([]byte, error) { return marshal(packageRels()) }},
		{"docProps/core.xml", func() ([]byte, error) { return []byte(p.coreXML()), nil }},
		{"docProps/app.xml", func() ([]byte, error) { return []byte(p.appXML()), nil }},
		{"ppt/presentation.xml", func() ([]byte, error) { return []byte(p.presentationXML()), nil }},
		{"ppt/_rels/presentation.xml.rels", func() ([]byte, error) { return marshal(p.presentationRels()) }},
		{"ppt/presProps.xml", constPart(presPropsXML)},
		{"ppt/viewProps.xml", constPart(viewPropsXML)},
		{"ppt/tableStyles.xml", constPart(tableStylesXML)},
		{"ppt/theme/theme1.xml", func() ([]byte, error) { return []byte(themeXML(hexColor(p.Accent))), nil }},
		{"ppt/slideMasters/slideMaster1.xml", constPart(slideMasterXML)},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", func() ([]byte, error) { return marshal(slideMasterRels()) }},
		{"ppt/slideLayouts/slideLayout1.xml", constPart(slideLayoutXML)},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", func() ([]byte, error) { return marshal(slideLayoutRels()) }},
	}
	for _, part := range parts {
		data, err := part.data()
		if err != nil {
			return fmt.Errorf("pptx: encoding %s: %w", part.name, err)
		}
		if err := writePart(zw, part.name, data); err != nil {
			return err
		}
	}
	for i, s := range p.slides {
		if err := writePart(zw, fmt.Sprintf("ppt/slides/slide%d.xml", i+1), s.xml()); err != nil {
			return err
		}
		rels, err := marshal(s.rels())
		if err != nil {
			return fmt.Errorf("pptx: encoding slide %d relationships: %w", i+1, err)
		}
		if err := writePart(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), rels); err != nil {
			return err
		}
	}
	for _, m := range p.media {
		if err := writePart(zw, "ppt/media/"+m.name, m.data); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("pptx: closing package: %w", err)
	}
	return nil
}

func writePart(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("pptx: creating %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("pptx: writing %s: %w", name, err)
	}
	return nil
}

func constPart(s string) func() ([]byte, error) {
	return func() ([]byte, error) { return []byte(s), nil }
}

func marshal(v any) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlHeader), data...), nil
}

func (p *Presentation) contentTypes() contentTypesXML {
	ct := contentTypesXML{
		Xmlns: nsContentTypes,
		Defaults: []defaultTypeXML{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: "application/xml"},
			{Extension: "png", ContentType: "image/png"},
			{Extension: "jpeg", ContentType: "image/jpeg"},
		},
		Overrides: []overrideTypeXML{
			{PartName: "/ppt/presentation.xml", ContentType: ctPresentation},
			{PartName: "/ppt/presProps.xml", ContentType: ctPresProps},
			{PartName: "/ppt/viewProps.xml", ContentType: ctViewProps},
			{PartName: "/ppt/tableStyles.xml", ContentType: ctTableStyles},
			{PartName: "/ppt/theme/theme1.xml", ContentType: ctTheme},
			{PartName: "/ppt/slideMasters/slideMaster1.xml", ContentType: ctSlideMaster},
			{PartName: "/ppt/slideLayouts/slideLayout1.xml", ContentType: ctSlideLayout},
			{PartName: "/docProps/core.xml", ContentType: ctCore},
			{PartName: "/docProps/app.xml", ContentType: ctApp},
		},
	}
	for i := range p.slides {
		ct.Overrides = append(ct.Overrides, overrideTypeXML{
			PartName: fmt.Sprintf("/ppt/slides/slide%d.xml", i+1), ContentType: ctSlide,
		})
	}
	return ct
}

func packageRels() relationshipsXML {
	return relationshipsXML{Xmlns: nsPackageRels, Relationship: []relationshipXML{
		{ID: "rId1", Type: nsRelationships + "/officeDocument", Target: "ppt/presentation.xml"},
		{ID: "rId2", Type: nsPackageRels + "/metadata/core-properties", Target: "docProps/core.xml"},
		{ID: "rId3", Type: nsRelationships + "/extended-properties", Target: "docProps/app.xml"},
	}}
}

// presentationRels lists the master as rId1 and slide n as rId(n+1).
func (p *Presentation) presentationRels() relationshipsXML {
	rels := relationshipsXML{Xmlns: nsPackageRels}
	add := func(typ, target string) {
		rels.Relationship = append(rels.Relationship, relationshipXML{
			ID: fmt.Sprintf("rId%d", len(rels.Relationship)+1), Type: nsRelationships + "/" + typ, Target: target,
		})
	}
	add("slideMaster", "slideMasters/slideMaster1.xml")
	for i := range p.slides {
		add("slide", fmt.Sprintf("slides/slide%d.xml", i+1))
	}
	add("presProps", "presProps.xml")
	add("viewProps", "viewProps.xml")
	add("theme", "theme/theme1.xml")
	add("tableStyles", "tableStyles.xml")
	return rels
}

func slideMasterRels() relationshipsXML {
	return relationshipsXML{Xmlns: nsPackageRels, Relationship: []relationshipXML{
		{ID: "rId1", Type: nsRelationships + "/slideLayout", Target: "../slideLayouts/slideLayout1.xml"},
		{ID: "rId2", Type: nsRelationships + "/theme", Target: "../theme/theme1.xml"},
	}}
}

func slideLayoutRels() relationshipsXML {
	return relationshipsXML{Xmlns: nsPackageRels, Relationship: []relationshipXML{
		{ID: "rId1", Type: nsRelationships + "/slideMaster", Target: "../slideMasters/slideMaster1.xml"},
	}}
}

func (p *Presentation) presentationXML() string {
	var x strings.Builder
	x.WriteString(xmlHeader)
	fmt.Fprintf(&x, `<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" saveSubsetFonts="1">`, nsDrawingML, nsRelationships, nsPresentationML)
	x.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	if len(p.slides) > 0 {
		x.WriteString(`<p:sldIdLst>`)
		for i := range p.slides {
			fmt.Fprintf(&x, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+2)
		}
		x.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&x, `<p:sldSz cx="%d" cy="%d"/><p:notesSz cx="6858000" cy="9144000"/></p:presentation>`, emu(p.width), emu(p.height))
	return x.String()
}

func (p *Presentation) coreXML() string {
	created := p.Created.UTC().Format(time.RFC3339)
	return xmlHeader + `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + escape(p.Title) + `</dc:title><dc:creator>` + escape(p.Author) + `</dc:creator>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + created + `</dcterms:created>` +
		`<dcterms:modified xsi:type="dcterms:W3CDTF">` + created + `</dcterms:modified></cp:coreProperties>`
}

func (p *Presentation) appXML() string {
	return xmlHeader + `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
		`<Application>deckforge</Application>` + fmt.Sprintf(`<Slides>%d</Slides>`, len(p.slides)) + `</Properties>`
}

var presPropsXML = xmlHeader + `<p:presentationPr xmlns:a="` + nsDrawingML + `" xmlns:r="` + nsRelationships + `" xmlns:p="` + nsPresentationML + `"/>`

var viewPropsXML = xmlHeader + `<p:viewPr xmlns:a="` + nsDrawingML + `" xmlns:r="` + nsRelationships + `" xmlns:p="` + nsPresentationML + `"/>`

var tableStylesXML = xmlHeader + `<a:tblStyleLst xmlns:a="` + nsDrawingML + `" def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`

var slideMasterXML = xmlHeader + `<p:sldMaster xmlns:a="` + nsDrawingML + `" xmlns:r="` + nsRelationships + `" xmlns:p="` + nsPresentationML + `">` +
	`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>` + groupHeader + `</p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`<p:txStyles><p:titleStyle><a:lvl1pPr><a:defRPr sz="3200"/></a:lvl1pPr></p:titleStyle>` +
	`<p:bodyStyle><a:lvl1pPr><a:defRPr sz="1800"/></a:lvl1pPr></p:bodyStyle>` +
	`<p:otherStyle><a:lvl1pPr><a:defRPr sz="1800"/></a:lvl1pPr></p:otherStyle></p:txStyles></p:sldMaster>`

var slideLayoutXML = xmlHeader + `<p:sldLayout xmlns:a="` + nsDrawingML + `" xmlns:r="` + nsRelationships + `" xmlns:p="` + nsPresentationML + `" type="blank" preserve="1">` +
	`<p:cSld name="Blank"><p:spTree>` + groupHeader + `</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`

func themeXML(accent string) string {
	solid := `<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>`
	font := `<a:latin typeface="Arial"/><a:ea typeface=""/><a:cs typeface=""/>`
	var x strings.Builder
	x.WriteString(xmlHeader)
	fmt.Fprintf(&x, `<a:theme xmlns:a="%s" name="Deckforge"><a:themeElements><a:clrScheme name="Deckforge">`, nsDrawingML)
	colors := []struct{ name, val string }{
		{"dk1", "000000"}, {"lt1", "FFFFFF"}, {"dk2", "1E293B"}, {"lt2", "F8FAFC"},
		{"accent1", accent}, {"accent2", "10B981"}, {"accent3", "F59E0B"},
		{"accent4", "EF4444"}, {"accent5", "8B5CF6"}, {"accent6", "0EA5E9"},
		{"hlink", "2563EB"}, {"folHlink", "7C3AED"},
	}
	for _, c := range colors {
		fmt.Fprintf(&x, `<a:%s><a:srgbClr val="%s"/></a:%s>`, c.name, c.val, c.name)
	}
	x.WriteString(`</a:clrScheme>`)
	fmt.Fprintf(&x, `<a:fontScheme name="Deckforge"><a:majorFont>%s</a:majorFont><a:minorFont>%s</a:minorFont></a:fontScheme>`, font, font)
	x.WriteString(`<a:fmtScheme name="Deckforge"><a:fillStyleLst>` + solid + solid + solid + `</a:fillStyleLst><a:lnStyleLst>`)
	for _, w := range []int{9525, 12700, 19050} {
		fmt.Fprintf(&x, `<a:ln w="%d">%s</a:ln>`, w, solid)
	}
	x.WriteString(`</a:lnStyleLst><a:effectStyleLst>`)
	for i := 0; i < 3; i++ {
		x.WriteString(`<a:effectStyle><a:effectLst/></a:effectStyle>`)
	}
	x.WriteString(`</a:effectStyleLst><a:bgFillStyleLst>` + solid + solid + solid + `</a:bgFillStyleLst></a:fmtScheme>`)
	x.WriteString(`</a:themeElements><a:objectDefaults/><a:extraClrSchemeLst/></a:theme>`)
	return x.String()
}
