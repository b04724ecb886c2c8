package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxMainPart = "word/document.xml"

// Docx returns the text of a Word document, one paragraph per block.
// Heading and title paragraphs become markdown headings and numbered or
// bulleted paragraphs become "- " lines. Headers and footers are not read.
func Docx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("ingest: reading docx: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != docxMainPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("ingest: reading docx: %w", err)
		}
		defer rc.Close()
		text, err := docxText(io.LimitReader(rc, MaxBytes))
		if err != nil {
			return "", fmt.Errorf("ingest: reading docx: %w", err)
		}
		return Text([]byte(text))
	}
	return "", fmt.Errorf("ingest: reading docx: %s missing", docxMainPart)
}

// docxText walks the WordprocessingML body.
func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		paras []string
		cur   strings.Builder
		inP   bool
		inT   bool
		level int
		list  bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inP, level, list = true, 0, false
				cur.Reset()
			case "pStyle":
				level = headingLevel(attr(t, "val"))
			case "numPr":
				list = true
			case "t":
				inT = true
			case "tab":
				if inP {
					cur.WriteByte('\t')
				}
			case "br", "cr":
				if inP {
					cur.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inT {
				cur.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inT = false
			case "p":
				inP = false
				line := strings.TrimSpace(cur.String())
				if line == "" {
					continue
				}
				switch {
				case level > 0:
					line = strings.Repeat("#", level) + " " + line
				case list:
					line = "- " + line
				}
				paras = append(paras, line)
			}
		}
	}
	return strings.Join(paras, "\n\n"), nil
}

// headingLevel maps a paragraph style id such as "Heading2" or "Title" to a
// markdown heading level, or 0.
func headingLevel(style string) int {
	s := strings.ToLower(style)
	switch {
	case s == "title":
		return 1
	case strings.HasPrefix(s, "heading") && len(s) == len("heading")+1:
		if d := s[len(s)-1]; d >= '1' && d <= '6' {
			return int(d - '0')
		}
	}
	return 0
}

func attr(e xml.StartElement, local string) string {
	for _, a := range e.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
