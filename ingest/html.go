package ingest

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const (
	blockSelector = "h1, h2, h3, h4, h5, h6, p, li, blockquote, pre, td"
	noiseSelector = "script, style, noscript, nav, header, footer, aside, form, iframe, svg"
	// minHTMLText is the block text below which the page is handed to the
	// readability extractor.
	minHTMLText = 200
)

// HTML returns the title and the readable text of an HTML page. Block
// elements become paragraphs, headings become markdown headings and list
// items become "- " lines.
func HTML(data []byte) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("ingest: parsing HTML: %w", err)
	}
	title = htmlTitle(doc)
	doc.Find(noiseSelector).Remove()

	var blocks []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are emitted by their outermost block.
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		line := collapse(s.Text())
		if line == "" {
			return
		}
		switch tag := goquery.NodeName(s); tag {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			line = strings.Repeat("#", int(tag[1]-'0')) + " " + line
		case "li":
			line = "- " + line
		case "blockquote":
			line = "> " + line
		}
		blocks = append(blocks, line)
	})
	text = strings.Join(blocks, "\n\n")

	// Pages that keep their text outside block elements.
	body := collapse(doc.Find("body").Text())
	if len(text) < minHTMLText && len(body) > 2*len(text) {
		text = body
		if fallback := readable(data); fallback != "" {
			text = fallback
		}
	}
	text, err = Text([]byte(text))
	return title, text, err
}

func htmlTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	if t := collapse(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return collapse(doc.Find("h1").First().Text())
}

// readable runs the readability extractor and returns its text, or "".
func readable(data []byte) string {
	article, err := readability.FromReader(bytes.NewReader(data), &url.URL{Scheme: "file", Path: "/upload.html"})
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
