// Package document defines the structured representation of a generated
// deck and the state-owning store that mutates it.
//
// A Document is produced by the AI collaborator (package ai) or imported from
// JSON, edited through a Store, and consumed read-only by the exporters.
//
// Example JSON:
//
//	{
//	  "metadata": {"generatedTitle": "Cloud 101", "estimatedReadingMinutes": 4},
//	  "pages": [
//	    {"index": 1, "template": "cover", "content": {"title": "Cloud 101"}},
//	    {"index": 2, "template": "timeline", "content": {
//	      "title": "Migration", "steps": [{"title": "Assess", "description": "..."}]
//	    }}
//	  ]
//	}
package document

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lvillar/deckforge"
)

// Document is the top-level generated deck.
type Document struct {
	Metadata Metadata `json:"metadata"`
	Pages    []Page   `json:"pages"`
}

// Metadata carries the collaborator's summary of the whole deck.
type Metadata struct {
	GeneratedTitle          string `json:"generatedTitle,omitempty"`
	EstimatedReadingMinutes int    `json:"estimatedReadingMinutes,omitempty"`
	SuggestedPalette        string `json:"suggestedPalette,omitempty"`
}

// Page is one section of the deck rendered with a single template.
// Index is 1-based and always equals the page's position + 1.
type Page struct {
	Index    int     `json:"index"`
	Template Tag     `json:"template"`
	Content  Content `json:"content"`
	Locked   bool    `json:"locked,omitempty"` // advisory: excluded from bulk remix
}

// Content is the union of every template's fields. Which fields matter is
// decided by the page template; absent fields are treated as empty.
type Content struct {
	Title            string   `json:"title,omitempty"`
	Subtitle         string   `json:"subtitle,omitempty"`
	Author           string   `json:"author,omitempty"`
	SectionTitle     string   `json:"sectionTitle,omitempty"`
	BriefDescription string   `json:"briefDescription,omitempty"`
	BackgroundColor  string   `json:"backgroundColor,omitempty"` // #rrggbb
	Body             string   `json:"body,omitempty"`
	ImageSide        string   `json:"imageSide,omitempty"` // left, right
	Image            ImageRef `json:"image,omitempty"`
	BackgroundImage  ImageRef `json:"backgroundImage,omitempty"`
	Items            []Item   `json:"items,omitempty"`
	BigNumber        string   `json:"bigNumber,omitempty"`
	Explanation      string   `json:"explanation,omitempty"`
	FinalTitle       string   `json:"finalTitle,omitempty"`
	Summary          string   `json:"summary,omitempty"`
	CTAText          string   `json:"ctaText,omitempty"`
	Quote            string   `json:"quote,omitempty"`
	QuoteAuthor      string   `json:"quoteAuthor,omitempty"`
	Steps            []Step   `json:"steps,omitempty"`
}

// Item is a list element used by grid, column, table, team, pricing and FAQ
// templates.
type Item struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	IconKeyword string   `json:"iconKeyword,omitempty"`
	IconName    string   `json:"iconName,omitempty"`
	Image       ImageRef `json:"image,omitempty"`
	Pricing     *Pricing `json:"pricing,omitempty"`
}

// Pricing is the structured price of a pricing-table item.
type Pricing struct {
	Price    string   `json:"price"`
	Features []string `json:"features,omitempty"`
}

// Step is a timeline or process element.
type Step struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// ImageRef points at an image either explicitly (URL, data URI or local
// path) or through a generation prompt. An explicit URL wins over a prompt.
type ImageRef struct {
	URL    string `json:"url,omitempty"`
	Prompt string `json:"prompt,omitempty"`
}

// IsZero reports whether the reference names no image at all.
func (r ImageRef) IsZero() bool {
	return strings.TrimSpace(r.URL) == "" && strings.TrimSpace(r.Prompt) == ""
}

// Or returns r, or fallback when r is empty.
func (r ImageRef) Or(fallback ImageRef) ImageRef {
	if r.IsZero() {
		return fallback
	}
	return r
}

// QuoteText returns the quote, falling back to the page body.
func (c Content) QuoteText() string {
	if c.Quote != "" {
		return c.Quote
	}
	return c.Body
}

// QuoteAttribution returns the quote author, falling back to the page author.
func (c Content) QuoteAttribution() string {
	if c.QuoteAuthor != "" {
		return c.QuoteAuthor
	}
	return c.Author
}

// HeadingText returns the first non-empty of the headline fields.
func (c Content) HeadingText() string {
	for _, s := range []string{c.Title, c.SectionTitle, c.FinalTitle, c.BigNumber, c.Quote} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{Metadata: d.Metadata, Pages: make([]Page, len(d.Pages))}
	for i, p := range d.Pages {
		out.Pages[i] = p.Clone()
	}
	return out
}

// Clone returns a deep copy of the page.
func (p Page) Clone() Page {
	out := p
	if p.Content.Items != nil {
		out.Content.Items = make([]Item, len(p.Content.Items))
		for i, it := range p.Content.Items {
			if it.Pricing != nil {
				pr := *it.Pricing
				pr.Features = append([]string(nil), it.Pricing.Features...)
				it.Pricing = &pr
			}
			out.Content.Items[i] = it
		}
	}
	if p.Content.Steps != nil {
		out.Content.Steps = append([]Step(nil), p.Content.Steps...)
	}
	return out
}

// Renumber re-establishes the index invariant: Pages[i].Index == i+1.
func (d *Document) Renumber() {
	for i := range d.Pages {
		d.Pages[i].Index = i + 1
	}
}

// Validate checks the invariants the exporters rely on: dense 1-based
// indices. Unknown template tags are not an error here; the exporters render
// them as placeholders.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil document", deckforge.ErrInvalidDocument)
	}
	for i, p := range d.Pages {
		if p.Index != i+1 {
			return fmt.Errorf("%w: page at position %d has index %d", deckforge.ErrInvalidDocument, i, p.Index)
		}
	}
	return nil
}

// Parse decodes a document from JSON, renumbers its pages and validates it.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("document: parsing JSON: %w", err)
	}
	doc.Renumber()
	return &doc, nil
}

// Read decodes a document from r. See Parse.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("document: reading input: %w", err)
	}
	return Parse(data)
}

// Marshal encodes the document as indented JSON.
func (d *Document) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Title returns the generated title or a fallback suitable for file names.
func (d *Document) Title() string {
	if d != nil && strings.TrimSpace(d.Metadata.GeneratedTitle) != "" {
		return d.Metadata.GeneratedTitle
	}
	return "ebook"
}
