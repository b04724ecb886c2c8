package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lvillar/deckforge/document"
)

var (
	fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	fencedAny  = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
	bareJSON   = regexp.MustCompile(`(?s)(\{.*\}|\[.*\])`)
)

// extractJSON returns the JSON payload of a model reply that may wrap it in
// a fenced block or surround it with prose.
func extractJSON(reply string) string {
	for _, re := range []*regexp.Regexp{fencedJSON, fencedAny, bareJSON} {
		if m := re.FindStringSubmatch(reply); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return strings.TrimSpace(reply)
}

// parseDocument decodes a generated document in either the current or the
// legacy shape.
func parseDocument(reply string) (*document.Document, error) {
	data := []byte(extractJSON(reply))
	var (
		doc *document.Document
		err error
	)
	if document.IsLegacy(data) {
		doc, err = document.ParseLegacy(data)
	} else {
		doc, err = document.Parse(data)
	}
	if err != nil {
		return nil, err
	}
	if len(doc.Pages) == 0 {
		return nil, errors.New("document has no pages")
	}
	return doc, nil
}

// parsePage decodes one generated page. The reply may be a page object, a
// whole document (the first page is used), a legacy page or a bare content
// object; tag is used when the reply names no template.
func parsePage(reply string, tag document.Tag) (document.Page, error) {
	data := []byte(extractJSON(reply))
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return document.Page{}, fmt.Errorf("parsing page JSON: %w", err)
	}

	switch {
	case has(probe, "pages"), has(probe, "paginas"):
		doc, err := parseDocument(string(data))
		if err != nil {
			return document.Page{}, err
		}
		return doc.Pages[0], nil

	case has(probe, "layout_type"), has(probe, "conteudo"):
		if !has(probe, "layout_type") {
			probe["layout_type"], _ = json.Marshal(string(tag))
		}
		page, _ := json.Marshal(probe)
		doc, err := document.ParseLegacy([]byte(`{"paginas":[` + string(page) + `]}`))
		if err != nil {
			return document.Page{}, err
		}
		return doc.Pages[0], nil

	case has(probe, "template"), has(probe, "content"):
		var p document.Page
		if err := json.Unmarshal(data, &p); err != nil {
			return document.Page{}, fmt.Errorf("parsing page JSON: %w", err)
		}
		if p.Template == "" {
			p.Template = tag
		}
		return p, nil

	default:
		var c document.Content
		if err := json.Unmarshal(data, &c); err != nil {
			return document.Page{}, fmt.Errorf("parsing page content: %w", err)
		}
		return document.Page{Template: tag, Content: c}, nil
	}
}

// parseChunks decodes a section list given as an array or wrapped in a
// "sections" or "chunks" field.
func parseChunks(reply string) ([]Chunk, error) {
	data := []byte(extractJSON(reply))
	var chunks []Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		var wrapped struct {
			Sections []Chunk `json:"sections"`
			Chunks   []Chunk `json:"chunks"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("parsing sections JSON: %w", err)
		}
		chunks = wrapped.Sections
		if len(chunks) == 0 {
			chunks = wrapped.Chunks
		}
	}
	if len(chunks) == 0 {
		return nil, errors.New("no sections in reply")
	}
	return chunks, nil
}

func has(m map[string]json.RawMessage, key string) bool {
	_, ok := m[key]
	return ok
}
