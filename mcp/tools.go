package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"

	"github.com/lvillar/deckforge/ai"
	"github.com/lvillar/deckforge/deckexport"
	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/pdfexport"
	"github.com/lvillar/deckforge/studio"
	"github.com/lvillar/deckforge/templates"
)

// Toolbox is what the built-in tools work with. A nil Generator leaves
// generate_document out.
type Toolbox struct {
	PDF       *pdfexport.Exporter
	Deck      *deckexport.Exporter
	Templates *templates.Registry
	Generator ai.Generator
	Style     document.StyleConfig
	Format    geom.Format
}

// RegisterDefaultTools adds all built-in tools to the server.
func RegisterDefaultTools(s *Server, tb *Toolbox) {
	s.AddTool(exportPDFTool(tb))
	s.AddTool(exportPPTXTool(tb))
	s.AddTool(validateDocumentTool(tb))
	s.AddTool(listTemplatesTool(tb))
	s.AddTool(importLegacyTool())
	if tb.Generator != nil {
		s.AddTool(generateDocumentTool(tb))
	}
}

// toolArgs is the union of every tool's arguments.
type toolArgs struct {
	Document     any                   `json:"document"`
	DocumentPath string                `json:"documentPath"`
	Profile      string                `json:"profile"`
	Style        *document.StyleConfig `json:"style"`
	OutputPath   string                `json:"outputPath"`
	Text         string                `json:"text"`
}

func decodeArgs(args map[string]any) (toolArgs, error) {
	var a toolArgs
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &a,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return a, err
	}
	if err := dec.Decode(args); err != nil {
		return a, fmt.Errorf("invalid arguments: %w", err)
	}
	return a, nil
}

// documentJSON returns the document argument as JSON, read from
// documentPath when given.
func (a toolArgs) documentJSON() ([]byte, error) {
	switch v := a.Document.(type) {
	case nil:
		if a.DocumentPath == "" {
			return nil, errors.New("missing 'document' or 'documentPath' argument")
		}
		data, err := os.ReadFile(a.DocumentPath)
		if err != nil {
			return nil, fmt.Errorf("reading document: %w", err)
		}
		return data, nil
	case string:
		return []byte(v), nil
	default:
		return json.Marshal(v)
	}
}

// loadDocument parses the document argument in either JSON shape.
func (a toolArgs) loadDocument() (doc *document.Document, legacy bool, err error) {
	data, err := a.documentJSON()
	if err != nil {
		return nil, false, err
	}
	if document.IsLegacy(data) {
		doc, err = document.ParseLegacy(data)
		return doc, true, err
	}
	doc, err = document.Parse(data)
	return doc, false, err
}

func (a toolArgs) style(tb *Toolbox) document.StyleConfig {
	if a.Style != nil {
		return a.Style.Normalize()
	}
	return tb.Style.Normalize()
}

func (a toolArgs) format(tb *Toolbox) (geom.Format, error) {
	if a.Profile == "" {
		if tb.Format != "" {
			return tb.Format, nil
		}
		return geom.DefaultFormat, nil
	}
	return geom.ParseFormat(a.Profile)
}

var documentSchema = map[string]any{
	"type":        "object",
	"description": "Document JSON with metadata and pages. The legacy saved-project shape is accepted too.",
}

var styleSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"font":    map[string]any{"type": "string", "enum": []string{"inter", "serif", "tech"}},
		"palette": map[string]any{"type": "string", "enum": []string{"corporate", "forest", "sunset", "dark"}},
		"vibe":    map[string]any{"type": "string"},
	},
}

func exportSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"document": documentSchema,
			"documentPath": map[string]any{
				"type":        "string",
				"description": "Path of a document JSON file, used when 'document' is omitted",
			},
			"profile": map[string]any{
				"type":        "string",
				"enum":        []string{"a4", "16:9", "9:16"},
				"description": "Output format. Defaults to the configured one.",
			},
			"style": styleSchema,
			"outputPath": map[string]any{
				"type":        "string",
				"description": "Optional file path to save the artifact. If omitted, returns base64.",
			},
		},
	}
}

// artifact saves data to path or returns it inline.
func artifact(data []byte, mimeType, path, summary string) (ToolResult, error) {
	if path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return ToolResult{}, fmt.Errorf("writing file: %w", err)
		}
		return ToolResult{Content: []ContentBlock{{
			Type: "text",
			Text: fmt.Sprintf("%s: %s (%d bytes)", summary, path, len(data)),
		}}}, nil
	}
	return ToolResult{Content: []ContentBlock{
		{Type: "text", Text: fmt.Sprintf("%s (%d bytes)", summary, len(data))},
		{Type: "resource", MIMEType: mimeType, Data: base64.StdEncoding.EncodeToString(data)},
	}}, nil
}

func exportPDFTool(tb *Toolbox) Tool {
	return Tool{
		Name:        "export_pdf",
		Description: "Render a document to a paginated PDF: one captured image per page with an invisible, selectable text layer. Returns the PDF as base64 unless outputPath is given.",
		InputSchema: exportSchema(),
		Handler: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			a, err := decodeArgs(args)
			if err != nil {
				return ToolResult{}, err
			}
			doc, _, err := a.loadDocument()
			if err != nil {
				return ToolResult{}, err
			}
			f, err := a.format(tb)
			if err != nil {
				return ToolResult{}, err
			}
			profile, err := geom.DocumentProfile(f)
			if err != nil {
				return ToolResult{}, err
			}
			data, err := tb.PDF.Bytes(ctx, doc, a.style(tb), profile)
			if err != nil {
				return ToolResult{}, err
			}
			summary := fmt.Sprintf("PDF %s exported with %d pages", studio.FileName(doc, "pdf"), len(doc.Pages))
			return artifact(data, "application/pdf", a.OutputPath, summary)
		},
	}
}

func exportPPTXTool(tb *Toolbox) Tool {
	return Tool{
		Name:        "export_pptx",
		Description: "Build an editable PPTX deck from a document, one native slide per page. Missing images become placeholders. Returns the deck as base64 unless outputPath is given.",
		InputSchema: exportSchema(),
		Handler: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			a, err := decodeArgs(args)
			if err != nil {
				return ToolResult{}, err
			}
			doc, _, err := a.loadDocument()
			if err != nil {
				return ToolResult{}, err
			}
			f, err := a.format(tb)
			if err != nil {
				return ToolResult{}, err
			}
			profile, err := geom.SlideProfile(f)
			if err != nil {
				return ToolResult{}, err
			}
			data, res, err := tb.Deck.Build(ctx, doc, a.style(tb), profile)
			if err != nil {
				return ToolResult{}, err
			}
			summary := fmt.Sprintf("Deck %s exported with %d slides, %d images, %d unavailable images",
				studio.FileName(doc, "pptx"), res.Slides, res.Media, len(res.ImageFailures))
			return artifact(data, "application/vnd.openxmlformats-officedocument.presentationml.presentation", a.OutputPath, summary)
		},
	}
}

// validation is the report of validate_document.
type validation struct {
	Valid    bool     `json:"valid"`
	Legacy   bool     `json:"legacy"`
	Title    string   `json:"title"`
	Pages    int      `json:"pages"`
	Problems []string `json:"problems,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func validate(doc *document.Document, legacy bool, reg *templates.Registry) validation {
	v := validation{Legacy: legacy, Title: doc.Title(), Pages: len(doc.Pages)}
	if err := doc.Validate(); err != nil {
		v.Problems = append(v.Problems, err.Error())
	}
	if len(doc.Pages) == 0 {
		v.Problems = append(v.Problems, "document has no pages")
	}
	for _, p := range doc.Pages {
		if !p.Template.Known() {
			v.Warnings = append(v.Warnings, fmt.Sprintf("page %d: unknown template %q is exported as a placeholder", p.Index, p.Template))
			continue
		}
		if _, ok := reg.Lookup(p.Template); !ok {
			v.Warnings = append(v.Warnings, fmt.Sprintf("page %d: template %q is not registered", p.Index, p.Template))
		}
		if p.Content.HeadingText() == "" {
			v.Warnings = append(v.Warnings, fmt.Sprintf("page %d: no heading", p.Index))
		}
	}
	v.Valid = len(v.Problems) == 0
	return v
}

func validateDocumentTool(tb *Toolbox) Tool {
	return Tool{
		Name:        "validate_document",
		Description: "Check a document before export. Reports problems that make an export fail and warnings such as unknown templates.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"document": documentSchema,
				"documentPath": map[string]any{
					"type":        "string",
					"description": "Path of a document JSON file, used when 'document' is omitted",
				},
			},
		},
		Handler: func(_ context.Context, args map[string]any) (ToolResult, error) {
			a, err := decodeArgs(args)
			if err != nil {
				return ToolResult{}, err
			}
			doc, legacy, err := a.loadDocument()
			if err != nil {
				return ToolResult{}, err
			}
			return jsonResult(validate(doc, legacy, tb.Templates))
		},
	}
}

type templateInfo struct {
	Tag         document.Tag `json:"tag"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
}

func templateInfos(reg *templates.Registry) []templateInfo {
	defs := reg.Definitions()
	out := make([]templateInfo, 0, len(defs))
	for _, d := range defs {
		out = append(out, templateInfo{Tag: d.Tag, Name: d.Name, Description: d.Description})
	}
	return out
}

func listTemplatesTool(tb *Toolbox) Tool {
	return Tool{
		Name:        "list_templates",
		Description: "List the page templates a document can use.",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
		Handler: func(context.Context, map[string]any) (ToolResult, error) {
			return jsonResult(templateInfos(tb.Templates))
		},
	}
}

func importLegacyTool() Tool {
	return Tool{
		Name:        "import_legacy",
		Description: "Convert a project saved by the original web editor (Portuguese keys, legacy template names, packed pricing) into the current document JSON.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"document": documentSchema,
				"documentPath": map[string]any{
					"type":        "string",
					"description": "Path of the saved project file, used when 'document' is omitted",
				},
				"outputPath": map[string]any{
					"type":        "string",
					"description": "Optional file path to save the converted document",
				},
			},
		},
		Handler: func(_ context.Context, args map[string]any) (ToolResult, error) {
			a, err := decodeArgs(args)
			if err != nil {
				return ToolResult{}, err
			}
			doc, legacy, err := a.loadDocument()
			if err != nil {
				return ToolResult{}, err
			}
			if !legacy {
				return ToolResult{}, errors.New("document is already in the current format")
			}
			data, err := doc.Marshal()
			if err != nil {
				return ToolResult{}, err
			}
			if a.OutputPath != "" {
				return artifact(data, "application/json", a.OutputPath, "Document converted")
			}
			return ToolResult{Content: []ContentBlock{{Type: "text", Text: string(data)}}}, nil
		},
	}
}

func generateDocumentTool(tb *Toolbox) Tool {
	return Tool{
		Name:        "generate_document",
		Description: "Turn raw text into a structured document with the configured content generator. Returns the document JSON.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{
					"type":        "string",
					"description": "Source text: notes, an article or a transcript",
				},
				"style": styleSchema,
			},
			"required": []string{"text"},
		},
		Handler: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			a, err := decodeArgs(args)
			if err != nil {
				return ToolResult{}, err
			}
			if a.Text == "" {
				return ToolResult{}, errors.New("missing 'text' argument")
			}
			doc, err := tb.Generator.GenerateDocument(ctx, a.Text, a.style(tb))
			if err != nil {
				return ToolResult{}, err
			}
			doc.Renumber()
			return jsonResult(doc)
		},
	}
}

func jsonResult(v any) (ToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ToolResult{}, err
	}
	return ToolResult{Content: []ContentBlock{{Type: "text", Text: string(data)}}}, nil
}
