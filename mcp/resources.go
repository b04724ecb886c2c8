package mcp

import (
	"encoding/json"

	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/templates"
)

// RegisterDefaultResources adds the built-in catalog resources to the
// server. Resources use the deckforge:// scheme.
func RegisterDefaultResources(s *Server, reg *templates.Registry) {
	s.AddResource(Resource{
		URI:         "deckforge://templates",
		Name:        "Page templates",
		Description: "Every page template with its tag, name and description.",
		MIMEType:    "application/json",
		Handler: func(uri string) ([]ResourceContent, error) {
			return jsonContent(uri, templateInfos(reg))
		},
	})

	s.AddResource(Resource{
		URI:         "deckforge://profiles",
		Name:        "Output profiles",
		Description: "The output formats with their PDF page size in points and slide size in inches.",
		MIMEType:    "application/json",
		Handler:     handleProfilesResource,
	})

	s.AddResource(Resource{
		URI:         "deckforge://styles",
		Name:        "Styles",
		Description: "The color palettes and font choices a style can name.",
		MIMEType:    "application/json",
		Handler: func(uri string) ([]ResourceContent, error) {
			return jsonContent(uri, map[string]any{
				"palettes": document.Palettes(),
				"fonts":    document.Fonts(),
				"default":  document.DefaultStyle,
			})
		},
	})
}

type profileInfo struct {
	Format   geom.Format  `json:"format"`
	Document geom.Profile `json:"document"`
	Slides   geom.Profile `json:"slides"`
}

func handleProfilesResource(uri string) ([]ResourceContent, error) {
	var out []profileInfo
	for _, f := range geom.Formats() {
		doc, err := geom.DocumentProfile(f)
		if err != nil {
			return nil, err
		}
		slides, err := geom.SlideProfile(f)
		if err != nil {
			return nil, err
		}
		out = append(out, profileInfo{Format: f, Document: doc, Slides: slides})
	}
	return jsonContent(uri, out)
}

func jsonContent(uri string, v any) ([]ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(data),
	}}, nil
}
