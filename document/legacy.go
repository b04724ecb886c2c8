package document

import (
	"encoding/json"
	"fmt"
	"strings"
)

// legacyProject mirrors the project JSON saved by the original editor.
type legacyProject struct {
	Metadata struct {
		Title            string `json:"titulo_gerado"`
		ReadingMinutes   int    `json:"estimativa_leitura_minutos"`
		SuggestedPalette string `json:"paleta_sugerida"`
	} `json:"metadados"`
	Pages []legacyPage `json:"paginas"`
}

type legacyPage struct {
	Number  int           `json:"pagina_numero"`
	Layout  string        `json:"layout_type"`
	Content legacyContent `json:"conteudo"`
	Locked  bool          `json:"locked"`
}

type legacyContent struct {
	Title            string       `json:"titulo"`
	Subtitle         string       `json:"subtitulo"`
	Author           string       `json:"autor"`
	SectionTitle     string       `json:"titulo_secao"`
	BriefDescription string       `json:"breve_descricao"`
	BackgroundColor  string       `json:"cor_fundo_hex"`
	Body             string       `json:"texto_adaptado"`
	ImageSide        string       `json:"lado_imagem"`
	ImagePrompt      string       `json:"prompt_imagem"`
	CustomImageURL   string       `json:"custom_image_url"`
	Items            []legacyItem `json:"itens"`
	BigNumber        string       `json:"numero_grande"`
	Explanation      string       `json:"texto_explicativo"`
	BackgroundPrompt string       `json:"prompt_fundo_abstrato"`
	FinalTitle       string       `json:"titulo_final"`
	Summary          string       `json:"texto_resumo"`
	CTAText          string       `json:"texto_botao_acao"`
	Quote            string       `json:"citacao"`
	QuoteAuthor      string       `json:"autor_citacao"`
	Steps            []legacyStep `json:"steps"`
}

type legacyItem struct {
	Title          string `json:"titulo_item"`
	Description    string `json:"desc_item"`
	IconKeyword    string `json:"icone_keyword"`
	CustomImageURL string `json:"custom_image_url"`
	IconName       string `json:"icon_name"`
}

type legacyStep struct {
	Title       string `json:"step_title"`
	Description string `json:"step_desc"`
}

// IsLegacy reports whether data looks like a project saved by the original
// editor (Portuguese top-level keys).
func IsLegacy(data []byte) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	_, hasPages := probe["paginas"]
	_, hasMeta := probe["metadados"]
	return hasPages || hasMeta
}

// ParseLegacy converts a project saved by the original editor. Legacy
// template names are mapped to their current tags; unknown names are kept
// verbatim so the exporters can render a placeholder. Packed pricing
// descriptions ("price|feature,feature") are split into Pricing.
// Pages are renumbered by position, ignoring the stored page numbers.
func ParseLegacy(data []byte) (*Document, error) {
	var lp legacyProject
	if err := json.Unmarshal(data, &lp); err != nil {
		return nil, fmt.Errorf("document: parsing legacy JSON: %w", err)
	}

	doc := &Document{
		Metadata: Metadata{
			GeneratedTitle:          lp.Metadata.Title,
			EstimatedReadingMinutes: lp.Metadata.ReadingMinutes,
			SuggestedPalette:        lp.Metadata.SuggestedPalette,
		},
		Pages: make([]Page, 0, len(lp.Pages)),
	}
	for _, p := range lp.Pages {
		tag, err := ParseTag(p.Layout)
		if err != nil {
			tag = Tag(p.Layout)
		}
		doc.Pages = append(doc.Pages, Page{
			Template: tag,
			Content:  convertLegacyContent(tag, p.Content),
			Locked:   p.Locked,
		})
	}
	doc.Renumber()
	return doc, nil
}

func convertLegacyContent(tag Tag, lc legacyContent) Content {
	c := Content{
		Title:            lc.Title,
		Subtitle:         lc.Subtitle,
		Author:           lc.Author,
		SectionTitle:     lc.SectionTitle,
		BriefDescription: lc.BriefDescription,
		BackgroundColor:  lc.BackgroundColor,
		Body:             lc.Body,
		ImageSide:        lc.ImageSide,
		BigNumber:        lc.BigNumber,
		Explanation:      lc.Explanation,
		FinalTitle:       lc.FinalTitle,
		Summary:          lc.Summary,
		CTAText:          lc.CTAText,
		Quote:            lc.Quote,
		QuoteAuthor:      lc.QuoteAuthor,
	}

	// The stat page used the custom image as its background; every other
	// template used it as the main image.
	if tag == TagStatHighlight {
		c.BackgroundImage = ImageRef{URL: lc.CustomImageURL, Prompt: lc.BackgroundPrompt}
		c.Image = ImageRef{Prompt: lc.ImagePrompt}
	} else {
		c.Image = ImageRef{URL: lc.CustomImageURL, Prompt: lc.ImagePrompt}
		c.BackgroundImage = ImageRef{Prompt: lc.BackgroundPrompt}
	}

	for _, it := range lc.Items {
		item := Item{
			Title:       it.Title,
			Description: it.Description,
			IconKeyword: it.IconKeyword,
			IconName:    it.IconName,
			Image:       ImageRef{URL: it.CustomImageURL},
		}
		if tag == TagPricingTable {
			item.Pricing = SplitPackedPricing(it.Description)
		}
		c.Items = append(c.Items, item)
	}
	for _, s := range lc.Steps {
		c.Steps = append(c.Steps, Step{Title: s.Title, Description: s.Description})
	}
	return c
}

// SplitPackedPricing splits the legacy "price|feature,feature" packing.
// Empty features are dropped and whitespace is trimmed.
func SplitPackedPricing(packed string) *Pricing {
	price, rest, _ := strings.Cut(packed, "|")
	p := &Pricing{Price: strings.TrimSpace(price)}
	for _, f := range strings.Split(rest, ",") {
		if f = strings.TrimSpace(f); f != "" {
			p.Features = append(p.Features, f)
		}
	}
	return p
}
