package document

import (
	"fmt"
	"strings"

	"github.com/lvillar/deckforge"
)

// Tag identifies a page layout template. The set is closed; see AllTags.
type Tag string

// Template tags.
const (
	TagCover           Tag = "cover"
	TagSectionCover    Tag = "section_cover"
	TagTextImageSplit  Tag = "text_image_split"
	TagInfoGrid        Tag = "info_grid"
	TagStatHighlight   Tag = "stat_highlight"
	TagConclusionCTA   Tag = "conclusion_cta"
	TagFullImageQuote  Tag = "full_image_quote"
	TagThreeColumn     Tag = "three_column"
	TagTimeline        Tag = "timeline"
	TagComparisonTable Tag = "comparison_table"
	TagFeatureList     Tag = "feature_list"
	TagProcessSteps    Tag = "process_steps"
	TagTeamGrid        Tag = "team_grid"
	TagPricingTable    Tag = "pricing_table"
	TagFAQSection      Tag = "faq_section"
)

var allTags = []Tag{
	TagCover,
	TagSectionCover,
	TagTextImageSplit,
	TagInfoGrid,
	TagStatHighlight,
	TagConclusionCTA,
	TagFullImageQuote,
	TagThreeColumn,
	TagTimeline,
	TagComparisonTable,
	TagFeatureList,
	TagProcessSteps,
	TagTeamGrid,
	TagPricingTable,
	TagFAQSection,
}

// legacyTags maps the template names used by the original web editor.
var legacyTags = map[string]Tag{
	"capa_principal":     TagCover,
	"capa_secao":         TagSectionCover,
	"texto_imagem_split": TagTextImageSplit,
	"grid_informativo":   TagInfoGrid,
	"destaque_numero":    TagStatHighlight,
	"conclusao_cta":      TagConclusionCTA,
}

// AllTags returns every template tag in canonical order.
func AllTags() []Tag {
	return append([]Tag(nil), allTags...)
}

// Known reports whether t belongs to the closed tag set.
func (t Tag) Known() bool {
	for _, k := range allTags {
		if k == t {
			return true
		}
	}
	return false
}

// ParseTag resolves a tag name, accepting the legacy names as aliases.
func ParseTag(s string) (Tag, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if t := Tag(s); t.Known() {
		return t, nil
	}
	if t, ok := legacyTags[s]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", deckforge.ErrUnknownTemplate, s)
}
