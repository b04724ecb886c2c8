package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/icons"
)

// Sampling temperatures per operation.
const (
	tempGenerate   = 0.4
	tempRegenerate = 0.8
	tempChunk      = 0.3
	tempPage       = 0.5
)

// maxSlideChars is the most body text one page should carry.
const maxSlideChars = 300

// layoutGuide tells the model when to use each template and which content
// fields it reads.
var layoutGuide = []struct {
	tag    document.Tag
	when   string
	fields string
}{
	{document.TagCover, "opening page only", "title, subtitle, author, image"},
	{document.TagSectionCover, "transition between topics", "sectionTitle, briefDescription, backgroundColor"},
	{document.TagTextImageSplit, "conceptual explanation with visual support", "title, body, imageSide (left|right), image"},
	{document.TagInfoGrid, "lists of 4 to 6 items with icons", "title, items[title, description, iconName]"},
	{document.TagThreeColumn, "comparisons or three-part concepts", "title, items[3][title, description, image]"},
	{document.TagStatHighlight, "a statistic or key number", "bigNumber, explanation, backgroundImage"},
	{document.TagTimeline, "history or ordered processes", "title, steps[title, description]"},
	{document.TagFullImageQuote, "short powerful insights", "quote, quoteAuthor, image"},
	{document.TagComparisonTable, "feature by feature comparisons", "title, items[title, description]"},
	{document.TagFeatureList, "benefits or capabilities", "title, items[title, description, iconName]"},
	{document.TagProcessSteps, "short numbered procedures", "title, steps[title, description]"},
	{document.TagTeamGrid, "people and roles", "title, items[title (name), description (role), image]"},
	{document.TagPricingTable, "plans or offers", "title, items[title, description, pricing{price, features[]}]"},
	{document.TagFAQSection, "questions and answers", "title, items[title (question), description (answer)]"},
	{document.TagConclusionCTA, "closing page with a call to action", "finalTitle, summary, ctaText"},
}

const schemaExample = `{
  "metadata": {
    "generatedTitle": "Creative title",
    "estimatedReadingMinutes": 5,
    "suggestedPalette": "corporate | forest | sunset | dark"
  },
  "pages": [
    {
      "index": 1,
      "template": "cover",
      "content": {
        "title": "...",
        "subtitle": "...",
        "image": {"prompt": "Short English image description"},
        "body": "Text optimized for quick reading",
        "items": [{"title": "...", "description": "...", "iconName": "circle-check"}]
      }
    }
  ]
}`

// systemPrompt is the layout engine instruction shared by document and page
// generation.
func systemPrompt(style document.StyleConfig) string {
	style = style.Normalize()
	var b strings.Builder
	b.WriteString("You are an instructional design and layout engine. ")
	b.WriteString("You turn dense raw text into visually engaging, pedagogically structured pages.\n\n")

	b.WriteString("DESIGN RULES\n")
	fmt.Fprintf(&b, "1. Chunking: never put more than %d characters of body text on one page; split long content into a logical sequence of pages.\n", maxSlideChars)
	b.WriteString("2. Hierarchy: short titles (action verbs or questions); pages must be scannable.\n")
	b.WriteString("3. Media: use only icon names from the list below. Do not invent icon names.\n")
	b.WriteString("4. Flow: vary the templates to keep visual engagement.\n")
	b.WriteString("5. Images: image prompts are short English descriptions; the first clause decides the picture.\n")
	fmt.Fprintf(&b, "6. Tone: %s. Palette: %s.\n\n", style.Vibe, style.Palette)

	b.WriteString("AVAILABLE ICONS (iconName)\n")
	for _, c := range icons.Categories() {
		fmt.Fprintf(&b, "- %s: %s\n", c.Name, strings.Join(c.Icons, ", "))
	}

	b.WriteString("\nTEMPLATES\n")
	for _, l := range layoutGuide {
		fmt.Fprintf(&b, "- %s: %s. Fields: %s.\n", l.tag, l.when, l.fields)
	}

	b.WriteString("\nJSON STRUCTURE\nAnswer ONLY with valid JSON, no additional text:\n")
	b.WriteString(schemaExample)
	return b.String()
}

func documentPrompt(rawText string) string {
	return "CONTENT TO LAY OUT:\n\n" + rawText
}

func regenerateSystemPrompt(style document.StyleConfig, current document.Tag) string {
	return fmt.Sprintf(`You are a senior editorial designer. Change the template of this page to a VISUALLY DISTINCT alternative while keeping its content.
Template to avoid: %q.
Target visual style: %s.
Available templates: %s.
Return ONLY the JSON of the updated page object: {"template": "...", "content": {...}}.`,
		current, style.Normalize().Vibe, tagList())
}

func regeneratePrompt(page document.Page) (string, error) {
	data, err := json.Marshal(page)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func chunkPrompt(rawText string) string {
	return `Analyze the text below and split it into logical sections for an ebook or presentation.
Each section needs a short title, a brief summary of what it covers and the original content adapted for that section.

TEXT:
` + rawText + `

Return ONLY JSON in the form:
[
  {"title": "Section title", "summary": "Brief summary", "content": "Section content"}
]`
}

func pagePrompt(chunk Chunk, tag document.Tag) string {
	return fmt.Sprintf(`Create the content of one page using the %q template from the following section:

TITLE: %s
CONTENT: %s

Follow the system instructions to fill the "content" object correctly for this template.`,
		tag, chunk.Title, chunk.Content)
}

func tagList() string {
	tags := document.AllTags()
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
