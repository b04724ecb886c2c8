package ai

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/icons"
)

// Offline lays text out with fixed heuristics and no network. It is
// deterministic and never fails on non-empty input.
type Offline struct{}

var (
	headingLine  = regexp.MustCompile(`^#{1,6}\s+(.+)$`)
	bulletLine   = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+(.+)$`)
	numberedLine = regexp.MustCompile(`^\s*\d+[.)]\s+`)
	statPattern  = regexp.MustCompile(`[$€£]?\d[\d.,]*\s?(?:%|x|k|K|M|B|bn)?`)
	sentenceEnd  = regexp.MustCompile(`[.!?](\s|$)`)
)

var errNoText = errors.New("no text to lay out")

// ChunkText splits text at markdown headings, or at blank lines when it has
// none.
func (Offline) ChunkText(ctx context.Context, rawText string) ([]Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Provider: ProviderOffline, Op: OpChunk, Kind: KindConnectivity, Err: err}
	}
	chunks := splitSections(rawText)
	if len(chunks) == 0 {
		return nil, &Error{Provider: ProviderOffline, Op: OpChunk, Kind: KindMalformed, Err: errNoText}
	}
	return chunks, nil
}

// GenerateDocument opens with a cover, lays every section out with the
// template its shape suggests and closes with a call to action.
func (o Offline) GenerateDocument(ctx context.Context, rawText string, style document.StyleConfig) (*document.Document, error) {
	chunks, err := o.ChunkText(ctx, rawText)
	if err != nil {
		return nil, withOp(err, ProviderOffline, OpGenerate)
	}

	title := chunks[0].Title
	doc := &document.Document{Metadata: document.Metadata{
		GeneratedTitle:          title,
		EstimatedReadingMinutes: max(1, len(strings.Fields(rawText))/200),
		SuggestedPalette:        style.Normalize().Palette,
	}}
	doc.Pages = append(doc.Pages, pageFor(Chunk{Title: title, Summary: chunks[0].Summary}, document.TagCover, 0))

	var titles []string
	for i, ch := range chunks {
		titles = append(titles, ch.Title)
		tag := pickTag(ch)
		if tag != document.TagTextImageSplit {
			doc.Pages = append(doc.Pages, pageFor(ch, tag, i))
			continue
		}
		for j, part := range splitBody(ch.Content, maxSlideChars) {
			c := ch
			c.Content = part
			if j > 0 {
				c.Title = ch.Title + " (cont.)"
			}
			doc.Pages = append(doc.Pages, pageFor(c, tag, i+j))
		}
	}
	doc.Pages = append(doc.Pages, pageFor(Chunk{
		Title:   "Key takeaways",
		Summary: truncate(strings.Join(titles, " · "), maxSlideChars),
	}, document.TagConclusionCTA, 0))
	doc.Renumber()
	return doc, nil
}

// GeneratePageForChunk fills tag from the section.
func (Offline) GeneratePageForChunk(ctx context.Context, chunk Chunk, tag document.Tag, style document.StyleConfig) (document.Page, error) {
	if err := ctx.Err(); err != nil {
		return document.Page{}, &Error{Provider: ProviderOffline, Op: OpPage, Kind: KindConnectivity, Err: err}
	}
	return pageFor(chunk, tag, 0), nil
}

// RegeneratePage moves the page to the next template of its family.
func (Offline) RegeneratePage(ctx context.Context, page document.Page, style document.StyleConfig) (document.Page, error) {
	if err := ctx.Err(); err != nil {
		return document.Page{}, &Error{Provider: ProviderOffline, Op: OpRegenerate, Kind: KindConnectivity, Err: err}
	}
	next := pageFor(chunkFromPage(page), alternative(page), page.Index)
	next.Index = page.Index
	next.Locked = page.Locked
	return next, nil
}

var families = [][]document.Tag{
	{document.TagInfoGrid, document.TagFeatureList, document.TagThreeColumn, document.TagComparisonTable, document.TagFAQSection},
	{document.TagTimeline, document.TagProcessSteps},
	{document.TagTextImageSplit, document.TagFullImageQuote, document.TagSectionCover},
	{document.TagCover, document.TagSectionCover},
	{document.TagStatHighlight, document.TagTextImageSplit},
	{document.TagConclusionCTA, document.TagFullImageQuote},
	{document.TagTeamGrid, document.TagThreeColumn},
	{document.TagPricingTable, document.TagComparisonTable},
}

func alternative(page document.Page) document.Tag {
	for _, fam := range families {
		for i, tag := range fam {
			if tag == page.Template {
				return fam[(i+1)%len(fam)]
			}
		}
	}
	return document.TagTextImageSplit
}

func splitSections(raw string) []Chunk {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")

	hasHeadings := false
	for _, l := range lines {
		if headingLine.MatchString(strings.TrimSpace(l)) {
			hasHeadings = true
			break
		}
	}

	var (
		out   []Chunk
		title string
		body  []string
	)
	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		body = body[:0]
		if text == "" && title == "" {
			return
		}
		t := title
		if t == "" {
			t = titleFrom(text)
		}
		out = append(out, Chunk{Title: t, Summary: summaryFrom(text), Content: text})
		title = ""
	}

	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if hasHeadings {
			if m := headingLine.FindStringSubmatch(trimmed); m != nil {
				flush()
				title = strings.TrimSpace(m[1])
				continue
			}
			body = append(body, l)
			continue
		}
		if trimmed == "" {
			flush()
			continue
		}
		body = append(body, l)
	}
	flush()
	return out
}

// pickTag chooses a template from the shape of a section.
func pickTag(ch Chunk) document.Tag {
	items := listItems(ch.Content)
	numbered := 0
	for _, l := range strings.Split(ch.Content, "\n") {
		if numberedLine.MatchString(l) {
			numbered++
		}
	}
	switch {
	case numbered >= 2:
		return document.TagTimeline
	case len(items) >= 4:
		return document.TagInfoGrid
	case len(items) == 3:
		return document.TagThreeColumn
	case len(items) == 2:
		return document.TagFeatureList
	}
	text := strings.TrimSpace(ch.Content)
	if utf8.RuneCountInString(text) <= 160 && statPattern.MatchString(text) && strings.ContainsAny(text, "%$€£") {
		return document.TagStatHighlight
	}
	if strings.HasPrefix(text, `"`) || strings.HasPrefix(text, "“") || strings.HasPrefix(text, "> ") {
		return document.TagFullImageQuote
	}
	return document.TagTextImageSplit
}

// pageFor fills tag's content fields from a section. n alternates the image
// side of split pages.
func pageFor(ch Chunk, tag document.Tag, n int) document.Page {
	text := strings.TrimSpace(ch.Content)
	var c document.Content
	switch tag {
	case document.TagCover:
		c.Title = ch.Title
		c.Subtitle = ch.Summary
		c.Image = document.ImageRef{Prompt: ch.Title}
	case document.TagSectionCover:
		c.SectionTitle = ch.Title
		c.BriefDescription = firstNonEmpty(ch.Summary, truncate(text, 160))
	case document.TagStatHighlight:
		c.BigNumber = strings.TrimSpace(statPattern.FindString(text))
		if c.BigNumber == "" {
			c.BigNumber = ch.Title
		}
		c.Explanation = truncate(text, maxSlideChars)
		c.BackgroundImage = document.ImageRef{Prompt: "abstract, " + ch.Title}
	case document.TagFullImageQuote:
		c.Quote = strings.Trim(firstSentence(strings.TrimPrefix(text, "> ")), `"“” `)
		c.Image = document.ImageRef{Prompt: ch.Title}
	case document.TagConclusionCTA:
		c.FinalTitle = ch.Title
		c.Summary = firstNonEmpty(ch.Summary, truncate(text, maxSlideChars))
		c.CTAText = "Get started"
	case document.TagTimeline, document.TagProcessSteps:
		c.Title = ch.Title
		for _, it := range itemsOrSentences(text) {
			c.Steps = append(c.Steps, document.Step{Title: it.Title, Description: it.Description})
		}
	case document.TagInfoGrid, document.TagFeatureList, document.TagThreeColumn,
		document.TagComparisonTable, document.TagFAQSection, document.TagTeamGrid, document.TagPricingTable:
		c.Title = ch.Title
		items := itemsOrSentences(text)
		if tag == document.TagThreeColumn && len(items) > 3 {
			items = items[:3]
		}
		for i := range items {
			switch tag {
			case document.TagThreeColumn, document.TagTeamGrid:
				items[i].Image = document.ImageRef{Prompt: items[i].Title}
			case document.TagPricingTable:
				items[i].Pricing = &document.Pricing{Price: strings.TrimSpace(statPattern.FindString(items[i].Description))}
				for _, f := range strings.Split(items[i].Description, ",") {
					if f = strings.TrimSpace(f); f != "" {
						items[i].Pricing.Features = append(items[i].Pricing.Features, f)
					}
				}
			default:
				items[i].IconName = icons.Resolve("", items[i].Title, items[i].Description)
			}
		}
		c.Items = items
	default:
		c.Title = ch.Title
		c.Body = truncate(text, maxSlideChars)
		c.Image = document.ImageRef{Prompt: ch.Title}
		c.ImageSide = "right"
		if n%2 == 1 {
			c.ImageSide = "left"
		}
	}
	return document.Page{Template: tag, Content: c}
}

// chunkFromPage flattens page content back into a section.
func chunkFromPage(p document.Page) Chunk {
	c := p.Content
	var lines []string
	for _, s := range []string{c.Body, c.Explanation, c.Summary, c.BriefDescription, c.Quote} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	if c.BigNumber != "" && c.Explanation != "" && !strings.Contains(c.Explanation, c.BigNumber) {
		lines = append([]string{c.BigNumber}, lines...)
	}
	for _, it := range c.Items {
		lines = append(lines, "- "+joinItem(it.Title, it.Description))
	}
	for _, st := range c.Steps {
		lines = append(lines, "- "+joinItem(st.Title, st.Description))
	}
	title := firstNonEmpty(c.Title, c.SectionTitle, c.FinalTitle, c.BigNumber, firstSentence(c.Quote))
	text := strings.Join(lines, "\n")
	return Chunk{Title: title, Summary: firstNonEmpty(c.Subtitle, summaryFrom(text)), Content: text}
}

func joinItem(title, desc string) string {
	if desc == "" {
		return title
	}
	return title + ": " + desc
}

func listItems(text string) []document.Item {
	var items []document.Item
	for _, l := range strings.Split(text, "\n") {
		m := bulletLine.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		items = append(items, splitItem(m[1]))
	}
	return items
}

// itemsOrSentences returns the list items of text, or one item per
// sentence when it has no list.
func itemsOrSentences(text string) []document.Item {
	if items := listItems(text); len(items) > 0 {
		return items
	}
	var items []document.Item
	for _, s := range sentences(text) {
		items = append(items, splitItem(s))
		if len(items) == 6 {
			break
		}
	}
	return items
}

func splitItem(s string) document.Item {
	s = strings.TrimSpace(s)
	if title, desc, ok := strings.Cut(s, ":"); ok && strings.TrimSpace(desc) != "" {
		return document.Item{Title: strings.TrimSpace(title), Description: strings.TrimSpace(desc)}
	}
	if title, desc, ok := strings.Cut(s, " - "); ok {
		return document.Item{Title: strings.TrimSpace(title), Description: strings.TrimSpace(desc)}
	}
	return document.Item{Title: titleFrom(s), Description: s}
}

func sentences(text string) []string {
	text = strings.Join(strings.Fields(text), " ")
	var out []string
	for text != "" {
		loc := sentenceEnd.FindStringIndex(text)
		if loc == nil {
			out = append(out, text)
			break
		}
		out = append(out, strings.TrimSpace(text[:loc[0]+1]))
		text = strings.TrimSpace(text[loc[1]:])
	}
	return out
}

// splitBody cuts text into parts of at most limit runes at sentence
// boundaries. A single longer sentence is truncated.
func splitBody(text string, limit int) []string {
	var (
		parts []string
		cur   string
	)
	for _, s := range sentences(text) {
		switch {
		case cur == "":
			cur = s
		case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(s) <= limit:
			cur += " " + s
		default:
			parts = append(parts, truncate(cur, limit))
			cur = s
		}
	}
	if cur != "" || len(parts) == 0 {
		parts = append(parts, truncate(cur, limit))
	}
	return parts
}

func firstSentence(text string) string {
	if s := sentences(text); len(s) > 0 {
		return s[0]
	}
	return ""
}

func titleFrom(text string) string {
	words := strings.Fields(firstSentence(text))
	if len(words) > 6 {
		words = words[:6]
	}
	return strings.TrimRight(strings.Join(words, " "), ".,;:!?")
}

func summaryFrom(text string) string {
	return truncate(firstSentence(text), 120)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	cut := string(r[:limit-1])
	if i := strings.LastIndexByte(cut, ' '); i > limit/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:") + "…"
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
