package ai_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/deckforge/ai"
	"github.com/lvillar/deckforge/document"
)

const article = `# Moving to the cloud

Cloud platforms rent computing on demand. Teams stop buying servers up front.

## Why now

Adoption grew 42% last year.

## The plan

1. Assess: inventory every workload
2. Migrate: move the easy ones first
3. Optimize: right-size and automate

## Benefits

- Cost: pay for what you use
- Speed: new environments in minutes
- Security: managed patching
- Scale: grow with demand
`

func TestOfflineGenerateDocument(t *testing.T) {
	t.Parallel()

	doc, err := ai.Offline{}.GenerateDocument(context.Background(), article, document.StyleConfig{Palette: "forest"})
	require.NoError(t, err)
	require.NoError(t, doc.Validate())

	assert.Equal(t, "Moving to the cloud", doc.Title())
	assert.Equal(t, "forest", doc.Metadata.SuggestedPalette)

	var tags []document.Tag
	for _, p := range doc.Pages {
		tags = append(tags, p.Template)
	}
	assert.Equal(t, []document.Tag{
		document.TagCover,
		document.TagTextImageSplit,
		document.TagStatHighlight,
		document.TagTimeline,
		document.TagInfoGrid,
		document.TagConclusionCTA,
	}, tags)

	stat := doc.Pages[2].Content
	assert.Equal(t, "42%", stat.BigNumber)

	steps := doc.Pages[3].Content.Steps
	require.Len(t, steps, 3)
	assert.Equal(t, document.Step{Title: "Assess", Description: "inventory every workload"}, steps[0])

	for _, it := range doc.Pages[4].Content.Items {
		assert.NotEmpty(t, it.IconName)
	}
}

func TestOfflineSplitsLongText(t *testing.T) {
	t.Parallel()

	sentence := "Every page carries a short and scannable amount of text for the reader. "
	doc, err := ai.Offline{}.GenerateDocument(context.Background(), strings.Repeat(sentence, 12), document.DefaultStyle)
	require.NoError(t, err)

	split := 0
	for _, p := range doc.Pages {
		if p.Template != document.TagTextImageSplit {
			continue
		}
		split++
		assert.LessOrEqual(t, len([]rune(p.Content.Body)), 300)
	}
	assert.Greater(t, split, 1)
}

func TestOfflineRegenerateChangesTemplate(t *testing.T) {
	t.Parallel()

	page := document.Page{
		Index:    3,
		Template: document.TagInfoGrid,
		Locked:   true,
		Content: document.Content{Title: "Benefits", Items: []document.Item{
			{Title: "Cost", Description: "pay for what you use"},
			{Title: "Speed", Description: "minutes"},
		}},
	}
	next, err := ai.Offline{}.RegeneratePage(context.Background(), page, document.DefaultStyle)
	require.NoError(t, err)
	assert.Equal(t, 3, next.Index)
	assert.True(t, next.Locked)
	assert.Equal(t, document.TagFeatureList, next.Template)
	assert.Equal(t, "Benefits", next.Content.Title)
	require.Len(t, next.Content.Items, 2)
	assert.Equal(t, "Cost", next.Content.Items[0].Title)
}

func TestOfflineChunkAndPage(t *testing.T) {
	t.Parallel()

	chunks, err := ai.Offline{}.ChunkText(context.Background(), "First paragraph here.\n\nSecond paragraph there.")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "First paragraph here", chunks[0].Title)

	page, err := ai.Offline{}.GeneratePageForChunk(context.Background(), chunks[1], document.TagConclusionCTA, document.DefaultStyle)
	require.NoError(t, err)
	assert.Equal(t, document.TagConclusionCTA, page.Template)
	assert.Equal(t, "Second paragraph there", page.Content.FinalTitle)
	assert.NotEmpty(t, page.Content.CTAText)

	_, err = ai.Offline{}.ChunkText(context.Background(), "\n\n")
	assert.True(t, ai.IsKind(err, ai.KindMalformed))
}
