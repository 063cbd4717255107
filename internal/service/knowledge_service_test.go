package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vcenk/SmartRealtorAgent/internal/scraper"
)

func TestMarkdownToText(t *testing.T) {
	s := NewKnowledgeService(nil, nil, nil, nil)

	text := s.markdownToText("# Open House\n\nJoin us **Saturday** at [42 Maple](https://example.com).\n\n- coffee\n- tours")
	require.Contains(t, text, "Open House")
	require.Contains(t, text, "Saturday")
	require.Contains(t, text, "42 Maple")
	require.NotContains(t, text, "#")
	require.NotContains(t, text, "**")
	require.NotContains(t, text, "](")
}

func TestMarkdownToText_PlainTextPassesThrough(t *testing.T) {
	s := NewKnowledgeService(nil, nil, nil, nil)
	text := s.markdownToText("just a plain sentence")
	require.Equal(t, "just a plain sentence", text)
}

func TestPageText_CombinesProseAndStructured(t *testing.T) {
	page := &scraper.ScrapedPage{
		Text:           "prose body",
		StructuredText: "prose body\n\n--- Structured Data ---\nprice: 750000",
	}
	text := pageText(page)
	require.Contains(t, text, "prose body")
	require.Contains(t, text, "price: 750000")

	empty := pageText(&scraper.ScrapedPage{})
	require.Empty(t, empty)
}

func TestFirstLine(t *testing.T) {
	require.Equal(t, "Heading", firstLine("Heading\nrest of the doc"))
	require.Equal(t, "Untitled", firstLine("   \n\n"))
	require.LessOrEqual(t, len(firstLine(strings.Repeat("a", 120))), 80)
}
