package model

import (
	"strings"
	"testing"
)

func TestNewCitation_TruncatesSnippet(t *testing.T) {
	c := NewCitation("s1", "Disclosure packet", "https://example.com/doc", strings.Repeat("a", 500))
	if len(c.Snippet) != citationSnippetMax {
		t.Errorf("snippet length = %d, want %d", len(c.Snippet), citationSnippetMax)
	}
	if c.SourceID != "s1" || c.Title != "Disclosure packet" || c.URL != "https://example.com/doc" {
		t.Errorf("citation fields not carried over: %+v", c)
	}
}

func TestNewCitation_ShortSnippetUnchanged(t *testing.T) {
	if got := NewCitation("s1", "", "", "short").Snippet; got != "short" {
		t.Errorf("snippet = %q, want %q", got, "short")
	}
}
