package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperr "github.com/vcenk/SmartRealtorAgent/internal/pkg/errors"
)

func TestChunk_SlidingWindow(t *testing.T) {
	text := strings.Repeat("a", 1200)
	chunks, err := Chunk(ChunkInput{TenantID: "t1", SourceID: "src", Title: "doc", Text: text}, ChunkOptions{})
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	wantStarts := []int{0, 400, 800}
	wantEnds := []int{500, 900, 1200}
	for i, c := range chunks {
		require.Equal(t, wantStarts[i], c.StartOffset)
		require.Equal(t, wantEnds[i], c.EndOffset)
		require.Equal(t, "t1", c.TenantID)
		require.Equal(t, "src", c.SourceID)
	}
}

func TestChunk_DeterministicIDs(t *testing.T) {
	text := strings.Repeat("b", 1000)
	first, err := Chunk(ChunkInput{TenantID: "t1", SourceID: "s9", Text: text}, ChunkOptions{})
	require.NoError(t, err)
	second, err := Chunk(ChunkInput{TenantID: "t1", SourceID: "s9", Text: text}, ChunkOptions{})
	require.NoError(t, err)
	require.Equal(t, len(first), len(second))
	for i := range first {
		require.Equal(t, first[i].ID, second[i].ID)
	}
	require.Equal(t, "s9-0", first[0].ID)
}

func TestChunk_ShortTextSingleChunk(t *testing.T) {
	chunks, err := Chunk(ChunkInput{TenantID: "t1", SourceID: "s1", Text: "short text"}, ChunkOptions{})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	require.Equal(t, "short text", chunks[0].Snippet)
}

func TestChunk_EmptyText(t *testing.T) {
	chunks, err := Chunk(ChunkInput{TenantID: "t1", SourceID: "s1", Text: ""}, ChunkOptions{})
	require.NoError(t, err)
	require.Empty(t, chunks)
}

func TestChunk_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts ChunkOptions
	}{
		{name: "negative overlap", opts: ChunkOptions{ChunkSize: 100, Overlap: -1}},
		{name: "overlap equals size", opts: ChunkOptions{ChunkSize: 100, Overlap: 100}},
		{name: "negative size", opts: ChunkOptions{ChunkSize: -5, Overlap: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Chunk(ChunkInput{TenantID: "t", SourceID: "s", Text: "abc"}, tt.opts)
			require.ErrorIs(t, err, apperr.ErrConfiguration)
		})
	}
}

func TestChunk_NoOverlapCoversWholeText(t *testing.T) {
	text := strings.Repeat("x", 250)
	chunks, err := Chunk(ChunkInput{TenantID: "t", SourceID: "s", Text: text}, ChunkOptions{ChunkSize: 100, Overlap: 0})
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	var rebuilt strings.Builder
	for _, c := range chunks {
		rebuilt.WriteString(c.Snippet)
	}
	require.Equal(t, text, rebuilt.String())
}
