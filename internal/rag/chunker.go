package rag

import (
	"fmt"

	"github.com/vcenk/SmartRealtorAgent/internal/model"
	apperr "github.com/vcenk/SmartRealtorAgent/internal/pkg/errors"
)

const (
	DefaultChunkSize = 500
	DefaultOverlap   = 100
)

type ChunkInput struct {
	TenantID string
	SourceID string
	Title    string
	Text     string
	URL      string
}

type ChunkOptions struct {
	ChunkSize int
	Overlap   int
}

// Chunk splits text into overlapping fixed-size windows. Chunk ids are
// deterministic ({sourceId}-{index}) so re-indexing identical content
// with identical parameters reproduces the same ids.
func Chunk(in ChunkInput, opts ChunkOptions) ([]model.KnowledgeChunk, error) {
	if opts == (ChunkOptions{}) {
		opts = ChunkOptions{ChunkSize: DefaultChunkSize, Overlap: DefaultOverlap}
	}
	chunkSize, overlap := opts.ChunkSize, opts.Overlap
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be > 0", apperr.ErrConfiguration)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap must be >= 0 and < chunk size", apperr.ErrConfiguration)
	}

	var chunks []model.KnowledgeChunk
	start := 0
	idx := 0
	for start < len(in.Text) {
		end := start + chunkSize
		if end > len(in.Text) {
			end = len(in.Text)
		}
		chunks = append(chunks, model.KnowledgeChunk{
			ID:          fmt.Sprintf("%s-%d", in.SourceID, idx),
			SourceID:    in.SourceID,
			TenantID:    in.TenantID,
			Title:       in.Title,
			URL:         in.URL,
			Snippet:     in.Text[start:end],
			StartOffset: start,
			EndOffset:   end,
		})
		if end == len(in.Text) {
			break
		}
		start = end - overlap
		idx++
	}
	return chunks, nil
}
