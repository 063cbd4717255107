package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vcenk/SmartRealtorAgent/internal/model"
	apperr "github.com/vcenk/SmartRealtorAgent/internal/pkg/errors"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return f.vec, f.err
}

func (f *fakeEmbedder) ModelName() string { return "fake" }

type fakeSearcher struct {
	vectorHits  []RetrievedPassage
	vectorErr   error
	lexicalHits []model.KnowledgeChunk
	lexicalErr  error

	lastTenant string
	lexCalled  bool
}

func (f *fakeSearcher) SearchByEmbedding(ctx context.Context, tenantID string, embedding []float32, topK int, minSimilarity float32) ([]RetrievedPassage, error) {
	f.lastTenant = tenantID
	return f.vectorHits, f.vectorErr
}

func (f *fakeSearcher) SearchByText(ctx context.Context, tenantID string, query string, limit int) ([]model.KnowledgeChunk, error) {
	f.lastTenant = tenantID
	f.lexCalled = true
	return f.lexicalHits, f.lexicalErr
}

func TestRetriever_VectorPathWins(t *testing.T) {
	searcher := &fakeSearcher{
		vectorHits: []RetrievedPassage{
			{Chunk: model.KnowledgeChunk{ID: "c1", SourceID: "s1", Snippet: "hit"}, Score: 0.9},
		},
	}
	r := NewRetriever(searcher, &fakeEmbedder{vec: []float32{0.1, 0.2}})
	passages, err := r.Retrieve(context.Background(), "tenant-a", "what are the HOA fees")
	require.NoError(t, err)
	require.Len(t, passages, 1)
	require.Equal(t, "c1", passages[0].Chunk.ID)
	require.False(t, searcher.lexCalled)
	require.Equal(t, "tenant-a", searcher.lastTenant)
}

func TestRetriever_LexicalFallbackWhenEmbedderDown(t *testing.T) {
	searcher := &fakeSearcher{
		lexicalHits: []model.KnowledgeChunk{{ID: "c2", SourceID: "s1", Snippet: "lexical hit"}},
	}
	r := NewRetriever(searcher, &fakeEmbedder{err: errors.New("provider down")})
	passages, err := r.Retrieve(context.Background(), "tenant-a", "open house hours")
	require.NoError(t, err)
	require.Len(t, passages, 1)
	require.Equal(t, "c2", passages[0].Chunk.ID)
	require.Zero(t, passages[0].Score)
	require.True(t, searcher.lexCalled)
}

func TestRetriever_LexicalFallbackOnEmptyVectorResults(t *testing.T) {
	searcher := &fakeSearcher{
		lexicalHits: []model.KnowledgeChunk{{ID: "c3", SourceID: "s2", Snippet: "text match"}},
	}
	r := NewRetriever(searcher, &fakeEmbedder{vec: []float32{0.5}})
	passages, err := r.Retrieve(context.Background(), "tenant-b", "parking")
	require.NoError(t, err)
	require.Len(t, passages, 1)
	require.True(t, searcher.lexCalled)
}

func TestRetriever_NoEmbedderGoesStraightToLexical(t *testing.T) {
	searcher := &fakeSearcher{}
	r := NewRetriever(searcher, nil)
	passages, err := r.Retrieve(context.Background(), "tenant-c", "anything")
	require.NoError(t, err)
	require.Empty(t, passages)
	require.True(t, searcher.lexCalled)
}

func TestRetriever_LexicalErrorIsRetrievalUnavailable(t *testing.T) {
	searcher := &fakeSearcher{lexicalErr: errors.New("db down")}
	r := NewRetriever(searcher, nil)
	_, err := r.Retrieve(context.Background(), "tenant-c", "anything")
	require.ErrorIs(t, err, apperr.ErrRetrievalUnavailable)
	require.Contains(t, err.Error(), "db down")
}
