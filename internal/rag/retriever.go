package rag

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/vcenk/SmartRealtorAgent/internal/ai"
	"github.com/vcenk/SmartRealtorAgent/internal/model"
	apperr "github.com/vcenk/SmartRealtorAgent/internal/pkg/errors"
)

const (
	DefaultTopK          = 5
	DefaultMinSimilarity = 0.25
)

// RetrievedPassage pairs a chunk with its similarity score. Lexical
// fallback hits carry a zero score.
type RetrievedPassage struct {
	Chunk model.KnowledgeChunk
	Score float32
}

// ChunkSearcher is the storage surface the retriever needs. Both paths
// are tenant-scoped at the query level; the retriever never widens them.
type ChunkSearcher interface {
	SearchByEmbedding(ctx context.Context, tenantID string, embedding []float32, topK int, minSimilarity float32) ([]RetrievedPassage, error)
	SearchByText(ctx context.Context, tenantID string, query string, limit int) ([]model.KnowledgeChunk, error)
}

type Retriever struct {
	searcher      ChunkSearcher
	embedder      ai.IEmbedder
	topK          int
	minSimilarity float32
}

func NewRetriever(searcher ChunkSearcher, embedder ai.IEmbedder) *Retriever {
	return &Retriever{
		searcher:      searcher,
		embedder:      embedder,
		topK:          DefaultTopK,
		minSimilarity: DefaultMinSimilarity,
	}
}

// Retrieve returns up to topK passages for the tenant, best score first.
// When the embedder is down or vector search comes back empty it falls
// back to a tenant-scoped lexical match so retrieval never hard-fails
// just because the embedding backend is out.
func (r *Retriever) Retrieve(ctx context.Context, tenantID, query string) ([]RetrievedPassage, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("tenant_id", tenantID))

	if r.embedder != nil {
		embedding, err := r.embedder.Embed(ctx, query, ai.TaskRetrievalQuery)
		if err != nil {
			logger.Warn("query embedding failed, using lexical fallback", zap.Error(err))
		} else if len(embedding) > 0 {
			passages, err := r.searcher.SearchByEmbedding(ctx, tenantID, embedding, r.topK, r.minSimilarity)
			if err != nil {
				logger.Warn("vector search failed, using lexical fallback", zap.Error(err))
			} else if len(passages) > 0 {
				return passages, nil
			}
		}
	}

	chunks, err := r.searcher.SearchByText(ctx, tenantID, query, r.topK)
	if err != nil {
		// The lexical path is the last resort; with it gone there is
		// nothing left to degrade to.
		return nil, fmt.Errorf("%w: %v", apperr.ErrRetrievalUnavailable, err)
	}
	passages := make([]RetrievedPassage, 0, len(chunks))
	for _, chunk := range chunks {
		passages = append(passages, RetrievedPassage{Chunk: chunk})
	}
	return passages, nil
}
