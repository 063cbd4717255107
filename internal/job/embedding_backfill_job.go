package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/vcenk/SmartRealtorAgent/internal/service"
)

// EmbeddingBackfillJob re-embeds chunks that were indexed while the
// embedding provider was unavailable.
type EmbeddingBackfillJob struct {
	knowledge *service.KnowledgeService
	batchSize int
}

func NewEmbeddingBackfillJob(knowledge *service.KnowledgeService, batchSize int) *EmbeddingBackfillJob {
	return &EmbeddingBackfillJob{knowledge: knowledge, batchSize: batchSize}
}

func (j *EmbeddingBackfillJob) Name() string {
	return "embedding_backfill"
}

func (j *EmbeddingBackfillJob) Run(ctx context.Context) error {
	if j.knowledge == nil {
		return nil
	}
	repaired, err := j.knowledge.BackfillEmbeddings(ctx, j.batchSize)
	if err != nil {
		return err
	}
	if repaired > 0 {
		logutil.GetLogger(ctx).Info("embeddings backfilled", zap.Int("repaired", repaired))
	}
	return nil
}
