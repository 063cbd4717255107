package repo

import (
	"context"
	"database/sql"

	"github.com/pgvector/pgvector-go"

	"github.com/vcenk/SmartRealtorAgent/internal/model"
	"github.com/vcenk/SmartRealtorAgent/internal/rag"
)

type KnowledgeChunkRepo struct {
	db *sql.DB
}

func NewKnowledgeChunkRepo(db *sql.DB) *KnowledgeChunkRepo {
	return &KnowledgeChunkRepo{db: db}
}

func (r *KnowledgeChunkRepo) Insert(ctx context.Context, chunk *model.KnowledgeChunk) error {
	const query = `
		INSERT INTO knowledge_chunks (id, source_id, tenant_id, title, url, snippet, start_offset, end_offset, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET snippet = EXCLUDED.snippet, start_offset = EXCLUDED.start_offset,
		    end_offset = EXCLUDED.end_offset, embedding = EXCLUDED.embedding
	`
	var embedding interface{}
	if len(chunk.Embedding) > 0 {
		embedding = pgvector.NewVector(chunk.Embedding)
	}
	_, err := r.db.ExecContext(ctx, query,
		chunk.ID, chunk.SourceID, chunk.TenantID, chunk.Title, nullable(chunk.URL),
		chunk.Snippet, chunk.StartOffset, chunk.EndOffset, embedding)
	return err
}

func (r *KnowledgeChunkRepo) DeleteBySource(ctx context.Context, tenantID, sourceID string) error {
	const query = `DELETE FROM knowledge_chunks WHERE source_id = $1 AND tenant_id = $2`
	_, err := r.db.ExecContext(ctx, query, sourceID, tenantID)
	return err
}

// SearchByEmbedding runs a tenant-scoped cosine similarity search over
// chunks that have embeddings. Results are best score first.
func (r *KnowledgeChunkRepo) SearchByEmbedding(ctx context.Context, tenantID string, embedding []float32, topK int, minSimilarity float32) ([]rag.RetrievedPassage, error) {
	const query = `
		SELECT id, source_id, tenant_id, title, url, snippet, start_offset, end_offset,
		       1 - (embedding <=> $1) AS similarity
		FROM knowledge_chunks
		WHERE tenant_id = $2 AND embedding IS NOT NULL AND 1 - (embedding <=> $1) >= $3
		ORDER BY embedding <=> $1
		LIMIT $4
	`
	rows, err := r.db.QueryContext(ctx, query, pgvector.NewVector(embedding), tenantID, minSimilarity, topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var passages []rag.RetrievedPassage
	for rows.Next() {
		var p rag.RetrievedPassage
		var url sql.NullString
		if err := rows.Scan(&p.Chunk.ID, &p.Chunk.SourceID, &p.Chunk.TenantID, &p.Chunk.Title,
			&url, &p.Chunk.Snippet, &p.Chunk.StartOffset, &p.Chunk.EndOffset, &p.Score); err != nil {
			return nil, err
		}
		p.Chunk.URL = url.String
		passages = append(passages, p)
	}
	return passages, rows.Err()
}

// SearchByText is the lexical fallback: tenant-scoped substring match
// in storage order, no score ranking.
func (r *KnowledgeChunkRepo) SearchByText(ctx context.Context, tenantID string, queryText string, limit int) ([]model.KnowledgeChunk, error) {
	const query = `
		SELECT id, source_id, tenant_id, title, url, snippet, start_offset, end_offset
		FROM knowledge_chunks
		WHERE tenant_id = $1 AND snippet ILIKE '%' || $2 || '%'
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID, queryText, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var chunks []model.KnowledgeChunk
	for rows.Next() {
		var chunk model.KnowledgeChunk
		var url sql.NullString
		if err := rows.Scan(&chunk.ID, &chunk.SourceID, &chunk.TenantID, &chunk.Title,
			&url, &chunk.Snippet, &chunk.StartOffset, &chunk.EndOffset); err != nil {
			return nil, err
		}
		chunk.URL = url.String
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// ListMissingEmbedding feeds the backfill job with chunks stored while
// the embedding backend was down.
func (r *KnowledgeChunkRepo) ListMissingEmbedding(ctx context.Context, limit int) ([]model.KnowledgeChunk, error) {
	const query = `
		SELECT id, source_id, tenant_id, title, url, snippet, start_offset, end_offset
		FROM knowledge_chunks
		WHERE embedding IS NULL
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var chunks []model.KnowledgeChunk
	for rows.Next() {
		var chunk model.KnowledgeChunk
		var url sql.NullString
		if err := rows.Scan(&chunk.ID, &chunk.SourceID, &chunk.TenantID, &chunk.Title,
			&url, &chunk.Snippet, &chunk.StartOffset, &chunk.EndOffset); err != nil {
			return nil, err
		}
		chunk.URL = url.String
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func (r *KnowledgeChunkRepo) UpdateEmbedding(ctx context.Context, chunkID string, embedding []float32) error {
	const query = `UPDATE knowledge_chunks SET embedding = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, pgvector.NewVector(embedding), chunkID)
	return err
}
