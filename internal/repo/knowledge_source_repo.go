package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/didi/gendry/builder"

	"github.com/vcenk/SmartRealtorAgent/internal/model"
	"github.com/vcenk/SmartRealtorAgent/internal/pkg/dbutil"
	apperr "github.com/vcenk/SmartRealtorAgent/internal/pkg/errors"
)

// Raw source content is capped before storage.
const MaxSourceContentChars = 100_000

type KnowledgeSourceRepo struct {
	db *sql.DB
}

func NewKnowledgeSourceRepo(db *sql.DB) *KnowledgeSourceRepo {
	return &KnowledgeSourceRepo{db: db}
}

func (r *KnowledgeSourceRepo) Create(ctx context.Context, src *model.KnowledgeSource) error {
	content := src.Content
	if len(content) > MaxSourceContentChars {
		content = content[:MaxSourceContentChars]
	}
	data := map[string]interface{}{
		"id":         src.ID,
		"tenant_id":  src.TenantID,
		"title":      src.Title,
		"url":        nullable(src.URL),
		"content":    content,
		"status":     src.Status,
		"created_at": time.Unix(src.CreatedAt, 0),
		"updated_at": time.Unix(src.UpdatedAt, 0),
	}
	sqlStr, args, err := builder.BuildInsert("knowledge_sources", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if dbutil.IsConflict(err) {
		return apperr.ErrConflict
	}
	return err
}

func (r *KnowledgeSourceRepo) GetByID(ctx context.Context, tenantID, sourceID string) (*model.KnowledgeSource, error) {
	where := map[string]interface{}{
		"id":        sourceID,
		"tenant_id": tenantID,
	}
	fields := []string{"id", "tenant_id", "title", "url", "content", "status", "chunk_count", "created_at", "updated_at"}
	sqlStr, args, err := builder.BuildSelect("knowledge_sources", where, fields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	src, err := scanSource(row)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	return src, err
}

func (r *KnowledgeSourceRepo) ListByTenant(ctx context.Context, tenantID string) ([]model.KnowledgeSource, error) {
	where := map[string]interface{}{
		"tenant_id": tenantID,
		"_orderby":  "updated_at desc",
	}
	fields := []string{"id", "tenant_id", "title", "url", "content", "status", "chunk_count", "created_at", "updated_at"}
	sqlStr, args, err := builder.BuildSelect("knowledge_sources", where, fields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sources []model.KnowledgeSource
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		// Listing omits raw content to keep payloads small.
		src.Content = ""
		sources = append(sources, *src)
	}
	return sources, rows.Err()
}

func (r *KnowledgeSourceRepo) UpdateStatus(ctx context.Context, tenantID, sourceID, status string, chunkCount int) error {
	const query = `
		UPDATE knowledge_sources
		SET status = $1, chunk_count = $2, updated_at = now()
		WHERE id = $3 AND tenant_id = $4
	`
	res, err := r.db.ExecContext(ctx, query, status, chunkCount, sourceID, tenantID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes a source; its chunks go with it via FK cascade.
func (r *KnowledgeSourceRepo) Delete(ctx context.Context, tenantID, sourceID string) error {
	const query = `DELETE FROM knowledge_sources WHERE id = $1 AND tenant_id = $2`
	res, err := r.db.ExecContext(ctx, query, sourceID, tenantID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSource(row rowScanner) (*model.KnowledgeSource, error) {
	var src model.KnowledgeSource
	var url sql.NullString
	var createdAt, updatedAt time.Time
	if err := row.Scan(&src.ID, &src.TenantID, &src.Title, &url, &src.Content, &src.Status, &src.ChunkCount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	src.URL = url.String
	src.CreatedAt = createdAt.Unix()
	src.UpdatedAt = updatedAt.Unix()
	return &src, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
