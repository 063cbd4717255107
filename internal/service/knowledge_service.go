package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/xxxsen/common/logutil"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"github.com/vcenk/SmartRealtorAgent/internal/ai"
	"github.com/vcenk/SmartRealtorAgent/internal/model"
	apperr "github.com/vcenk/SmartRealtorAgent/internal/pkg/errors"
	"github.com/vcenk/SmartRealtorAgent/internal/rag"
	"github.com/vcenk/SmartRealtorAgent/internal/repo"
	"github.com/vcenk/SmartRealtorAgent/internal/scraper"
)

type KnowledgeService struct {
	sources  *repo.KnowledgeSourceRepo
	chunks   *repo.KnowledgeChunkRepo
	scraper  *scraper.Scraper
	embedder ai.IEmbedder
	md       goldmark.Markdown
}

func NewKnowledgeService(sources *repo.KnowledgeSourceRepo, chunks *repo.KnowledgeChunkRepo, sc *scraper.Scraper, embedder ai.IEmbedder) *KnowledgeService {
	return &KnowledgeService{
		sources:  sources,
		chunks:   chunks,
		scraper:  sc,
		embedder: embedder,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// IngestURL scrapes a single page and indexes its readable text.
func (s *KnowledgeService) IngestURL(ctx context.Context, tenantID, pageURL string) (*model.KnowledgeSource, error) {
	page, err := s.scraper.ScrapePage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	text := pageText(page)
	if text == "" {
		return nil, fmt.Errorf("%w: page has no indexable text", apperr.ErrInvalid)
	}
	title := page.Title
	if title == "" {
		title = pageURL
	}
	return s.ingest(ctx, tenantID, title, pageURL, text)
}

// IngestContent indexes pasted markdown or plain text.
func (s *KnowledgeService) IngestContent(ctx context.Context, tenantID, title, content string) (*model.KnowledgeSource, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", apperr.ErrInvalid)
	}
	text := s.markdownToText(content)
	if title == "" {
		title = firstLine(text)
	}
	return s.ingest(ctx, tenantID, title, "", text)
}

func (s *KnowledgeService) ingest(ctx context.Context, tenantID, title, url, text string) (*model.KnowledgeSource, error) {
	now := time.Now().Unix()
	src := &model.KnowledgeSource{
		ID:        newID(),
		TenantID:  tenantID,
		Title:     title,
		URL:       url,
		Content:   text,
		Status:    model.SourceStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sources.Create(ctx, src); err != nil {
		return nil, err
	}
	count, err := s.index(ctx, src, text)
	if err != nil {
		_ = s.sources.UpdateStatus(ctx, tenantID, src.ID, model.SourceStatusError, 0)
		return nil, err
	}
	src.Status = model.SourceStatusIndexed
	src.ChunkCount = count
	return src, nil
}

// index chunks the text, embeds each chunk and stores the result. A
// chunk whose embedding call fails is stored without an embedding; the
// lexical fallback keeps it reachable and the backfill job repairs it.
func (s *KnowledgeService) index(ctx context.Context, src *model.KnowledgeSource, text string) (int, error) {
	logger := logutil.GetLogger(ctx).With(
		zap.String("tenant_id", src.TenantID),
		zap.String("source_id", src.ID),
	)
	chunks, err := rag.Chunk(rag.ChunkInput{
		TenantID: src.TenantID,
		SourceID: src.ID,
		Title:    src.Title,
		Text:     text,
		URL:      src.URL,
	}, rag.ChunkOptions{})
	if err != nil {
		return 0, err
	}
	for i := range chunks {
		if s.embedder != nil {
			emb, err := s.embedder.Embed(ctx, chunks[i].Snippet, ai.TaskRetrievalDocument)
			if err != nil {
				logger.Warn("chunk embedding failed, storing without embedding",
					zap.String("chunk_id", chunks[i].ID), zap.Error(err))
			} else {
				chunks[i].Embedding = emb
			}
		}
		if err := s.chunks.Insert(ctx, &chunks[i]); err != nil {
			return 0, err
		}
	}
	if err := s.sources.UpdateStatus(ctx, src.TenantID, src.ID, model.SourceStatusIndexed, len(chunks)); err != nil {
		return 0, err
	}
	logger.Info("source indexed", zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

// Reindex rebuilds a source's chunks from its stored content. Chunk ids
// are deterministic, so unchanged content overwrites in place.
func (s *KnowledgeService) Reindex(ctx context.Context, tenantID, sourceID string) (*model.KnowledgeSource, error) {
	src, err := s.sources.GetByID(ctx, tenantID, sourceID)
	if err != nil {
		return nil, err
	}
	if src.Content == "" {
		return nil, fmt.Errorf("%w: source has no stored content", apperr.ErrInvalid)
	}
	if err := s.sources.UpdateStatus(ctx, tenantID, sourceID, model.SourceStatusPending, 0); err != nil {
		return nil, err
	}
	if err := s.chunks.DeleteBySource(ctx, tenantID, sourceID); err != nil {
		return nil, err
	}
	count, err := s.index(ctx, src, src.Content)
	if err != nil {
		_ = s.sources.UpdateStatus(ctx, tenantID, sourceID, model.SourceStatusError, 0)
		return nil, err
	}
	src.Status = model.SourceStatusIndexed
	src.ChunkCount = count
	return src, nil
}

func (s *KnowledgeService) ListSources(ctx context.Context, tenantID string) ([]model.KnowledgeSource, error) {
	return s.sources.ListByTenant(ctx, tenantID)
}

// Delete removes a source; its chunks go with it via the FK cascade.
func (s *KnowledgeService) Delete(ctx context.Context, tenantID, sourceID string) error {
	return s.sources.Delete(ctx, tenantID, sourceID)
}

// BackfillEmbeddings embeds chunks that were stored without one, a
// batch at a time. Returns how many chunks were repaired.
func (s *KnowledgeService) BackfillEmbeddings(ctx context.Context, batchSize int) (int, error) {
	if s.embedder == nil {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	pending, err := s.chunks.ListMissingEmbedding(ctx, batchSize)
	if err != nil {
		return 0, err
	}
	logger := logutil.GetLogger(ctx)
	repaired := 0
	for i := range pending {
		emb, err := s.embedder.Embed(ctx, pending[i].Snippet, ai.TaskRetrievalDocument)
		if err != nil {
			// Provider is still down; the next tick retries.
			logger.Warn("backfill embed failed", zap.String("chunk_id", pending[i].ID), zap.Error(err))
			return repaired, nil
		}
		if err := s.chunks.UpdateEmbedding(ctx, pending[i].ID, emb); err != nil {
			return repaired, err
		}
		repaired++
	}
	return repaired, nil
}

func (s *KnowledgeService) markdownToText(content string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(content), &buf); err != nil {
		return content
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return content
	}
	text := strings.TrimSpace(doc.Text())
	if text == "" {
		return content
	}
	return text
}

// pageText prefers the structured rendering, which already carries the
// prose plus any schema.org facts.
func pageText(page *scraper.ScrapedPage) string {
	if structured := strings.TrimSpace(page.StructuredText); structured != "" {
		return structured
	}
	return strings.TrimSpace(page.Text)
}

func firstLine(text string) string {
	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if len(line) > 80 {
		line = line[:80]
	}
	if line == "" {
		return "Untitled"
	}
	return line
}
