package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	apperr "github.com/vcenk/SmartRealtorAgent/internal/pkg/errors"
	"github.com/vcenk/SmartRealtorAgent/internal/scraper"
)

// CrawlEvent is one line of the crawl progress stream.
type CrawlEvent struct {
	Type    string `json:"type"` // status | progress | done | error
	Message string `json:"message,omitempty"`
	URL     string `json:"url,omitempty"`
	Indexed int    `json:"indexed,omitempty"`
	Total   int    `json:"total,omitempty"`
	Chunks  int    `json:"chunks,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// CrawlAndIngest walks a site and indexes every page with enough prose,
// reporting progress through emit as it goes. Per-page failures are
// reported as error events and do not stop the run; the final done
// event carries the totals.
func (s *KnowledgeService) CrawlAndIngest(ctx context.Context, tenantID, startURL string, opts scraper.CrawlOptions, emit func(CrawlEvent)) error {
	logger := logutil.GetLogger(ctx).With(
		zap.String("tenant_id", tenantID),
		zap.String("start_url", startURL),
	)

	emit(CrawlEvent{Type: "status", Message: "crawling " + startURL})
	result := s.scraper.CrawlSite(ctx, startURL, opts)
	for _, crawlErr := range result.Errors {
		emit(CrawlEvent{Type: "error", URL: crawlErr.URL, Reason: crawlErr.Reason})
	}
	if len(result.Pages) == 0 {
		emit(CrawlEvent{Type: "done", Indexed: 0, Total: 0})
		if len(result.Errors) > 0 {
			if result.Errors[0].Reason == scraper.RobotsBlockedReason {
				return fmt.Errorf("%w: %s", apperr.ErrRobotsDisallowed, startURL)
			}
			return fmt.Errorf("%w: %s", apperr.ErrFetchFailed, result.Errors[0].Reason)
		}
		return nil
	}

	emit(CrawlEvent{Type: "status", Message: fmt.Sprintf("indexing %d pages", len(result.Pages))})
	indexed := 0
	totalChunks := 0
	for _, page := range result.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		text := pageText(page)
		if text == "" {
			continue
		}
		title := page.Title
		if title == "" {
			title = page.URL
		}
		src, err := s.ingest(ctx, tenantID, title, page.URL, text)
		if err != nil {
			logger.Warn("page ingest failed", zap.String("url", page.URL), zap.Error(err))
			emit(CrawlEvent{Type: "error", URL: page.URL, Reason: err.Error()})
			continue
		}
		indexed++
		totalChunks += src.ChunkCount
		emit(CrawlEvent{Type: "progress", URL: page.URL, Indexed: indexed, Total: len(result.Pages)})
	}
	logger.Info("crawl finished",
		zap.Int("indexed", indexed),
		zap.Int("chunks", totalChunks),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	emit(CrawlEvent{Type: "done", Indexed: indexed, Total: len(result.Pages), Chunks: totalChunks})
	return nil
}
