package scraper

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const (
	MaxCrawlPages     = 50
	DefaultMaxPages   = 20
	crawlFetchWorkers = 4

	// Pages whose extracted prose falls below this are login walls,
	// redirects or empty shells; skipped, not errors.
	minPageTextChars = 80

	politenessEvery = 5
	politenessDelay = 300 * time.Millisecond
)

var nonContentExt = regexp.MustCompile(`(?i)\.(css|js|jpg|jpeg|png|gif|svg|pdf|zip|xml|json)(\?|$)`)

// RobotsBlockedReason is the error reason reported when robots.txt
// forbids crawling the start URL. Callers match on it to distinguish
// a robots refusal from an ordinary fetch failure.
const RobotsBlockedReason = "Blocked by robots.txt"

type CrawlOptions struct {
	MaxPages          int
	UseSitemap        bool
	AllowedPathPrefix string
}

type CrawlError struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

type CrawlResult struct {
	Pages   []*ScrapedPage `json:"pages"`
	Skipped int            `json:"skipped"`
	Errors  []CrawlError   `json:"errors"`
}

// CrawlSite walks a site starting at startURL. Robots disallowal at the
// root aborts with zero pages and a single error; per-page failures
// accumulate without stopping the crawl. The crawl ends when the page
// cap is reached or the queue drains.
func (s *Scraper) CrawlSite(ctx context.Context, startURL string, opts CrawlOptions) *CrawlResult {
	logger := logutil.GetLogger(ctx).With(zap.String("start_url", startURL))

	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if maxPages > MaxCrawlPages {
		maxPages = MaxCrawlPages
	}

	parsed, err := url.Parse(startURL)
	if err != nil {
		return &CrawlResult{Errors: []CrawlError{{URL: startURL, Reason: "invalid start url"}}}
	}
	origin := parsed.Scheme + "://" + parsed.Host
	allowedPrefix := origin
	if opts.AllowedPathPrefix != "" {
		allowedPrefix = origin + opts.AllowedPathPrefix
	}

	if !s.allowedByRobots(ctx, startURL) {
		logger.Info("crawl blocked by robots.txt")
		return &CrawlResult{Errors: []CrawlError{{URL: startURL, Reason: RobotsBlockedReason}}}
	}

	var seeds []string
	if opts.UseSitemap {
		seeds = s.discoverSitemapURLs(ctx, startURL, maxPages)
	}
	if len(seeds) > 0 {
		logger.Info("crawl seeded from sitemap", zap.Int("urls", len(seeds)))
		return s.crawlFixedList(ctx, seeds, allowedPrefix, maxPages)
	}
	return s.crawlBreadthFirst(ctx, startURL, allowedPrefix, maxPages)
}

// crawlFixedList fetches a known URL list with a bounded worker pool;
// each worker sleeps between fetches so the pool as a whole stays
// polite to the host.
func (s *Scraper) crawlFixedList(ctx context.Context, seeds []string, allowedPrefix string, maxPages int) *CrawlResult {
	type slot struct {
		page *ScrapedPage
		errs []CrawlError
		skip int
	}
	slots := make([]slot, len(seeds))
	seen := make(map[string]struct{}, len(seeds))

	var wg sync.WaitGroup
	sem := make(chan struct{}, crawlFetchWorkers)
	for i, pageURL := range seeds {
		if _, dup := seen[pageURL]; dup {
			slots[i].skip = 1
			continue
		}
		seen[pageURL] = struct{}{}
		if !crawlable(pageURL, allowedPrefix) {
			slots[i].skip = 1
			continue
		}
		wg.Add(1)
		go func(i int, pageURL string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			page, err := s.ScrapePage(ctx, pageURL)
			if err != nil {
				slots[i].errs = []CrawlError{{URL: pageURL, Reason: err.Error()}}
			} else if len(page.Text) < minPageTextChars {
				slots[i].skip = 1
			} else {
				slots[i].page = page
			}
			time.Sleep(politenessDelay)
		}(i, pageURL)
	}
	wg.Wait()

	result := &CrawlResult{}
	for _, sl := range slots {
		if sl.page != nil && len(result.Pages) < maxPages {
			result.Pages = append(result.Pages, sl.page)
		}
		result.Skipped += sl.skip
		result.Errors = append(result.Errors, sl.errs...)
	}
	return result
}

// crawlBreadthFirst expands from a single start URL via discovered
// same-origin links. Sequential: ordering determines which pages make
// the cap.
func (s *Scraper) crawlBreadthFirst(ctx context.Context, startURL, allowedPrefix string, maxPages int) *CrawlResult {
	result := &CrawlResult{}
	queue := []string{startURL}
	visited := make(map[string]struct{})

	for len(queue) > 0 && len(result.Pages) < maxPages {
		if ctx.Err() != nil {
			break
		}
		pageURL := queue[0]
		queue = queue[1:]

		if _, ok := visited[pageURL]; ok {
			result.Skipped++
			continue
		}
		visited[pageURL] = struct{}{}
		if !crawlable(pageURL, allowedPrefix) {
			result.Skipped++
			continue
		}

		page, err := s.ScrapePage(ctx, pageURL)
		if err != nil {
			result.Errors = append(result.Errors, CrawlError{URL: pageURL, Reason: err.Error()})
			continue
		}
		if len(page.Text) < minPageTextChars {
			result.Skipped++
			continue
		}
		result.Pages = append(result.Pages, page)

		for _, link := range page.Links {
			if _, ok := visited[link]; !ok {
				queue = append(queue, link)
			}
		}

		if len(result.Pages)%politenessEvery == 0 {
			time.Sleep(politenessDelay)
		}
	}
	return result
}

func crawlable(pageURL, allowedPrefix string) bool {
	if !strings.HasPrefix(pageURL, allowedPrefix) {
		return false
	}
	return !nonContentExt.MatchString(pageURL)
}
