package scraper

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"
)

const robotsTimeout = 5 * time.Second

// allowedByRobots checks the site's robots.txt for the crawl user
// agent. A missing or unreadable robots.txt allows the crawl.
func (s *Scraper) allowedByRobots(ctx context.Context, pageURL string) bool {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return true
	}
	robotsURL := parsed.Scheme + "://" + parsed.Host + "/robots.txt"
	resp, err := s.fetch(ctx, robotsURL, robotsTimeout)
	if err != nil {
		return true
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return true
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return true
	}
	robots, err := robotstxt.FromBytes(body)
	if err != nil {
		return true
	}
	path := parsed.Path
	if path == "" {
		path = "/"
	}
	return robots.TestAgent(path, s.userAgent)
}
