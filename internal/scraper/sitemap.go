package scraper

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	sitemapTimeout = 10 * time.Second
	maxSubSitemaps = 3
)

type sitemapDoc struct {
	Sitemaps []sitemapLoc `xml:"sitemap"`
	URLs     []sitemapLoc `xml:"url"`
}

type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// discoverSitemapURLs seeds a crawl from /sitemap.xml. A sitemap index
// is followed into at most maxSubSitemaps sub-sitemaps.
func (s *Scraper) discoverSitemapURLs(ctx context.Context, siteURL string, limit int) []string {
	parsed, err := url.Parse(siteURL)
	if err != nil {
		return nil
	}
	root := s.fetchSitemap(ctx, parsed.Scheme+"://"+parsed.Host+"/sitemap.xml")
	if root == nil {
		return nil
	}

	var urls []string
	if len(root.Sitemaps) > 0 {
		subs := root.Sitemaps
		if len(subs) > maxSubSitemaps {
			subs = subs[:maxSubSitemaps]
		}
		for _, sub := range subs {
			child := s.fetchSitemap(ctx, strings.TrimSpace(sub.Loc))
			if child == nil {
				continue
			}
			for _, u := range child.URLs {
				urls = append(urls, strings.TrimSpace(u.Loc))
			}
			if len(urls) >= limit {
				break
			}
		}
	} else {
		for _, u := range root.URLs {
			urls = append(urls, strings.TrimSpace(u.Loc))
		}
	}
	if len(urls) > limit {
		urls = urls[:limit]
	}
	return urls
}

func (s *Scraper) fetchSitemap(ctx context.Context, sitemapURL string) *sitemapDoc {
	if sitemapURL == "" {
		return nil
	}
	resp, err := s.fetch(ctx, sitemapURL, sitemapTimeout)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	var doc sitemapDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil
	}
	return &doc
}
