package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	apperr "github.com/vcenk/SmartRealtorAgent/internal/pkg/errors"
)

const (
	DefaultUserAgent = "SmartRealtorAgent-Indexer/1.0 (compatible; +https://smartrealtoragent.com/bot)"

	fetchTimeout    = 15 * time.Second
	maxContentChars = 100_000

	// Prose shorter than this triggers the hydration-payload fallback;
	// the page is likely rendered client side.
	minProseChars = 200
)

// Tags removed entirely before text extraction.
var noiseTags = []string{
	"script", "style", "noscript", "iframe", "svg", "canvas",
	"nav", "header", "footer", "aside",
	"form", "button", "select", "input", "textarea",
}

// Class/id fragments that usually indicate boilerplate.
var noiseSelectors = []string{
	`[class*="nav"]`, `[class*="menu"]`, `[class*="header"]`, `[class*="footer"]`,
	`[class*="sidebar"]`, `[class*="cookie"]`, `[class*="banner"]`, `[class*="popup"]`,
	`[class*="modal"]`, `[class*="overlay"]`, `[class*="ad-"]`, `[class*="ads-"]`,
	`[id*="nav"]`, `[id*="menu"]`, `[id*="header"]`, `[id*="footer"]`, `[id*="sidebar"]`,
}

type ScrapedPage struct {
	URL            string        `json:"url"`
	Title          string        `json:"title"`
	Text           string        `json:"text"`
	StructuredText string        `json:"structured_text"`
	JSONLD         []interface{} `json:"json_ld"`
	Links          []string      `json:"links"`
}

type Scraper struct {
	client    *http.Client
	userAgent string
}

func New(userAgent string) *Scraper {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Scraper{
		client:    &http.Client{Timeout: fetchTimeout},
		userAgent: userAgent,
	}
}

func (s *Scraper) fetch(ctx context.Context, pageURL string, timeout time.Duration) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*")
	resp, err := s.client.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	// The cancel is tied to body consumption; callers close the body.
	resp.Body = &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// ScrapePage fetches one page and extracts title, readable prose,
// structured facts and same-origin links.
func (s *Scraper) ScrapePage(ctx context.Context, pageURL string) (*ScrapedPage, error) {
	resp, err := s.fetch(ctx, pageURL, fetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrFetchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d fetching %s", apperr.ErrFetchFailed, resp.StatusCode, pageURL)
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "html") {
		return nil, fmt.Errorf("%w: %s", apperr.ErrNotHTML, contentType)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrFetchFailed, err)
	}
	return s.parsePage(pageURL, string(body))
}

func (s *Scraper) parsePage(pageURL, html string) (*ScrapedPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrFetchFailed, err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		title = pageURL
	}

	jsonLD := extractJSONLD(doc)                 // extracts and removes ld+json scripts
	links := extractInternalLinks(doc, pageURL)  // collect links before stripping
	stripNoise(doc)

	main := doc.Find(`main, article, [role="main"]`)
	var text string
	if main.Length() > 0 {
		text = toReadableText(main.First())
	} else {
		text = toReadableText(doc.Selection)
	}
	if len(text) < minProseChars {
		// Likely JS-rendered; harvest readable literals from embedded
		// hydration payloads as a best-effort degraded extraction.
		if harvested := harvestHydrationText(html); len(harvested) > len(text) {
			text = harvested
		}
	}
	if len(text) > maxContentChars {
		text = text[:maxContentChars]
	}

	structuredText := text
	if ldText := jsonLDToText(jsonLD); ldText != "" {
		structuredText = text + "\n\n--- Structured Data ---\n" + ldText
		if len(structuredText) > maxContentChars {
			structuredText = structuredText[:maxContentChars]
		}
	}

	return &ScrapedPage{
		URL:            pageURL,
		Title:          title,
		Text:           text,
		StructuredText: structuredText,
		JSONLD:         jsonLD,
		Links:          links,
	}, nil
}

func stripNoise(doc *goquery.Document) {
	doc.Find(strings.Join(noiseTags, ", ")).Remove()
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}
}

var (
	horizontalWS = regexp.MustCompile(`[ \t]{2,}`)
	manyNewlines = regexp.MustCompile(`\n{3,}`)
)

// toReadableText flattens an element tree to plain text, converting
// headings and list items to explicit markers so structure survives.
func toReadableText(sel *goquery.Selection) string {
	sel.Find("h1, h2, h3, h4").Each(func(_ int, el *goquery.Selection) {
		if text := strings.TrimSpace(el.Text()); text != "" {
			el.SetText("\n\n## " + text + "\n")
		}
	})
	sel.Find("li").Each(func(_ int, el *goquery.Selection) {
		if text := strings.TrimSpace(el.Text()); text != "" {
			el.SetText("\n• " + text)
		}
	})
	sel.Find("br").Each(func(_ int, el *goquery.Selection) {
		el.ReplaceWithHtml("\n")
	})
	sel.Find("p, div").Each(func(_ int, el *goquery.Selection) {
		if len(strings.TrimSpace(el.Text())) > 20 {
			el.PrependHtml("\n")
		}
	})

	text := sel.Text()
	text = horizontalWS.ReplaceAllString(text, " ")
	text = manyNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func extractInternalLinks(doc *goquery.Document, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(_ int, el *goquery.Selection) {
		href, _ := el.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
			return
		}
		abs, err := base.Parse(href)
		if err != nil {
			return
		}
		abs.Fragment = ""
		clean := abs.String()
		if abs.Scheme+"://"+abs.Host != base.Scheme+"://"+base.Host {
			return
		}
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		links = append(links, clean)
	})
	return links
}
