package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Degraded-mode extractor for JS-rendered pages: harvest long
// human-readable string literals out of inline script payloads
// (framework hydration state). Best effort only; swap for a headless
// fetch without touching any downstream consumer.

const minLiteralLen = 40

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script[^>]*>(.*?)</script>`)
	stringLiteral = regexp.MustCompile(`"((?:[^"\\]|\\.){40,}?)"`)
)

func harvestHydrationText(html string) string {
	seen := make(map[string]struct{})
	var parts []string
	for _, script := range scriptBlockRe.FindAllStringSubmatch(html, -1) {
		for _, m := range stringLiteral.FindAllStringSubmatch(script[1], -1) {
			literal, err := strconv.Unquote(`"` + m[1] + `"`)
			if err != nil {
				continue
			}
			literal = strings.TrimSpace(literal)
			if len(literal) < minLiteralLen || !looksHumanReadable(literal) {
				continue
			}
			if _, ok := seen[literal]; ok {
				continue
			}
			seen[literal] = struct{}{}
			parts = append(parts, literal)
		}
	}
	return strings.Join(parts, "\n")
}

// looksHumanReadable filters out urls, identifiers and minified blobs:
// prose is mostly letters and spaces and actually contains spaces.
func looksHumanReadable(s string) bool {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "/") || strings.HasPrefix(s, "{") {
		return false
	}
	var letters, spaces int
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case r == ' ':
			spaces++
		}
	}
	if spaces == 0 {
		return false
	}
	return float64(letters+spaces)/float64(len([]rune(s))) >= 0.75
}
