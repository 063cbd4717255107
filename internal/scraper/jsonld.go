package scraper

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Fields worth surfacing from schema.org payloads on real-estate pages.
var interestingJSONLDKeys = []string{
	"name", "description", "price", "priceCurrency", "priceRange",
	"numberOfRooms", "numberOfBedrooms", "numberOfBathroomsTotal",
	"floorSize", "address", "streetAddress", "addressLocality",
	"addressRegion", "postalCode", "geo", "latitude", "longitude",
	"url", "telephone", "openingHours", "amenityFeature",
	"offers", "itemListElement",
}

// extractJSONLD pulls every ld+json script out of the document,
// removing the script nodes so they never leak into prose text.
// Malformed blocks are skipped.
func extractJSONLD(doc *goquery.Document) []interface{} {
	var results []interface{}
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, el *goquery.Selection) {
		defer el.Remove()
		var data interface{}
		if err := json.Unmarshal([]byte(el.Text()), &data); err != nil {
			return
		}
		if arr, ok := data.([]interface{}); ok {
			results = append(results, arr...)
		} else {
			results = append(results, data)
		}
	})
	return results
}

// jsonLDToText flattens schema.org objects into "key: value" lines,
// following @graph arrays and nested objects.
func jsonLDToText(items []interface{}) string {
	var lines []string
	var flatten func(obj interface{}, prefix string)
	flatten = func(obj interface{}, prefix string) {
		o, ok := obj.(map[string]interface{})
		if !ok {
			return
		}
		for _, key := range interestingJSONLDKeys {
			val, ok := o[key]
			if !ok {
				continue
			}
			switch v := val.(type) {
			case string:
				lines = append(lines, fmt.Sprintf("%s%s: %s", prefix, key, v))
			case float64:
				lines = append(lines, fmt.Sprintf("%s%s: %v", prefix, key, v))
			case []interface{}:
				for i, item := range v {
					flatten(item, fmt.Sprintf("%s%s[%d].", prefix, key, i))
				}
			case map[string]interface{}:
				flatten(v, prefix+key+".")
			}
		}
		if graph, ok := o["@graph"].([]interface{}); ok {
			for _, item := range graph {
				flatten(item, prefix)
			}
		}
	}
	for _, item := range items {
		flatten(item, "")
	}
	return strings.Join(lines, "\n")
}
