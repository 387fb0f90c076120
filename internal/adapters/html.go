package adapters

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document parses an HTML page for goquery scanning.
func Document(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// JSONLDObjects returns every JSON-LD object embedded in the page, with
// @graph containers flattened. Structured data is the most reliable source
// on partner pages and is preferred over element scanning.
func JSONLDObjects(doc *goquery.Document) []map[string]any {
	var objects []map[string]any
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		var single map[string]any
		if err := json.Unmarshal([]byte(raw), &single); err == nil {
			objects = append(objects, flattenGraph(single)...)
			return
		}
		var many []map[string]any
		if err := json.Unmarshal([]byte(raw), &many); err == nil {
			for _, m := range many {
				objects = append(objects, flattenGraph(m)...)
			}
		}
	})
	return objects
}

func flattenGraph(m map[string]any) []map[string]any {
	graph, ok := m["@graph"].([]any)
	if !ok {
		return []map[string]any{m}
	}
	var out []map[string]any
	for _, g := range graph {
		if gm, ok := g.(map[string]any); ok {
			out = append(out, gm)
		}
	}
	return out
}

// LDString reads a string field from a JSON-LD object.
func LDString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// LDPrice digs the offer price out of a JSON-LD Product or Offer object.
func LDPrice(m map[string]any) (float64, bool) {
	if offers, ok := m["offers"].(map[string]any); ok {
		m = offers
	}
	switch v := m["price"].(type) {
	case float64:
		return v, true
	case string:
		if f, err := ParseNumber(v); err == nil {
			return f, true
		}
	}
	return 0, false
}

// PriceHit is a heuristic scan result: a price-like token with the nearest
// title text.
type PriceHit struct {
	Title string
	Value float64
}

// ScanPrices walks price-bearing elements and pairs each in-range value with
// a nearby heading. This is the middle fallback between structured data and
// a whole-page regex.
func ScanPrices(doc *goquery.Document, patterns []FieldPattern) []PriceHit {
	var hits []PriceHit
	doc.Find("li, td, div, span, p").Each(func(_ int, s *goquery.Selection) {
		own := strings.TrimSpace(s.Text())
		if own == "" || len(own) > 200 {
			return
		}
		v, err := ExtractNumber(own, patterns)
		if err != nil {
			return
		}
		hits = append(hits, PriceHit{Title: nearestTitle(s), Value: v})
	})
	return hits
}

func nearestTitle(s *goquery.Selection) string {
	for cur := s; cur.Length() > 0; cur = cur.Parent() {
		title := cur.Find("h1, h2, h3, h4, strong").First()
		if title.Length() > 0 {
			if t := strings.TrimSpace(title.Text()); t != "" {
				return t
			}
		}
	}
	return ""
}
