// Package goquery implements HTML extraction using the PuerkitoBio/goquery
// library. It provides the product, hero product, policy link, and brand
// profile extractors along with Shopify platform detection.
package goquery

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/storelens/storelens"
)

// Document wraps a parsed HTML document together with its base URL so
// extractors can resolve relative links and decode structured data.
type Document struct {
	doc  *goquery.Document
	base *url.URL
}

// ParseDocument parses HTML into a Document. baseURL may be empty, in which
// case relative links cannot be resolved and ResolveURL returns only
// already-absolute inputs.
func ParseDocument(html string, baseURL string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, storelens.Errorf(storelens.EINVALID, "failed to parse HTML: %v", err)
	}

	var base *url.URL
	if baseURL != "" {
		base, err = url.Parse(baseURL)
		if err != nil {
			return nil, storelens.Errorf(storelens.EINVALID, "invalid base URL: %v", err)
		}
	}

	return &Document{doc: doc, base: base}, nil
}

// Find returns all elements matching the selector.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// ResolveURL resolves href against the document's base URL. It returns an
// empty string for empty, unparseable, or non-http(s) results.
func (d *Document) ResolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := ref
	if d.base != nil {
		resolved = d.base.ResolveReference(ref)
	}

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	if resolved.Host == "" {
		return ""
	}

	return resolved.String()
}

// StructuredData decodes every application/ld+json script block in the
// document. Each block is decoded independently so one malformed block does
// not discard the others. Top-level arrays and @graph containers are
// flattened into individual objects.
func (d *Document) StructuredData() []map[string]any {
	var blocks []map[string]any

	d.doc.Find("script[type='application/ld+json']").Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}

		var decoded any
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return
		}

		blocks = append(blocks, flattenStructuredData(decoded)...)
	})

	return blocks
}

func flattenStructuredData(decoded any) []map[string]any {
	switch v := decoded.(type) {
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			var out []map[string]any
			for _, item := range graph {
				out = append(out, flattenStructuredData(item)...)
			}
			return out
		}
		return []map[string]any{v}
	case []any:
		var out []map[string]any
		for _, item := range v {
			out = append(out, flattenStructuredData(item)...)
		}
		return out
	}
	return nil
}

// attrOr returns the first non-empty attribute value among names.
func attrOr(sel *goquery.Selection, names ...string) string {
	for _, name := range names {
		if val, ok := sel.Attr(name); ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// normalizeText collapses runs of whitespace into single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// selectionText returns the whitespace-normalized text of the selection.
func selectionText(sel *goquery.Selection) string {
	return normalizeText(sel.Text())
}

// firstText returns the normalized text of the first element matching any of
// the selectors, in order.
func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		found := sel.Find(selector).First()
		if found.Length() == 0 {
			continue
		}
		if text := selectionText(found); text != "" {
			return text
		}
	}
	return ""
}
