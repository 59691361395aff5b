// Package trafilatura extracts the main content of policy and information
// pages, stripping storefront navigation, carts, and footers.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/storelens/storelens"
	"golang.org/x/net/html"
)

// Ensure Extractor implements storelens.ContentExtractor at compile time.
var _ storelens.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to pull the main content region out of a
// page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and the main content as clean HTML.
func (e *Extractor) Extract(rawHTML string) (string, string, error) {
	if rawHTML == "" {
		return "", "", storelens.Errorf(storelens.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return "", "", storelens.Errorf(storelens.EINVALID, "content extraction failed: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return "", "", err
		}
	}

	return result.Metadata.Title, contentHTML, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
