// Package html normalises HTML pages, typically saved from official
// journal and agency websites, into plain-text documents.
package html

import (
	"context"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
)

var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser strips markup from HTML documents. It is regex-based on
// purpose: corpus pages are static exports, not live DOM trees, and a
// full parser buys nothing for tag stripping.
type Normaliser struct{}

// New creates an HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority, above the plaintext
// fallback.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise converts an HTML page to a plain-text document. Chunking
// is left to the post-processor pipeline.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	page := string(raw.Content)
	now := time.Now()

	return &driven.NormaliseResult{
		Document: domain.Document{
			ID:        uuid.New().String(),
			URI:       raw.URI,
			Title:     title(page, raw.URI),
			Content:   stripHTML(page),
			Metadata:  metadata(raw),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}, nil
}

var (
	titleTag     = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	h1Tag        = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	// Elements whose content never belongs in the text.
	invisible = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`),
		regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`),
		regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`),
		regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`),
	}
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	cellClose    = regexp.MustCompile(`(?i)</t[dh]>`)
	blockOpen    = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	blockClose   = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	breakTags    = regexp.MustCompile(`(?i)<[bh]r\s*/?>`)
	anyTag       = regexp.MustCompile(`<[^>]+>`)
	spaceRuns    = regexp.MustCompile(` {2,}`)
	tabRuns      = regexp.MustCompile(`[ \t]*\t[ \t]*`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// title prefers the <title> tag, then the first <h1>, then the cleaned
// filename. Pages scraped from official journals often lack a <title>;
// the act name is usually the first heading.
func title(page, uri string) string {
	if m := titleTag.FindStringSubmatch(page); len(m) > 1 {
		if t := strings.TrimSpace(html.UnescapeString(m[1])); t != "" {
			return t
		}
	}
	if m := h1Tag.FindStringSubmatch(page); len(m) > 1 {
		t := anyTag.ReplaceAllString(m[1], "")
		if t = strings.TrimSpace(html.UnescapeString(t)); t != "" {
			return t
		}
	}

	name := filepath.Base(uri)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

// stripHTML reduces a page to readable text. Closing table cells
// become tabs so annex limit tables keep their columns apart, matching
// the DOCX normaliser's table output; block boundaries become
// newlines.
func stripHTML(page string) string {
	for _, re := range invisible {
		page = re.ReplaceAllString(page, "")
	}
	page = htmlComments.ReplaceAllString(page, "")
	page = cellClose.ReplaceAllString(page, "\t")
	page = blockOpen.ReplaceAllString(page, "\n")
	page = blockClose.ReplaceAllString(page, "\n")
	page = breakTags.ReplaceAllString(page, "\n")
	page = anyTag.ReplaceAllString(page, "")
	page = html.UnescapeString(page)

	// Tabs survive whitespace collapsing: they are cell separators.
	page = spaceRuns.ReplaceAllString(page, " ")
	page = tabRuns.ReplaceAllString(page, "\t")
	page = blankRuns.ReplaceAllString(page, "\n\n")

	var lines []string
	for _, line := range strings.Split(page, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func metadata(raw *domain.RawDocument) map[string]any {
	md := make(map[string]any, len(raw.Metadata)+2)
	for k, v := range raw.Metadata {
		md[k] = v
	}
	md["mime_type"] = raw.MIMEType
	md["format"] = "html"
	return md
}
