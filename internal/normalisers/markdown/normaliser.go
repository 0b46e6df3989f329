// Package markdown normalises Markdown files into plain text.
// Formatting is stripped rather than rendered; the retrieval pipeline
// only ever sees the words.
package markdown

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Markup that carries no words, removed outright.
var (
	fencedCode = regexp.MustCompile("(?s)```.*?```")
	inlineCode = regexp.MustCompile("`[^`]+`")
	image      = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	rule       = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	tableRule  = regexp.MustCompile(`(?m)^\s*\|?[\s:|-]+\|[\s:|-]*$`)
)

// Markup rewritten to keep its text.
var (
	link       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	heading    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquote = regexp.MustCompile(`(?m)^>\s*`)
	bullet     = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	blankRuns  = regexp.MustCompile(`\n{3,}`)
)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Above the plaintext fallback.
}

// Normalise strips Markdown formatting and yields a plain text
// document titled after the first H1, or the file name without one.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := string(raw.Content)
	now := time.Now()

	return &driven.NormaliseResult{
		Document: domain.Document{
			ID:        uuid.New().String(),
			URI:       raw.URI,
			Title:     title(text, raw.URI),
			Content:   stripMarkdown(text),
			Metadata:  metadata(raw),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}, nil
}

// title returns the first H1 text, or a cleaned-up file name.
func title(text, uri string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}

	name := strings.TrimSuffix(filepath.Base(uri), filepath.Ext(uri))
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ReplaceAll(name, "-", " ")
}

// stripMarkdown reduces Markdown to its text. Pipe tables survive as
// tab-separated rows, and numbered paragraph markers ("1. ...") are
// kept: in regulation text that numbering is operative, not layout.
func stripMarkdown(text string) string {
	text = fencedCode.ReplaceAllString(text, "")
	text = inlineCode.ReplaceAllString(text, "")
	text = image.ReplaceAllString(text, "")
	text = link.ReplaceAllString(text, "$1")
	text = heading.ReplaceAllString(text, "")
	text = blockquote.ReplaceAllString(text, "")
	text = tableRule.ReplaceAllString(text, "")
	text = rule.ReplaceAllString(text, "")
	text = bullet.ReplaceAllString(text, "")

	for _, marker := range []string{"**", "__", "*"} {
		text = strings.ReplaceAll(text, marker, "")
	}
	text = strings.ReplaceAll(text, "_", " ")

	text = flattenTables(text)
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// flattenTables converts pipe-table rows to tab-separated cells.
// Annexes put their operative limits in tables; dropping them would
// drop the very numbers the corpus is queried for.
func flattenTables(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") {
			continue
		}
		trimmed = strings.Trim(trimmed, "|")
		cells := strings.Split(trimmed, "|")
		for j, cell := range cells {
			cells[j] = strings.TrimSpace(cell)
		}
		lines[i] = strings.Join(cells, "\t")
	}
	return strings.Join(lines, "\n")
}

// metadata copies the raw metadata and records how the document was
// produced.
func metadata(raw *domain.RawDocument) map[string]any {
	md := make(map[string]any, len(raw.Metadata)+2)
	for k, v := range raw.Metadata {
		md[k] = v
	}
	md["mime_type"] = raw.MIMEType
	md["format"] = "markdown"
	return md
}
