// Package docx normalises Word documents. A DOCX file is a ZIP of XML
// parts; only word/document.xml (the text) and docProps/core.xml (the
// title) matter here.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
)

var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser extracts plain text from DOCX documents.
type Normaliser struct{}

// New creates a DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise converts a DOCX file to a plain-text document. Bytes that
// are not a valid ZIP archive are rejected as invalid input.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	archive, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	content, err := bodyText(archive)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &driven.NormaliseResult{
		Document: domain.Document{
			ID:        uuid.New().String(),
			URI:       raw.URI,
			Title:     title(archive, raw.URI),
			Content:   content,
			Metadata:  metadata(raw),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}, nil
}

// readPart returns the named archive member, or nil if absent.
func readPart(archive *zip.Reader, name string) ([]byte, error) {
	for _, file := range archive.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		return data, nil
	}
	return nil, nil
}

func bodyText(archive *zip.Reader) (string, error) {
	part, err := readPart(archive, "word/document.xml")
	if err != nil || part == nil {
		return "", err
	}
	return parseDocumentXML(part), nil
}

// documentXML mirrors the parts of word/document.xml we keep.
// Body-level paragraphs and tables are both captured; annexes
// frequently put the operative limits in tables rather than running
// text.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
		Tables     []table     `xml:"tbl"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

type table struct {
	Rows []tableRow `xml:"tr"`
}

type tableRow struct {
	Cells []tableCell `xml:"tc"`
}

type tableCell struct {
	Paragraphs []paragraph `xml:"p"`
}

// parseDocumentXML renders the body as text: paragraphs become lines,
// table rows become lines of tab-separated cells so limit columns stay
// apart.
func parseDocumentXML(content []byte) string {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return ""
	}

	var lines []string
	for _, para := range doc.Body.Paragraphs {
		lines = append(lines, paragraphText(para))
	}
	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				var parts []string
				for _, para := range cell.Paragraphs {
					if text := paragraphText(para); text != "" {
						parts = append(parts, text)
					}
				}
				cells = append(cells, strings.Join(parts, " "))
			}
			lines = append(lines, strings.Join(cells, "\t"))
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// paragraphText concatenates a paragraph's text runs.
func paragraphText(para paragraph) string {
	var b strings.Builder
	for _, r := range para.Runs {
		for _, t := range r.Text {
			b.WriteString(t.Content)
		}
	}
	return b.String()
}

// title prefers the docProps/core.xml title and falls back to the
// cleaned filename.
func title(archive *zip.Reader, uri string) string {
	if part, err := readPart(archive, "docProps/core.xml"); err == nil && part != nil {
		var core struct {
			Title string `xml:"title"`
		}
		if xml.Unmarshal(part, &core) == nil {
			if t := strings.TrimSpace(core.Title); t != "" {
				return t
			}
		}
	}

	name := filepath.Base(uri)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

func metadata(raw *domain.RawDocument) map[string]any {
	md := make(map[string]any, len(raw.Metadata)+2)
	for k, v := range raw.Metadata {
		md[k] = v
	}
	md["mime_type"] = raw.MIMEType
	md["format"] = "docx"
	return md
}
