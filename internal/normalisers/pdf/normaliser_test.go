package pdf

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
)

var _ driven.Normaliser = (*Normaliser)(nil)

// fakeRunner stands in for pdftotext.
type fakeRunner struct {
	output []byte
	err    error
}

func (f *fakeRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return f.output, f.err
}

func requirePDFToText(t *testing.T) {
	t.Helper()
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH")
	}
}

func TestNormaliserContract(t *testing.T) {
	n := New()
	require.NotNil(t, n)

	assert.Equal(t, []string{"application/pdf"}, n.SupportedMIMETypes())
	assert.Equal(t, 50, n.Priority())

	runner := &fakeRunner{output: []byte("text")}
	assert.Equal(t, runner, NewWithRunner(runner).runner)
}

func TestNormalise(t *testing.T) {
	t.Run("nil input", func(t *testing.T) {
		result, err := New().Normalise(context.Background(), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Nil(t, result)
	})

	t.Run("extracted text becomes the document", func(t *testing.T) {
		requirePDFToText(t)

		n := NewWithRunner(&fakeRunner{
			output: []byte("Hygiene of Foodstuffs\n\nOperators shall comply with Annex II.\n"),
		})
		result, err := n.Normalise(context.Background(), &domain.RawDocument{
			URI:      "/corpus/hygiene.pdf",
			MIMEType: "application/pdf",
			Content:  []byte("%PDF-1.4 fake pdf content"),
		})
		require.NoError(t, err)
		require.NotNil(t, result)

		doc := result.Document
		assert.NotEmpty(t, doc.ID)
		assert.Equal(t, "/corpus/hygiene.pdf", doc.URI)
		assert.Equal(t, "Hygiene of Foodstuffs", doc.Title)
		assert.Contains(t, doc.Content, "Operators shall comply with Annex II.")
		assert.Equal(t, "application/pdf", doc.Metadata["mime_type"])
		assert.Equal(t, "pdf", doc.Metadata["format"])
	})

	t.Run("extraction failure surfaces", func(t *testing.T) {
		requirePDFToText(t)

		n := NewWithRunner(&fakeRunner{err: errors.New("pdftotext crashed")})
		result, err := n.Normalise(context.Background(), &domain.RawDocument{
			URI:      "/corpus/document.pdf",
			MIMEType: "application/pdf",
			Content:  []byte("%PDF-1.4 fake pdf content"),
		})
		assert.ErrorContains(t, err, "pdftotext failed")
		assert.Nil(t, result)
	})
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		uri     string
		want    string
	}{
		{"first line", "Official Controls Regulation\n\nThis Regulation lays down rules.", "/doc.pdf", "Official Controls Regulation"},
		{"leading blank lines skipped", "\n\n\nCommission Implementing Decision\nThe measure is approved.", "/doc.pdf", "Commission Implementing Decision"},
		{"overlong first line skipped", strings.Repeat("x", 250) + "\nAnnex II\nDefault limits apply.", "/doc.pdf", "Annex II"},
		{"filename when nothing qualifies", "", "/corpus/novel_foods-guidance.pdf", "novel foods guidance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractTitle(tt.content, tt.uri))
		})
	}
}

func TestCopyMetadata(t *testing.T) {
	assert.Nil(t, copyMetadata(nil))
	assert.Empty(t, copyMetadata(map[string]any{}))

	src := map[string]any{"source": "corpus", "pages": 42}
	dst := copyMetadata(src)
	assert.Equal(t, src, dst)

	dst["pages"] = 7
	assert.Equal(t, 42, src["pages"])
}

func TestToolDiagnostics(t *testing.T) {
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")

	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}
