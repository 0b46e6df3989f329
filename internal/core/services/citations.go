package services

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

// Citation markers follow a strict grammar: a bracket group holding
// one or more comma-separated doc-N tokens, N counted from 1 in the
// order chunks were presented to the model. Anything else inside
// brackets is left untouched; doc-N tokens naming unpresented chunks
// are stripped.
var (
	bracketGroup = regexp.MustCompile(`\[([^\[\]]*)\]`)
	docToken     = regexp.MustCompile(`^doc-([0-9]+)$`)
)

// excerptLength caps citation excerpts for display.
const excerptLength = 200

// contextSeparator divides chunks in the synthesis context block.
const contextSeparator = "\n\n---\n\n"

// buildContext renders ranked chunks as the numbered context block the
// answer prompt consumes. Chunk i is labelled doc-(i+1); the citation
// grammar depends on this ordering.
func buildContext(chunks []domain.RankedChunk) string {
	if len(chunks) == 0 {
		return "No documents found."
	}

	blocks := make([]string, len(chunks))
	for i, chunk := range chunks {
		source := sourceName(chunk.Source)
		blocks[i] = fmt.Sprintf("Content from document [doc-%d] (%s):\n%s",
			i+1, source, strings.TrimSpace(chunk.Chunk.Content))
	}

	return strings.Join(blocks, contextSeparator)
}

// sourceName reduces a source URI to its display name.
func sourceName(uri string) string {
	if uri == "" {
		return "unknown source"
	}
	return filepath.Base(uri)
}

// sanitiseCitations validates every bracket group in the answer
// against the number of presented chunks.
//
// Valid doc-N tokens (1 <= N <= presented) survive; invalid ones are
// stripped from their group. Groups left with no valid tokens are
// removed entirely. Bracket groups that never matched the doc-N
// grammar (e.g. "[sic]") pass through untouched. Returns the cleaned
// answer and the distinct cited markers in ascending order.
func sanitiseCitations(answer string, presented int) (string, []int) {
	cited := make(map[int]bool)
	stripped := false

	clean := bracketGroup.ReplaceAllStringFunc(answer, func(group string) string {
		inner := group[1 : len(group)-1]
		tokens := strings.Split(inner, ",")

		markers := make([]int, 0, len(tokens))
		grammatical := true
		for _, token := range tokens {
			m := docToken.FindStringSubmatch(strings.TrimSpace(token))
			if m == nil {
				grammatical = false
				break
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				grammatical = false
				break
			}
			markers = append(markers, n)
		}

		// Not a citation group at all: leave prose brackets alone.
		if !grammatical {
			return group
		}

		valid := make([]string, 0, len(markers))
		for _, n := range markers {
			if n >= 1 && n <= presented {
				valid = append(valid, fmt.Sprintf("doc-%d", n))
				cited[n] = true
			}
		}
		if len(valid) < len(markers) {
			stripped = true
		}
		if len(valid) == 0 {
			return ""
		}
		return "[" + strings.Join(valid, ", ") + "]"
	})

	// Whitespace repair rewrites the whole answer, so it only runs
	// when a token was actually removed.
	if stripped {
		clean = tidyStripped(clean)
	} else {
		clean = strings.TrimSpace(clean)
	}

	markers := make([]int, 0, len(cited))
	for n := range cited {
		markers = append(markers, n)
	}
	sort.Ints(markers)

	return clean, markers
}

// tidyStripped normalises whitespace around removed citation groups.
func tidyStripped(s string) string {
	// Collapse the double spaces stripping leaves behind.
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	// Drop spaces stranded before punctuation.
	for _, p := range []string{".", ",", ";", ":", "!", "?"} {
		s = strings.ReplaceAll(s, " "+p, p)
	}
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// citationsFor builds citation records for the cited markers.
// Marker N refers to chunks[N-1]; ordering follows the markers.
func citationsFor(markers []int, chunks []domain.RankedChunk) []domain.Citation {
	citations := make([]domain.Citation, 0, len(markers))
	for _, n := range markers {
		if n < 1 || n > len(chunks) {
			continue
		}
		chunk := chunks[n-1]
		citations = append(citations, domain.Citation{
			Marker:  n,
			ChunkID: chunk.Chunk.ID,
			Source:  chunk.Source,
			Title:   chunk.Title,
			Excerpt: excerpt(chunk.Chunk.Content),
		})
	}
	return citations
}

// excerpt shortens chunk content for citation display. The cut byte
// budget backs off to a rune boundary so multi-byte characters
// (µg/kg, €, §, accented names) are never split.
func excerpt(content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= excerptLength {
		return content
	}
	end := excerptLength
	for end > 0 && !utf8.RuneStart(content[end]) {
		end--
	}
	cut := content[:end]
	if idx := strings.LastIndexByte(cut, ' '); idx > excerptLength/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}
