// Package lexical provides a local reranker that scores chunks by
// lexical overlap with the query. It needs no network or API key and
// always produces the same scores for the same inputs.
package lexical

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
)

// Ensure Reranker implements the interface.
var _ driven.Reranker = (*Reranker)(nil)

// modelName identifies the local scoring scheme in status output.
const modelName = "lexical-overlap"

// Reranker scores chunks by query term coverage.
type Reranker struct{}

// NewReranker creates a local lexical reranker.
func NewReranker() *Reranker {
	return &Reranker{}
}

// Rerank scores the chunks against the query and returns the topN most
// relevant, best first. The score is the fraction of distinct query
// terms present in the chunk, on [0, 1]. Ties keep retrieval order, so
// the output is deterministic for a given input order.
func (r *Reranker) Rerank(ctx context.Context, query string, chunks []domain.RetrievedChunk, topN int) ([]domain.RankedChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(chunks) == 0 || topN <= 0 {
		return nil, nil
	}

	queryTerms := tokenise(query)

	ranked := make([]domain.RankedChunk, len(chunks))
	for i, chunk := range chunks {
		ranked[i] = domain.RankedChunk{
			RetrievedChunk: chunk,
			Relevance:      coverage(queryTerms, chunk.Chunk.Content),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Relevance > ranked[j].Relevance
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked, nil
}

// ModelName returns the rerank model identifier.
func (r *Reranker) ModelName() string {
	return modelName
}

// Close releases resources.
func (r *Reranker) Close() error {
	return nil
}

// coverage returns the fraction of query terms found in the content.
func coverage(queryTerms []string, content string) float64 {
	if len(queryTerms) == 0 {
		return 0
	}

	contentTerms := make(map[string]struct{})
	for _, term := range tokenise(content) {
		contentTerms[term] = struct{}{}
	}

	matched := 0
	for _, term := range queryTerms {
		if _, ok := contentTerms[term]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTerms))
}

// tokenise lowercases the text and splits it into distinct
// letter-digit runs, preserving first-seen order.
func tokenise(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		terms = append(terms, field)
	}
	return terms
}
