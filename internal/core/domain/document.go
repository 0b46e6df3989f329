package domain

import "time"

// Document is a normalised source document: the full extracted text
// of one file in the corpus, before chunking. Citations point back to
// its URI and Title, so both survive all the way to the presentation
// layer.
type Document struct {
	ID string

	// URI is the source location under the corpus root.
	URI string

	// Title is what citations display, extracted by the normaliser.
	Title string

	// Content is the full extracted text.
	Content string

	// Metadata records provenance details such as the MIME type and
	// the extractor that produced the text.
	Metadata map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Chunk is the unit of retrieval: a passage of a document small
// enough to embed, rerank and cite on its own. Chunks are immutable
// once ingested; re-ingesting a document replaces them wholesale.
type Chunk struct {
	ID string

	// DocumentID names the parent document.
	DocumentID string

	// Content is the passage text.
	Content string

	// Position is the chunk's ordinal within its document.
	Position int

	// Embedding is the vector the index searches over.
	Embedding []float32

	// Metadata carries chunk-level extras such as rune offsets.
	Metadata map[string]any
}
