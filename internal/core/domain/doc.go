// Package domain defines the core business entities for Norma.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A normalised regulatory document
//   - Chunk: An indexed unit within a document
//   - Query/Intent: A user question and its routed intent
//   - Response: A pipeline answer with citations
//   - KnowledgeScope: The topics the corpus covers
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
