// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the answer pipeline to function:
//
//   - LLMService: Intent routing, answer synthesis and chitchat
//   - EmbeddingService: Query and chunk embeddings
//   - DocumentStore: Document and chunk persistence
//   - VectorIndex: Similarity search over chunk embeddings
//   - Reranker: Relevance scoring of retrieved chunks
//   - ConfigStore: Application configuration
//   - ScopeStore: Knowledge scope persistence
//
// # Optional Interfaces
//
// These can be nil - the pipeline degrades gracefully and reports
// degraded responses instead of failing:
//
//   - PromptStore: Customisable prompt templates (embedded defaults
//     are used without it)
//   - Connector, NormaliserRegistry, PostProcessorPipeline: Only needed
//     for ingestion, not for answering
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
