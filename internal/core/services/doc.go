// Package services implements the driving port interfaces.
// Services hold the answer pipeline logic: routing, retrieval,
// reranking, synthesis and refusal, plus ingest, scope and
// settings orchestration over the driven ports (adapters).
//
// Services are pure Go with no CGO or external dependencies.
package services
