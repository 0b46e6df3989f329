package postprocessors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
	"github.com/norma-labs/norma-cli/internal/postprocessors/chunker"
	"github.com/norma-labs/norma-cli/internal/postprocessors/cleaner"
)

// Factory builds one pipeline stage from its settings table. The table
// comes straight out of the TOML store, so numeric values may arrive
// as int, int64 or float64 depending on how they were written.
type Factory func(cfg map[string]any) (driven.PostProcessor, error)

// Registry resolves the stage names listed in the ingest settings to
// their factories. Stages run in the order the settings list them.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Builtin returns a registry pre-loaded with the standard stages:
// "chunker" (split document text into overlapping chunks) and
// "cleaner" (strip extraction artefacts and drop empty chunks).
func Builtin() *Registry {
	r := NewRegistry()
	r.Register("chunker", buildChunker)
	r.Register("cleaner", buildCleaner)
	return r
}

// Register adds a stage factory under the given name.
// Re-registering a name replaces the previous factory.
func (r *Registry) Register(name string, factory Factory) {
	r.factories[name] = factory
}

// Build constructs the named stage. An unknown name usually means a
// typo in the ingest settings, so the error lists the stages the
// registry does know.
func (r *Registry) Build(name string, cfg map[string]any) (driven.PostProcessor, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown pipeline stage %q (available: %s)",
			name, strings.Join(r.Known(), ", "))
	}
	return factory(cfg)
}

// Known returns the registered stage names, sorted.
func (r *Registry) Known() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildChunker reads chunk_size and overlap from the stage settings,
// leaving the chunker's own defaults in place for anything absent.
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option
	if size := intSetting(cfg, "chunk_size"); size > 0 {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap := intSetting(cfg, "overlap"); overlap >= 0 {
		opts = append(opts, chunker.WithOverlap(overlap))
	}
	return chunker.New(opts...), nil
}

// buildCleaner constructs the artefact cleaner. It has no settings.
func buildCleaner(_ map[string]any) (driven.PostProcessor, error) {
	return cleaner.New(), nil
}

// intSetting coerces a numeric settings value to int. Returns -1 when
// the key is absent or not numeric, so callers can tell "not set"
// apart from a literal zero.
func intSetting(cfg map[string]any, key string) int {
	if cfg == nil {
		return -1
	}
	switch v := cfg[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return -1
	}
}
