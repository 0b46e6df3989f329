package normalisers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/norma-labs/norma-cli/internal/core/domain"
	"github.com/norma-labs/norma-cli/internal/core/ports/driven"
)

// fallbackPriorityCeiling separates fallback normalisers (priority 1-9)
// from MIME-specific ones.
const fallbackPriorityCeiling = 10

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to the best matching normaliser.
//
// Selection is by exact MIME type, highest priority first. Unclaimed
// text/* types go to the highest-priority fallback normaliser
// (priority below 10); unclaimed binary types are unsupported so the
// ingester can count them as skipped rather than index raw bytes.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty normaliser registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(normaliser driven.Normaliser) {
	if normaliser == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append(r.normalisers, normaliser)

	// Keep highest priority first so selection is a linear scan.
	sort.SliceStable(r.normalisers, func(i, j int) bool {
		return r.normalisers[i].Priority() > r.normalisers[j].Priority()
	})
}

// Normalise transforms a raw document using the best matching normaliser.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	normaliser := r.selectFor(raw.MIMEType)
	if normaliser == nil {
		return nil, fmt.Errorf("%w: no normaliser for %s", domain.ErrUnsupportedType, raw.MIMEType)
	}

	return normaliser.Normalise(ctx, raw)
}

// SupportedMIMETypes returns all MIME types that can be normalised.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var types []string
	for _, n := range r.normalisers {
		for _, mime := range n.SupportedMIMETypes() {
			if _, ok := seen[mime]; ok {
				continue
			}
			seen[mime] = struct{}{}
			types = append(types, mime)
		}
	}

	sort.Strings(types)
	return types
}

// selectFor picks the normaliser for a MIME type, or nil when none applies.
func (r *Registry) selectFor(mimeType string) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Normalisers are sorted by priority, so the first exact match wins.
	for _, n := range r.normalisers {
		for _, mime := range n.SupportedMIMETypes() {
			if mime == mimeType {
				return n
			}
		}
	}

	// No exact match: unknown text subtypes still read as plain text,
	// but binary types stay unsupported.
	if strings.HasPrefix(mimeType, "text/") {
		for _, n := range r.normalisers {
			if n.Priority() < fallbackPriorityCeiling {
				return n
			}
		}
	}

	return nil
}
