package normalisers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driven"
	"github.com/custodia-labs/unisearch/internal/normalisers/html"
	"github.com/custodia-labs/unisearch/internal/normalisers/markdown"
	"github.com/custodia-labs/unisearch/internal/normalisers/pdf"
	"github.com/custodia-labs/unisearch/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to the highest-priority normaliser for their MIME type.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefaultRegistry creates a registry with every built-in normaliser.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults registers the built-in normalisers.
func RegisterDefaults(r driven.NormaliserRegistry) {
	r.Register(pdf.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(plaintext.New())
}

// Register adds a normaliser. Normalisers are kept sorted by descending priority.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.normalisers = append(r.normalisers, n)
	sort.SliceStable(r.normalisers, func(i, j int) bool {
		return r.normalisers[i].Priority() > r.normalisers[j].Priority()
	})
}

// Normalise extracts text with the best normaliser for raw.MIMEType.
// MIME parameters such as charset are ignored.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	n := r.lookup(baseMIMEType(raw.MIMEType))
	if n == nil {
		return nil, fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedType, raw.Name, raw.MIMEType)
	}
	return n.Normalise(ctx, raw)
}

func (r *Registry) lookup(mimeType string) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.normalisers {
		for _, m := range n.SupportedMIMETypes() {
			if m == mimeType {
				return n
			}
		}
	}
	return nil
}

// SupportedMIMETypes returns every MIME type some normaliser handles, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var types []string
	for _, n := range r.normalisers {
		for _, m := range n.SupportedMIMETypes() {
			if !seen[m] {
				seen[m] = true
				types = append(types, m)
			}
		}
	}
	sort.Strings(types)
	return types
}

func baseMIMEType(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	return strings.ToLower(strings.TrimSpace(m))
}
