package enrich

import (
	"github.com/fairwaynet/fairwaygraph/pkg/graph"
)

// Lookup is a per-section-id attribute table produced by one or more
// matching passes. Iteration order follows section row order.
type Lookup struct {
	order []string
	attrs map[string]graph.Attributes
}

// NewLookup creates an empty lookup.
func NewLookup() *Lookup {
	return &Lookup{attrs: make(map[string]graph.Attributes)}
}

// Get returns the attributes for a section id.
func (l *Lookup) Get(sectionID string) (graph.Attributes, bool) {
	a, ok := l.attrs[sectionID]
	return a, ok
}

// SectionIDs returns the section ids in insertion order.
func (l *Lookup) SectionIDs() []string {
	return l.order
}

// Set merges attributes onto the section's entry, creating it if needed.
func (l *Lookup) Set(sectionID string, attrs graph.Attributes) {
	entry, ok := l.attrs[sectionID]
	if !ok {
		entry = make(graph.Attributes)
		l.attrs[sectionID] = entry
		l.order = append(l.order, sectionID)
	}
	entry.Merge(attrs)
}

// MatchedCount returns the number of sections with at least one attribute.
func (l *Lookup) MatchedCount() int {
	n := 0
	for _, a := range l.attrs {
		if len(a) > 0 {
			n++
		}
	}
	return n
}

// MergeFrom folds another lookup into this one.
func (l *Lookup) MergeFrom(other *Lookup) {
	for _, id := range other.order {
		l.Set(id, other.attrs[id])
	}
}
