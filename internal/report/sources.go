package report

import "github.com/hyperjump/integrity/internal/models"

// Source is a distinct source in first-occurrence order. The embedded match is the
// first match that referenced the source.
type Source struct {
	models.Match
	DisplayID int `json:"display_id"`
}

// SourceRegistry assigns 1-based display ids to distinct sources in order of first appearance.
type SourceRegistry struct {
	sources []Source
	byID    map[string]int // source id -> index into sources
}

// NewSourceRegistry scans matches in order and registers each source id once.
func NewSourceRegistry(matches []models.Match) *SourceRegistry {
	r := &SourceRegistry{byID: make(map[string]int)}
	for _, m := range matches {
		if _, seen := r.byID[m.SourceID]; seen {
			continue
		}
		r.byID[m.SourceID] = len(r.sources)
		r.sources = append(r.sources, Source{Match: m, DisplayID: len(r.sources) + 1})
	}
	return r
}

// Len returns the number of distinct sources.
func (r *SourceRegistry) Len() int {
	return len(r.sources)
}

// Sources returns the registry in display order. The returned slice is a copy.
func (r *SourceRegistry) Sources() []Source {
	return append([]Source(nil), r.sources...)
}

// DisplayID returns the display id assigned to sourceID.
func (r *SourceRegistry) DisplayID(sourceID string) (int, bool) {
	i, ok := r.byID[sourceID]
	if !ok {
		return 0, false
	}
	return i + 1, true
}

// ByID returns the registered source for sourceID.
func (r *SourceRegistry) ByID(sourceID string) (Source, bool) {
	i, ok := r.byID[sourceID]
	if !ok {
		return Source{}, false
	}
	return r.sources[i], true
}

// ByDisplayID returns the source with the given display id.
func (r *SourceRegistry) ByDisplayID(displayID int) (Source, bool) {
	if displayID < 1 || displayID > len(r.sources) {
		return Source{}, false
	}
	return r.sources[displayID-1], true
}
