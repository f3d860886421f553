package pipeline

import (
	"strings"

	"github.com/iompar/iompar/marker"
)

// SearchIndex applies the free-text filter on top of the visible marker
// set. Results are memoized on (normalized query, marker-set generation) so
// unrelated re-renders never re-filter thousands of markers.
type SearchIndex struct {
	memoQuery  string
	memoGen    uint64
	memoResult []marker.Marker
	memoValid  bool
}

// Filter returns the visible markers whose search text contains the
// normalized query as a substring. An empty query retains every visible
// marker. gen identifies the marker set; bump it whenever the set is
// rebuilt or re-evaluated.
func (s *SearchIndex) Filter(query string, gen uint64, markers []marker.Marker) []marker.Marker {
	q := marker.NormalizeText(query)
	if s.memoValid && q == s.memoQuery && gen == s.memoGen {
		return s.memoResult
	}

	result := make([]marker.Marker, 0, len(markers))
	for _, m := range markers {
		if !m.Visible {
			continue
		}
		if q == "" || strings.Contains(m.SearchText, q) {
			result = append(result, m)
		}
	}

	s.memoQuery = q
	s.memoGen = gen
	s.memoResult = result
	s.memoValid = true
	return result
}

// Invalidate drops the memo, forcing the next Filter call to recompute.
func (s *SearchIndex) Invalidate() {
	s.memoValid = false
	s.memoResult = nil
}
