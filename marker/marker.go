// Package marker turns raw heterogeneous transit records into the uniform,
// display-ready representation the map renders: coordinates, icon category,
// presentation fields, search text, and favourite key.
package marker

import (
	"strings"

	"github.com/iompar/iompar/feeds"
	"github.com/iompar/iompar/geo"
)

// Field is an ordered key/value pair for popup presentation. Order is
// preserved; the pipeline treats the content as opaque.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FavouriteKey identifies a record in the favourites store: the object type
// plus its natural id (train code, station code, bus route, bus stop id,
// Luas stop id).
type FavouriteKey struct {
	ObjectType string `json:"objectType"`
	ID         string `json:"id"`
}

// TrainDetails carries the classified Irish Rail train fields the display
// predicate consumes.
type TrainDetails struct {
	Kind              TrainKind
	Status            TrainStatus
	Punctuality       int
	PunctualityKnown  bool
	PunctualityStatus PunctualityStatus
	Bucket            PunctualityBucket
	LatenessMessage   string
}

// LuasDetails carries the classified Luas stop fields.
type LuasDetails struct {
	Line         LuasLine
	Enabled      bool
	ParkAndRide  bool
	CycleAndRide bool
}

// Marker is the classified, display-ready form of one RawRecord. It is
// rebuilt wholesale every fetch cycle and never mutated by the evaluator
// except for the Visible flag.
type Marker struct {
	Coordinates  geo.Point    `json:"coordinates"`
	Category     Category     `json:"-"`
	Icon         string       `json:"icon"`
	Title        string       `json:"title"`
	DetailFields []Field      `json:"detailFields"`
	SearchText   string       `json:"searchText"`
	FavouriteKey FavouriteKey `json:"favouriteKey"`

	// Visible is the evaluator's output, recomputed every pass.
	Visible bool `json:"visible"`
	// Displayable is false for data-quality exclusions (blank bus names,
	// unknown object types); such records never become visible regardless
	// of filter state.
	Displayable bool `json:"-"`

	// Raw keeps the source record for the predicate's string-sentinel
	// checks and for popup detail lookups.
	Raw feeds.RawRecord `json:"-"`

	Train *TrainDetails `json:"-"`
	Luas  *LuasDetails  `json:"-"`
}

// NormalizeText lowercases s and strips every character that is not an
// ASCII letter or digit. Marker search text and search queries must go
// through the same rule or substring matching silently breaks.
func NormalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
