// Package pipeline wires the classifier, filter tree, favourites and geo
// filter into the fetch-classify-evaluate-search cycle that feeds the map
// renderer.
package pipeline

import (
	"github.com/iompar/iompar/feeds"
	"github.com/iompar/iompar/filters"
	"github.com/iompar/iompar/geo"
	"github.com/iompar/iompar/marker"
)

// GeoFilter restricts markers to a radius around an origin. A nil origin
// (location unavailable) or a non-positive radius disables it.
type GeoFilter struct {
	Origin   *geo.Point
	RadiusKM float64
}

// Matches reports whether p passes the filter.
func (g GeoFilter) Matches(p geo.Point) bool {
	if g.Origin == nil || g.RadiusKM <= 0 {
		return true
	}
	return geo.DistanceKM(*g.Origin, p) < g.RadiusKM
}

// FavouriteChecker is the favourites lookup the evaluator needs.
type FavouriteChecker interface {
	IsFavourite(objectType, id string) bool
}

// Evaluator decides per-marker visibility from the current filter tree
// state, geo filter and favourites mode. It reads classified and raw fields
// and mutates nothing but the Visible flag.
type Evaluator struct {
	Tree           *filters.Tree
	Favourites     FavouriteChecker
	Geo            GeoFilter
	FavouritesOnly bool
}

// Evaluate recomputes Visible for every marker and returns the visible
// count. The full pass runs synchronously on every evaluation.
func (e *Evaluator) Evaluate(markers []marker.Marker) int {
	leaves := e.Tree.EnabledLeaves()
	visible := 0
	for i := range markers {
		markers[i].Visible = e.visible(&markers[i], leaves)
		if markers[i].Visible {
			visible++
		}
	}
	return visible
}

func (e *Evaluator) visible(m *marker.Marker, leaves map[string]bool) bool {
	if !m.Displayable {
		return false
	}
	// The location sentinel is a string comparison on the raw fields; a
	// parsed 0.0 from another path must not trip it.
	if !m.Raw.HasLocation() {
		return false
	}
	if !e.typeMatch(m, leaves) {
		return false
	}
	if !e.Geo.Matches(m.Coordinates) {
		return false
	}
	if e.FavouritesOnly {
		if e.Favourites == nil || !e.Favourites.IsFavourite(m.FavouriteKey.ObjectType, m.FavouriteKey.ID) {
			return false
		}
	}
	return true
}

func (e *Evaluator) typeMatch(m *marker.Marker, leaves map[string]bool) bool {
	switch m.Raw.ObjectType {
	case feeds.TypeIrishRailTrain:
		return trainMatch(m.Train, leaves)
	case feeds.TypeIrishRailStation:
		return leaves[filters.IrishRailStations]
	case feeds.TypeBus:
		return leaves[filters.Buses]
	case feeds.TypeBusStop:
		return leaves[filters.BusStops]
	case feeds.TypeLuasStop:
		return luasMatch(m.Luas, leaves)
	default:
		return false
	}
}

// trainMatch requires an enabled leaf for the derived kind, one for the
// derived status, and a third conjunct where punctuality leaves only gate
// running trains: non-running trains pass on their status leaf alone.
func trainMatch(t *marker.TrainDetails, leaves map[string]bool) bool {
	if t == nil {
		return false
	}
	if !leaves[trainKindLeaf(t.Kind)] {
		return false
	}
	statusLeaf := trainStatusLeaf(t.Status)
	if !leaves[statusLeaf] {
		return false
	}
	if t.Status == marker.TrainStatusRunning {
		return leaves[punctualityLeaf(t.PunctualityStatus)]
	}
	return leaves[statusLeaf]
}

func luasMatch(l *marker.LuasDetails, leaves map[string]bool) bool {
	if l == nil {
		return false
	}
	if !leaves[luasLineLeaf(l.Line)] {
		return false
	}
	if l.Enabled {
		if !leaves[filters.LuasEnabled] {
			return false
		}
	} else if !leaves[filters.LuasDisabled] {
		return false
	}
	// The two modifiers narrow independently; they are not mutually
	// exclusive.
	if leaves[filters.LuasParkAndRide] && !l.ParkAndRide {
		return false
	}
	if leaves[filters.LuasCycleAndRide] && !l.CycleAndRide {
		return false
	}
	return true
}

func trainKindLeaf(k marker.TrainKind) string {
	switch k {
	case marker.TrainKindMainline:
		return filters.Mainline
	case marker.TrainKindSuburban:
		return filters.Suburban
	case marker.TrainKindDART:
		return filters.DART
	default:
		return ""
	}
}

func trainStatusLeaf(s marker.TrainStatus) string {
	switch s {
	case marker.TrainStatusRunning:
		return filters.Running
	case marker.TrainStatusNotYetRunning:
		return filters.NotYetRunning
	case marker.TrainStatusTerminated:
		return filters.Terminated
	default:
		return ""
	}
}

func punctualityLeaf(p marker.PunctualityStatus) string {
	switch p {
	case marker.PunctualityEarly:
		return filters.Early
	case marker.PunctualityOnTime:
		return filters.OnTime
	case marker.PunctualityLate:
		return filters.Late
	default:
		return ""
	}
}

func luasLineLeaf(l marker.LuasLine) string {
	switch l {
	case marker.LuasLineRed:
		return filters.LuasRedLine
	case marker.LuasLineGreen:
		return filters.LuasGreenLine
	default:
		return ""
	}
}
