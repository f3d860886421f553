package filters

import (
	"errors"
	"testing"
)

func TestToggleRefusesEmptyingSection(t *testing.T) {
	tree := NewDefaultTree()

	// Leave dart as the only selected train kind.
	if err := tree.Toggle(Mainline); err != nil {
		t.Fatal(err)
	}
	if err := tree.Toggle(Suburban); err != nil {
		t.Fatal(err)
	}

	err := tree.Toggle(DART)
	if !errors.Is(err, ErrLastInSection) {
		t.Fatalf("expected ErrLastInSection, got %v", err)
	}
	if !tree.Selected(DART) {
		t.Error("refused toggle must not mutate state")
	}
}

func TestToggleOptionalModifierExemptFromSectionRule(t *testing.T) {
	tree := NewDefaultTree()

	// Modifiers start deselected; a full on/off cycle must work even though
	// each is the sole member of no section.
	if err := tree.Toggle(LuasParkAndRide); err != nil {
		t.Fatal(err)
	}
	if err := tree.Toggle(LuasParkAndRide); err != nil {
		t.Fatal(err)
	}
	if tree.Selected(LuasParkAndRide) {
		t.Error("modifier should be deselected after two toggles")
	}
}

func TestParentDeselectionCascadesWithoutMutatingChildren(t *testing.T) {
	tree := NewDefaultTree()

	if err := tree.Toggle(IrishRailTrains); err != nil {
		t.Fatal(err)
	}

	if tree.Enabled(DART) {
		t.Error("child must not be enabled while parent is deselected")
	}
	if !tree.Selected(DART) {
		t.Error("child selection bit must survive parent deselection")
	}

	// Re-checking the parent restores prior child selections.
	if err := tree.Toggle(IrishRailTrains); err != nil {
		t.Fatal(err)
	}
	if !tree.Enabled(DART) {
		t.Error("child should be enabled again after parent re-selected")
	}
}

func TestEnabledLeaves(t *testing.T) {
	tree := NewDefaultTree()
	leaves := tree.EnabledLeaves()

	for _, id := range []string{Mainline, DART, Running, IrishRailStations, Buses, BusStops, LuasRedLine} {
		if !leaves[id] {
			t.Errorf("expected %s enabled by default", id)
		}
	}
	if leaves[LuasParkAndRide] || leaves[LuasCycleAndRide] {
		t.Error("optional modifiers must start disabled")
	}
	if leaves[IrishRailTrains] {
		t.Error("group nodes are not leaves")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	tree := NewDefaultTree()
	if err := tree.Toggle(Buses); err != nil {
		t.Fatal(err)
	}
	if err := tree.Toggle(LuasGreenLine); err != nil {
		t.Fatal(err)
	}
	snap := tree.Snapshot()

	other := NewDefaultTree()
	other.Restore(snap)

	if other.Selected(Buses) {
		t.Error("Buses should be deselected after restore")
	}
	if other.Selected(LuasGreenLine) {
		t.Error("LuasGreenLine should be deselected after restore")
	}
	if !other.Selected(LuasRedLine) {
		t.Error("LuasRedLine should remain selected after restore")
	}
}

func TestRestoreIgnoresUnknownIDs(t *testing.T) {
	tree := NewDefaultTree()
	tree.Restore([]string{Buses, "retired-leaf"})
	if !tree.Selected(Buses) {
		t.Error("known id should be restored")
	}
	if tree.Selected(DART) {
		t.Error("ids absent from snapshot should be deselected")
	}
}

func TestToggleUnknownNode(t *testing.T) {
	tree := NewDefaultTree()
	if err := tree.Toggle("nope"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("expected ErrUnknownNode, got %v", err)
	}
}
