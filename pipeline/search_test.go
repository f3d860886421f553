package pipeline

import (
	"testing"

	"github.com/iompar/iompar/marker"
)

func searchMarkers() []marker.Marker {
	return []marker.Marker{
		{SearchText: marker.NormalizeText("Dublin Bus" + "47A" + "Belarmine - Poolbeg Street"), Visible: true},
		{SearchText: marker.NormalizeText("Dublin Bus" + "47" + "Sallynoggin - City Centre"), Visible: true},
		{SearchText: marker.NormalizeText("CNLLY" + "Dublin Connolly"), Visible: true},
		{SearchText: marker.NormalizeText("hidden entry"), Visible: false},
	}
}

func TestFilterNormalizesQuery(t *testing.T) {
	var s SearchIndex
	markers := searchMarkers()

	got := s.Filter("  47-A ", 1, markers)
	if len(got) != 1 || got[0].SearchText != markers[0].SearchText {
		t.Fatalf("query \"  47-A \" matched %d markers, want only the 47A route", len(got))
	}

	// The plain "47" query is a substring of both route texts.
	if got := s.Filter("47", 2, markers); len(got) != 2 {
		t.Fatalf("query \"47\" matched %d markers, want 2", len(got))
	}
}

func TestFilterEmptyQueryKeepsVisible(t *testing.T) {
	var s SearchIndex
	markers := searchMarkers()
	got := s.Filter("", 1, markers)
	if len(got) != 3 {
		t.Fatalf("empty query returned %d markers, want the 3 visible ones", len(got))
	}
	for _, m := range got {
		if !m.Visible {
			t.Fatal("invisible marker leaked through the search filter")
		}
	}
}

func TestFilterMemoizesOnQueryAndGeneration(t *testing.T) {
	var s SearchIndex
	markers := searchMarkers()

	first := s.Filter("47a", 1, markers)
	if len(first) != 1 {
		t.Fatalf("got %d markers, want 1", len(first))
	}

	// Same query and generation: the memo must be served even though the
	// underlying slice changed.
	markers[0].Visible = false
	if again := s.Filter("47a", 1, markers); len(again) != 1 {
		t.Fatal("memoized result not served for an unchanged (query, generation) pair")
	}

	// A new generation invalidates the memo.
	if fresh := s.Filter("47a", 2, markers); len(fresh) != 0 {
		t.Fatal("generation bump should force a recompute")
	}
}

func TestInvalidateDropsMemo(t *testing.T) {
	var s SearchIndex
	markers := searchMarkers()

	if got := s.Filter("connolly", 1, markers); len(got) != 1 {
		t.Fatalf("got %d markers, want 1", len(got))
	}
	markers[2].Visible = false
	s.Invalidate()
	if got := s.Filter("connolly", 1, markers); len(got) != 0 {
		t.Fatal("Invalidate should force the next call to recompute")
	}
}
