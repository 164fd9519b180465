package viewport

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func textNode(t *testing.T) *html.Node {
	t.Helper()
	return &html.Node{Type: html.ElementNode, Data: "p"}
}

func TestObserveMembership(t *testing.T) {
	tr := NewTracker(0.3, nil)
	n := textNode(t)

	tr.Observe(Observation{Node: n, Ratio: 0.5, Box: Rect{Top: 10}})
	if !tr.Contains(n) {
		t.Fatal("node above threshold should be a member")
	}

	tr.Observe(Observation{Node: n, Ratio: 0.1})
	if tr.Contains(n) {
		t.Fatal("node below threshold should be removed")
	}
}

func TestObserveExactThreshold(t *testing.T) {
	tr := NewTracker(0.3, nil)
	n := textNode(t)
	tr.Observe(Observation{Node: n, Ratio: 0.3})
	if !tr.Contains(n) {
		t.Fatal("ratio equal to threshold counts as visible")
	}
}

func TestNegativeObservationForUnknownNode(t *testing.T) {
	tr := NewTracker(0.3, nil)
	// Must not panic or create membership.
	tr.Observe(Observation{Node: textNode(t), Ratio: 0})
	if tr.Len() != 0 {
		t.Fatalf("Len = %d, want 0", tr.Len())
	}
}

func TestSnapshotOrdering(t *testing.T) {
	tr := NewTracker(0.1, nil)
	top := textNode(t)
	midSmall := textNode(t)
	midLarge := textNode(t)
	bottom := textNode(t)

	tr.Observe(Observation{Node: bottom, Ratio: 1, Box: Rect{Top: 500, Width: 100, Height: 100}})
	tr.Observe(Observation{Node: midSmall, Ratio: 1, Box: Rect{Top: 200, Width: 100, Height: 50}})
	tr.Observe(Observation{Node: midLarge, Ratio: 1, Box: Rect{Top: 200, Width: 300, Height: 200}})
	tr.Observe(Observation{Node: top, Ratio: 1, Box: Rect{Top: 0, Width: 10, Height: 10}})

	got := tr.Snapshot()
	want := []*html.Node{top, midLarge, midSmall, bottom}
	if len(got) != len(want) {
		t.Fatalf("Snapshot returned %d members, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Node != want[i] {
			t.Errorf("Snapshot[%d] wrong node: identical tops must order by descending area", i)
		}
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	tr := NewTracker(0.1, nil)
	var seen int
	unsub := tr.Subscribe(func(Observation) { seen++ })

	tr.Observe(Observation{Node: textNode(t), Ratio: 1})
	if seen != 1 {
		t.Fatalf("subscriber saw %d observations, want 1", seen)
	}

	unsub()
	tr.Observe(Observation{Node: textNode(t), Ratio: 1})
	if seen != 1 {
		t.Fatalf("unsubscribed fn saw %d observations, want 1", seen)
	}
}

func TestDisconnect(t *testing.T) {
	tr := NewTracker(0.1, nil)
	n := textNode(t)
	tr.Observe(Observation{Node: n, Ratio: 1})
	tr.Disconnect()

	if tr.Len() != 0 {
		t.Fatal("Disconnect must drop membership")
	}
	tr.Observe(Observation{Node: n, Ratio: 1})
	if tr.Len() != 0 {
		t.Fatal("observations after Disconnect must be ignored")
	}
}

func TestResetKeepsSubscribers(t *testing.T) {
	tr := NewTracker(0.1, nil)
	var seen int
	tr.Subscribe(func(Observation) { seen++ })
	tr.Observe(Observation{Node: textNode(t), Ratio: 1})
	tr.Reset()

	if tr.Len() != 0 {
		t.Fatal("Reset must clear membership")
	}
	tr.Observe(Observation{Node: textNode(t), Ratio: 1})
	if seen != 2 {
		t.Fatalf("subscriber saw %d observations after Reset, want 2", seen)
	}
}

func mustDoc(t *testing.T, src string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

func TestEstimateLayoutFlow(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<h1>First heading</h1>
		<p>A paragraph</p>
		<p hidden>Hidden paragraph</p>
	</body></html>`)

	tr := NewTracker(TextThreshold, []string{"h1", "p"})
	EstimateLayout(doc, tr)

	if tr.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (hidden element excluded)", tr.Len())
	}
	snap := tr.Snapshot()
	if snap[0].Box.Top >= snap[1].Box.Top {
		t.Error("document order should produce ascending top positions")
	}
}

func TestEstimateLayoutAttributeOverrides(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<p data-vp-top="400" data-vp-width="50" data-vp-height="50">pinned low</p>
		<p data-vp-top="5">pinned high</p>
		<p data-vp-ratio="0.05">barely visible</p>
	</body></html>`)

	tr := NewTracker(TextThreshold, []string{"p"})
	EstimateLayout(doc, tr)

	if tr.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (ratio below threshold excluded)", tr.Len())
	}
	snap := tr.Snapshot()
	if snap[0].Box.Top != 5 || snap[1].Box.Top != 400 {
		t.Errorf("pinned tops not honored: got %v then %v", snap[0].Box.Top, snap[1].Box.Top)
	}
}

func TestEstimateLayoutBelowViewport(t *testing.T) {
	doc := mustDoc(t, `<html><body><p data-vp-top="2000">far below the fold</p></body></html>`)
	tr := NewTracker(TextThreshold, []string{"p"})
	EstimateLayout(doc, tr)
	if tr.Len() != 0 {
		t.Fatal("elements below the viewport must not be members")
	}
}

func TestEstimateLayoutResetsBetweenCycles(t *testing.T) {
	doc := mustDoc(t, `<html><body><p>cycle text</p></body></html>`)
	tr := NewTracker(TextThreshold, []string{"p"})
	EstimateLayout(doc, tr)
	EstimateLayout(doc, tr)
	if tr.Len() != 1 {
		t.Fatalf("Len = %d after two cycles, want 1", tr.Len())
	}
}
