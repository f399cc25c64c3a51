package layout

import (
	"math"
	"testing"
)

func TestCircular_Empty(t *testing.T) {
	if got := Circular(nil, Point{}, 10); len(got) != 0 {
		t.Errorf("got %d positions, want 0", len(got))
	}
}

func TestCircular_SingleNodeAtCenter(t *testing.T) {
	center := Point{X: 5, Y: 7}
	got := Circular([]string{"only"}, center, 10)
	if got["only"] != center {
		t.Errorf("single node at %+v, want center %+v", got["only"], center)
	}
}

func TestCircular_NodesOnRadius(t *testing.T) {
	center := Point{X: 100, Y: 100}
	radius := 40.0
	ids := []string{"a", "b", "c", "d"}

	got := Circular(ids, center, radius)
	if len(got) != len(ids) {
		t.Fatalf("got %d positions, want %d", len(got), len(ids))
	}

	for id, p := range got {
		dx := p.X - center.X
		dy := p.Y - center.Y
		dist := math.Hypot(dx, dy)
		if math.Abs(dist-radius) > 1e-9 {
			t.Errorf("node %s at distance %f, want %f", id, dist, radius)
		}
	}

	// First node sits east of center.
	if a := got["a"]; math.Abs(a.X-(center.X+radius)) > 1e-9 || math.Abs(a.Y-center.Y) > 1e-9 {
		t.Errorf("first node at %+v, want east of center", a)
	}
}
