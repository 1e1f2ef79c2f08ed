package host

import (
	"image"
	"math"
	"testing"
)

func testGrid() Grid {
	return Grid{Width: 1000, Height: 700, Cols: 3, Count: 9, Margin: 10, Band: 40, Aspect: 2}
}

// =============================================================================
// Grid
// =============================================================================

func TestGridRows(t *testing.T) {
	tests := []struct {
		cols, count, want int
	}{
		{3, 9, 3},
		{3, 10, 4},
		{4, 1, 1},
		{0, 9, 0},
		{3, 0, 0},
	}
	for _, tt := range tests {
		g := Grid{Cols: tt.cols, Count: tt.count}
		if got := g.Rows(); got != tt.want {
			t.Errorf("Grid{Cols: %d, Count: %d}.Rows() = %d, want %d", tt.cols, tt.count, got, tt.want)
		}
	}
}

func TestGridCell(t *testing.T) {
	g := testGrid()
	// (1000 - 40) / 3 = 320 wide, (700 - 40 - 40) / 3 = 206 high.
	tests := []struct {
		i    int
		want image.Rectangle
	}{
		{0, image.Rect(10, 10, 330, 216)},
		{1, image.Rect(340, 10, 660, 216)},
		{4, image.Rect(340, 226, 660, 432)},
		{8, image.Rect(670, 442, 990, 648)},
		{9, image.Rectangle{}},
		{-1, image.Rectangle{}},
	}
	for _, tt := range tests {
		if got := g.Cell(tt.i); got != tt.want {
			t.Errorf("Cell(%d) = %v, want %v", tt.i, got, tt.want)
		}
	}
}

func TestGridCellTooSmall(t *testing.T) {
	g := Grid{Width: 20, Height: 20, Cols: 3, Count: 3, Margin: 10}
	if got := g.Cell(0); !got.Empty() {
		t.Errorf("Cell(0) = %v, want empty", got)
	}
}

func TestGridPanelKeepsAspect(t *testing.T) {
	g := testGrid()
	for i := range g.Count {
		cell, panel := g.Cell(i), g.Panel(i)
		if !panel.In(cell) {
			t.Errorf("Panel(%d) = %v, not inside cell %v", i, panel, cell)
		}
		ratio := float64(panel.Dx()) / float64(panel.Dy())
		if math.Abs(ratio-g.Aspect) > 0.02 {
			t.Errorf("Panel(%d) aspect = %v, want %v", i, ratio, g.Aspect)
		}
	}
	// Cells are narrower than 2:1 here, so panels fill the cell width.
	if got, want := g.Panel(4), image.Rect(340, 249, 660, 409); got != want {
		t.Errorf("Panel(4) = %v, want %v", got, want)
	}
}

func TestGridPanelNoAspect(t *testing.T) {
	g := testGrid()
	g.Aspect = 0
	if got, want := g.Panel(2), g.Cell(2); got != want {
		t.Errorf("Panel(2) = %v, want cell %v", got, want)
	}
}

func TestGridHit(t *testing.T) {
	g := testGrid()
	p := g.Panel(4)

	i, u, v, ok := g.Hit(p.Min.X, p.Min.Y)
	if !ok || i != 4 {
		t.Fatalf("Hit(top left of panel 4) = %d, %v; want 4, true", i, ok)
	}
	if u <= 0 || u > 0.01 || v <= 0 || v > 0.01 {
		t.Errorf("Hit top left uv = (%v, %v), want near (0, 0)", u, v)
	}

	c := image.Pt((p.Min.X+p.Max.X)/2, (p.Min.Y+p.Max.Y)/2)
	_, u, v, _ = g.Hit(c.X, c.Y)
	if math.Abs(u-0.5) > 0.01 || math.Abs(v-0.5) > 0.01 {
		t.Errorf("Hit center uv = (%v, %v), want (0.5, 0.5)", u, v)
	}

	if _, _, _, ok := g.Hit(0, 0); ok {
		t.Error("Hit(0, 0) in the margin reported a screen")
	}
	if _, _, _, ok := g.Hit(500, 690); ok {
		t.Error("Hit in the light band reported a screen")
	}
}

func TestGridLights(t *testing.T) {
	g := testGrid()
	pts := g.Lights(4)
	if len(pts) != 4 {
		t.Fatalf("len(Lights(4)) = %d, want 4", len(pts))
	}
	for i, p := range pts {
		if p.Y != 680 {
			t.Errorf("light %d y = %d, want 680", i, p.Y)
		}
		if want := 200 * (i + 1); p.X != want {
			t.Errorf("light %d x = %d, want %d", i, p.X, want)
		}
	}
	if got := g.Lights(0); got != nil {
		t.Errorf("Lights(0) = %v, want nil", got)
	}
}

// =============================================================================
// Zoom
// =============================================================================

func TestZoom(t *testing.T) {
	if got := Zoom(10, 1); math.Abs(got-9) > 1e-9 {
		t.Errorf("Zoom(10, 1) = %v, want 9", got)
	}
	if got := Zoom(10, -1); got <= 10 {
		t.Errorf("Zoom(10, -1) = %v, want farther than 10", got)
	}
	if got := Zoom(MinDistance, 5); got != MinDistance {
		t.Errorf("Zoom at minimum = %v, want %v", got, MinDistance)
	}
	if got := Zoom(MaxDistance, -5); got != MaxDistance {
		t.Errorf("Zoom at maximum = %v, want %v", got, MaxDistance)
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{Distance: 100}.withDefaults()
	if o.Title != "retrodesk" || o.Width != 1280 || o.Height != 760 || o.TPS != 60 {
		t.Errorf("withDefaults() = %+v", o)
	}
	if o.Distance != MaxDistance {
		t.Errorf("Distance = %v, want clamped to %v", o.Distance, MaxDistance)
	}
	if o.Logger == nil {
		t.Error("Logger = nil")
	}
}
