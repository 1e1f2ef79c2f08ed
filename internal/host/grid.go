package host

import (
	"errors"
	"image"
	"math"
)

// ErrNoWindow is returned by Run when the binary was built without window
// support.
var ErrNoWindow = errors.New("host: window mode requires cgo (build with CGO_ENABLED=1)")

// Grid places screens on a regular grid inside the window.
type Grid struct {
	Width, Height int
	Cols          int

	// Count is the number of screens.
	Count int

	// Margin separates cells from each other and from the window edge.
	Margin int

	// Band is the height reserved for the status lights at the bottom.
	Band int

	// Aspect is the width over height of a panel.
	Aspect float64
}

// Rows returns the number of rows needed for Count screens.
func (g Grid) Rows() int {
	if g.Cols <= 0 || g.Count <= 0 {
		return 0
	}
	return (g.Count + g.Cols - 1) / g.Cols
}

// Cell returns the area of screen i, or an empty rectangle when i is out
// of range.
func (g Grid) Cell(i int) image.Rectangle {
	rows := g.Rows()
	if i < 0 || i >= g.Count || rows == 0 {
		return image.Rectangle{}
	}
	cw := (g.Width - g.Margin*(g.Cols+1)) / g.Cols
	ch := (g.Height - g.Band - g.Margin*(rows+1)) / rows
	if cw <= 0 || ch <= 0 {
		return image.Rectangle{}
	}
	col, row := i%g.Cols, i/g.Cols
	x := g.Margin + col*(cw+g.Margin)
	y := g.Margin + row*(ch+g.Margin)
	return image.Rect(x, y, x+cw, y+ch)
}

// Panel returns the panel of screen i: the largest rectangle with the grid
// aspect centered in its cell.
func (g Grid) Panel(i int) image.Rectangle {
	cell := g.Cell(i)
	if cell.Empty() || g.Aspect <= 0 {
		return cell
	}
	w, h := cell.Dx(), cell.Dy()
	if float64(w)/float64(h) > g.Aspect {
		w = int(math.Round(float64(h) * g.Aspect))
	} else {
		h = int(math.Round(float64(w) / g.Aspect))
	}
	x := cell.Min.X + (cell.Dx()-w)/2
	y := cell.Min.Y + (cell.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// Hit returns the screen whose panel contains the window point (x, y) and
// the point in normalized panel coordinates, origin top left.
func (g Grid) Hit(x, y int) (index int, u, v float64, ok bool) {
	p := image.Pt(x, y)
	for i := range g.Count {
		r := g.Panel(i)
		if !p.In(r) {
			continue
		}
		u = (float64(x-r.Min.X) + 0.5) / float64(r.Dx())
		v = (float64(y-r.Min.Y) + 0.5) / float64(r.Dy())
		return i, u, v, true
	}
	return -1, 0, 0, false
}

// Lights returns the centers of n status lights spread over the band.
func (g Grid) Lights(n int) []image.Point {
	if n <= 0 || g.Band <= 0 {
		return nil
	}
	pts := make([]image.Point, n)
	step := float64(g.Width) / float64(n+1)
	y := g.Height - g.Band/2
	for i := range pts {
		pts[i] = image.Pt(int(math.Round(step*float64(i+1))), y)
	}
	return pts
}

// Camera distance limits of the wheel zoom.
const (
	MinDistance = 1.5
	MaxDistance = 24.0
)

// Zoom moves a camera distance by one wheel step. Positive wheel values
// move the camera closer.
func Zoom(distance, wheel float64) float64 {
	d := distance * math.Pow(0.9, wheel)
	return min(max(d, MinDistance), MaxDistance)
}
