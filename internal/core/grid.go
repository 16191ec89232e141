package core

// Point addresses a single cell of a grid.
type Point struct {
	X, Y int
}

// neighborOffsets lists the Moore neighbourhood starting north and moving
// clockwise. Callers rely on this order for deterministic tie-breaks.
var neighborOffsets = [8]Point{
	{X: 0, Y: -1},
	{X: 1, Y: -1},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
	{X: -1, Y: 1},
	{X: -1, Y: 0},
	{X: -1, Y: -1},
}

// Grid describes the geometry of a bounded 2D grid stored in row-major order.
type Grid struct {
	W, H int
}

// NewGrid returns the geometry for a w*h grid.
func NewGrid(w, h int) Grid {
	return Grid{W: w, H: h}
}

// Len returns the number of cells.
func (g Grid) Len() int {
	if g.W <= 0 || g.H <= 0 {
		return 0
	}
	return g.W * g.H
}

// Index returns the linear slice index for coordinates (x, y).
func (g Grid) Index(x, y int) int { return y*g.W + x }

// Coords is the inverse of Index.
func (g Grid) Coords(idx int) (int, int) { return idx % g.W, idx / g.W }

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// Neighbors returns the in-bounds Moore neighbours of (x, y) in fixed order
// N, NE, E, SE, S, SW, W, NW. Edges do not wrap.
func (g Grid) Neighbors(x, y int) []Point {
	out := make([]Point, 0, len(neighborOffsets))
	for _, off := range neighborOffsets {
		nx, ny := x+off.X, y+off.Y
		if !g.InBounds(nx, ny) {
			continue
		}
		out = append(out, Point{X: nx, Y: ny})
	}
	return out
}
