package world

// Grid maps 2D cell coordinates to flat position indices (row-major).
type Grid struct {
	Width  int
	Height int
}

func (g Grid) Size() int { return g.Width * g.Height }

func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

func (g Grid) PosIdx(x, y int) int {
	return y*g.Width + x
}

func (g Grid) XY(posIdx int) (int, int) {
	return posIdx % g.Width, posIdx / g.Width
}

// OxygenMap stores the oxygen concentration of every cell (0..1).
// Game loop only.
type OxygenMap struct {
	grid  Grid
	cells []float64
}

func NewOxygenMap(g Grid, initial float64) *OxygenMap {
	cells := make([]float64, g.Size())
	for i := range cells {
		cells[i] = initial
	}
	return &OxygenMap{grid: g, cells: cells}
}

// Get returns the oxygen at posIdx. Cells outside the grid have none.
func (m *OxygenMap) Get(posIdx int) float64 {
	if posIdx < 0 || posIdx >= len(m.cells) {
		return 0
	}
	return m.cells[posIdx]
}

func (m *OxygenMap) Set(posIdx int, v float64) {
	if posIdx < 0 || posIdx >= len(m.cells) {
		return
	}
	m.cells[posIdx] = v
}

// Fill sets every in-bounds cell of the rectangle to v and returns how many
// cells it touched.
func (m *OxygenMap) Fill(x, y, w, h int, v float64) int {
	n := 0
	for cy := y; cy < y+h; cy++ {
		for cx := x; cx < x+w; cx++ {
			if !m.grid.InBounds(cx, cy) {
				continue
			}
			m.cells[m.grid.PosIdx(cx, cy)] = v
			n++
		}
	}
	return n
}
