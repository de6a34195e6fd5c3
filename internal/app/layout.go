package app

import "math"

// maxWallColumns caps the control-room wall so cells stay legible.
const maxWallColumns = 4

// Grid is a wall-view arrangement for a number of concurrent sessions.
type Grid struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
}

// PlanLayout returns the grid the wall view uses for count sessions:
// near-square, at most maxWallColumns wide. Stateless; recomputed on demand.
func PlanLayout(count int) Grid {
	if count <= 0 {
		return Grid{Columns: 1, Rows: 0}
	}
	cols := int(math.Ceil(math.Sqrt(float64(count))))
	if cols > maxWallColumns {
		cols = maxWallColumns
	}
	rows := (count + cols - 1) / cols
	return Grid{Columns: cols, Rows: rows}
}

// CellSize splits a viewport between grid cells.
func (g Grid) CellSize(viewportW, viewportH int) (int, int) {
	if g.Columns <= 0 || g.Rows <= 0 {
		return viewportW, viewportH
	}
	return viewportW / g.Columns, viewportH / g.Rows
}
