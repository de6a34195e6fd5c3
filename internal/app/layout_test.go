package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkeye/camwall/internal/app"
)

func TestPlanLayout(t *testing.T) {
	tests := []struct {
		count   int
		columns int
		rows    int
	}{
		{count: -1, columns: 1, rows: 0},
		{count: 0, columns: 1, rows: 0},
		{count: 1, columns: 1, rows: 1},
		{count: 2, columns: 2, rows: 1},
		{count: 4, columns: 2, rows: 2},
		{count: 5, columns: 3, rows: 2},
		{count: 9, columns: 3, rows: 3},
		{count: 10, columns: 4, rows: 3}, // four columns cap
		{count: 16, columns: 4, rows: 4},
		{count: 17, columns: 4, rows: 5},
	}
	for _, tt := range tests {
		g := app.PlanLayout(tt.count)
		assert.Equal(t, app.Grid{Columns: tt.columns, Rows: tt.rows}, g, "count=%d", tt.count)
	}
}

func TestGridCellSize(t *testing.T) {
	g := app.PlanLayout(4)
	w, h := g.CellSize(1920, 1080)
	assert.Equal(t, 960, w)
	assert.Equal(t, 540, h)

	// Degenerate grid falls back to the full viewport.
	w, h = app.PlanLayout(0).CellSize(1920, 1080)
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
}
