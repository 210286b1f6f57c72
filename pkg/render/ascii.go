package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/platemap/pkg/hotspot"
)

const (
	rimChar     = '.'
	overlapChar = '*'
	markers     = "123456789abcdefghijklmnopqrstuvwxyz"
)

// Marker returns the grid character for the i-th hotspot: 1-9, then a-z,
// then '+' for anything beyond.
func Marker(i int) rune {
	if i >= 0 && i < len(markers) {
		return rune(markers[i])
	}
	return '+'
}

// Cell is a hotspot's position on an ASCII grid.
type Cell struct {
	Col, Row int
}

// CellOf maps normalized coordinates onto a w×h grid.
func CellOf(p hotspot.Hotspot, w, h int) Cell {
	return Cell{
		Col: int(math.Round(clampUnit(p.X) * float64(w-1))),
		Row: int(math.Round(clampUnit(p.Y) * float64(h-1))),
	}
}

// Grid draws hotspots on a w×h character grid with a round plate rim.
// Hotspots sharing a cell are drawn as '*'. Grids smaller than 2×2 are
// returned empty.
func Grid(hs []hotspot.Hotspot, w, h int) [][]rune {
	if w < 2 || h < 2 {
		return nil
	}
	grid := make([][]rune, h)
	cellW := 1 / float64(w-1)
	cellH := 1 / float64(h-1)
	tol := 0.5 * math.Max(cellW, cellH)
	for row := range grid {
		grid[row] = make([]rune, w)
		for col := range grid[row] {
			dx := float64(col)*cellW - 0.5
			dy := float64(row)*cellH - 0.5
			if math.Abs(math.Hypot(dx, dy)-0.48) < tol {
				grid[row][col] = rimChar
			} else {
				grid[row][col] = ' '
			}
		}
	}

	taken := make(map[Cell]bool, len(hs))
	for i, p := range hs {
		c := CellOf(p, w, h)
		if taken[c] {
			grid[c.Row][c.Col] = overlapChar
			continue
		}
		taken[c] = true
		grid[c.Row][c.Col] = Marker(i)
	}
	return grid
}

// ASCII renders [Grid] as newline-separated text.
func ASCII(hs []hotspot.Hotspot, w, h int) string {
	grid := Grid(hs, w, h)
	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}

// Legend lists every hotspot as "<marker> <role> <label> (x, y)".
func Legend(hs []hotspot.Hotspot, lang string) []string {
	if lang == "" {
		lang = "en"
	}
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = fmt.Sprintf("%c %-9s %s (%.4f, %.4f)", Marker(i), h.Role, labelFor(h, lang), h.X, h.Y)
	}
	return out
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
