package render

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/platemap/pkg/hotspot"
)

func sampleHotspots() []hotspot.Hotspot {
	return []hotspot.Hotspot{
		{X: 0.5, Y: 0.5, IngredientID: "duck-breast", Role: hotspot.RoleHero,
			Label: map[string]string{"en": "Duck Breast", "de": "Entenbrust"}},
		{X: 0.25, Y: 0.75, IngredientID: "cherry-jus", Role: hotspot.RoleSauce,
			Label: map[string]string{"en": "Cherry Jus"}},
		{X: 1, Y: 0, IngredientID: "shiso", Role: hotspot.RoleGarnish},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleHotspots(), Options{})

	if !strings.HasPrefix(dot, "graph plate {") {
		t.Error("ToDOT() output missing graph declaration")
	}
	if !strings.Contains(dot, `"plate" [pos="3.000,3.000!"`) {
		t.Error("ToDOT() plate not centered on a 6in canvas")
	}
	// y is flipped: engine y=0.75 is graphviz y=1.5 on a 6in plate
	if !strings.Contains(dot, `"h1" [pos="1.500,1.500!"`) {
		t.Errorf("ToDOT() wrong position for h1:\n%s", dot)
	}
	if !strings.Contains(dot, `"h2" [pos="6.000,6.000!"`) {
		t.Errorf("ToDOT() wrong position for h2:\n%s", dot)
	}
	if !strings.Contains(dot, `xlabel="1. Duck Breast"`) {
		t.Error("ToDOT() missing english label")
	}
	if !strings.Contains(dot, `fillcolor="`+RoleColors[hotspot.RoleSauce]+`"`) {
		t.Error("ToDOT() missing sauce color")
	}
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT(sampleHotspots(), Options{Size: 4, Language: "de"})
	if !strings.Contains(dot, `xlabel="1. Entenbrust"`) {
		t.Error("ToDOT() should use the requested language")
	}
	// missing language falls back to english, then to the titleized id
	if !strings.Contains(dot, `xlabel="2. Cherry Jus"`) {
		t.Error("ToDOT() should fall back to english labels")
	}
	if !strings.Contains(dot, `xlabel="3. Shiso"`) {
		t.Error("ToDOT() should fall back to the ingredient id")
	}
	if !strings.Contains(dot, `"plate" [pos="2.000,2.000!"`) {
		t.Error("ToDOT() should honor Size")
	}

	hidden := ToDOT(sampleHotspots(), Options{HideLabels: true})
	if strings.Contains(hidden, "Duck Breast") {
		t.Error("HideLabels should drop ingredient names")
	}
	if !strings.Contains(hidden, `xlabel="1"`) {
		t.Error("HideLabels should keep marker numbers")
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if strings.Contains(dot, `"h0"`) {
		t.Error("empty layout should only contain the plate")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleHotspots(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG output is not SVG")
	}
	if !strings.Contains(string(svg), "Duck Breast") {
		t.Error("RenderSVG output missing label text")
	}
}

func TestRenderSVGInvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "graph {"); err == nil {
		t.Error("RenderSVG should fail on malformed DOT")
	}
}

func TestMarker(t *testing.T) {
	tests := []struct {
		i    int
		want rune
	}{
		{0, '1'},
		{8, '9'},
		{9, 'a'},
		{34, 'z'},
		{35, '+'},
		{-1, '+'},
	}
	for _, tt := range tests {
		if got := Marker(tt.i); got != tt.want {
			t.Errorf("Marker(%d) = %c, want %c", tt.i, got, tt.want)
		}
	}
}

func TestGrid(t *testing.T) {
	grid := Grid(sampleHotspots(), 21, 11)
	if len(grid) != 11 || len(grid[0]) != 21 {
		t.Fatalf("Grid size = %dx%d, want 21x11", len(grid[0]), len(grid))
	}
	if grid[5][10] != '1' {
		t.Errorf("center marker = %q, want '1'", grid[5][10])
	}
	if grid[8][5] != '2' {
		t.Errorf("second marker = %q, want '2'", grid[8][5])
	}
	if grid[0][20] != '3' {
		t.Errorf("corner marker = %q, want '3'", grid[0][20])
	}
}

func TestGridOverlap(t *testing.T) {
	hs := []hotspot.Hotspot{{X: 0.5, Y: 0.5}, {X: 0.501, Y: 0.499}}
	grid := Grid(hs, 11, 11)
	if grid[5][5] != '*' {
		t.Errorf("overlapping markers = %q, want '*'", grid[5][5])
	}
}

func TestGridTooSmall(t *testing.T) {
	if Grid(sampleHotspots(), 1, 10) != nil {
		t.Error("Grid narrower than 2 should be nil")
	}
	if ASCII(sampleHotspots(), 10, 0) != "" {
		t.Error("ASCII with no rows should be empty")
	}
}

func TestASCII(t *testing.T) {
	out := ASCII(sampleHotspots(), 21, 11)
	lines := strings.Split(out, "\n")
	if len(lines) != 11 {
		t.Fatalf("ASCII produced %d lines, want 11", len(lines))
	}
	for i, l := range lines {
		if strings.HasSuffix(l, " ") {
			t.Errorf("line %d has trailing spaces", i)
		}
	}
	if !strings.ContainsRune(out, rimChar) {
		t.Error("ASCII should draw the plate rim")
	}
}

func TestLegend(t *testing.T) {
	legend := Legend(sampleHotspots(), "")
	if len(legend) != 3 {
		t.Fatalf("Legend has %d lines, want 3", len(legend))
	}
	want := "1 hero      Duck Breast (0.5000, 0.5000)"
	if legend[0] != want {
		t.Errorf("Legend[0] = %q, want %q", legend[0], want)
	}
	if !strings.HasPrefix(Legend(sampleHotspots(), "de")[0], "1 hero      Entenbrust") {
		t.Error("Legend should use the requested language")
	}
}
