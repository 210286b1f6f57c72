package hotspot

import "testing"

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		dish string
		n    int
		want Strategy
	}{
		{"dessert-apple", 6, ChefBias},
		{"Almond-FRIAND", 2, ChefBias},
		{"warm-bread-service", 2, CenterPerimeter},
		{"agnolotti-surprise", 10, TwoCluster},
		{"fresh-pasta", 3, TwoCluster},
		{"leek-ash", 7, BowlGradient},
		{"in-between", 12, BowlGradient},
		{"roast-duck", 3, GoldenTriangle},
		{"tasting-plate", 12, CenterPerimeter},
		{"tasting-plate", 10, CenterPerimeter},
		{"mystery-dish", 7, ChefBias},
		{"mystery-dish", 5, ChefBias},
		{"mystery-dish", 4, GoldenTriangle},
		{"", 0, GoldenTriangle},
		// dessert wins over bread
		{"bread-dessert", 2, ChefBias},
	}

	for _, tt := range tests {
		if got := SelectStrategy(tt.dish, tt.n); got != tt.want {
			t.Errorf("SelectStrategy(%q, %d) = %v, want %v", tt.dish, tt.n, got, tt.want)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name string
		want Strategy
	}{
		{"", Auto},
		{"auto", Auto},
		{"rimOnly", RimOnly},
		{"sauceSwipe", SauceSwipe},
		{"RimOnly", ChefBias},
		{"spiral", ChefBias},
	}
	for _, tt := range tests {
		if got := ParseStrategy(tt.name); got != tt.want {
			t.Errorf("ParseStrategy(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCatalog(t *testing.T) {
	c := Catalog()
	if len(c) != 8 {
		t.Fatalf("len(Catalog()) = %d, want 8", len(c))
	}
	if c[0].ID != Auto {
		t.Errorf("Catalog()[0].ID = %v, want auto", c[0].ID)
	}
	seen := map[Strategy]bool{}
	for _, d := range c {
		if !d.ID.Known() {
			t.Errorf("catalog entry %q is not known", d.ID)
		}
		if d.Name == "" || d.Note == "" {
			t.Errorf("catalog entry %q missing name or note", d.ID)
		}
		seen[d.ID] = true
	}
	if len(seen) != 8 {
		t.Errorf("catalog has %d distinct ids, want 8", len(seen))
	}

	c[0].Name = "changed"
	if Catalog()[0].Name == "changed" {
		t.Error("Catalog() returned shared storage")
	}
}

func TestResolveExplicitBypassesSelection(t *testing.T) {
	// bread would select centerPerimeter under auto
	if got := resolve(RimOnly, "warm-bread", 2); got != RimOnly {
		t.Errorf("resolve(rimOnly) = %v, want rimOnly", got)
	}
	if got := resolve("spiral", "warm-bread", 2); got != ChefBias {
		t.Errorf("resolve(spiral) = %v, want chefBias", got)
	}
	if got := resolve("", "warm-bread", 2); got != CenterPerimeter {
		t.Errorf("resolve(\"\") = %v, want centerPerimeter", got)
	}
}
