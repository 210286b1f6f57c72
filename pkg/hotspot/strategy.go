package hotspot

import "strings"

// Strategy names a point-placement algorithm.
type Strategy string

// Layout strategies. [Auto] is resolved to one of the concrete strategies by
// [SelectStrategy] before generation.
const (
	Auto            Strategy = "auto"
	GoldenTriangle  Strategy = "goldenTriangle"
	SauceSwipe      Strategy = "sauceSwipe"
	CenterPerimeter Strategy = "centerPerimeter"
	TwoCluster      Strategy = "twoCluster"
	RimOnly         Strategy = "rimOnly"
	BowlGradient    Strategy = "bowlGradient"
	ChefBias        Strategy = "chefBias"
)

// Descriptor is a catalog entry shown to editors choosing a layout.
type Descriptor struct {
	ID   Strategy `json:"id"`
	Name string   `json:"name"`
	Note string   `json:"note"`
}

var catalog = []Descriptor{
	{Auto, "Auto", "Chooses a plate-realistic layout based on dish + ingredient count."},
	{GoldenTriangle, "Golden Triangle", "Hero + sauce + garnish composition."},
	{SauceSwipe, "Sauce Swipe", "Points along a curved sauce line + accents."},
	{CenterPerimeter, "Center + Perimeter", "Core cluster with rim accents."},
	{TwoCluster, "Two Clusters", "Left/right dual composition."},
	{RimOnly, "Rim Only", "Minimalist: points on the rim."},
	{BowlGradient, "Bowl Gradient", "Vertical layering for bowls/terrines."},
	{ChefBias, "Chef Bias", "Off-center mass + upper accents."},
}

// Catalog returns the strategy catalog in display order. The returned slice
// is a copy.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// Known reports whether s is one of the eight catalog strategies.
func (s Strategy) Known() bool {
	switch s {
	case Auto, GoldenTriangle, SauceSwipe, CenterPerimeter, TwoCluster, RimOnly, BowlGradient, ChefBias:
		return true
	}
	return false
}

// ParseStrategy converts a caller-supplied name to a Strategy. The empty
// name means [Auto]; names outside the catalog fall back to [ChefBias].
// Matching is exact: "GoldenTriangle" is not "goldenTriangle".
func ParseStrategy(name string) Strategy {
	if name == "" {
		return Auto
	}
	if s := Strategy(name); s.Known() {
		return s
	}
	return ChefBias
}

// SelectStrategy picks a concrete strategy for [Auto]. Dish keywords are
// checked before the ingredient count, first match wins:
//
//	dessert, friand             -> chefBias
//	bread                       -> centerPerimeter
//	surprise, agnolotti, pasta  -> twoCluster
//	between, leek, terrine      -> bowlGradient
//	10 or more ingredients      -> centerPerimeter
//	4 or fewer ingredients      -> goldenTriangle
//	otherwise                   -> chefBias
func SelectStrategy(dishID string, ingredientCount int) Strategy {
	s := strings.ToLower(dishID)
	switch {
	case containsAny(s, "dessert", "friand"):
		return ChefBias
	case containsAny(s, "bread"):
		return CenterPerimeter
	case containsAny(s, "surprise", "agnolotti", "pasta"):
		return TwoCluster
	case containsAny(s, "between", "leek", "terrine"):
		return BowlGradient
	case ingredientCount >= 10:
		return CenterPerimeter
	case ingredientCount <= 4:
		return GoldenTriangle
	default:
		return ChefBias
	}
}

// resolve turns a requested strategy into the one that will run.
func resolve(s Strategy, dishID string, ingredientCount int) Strategy {
	if s == "" || s == Auto {
		return SelectStrategy(dishID, ingredientCount)
	}
	if !s.Known() {
		return ChefBias
	}
	return s
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
