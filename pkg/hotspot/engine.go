package hotspot

import (
	"math"
	"regexp"
	"slices"
	"strings"
)

// Request describes one layout invocation.
type Request struct {
	// DishID drives [Auto] strategy selection.
	DishID string `json:"dishId"`

	// IngredientIDs in display order. Empty entries are dropped and
	// duplicates are kept.
	IngredientIDs []string `json:"ingredientIds"`

	// Strategy is a catalog name. Empty means [Auto].
	Strategy Strategy `json:"strategy,omitempty"`

	// Seed feeds the generator. Zero means [DefaultSeed].
	Seed int64 `json:"seed,omitempty"`
}

// Hotspot is an engine output record.
type Hotspot struct {
	X            float64           `json:"x" bson:"x"`
	Y            float64           `json:"y" bson:"y"`
	IngredientID string            `json:"ingredientId" bson:"ingredientId"`
	Role         Role              `json:"role" bson:"role"`
	Label        map[string]string `json:"label" bson:"label"`
}

// Result is the output of [GenerateWithInfo].
type Result struct {
	// Strategy is the strategy that actually ran, never [Auto].
	Strategy Strategy `json:"strategy"`

	// Seed is the normalized seed.
	Seed int64 `json:"seed"`

	Hotspots []Hotspot `json:"hotspots"`
}

// Languages that receive a label on every hotspot.
var Languages = []string{"en", "de"}

// Generate lays out hotspots for req. It never fails: empty ingredient lists
// produce an empty slice and unknown strategies run [ChefBias].
func Generate(req Request) []Hotspot {
	return GenerateWithInfo(req).Hotspots
}

// GenerateWithInfo is like [Generate] but also reports the resolved strategy
// and seed.
func GenerateWithInfo(req Request) Result {
	ids := compact(req.IngredientIDs)
	strategy := resolve(req.Strategy, req.DishID, len(ids))
	seed := NormalizeSeed(req.Seed)

	res := Result{Strategy: strategy, Seed: seed, Hotspots: []Hotspot{}}
	if len(ids) == 0 {
		return res
	}

	r := NewRand(seed)
	pts := generatorFor(strategy)(ids, r)
	opts := relaxOptionsFor(strategy)
	pts = Relax(pts, &opts)
	slices.SortStableFunc(pts, func(a, b Point) int { return a.idx - b.idx })

	res.Hotspots = make([]Hotspot, len(pts))
	for i, p := range pts {
		res.Hotspots[i] = newHotspot(p)
	}
	return res
}

func newHotspot(p Point) Hotspot {
	label := Titleize(p.IngredientID)
	labels := make(map[string]string, len(Languages))
	for _, lang := range Languages {
		labels[lang] = label
	}
	return Hotspot{
		X:            round4(p.X),
		Y:            round4(p.Y),
		IngredientID: p.IngredientID,
		Role:         p.Role,
		Label:        labels,
	}
}

// compact returns the non-empty ids in a fresh slice.
func compact(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// round4 rounds half away from zero to four decimals and keeps the result
// inside [0,1].
func round4(v float64) float64 {
	return clamp01(math.Round(v*1e4) / 1e4)
}

var separatorRe = regexp.MustCompile(`[-_]+`)

// Titleize turns an ingredient identifier into a display label: runs of
// hyphens and underscores become spaces and the first letter or digit of
// every word is upper-cased.
//
//	Titleize("wild-garlic_oil") // "Wild Garlic Oil"
func Titleize(id string) string {
	s := strings.TrimSpace(separatorRe.ReplaceAllString(id, " "))
	var b strings.Builder
	b.Grow(len(s))
	prevWord := false
	for _, c := range s {
		word := isWordRune(c)
		if word && !prevWord && 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		b.WriteRune(c)
		prevWord = word
	}
	return b.String()
}

// isWordRune matches the ASCII word class [A-Za-z0-9_].
func isWordRune(c rune) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
