package hotspot

import "strings"

// Role is the plating category of an ingredient.
type Role string

// Plating roles.
const (
	RoleHero      Role = "hero"      // main protein or centerpiece
	RoleSauce     Role = "sauce"     // jus, oils, foams, creams
	RoleGarnish   Role = "garnish"   // herbs, zest, flowers
	RoleCrunch    Role = "crunch"    // crumbles, crackers, seeds
	RoleAccent    Role = "accent"    // pickled or fermented highlights
	RoleComponent Role = "component" // anything unclassified
)

// Roles returns every role in classification order, with [RoleComponent] last.
func Roles() []Role {
	return []Role{RoleHero, RoleSauce, RoleCrunch, RoleGarnish, RoleAccent, RoleComponent}
}

// Valid reports whether r is one of the six known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleHero, RoleSauce, RoleGarnish, RoleCrunch, RoleAccent, RoleComponent:
		return true
	}
	return false
}

// roleKeywords is checked top to bottom; the first list with a substring hit
// wins. "caviar" and "verjus" appear twice and resolve to the earlier role.
var roleKeywords = []struct {
	role     Role
	keywords []string
}{
	{RoleHero, []string{"duck", "zander", "char", "saibling", "fish", "caviar", "beef", "veal", "lamb", "pork"}},
	{RoleSauce, []string{"jus", "sauce", "foam", "oil", "gel", "creme", "cream", "mayo", "mayonnaise", "dashi", "garum", "verjus", "kvass", "cremeux"}},
	{RoleCrunch, []string{"crumble", "cracker", "powder", "croquette", "tartlet", "seed", "meringue"}},
	{RoleGarnish, []string{"herb", "chives", "lovage", "shiso", "lime", "zest", "finger", "caper", "parsley", "wild-garlic", "flower"}},
	{RoleAccent, []string{"pickle", "pickled", "ferment", "radish", "gooseberry", "rhubarb", "lingonberry", "elderberry", "verjus", "caviar"}},
}

// Classify infers the plating role of an ingredient from keywords in its
// identifier. Matching is case-insensitive substring search.
//
//	Classify("duck-jus")    // hero: "duck" is checked before "jus"
//	Classify("chive-oil")   // sauce: garnish only lists "chives"
//	Classify("sourdough")   // component
func Classify(ingredientID string) Role {
	s := strings.ToLower(ingredientID)
	for _, rk := range roleKeywords {
		for _, k := range rk.keywords {
			if strings.Contains(s, k) {
				return rk.role
			}
		}
	}
	return RoleComponent
}
