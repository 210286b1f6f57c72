// Package menu reads the restaurant content tree: menus, brand settings and
// the ingredient catalog.
//
// The content directory has this layout:
//
//	content/
//	  brand.json
//	  menus/<menu>.json
//	  ingredients/ingredientsCatalog.json
//
// A menu file groups dishes into courses. Each dish lists the ingredients
// that become hotspots on its photo:
//
//	{
//	  "courses": [{
//	    "id": "mains",
//	    "title": {"en": "Mains", "de": "Hauptgänge"},
//	    "items": [{
//	      "id": "roast-duck",
//	      "title": {"en": "Roast Duck"},
//	      "ingredients": [{"id": "duck-breast"}, {"id": "cherry-jus"}]
//	    }]
//	  }]
//	}
//
// Unknown fields are preserved in [Menu.Raw] so the API can serve the file
// unchanged.
package menu

import (
	"encoding/json"
)

// Menu is a parsed menu file.
type Menu struct {
	Courses []Course `json:"courses"`

	// Raw is the file as read from disk.
	Raw json.RawMessage `json:"-"`
}

// Course is a titled group of dishes.
type Course struct {
	ID    string            `json:"id"`
	Title map[string]string `json:"title,omitempty"`
	Items []Dish            `json:"items"`
}

// Dish is one menu item.
type Dish struct {
	ID          string            `json:"id"`
	Title       map[string]string `json:"title,omitempty"`
	Ingredients []IngredientRef   `json:"ingredients,omitempty"`
}

// IngredientRef points at an ingredient catalog entry.
type IngredientRef struct {
	ID string `json:"id"`
}

// Parse decodes a menu file.
func Parse(data []byte) (*Menu, error) {
	var m Menu
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	m.Raw = append(json.RawMessage(nil), data...)
	return &m, nil
}

// FindDish returns the first dish with the given id across all courses,
// or nil.
func (m *Menu) FindDish(id string) *Dish {
	if m == nil {
		return nil
	}
	for i := range m.Courses {
		for j := range m.Courses[i].Items {
			if m.Courses[i].Items[j].ID == id {
				return &m.Courses[i].Items[j]
			}
		}
	}
	return nil
}

// Dishes returns every dish in course order.
func (m *Menu) Dishes() []Dish {
	var out []Dish
	for _, c := range m.Courses {
		out = append(out, c.Items...)
	}
	return out
}

// IngredientIDs returns the dish's ingredient ids in menu order, skipping
// entries without an id.
func (d *Dish) IngredientIDs() []string {
	ids := make([]string, 0, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		if ing.ID != "" {
			ids = append(ids, ing.ID)
		}
	}
	return ids
}

// TitleIn returns the dish title in lang, falling back to the dish id.
func (d *Dish) TitleIn(lang string) string {
	if t := d.Title[lang]; t != "" {
		return t
	}
	return d.ID
}
