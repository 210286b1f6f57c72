// Package media stores the photo and hotspot set saved for each dish.
//
// Saved sets are addressed by menu, stage and dish. Stages let editors
// prepare a layout in draft or review without touching what guests see in
// published.
//
// Three backends implement [Store]:
//   - [MemoryStore]: process-local, for tests and previews
//   - [FileStore]: one JSON document on disk, the default for single hosts
//   - [MongoStore]: one document per dish, for shared deployments
package media

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/hotspot"
)

// Stages, in workflow order.
const (
	StageDraft     = "draft"
	StageReview    = "review"
	StagePublished = "published"
)

// DefaultStage is used when a caller names no stage.
const DefaultStage = StagePublished

// Stages returns every valid stage in workflow order.
func Stages() []string {
	return []string{StageDraft, StageReview, StagePublished}
}

// Media is the saved state of one dish photo.
type Media struct {
	ImageURL    string            `json:"imageUrl" bson:"imageUrl"`
	Alt         map[string]string `json:"alt" bson:"alt"`
	BlurDataURL string            `json:"blurDataURL" bson:"blurDataURL"`
	Hotspots    []hotspot.Hotspot `json:"hotspots" bson:"hotspots"`

	// Revision changes on every save.
	Revision  string    `json:"revision,omitempty" bson:"revision,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero" bson:"updatedAt,omitempty"`
}

// Key addresses one saved set.
type Key struct {
	Menu   string `json:"menu"`
	Stage  string `json:"stage"`
	DishID string `json:"dishId"`
}

// Validate checks every key component.
func (k Key) Validate() error {
	if err := errors.ValidateMenuName(k.Menu); err != nil {
		return err
	}
	if err := errors.ValidateStage(k.Stage); err != nil {
		return err
	}
	return errors.ValidateDishID(k.DishID)
}

// String returns "menu/stage/dish".
func (k Key) String() string {
	return k.Menu + "/" + k.Stage + "/" + k.DishID
}

// Store persists saved sets.
type Store interface {
	// Stage returns every saved set of a menu stage keyed by dish id. An
	// unknown menu or empty stage is an empty map, not an error.
	Stage(ctx context.Context, menu, stage string) (map[string]Media, error)

	// Get returns one saved set, or nil, nil when none exists.
	Get(ctx context.Context, key Key) (*Media, error)

	// Upsert replaces the saved set at key and returns what was stored,
	// with defaults applied and a new revision.
	Upsert(ctx context.Context, key Key, m Media) (*Media, error)

	// Close releases backend resources.
	Close() error
}

// Default alt text for photos nobody has described yet.
var defaultAlt = map[string]string{
	"en": "EDIT_ME dish photo",
	"de": "EDIT_ME Gericht Foto",
}

// DefaultAlt returns the placeholder alt text.
func DefaultAlt() map[string]string {
	return cloneMap(defaultAlt)
}

// prepare applies upsert defaults and stamps a new revision: missing alt
// text becomes the placeholder and a nil hotspot list becomes empty.
func prepare(m Media, now time.Time) Media {
	out := clone(m)
	if len(out.Alt) == 0 {
		out.Alt = DefaultAlt()
	}
	if out.Hotspots == nil {
		out.Hotspots = []hotspot.Hotspot{}
	}
	out.Revision = uuid.NewString()
	out.UpdatedAt = now.UTC()
	return out
}

// validateMedia checks an incoming set before it is saved.
func validateMedia(m Media) error {
	if m.ImageURL == "" {
		return errors.New(errors.ErrCodeInvalidInput, "imageUrl is required")
	}
	for i, h := range m.Hotspots {
		if err := errors.ValidateIngredientID(h.IngredientID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "hotspot %d", i)
		}
		if h.X < 0 || h.X > 1 || h.Y < 0 || h.Y > 1 {
			return errors.New(errors.ErrCodeInvalidInput, "hotspot %d: coordinates must be within [0,1]", i)
		}
	}
	return nil
}

// clone deep-copies the slices and maps so stored values never alias
// caller memory.
func clone(m Media) Media {
	out := m
	out.Alt = cloneMap(m.Alt)
	if m.Hotspots != nil {
		out.Hotspots = make([]hotspot.Hotspot, len(m.Hotspots))
		for i, h := range m.Hotspots {
			h.Label = cloneMap(h.Label)
			out.Hotspots[i] = h
		}
	}
	return out
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// DishIDs returns the keys of a stage map in sorted order.
func DishIDs(stage map[string]Media) []string {
	ids := make([]string, 0, len(stage))
	for id := range stage {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
