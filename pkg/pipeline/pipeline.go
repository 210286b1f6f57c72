// Package pipeline runs hotspot generation for the CLI and the API.
//
// Both entry points go through a [Runner] so that caching, logging and the
// autogen workflow behave the same everywhere.
//
// # Stages
//
// [Runner.Generate] computes a layout for an explicit ingredient list, with
// cache-aside caching keyed by dish, strategy, seed and ingredients.
//
// [Runner.Autogen] is the editor workflow behind "regenerate hotspots":
//
//  1. Load the menu and find the dish
//  2. Take the dish's ingredient ids
//  3. Generate a layout
//  4. Merge it with the saved photo, alt text and blur placeholder
//  5. Save the result to the requested stage
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	runner.Menus = menu.NewLoader("content", logger)
//	runner.Media = store
//
//	res, err := runner.Autogen(ctx, pipeline.AutogenOptions{
//	    Menu:   "tasting",
//	    DishID: "roast-duck",
//	})
package pipeline

import (
	"fmt"

	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/hotspot"
	"github.com/matzehuels/platemap/pkg/media"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultImageURLFormat builds the image url of a dish that has no saved
// photo yet. Every menu shares the tasting photo directory.
const DefaultImageURLFormat = "/media/dishes/tasting/%s.webp"

// DefaultConcurrency bounds parallel dish generation in [Runner.AutogenMenu].
const DefaultConcurrency = 4

// DefaultImageURL returns the fallback image url for dishID.
func DefaultImageURL(dishID string) string {
	return fmt.Sprintf(DefaultImageURLFormat, dishID)
}

// =============================================================================
// Options
// =============================================================================

// AutogenOptions selects the dish to regenerate.
// This struct supports JSON serialization for API requests.
type AutogenOptions struct {
	Menu   string `json:"menu"`
	Stage  string `json:"stage,omitempty"`
	DishID string `json:"dishId"`

	// Strategy is a catalog name. Empty means auto; unknown names run
	// chefBias.
	Strategy string `json:"strategy,omitempty"`

	// Seed zero means the default seed.
	Seed int64 `json:"seed,omitempty"`

	// Refresh skips the layout cache.
	Refresh bool `json:"refresh,omitempty"`
}

// ValidateAndSetDefaults checks required fields and fills in stage and
// strategy. It is idempotent.
func (o *AutogenOptions) ValidateAndSetDefaults() error {
	o.setDefaults()
	if err := errors.ValidateMenuName(o.Menu); err != nil {
		return err
	}
	if err := errors.ValidateStage(o.Stage); err != nil {
		return err
	}
	return errors.ValidateDishID(o.DishID)
}

func (o *AutogenOptions) setDefaults() {
	if o.Stage == "" {
		o.Stage = media.DefaultStage
	}
	if o.Strategy == "" {
		o.Strategy = string(hotspot.Auto)
	}
}

// Key returns the media key the result is saved under.
func (o *AutogenOptions) Key() media.Key {
	return media.Key{Menu: o.Menu, Stage: o.Stage, DishID: o.DishID}
}

// =============================================================================
// Results
// =============================================================================

// AutogenResult describes a saved autogen run.
type AutogenResult struct {
	Menu   string `json:"menu"`
	Stage  string `json:"stage"`
	DishID string `json:"dishId"`

	// Strategy is the name the caller asked for ("auto" by default).
	Strategy string `json:"strategy"`

	// Resolved is the strategy that actually ran.
	Resolved hotspot.Strategy `json:"resolvedStrategy"`

	Seed          int64        `json:"seed"`
	HotspotsCount int          `json:"hotspotsCount"`
	Saved         *media.Media `json:"saved"`

	// CacheHit reports whether the layout came from the cache.
	CacheHit bool `json:"-"`
}

// MenuResult collects the outcome of [Runner.AutogenMenu].
type MenuResult struct {
	Results []AutogenResult `json:"results"`

	// Skipped lists dishes without ingredients.
	Skipped []string `json:"skipped,omitempty"`
}
