package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/platemap/pkg/config"
	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/hotspot"
	"github.com/matzehuels/platemap/pkg/menu"
)

// layoutFlags selects the dish to lay out. Ingredients come from
// --ingredients or, when that is empty, from the dish entry in --menu.
type layoutFlags struct {
	dish        string
	ingredients []string
	menu        string
	strategy    string
	seed        int64
}

// bind registers the shared layout flags on cmd.
func (f *layoutFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dish, "dish", "d", "", "dish id (drives auto strategy selection)")
	cmd.Flags().StringSliceVarP(&f.ingredients, "ingredients", "i", nil, "ingredient ids in display order (comma-separated)")
	cmd.Flags().StringVarP(&f.menu, "menu", "m", "", "read ingredients from this menu's dish entry")
	cmd.Flags().StringVarP(&f.strategy, "strategy", "s", "", "layout strategy (see 'platemap strategies')")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed (default from config)")
}

// request builds the engine request, falling back to the layout defaults
// in cfg for strategy and seed.
func (f *layoutFlags) request(cfg *config.Config) (hotspot.Request, error) {
	if f.dish == "" {
		return hotspot.Request{}, errors.New(errors.ErrCodeInvalidDish, "--dish is required")
	}
	ids := f.ingredients
	if len(ids) == 0 {
		if f.menu == "" {
			return hotspot.Request{}, errors.New(errors.ErrCodeInvalidInput, "either --ingredients or --menu is required")
		}
		m, err := menu.NewLoader(cfg.Content.Dir, nil).Menu(f.menu)
		if err != nil {
			return hotspot.Request{}, err
		}
		dish := m.FindDish(f.dish)
		if dish == nil {
			return hotspot.Request{}, errors.New(errors.ErrCodeDishNotFound, "dish %s not found in menu %s", f.dish, f.menu)
		}
		ids = dish.IngredientIDs()
	}

	strategy := f.strategy
	if strategy == "" {
		strategy = cfg.Layout.Strategy
	}
	seed := f.seed
	if seed == 0 {
		seed = cfg.Layout.Seed
	}
	return hotspot.Request{
		DishID:        f.dish,
		IngredientIDs: ids,
		Strategy:      hotspot.ParseStrategy(strategy),
		Seed:          seed,
	}, nil
}

type generateOpts struct {
	layoutFlags
	output  string
	noCache bool
}

// generateCommand creates the generate command, which prints a layout as JSON.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate hotspots for a dish and print them as JSON",
		Example: `  platemap generate --dish roast-duck --ingredients duck-breast,cherry-jus,chives
  platemap generate --menu tasting --dish roast-duck --strategy sauceSwipe -o duck.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), &opts)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, opts *generateOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	req, err := opts.request(cfg)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, cached, err := runner.Generate(ctx, req)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	if opts.output == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(opts.output, append(data, '\n'), 0o644); err != nil {
		return err
	}
	printSuccess("Generated %s", req.DishID)
	printLayoutStats(len(res.Hotspots), string(res.Strategy), res.Seed, cached)
	printFile(opts.output)
	return nil
}
