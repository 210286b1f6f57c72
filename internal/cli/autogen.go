package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/platemap/pkg/pipeline"
)

// autogenCommand creates the autogen command, which saves generated
// layouts into the media store for one dish or every dish of a menu.
func (c *CLI) autogenCommand() *cobra.Command {
	var (
		opts pipeline.AutogenOptions
		all  bool
	)

	cmd := &cobra.Command{
		Use:   "autogen",
		Short: "Generate and save hotspots into the media store",
		Long: `Generate hotspots for a dish and save them into the media store.

The saved photo, alt text and blur placeholder are kept. Dishes without a
saved photo get the default tasting image path. Without --dish (or with
--all) every dish of the menu that lists ingredients is processed.`,
		Example: `  platemap autogen --menu tasting --dish roast-duck
  platemap autogen --menu tasting --all --stage draft --strategy chefBias`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				opts.DishID = ""
			}
			return c.runAutogen(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Menu, "menu", "m", "", "menu name (required)")
	cmd.Flags().StringVarP(&opts.DishID, "dish", "d", "", "dish id (all dishes when empty)")
	cmd.Flags().BoolVar(&all, "all", false, "process every dish of the menu")
	cmd.Flags().StringVar(&opts.Stage, "stage", "", "media stage: draft, review, published (default from config)")
	cmd.Flags().StringVarP(&opts.Strategy, "strategy", "s", "", "layout strategy (default from config)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (default from config)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cached layouts")
	_ = cmd.MarkFlagRequired("menu")

	return cmd
}

func (c *CLI) runAutogen(ctx context.Context, opts *pipeline.AutogenOptions) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.Stage == "" {
		opts.Stage = cfg.Store.DefaultStage
	}
	if opts.Strategy == "" {
		opts.Strategy = cfg.Layout.Strategy
	}
	if opts.Seed == 0 {
		opts.Seed = cfg.Layout.Seed
	}

	runner, err := c.newRunner(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer runner.Close()
	if err := c.withContent(ctx, cfg, runner); err != nil {
		return err
	}

	if opts.DishID != "" {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Plating %s...", opts.DishID))
		spinner.Start()
		res, err := runner.Autogen(ctx, *opts)
		if err != nil {
			spinner.StopWithError(err.Error())
			return err
		}
		spinner.StopWithSuccess(fmt.Sprintf("Saved %s/%s/%s", res.Menu, res.Stage, res.DishID))
		printLayoutStats(res.HotspotsCount, string(res.Resolved), res.Seed, res.CacheHit)
		return nil
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Plating menu %s...", opts.Menu))
	spinner.Start()
	out, err := runner.AutogenMenu(ctx, *opts)
	if err != nil {
		spinner.StopWithError(err.Error())
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Plated %d dishes", len(out.Results)))

	printSuccess("Saved %d dishes to %s/%s", len(out.Results), opts.Menu, opts.Stage)
	for _, res := range out.Results {
		printKeyValue(res.DishID, fmt.Sprintf("%d hotspots · %s", res.HotspotsCount, res.Resolved))
	}
	for _, id := range out.Skipped {
		printWarning("Skipped %s: no ingredients", id)
	}
	printNextStep("Preview in the browser", "platemap serve")
	return nil
}
