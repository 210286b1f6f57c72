package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/platemap/pkg/api"
	"github.com/matzehuels/platemap/pkg/auth"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for the menu web client",
		Long: `Run the HTTP API.

Menus, brand and ingredient data are read from the content directory. Saved
hotspot sets live in the configured store. Set ADMIN_TOKEN and
EDITOR_TOKEN (or [auth] in the config file) to enable writes and
previews.`,
		Example: `  platemap serve
  platemap serve --addr :9000 --config platemap.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer runner.Close()
	if err := c.withContent(ctx, cfg, runner); err != nil {
		return err
	}

	if cfg.Content.Watch {
		go func() {
			if err := runner.Menus.Watch(ctx); err != nil {
				c.Logger.Warn("content watch stopped", "err", err)
			}
		}()
	}

	srv, err := api.New(api.Options{
		Runner: runner,
		Auth: &auth.Authenticator{
			AdminToken:  cfg.Auth.AdminToken,
			EditorToken: cfg.Auth.EditorToken,
		},
		Logger:          c.Logger,
		Limits:          cfg.RateLimit,
		MediaDir:        cfg.Server.MediaDir,
		StaticDir:       cfg.Server.StaticDir,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		DefaultStage:    cfg.Store.DefaultStage,
		DefaultStrategy: cfg.Layout.Strategy,
		DefaultSeed:     cfg.Layout.Seed,
	})
	if err != nil {
		return err
	}

	if cfg.Auth.AdminToken == "" {
		printWarning("No admin token configured; writes are disabled")
	}
	printInfo("Serving %s on %s", StyleHighlight.Render(cfg.Content.Dir), StyleValue.Render(addr))
	return srv.ListenAndServe(ctx, addr)
}
