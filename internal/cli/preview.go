package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/platemap/pkg/hotspot"
)

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags   layoutFlags
		lang    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:     "preview",
		Short:   "Browse strategies and seeds for a dish in the terminal",
		Example: `  platemap preview --menu tasting --dish roast-duck`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), &flags, lang, noCache)
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&lang, "lang", "en", "label language")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, flags *layoutFlags, lang string, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	req, err := flags.request(cfg)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	model := NewPreviewModel(req, func(r hotspot.Request) (hotspot.Result, bool, error) {
		return runner.Generate(ctx, r)
	})
	model.Lang = lang

	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}

// strategiesCommand lists the layout strategy catalog.
func (c *CLI) strategiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List available layout strategies",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), strategyTable())
		},
	}
}

// strategyTable renders the catalog as a bordered table.
func strategyTable() string {
	rows := make([][]string, 0, len(hotspot.Catalog()))
	for _, d := range hotspot.Catalog() {
		rows = append(rows, []string{string(d.ID), d.Name, d.Note})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Note").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return StyleHighlight
			case col == 2:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
