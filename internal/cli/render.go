package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/hotspot"
	"github.com/matzehuels/platemap/pkg/render"
)

const (
	formatSVG   = "svg"
	formatPNG   = "png"
	formatPDF   = "pdf"
	formatDOT   = "dot"
	formatASCII = "txt"
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatSVG: true, formatPNG: true, formatPDF: true, formatDOT: true, formatASCII: true}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	layoutFlags
	output     string  // output file path
	format     string  // svg, png, pdf, dot or txt; inferred from output when empty
	size       float64 // plate diameter in inches
	lang       string  // label language
	hideLabels bool    // draw markers only
	scale      float64 // PNG scale factor
	noCache    bool
}

// renderCommand creates the render command, which draws a layout as a
// plate diagram.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{size: 6, lang: "en", scale: 2}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a dish layout as a plate diagram",
		Example: `  platemap render --menu tasting --dish roast-duck -o duck.svg
  platemap render -d roast-duck -i duck-breast,cherry-jus,chives -o duck.png --scale 3
  platemap render -d roast-duck -i duck-breast,cherry-jus -f txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(opts.format, opts.output)
			if err != nil {
				return err
			}
			opts.format = format
			return c.runRender(cmd.Context(), &opts)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout when empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), png, pdf, dot, txt")
	cmd.Flags().Float64Var(&opts.size, "size", opts.size, "plate diameter in inches")
	cmd.Flags().StringVar(&opts.lang, "lang", opts.lang, "label language")
	cmd.Flags().BoolVar(&opts.hideLabels, "hide-labels", false, "draw markers without ingredient names")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

// resolveFormat picks the explicit format, else the output extension, else svg.
func resolveFormat(format, output string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
		if !validFormats[format] {
			format = formatSVG
		}
	}
	format = strings.ToLower(format)
	if !validFormats[format] {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid format: %s (must be 'svg', 'png', 'pdf', 'dot' or 'txt')", format)
	}
	return format, nil
}

func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
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

	data, err := renderFormat(ctx, opts, res.Hotspots)
	if err != nil {
		return err
	}
	if opts.output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}

	printSuccess("Rendered %s", req.DishID)
	printLayoutStats(len(res.Hotspots), string(res.Strategy), res.Seed, cached)
	printFile(opts.output)
	return nil
}

func renderFormat(ctx context.Context, opts *renderOpts, hs []hotspot.Hotspot) ([]byte, error) {
	if opts.format == formatASCII {
		lines := []string{render.ASCII(hs, 41, 21), ""}
		lines = append(lines, render.Legend(hs, opts.lang)...)
		return []byte(strings.Join(lines, "\n") + "\n"), nil
	}

	dot := render.ToDOT(hs, render.Options{Size: opts.size, Language: opts.lang, HideLabels: opts.hideLabels})
	if opts.format == formatDOT {
		return []byte(dot), nil
	}

	svg, err := render.RenderSVG(ctx, dot)
	if err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	switch opts.format {
	case formatPNG:
		return render.ToPNG(svg, opts.scale)
	case formatPDF:
		return render.ToPDF(svg)
	default:
		return svg, nil
	}
}
