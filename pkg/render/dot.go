package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/platemap/pkg/hotspot"
)

// Options configures plate diagrams.
type Options struct {
	// Size is the plate diameter in inches. Zero means 6.
	Size float64

	// Language selects the hotspot label. Empty means "en".
	Language string

	// HideLabels draws markers without ingredient names.
	HideLabels bool
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = 6
	}
	if o.Language == "" {
		o.Language = "en"
	}
	return o
}

// RoleColors are the marker fills per role.
var RoleColors = map[hotspot.Role]string{
	hotspot.RoleHero:      "#b5532f",
	hotspot.RoleSauce:     "#d49a3a",
	hotspot.RoleGarnish:   "#5f8f4e",
	hotspot.RoleCrunch:    "#a07850",
	hotspot.RoleAccent:    "#c2436b",
	hotspot.RoleComponent: "#6b7f99",
}

func roleColor(r hotspot.Role) string {
	if c, ok := RoleColors[r]; ok {
		return c
	}
	return RoleColors[hotspot.RoleComponent]
}

// ToDOT converts hotspots to an undirected Graphviz graph in which every
// node position is pinned. Render it with [RenderSVG]; other engines than
// neato ignore the pins.
//
// Graphviz puts y up, so engine y values are flipped.
func ToDOT(hs []hotspot.Hotspot, opts Options) string {
	opts = opts.withDefaults()
	size := opts.Size
	half := size / 2

	var buf bytes.Buffer
	buf.WriteString("graph plate {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=nodesfirst;\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, width=0.22, label=\"\", fontsize=11, fontname=\"Helvetica\", fontcolor=\"#333333\", penwidth=1.5, color=white];\n")
	fmt.Fprintf(&buf, "  \"plate\" [pos=\"%s,%s!\", width=%s, fillcolor=\"#f7f3ec\", color=\"#d9d0c1\", penwidth=3];\n",
		ftoa(half), ftoa(half), ftoa(size*0.96))

	for i, h := range hs {
		x := h.X * size
		y := (1 - h.Y) * size
		xlabel := fmt.Sprint(i + 1)
		if !opts.HideLabels {
			xlabel += ". " + labelFor(h, opts.Language)
		}
		fmt.Fprintf(&buf, "  \"h%d\" [pos=\"%s,%s!\", fillcolor=%q, xlabel=%q, tooltip=%q];\n",
			i, ftoa(x), ftoa(y), roleColor(h.Role), xlabel, fmt.Sprintf("%s (%s)", h.IngredientID, h.Role))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func labelFor(h hotspot.Hotspot, lang string) string {
	if l := h.Label[lang]; l != "" {
		return l
	}
	if l := h.Label["en"]; l != "" {
		return l
	}
	return hotspot.Titleize(h.IngredientID)
}

func ftoa(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

// RenderSVG renders DOT produced by [ToDOT] with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
