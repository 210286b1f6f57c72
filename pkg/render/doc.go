// Package render draws hotspot layouts for inspection outside the web
// client.
//
// # Overview
//
// Two renderers are provided:
//
//   - Graphviz: [ToDOT] places every hotspot as a pinned node on a round
//     plate and [RenderSVG] renders it in-process with the neato engine.
//     [ToPDF] and [ToPNG] convert the SVG with rsvg-convert.
//   - Text: [ASCII] prints a character-grid plate for terminals, with
//     [Legend] listing what each marker stands for.
//
// Both use the engine's normalized coordinates: (0,0) is the top-left of the
// photo and (1,1) the bottom-right.
//
//	hs := hotspot.Generate(req)
//	svg, err := render.RenderSVG(render.ToDOT(hs, render.Options{}))
//
// # Dependencies
//
// SVG rendering uses [github.com/goccy/go-graphviz]. PDF and PNG conversion
// requires librsvg (rsvg-convert).
package render
