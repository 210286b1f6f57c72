// Package pkg provides the libraries behind platemap, which places
// ingredient hotspots on restaurant dish photos.
//
// # Overview
//
// A hotspot is a normalized (x, y) point on a dish photo tagged with the
// ingredient it marks and a plating role. The menu web client draws them
// over the photo; editors save curated sets per menu and stage. The pkg
// directory is organized into three areas:
//
//  1. [hotspot] - The deterministic layout engine
//  2. Content and storage - [menu], [media] and [cache]
//  3. Surfaces - [pipeline], [api] and [render]
//
// # Architecture
//
// The typical data flow through platemap:
//
//	menus/<menu>.json ──► menu.Loader ──► dish ingredient ids
//	                                          ↓
//	                     cache ◄──► pipeline.Runner ──► hotspot.GenerateWithInfo
//	                                          ↓
//	                                    media.Store (draft | review | published)
//	                                          ↓
//	                                   api.Server / render
//
// # Quick Start
//
//	import "github.com/matzehuels/platemap/pkg/hotspot"
//
//	res := hotspot.GenerateWithInfo(hotspot.Request{
//	    DishID:        "roast-duck",
//	    IngredientIDs: []string{"duck-breast", "cherry-jus", "chives"},
//	})
//	// res.Strategy == hotspot.GoldenTriangle, seed 1910
//
// # Package Guide
//
// [hotspot] - Seeded PRNG, role classifier, strategy selection, the seven
// point generators and the relaxation pass. Same input, same output.
//
// [menu] - Reads menus, brand and ingredient catalog JSON from a content
// directory, caches parsed files and invalidates them on change.
//
// [media] - Stores saved hotspot sets per (menu, stage, dish) in memory,
// in a JSON file or in MongoDB.
//
// [cache] - Layout result cache with null, file and Redis backends.
//
// [pipeline] - Cache-aside generation and autogen, which merges generated
// hotspots with the saved photo and writes them to the media store.
//
// [api] - The HTTP API used by the web client, with bearer-token roles and
// per-client rate limits.
//
// [render] - Graphviz plate diagrams (SVG, PNG, PDF) and ASCII plates.
//
// Supporting packages: [config] (TOML plus environment), [errors] (coded
// errors and input validation), [auth], [observability] and [buildinfo].
//
// [hotspot]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/hotspot
// [menu]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/menu
// [media]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/media
// [cache]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/pipeline
// [api]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/api
// [render]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/render
// [config]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/errors
// [auth]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/auth
// [observability]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/buildinfo
package pkg
