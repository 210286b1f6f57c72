// Package hotspot places labeled ingredient hotspots on a dish photo.
//
// # Overview
//
// A hotspot is a clickable point on a plate image tied to one ingredient.
// Given a dish identifier, the ordered ingredient identifiers of that dish,
// a strategy name, and a seed, [Generate] scatters one point per ingredient
// onto the unit square (0,0 is the top-left of the photo) and returns them
// as [Hotspot] records in input order.
//
// Generation runs in four steps:
//
//  1. Role inference: [Classify] maps each ingredient identifier to a plating
//     [Role] (hero, sauce, garnish, crunch, accent, component) by keyword.
//  2. Strategy selection: "auto" is resolved by [SelectStrategy] from the dish
//     identifier and the ingredient count. Unknown names fall back to
//     [ChefBias].
//  3. Point generation: each strategy anchors roles at fixed plate regions and
//     perturbs them with [Jitter] drawn from a seeded [Rand].
//  4. Relaxation: [Relax] pushes points that sit closer than a minimum
//     distance apart, for a bounded number of passes.
//
// # Determinism
//
// The same (dish or explicit strategy, ingredients, seed) always produces the
// same output. [Rand] is a 32-bit mulberry32 generator, so saved layouts can
// be regenerated exactly from their seed on any platform.
//
// # Concurrency
//
// Every call builds its own generator and buffers. [Generate] is safe to call
// from multiple goroutines; a single [Rand] is not.
package hotspot
