package hotspot

import "math"

// relaxStep scales the summed repulsion applied to a point in one pass.
const relaxStep = 0.016

// Bounds is the plate region points are kept inside after each move.
type Bounds struct {
	Left, Right, Top, Bottom float64
}

// RelaxOptions configures [Relax].
type RelaxOptions struct {
	// Iterations is the number of full passes over all points. Default: 70.
	Iterations int

	// MinDist is the distance below which two points repel. Default: 0.06.
	MinDist float64

	// Bounds clamps every point after it moves.
	// Default: left 0.08, right 0.92, top 0.10, bottom 0.92.
	Bounds Bounds
}

// DefaultRelaxOptions returns the parameters used by strategies without
// their own tuning.
func DefaultRelaxOptions() RelaxOptions {
	return RelaxOptions{
		Iterations: 70,
		MinDist:    0.06,
		Bounds:     Bounds{Left: 0.08, Right: 0.92, Top: 0.10, Bottom: 0.92},
	}
}

// Relax pushes apart points that are closer than opts.MinDist and returns the
// moved points as a new slice; the input is not modified. Pass nil for
// defaults.
//
// Each pass visits points in order and moves a point as soon as its force is
// known, so later points in the same pass see the earlier moves. The force
// from a neighbor at distance d is (MinDist-d)/MinDist along the separating
// direction. Neighbors at exactly the same position exert no force, so fully
// coincident points stay stacked; the generators' jitter makes that rare.
//
// Cost is O(Iterations * n^2), fine for the handful of ingredients on a plate.
func Relax(points []Point, opts *RelaxOptions) []Point {
	o := DefaultRelaxOptions()
	if opts != nil {
		o = *opts
	}

	pts := make([]Point, len(points))
	copy(pts, points)
	if o.MinDist <= 0 {
		return pts
	}

	for range o.Iterations {
		for i := range pts {
			var dx, dy float64
			for j := range pts {
				if i == j {
					continue
				}
				ax := pts[i].X - pts[j].X
				ay := pts[i].Y - pts[j].Y
				d2 := ax*ax + ay*ay
				if d2 == 0 {
					continue
				}
				d := math.Sqrt(d2)
				if d < o.MinDist {
					push := (o.MinDist - d) / o.MinDist
					dx += ax / d * push
					dy += ay / d * push
				}
			}
			x := clamp01(pts[i].X + dx*relaxStep)
			y := clamp01(pts[i].Y + dy*relaxStep)
			pts[i].X = max(o.Bounds.Left, min(o.Bounds.Right, x))
			pts[i].Y = max(o.Bounds.Top, min(o.Bounds.Bottom, y))
		}
	}
	return pts
}
