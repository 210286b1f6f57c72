package hotspot

import "math"

// Point is a placed hotspot candidate in plate coordinates.
type Point struct {
	IngredientID string
	Role         Role
	X, Y         float64

	// idx is the position of the ingredient in the request. Generators may
	// emit points in a different order; the engine restores input order
	// after relaxation.
	idx int
}

type vec struct{ x, y float64 }

// generator produces the initial role-biased points for one strategy.
type generator func(ids []string, r *Rand) []Point

// generatorFor dispatches a concrete strategy. Unknown and [Auto] values
// map to chefBias; callers resolve [Auto] beforehand.
func generatorFor(s Strategy) generator {
	switch s {
	case GoldenTriangle:
		return goldenTriangle
	case SauceSwipe:
		return sauceSwipe
	case CenterPerimeter:
		return centerPerimeter
	case TwoCluster:
		return twoCluster
	case RimOnly:
		return rimOnly
	case BowlGradient:
		return bowlGradient
	default:
		return chefBias
	}
}

// relaxOptionsFor returns the relaxation parameters tuned for s.
func relaxOptionsFor(s Strategy) RelaxOptions {
	opts := DefaultRelaxOptions()
	switch s {
	case GoldenTriangle, TwoCluster, ChefBias:
		opts.MinDist = 0.065
	case RimOnly:
		opts.Bounds = Bounds{Left: 0.06, Right: 0.94, Top: 0.06, Bottom: 0.94}
	}
	return opts
}

func point(idx int, id string, role Role, x, y float64) Point {
	return Point{IngredientID: id, Role: role, X: clamp01(x), Y: clamp01(y), idx: idx}
}

var goldenAnchors = map[Role]vec{
	RoleHero:      {0.52, 0.58},
	RoleSauce:     {0.67, 0.72},
	RoleGarnish:   {0.38, 0.42},
	RoleCrunch:    {0.60, 0.48},
	RoleAccent:    {0.44, 0.70},
	RoleComponent: {0.52, 0.58},
}

// goldenTriangle anchors hero center, sauce lower right and garnish upper
// left. Every point after the first gets a second, smaller jitter.
func goldenTriangle(ids []string, r *Rand) []Point {
	pts := make([]Point, 0, len(ids))
	for i, id := range ids {
		role := Classify(id)
		a := goldenAnchors[role]
		x := a.x + Jitter(r, 0.09)
		if i > 0 {
			x += Jitter(r, 0.03)
		}
		y := a.y + Jitter(r, 0.07)
		if i > 0 {
			y += Jitter(r, 0.03)
		}
		pts = append(pts, point(i, id, role, x, y))
	}
	return pts
}

var swipeCurve = [3]vec{{0.22, 0.72}, {0.52, 0.62}, {0.80, 0.70}}

// bezier evaluates the quadratic sauce curve at t in [0,1].
func bezier(t float64) vec {
	a := (1 - t) * (1 - t)
	b := 2 * (1 - t) * t
	c := t * t
	p0, p1, p2 := swipeCurve[0], swipeCurve[1], swipeCurve[2]
	return vec{a*p0.x + b*p1.x + c*p2.x, a*p0.y + b*p1.y + c*p2.y}
}

// sauceSwipe spreads points along a curve from lower left through the center
// to lower right. Garnish and crunch lift off the line; the hero sits at the
// center anchor.
func sauceSwipe(ids []string, r *Rand) []Point {
	n := len(ids)
	pts := make([]Point, 0, n)
	for i, id := range ids {
		role := Classify(id)
		t := 0.5
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		p := bezier(t)
		switch role {
		case RoleGarnish:
			p = vec{p.x + Jitter(r, 0.06), p.y - 0.18 + Jitter(r, 0.05)}
		case RoleHero:
			p = vec{0.52 + Jitter(r, 0.05), 0.58 + Jitter(r, 0.05)}
		case RoleCrunch:
			p = vec{p.x + Jitter(r, 0.04), p.y - 0.10 + Jitter(r, 0.04)}
		}
		x := p.x + Jitter(r, 0.03)
		y := p.y + Jitter(r, 0.03)
		pts = append(pts, point(i, id, role, x, y))
	}
	return pts
}

// centerPerimeter puts hero, sauce, crunch and components on a small ellipse
// around the center and spreads garnish and accents along the lower rim.
// Core points are generated before rim points.
func centerPerimeter(ids []string, r *Rand) []Point {
	type item struct {
		idx  int
		id   string
		role Role
	}
	var core, rim []item
	for i, id := range ids {
		role := Classify(id)
		if role == RoleGarnish || role == RoleAccent {
			rim = append(rim, item{i, id, role})
		} else {
			core = append(core, item{i, id, role})
		}
	}

	pts := make([]Point, 0, len(ids))
	for i, it := range core {
		a := float64(i) / float64(max(1, len(core))) * math.Pi * 2
		rad := 0.12 + r.Float64()*0.10
		x := 0.52 + math.Cos(a)*rad + Jitter(r, 0.05)
		y := 0.58 + math.Sin(a)*rad*0.75 + Jitter(r, 0.05)
		pts = append(pts, point(it.idx, it.id, it.role, x, y))
	}
	for i, it := range rim {
		t := 0.5
		if len(rim) > 1 {
			t = float64(i) / float64(len(rim)-1)
		}
		ang := math.Pi*0.15 + t*(math.Pi*0.70)
		rad := 0.34 + r.Float64()*0.03
		x := 0.5 + math.Cos(ang)*rad + Jitter(r, 0.03)
		y := 0.55 + math.Sin(ang)*rad + Jitter(r, 0.03)
		pts = append(pts, point(it.idx, it.id, it.role, x, y))
	}
	return pts
}

var clusterAnchors = [2]vec{{0.38, 0.58}, {0.66, 0.58}}

// twoCluster alternates ingredients between a left and a right cluster.
func twoCluster(ids []string, r *Rand) []Point {
	pts := make([]Point, 0, len(ids))
	for i, id := range ids {
		role := Classify(id)
		a := clusterAnchors[i%2]
		shift := 0.0
		switch role {
		case RoleGarnish:
			shift = -0.14
		case RoleSauce:
			shift = 0.10
		}
		x := a.x + Jitter(r, 0.10)
		y := a.y + shift + Jitter(r, 0.08)
		pts = append(pts, point(i, id, role, x, y))
	}
	return pts
}

// rimOnly places every point on a wide arc near the plate edge.
func rimOnly(ids []string, r *Rand) []Point {
	n := len(ids)
	pts := make([]Point, 0, n)
	for i, id := range ids {
		role := Classify(id)
		t := 0.5
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		ang := math.Pi*0.10 + t*(math.Pi*1.60)
		rad := 0.40 + r.Float64()*0.03
		x := 0.50 + math.Cos(ang)*rad + Jitter(r, 0.02)
		y := 0.56 + math.Sin(ang)*rad + Jitter(r, 0.02)
		pts = append(pts, point(i, id, role, x, y))
	}
	return pts
}

// bowlGradient layers roles vertically (garnish on top, crunch at the
// bottom) and spreads ingredients horizontally by position.
func bowlGradient(ids []string, r *Rand) []Point {
	n := len(ids)
	pts := make([]Point, 0, n)
	for i, id := range ids {
		role := Classify(id)
		y := 0.55
		switch role {
		case RoleGarnish:
			y = 0.38
		case RoleCrunch:
			y = 0.72
		case RoleSauce:
			y = 0.62
		}
		y += Jitter(r, 0.05)
		x := 0.5 + ((float64(i)-float64(n-1)/2)/float64(max(1, n)))*0.42 + Jitter(r, 0.06)
		pts = append(pts, point(i, id, role, x, y))
	}
	return pts
}

var chefAnchors = map[Role]vec{
	RoleHero:      {0.54, 0.62},
	RoleSauce:     {0.66, 0.72},
	RoleGarnish:   {0.40, 0.42},
	RoleAccent:    {0.46, 0.70},
	RoleCrunch:    {0.60, 0.50},
	RoleComponent: {0.54, 0.60},
}

// chefBias is off-center mass with garnish pulled up, using wider jitter
// than goldenTriangle.
func chefBias(ids []string, r *Rand) []Point {
	pts := make([]Point, 0, len(ids))
	for i, id := range ids {
		role := Classify(id)
		a := chefAnchors[role]
		x := a.x + Jitter(r, 0.10)
		y := a.y + Jitter(r, 0.08)
		pts = append(pts, point(i, id, role, x, y))
	}
	return pts
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
