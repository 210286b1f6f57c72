package hotspot

// DefaultSeed is used when a request carries no seed or a zero seed.
const DefaultSeed int64 = 1910

// Rand is a mulberry32 pseudo-random stream.
//
// The state is a single uint32, so a Rand is cheap to create per request.
// It is not safe for concurrent use.
type Rand struct {
	state uint32
}

// NewRand returns a generator seeded with the low 32 bits of seed.
// A zero seed is replaced by [DefaultSeed]; a seed whose low 32 bits are
// all zero starts from state 1.
func NewRand(seed int64) *Rand {
	state := uint32(NormalizeSeed(seed))
	if state == 0 {
		state = 1
	}
	return &Rand{state: state}
}

// NormalizeSeed maps the zero seed to [DefaultSeed] and returns any other
// seed unchanged.
func NormalizeSeed(seed int64) int64 {
	if seed == 0 {
		return DefaultSeed
	}
	return seed
}

// Float64 returns the next value in [0, 1).
func (r *Rand) Float64() float64 {
	r.state += 0x6D2B79F5
	a := r.state
	t := (a ^ a>>15) * (1 | a)
	t ^= t + (t^t>>7)*(61|t)
	return float64(t^t>>14) / 4294967296
}

// Jitter returns a value in [-scale/2, scale/2).
func Jitter(r *Rand, scale float64) float64 {
	return (r.Float64() - 0.5) * scale
}
