package hotspot

import "testing"

func TestRandKnownStreams(t *testing.T) {
	// Raw 32-bit mulberry32 outputs.
	tests := []struct {
		seed int64
		want []uint32
	}{
		{1910, []uint32{503939631, 3912716513, 3455365832}},
		{42, []uint32{2581720956, 1925393290}},
		{-7, []uint32{1860010037}},
		{1, []uint32{2693262067, 11749833, 2265367787}},
		{1 << 32, []uint32{2693262067, 11749833, 2265367787}},
		{-1 << 33, []uint32{2693262067}},
	}

	for _, tt := range tests {
		r := NewRand(tt.seed)
		for i, w := range tt.want {
			got := r.Float64() * 4294967296
			if got != float64(w) {
				t.Errorf("seed %d draw %d = %v, want %d", tt.seed, i, got, w)
			}
		}
	}
}

func TestRandZeroSeed(t *testing.T) {
	a, b := NewRand(0), NewRand(DefaultSeed)
	for i := range 10 {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d: zero seed %v, default seed %v", i, x, y)
		}
	}
}

func TestRandRange(t *testing.T) {
	r := NewRand(123)
	for range 10000 {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64() = %v, want [0,1)", v)
		}
	}
}

func TestJitter(t *testing.T) {
	r := NewRand(5)
	for range 1000 {
		j := Jitter(r, 0.08)
		if j < -0.04 || j >= 0.04 {
			t.Fatalf("Jitter(0.08) = %v, want [-0.04,0.04)", j)
		}
	}
}

func TestNormalizeSeed(t *testing.T) {
	if got := NormalizeSeed(0); got != DefaultSeed {
		t.Errorf("NormalizeSeed(0) = %d, want %d", got, DefaultSeed)
	}
	if got := NormalizeSeed(-3); got != -3 {
		t.Errorf("NormalizeSeed(-3) = %d, want -3", got)
	}
}
