package scale

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLinearMap(t *testing.T) {
	s := NewLinear(0, 100, 240, 0)
	if got := s.Map(50); !approx(got, 120) {
		t.Fatalf("Map(50) = %v; want 120", got)
	}
	if got := s.Map(100); !approx(got, 0) {
		t.Fatalf("Map(100) = %v; want 0", got)
	}
}

func TestLinearDegenerateDomains(t *testing.T) {
	d0, d1 := NewLinear(1999, 1999, 0, 100).Domain()
	if d0 != 1998 || d1 != 2000 {
		t.Fatalf("collapsed domain = [%v, %v]; want [1998, 2000]", d0, d1)
	}
	d0, d1 = NewLinear(math.NaN(), math.NaN(), 0, 100).Domain()
	if d0 != 0 || d1 != 1 {
		t.Fatalf("empty domain = [%v, %v]; want [0, 1]", d0, d1)
	}
}

func TestExtent(t *testing.T) {
	lo, hi, ok := Extent([]float64{math.NaN(), 1994, 1978, math.Inf(1), 2021})
	if !ok || lo != 1978 || hi != 2021 {
		t.Fatalf("Extent() = %v, %v, %v", lo, hi, ok)
	}
	if _, _, ok := Extent([]float64{math.NaN()}); ok {
		t.Fatalf("Extent(all missing) ok = true")
	}
}

func TestNiceAndTicks(t *testing.T) {
	s := NewLinear(1963, 2022, 0, 380).Nice(10)
	d0, d1 := s.Domain()
	if d0 != 1960 || d1 != 2025 {
		t.Fatalf("Nice domain = [%v, %v]; want [1960, 2025]", d0, d1)
	}
	ticks := s.Ticks(10)
	if len(ticks) != 14 || ticks[0] != 1960 || ticks[13] != 2025 {
		t.Fatalf("Ticks() = %v", ticks)
	}

	fine := NewLinear(0, 1, 0, 10).Ticks(5)
	want := []float64{0, 0.2, 0.4, 0.6, 0.8, 1}
	if len(fine) != len(want) {
		t.Fatalf("Ticks(5) = %v; want %v", fine, want)
	}
	for i := range want {
		if !approx(fine[i], want[i]) {
			t.Fatalf("Ticks(5)[%d] = %v; want %v", i, fine[i], want[i])
		}
	}
}

func TestBandPadding(t *testing.T) {
	b := NewBand(2, 0, 46, 0.3)
	if !approx(b.Step(), 20) {
		t.Fatalf("Step() = %v; want 20", b.Step())
	}
	if !approx(b.Pos(0), 6) || !approx(b.Pos(1), 26) {
		t.Fatalf("Pos = %v, %v; want 6, 26", b.Pos(0), b.Pos(1))
	}
	if !approx(b.Bandwidth(), 14) {
		t.Fatalf("Bandwidth() = %v; want 14", b.Bandwidth())
	}
}
