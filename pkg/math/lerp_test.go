package math

import (
	"testing"
)

func TestLerpEndpoints(t *testing.T) {
	ranges := []Range{{0.9, 1.2}, {1.4, 1.9}, {0.4, 0.85}, {-0.12, 0.08}, {0.3, 0.3}}
	for _, r := range ranges {
		if got := r.At(0); got != r.Lo {
			t.Errorf("%v.At(0) = %v, want %v", r, got, r.Lo)
		}
		if got := r.At(1); got != r.Hi {
			t.Errorf("%v.At(1) = %v, want %v", r, got, r.Hi)
		}
	}
}

func TestLerpMonotonic(t *testing.T) {
	ranges := []Range{{0.9, 1.2}, {1.4, 1.9}, {0.4, 0.85}, {0.01, 0.012}}
	for _, r := range ranges {
		prev := r.At(0)
		for i := 1; i <= 1000; i++ {
			v := r.At(float64(i) / 1000)
			if v < prev {
				t.Fatalf("%v not monotonic at step %d: %v < %v", r, i, v, prev)
			}
			prev = v
		}
	}
}

func TestLerpMidpoint(t *testing.T) {
	if got := Lerp(0.5, 1.4, 1.9); got != 1.65 {
		t.Errorf("Lerp(0.5, 1.4, 1.9) = %v, want 1.65", got)
	}
	if got := Lerp(float32(0.5), 0.4, 0.85); abs(got-0.625) > 1e-6 {
		t.Errorf("Lerp(0.5, 0.4, 0.85) = %v, want 0.625", got)
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.25, 0.25},
		{1, 1},
		{3, 1},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestVec3Cross(t *testing.T) {
	got := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	if want := (Vec3{0, 0, 1}); got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero Normalize() = %v", got)
	}
}

func TestQuatFromEulerIdentity(t *testing.T) {
	if got := QuatFromEuler(Vec3{}); got != QuatIdentity() {
		t.Errorf("QuatFromEuler(0) = %v, want identity", got)
	}
}
