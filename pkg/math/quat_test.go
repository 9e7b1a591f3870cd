package math

import (
	"math"
	"testing"
)

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()
	length := math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W))
	if math.Abs(length-1) > 1e-4 {
		t.Errorf("normalized length = %v, want 1", length)
	}
	if got := (Quat{}).Normalize(); got != QuatIdentity() {
		t.Errorf("zero quaternion Normalize() = %v, want identity", got)
	}
}

func TestQuatMulIdentity(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{0, 1, 0}, 0.8)
	if got := q.Mul(QuatIdentity()); got != q {
		t.Errorf("q * identity = %v, want %v", got, q)
	}
}

func TestQuatAxisAngleMatchesRotate(t *testing.T) {
	tests := []struct {
		name string
		axis Vec3
		rot  func(float32) Mat4
	}{
		{"x", Vec3{1, 0, 0}, RotateX},
		{"y", Vec3{0, 1, 0}, RotateY},
		{"z", Vec3{0, 0, 1}, RotateZ},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuatFromAxisAngle(tt.axis, 0.6).ToMat4()
			want := tt.rot(0.6)
			for i := 0; i < 16; i++ {
				if abs(got[i]-want[i]) > 1e-5 {
					t.Fatalf("element %d: got %f, want %f", i, got[i], want[i])
				}
			}
		})
	}
}

func TestQuatArrayOrder(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	if got := q.Array(); got != [4]float32{1, 2, 3, 4} {
		t.Errorf("Array() = %v, want xyzw order", got)
	}
}
