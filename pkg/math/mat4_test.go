package math

import (
	"testing"
)

func approx(a, b float32) bool {
	return Abs(a-b) < 1e-4
}

func approxVec(a, b Vec3) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.Z, b.Z)
}

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())
	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)
	if got := m.Position(); got != (Vec3{5, 10, 15}) {
		t.Errorf("Translate position = %v, want (5, 10, 15)", got)
	}
}

func TestRotateYMatchesYaw(t *testing.T) {
	for _, yaw := range []float32{0, Pi / 2, -Pi / 3, Pi} {
		got := RotateY(yaw).TransformDirection(Vec3{0, 0, 1})
		want := DirectionFromYaw(yaw)
		if !approxVec(got, want) {
			t.Errorf("RotateY(%v)*Z = %v, want %v", yaw, got, want)
		}
	}
}

func TestCompose(t *testing.T) {
	m := Compose(Vec3{10, 0, 0}, Vec3{0, Pi / 2, 0}, Vec3{2, 2, 2})
	// local +Z one unit, scaled to 2, yawed onto +X, translated by 10
	got := m.TransformVec3(Vec3{0, 0, 1})
	if want := (Vec3{12, 0, 0}); !approxVec(got, want) {
		t.Errorf("Compose point = %v, want %v", got, want)
	}
}
