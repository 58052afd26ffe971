package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	got := Vec2{1, 2}.Add(Vec2{3, 4})
	if want := (Vec2{4, 6}); got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2GroundRoundTrip(t *testing.T) {
	p := Vec3{3, 7, 4}
	g := p.XZ()
	if g != (Vec2{3, 4}) {
		t.Errorf("Vec3.XZ() = %v, want {3 4}", g)
	}
	if got := g.XZ(7); got != p {
		t.Errorf("Vec2.XZ() = %v, want %v", got, p)
	}
	if d := g.Distance(Vec2{}); d < 4.999 || d > 5.001 {
		t.Errorf("Distance() = %v, want 5", d)
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
		t.Errorf("zero Normalize() = %v, want zero vector", got)
	}
}

func TestVec3HorizontalDistance(t *testing.T) {
	got := Vec3{0, 100, 0}.HorizontalDistance(Vec3{3, -50, 4})
	if got != 5 {
		t.Errorf("HorizontalDistance() = %v, want 5", got)
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{Pi / 2, Pi / 2},
		{3 * Pi / 2, -Pi / 2},
		{-3 * Pi / 2, Pi / 2},
		{5 * Pi, Pi},
	}
	for _, tt := range tests {
		if got := WrapAngle(tt.in); !approx(got, tt.want) {
			t.Errorf("WrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRotateTowardsShortestPath(t *testing.T) {
	// From just below +Pi to just above -Pi the short way is forward across the seam.
	current := Pi - 0.1
	target := -Pi + 0.1
	got := RotateTowards(current, target, 0.05)
	if want := WrapAngle(current + 0.05); !approx(got, want) {
		t.Errorf("RotateTowards() = %v, want %v", got, want)
	}

	// Within step it snaps to the target.
	if got := RotateTowards(current, target, 1); !approx(got, target) {
		t.Errorf("RotateTowards() = %v, want %v", got, target)
	}
}

func TestYawRoundTrip(t *testing.T) {
	dir := Vec3{1, 0, 1}.Normalize()
	if got := DirectionFromYaw(YawFromDirection(dir)); !approxVec(got, dir) {
		t.Errorf("DirectionFromYaw(YawFromDirection(%v)) = %v", dir, got)
	}
}
