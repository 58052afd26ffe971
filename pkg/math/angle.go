package math

import "math"

// Pi as float32.
const Pi = float32(math.Pi)

// Epsilon is the length below which a vector counts as zero.
const Epsilon = 1e-5

// WrapAngle wraps an angle in radians into [-Pi, Pi].
func WrapAngle(angle float32) float32 {
	for angle > Pi {
		angle -= 2 * Pi
	}
	for angle < -Pi {
		angle += 2 * Pi
	}
	return angle
}

// YawFromDirection returns the yaw (rotation around Y) that faces dir.
// Yaw 0 faces +Z.
func YawFromDirection(dir Vec3) float32 {
	return float32(math.Atan2(float64(dir.X), float64(dir.Z)))
}

// DirectionFromYaw returns the horizontal unit vector for a yaw angle.
func DirectionFromYaw(yaw float32) Vec3 {
	return Vec3{
		X: float32(math.Sin(float64(yaw))),
		Z: float32(math.Cos(float64(yaw))),
	}
}

// RotateTowards turns current toward target by at most maxStep radians,
// taking the shortest signed path. The result is wrapped into [-Pi, Pi].
func RotateTowards(current, target, maxStep float32) float32 {
	diff := WrapAngle(target - current)
	if Abs(diff) <= maxStep {
		return WrapAngle(target)
	}
	if diff > 0 {
		return WrapAngle(current + maxStep)
	}
	return WrapAngle(current - maxStep)
}

// Abs returns |x|.
func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sqrt computes the square root of a float32.
func Sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// Exp computes e**x for a float32.
func Exp(x float32) float32 {
	return float32(math.Exp(float64(x)))
}

// Cos computes the cosine of a float32 angle.
func Cos(x float32) float32 {
	return float32(math.Cos(float64(x)))
}
