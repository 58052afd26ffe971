package math

// Vec2 is a point or offset on the ground plane. X maps to world X and Y to
// world Z.
type Vec2 struct {
	X, Y float32
}

// XZ lifts v back into 3D with the given height.
func (v Vec2) XZ(y float32) Vec3 { return Vec3{v.X, y, v.Y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Length is the planar magnitude.
func (v Vec2) Length() float32 { return Sqrt(v.X*v.X + v.Y*v.Y) }

// Distance is the planar distance between two points.
func (v Vec2) Distance(o Vec2) float32 { return v.Sub(o).Length() }
