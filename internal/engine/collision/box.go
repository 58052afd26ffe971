// Package collision provides bounding volumes and the obstacle index that
// character movement is resolved against.
package collision

import (
	"github.com/ubuntunux/stoneage/pkg/math"
)

// BoundingBox is an axis-aligned box.
type BoundingBox struct {
	Min math.Vec3
	Max math.Vec3
}

// NewBoundingBox creates a box from two corners in any order.
func NewBoundingBox(a, b math.Vec3) BoundingBox {
	return BoundingBox{Min: a.Min(b), Max: a.Max(b)}
}

// BoxFromCenter creates a box around center with the given full size.
func BoxFromCenter(center, size math.Vec3) BoundingBox {
	half := size.Scale(0.5)
	return BoundingBox{Min: center.Sub(half), Max: center.Add(half)}
}

// Center returns the box center.
func (b BoundingBox) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the full extent on each axis.
func (b BoundingBox) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Intersects reports whether two boxes overlap. Touching faces do not count.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return b.Min.X < other.Max.X && b.Max.X > other.Min.X &&
		b.Min.Y < other.Max.Y && b.Max.Y > other.Min.Y &&
		b.Min.Z < other.Max.Z && b.Max.Z > other.Min.Z
}

// ContainsPoint reports whether p lies inside or on the box.
func (b BoundingBox) ContainsPoint(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Union returns the smallest box containing both.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// Expand grows the box by d on every side.
func (b BoundingBox) Expand(d float32) BoundingBox {
	v := math.Vec3{X: d, Y: d, Z: d}
	return BoundingBox{Min: b.Min.Sub(v), Max: b.Max.Add(v)}
}

// Translate moves the box by offset.
func (b BoundingBox) Translate(offset math.Vec3) BoundingBox {
	return BoundingBox{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// Volume is a collision shape that can be tested against boxes and points.
type Volume interface {
	IntersectsBox(box BoundingBox) bool
	ContainsPoint(p math.Vec3) bool
}

// BoxVolume is a Volume that is exactly its bounding box.
type BoxVolume BoundingBox

// IntersectsBox implements Volume.
func (v BoxVolume) IntersectsBox(box BoundingBox) bool {
	return BoundingBox(v).Intersects(box)
}

// ContainsPoint implements Volume.
func (v BoxVolume) ContainsPoint(p math.Vec3) bool {
	return BoundingBox(v).ContainsPoint(p)
}

// Obstacle is anything characters collide with.
type Obstacle interface {
	Bounds() BoundingBox
	Volume() Volume
}

// Interactive marks obstacles a character can interact with when in range
// (beds, pickups).
type Interactive interface {
	Obstacle
	InteractionName() string
}

// Box is a static box obstacle.
type Box struct {
	Name  string
	Box   BoundingBox
	Usage string // non-empty makes the box interactive
}

// Bounds implements Obstacle.
func (b *Box) Bounds() BoundingBox { return b.Box }

// Volume implements Obstacle.
func (b *Box) Volume() Volume { return BoxVolume(b.Box) }

// InteractionName returns the interaction tag, empty for plain obstacles.
func (b *Box) InteractionName() string { return b.Usage }
