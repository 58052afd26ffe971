// Package terrain provides heightmap terrain sampling for character movement.
package terrain

import (
	"errors"
	"fmt"

	"github.com/ubuntunux/stoneage/pkg/math"
)

// ErrInvalidHeightmap is returned when heightmap dimensions do not match its data.
var ErrInvalidHeightmap = errors.New("invalid heightmap")

// Heightmap is a regular grid of vertex heights on the XZ plane.
// Vertex (x, z) sits at Origin + (x*CellSize, z*CellSize).
type Heightmap struct {
	Width    int       // Vertices along X
	Depth    int       // Vertices along Z
	CellSize float32   // World units between vertices
	Origin   math.Vec2 // World XZ of vertex (0, 0)
	Heights  []float32 // Row-major [z*Width + x]

	normals []math.Vec3
}

// New creates a heightmap from row-major height data.
func New(width, depth int, cellSize float32, origin math.Vec2, heights []float32) (*Heightmap, error) {
	if width < 2 || depth < 2 || cellSize <= 0 {
		return nil, fmt.Errorf("%w: %dx%d cell %.2f", ErrInvalidHeightmap, width, depth, cellSize)
	}
	if len(heights) != width*depth {
		return nil, fmt.Errorf("%w: want %d heights, got %d", ErrInvalidHeightmap, width*depth, len(heights))
	}
	h := &Heightmap{
		Width:    width,
		Depth:    depth,
		CellSize: cellSize,
		Origin:   origin,
		Heights:  heights,
	}
	h.buildNormals()
	return h, nil
}

// FromFunc samples fn at every vertex to build a heightmap.
func FromFunc(width, depth int, cellSize float32, origin math.Vec2, fn func(x, z float32) float32) (*Heightmap, error) {
	if width < 2 || depth < 2 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidHeightmap, width, depth)
	}
	heights := make([]float32, width*depth)
	for z := range depth {
		for x := range width {
			wx := origin.X + float32(x)*cellSize
			wz := origin.Y + float32(z)*cellSize
			heights[z*width+x] = fn(wx, wz)
		}
	}
	return New(width, depth, cellSize, origin, heights)
}

// height returns the vertex height with coordinates clamped to the grid.
func (h *Heightmap) height(x, z int) float32 {
	x = clampi(x, 0, h.Width-1)
	z = clampi(z, 0, h.Depth-1)
	return h.Heights[z*h.Width+x]
}

func (h *Heightmap) buildNormals() {
	h.normals = make([]math.Vec3, h.Width*h.Depth)
	inv := 1 / (2 * h.CellSize)
	for z := range h.Depth {
		for x := range h.Width {
			dx := (h.height(x+1, z) - h.height(x-1, z)) * inv
			dz := (h.height(x, z+1) - h.height(x, z-1)) * inv
			h.normals[z*h.Width+x] = math.Vec3{X: -dx, Y: 1, Z: -dz}.Normalize()
		}
	}
}

// cell locates pos in the grid and returns the lower vertex and fractions.
func (h *Heightmap) cell(pos math.Vec3) (cx, cz int, fx, fz float32) {
	gx := (pos.X - h.Origin.X) / h.CellSize
	gz := (pos.Z - h.Origin.Y) / h.CellSize

	gx = math.Clamp(gx, 0, float32(h.Width-1))
	gz = math.Clamp(gz, 0, float32(h.Depth-1))

	cx = min(int(gx), h.Width-2)
	cz = min(int(gz), h.Depth-2)
	return cx, cz, gx - float32(cx), gz - float32(cz)
}

// HeightBilinear returns the bilinearly interpolated height at pos.
// Positions outside the grid are clamped to its edge.
func (h *Heightmap) HeightBilinear(pos math.Vec3) float32 {
	cx, cz, fx, fz := h.cell(pos)

	// Lower edge (z): lerp along x, then upper edge, then across z.
	south := h.height(cx, cz)*(1-fx) + h.height(cx+1, cz)*fx
	north := h.height(cx, cz+1)*(1-fx) + h.height(cx+1, cz+1)*fx
	return south*(1-fz) + north*fz
}

// NormalBilinear returns the bilinearly interpolated unit surface normal at pos.
func (h *Heightmap) NormalBilinear(pos math.Vec3) math.Vec3 {
	cx, cz, fx, fz := h.cell(pos)
	n := func(x, z int) math.Vec3 { return h.normals[z*h.Width+x] }

	south := n(cx, cz).Scale(1 - fx).Add(n(cx+1, cz).Scale(fx))
	north := n(cx, cz+1).Scale(1 - fx).Add(n(cx+1, cz+1).Scale(fx))
	normal := south.Scale(1 - fz).Add(north.Scale(fz)).Normalize()
	if normal.IsZero() {
		return math.Up
	}
	return normal
}

// Bounds returns the world-space XZ extent of the grid.
func (h *Heightmap) Bounds() (minXZ, maxXZ math.Vec2) {
	size := math.Vec2{X: float32(h.Width-1) * h.CellSize, Y: float32(h.Depth-1) * h.CellSize}
	return h.Origin, h.Origin.Add(size)
}

// Flat is an infinite horizontal plane.
type Flat float32

// HeightBilinear returns the plane height.
func (f Flat) HeightBilinear(math.Vec3) float32 { return float32(f) }

// NormalBilinear returns straight up.
func (f Flat) NormalBilinear(math.Vec3) math.Vec3 { return math.Up }

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
