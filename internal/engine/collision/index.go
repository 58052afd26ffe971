package collision

import (
	"errors"
	"sort"

	"github.com/jakecoffman/cp"

	"github.com/ubuntunux/stoneage/pkg/math"
)

// ErrUnknownObstacle is returned when removing or moving an obstacle not in the index.
var ErrUnknownObstacle = errors.New("unknown obstacle")

// Query collects the obstacles overlapping a box, in insertion order.
type Query interface {
	CollectCollisionObjects(min, max math.Vec3) []Obstacle
}

type entry struct {
	obstacle Obstacle
	shape    *cp.Shape
	seq      uint64
}

// Index is a broadphase over obstacle XZ footprints backed by a chipmunk
// space's static BB tree. The vertical extent is filtered after the query.
type Index struct {
	space   *cp.Space
	entries map[Obstacle]*entry
	nextSeq uint64
}

// NewIndex creates an empty obstacle index.
func NewIndex() *Index {
	return &Index{
		space:   cp.NewSpace(),
		entries: make(map[Obstacle]*entry),
	}
}

func footprint(b BoundingBox) cp.BB {
	return cp.BB{
		L: float64(b.Min.X),
		B: float64(b.Min.Z),
		R: float64(b.Max.X),
		T: float64(b.Max.Z),
	}
}

// Add inserts an obstacle. Adding the same obstacle twice is a no-op.
func (ix *Index) Add(o Obstacle) {
	if _, ok := ix.entries[o]; ok {
		return
	}
	ix.nextSeq++
	e := &entry{obstacle: o, seq: ix.nextSeq}
	e.shape = ix.addShape(o, e)
	ix.entries[o] = e
}

func (ix *Index) addShape(o Obstacle, e *entry) *cp.Shape {
	shape := cp.NewBox2(ix.space.StaticBody, footprint(o.Bounds()), 0)
	shape.UserData = e
	return ix.space.AddShape(shape)
}

// Remove deletes an obstacle from the index.
func (ix *Index) Remove(o Obstacle) error {
	e, ok := ix.entries[o]
	if !ok {
		return ErrUnknownObstacle
	}
	ix.space.RemoveShape(e.shape)
	delete(ix.entries, o)
	return nil
}

// Update re-indexes an obstacle whose bounds changed. Its insertion order
// is kept.
func (ix *Index) Update(o Obstacle) error {
	e, ok := ix.entries[o]
	if !ok {
		return ErrUnknownObstacle
	}
	ix.space.RemoveShape(e.shape)
	e.shape = ix.addShape(o, e)
	return nil
}

// Len returns the number of indexed obstacles.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// CollectCollisionObjects implements Query.
func (ix *Index) CollectCollisionObjects(min, max math.Vec3) []Obstacle {
	region := NewBoundingBox(min, max)

	var hits []*entry
	ix.space.BBQuery(footprint(region), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		e, ok := shape.UserData.(*entry)
		if !ok {
			return
		}
		b := e.obstacle.Bounds()
		if b.Max.Y < region.Min.Y || b.Min.Y > region.Max.Y {
			return
		}
		hits = append(hits, e)
	}, nil)

	if len(hits) == 0 {
		return nil
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].seq < hits[j].seq })

	out := make([]Obstacle, len(hits))
	for i, e := range hits {
		out[i] = e.obstacle
	}
	return out
}
