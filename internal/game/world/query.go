package world

import (
	"github.com/ubuntunux/stoneage/internal/engine/collision"
	"github.com/ubuntunux/stoneage/internal/game/character"
	"github.com/ubuntunux/stoneage/pkg/math"
)

// query is the collision view of one character: static obstacles first,
// then the other live characters, both in insertion order.
type query struct {
	static collision.Query
	world  *World
	self   *character.Character
}

func (q *query) CollectCollisionObjects(min, max math.Vec3) []collision.Obstacle {
	var out []collision.Obstacle
	if q.static != nil {
		out = q.static.CollectCollisionObjects(min, max)
	}
	region := collision.NewBoundingBox(min, max)
	for _, c := range q.world.characters.Values() {
		if c == q.self || !c.IsAlive() {
			continue
		}
		b := c.Bounds()
		if b.Max.X < region.Min.X || b.Min.X > region.Max.X ||
			b.Max.Y < region.Min.Y || b.Min.Y > region.Max.Y ||
			b.Max.Z < region.Min.Z || b.Min.Z > region.Max.Z {
			continue
		}
		out = append(out, c)
	}
	return out
}
