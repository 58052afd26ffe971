package character

import (
	"fmt"

	"github.com/ubuntunux/stoneage/internal/engine/collision"
	"github.com/ubuntunux/stoneage/pkg/math"
)

// AttackRange returns the reach of an attack kind including the weapon bonus.
// Kinds other than Attack and PowerAttack panic.
func (c *Character) AttackRange(kind ActionState) float32 {
	var r float32
	switch kind {
	case ActionAttack:
		r = c.data.AttackRange
	case ActionPowerAttack:
		r = c.data.PowerAttackRange
	default:
		panic(fmt.Sprintf("character: no attack range for action %s", kind))
	}
	if c.weapon != nil {
		r += c.weapon.Data.Range
	}
	return r
}

// AttackPower returns the damage of an attack kind including the weapon.
// Kinds other than Attack and PowerAttack panic.
func (c *Character) AttackPower(kind ActionState) int {
	var p int
	switch kind {
	case ActionAttack:
		p = c.data.AttackDamage
	case ActionPowerAttack:
		p = c.data.PowerAttackDamage
	default:
		panic(fmt.Sprintf("character: no attack power for action %s", kind))
	}
	if c.weapon != nil {
		p += c.weapon.Data.Damage
	}
	return p
}

// AttackVolume returns the box in front of the character an attack of kind
// reaches.
func (c *Character) AttackVolume(kind ActionState) collision.BoundingBox {
	reach := c.AttackRange(kind)
	face := c.Controller.FaceDirection.Horizontal()
	if face.Length() <= math.Epsilon {
		face = math.DirectionFromYaw(c.Controller.Rotation.Y)
	}
	face = face.Normalize()

	size := c.Controller.Size
	halfDepth := math.Abs(face.X)*size.X*0.5 + math.Abs(face.Z)*size.Z*0.5
	center := c.Position().Add(face.Scale(halfDepth + reach*0.5))
	center.Y += size.Y * 0.5

	width := max(size.X, size.Z)
	extent := math.Vec3{
		X: math.Abs(face.X)*reach + math.Abs(face.Z)*width,
		Y: size.Y,
		Z: math.Abs(face.Z)*reach + math.Abs(face.X)*width,
	}
	return collision.BoxFromCenter(center, extent)
}

// TryHit applies this frame's attack to target when the attack volume
// reaches it. It reports whether damage was dealt.
func (c *Character) TryHit(target *Character) bool {
	if !c.anim.AttackEvent || target == c || !target.IsAlive() {
		return false
	}
	kind := c.anim.AttackKind
	volume := c.AttackVolume(kind)
	if !target.Volume().IntersectsBox(volume) {
		return false
	}
	tb := target.Bounds()
	hit := volume.Min.Max(tb.Min).Add(volume.Max.Min(tb.Max)).Scale(0.5)
	return target.ApplyDamage(c.AttackPower(kind), c, hit)
}
