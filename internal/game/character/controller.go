package character

import (
	"github.com/ubuntunux/stoneage/internal/engine/collision"
	"github.com/ubuntunux/stoneage/pkg/math"
)

// contact is the tolerance used when deciding whether a surface supports
// the character.
const contact = 0.01

// Terrain samples ground height and normal under a position.
type Terrain interface {
	HeightBilinear(pos math.Vec3) float32
	NormalBilinear(pos math.Vec3) math.Vec3
}

type flatGround struct{}

func (flatGround) HeightBilinear(math.Vec3) float32   { return 0 }
func (flatGround) NormalBilinear(math.Vec3) math.Vec3 { return math.Up }

// Intent is what the character wants the controller to do this frame.
type Intent struct {
	Direction math.Vec3 // desired horizontal move direction, zero to stand still
	Face      math.Vec3 // direction to turn to while standing, may be zero
	Rolling   bool      // move along the facing direction
}

// Flags reports the controller state after an update.
type Flags struct {
	OnGround  bool
	Falling   bool
	Jumping   bool
	Blocked   bool
	Cliff     bool
	BlockedBy collision.Obstacle

	Landed       bool    // touched ground this frame after being airborne
	FallDistance float32 // drop from the fall apex when Landed
}

// Controller integrates character motion and resolves it against terrain
// and obstacles.
type Controller struct {
	config ControllerConfig

	// Transform
	Position math.Vec3
	Rotation math.Vec3 // Euler radians: X pitch, Y yaw, Z roll
	Scale    math.Vec3
	Size     math.Vec3 // body box size

	// Motion
	Velocity      math.Vec3
	SlopeVelocity math.Vec3
	HitVelocity   math.Vec3
	MoveSpeed     float32
	MoveDirection math.Vec3
	FaceDirection math.Vec3
	GroundNormal  math.Vec3

	// Flags
	OnGround  bool
	Falling   bool
	Jumping   bool
	JumpStart bool
	Running   bool
	Blocked   bool
	Cliff     bool
	BlockedBy collision.Obstacle

	FallTime      float32
	FallingHeight float32 // height the current fall started from

	jumpSpeed   float32
	interaction []collision.Interactive
}

// NewController creates a controller standing at position.
func NewController(cfg ControllerConfig, position, rotation, size math.Vec3) *Controller {
	c := &Controller{
		config: cfg,
		Size:   size,
		Scale:  math.Vec3{X: 1, Y: 1, Z: 1},
	}
	c.Reset(position, rotation)
	return c
}

// Reset places the controller at position with no motion.
func (c *Controller) Reset(position, rotation math.Vec3) {
	c.Position = position
	c.Rotation = rotation
	c.Velocity = math.Vec3{}
	c.SlopeVelocity = math.Vec3{}
	c.HitVelocity = math.Vec3{}
	c.MoveDirection = math.Vec3{}
	c.FaceDirection = math.DirectionFromYaw(rotation.Y)
	c.GroundNormal = math.Up
	c.OnGround = false
	c.Falling = false
	c.Jumping = false
	c.JumpStart = false
	c.Blocked = false
	c.Cliff = false
	c.BlockedBy = nil
	c.FallTime = 0
	c.FallingHeight = position.Y
	c.interaction = nil
}

// Config returns the tuning the controller was built with.
func (c *Controller) Config() ControllerConfig {
	return c.config
}

// BoundsAt returns the body box with its bottom center at pos.
func (c *Controller) BoundsAt(pos math.Vec3) collision.BoundingBox {
	half := math.Vec3{X: c.Size.X * 0.5, Z: c.Size.Z * 0.5}
	return collision.BoundingBox{
		Min: math.Vec3{X: pos.X - half.X, Y: pos.Y, Z: pos.Z - half.Z},
		Max: math.Vec3{X: pos.X + half.X, Y: pos.Y + c.Size.Y, Z: pos.Z + half.Z},
	}
}

// Bounds returns the body box at the current position.
func (c *Controller) Bounds() collision.BoundingBox {
	return c.BoundsAt(c.Position)
}

// RequestJump asks for a jump with the given vertical speed on the next update.
func (c *Controller) RequestJump(speed float32) {
	c.JumpStart = true
	c.jumpSpeed = speed
}

// AddHitVelocity adds knockback.
func (c *Controller) AddHitVelocity(v math.Vec3) {
	c.HitVelocity = c.HitVelocity.Add(v.Horizontal())
}

// SetInteractionObjects replaces the interactables in range.
func (c *Controller) SetInteractionObjects(objs []collision.Interactive) {
	c.interaction = objs
}

// InteractionObjects returns the interactables in range.
func (c *Controller) InteractionObjects() []collision.Interactive {
	return c.interaction
}

// Flags returns the current flag set.
func (c *Controller) Flags() Flags {
	return Flags{
		OnGround:  c.OnGround,
		Falling:   c.Falling,
		Jumping:   c.Jumping,
		Blocked:   c.Blocked,
		Cliff:     c.Cliff,
		BlockedBy: c.BlockedBy,
	}
}

// setOnGround lands the controller on a surface. It is ignored while
// grounded unless the surface is above the current position.
func (c *Controller) setOnGround(height float32, normal math.Vec3) {
	if c.OnGround && height <= c.Position.Y {
		return
	}
	c.Position.Y = height
	c.OnGround = true
	c.FallTime = 0
	c.Falling = false
	c.Jumping = false
	c.Velocity.Y = 0
	c.GroundNormal = normal
}

func (c *Controller) isSteep(normal math.Vec3) bool {
	return normal.Y < c.config.SlopeAngle
}

// Update advances the controller by dt seconds.
func (c *Controller) Update(dt float32, in Intent, ground Terrain, obstacles collision.Query) Flags {
	if ground == nil {
		ground = flatGround{}
	}
	cfg := &c.config
	prev := c.Position
	wasOnGround := c.OnGround
	fallStart := c.FallingHeight

	// Fall timer.
	if c.OnGround {
		c.FallTime = 0
		c.Falling = false
	} else {
		c.FallTime += dt
		if c.FallTime > cfg.FallingTime {
			c.Falling = true
		}
	}

	// Horizontal velocity.
	dir := in.Direction
	if in.Rolling {
		dir = c.FaceDirection
	}
	dir = dir.Horizontal()
	if dir.Length() > math.Epsilon {
		dir = dir.Normalize()
		c.MoveDirection = dir
		c.Velocity.X = dir.X * c.MoveSpeed
		c.Velocity.Z = dir.Z * c.MoveSpeed
	} else {
		dir = math.Vec3{}
		c.MoveDirection = math.Vec3{}
		c.Velocity.X = 0
		c.Velocity.Z = 0
	}
	horizontal := c.Velocity.Horizontal()

	var move math.Vec3

	// Knockback.
	if !c.HitVelocity.IsZero() {
		move = move.Add(c.HitVelocity.Scale(dt))
		c.HitVelocity = c.HitVelocity.Scale(math.Exp(-cfg.HitDecay * dt))
		if c.HitVelocity.Length() < contact {
			c.HitVelocity = math.Vec3{}
		}
	}

	// Slope slide.
	if !c.SlopeVelocity.IsZero() {
		if c.SlopeVelocity.Dot(horizontal) >= 0 {
			move = move.Add(c.SlopeVelocity.Scale(dt))
		}
		if c.OnGround {
			c.SlopeVelocity = c.SlopeVelocity.Scale(math.Exp(-cfg.SlopeDecay * dt))
			if c.SlopeVelocity.Length() < contact {
				c.SlopeVelocity = math.Vec3{}
			}
		}
	}
	if c.OnGround && c.isSteep(c.GroundNormal) {
		downhill := c.GroundNormal.Horizontal()
		if downhill.Length() > math.Epsilon {
			downhill = downhill.Normalize()
			if along := horizontal.Dot(downhill); along < 0 {
				horizontal = horizontal.Sub(downhill.Scale(along))
				c.Velocity.X = horizontal.X
				c.Velocity.Z = horizontal.Z
			}
		}
	}

	move = move.Add(horizontal.Scale(dt))

	// Facing.
	face := dir
	if face.IsZero() {
		face = in.Face.Horizontal()
	}
	if face.Length() > math.Epsilon {
		target := math.YawFromDirection(face)
		c.Rotation.Y = math.RotateTowards(c.Rotation.Y, target, cfg.RotationSpeed*dt)
		c.FaceDirection = math.DirectionFromYaw(c.Rotation.Y)
	}

	// Jump.
	if c.JumpStart {
		c.Velocity.Y = c.jumpSpeed
		c.OnGround = false
		c.Jumping = true
		c.FallTime = 0
	}

	// Gravity.
	if !c.OnGround {
		before := c.Velocity.Y
		c.Velocity.Y -= cfg.Gravity * dt
		if before > 0 && c.Velocity.Y <= 0 {
			c.FallingHeight = c.Position.Y
		}
	} else {
		c.FallingHeight = c.Position.Y
	}

	move.Y = c.Velocity.Y * dt

	if limit := cfg.MaxMovePerFrame; limit > 0 {
		move.X = math.Clamp(move.X, -limit, limit)
		move.Y = math.Clamp(move.Y, -limit, limit)
		move.Z = math.Clamp(move.Z, -limit, limit)
	}
	c.Position = prev.Add(move)

	// Ground and slope probe.
	c.Cliff = true
	c.Blocked = false
	c.BlockedBy = nil
	c.OnGround = false
	c.probeGround(prev, wasOnGround, ground)

	// Obstacles.
	if obstacles != nil {
		c.resolveObstacles(prev, wasOnGround, obstacles)
	}

	// Cliff probe.
	if !c.Falling {
		c.probeCliff(prev, ground, obstacles)
	}

	c.JumpStart = false

	flags := c.Flags()
	if c.OnGround && !wasOnGround {
		flags.Landed = true
		flags.FallDistance = max(fallStart-c.Position.Y, 0)
	}
	return flags
}

func (c *Controller) probeGround(prev math.Vec3, wasOnGround bool, ground Terrain) {
	height := ground.HeightBilinear(c.Position)
	reach := height
	if wasOnGround && !c.Jumping {
		reach += c.config.StepDownHeight
	}
	if c.Position.Y > reach || c.Velocity.Y > 0 {
		return
	}
	normal := ground.NormalBilinear(c.Position)
	unsnapped := c.Position.Y
	c.Position.Y = height

	moved := c.Position.Sub(prev)
	flat := moved.Horizontal()
	steepMove := moved.Y > 0 && moved.Length() > math.Epsilon && flat.Length() < c.config.SlopeAngle*moved.Length()
	steepNormal := false
	if c.isSteep(normal) && flat.Length() > math.Epsilon {
		if downhill := normal.Horizontal(); downhill.Length() > math.Epsilon {
			steepNormal = downhill.Normalize().Dot(flat.Normalize()) < -contact
		}
	}
	if !steepMove && !steepNormal {
		c.setOnGround(height, normal)
		return
	}

	push := normal.Horizontal()
	if push.Length() <= math.Epsilon {
		push = flat.Neg()
	}
	if push.Length() > math.Epsilon {
		c.SlopeVelocity = c.SlopeVelocity.Add(push.Normalize().Scale(c.config.SlopeSpeed))
		if l := c.SlopeVelocity.Length(); l > c.config.SlopeSpeed {
			c.SlopeVelocity = c.SlopeVelocity.Scale(c.config.SlopeSpeed / l)
		}
	}
	c.Blocked = true

	// Stay on the footing we came from.
	c.Position.X = prev.X
	c.Position.Z = prev.Z
	c.Position.Y = unsnapped
	if back := ground.HeightBilinear(prev); c.Position.Y <= back+contact {
		c.Position.Y = back
		c.setOnGround(back, ground.NormalBilinear(prev))
	}
}

func (c *Controller) resolveObstacles(prev math.Vec3, wasOnGround bool, obstacles collision.Query) {
	probe := float32(contact)
	if wasOnGround && !c.Jumping {
		probe = c.config.StepDownHeight
	}
	swept := c.BoundsAt(prev).Union(c.BoundsAt(c.Position))
	swept.Min.Y -= probe
	objs := obstacles.CollectCollisionObjects(swept.Min, swept.Max)

	for _, o := range objs {
		b := o.Bounds()
		body := c.BoundsAt(c.Position)

		// Ground on top of the obstacle.
		if c.Velocity.Y <= 0 && overlapsXZ(body, b) &&
			b.Max.Y <= prev.Y+contact && b.Max.Y >= c.Position.Y-probe {
			c.setOnGround(b.Max.Y, math.Up)
			continue
		}
		if !o.Volume().IntersectsBox(body) {
			continue
		}

		// Head against the underside.
		if c.Velocity.Y > 0 && prev.Y+c.Size.Y <= b.Min.Y+contact {
			c.Velocity.Y = 0
			c.Position.Y = prev.Y
			continue
		}

		c.pushOut(b, prev)
		c.Blocked = true
		c.BlockedBy = o

		// One recheck where the push left us. The slide can reach obstacles
		// outside the swept query, so query again around the pushed body.
		body = c.BoundsAt(c.Position)
		region := swept.Union(body)
		for _, other := range obstacles.CollectCollisionObjects(region.Min, region.Max) {
			if other == o || !other.Volume().IntersectsBox(body) {
				continue
			}
			if top := other.Bounds().Max.Y; top <= prev.Y+contact {
				c.setOnGround(top, math.Up)
			} else {
				c.Position.X = prev.X
				c.Position.Z = prev.Z
				return
			}
			break
		}
	}
}

// pushOut moves the character horizontally off b, keeping the distance from
// b's center it had on the previous frame.
func (c *Controller) pushOut(b collision.BoundingBox, prev math.Vec3) {
	center := b.Center().Horizontal()
	dist := prev.Horizontal().Sub(center).Length()

	dir := c.Position.Horizontal().Sub(center)
	if dir.Length() <= math.Epsilon {
		dir = prev.Horizontal().Sub(center)
	}
	if dir.Length() <= math.Epsilon {
		dir = c.MoveDirection.Neg()
	}
	if dir.Length() <= math.Epsilon {
		dir = math.Vec3{X: 1}
	}
	dir = dir.Normalize()
	c.Position.X = center.X + dir.X*dist
	c.Position.Z = center.Z + dir.Z*dist

	// A box is not a circle: finish along the shallower axis.
	body := c.BoundsAt(c.Position)
	if !overlapsXZ(body, b) {
		return
	}
	const gap = 1e-4
	left := body.Max.X - b.Min.X
	right := b.Max.X - body.Min.X
	back := body.Max.Z - b.Min.Z
	front := b.Max.Z - body.Min.Z
	dx, dz := -left-gap, -back-gap
	if right < left {
		dx = right + gap
	}
	if front < back {
		dz = front + gap
	}
	if math.Abs(dx) < math.Abs(dz) {
		c.Position.X += dx
	} else {
		c.Position.Z += dz
	}
}

func (c *Controller) probeCliff(prev math.Vec3, ground Terrain, obstacles collision.Query) {
	moved := c.Position.Sub(prev).Horizontal()
	if moved.Length() <= math.Epsilon {
		return
	}
	d := moved.Normalize()
	body := c.BoundsAt(c.Position)
	reach := math.Abs(d.X)*c.Size.X*0.5 + math.Abs(d.Z)*c.Size.Z*0.5 + c.config.CliffProbeOffset
	point := math.Vec3{
		X: c.Position.X + d.X*reach,
		Y: body.Min.Y - c.config.CliffProbeDrop,
		Z: c.Position.Z + d.Z*reach,
	}

	if obstacles != nil {
		for _, o := range obstacles.CollectCollisionObjects(point, point) {
			if o.Volume().ContainsPoint(point) {
				c.Cliff = false
				return
			}
		}
	}
	if point.Y-ground.HeightBilinear(point) <= c.config.CliffHeight {
		c.Cliff = false
	}
}

func overlapsXZ(a, b collision.BoundingBox) bool {
	return a.Min.X < b.Max.X && a.Max.X > b.Min.X &&
		a.Min.Z < b.Max.Z && a.Max.Z > b.Min.Z
}
