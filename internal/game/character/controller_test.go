package character

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubuntunux/stoneage/internal/engine/collision"
	"github.com/ubuntunux/stoneage/internal/engine/terrain"
	"github.com/ubuntunux/stoneage/pkg/math"
)

const frameDt = float32(1.0 / 60)

var bodySize = math.Vec3{X: 0.6, Y: 1.8, Z: 0.6}

func newTestController(pos math.Vec3) *Controller {
	return NewController(DefaultControllerConfig(), pos, math.Vec3{}, bodySize)
}

func settle(t *testing.T, c *Controller, ground Terrain, q collision.Query) {
	t.Helper()
	for i := 0; i < 300 && !c.OnGround; i++ {
		c.Update(frameDt, Intent{}, ground, q)
	}
	require.True(t, c.OnGround, "controller never landed")
}

func TestGroundedZeroInputStaysPut(t *testing.T) {
	ground := terrain.Flat(0)
	c := newTestController(math.Vec3{X: 1, Z: -2})
	settle(t, c, ground, nil)
	start := c.Position

	for _, dt := range []float32{0, frameDt, 0.05, 0.1, frameDt} {
		for i := 0; i < 20; i++ {
			flags := c.Update(dt, Intent{}, ground, nil)
			assert.True(t, flags.OnGround)
			assert.False(t, flags.Falling)
		}
		assert.Zero(t, c.Velocity.X)
		assert.Zero(t, c.Velocity.Z)
		assert.Zero(t, c.Velocity.Y)
		assert.Equal(t, start, c.Position)
	}
}

func TestFallComesToRestAtTerrainHeight(t *testing.T) {
	hm, err := terrain.FromFunc(16, 16, 1, math.Vec2{X: -8, Y: -8}, func(x, z float32) float32 {
		return 0.5 + 0.1*x
	})
	require.NoError(t, err)

	c := newTestController(math.Vec3{X: 3, Y: 10, Z: 1})
	c.Velocity.Y = -3
	for i := 0; i < 300; i++ {
		c.Update(frameDt, Intent{}, hm, nil)
	}

	assert.True(t, c.OnGround)
	assert.False(t, c.Falling)
	assert.Equal(t, hm.HeightBilinear(c.Position), c.Position.Y)
	assert.InDelta(t, 0.8, c.Position.Y, 1e-4)
}

func TestJumpStartConsumedEveryUpdate(t *testing.T) {
	ground := terrain.Flat(0)
	c := newTestController(math.Vec3{})
	settle(t, c, ground, nil)

	c.RequestJump(6)
	flags := c.Update(frameDt, Intent{}, ground, nil)
	assert.False(t, c.JumpStart)
	assert.True(t, flags.Jumping)
	assert.False(t, flags.OnGround)
	assert.Positive(t, c.Velocity.Y)

	// Airborne requests are still cleared.
	c.RequestJump(6)
	c.Update(frameDt, Intent{}, ground, nil)
	assert.False(t, c.JumpStart)
}

func TestJumpLandsAndReportsLanding(t *testing.T) {
	ground := terrain.Flat(0)
	c := newTestController(math.Vec3{})
	settle(t, c, ground, nil)

	c.RequestJump(6)
	landed := 0
	for i := 0; i < 120; i++ {
		if c.Update(frameDt, Intent{}, ground, nil).Landed {
			landed++
		}
	}
	assert.Equal(t, 1, landed)
	assert.True(t, c.OnGround)
	assert.False(t, c.Jumping)
	assert.Zero(t, c.Position.Y)
}

func TestPerAxisDeltaClamp(t *testing.T) {
	ground := terrain.Flat(0)
	c := newTestController(math.Vec3{})
	settle(t, c, ground, nil)

	c.MoveSpeed = 1000
	c.Update(0.1, Intent{Direction: math.Vec3{X: 1}}, ground, nil)
	assert.InDelta(t, 1, c.Position.X, 1e-5)
	assert.Zero(t, c.Position.Z)
}

func TestZeroDirectionIsNoMovement(t *testing.T) {
	ground := terrain.Flat(0)
	c := newTestController(math.Vec3{})
	settle(t, c, ground, nil)

	c.MoveSpeed = 5
	c.Update(frameDt, Intent{Direction: math.Vec3{Y: 1}}, ground, nil)
	assert.Zero(t, c.Velocity.X)
	assert.Zero(t, c.Velocity.Z)
	assert.True(t, c.MoveDirection.IsZero())
}

func TestRotationCappedShortestPath(t *testing.T) {
	ground := terrain.Flat(0)
	c := newTestController(math.Vec3{})
	c.Rotation.Y = 3 // just short of Pi
	c.MoveSpeed = 1

	// Target yaw is -3, reached fastest by crossing Pi.
	target := math.DirectionFromYaw(-3)
	c.Update(0.01, Intent{Direction: target}, ground, nil)

	step := DefaultControllerConfig().RotationSpeed * 0.01
	assert.InDelta(t, math.WrapAngle(3+step), c.Rotation.Y, 1e-5)
}

func TestKnockbackDecaysWithoutReversing(t *testing.T) {
	ground := terrain.Flat(0)
	c := newTestController(math.Vec3{})
	settle(t, c, ground, nil)

	c.AddHitVelocity(math.Vec3{X: 5})
	last := c.HitVelocity.X
	lastX := c.Position.X
	for i := 0; i < 240; i++ {
		c.Update(frameDt, Intent{}, ground, nil)
		require.GreaterOrEqual(t, c.HitVelocity.X, float32(0))
		require.LessOrEqual(t, c.HitVelocity.X, last)
		require.GreaterOrEqual(t, c.Position.X, lastX)
		last, lastX = c.HitVelocity.X, c.Position.X
	}
	assert.True(t, c.HitVelocity.IsZero())
	assert.Positive(t, c.Position.X)
}

func TestSetOnGroundIgnoresLowerSurface(t *testing.T) {
	c := newTestController(math.Vec3{Y: 1})
	c.OnGround = true

	c.setOnGround(0.5, math.Up)
	assert.Equal(t, float32(1), c.Position.Y)

	c.setOnGround(1.5, math.Up)
	assert.Equal(t, float32(1.5), c.Position.Y)

	c.OnGround = false
	c.Velocity.Y = -4
	c.setOnGround(0.2, math.Up)
	assert.Equal(t, float32(0.2), c.Position.Y)
	assert.True(t, c.OnGround)
	assert.Zero(t, c.Velocity.Y)
}

func TestPushOutAroundObstacle(t *testing.T) {
	ground := terrain.Flat(0)
	wall := &collision.Box{Name: "rock", Box: collision.NewBoundingBox(
		math.Vec3{X: 2, Y: 0, Z: -0.5}, math.Vec3{X: 3, Y: 2, Z: 0.5})}
	ix := collision.NewIndex()
	ix.Add(wall)

	c := newTestController(math.Vec3{Z: 0.2})
	settle(t, c, ground, ix)
	c.MoveSpeed = 3

	blocked := false
	for i := 0; i < 240; i++ {
		flags := c.Update(frameDt, Intent{Direction: math.Vec3{X: 1}}, ground, ix)
		require.False(t, c.Bounds().Intersects(wall.Box), "overlap at frame %d: %v", i, c.Position)
		if flags.Blocked {
			blocked = true
			assert.Same(t, wall, flags.BlockedBy)
		}
	}
	assert.True(t, blocked)
	assert.Greater(t, c.Position.X, float32(3.5), "character should have slid past the rock")
}

func TestHeadOnObstacleStops(t *testing.T) {
	ground := terrain.Flat(0)
	wall := &collision.Box{Box: collision.NewBoundingBox(
		math.Vec3{X: 2, Y: 0, Z: -0.5}, math.Vec3{X: 3, Y: 2, Z: 0.5})}
	ix := collision.NewIndex()
	ix.Add(wall)

	c := newTestController(math.Vec3{})
	settle(t, c, ground, ix)
	c.MoveSpeed = 3
	for i := 0; i < 120; i++ {
		c.Update(frameDt, Intent{Direction: math.Vec3{X: 1}}, ground, ix)
		require.False(t, c.Bounds().Intersects(wall.Box))
	}
	assert.InDelta(t, 1.7, c.Position.X, 0.05)
	assert.True(t, c.Blocked)
}

func TestInsideCornerNeverOverlaps(t *testing.T) {
	ground := terrain.Flat(0)
	wx := &collision.Box{Name: "wx", Box: collision.NewBoundingBox(
		math.Vec3{X: 1, Y: 0, Z: -2}, math.Vec3{X: 2, Y: 2, Z: 2})}
	wz := &collision.Box{Name: "wz", Box: collision.NewBoundingBox(
		math.Vec3{X: -2, Y: 0, Z: 1}, math.Vec3{X: 1, Y: 2, Z: 2})}

	for _, order := range [][]*collision.Box{{wx, wz}, {wz, wx}} {
		ix := collision.NewIndex()
		for _, b := range order {
			ix.Add(b)
		}

		c := newTestController(math.Vec3{})
		settle(t, c, ground, ix)
		c.MoveSpeed = 6
		for i := 0; i < 240; i++ {
			c.Update(frameDt, Intent{Direction: math.Vec3{X: 1, Z: 0.3}}, ground, ix)
			require.False(t, c.Bounds().Intersects(wx.Box), "%s first: overlaps wx at frame %d: %v", order[0].Name, i, c.Position)
			require.False(t, c.Bounds().Intersects(wz.Box), "%s first: overlaps wz at frame %d: %v", order[0].Name, i, c.Position)
		}
		assert.True(t, c.Blocked)
	}
}

// pushIntoNeighbor steps once into a short wall whose push-out slides the
// body sideways onto a second box that the swept query does not reach.
func pushIntoNeighbor(t *testing.T, neighborHeight float32) (*Controller, math.Vec3) {
	t.Helper()
	ground := terrain.Flat(0)
	ix := collision.NewIndex()
	ix.Add(&collision.Box{Name: "wall", Box: collision.NewBoundingBox(
		math.Vec3{X: 1, Y: 0, Z: -0.5}, math.Vec3{X: 2, Y: 2, Z: 0.5})})
	ix.Add(&collision.Box{Name: "neighbor", Box: collision.NewBoundingBox(
		math.Vec3{X: 0, Y: 0, Z: 0.75}, math.Vec3{X: 0.9, Y: neighborHeight, Z: 2})})

	c := newTestController(math.Vec3{X: 0.6, Z: 0.4})
	settle(t, c, ground, ix)
	start := c.Position

	c.MoveSpeed = 12 // 0.2 per frame
	c.Update(frameDt, Intent{Direction: math.Vec3{X: 1}}, ground, ix)
	return c, start
}

func TestPushOutIntoTallerObstacleReverts(t *testing.T) {
	c, start := pushIntoNeighbor(t, 2)

	assert.Equal(t, start.X, c.Position.X)
	assert.Equal(t, start.Z, c.Position.Z)
	assert.True(t, c.Blocked)
	assert.True(t, c.OnGround)
}

func TestPushOutOntoLowerObstacleSettles(t *testing.T) {
	c, start := pushIntoNeighbor(t, 0.005)

	assert.True(t, c.OnGround)
	assert.InDelta(t, 0.005, c.Position.Y, 1e-6)
	assert.NotEqual(t, start.Z, c.Position.Z, "push-out should be kept")
	assert.Less(t, c.Position.X, float32(0.7))
	assert.True(t, c.Blocked)
}

func TestLandOnObstacleTop(t *testing.T) {
	ground := terrain.Flat(0)
	crate := &collision.Box{Box: collision.NewBoundingBox(
		math.Vec3{X: -1, Y: 0, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})}
	ix := collision.NewIndex()
	ix.Add(crate)

	c := newTestController(math.Vec3{Y: 3})
	settle(t, c, ground, ix)
	assert.Equal(t, float32(1), c.Position.Y)

	for i := 0; i < 30; i++ {
		flags := c.Update(frameDt, Intent{}, ground, ix)
		require.True(t, flags.OnGround)
	}
	assert.Equal(t, float32(1), c.Position.Y)
}

func TestCliffProbe(t *testing.T) {
	ground := terrain.Flat(0)
	ledge := &collision.Box{Box: collision.NewBoundingBox(
		math.Vec3{X: -1, Y: 0, Z: -1}, math.Vec3{X: 1, Y: 3, Z: 1})}
	ix := collision.NewIndex()
	ix.Add(ledge)

	tests := []struct {
		name  string
		x     float32
		cliff bool
	}{
		{"middle of the ledge", 0, false},
		{"at the edge", 0.65, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(math.Vec3{X: tt.x, Y: 4})
			settle(t, c, ground, ix)
			c.MoveSpeed = 1
			flags := c.Update(frameDt, Intent{Direction: math.Vec3{X: 1}}, ground, ix)
			assert.Equal(t, tt.cliff, flags.Cliff)
		})
	}
}

func TestCliffStaysSetWithoutMovement(t *testing.T) {
	ground := terrain.Flat(0)
	c := newTestController(math.Vec3{})
	settle(t, c, ground, nil)
	assert.True(t, c.Update(frameDt, Intent{}, ground, nil).Cliff)
}

func TestCannotClimbSteepSlope(t *testing.T) {
	hm, err := terrain.FromFunc(12, 4, 1, math.Vec2{X: -2, Y: -2}, func(x, z float32) float32 {
		if x > 2 {
			return (x - 2) * 3
		}
		return 0
	})
	require.NoError(t, err)

	c := newTestController(math.Vec3{})
	settle(t, c, hm, nil)
	c.MoveSpeed = 2
	for i := 0; i < 300; i++ {
		c.Update(frameDt, Intent{Direction: math.Vec3{X: 1}}, hm, nil)
		require.Less(t, c.Position.Y, float32(0.5), "climbed to %v", c.Position)
	}
	assert.Less(t, c.Position.X, float32(2.5))
}

func TestRollMovesAlongFacing(t *testing.T) {
	ground := terrain.Flat(0)
	c := newTestController(math.Vec3{})
	settle(t, c, ground, nil)

	c.MoveSpeed = 4
	c.Update(0.1, Intent{Direction: math.Vec3{X: 1}, Rolling: true}, ground, nil)
	// Facing +Z from a zero yaw; the move direction is ignored.
	assert.InDelta(t, 0.4, c.Position.Z, 1e-5)
	assert.InDelta(t, 0, c.Position.X, 1e-5)
}
