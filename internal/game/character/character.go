package character

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ubuntunux/stoneage/internal/engine/anim"
	"github.com/ubuntunux/stoneage/internal/engine/audio"
	"github.com/ubuntunux/stoneage/internal/engine/collision"
	"github.com/ubuntunux/stoneage/internal/engine/scene"
	"github.com/ubuntunux/stoneage/internal/logger"
	"github.com/ubuntunux/stoneage/pkg/math"
)

// Frame is the per-frame context a character is updated against.
type Frame struct {
	Terrain   Terrain
	Obstacles collision.Query
	Player    *Character
}

// Behavior drives a non-player character by setting its intent.
type Behavior interface {
	Update(self *Character, frame Frame, dt float32)
}

// CreateInfo places a new character.
type CreateInfo struct {
	Position math.Vec3
	Rotation math.Vec3
	Scale    math.Vec3 // zero means unit scale
}

// Options carries the collaborators and tuning a character needs.
type Options struct {
	Store      *scene.Store
	Effects    Effects
	Controller ControllerConfig
	Stamina    StaminaConfig
}

// Character is a simulated actor, the player or an NPC.
type Character struct {
	id       uint64
	isPlayer bool
	data     *Data

	Controller *Controller
	Stats      Stats
	anim       AnimationState
	behavior   Behavior
	weapon     *Weapon

	// Render object
	store  *scene.Store
	handle scene.Handle

	effects Effects
	stamina StaminaConfig
	log     *zap.Logger

	spawn         math.Vec3
	spawnRotation math.Vec3

	// Intent
	moveDir math.Vec3
	faceDir math.Vec3
	running bool
}

// New creates a character and its render object.
func New(id uint64, data *Data, info CreateInfo, isPlayer bool, opts Options) *Character {
	if opts.Effects == nil {
		opts.Effects = nopEffects{}
	}
	c := &Character{
		id:            id,
		isPlayer:      isPlayer,
		data:          data,
		Controller:    NewController(opts.Controller, info.Position, info.Rotation, data.Size),
		store:         opts.Store,
		effects:       opts.Effects,
		stamina:       opts.Stamina,
		log:           logger.Named("character").With(zap.Uint64("id", id), zap.String("name", data.Name)),
		spawn:         info.Position,
		spawnRotation: info.Rotation,
	}
	if !info.Scale.IsZero() {
		c.Controller.Scale = info.Scale
	}
	if c.store != nil {
		c.handle = c.store.Create(data.Name, data.Sockets)
	}
	c.Stats.Reset(data.MaxHP, c.maxStamina())
	c.setMove(MoveIdle)
	c.syncRenderObject()
	return c
}

func (c *Character) maxStamina() float32 {
	if !c.isPlayer {
		return 0
	}
	return c.stamina.Max
}

// ID returns the character id.
func (c *Character) ID() uint64 { return c.id }

// Name returns the character type name.
func (c *Character) Name() string { return c.data.Name }

// IsPlayer reports whether the character is the player.
func (c *Character) IsPlayer() bool { return c.isPlayer }

// Data returns the character type data.
func (c *Character) Data() *Data { return c.data }

// Handle returns the render object handle.
func (c *Character) Handle() scene.Handle { return c.handle }

// Animation returns the animation layer state.
func (c *Character) Animation() AnimationState { return c.anim }

// SetBehavior installs the AI driver. Players ignore it.
func (c *Character) SetBehavior(b Behavior) {
	c.behavior = b
}

// Behavior returns the AI driver, nil for the player.
func (c *Character) Behavior() Behavior { return c.behavior }

// SpawnPoint returns where the character was created.
func (c *Character) SpawnPoint() math.Vec3 { return c.spawn }

// Position returns the controller position.
func (c *Character) Position() math.Vec3 { return c.Controller.Position }

// Bounds implements collision.Obstacle.
func (c *Character) Bounds() collision.BoundingBox { return c.Controller.Bounds() }

// Volume implements collision.Obstacle.
func (c *Character) Volume() collision.Volume { return collision.BoxVolume(c.Controller.Bounds()) }

// IsAlive reports whether the character is alive.
func (c *Character) IsAlive() bool { return c.Stats.Alive }

// IsMoveState reports whether the base layer is in s.
func (c *Character) IsMoveState(s MoveState) bool { return c.anim.Move == s }

// IsAction reports whether the overlay layer is in s.
func (c *Character) IsAction(s ActionState) bool { return c.anim.Action == s }

// IsRolling reports whether the character is rolling.
func (c *Character) IsRolling() bool { return c.anim.Move == MoveRoll }

// IsRunning reports whether the run toggle is on.
func (c *Character) IsRunning() bool { return c.running }

// IsMoving reports whether a move direction is set.
func (c *Character) IsMoving() bool { return !c.moveDir.IsZero() }

// IsOnGround reports whether the controller is grounded.
func (c *Character) IsOnGround() bool { return c.Controller.OnGround }

// AttackEvent reports whether an attack connected this frame.
func (c *Character) AttackEvent() bool { return c.anim.AttackEvent }

// Availability

// AvailableMove reports whether movement intent is accepted.
func (c *Character) AvailableMove() bool {
	return c.Stats.Alive && !c.IsRolling()
}

// AvailableAttack reports whether an attack of kind may start.
func (c *Character) AvailableAttack(kind ActionState) bool {
	if !c.AvailableMove() {
		return false
	}
	switch c.anim.Action {
	case ActionNone:
	case ActionAttack:
		if c.playInfo(anim.LayerAction).ElapsedRatio() < c.eventTime(ActionAttack) {
			return false
		}
	default:
		return false
	}
	return !c.isPlayer || c.Stats.HasStamina(c.actionCost(kind))
}

// AvailableJump reports whether a jump may start.
func (c *Character) AvailableJump() bool {
	return c.Controller.OnGround && c.AvailableMove() &&
		(!c.isPlayer || c.Stats.HasStamina(c.stamina.Jump))
}

// AvailableRoll reports whether a roll may start.
func (c *Character) AvailableRoll() bool {
	return c.Controller.OnGround && c.AvailableAttack(ActionAttack) && !c.IsRolling()
}

func (c *Character) actionCost(kind ActionState) float32 {
	if kind == ActionPowerAttack {
		return c.stamina.PowerAttack
	}
	return c.stamina.Attack
}

// Intent

// SetMove walks or runs along dir. A zero direction stops.
func (c *Character) SetMove(dir math.Vec3) {
	dir = dir.Horizontal()
	if dir.Length() <= math.Epsilon {
		c.SetMoveStop()
		return
	}
	if !c.AvailableMove() {
		return
	}
	c.moveDir = dir.Normalize()
	c.faceDir = math.Vec3{}
	if !c.anim.Move.Airborne() {
		c.setMove(c.groundState())
	}
}

// SetMoveStop clears the move direction.
func (c *Character) SetMoveStop() {
	c.moveDir = math.Vec3{}
	if c.anim.Move == MoveWalk || c.anim.Move == MoveRun || c.anim.Move == MoveNone {
		c.setMove(MoveIdle)
	}
}

// SetFaceDirection turns a standing character toward dir.
func (c *Character) SetFaceDirection(dir math.Vec3) {
	c.faceDir = dir.Horizontal()
}

// FaceTarget returns the requested facing of a standing character, or zero.
func (c *Character) FaceTarget() math.Vec3 { return c.faceDir }

// SetRun sets the run toggle.
func (c *Character) SetRun(run bool) {
	c.running = run
	if c.anim.Move == MoveWalk || c.anim.Move == MoveRun {
		c.setMove(c.groundState())
	}
}

// ToggleRun flips the run toggle.
func (c *Character) ToggleRun() {
	c.SetRun(!c.running)
}

// SetJump requests a jump.
func (c *Character) SetJump() {
	if !c.AvailableJump() {
		return
	}
	state, speed := MoveJump, c.data.JumpSpeed
	if c.running && c.IsMoving() {
		state, speed = MoveRunningJump, c.data.RunningJumpSpeed
	}
	if c.isPlayer {
		c.Stats.AddStamina(-c.stamina.Jump)
		// The last jump the reserve can pay for is a tired one.
		if !c.Stats.HasStamina(c.stamina.Jump) {
			speed *= 0.5
		}
	}
	c.Controller.RequestJump(speed)
	c.setMove(state)
}

// SetRoll requests a roll along the facing direction.
func (c *Character) SetRoll() {
	if !c.AvailableRoll() {
		return
	}
	c.setMove(MoveRoll)
}

// SetActionAttack requests a normal attack. A second attack past the
// first one's event time restarts the clip as a combo.
func (c *Character) SetActionAttack() {
	if !c.AvailableAttack(ActionAttack) {
		return
	}
	c.setAction(ActionAttack, true)
}

// SetActionPowerAttack requests a power attack.
func (c *Character) SetActionPowerAttack() {
	if !c.AvailableAttack(ActionPowerAttack) {
		return
	}
	c.setAction(ActionPowerAttack, true)
}

func (c *Character) groundState() MoveState {
	switch {
	case c.moveDir.IsZero():
		return MoveIdle
	case c.running:
		return MoveRun
	default:
		return MoveWalk
	}
}

// Transitions

func (c *Character) setMove(s MoveState) {
	c.anim.Move = s
	c.applyMove()
}

func (c *Character) applyMove() {
	if c.anim.Move == c.anim.PrevMove {
		return
	}
	c.endMove(c.anim.PrevMove)
	c.beginMove(c.anim.Move)
	c.anim.PrevMove = c.anim.Move
}

func (c *Character) beginMove(s MoveState) {
	clips := &c.data.Clips
	switch s {
	case MoveNone:
		c.setAnimationNone(anim.LayerBase)
	case MoveIdle:
		c.setAnimation(clips.Idle, false, anim.LayerBase)
	case MoveWalk:
		c.setAnimation(clips.Walk, false, anim.LayerBase)
	case MoveRun:
		c.setAnimation(clips.Run, false, anim.LayerBase)
	case MoveJump:
		c.setAnimation(clips.Jump, true, anim.LayerBase)
		c.playSound(c.data.Sounds.Jump)
	case MoveRunningJump:
		c.setAnimation(clips.RunningJump, true, anim.LayerBase)
		c.playSound(c.data.Sounds.Jump)
	case MoveRoll:
		c.setAnimation(clips.Roll, true, anim.LayerBase)
		c.Stats.Invincible = true
		if c.isPlayer {
			c.Stats.AddStamina(-c.stamina.Roll)
		}
	}
}

func (c *Character) endMove(s MoveState) {
	if s == MoveRoll {
		c.Stats.Invincible = false
	}
}

func (c *Character) loopMove() {
	switch c.anim.Move {
	case MoveWalk, MoveRun:
		info := c.playInfo(anim.LayerBase)
		times := c.data.FootstepTimes
		if len(times) == 0 {
			times = DefaultFootstepTimes
		}
		for _, t := range times {
			if info.CheckAnimationEventTime(t) {
				c.playSoundBank(c.data.Sounds.Footstep)
			}
		}
	case MoveRoll:
		if info := c.playInfo(anim.LayerBase); info.IsAnimationEnd() || !info.Playing() {
			c.setMove(c.groundState())
		}
	}
}

func (c *Character) setAction(s ActionState, force bool) {
	if s == c.anim.Action && force {
		c.endAction(s)
		c.beginAction(s)
		return
	}
	c.anim.Action = s
	c.applyAction()
}

func (c *Character) applyAction() {
	if c.anim.Action == c.anim.PrevAction {
		return
	}
	c.endAction(c.anim.PrevAction)
	c.beginAction(c.anim.Action)
	c.anim.PrevAction = c.anim.Action
}

func (c *Character) beginAction(s ActionState) {
	clips := &c.data.Clips
	switch s {
	case ActionNone:
		c.setAnimationNone(anim.LayerAction)
	case ActionAttack:
		c.setAnimation(clips.Attack, true, anim.LayerAction)
		if c.isPlayer {
			c.Stats.AddStamina(-c.stamina.Attack)
		}
	case ActionPowerAttack:
		c.setAnimation(clips.PowerAttack, true, anim.LayerAction)
		if c.isPlayer {
			c.Stats.AddStamina(-c.stamina.PowerAttack)
		}
	case ActionHit:
		c.setAnimation(clips.Hit, true, anim.LayerAction)
	case ActionDead:
		c.setAnimation(clips.Dead, true, anim.LayerAction)
	}
}

func (c *Character) endAction(ActionState) {}

func (c *Character) loopAction() {
	info := c.playInfo(anim.LayerAction)
	switch c.anim.Action {
	case ActionAttack, ActionPowerAttack:
		if info.CheckAnimationEventTime(c.eventTime(c.anim.Action)) {
			c.anim.AttackEvent = true
			c.anim.AttackKind = c.anim.Action
			c.playSound(c.data.Sounds.Attack)
		}
		if info.IsAnimationEnd() || !info.Playing() {
			c.setAction(ActionNone, false)
		}
	case ActionHit:
		if info.IsAnimationEnd() || !info.Playing() {
			c.setAction(ActionNone, false)
		}
	case ActionDead:
		if c.isPlayer && (info.IsAnimationEnd() || !info.Playing()) {
			c.log.Info("player respawn")
			c.Reset()
		}
	}
}

func (c *Character) eventTime(kind ActionState) float32 {
	switch kind {
	case ActionAttack:
		return c.data.AttackEventTime
	case ActionPowerAttack:
		return c.data.PowerAttackEventTime
	}
	panic(fmt.Sprintf("character: unknown attack kind %d", kind))
}

// Update

// Update advances the character by dt seconds.
func (c *Character) Update(dt float32, frame Frame) {
	c.anim.AttackEvent = false

	if !c.isPlayer && c.behavior != nil && c.Stats.Alive {
		c.behavior.Update(c, frame, dt)
	}

	c.updateStamina(dt)

	c.Controller.MoveSpeed = c.moveSpeed()
	c.Controller.Running = c.running && c.anim.Move == MoveRun
	flags := c.Controller.Update(dt, Intent{
		Direction: c.moveDir,
		Face:      c.faceDir,
		Rolling:   c.IsRolling(),
	}, frame.Terrain, frame.Obstacles)

	switch {
	case c.anim.Move.Grounded() && c.Controller.Falling:
		c.setMove(MoveJump)
	case c.anim.Move.Airborne() && c.Controller.OnGround:
		c.setMove(c.groundState())
	}

	if flags.Landed {
		c.applyFallDamage(flags.FallDistance)
	}

	c.refreshInteraction(frame.Obstacles)

	c.loopMove()
	c.loopAction()

	c.syncRenderObject()
	c.updateWeapon()
}

func (c *Character) moveSpeed() float32 {
	switch c.anim.Move {
	case MoveWalk, MoveJump:
		return c.data.WalkSpeed
	case MoveRun, MoveRunningJump:
		return c.data.RunSpeed
	case MoveRoll:
		return c.data.RollSpeed
	}
	return 0
}

func (c *Character) updateStamina(dt float32) {
	if !c.isPlayer || !c.Stats.Alive {
		return
	}
	switch {
	case c.anim.Move == MoveRun:
		c.Stats.AddStamina(-c.stamina.RunDrain * dt)
		if c.Stats.Stamina <= 0 {
			c.SetRun(false)
		}
	case c.anim.Action == ActionNone &&
		(c.anim.Move == MoveNone || c.anim.Move == MoveIdle || c.anim.Move == MoveWalk):
		c.Stats.AddStamina(c.stamina.Regen * dt)
	}
}

func (c *Character) refreshInteraction(obstacles collision.Query) {
	if obstacles == nil {
		c.Controller.SetInteractionObjects(nil)
		return
	}
	area := c.Bounds().Expand(c.Controller.config.InteractionReach)
	var found []collision.Interactive
	for _, o := range obstacles.CollectCollisionObjects(area.Min, area.Max) {
		if it, ok := o.(collision.Interactive); ok && it.InteractionName() != "" {
			found = append(found, it)
		}
	}
	c.Controller.SetInteractionObjects(found)
}

// Damage

// ApplyDamage hits the character. attacker may be nil for environmental
// damage. It reports whether the damage was taken.
func (c *Character) ApplyDamage(damage int, attacker *Character, hitPoint math.Vec3) bool {
	if !c.Stats.Alive || c.Stats.Invincible {
		return false
	}
	if c.data.HitEffect != "" {
		c.effects.SpawnEffect(c.data.HitEffect, hitPoint)
	}
	c.playSound(c.data.Sounds.Hit)

	if attacker != nil && attacker.data.Knockback > 0 {
		away := c.Position().Sub(attacker.Position()).Horizontal()
		if away.Length() > math.Epsilon {
			c.Controller.AddHitVelocity(away.Normalize().Scale(attacker.data.Knockback))
		}
	}

	if c.Stats.TakeDamage(damage) {
		c.die()
		return true
	}
	c.playSound(c.data.Sounds.Pain)
	if c.isPlayer {
		c.setAction(ActionHit, true)
	}
	return true
}

func (c *Character) die() {
	c.SetMoveStop()
	c.running = false
	c.setAction(ActionDead, false)
	c.playSound(c.data.Sounds.Dead)
	c.log.Info("character died", zap.Bool("player", c.isPlayer))
}

func (c *Character) applyFallDamage(distance float32) {
	if c.data.FallDamage <= 0 || distance <= c.data.FallDamageHeight {
		return
	}
	damage := int((distance - c.data.FallDamageHeight) * c.data.FallDamage)
	if damage > 0 {
		c.ApplyDamage(damage, nil, c.Position())
	}
}

// Reset respawns the character at its spawn point with full stats.
func (c *Character) Reset() {
	c.moveDir = math.Vec3{}
	c.faceDir = math.Vec3{}
	c.running = false
	c.Controller.Reset(c.spawn, c.spawnRotation)
	c.setAction(ActionNone, false)
	c.setMove(MoveIdle)
	c.Stats.Reset(c.data.MaxHP, c.maxStamina())
	c.anim.AttackEvent = false
	c.syncRenderObject()
}

// Render object

func (c *Character) object() *scene.Object {
	if c.store == nil {
		return nil
	}
	obj, _ := c.store.Object(c.handle)
	return obj
}

func (c *Character) playInfo(layer anim.Layer) anim.PlayInfo {
	if obj := c.object(); obj != nil {
		return obj.Animation.PlayInfo(layer)
	}
	return anim.PlayInfo{}
}

func (c *Character) setAnimation(clip string, restart bool, layer anim.Layer) {
	if obj := c.object(); obj != nil {
		obj.Animation.SetAnimation(clip, anim.PlayArgs{Force: restart}, layer)
	}
}

func (c *Character) setAnimationNone(layer anim.Layer) {
	if obj := c.object(); obj != nil {
		obj.Animation.SetAnimationNone(layer)
	}
}

func (c *Character) syncRenderObject() {
	if obj := c.object(); obj != nil {
		obj.SetTransform(c.Controller.Position, c.Controller.Rotation, c.Controller.Scale)
	}
}

// Destroy releases the render object.
func (c *Character) Destroy() {
	if c.store != nil {
		if err := c.store.Destroy(c.handle); err != nil {
			c.log.Debug("destroy render object", zap.Error(err))
		}
	}
}

func (c *Character) playSound(name string) {
	if name != "" {
		c.effects.PlaySound(name)
	}
}

func (c *Character) playSoundBank(bank string) {
	if bank != "" {
		c.effects.PlaySoundBank(bank, audio.LoopNone)
	}
}

// PlaySound plays a named cue, used by behaviors for growls.
func (c *Character) PlaySound(name string) {
	c.playSound(name)
}
