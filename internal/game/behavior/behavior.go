// Package behavior implements the NPC behavior state machine. A Machine
// drives one character through Idle, Move, Chase and Attack using the
// character's intent setters.
package behavior

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"
	"go.uber.org/zap"

	"github.com/ubuntunux/stoneage/internal/game/character"
	"github.com/ubuntunux/stoneage/internal/logger"
	"github.com/ubuntunux/stoneage/pkg/math"
)

// State is a behavior state.
type State int

const (
	StateNone State = iota
	StateIdle
	StateMove
	StateChase
	StateAttack
)

var stateNames = map[State]string{
	StateNone:   "none",
	StateIdle:   "idle",
	StateMove:   "move",
	StateChase:  "chase",
	StateAttack: "attack",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Range is a closed interval random values are drawn from.
type Range struct {
	Min float32 `yaml:"min"`
	Max float32 `yaml:"max"`
}

// Config tunes one AI archetype.
type Config struct {
	IdleTime       Range   `yaml:"idle_time"`       // seconds
	MoveTime       Range   `yaml:"move_time"`       // seconds
	AttackCooldown Range   `yaml:"attack_cooldown"` // seconds
	RoamRadius     float32 `yaml:"roam_radius"`
	ArrivalRange   float32 `yaml:"arrival_range"`

	// A target is tracked while within TrackingRange horizontally and
	// TrackingHeight vertically. Chasing continues out to ChaseRange.
	TrackingRange  float32 `yaml:"tracking_range"`
	TrackingHeight float32 `yaml:"tracking_height"`
	ChaseRange     float32 `yaml:"chase_range"`

	MovingAttack      bool `yaml:"moving_attack"`
	PowerAttackPerMil int  `yaml:"power_attack_per_mil"` // chance per 1000 of a power attack
}

// DefaultConfig returns a timid roaming archetype.
func DefaultConfig() Config {
	return Config{
		IdleTime:       Range{Min: 2, Max: 5},
		MoveTime:       Range{Min: 3, Max: 6},
		AttackCooldown: Range{Min: 1, Max: 2},
		RoamRadius:     8,
		ArrivalRange:   0.5,
		TrackingRange:  6,
		TrackingHeight: 2,
		ChaseRange:     10,
	}
}

// Machine is the behavior of one NPC. It implements character.Behavior.
type Machine struct {
	config Config
	roller dice.Roller
	log    *zap.Logger

	state  State
	timer  float32
	target math.Vec3
	moved  bool

	enemy *character.Character // tracked target for the current frame
}

// New creates a machine in StateNone. A nil roller uses dice.DefaultRoller.
func New(cfg Config, roller dice.Roller) *Machine {
	if roller == nil {
		roller = dice.DefaultRoller
	}
	return &Machine{
		config: cfg,
		roller: roller,
		log:    logger.Named("behavior"),
	}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Target returns the current roam target point.
func (m *Machine) Target() math.Vec3 { return m.target }

// Timer returns the remaining dwell time of the current state.
func (m *Machine) Timer() float32 { return m.timer }

// SetBehavior switches to s. Switching to the current state does nothing
// unless force is set.
func (m *Machine) SetBehavior(self *character.Character, s State, force bool) {
	if s == m.state && !force {
		return
	}
	m.end(self, m.state)
	m.begin(self, s)
	if s != m.state {
		m.log.Debug("behavior changed",
			zap.Uint64("id", self.ID()),
			zap.Stringer("from", m.state),
			zap.Stringer("to", s))
	}
	m.state = s
}

func (m *Machine) begin(self *character.Character, s State) {
	switch s {
	case StateIdle:
		self.SetMoveStop()
		self.SetRun(false)
		m.timer = m.uniform(m.config.IdleTime)
	case StateMove:
		m.target = m.roamPoint(self.SpawnPoint())
		m.timer = m.uniform(m.config.MoveTime)
		m.moved = false
		self.SetRun(false)
	case StateChase:
		self.SetRun(true)
	case StateAttack:
		if m.enemy != nil {
			self.SetFaceDirection(m.enemy.Position().Sub(self.Position()))
		}
		if !m.config.MovingAttack {
			self.SetMoveStop()
		}
		if m.chance(m.config.PowerAttackPerMil) {
			self.SetActionPowerAttack()
		} else {
			self.SetActionAttack()
		}
		self.PlaySound(self.Data().Sounds.Growl)
		m.timer = m.uniform(m.config.AttackCooldown)
	}
}

func (m *Machine) end(self *character.Character, s State) {
	switch s {
	case StateChase:
		self.SetRun(false)
	case StateMove:
		self.SetMoveStop()
	case StateAttack:
		self.SetFaceDirection(math.Vec3{})
	}
}

// Update implements character.Behavior.
func (m *Machine) Update(self *character.Character, frame character.Frame, dt float32) {
	m.enemy = frame.Player

	switch m.state {
	case StateNone:
		m.SetBehavior(self, StateIdle, false)

	case StateIdle:
		if m.tracking(self, m.config.TrackingRange) {
			m.SetBehavior(self, StateChase, false)
			return
		}
		m.timer -= dt
		if m.timer <= 0 {
			m.SetBehavior(self, StateMove, false)
		}

	case StateMove:
		if m.tracking(self, m.config.TrackingRange) {
			m.SetBehavior(self, StateChase, false)
			return
		}
		m.timer -= dt
		toTarget := m.target.Sub(self.Position()).Horizontal()
		c := self.Controller
		switch {
		case toTarget.Length() <= m.config.ArrivalRange, m.timer <= 0:
			m.SetBehavior(self, StateIdle, false)
		case m.moved && c.OnGround && (c.Blocked || c.Cliff):
			m.SetBehavior(self, StateIdle, false)
		default:
			self.SetMove(toTarget)
			m.moved = true
		}

	case StateChase:
		if !m.tracking(self, m.config.ChaseRange) {
			m.SetBehavior(self, StateIdle, false)
			return
		}
		toEnemy := m.enemy.Position().Sub(self.Position()).Horizontal()
		if toEnemy.Length() <= self.AttackRange(character.ActionAttack) {
			m.SetBehavior(self, StateAttack, false)
			return
		}
		self.SetMove(toEnemy)

	case StateAttack:
		if m.enemy != nil {
			self.SetFaceDirection(m.enemy.Position().Sub(self.Position()))
		}
		m.timer -= dt
		if m.timer > 0 {
			return
		}
		switch {
		case !m.tracking(self, m.config.ChaseRange):
			m.SetBehavior(self, StateIdle, false)
		case m.enemy.Position().HorizontalDistance(self.Position()) <= self.AttackRange(character.ActionAttack):
			m.SetBehavior(self, StateAttack, true)
		default:
			m.SetBehavior(self, StateChase, false)
		}
	}
}

// tracking reports whether the enemy is alive and inside the horizontal
// and vertical bounds.
func (m *Machine) tracking(self *character.Character, horizontal float32) bool {
	e := m.enemy
	if e == nil || e == self || !e.IsAlive() {
		return false
	}
	pos, other := self.Position(), e.Position()
	return pos.HorizontalDistance(other) <= horizontal &&
		math.Abs(pos.Y-other.Y) <= m.config.TrackingHeight
}

// uniform draws from r using a d1000.
func (m *Machine) uniform(r Range) float32 {
	n, err := m.roller.Roll(1000)
	if err != nil {
		m.log.Debug("dice roll failed", zap.Error(err))
		return r.Min
	}
	t := float32(n-1) / 999
	return r.Min + t*(r.Max-r.Min)
}

func (m *Machine) chance(perMil int) bool {
	if perMil <= 0 {
		return false
	}
	n, err := m.roller.Roll(1000)
	return err == nil && n <= perMil
}

// roamPoint picks a random point within RoamRadius of center.
func (m *Machine) roamPoint(center math.Vec3) math.Vec3 {
	yaw := m.uniform(Range{Min: -math.Pi, Max: math.Pi})
	dist := m.uniform(Range{Min: 0, Max: m.config.RoamRadius})
	return center.Add(math.DirectionFromYaw(yaw).Scale(dist))
}
