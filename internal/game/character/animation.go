package character

// MoveState is the base animation layer state.
type MoveState int

const (
	MoveNone MoveState = iota
	MoveIdle
	MoveWalk
	MoveRun
	MoveJump
	MoveRunningJump
	MoveRoll
)

var moveStateNames = map[MoveState]string{
	MoveNone:        "none",
	MoveIdle:        "idle",
	MoveWalk:        "walk",
	MoveRun:         "run",
	MoveJump:        "jump",
	MoveRunningJump: "running_jump",
	MoveRoll:        "roll",
}

func (s MoveState) String() string {
	if name, ok := moveStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Airborne reports whether the state is one of the jump states.
func (s MoveState) Airborne() bool {
	return s == MoveJump || s == MoveRunningJump
}

// Grounded reports whether the state is a plain ground locomotion state.
func (s MoveState) Grounded() bool {
	return s == MoveIdle || s == MoveWalk || s == MoveRun
}

// ActionState is the overlay animation layer state.
type ActionState int

const (
	ActionNone ActionState = iota
	ActionAttack
	ActionPowerAttack
	ActionHit
	ActionDead
)

var actionStateNames = map[ActionState]string{
	ActionNone:        "none",
	ActionAttack:      "attack",
	ActionPowerAttack: "power_attack",
	ActionHit:         "hit",
	ActionDead:        "dead",
}

func (s ActionState) String() string {
	if name, ok := actionStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsAttack reports whether the action deals damage.
func (s ActionState) IsAttack() bool {
	return s == ActionAttack || s == ActionPowerAttack
}

// ParseActionState maps a name back to an ActionState.
func ParseActionState(name string) (ActionState, bool) {
	for s, n := range actionStateNames {
		if n == name {
			return s, true
		}
	}
	return ActionNone, false
}

// AnimationState tracks both layers and the one-frame attack event. A layer
// whose current and previous values differ has a transition pending; the
// previous value catches up once the end and begin hooks have run.
type AnimationState struct {
	Move       MoveState
	PrevMove   MoveState
	Action     ActionState
	PrevAction ActionState

	AttackEvent bool        // true only on the frame the attack connects
	AttackKind  ActionState // kind of the attack that raised AttackEvent
}
