package character

// ControllerConfig holds the movement tuning shared by every character.
type ControllerConfig struct {
	Gravity          float32 `yaml:"gravity"`             // units/s^2
	FallingTime      float32 `yaml:"falling_time"`        // airborne seconds before Falling is set
	MaxMovePerFrame  float32 `yaml:"max_move_per_frame"`  // per-axis displacement limit
	SlopeAngle       float32 `yaml:"slope_angle"`         // normals with a smaller Y are steep
	SlopeSpeed       float32 `yaml:"slope_speed"`         // slope slide velocity cap
	SlopeDecay       float32 `yaml:"slope_decay"`         // exponential decay rate while grounded
	HitDecay         float32 `yaml:"hit_decay"`           // exponential knockback decay rate
	RotationSpeed    float32 `yaml:"rotation_speed"`      // radians/s
	CliffHeight      float32 `yaml:"cliff_height"`        // drop tolerated before a cliff is reported
	CliffProbeOffset float32 `yaml:"cliff_probe_offset"`  // probe distance past the leading edge
	CliffProbeDrop   float32 `yaml:"cliff_probe_drop"`    // probe depth below the feet
	StepDownHeight   float32 `yaml:"step_down_height"`    // grounded characters stick to ground this far below
	InteractionReach float32 `yaml:"interaction_reach"`   // range for interaction objects
}

// DefaultControllerConfig returns the stock movement tuning.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		Gravity:          20,
		FallingTime:      0.3,
		MaxMovePerFrame:  1,
		SlopeAngle:       0.7,
		SlopeSpeed:       4,
		SlopeDecay:       4,
		HitDecay:         6,
		RotationSpeed:    10,
		CliffHeight:      1,
		CliffProbeOffset: 0.2,
		CliffProbeDrop:   0.1,
		StepDownHeight:   0.3,
		InteractionReach: 0.5,
	}
}

// StaminaConfig holds the player stamina economy.
type StaminaConfig struct {
	Max         float32 `yaml:"max"`
	Regen       float32 `yaml:"regen"`     // per second
	RunDrain    float32 `yaml:"run_drain"` // per second
	Attack      float32 `yaml:"attack"`
	PowerAttack float32 `yaml:"power_attack"`
	Jump        float32 `yaml:"jump"`
	Roll        float32 `yaml:"roll"`
}

// DefaultStaminaConfig returns the stock stamina economy.
func DefaultStaminaConfig() StaminaConfig {
	return StaminaConfig{
		Max:         100,
		Regen:       15,
		RunDrain:    8,
		Attack:      10,
		PowerAttack: 25,
		Jump:        10,
		Roll:        20,
	}
}
