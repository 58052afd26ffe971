// Package character implements the simulated actors: the per-frame movement
// controller, the two-layer animation/action state machine, stats and combat.
package character

import (
	"github.com/ubuntunux/stoneage/pkg/math"
)

// Clips names the animation clips a character type plays.
type Clips struct {
	Idle        string `yaml:"idle"`
	Walk        string `yaml:"walk"`
	Run         string `yaml:"run"`
	Jump        string `yaml:"jump"`
	RunningJump string `yaml:"running_jump"`
	Roll        string `yaml:"roll"`
	Attack      string `yaml:"attack"`
	PowerAttack string `yaml:"power_attack"`
	Hit         string `yaml:"hit"`
	Dead        string `yaml:"dead"`
}

// Sounds names the audio cues a character type plays. Footstep is a bank.
type Sounds struct {
	Footstep string `yaml:"footstep"`
	Jump     string `yaml:"jump"`
	Attack   string `yaml:"attack"`
	Hit      string `yaml:"hit"`
	Pain     string `yaml:"pain"`
	Dead     string `yaml:"dead"`
	Growl    string `yaml:"growl"`
}

// Data is the immutable per-type configuration shared by every character of
// that type.
type Data struct {
	Name  string `yaml:"name"`
	Model string `yaml:"model"`

	// Body box size; the box bottom sits at the character position.
	Size math.Vec3 `yaml:"size"`

	// Movement
	WalkSpeed        float32 `yaml:"walk_speed"`
	RunSpeed         float32 `yaml:"run_speed"`
	RollSpeed        float32 `yaml:"roll_speed"`
	JumpSpeed        float32 `yaml:"jump_speed"`
	RunningJumpSpeed float32 `yaml:"running_jump_speed"`

	// Combat
	MaxHP                int     `yaml:"max_hp"`
	AttackDamage         int     `yaml:"attack_damage"`
	PowerAttackDamage    int     `yaml:"power_attack_damage"`
	AttackRange          float32 `yaml:"attack_range"`
	PowerAttackRange     float32 `yaml:"power_attack_range"`
	AttackEventTime      float32 `yaml:"attack_event_time"`       // normalized clip time
	PowerAttackEventTime float32 `yaml:"power_attack_event_time"` // normalized clip time
	Knockback            float32 `yaml:"knockback"`               // speed applied to targets
	HitEffect            string  `yaml:"hit_effect"`

	// Landing more than FallDamageHeight below the fall apex costs
	// FallDamage HP per unit of extra height. Zero disables fall damage.
	FallDamageHeight float32 `yaml:"fall_damage_height"`
	FallDamage       float32 `yaml:"fall_damage"`

	// Normalized walk/run clip times that trigger a footstep.
	FootstepTimes []float32 `yaml:"footstep_times"`

	Clips  Clips  `yaml:"clips"`
	Sounds Sounds `yaml:"sounds"`

	// Attachment sockets as offsets from the character origin.
	Sockets      map[string]math.Vec3 `yaml:"sockets"`
	WeaponSocket string               `yaml:"weapon_socket"`

	// Names resolved by the world when spawning: the NPC behavior archetype
	// and the weapon attached at spawn. Both are optional.
	Behavior string `yaml:"behavior"`
	Weapon   string `yaml:"weapon"`
}

// WeaponData is the static description of a weapon.
type WeaponData struct {
	Name   string    `yaml:"name"`
	Model  string    `yaml:"model"`
	Damage int       `yaml:"damage"`
	Range  float32   `yaml:"range"` // added to the wielder's attack range
	Socket string    `yaml:"socket"`
	Offset math.Vec3 `yaml:"offset"`
}

// DefaultFootstepTimes are used when a type lists none.
var DefaultFootstepTimes = []float32{0.25, 0.75}
