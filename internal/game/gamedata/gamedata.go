// Package gamedata loads the YAML game-data document: character types,
// weapons, behavior archetypes, animation clips and the demo scene layout.
package gamedata

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/ubuntunux/stoneage/internal/engine/anim"
	"github.com/ubuntunux/stoneage/internal/engine/collision"
	"github.com/ubuntunux/stoneage/internal/engine/terrain"
	"github.com/ubuntunux/stoneage/internal/game/behavior"
	"github.com/ubuntunux/stoneage/internal/game/character"
	"github.com/ubuntunux/stoneage/pkg/math"
)

// ErrInvalidData wraps every validation failure.
var ErrInvalidData = errors.New("invalid game data")

// Obstacle is a static box placed in the scene.
type Obstacle struct {
	Name  string    `yaml:"name"`
	Min   math.Vec3 `yaml:"min"`
	Max   math.Vec3 `yaml:"max"`
	Usage string    `yaml:"usage"` // interaction tag, empty for plain obstacles
}

// Box returns the collision box for the obstacle.
func (o Obstacle) Box() *collision.Box {
	return &collision.Box{
		Name:  o.Name,
		Box:   collision.NewBoundingBox(o.Min, o.Max),
		Usage: o.Usage,
	}
}

// Spawn places a character of a named type.
type Spawn struct {
	Character string    `yaml:"character"`
	Position  math.Vec3 `yaml:"position"`
	Rotation  math.Vec3 `yaml:"rotation"`
	Player    bool      `yaml:"player"`
}

// Hill is a smooth bump added to the terrain.
type Hill struct {
	Center math.Vec2 `yaml:"center"`
	Radius float32   `yaml:"radius"`
	Height float32   `yaml:"height"`
}

// Terrain describes the heightmap grid.
type Terrain struct {
	Width    int       `yaml:"width"`
	Depth    int       `yaml:"depth"`
	CellSize float32   `yaml:"cell_size"`
	Origin   math.Vec2 `yaml:"origin"`
	Base     float32   `yaml:"base"`
	Hills    []Hill    `yaml:"hills"`
}

// Build samples the terrain description into a heightmap. A zero-sized
// grid yields a flat plane at Base.
func (t Terrain) Build() (character.Terrain, error) {
	if t.Width == 0 && t.Depth == 0 {
		return terrain.Flat(t.Base), nil
	}
	hm, err := terrain.FromFunc(t.Width, t.Depth, t.CellSize, t.Origin, func(x, z float32) float32 {
		h := t.Base
		for _, hill := range t.Hills {
			d := math.Vec2{X: x, Y: z}.Distance(hill.Center)
			if d < hill.Radius {
				// Cosine falloff, flat at the rim.
				h += hill.Height * 0.5 * (1 + math.Cos(math.Pi*d/hill.Radius))
			}
		}
		return h
	})
	if err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}
	return hm, nil
}

// Input actions a script can issue to the player.
const (
	InputMove        = "move"
	InputStop        = "stop"
	InputRun         = "run"
	InputWalk        = "walk"
	InputJump        = "jump"
	InputRoll        = "roll"
	InputAttack      = "attack"
	InputPowerAttack = "power_attack"
)

var inputActions = []string{
	InputMove, InputStop, InputRun, InputWalk, InputJump, InputRoll, InputAttack, InputPowerAttack,
}

// Input is one scripted player command issued at a frame.
type Input struct {
	Frame     uint64    `yaml:"frame"`
	Action    string    `yaml:"action"`
	Direction math.Vec3 `yaml:"direction"`
}

// Library is a loaded game-data document.
type Library struct {
	Clips      []anim.Clip                      `yaml:"clips"`
	Characters map[string]*character.Data       `yaml:"characters"`
	Weapons    map[string]*character.WeaponData `yaml:"weapons"`
	Behaviors  map[string]behavior.Config       `yaml:"behaviors"`
	Terrain    Terrain                          `yaml:"terrain"`
	Obstacles  []Obstacle                       `yaml:"obstacles"`
	Spawns     []Spawn                          `yaml:"spawns"`
	Input      []Input                          `yaml:"input"`

	path string
}

// Load reads and validates a game-data file.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gamedata: read %s: %w", path, err)
	}
	lib, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("gamedata: %s: %w", path, err)
	}
	lib.path = path
	return lib, nil
}

// Parse decodes and validates a game-data document.
func Parse(data []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	lib.normalize()
	if err := lib.Validate(); err != nil {
		return nil, err
	}
	return &lib, nil
}

// Path returns the file the library was loaded from.
func (l *Library) Path() string { return l.path }

// normalize fills names from map keys and default footstep times.
func (l *Library) normalize() {
	for name, d := range l.Characters {
		if d == nil {
			continue
		}
		if d.Name == "" {
			d.Name = name
		}
		if len(d.FootstepTimes) == 0 {
			d.FootstepTimes = character.DefaultFootstepTimes
		}
	}
	for name, w := range l.Weapons {
		if w != nil && w.Name == "" {
			w.Name = name
		}
	}
}

// Validate checks references and value ranges. Every problem is reported,
// joined and wrapped with ErrInvalidData.
func (l *Library) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	clips := make(map[string]bool, len(l.Clips))
	for i, c := range l.Clips {
		switch {
		case c.Name == "":
			fail("clip %d: missing name", i)
		case clips[c.Name]:
			fail("clip %s: duplicate", c.Name)
		case c.Duration <= 0:
			fail("clip %s: duration must be positive", c.Name)
		}
		clips[c.Name] = true
	}

	for _, name := range sortedKeys(l.Characters) {
		d := l.Characters[name]
		if d == nil {
			fail("character %s: empty", name)
			continue
		}
		if d.WalkSpeed <= 0 || d.RunSpeed <= 0 {
			fail("character %s: walk and run speed must be positive", name)
		}
		if d.MaxHP <= 0 {
			fail("character %s: max_hp must be positive", name)
		}
		if d.Size.X <= 0 || d.Size.Y <= 0 || d.Size.Z <= 0 {
			fail("character %s: size must be positive", name)
		}
		for _, t := range []float32{d.AttackEventTime, d.PowerAttackEventTime} {
			if t < 0 || t > 1 {
				fail("character %s: attack event time %v outside [0, 1]", name, t)
			}
		}
		for _, clip := range []string{
			d.Clips.Idle, d.Clips.Walk, d.Clips.Run, d.Clips.Jump, d.Clips.RunningJump,
			d.Clips.Roll, d.Clips.Attack, d.Clips.PowerAttack, d.Clips.Hit, d.Clips.Dead,
		} {
			if clip != "" && !clips[clip] {
				fail("character %s: unknown clip %q", name, clip)
			}
		}
		if d.Behavior != "" {
			if _, ok := l.Behaviors[d.Behavior]; !ok {
				fail("character %s: unknown behavior %q", name, d.Behavior)
			}
		}
		if d.Weapon != "" {
			if _, ok := l.Weapons[d.Weapon]; !ok {
				fail("character %s: unknown weapon %q", name, d.Weapon)
			}
		}
	}

	for _, name := range sortedKeys(l.Behaviors) {
		b := l.Behaviors[name]
		for _, r := range []behavior.Range{b.IdleTime, b.MoveTime, b.AttackCooldown} {
			if r.Min < 0 || r.Max < r.Min {
				fail("behavior %s: bad range [%v, %v]", name, r.Min, r.Max)
			}
		}
		if b.PowerAttackPerMil < 0 || b.PowerAttackPerMil > 1000 {
			fail("behavior %s: power_attack_per_mil outside [0, 1000]", name)
		}
	}

	players := 0
	for i, s := range l.Spawns {
		if _, ok := l.Characters[s.Character]; !ok {
			fail("spawn %d: unknown character %q", i, s.Character)
		}
		if s.Player {
			players++
		}
	}
	if players > 1 {
		fail("spawns: %d players, at most one allowed", players)
	}

	for i, in := range l.Input {
		if !slices.Contains(inputActions, in.Action) {
			fail("input %d: unknown action %q", i, in.Action)
		}
	}

	for i, o := range l.Obstacles {
		if o.Max.X <= o.Min.X || o.Max.Y <= o.Min.Y || o.Max.Z <= o.Min.Z {
			fail("obstacle %d (%s): empty box", i, o.Name)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidData, errors.Join(errs...))
}

// AnimationLibrary builds the clip library.
func (l *Library) AnimationLibrary() *anim.Library {
	return anim.NewLibrary(l.Clips...)
}

// Character implements world.Catalog.
func (l *Library) Character(name string) (*character.Data, bool) {
	d, ok := l.Characters[name]
	return d, ok && d != nil
}

// Weapon implements world.Catalog.
func (l *Library) Weapon(name string) (*character.WeaponData, bool) {
	w, ok := l.Weapons[name]
	return w, ok && w != nil
}

// Behavior implements world.Catalog.
func (l *Library) Behavior(name string) (behavior.Config, bool) {
	b, ok := l.Behaviors[name]
	return b, ok
}

// Summary counts the document's entries.
type Summary struct {
	Clips, Characters, Weapons, Behaviors, Obstacles, Spawns, Inputs int
}

// Summary returns entry counts.
func (l *Library) Summary() Summary {
	return Summary{
		Clips:      len(l.Clips),
		Characters: len(l.Characters),
		Weapons:    len(l.Weapons),
		Behaviors:  len(l.Behaviors),
		Obstacles:  len(l.Obstacles),
		Spawns:     len(l.Spawns),
		Inputs:     len(l.Input),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
