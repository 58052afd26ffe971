// Package world is the character manager. It owns every live character,
// updates them in insertion order and resolves combat once per frame.
package world

import (
	"errors"
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"go.uber.org/zap"

	"github.com/ubuntunux/stoneage/internal/engine/collision"
	"github.com/ubuntunux/stoneage/internal/engine/scene"
	"github.com/ubuntunux/stoneage/internal/game/behavior"
	"github.com/ubuntunux/stoneage/internal/game/character"
	"github.com/ubuntunux/stoneage/internal/logger"
)

var (
	// ErrUnknownCharacter is returned for ids that are not live.
	ErrUnknownCharacter = errors.New("unknown character")
	// ErrUnknownType is returned when spawning a character type the
	// catalog does not define.
	ErrUnknownType = errors.New("unknown character type")
	// ErrPlayerExists is returned when spawning a second player.
	ErrPlayerExists = errors.New("player already exists")
)

// Catalog resolves names used when spawning characters.
type Catalog interface {
	Character(name string) (*character.Data, bool)
	Weapon(name string) (*character.WeaponData, bool)
	Behavior(name string) (behavior.Config, bool)
}

// Config tunes the world.
type Config struct {
	MaxDelta   float32 // seconds; longer frames are clamped
	Controller character.ControllerConfig
	Stamina    character.StaminaConfig
}

// DefaultConfig returns the default world tuning.
func DefaultConfig() Config {
	return Config{
		MaxDelta:   0.1,
		Controller: character.DefaultControllerConfig(),
		Stamina:    character.DefaultStaminaConfig(),
	}
}

// Options are the collaborators a world runs against. Nil fields fall back
// to a flat plane, no static obstacles, silent effects and the default dice
// roller.
type Options struct {
	Store   *scene.Store
	Effects character.Effects
	Terrain character.Terrain
	Static  collision.Query
	Roller  dice.Roller
}

// World owns the characters of one scene.
type World struct {
	config  Config
	catalog Catalog
	opts    Options
	log     *zap.Logger

	characters SlotMap[*character.Character]
	player     ID
	hasPlayer  bool

	frames uint64
}

// New creates an empty world.
func New(cfg Config, catalog Catalog, opts Options) *World {
	if opts.Store == nil {
		opts.Store = scene.New(scene.DefaultConfig(), nil)
	}
	if opts.Roller == nil {
		opts.Roller = dice.DefaultRoller
	}
	return &World{
		config:  cfg,
		catalog: catalog,
		opts:    opts,
		log:     logger.Named("world"),
	}
}

// SetCatalog swaps the catalog used for later spawns. Live characters keep
// their data.
func (w *World) SetCatalog(catalog Catalog) {
	w.catalog = catalog
}

// Store returns the render object store.
func (w *World) Store() *scene.Store { return w.opts.Store }

// Frames returns the number of updates run.
func (w *World) Frames() uint64 { return w.frames }

// CreateCharacter spawns a character of type name.
func (w *World) CreateCharacter(name string, info character.CreateInfo, isPlayer bool) (ID, error) {
	if isPlayer && w.hasPlayer {
		return 0, ErrPlayerExists
	}
	if w.catalog == nil {
		return 0, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	data, ok := w.catalog.Character(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}

	var weapon *character.WeaponData
	if data.Weapon != "" {
		if weapon, ok = w.catalog.Weapon(data.Weapon); !ok {
			return 0, fmt.Errorf("character %s: unknown weapon %q", name, data.Weapon)
		}
	}
	var machine *behavior.Machine
	if !isPlayer && data.Behavior != "" {
		cfg, ok := w.catalog.Behavior(data.Behavior)
		if !ok {
			return 0, fmt.Errorf("character %s: unknown behavior %q", name, data.Behavior)
		}
		machine = behavior.New(cfg, w.opts.Roller)
	}

	id := w.characters.Insert(func(id ID) *character.Character {
		return character.New(uint64(id), data, info, isPlayer, character.Options{
			Store:      w.opts.Store,
			Effects:    w.opts.Effects,
			Controller: w.config.Controller,
			Stamina:    w.config.Stamina,
		})
	})
	c, _ := w.characters.Get(id)
	if weapon != nil {
		c.AttachWeapon(weapon)
	}
	if machine != nil {
		c.SetBehavior(machine)
	}
	if isPlayer {
		w.player = id
		w.hasPlayer = true
	}

	w.log.Debug("character created",
		zap.Uint64("id", uint64(id)),
		zap.String("type", name),
		zap.Bool("player", isPlayer))
	return id, nil
}

// Character returns a live character.
func (w *World) Character(id ID) (*character.Character, bool) {
	return w.characters.Get(id)
}

// Player returns the player or nil.
func (w *World) Player() *character.Character {
	if !w.hasPlayer {
		return nil
	}
	c, _ := w.characters.Get(w.player)
	return c
}

// Characters returns the live characters in insertion order. The slice is
// owned by the world and valid until the next mutation.
func (w *World) Characters() []*character.Character {
	return w.characters.Values()
}

// Count returns the number of live characters.
func (w *World) Count() int { return w.characters.Len() }

// Remove destroys a character.
func (w *World) Remove(id ID) error {
	c, ok := w.characters.Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownCharacter, id)
	}
	c.Destroy()
	w.characters.Remove(id)
	if w.hasPlayer && id == w.player {
		w.hasPlayer = false
	}
	return nil
}

// Clear destroys every character.
func (w *World) Clear() {
	for _, c := range w.characters.Values() {
		c.Destroy()
	}
	w.characters.Clear()
	w.hasPlayer = false
}

// Update advances the world by dt seconds: animation clocks, every
// character in insertion order, one combat pass, removal of dead NPCs and
// visual effect lifetimes.
func (w *World) Update(dt float32) {
	if dt <= 0 {
		return
	}
	if w.config.MaxDelta > 0 && dt > w.config.MaxDelta {
		dt = w.config.MaxDelta
	}
	w.frames++

	store := w.opts.Store
	store.AdvanceAnimations(dt)

	player := w.Player()
	for _, c := range w.characters.Values() {
		c.Update(dt, character.Frame{
			Terrain:   w.opts.Terrain,
			Obstacles: &query{static: w.opts.Static, world: w, self: c},
			Player:    player,
		})
	}

	w.resolveCombat(player)
	for _, id := range w.deadNPCs() {
		if err := w.Remove(id); err != nil {
			w.log.Debug("remove dead character", zap.Error(err))
		}
	}

	store.UpdateEffects(dt)
}

// resolveCombat applies the attack events raised this frame.
func (w *World) resolveCombat(player *character.Character) {
	if player == nil {
		return
	}
	for _, c := range w.characters.Values() {
		if c == player {
			continue
		}
		if player.AttackEvent() && c.IsAlive() {
			player.TryHit(c)
		}
		if c.AttackEvent() && c.IsAlive() {
			c.TryHit(player)
		}
	}
}

// deadNPCs returns the NPCs that died this frame, in combat or otherwise.
// The player stays to play its death clip and respawn.
func (w *World) deadNPCs() []ID {
	var dead []ID
	for _, c := range w.characters.Values() {
		if !c.IsPlayer() && !c.IsAlive() {
			dead = append(dead, ID(c.ID()))
		}
	}
	return dead
}
