// Package game wires the simulation together and runs the headless
// fixed-step loop.
package game

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ubuntunux/stoneage/internal/config"
	"github.com/ubuntunux/stoneage/internal/engine/audio"
	"github.com/ubuntunux/stoneage/internal/engine/collision"
	"github.com/ubuntunux/stoneage/internal/engine/scene"
	"github.com/ubuntunux/stoneage/internal/game/character"
	"github.com/ubuntunux/stoneage/internal/game/gamedata"
	"github.com/ubuntunux/stoneage/internal/game/world"
	"github.com/ubuntunux/stoneage/internal/logger"
)

// Game is the simulation instance.
type Game struct {
	config *config.Config
	lib    *gamedata.Library
	log    *zap.Logger

	audio   *audio.Manager
	store   *scene.Store
	static  *collision.Index
	world   *world.World
	script  *Script
	watcher *gamedata.Watcher
}

// New creates the simulation from configuration and loaded game data.
func New(cfg *config.Config, lib *gamedata.Library) (*Game, error) {
	log := logger.Named("game")
	log.Info("initializing simulation",
		zap.Int("tick_rate", cfg.Simulation.TickRate),
		zap.Int("frames", cfg.Simulation.Frames),
		zap.String("data", lib.Path()),
	)

	g := &Game{
		config: cfg,
		lib:    lib,
		log:    log,
		audio:  audio.New(),
		static: collision.NewIndex(),
		script: NewScript(lib.Input),
	}
	g.initAudio()

	ground, err := lib.Terrain.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build terrain: %w", err)
	}
	for _, o := range lib.Obstacles {
		g.static.Add(o.Box())
	}

	g.store = scene.New(scene.DefaultConfig(), lib.AnimationLibrary())
	g.world = world.New(world.Config{
		MaxDelta:   float32(cfg.Simulation.MaxDelta.Seconds()),
		Controller: cfg.Controller,
		Stamina:    cfg.Stamina,
	}, lib, world.Options{
		Store:   g.store,
		Effects: &world.Effects{Audio: g.audio, Store: g.store},
		Terrain: ground,
		Static:  g.static,
	})

	for i, s := range lib.Spawns {
		_, err := g.world.CreateCharacter(s.Character, character.CreateInfo{
			Position: s.Position,
			Rotation: s.Rotation,
		}, s.Player)
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("spawn %d: %w", i, err)
		}
	}

	if cfg.Data.Watch && lib.Path() != "" {
		g.watcher, err = gamedata.NewWatcher(lib.Path(), gamedata.DefaultDebounce)
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("failed to watch game data: %w", err)
		}
	}

	log.Info("simulation initialized",
		zap.Int("characters", g.world.Count()),
		zap.Int("obstacles", g.static.Len()),
	)
	return g, nil
}

func (g *Game) initAudio() {
	ac := g.config.Audio
	g.audio.SetMasterVolume(ac.MasterVolume)
	g.audio.SetSFXVolume(ac.SFXVolume)
	g.audio.SetMuted(ac.Muted)

	if ac.SoundDir != "" {
		if _, err := os.Stat(ac.SoundDir); err == nil {
			if err := g.audio.LoadDir(ac.SoundDir); err != nil {
				g.log.Warn("failed to load sounds", zap.String("dir", ac.SoundDir), zap.Error(err))
			}
		}
	}
	if ac.Enabled {
		if err := g.audio.Init(); err != nil {
			g.log.Warn("audio unavailable, continuing silently", zap.Error(err))
		}
	}
}

// World returns the character manager.
func (g *Game) World() *world.World { return g.world }

// Library returns the game data in use for new spawns.
func (g *Game) Library() *gamedata.Library { return g.lib }

// Audio returns the audio manager.
func (g *Game) Audio() *audio.Manager { return g.audio }

// Run steps the simulation until the configured frame count is reached or
// ctx is cancelled. Cancellation returns ctx.Err().
func (g *Game) Run(ctx context.Context) error {
	sim := g.config.Simulation
	step := sim.FrameDelta()
	dt := float32(step.Seconds())

	var tick <-chan time.Time
	if sim.Realtime {
		ticker := time.NewTicker(step)
		defer ticker.Stop()
		tick = ticker.C
	}

	g.log.Info("starting simulation loop", zap.Duration("step", step), zap.Bool("realtime", sim.Realtime))

	for frame := uint64(0); sim.Frames <= 0 || frame < uint64(sim.Frames); frame++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		g.applyReloads()
		g.script.Apply(frame, g.world.Player())
		g.world.Update(dt)

		if sim.StatusEvery > 0 && frame%uint64(sim.StatusEvery) == 0 {
			g.logStatus(frame)
		}
	}

	g.logStatus(g.world.Frames())
	return nil
}

// applyReloads swaps in game data reloaded since the last frame. Live
// characters keep their data; later spawns use the new library.
func (g *Game) applyReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case lib, ok := <-g.watcher.Libraries:
			if !ok {
				g.watcher = nil
				return
			}
			g.lib = lib
			g.world.SetCatalog(lib)
			g.store.SetLibrary(lib.AnimationLibrary())
			g.log.Info("applied reloaded game data", zap.Int("characters", len(lib.Characters)))
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("game data reload failed", zap.Error(err))
		default:
			return
		}
	}
}

func (g *Game) logStatus(frame uint64) {
	fields := []zap.Field{
		zap.Uint64("frame", frame),
		zap.Int("characters", g.world.Count()),
		zap.Int("effects", len(g.store.Effects())),
	}
	if p := g.world.Player(); p != nil {
		a := p.Animation()
		fields = append(fields,
			zap.Float32("x", p.Position().X),
			zap.Float32("y", p.Position().Y),
			zap.Float32("z", p.Position().Z),
			zap.Int("hp", p.Stats.HP),
			zap.Float32("stamina", p.Stats.Stamina),
			zap.Stringer("move", a.Move),
			zap.Stringer("action", a.Action),
		)
	}
	g.log.Info("status", fields...)
}

// Close releases audio and the data watcher.
func (g *Game) Close() {
	g.log.Info("closing simulation")

	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			g.log.Debug("close watcher", zap.Error(err))
		}
		g.watcher = nil
	}
	if g.world != nil {
		g.world.Clear()
	}
	g.audio.Close()
}
