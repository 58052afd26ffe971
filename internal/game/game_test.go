package game

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubuntunux/stoneage/internal/config"
	"github.com/ubuntunux/stoneage/internal/game/character"
	"github.com/ubuntunux/stoneage/internal/game/gamedata"
	"github.com/ubuntunux/stoneage/pkg/math"
)

const testDoc = `
clips:
  - { name: idle, duration: 1, loop: true }
  - { name: walk, duration: 1, loop: true }
  - { name: run, duration: 1, loop: true }
  - { name: jump, duration: 1 }
  - { name: attack, duration: 0.5 }
characters:
  caveman:
    size: { x: 0.6, y: 1.8, z: 0.6 }
    walk_speed: 2
    run_speed: 5
    jump_speed: 6
    max_hp: 50
    attack_damage: 10
    attack_range: 1
    attack_event_time: 0.5
    clips: { idle: idle, walk: walk, run: run, jump: jump, attack: attack }
  rabbit:
    size: { x: 0.4, y: 0.4, z: 0.4 }
    walk_speed: 1
    run_speed: 3
    max_hp: 5
    clips: { idle: idle, walk: walk, run: run, jump: jump }
obstacles:
  - { name: rock, min: { x: 10, y: 0, z: 10 }, max: { x: 11, y: 1, z: 11 } }
spawns:
  - { character: caveman, player: true }
  - { character: rabbit, position: { x: -5, y: 0, z: -5 } }
input:
  - { frame: 5, action: move, direction: { x: 1, y: 0, z: 0 } }
`

func testConfig(frames int) *config.Config {
	cfg := config.Default()
	cfg.Simulation.Frames = frames
	cfg.Simulation.StatusEvery = 0
	cfg.Audio.SoundDir = ""
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config) *Game {
	t.Helper()
	lib, err := gamedata.Parse([]byte(testDoc))
	require.NoError(t, err)
	g, err := New(cfg, lib)
	require.NoError(t, err)
	t.Cleanup(g.Close)
	return g
}

func TestNewSpawnsFromData(t *testing.T) {
	g := newTestGame(t, testConfig(0))

	assert.Equal(t, 2, g.World().Count())
	assert.Equal(t, 1, g.static.Len())
	require.NotNil(t, g.World().Player())
	assert.Equal(t, "caveman", g.World().Player().Name())
}

func TestNewFailsOnBadSpawn(t *testing.T) {
	lib := &gamedata.Library{
		Spawns: []gamedata.Spawn{{Character: "ghost"}},
	}
	_, err := New(testConfig(0), lib)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spawn 0")
}

func TestRunStopsAfterFrames(t *testing.T) {
	g := newTestGame(t, testConfig(30))

	require.NoError(t, g.Run(context.Background()))
	assert.Equal(t, uint64(30), g.World().Frames())
}

func TestRunAppliesScript(t *testing.T) {
	g := newTestGame(t, testConfig(65))

	require.NoError(t, g.Run(context.Background()))

	p := g.World().Player()
	assert.True(t, p.IsMoveState(character.MoveWalk))
	assert.InDelta(t, 2, p.Position().X, 0.1)
	assert.True(t, g.script.Done())
}

func TestRunCancelled(t *testing.T) {
	g := newTestGame(t, testConfig(0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, g.World().Frames())
}

func TestRunRealtime(t *testing.T) {
	cfg := testConfig(5)
	cfg.Simulation.Realtime = true
	cfg.Simulation.TickRate = 1000
	g := newTestGame(t, cfg)

	require.NoError(t, g.Run(context.Background()))
	assert.Equal(t, uint64(5), g.World().Frames())
}

func TestScriptOrdersByFrame(t *testing.T) {
	s := NewScript([]gamedata.Input{
		{Frame: 10, Action: gamedata.InputStop},
		{Frame: 2, Action: gamedata.InputRun},
		{Frame: 2, Action: gamedata.InputMove, Direction: math.Vec3{X: 1}},
	})

	assert.Equal(t, 0, s.Apply(1, nil))
	assert.Equal(t, 2, s.Apply(2, nil))
	assert.False(t, s.Done())
	assert.Equal(t, 1, s.Apply(20, nil))
	assert.True(t, s.Done())
}

func TestScriptIssuesIntent(t *testing.T) {
	g := newTestGame(t, testConfig(0))
	p := g.World().Player()
	g.World().Update(1.0 / 60)

	s := NewScript([]gamedata.Input{
		{Frame: 0, Action: gamedata.InputMove, Direction: math.Vec3{Z: 1}},
		{Frame: 0, Action: gamedata.InputRun},
		{Frame: 1, Action: gamedata.InputStop},
		{Frame: 2, Action: gamedata.InputAttack},
	})

	s.Apply(0, p)
	assert.True(t, p.IsMoveState(character.MoveRun))
	s.Apply(1, p)
	assert.True(t, p.IsMoveState(character.MoveIdle))
	s.Apply(2, p)
	assert.True(t, p.IsAction(character.ActionAttack))
}

func TestReloadSwapsLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDoc), 0o644))
	lib, err := gamedata.Load(path)
	require.NoError(t, err)

	cfg := testConfig(0)
	cfg.Data.Watch = true
	g, err := New(cfg, lib)
	require.NoError(t, err)
	defer g.Close()

	changed := strings.Replace(testDoc, "max_hp: 5\n", "max_hp: 7\n", 1)
	require.NoError(t, os.WriteFile(path, []byte(changed), 0o644))

	deadline := time.Now().Add(5 * time.Second)
	for g.Library() == lib && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
		g.applyReloads()
	}
	require.NotSame(t, lib, g.Library())

	rabbit, ok := g.Library().Character("rabbit")
	require.True(t, ok)
	assert.Equal(t, 7, rabbit.MaxHP)
	caveman, ok := g.Library().Character("caveman")
	require.True(t, ok)
	assert.Equal(t, 50, caveman.MaxHP)
}
