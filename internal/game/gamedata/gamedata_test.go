package gamedata

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubuntunux/stoneage/internal/engine/terrain"
	"github.com/ubuntunux/stoneage/pkg/math"
)

const minimalDoc = `
clips:
  - { name: idle, duration: 1, loop: true }
  - { name: walk, duration: 1, loop: true }
characters:
  caveman:
    size: { x: 0.6, y: 1.8, z: 0.6 }
    walk_speed: 2
    run_speed: 5
    max_hp: 10
    clips: { idle: idle, walk: walk, run: walk }
spawns:
  - { character: caveman, player: true }
`

func TestParseMinimal(t *testing.T) {
	lib, err := Parse([]byte(minimalDoc))
	require.NoError(t, err)

	d, ok := lib.Character("caveman")
	require.True(t, ok)
	assert.Equal(t, "caveman", d.Name)
	assert.Equal(t, []float32{0.25, 0.75}, d.FootstepTimes)
	assert.Equal(t, math.Vec3{X: 0.6, Y: 1.8, Z: 0.6}, d.Size)

	_, ok = lib.Character("raptor")
	assert.False(t, ok)

	clip, ok := lib.AnimationLibrary().Clip("walk")
	require.True(t, ok)
	assert.True(t, clip.Loop)
	assert.Equal(t, 1, lib.Summary().Spawns)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	doc := `
clips:
  - { name: idle, duration: 0 }
characters:
  raptor:
    size: { x: 1, y: 1, z: 1 }
    walk_speed: 0
    run_speed: 4
    max_hp: 5
    attack_event_time: 1.5
    behavior: hunter
    clips: { idle: idle, attack: bite }
spawns:
  - { character: mammoth }
input:
  - { frame: 1, action: dance }
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidData))

	msg := err.Error()
	for _, want := range []string{
		"clip idle: duration must be positive",
		"walk and run speed must be positive",
		"attack event time 1.5",
		`unknown clip "bite"`,
		`unknown behavior "hunter"`,
		`unknown character "mammoth"`,
		`unknown action "dance"`,
	} {
		assert.Contains(t, msg, want)
	}
}

func TestValidateSinglePlayer(t *testing.T) {
	doc := minimalDoc + "  - { character: caveman, player: true }\n"
	_, err := Parse([]byte(doc))
	require.ErrorIs(t, err, ErrInvalidData)
	assert.Contains(t, err.Error(), "2 players")
}

func TestParseBadYAML(t *testing.T) {
	_, err := Parse([]byte("characters: [unclosed"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidData))
}

func TestLoadSampleData(t *testing.T) {
	lib, err := Load(filepath.Join("..", "..", "..", "data", "stoneage.yaml"))
	require.NoError(t, err)

	s := lib.Summary()
	assert.Equal(t, 2, s.Characters)
	assert.Equal(t, 3, s.Spawns)
	assert.NotZero(t, s.Inputs)

	raptor, ok := lib.Character("raptor")
	require.True(t, ok)
	cfg, ok := lib.Behavior(raptor.Behavior)
	require.True(t, ok)
	assert.Equal(t, float32(7), cfg.TrackingRange)

	club, ok := lib.Weapon("club")
	require.True(t, ok)
	assert.Equal(t, "club", club.Name)

	ground, err := lib.Terrain.Build()
	require.NoError(t, err)
	assert.InDelta(t, 3, ground.HeightBilinear(math.Vec3{X: 10, Z: 10}), 1e-4)
	assert.InDelta(t, 0, ground.HeightBilinear(math.Vec3{X: 0, Z: -20}), 1e-4)
}

func TestTerrainBuildFlat(t *testing.T) {
	ground, err := Terrain{Base: 2}.Build()
	require.NoError(t, err)
	assert.Equal(t, terrain.Flat(2), ground)
}

func TestObstacleBox(t *testing.T) {
	o := Obstacle{Name: "bed", Min: math.Vec3{}, Max: math.Vec3{X: 1, Y: 1, Z: 1}, Usage: "sleep"}
	b := o.Box()
	assert.Equal(t, "sleep", b.InteractionName())
	assert.Equal(t, math.Vec3{X: 1, Y: 1, Z: 1}, b.Bounds().Max)
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalDoc), 0o644))

	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	changed := strings.Replace(minimalDoc, "max_hp: 10", "max_hp: 25", 1)
	require.NoError(t, os.WriteFile(path, []byte(changed), 0o644))

	select {
	case lib := <-w.Libraries:
		d, ok := lib.Character("caveman")
		require.True(t, ok)
		assert.Equal(t, 25, d.MaxHP)
	case err := <-w.Errors:
		t.Fatalf("reload error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}
}

func TestWatcherReportsInvalidData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalDoc), 0o644))

	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("spawns: [{ character: nobody }]"), 0o644))

	select {
	case err := <-w.Errors:
		assert.ErrorIs(t, err, ErrInvalidData)
	case <-w.Libraries:
		t.Fatal("invalid data was delivered")
	case <-time.After(5 * time.Second):
		t.Fatal("no reload attempt")
	}
}

func TestWatcherCloseClosesChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalDoc), 0o644))

	w, err := NewWatcher(path, 0)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, open := <-w.Libraries
	assert.False(t, open)
	assert.NoError(t, w.Close())
}
