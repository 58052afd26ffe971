package world

import (
	"github.com/ubuntunux/stoneage/internal/engine/audio"
	"github.com/ubuntunux/stoneage/internal/engine/scene"
	"github.com/ubuntunux/stoneage/pkg/math"
)

// Effects routes character cues to the audio manager and the scene's
// visual effects. Either side may be nil.
type Effects struct {
	Audio *audio.Manager
	Store *scene.Store
}

// PlaySound implements character.Effects.
func (e *Effects) PlaySound(name string) {
	if e.Audio != nil {
		e.Audio.PlaySound(name)
	}
}

// PlaySoundBank implements character.Effects.
func (e *Effects) PlaySoundBank(bank string, mode audio.LoopMode) {
	if e.Audio != nil {
		e.Audio.PlaySoundBank(bank, mode)
	}
}

// SpawnEffect implements character.Effects.
func (e *Effects) SpawnEffect(name string, pos math.Vec3) {
	if e.Store != nil {
		e.Store.SpawnEffect(name, pos)
	}
}
