package character

import (
	"github.com/ubuntunux/stoneage/internal/engine/audio"
	"github.com/ubuntunux/stoneage/pkg/math"
)

//go:generate mockgen -destination=mock/mock_effects.go -package=charactermock github.com/ubuntunux/stoneage/internal/game/character Effects

// Effects receives the fire-and-forget audio and visual cues a character
// emits.
type Effects interface {
	PlaySound(name string)
	PlaySoundBank(bank string, mode audio.LoopMode)
	SpawnEffect(name string, pos math.Vec3)
}

type nopEffects struct{}

func (nopEffects) PlaySound(string)                    {}
func (nopEffects) PlaySoundBank(string, audio.LoopMode) {}
func (nopEffects) SpawnEffect(string, math.Vec3)        {}
