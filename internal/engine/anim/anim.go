// Package anim provides clip playback clocks for layered character animation.
// It only tracks time; skinning and rendering live elsewhere.
package anim

import (
	"go.uber.org/zap"

	"github.com/ubuntunux/stoneage/internal/logger"
)

// Layer selects an animation layer on a render object.
type Layer int

// Layers: the base movement layer and the overlay action layer.
const (
	LayerBase Layer = iota
	LayerAction
	LayerCount
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerBase:
		return "base"
	case LayerAction:
		return "action"
	default:
		return "unknown"
	}
}

// Clip describes an animation clip.
type Clip struct {
	Name     string  `yaml:"name"`
	Duration float32 `yaml:"duration"` // seconds
	Loop     bool    `yaml:"loop"`
}

// Library holds the clips available to render objects.
type Library struct {
	clips map[string]Clip
}

// NewLibrary creates a library from clips.
func NewLibrary(clips ...Clip) *Library {
	l := &Library{clips: make(map[string]Clip, len(clips))}
	for _, c := range clips {
		l.Add(c)
	}
	return l
}

// Add registers or replaces a clip.
func (l *Library) Add(c Clip) {
	l.clips[c.Name] = c
}

// Clip looks up a clip by name.
func (l *Library) Clip(name string) (Clip, bool) {
	if l == nil {
		return Clip{}, false
	}
	c, ok := l.clips[name]
	return c, ok
}

// PlayArgs controls how SetAnimation starts a clip.
type PlayArgs struct {
	Speed float32 // playback rate, 0 means 1
	Force bool    // restart even when the clip is already playing
}

// PlayInfo is a snapshot of a layer's play head.
type PlayInfo struct {
	Clip     string
	Duration float32
	Loop     bool
	Time     float32 // unwrapped seconds since start
	PrevTime float32 // Time before the last Update
	Ended    bool
}

// Playing reports whether a clip is set on the layer.
func (p PlayInfo) Playing() bool {
	return p.Clip != ""
}

// ElapsedRatio returns how far through the clip the play head is, in [0, 1].
func (p PlayInfo) ElapsedRatio() float32 {
	if p.Duration <= 0 {
		return 1
	}
	if p.Loop {
		cycles := int(p.Time / p.Duration)
		return (p.Time - float32(cycles)*p.Duration) / p.Duration
	}
	return min(p.Time/p.Duration, 1)
}

// IsAnimationEnd reports whether a non-looping clip has played to the end.
func (p PlayInfo) IsAnimationEnd() bool {
	return p.Ended
}

// CheckAnimationEventTime reports whether the play head crossed the
// normalized time t during the last Update. Looping clips fire once per cycle.
// An event at 0 fires on the first Update after the clip starts.
func (p PlayInfo) CheckAnimationEventTime(t float32) bool {
	if !p.Playing() || p.Time <= p.PrevTime {
		return false
	}
	event := t * p.Duration
	crossed := func(at float32) bool {
		return at > p.PrevTime || (at == 0 && p.PrevTime == 0)
	}
	if !p.Loop {
		return crossed(event) && event <= p.Time
	}
	if p.Duration <= 0 {
		return false
	}
	// First cycle boundary at or after PrevTime.
	k := float32(int(p.PrevTime / p.Duration))
	for at := k*p.Duration + event; at <= p.Time; at += p.Duration {
		if crossed(at) {
			return true
		}
	}
	return false
}

type track struct {
	clip     Clip
	speed    float32
	time     float32
	prevTime float32
	ended    bool
}

// Player plays one clip per layer.
type Player struct {
	library *Library
	tracks  [LayerCount]*track
}

// NewPlayer creates a player reading clips from library.
func NewPlayer(library *Library) *Player {
	return &Player{library: library}
}

// SetAnimation starts clip on layer. Setting the clip that is already
// playing is ignored unless args.Force is set. Unknown clips clear the layer.
func (p *Player) SetAnimation(name string, args PlayArgs, layer Layer) {
	if layer < 0 || layer >= LayerCount {
		return
	}
	if cur := p.tracks[layer]; cur != nil && cur.clip.Name == name && !args.Force {
		return
	}
	clip, ok := p.library.Clip(name)
	if !ok {
		logger.Named("anim").Debug("unknown clip", zap.String("clip", name), zap.Stringer("layer", layer))
		p.tracks[layer] = nil
		return
	}
	speed := args.Speed
	if speed <= 0 {
		speed = 1
	}
	p.tracks[layer] = &track{clip: clip, speed: speed}
}

// SetAnimationNone clears layer.
func (p *Player) SetAnimationNone(layer Layer) {
	if layer < 0 || layer >= LayerCount {
		return
	}
	p.tracks[layer] = nil
}

// PlayInfo returns the play head of layer. An empty layer reports a zero PlayInfo.
func (p *Player) PlayInfo(layer Layer) PlayInfo {
	if layer < 0 || layer >= LayerCount || p.tracks[layer] == nil {
		return PlayInfo{}
	}
	t := p.tracks[layer]
	return PlayInfo{
		Clip:     t.clip.Name,
		Duration: t.clip.Duration,
		Loop:     t.clip.Loop,
		Time:     t.time,
		PrevTime: t.prevTime,
		Ended:    t.ended,
	}
}

// Update advances every layer by dt seconds.
func (p *Player) Update(dt float32) {
	for _, t := range p.tracks {
		if t == nil {
			continue
		}
		t.prevTime = t.time
		if t.ended {
			continue
		}
		t.time += dt * t.speed
		if !t.clip.Loop && t.time >= t.clip.Duration {
			t.time = t.clip.Duration
			t.ended = true
		}
	}
}
