// Package scene provides the render-object store that gameplay drives by handle.
// Objects carry a transform, named attachment sockets and an animation player;
// drawing them is left to whatever renderer consumes the store.
package scene

import (
	"errors"
	"fmt"

	"github.com/ubuntunux/stoneage/internal/engine/anim"
	"github.com/ubuntunux/stoneage/pkg/math"
)

// ErrUnknownHandle is returned when a handle does not name a live object.
var ErrUnknownHandle = errors.New("unknown render object")

// Handle addresses a render object in a Store. The zero handle is never valid.
type Handle uint32

// Config contains store configuration options.
type Config struct {
	EffectLifetime float32 // seconds a spawned visual effect stays alive
}

// DefaultConfig returns a default store configuration.
func DefaultConfig() Config {
	return Config{EffectLifetime: 0.5}
}

// Object is a render object: transform, sockets and animation.
type Object struct {
	Name     string
	Position math.Vec3
	Rotation math.Vec3 // Euler radians: X pitch, Y yaw, Z roll
	Scale    math.Vec3

	Animation *anim.Player

	sockets map[string]math.Vec3 // local offsets
}

// SetTransform updates the object transform.
func (o *Object) SetTransform(position, rotation, scale math.Vec3) {
	o.Position = position
	o.Rotation = rotation
	o.Scale = scale
}

// Transform returns the object's world matrix.
func (o *Object) Transform() math.Mat4 {
	return math.Compose(o.Position, o.Rotation, o.Scale)
}

// SocketTransform returns the world matrix of a named socket.
func (o *Object) SocketTransform(name string) (math.Mat4, bool) {
	offset, ok := o.sockets[name]
	if !ok {
		return math.Mat4{}, false
	}
	return o.Transform().Mul(math.Translate(offset.X, offset.Y, offset.Z)), true
}

// Effect is a short-lived visual effect at a world position.
type Effect struct {
	Name      string
	Position  math.Vec3
	Remaining float32
}

// Store owns render objects and visual effects.
type Store struct {
	config  Config
	library *anim.Library

	objects map[Handle]*Object
	next    Handle
	effects []Effect
}

// New creates a store whose objects play clips from library.
func New(cfg Config, library *anim.Library) *Store {
	return &Store{
		config:  cfg,
		library: library,
		objects: make(map[Handle]*Object),
	}
}

// SetLibrary swaps the clip library used by objects created afterwards.
func (s *Store) SetLibrary(library *anim.Library) {
	s.library = library
}

// Create adds an object with the given sockets and returns its handle.
func (s *Store) Create(name string, sockets map[string]math.Vec3) Handle {
	s.next++
	obj := &Object{
		Name:      name,
		Scale:     math.Vec3{X: 1, Y: 1, Z: 1},
		Animation: anim.NewPlayer(s.library),
		sockets:   make(map[string]math.Vec3, len(sockets)),
	}
	for k, v := range sockets {
		obj.sockets[k] = v
	}
	s.objects[s.next] = obj
	return s.next
}

// Object looks up a live object.
func (s *Store) Object(h Handle) (*Object, bool) {
	obj, ok := s.objects[h]
	return obj, ok
}

// Destroy removes an object.
func (s *Store) Destroy(h Handle) error {
	if _, ok := s.objects[h]; !ok {
		return fmt.Errorf("destroy %d: %w", h, ErrUnknownHandle)
	}
	delete(s.objects, h)
	return nil
}

// Len returns the number of live objects.
func (s *Store) Len() int {
	return len(s.objects)
}

// SpawnEffect starts a visual effect at position.
func (s *Store) SpawnEffect(name string, position math.Vec3) {
	s.effects = append(s.effects, Effect{
		Name:      name,
		Position:  position,
		Remaining: s.config.EffectLifetime,
	})
}

// Effects returns the live visual effects.
func (s *Store) Effects() []Effect {
	return s.effects
}

// AdvanceAnimations steps every object's animation by dt seconds.
func (s *Store) AdvanceAnimations(dt float32) {
	for _, obj := range s.objects {
		obj.Animation.Update(dt)
	}
}

// UpdateEffects ages visual effects and drops expired ones.
func (s *Store) UpdateEffects(dt float32) {
	live := s.effects[:0]
	for _, e := range s.effects {
		e.Remaining -= dt
		if e.Remaining > 0 {
			live = append(live, e)
		}
	}
	s.effects = live
}

// Clear removes every object and effect.
func (s *Store) Clear() {
	s.objects = make(map[Handle]*Object)
	s.effects = nil
}
