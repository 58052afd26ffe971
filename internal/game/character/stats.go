package character

import "github.com/ubuntunux/stoneage/pkg/math"

// Stats holds health and stamina.
type Stats struct {
	Alive      bool
	HP         int
	MaxHP      int
	Stamina    float32
	MaxStamina float32
	Invincible bool
}

// Reset restores full health and stamina.
func (s *Stats) Reset(maxHP int, maxStamina float32) {
	s.Alive = true
	s.HP = maxHP
	s.MaxHP = maxHP
	s.Stamina = maxStamina
	s.MaxStamina = maxStamina
	s.Invincible = false
}

// AddStamina changes stamina by v, clamped to [0, MaxStamina].
func (s *Stats) AddStamina(v float32) {
	s.Stamina = math.Clamp(s.Stamina+v, 0, s.MaxStamina)
}

// HasStamina reports whether at least cost stamina is left.
func (s *Stats) HasStamina(cost float32) bool {
	return s.Stamina >= cost
}

// TakeDamage subtracts damage and reports whether it was lethal.
func (s *Stats) TakeDamage(damage int) bool {
	s.HP -= damage
	if s.HP <= 0 {
		s.HP = 0
		s.Alive = false
		return true
	}
	return false
}
