package character

import (
	"go.uber.org/zap"

	"github.com/ubuntunux/stoneage/pkg/math"
)

// Weapon is a weapon held by a character.
type Weapon struct {
	Data      *WeaponData
	Transform math.Mat4 // world transform, refreshed every frame
}

// Weapon returns the attached weapon or nil.
func (c *Character) Weapon() *Weapon { return c.weapon }

// AttachWeapon gives the character a weapon. Attaching a second weapon is
// a programming error and panics.
func (c *Character) AttachWeapon(data *WeaponData) {
	if c.weapon != nil {
		panic("character: " + c.data.Name + " already holds weapon " + c.weapon.Data.Name)
	}
	c.weapon = &Weapon{Data: data, Transform: math.Identity()}
	c.updateWeapon()
	c.log.Debug("weapon attached", zap.String("weapon", data.Name))
}

// DetachWeapon removes the weapon, if any.
func (c *Character) DetachWeapon() {
	c.weapon = nil
}

func (c *Character) updateWeapon() {
	if c.weapon == nil {
		return
	}
	socket := c.weapon.Data.Socket
	if socket == "" {
		socket = c.data.WeaponSocket
	}
	offset := c.weapon.Data.Offset
	local := math.Translate(offset.X, offset.Y, offset.Z)

	obj := c.object()
	if obj == nil {
		c.weapon.Transform = math.Compose(c.Controller.Position, c.Controller.Rotation, c.Controller.Scale).Mul(local)
		return
	}
	m, ok := obj.SocketTransform(socket)
	if !ok {
		m = obj.Transform()
	}
	c.weapon.Transform = m.Mul(local)
}
