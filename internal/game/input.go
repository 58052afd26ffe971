package game

import (
	"slices"

	"github.com/ubuntunux/stoneage/internal/game/character"
	"github.com/ubuntunux/stoneage/internal/game/gamedata"
)

// Script replays scripted player input, one batch per frame.
type Script struct {
	events []gamedata.Input
	next   int
}

// NewScript orders events by frame. Events sharing a frame keep their
// document order.
func NewScript(events []gamedata.Input) *Script {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b gamedata.Input) int {
		switch {
		case a.Frame < b.Frame:
			return -1
		case a.Frame > b.Frame:
			return 1
		}
		return 0
	})
	return &Script{events: sorted}
}

// Done reports whether every event was issued.
func (s *Script) Done() bool { return s.next >= len(s.events) }

// Apply issues the events due at frame to player and returns how many were
// issued. A nil player still consumes the events.
func (s *Script) Apply(frame uint64, player *character.Character) int {
	n := 0
	for s.next < len(s.events) && s.events[s.next].Frame <= frame {
		if player != nil {
			issue(player, s.events[s.next])
		}
		s.next++
		n++
	}
	return n
}

func issue(player *character.Character, in gamedata.Input) {
	switch in.Action {
	case gamedata.InputMove:
		player.SetMove(in.Direction)
	case gamedata.InputStop:
		player.SetMoveStop()
	case gamedata.InputRun:
		player.SetRun(true)
	case gamedata.InputWalk:
		player.SetRun(false)
	case gamedata.InputJump:
		player.SetJump()
	case gamedata.InputRoll:
		player.SetRoll()
	case gamedata.InputAttack, gamedata.InputPowerAttack:
		kind, _ := character.ParseActionState(in.Action)
		if kind == character.ActionPowerAttack {
			player.SetActionPowerAttack()
		} else {
			player.SetActionAttack()
		}
	}
}
