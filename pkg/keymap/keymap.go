// Package keymap holds the layout representation the optimizer searches
// over: 26 key slots on a linearized grid, each carrying up to two
// characters (unshift and shift side) with voiced and semi-voiced planes
// derived from them. Layouts are generated, mutated and crossed as whole
// candidate values; MeetRequirements is the validation boundary and no
// operator repairs a failing candidate.
package keymap

import (
	"github.com/kanaforge/kanaforge/pkg/kana"
	"github.com/kanaforge/kanaforge/pkg/layout"
)

// KeyKind identifies the plane a character is reached through.
type KeyKind int

const (
	KindNormal KeyKind = iota
	KindShift
	KindTurbid
	KindSemiturbid
)

func (k KeyKind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindShift:
		return "shift"
	case KindTurbid:
		return "turbid"
	case KindSemiturbid:
		return "semiturbid"
	}
	return "unknown"
}

// slotAssign is one slot: either unassigned or carrying a KeyDef.
type slotAssign struct {
	def      KeyDef
	assigned bool
}

// Keymap is a full layout candidate.
type Keymap struct {
	slots [layout.SlotCount]slotAssign
}

// Clone returns an independent copy.
func (m *Keymap) Clone() *Keymap {
	out := *m
	return &out
}

// Slot returns the payload of a slot and whether it is assigned.
func (m *Keymap) Slot(i int) (KeyDef, bool) {
	return m.slots[i].def, m.slots[i].assigned
}

// SlotChars returns the characters producible from a slot.
func (m *Keymap) SlotChars(i int) []rune {
	if !m.slots[i].assigned {
		return nil
	}
	return m.slots[i].def.Chars()
}

// Get returns the plane and position through which r is typed. The second
// result is false when no slot produces r.
func (m *Keymap) Get(r rune) (KeyKind, layout.Pos, bool) {
	for i := range m.slots {
		if !m.slots[i].assigned {
			continue
		}
		def := m.slots[i].def
		pos := layout.PositionOf(i)
		if u, ok := def.Unshift(); ok && u == r {
			return KindNormal, pos, true
		}
		if s, ok := def.Shifted(); ok && s == r {
			return KindShift, pos, true
		}
		if t, ok := def.Turbid(); ok && t == r {
			return KindTurbid, pos, true
		}
		if s, ok := def.Semiturbid(); ok && s == r {
			return KindSemiturbid, pos, true
		}
	}
	return KindNormal, layout.Pos{}, false
}

// Press is one typing action: the character key, plus the modifier key held
// simultaneously when the character sits on a shift, voiced or semi-voiced
// plane. The modifier is always pressed by the hand opposite the key.
type Press struct {
	Key      layout.Pos
	Modifier layout.Pos
	Chorded  bool
}

// modifierFor returns the opposite-hand modifier position for a plane.
func modifierFor(kind KeyKind, key layout.Pos) (layout.Pos, bool) {
	right := layout.HandOf(key) == layout.RightHand
	switch kind {
	case KindShift:
		if right {
			return layout.PositionOf(layout.LeftShiftIndex), true
		}
		return layout.PositionOf(layout.RightShiftIndex), true
	case KindTurbid:
		if right {
			return layout.PositionOf(layout.LeftTurbidIndex), true
		}
		return layout.PositionOf(layout.RightTurbidIndex), true
	case KindSemiturbid:
		if right {
			return layout.PositionOf(layout.LeftSemiturbidIndex), true
		}
		return layout.PositionOf(layout.RightSemiturbidIndex), true
	}
	return layout.Pos{}, false
}

// Presses resolves every catalog character to its press, indexed by
// kana.CharID. The second result is false when some character is not
// producible; a layout passing MeetRequirements never hits that.
func (m *Keymap) Presses() ([]Press, bool) {
	all := kana.AllChars()
	out := make([]Press, len(all))
	for i, r := range all {
		kind, pos, ok := m.Get(r)
		if !ok {
			return nil, false
		}
		press := Press{Key: pos}
		if mod, chorded := modifierFor(kind, pos); chorded {
			press.Modifier = mod
			press.Chorded = true
		}
		out[i] = press
	}
	return out, true
}

// ChangedChars returns the identifiers of every character whose plane or
// position differs between the two layouts. It is the sanctioned producer
// of the changed-character set consumed by incremental re-scoring.
func (m *Keymap) ChangedChars(other *Keymap) []kana.CharID {
	var changed []kana.CharID
	for id, r := range kana.AllChars() {
		aKind, aPos, aOK := m.Get(r)
		bKind, bPos, bOK := other.Get(r)
		if aOK != bOK || aKind != bKind || aPos != bPos {
			changed = append(changed, kana.CharID(id))
		}
	}
	return changed
}
