package keymap

import (
	"github.com/kanaforge/kanaforge/pkg/kana"
	"github.com/kanaforge/kanaforge/pkg/layout"
)

// MeetRequirements reports whether the layout satisfies every structural
// constraint on modifier sharing and coverage. Callers must never admit a
// failing candidate into a population.
func (m *Keymap) MeetRequirements() bool {
	checks := []func() bool{
		m.shiftsShareChar,
		m.shiftsCleartone,
		m.atMostOneTurbid,
		m.atMostOneSemiturbid,
		m.exclusiveLeftTurbidRightSemiturbid,
		m.exclusiveRightTurbidLeftSemiturbid,
		m.coversAllChars,
	}
	for _, check := range checks {
		if !check() {
			return false
		}
	}
	return true
}

// shiftsShareChar: the two shift slots send the same character when
// shifted.
func (m *Keymap) shiftsShareChar() bool {
	left, lok := m.Slot(layout.LeftShiftIndex)
	right, rok := m.Slot(layout.RightShiftIndex)
	if !lok || !rok {
		return false
	}
	l, lHas := left.Shifted()
	r, rHas := right.Shifted()
	return lHas && rHas && l == r
}

// shiftsCleartone: the shared shift character carries no diacritic
// derivation.
func (m *Keymap) shiftsCleartone() bool {
	for _, idx := range []int{layout.LeftShiftIndex, layout.RightShiftIndex} {
		def, ok := m.Slot(idx)
		if !ok {
			return false
		}
		r, has := def.Shifted()
		if !has {
			return false
		}
		cd, found := kana.Find(r)
		if !found || !cd.IsCleartone() {
			return false
		}
	}
	return true
}

// atMostOneTurbid: of the two voiced-modifier keys, at most one carries a
// voiced derivation, otherwise chording either modifier would be ambiguous.
func (m *Keymap) atMostOneTurbid() bool {
	left, lok := m.Slot(layout.LeftTurbidIndex)
	right, rok := m.Slot(layout.RightTurbidIndex)
	if !lok || !rok {
		return true
	}
	_, lHas := left.Turbid()
	_, rHas := right.Turbid()
	return !(lHas && rHas)
}

func (m *Keymap) atMostOneSemiturbid() bool {
	left, lok := m.Slot(layout.LeftSemiturbidIndex)
	right, rok := m.Slot(layout.RightSemiturbidIndex)
	if !lok || !rok {
		return true
	}
	_, lHas := left.Semiturbid()
	_, rHas := right.Semiturbid()
	return !(lHas && rHas)
}

// exclusiveLeftTurbidRightSemiturbid: when the voiced and semi-voiced
// modifiers are chorded together, the input is only unambiguous if at most
// one of {semi-voiced derivation on the left turbid key, voiced derivation
// on the right semiturbid key} exists.
func (m *Keymap) exclusiveLeftTurbidRightSemiturbid() bool {
	turbidKey, tok := m.Slot(layout.LeftTurbidIndex)
	semiKey, sok := m.Slot(layout.RightSemiturbidIndex)
	if !tok || !sok {
		return true
	}
	_, semiOnTurbid := turbidKey.Semiturbid()
	_, turbidOnSemi := semiKey.Turbid()
	return !(semiOnTurbid && turbidOnSemi)
}

func (m *Keymap) exclusiveRightTurbidLeftSemiturbid() bool {
	turbidKey, tok := m.Slot(layout.RightTurbidIndex)
	semiKey, sok := m.Slot(layout.LeftSemiturbidIndex)
	if !tok || !sok {
		return true
	}
	_, semiOnTurbid := turbidKey.Semiturbid()
	_, turbidOnSemi := semiKey.Turbid()
	return !(semiOnTurbid && turbidOnSemi)
}

// coversAllChars: the union of characters producible across all slots is
// the full catalog.
func (m *Keymap) coversAllChars() bool {
	remaining := make(map[rune]bool, kana.TotalChars())
	for _, r := range kana.AllChars() {
		remaining[r] = true
	}
	for i := range m.slots {
		for _, r := range m.SlotChars(i) {
			delete(remaining, r)
		}
	}
	return len(remaining) == 0
}
