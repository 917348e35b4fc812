package keymap

import "github.com/kanaforge/kanaforge/pkg/kana"

// KeyDef is the character payload of one key slot: an unshift side and a
// shift side, either of which may be empty. The voiced and semi-voiced
// planes are derived from whichever side defines them; the conflict rule in
// kana.CharDef guarantees at most one side does.
type KeyDef struct {
	unshift    kana.CharDef
	shifted    kana.CharDef
	hasUnshift bool
	hasShifted bool
}

func unshiftFrom(d kana.CharDef) KeyDef {
	return KeyDef{unshift: d, hasUnshift: true}
}

func shiftedFrom(d kana.CharDef) KeyDef {
	return KeyDef{shifted: d, hasShifted: true}
}

// newKeyDef binds both sides at once, failing when they conflict.
func newKeyDef(unshift, shifted kana.CharDef) (KeyDef, bool) {
	if unshift.Conflicts(shifted) {
		return KeyDef{}, false
	}
	return KeyDef{unshift: unshift, shifted: shifted, hasUnshift: true, hasShifted: true}, true
}

// Flip exchanges the unshift and shift roles.
func (k KeyDef) Flip() KeyDef {
	return KeyDef{
		unshift:    k.shifted,
		shifted:    k.unshift,
		hasUnshift: k.hasShifted,
		hasShifted: k.hasUnshift,
	}
}

// Unshift returns the character sent by a bare press.
func (k KeyDef) Unshift() (rune, bool) {
	if !k.hasUnshift {
		return 0, false
	}
	return k.unshift.Unshift(), true
}

// Shifted returns the character sent by a shifted press.
func (k KeyDef) Shifted() (rune, bool) {
	if !k.hasShifted {
		return 0, false
	}
	return k.shifted.Unshift(), true
}

// Turbid returns the character sent by a voiced-modifier chord, taken from
// whichever side defines a voiced variant.
func (k KeyDef) Turbid() (rune, bool) {
	if k.hasUnshift {
		if r, ok := k.unshift.Turbid(); ok {
			return r, true
		}
	}
	if k.hasShifted {
		if r, ok := k.shifted.Turbid(); ok {
			return r, true
		}
	}
	return 0, false
}

// Semiturbid returns the character sent by a semi-voiced-modifier chord.
func (k KeyDef) Semiturbid() (rune, bool) {
	if k.hasUnshift {
		if r, ok := k.unshift.Semiturbid(); ok {
			return r, true
		}
	}
	if k.hasShifted {
		if r, ok := k.shifted.Semiturbid(); ok {
			return r, true
		}
	}
	return 0, false
}

// Chars returns every character this slot can produce.
func (k KeyDef) Chars() []rune {
	out := make([]rune, 0, 4)
	if r, ok := k.Unshift(); ok {
		out = append(out, r)
	}
	if r, ok := k.Shifted(); ok {
		out = append(out, r)
	}
	if r, ok := k.Turbid(); ok {
		out = append(out, r)
	}
	if r, ok := k.Semiturbid(); ok {
		out = append(out, r)
	}
	return out
}

// conflicts reports whether d cannot be merged into this slot: the slot is
// already full, the voiced or semi-voiced plane is already taken, or d is
// already bound here.
func (k KeyDef) conflicts(d kana.CharDef) bool {
	if k.hasUnshift && k.hasShifted {
		return true
	}
	if _, ok := k.Turbid(); ok {
		if _, dok := d.Turbid(); dok {
			return true
		}
	}
	if _, ok := k.Semiturbid(); ok {
		if _, dok := d.Semiturbid(); dok {
			return true
		}
	}
	if k.hasUnshift && k.unshift == d {
		return true
	}
	if k.hasShifted && k.shifted == d {
		return true
	}
	return false
}

// Merge binds d onto the empty side of the slot. It fails when the slot is
// full or the merge would conflict.
func (k KeyDef) Merge(d kana.CharDef) (KeyDef, bool) {
	if k.conflicts(d) {
		return KeyDef{}, false
	}
	switch {
	case k.hasUnshift && !k.hasShifted:
		return KeyDef{unshift: k.unshift, shifted: d, hasUnshift: true, hasShifted: true}, true
	case !k.hasUnshift && k.hasShifted:
		return KeyDef{unshift: d, shifted: k.shifted, hasUnshift: true, hasShifted: true}, true
	case !k.hasUnshift && !k.hasShifted:
		return unshiftFrom(d), true
	default:
		return KeyDef{}, false
	}
}

// withUnshift rebinds the unshift side, keeping the shift side. A nil def
// clears the side. Fails when the result would conflict internally.
func (k KeyDef) withUnshift(d *kana.CharDef, present bool) (KeyDef, bool) {
	next := KeyDef{shifted: k.shifted, hasShifted: k.hasShifted}
	if !present {
		return next, true
	}
	if next.hasShifted {
		return newKeyDef(*d, next.shifted)
	}
	return unshiftFrom(*d), true
}

// withShifted rebinds the shift side, keeping the unshift side.
func (k KeyDef) withShifted(d *kana.CharDef, present bool) (KeyDef, bool) {
	next := KeyDef{unshift: k.unshift, hasUnshift: k.hasUnshift}
	if !present {
		return next, true
	}
	if next.hasUnshift {
		return newKeyDef(next.unshift, *d)
	}
	return shiftedFrom(*d), true
}

// swapUnshift exchanges the unshift sides of two slots, failing when either
// recomputed slot conflicts internally.
func swapUnshift(a, b KeyDef) (KeyDef, KeyDef, bool) {
	newA, okA := a.withUnshift(&b.unshift, b.hasUnshift)
	newB, okB := b.withUnshift(&a.unshift, a.hasUnshift)
	if !okA || !okB {
		return KeyDef{}, KeyDef{}, false
	}
	return newA, newB, true
}

// swapShifted exchanges the shift sides of two slots.
func swapShifted(a, b KeyDef) (KeyDef, KeyDef, bool) {
	newA, okA := a.withShifted(&b.shifted, b.hasShifted)
	newB, okB := b.withShifted(&a.shifted, a.hasShifted)
	if !okA || !okB {
		return KeyDef{}, KeyDef{}, false
	}
	return newA, newB, true
}
