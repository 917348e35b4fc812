package keymap

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/kanaforge/kanaforge/pkg/kana"
	"github.com/kanaforge/kanaforge/pkg/layout"
)

// maxPlacementAttempts bounds every random-draw loop during generation.
// The catalog fits the slot capacity with one side to spare, so exhaustion
// means the catalog or slot table changed underneath us.
const maxPlacementAttempts = 10000

// ErrUnplaceable is returned when generation cannot place every catalog
// character within the attempt budget.
var ErrUnplaceable = errors.New("keymap: character cannot be placed")

// Generate builds a random layout in three phases: the shared shift
// character first, then the five dual-diacritic characters (the most
// constrained subset), then everything else wherever it fits. The result is
// random, not validated; callers must check MeetRequirements before use.
func Generate(rng *rand.Rand) (*Keymap, error) {
	m := &Keymap{}
	pool := kana.Definitions()

	pool, err := m.assignShifts(rng, pool)
	if err != nil {
		return nil, err
	}
	pool, err = m.assignDualDiacritics(rng, pool)
	if err != nil {
		return nil, err
	}
	if err := m.assignRemaining(rng, pool); err != nil {
		return nil, err
	}
	return m, nil
}

// pickDef removes and returns a random pool entry satisfying ok.
func pickDef(pool []kana.CharDef, rng *rand.Rand, ok func(kana.CharDef) bool) (kana.CharDef, []kana.CharDef, error) {
	candidates := make([]int, 0, len(pool))
	for i, d := range pool {
		if ok(d) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return kana.CharDef{}, pool, fmt.Errorf("pick definition: %w", ErrUnplaceable)
	}
	idx := candidates[rng.IntN(len(candidates))]
	d := pool[idx]
	pool = append(pool[:idx], pool[idx+1:]...)
	return d, pool, nil
}

// assignShifts binds one clear-tone character as the shift side of both
// shift slots and pairs each with a distinct unshift character.
func (m *Keymap) assignShifts(rng *rand.Rand, pool []kana.CharDef) ([]kana.CharDef, error) {
	shiftDef, pool, err := pickDef(pool, rng, kana.CharDef.IsCleartone)
	if err != nil {
		return pool, err
	}
	for _, slot := range []int{layout.LeftShiftIndex, layout.RightShiftIndex} {
		var bound bool
		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			idx := rng.IntN(len(pool))
			def, ok := newKeyDef(pool[idx], shiftDef)
			if !ok {
				continue
			}
			m.slots[slot] = slotAssign{def: def, assigned: true}
			pool = append(pool[:idx], pool[idx+1:]...)
			bound = true
			break
		}
		if !bound {
			return pool, fmt.Errorf("assign shift slot %d: %w", slot, ErrUnplaceable)
		}
	}
	return pool, nil
}

// assignDualDiacritics places the characters carrying both voiced and
// semi-voiced variants, each on its own random non-special slot.
func (m *Keymap) assignDualDiacritics(rng *rand.Rand, pool []kana.CharDef) ([]kana.CharDef, error) {
	isDual := func(d kana.CharDef) bool {
		_, hasTurbid := d.Turbid()
		_, hasSemi := d.Semiturbid()
		return hasTurbid && hasSemi
	}
	for {
		var dual bool
		for _, d := range pool {
			if isDual(d) {
				dual = true
				break
			}
		}
		if !dual {
			return pool, nil
		}
		def, rest, err := pickDef(pool, rng, isDual)
		if err != nil {
			return pool, err
		}
		pool = rest

		var placed bool
		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			idx := rng.IntN(layout.SlotCount)
			if layout.IsSpecialSlot(idx) || m.slots[idx].assigned {
				continue
			}
			if rng.IntN(2) == 0 {
				m.slots[idx] = slotAssign{def: unshiftFrom(def), assigned: true}
			} else {
				m.slots[idx] = slotAssign{def: shiftedFrom(def), assigned: true}
			}
			placed = true
			break
		}
		if !placed {
			return pool, fmt.Errorf("assign %q: %w", def.Unshift(), ErrUnplaceable)
		}
	}
}

// assignRemaining drains the pool into the layout: merge into a half-full
// slot when the draw lands on one and the characters are compatible,
// otherwise open the slot on a random side.
func (m *Keymap) assignRemaining(rng *rand.Rand, pool []kana.CharDef) error {
	for len(pool) > 0 {
		def, rest, err := pickDef(pool, rng, func(kana.CharDef) bool { return true })
		if err != nil {
			return err
		}
		pool = rest

		var placed bool
		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			idx := rng.IntN(layout.SlotCount)
			if m.slots[idx].assigned {
				merged, ok := m.slots[idx].def.Merge(def)
				if !ok {
					continue
				}
				m.slots[idx].def = merged
				placed = true
				break
			}
			if rng.IntN(2) == 0 {
				m.slots[idx] = slotAssign{def: shiftedFrom(def), assigned: true}
			} else {
				m.slots[idx] = slotAssign{def: unshiftFrom(def), assigned: true}
			}
			placed = true
			break
		}
		if !placed {
			return fmt.Errorf("assign %q: %w", def.Unshift(), ErrUnplaceable)
		}
	}
	return nil
}
