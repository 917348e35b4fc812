package keymap

import (
	"errors"
	"math/rand/v2"

	"github.com/kanaforge/kanaforge/pkg/layout"
)

// maxMutateAttempts bounds how many times a mutation is retried from
// scratch before Mutate gives up.
const maxMutateAttempts = 100

// ErrRetryExhausted is returned when no structurally valid mutation was
// found within the attempt budget.
var ErrRetryExhausted = errors.New("keymap: mutation retries exhausted")

// mutationOps are the local-edit operators. Each edits the receiver in
// place and reports whether it found a structurally compatible edit within
// its draw budget; it does not guarantee the whole layout stays valid.
var mutationOps = []func(*Keymap, *rand.Rand) bool{
	(*Keymap).swapUnshiftBetweenSlots,
	(*Keymap).swapShiftedBetweenSlots,
	(*Keymap).flipSlot,
	(*Keymap).swapShiftOfShiftSlot,
	(*Keymap).swapShiftAndUnshift,
}

// Mutate applies one operator chosen uniformly at random to a copy of the
// layout. A result failing MeetRequirements is discarded and the whole
// attempt restarts with a fresh operator and fresh targets. The receiver is
// never modified.
func (m *Keymap) Mutate(rng *rand.Rand) (*Keymap, error) {
	for attempt := 0; attempt < maxMutateAttempts; attempt++ {
		next := m.Clone()
		op := mutationOps[rng.IntN(len(mutationOps))]
		if !op(next, rng) {
			continue
		}
		if !next.MeetRequirements() {
			continue
		}
		return next, nil
	}
	return nil, ErrRetryExhausted
}

func isShiftSlot(i int) bool {
	return i == layout.LeftShiftIndex || i == layout.RightShiftIndex
}

// swapUnshiftBetweenSlots exchanges the unshift characters of two random
// slots.
func (m *Keymap) swapUnshiftBetweenSlots(rng *rand.Rand) bool {
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		i := rng.IntN(layout.SlotCount)
		j := rng.IntN(layout.SlotCount)
		if i == j || !m.slots[i].assigned || !m.slots[j].assigned {
			continue
		}
		a, b, ok := swapUnshift(m.slots[i].def, m.slots[j].def)
		if !ok {
			continue
		}
		m.slots[i].def = a
		m.slots[j].def = b
		return true
	}
	return false
}

// swapShiftedBetweenSlots exchanges the shift characters of two random
// slots, excluding the shift slots themselves.
func (m *Keymap) swapShiftedBetweenSlots(rng *rand.Rand) bool {
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		i := rng.IntN(layout.SlotCount)
		j := rng.IntN(layout.SlotCount)
		if i == j || isShiftSlot(i) || isShiftSlot(j) {
			continue
		}
		if !m.slots[i].assigned || !m.slots[j].assigned {
			continue
		}
		a, b, ok := swapShifted(m.slots[i].def, m.slots[j].def)
		if !ok {
			continue
		}
		m.slots[i].def = a
		m.slots[j].def = b
		return true
	}
	return false
}

// flipSlot exchanges a slot's unshift and shift roles. Flipping one shift
// slot flips the other too, keeping the shared shift character on the same
// side of both.
func (m *Keymap) flipSlot(rng *rand.Rand) bool {
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		i := rng.IntN(layout.SlotCount)
		if !m.slots[i].assigned {
			continue
		}
		m.slots[i].def = m.slots[i].def.Flip()
		switch i {
		case layout.LeftShiftIndex:
			m.slots[layout.RightShiftIndex].def = m.slots[layout.RightShiftIndex].def.Flip()
		case layout.RightShiftIndex:
			m.slots[layout.LeftShiftIndex].def = m.slots[layout.LeftShiftIndex].def.Flip()
		}
		return true
	}
	return false
}

// swapShiftOfShiftSlot exchanges the shift character of a random non-shift
// slot with the character shared by both shift slots, rebinding both shift
// slots to keep them identical.
func (m *Keymap) swapShiftOfShiftSlot(rng *rand.Rand) bool {
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		i := rng.IntN(layout.SlotCount)
		if isShiftSlot(i) || !m.slots[i].assigned {
			continue
		}
		slot := m.slots[i].def
		newSlot, newLeft, okL := swapShifted(slot, m.slots[layout.LeftShiftIndex].def)
		_, newRight, okR := swapShifted(slot, m.slots[layout.RightShiftIndex].def)
		if !okL || !okR {
			continue
		}
		m.slots[i].def = newSlot
		m.slots[layout.LeftShiftIndex].def = newLeft
		m.slots[layout.RightShiftIndex].def = newRight
		return true
	}
	return false
}

// swapShiftAndUnshift flips one random non-shift slot, then exchanges its
// shift character with another non-shift slot's.
func (m *Keymap) swapShiftAndUnshift(rng *rand.Rand) bool {
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		i := rng.IntN(layout.SlotCount)
		j := rng.IntN(layout.SlotCount)
		if i == j || isShiftSlot(i) || isShiftSlot(j) {
			continue
		}
		if !m.slots[i].assigned || !m.slots[j].assigned {
			continue
		}
		a, b, ok := swapShifted(m.slots[i].def.Flip(), m.slots[j].def)
		if !ok {
			continue
		}
		m.slots[i].def = a
		m.slots[j].def = b
		return true
	}
	return false
}
