package keymap

import (
	"math/rand/v2"

	"github.com/kanaforge/kanaforge/pkg/layout"
)

// Cross recombines two parent layouts into two children. The non-special
// slots are shuffled and paired; each pair is, with even odds, exchanged
// wholesale between the children. Children are not guaranteed valid; the
// caller must check MeetRequirements and discard failures. Neither parent
// is modified.
func (m *Keymap) Cross(other *Keymap, rng *rand.Rand) (*Keymap, *Keymap) {
	childA := m.Clone()
	childB := other.Clone()

	crossable := make([]int, 0, layout.SlotCount)
	for i := 0; i < layout.SlotCount; i++ {
		if !layout.IsSpecialSlot(i) {
			crossable = append(crossable, i)
		}
	}
	order := rng.Perm(len(crossable))

	for p := 0; p+1 < len(order); p += 2 {
		if rng.IntN(2) == 0 {
			continue
		}
		i := crossable[order[p]]
		j := crossable[order[p+1]]
		childA.slots[i], childB.slots[i] = childB.slots[i], childA.slots[i]
		childA.slots[j], childB.slots[j] = childB.slots[j], childA.slots[j]
	}
	return childA, childB
}
