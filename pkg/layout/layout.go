// Package layout describes the physical keyboard the optimizer assigns
// characters onto: a 3×10 grid with four excluded corners, linearized into
// 26 slots, plus the static ergonomic tables (per-position finger load,
// hand and finger assignment, notable two-key transitions) consumed by the
// scoring engine.
package layout

// Pos is a position on the 3×10 grid.
type Pos struct {
	Row int
	Col int
}

// Code packs a position into the 5-bit code used by the scoring table.
// Rows are 0-2 and columns 0-9, so row*10+col always fits in 5 bits. Code 0
// is the excluded corner (0,0) and is reserved as the absent sentinel.
func (p Pos) Code() int { return p.Row*10 + p.Col }

// Hand identifies which hand presses a position.
type Hand int

const (
	LeftHand Hand = iota + 1
	RightHand
)

// HandOf returns the hand responsible for a position. Columns 0-4 belong to
// the left hand.
func HandOf(p Pos) Hand {
	if p.Col <= 4 {
		return LeftHand
	}
	return RightHand
}

// Slot indices of the modifier keys within Positions().
const (
	LeftShiftIndex      = 10
	RightShiftIndex     = 15
	LeftTurbidIndex     = 11
	RightTurbidIndex    = 14
	LeftSemiturbidIndex = 21
	RightSemiturbidIndex = 22
)

// SlotCount is the number of assignable key slots.
const SlotCount = 26

// positions linearizes the grid minus the four excluded positions
// (0,0), (0,9), (2,4) and (2,5), in row-major order.
var positions = [SlotCount]Pos{
	{0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5}, {0, 6}, {0, 7}, {0, 8},
	{1, 0}, {1, 1}, {1, 2}, {1, 3}, {1, 4}, {1, 5}, {1, 6}, {1, 7}, {1, 8}, {1, 9},
	{2, 0}, {2, 1}, {2, 2}, {2, 3}, {2, 6}, {2, 7}, {2, 8}, {2, 9},
}

// qwerty maps each slot to the QWERTY key on the same physical position,
// used when exporting key combinations and rendering layouts.
var qwerty = [SlotCount]rune{
	'w', 'e', 'r', 't', 'y', 'u', 'i', 'o',
	'a', 's', 'd', 'f', 'g', 'h', 'j', 'k', 'l', ';',
	'z', 'x', 'c', 'v', 'm', ',', '.', '/',
}

// Positions returns the 26 assignable positions in slot order.
func Positions() []Pos {
	out := make([]Pos, SlotCount)
	copy(out, positions[:])
	return out
}

// PositionOf returns the grid position of a slot.
func PositionOf(slot int) Pos { return positions[slot] }

// SlotOf returns the slot index at a grid position.
func SlotOf(p Pos) (int, bool) {
	for i, pos := range positions {
		if pos == p {
			return i, true
		}
	}
	return 0, false
}

// QwertyOf returns the QWERTY character on the same physical position as a
// slot.
func QwertyOf(slot int) rune { return qwerty[slot] }

// SpecialSlots returns the six modifier slot indices.
func SpecialSlots() []int {
	return []int{
		LeftShiftIndex, RightShiftIndex,
		LeftTurbidIndex, RightTurbidIndex,
		LeftSemiturbidIndex, RightSemiturbidIndex,
	}
}

// IsSpecialSlot reports whether a slot is one of the six modifier keys.
func IsSpecialSlot(slot int) bool {
	switch slot {
	case LeftShiftIndex, RightShiftIndex,
		LeftTurbidIndex, RightTurbidIndex,
		LeftSemiturbidIndex, RightSemiturbidIndex:
		return true
	}
	return false
}

// TwoKeyOverride is an explicit penalty for one ordered two-position
// transition that the general rules underestimate.
type TwoKeyOverride struct {
	First  Pos
	Second Pos
	Weight uint16
}

// Geometry bundles the immutable ergonomic tables. It is injected into the
// scoring table constructor so the tables have no mutable global lifecycle.
type Geometry struct {
	// FingerWeights is the per-position press effort, indexed [row][col].
	// Home-row index-finger columns are cheapest, outer columns costliest.
	FingerWeights [3][10]uint16

	// HandAssignment and FingerAssignment give the hand (1 = left,
	// 2 = right) and finger (1 = index .. 4 = little) per position.
	HandAssignment   [3][10]uint8
	FingerAssignment [3][10]uint8

	// TwoKeyOverrides are ordered transitions carrying extra penalty.
	TwoKeyOverrides []TwoKeyOverride
}

// Standard returns the geometry of the target keyboard.
func Standard() Geometry {
	return Geometry{
		FingerWeights: [3][10]uint16{
			// (0,0) is unused and doubles as the absent sentinel.
			{0, 30, 20, 50, 1000, 1000, 50, 20, 30, 1000},
			{30, 20, 10, 10, 30, 30, 10, 10, 20, 30},
			{50, 30, 30, 20, 60, 60, 20, 30, 30, 50},
		},
		HandAssignment: [3][10]uint8{
			{1, 1, 1, 1, 1, 2, 2, 2, 2, 2},
			{1, 1, 1, 1, 1, 2, 2, 2, 2, 2},
			{1, 1, 1, 1, 1, 2, 2, 2, 2, 2},
		},
		FingerAssignment: [3][10]uint8{
			{4, 3, 2, 1, 1, 1, 1, 2, 3, 4},
			{4, 3, 2, 1, 1, 1, 1, 2, 3, 4},
			{4, 3, 2, 1, 1, 1, 1, 2, 3, 4},
		},
		TwoKeyOverrides: []TwoKeyOverride{
			// Right hand: index stretch <-> little-finger rows.
			{Pos{2, 5}, Pos{2, 9}, 150},
			{Pos{1, 5}, Pos{2, 9}, 150},
			{Pos{2, 9}, Pos{2, 5}, 150},
			{Pos{2, 9}, Pos{1, 5}, 150},
			{Pos{2, 5}, Pos{1, 9}, 150},
			{Pos{1, 5}, Pos{1, 9}, 90},
			{Pos{1, 9}, Pos{2, 5}, 150},
			{Pos{1, 9}, Pos{1, 5}, 90},
			{Pos{1, 7}, Pos{0, 6}, 90},
			{Pos{0, 8}, Pos{2, 9}, 140},
			// Left hand mirrors.
			{Pos{2, 4}, Pos{2, 0}, 150},
			{Pos{1, 4}, Pos{2, 0}, 150},
			{Pos{2, 0}, Pos{2, 4}, 150},
			{Pos{2, 0}, Pos{1, 4}, 150},
			{Pos{2, 4}, Pos{1, 0}, 150},
			{Pos{1, 4}, Pos{1, 0}, 90},
			{Pos{1, 0}, Pos{2, 4}, 150},
			{Pos{1, 0}, Pos{1, 4}, 90},
			{Pos{1, 2}, Pos{0, 3}, 90},
			{Pos{0, 1}, Pos{2, 0}, 140},
		},
	}
}
