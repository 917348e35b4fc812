// Package scoring evaluates the ergonomic cost of typing a corpus on a
// candidate layout. All transition rules are precomputed into a flat table
// indexed by a packed 20-bit 4-gram of grid positions, so the hot path is a
// lookup per sliding window; evaluation runs for every corpus conjunction
// of every population member of every generation.
package scoring

import (
	"github.com/kanaforge/kanaforge/pkg/keymap"
	"github.com/kanaforge/kanaforge/pkg/layout"
)

// Rule penalties for position transitions.
const (
	samePositionPenalty     = 150
	sameFingerRowSkip       = 100
	sameHandAndFinger       = 50
	sameHandRowSkip         = 100
	tripleSameFingerRowSkip = 300
	tripleSameHandFinger    = 250
	tripleSameHand          = 100
)

// chordCostFactor scales the cost of everything involving a simultaneous
// modifier press: the modifier-position 4-gram and the per-press load of a
// chorded key.
const chordCostFactor = 1.3

const (
	codeBits = 5
	codeMask = 1<<codeBits - 1

	// tableSize covers every packed 4-gram of 5-bit position codes.
	tableSize = 1 << (4 * codeBits)
)

// ConnectionTable is the precomputed 4-gram cost table. Code 0 is the
// absent sentinel: windows shorter than four positions pad with it, and no
// rule fires across an absent position.
type ConnectionTable struct {
	scores []uint32
	geo    layout.Geometry

	overrides map[uint16]uint16
}

// NewConnectionTable precomputes transition costs for every 4-gram over the
// assignable positions plus the absent sentinel.
func NewConnectionTable(geo layout.Geometry) *ConnectionTable {
	t := &ConnectionTable{
		scores:    make([]uint32, tableSize),
		geo:       geo,
		overrides: make(map[uint16]uint16, len(geo.TwoKeyOverrides)),
	}
	for _, ov := range geo.TwoKeyOverrides {
		t.overrides[packPair(ov.First, ov.Second)] = ov.Weight
	}

	// The sentinel participates so that truncated windows (sequences
	// shorter than four presses) still carry the load of their real
	// positions.
	candidates := append([]layout.Pos{{Row: 0, Col: 0}}, layout.Positions()...)

	for _, i := range candidates {
		for _, j := range candidates {
			for _, k := range candidates {
				for _, l := range candidates {
					idx := packIndex(i.Code(), j.Code(), k.Code(), l.Code())
					t.scores[idx] = t.connectionCost(i, j, k, l)
				}
			}
		}
	}
	return t
}

func packPair(a, b layout.Pos) uint16 {
	return uint16(a.Code())<<codeBits | uint16(b.Code())
}

func packIndex(i, j, k, l int) int {
	return (i&codeMask)<<15 | (j&codeMask)<<10 | (k&codeMask)<<5 | (l & codeMask)
}

func present(p layout.Pos) bool { return p.Code() != 0 }

// connectionCost is the build-time evaluation of one 4-gram: the two
// leading pair transitions, the leading triple, and the press load of all
// four positions.
func (t *ConnectionTable) connectionCost(i, j, k, l layout.Pos) uint32 {
	score := t.pairCost(i, j)
	score += t.pairCost(j, k)
	score += t.tripleCost(i, j, k)
	return score +
		uint32(t.geo.FingerWeights[i.Row][i.Col]) +
		uint32(t.geo.FingerWeights[j.Row][j.Col]) +
		uint32(t.geo.FingerWeights[k.Row][k.Col]) +
		uint32(t.geo.FingerWeights[l.Row][l.Col])
}

func (t *ConnectionTable) pairCost(a, b layout.Pos) uint32 {
	if !present(a) || !present(b) {
		return 0
	}
	var score uint32
	if a == b {
		score += samePositionPenalty
	}
	if t.skipRowOnSameFinger(a, b) {
		score += sameFingerRowSkip
	}
	if t.sameHandAndFinger(a, b) {
		score += sameHandAndFinger
	}
	if t.skipRowOnSameHand(a, b) {
		score += sameHandRowSkip
	}
	return score + uint32(t.overrides[packPair(a, b)])
}

func (t *ConnectionTable) tripleCost(a, b, c layout.Pos) uint32 {
	if !present(a) || !present(b) || !present(c) {
		return 0
	}
	var score uint32
	if t.skipRowOnSameFinger(a, b) && t.skipRowOnSameFinger(b, c) {
		score += tripleSameFingerRowSkip
	}
	if t.sameHandAndFinger(a, b) && t.sameHandAndFinger(b, c) {
		score += tripleSameHandFinger
	}
	if t.sameHand(a, b) && t.sameHand(b, c) {
		score += tripleSameHand
	}
	return score
}

func (t *ConnectionTable) skipRowOnSameFinger(a, b layout.Pos) bool {
	return a.Col == b.Col && rowDistance(a, b) == 2
}

func (t *ConnectionTable) skipRowOnSameHand(a, b layout.Pos) bool {
	return t.sameHand(a, b) && rowDistance(a, b) == 2
}

func (t *ConnectionTable) sameHand(a, b layout.Pos) bool {
	return t.geo.HandAssignment[a.Row][a.Col] == t.geo.HandAssignment[b.Row][b.Col]
}

func (t *ConnectionTable) sameHandAndFinger(a, b layout.Pos) bool {
	return t.sameHand(a, b) &&
		t.geo.FingerAssignment[a.Row][a.Col] == t.geo.FingerAssignment[b.Row][b.Col]
}

func rowDistance(a, b layout.Pos) int {
	d := a.Row - b.Row
	if d < 0 {
		return -d
	}
	return d
}

// Evaluate scores one press sequence. Every sliding 4-gram window (at least
// one, padded with the absent sentinel) contributes its table cost for the
// key positions and, where any press in the window chords a modifier, the
// chord-scaled cost of the modifier positions. On top of that, every press
// carries its finger-load weight scaled by the caller-supplied per-press
// frequency weight, chord-scaled when the press holds a modifier.
//
// charWeights must be aligned with presses; both integer truncations happen
// per term so evaluation is bit-for-bit reproducible for incremental
// re-scoring.
func (t *ConnectionTable) Evaluate(presses []keymap.Press, charWeights []float64) uint64 {
	if len(presses) == 0 {
		return 0
	}

	var total uint64
	windows := len(presses) - 3
	if windows < 1 {
		windows = 1
	}
	for w := 0; w < windows; w++ {
		var keyIdx, modIdx int
		var chorded bool
		for n := 0; n < 4; n++ {
			keyIdx <<= codeBits
			modIdx <<= codeBits
			if w+n >= len(presses) {
				continue
			}
			p := presses[w+n]
			keyIdx |= p.Key.Code() & codeMask
			if p.Chorded {
				modIdx |= p.Modifier.Code() & codeMask
				chorded = true
			}
		}
		total += uint64(t.scores[keyIdx])
		if chorded {
			total += uint64(float64(t.scores[modIdx]) * chordCostFactor)
		}
	}

	for i, p := range presses {
		load := float64(t.geo.FingerWeights[p.Key.Row][p.Key.Col]) * charWeights[i]
		if p.Chorded {
			load *= chordCostFactor
		}
		total += uint64(load)
	}
	return total
}
