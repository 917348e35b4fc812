package scoring

import (
	"errors"
	"fmt"

	"github.com/kanaforge/kanaforge/pkg/kana"
	"github.com/kanaforge/kanaforge/pkg/keymap"
)

// ErrIncompleteKeymap is returned when a layout cannot produce every
// catalog character. Validated layouts never trigger it.
var ErrIncompleteKeymap = errors.New("scoring: keymap does not cover the catalog")

// Conjunction is one corpus n-gram: a character-id sequence and how often
// it appears. Its hash is the product of its characters' primes, so a
// changed character's membership reduces to a divisibility test.
type Conjunction struct {
	text        []kana.CharID
	appearances uint32
	hash        uint64
}

// NewConjunction builds a conjunction over catalog character ids. The text
// is copied, so the conjunction stays immutable after construction.
func NewConjunction(text []kana.CharID, appearances uint32) Conjunction {
	hash := uint64(1)
	for _, id := range text {
		hash *= kana.PrimeOf(id)
	}
	owned := make([]kana.CharID, len(text))
	copy(owned, text)
	return Conjunction{text: owned, appearances: appearances, hash: hash}
}

// Text returns a copy of the character-id sequence.
func (c Conjunction) Text() []kana.CharID {
	out := make([]kana.CharID, len(c.text))
	copy(out, c.text)
	return out
}

// Appearances returns the corpus occurrence count.
func (c Conjunction) Appearances() uint32 { return c.appearances }

// Contains reports whether the conjunction uses the character whose prime
// is p.
func (c Conjunction) Contains(p uint64) bool { return c.hash%p == 0 }

// Score is the evaluation result for one layout against one corpus: the
// per-conjunction contributions and their total. Lower is better.
type Score struct {
	conjunctions []uint64
	total        uint64
}

// Total returns the grand total across all conjunctions.
func (s Score) Total() uint64 { return s.total }

// clone returns an independent copy so incremental updates never alias the
// previous generation's contributions.
func (s Score) clone() Score {
	out := Score{
		conjunctions: make([]uint64, len(s.conjunctions)),
		total:        s.total,
	}
	copy(out.conjunctions, s.conjunctions)
	return out
}

// pressSequences resolves the per-character press cache and the per-press
// frequency weights for each conjunction on the given layout.
type pressResolver struct {
	presses []keymap.Press
	freq    []float64
}

func newPressResolver(km *keymap.Keymap, freq []float64) (*pressResolver, error) {
	presses, ok := km.Presses()
	if !ok {
		return nil, fmt.Errorf("resolve press sequences: %w", ErrIncompleteKeymap)
	}
	if len(freq) != len(presses) {
		return nil, fmt.Errorf("scoring: frequency vector covers %d ids, catalog has %d",
			len(freq), len(presses))
	}
	return &pressResolver{presses: presses, freq: freq}, nil
}

// contribution scores one conjunction: expand its character ids through the
// press cache, evaluate the whole sequence, scale by appearance count.
func (r *pressResolver) contribution(t *ConnectionTable, c Conjunction) uint64 {
	seq := make([]keymap.Press, len(c.text))
	weights := make([]float64, len(c.text))
	for i, id := range c.text {
		seq[i] = r.presses[id]
		weights[i] = r.freq[id]
	}
	return t.Evaluate(seq, weights) * uint64(c.appearances)
}

// Evaluate scores a layout against the full corpus from scratch.
func Evaluate(t *ConnectionTable, km *keymap.Keymap, conjunctions []Conjunction, freq []float64) (Score, error) {
	resolver, err := newPressResolver(km, freq)
	if err != nil {
		return Score{}, err
	}

	score := Score{conjunctions: make([]uint64, len(conjunctions))}
	for i, c := range conjunctions {
		contribution := resolver.contribution(t, c)
		score.conjunctions[i] = contribution
		score.total += contribution
	}
	return score, nil
}

// EvaluateDiff re-scores only the conjunctions touched by the changed
// characters, reusing every other contribution from prev. The caller must
// supply exactly the set of characters whose producing key or plane differs
// between the layout prev was computed on and km; the per-conjunction
// arithmetic is exact, so the result matches a full Evaluate on km.
func EvaluateDiff(prev Score, t *ConnectionTable, km *keymap.Keymap, conjunctions []Conjunction, freq []float64, changed []kana.CharID) (Score, error) {
	if len(changed) == 0 {
		return prev.clone(), nil
	}
	if len(prev.conjunctions) != len(conjunctions) {
		return Score{}, fmt.Errorf("scoring: previous score covers %d conjunctions, corpus has %d",
			len(prev.conjunctions), len(conjunctions))
	}

	resolver, err := newPressResolver(km, freq)
	if err != nil {
		return Score{}, err
	}

	primes := make([]uint64, len(changed))
	for i, id := range changed {
		primes[i] = kana.PrimeOf(id)
	}

	score := prev.clone()
	for i, c := range conjunctions {
		var touched bool
		for _, p := range primes {
			if c.Contains(p) {
				touched = true
				break
			}
		}
		if !touched {
			continue
		}
		contribution := resolver.contribution(t, c)
		score.total -= score.conjunctions[i]
		score.conjunctions[i] = contribution
		score.total += contribution
	}
	return score, nil
}
