package scoring

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanaforge/kanaforge/pkg/kana"
	"github.com/kanaforge/kanaforge/pkg/keymap"
	"github.com/kanaforge/kanaforge/pkg/layout"
)

var (
	tableOnce   sync.Once
	sharedTable *ConnectionTable
)

// testTable builds the precomputed table once for the whole package; the
// build walks half a million 4-grams and every test shares the result.
func testTable() *ConnectionTable {
	tableOnce.Do(func() {
		sharedTable = NewConnectionTable(layout.Standard())
	})
	return sharedTable
}

func newRng(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func validKeymap(t *testing.T, seed uint64) *keymap.Keymap {
	t.Helper()
	rng := newRng(seed)
	for i := 0; i < 10000; i++ {
		m, err := keymap.Generate(rng)
		if err != nil {
			continue
		}
		if m.MeetRequirements() {
			return m
		}
	}
	t.Fatal("no valid keymap within the attempt budget")
	return nil
}

func uniformFreq() []float64 {
	freq := make([]float64, kana.TotalChars())
	for i := range freq {
		freq[i] = 1
	}
	return freq
}

// idsOf converts a kana string into catalog character ids.
func idsOf(t *testing.T, text string) []kana.CharID {
	t.Helper()
	var out []kana.CharID
	for _, r := range text {
		id, ok := kana.IDOf(r)
		require.True(t, ok, "unknown character %q", r)
		out = append(out, id)
	}
	return out
}

func testCorpus(t *testing.T) []Conjunction {
	t.Helper()
	return []Conjunction{
		NewConjunction(idsOf(t, "わたし"), 120),
		NewConjunction(idsOf(t, "ありがとう"), 80),
		NewConjunction(idsOf(t, "です"), 250),
		NewConjunction(idsOf(t, "ぱぴぷぺ"), 3),
		NewConjunction(idsOf(t, "がっこう"), 40),
		NewConjunction(idsOf(t, "ん"), 500),
	}
}

func TestEvaluate_SinglePositionIsFingerWeight(t *testing.T) {
	table := testTable()
	geo := layout.Standard()

	for _, slot := range []int{0, 5, 12, 20} {
		pos := layout.PositionOf(slot)
		got := table.Evaluate(
			[]keymap.Press{{Key: pos}},
			[]float64{0},
		)
		want := uint64(geo.FingerWeights[pos.Row][pos.Col])
		assert.Equal(t, want, got, "slot %d", slot)
	}
}

func TestEvaluate_ShortSequenceUsesOneWindow(t *testing.T) {
	table := testTable()
	geo := layout.Standard()

	a := layout.PositionOf(9)
	b := layout.PositionOf(16)
	got := table.Evaluate(
		[]keymap.Press{{Key: a}, {Key: b}},
		[]float64{0, 0},
	)

	// One padded window: both loads plus the pair transition.
	want := uint64(table.scores[packIndex(a.Code(), b.Code(), 0, 0)])
	assert.Equal(t, want, got)
	assert.GreaterOrEqual(t, got,
		uint64(geo.FingerWeights[a.Row][a.Col])+uint64(geo.FingerWeights[b.Row][b.Col]))
}

func TestEvaluate_SamePositionPenalized(t *testing.T) {
	table := testTable()

	pos := layout.PositionOf(9)
	repeated := table.Evaluate(
		[]keymap.Press{{Key: pos}, {Key: pos}},
		[]float64{0, 0},
	)
	single := table.Evaluate(
		[]keymap.Press{{Key: pos}},
		[]float64{0},
	)

	// Repeating a position fires both the same-position and the
	// same-hand-and-finger pair rules.
	assert.Equal(t, 2*single+samePositionPenalty+sameHandAndFinger, repeated)
}

func TestEvaluate_TwoKeyOverrideApplies(t *testing.T) {
	table := testTable()
	geo := layout.Standard()

	// (0,8) -> (2,9) carries an explicit override; the reversed
	// transition does not, and the general rules treat both directions
	// identically, so the difference is exactly the override weight.
	first := layout.Pos{Row: 0, Col: 8}
	second := layout.Pos{Row: 2, Col: 9}

	var override uint32
	for _, ov := range geo.TwoKeyOverrides {
		if ov.First == first && ov.Second == second {
			override = uint32(ov.Weight)
		}
	}
	require.NotZero(t, override)
	assert.Equal(t, override, table.pairCost(first, second)-table.pairCost(second, first))
}

func TestEvaluate_ChordCostsMore(t *testing.T) {
	table := testTable()

	key := layout.PositionOf(0)
	mod := layout.PositionOf(layout.RightShiftIndex)
	bare := table.Evaluate(
		[]keymap.Press{{Key: key}},
		[]float64{1},
	)
	chorded := table.Evaluate(
		[]keymap.Press{{Key: key, Modifier: mod, Chorded: true}},
		[]float64{1},
	)
	assert.Greater(t, chorded, bare)
}

func TestConjunction_HashDivisibility(t *testing.T) {
	ids := idsOf(t, "がっこう")
	c := NewConjunction(ids, 1)

	for _, id := range ids {
		assert.True(t, c.Contains(kana.PrimeOf(id)))
	}

	absent, ok := kana.IDOf('ぬ')
	require.True(t, ok)
	assert.False(t, c.Contains(kana.PrimeOf(absent)))
}

func TestConjunction_TextIsACopy(t *testing.T) {
	ids := idsOf(t, "わたし")
	c := NewConjunction(ids, 1)

	ids[0] = 0
	got := c.Text()
	got[1] = 0

	assert.Equal(t, idsOf(t, "わたし"), c.Text())
}

func TestEvaluate_LastCatalogCharacter(t *testing.T) {
	// '。' carries the highest CharID; press and weight lookups must
	// cover the whole id space.
	km := validKeymap(t, 8)
	conjunctions := []Conjunction{NewConjunction(idsOf(t, "です。"), 10)}

	score, err := Evaluate(testTable(), km, conjunctions, uniformFreq())
	require.NoError(t, err)
	assert.NotZero(t, score.Total())
}

func TestEvaluate_RejectsShortFrequencyVector(t *testing.T) {
	km := validKeymap(t, 8)
	short := uniformFreq()[:kana.TotalChars()-1]

	_, err := Evaluate(testTable(), km, testCorpus(t), short)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frequency vector")
}

func TestEvaluate_Deterministic(t *testing.T) {
	table := testTable()
	km := validKeymap(t, 21)
	corpus := testCorpus(t)
	freq := uniformFreq()

	a, err := Evaluate(table, km, corpus, freq)
	require.NoError(t, err)
	b, err := Evaluate(table, km, corpus, freq)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotZero(t, a.Total())
}

func TestEvaluateDiff_EmptyChangeIsNoop(t *testing.T) {
	table := testTable()
	km := validKeymap(t, 22)
	corpus := testCorpus(t)
	freq := uniformFreq()

	prev, err := Evaluate(table, km, corpus, freq)
	require.NoError(t, err)

	next, err := EvaluateDiff(prev, table, km, corpus, freq, nil)
	require.NoError(t, err)
	assert.Equal(t, prev.Total(), next.Total())
	assert.Equal(t, prev.conjunctions, next.conjunctions)
}

func TestEvaluateDiff_MatchesFullEvaluate(t *testing.T) {
	table := testTable()
	corpus := testCorpus(t)
	freq := uniformFreq()

	km := validKeymap(t, 23)
	prev, err := Evaluate(table, km, corpus, freq)
	require.NoError(t, err)

	rng := newRng(24)
	for i := 0; i < 25; i++ {
		next, err := km.Mutate(rng)
		require.NoError(t, err)
		changed := km.ChangedChars(next)

		full, err := Evaluate(table, next, corpus, freq)
		require.NoError(t, err)
		diffed, err := EvaluateDiff(prev, table, next, corpus, freq, changed)
		require.NoError(t, err)

		require.Equal(t, full.Total(), diffed.Total(), "mutation %d diverged", i)
		require.Equal(t, full.conjunctions, diffed.conjunctions, "mutation %d diverged", i)

		km, prev = next, full
	}
}

func TestEvaluateDiff_RejectsMismatchedCorpus(t *testing.T) {
	table := testTable()
	km := validKeymap(t, 25)
	corpus := testCorpus(t)
	freq := uniformFreq()

	prev, err := Evaluate(table, km, corpus, freq)
	require.NoError(t, err)

	id, _ := kana.IDOf('あ')
	_, err = EvaluateDiff(prev, table, km, corpus[:2], freq, []kana.CharID{id})
	assert.Error(t, err)
}
