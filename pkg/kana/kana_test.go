package kana

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitions_StableAcrossCalls(t *testing.T) {
	first := Definitions()
	second := Definitions()

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i], second[i], "definition %d differs between calls", i)
	}
}

func TestDefinitions_ReturnsCopy(t *testing.T) {
	first := Definitions()
	first[0] = CharDef{normal: 'x'}

	second := Definitions()
	assert.Equal(t, 'あ', second[0].Unshift())
}

func TestConflicts_Symmetric(t *testing.T) {
	defs := Definitions()
	for i, a := range defs {
		for j, b := range defs {
			assert.Equal(t, a.Conflicts(b), b.Conflicts(a), "conflicts(%d,%d) asymmetric", i, j)
		}
	}
}

func TestConflicts_BothTurbid(t *testing.T) {
	ka, ok := Find('か')
	require.True(t, ok)
	shi, ok := Find('し')
	require.True(t, ok)

	assert.True(t, ka.Conflicts(shi))
}

func TestConflicts_BothSemiturbid(t *testing.T) {
	ha, ok := Find('は')
	require.True(t, ok)
	a, ok := Find('あ')
	require.True(t, ok)

	assert.True(t, ha.Conflicts(a))
}

func TestConflicts_NoneBetweenCleartones(t *testing.T) {
	ma, ok := Find('ま')
	require.True(t, ok)
	mi, ok := Find('み')
	require.True(t, ok)

	assert.False(t, ma.Conflicts(mi))
}

func TestConflicts_AllTurbidPairs(t *testing.T) {
	defs := Definitions()
	for i, a := range defs {
		for j, b := range defs {
			if i == j {
				continue
			}
			_, aT := a.Turbid()
			_, bT := b.Turbid()
			if aT && bT {
				assert.True(t, a.Conflicts(b), "turbid pair %c/%c should conflict", a.Unshift(), b.Unshift())
			}
			_, aS := a.Semiturbid()
			_, bS := b.Semiturbid()
			if aS && bS {
				assert.True(t, a.Conflicts(b), "semiturbid pair %c/%c should conflict", a.Unshift(), b.Unshift())
			}
		}
	}
}

func TestIsCleartone(t *testing.T) {
	ma, _ := Find('ま')
	ka, _ := Find('か')
	a, _ := Find('あ')

	assert.True(t, ma.IsCleartone())
	assert.False(t, ka.IsCleartone())
	assert.False(t, a.IsCleartone())
}

func TestChars_IncludesVariants(t *testing.T) {
	ha, _ := Find('は')
	assert.Equal(t, []rune{'は', 'ば', 'ぱ'}, ha.Chars())

	ma, _ := Find('ま')
	assert.Equal(t, []rune{'ま'}, ma.Chars())
}

func TestAllChars_IndexMatchesID(t *testing.T) {
	all := AllChars()
	require.Equal(t, TotalChars(), len(all))

	for i, r := range all {
		id, ok := IDOf(r)
		require.True(t, ok, "char %c should have an id", r)
		// Duplicated base characters map to their first occurrence.
		assert.Equal(t, r, RuneOf(id))
		assert.LessOrEqual(t, int(id), i)
	}
}

func TestTotalChars_CoversEveryID(t *testing.T) {
	// The catalog duplicates っ, so ids handed out after the second
	// occurrence must still index TotalChars()-sized vectors. '。' is the
	// last catalog entry and takes the highest id.
	id, ok := IDOf('。')
	require.True(t, ok)
	assert.Less(t, int(id), TotalChars())

	for _, r := range AllChars() {
		id, ok := IDOf(r)
		require.True(t, ok)
		assert.Less(t, int(id), TotalChars(), "id of %c out of range", r)
	}
}

func TestPrimeOf_DistinctPerID(t *testing.T) {
	seen := map[uint64]CharID{}
	for i := 0; i < TotalChars(); i++ {
		p := PrimeOf(CharID(i))
		require.Greater(t, p, uint64(1))
		prev, dup := seen[p]
		require.False(t, dup, "prime %d assigned to both %d and %d", p, prev, i)
		seen[p] = CharID(i)
	}
}
