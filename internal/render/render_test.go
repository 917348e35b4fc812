package render

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanaforge/kanaforge/pkg/kana"
	"github.com/kanaforge/kanaforge/pkg/keymap"
)

func validKeymap(t *testing.T) *keymap.Keymap {
	t.Helper()
	rng := rand.New(rand.NewPCG(19, 19))
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

func TestPlanes(t *testing.T) {
	out := Planes(validKeymap(t))

	for _, header := range []string{"unshift", "shift", "turbid", "semiturbid"} {
		assert.Contains(t, out, header)
	}
	// Four grids, each with a top and bottom border.
	assert.Equal(t, 4, strings.Count(out, "┏"))
	assert.Equal(t, 4, strings.Count(out, "┗"))
	// Three key rows per grid.
	assert.Equal(t, 4*3*11, strings.Count(out, "┃"))
}

func TestCombinations_CoverCatalog(t *testing.T) {
	m := validKeymap(t)
	combinations, ok := Combinations(m)
	require.True(t, ok)

	unique := map[rune]bool{}
	for _, r := range kana.AllChars() {
		unique[r] = true
	}
	assert.Len(t, combinations, len(unique))

	for _, c := range combinations {
		r := []rune(c.Kana)[0]
		kind, _, found := m.Get(r)
		require.True(t, found, "combination for unknown char %q", c.Kana)
		if kind == keymap.KindNormal {
			assert.Len(t, c.Keys, 1, "bare press %q should be one key", c.Kana)
		} else {
			assert.Len(t, c.Keys, 2, "chorded press %q should be two keys", c.Kana)
		}
	}
}

func TestNewDocument(t *testing.T) {
	m := validKeymap(t)
	doc, ok := NewDocument(m, 9, 50, 12345)
	require.True(t, ok)

	assert.EqualValues(t, 9, doc.Seed)
	assert.Equal(t, 50, doc.Generations)
	assert.EqualValues(t, 12345, doc.BestScore)
	assert.NotEmpty(t, doc.Combinations)
}
