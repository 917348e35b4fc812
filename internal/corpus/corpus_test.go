package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanaforge/kanaforge/pkg/kana"
)

func TestParseFrequencies(t *testing.T) {
	input := "あ\t200\nか\t100\n\nん\t50\n"
	weights, err := ParseFrequencies(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, weights, kana.TotalChars())

	idA, _ := kana.IDOf('あ')
	idKa, _ := kana.IDOf('か')
	idN, _ := kana.IDOf('ん')
	idNu, _ := kana.IDOf('ぬ')

	assert.Equal(t, 1.0, weights[idA])
	assert.Equal(t, 0.5, weights[idKa])
	assert.Equal(t, 0.25, weights[idN])
	assert.Zero(t, weights[idNu])
}

func TestParseFrequencies_LastCatalogEntry(t *testing.T) {
	// '。' sits at the end of the catalog and takes the highest CharID;
	// the weight vector must cover it.
	weights, err := ParseFrequencies(strings.NewReader("。\t10\nん\t20\n"))
	require.NoError(t, err)
	require.Len(t, weights, kana.TotalChars())

	id, ok := kana.IDOf('。')
	require.True(t, ok)
	assert.Equal(t, 0.5, weights[id])
}

func TestParseFrequencies_RejectsUnknownChar(t *testing.T) {
	_, err := ParseFrequencies(strings.NewReader("ア\t10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in the catalog")
}

func TestParseFrequencies_RejectsJunk(t *testing.T) {
	for _, input := range []string{
		"あ 10\n",       // no tab
		"あ\tten\n",     // non-numeric count
		"あか\t10\n",     // multi-char first field
		"\n\n",        // no records
		"あ\t10\textra", // three fields
	} {
		_, err := ParseFrequencies(strings.NewReader(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestParseConjunctions(t *testing.T) {
	input := "わたし\t120\nがっこう\t40\n"
	conjunctions, err := ParseConjunctions(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, conjunctions, 2)

	assert.EqualValues(t, 120, conjunctions[0].Appearances())
	assert.Len(t, conjunctions[0].Text(), 3)

	idGa, _ := kana.IDOf('が')
	assert.True(t, conjunctions[1].Contains(kana.PrimeOf(idGa)))
}

func TestParseConjunctions_RejectsOverlongText(t *testing.T) {
	_, err := ParseConjunctions(strings.NewReader("ありがとうございます\t5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "longer than")
}

func TestParseConjunctions_RejectsUnknownChar(t *testing.T) {
	_, err := ParseConjunctions(strings.NewReader("abc\t10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in the catalog")
}

func TestParseConjunctions_RejectsJunk(t *testing.T) {
	for _, input := range []string{
		"わたし\t-1\n",
		"わたし\n",
		"\t10\n",
		"",
	} {
		_, err := ParseConjunctions(strings.NewReader(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestLoadFrequencies_MissingFile(t *testing.T) {
	_, err := LoadFrequencies("does-not-exist.tsv")
	assert.Error(t, err)
}
