package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeCorpus(t *testing.T) (conjunctions, frequencies string) {
	t.Helper()
	dir := t.TempDir()

	conjunctions = filepath.Join(dir, "conjunctions.tsv")
	require.NoError(t, os.WriteFile(conjunctions, []byte(
		"わたし\t120\nありがとう\t80\nです\t250\nがっこう\t40\nん\t500\n"), 0o644))

	frequencies = filepath.Join(dir, "frequencies.tsv")
	require.NoError(t, os.WriteFile(frequencies, []byte(
		"わ\t200\nた\t300\nし\t250\nあ\t400\nり\t100\nが\t90\nと\t210\nう\t380\nで\t160\nす\t240\nこ\t130\nっ\t110\nん\t500\n"), 0o644))
	return conjunctions, frequencies
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "kanaforge dev")
	assert.Contains(t, out, "go version:")
}

func TestRenderCommand_Deterministic(t *testing.T) {
	first, _, err := execute(t, "render", "--seed", "7")
	require.NoError(t, err)
	second, _, err := execute(t, "render", "--seed", "7")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "unshift")
	assert.Contains(t, first, "semiturbid")
}

func TestRenderCommand_SeedChangesLayout(t *testing.T) {
	first, _, err := execute(t, "render", "--seed", "1")
	require.NoError(t, err)
	second, _, err := execute(t, "render", "--seed", "2")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCorpusStatsCommand(t *testing.T) {
	conjunctions, frequencies := writeCorpus(t)

	out, _, err := execute(t, "corpus", "stats",
		"--conjunctions", conjunctions,
		"--frequencies", frequencies)
	require.NoError(t, err)
	assert.Contains(t, out, "Conjunctions")
	assert.Contains(t, out, "Total appearances")
}

func TestCorpusStatsCommand_RequiresPaths(t *testing.T) {
	_, _, err := execute(t, "corpus", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires")
}

func TestOptimizeCommand_EndToEnd(t *testing.T) {
	conjunctions, frequencies := writeCorpus(t)
	outPath := filepath.Join(t.TempDir(), "layout.yaml")

	out, _, err := execute(t, "optimize",
		"--seed", "11",
		"--generations", "2",
		"--population-size", "10",
		"--workers", "2",
		"--conjunctions", conjunctions,
		"--frequencies", frequencies,
		"--out", outPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Best score")
	assert.Contains(t, out, "unshift")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "combinations:")
	assert.Contains(t, string(data), "seed: 11")
}

func TestOptimizeCommand_RejectsBadConfig(t *testing.T) {
	conjunctions, frequencies := writeCorpus(t)

	_, _, err := execute(t, "optimize",
		"--save-percent", "1.5",
		"--conjunctions", conjunctions,
		"--frequencies", frequencies)
	require.Error(t, err)
}

func TestRootCommand_LoadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "kanaforge.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("seed: 21\n"), 0o644))

	first, _, err := execute(t, "render", "--config", cfgPath)
	require.NoError(t, err)
	second, _, err := execute(t, "render", "--seed", "21")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
