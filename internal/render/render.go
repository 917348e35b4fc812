// Package render prints layouts for humans: one box-drawing grid per input
// plane (unshift, shift, turbid, semiturbid) and the kana-to-QWERTY key
// combination listing used to try a layout on a real keyboard.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kanaforge/kanaforge/pkg/kana"
	"github.com/kanaforge/kanaforge/pkg/keymap"
	"github.com/kanaforge/kanaforge/pkg/layout"
)

// emptyCell is a full-width space so empty keys keep the grid aligned.
const emptyCell = '　'

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// planeSpec names a plane and extracts its character from a slot.
type planeSpec struct {
	name    string
	extract func(keymap.KeyDef) (rune, bool)
}

var planes = []planeSpec{
	{"unshift", keymap.KeyDef.Unshift},
	{"shift", keymap.KeyDef.Shifted},
	{"turbid", keymap.KeyDef.Turbid},
	{"semiturbid", keymap.KeyDef.Semiturbid},
}

// Planes renders all four input planes of a layout.
func Planes(m *keymap.Keymap) string {
	var b strings.Builder
	for i, p := range planes {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(headerStyle.Render(p.name))
		b.WriteString("\n")
		b.WriteString(grid(planeCells(m, p.extract)))
	}
	return b.String()
}

// planeCells projects one plane of the layout onto the 3×10 grid.
func planeCells(m *keymap.Keymap, extract func(keymap.KeyDef) (rune, bool)) [3][10]rune {
	var cells [3][10]rune
	for r := range cells {
		for c := range cells[r] {
			cells[r][c] = emptyCell
		}
	}
	for slot := 0; slot < layout.SlotCount; slot++ {
		def, ok := m.Slot(slot)
		if !ok {
			continue
		}
		if ch, has := extract(def); has {
			pos := layout.PositionOf(slot)
			cells[pos.Row][pos.Col] = ch
		}
	}
	return cells
}

// grid draws one 3×10 plane with box-drawing borders.
func grid(cells [3][10]rune) string {
	var b strings.Builder
	border(&b, "┏━", "┳", "━┓")
	for r, row := range cells {
		if r > 0 {
			border(&b, "┣━", "╋", "━┫")
		}
		b.WriteString("┃")
		for _, cell := range row {
			b.WriteRune(cell)
			b.WriteString("┃")
		}
		b.WriteString("\n")
	}
	border(&b, "┗━", "┻", "━┛")
	return b.String()
}

func border(b *strings.Builder, left, mid, right string) {
	b.WriteString(left)
	for i := 0; i < 9; i++ {
		if i > 0 {
			b.WriteString("━")
		}
		b.WriteString(mid)
	}
	b.WriteString(right)
	b.WriteString("\n")
}

// Combination maps one kana to the QWERTY keys that produce it; chorded
// characters list the modifier key first.
type Combination struct {
	Kana string `yaml:"kana"`
	Keys string `yaml:"keys"`
}

// Combinations lists the QWERTY key combination of every catalog character
// under the given layout.
func Combinations(m *keymap.Keymap) ([]Combination, bool) {
	presses, ok := m.Presses()
	if !ok {
		return nil, false
	}

	seen := make(map[rune]bool, len(presses))
	out := make([]Combination, 0, len(presses))
	for id, p := range presses {
		r := kana.RuneOf(kana.CharID(id))
		if seen[r] {
			continue
		}
		seen[r] = true

		keySlot, ok := layout.SlotOf(p.Key)
		if !ok {
			return nil, false
		}
		keys := string(layout.QwertyOf(keySlot))
		if p.Chorded {
			modSlot, ok := layout.SlotOf(p.Modifier)
			if !ok {
				return nil, false
			}
			keys = string(layout.QwertyOf(modSlot)) + keys
		}
		out = append(out, Combination{Kana: string(r), Keys: keys})
	}
	return out, true
}

// Document is the YAML-serializable record of an optimization result.
type Document struct {
	Seed         uint64        `yaml:"seed"`
	Generations  int           `yaml:"generations"`
	BestScore    uint64        `yaml:"best_score"`
	Combinations []Combination `yaml:"combinations"`
}

// NewDocument assembles the output document for a finished run.
func NewDocument(m *keymap.Keymap, seed uint64, generations int, bestScore uint64) (Document, bool) {
	combinations, ok := Combinations(m)
	if !ok {
		return Document{}, false
	}
	return Document{
		Seed:         seed,
		Generations:  generations,
		BestScore:    bestScore,
		Combinations: combinations,
	}, true
}
