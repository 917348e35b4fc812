// Package corpus loads the optimization workload from tab-separated files:
// per-character appearance counts and n-gram conjunctions. All parsing
// lives here; the scoring core only ever sees character ids and weights.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kanaforge/kanaforge/pkg/kana"
	"github.com/kanaforge/kanaforge/pkg/scoring"
)

// LoadFrequencies reads `char <TAB> count` records and returns a weight
// vector indexed by kana.CharID, normalized so the most frequent character
// weighs 1. Characters absent from the file weigh 0.
func LoadFrequencies(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frequency file: %w", err)
	}
	defer f.Close()

	weights, err := ParseFrequencies(f)
	if err != nil {
		return nil, fmt.Errorf("parse frequency file %s: %w", path, err)
	}
	return weights, nil
}

// ParseFrequencies parses frequency records from r.
func ParseFrequencies(r io.Reader) ([]float64, error) {
	counts := make([]uint64, kana.TotalChars())
	var max uint64

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		char, count, err := splitRecord(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		id, ok := kana.IDOf(char)
		if !ok {
			return nil, fmt.Errorf("line %d: character %q is not in the catalog", line, char)
		}
		counts[id] += count
		if counts[id] > max {
			max = counts[id]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if max == 0 {
		return nil, fmt.Errorf("no frequency records found")
	}

	weights := make([]float64, len(counts))
	for i, c := range counts {
		weights[i] = float64(c) / float64(max)
	}
	return weights, nil
}

// LoadConjunctions reads `text <TAB> count` n-gram records.
func LoadConjunctions(path string) ([]scoring.Conjunction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open conjunction file: %w", err)
	}
	defer f.Close()

	conjunctions, err := ParseConjunctions(f)
	if err != nil {
		return nil, fmt.Errorf("parse conjunction file %s: %w", path, err)
	}
	return conjunctions, nil
}

// maxConjunctionChars bounds conjunction text length: the membership hash
// is a product of per-character primes and the largest catalog prime taken
// to the eighth power no longer fits in 64 bits.
const maxConjunctionChars = 7

// ParseConjunctions parses conjunction records from r.
func ParseConjunctions(r io.Reader) ([]scoring.Conjunction, error) {
	var out []scoring.Conjunction

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want 2 tab-separated fields, got %d", line, len(fields))
		}
		count, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: appearance count: %w", line, err)
		}

		var ids []kana.CharID
		for _, r := range fields[0] {
			id, ok := kana.IDOf(r)
			if !ok {
				return nil, fmt.Errorf("line %d: character %q is not in the catalog", line, r)
			}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("line %d: empty conjunction text", line)
		}
		if len(ids) > maxConjunctionChars {
			return nil, fmt.Errorf("line %d: conjunction %q longer than %d characters",
				line, fields[0], maxConjunctionChars)
		}
		out = append(out, scoring.NewConjunction(ids, uint32(count)))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no conjunction records found")
	}
	return out, nil
}

// splitRecord splits a `char <TAB> count` line.
func splitRecord(text string) (rune, uint64, error) {
	fields := strings.Split(text, "\t")
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("want 2 tab-separated fields, got %d", len(fields))
	}
	chars := []rune(strings.TrimSpace(fields[0]))
	if len(chars) != 1 {
		return 0, 0, fmt.Errorf("want a single character, got %q", fields[0])
	}
	count, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("appearance count: %w", err)
	}
	return chars[0], count, nil
}
