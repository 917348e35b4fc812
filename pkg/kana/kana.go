// Package kana defines the fixed character catalog the optimizer assigns
// onto keys: the hiragana syllabary plus punctuation, each with its voiced
// (dakuten) and semi-voiced (handakuten) variants where those exist.
//
// The catalog is order-stable: a definition's index, and the index of every
// producible character in AllChars, doubles as its dense identity throughout
// the rest of the system.
package kana

// CharDef is one catalog entry: a base character and its optional diacritic
// variants. The zero rune means the variant does not exist.
type CharDef struct {
	normal     rune
	turbid     rune
	semiturbid rune
}

// Unshift returns the base character.
func (d CharDef) Unshift() rune { return d.normal }

// Turbid returns the voiced variant, if any.
func (d CharDef) Turbid() (rune, bool) { return d.turbid, d.turbid != 0 }

// Semiturbid returns the semi-voiced variant, if any.
func (d CharDef) Semiturbid() (rune, bool) { return d.semiturbid, d.semiturbid != 0 }

// IsCleartone reports whether the character carries neither a voiced nor a
// semi-voiced variant.
func (d CharDef) IsCleartone() bool { return d.turbid == 0 && d.semiturbid == 0 }

// Conflicts reports whether two definitions cannot share a key slot: both
// define a voiced variant, both define a semi-voiced variant, or they are
// the same base character. Symmetric by construction.
func (d CharDef) Conflicts(other CharDef) bool {
	if d.turbid != 0 && other.turbid != 0 {
		return true
	}
	if d.semiturbid != 0 && other.semiturbid != 0 {
		return true
	}
	return d.normal == other.normal
}

// Chars returns every character this definition can produce: the base
// character followed by the variants that exist.
func (d CharDef) Chars() []rune {
	out := make([]rune, 0, 3)
	out = append(out, d.normal)
	if d.turbid != 0 {
		out = append(out, d.turbid)
	}
	if d.semiturbid != 0 {
		out = append(out, d.semiturbid)
	}
	return out
}

// Definitions returns the catalog. Callers receive a fresh slice on every
// call, in the same order with the same values; downstream code relies on
// positional identity.
func Definitions() []CharDef {
	out := make([]CharDef, len(chars))
	copy(out, chars[:])
	return out
}

// Find returns the definition whose base character is r.
func Find(r rune) (CharDef, bool) {
	for _, d := range chars {
		if d.normal == r {
			return d, true
		}
	}
	return CharDef{}, false
}

// AllChars returns every producible character in catalog order: for each
// definition its base character, then its voiced variant, then its
// semi-voiced variant. The index of a character in this slice is its CharID.
func AllChars() []rune {
	out := make([]rune, 0, TotalChars())
	for _, d := range chars {
		out = append(out, d.Chars()...)
	}
	return out
}

// CharID is the dense identity of a producible character: its index in
// AllChars. Conjunction texts, frequency weights and press-sequence caches
// are all keyed by CharID.
type CharID int

// TotalChars returns the size of the CharID space. Characters appearing
// twice in the catalog keep both ids, so this can exceed the number of
// distinct runes.
func TotalChars() int { return len(allChars) }

// IDOf returns the CharID of r. Where a base character appears twice in the
// catalog the first occurrence wins.
func IDOf(r rune) (CharID, bool) {
	id, ok := allIndex[r]
	return id, ok
}

// RuneOf returns the character with the given id.
func RuneOf(id CharID) rune { return allChars[id] }

// PrimeOf returns the prime assigned to a CharID. A conjunction's hash is
// the product of its characters' primes, so divisibility by PrimeOf(id)
// tests membership without walking the text.
func PrimeOf(id CharID) uint64 { return primes[id] }

var (
	allChars []rune
	allIndex map[rune]CharID
	primes   []uint64
)

func init() {
	allChars = make([]rune, 0, len(chars)*2)
	for _, d := range chars {
		allChars = append(allChars, d.Chars()...)
	}
	allIndex = make(map[rune]CharID, len(allChars))
	for i, r := range allChars {
		if _, ok := allIndex[r]; !ok {
			allIndex[r] = CharID(i)
		}
	}
	primes = sievePrimes(len(allChars))
}

// sievePrimes returns the first n primes.
func sievePrimes(n int) []uint64 {
	out := make([]uint64, 0, n)
	for candidate := uint64(2); len(out) < n; candidate++ {
		prime := true
		for _, p := range out {
			if p*p > candidate {
				break
			}
			if candidate%p == 0 {
				prime = false
				break
			}
		}
		if prime {
			out = append(out, candidate)
		}
	}
	return out
}

// chars is the catalog used for evaluation. The small-tsu entry appears
// twice so the optimizer can give it two locations.
var chars = [...]CharDef{
	{normal: 'あ', semiturbid: 'ぁ'},
	{normal: 'い', semiturbid: 'ぃ'},
	{normal: 'う', semiturbid: 'ぅ'},
	{normal: 'え', semiturbid: 'ぇ'},
	{normal: 'お', semiturbid: 'ぉ'},
	{normal: 'か', turbid: 'が'},
	{normal: 'き', turbid: 'ぎ'},
	{normal: 'く', turbid: 'ぐ'},
	{normal: 'け', turbid: 'げ'},
	{normal: 'こ', turbid: 'ご'},
	{normal: 'さ', turbid: 'ざ'},
	{normal: 'し', turbid: 'じ'},
	{normal: 'す', turbid: 'ず'},
	{normal: 'せ', turbid: 'ぜ'},
	{normal: 'そ', turbid: 'ぞ'},
	{normal: 'た', turbid: 'だ'},
	{normal: 'ち', turbid: 'ぢ'},
	{normal: 'つ', turbid: 'づ'},
	{normal: 'て', turbid: 'で'},
	{normal: 'と', turbid: 'ど'},
	{normal: 'な'},
	{normal: 'に'},
	{normal: 'ぬ'},
	{normal: 'ね'},
	{normal: 'の'},
	{normal: 'は', turbid: 'ば', semiturbid: 'ぱ'},
	{normal: 'ひ', turbid: 'び', semiturbid: 'ぴ'},
	{normal: 'ふ', turbid: 'ぶ', semiturbid: 'ぷ'},
	{normal: 'へ', turbid: 'べ', semiturbid: 'ぺ'},
	{normal: 'ほ', turbid: 'ぼ', semiturbid: 'ぽ'},
	{normal: 'ま'},
	{normal: 'み'},
	{normal: 'む'},
	{normal: 'め'},
	{normal: 'も'},
	{normal: 'や', semiturbid: 'ゃ'},
	{normal: 'ゆ', semiturbid: 'ゅ'},
	{normal: 'よ', semiturbid: 'ょ'},
	{normal: 'ら'},
	{normal: 'り'},
	{normal: 'る'},
	{normal: 'れ'},
	{normal: 'ろ'},
	{normal: 'わ'},
	{normal: 'を'},
	{normal: 'ん'},
	{normal: 'っ'},
	{normal: 'っ'},
	{normal: '、'},
	{normal: '。'},
}
