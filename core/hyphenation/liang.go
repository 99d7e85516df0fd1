package hyphenation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/derekparker/trie"
	"github.com/npillmayer/textflow/core"
)

// Dictionary is a Liang hyphenation dictionary for a single language.
// Patterns and exceptions are stored in prefix tries. A Dictionary is
// read-only after loading and may be shared between goroutines.
type Dictionary struct {
	patterns   *trie.Trie // letters → []uint8 inter-letter values
	exceptions *trie.Trie // lower-case word → []int rune positions
	pcnt, xcnt int
	maxPattern int // length of longest pattern, in runes
	LeftMin    int // minimum # of runes before the first hyphen
	RightMin   int // minimum # of runes after the last hyphen
	MinLength  int // words shorter than this are never hyphenated
}

// NewDictionary creates an empty dictionary with TeX's default limits.
func NewDictionary() *Dictionary {
	return &Dictionary{
		patterns:   trie.New(),
		exceptions: trie.New(),
		LeftMin:    2,
		RightMin:   3,
		MinLength:  5,
	}
}

// Load reads a dictionary in TeX format. Patterns are expected within
// \patterns{…}, exceptions within \hyphenation{…}. Text after '%' is a comment.
// Input without any \patterns or \hyphenation groups is read as a plain
// list of patterns.
func Load(r io.Reader) (*Dictionary, error) {
	d := NewDictionary()
	const (
		plain = iota
		inPatterns
		inExceptions
		outside
	)
	state := plain
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if i := strings.IndexByte(line, '%'); i >= 0 {
			line = line[:i]
		}
		for _, tok := range strings.Fields(line) {
			switch {
			case strings.HasPrefix(tok, `\patterns{`):
				state = inPatterns
				tok = strings.TrimPrefix(tok, `\patterns{`)
			case strings.HasPrefix(tok, `\hyphenation{`):
				state = inExceptions
				tok = strings.TrimPrefix(tok, `\hyphenation{`)
			}
			closing := strings.HasSuffix(tok, "}")
			tok = strings.TrimSuffix(tok, "}")
			if tok != "" {
				var err error
				switch state {
				case plain, inPatterns:
					err = d.AddPattern(tok)
				case inExceptions:
					d.AddException(tok)
				default:
					err = fmt.Errorf("token outside of a group: %q", tok)
				}
				if err != nil {
					return nil, core.LayoutError(core.HyphenationError, err,
						"hyphenation dictionary, line %d", lineno)
				}
			}
			if closing {
				state = outside
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, core.LayoutError(core.HyphenationError, err, "cannot read hyphenation dictionary")
	}
	tracer().Debugf("hyphenation dictionary with %d patterns and %d exceptions", d.pcnt, d.xcnt)
	return d, nil
}

// AddPattern adds a Liang pattern, e.g. "hen5at" or ".ach4".
func (d *Dictionary) AddPattern(pattern string) error {
	var letters strings.Builder
	values := []uint8{0}
	for _, r := range pattern {
		if r >= '0' && r <= '9' {
			values[len(values)-1] = uint8(r - '0')
			continue
		}
		if r != '.' && !unicode.IsLetter(r) && r != '\'' {
			return fmt.Errorf("illegal character %q in pattern %q", r, pattern)
		}
		letters.WriteRune(unicode.ToLower(r))
		values = append(values, 0)
	}
	if letters.Len() == 0 {
		return errors.New("empty pattern")
	}
	key := letters.String()
	d.patterns.Add(key, values)
	d.pcnt++
	if n := utf8.RuneCountInString(key); n > d.maxPattern {
		d.maxPattern = n
	}
	return nil
}

// AddException adds a hyphenated word, e.g. "ta-ble". A word without
// hyphens is never hyphenated.
func (d *Dictionary) AddException(word string) {
	var letters strings.Builder
	var positions []int
	n := 0
	for _, r := range word {
		if r == '-' {
			positions = append(positions, n)
			continue
		}
		letters.WriteRune(unicode.ToLower(r))
		n++
	}
	d.exceptions.Add(letters.String(), positions)
	d.xcnt++
}

// Hyphenate returns the byte offsets within word at which a hyphen may be
// inserted, in increasing order. Words which are too short, or which contain
// anything other than letters, yield no positions.
func (d *Dictionary) Hyphenate(word string) []int {
	runes := []rune(word)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	if len(runes) < d.MinLength || len(runes) < d.LeftMin+d.RightMin {
		return nil
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) && r != '\'' {
			return nil
		}
	}
	var positions []int // rune positions
	if node, ok := d.exceptions.Find(string(runes)); ok {
		positions = node.Meta().([]int)
	} else {
		positions = d.liang(runes)
	}
	offsets := make([]int, 0, len(positions))
	byteOffsets := runeByteOffsets(word)
	for _, p := range positions {
		if p < d.LeftMin || p > len(runes)-d.RightMin {
			continue
		}
		offsets = append(offsets, byteOffsets[p])
	}
	return offsets
}

// liang applies all matching patterns to a word and returns the rune
// positions with odd values.
func (d *Dictionary) liang(runes []rune) []int {
	w := make([]rune, 0, len(runes)+2)
	w = append(w, '.')
	w = append(w, runes...)
	w = append(w, '.')
	values := make([]uint8, len(w)+1)
	for i := 0; i < len(w); i++ {
		for j := i + 1; j <= len(w) && j-i <= d.maxPattern; j++ {
			sub := string(w[i:j])
			if !d.patterns.HasKeysWithPrefix(sub) {
				break
			}
			node, ok := d.patterns.Find(sub)
			if !ok {
				continue
			}
			for k, v := range node.Meta().([]uint8) {
				if v > values[i+k] {
					values[i+k] = v
				}
			}
		}
	}
	var positions []int
	// values[i] is the value before w[i]; w[0] is the leading dot,
	// so values[p+1] is the value before runes[p]
	for p := 1; p < len(runes); p++ {
		if values[p+1]%2 == 1 {
			positions = append(positions, p)
		}
	}
	return positions
}

// runeByteOffsets maps rune positions to byte offsets, including the end position.
func runeByteOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}
