// Package prefilter wraps github.com/coregx/ahocorasick to let the rex
// engine skip straight to the next position a pattern's mandatory literal
// could start, instead of invoking the full NFA/backtracking machinery at
// every input position of an unanchored search.
//
// Grounded on the teacher's meta/compile.go Aho-Corasick wiring
// (github.com/coregx/coregex/meta/compile.go): ahocorasick.NewBuilder(),
// AddPattern, and Build() are used exactly as the teacher uses them for
// its large-alternation strategy; here there is always exactly one
// pattern (the extracted required literal) rather than one per
// alternative branch.
package prefilter

import (
	"github.com/coregx/ahocorasick"
	"github.com/coregx/rex/simdlite"
)

// Literal is a single mandatory-substring prefilter.
type Literal struct {
	literal   string
	automaton *ahocorasick.Automaton
}

// Build compiles a prefilter that locates literal within a haystack. It
// fails only if the underlying automaton construction fails, which does
// not happen for a single non-empty pattern.
func Build(literal string) (*Literal, error) {
	builder := ahocorasick.NewBuilder()
	builder.AddPattern([]byte(literal))
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &Literal{literal: literal, automaton: auto}, nil
}

// Find returns the rune offset of the earliest occurrence of the literal
// in input at or after at, and whether one was found. Any successful
// match of the owning pattern must contain the literal, so a search can
// safely skip straight to this offset instead of trying every position
// between at and here.
func (l *Literal) Find(input []rune, at int) (int, bool) {
	if at >= len(input) {
		return 0, false
	}
	b := []byte(string(input[at:]))

	var start int
	if len(l.literal) == 1 {
		// A one-byte literal (always ASCII: a multi-byte rune's UTF-8
		// encoding is never one byte long) needs no automaton at all;
		// simdlite's SWAR scan finds it more cheaply than building and
		// walking the Aho-Corasick machine for a single-byte pattern.
		idx := simdlite.IndexByte(b, l.literal[0])
		if idx < 0 {
			return 0, false
		}
		start = idx
	} else {
		m := l.automaton.Find(b, 0)
		if m == nil {
			return 0, false
		}
		start = m.Start
	}

	// The automaton (and IndexByte) report a byte offset into b; translate
	// back to a rune offset into input by counting the runes in the UTF-8
	// prefix up to that byte. The common case is an ASCII haystack, where
	// byte count and rune count coincide, so simdlite.IsASCII lets that
	// case skip the full UTF-8 decode a rune count would otherwise require.
	prefix := b[:start]
	var runeCount int
	if simdlite.IsASCII(prefix) {
		runeCount = len(prefix)
	} else {
		runeCount = len([]rune(string(prefix)))
	}
	return at + runeCount, true
}
