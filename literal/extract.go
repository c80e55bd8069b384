// Package literal extracts a mandatory literal prefix from a compiled
// program, when one exists, for use as a prefilter. Grounded on the
// teacher's literal.Seq extraction (github.com/coregx/coregex/literal):
// the idea of walking the compiled form for a required run of exact
// characters carries over, simplified to the one case that matters for a
// single-pass prefilter — a straight-line run of Char instructions with no
// alternative path, i.e. a substring that must appear literally in the
// input for the pattern to match at all.
package literal

import "github.com/coregx/rex/prog"

// RequiredPrefix returns the longest run of exact-match characters that
// every successful match of p must contain at its very first matched
// position, and whether such a run exists. Case-insensitive runs (IChar)
// are not extracted: a case-folded literal complicates Aho-Corasick
// construction enough that it isn't worth it for a prefilter whose only
// job is to rule out obvious non-matches quickly.
func RequiredPrefix(p *prog.Program) (string, bool) {
	pc := entryPoint(p)

	var runes []rune
	for pc >= 0 && pc < len(p.Insts) {
		in := p.Insts[pc]
		if in.Op != prog.OpChar {
			break
		}
		runes = append(runes, in.Rune)
		pc++
	}
	if len(runes) == 0 {
		return "", false
	}
	return string(runes), true
}

// entryPoint skips the embedded `.*?` search prefix (for an unanchored
// program) and every leading zero-width, single-successor instruction
// (Save, anchors, word boundary), returning the first instruction that
// could consume input.
func entryPoint(p *prog.Program) int {
	pc := 0
	if !p.Anchored {
		// Unanchored layout: Split, AnyChar, Jump, Save(0), <body>.
		pc = 3
	}
	for pc < len(p.Insts) {
		switch p.Insts[pc].Op {
		case prog.OpSave, prog.OpBOT, prog.OpEOT, prog.OpBOL, prog.OpEOL, prog.OpWordBoundary:
			pc++
		default:
			return pc
		}
	}
	return pc
}
