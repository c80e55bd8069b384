// Package rex is a regular expression engine built on a shared compiled
// bytecode program and two cooperating execution strategies: a lockstep
// (Pike VM) engine that runs every candidate thread in parallel for
// guaranteed O(states x input length) matching, and a recursive
// backtracking engine that additionally supports lookaround assertions at
// the cost of potentially exponential running time on pathological
// patterns.
//
// Pattern syntax is Perl-like: literals, `.`, character classes `[...]`,
// anchors `^ $`, the escapes `\d \D \w \W \s \b \B`, quantifiers
// `* + ?` with an optional lazy `?` suffix and the always-greedy
// `{m} {m,} {m,n}`, alternation `|`,
// grouping `(...)` and `(?:...)`, inline flags `(?i) (?m)`, and lookaround
// `(?=...) (?!...) (?<=...) (?<!...)`.
//
// Basic usage:
//
//	re, err := rex.Compile(`\d+-\d+`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if re.MatchString("order 12-345") {
//	    fmt.Println(re.FindString("order 12-345")) // "12-345"
//	}
package rex

import (
	"github.com/coregx/rex/backtrack"
	"github.com/coregx/rex/literal"
	"github.com/coregx/rex/lockstep"
	"github.com/coregx/rex/parse"
	"github.com/coregx/rex/prefilter"
	"github.com/coregx/rex/prog"
)

// Regex is a compiled pattern, safe for concurrent use by multiple
// goroutines for every method except those explicitly noted otherwise
// (there are none): each search allocates its own engine state.
type Regex struct {
	pattern  string
	config   Config
	program  *prog.Program
	lockable bool // whether the lockstep engine can run this program
	pf       *prefilter.Literal
}

// Compile compiles pattern with DefaultConfig, reusing the single-entry
// compile cache when pattern was the most recently compiled pattern.
func Compile(pattern string) (*Regex, error) {
	if re, ok := cacheLookup(pattern, DefaultConfig()); ok {
		return re, nil
	}
	re, err := CompileWithConfig(pattern, DefaultConfig())
	if err != nil {
		return nil, err
	}
	cacheStore(pattern, DefaultConfig(), re)
	return re, nil
}

// MustCompile is like Compile but panics on error; intended for patterns
// known to be valid at init time.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// CompileWithConfig compiles pattern with an explicit Config, bypassing
// the compile cache (which only ever remembers a DefaultConfig compile).
func CompileWithConfig(pattern string, config Config) (*Regex, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	p, err := parse.Parse(pattern)
	if err != nil {
		if pe, ok := err.(*parse.Error); ok {
			return nil, &ParseError{Pattern: pattern, Err: pe}
		}
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	re := &Regex{
		pattern:  pattern,
		config:   config,
		program:  p,
		lockable: !p.HasLookaround && !config.ForceBacktrack,
	}

	if config.EnablePrefilter {
		if prefix, ok := literal.RequiredPrefix(p); ok && len(prefix) >= config.MinLiteralLen {
			pf, err := prefilter.Build(prefix)
			if err == nil {
				re.pf = pf
			}
		}
	}

	return re, nil
}

// String returns the source pattern re was compiled from.
func (re *Regex) String() string { return re.pattern }

// NumSubexp returns the number of explicit capture groups.
func (re *Regex) NumSubexp() int { return re.program.NumCaptures }

// findFrom runs one search starting no earlier than `at` (a rune offset
// into runes), selecting the lockstep engine when the program allows it
// and the backtracking engine otherwise (always, for lookaround
// patterns). The returned slots are rune offsets into runes, not byte
// offsets — callers exposing a result publicly must translate them with
// toByteSlots first.
func (re *Regex) findFrom(runes []rune, at int) (bool, []int, error) {
	scanStart := at
	if re.pf != nil {
		off, ok := re.pf.Find(runes, at)
		if !ok {
			return false, nil, nil
		}
		scanStart = off
	}

	if re.lockable {
		eng, err := lockstep.New(re.program)
		if err != nil {
			// Can only be ErrUnsupported, which re.lockable already rules out.
			return false, nil, err
		}
		ok, slots := eng.Find(runes, scanStart)
		return ok, slots, nil
	}

	eng := backtrack.New(re.program)
	eng.StepLimit = re.config.BacktrackStepLimit
	return eng.Find(runes, scanStart)
}

// MatchString reports whether s contains any match of re.
func (re *Regex) MatchString(s string) bool {
	ok, _, _ := re.findFrom([]rune(s), 0)
	return ok
}

// Match reports whether b contains any match of re.
func (re *Regex) Match(b []byte) bool {
	return re.MatchString(string(b))
}

// FindStringIndex returns the byte-offset span of the leftmost match in
// s, or nil if there is none.
func (re *Regex) FindStringIndex(s string) []int {
	runes, offs := decodeRunesWithByteOffsets(s)
	ok, slots, _ := re.findFrom(runes, 0)
	if !ok {
		return nil
	}
	bs := toByteSlots(offs, slots)
	return []int{bs[0], bs[1]}
}

// FindString returns the leftmost match in s, or "" if there is none.
// Use FindStringSubmatch to distinguish "no match" from "matched empty
// string".
func (re *Regex) FindString(s string) string {
	idx := re.FindStringIndex(s)
	if idx == nil {
		return ""
	}
	return s[idx[0]:idx[1]]
}

// FindStringSubmatch returns the leftmost match of re in s, or nil if
// there is none.
func (re *Regex) FindStringSubmatch(s string) *Match {
	runes, offs := decodeRunesWithByteOffsets(s)
	ok, slots, _ := re.findFrom(runes, 0)
	if !ok {
		return nil
	}
	return newMatch(s, toByteSlots(offs, slots))
}

// FindAllStringSubmatch returns every successive non-overlapping match of
// re in s, in order. If n >= 0, at most n matches are returned.
func (re *Regex) FindAllStringSubmatch(s string, n int) []*Match {
	if n == 0 {
		return nil
	}
	runes, offs := decodeRunesWithByteOffsets(s)
	var out []*Match
	pos := 0
	for pos <= len(runes) {
		ok, slots, _ := re.findFrom(runes, pos)
		if !ok {
			break
		}
		out = append(out, newMatch(s, toByteSlots(offs, slots)))
		if n > 0 && len(out) >= n {
			break
		}
		if slots[1] > slots[0] {
			pos = slots[1]
		} else {
			pos = slots[1] + 1
		}
	}
	return out
}

// FindAllString is FindAllStringSubmatch reduced to the whole-match text.
func (re *Regex) FindAllString(s string, n int) []string {
	matches := re.FindAllStringSubmatch(s, n)
	if matches == nil {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.String()
	}
	return out
}

// FindSubmatchN is like FindStringSubmatch but writes capture slots into a
// caller-chosen fixed-size array type A instead of allocating a Match on
// the heap; groups beyond A's capacity are dropped.
func FindSubmatchN[A slotArray](re *Regex, s string) (MatchN[A], bool) {
	runes, offs := decodeRunesWithByteOffsets(s)
	ok, slots, _ := re.findFrom(runes, 0)
	if !ok {
		var zero MatchN[A]
		return zero, false
	}
	return newMatchN[A](toByteSlots(offs, slots)), true
}
