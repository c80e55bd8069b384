// Package parse implements the recursive-descent compiler that lowers a
// pattern string directly into a prog.Program: no intermediate AST.
//
// Grammar (priority low to high):
//
//	regex       := concat ('|' concat)*
//	concat      := rep*
//	rep         := atom ( '*' '?'? | '+' '?'? | '?' '?'? | '{' m (',' n?)? '}' )?
//	atom        := '(' group-body ')' | '[' class ']' | '.' | escape | '^' | '$' | CHAR
//	group-body  := ('?' group-flags)? regex
//
// A `{m,n}` repeat is always greedy; a `?` right after its closing `}` is
// compiled as a literal character.
//
// Instructions are appended to a single growing []prog.Inst; forward
// references (quantifier splits, the pending half of an alternation) are
// resolved by reserving a placeholder and patching it once its target is
// known, following prog.Program's "targets are instruction indices" model
// (spec's own recommended rewrite strategy over a byte-offset fixup scan).
// The places where an already-compiled fragment must gain a new predecessor —
// alternation, `*`, `?`, and the zero-minimum case of a bounded repeat — use
// insertAt, which performs exactly that fixup scan over every instruction
// reference (see insertAt for which references it shifts).
package parse

import (
	"github.com/coregx/rex/internal/ascii"
	"github.com/coregx/rex/prog"
	"github.com/coregx/rex/span"
)

// flags tracks the case-insensitive/multiline state in effect, scoped to
// nested groups via a stack.
type flags struct {
	fold  bool
	multi bool
}

type parser struct {
	src   []rune
	pos   int
	out   []prog.Inst
	ncap  int
	flags []flags
}

// Parse compiles pattern into a Program. Unless the pattern begins with an
// anchor that forces the search to start at true input position 0 (`^` in
// non-multiline mode), the program is prefixed with an implicit lazy
// `.*?` so that Program.Anchored is false and callers may search forward
// from any start offset.
func Parse(pattern string) (*prog.Program, error) {
	p := &parser{src: []rune(pattern), flags: []flags{{}}}

	// Reserve the implicit unanchored-search prefix: Split, AnyChar, Jump.
	prefixSplit := p.emit(prog.Inst{Op: prog.OpSplit})
	p.emit(prog.Inst{Op: prog.OpAnyChar})
	p.emit(prog.Inst{Op: prog.OpJump, Target: prefixSplit})

	bodyStart := len(p.out)
	p.emit(prog.Inst{Op: prog.OpSave, Slot: 0})

	if _, err := p.parseAlt(nil); err != nil {
		return nil, err
	}
	if !p.eof() {
		// Only an unmatched ')' can remain unconsumed here.
		return nil, newError(ErrUnmatchedCloseParen, p.pos)
	}

	p.emit(prog.Inst{Op: prog.OpSave, Slot: 1})
	p.emit(prog.Inst{Op: prog.OpMatch})

	pr := &prog.Program{NumCaptures: p.ncap}

	if p.out[bodyStart+1].Op == prog.OpBOT {
		// First real instruction (past Save 0) is BOT: strip the prefix and
		// shift every reference down by the 3 removed slots.
		shift := -bodyStart
		body := p.out[bodyStart:]
		for i := range body {
			shiftInst(&body[i], 0, shift)
		}
		pr.Insts = body
		pr.Anchored = true
	} else {
		p.out[prefixSplit] = prog.Inst{Op: prog.OpSplit, Pref: bodyStart, Sec: prefixSplit + 1}
		pr.Insts = p.out
	}

	prog.Number(pr)
	if err := prog.Validate(pr); err != nil {
		return nil, err
	}
	return pr, nil
}

// --- low-level stream helpers -----------------------------------------

func (p *parser) emit(in prog.Inst) int {
	p.out = append(p.out, in)
	return len(p.out) - 1
}

// shiftInst adds delta to every instruction-index reference held by in that
// is >= threshold.
func shiftInst(in *prog.Inst, threshold, delta int) {
	switch in.Op {
	case prog.OpJump:
		if in.Target >= threshold {
			in.Target += delta
		}
	case prog.OpSplit:
		if in.Pref >= threshold {
			in.Pref += delta
		}
		if in.Sec >= threshold {
			in.Sec += delta
		}
	case prog.OpLookAround:
		if in.JumpLoc >= threshold {
			in.JumpLoc += delta
		}
	}
}

// insertAt splices in at index idx, shifting every existing instruction at
// or after idx down by one slot. References held by the moved instructions
// are fixed up if they pointed at or past idx; references held by the
// instructions before idx are fixed up only if they pointed past idx, so a
// reference to idx itself now reaches the inserted instruction.
func (p *parser) insertAt(idx int, in prog.Inst) {
	p.out = append(p.out, prog.Inst{})
	copy(p.out[idx+1:], p.out[idx:])
	p.out[idx] = in
	for i := range p.out {
		switch {
		case i < idx:
			shiftInst(&p.out[i], idx+1, 1)
		case i > idx:
			shiftInst(&p.out[i], idx, 1)
		}
	}
}

// cloneRange duplicates the self-contained instruction fragment [start,end)
// onto the end of the stream, shifting its internal references by the
// distance moved. The fragment must not be referenced by anything outside
// itself, which holds for any fragment compiled by parseAtom before further
// instructions were appended.
func (p *parser) cloneRange(start, end int) int {
	delta := len(p.out) - start
	for i := start; i < end; i++ {
		clone := p.out[i]
		shiftInst(&clone, start, delta)
		p.out = append(p.out, clone)
	}
	return len(p.out) - (end - start)
}

// --- cursor helpers ------------------------------------------------------

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune {
	if p.eof() {
		return -1
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(off int) rune {
	if p.pos+off >= len(p.src) {
		return -1
	}
	return p.src[p.pos+off]
}

func (p *parser) advance() rune {
	r := p.src[p.pos]
	p.pos++
	return r
}

func (p *parser) eat(r rune) bool {
	if p.peek() == r {
		p.pos++
		return true
	}
	return false
}

func (p *parser) topFlags() flags { return p.flags[len(p.flags)-1] }

func (p *parser) pushFlags(f flags) { p.flags = append(p.flags, f) }

func (p *parser) popFlags() { p.flags = p.flags[:len(p.flags)-1] }

// --- grammar: regex := concat ('|' concat)* -------------------------------

// parseAlt parses one `concat ('|' concat)*` level. If branchLens is
// non-nil, the fixed length of every top-level branch (in source order) is
// appended to it; this is how lookbehind validates that all of its
// alternatives agree on length.
//
// Returns the combined fixed length of the whole alternation: a single
// value shared by every branch, or -1 if any branch is variable-length or
// the branches disagree.
func (p *parser) parseAlt(branchLens *[]int) (int, error) {
	start := len(p.out)
	lenA, err := p.parseConcat()
	if err != nil {
		return 0, err
	}
	if branchLens != nil {
		*branchLens = append(*branchLens, lenA)
	}
	if p.peek() != '|' {
		return lenA, nil
	}
	p.pos++ // consume '|'

	p.insertAt(start, prog.Inst{Op: prog.OpSplit})
	aStart := start + 1
	jumpIdx := p.emit(prog.Inst{Op: prog.OpJump})
	restStart := len(p.out)

	lenB, err := p.parseAlt(branchLens)
	if err != nil {
		return 0, err
	}
	finalEnd := len(p.out)

	p.out[start] = prog.Inst{Op: prog.OpSplit, Pref: aStart, Sec: restStart}
	p.out[jumpIdx] = prog.Inst{Op: prog.OpJump, Target: finalEnd}

	if lenA == -1 || lenB == -1 || lenA != lenB {
		return -1, nil
	}
	return lenA, nil
}

// concatStop reports whether the current position ends a concat: end of
// pattern, the next branch of an enclosing alternation, or a group close.
func (p *parser) concatStop() bool {
	if p.eof() {
		return true
	}
	switch p.peek() {
	case '|', ')':
		return true
	}
	return false
}

func (p *parser) parseConcat() (int, error) {
	total := 0
	for !p.concatStop() {
		n, err := p.parseRep()
		if err != nil {
			return 0, err
		}
		if total == -1 || n == -1 {
			total = -1
		} else {
			total += n
		}
	}
	return total, nil
}

// --- grammar: rep := atom quantifier? -------------------------------------

func (p *parser) parseRep() (int, error) {
	atomStart := len(p.out)
	unit, err := p.parseAtom()
	if err != nil {
		return 0, err
	}
	atomEnd := len(p.out)

	switch p.peek() {
	case '*':
		p.pos++
		lazy := p.eat('?')
		p.compileStar(atomStart, atomEnd, lazy)
		return -1, nil
	case '+':
		p.pos++
		lazy := p.eat('?')
		p.compilePlus(atomStart, lazy)
		return -1, nil
	case '?':
		p.pos++
		lazy := p.eat('?')
		p.compileOpt(atomStart, atomEnd, lazy)
		return -1, nil
	case '{':
		mark := p.pos
		min, max, ok, err := p.tryParseBounds()
		if err != nil {
			return 0, err
		}
		if !ok {
			// Not a valid {...} repeat syntax: '{' is a literal here.
			p.pos = mark
			return unit, nil
		}
		return p.applyBoundedRepeat(atomStart, atomEnd, unit, min, max)
	}
	return unit, nil
}

// compileStar wraps [atomStart,atomEnd) in a loop: `Split pref,sec; <atom>;
// Jump back`. Greedy prefers entering the loop; lazy prefers exiting.
func (p *parser) compileStar(atomStart, atomEnd int, lazy bool) {
	p.insertAt(atomStart, prog.Inst{Op: prog.OpSplit})
	bodyStart := atomStart + 1
	jumpIdx := p.emit(prog.Inst{Op: prog.OpJump, Target: atomStart})
	after := jumpIdx + 1
	if lazy {
		p.out[atomStart] = prog.Inst{Op: prog.OpSplit, Pref: after, Sec: bodyStart}
	} else {
		p.out[atomStart] = prog.Inst{Op: prog.OpSplit, Pref: bodyStart, Sec: after}
	}
}

// compilePlus appends `Split loop,next` (greedy) or `Split next,loop` (lazy)
// after an atom already compiled at [atomStart, ..); loop is atomStart.
func (p *parser) compilePlus(atomStart int, lazy bool) {
	splitIdx := p.emit(prog.Inst{})
	next := splitIdx + 1
	if lazy {
		p.out[splitIdx] = prog.Inst{Op: prog.OpSplit, Pref: next, Sec: atomStart}
	} else {
		p.out[splitIdx] = prog.Inst{Op: prog.OpSplit, Pref: atomStart, Sec: next}
	}
}

// compileOpt wraps [atomStart,atomEnd) as `Split <atom>,after` (greedy) or
// `Split after,<atom>` (lazy).
func (p *parser) compileOpt(atomStart, atomEnd int, lazy bool) {
	p.insertAt(atomStart, prog.Inst{Op: prog.OpSplit})
	bodyStart := atomStart + 1
	after := len(p.out)
	if lazy {
		p.out[atomStart] = prog.Inst{Op: prog.OpSplit, Pref: after, Sec: bodyStart}
	} else {
		p.out[atomStart] = prog.Inst{Op: prog.OpSplit, Pref: bodyStart, Sec: after}
	}
}

// tryParseBounds parses the body of a `{...}` repeat after the atom, not
// consuming anything and reporting ok=false if what follows '{' is not a
// valid bound (so the caller can fall back to treating '{' literally).
func (p *parser) tryParseBounds() (min, max int, ok bool, err error) {
	start := p.pos
	p.pos++ // consume '{'

	digits := func() (int, bool) {
		s := p.pos
		for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
			p.pos++
		}
		if p.pos == s {
			return 0, false
		}
		n := 0
		for _, r := range p.src[s:p.pos] {
			n = n*10 + int(r-'0')
		}
		return n, true
	}

	m, gotMin := digits()
	if !gotMin {
		if p.peek() == ',' {
			// `{,n}` form: missing minimum is a hard parse error, not a
			// fallback to a literal '{'.
			return 0, 0, false, newError(ErrMissingRepeatMin, start)
		}
		p.pos = start
		return 0, 0, false, nil
	}

	n := m
	if p.eat(',') {
		if v, gotMax := digits(); gotMax {
			n = v
		} else {
			n = -1 // `{m,}`: unbounded
		}
	}

	if !p.eat('}') {
		p.pos = start
		return 0, 0, false, newError(ErrUnclosedRepeat, start)
	}
	if n != -1 && m > n {
		return 0, 0, false, newError(ErrRepeatMinGreaterMax, start)
	}
	return m, n, true, nil
}

// applyBoundedRepeat expands the already-compiled atom [atomStart,atomEnd)
// (which contributes `unit` to the fixed length, or -1 if variable) into
// `{min,max}` copies. max == -1 means unbounded (`{min,}`).
func (p *parser) applyBoundedRepeat(atomStart, atomEnd, unit, min, max int) (int, error) {
	if min == 0 && max == 0 {
		p.out = p.out[:atomStart]
		return 0, nil
	}

	templateMandatory := min >= 1
	if templateMandatory {
		for i := 1; i < min; i++ {
			p.cloneRange(atomStart, atomEnd)
		}
	}

	if max == -1 {
		if templateMandatory {
			cloneStart := p.cloneRange(atomStart, atomEnd)
			cloneEnd := cloneStart + (atomEnd - atomStart)
			p.compileStar(cloneStart, cloneEnd, false)
		} else {
			p.compileStar(atomStart, atomEnd, false)
		}
		return -1, nil
	}

	optional := max - min
	if optional == 0 {
		if unit == -1 {
			return -1, nil
		}
		return unit * min, nil
	}

	if !templateMandatory {
		// {0,n}: the template itself becomes the first optional copy.
		p.insertAt(atomStart, prog.Inst{Op: prog.OpSplit})
		bodyStart := atomStart + 1
		bodyEnd := atomEnd + 1
		p.out[atomStart] = prog.Inst{Op: prog.OpSplit, Pref: bodyStart, Sec: bodyEnd}
		optional--
		atomStart, atomEnd = bodyStart, bodyEnd
	}

	for i := 0; i < optional; i++ {
		splitIdx := p.emit(prog.Inst{})
		copyStart := p.cloneRange(atomStart, atomEnd)
		copyEnd := copyStart + (atomEnd - atomStart)
		sec := len(p.out)
		p.out[splitIdx] = prog.Inst{Op: prog.OpSplit, Pref: copyStart, Sec: sec}
		atomStart, atomEnd = copyStart, copyEnd
	}

	return -1, nil
}

// --- grammar: atom ---------------------------------------------------------

// parseAtom compiles one atom and returns its fixed code-point length, or
// -1 if the atom (a group) can match a variable number of code points.
func (p *parser) parseAtom() (int, error) {
	switch p.peek() {
	case '(':
		return p.parseGroup()
	case '[':
		return p.parseClass()
	case '.':
		p.pos++
		p.emit(prog.Inst{Op: prog.OpAnyChar})
		return 1, nil
	case '^':
		p.pos++
		if p.topFlags().multi {
			p.emit(prog.Inst{Op: prog.OpBOL})
		} else {
			p.emit(prog.Inst{Op: prog.OpBOT})
		}
		return 0, nil
	case '$':
		p.pos++
		if p.topFlags().multi {
			p.emit(prog.Inst{Op: prog.OpEOL})
		} else {
			p.emit(prog.Inst{Op: prog.OpEOT})
		}
		return 0, nil
	case '\\':
		return p.parseEscape()
	default:
		r := p.advance()
		p.emitChar(r)
		return 1, nil
	}
}

// emitChar emits Char or, under the case-insensitive flag, IChar with r
// lowered.
func (p *parser) emitChar(r rune) {
	if p.topFlags().fold {
		p.emit(prog.Inst{Op: prog.OpIChar, Rune: ascii.ToLower(r)})
	} else {
		p.emit(prog.Inst{Op: prog.OpChar, Rune: r})
	}
}

// parseGroup parses `(...)`, `(?:...)`, `(?flags)`, `(?flags:...)`, and the
// four lookaround forms.
func (p *parser) parseGroup() (int, error) {
	openPos := p.pos
	p.pos++ // consume '('

	if p.peek() != '?' {
		idx := p.ncap + 1
		p.ncap++
		p.emit(prog.Inst{Op: prog.OpSave, Slot: 2 * idx})
		p.pushFlags(p.topFlags())
		length, err := p.parseAlt(nil)
		p.popFlags()
		if err != nil {
			return 0, err
		}
		if !p.eat(')') {
			return 0, newError(ErrUnclosedGroup, openPos)
		}
		p.emit(prog.Inst{Op: prog.OpSave, Slot: 2*idx + 1})
		return length, nil
	}

	p.pos++ // consume '?'
	switch p.peek() {
	case ':':
		p.pos++
		p.pushFlags(p.topFlags())
		length, err := p.parseAlt(nil)
		p.popFlags()
		if err != nil {
			return 0, err
		}
		if !p.eat(')') {
			return 0, newError(ErrUnclosedGroup, openPos)
		}
		return length, nil
	case '=', '!':
		positive := p.peek() == '='
		p.pos++
		return p.parseLookaround(openPos, true, positive)
	case '<':
		if p.peekAt(1) == '=' || p.peekAt(1) == '!' {
			positive := p.peekAt(1) == '='
			p.pos += 2
			return p.parseLookaround(openPos, false, positive)
		}
		return 0, newError(ErrInvalidLookaroundIntroducer, openPos)
	default:
		return p.parseInlineFlags(openPos)
	}
}

// parseInlineFlags handles `(?flags)` (applies to the remainder of the
// enclosing scope) and `(?flags:...)` (a non-capturing group scoped to
// flags).
func (p *parser) parseInlineFlags(openPos int) (int, error) {
	f := p.topFlags()
	off := false
	sawFlag := false
	for {
		switch p.peek() {
		case 'i':
			p.pos++
			f.fold = !off
			sawFlag = true
		case 'm':
			p.pos++
			f.multi = !off
			sawFlag = true
		case '-':
			p.pos++
			off = true
		case ':':
			if !sawFlag && !off {
				return 0, newError(ErrInvalidLookaroundIntroducer, openPos)
			}
			p.pos++
			p.pushFlags(f)
			length, err := p.parseAlt(nil)
			p.popFlags()
			if err != nil {
				return 0, err
			}
			if !p.eat(')') {
				return 0, newError(ErrUnclosedGroup, openPos)
			}
			return length, nil
		case ')':
			if !sawFlag {
				return 0, newError(ErrUnknownGroupFlag, openPos)
			}
			p.pos++
			// Bare (?flags): apply for the remainder of the enclosing scope.
			p.flags[len(p.flags)-1] = f
			return 0, nil
		default:
			return 0, newError(ErrUnknownGroupFlag, p.pos)
		}
	}
}

// parseLookaround compiles `(?=X)`, `(?!X)`, `(?<=X)`, `(?<!X)`.
func (p *parser) parseLookaround(openPos int, ahead, positive bool) (int, error) {
	headerIdx := p.emit(prog.Inst{Op: prog.OpLookAround, Ahead: ahead, Positive: positive})

	p.pushFlags(p.topFlags())
	var lens []int
	_, err := p.parseAlt(&lens)
	p.popFlags()
	if err != nil {
		return 0, err
	}
	if !p.eat(')') {
		return 0, newError(ErrUnclosedGroup, openPos)
	}

	distance := 0
	if !ahead {
		if len(lens) == 0 || lens[0] == -1 {
			return 0, newError(ErrNonFixedLengthLookbehind, openPos)
		}
		for _, l := range lens {
			if l == -1 {
				return 0, newError(ErrNonFixedLengthLookbehind, openPos)
			}
			if l != lens[0] {
				return 0, newError(ErrUnequalLengthLookbehindAlternatives, openPos)
			}
		}
		distance = lens[0]
	}

	p.emit(prog.Inst{Op: prog.OpMatch})
	jumpLoc := len(p.out)
	p.out[headerIdx].JumpLoc = jumpLoc
	p.out[headerIdx].Distance = distance
	return 0, nil
}

// parseEscape handles `\d \D \w \W \s \b \B \a \f \t \n \r \v` and the
// "any other escape is a literal" fallback, outside a character class.
func (p *parser) parseEscape() (int, error) {
	p.pos++ // consume '\\'
	if p.eof() {
		return 0, newError(ErrTrailingBackslash, p.pos)
	}
	r := p.advance()
	switch r {
	case 'd':
		p.emitSet(digitSet())
		return 1, nil
	case 'D':
		p.emitSet(digitSet().Negate())
		return 1, nil
	case 'w':
		p.emitSet(wordSet())
		return 1, nil
	case 'W':
		p.emitSet(wordSet().Negate())
		return 1, nil
	case 's':
		p.emitSet(spaceSet())
		return 1, nil
	case 'b':
		p.emit(prog.Inst{Op: prog.OpWordBoundary, Positive: true})
		return 0, nil
	case 'B':
		p.emit(prog.Inst{Op: prog.OpWordBoundary, Positive: false})
		return 0, nil
	case 'a':
		p.emitChar('\a')
		return 1, nil
	case 'f':
		p.emitChar('\f')
		return 1, nil
	case 't':
		p.emitChar('\t')
		return 1, nil
	case 'n':
		p.emitChar('\n')
		return 1, nil
	case 'r':
		p.emitChar('\r')
		return 1, nil
	case 'v':
		p.emitChar('\v')
		return 1, nil
	default:
		p.emitChar(r)
		return 1, nil
	}
}

func digitSet() *span.Set {
	s := span.NewSet()
	s.Add('0', '9')
	return s
}

func wordSet() *span.Set {
	s := span.NewSet()
	s.Add('a', 'z')
	s.Add('A', 'Z')
	s.Add('0', '9')
	s.Add('_', '_')
	return s
}

func spaceSet() *span.Set {
	s := span.NewSet()
	for _, r := range []rune{' ', '\t', '\n', '\r', '\f', '\v'} {
		s.Add(r, r)
	}
	return s
}

// emitSet compiles a span.Set as a single atom: a CharBitmap if every range
// is ASCII, otherwise a chain of `Split/CharRange/Jump` per range.
func (p *parser) emitSet(s *span.Set) {
	fold := p.topFlags().fold
	if s.IsASCIIOnly() {
		var bm prog.Bitmap
		for _, r := range s.Ranges() {
			for c := r.Lo; c <= r.Hi; c++ {
				bm.Set(c)
				if fold {
					bm.Set(ascii.ToLower(c))
					bm.Set(ascii.ToUpper(c))
				}
			}
		}
		p.emit(prog.Inst{Op: prog.OpCharBitmap, Bitmap: bm})
		return
	}
	p.emitRangeChain(s.Ranges(), fold)
}

// emitRangeChain compiles a sequence of ranges as `Split r1,rest; <r1>;
// Jump end; rest: Split r2,rest2; ...` so that any one of the ranges
// matches, short-circuiting at the first one that applies.
func (p *parser) emitRangeChain(ranges []span.Range, fold bool) {
	if len(ranges) == 0 {
		// An empty set (e.g. a fully negated class) can never match: an
		// all-zero bitmap rejects every byte without needing a self-loop or
		// an out-of-range reference.
		p.emit(prog.Inst{Op: prog.OpCharBitmap})
		return
	}
	var jumps []int
	for i, r := range ranges {
		last := i == len(ranges)-1
		var splitIdx int
		if !last {
			splitIdx = p.emit(prog.Inst{})
		}
		rangeStart := len(p.out)
		if fold {
			p.emit(prog.Inst{Op: prog.OpICharRange, Lo: ascii.ToLower(r.Lo), Hi: ascii.ToLower(r.Hi)})
		} else {
			p.emit(prog.Inst{Op: prog.OpCharRange, Lo: r.Lo, Hi: r.Hi})
		}
		if !last {
			jumps = append(jumps, p.emit(prog.Inst{}))
			rest := len(p.out)
			p.out[splitIdx] = prog.Inst{Op: prog.OpSplit, Pref: rangeStart, Sec: rest}
		}
	}
	end := len(p.out)
	for _, j := range jumps {
		p.out[j] = prog.Inst{Op: prog.OpJump, Target: end}
	}
}

// --- character class: '[' '^'? item+ ']' ----------------------------------

func (p *parser) parseClass() (int, error) {
	openPos := p.pos
	p.pos++ // consume '['

	negate := p.eat('^')
	set := span.NewSet()
	first := true
	for {
		if p.eof() {
			return 0, newError(ErrUnclosedCharClass, openPos)
		}
		if p.peek() == ']' && !first {
			p.pos++
			break
		}
		first = false
		if err := p.parseClassItem(set); err != nil {
			return 0, err
		}
	}

	if negate {
		set = set.Negate()
	}
	p.emitSet(set)
	return 1, nil
}

func (p *parser) parseClassItem(set *span.Set) error {
	lo, err := p.parseClassChar(set)
	if err != nil {
		return err
	}
	if lo == -1 {
		// A class escape (\d, \s, ...) already added its spans.
		return nil
	}
	if p.peek() == '-' && p.peekAt(1) != ']' && p.peekAt(1) != -1 {
		p.pos++ // consume '-'
		hi, err := p.parseClassChar(set)
		if err != nil {
			return err
		}
		if hi == -1 {
			// `a-\d` etc: treat '-' and the escape as separate items.
			set.Add(lo, lo)
			set.Add('-', '-')
			return nil
		}
		set.Add(lo, hi)
		return nil
	}
	set.Add(lo, lo)
	return nil
}

// parseClassChar returns the rune for a literal or single-char escape, or
// -1 if it parsed a class-level escape (\d \D \w \W \s) that already added
// its own spans directly to set.
func (p *parser) parseClassChar(set *span.Set) (rune, error) {
	if p.peek() != '\\' {
		return p.advance(), nil
	}
	p.pos++
	if p.eof() {
		return 0, newError(ErrTrailingBackslash, p.pos)
	}
	r := p.advance()
	switch r {
	case 'd':
		addAll(set, digitSet())
		return -1, nil
	case 'D':
		addAll(set, digitSet().Negate())
		return -1, nil
	case 'w':
		addAll(set, wordSet())
		return -1, nil
	case 'W':
		addAll(set, wordSet().Negate())
		return -1, nil
	case 's':
		addAll(set, spaceSet())
		return -1, nil
	case 'a':
		return '\a', nil
	case 'f':
		return '\f', nil
	case 't':
		return '\t', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 'v':
		return '\v', nil
	default:
		return r, nil
	}
}

func addAll(dst *span.Set, src *span.Set) {
	for _, r := range src.Ranges() {
		dst.AddRange(r)
	}
}
