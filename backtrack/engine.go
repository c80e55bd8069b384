// Package backtrack implements the recursive backtracking engine: a
// straightforward depth-first walk of the program that tries a Split's
// Pref branch before its Sec branch and backtracks on failure. Unlike
// lockstep, it supports lookaround (it can freely re-enter the program at
// an arbitrary position to evaluate an assertion) at the cost of
// potentially exponential running time on pathological patterns, bounded
// here by a step counter.
//
// Grounded on the teacher's nfa.BoundedBacktracker
// (github.com/coregx/coregex/nfa/backtrack.go): the recursive per-opcode
// dispatch and greedy-left/lazy-right branch ordering carry over directly;
// the teacher's (state, position) visited bitset is dropped; over this
// program's index-addressed instructions a Save/backtrack discipline
// (capture slots are restored on the failing branch, not memoized) is the
// mechanism that makes repeated states at the same position behave
// correctly, and the teacher's bitset existed only to bound the otherwise
// still-exponential byte-range NFA, a concern this engine instead handles
// with an explicit step budget.
package backtrack

import (
	"errors"

	"github.com/coregx/rex/internal/ascii"
	"github.com/coregx/rex/prog"
)

// ErrStepLimitExceeded is returned when a search aborts after exhausting
// its configured step budget, most often on a pathological pattern like
// nested unbounded quantifiers against a long non-matching input.
var ErrStepLimitExceeded = errors.New("backtrack: step limit exceeded")

// DefaultStepLimit is used when Engine.StepLimit is left at zero.
const DefaultStepLimit = 10_000_000

// Engine runs a Program with recursive backtracking. Not safe for
// concurrent use; callers running searches concurrently should keep one
// Engine per goroutine.
type Engine struct {
	prog *prog.Program

	// StepLimit caps the number of execute calls a single Find performs.
	// Zero means DefaultStepLimit.
	StepLimit int

	input []rune
	caps  []int
	steps int
}

// New builds an Engine for p.
func New(p *prog.Program) *Engine {
	return &Engine{prog: p}
}

// Find attempts a match starting the scan at start. It returns the capture
// slots on success (slots[0], slots[1] are the whole match's bounds), or
// ErrStepLimitExceeded if the step budget was exhausted before a verdict
// was reached.
func (e *Engine) Find(input []rune, start int) (bool, []int, error) {
	limit := e.StepLimit
	if limit == 0 {
		limit = DefaultStepLimit
	}

	e.input = input
	e.caps = make([]int, e.prog.SlotCount())
	for i := range e.caps {
		e.caps[i] = -1
	}
	e.steps = 0

	ok, err := e.execute(0, start, limit)
	if err != nil {
		return false, nil, err
	}
	if !ok {
		return false, nil, nil
	}
	out := make([]int, len(e.caps))
	copy(out, e.caps)
	return true, out, nil
}

// execute walks the program depth-first from pc at input position pos.
func (e *Engine) execute(pc, pos, limit int) (bool, error) {
	e.steps++
	if e.steps > limit {
		return false, ErrStepLimitExceeded
	}

	in := e.prog.Insts[pc]
	switch in.Op {
	case prog.OpChar:
		if pos < len(e.input) && e.input[pos] == in.Rune {
			return e.execute(pc+1, pos+1, limit)
		}
		return false, nil
	case prog.OpIChar:
		if pos < len(e.input) && ascii.ToLower(e.input[pos]) == in.Rune {
			return e.execute(pc+1, pos+1, limit)
		}
		return false, nil
	case prog.OpAnyChar:
		if pos < len(e.input) {
			return e.execute(pc+1, pos+1, limit)
		}
		return false, nil
	case prog.OpCharRange:
		if pos < len(e.input) && e.input[pos] >= in.Lo && e.input[pos] <= in.Hi {
			return e.execute(pc+1, pos+1, limit)
		}
		return false, nil
	case prog.OpICharRange:
		if pos < len(e.input) {
			if r := ascii.ToLower(e.input[pos]); r >= in.Lo && r <= in.Hi {
				return e.execute(pc+1, pos+1, limit)
			}
		}
		return false, nil
	case prog.OpCharBitmap:
		if pos < len(e.input) {
			r := e.input[pos]
			if r >= 0 && r < 128 && in.Bitmap.Test(r) {
				return e.execute(pc+1, pos+1, limit)
			}
		}
		return false, nil
	case prog.OpSave:
		old := e.caps[in.Slot]
		e.caps[in.Slot] = pos
		ok, err := e.execute(pc+1, pos, limit)
		if err != nil {
			return false, err
		}
		if !ok {
			e.caps[in.Slot] = old
			return false, nil
		}
		return true, nil
	case prog.OpJump:
		return e.execute(in.Target, pos, limit)
	case prog.OpSplit:
		ok, err := e.execute(in.Pref, pos, limit)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		return e.execute(in.Sec, pos, limit)
	case prog.OpMatch:
		return true, nil
	case prog.OpBOT:
		if pos == 0 {
			return e.execute(pc+1, pos, limit)
		}
		return false, nil
	case prog.OpEOT:
		if pos == len(e.input) {
			return e.execute(pc+1, pos, limit)
		}
		return false, nil
	case prog.OpBOL:
		if pos == 0 || e.input[pos-1] == '\n' {
			return e.execute(pc+1, pos, limit)
		}
		return false, nil
	case prog.OpEOL:
		if pos == len(e.input) || e.input[pos] == '\n' {
			return e.execute(pc+1, pos, limit)
		}
		return false, nil
	case prog.OpWordBoundary:
		if atWordBoundary(e.input, pos) == in.Positive {
			return e.execute(pc+1, pos, limit)
		}
		return false, nil
	case prog.OpLookAround:
		return e.executeLookaround(in, pc, pos, limit)
	}
	return false, nil
}

// executeLookaround evaluates the assertion at pc and, if it holds,
// continues execution from in.JumpLoc at the unchanged outer position pos
// (an assertion consumes no input).
func (e *Engine) executeLookaround(in prog.Inst, pc, pos, limit int) (bool, error) {
	bodyPC := pc + 1

	startPos := pos
	if !in.Ahead {
		startPos = pos - in.Distance
		if startPos < 0 {
			return false, nil
		}
	}

	var snapshot []int
	if !in.Positive {
		snapshot = make([]int, len(e.caps))
		copy(snapshot, e.caps)
	}

	matched, err := e.execute(bodyPC, startPos, limit)
	if err != nil {
		return false, err
	}

	if !in.Positive {
		// A negative assertion's captures never participate in the overall
		// match regardless of whether the body happened to match.
		copy(e.caps, snapshot)
	}

	if matched != in.Positive {
		return false, nil
	}
	return e.execute(in.JumpLoc, pos, limit)
}

func atWordBoundary(input []rune, pos int) bool {
	before := pos > 0 && ascii.IsWordChar(input[pos-1])
	after := pos < len(input) && ascii.IsWordChar(input[pos])
	return before != after
}
