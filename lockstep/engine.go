// Package lockstep implements the multi-thread Pike VM: all live threads
// advance one input position together, so the whole search runs in
// O(states x input length) regardless of backtracking. Grounded on the
// teacher's nfa.PikeVM (github.com/coregx/coregex/nfa/pikevm.go): the
// generation-array dedup, copy-on-write capture slots, and swap-two-slices
// thread queue all carry over, but closure construction here directly
// prunes lower-priority threads on Match (leftmost-first semantics) rather
// than tracking a separate best-match/leftmost-longest scan, since the
// program's own embedded `.*?` search prefix already produces new start
// threads at every position without a manual per-byte injection step.
package lockstep

import (
	"errors"

	"github.com/coregx/rex/internal/ascii"
	"github.com/coregx/rex/prog"
)

// ErrUnsupported is returned by New when the program contains a lookaround
// instruction; the caller should fall back to the backtracking engine.
var ErrUnsupported = errors.New("lockstep: program uses lookaround, unsupported")

// thread is one candidate execution path: an instruction pointer plus the
// capture slots accumulated to reach it.
type thread struct {
	pc   int
	caps capSlots
}

// capSlots is a copy-on-write capture-slot vector, shared between threads
// produced by the same Split until one of them writes a new slot.
type capSlots struct {
	shared *sharedSlots
}

type sharedSlots struct {
	data []int
	refs int
}

func newCapSlots(n int) capSlots {
	if n == 0 {
		return capSlots{}
	}
	data := make([]int, n)
	for i := range data {
		data[i] = -1
	}
	return capSlots{shared: &sharedSlots{data: data, refs: 1}}
}

func (c capSlots) clone() capSlots {
	if c.shared == nil {
		return capSlots{}
	}
	c.shared.refs++
	return capSlots{shared: c.shared}
}

func (c capSlots) set(slot, pos int) capSlots {
	if c.shared == nil {
		return c
	}
	if c.shared.refs > 1 {
		c.shared.refs--
		data := make([]int, len(c.shared.data))
		copy(data, c.shared.data)
		data[slot] = pos
		return capSlots{shared: &sharedSlots{data: data, refs: 1}}
	}
	c.shared.data[slot] = pos
	return c
}

func (c capSlots) copyOut() []int {
	if c.shared == nil {
		return nil
	}
	out := make([]int, len(c.shared.data))
	copy(out, c.shared.data)
	return out
}

// Engine runs a Program with the lockstep algorithm. An Engine is not safe
// for concurrent use by multiple goroutines; callers running searches
// concurrently should keep one Engine per goroutine.
type Engine struct {
	prog *prog.Program

	clist, nlist []thread
	genArr       []uint32
	gen          uint32
}

// New builds an Engine for p. It fails if p contains a lookaround
// instruction.
func New(p *prog.Program) (*Engine, error) {
	if p.HasLookaround {
		return nil, ErrUnsupported
	}
	n := len(p.Insts)
	return &Engine{
		prog:   p,
		clist:  make([]thread, 0, n),
		nlist:  make([]thread, 0, n),
		genArr: make([]uint32, n),
	}, nil
}

// Find runs an unanchored-or-anchored search (as compiled into the
// program) over input, scanning forward from start. It reports whether a
// match was found and, if so, the capture slots: slots[0], slots[1] are
// the whole match's start and end rune offsets, slots[2k], slots[2k+1] the
// k'th group's, or -1 where a group didn't participate.
//
// BOT/EOT assertions are evaluated against input's true boundaries (rune
// offset 0 and len(input)), independent of start: start only controls
// where the scan begins, matching the distinction spec draws between a
// fresh match attempt and a mid-string continuation used by FindAll.
func (e *Engine) Find(input []rune, start int) (bool, []int) {
	e.clist = e.clist[:0]
	e.nlist = e.nlist[:0]
	e.gen++
	matched := false
	var slots []int

	e.addThread(&e.clist, thread{pc: 0, caps: newCapSlots(e.prog.SlotCount())}, input, start)

	pos := start
	for {
		if m, s := e.scanForMatch(&e.clist); m {
			matched = true
			slots = s
		}
		if pos >= len(input) || len(e.clist) == 0 {
			break
		}

		r := input[pos]
		e.gen++
		e.nlist = e.nlist[:0]
		for _, t := range e.clist {
			e.step(t, r, input, pos+1)
		}
		e.clist, e.nlist = e.nlist, e.clist[:0]
		pos++
	}

	return matched, slots
}

// scanForMatch walks list in priority order; the first Match instruction
// found wins for this generation, and it reports that as a match. Any
// thread after it in the list is strictly lower priority by construction
// (addThread always explores Pref before Sec) and was never given the
// chance to survive into nlist, so nothing further needs pruning here.
func (e *Engine) scanForMatch(list *[]thread) (bool, []int) {
	for _, t := range *list {
		if e.prog.Insts[t.pc].Op == prog.OpMatch {
			return true, t.caps.copyOut()
		}
	}
	return false, nil
}

// addThread adds t to list, following every epsilon transition (Split,
// Jump, Save, zero-width assertions) immediately. Once a Match is reached
// during this closure, no further (lower-priority) thread is added to
// list: they could never produce a result preferred over this one.
func (e *Engine) addThread(list *[]thread, t thread, input []rune, pos int) {
	if e.genArr[t.pc] == e.gen {
		return
	}
	e.genArr[t.pc] = e.gen

	if len(*list) > 0 && e.prog.Insts[(*list)[len(*list)-1].pc].Op == prog.OpMatch {
		return
	}

	in := e.prog.Insts[t.pc]
	switch in.Op {
	case prog.OpJump:
		e.addThread(list, thread{pc: in.Target, caps: t.caps}, input, pos)
	case prog.OpSplit:
		e.addThread(list, thread{pc: in.Pref, caps: t.caps.clone()}, input, pos)
		e.addThread(list, thread{pc: in.Sec, caps: t.caps}, input, pos)
	case prog.OpSave:
		e.addThread(list, thread{pc: t.pc + 1, caps: t.caps.set(in.Slot, pos)}, input, pos)
	case prog.OpBOT:
		if pos == 0 {
			e.addThread(list, thread{pc: t.pc + 1, caps: t.caps}, input, pos)
		}
	case prog.OpEOT:
		if pos == len(input) {
			e.addThread(list, thread{pc: t.pc + 1, caps: t.caps}, input, pos)
		}
	case prog.OpBOL:
		if pos == 0 || input[pos-1] == '\n' {
			e.addThread(list, thread{pc: t.pc + 1, caps: t.caps}, input, pos)
		}
	case prog.OpEOL:
		if pos == len(input) || input[pos] == '\n' {
			e.addThread(list, thread{pc: t.pc + 1, caps: t.caps}, input, pos)
		}
	case prog.OpWordBoundary:
		if atWordBoundary(input, pos) == in.Positive {
			e.addThread(list, thread{pc: t.pc + 1, caps: t.caps}, input, pos)
		}
	default:
		// Consuming instructions and Match terminate the closure here.
		*list = append(*list, t)
	}
}

// step advances one already-closed thread past one consuming instruction
// and, if it matches r, re-opens the closure into nlist starting from the
// successor instruction.
func (e *Engine) step(t thread, r rune, input []rune, nextPos int) {
	in := e.prog.Insts[t.pc]
	switch in.Op {
	case prog.OpChar:
		if r == in.Rune {
			e.addThread(&e.nlist, thread{pc: t.pc + 1, caps: t.caps}, input, nextPos)
		}
	case prog.OpIChar:
		if ascii.ToLower(r) == in.Rune {
			e.addThread(&e.nlist, thread{pc: t.pc + 1, caps: t.caps}, input, nextPos)
		}
	case prog.OpAnyChar:
		e.addThread(&e.nlist, thread{pc: t.pc + 1, caps: t.caps}, input, nextPos)
	case prog.OpCharRange:
		if r >= in.Lo && r <= in.Hi {
			e.addThread(&e.nlist, thread{pc: t.pc + 1, caps: t.caps}, input, nextPos)
		}
	case prog.OpICharRange:
		if lr := ascii.ToLower(r); lr >= in.Lo && lr <= in.Hi {
			e.addThread(&e.nlist, thread{pc: t.pc + 1, caps: t.caps}, input, nextPos)
		}
	case prog.OpCharBitmap:
		if r >= 0 && r < 128 && in.Bitmap.Test(r) {
			e.addThread(&e.nlist, thread{pc: t.pc + 1, caps: t.caps}, input, nextPos)
		}
	}
}

func atWordBoundary(input []rune, pos int) bool {
	before := pos > 0 && ascii.IsWordChar(input[pos-1])
	after := pos < len(input) && ascii.IsWordChar(input[pos])
	return before != after
}
