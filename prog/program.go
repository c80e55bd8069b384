package prog

import "fmt"

// Program is the linear instruction stream produced by the parser: an
// immutable value that may be shared by any number of engine instances.
// Instruction index 0 is always the program's entry point.
type Program struct {
	Insts []Inst

	// NumCaptures is the number of capture groups, not counting the implicit
	// whole-match group. Save slot indices lie in [0, 2*(NumCaptures+1)).
	NumCaptures int

	// NumStates is the number of distinct instructions, i.e. len(Insts);
	// filled in by Number. The lockstep engine sizes its thread pools to
	// this count, reading it as len(Insts).
	NumStates int

	// Anchored is true when the pattern's first real instruction is BOT,
	// in which case the parser has stripped the implicit `.*?` search
	// prefix and matching always starts at the caller-supplied start
	// offset with no free scan.
	Anchored bool

	// HasLookaround is true when any instruction is OpLookAround. The
	// lockstep engine cannot evaluate lookaround against a set of threads
	// running in lockstep and refuses programs with this flag set; callers
	// fall back to the backtracking engine.
	HasLookaround bool
}

// SlotCount returns the total number of capture slots (2 per group,
// including the implicit whole-match group 0).
func (p *Program) SlotCount() int {
	return 2 * (p.NumCaptures + 1)
}

// Inst returns the instruction at index pc.
func (p *Program) Inst(pc int) Inst {
	return p.Insts[pc]
}

// Number walks the program in instruction order and assigns each
// instruction a dense state id in [0, NumStates). In this index-addressed
// representation instruction order already is state order, so Number
// exists as its own pass (mirroring spec's "walk the variable-width stream
// and assign ids") but it is now an O(n) confirmation rather than a decode
// loop: the state id and the slice index always coincide.
func Number(p *Program) {
	for i := range p.Insts {
		p.Insts[i].State = i
		if p.Insts[i].Op == OpLookAround {
			p.HasLookaround = true
		}
	}
	p.NumStates = len(p.Insts)
}

// Validate checks the structural invariants §3 requires: every offset
// points at a real instruction, and Save slot indices are in range.
func Validate(p *Program) error {
	n := len(p.Insts)
	inRange := func(pc int) bool { return pc >= 0 && pc < n }

	for i, in := range p.Insts {
		switch in.Op {
		case OpJump:
			if !inRange(in.Target) {
				return fmt.Errorf("prog: instruction %d: Jump target %d out of range", i, in.Target)
			}
		case OpSplit:
			if !inRange(in.Pref) || !inRange(in.Sec) {
				return fmt.Errorf("prog: instruction %d: Split targets (%d,%d) out of range", i, in.Pref, in.Sec)
			}
		case OpSave:
			if in.Slot < 0 || in.Slot >= 2*(p.NumCaptures+1) {
				return fmt.Errorf("prog: instruction %d: Save slot %d out of range", i, in.Slot)
			}
		case OpLookAround:
			if !inRange(in.JumpLoc) {
				return fmt.Errorf("prog: instruction %d: LookAround jumpLoc %d out of range", i, in.JumpLoc)
			}
		}
	}
	return nil
}
