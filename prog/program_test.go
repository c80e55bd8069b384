package prog

import "testing"

func TestNumber_AssignsSequentialIDs(t *testing.T) {
	p := &Program{Insts: []Inst{
		{Op: OpChar, Rune: 'a'},
		{Op: OpChar, Rune: 'b'},
		{Op: OpMatch},
	}}
	Number(p)

	if p.NumStates != 3 {
		t.Fatalf("NumStates = %d, want 3", p.NumStates)
	}
	for i, in := range p.Insts {
		if in.State != i {
			t.Errorf("Insts[%d].State = %d, want %d", i, in.State, i)
		}
	}
}

func TestValidate_RejectsOutOfRangeJump(t *testing.T) {
	p := &Program{Insts: []Inst{
		{Op: OpJump, Target: 5},
		{Op: OpMatch},
	}}
	if err := Validate(p); err == nil {
		t.Fatal("expected error for out-of-range Jump target")
	}
}

func TestValidate_RejectsOutOfRangeSplit(t *testing.T) {
	p := &Program{Insts: []Inst{
		{Op: OpSplit, Pref: 1, Sec: 9},
		{Op: OpMatch},
	}}
	if err := Validate(p); err == nil {
		t.Fatal("expected error for out-of-range Split target")
	}
}

func TestValidate_RejectsOutOfRangeSaveSlot(t *testing.T) {
	p := &Program{NumCaptures: 0, Insts: []Inst{
		{Op: OpSave, Slot: 4},
		{Op: OpMatch},
	}}
	if err := Validate(p); err == nil {
		t.Fatal("expected error for out-of-range Save slot")
	}
}

func TestValidate_AcceptsWellFormedProgram(t *testing.T) {
	p := &Program{NumCaptures: 0, Insts: []Inst{
		{Op: OpSave, Slot: 0},
		{Op: OpChar, Rune: 'a'},
		{Op: OpSave, Slot: 1},
		{Op: OpMatch},
	}}
	Number(p)
	if err := Validate(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBitmap_SetAndTest(t *testing.T) {
	var bm Bitmap
	bm.Set('a')
	bm.Set('z')
	if !bm.Test('a') || !bm.Test('z') {
		t.Fatal("expected set bits to test true")
	}
	if bm.Test('b') {
		t.Fatal("expected unset bit to test false")
	}
	if bm.Test(-1) || bm.Test(200) {
		t.Fatal("expected out-of-range runes to test false")
	}
}
