package backtrack

import (
	"testing"

	"github.com/coregx/rex/parse"
)

func find(t *testing.T, pattern, input string) (bool, []int) {
	t.Helper()
	p, err := parse.Parse(pattern)
	if err != nil {
		t.Fatalf("parse(%q): %v", pattern, err)
	}
	e := New(p)
	ok, slots, err := e.Find([]rune(input), 0)
	if err != nil {
		t.Fatalf("Find(%q, %q): %v", pattern, input, err)
	}
	return ok, slots
}

func TestFind_Literal(t *testing.T) {
	ok, slots := find(t, "cat", "a cat sat")
	if !ok || slots[0] != 2 || slots[1] != 5 {
		t.Fatalf("slots = %v", slots)
	}
}

func TestFind_PositiveLookahead(t *testing.T) {
	ok, slots := find(t, `foo(?=bar)`, "foobar")
	if !ok || slots[1] != 3 {
		t.Fatalf("slots = %v, want match end 3 (lookahead consumes nothing)", slots)
	}
	if ok, _ := find(t, `foo(?=bar)`, "foobaz"); ok {
		t.Fatal("expected no match: lookahead body does not match")
	}
}

func TestFind_NegativeLookahead(t *testing.T) {
	if ok, _ := find(t, `foo(?!bar)`, "foobar"); ok {
		t.Fatal("expected no match: negative lookahead body matches")
	}
	ok, _ := find(t, `foo(?!bar)`, "foobaz")
	if !ok {
		t.Fatal("expected match: negative lookahead body does not match")
	}
}

func TestFind_PositiveLookbehind(t *testing.T) {
	ok, slots := find(t, `(?<=foo)bar`, "foobar")
	if !ok {
		t.Fatal("expected match")
	}
	if slots[0] != 3 || slots[1] != 6 {
		t.Fatalf("slots = %v, want [3 6] (lookbehind excluded from match span)", slots)
	}
	if ok, _ := find(t, `(?<=foo)bar`, "xyzbar"); ok {
		t.Fatal("expected no match: lookbehind body does not match")
	}
}

func TestFind_NegativeLookbehind(t *testing.T) {
	if ok, _ := find(t, `(?<!foo)bar`, "foobar"); ok {
		t.Fatal("expected no match: negative lookbehind body matches")
	}
	ok, _ := find(t, `(?<!foo)bar`, "xyzbar")
	if !ok {
		t.Fatal("expected match: negative lookbehind body does not match")
	}
}

func TestFind_LookbehindAtStartOfInputFails(t *testing.T) {
	if ok, _ := find(t, `(?<=foo)bar`, "bar"); ok {
		t.Fatal("expected no match: nothing precedes bar")
	}
}

func TestFind_NegativeLookaroundDoesNotLeakCaptures(t *testing.T) {
	_, slots := find(t, `foo(?!(bar))baz`, "foobaz")
	// slot 2,3 is group 1, inside the negative lookahead; it must not be
	// recorded since the lookahead body never truly participates.
	if slots[2] != -1 || slots[3] != -1 {
		t.Fatalf("group 1 leaked from negative lookahead: %v", slots)
	}
}

func TestFind_GreedyVsLazyRepeat(t *testing.T) {
	_, slots := find(t, `a+`, "aaa")
	if slots[1] != 3 {
		t.Fatalf("greedy a+ end = %d, want 3", slots[1])
	}
	_, slots = find(t, `a+?`, "aaa")
	if slots[1] != 1 {
		t.Fatalf("lazy a+? end = %d, want 1", slots[1])
	}
}

func TestFind_BoundedRepeat(t *testing.T) {
	ok, slots := find(t, `a{2,4}`, "aaaaa")
	if !ok || slots[1]-slots[0] != 4 {
		t.Fatalf("slots = %v, want 4 a's consumed (greedy up to max)", slots)
	}
	if ok, _ := find(t, `^a{3,5}$`, "aa"); ok {
		t.Fatal("expected no match: fewer than minimum repeats")
	}
}

func TestFind_StepLimitExceeded(t *testing.T) {
	p, err := parse.Parse(`(a*)*b`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	e := New(p)
	e.StepLimit = 1000
	_, _, err = e.Find([]rune("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaac"), 0)
	if err != ErrStepLimitExceeded {
		t.Fatalf("err = %v, want ErrStepLimitExceeded", err)
	}
}
