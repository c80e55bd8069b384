package rex

import "testing"

func TestCompile_InvalidPatternReturnsParseError(t *testing.T) {
	_, err := Compile(`a{3,1}`)
	if err == nil {
		t.Fatal("expected error for min > max repeat")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("err type = %T, want *ParseError", err)
	}
}

func TestMatchString(t *testing.T) {
	re := MustCompile(`\d+-\d+`)
	if !re.MatchString("order 12-345") {
		t.Fatal("expected match")
	}
	if re.MatchString("no numbers here") {
		t.Fatal("expected no match")
	}
}

func TestFindString(t *testing.T) {
	re := MustCompile(`\d+`)
	if got := re.FindString("age: 42 next"); got != "42" {
		t.Fatalf("FindString = %q, want %q", got, "42")
	}
}

func TestFindStringSubmatch_Groups(t *testing.T) {
	re := MustCompile(`(\w+)@(\w+)\.(\w+)`)
	m := re.FindStringSubmatch("contact user@example.com today")
	if m == nil {
		t.Fatal("expected match")
	}
	if m.String() != "user@example.com" {
		t.Fatalf("whole match = %q", m.String())
	}
	g1, ok := m.Group(1)
	if !ok || g1 != "user" {
		t.Fatalf("group 1 = %q, %v", g1, ok)
	}
	g3, ok := m.Group(3)
	if !ok || g3 != "com" {
		t.Fatalf("group 3 = %q, %v", g3, ok)
	}
}

func TestFindAllString(t *testing.T) {
	re := MustCompile(`\d+`)
	got := re.FindAllString("1 22 333", -1)
	want := []string{"1", "22", "333"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFindAllString_LimitN(t *testing.T) {
	re := MustCompile(`\d+`)
	got := re.FindAllString("1 22 333", 2)
	if len(got) != 2 {
		t.Fatalf("got %v, want 2 matches", got)
	}
}

func TestAllStringSubmatch_Iterator(t *testing.T) {
	re := MustCompile(`\w+`)
	var words []string
	for m := range re.AllStringSubmatch("go is fun") {
		words = append(words, m.String())
	}
	if len(words) != 3 || words[0] != "go" || words[2] != "fun" {
		t.Fatalf("words = %v", words)
	}
}

func TestLookaroundUsesBacktrackEngine(t *testing.T) {
	re := MustCompile(`\d+(?= dollars)`)
	if got := re.FindString("it costs 50 dollars now"); got != "50" {
		t.Fatalf("FindString = %q, want %q", got, "50")
	}
}

func TestFindSubmatchN(t *testing.T) {
	re := MustCompile(`(\d+)-(\d+)`)
	m, ok := FindSubmatchN[[8]int](re, "range 12-34 here")
	if !ok {
		t.Fatal("expected match")
	}
	start, end, ok := m.GroupIndex(1)
	if !ok {
		t.Fatal("expected group 1 to participate")
	}
	if got := "range 12-34 here"[start:end]; got != "12" {
		t.Fatalf("group 1 = %q", got)
	}
}

func TestCompile_CacheReturnsConsistentResult(t *testing.T) {
	re1, err := Compile(`\d+`)
	if err != nil {
		t.Fatal(err)
	}
	re2, err := Compile(`\d+`)
	if err != nil {
		t.Fatal(err)
	}
	if re1.String() != re2.String() {
		t.Fatalf("cached compile mismatch: %q vs %q", re1.String(), re2.String())
	}
}

func TestFindStringSubmatch_NonASCIIReportsByteOffsets(t *testing.T) {
	re := MustCompile(`こ(.*)`)
	s := "こんにちは"
	m := re.FindStringSubmatch(s)
	if m == nil {
		t.Fatal("expected match")
	}
	if m.String() != s {
		t.Fatalf("whole match = %q, want %q", m.String(), s)
	}
	g1, ok := m.Group(1)
	if !ok || g1 != "んにちは" {
		t.Fatalf("group 1 = %q, %v, want %q", g1, ok, "んにちは")
	}

	// "こ" is 3 bytes in UTF-8, so a genuine byte offset for group 1's
	// start is 3; a rune offset would have been 1. Confirm the slice
	// taken directly from the raw string with the reported indices
	// reproduces the group text, which only holds for byte offsets.
	start, end, ok := m.GroupIndex(1)
	if !ok {
		t.Fatal("expected group 1 to participate")
	}
	if start != 3 {
		t.Fatalf("group 1 start = %d, want 3 (byte offset, not rune offset 1)", start)
	}
	if s[start:end] != "んにちは" {
		t.Fatalf("s[%d:%d] = %q, want %q", start, end, s[start:end], "んにちは")
	}
}

func TestPrefilterDoesNotChangeMatchSemantics(t *testing.T) {
	re := MustCompile(`hello world`)
	if re.MatchString("say hello wOrld") {
		t.Fatal("prefilter must not cause a false positive")
	}
	if !re.MatchString("say hello world now") {
		t.Fatal("prefilter must not suppress a true match")
	}
}
