package rex

import "iter"

// AllStringSubmatch returns an iterator over every successive
// non-overlapping match of re in s, usable with a range-over-func for
// loop. A zero-width match advances by one rune so the iteration always
// terminates.
func (re *Regex) AllStringSubmatch(s string) iter.Seq[*Match] {
	return func(yield func(*Match) bool) {
		runes, offs := decodeRunesWithByteOffsets(s)
		pos := 0
		for pos <= len(runes) {
			ok, slots, _ := re.findFrom(runes, pos)
			if !ok {
				return
			}
			if !yield(newMatch(s, toByteSlots(offs, slots))) {
				return
			}
			if slots[1] > slots[0] {
				pos = slots[1]
			} else {
				pos = slots[1] + 1
			}
		}
	}
}
