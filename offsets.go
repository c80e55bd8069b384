package rex

// decodeRunesWithByteOffsets decodes s into runes for the engines (which
// operate on code points, per prog's index-addressed instruction model)
// alongside a parallel table mapping each rune index to its byte offset
// in s, so capture slots produced in rune space can be translated back to
// the byte offsets spec.md §6 requires before they reach a caller.
// byteOffsets has len(runes)+1 entries; byteOffsets[len(runes)] == len(s).
func decodeRunesWithByteOffsets(s string) (runes []rune, byteOffsets []int) {
	runes = make([]rune, 0, len(s))
	byteOffsets = make([]int, 0, len(s)+1)
	for i, r := range s {
		byteOffsets = append(byteOffsets, i)
		runes = append(runes, r)
	}
	byteOffsets = append(byteOffsets, len(s))
	return runes, byteOffsets
}

// toByteSlots translates a slice of rune-offset capture slots (as produced
// by lockstep/backtrack) into byte offsets using the table
// decodeRunesWithByteOffsets built for the same input. A slot of -1 (group
// did not participate) passes through unchanged.
func toByteSlots(byteOffsets []int, runeSlots []int) []int {
	out := make([]int, len(runeSlots))
	for i, v := range runeSlots {
		if v < 0 {
			out[i] = -1
			continue
		}
		out[i] = byteOffsets[v]
	}
	return out
}
