// Package simdlite provides width-adaptive, pure-Go ASCII scanning used by
// the prefilter's literal scan.
//
// Grounded on the teacher's simd.hasAVX2 gate
// (github.com/coregx/coregex/simd/memchr_amd64.go), which selects an
// assembly memchr kernel at init time based on golang.org/x/sys/cpu's
// feature flags. The retrieved pack carries no .s files to port
// faithfully (see DESIGN.md), so this package keeps the teacher's
// feature-detection idiom but widens a pure-Go SWAR (SIMD-within-a-register)
// loop instead of dispatching to assembly: 8 bytes at a time normally, 32
// at a time (4 words unrolled) when AVX2 is present, since a wider CPU
// pipeline hides the extra unrolled iterations' latency even without
// touching the YMM registers themselves.
package simdlite

import "golang.org/x/sys/cpu"

// hasAVX2 selects the unroll width used below; it's a variable, not a
// const, purely so tests can override it.
var hasAVX2 = cpu.X86.HasAVX2

const (
	narrowWords = 1
	wideWords   = 4
)

// unrollWords returns how many 8-byte words IsASCII/IndexByte process per
// loop iteration on this CPU.
func unrollWords() int {
	if hasAVX2 {
		return wideWords
	}
	return narrowWords
}

// asciiMask has the high bit of every byte set; a word ANDed with this
// being non-zero means the word contains a byte >= 0x80.
const asciiMask = 0x8080808080808080

// IsASCII reports whether every byte in b is < 0x80.
func IsASCII(b []byte) bool {
	words := unrollWords()
	chunk := 8 * words
	i := 0
	for ; i+chunk <= len(b); i += chunk {
		var acc uint64
		for w := 0; w < words; w++ {
			acc |= load64(b[i+w*8:])
		}
		if acc&asciiMask != 0 {
			return false
		}
	}
	for ; i < len(b); i++ {
		if b[i] >= 0x80 {
			return false
		}
	}
	return true
}

// hasZeroByte implements the classic SWAR "does this word contain a zero
// byte" test: (v - 0x01..01) & ~v & 0x80..80 is nonzero iff some byte of v
// is zero.
func hasZeroByte(v uint64) bool {
	const lo = 0x0101010101010101
	const hi = 0x8080808080808080
	return (v-lo)&^v&hi != 0
}

func broadcast(c byte) uint64 {
	v := uint64(c)
	v |= v << 8
	v |= v << 16
	v |= v << 32
	return v
}

// IndexByte returns the index of the first occurrence of c in b, or -1.
// Whole words are rejected by hasZeroByte before falling back to a
// byte-by-byte scan to pin down the exact index.
func IndexByte(b []byte, c byte) int {
	words := unrollWords()
	chunk := 8 * words
	needle := broadcast(c)
	i := 0
	for ; i+chunk <= len(b); i += chunk {
		for w := 0; w < words; w++ {
			base := i + w*8
			if hasZeroByte(load64(b[base:base+8]) ^ needle) {
				for k := 0; k < 8; k++ {
					if b[base+k] == c {
						return base + k
					}
				}
			}
		}
	}
	for ; i < len(b); i++ {
		if b[i] == c {
			return i
		}
	}
	return -1
}

func load64(b []byte) uint64 {
	var v uint64
	n := len(b)
	if n > 8 {
		n = 8
	}
	for i := 0; i < n; i++ {
		v |= uint64(b[i]) << (8 * uint(i))
	}
	return v
}
