// Package precheck implements a cheap syntactic filter over pattern source
// text. Some escapes pin a pattern to matching single bytes, others to whole
// characters; two patterns pinned to different units cannot be compared
// unit by unit, so the pair is rejected before any structural work.
package precheck

import (
	"github.com/coregx/recompare/simd"
)

// Forced summarizes which matching unit a pattern's source text pins.
type Forced uint8

const (
	// Byte means some construct consumes one encoded byte, which may be
	// only part of a multi-byte character.
	Byte Forced = 1 << iota

	// Char means some construct must consume a full character.
	Char
)

// String returns a human-readable representation of the summary
func (f Forced) String() string {
	switch f {
	case 0:
		return "none"
	case Byte:
		return "byte"
	case Char:
		return "char"
	case Byte | Char:
		return "byte|char"
	default:
		return "invalid"
	}
}

// byteEscapes are escape letters that denote a single byte.
var byteEscapes = [256]bool{
	'a': true, 'b': true, 'c': true, 'e': true, 'f': true, 'x': true,
	'0': true, '1': true, '2': true, '3': true, '4': true, '5': true, '6': true, '7': true,
}

// Scan classifies the source text of one pattern.
func Scan(source string) Forced {
	src := []byte(source)
	var forced Forced
	for i := 0; i < len(src); {
		j := simd.Memchr2(src[i:], '\\', '.')
		if j < 0 {
			break
		}
		i += j
		if src[i] == '.' {
			forced |= Byte
			i++
			continue
		}
		// Backslash: classify the escape that follows it.
		i++
		if i >= len(src) {
			break
		}
		n, f := escape(src, i)
		forced |= f
		i += n
	}
	return forced
}

// escape classifies the escape whose letter is at src[i] and returns the
// number of bytes it spans.
func escape(src []byte, i int) (int, Forced) {
	switch src[i] {
	case 'N':
		// \N{U+00hh}
		if i+8 < len(src) && string(src[i+1:i+6]) == "{U+00" &&
			isHex(src[i+6]) && isHex(src[i+7]) && src[i+8] == '}' {
			if b := hexByte(src[i+6], src[i+7]); b != '\r' && b != '\n' {
				return 9, Char
			}
			return 9, 0
		}
		return 1, Char
	case 'x':
		if i+2 < len(src) && isHex(src[i+1]) && isHex(src[i+2]) {
			if b := hexByte(src[i+1], src[i+2]); b != '\r' && b != '\n' {
				return 3, Byte
			}
			return 3, 0
		}
	}
	if byteEscapes[src[i]] {
		return 1, Byte
	}
	return 1, 0
}

// Incompatible reports whether two summaries pin different units: one
// pattern is byte-only and the other character-only.
func Incompatible(a, b Forced) bool {
	return (a == Byte && b == Char) || (a == Char && b == Byte)
}

// Sources scans both sources and reports whether they are incompatible.
// An empty source skips the check.
func Sources(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	// Char only comes from \N escapes.
	if simd.Memchr([]byte(a), 'N') < 0 && simd.Memchr([]byte(b), 'N') < 0 {
		return false
	}
	return Incompatible(Scan(a), Scan(b))
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case c <= '9':
		return c - '0'
	case c <= 'F':
		return c - 'A' + 10
	default:
		return c - 'a' + 10
	}
}

func hexByte(hi, lo byte) byte {
	return unhex(hi)<<4 | unhex(lo)
}
