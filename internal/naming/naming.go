// Package naming splits CamelCase identifiers at word boundaries.
package naming

import (
	"unicode"
	"unicode/utf8"
)

// CamelCaseUntil returns the byte index where the leading run of complete
// CamelCase words in s ends. A word is one upper-case letter followed by
// lower-case letters. It returns 0 when s does not start with an upper-case
// letter, and len(s) when the whole string is CamelCase.
//
//	CamelCaseUntil("AbcDef")  == 6
//	CamelCaseUntil("AbcDD")   == 3
//	CamelCaseUntil("Abc1Def") == 3
func CamelCaseUntil(s string) int {
	first, size := utf8.DecodeRuneInString(s)
	if size == 0 || !unicode.IsUpper(first) {
		return 0
	}
	up := true
	last := 0
	for i, c := range s[size:] {
		i += size
		switch {
		case up:
			if !unicode.IsLower(c) {
				return last
			}
			up = false
		case unicode.IsUpper(c):
			up = true
			last = i
		case !unicode.IsLower(c):
			return i
		}
	}
	if up {
		return last
	}
	return len(s)
}

// CamelCaseFrom returns the byte index where the trailing run of complete
// CamelCase words in s starts. It returns len(s) when s does not end with
// a lower-case letter, and 0 when the whole string is CamelCase.
//
//	CamelCaseFrom("AbcDef")  == 0
//	CamelCaseFrom("Abc1Def") == 4
//	CamelCaseFrom("AbcDD")   == 5
func CamelCaseFrom(s string) int {
	last, size := utf8.DecodeLastRuneInString(s)
	if size == 0 || !unicode.IsLower(last) {
		return len(s)
	}
	down := true
	from := len(s)
	rest := s[:len(s)-size]
	for len(rest) > 0 {
		c, n := utf8.DecodeLastRuneInString(rest)
		rest = rest[:len(rest)-n]
		i := len(rest)
		if down {
			switch {
			case unicode.IsUpper(c):
				down = false
				from = i
			case !unicode.IsLower(c):
				return from
			}
		} else if unicode.IsLower(c) {
			down = true
		} else {
			return from
		}
	}
	return from
}
