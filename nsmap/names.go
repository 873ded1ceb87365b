package nsmap

import (
	"unicode"
	"unicode/utf8"
)

// ValidName reports whether s is an XML NCName: a name without a colon.
func ValidName(s string) bool {
	if s == "" || !utf8.ValidString(s) {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !nameStart(r) {
				return false
			}
			continue
		}
		if !nameChar(r) {
			return false
		}
	}
	return true
}

// ValidPrefix reports whether s may be used as a namespace prefix.
func ValidPrefix(s string) bool {
	return ValidName(s)
}

func nameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func nameChar(r rune) bool {
	switch {
	case nameStart(r), unicode.IsDigit(r):
		return true
	case r == '-', r == '.', r == 0xB7:
		return true
	case unicode.Is(unicode.Mn, r), unicode.Is(unicode.Mc, r):
		return true
	}
	return false
}
