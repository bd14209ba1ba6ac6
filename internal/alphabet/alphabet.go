// Package alphabet models the 26-letter Latin alphabet as integers modulo 26.
//
// Letters map to codes in [0,25] by position ('a' and 'A' are 0, 'z' and 'Z'
// are 25). Characters outside A-Z/a-z have no code; callers check IsLetter
// before calling Code and pass everything else through untouched.
package alphabet

// Size is the number of symbols in the alphabet.
const Size = 26

// IsLetter reports whether r is an ASCII Latin letter.
func IsLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsUpper reports whether r is an uppercase ASCII Latin letter.
func IsUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// Code returns the position of letter r in the alphabet. The result is
// meaningless for non-letters.
func Code(r rune) int {
	if IsUpper(r) {
		return int(r - 'A')
	}
	return int(r - 'a')
}

// Letter returns the letter with the given code, reduced modulo Size.
func Letter(code int, upper bool) rune {
	if upper {
		return 'A' + rune(Mod(code))
	}
	return 'a' + rune(Mod(code))
}

// Mod reduces n into [0, Size).
func Mod(n int) int {
	n %= Size
	if n < 0 {
		n += Size
	}
	return n
}

// Shift moves letter r forward by n positions, keeping its case. Non-letters
// are returned unchanged.
func Shift(r rune, n int) rune {
	if !IsLetter(r) {
		return r
	}
	return Letter(Code(r)+n, IsUpper(r))
}

// ToLower folds an ASCII letter to lowercase; other runes are unchanged.
func ToLower(r rune) rune {
	if IsUpper(r) {
		return r + ('a' - 'A')
	}
	return r
}
