// Package cpf validates Brazilian CPF identity numbers. A CPF is eleven
// digits where the last two are check digits computed over the preceding
// ones with a weighted sum mod 11.
package cpf

import "strings"

// Digits strips every non-digit character from raw. Inputs may arrive
// formatted ("529.982.247-25") or bare; all lookups and comparisons use the
// stripped form.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidFormat reports whether raw reduces to exactly eleven digits.
func ValidFormat(raw string) bool {
	return len(Digits(raw)) == 11
}

// IsValid reports whether raw is a real CPF: eleven digits, not a degenerate
// repeated sequence, and both check digits consistent. Pure function, no I/O.
func IsValid(raw string) bool {
	digits := Digits(raw)
	if len(digits) != 11 {
		return false
	}
	if allSame(digits) {
		return false
	}
	first := checkDigit(digits[:9], 10)
	second := checkDigit(digits[:10], 11)
	return first == int(digits[9]-'0') && second == int(digits[10]-'0')
}

func allSame(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

// checkDigit computes a verification digit over base using descending weights
// starting at firstWeight. A remainder of 10 folds to 0.
func checkDigit(base string, firstWeight int) int {
	sum := 0
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * (firstWeight - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}
