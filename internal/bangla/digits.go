// Package bangla holds Bengali number, date and greeting formatting.
package bangla

import "strings"

const bengaliZero = '০'

// ToBengaliDigits replaces ASCII digits with Bengali digits.
func ToBengaliDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return bengaliZero + (r - '0')
		}
		return r
	}, s)
}

// ToASCIIDigits replaces Bengali digits with ASCII digits.
func ToASCIIDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= bengaliZero && r <= bengaliZero+9 {
			return '0' + (r - bengaliZero)
		}
		return r
	}, s)
}
