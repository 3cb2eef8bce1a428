package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidMoney = errors.New("invalid money amount")

// Money is a currency amount in minor units (cents/paise).
type Money int64

// Units builds a Money from a whole number of major units.
func Units(n int64) Money {
	return Money(n * 100)
}

// ParseMoney converts a decimal string such as "1500", "12.34" or "-0.5"
// to Money. Digits past the second fractional place are rounded half-up
// (away from zero for negative values). Exponent form such as "1.5e2" is
// accepted.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidMoney
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	if strings.ContainsAny(s, "eE") {
		plain, ok := expandExponent(s)
		if !ok {
			return 0, ErrInvalidMoney
		}
		s = plain
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidMoney
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || !isDigits(fracPart) {
		return 0, ErrInvalidMoney
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidMoney
	}
	const maxUnits = (1<<63 - 1) / 100
	if iv > maxUnits-1 {
		return 0, ErrInvalidMoney
	}

	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
	}
	if len(fracPart) > 1 {
		frac += int64(fracPart[1] - '0')
	}
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		frac++
	}

	cents := iv*100 + frac
	if neg {
		cents = -cents
	}
	return Money(cents), nil
}

// expandExponent rewrites an unsigned JSON-style number in exponent form
// ("1.5E2", "25e-1") as a plain decimal by moving the point, so rounding
// stays on the decimal digits.
func expandExponent(s string) (string, bool) {
	i := strings.IndexAny(s, "eE")
	mantissa, expPart := s[:i], s[i+1:]
	exp, err := strconv.Atoi(expPart)
	if err != nil || exp > maxExponent {
		return "", false
	}
	intPart, fracPart, _ := strings.Cut(mantissa, ".")
	if intPart == "" && fracPart == "" || !isDigits(intPart) || !isDigits(fracPart) {
		return "", false
	}
	if exp < -maxExponent {
		return "0", true
	}

	digits := intPart + fracPart
	point := len(intPart) + exp
	switch {
	case point <= 0:
		return "0." + strings.Repeat("0", -point) + digits, true
	case point >= len(digits):
		return digits + strings.Repeat("0", point-len(digits)), true
	default:
		return digits[:point] + "." + digits[point:], true
	}
}

// maxExponent bounds exponent form; anything larger overflows Money anyway.
const maxExponent = 40

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String formats m with exactly two fractional digits, e.g. "1500.00".
func (m Money) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number, including exponent form, or a
// numeric string.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := ParseMoney(s)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMoney, s)
	}
	*m = v
	return nil
}
