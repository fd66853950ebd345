package recipescale

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var arabicDigits = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"٫", ".",
)

// leadingNumber returns the longest prefix of s that reads as a decimal
// literal: optional sign, digits with at most one point, optional exponent.
func leadingNumber(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return ""
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			expDigits++
		}
		if expDigits > 0 {
			end = j
		}
	}
	return s[:end]
}

// ParseNumber reads the leading number of text, ignoring anything after it
// ("5 kg" is 5). Arabic-Indic digits are accepted.
func ParseNumber(text string) (float64, error) {
	s := strings.TrimSpace(arabicDigits.Replace(text))
	lit := leadingNumber(s)
	if lit == "" {
		return math.NaN(), fmt.Errorf("%q is not a number", text)
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return math.NaN(), fmt.Errorf("%q is not a number: %w", text, err)
	}
	if math.IsInf(f, 0) {
		return f, fmt.Errorf("%q is out of range", text)
	}
	return f, nil
}

// ParseAmount parses a requested batch amount, which must be greater than zero.
func ParseAmount(text string) (float64, error) {
	f, err := ParseNumber(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if !validAmount(f) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	return f, nil
}

// ParseQuantity parses an ingredient quantity, which may be zero.
func ParseQuantity(text string) (float64, error) {
	f, err := ParseNumber(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidIngredientValue, err)
	}
	if !validQuantity(f) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIngredientValue, text)
	}
	return f, nil
}

func validQuantity(q float64) bool {
	return q >= 0 && !math.IsInf(q, 0)
}
