// Package currency parses and renders the euro amount strings found in the
// weekly sales documents. Rendering is canonical: symbol, comma thousands
// separators, two decimals. Parsing a canonical string and re-rendering it
// reproduces it exactly.
package currency

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const symbol = "€"

// Parse reads an amount string tolerantly: the euro symbol, spaces and
// thousands separators are ignored, and both "." and "," are accepted as the
// decimal mark. "13,769.01", "13.769,01" and "€13769.01" all parse to 13769.01.
func Parse(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, symbol, "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := strings.HasPrefix(cleaned, "-")
	cleaned = strings.TrimPrefix(cleaned, "-")

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")

	// The rightmost of "." / "," is the decimal mark when it is followed by
	// one or two digits; otherwise every separator is a thousands separator.
	decimalAt := -1
	if sep := max(lastDot, lastComma); sep != -1 {
		frac := cleaned[sep+1:]
		if len(frac) >= 1 && len(frac) <= 2 && digitsOnly(frac) {
			decimalAt = sep
		}
	}

	var intPart, fracPart string
	if decimalAt == -1 {
		intPart = cleaned
		fracPart = ""
	} else {
		intPart = cleaned[:decimalAt]
		fracPart = cleaned[decimalAt+1:]
	}
	intPart = strings.Map(func(r rune) rune {
		if r == '.' || r == ',' {
			return -1
		}
		return r
	}, intPart)
	if intPart == "" {
		intPart = "0"
	}
	if !digitsOnly(intPart) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	num := intPart
	if fracPart != "" {
		num += "." + fracPart
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if negative {
		v = -v
	}
	return v, nil
}

// Format renders an amount in the canonical currency form, e.g. "€13,769.01".
func Format(amount float64) string {
	sign := ""
	if math.Signbit(amount) {
		sign = "-"
		amount = -amount
	}
	fixed := strconv.FormatFloat(amount, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	return sign + symbol + strings.Join(groups, ",") + "." + fracPart
}

// Reformat parses a raw amount string and re-renders it canonically.
func Reformat(s string) (string, error) {
	v, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Format(v), nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
