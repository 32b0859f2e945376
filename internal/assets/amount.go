package assets

import "strings"

// ToSmallestUnit converts a human-readable decimal amount to an integer
// smallest-unit string. The fractional part is right-padded with zeros to
// exactly decimals digits and truncated if longer (no rounding). Callers
// guarantee a positive decimal literal; signs and exponents are not handled.
func ToSmallestUnit(amount string, decimals int) string {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return "0"
	}

	intPart, fracPart, _ := strings.Cut(amount, ".")
	if len(fracPart) > decimals {
		fracPart = fracPart[:decimals]
	}
	for len(fracPart) < decimals {
		fracPart += "0"
	}

	combined := strings.TrimLeft(intPart+fracPart, "0")
	if combined == "" {
		return "0"
	}
	return combined
}

// ToHumanReadable converts an integer smallest-unit string back to a
// human-readable decimal, stripping trailing fractional zeros. The separator
// is omitted entirely when the fraction strips to nothing.
func ToHumanReadable(amount string, decimals int) string {
	if amount == "" || amount == "0" {
		return "0"
	}

	for len(amount) < decimals+1 {
		amount = "0" + amount
	}

	intPart := amount[:len(amount)-decimals]
	fracPart := strings.TrimRight(amount[len(amount)-decimals:], "0")

	if intPart == "" {
		intPart = "0"
	}
	if fracPart == "" {
		return intPart
	}
	return intPart + "." + fracPart
}
