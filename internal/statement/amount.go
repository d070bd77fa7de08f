package statement

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountTokenRe matches a currency amount token: optional leading
// minus, a dollar sign, then digits with optional grouping and decimal
// separators. Statements print debits as "-$ 1.234,56" and credits as
// "$ 1.234,56".
var amountTokenRe = regexp.MustCompile(`-?\$\s*\d[\d.,]*`)

// findAmountToken locates the trailing amount token in a statement
// line. It returns the byte offset where the token starts and the raw
// token, or ok=false when the line carries no amount.
func findAmountToken(line string) (start int, token string, ok bool) {
	locs := amountTokenRe.FindAllStringIndex(line, -1)
	if len(locs) == 0 {
		return 0, "", false
	}
	last := locs[len(locs)-1]
	// A separator with no digits after it is line noise, not part of
	// the amount ("$ 100," means one hundred).
	token = strings.TrimRight(line[last[0]:last[1]], ".,")
	return last[0], token, true
}

// parseAmount normalizes a raw amount token into a signed exact
// decimal. The sign comes from the "-$" prefix alone, never from the
// magnitude. Statements use Latin separators (dot grouping, comma
// decimals); when both separators appear the rightmost one is the
// decimal point, and a lone dot followed by exactly three digits is
// treated as grouping.
func parseAmount(token string) (decimal.Decimal, error) {
	s := strings.TrimSpace(token)

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)

	normalized, err := normalizeSeparators(s)
	if err != nil {
		return decimal.Decimal{}, err
	}

	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount token %q is not an exact decimal: %w", token, err)
	}

	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

func normalizeSeparators(s string) (string, error) {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// "45.000,00": dot groups, comma is the decimal point.
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// "45,000.00": comma groups, dot is the decimal point.
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return "", fmt.Errorf("amount %q has multiple decimal separators", s)
		}
		s = strings.Replace(s, ",", ".", 1)
	case lastDot >= 0:
		// A lone dot with exactly three trailing digits is a grouping
		// separator ("45.000" is forty-five thousand, not 45).
		if groupedOnly(s) {
			s = strings.ReplaceAll(s, ".", "")
		} else if strings.Count(s, ".") > 1 {
			return "", fmt.Errorf("amount %q has multiple decimal separators", s)
		}
	}

	return s, nil
}

// groupedOnly reports whether every dot in s is followed by exactly
// three digits through the end of the string.
func groupedOnly(s string) bool {
	parts := strings.Split(s, ".")
	for _, part := range parts[1:] {
		if len(part) != 3 {
			return false
		}
	}
	return len(parts) > 1
}
