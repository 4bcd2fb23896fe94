package calculator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountPattern accepts plain decimal notation only. Exponent forms such as
// "1e9" are rejected so a short input cannot expand into a huge number.
var amountPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// maxAmountDigits bounds the significant digits of an accepted amount.
const maxAmountDigits = 30

// ParseAmount parses user-entered amount text such as "12.50" or " 1,234.5 ".
// Commas are treated as thousands separators.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	if !amountPattern.MatchString(cleaned) {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	if digits := len(strings.TrimLeft(strings.Trim(cleaned, "+-."), "0.")); digits > maxAmountDigits {
		return decimal.Zero, fmt.Errorf("amount %q has more than %d digits", raw, maxAmountDigits)
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return amount, nil
}

// positiveAmount returns the parsed amount and true only when raw is a valid,
// strictly positive number.
func positiveAmount(raw string) (decimal.Decimal, bool) {
	amount, err := ParseAmount(raw)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, false
	}
	return amount, true
}

// uniqueParticipants drops empty and repeated ids, keeping first-seen order.
func uniqueParticipants(participants []string) []string {
	seen := make(map[string]bool, len(participants))
	unique := make([]string, 0, len(participants))
	for _, p := range participants {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		unique = append(unique, p)
	}
	return unique
}
