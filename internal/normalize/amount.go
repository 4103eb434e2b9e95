// internal/normalize/amount.go
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Currency codes detected by SanitizeAmount.
const (
	CurrencyCAD     = "CAD"
	CurrencyVND     = "VND"
	CurrencyUSD     = "USD"
	CurrencyUnknown = "UNKNOWN"
)

// Amount is the result of sanitizing a raw cell value.
type Amount struct {
	Value    float64
	Currency string
	Raw      string
}

var currencyPatterns = []struct {
	code string
	re   *regexp.Regexp
}{
	{CurrencyCAD, regexp.MustCompile(`(?i)CA\$|CAD`)},
	{CurrencyVND, regexp.MustCompile(`(?i)₫|VND`)},
	{CurrencyUSD, regexp.MustCompile(`\$`)},
}

var (
	spacesRe   = regexp.MustCompile(`\s+`)
	nonAmount  = regexp.MustCompile(`[^0-9.\-]`)
	leadingNeg = regexp.MustCompile(`^-+`)
)

// SanitizeAmount turns a messy currency cell into a number and a currency
// code. Handles parenthesized and leading-minus negatives, CA$/CAD, ₫/VND and
// $ markers (first match wins), and both `1.234,56` and `1,234.56` separator
// conventions. A comma with at most two trailing digits and no dot is read as
// a decimal comma. Unparseable input yields 0 with currency UNKNOWN.
func SanitizeAmount(raw string) Amount {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "\u00A0", "") // non-breaking space
	s = strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) >= 2 {
		negative = true
		s = strings.TrimPrefix(s, "(")
		s = strings.TrimSuffix(s, ")")
	}
	if strings.HasPrefix(s, "-") {
		negative = true
		s = leadingNeg.ReplaceAllString(s, "")
	}

	currency := CurrencyUnknown
	for _, cp := range currencyPatterns {
		if cp.re.MatchString(s) {
			currency = cp.code
			s = cp.re.ReplaceAllString(s, "")
			break
		}
	}

	s = spacesRe.ReplaceAllString(s, "")

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot != -1 && lastComma != -1:
		if lastComma > lastDot {
			// comma is the decimal separator, dots group thousands
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma != -1:
		after := s[lastComma+1:]
		if len(after) >= 1 && len(after) <= 2 && isDigits(after) {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	default:
		s = strings.ReplaceAll(s, ",", "")
	}

	s = nonAmount.ReplaceAllString(s, "")

	num := parseFloatPrefix(s)
	if negative {
		num = -math.Abs(num)
	}

	return Amount{Value: num, Currency: currency, Raw: raw}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// parseFloatPrefix parses the longest numeric prefix of s, falling back to 0.
// Mirrors how the historical reports tolerated trailing junk in amount cells.
func parseFloatPrefix(s string) float64 {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	end := 0
	seenDot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			end = i + 1
		case r == '-' && i == 0:
			// sign allowed only at the front
		case r == '.' && !seenDot:
			seenDot = true
		default:
			goto done
		}
	}
done:
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseNumber parses a plain numeric cell. Trailing junk after the numeric
// prefix is ignored; anything else yields 0.
func ParseNumber(cell string) float64 {
	return parseFloatPrefix(strings.TrimSpace(cell))
}

// FXRates converts sanitized amounts to USD. Rates come from configuration;
// the defaults match the values the historical reports were produced with.
type FXRates struct {
	CADPerUSD float64
	VNDPerUSD float64
}

// ToUSD converts amount to USD based on its currency code. Unknown currencies
// pass through unchanged.
func (r FXRates) ToUSD(amount float64, currency string) float64 {
	switch currency {
	case CurrencyCAD:
		return amount / r.CADPerUSD
	case CurrencyVND:
		return amount / r.VNDPerUSD
	default:
		return amount
	}
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
