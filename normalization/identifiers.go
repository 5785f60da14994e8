package normalization

import (
	"strings"
	"time"
)

// Accepted date-of-birth layouts, tried in order. Single-digit month and day
// values are accepted by both.
var dobLayouts = []string{
	"1/2/2006",
	"2006-1-2",
}

const (
	isoDateLayout     = "2006-01-02"
	compactDateLayout = "20060102"
)

// NormalizeZip keeps the digits of a postal code and returns the first five.
// Fewer than five digits is not a usable zip and yields "".
func NormalizeZip(zip string) string {
	digits := digitsOnly(zip)
	if len(digits) < 5 {
		return ""
	}
	return digits[:5]
}

// NormalizeDOB parses a date of birth in MM/DD/YYYY or YYYY-MM-DD form and
// returns it as ISO (YYYY-MM-DD) and compact (YYYYMMDD) strings. Anything
// else reports ok=false and empty strings.
func NormalizeDOB(raw string) (iso, compact string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", false
	}

	for _, layout := range dobLayouts {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		return parsed.Format(isoDateLayout), parsed.Format(compactDateLayout), true
	}

	return "", "", false
}

// ExtractSSNLast4 returns the last four digits of an SSN, ignoring formatting.
func ExtractSSNLast4(raw string) (string, bool) {
	digits := digitsOnly(raw)
	if len(digits) < 4 {
		return "", false
	}
	return digits[len(digits)-4:], true
}

// IsEIN reports whether the tax id is a formatted EIN: nine digits and a
// literal hyphen. A bare nine-digit number is indistinguishable from an SSN.
func IsEIN(taxID string) bool {
	return len(digitsOnly(taxID)) == 9 && strings.Contains(taxID, "-")
}

// DigitCount returns the number of decimal digits in the value.
func DigitCount(value string) int {
	return len(digitsOnly(value))
}

func digitsOnly(value string) string {
	var builder strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
