package normalization

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// BusinessSuffixes are legal-form and generic business tokens dropped from
// entity names before storage and comparison. Dotted forms such as "L.L.C."
// collapse to "LLC" once punctuation is stripped.
var BusinessSuffixes = map[string]bool{
	"LLC": true, "INC": true, "CORP": true, "CORPORATION": true,
	"CO": true, "COMPANY": true, "LTD": true, "LIMITED": true,
	"PLLC": true, "PC": true, "LP": true, "LLP": true,
	"ASSOCIATES": true, "GROUP": true, "SERVICES": true,
}

// PersonSuffixes are generational suffixes removed from first and last names.
var PersonSuffixes = map[string]bool{
	"JR": true, "SR": true, "II": true, "III": true, "IV": true,
}

// PersonName holds the normalized parts of a person's name.
type PersonName struct {
	First  string
	Last   string
	Middle string
	Full   string
}

// NormalizeWhitespace collapses runs of whitespace into one space and trims the ends.
func NormalizeWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// NormalizeName uppercases the value, drops every rune that is not a letter,
// digit or whitespace, and collapses whitespace. Applying it twice yields the
// same result as applying it once.
func NormalizeName(value string) string {
	if value == "" {
		return ""
	}

	value = strings.ToUpper(norm.NFC.String(value))

	var builder strings.Builder
	builder.Grow(len(value))
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			builder.WriteRune(r)
		}
	}

	// Dropping marks can leave sequences that compose further.
	return NormalizeWhitespace(norm.NFC.String(builder.String()))
}

// RemovePersonSuffixes drops standalone JR, SR, II, III and IV tokens.
func RemovePersonSuffixes(name string) string {
	return dropTokens(name, PersonSuffixes)
}

// NormalizePersonName normalizes first, last and middle names. Suffix removal
// applies to first and last only; Full joins first, middle and last.
func NormalizePersonName(first, last, middle string) PersonName {
	first = RemovePersonSuffixes(NormalizeName(first))
	last = RemovePersonSuffixes(NormalizeName(last))
	middle = NormalizeName(middle)

	return PersonName{
		First:  first,
		Last:   last,
		Middle: middle,
		Full:   NormalizeWhitespace(first + " " + middle + " " + last),
	}
}

// NormalizeEntityName normalizes a business name and removes business suffixes.
func NormalizeEntityName(name string) string {
	if name == "" {
		return ""
	}
	return dropTokens(NormalizeName(name), BusinessSuffixes)
}

// NormalizeLocation trims and uppercases a city or state value.
func NormalizeLocation(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// SplitFullName takes the first and last whitespace-separated tokens of a
// single name column. A one-token name has no last name.
func SplitFullName(full string) (first, last string) {
	tokens := strings.Fields(full)
	if len(tokens) == 0 {
		return "", ""
	}
	first = tokens[0]
	if len(tokens) > 1 {
		last = tokens[len(tokens)-1]
	}
	return first, last
}

func dropTokens(name string, drop map[string]bool) string {
	tokens := strings.Fields(name)
	kept := tokens[:0]
	for _, token := range tokens {
		if !drop[token] {
			kept = append(kept, token)
		}
	}
	return strings.Join(kept, " ")
}
