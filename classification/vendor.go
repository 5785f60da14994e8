package classification

import (
	"strings"

	"exclusioncheck/normalization"
)

// VendorClass is the shape of a vendor record as far as matching is concerned.
type VendorClass string

const (
	ClassEntity       VendorClass = "ENTITY"
	ClassPersonVendor VendorClass = "PERSON_VENDOR"
	ClassAmbiguous    VendorClass = "AMBIGUOUS"
)

// businessSuffixes are legal-form tokens. Unlike the entity-name normalizer,
// GROUP, SERVICES and ASSOCIATES are keywords here, not suffixes.
var businessSuffixes = map[string]bool{
	"LLC": true, "INC": true, "CORP": true, "CORPORATION": true,
	"CO": true, "COMPANY": true, "LTD": true, "LIMITED": true,
	"PLLC": true, "PC": true, "LP": true, "LLP": true,
}

var businessKeywords = map[string]bool{
	"GROUP": true, "SERVICES": true, "ASSOCIATES": true, "ENTERPRISES": true,
	"HOLDINGS": true, "SOLUTIONS": true, "CLINIC": true, "MEDICAL": true,
	"HEALTH": true, "THERAPY": true, "SUPPLY": true,
}

// ClassifyVendor decides whether a vendor is a business, a natural person, or
// undecidable from its name and optional tax id. The first matching rule wins:
//
//  1. a tax id with exactly nine digits is a business signal;
//  2. a legal-form suffix token (LLC, INC, ...);
//  3. a business keyword token (GROUP, CLINIC, ...);
//  4. two or three tokens look like a person;
//  5. anything else is ambiguous.
func ClassifyVendor(name, taxID string) VendorClass {
	if strings.TrimSpace(name) == "" {
		return ClassAmbiguous
	}

	tokens := strings.Fields(normalization.NormalizeName(name))

	if taxID != "" && normalization.DigitCount(taxID) == 9 {
		return ClassEntity
	}

	for _, token := range tokens {
		if businessSuffixes[token] {
			return ClassEntity
		}
	}

	for _, token := range tokens {
		if businessKeywords[token] {
			return ClassEntity
		}
	}

	if len(tokens) >= 2 && len(tokens) <= 3 {
		return ClassPersonVendor
	}

	return ClassAmbiguous
}
