package geolocate

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.AmericanEnglish)

// abbreviations maps common street-type suffixes to the forms stored in the
// address-point table.
var abbreviations = map[string]string{
	"STREET":    "ST",
	"AVENUE":    "AVE",
	"BOULEVARD": "BLVD",
	"ROAD":      "RD",
	"DRIVE":     "DR",
	"PLACE":     "PL",
	"LANE":      "LN",
	"COURT":     "CT",
	"TERRACE":   "TER",
	"PARKWAY":   "PKWY",
	"EAST":      "E",
	"WEST":      "W",
	"NORTH":     "N",
	"SOUTH":     "S",
}

// NormalizeKey produces the canonical lookup form of an address: uppercase,
// single-spaced, with street-type words abbreviated.
func NormalizeKey(address string) string {
	fields := strings.Fields(strings.ToUpper(address))
	for i, f := range fields {
		f = strings.Trim(f, ".,")
		if abbr, ok := abbreviations[f]; ok {
			f = abbr
		}
		fields[i] = f
	}
	return strings.Join(fields, " ")
}

// DisplayAddress produces the human-readable normalized form.
func DisplayAddress(address string) string {
	return titleCaser.String(strings.Join(strings.Fields(strings.ToLower(address)), " "))
}
