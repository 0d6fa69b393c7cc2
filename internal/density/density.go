// Package density converts buildable floor area into maximum dwelling-unit
// counts under the jurisdiction's dwelling-unit factor.
package density

import (
	"math"

	"github.com/parcelworks/feasibility-cli/internal/model"
)

// DefaultDUF is the jurisdiction's dwelling-unit factor: square feet of
// floor area required per permitted dwelling unit.
const DefaultDUF = 680

// roundUpThreshold is the fractional-unit boundary at which a partial unit
// counts as a whole one. The boundary is inclusive.
const roundUpThreshold = 0.75

// UnitsResult holds the raw quotient and the rounded unit count.
type UnitsResult struct {
	UnitsRaw     float64 `json:"units_raw"`
	UnitsRounded int     `json:"units_rounded"`
}

// RoundUnits divides floor area by the dwelling-unit factor and rounds the
// quotient: fractions of 0.75 or more round up, everything below rounds
// down. A non-positive duf falls back to DefaultDUF.
func RoundUnits(floorAreaSqft, duf float64) UnitsResult {
	if duf <= 0 {
		duf = DefaultDUF
	}
	if floorAreaSqft <= 0 {
		return UnitsResult{}
	}

	raw := floorAreaSqft / duf
	whole := math.Floor(raw)
	rounded := int(whole)
	if raw-whole >= roundUpThreshold {
		rounded++
	}
	return UnitsResult{UnitsRaw: raw, UnitsRounded: rounded}
}

// Applicable reports whether the dwelling-unit factor applies to a parcel:
// only multiple dwellings (or lots already holding more than two residential
// units) are subject to unit-count limits.
func Applicable(profile model.ZoningProfile, rec *model.ParcelRecord) bool {
	if profile.BuildingType == model.BuildingTypeMultipleDwelling {
		return true
	}
	return rec != nil && rec.UnitsResidential > 2
}
