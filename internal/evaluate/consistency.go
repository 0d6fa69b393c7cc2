// Package evaluate holds the cross-lot evaluators that run over an
// assemblage's parcel records. Both evaluators are pure functions.
package evaluate

import (
	"github.com/parcelworks/feasibility-cli/internal/model"
	"github.com/parcelworks/feasibility-cli/internal/zoning"
)

// LotInput pairs one assemblage member's parcel record with its address.
// A nil Record means the parcel-data fetch failed for that lot.
type LotInput struct {
	Address  string
	ParcelID string
	Record   *model.ParcelRecord
}

// Consistency compares zoning attributes across the lots of an assemblage.
// Equality fields are true only when every lot's respective value is present
// and identical.
func Consistency(lots []LotInput) model.ZoningConsistencyReport {
	report := model.ZoningConsistencyReport{
		PerLot: make([]model.ConsistencyLot, 0, len(lots)),
	}

	var primaries, normals, blocks []string
	for _, lot := range lots {
		row := model.ConsistencyLot{ParcelID: lot.ParcelID}
		if lot.Record == nil {
			row.MissingParcel = true
			report.PerLot = append(report.PerLot, row)
			continue
		}

		rec := lot.Record
		row.PrimaryDistrict = rec.PrimaryDistrict()
		row.Normalized = zoning.NormalizeDistrict(row.PrimaryDistrict)
		row.BlockID = rec.BlockID
		row.Overlays = rec.OverlayCodes
		row.SpecialDists = rec.SpecialDistrictCodes
		row.DistrictCount = len(rec.ZoningDistricts)
		report.PerLot = append(report.PerLot, row)

		primaries = append(primaries, row.PrimaryDistrict)
		normals = append(normals, row.Normalized)
		blocks = append(blocks, row.BlockID)

		if rec.HasOverlay() {
			report.HasAnyOverlay = true
		}
		if rec.HasSpecialDistrict() {
			report.HasAnySpecialDistrict = true
		}
		if len(rec.ZoningDistricts) > 1 {
			report.MultiDistrictLots++
		}
	}

	n := len(lots)
	report.SamePrimaryDistrict = allEqualNonEmpty(primaries, n)
	report.SameNormalizedProfile = allEqualNonEmpty(normals, n)
	report.SameBlock = allEqualNonEmpty(blocks, n)

	report.Confidence = consistencyConfidence(report)
	report.RequiresManualReview = report.Confidence != model.ConfidenceHigh
	return report
}

// consistencyConfidence grades the comparison: high only when every lot
// shares the primary district with no overlays, special districts, or
// multi-district lots.
func consistencyConfidence(r model.ZoningConsistencyReport) model.Confidence {
	if r.SamePrimaryDistrict && !r.HasAnyOverlay && !r.HasAnySpecialDistrict && r.MultiDistrictLots == 0 {
		return model.ConfidenceHigh
	}
	if r.SameNormalizedProfile {
		return model.ConfidenceMedium
	}
	return model.ConfidenceLow
}

// allEqualNonEmpty reports whether values holds exactly want entries, all
// non-empty and identical.
func allEqualNonEmpty(values []string, want int) bool {
	if len(values) != want || want == 0 {
		return false
	}
	first := values[0]
	if first == "" {
		return false
	}
	for _, v := range values[1:] {
		if v == "" || v != first {
			return false
		}
	}
	return true
}
