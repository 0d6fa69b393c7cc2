package zoning

import (
	"fmt"
	"strings"

	"github.com/parcelworks/feasibility-cli/internal/model"
)

// Resolve derives zoning metrics for one parcel. It is a pure function with
// no I/O and is total over its input domain: unresolved inputs degrade to nil
// values with human-readable assumption strings, never errors.
func Resolve(profile model.ZoningProfile, flags ProfileFlags, rec *model.ParcelRecord) model.DerivedZoningMetrics {
	m := model.DerivedZoningMetrics{
		Flags: model.ZoningFlags{
			LotTypeInferred:      flags.LotTypeInferred,
			BuildingTypeInferred: flags.BuildingTypeInferred,
		},
	}

	maxFAR := resolveFAR(rec, &m)
	m.MaxFAR = maxFAR

	if tier, ok := DistrictTier(profile.District); ok {
		cov := maxLotCoverage(tier, profile.LotType, profile.BuildingType)
		m.MaxLotCoverage = cov.Value
		if cov.Assumption != "" {
			m.Assumptions = append(m.Assumptions, cov.Assumption)
		}
		if cov.Unsupported {
			m.Flags.UnsupportedCoverageRule = true
		}
		if cov.EligibleSiteNotEvaluated {
			m.Flags.EligibleSiteNotEvaluated = true
		}

		env := LookupHeight(profile.District)
		m.HeightEnvelope = &env
		if env.RequiresManualReview {
			m.Flags.RequiresManualReview = true
		}
	}

	lotArea := rec.LotAreaSqft
	if lotArea == nil || *lotArea <= 0 {
		lotArea = nil
		m.Assumptions = append(m.Assumptions, "lot area is missing; buildable floor area and footprint were not computed")
	}

	if maxFAR != nil && lotArea != nil {
		buildable := *maxFAR * *lotArea
		m.MaxBuildableFloorAreaSqft = &buildable

		existing := 0.0
		if rec.ExistingBuildingAreaSqft != nil {
			existing = *rec.ExistingBuildingAreaSqft
		}
		remaining := buildable - existing
		if remaining < 0 {
			remaining = 0
			m.Assumptions = append(m.Assumptions,
				"existing building area meets or exceeds the FAR cap; lot coverage remains an independent, simultaneously binding constraint")
		}
		m.RemainingBuildableFloorAreaSqft = &remaining
	}

	if m.MaxLotCoverage != nil && lotArea != nil {
		footprint := *m.MaxLotCoverage * *lotArea
		m.MaxBuildingFootprintSqft = &footprint
	}

	return m
}

// ResolveParcel builds the zoning profile for a record and resolves it.
func ResolveParcel(rec *model.ParcelRecord) model.DerivedZoningMetrics {
	profile, flags := BuildProfile(rec)
	return Resolve(profile, flags, rec)
}

// resolveFAR looks up the governing FAR for the parcel's districts. A lot
// mapped in several districts takes the lowest FAR among them and is flagged
// for manual review.
func resolveFAR(rec *model.ParcelRecord, m *model.DerivedZoningMetrics) *float64 {
	if len(rec.ZoningDistricts) == 0 {
		m.Assumptions = append(m.Assumptions, "no zoning district on the parcel record; FAR was not resolved")
		return nil
	}

	var lowest *float64
	for _, district := range rec.ZoningDistricts {
		far, ok := lookupResidentialFAR(district, m)
		if !ok {
			continue
		}
		if lowest == nil || far < *lowest {
			f := far
			lowest = &f
		}
	}

	if lowest == nil {
		return nil
	}
	if len(rec.ZoningDistricts) > 1 {
		m.Flags.MultiDistrict = true
		m.Flags.RequiresManualReview = true
		m.Assumptions = append(m.Assumptions,
			fmt.Sprintf("lot spans %d zoning districts; the lowest FAR was applied and the result requires manual review", len(rec.ZoningDistricts)))
	}
	return lowest
}

// lookupResidentialFAR restricts FAR lookups to supported residential codes
// and records an assumption for everything else.
func lookupResidentialFAR(district string, m *model.DerivedZoningMetrics) (float64, bool) {
	district = strings.ToUpper(strings.TrimSpace(district))
	if _, ok := DistrictTier(district); !ok {
		m.Flags.UnsupportedDistrict = true
		m.Assumptions = append(m.Assumptions,
			fmt.Sprintf("district %q is not a supported residential district; FAR was not resolved for it", district))
		return 0, false
	}

	far, ok := LookupFAR(district)
	if !ok {
		m.Flags.UnsupportedDistrict = true
		m.Assumptions = append(m.Assumptions,
			fmt.Sprintf("district %q has no FAR table entry; FAR was not resolved for it", district))
		return 0, false
	}
	return far, true
}
