package pipeline

import (
	"github.com/parcelworks/feasibility-cli/internal/density"
	"github.com/parcelworks/feasibility-cli/internal/model"
)

// perLotFARLookup and perLotFARLowest label how one lot's FAR was resolved.
const (
	perLotFARLookup = "district_lookup"
	perLotFARLowest = "lowest_of_districts"
)

// LotResult is one address's sub-pipeline outcome, the unit the join stage
// aggregates over. Metrics and Profile are nil/zero when the parcel fetch
// failed.
type LotResult struct {
	Index    int
	Address  string
	Location *model.ResolvedLocation
	Parcel   *model.ParcelRecord
	Metrics  *model.DerivedZoningMetrics
	Profile  model.ZoningProfile
}

// BuildAggregation combines per-lot results into an assemblage aggregation.
//
// The combined lot area sums only valid (> 0, non-null) values; any invalid
// value sets the missing-lot-area and partial-total flags. The buildable
// total is always the per-lot sum; the FAR-method label only records
// whether every lot shared a normalized district profile and resolved its
// FAR against a single district. A density result is produced only when the
// dwelling-unit factor applies to at least one lot.
func BuildAggregation(lots []LotResult, duf float64) model.AssemblageAggregation {
	agg := model.AssemblageAggregation{
		PerLot: make([]model.LotAggregate, 0, len(lots)),
	}

	allSameProfile := len(lots) >= 2
	noneNeedReview := true
	anyDensityApplicable := false
	var firstProfile string
	var densityLots []density.LotDensityInput

	for i, lot := range lots {
		entry := model.LotAggregate{Address: lot.Address}
		if lot.Location != nil {
			entry.ParcelID = lot.Location.ParcelID
		}

		dl := density.LotDensityInput{}

		if lot.Parcel == nil || lot.Metrics == nil {
			entry.MissingParcel = true
			agg.Flags.MissingLotArea = true
			agg.Flags.PartialTotal = true
			allSameProfile = false
			dl.MissingInputs = true
			agg.PerLot = append(agg.PerLot, entry)
			densityLots = append(densityLots, dl)
			continue
		}

		entry.LotAreaSqft = lot.Parcel.LotAreaSqft
		entry.MaxFAR = lot.Metrics.MaxFAR
		entry.BuildableSqft = lot.Metrics.MaxBuildableFloorAreaSqft
		entry.FARMethod = perLotFARLookup
		if lot.Metrics.Flags.MultiDistrict {
			entry.FARMethod = perLotFARLowest
		}

		if entry.LotAreaSqft != nil && *entry.LotAreaSqft > 0 {
			agg.CombinedLotAreaSqft += *entry.LotAreaSqft
		} else {
			agg.Flags.MissingLotArea = true
			agg.Flags.PartialTotal = true
			dl.MissingInputs = true
		}
		if entry.BuildableSqft != nil {
			agg.TotalBuildableSqft += *entry.BuildableSqft
		} else {
			agg.Flags.PartialTotal = true
			dl.MissingInputs = true
		}

		if i == 0 || firstProfile == "" {
			firstProfile = lot.Profile.NormalizedProfile
		}
		if lot.Profile.NormalizedProfile == "" || lot.Profile.NormalizedProfile != firstProfile {
			allSameProfile = false
		}
		// Only FAR-resolution review matters here: a lot spanning several
		// districts took the lowest FAR and its resolution is uncertain.
		// Height-envelope review is orthogonal and must not change how the
		// totals are labeled.
		if lot.Metrics.Flags.MultiDistrict {
			noneNeedReview = false
		}

		dl.BuildableSqft = entry.BuildableSqft
		dl.HasOverlay = lot.Parcel.HasOverlay()
		dl.HasSpecialDistrict = lot.Parcel.HasSpecialDistrict()
		if density.Applicable(lot.Profile, lot.Parcel) {
			anyDensityApplicable = true
		}

		agg.PerLot = append(agg.PerLot, entry)
		densityLots = append(densityLots, dl)
	}

	if allSameProfile && noneNeedReview {
		agg.FARMethod = model.FARMethodSharedDistrict
	} else {
		agg.FARMethod = model.FARMethodPerLotSum
	}

	// The dwelling-unit factor only governs multiple dwellings. When every
	// lot is single- or two-family, a unit count would be meaningless, so
	// none is emitted.
	if anyDensityApplicable {
		strategy := density.ChooseStrategy(agg.FARMethod, densityLots)
		result := density.Aggregate(strategy, densityLots, agg.TotalBuildableSqft, duf)
		agg.DensityResult = &result
	}

	return agg
}
