package density

import "github.com/parcelworks/feasibility-cli/internal/model"

// LotDensityInput is one lot's contribution to an assemblage density
// calculation.
type LotDensityInput struct {
	BuildableSqft      *float64
	HasOverlay         bool
	HasSpecialDistrict bool
	MissingInputs      bool
}

// ChooseStrategy selects the aggregation strategy for an assemblage.
// Rounding once over the combined area is valid only when every lot resolved
// under a shared district profile, no lot carries an overlay or special
// district, and no lot has missing inputs; any other combination rounds per
// lot and flags the result for manual review.
func ChooseStrategy(farMethod model.FARMethod, lots []LotDensityInput) model.DensityStrategy {
	if farMethod != model.FARMethodSharedDistrict {
		return model.DensityPerLotDUFSum
	}
	for _, lot := range lots {
		if lot.HasOverlay || lot.HasSpecialDistrict || lot.MissingInputs || lot.BuildableSqft == nil {
			return model.DensityPerLotDUFSum
		}
	}
	return model.DensityCombinedAreaThenDUF
}

// Aggregate computes the assemblage dwelling-unit result under the chosen
// strategy. totalBuildableSqft is the per-lot sum of valid buildable areas.
func Aggregate(strategy model.DensityStrategy, lots []LotDensityInput, totalBuildableSqft, duf float64) model.DensityResult {
	if duf <= 0 {
		duf = DefaultDUF
	}

	switch strategy {
	case model.DensityCombinedAreaThenDUF:
		r := RoundUnits(totalBuildableSqft, duf)
		return model.DensityResult{
			Strategy:           model.DensityCombinedAreaThenDUF,
			DwellingUnitFactor: duf,
			UnitsRaw:           r.UnitsRaw,
			UnitsRounded:       r.UnitsRounded,
		}
	default:
		var raw float64
		var rounded int
		for _, lot := range lots {
			if lot.BuildableSqft == nil || *lot.BuildableSqft <= 0 {
				continue
			}
			r := RoundUnits(*lot.BuildableSqft, duf)
			raw += r.UnitsRaw
			rounded += r.UnitsRounded
		}
		return model.DensityResult{
			Strategy:             model.DensityPerLotDUFSum,
			DwellingUnitFactor:   duf,
			UnitsRaw:             raw,
			UnitsRounded:         rounded,
			RequiresManualReview: true,
		}
	}
}
