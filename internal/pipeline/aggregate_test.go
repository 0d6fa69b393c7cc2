package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelworks/feasibility-cli/internal/model"
	"github.com/parcelworks/feasibility-cli/internal/zoning"
)

func fptr(v float64) *float64 { return &v }

func lotResult(idx int, address, district string, lotArea, far float64) LotResult {
	buildable := lotArea * far
	return LotResult{
		Index:   idx,
		Address: address,
		Location: &model.ResolvedLocation{
			ParcelID:          address,
			NormalizedAddress: address,
		},
		Parcel: &model.ParcelRecord{
			LotAreaSqft:       fptr(lotArea),
			ZoningDistricts:   []string{district},
			BuildingClassCode: "C2",
		},
		Metrics: &model.DerivedZoningMetrics{
			MaxFAR:                    fptr(far),
			MaxBuildableFloorAreaSqft: fptr(buildable),
		},
		Profile: model.ZoningProfile{
			District:          district,
			NormalizedProfile: district,
			BuildingType:      model.BuildingTypeMultipleDwelling,
		},
	}
}

func TestBuildAggregation_SharedDistrict(t *testing.T) {
	lots := []LotResult{
		lotResult(0, "100 Main St", "R6B", 3000, 2.00),
		lotResult(1, "102 Main St", "R6B", 2500, 2.00),
	}

	agg := BuildAggregation(lots, 680)

	assert.Equal(t, model.FARMethodSharedDistrict, agg.FARMethod)
	assert.InDelta(t, 5500, agg.CombinedLotAreaSqft, 0.001)
	assert.InDelta(t, 11000, agg.TotalBuildableSqft, 0.001)
	assert.False(t, agg.Flags.MissingLotArea)
	assert.False(t, agg.Flags.PartialTotal)

	require.NotNil(t, agg.DensityResult)
	assert.Equal(t, model.DensityCombinedAreaThenDUF, agg.DensityResult.Strategy)
	assert.Equal(t, 16, agg.DensityResult.UnitsRounded) // 11000/680 = 16.18
}

func TestBuildAggregation_MissingLotAreaPartialTotal(t *testing.T) {
	missing := LotResult{
		Index:   1,
		Address: "102 Main St",
		Parcel: &model.ParcelRecord{
			ZoningDistricts: []string{"R6B"},
		},
		Metrics: &model.DerivedZoningMetrics{},
		Profile: model.ZoningProfile{District: "R6B", NormalizedProfile: "R6B"},
	}
	lots := []LotResult{
		lotResult(0, "100 Main St", "R6B", 4000, 2.00),
		missing,
	}

	agg := BuildAggregation(lots, 680)

	// The total covers only the lot that resolved; the flags say so rather
	// than zeroing the result.
	assert.InDelta(t, 4000, agg.CombinedLotAreaSqft, 0.001)
	assert.InDelta(t, 8000, agg.TotalBuildableSqft, 0.001)
	assert.True(t, agg.Flags.MissingLotArea)
	assert.True(t, agg.Flags.PartialTotal)
	assert.Equal(t, model.FARMethodPerLotSum, agg.FARMethod)
	require.NotNil(t, agg.DensityResult)
	assert.Equal(t, model.DensityPerLotDUFSum, agg.DensityResult.Strategy)
	assert.True(t, agg.DensityResult.RequiresManualReview)
}

func TestBuildAggregation_FailedParcelFetch(t *testing.T) {
	lots := []LotResult{
		lotResult(0, "100 Main St", "R8", 3125, 6.02),
		{Index: 1, Address: "102 Main St"},
	}

	agg := BuildAggregation(lots, 680)

	require.Len(t, agg.PerLot, 2)
	assert.True(t, agg.PerLot[1].MissingParcel)
	assert.True(t, agg.Flags.MissingLotArea)
	assert.True(t, agg.Flags.PartialTotal)
	assert.Equal(t, model.FARMethodPerLotSum, agg.FARMethod)
	assert.InDelta(t, 3125, agg.CombinedLotAreaSqft, 0.001)
}

func TestBuildAggregation_DifferentProfilesUsePerLotSum(t *testing.T) {
	lots := []LotResult{
		lotResult(0, "100 Main St", "R8", 3000, 6.02),
		lotResult(1, "102 Main St", "R6B", 2500, 2.00),
	}

	agg := BuildAggregation(lots, 680)

	assert.Equal(t, model.FARMethodPerLotSum, agg.FARMethod)
	assert.InDelta(t, 3000*6.02+2500*2.00, agg.TotalBuildableSqft, 0.001)
	assert.Equal(t, perLotFARLookup, agg.PerLot[0].FARMethod)
}

func TestBuildAggregation_MultiDistrictLotForcesPerLotSum(t *testing.T) {
	split := lotResult(1, "102 Main St", "R6B", 2500, 2.00)
	split.Parcel.ZoningDistricts = []string{"R6B", "R7"}
	split.Metrics.Flags.MultiDistrict = true
	split.Metrics.Flags.RequiresManualReview = true
	lots := []LotResult{
		lotResult(0, "100 Main St", "R6B", 3000, 2.00),
		split,
	}

	agg := BuildAggregation(lots, 680)

	assert.Equal(t, model.FARMethodPerLotSum, agg.FARMethod)
}

func TestBuildAggregation_ConditionalHeightKeepsSharedDistrict(t *testing.T) {
	// Two identical single-district lots whose height envelope is
	// conditional. Height review alone must not demote the FAR method or
	// split the unit rounding across lots.
	lots := make([]LotResult, 2)
	for i, address := range []string{"100 Main St", "102 Main St"} {
		rec := &model.ParcelRecord{
			ParcelID:          address,
			LotAreaSqft:       fptr(3000),
			ZoningDistricts:   []string{"R8"},
			BuildingClassCode: "C2",
		}
		profile, flags := zoning.BuildProfile(rec)
		metrics := zoning.Resolve(profile, flags, rec)
		require.True(t, metrics.Flags.RequiresManualReview)
		require.False(t, metrics.Flags.MultiDistrict)
		lots[i] = LotResult{
			Index:   i,
			Address: address,
			Parcel:  rec,
			Metrics: &metrics,
			Profile: profile,
		}
	}

	agg := BuildAggregation(lots, 680)

	assert.Equal(t, model.FARMethodSharedDistrict, agg.FARMethod)
	require.NotNil(t, agg.DensityResult)
	assert.Equal(t, model.DensityCombinedAreaThenDUF, agg.DensityResult.Strategy)
	assert.False(t, agg.DensityResult.RequiresManualReview)
	assert.Equal(t, 53, agg.DensityResult.UnitsRounded) // 2*3000*6.02/680 = 53.12
}

func TestBuildAggregation_SingleFamilyLotsSkipDensity(t *testing.T) {
	lots := []LotResult{
		lotResult(0, "100 Main St", "R6B", 3000, 2.00),
		lotResult(1, "102 Main St", "R6B", 2500, 2.00),
	}
	for i := range lots {
		lots[i].Parcel.BuildingClassCode = "A1"
		lots[i].Profile.BuildingType = model.BuildingTypeSingleOrTwoFamily
	}

	agg := BuildAggregation(lots, 680)

	// The dwelling-unit factor does not govern one- and two-family lots, so
	// the aggregation carries totals and flags but no unit count.
	assert.Equal(t, model.FARMethodSharedDistrict, agg.FARMethod)
	assert.Nil(t, agg.DensityResult)
}

func TestBuildAggregation_MultiDistrictLotLabeled(t *testing.T) {
	split := lotResult(0, "100 Main St", "R8", 3000, 2.00)
	split.Parcel.ZoningDistricts = []string{"R8", "R6B"}
	split.Metrics.Flags.MultiDistrict = true
	lots := []LotResult{
		split,
		lotResult(1, "102 Main St", "R8", 2500, 6.02),
	}

	agg := BuildAggregation(lots, 680)

	assert.Equal(t, perLotFARLowest, agg.PerLot[0].FARMethod)
	assert.Equal(t, perLotFARLookup, agg.PerLot[1].FARMethod)
}

func TestBuildAggregation_OverlayUsesPerLotDensity(t *testing.T) {
	overlaid := lotResult(1, "102 Main St", "R6B", 2500, 2.00)
	overlaid.Parcel.OverlayCodes = []string{"C1-3"}
	lots := []LotResult{
		lotResult(0, "100 Main St", "R6B", 3000, 2.00),
		overlaid,
	}

	agg := BuildAggregation(lots, 680)

	// Profiles match so the FAR method stays shared, but the overlay forces
	// per-lot dwelling-unit rounding.
	assert.Equal(t, model.FARMethodSharedDistrict, agg.FARMethod)
	require.NotNil(t, agg.DensityResult)
	assert.Equal(t, model.DensityPerLotDUFSum, agg.DensityResult.Strategy)
}
