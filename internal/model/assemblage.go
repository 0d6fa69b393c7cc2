package model

// FARMethod labels the provenance of an assemblage buildable-area total.
// The total itself is always the per-lot sum; shared_district only asserts
// that every lot resolved under the same normalized district profile and
// none spanned multiple districts.
type FARMethod string

const (
	FARMethodSharedDistrict FARMethod = "shared_district"
	FARMethodPerLotSum      FARMethod = "per_lot_sum"
)

// LotAggregate is one lot's contribution to an assemblage aggregation.
type LotAggregate struct {
	ParcelID      string   `json:"parcel_id"`
	Address       string   `json:"address"`
	LotAreaSqft   *float64 `json:"lot_area_sqft"`
	MaxFAR        *float64 `json:"max_far"`
	BuildableSqft *float64 `json:"buildable_sqft"`
	FARMethod     string   `json:"far_method"`
	MissingParcel bool     `json:"missing_parcel,omitempty"`
}

// AggregationFlags marks gaps in an assemblage total.
type AggregationFlags struct {
	MissingLotArea bool `json:"missing_lot_area"`
	PartialTotal   bool `json:"partial_total"`
}

// AssemblageAggregation is the combined feasibility result for a multi-lot
// site. Immutable once produced.
type AssemblageAggregation struct {
	PerLot              []LotAggregate   `json:"per_lot"`
	CombinedLotAreaSqft float64          `json:"combined_lot_area_sqft"`
	TotalBuildableSqft  float64          `json:"total_buildable_sqft"`
	FARMethod           FARMethod        `json:"assemblage_far_method"`
	DensityResult       *DensityResult   `json:"density_result,omitempty"`
	Flags               AggregationFlags `json:"flags"`
}

// DensityStrategy names how dwelling-unit rounding was aggregated across lots.
type DensityStrategy string

const (
	DensityCombinedAreaThenDUF DensityStrategy = "combined_area_then_duf"
	DensityPerLotDUFSum        DensityStrategy = "per_lot_duf_sum"
)

// DensityResult is the dwelling-unit outcome for an assemblage.
type DensityResult struct {
	Strategy             DensityStrategy `json:"strategy"`
	DwellingUnitFactor   float64         `json:"dwelling_unit_factor"`
	UnitsRaw             float64         `json:"units_raw"`
	UnitsRounded         int             `json:"units_rounded"`
	RequiresManualReview bool            `json:"requires_manual_review"`
}

// Confidence grades how certain an evaluator is about its summary.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ConsistencyLot is the per-lot breakdown row of a consistency report.
type ConsistencyLot struct {
	ParcelID        string   `json:"parcel_id"`
	PrimaryDistrict string   `json:"primary_district"`
	Normalized      string   `json:"normalized_profile"`
	BlockID         string   `json:"block_id"`
	Overlays        []string `json:"overlays,omitempty"`
	SpecialDists    []string `json:"special_districts,omitempty"`
	DistrictCount   int      `json:"district_count"`
	MissingParcel   bool     `json:"missing_parcel,omitempty"`
}

// ZoningConsistencyReport summarizes cross-lot zoning agreement for an
// assemblage.
type ZoningConsistencyReport struct {
	PerLot                []ConsistencyLot `json:"per_lot"`
	SamePrimaryDistrict   bool             `json:"same_primary_district"`
	SameNormalizedProfile bool             `json:"same_normalized_profile"`
	SameBlock             bool             `json:"same_block"`
	HasAnyOverlay         bool             `json:"has_any_overlay"`
	HasAnySpecialDistrict bool             `json:"has_any_special_district"`
	MultiDistrictLots     int              `json:"multi_district_lots_count"`
	Confidence            Confidence       `json:"confidence"`
	RequiresManualReview  bool             `json:"requires_manual_review"`
}

// ContaminationRisk grades the regulatory-encumbrance risk of a site.
type ContaminationRisk string

const (
	ContaminationRiskHigh     ContaminationRisk = "high"
	ContaminationRiskModerate ContaminationRisk = "moderate"
	ContaminationRiskNone     ContaminationRisk = "none"
)

// ContaminationLot is the per-lot breakdown row of a contamination report.
type ContaminationLot struct {
	ParcelID         string `json:"parcel_id"`
	Landmarked       string `json:"landmarked"` // "yes", "no", or "unknown"
	HistoricDistrict string `json:"historic_district,omitempty"`
	HasSpecialDist   bool   `json:"has_special_district"`
	HasOverlay       bool   `json:"has_overlay"`
	MissingParcel    bool   `json:"missing_parcel,omitempty"`
}

// ContaminationRiskReport summarizes landmark/historic/special-district
// encumbrances across an assemblage.
type ContaminationRiskReport struct {
	PerLot               []ContaminationLot `json:"per_lot"`
	Risk                 ContaminationRisk  `json:"risk"`
	Confidence           Confidence         `json:"confidence"`
	RequiresManualReview bool               `json:"requires_manual_review"`
}
