package model

// LotType classifies a lot's position within its block.
type LotType string

const (
	LotTypeCorner            LotType = "corner"
	LotTypeInteriorOrThrough LotType = "interior_or_through"
)

// BuildingType distinguishes the two residential building families the
// coverage and density rules branch on.
type BuildingType string

const (
	BuildingTypeSingleOrTwoFamily BuildingType = "single_or_two_family"
	BuildingTypeMultipleDwelling  BuildingType = "multiple_dwelling"
)

// ZoningProfile is the normalized zoning view of a parcel, derived once from
// its ParcelRecord before rule resolution.
type ZoningProfile struct {
	District          string       `json:"district"`
	NormalizedProfile string       `json:"normalized_profile"`
	LotType           LotType      `json:"lot_type"`
	BuildingType      BuildingType `json:"building_type"`
}

// HeightKind is the result kind of a height-envelope lookup.
type HeightKind string

const (
	HeightKindFixed       HeightKind = "fixed"
	HeightKindConditional HeightKind = "conditional"
	HeightKindUnsupported HeightKind = "unsupported"
	HeightKindSeeSection  HeightKind = "see_section"
)

// HeightPair is one base-height/building-height candidate in feet.
type HeightPair struct {
	BaseHeightFt     float64 `json:"base_height_ft"`
	BuildingHeightFt float64 `json:"building_height_ft"`
	Condition        string  `json:"condition,omitempty"`
	Citation         string  `json:"citation,omitempty"`
}

// HeightEnvelope is the per-district height lookup result. Fixed results have
// exactly one candidate; conditional results carry several, each with its
// qualifying condition, and require manual review. SeeSection results carry a
// citation only.
type HeightEnvelope struct {
	Kind                 HeightKind   `json:"kind"`
	Candidates           []HeightPair `json:"candidates,omitempty"`
	Citation             string       `json:"citation,omitempty"`
	RequiresManualReview bool         `json:"requires_manual_review"`
}

// ZoningFlags marks inferences and unevaluated conditions attached to a
// resolution result. Flags never replace values; they qualify them.
type ZoningFlags struct {
	LotTypeInferred          bool `json:"lot_type_inferred,omitempty"`
	BuildingTypeInferred     bool `json:"building_type_inferred,omitempty"`
	MultiDistrict            bool `json:"multi_district,omitempty"`
	UnsupportedDistrict      bool `json:"unsupported_district,omitempty"`
	UnsupportedCoverageRule  bool `json:"unsupported_coverage_rule,omitempty"`
	EligibleSiteNotEvaluated bool `json:"eligible_site_not_evaluated,omitempty"`
	RequiresManualReview     bool `json:"requires_manual_review,omitempty"`
}

// DerivedZoningMetrics is the output of zoning resolution for one parcel.
// Nil pointer fields mean the value could not be resolved; the reason is
// always present in Assumptions. The struct is recomputed whole whenever its
// inputs change, never patched.
type DerivedZoningMetrics struct {
	MaxFAR                          *float64        `json:"max_far"`
	MaxLotCoverage                  *float64        `json:"max_lot_coverage"`
	MaxBuildableFloorAreaSqft       *float64        `json:"max_buildable_floor_area_sqft"`
	RemainingBuildableFloorAreaSqft *float64        `json:"remaining_buildable_floor_area_sqft"`
	MaxBuildingFootprintSqft        *float64        `json:"max_building_footprint_sqft"`
	HeightEnvelope                  *HeightEnvelope `json:"height_envelope,omitempty"`
	Assumptions                     []string        `json:"assumptions,omitempty"`
	Flags                           ZoningFlags     `json:"flags"`
}
