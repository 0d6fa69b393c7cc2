package model

// ResolvedLocation is the output of the location-resolution collaborator:
// the jurisdiction's composite tax-lot key plus coordinates and the
// administrative codes attached to the point. Produced once per address and
// never mutated afterward.
type ResolvedLocation struct {
	ParcelID          string  `json:"parcel_id"`
	NormalizedAddress string  `json:"normalized_address"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	Borough           string  `json:"borough,omitempty"`
	Block             string  `json:"block,omitempty"`
	Lot               string  `json:"lot,omitempty"`
	CommunityDistrict string  `json:"community_district,omitempty"`
	CouncilDistrict   string  `json:"council_district,omitempty"`
}

// ParcelRecord holds the lot attributes fetched from the parcel-data
// collaborator. Downstream engines treat it as read-only.
//
// ZoningDistricts is ordered with the primary district first; a lot carries
// between one and four districts. LotTypeCode is the jurisdiction's lot-type
// classification where 3 means corner lot; a nil value means no corner
// indicator was available. LandmarkFlag is the raw tri-state string from the
// source record ("Y", "N", empty, or anything else).
type ParcelRecord struct {
	ParcelID                 string   `json:"parcel_id"`
	LotAreaSqft              *float64 `json:"lot_area_sqft"`
	ExistingBuildingAreaSqft *float64 `json:"existing_building_area_sqft"`
	ZoningDistricts          []string `json:"zoning_districts"`
	OverlayCodes             []string `json:"overlay_codes,omitempty"`
	SpecialDistrictCodes     []string `json:"special_district_codes,omitempty"`
	LandUseCode              string   `json:"land_use_code,omitempty"`
	BuildingClassCode        string   `json:"building_class_code,omitempty"`
	UnitsResidential         int      `json:"units_residential"`
	NumberOfFloors           float64  `json:"number_of_floors"`
	LandmarkFlag             string   `json:"landmark_flag,omitempty"`
	HistoricDistrictName     string   `json:"historic_district_name,omitempty"`
	BlockID                  string   `json:"block_id,omitempty"`
	LotTypeCode              *int     `json:"lot_type_code,omitempty"`
}

// PrimaryDistrict returns the first zoning district, or "" when none exist.
func (p *ParcelRecord) PrimaryDistrict() string {
	if len(p.ZoningDistricts) == 0 {
		return ""
	}
	return p.ZoningDistricts[0]
}

// HasOverlay reports whether any commercial overlay is mapped on the lot.
func (p *ParcelRecord) HasOverlay() bool {
	return len(p.OverlayCodes) > 0
}

// HasSpecialDistrict reports whether the lot sits in a special purpose district.
func (p *ParcelRecord) HasSpecialDistrict() bool {
	return len(p.SpecialDistrictCodes) > 0
}
