package zoning

import (
	"strconv"
	"strings"

	"github.com/parcelworks/feasibility-cli/internal/model"
)

// cornerLotTypeCode is the jurisdiction's lot-type classification for corner
// lots on parcel records.
const cornerLotTypeCode = 3

// NormalizeDistrict strips the contextual suffix from a district code,
// leaving the base residential district: "R7-2" and "R7A" both normalize to
// "R7". Codes that do not start with a residential prefix are returned
// unchanged.
func NormalizeDistrict(district string) string {
	district = strings.ToUpper(strings.TrimSpace(district))
	if !strings.HasPrefix(district, "R") {
		return district
	}
	i := 1
	for i < len(district) && district[i] >= '0' && district[i] <= '9' {
		i++
	}
	if i == 1 {
		return district
	}
	return district[:i]
}

// DistrictTier returns the numeric tier of a residential district code
// ("R7-2" → 7). The second return is false for non-residential codes and
// tiers outside 1-12.
func DistrictTier(district string) (int, bool) {
	norm := NormalizeDistrict(district)
	if len(norm) < 2 || norm[0] != 'R' {
		return 0, false
	}
	tier, err := strconv.Atoi(norm[1:])
	if err != nil || tier < 1 || tier > 12 {
		return 0, false
	}
	return tier, true
}

// ProfileFlags records which parts of a ZoningProfile were inferred rather
// than read directly from the parcel record.
type ProfileFlags struct {
	LotTypeInferred      bool
	BuildingTypeInferred bool
}

// BuildProfile derives the zoning view of a parcel. Lot type defaults to
// interior_or_through when the record carries no corner indicator, and
// building type falls back to single_or_two_family for unrecognized building
// class codes; both defaults are reported through the returned flags rather
// than silently assumed.
func BuildProfile(rec *model.ParcelRecord) (model.ZoningProfile, ProfileFlags) {
	var flags ProfileFlags

	district := rec.PrimaryDistrict()
	profile := model.ZoningProfile{
		District:          district,
		NormalizedProfile: NormalizeDistrict(district),
	}

	if rec.LotTypeCode == nil {
		profile.LotType = model.LotTypeInteriorOrThrough
		flags.LotTypeInferred = true
	} else if *rec.LotTypeCode == cornerLotTypeCode {
		profile.LotType = model.LotTypeCorner
	} else {
		profile.LotType = model.LotTypeInteriorOrThrough
	}

	profile.BuildingType, flags.BuildingTypeInferred = inferBuildingType(rec)
	return profile, flags
}

// inferBuildingType maps the building-class code families for walk-up and
// elevator apartment buildings to multiple_dwelling; a residential unit count
// above two forces the same. Everything else is single_or_two_family, flagged
// as inferred when the class code is unrecognized.
func inferBuildingType(rec *model.ParcelRecord) (model.BuildingType, bool) {
	if rec.UnitsResidential > 2 {
		return model.BuildingTypeMultipleDwelling, false
	}

	code := strings.ToUpper(strings.TrimSpace(rec.BuildingClassCode))
	if code == "" {
		return model.BuildingTypeSingleOrTwoFamily, true
	}
	switch code[0] {
	case 'C', 'D':
		return model.BuildingTypeMultipleDwelling, false
	case 'A', 'B', 'S':
		return model.BuildingTypeSingleOrTwoFamily, false
	default:
		return model.BuildingTypeSingleOrTwoFamily, true
	}
}
