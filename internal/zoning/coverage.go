package zoning

import (
	"fmt"

	"github.com/parcelworks/feasibility-cli/internal/model"
)

// coverageResult carries a lot-coverage lookup outcome. Value is nil when the
// governing rule cannot be reduced to a single ratio.
type coverageResult struct {
	Value                    *float64
	Assumption               string
	Unsupported              bool
	EligibleSiteNotEvaluated bool
}

// lowTierCoverage is the fixed coverage table for district tiers 3-5,
// keyed by building type then lot type.
var lowTierCoverage = map[model.BuildingType]map[model.LotType]float64{
	model.BuildingTypeMultipleDwelling: {
		model.LotTypeInteriorOrThrough: 0.55,
		model.LotTypeCorner:            0.80,
	},
	model.BuildingTypeSingleOrTwoFamily: {
		model.LotTypeInteriorOrThrough: 0.45,
		model.LotTypeCorner:            0.60,
	},
}

// maxLotCoverage resolves the maximum lot coverage for a district tier, lot
// type, and building type.
//
// Tiers 1-2 are governed by yard-based rules that do not reduce to a coverage
// ratio, so they resolve to nil rather than a guessed number. Tiers 6-12 use
// the flat 0.80 interior / 1.00 corner limits; the eligible-site exception
// that can raise them is reported as not evaluated, never computed.
func maxLotCoverage(tier int, lotType model.LotType, buildingType model.BuildingType) coverageResult {
	switch {
	case tier <= 2:
		return coverageResult{
			Unsupported: true,
			Assumption:  fmt.Sprintf("lot coverage in R%d districts is governed by yard rules and is not supported", tier),
		}
	case tier <= 5:
		v := lowTierCoverage[buildingType][lotType]
		return coverageResult{Value: &v}
	default:
		v := 0.80
		if lotType == model.LotTypeCorner {
			v = 1.00
		}
		return coverageResult{
			Value:                    &v,
			EligibleSiteNotEvaluated: true,
			Assumption:               "eligible-site coverage exception was not evaluated; standard limit applied",
		}
	}
}
