package evaluate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelworks/feasibility-cli/internal/model"
)

func TestContaminationRisk_CleanLots(t *testing.T) {
	lots := []LotInput{
		lotWith("1-100-1", cleanRecord("R8", "100")),
		lotWith("1-100-2", cleanRecord("R8", "100")),
	}

	r := ContaminationRisk(lots)

	assert.Equal(t, model.ContaminationRiskNone, r.Risk)
	assert.Equal(t, model.ConfidenceHigh, r.Confidence)
	assert.False(t, r.RequiresManualReview)
}

func TestContaminationRisk_LandmarkedLotIsHigh(t *testing.T) {
	landmarked := cleanRecord("R8", "100")
	landmarked.LandmarkFlag = "Y"
	lots := []LotInput{
		lotWith("1-100-1", cleanRecord("R8", "100")),
		lotWith("1-100-2", landmarked),
	}

	r := ContaminationRisk(lots)

	assert.Equal(t, model.ContaminationRiskHigh, r.Risk)
	assert.True(t, r.RequiresManualReview)
	require.Len(t, r.PerLot, 2)
	assert.Equal(t, "no", r.PerLot[0].Landmarked)
	assert.Equal(t, "yes", r.PerLot[1].Landmarked)
}

func TestContaminationRisk_HistoricDistrictIsModerate(t *testing.T) {
	historic := cleanRecord("R8", "100")
	historic.HistoricDistrictName = "Greenpoint Historic District"
	lots := []LotInput{lotWith("1-100-1", historic)}

	r := ContaminationRisk(lots)

	assert.Equal(t, model.ContaminationRiskModerate, r.Risk)
	assert.True(t, r.RequiresManualReview)
}

func TestContaminationRisk_SpecialDistrictIsModerate(t *testing.T) {
	special := cleanRecord("R8", "100")
	special.SpecialDistrictCodes = []string{"MX-8"}
	lots := []LotInput{lotWith("1-100-1", special)}

	r := ContaminationRisk(lots)

	assert.Equal(t, model.ContaminationRiskModerate, r.Risk)
	assert.True(t, r.PerLot[0].HasSpecialDist)
}

func TestContaminationRisk_UnknownFlagLowersConfidence(t *testing.T) {
	odd := cleanRecord("R8", "100")
	odd.LandmarkFlag = "MAYBE"
	lots := []LotInput{
		lotWith("1-100-1", cleanRecord("R8", "100")),
		lotWith("1-100-2", odd),
	}

	r := ContaminationRisk(lots)

	assert.Equal(t, "unknown", r.PerLot[1].Landmarked)
	assert.Equal(t, model.ConfidenceMedium, r.Confidence)
	assert.True(t, r.RequiresManualReview)
}

func TestContaminationRisk_TwoUncertainLotsLowConfidence(t *testing.T) {
	odd := cleanRecord("R8", "100")
	odd.LandmarkFlag = "X"
	lots := []LotInput{
		lotWith("1-100-1", odd),
		lotWith("1-100-2", nil),
	}

	r := ContaminationRisk(lots)

	assert.Equal(t, model.ConfidenceLow, r.Confidence)
	assert.True(t, r.PerLot[1].MissingParcel)
}

func TestNormalizeLandmark(t *testing.T) {
	cases := map[string]landmarkState{
		"Y":     landmarkYes,
		"yes":   landmarkYes,
		"TRUE":  landmarkYes,
		"1":     landmarkYes,
		"":      landmarkNo,
		"N":     landmarkNo,
		" no ":  landmarkNo,
		"FALSE": landmarkNo,
		"0":     landmarkNo,
		"IND":   landmarkUnknown,
	}
	for raw, want := range cases {
		assert.Equal(t, want, normalizeLandmark(raw), "raw=%q", raw)
	}
}
