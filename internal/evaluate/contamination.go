package evaluate

import (
	"strings"

	"github.com/parcelworks/feasibility-cli/internal/model"
)

// landmarkState is the normalized tri-state landmark flag.
type landmarkState string

const (
	landmarkYes     landmarkState = "yes"
	landmarkNo      landmarkState = "no"
	landmarkUnknown landmarkState = "unknown"
)

// normalizeLandmark maps the raw landmark flag string to a tri-state value.
// Empty strings count as falsy; anything unrecognized is unknown and lowers
// confidence downstream.
func normalizeLandmark(raw string) landmarkState {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "Y", "YES", "TRUE", "1":
		return landmarkYes
	case "", "N", "NO", "FALSE", "0":
		return landmarkNo
	default:
		return landmarkUnknown
	}
}

// ContaminationRisk evaluates landmark, historic-district, and
// special-district encumbrances across the lots of an assemblage.
func ContaminationRisk(lots []LotInput) model.ContaminationRiskReport {
	report := model.ContaminationRiskReport{
		PerLot: make([]model.ContaminationLot, 0, len(lots)),
	}

	var anyLandmarked, anyModerate bool
	var uncertainLots int

	for _, lot := range lots {
		row := model.ContaminationLot{ParcelID: lot.ParcelID}
		if lot.Record == nil {
			row.MissingParcel = true
			row.Landmarked = string(landmarkUnknown)
			uncertainLots++
			report.PerLot = append(report.PerLot, row)
			continue
		}

		rec := lot.Record
		state := normalizeLandmark(rec.LandmarkFlag)
		row.Landmarked = string(state)
		row.HistoricDistrict = rec.HistoricDistrictName
		row.HasSpecialDist = rec.HasSpecialDistrict()
		row.HasOverlay = rec.HasOverlay()
		report.PerLot = append(report.PerLot, row)

		switch state {
		case landmarkYes:
			anyLandmarked = true
		case landmarkUnknown:
			uncertainLots++
		}
		if rec.HistoricDistrictName != "" || rec.HasSpecialDistrict() || rec.HasOverlay() {
			anyModerate = true
		}
	}

	switch {
	case anyLandmarked:
		report.Risk = model.ContaminationRiskHigh
	case anyModerate:
		report.Risk = model.ContaminationRiskModerate
	default:
		report.Risk = model.ContaminationRiskNone
	}

	switch {
	case uncertainLots >= 2:
		report.Confidence = model.ConfidenceLow
	case uncertainLots == 1:
		report.Confidence = model.ConfidenceMedium
	default:
		report.Confidence = model.ConfidenceHigh
	}

	report.RequiresManualReview = report.Risk != model.ContaminationRiskNone ||
		report.Confidence != model.ConfidenceHigh
	return report
}
