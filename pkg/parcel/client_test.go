package parcel

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sptr(s string) *string   { return &s }
func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

var fetchColumns = []string{
	"parcel_id", "lot_area_sqft", "building_area_sqft",
	"zoning_district_1", "zoning_district_2", "zoning_district_3", "zoning_district_4",
	"overlay_1", "overlay_2",
	"special_district_1", "special_district_2", "special_district_3",
	"land_use", "building_class", "units_res", "num_floors",
	"landmark", "historic_district", "block_id", "lot_type_code",
}

func TestClient_Fetch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	client := NewFromPool(mock)

	mock.ExpectQuery(`SELECT parcel_id, lot_area_sqft`).
		WithArgs("3-759-40").
		WillReturnRows(pgxmock.NewRows(fetchColumns).AddRow(
			"3-759-40", fptr(3125.0), fptr(11150.0),
			sptr("R8"), nil, nil, nil,
			sptr("C1-3"), nil,
			nil, nil, nil,
			sptr("03"), sptr("C7"), iptr(12), fptr(4.0),
			sptr("N"), nil, sptr("759"), iptr(5),
		))

	rec, err := client.Fetch(context.Background(), "3-759-40")

	require.NoError(t, err)
	assert.Equal(t, "3-759-40", rec.ParcelID)
	require.NotNil(t, rec.LotAreaSqft)
	assert.InDelta(t, 3125, *rec.LotAreaSqft, 0.001)
	require.NotNil(t, rec.ExistingBuildingAreaSqft)
	assert.InDelta(t, 11150, *rec.ExistingBuildingAreaSqft, 0.001)
	assert.Equal(t, []string{"R8"}, rec.ZoningDistricts)
	assert.Equal(t, []string{"C1-3"}, rec.OverlayCodes)
	assert.Empty(t, rec.SpecialDistrictCodes)
	assert.Equal(t, "C7", rec.BuildingClassCode)
	assert.Equal(t, 12, rec.UnitsResidential)
	assert.InDelta(t, 4.0, rec.NumberOfFloors, 0.001)
	assert.Equal(t, "N", rec.LandmarkFlag)
	assert.Equal(t, "759", rec.BlockID)
	require.NotNil(t, rec.LotTypeCode)
	assert.Equal(t, 5, *rec.LotTypeCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_FetchMultiDistrictLot(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	client := NewFromPool(mock)

	mock.ExpectQuery(`SELECT parcel_id, lot_area_sqft`).
		WithArgs("1-10-5").
		WillReturnRows(pgxmock.NewRows(fetchColumns).AddRow(
			"1-10-5", fptr(5000.0), nil,
			sptr("R8"), sptr("R6B"), nil, nil,
			nil, nil,
			nil, nil, nil,
			nil, nil, nil, nil,
			nil, nil, nil, nil,
		))

	rec, err := client.Fetch(context.Background(), "1-10-5")

	require.NoError(t, err)
	// The primary district stays first.
	assert.Equal(t, []string{"R8", "R6B"}, rec.ZoningDistricts)
	assert.Nil(t, rec.ExistingBuildingAreaSqft)
	assert.Zero(t, rec.UnitsResidential)
	assert.Nil(t, rec.LotTypeCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_FetchNoRecord(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	client := NewFromPool(mock)

	mock.ExpectQuery(`SELECT parcel_id, lot_area_sqft`).
		WithArgs("9-999-999").
		WillReturnRows(pgxmock.NewRows(fetchColumns))

	_, err = client.Fetch(context.Background(), "9-999-999")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no record")
	assert.NoError(t, mock.ExpectationsWereMet())
}
