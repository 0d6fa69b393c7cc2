// Package parcel fetches tax-lot attribute records from the jurisdiction's
// lot database.
package parcel

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/parcelworks/feasibility-cli/internal/db"
	"github.com/parcelworks/feasibility-cli/internal/model"
)

// Fetcher is the parcel-data contract consumed by the pipelines.
type Fetcher interface {
	Fetch(ctx context.Context, parcelID string) (*model.ParcelRecord, error)
	Close()
}

// Client reads lot records from Postgres.
type Client struct {
	pool     db.Pool
	ownsPool bool
}

var _ Fetcher = (*Client)(nil)

// New connects a Client to the lot database.
func New(ctx context.Context, databaseURL string) (*Client, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "parcel: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "parcel: ping")
	}
	return &Client{pool: pool, ownsPool: true}, nil
}

// NewFromPool creates a Client from an existing pool. The client does not
// own the pool; Close is a no-op.
func NewFromPool(pool db.Pool) *Client {
	return &Client{pool: pool}
}

// Close releases the underlying pool if the client owns it.
func (c *Client) Close() {
	if c.ownsPool {
		c.pool.Close()
	}
}

const fetchQuery = `
	SELECT parcel_id, lot_area_sqft, building_area_sqft,
	       zoning_district_1, zoning_district_2, zoning_district_3, zoning_district_4,
	       overlay_1, overlay_2,
	       special_district_1, special_district_2, special_district_3,
	       land_use, building_class, units_res, num_floors,
	       landmark, historic_district, block_id, lot_type_code
	FROM parcel_lots
	WHERE parcel_id = $1`

// Fetch returns the lot record for one parcel id.
func (c *Client) Fetch(ctx context.Context, parcelID string) (*model.ParcelRecord, error) {
	row := c.pool.QueryRow(ctx, fetchQuery, parcelID)

	var rec model.ParcelRecord
	var districts [4]*string
	var overlays [2]*string
	var specials [3]*string
	var landUse, buildingClass, landmark, historic, blockID *string
	var unitsRes *int
	var numFloors *float64

	err := row.Scan(
		&rec.ParcelID, &rec.LotAreaSqft, &rec.ExistingBuildingAreaSqft,
		&districts[0], &districts[1], &districts[2], &districts[3],
		&overlays[0], &overlays[1],
		&specials[0], &specials[1], &specials[2],
		&landUse, &buildingClass, &unitsRes, &numFloors,
		&landmark, &historic, &blockID, &rec.LotTypeCode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(err, "parcel: no record for %q", parcelID)
		}
		return nil, eris.Wrap(err, "parcel: query")
	}

	rec.ZoningDistricts = compact(districts[:])
	rec.OverlayCodes = compact(overlays[:])
	rec.SpecialDistrictCodes = compact(specials[:])
	rec.LandUseCode = derefStr(landUse)
	rec.BuildingClassCode = derefStr(buildingClass)
	rec.LandmarkFlag = derefStr(landmark)
	rec.HistoricDistrictName = derefStr(historic)
	rec.BlockID = derefStr(blockID)
	if unitsRes != nil {
		rec.UnitsResidential = *unitsRes
	}
	if numFloors != nil {
		rec.NumberOfFloors = *numFloors
	}
	return &rec, nil
}

// compact drops nil and empty entries, preserving order.
func compact(values []*string) []string {
	var out []string
	for _, v := range values {
		if v != nil && *v != "" {
			out = append(out, *v)
		}
	}
	return out
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
