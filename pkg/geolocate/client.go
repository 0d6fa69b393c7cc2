// Package geolocate resolves street addresses to tax-lot identifiers and
// coordinates against the jurisdiction's address-point table.
package geolocate

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/parcelworks/feasibility-cli/internal/db"
	"github.com/parcelworks/feasibility-cli/internal/model"
)

// Resolver is the location-resolution contract consumed by the pipelines.
type Resolver interface {
	Resolve(ctx context.Context, address string) (*model.ResolvedLocation, error)
	Close()
}

// Client resolves addresses against a Postgres address-point schema.
type Client struct {
	pool     db.Pool
	ownsPool bool
}

var _ Resolver = (*Client)(nil)

// New connects a Client to the geocoding database.
func New(ctx context.Context, databaseURL string) (*Client, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "geolocate: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "geolocate: ping")
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

// Resolve looks up one address. The address is normalized before lookup so
// capitalization and spacing differences do not miss.
func (c *Client) Resolve(ctx context.Context, address string) (*model.ResolvedLocation, error) {
	key := NormalizeKey(address)
	if key == "" {
		return nil, eris.New("geolocate: empty address")
	}

	row := c.pool.QueryRow(ctx, `
		SELECT parcel_id, latitude, longitude, borough, block, lot, community_district, council_district
		FROM address_points
		WHERE normalized_address = $1
		LIMIT 1`, key)

	var loc model.ResolvedLocation
	var borough, block, lot, community, council *string
	if err := row.Scan(&loc.ParcelID, &loc.Latitude, &loc.Longitude, &borough, &block, &lot, &community, &council); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(err, "geolocate: no match for %q", address)
		}
		return nil, eris.Wrap(err, "geolocate: query")
	}

	loc.NormalizedAddress = DisplayAddress(address)
	loc.Borough = deref(borough)
	loc.Block = deref(block)
	loc.Lot = deref(lot)
	loc.CommunityDistrict = deref(community)
	loc.CouncilDistrict = deref(council)

	zap.L().Debug("geolocate: resolved",
		zap.String("address", loc.NormalizedAddress),
		zap.String("parcel_id", loc.ParcelID),
	)
	return &loc, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
