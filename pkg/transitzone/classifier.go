// Package transitzone classifies coordinates against the jurisdiction's
// transit-zone polygon layer.
package transitzone

import (
	"context"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"
)

// Zone is the transit-zone classification of a point.
type Zone string

const (
	ZoneInside  Zone = "inside"
	ZoneOutside Zone = "outside"
	ZoneUnknown Zone = "unknown"
)

// Classification is the result of one point lookup.
type Classification struct {
	Zone    Zone `json:"zone"`
	Matched bool `json:"matched"`
}

// Classifier is the transit-zone contract consumed by the pipelines.
type Classifier interface {
	Classify(ctx context.Context, lat, lng float64) (Classification, error)
}

// ShapefileClassifier holds the zone polygons in memory. Polygons are loaded
// once at construction and never mutated, so classification is safe for
// concurrent use.
type ShapefileClassifier struct {
	rings [][]float64 // flat XY coordinates per ring
}

var _ Classifier = (*ShapefileClassifier)(nil)

// NewFromShapefile loads every polygon from the shapefile at path.
func NewFromShapefile(path string) (*ShapefileClassifier, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "transitzone: open shapefile %s", path)
	}
	defer reader.Close()

	c := &ShapefileClassifier{}
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		c.rings = append(c.rings, polygonRings(poly)...)
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrap(err, "transitzone: read shapefile")
	}
	if len(c.rings) == 0 {
		return nil, eris.Errorf("transitzone: shapefile %s holds no polygons", path)
	}

	zap.L().Info("transitzone: loaded zone polygons",
		zap.String("path", path),
		zap.Int("rings", len(c.rings)),
	)
	return c, nil
}

// polygonRings splits a shapefile polygon into its rings as flat XY slices.
func polygonRings(poly *shp.Polygon) [][]float64 {
	var rings [][]float64
	for part := 0; part < len(poly.Parts); part++ {
		start := int(poly.Parts[part])
		end := len(poly.Points)
		if part+1 < len(poly.Parts) {
			end = int(poly.Parts[part+1])
		}

		ring := make([]float64, 0, (end-start)*2)
		for _, pt := range poly.Points[start:end] {
			ring = append(ring, pt.X, pt.Y)
		}
		if len(ring) >= 6 {
			rings = append(rings, ring)
		}
	}
	return rings
}

// Classify reports whether the point falls inside a transit-zone polygon.
// Holes are handled by even-odd counting across rings.
func (c *ShapefileClassifier) Classify(ctx context.Context, lat, lng float64) (Classification, error) {
	if err := ctx.Err(); err != nil {
		return Classification{Zone: ZoneUnknown}, eris.Wrap(err, "transitzone: classify")
	}

	point := geom.Coord{lng, lat}
	hits := 0
	for _, ring := range c.rings {
		if xy.IsPointInRing(geom.XY, point, ring) {
			hits++
		}
	}

	if hits%2 == 1 {
		return Classification{Zone: ZoneInside, Matched: true}, nil
	}
	return Classification{Zone: ZoneOutside, Matched: true}, nil
}
