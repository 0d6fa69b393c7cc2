package transitzone

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unit square from (0,0) to (1,1), closed ring
func squareRing() []float64 {
	return []float64{0, 0, 1, 0, 1, 1, 0, 1, 0, 0}
}

func TestClassify_PointInside(t *testing.T) {
	c := &ShapefileClassifier{rings: [][]float64{squareRing()}}

	cls, err := c.Classify(context.Background(), 0.5, 0.5)

	require.NoError(t, err)
	assert.Equal(t, ZoneInside, cls.Zone)
	assert.True(t, cls.Matched)
}

func TestClassify_PointOutside(t *testing.T) {
	c := &ShapefileClassifier{rings: [][]float64{squareRing()}}

	cls, err := c.Classify(context.Background(), 2.0, 2.0)

	require.NoError(t, err)
	assert.Equal(t, ZoneOutside, cls.Zone)
	assert.True(t, cls.Matched)
}

func TestClassify_PointInHole(t *testing.T) {
	// Inner ring from (0.25,0.25) to (0.75,0.75) punches a hole in the
	// square; even-odd counting puts points inside it outside the zone.
	hole := []float64{0.25, 0.25, 0.75, 0.25, 0.75, 0.75, 0.25, 0.75, 0.25, 0.25}
	c := &ShapefileClassifier{rings: [][]float64{squareRing(), hole}}

	cls, err := c.Classify(context.Background(), 0.5, 0.5)

	require.NoError(t, err)
	assert.Equal(t, ZoneOutside, cls.Zone)

	cls, err = c.Classify(context.Background(), 0.1, 0.1)
	require.NoError(t, err)
	assert.Equal(t, ZoneInside, cls.Zone)
}

func TestClassify_CancelledContext(t *testing.T) {
	c := &ShapefileClassifier{rings: [][]float64{squareRing()}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cls, err := c.Classify(ctx, 0.5, 0.5)

	require.Error(t, err)
	assert.Equal(t, ZoneUnknown, cls.Zone)
	assert.False(t, cls.Matched)
}

func TestNewFromShapefile_MissingFile(t *testing.T) {
	_, err := NewFromShapefile("/nonexistent/zones.shp")
	require.Error(t, err)
}
