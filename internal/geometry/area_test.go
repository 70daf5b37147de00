package geometry

import (
	"io"
	"testing"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// requireConvex asserts that every turn along the closed ring is a left
// turn or collinear.
func requireConvex(t *testing.T, ring orb.Ring) {
	t.Helper()
	require.GreaterOrEqual(t, len(ring), 4)
	require.Equal(t, ring[0], ring[len(ring)-1])

	n := len(ring) - 1
	for i := 0; i < n; i++ {
		a, b, c := ring[i], ring[(i+1)%n], ring[(i+2)%n]
		cross := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
		assert.GreaterOrEqual(t, cross, 0.0)
	}
}

func TestGrahamScanSquare(t *testing.T) {
	points := []orb.Point{
		{0, 0},
		{1, 0},
		{1, 1},
		{0, 1},
		{0.5, 0.5}, // interior point, must not appear on the hull
	}

	hull := grahamScan(points)
	require.NotNil(t, hull)
	requireConvex(t, hull)

	for _, p := range hull {
		assert.NotEqual(t, orb.Point{0.5, 0.5}, p)
	}
}

func TestGrahamScanSubDegreeSpread(t *testing.T) {
	// Listing coordinates only ever differ by fractions of a degree
	points := []orb.Point{
		{-95.40, 29.70},
		{-95.30, 29.72},
		{-95.35, 29.80},
		{-95.45, 29.76},
		{-95.33, 29.65},
		{-95.37, 29.73}, // interior
	}

	hull := grahamScan(points)
	require.NotNil(t, hull)
	requireConvex(t, hull)

	for _, p := range hull {
		assert.NotEqual(t, orb.Point{-95.37, 29.73}, p)
	}
}

func TestGenerateConvexHullTooFewPoints(t *testing.T) {
	assert.Nil(t, generateConvexHull([]orb.Point{{0, 0}, {1, 1}}))
	assert.Nil(t, grahamScan([]orb.Point{{0, 0}, {1, 1}}))
}

func TestGenerateConvexHullClosedRing(t *testing.T) {
	hull := generateConvexHull([]orb.Point{
		{-95.40, 29.70},
		{-95.30, 29.72},
		{-95.35, 29.80},
		{-95.45, 29.76},
	})
	require.NotNil(t, hull)
	assert.Equal(t, hull[0], hull[len(hull)-1])
}

func TestGenerateHulls(t *testing.T) {
	am := NewAreaManager(nil, testLogger())

	areas := map[string]*Area{
		"Houston": {
			City: "Houston",
			Points: []AreaPoint{
				{Latitude: 29.7, Longitude: -95.4},
				{Latitude: 29.8, Longitude: -95.3},
				{Latitude: 29.75, Longitude: -95.5},
				{Latitude: 29.72, Longitude: -95.35},
			},
		},
		"Galveston": {
			City: "Galveston",
			Points: []AreaPoint{
				{Latitude: 29.3, Longitude: -94.8},
				{Latitude: 29.31, Longitude: -94.79},
			},
		},
	}

	err := am.GenerateHulls(areas)
	require.NoError(t, err)

	require.NotNil(t, areas["Houston"].Hull)
	assert.Equal(t, "Houston", areas["Houston"].Hull.Properties["city"])
	assert.Equal(t, 4, areas["Houston"].Hull.Properties["point_count"])

	// Two points is not enough for a hull
	assert.Nil(t, areas["Galveston"].Hull)
}

func TestBuildFeatureCollection(t *testing.T) {
	am := NewAreaManager(nil, testLogger())

	areas := map[string]*Area{
		"Houston": {
			City: "Houston",
			Points: []AreaPoint{
				{Latitude: 29.7, Longitude: -95.4},
				{Latitude: 29.8, Longitude: -95.3},
				{Latitude: 29.75, Longitude: -95.5},
			},
		},
		"Austin": {City: "Austin"},
	}
	require.NoError(t, am.GenerateHulls(areas))

	fc := am.BuildFeatureCollection(areas)
	assert.Len(t, fc.Features, 1)
}
