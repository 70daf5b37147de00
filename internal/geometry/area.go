package geometry

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
)

type AreaPoint struct {
	Latitude  float64
	Longitude float64
}

type Area struct {
	City   string
	Points []AreaPoint
	Hull   *geojson.Feature
}

// AreaManager builds per-city boundary hulls from geocoded listings.
type AreaManager struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewAreaManager(db *sql.DB, logger *logrus.Logger) *AreaManager {
	return &AreaManager{
		db:     db,
		logger: logger,
	}
}

// FetchAreaPoints collects the coordinates of every geocoded listing,
// grouped by city. Duplicate coordinates are collapsed so a tower of
// condo units does not dominate the hull.
func (am *AreaManager) FetchAreaPoints() (map[string]*Area, error) {
	query := `
		SELECT city, latitude, longitude
		FROM listings
		WHERE latitude IS NOT NULL
		  AND longitude IS NOT NULL
	`

	rows, err := am.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query listing coordinates: %v", err)
	}
	defer rows.Close()

	areas := make(map[string]*Area)
	seen := make(map[string]bool)

	for rows.Next() {
		var city string
		var lat, lon float64
		if err := rows.Scan(&city, &lat, &lon); err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}

		key := fmt.Sprintf("%s|%.6f,%.6f", city, lat, lon)
		if seen[key] {
			continue
		}
		seen[key] = true

		area, ok := areas[city]
		if !ok {
			area = &Area{City: city}
			areas[city] = area
		}
		area.Points = append(area.Points, AreaPoint{
			Latitude:  lat,
			Longitude: lon,
		})
	}

	return areas, nil
}

// angle orders points counterclockwise around center. Coordinate deltas
// here are fractions of a degree, so the comparison must stay in floats.
func angle(center, p orb.Point) float64 {
	return math.Atan2(p[1]-center[1], p[0]-center[0])
}

func sortPointsByAngle(points []orb.Point, center orb.Point) {
	sort.Slice(points, func(i, j int) bool {
		angleI := angle(center, points[i])
		angleJ := angle(center, points[j])
		return angleI < angleJ
	})
}

func distance(p1, p2 orb.Point) float64 {
	dx := p2[0] - p1[0]
	dy := p2[1] - p1[1]
	return dx*dx + dy*dy
}

func interpolatePoints(p1, p2 orb.Point, t float64) orb.Point {
	return orb.Point{
		p1[0] + t*(p2[0]-p1[0]),
		p1[1] + t*(p2[1]-p1[1]),
	}
}

func bufferHull(hull orb.Ring, bufferDistance float64) orb.Ring {
	if len(hull) < 4 {
		return hull
	}

	// Densify long edges so the smoothing pass has points to work with
	var buffered []orb.Point
	numPoints := len(hull)

	for i := 0; i < numPoints-1; i++ {
		p1 := hull[i]
		p2 := hull[(i+1)%numPoints]

		buffered = append(buffered, p1)

		dist := distance(p1, p2)
		if dist > bufferDistance*bufferDistance*4 {
			numInterpolated := int(dist / (bufferDistance * bufferDistance))
			for j := 1; j < numInterpolated; j++ {
				t := float64(j) / float64(numInterpolated)
				buffered = append(buffered, interpolatePoints(p1, p2, t))
			}
		}
	}

	buffered = append(buffered, buffered[0])

	// Round off sharp corners
	smoothed := make([]orb.Point, 0, len(buffered))
	for i := 0; i < len(buffered)-1; i++ {
		p1 := buffered[i]
		p2 := buffered[(i+1)%len(buffered)]
		p3 := buffered[(i+2)%len(buffered)]

		smoothed = append(smoothed, p1)

		v1x := p2[0] - p1[0]
		v1y := p2[1] - p1[1]
		v2x := p3[0] - p2[0]
		v2y := p3[1] - p2[1]

		v1len := distance(p1, p2)
		v2len := distance(p2, p3)
		if v1len > 0 && v2len > 0 {
			v1x /= v1len
			v1y /= v1len
			v2x /= v2len
			v2y /= v2len

			dot := v1x*v2x + v1y*v2y
			if dot < 0.9 {
				numArcPoints := 5
				for j := 1; j < numArcPoints; j++ {
					t := float64(j) / float64(numArcPoints)
					smoothed = append(smoothed, orb.Point{
						p2[0] + bufferDistance*(-v1x*t+v2x*(1-t)),
						p2[1] + bufferDistance*(-v1y*t+v2y*(1-t)),
					})
				}
			}
		}
	}

	smoothed = append(smoothed, smoothed[0])

	return orb.Ring(smoothed)
}

func generateConvexHull(points []orb.Point) orb.Ring {
	hull := grahamScan(points)
	if hull == nil {
		return nil
	}
	return bufferHull(hull, 0.001)
}

// grahamScan returns the closed convex hull ring of the points, or nil
// when there are fewer than three.
func grahamScan(points []orb.Point) orb.Ring {
	if len(points) < 3 {
		return nil
	}

	// Find the leftmost point
	leftmost := points[0]
	leftmostIdx := 0
	for i := 1; i < len(points); i++ {
		if points[i][0] < leftmost[0] {
			leftmost = points[i]
			leftmostIdx = i
		}
	}

	points[0], points[leftmostIdx] = points[leftmostIdx], points[0]

	sortPointsByAngle(points[1:], points[0])

	// Graham scan
	hull := []orb.Point{points[0], points[1]}
	for i := 2; i < len(points); i++ {
		for len(hull) > 1 {
			n := len(hull)
			v1x := hull[n-1][0] - hull[n-2][0]
			v1y := hull[n-1][1] - hull[n-2][1]
			v2x := points[i][0] - hull[n-2][0]
			v2y := points[i][1] - hull[n-2][1]
			cross := v1x*v2y - v1y*v2x

			if cross >= 0 {
				break
			}
			hull = hull[:n-1]
		}
		hull = append(hull, points[i])
	}

	if len(hull) > 2 {
		hull = append(hull, hull[0])
	}

	return orb.Ring(hull)
}

// GenerateHulls computes a smoothed convex hull for every area that has
// at least three distinct listing coordinates.
func (am *AreaManager) GenerateHulls(areas map[string]*Area) error {
	for city, area := range areas {
		if len(area.Points) < 3 {
			am.logger.Warnf("Not enough points for area %s (minimum 3 required)", city)
			continue
		}

		points := make([]orb.Point, len(area.Points))
		for i, p := range area.Points {
			points[i] = orb.Point{p.Longitude, p.Latitude}
		}

		hull := generateConvexHull(points)
		if hull == nil {
			continue
		}

		feature := geojson.NewFeature(hull)
		feature.Properties = geojson.Properties{
			"city":          area.City,
			"point_count":   len(area.Points),
			"geometry_type": "hull",
			"hull_type":     "convex",
		}

		area.Hull = feature
	}

	return nil
}

// BuildFeatureCollection assembles the generated hulls into a feature
// collection ready to serve to map clients.
func (am *AreaManager) BuildFeatureCollection(areas map[string]*Area) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, area := range areas {
		if area.Hull != nil {
			fc.Append(area.Hull)
		}
	}
	fc.ExtraMembers = map[string]interface{}{
		"metadata": map[string]interface{}{
			"generated": time.Now().Format(time.RFC3339),
			"areas":     len(fc.Features),
		},
	}
	return fc
}

// BuildAreaHulls runs the full pipeline from database to feature collection.
func (am *AreaManager) BuildAreaHulls() (*geojson.FeatureCollection, error) {
	areas, err := am.FetchAreaPoints()
	if err != nil {
		return nil, err
	}
	if err := am.GenerateHulls(areas); err != nil {
		return nil, err
	}
	return am.BuildFeatureCollection(areas), nil
}
