package memory

import (
	"math"

	"github.com/mmcloughlin/geohash"

	"github.com/kailas-cloud/nearby/internal/domain/geo"
)

const (
	maxPrecision = 6
	// Above this latitude cells shrink too fast in longitude; scan everything.
	polarLimitDeg = 85.0
	// Slack over the analytic extent of a circle in degrees.
	cellMargin = 1.1
)

var kmPerDegree = geo.EarthRadiusKm * math.Pi / 180

// cellIndex maps keys to geohash cells at every precision up to maxPrecision.
type cellIndex struct {
	field  string
	points map[string]geo.Point
	cells  [maxPrecision + 1]map[string]map[string]struct{}
}

func newCellIndex(field string) *cellIndex {
	c := &cellIndex{field: field, points: make(map[string]geo.Point)}
	for p := 1; p <= maxPrecision; p++ {
		c.cells[p] = make(map[string]map[string]struct{})
	}
	return c
}

func (c *cellIndex) add(key string, pt geo.Point) {
	c.points[key] = pt
	for p := 1; p <= maxPrecision; p++ {
		h := geohash.EncodeWithPrecision(pt.Lat, pt.Lon, uint(p))
		bucket, ok := c.cells[p][h]
		if !ok {
			bucket = make(map[string]struct{})
			c.cells[p][h] = bucket
		}
		bucket[key] = struct{}{}
	}
}

func (c *cellIndex) remove(key string) {
	pt, ok := c.points[key]
	if !ok {
		return
	}
	delete(c.points, key)
	for p := 1; p <= maxPrecision; p++ {
		h := geohash.EncodeWithPrecision(pt.Lat, pt.Lon, uint(p))
		if bucket, ok := c.cells[p][h]; ok {
			delete(bucket, key)
			if len(bucket) == 0 {
				delete(c.cells[p], h)
			}
		}
	}
}

// candidates returns a superset of the keys within radiusKm of origin.
func (c *cellIndex) candidates(origin geo.Point, radiusKm float64) []string {
	p := precisionFor(origin, radiusKm)
	if p == 0 {
		out := make([]string, 0, len(c.points))
		for k := range c.points {
			out = append(out, k)
		}
		return out
	}

	center := geohash.EncodeWithPrecision(origin.Lat, origin.Lon, uint(p))
	box := geohash.BoundingBox(center)
	clat, clon := box.Center()
	dLat := box.MaxLat - box.MinLat
	dLon := box.MaxLng - box.MinLng

	seen := make(map[string]struct{})
	var out []string
	for i := -1; i <= 1; i++ {
		lat := clat + float64(i)*dLat
		if lat < -90 || lat > 90 {
			continue
		}
		for j := -1; j <= 1; j++ {
			h := geohash.EncodeWithPrecision(lat, wrapLon(clon+float64(j)*dLon), uint(p))
			if _, dup := seen[h]; dup {
				continue
			}
			seen[h] = struct{}{}
			for k := range c.cells[p][h] {
				out = append(out, k)
			}
		}
	}
	return out
}

// precisionFor picks the finest precision whose cells are at least as large as
// the search circle, so the 3x3 block around the origin cell covers it.
// Returns 0 when a full scan is needed.
func precisionFor(origin geo.Point, radiusKm float64) int {
	latDeg := radiusKm / kmPerDegree * cellMargin
	maxLat := math.Abs(origin.Lat) + latDeg
	if maxLat >= polarLimitDeg {
		return 0
	}
	lonDeg := latDeg / math.Cos(maxLat*math.Pi/180)

	for p := maxPrecision; p >= 1; p-- {
		h, w := cellSize(p)
		if h >= latDeg && w >= lonDeg {
			return p
		}
	}
	return 0
}

// cellSize returns the height and width in degrees of a geohash cell.
func cellSize(precision int) (latDeg, lonDeg float64) {
	bits := 5 * precision
	lonBits := (bits + 1) / 2
	latBits := bits / 2
	return 180 / math.Exp2(float64(latBits)), 360 / math.Exp2(float64(lonBits))
}

func wrapLon(lon float64) float64 {
	for lon >= 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
