package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

const earthRadiusMeters = 6371000.0

// ParsePoint parses the "POINT(lon lat)" text representation used in the
// profiles.location column. Longitude comes first, matching WKT.
func ParsePoint(s string) (Point, error) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "POINT(") || !strings.HasSuffix(trimmed, ")") {
		return Point{}, fmt.Errorf("invalid point %q", s)
	}
	inner := trimmed[len("POINT(") : len(trimmed)-1]
	parts := strings.Fields(inner)
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("invalid point %q", s)
	}
	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid longitude in %q", s)
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid latitude in %q", s)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Point{}, fmt.Errorf("coordinates out of range in %q", s)
	}
	return Point{Lat: lat, Lon: lon}, nil
}

// FormatPoint renders a point back into "POINT(lon lat)" text.
func FormatPoint(p Point) string {
	return fmt.Sprintf("POINT(%g %g)", p.Lon, p.Lat)
}

// DistanceMeters returns the great-circle distance between two points
// using the haversine formula.
func DistanceMeters(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
