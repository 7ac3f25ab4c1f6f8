// Package geo provides great-circle distance math for proximity queries.
package geo

import (
	"math"

	"github.com/zachholt/nightout-presence/internal/model"
)

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two
// latitude/longitude points, computed with the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	a := sinLat*sinLat + math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*sinLon*sinLon

	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ValidLatitude reports whether lat is a finite value in [-90, 90].
func ValidLatitude(lat float64) bool {
	return !math.IsNaN(lat) && !math.IsInf(lat, 0) && lat >= -90 && lat <= 90
}

// ValidLongitude reports whether lon is a finite value in [-180, 180].
func ValidLongitude(lon float64) bool {
	return !math.IsNaN(lon) && !math.IsInf(lon, 0) && lon >= -180 && lon <= 180
}

// BoundingBox returns a latitude/longitude rectangle guaranteed to contain
// every point within radiusMeters of the center. The box is a coarse
// prefilter only; candidates still go through the exact Distance check.
func BoundingBox(lat, lon, radiusMeters float64) model.BoundingBox {
	const radToDeg = 180 / math.Pi

	dLat := radiusMeters / EarthRadiusMeters * radToDeg

	box := model.BoundingBox{
		MinLat: lat - dLat,
		MaxLat: lat + dLat,
	}

	if box.MinLat <= -90 || box.MaxLat >= 90 {
		// The cap covers a pole; every longitude can qualify.
		box.MinLat = math.Max(box.MinLat, -90)
		box.MaxLat = math.Min(box.MaxLat, 90)
		box.MinLon = -180
		box.MaxLon = 180
		return box
	}

	// Longitude degrees shrink with latitude; widen by the latitude in the
	// box closest to a pole so the rectangle stays a superset.
	extremeLat := math.Max(math.Abs(box.MinLat), math.Abs(box.MaxLat))
	dLon := dLat / math.Cos(extremeLat*math.Pi/180)

	if dLon >= 180 {
		box.MinLon = -180
		box.MaxLon = 180
		return box
	}

	box.MinLon = lon - dLon
	box.MaxLon = lon + dLon

	if box.MinLon < -180 {
		box.MinLon += 360
		box.WrapsLon = true
	}
	if box.MaxLon > 180 {
		box.MaxLon -= 360
		box.WrapsLon = true
	}

	return box
}
