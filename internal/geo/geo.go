// Package geo provides great-circle math for geofence proximity checks.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
// This is a land-scale spherical approximation with no ellipsoid correction;
// at geofence radii of 10–50 m the error is negligible.
const EarthRadiusMeters = 6371000.0

// DistanceMeters returns the haversine great-circle distance between two
// points given in degrees.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := Radians(lat1)
	phi2 := Radians(lat2)
	dPhi := Radians(lat2 - lat1)
	dLambda := Radians(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// BearingDegrees returns the forward azimuth from the first point to the
// second, normalized to [0, 360).
func BearingDegrees(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := Radians(lat1)
	phi2 := Radians(lat2)
	dLambda := Radians(lng2 - lng1)

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)

	deg := Degrees(math.Atan2(y, x))
	return math.Mod(deg+360, 360)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

var compassLabels = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CompassDirection maps a bearing to one of 8 cardinal/diagonal labels by
// nearest 45° bucket. Ties at the 22.5° boundaries round half away from
// zero, so 22.5° is NE, 67.5° is E, and so on.
func CompassDirection(bearing float64) string {
	b := math.Mod(math.Mod(bearing, 360)+360, 360)
	idx := int(math.Floor(b/45+0.5)) % 8
	return compassLabels[idx]
}
