package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by HaversineDistance.
const EarthRadiusMeters = 6371000

// HaversineDistance returns the great-circle distance in meters between two
// points given in decimal degrees.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lon2 - lon1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda

	return EarthRadiusMeters * (2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
