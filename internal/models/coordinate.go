package models

// GeoCoordinate is a point in decimal degrees, as decoded from an image's GPS metadata.
type GeoCoordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Rational is an EXIF RATIONAL value. A DMS angle is stored as three of them.
type Rational struct {
	Numerator   int64
	Denominator int64
}
