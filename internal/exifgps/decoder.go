// Package exifgps extracts GPS coordinates from EXIF metadata embedded in images.
package exifgps

import (
	"bytes"
	"unicode/utf8"

	"geoverify-api/internal/models"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// Decoder reads GPS coordinates from JPEG or TIFF payloads. The zero value is ready to use.
type Decoder struct{}

// NewDecoder creates a new decoder
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode returns the coordinate stored in the payload's GPS tags. JPEG, WebP,
// TIFF and bare EXIF payloads are accepted. It reports false when the payload
// has no readable metadata, when any IFD entry points outside the metadata
// block, when any of the latitude, longitude or hemisphere tags is missing or
// malformed, and when the decoded values fall outside valid degree ranges.
func (d *Decoder) Decode(payload []byte) (coord models.GeoCoordinate, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			coord, ok = models.GeoCoordinate{}, false
		}
	}()

	tiffData, ok := extractTIFF(payload)
	if !ok || !validTIFF(tiffData) {
		return models.GeoCoordinate{}, false
	}

	x, err := exif.Decode(bytes.NewReader(tiffData))
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		return models.GeoCoordinate{}, false
	}

	lat, ok := triplet(x, exif.GPSLatitude)
	if !ok {
		return models.GeoCoordinate{}, false
	}
	latRef, ok := hemisphere(x, exif.GPSLatitudeRef)
	if !ok {
		return models.GeoCoordinate{}, false
	}
	lon, ok := triplet(x, exif.GPSLongitude)
	if !ok {
		return models.GeoCoordinate{}, false
	}
	lonRef, ok := hemisphere(x, exif.GPSLongitudeRef)
	if !ok {
		return models.GeoCoordinate{}, false
	}

	coord = models.GeoCoordinate{
		Latitude:  DMSToDecimal(lat, latRef),
		Longitude: DMSToDecimal(lon, lonRef),
	}
	if coord.Latitude < -90 || coord.Latitude > 90 || coord.Longitude < -180 || coord.Longitude > 180 {
		return models.GeoCoordinate{}, false
	}
	return coord, true
}

func triplet(x *exif.Exif, field exif.FieldName) ([3]models.Rational, bool) {
	var dms [3]models.Rational

	tag, err := x.Get(field)
	if err != nil || tag.Format() != tiff.RatVal || tag.Count < 3 {
		return dms, false
	}
	for i := range dms {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return dms, false
		}
		dms[i] = models.Rational{Numerator: num, Denominator: den}
	}
	return dms, true
}

func hemisphere(x *exif.Exif, field exif.FieldName) (string, bool) {
	tag, err := x.Get(field)
	if err != nil {
		return "", false
	}
	ref, err := tag.StringVal()
	if err != nil || ref == "" || !utf8.ValidString(ref) {
		return "", false
	}
	return ref, true
}
