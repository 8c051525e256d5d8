package exifgps_test

import (
	"encoding/binary"
	"testing"

	"geoverify-api/internal/exifgps"
	"geoverify-api/internal/exifgps/exifgpstest"
	"geoverify-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lahore() exifgpstest.GPS {
	return exifgpstest.GPS{
		LatitudeRef:  "N",
		Latitude:     exifgpstest.DMS(31, 30, 0),
		LongitudeRef: "E",
		Longitude:    exifgpstest.DMS(74, 20, 0),
	}
}

const (
	latitudeEntry  = 1
	longitudeEntry = 3
)

func oversizedWebPChunk() []byte {
	payload := exifgpstest.WebP(exifgpstest.FromCoordinate(31.5, 74.3))
	// RIFF header (12) + VP8X chunk (18) + EXIF fourCC (4)
	binary.LittleEndian.PutUint32(payload[34:], 0xFFFFFFF0)
	return payload
}

func TestDecoder_Decode(t *testing.T) {
	decoder := exifgps.NewDecoder()

	t.Run("tiff payload", func(t *testing.T) {
		coord, ok := decoder.Decode(exifgpstest.TIFF(lahore()))
		require.True(t, ok)
		assert.InDelta(t, 31.5, coord.Latitude, 1e-9)
		assert.InDelta(t, 74.333333, coord.Longitude, 1e-6)
	})

	t.Run("jpeg payload", func(t *testing.T) {
		coord, ok := decoder.Decode(exifgpstest.JPEG(lahore()))
		require.True(t, ok)
		assert.InDelta(t, 31.5, coord.Latitude, 1e-9)
		assert.InDelta(t, 74.333333, coord.Longitude, 1e-6)
	})

	t.Run("webp payload", func(t *testing.T) {
		coord, ok := decoder.Decode(exifgpstest.WebP(lahore()))
		require.True(t, ok)
		assert.InDelta(t, 31.5, coord.Latitude, 1e-9)
		assert.InDelta(t, 74.333333, coord.Longitude, 1e-6)
	})

	t.Run("webp exif chunk with exif header", func(t *testing.T) {
		chunk := append([]byte("Exif\x00\x00"), exifgpstest.TIFF(exifgpstest.FromCoordinate(31.5, 74.3))...)

		coord, ok := decoder.Decode(exifgpstest.WrapWebP(chunk))
		require.True(t, ok)
		assert.InDelta(t, 31.5, coord.Latitude, 1e-6)
		assert.InDelta(t, 74.3, coord.Longitude, 1e-6)
	})

	t.Run("bare exif block", func(t *testing.T) {
		coord, ok := decoder.Decode(append([]byte("Exif\x00\x00"), exifgpstest.TIFF(lahore())...))
		require.True(t, ok)
		assert.InDelta(t, 31.5, coord.Latitude, 1e-9)
	})

	t.Run("jpeg with a segment before app1", func(t *testing.T) {
		jpeg := exifgpstest.JPEG(lahore())
		app0 := []byte{0xFF, 0xE0, 0x00, 0x06, 'J', 'F', 'I', 'F'}
		payload := append(append([]byte{0xFF, 0xD8}, app0...), jpeg[2:]...)

		coord, ok := decoder.Decode(payload)
		require.True(t, ok)
		assert.InDelta(t, 31.5, coord.Latitude, 1e-9)
	})

	t.Run("southern and western hemispheres", func(t *testing.T) {
		gps := lahore()
		gps.LatitudeRef = "S"
		gps.LongitudeRef = "W"

		coord, ok := decoder.Decode(exifgpstest.TIFF(gps))
		require.True(t, ok)
		assert.InDelta(t, -31.5, coord.Latitude, 1e-9)
		assert.InDelta(t, -74.333333, coord.Longitude, 1e-6)
	})

	t.Run("zero denominator degrades to zero", func(t *testing.T) {
		gps := lahore()
		gps.Latitude = []models.Rational{{Numerator: 31, Denominator: 1}, {Numerator: 30, Denominator: 0}, {Numerator: 0, Denominator: 0}}

		coord, ok := decoder.Decode(exifgpstest.TIFF(gps))
		require.True(t, ok)
		assert.InDelta(t, 31.0, coord.Latitude, 1e-9)
	})

	t.Run("extra rational components are ignored", func(t *testing.T) {
		gps := lahore()
		gps.Longitude = append(exifgpstest.DMS(74, 20, 0), models.Rational{Numerator: 9, Denominator: 1})

		coord, ok := decoder.Decode(exifgpstest.TIFF(gps))
		require.True(t, ok)
		assert.InDelta(t, 74.333333, coord.Longitude, 1e-6)
	})
}

func TestDecoder_Decode_RoundTrip(t *testing.T) {
	decoder := exifgps.NewDecoder()

	points := []models.GeoCoordinate{
		{Latitude: 31.5204, Longitude: 74.3587},
		{Latitude: -33.868820, Longitude: 151.209296},
		{Latitude: 40.712776, Longitude: -74.005974},
		{Latitude: -22.906847, Longitude: -43.172897},
	}

	for _, want := range points {
		coord, ok := decoder.Decode(exifgpstest.TIFF(exifgpstest.FromCoordinate(want.Latitude, want.Longitude)))
		require.True(t, ok)
		assert.InDelta(t, want.Latitude, coord.Latitude, 1e-6)
		assert.InDelta(t, want.Longitude, coord.Longitude, 1e-6)
	}
}

func TestDecoder_Decode_NoCoordinate(t *testing.T) {
	decoder := exifgps.NewDecoder()

	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "nil payload", payload: nil},
		{name: "empty payload", payload: []byte{}},
		{name: "not an image", payload: []byte("definitely not a jpeg")},
		{name: "truncated tiff header", payload: []byte("II*\x00\x08")},
		{name: "jpeg without app1", payload: []byte{0xFF, 0xD8, 0xFF, 0xD9}},
		{name: "metadata without gps", payload: exifgpstest.WithoutGPS()},
		{name: "jpeg metadata without gps", payload: exifgpstest.WrapJPEG(exifgpstest.WithoutGPS())},
		{
			name: "missing latitude",
			payload: exifgpstest.TIFF(exifgpstest.GPS{
				LatitudeRef: "N", LongitudeRef: "E", Longitude: exifgpstest.DMS(74, 20, 0),
			}),
		},
		{
			name: "missing latitude ref",
			payload: exifgpstest.TIFF(exifgpstest.GPS{
				Latitude: exifgpstest.DMS(31, 30, 0), LongitudeRef: "E", Longitude: exifgpstest.DMS(74, 20, 0),
			}),
		},
		{
			name: "missing longitude",
			payload: exifgpstest.TIFF(exifgpstest.GPS{
				LatitudeRef: "N", Latitude: exifgpstest.DMS(31, 30, 0), LongitudeRef: "E",
			}),
		},
		{
			name: "missing longitude ref",
			payload: exifgpstest.TIFF(exifgpstest.GPS{
				LatitudeRef: "N", Latitude: exifgpstest.DMS(31, 30, 0), Longitude: exifgpstest.DMS(74, 20, 0),
			}),
		},
		{
			name: "short latitude triplet",
			payload: exifgpstest.TIFF(exifgpstest.GPS{
				LatitudeRef:  "N",
				Latitude:     []models.Rational{{Numerator: 31, Denominator: 1}, {Numerator: 30, Denominator: 1}},
				LongitudeRef: "E",
				Longitude:    exifgpstest.DMS(74, 20, 0),
			}),
		},
		{
			name: "empty latitude triplet",
			payload: exifgpstest.TIFF(exifgpstest.GPS{
				LatitudeRef:  "N",
				Latitude:     []models.Rational{},
				LongitudeRef: "E",
				Longitude:    exifgpstest.DMS(74, 20, 0),
			}),
		},
		{
			name: "latitude beyond the pole",
			payload: exifgpstest.TIFF(exifgpstest.GPS{
				LatitudeRef: "N", Latitude: exifgpstest.DMS(120, 0, 0),
				LongitudeRef: "E", Longitude: exifgpstest.DMS(74, 20, 0),
			}),
		},
		{
			name:    "huge latitude count",
			payload: exifgpstest.SetGPSEntryCount(exifgpstest.TIFF(lahore()), latitudeEntry, 0x20000001),
		},
		{
			name:    "huge latitude count in jpeg",
			payload: exifgpstest.WrapJPEG(exifgpstest.SetGPSEntryCount(exifgpstest.TIFF(lahore()), latitudeEntry, 0x20000001)),
		},
		{
			name:    "huge latitude count in webp",
			payload: exifgpstest.WrapWebP(exifgpstest.SetGPSEntryCount(exifgpstest.TIFF(lahore()), latitudeEntry, 0x20000001)),
		},
		{
			name:    "count larger than the metadata block",
			payload: exifgpstest.SetGPSEntryCount(exifgpstest.TIFF(lahore()), longitudeEntry, 1000),
		},
		{
			name:    "latitude offset past the end",
			payload: exifgpstest.SetGPSEntryValue(exifgpstest.TIFF(lahore()), latitudeEntry, 0xFFFFFF00),
		},
		{
			name:    "latitude typed as ascii",
			payload: exifgpstest.SetGPSEntryType(exifgpstest.TIFF(lahore()), latitudeEntry, 2),
		},
		{
			name:    "unknown field type",
			payload: exifgpstest.SetGPSEntryType(exifgpstest.TIFF(lahore()), latitudeEntry, 42),
		},
		{
			name:    "directory linked to itself",
			payload: exifgpstest.SetNextIFD(exifgpstest.TIFF(lahore()), 8),
		},
		{
			name:    "directory linked to the gps directory",
			payload: exifgpstest.SetNextIFD(exifgpstest.TIFF(lahore()), uint32(exifgpstest.GPSEntryOffset(0)-2)),
		},
		{
			name:    "webp chunk size past the end",
			payload: oversizedWebPChunk(),
		},
		{
			name:    "jpeg segment length past the end",
			payload: []byte{0xFF, 0xD8, 0xFF, 0xE1, 0xFF, 0xF0, 'E', 'x', 'i', 'f', 0, 0},
		},
		{
			name: "invalid utf-8 hemisphere",
			payload: exifgpstest.TIFF(exifgpstest.GPS{
				LatitudeRef: "\xff", Latitude: exifgpstest.DMS(31, 30, 0),
				LongitudeRef: "E", Longitude: exifgpstest.DMS(74, 20, 0),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coord, ok := decoder.Decode(tt.payload)
			assert.False(t, ok)
			assert.Equal(t, models.GeoCoordinate{}, coord)
		})
	}
}

func FuzzDecoder_Decode(f *testing.F) {
	f.Add(exifgpstest.TIFF(lahore()))
	f.Add(exifgpstest.JPEG(lahore()))
	f.Add(exifgpstest.WebP(lahore()))
	f.Add(exifgpstest.WithoutGPS())
	f.Add([]byte{})

	decoder := exifgps.NewDecoder()
	f.Fuzz(func(t *testing.T, payload []byte) {
		coord, ok := decoder.Decode(payload)
		if !ok {
			assert.Equal(t, models.GeoCoordinate{}, coord)
			return
		}
		assert.True(t, coord.Latitude >= -90 && coord.Latitude <= 90)
		assert.True(t, coord.Longitude >= -180 && coord.Longitude <= 180)
	})
}
