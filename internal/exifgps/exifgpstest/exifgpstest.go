// Package exifgpstest builds minimal EXIF payloads carrying GPS tags.
package exifgpstest

import (
	"bytes"
	"encoding/binary"

	"geoverify-api/internal/exifgps"
	"geoverify-api/internal/models"
)

const (
	typeASCII    = 2
	typeShort    = 3
	typeLong     = 4
	typeRational = 5

	tagOrientation    = 0x0112
	tagGPSInfoPointer = 0x8825
	tagLatitudeRef    = 0x0001
	tagLatitude       = 0x0002
	tagLongitudeRef   = 0x0003
	tagLongitude      = 0x0004

	headerSize = 8
)

var order = binary.LittleEndian

// GPS lists the GPS IFD entries to emit. Nil triplets and empty refs are left out.
type GPS struct {
	LatitudeRef  string
	Latitude     []models.Rational
	LongitudeRef string
	Longitude    []models.Rational
}

// FromCoordinate encodes a decimal coordinate the way a camera would.
func FromCoordinate(lat, lon float64) GPS {
	latDMS, latRef := exifgps.DecimalToDMS(lat, "N", "S")
	lonDMS, lonRef := exifgps.DecimalToDMS(lon, "E", "W")
	return GPS{
		LatitudeRef:  latRef,
		Latitude:     latDMS[:],
		LongitudeRef: lonRef,
		Longitude:    lonDMS[:],
	}
}

// DMS is shorthand for a whole-number degrees/minutes/seconds triplet.
func DMS(degrees, minutes, seconds int64) []models.Rational {
	return []models.Rational{
		{Numerator: degrees, Denominator: 1},
		{Numerator: minutes, Denominator: 1},
		{Numerator: seconds, Denominator: 1},
	}
}

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	value []byte
}

// TIFF returns a little-endian TIFF stream whose IFD0 points at a GPS IFD built from g.
// When g is empty the stream has no GPS IFD at all.
func TIFF(g GPS) []byte {
	gpsEntries := g.entries()
	if len(gpsEntries) == 0 {
		return WithoutGPS()
	}

	ifd0Size := uint32(2 + 12 + 4)
	gpsOffset := headerSize + ifd0Size
	pointer := make([]byte, 4)
	order.PutUint32(pointer, gpsOffset)

	buf := header()
	buf = append(buf, encodeIFD([]entry{{tag: tagGPSInfoPointer, typ: typeLong, count: 1, value: pointer}}, headerSize)...)
	buf = append(buf, encodeIFD(gpsEntries, gpsOffset)...)
	return buf
}

// WithoutGPS returns a valid TIFF stream carrying only an orientation tag.
func WithoutGPS() []byte {
	orientation := make([]byte, 2)
	order.PutUint16(orientation, 1)

	buf := header()
	return append(buf, encodeIFD([]entry{{tag: tagOrientation, typ: typeShort, count: 1, value: orientation}}, headerSize)...)
}

// JPEG wraps the TIFF stream for g in a JPEG APP1 segment.
func JPEG(g GPS) []byte {
	return WrapJPEG(TIFF(g))
}

// WrapJPEG embeds a TIFF stream in a bare JPEG file.
func WrapJPEG(tiffData []byte) []byte {
	payload := append([]byte("Exif\x00\x00"), tiffData...)

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(payload)+2))
	buf.Write(payload)
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

// WebP wraps the TIFF stream for g in the EXIF chunk of a WebP container.
func WebP(g GPS) []byte {
	return WrapWebP(TIFF(g))
}

// WrapWebP stores exifChunk, padded to an even length, after a VP8X chunk in
// a RIFF/WEBP container.
func WrapWebP(exifChunk []byte) []byte {
	var chunks []byte
	chunks = appendChunk(chunks, "VP8X", make([]byte, 10))
	chunks = appendChunk(chunks, "EXIF", exifChunk)

	buf := []byte("RIFF")
	buf = order.AppendUint32(buf, uint32(4+len(chunks)))
	buf = append(buf, "WEBP"...)
	return append(buf, chunks...)
}

func appendChunk(buf []byte, fourCC string, data []byte) []byte {
	buf = append(buf, fourCC...)
	buf = order.AppendUint32(buf, uint32(len(data)))
	buf = append(buf, data...)
	if len(data)%2 == 1 {
		buf = append(buf, 0)
	}
	return buf
}

// GPSEntryOffset is the position, within a stream built by TIFF, of the
// index-th GPS IFD entry. Entries are ordered LatitudeRef, Latitude,
// LongitudeRef, Longitude, skipping the ones left out.
func GPSEntryOffset(index int) int {
	return headerSize + 2 + 12 + 4 + 2 + 12*index
}

// SetGPSEntryType returns a copy of tiffData with the index-th GPS entry's field type replaced.
func SetGPSEntryType(tiffData []byte, index int, typ uint16) []byte {
	out := bytes.Clone(tiffData)
	order.PutUint16(out[GPSEntryOffset(index)+2:], typ)
	return out
}

// SetGPSEntryCount returns a copy of tiffData with the index-th GPS entry's value count replaced.
func SetGPSEntryCount(tiffData []byte, index int, count uint32) []byte {
	out := bytes.Clone(tiffData)
	order.PutUint32(out[GPSEntryOffset(index)+4:], count)
	return out
}

// SetGPSEntryValue returns a copy of tiffData with the index-th GPS entry's
// value or value offset replaced.
func SetGPSEntryValue(tiffData []byte, index int, value uint32) []byte {
	out := bytes.Clone(tiffData)
	order.PutUint32(out[GPSEntryOffset(index)+8:], value)
	return out
}

// SetNextIFD returns a copy of tiffData whose IFD0 links to offset as the next directory.
func SetNextIFD(tiffData []byte, offset uint32) []byte {
	out := bytes.Clone(tiffData)
	order.PutUint32(out[headerSize+2+12:], offset)
	return out
}

func (g GPS) entries() []entry {
	var entries []entry
	if g.LatitudeRef != "" {
		entries = append(entries, asciiEntry(tagLatitudeRef, g.LatitudeRef))
	}
	if g.Latitude != nil {
		entries = append(entries, rationalEntry(tagLatitude, g.Latitude))
	}
	if g.LongitudeRef != "" {
		entries = append(entries, asciiEntry(tagLongitudeRef, g.LongitudeRef))
	}
	if g.Longitude != nil {
		entries = append(entries, rationalEntry(tagLongitude, g.Longitude))
	}
	return entries
}

func asciiEntry(tag uint16, s string) entry {
	value := append([]byte(s), 0)
	return entry{tag: tag, typ: typeASCII, count: uint32(len(value)), value: value}
}

func rationalEntry(tag uint16, rs []models.Rational) entry {
	value := make([]byte, 0, 8*len(rs))
	for _, r := range rs {
		value = order.AppendUint32(value, uint32(r.Numerator))
		value = order.AppendUint32(value, uint32(r.Denominator))
	}
	return entry{tag: tag, typ: typeRational, count: uint32(len(rs)), value: value}
}

func header() []byte {
	buf := []byte("II")
	buf = order.AppendUint16(buf, 42)
	return order.AppendUint32(buf, headerSize)
}

// encodeIFD lays out a directory starting at offset, followed by the values
// too large to fit in their entries.
func encodeIFD(entries []entry, offset uint32) []byte {
	dataStart := offset + 2 + 12*uint32(len(entries)) + 4

	dir := order.AppendUint16(nil, uint16(len(entries)))
	var data []byte
	for _, e := range entries {
		dir = order.AppendUint16(dir, e.tag)
		dir = order.AppendUint16(dir, e.typ)
		dir = order.AppendUint32(dir, e.count)
		if len(e.value) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.value)
			dir = append(dir, inline...)
			continue
		}
		dir = order.AppendUint32(dir, dataStart+uint32(len(data)))
		data = append(data, e.value...)
	}
	dir = order.AppendUint32(dir, 0)
	return append(dir, data...)
}
