package exifgps

import (
	"bytes"
	"encoding/binary"
)

var exifHeader = []byte("Exif\x00\x00")

// TIFF value sizes by field type, indexed by the type code.
var typeSizes = [...]uint64{0, 1, 1, 2, 4, 8, 1, 1, 2, 4, 8, 4, 8}

const (
	tagExifPointer    = 0x8769
	tagGPSPointer     = 0x8825
	tagInteropPointer = 0xA005
)

// extractTIFF locates the TIFF stream holding EXIF data in a JPEG, WebP, raw
// TIFF or bare "Exif\0\0" payload.
func extractTIFF(payload []byte) ([]byte, bool) {
	switch {
	case bytes.HasPrefix(payload, []byte("II*\x00")), bytes.HasPrefix(payload, []byte("MM\x00*")):
		return payload, true
	case bytes.HasPrefix(payload, exifHeader):
		return payload[len(exifHeader):], true
	case len(payload) >= 12 && string(payload[:4]) == "RIFF" && string(payload[8:12]) == "WEBP":
		return webpEXIF(payload[12:])
	case bytes.HasPrefix(payload, []byte{0xFF, 0xD8}):
		return jpegEXIF(payload[2:])
	}
	return nil, false
}

// webpEXIF walks RIFF chunks looking for the EXIF chunk.
func webpEXIF(chunks []byte) ([]byte, bool) {
	for len(chunks) >= 8 {
		fourCC := string(chunks[:4])
		size := uint64(binary.LittleEndian.Uint32(chunks[4:8]))
		if size > uint64(len(chunks)-8) {
			return nil, false
		}
		data := chunks[8 : 8+size]
		if fourCC == "EXIF" {
			return bytes.TrimPrefix(data, exifHeader), true
		}

		next := 8 + size + size%2
		if next > uint64(len(chunks)) {
			return nil, false
		}
		chunks = chunks[next:]
	}
	return nil, false
}

// jpegEXIF walks JPEG marker segments up to the start of scan looking for an
// APP1 segment with the EXIF header.
func jpegEXIF(segments []byte) ([]byte, bool) {
	for len(segments) >= 4 {
		if segments[0] != 0xFF {
			return nil, false
		}
		marker := segments[1]
		switch {
		case marker == 0xFF:
			// fill byte
			segments = segments[1:]
			continue
		case marker == 0xD9 || marker == 0xDA:
			return nil, false
		case marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7):
			segments = segments[2:]
			continue
		}

		length := int(binary.BigEndian.Uint16(segments[2:4]))
		if length < 2 || length+2 > len(segments) {
			return nil, false
		}
		data := segments[4 : 2+length]
		if marker == 0xE1 && bytes.HasPrefix(data, exifHeader) {
			return data[len(exifHeader):], true
		}
		segments = segments[2+length:]
	}
	return nil, false
}

// validTIFF reports whether every IFD the EXIF parser will visit, and every
// value those IFDs reference, lies inside b. Each IFD may be visited once.
func validTIFF(b []byte) bool {
	if len(b) < 8 {
		return false
	}

	var order binary.ByteOrder
	switch string(b[:4]) {
	case "II*\x00":
		order = binary.LittleEndian
	case "MM\x00*":
		order = binary.BigEndian
	default:
		return false
	}

	size := uint64(len(b))
	visited := make(map[uint32]bool)

	var walk func(offset uint32, followNext bool) bool
	walk = func(offset uint32, followNext bool) bool {
		for offset != 0 {
			if visited[offset] {
				return false
			}
			visited[offset] = true

			start := uint64(offset)
			if start+2 > size {
				return false
			}
			n := uint64(order.Uint16(b[start : start+2]))
			end := start + 2 + 12*n + 4
			if end > size {
				return false
			}

			var subDirs []uint32
			for i := uint64(0); i < n; i++ {
				entry := b[start+2+12*i : start+2+12*(i+1)]
				tag := order.Uint16(entry[0:2])
				typ := order.Uint16(entry[2:4])
				count := uint64(order.Uint32(entry[4:8]))

				if typ == 0 || int(typ) >= len(typeSizes) {
					return false
				}
				valLen := typeSizes[typ] * count
				if valLen > size {
					return false
				}
				if valLen > 4 && uint64(order.Uint32(entry[8:12]))+valLen > size {
					return false
				}

				switch tag {
				case tagExifPointer, tagGPSPointer, tagInteropPointer:
					switch typ {
					case 4:
						subDirs = append(subDirs, order.Uint32(entry[8:12]))
					case 3:
						subDirs = append(subDirs, uint32(order.Uint16(entry[8:10])))
					default:
						return false
					}
				}
			}

			for _, sub := range subDirs {
				if sub != 0 && !walk(sub, false) {
					return false
				}
			}

			if !followNext {
				return true
			}
			offset = order.Uint32(b[end-4 : end])
		}
		return true
	}

	return walk(order.Uint32(b[4:8]), true)
}
