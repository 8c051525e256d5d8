package service

import (
	"context"
	"strings"

	"geoverify-api/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// VerifyService decides whether an uploaded image was taken inside a named country
type VerifyService struct {
	decoder    CoordinateDecoder
	boundaries BoundaryChecker
}

// CoordinateDecoder interface for dependency injection
type CoordinateDecoder interface {
	Decode(payload []byte) (models.GeoCoordinate, bool)
}

// BoundaryChecker interface for dependency injection
type BoundaryChecker interface {
	Contains(lat, lon float64, name string) bool
}

// NewVerifyService creates a new verify service
func NewVerifyService(decoder CoordinateDecoder, boundaries BoundaryChecker) *VerifyService {
	return &VerifyService{decoder: decoder, boundaries: boundaries}
}

// Verify classifies the payload against the named country. A nil payload means
// no image was supplied; every other input yields a verdict as well, so there
// is no error return.
func (s *VerifyService) Verify(ctx context.Context, payload []byte, countryName string) models.VerificationResult {
	logger := zerolog.Ctx(ctx)

	if payload == nil {
		return models.Rejected(models.ReasonNoImage)
	}

	coord, ok := s.decoder.Decode(payload)
	if !ok {
		logger.Debug().Int("payload_bytes", len(payload)).Msg("image has no usable gps metadata")
		return models.Rejected(models.ReasonNoGPS)
	}

	logger.Debug().
		Float64("latitude", coord.Latitude).
		Float64("longitude", coord.Longitude).
		Str("country", countryName).
		Msg("extracted gps coordinate")

	display := DisplayName(countryName)
	if !s.boundaries.Contains(coord.Latitude, coord.Longitude, countryName) {
		return models.Outside(display)
	}
	return models.Inside(display)
}

// DisplayName title-cases a country name regardless of the casing it arrived in.
// Letters after an apostrophe stay lower-case ("Côte D'ivoire").
func DisplayName(countryName string) string {
	return cases.Title(language.Und).String(strings.ToLower(countryName))
}
