package models

import "fmt"

// CountryBoundary is a named latitude/longitude bounding box.
type CountryBoundary struct {
	Name   string  `json:"name"`
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Validate reports whether the boundary describes a usable box.
func (b CountryBoundary) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("boundary name cannot be empty")
	}
	if b.MinLat < -90 || b.MaxLat > 90 {
		return fmt.Errorf("boundary %q: latitude out of range [-90, 90]", b.Name)
	}
	if b.MinLon < -180 || b.MaxLon > 180 {
		return fmt.Errorf("boundary %q: longitude out of range [-180, 180]", b.Name)
	}
	if b.MinLat > b.MaxLat {
		return fmt.Errorf("boundary %q: min_lat %f exceeds max_lat %f", b.Name, b.MinLat, b.MaxLat)
	}
	if b.MinLon > b.MaxLon {
		return fmt.Errorf("boundary %q: min_lon %f exceeds max_lon %f", b.Name, b.MinLon, b.MaxLon)
	}
	return nil
}

// ValidateBoundaries validates every boundary, returning the first failure.
func ValidateBoundaries(boundaries []CountryBoundary) error {
	for _, b := range boundaries {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	return nil
}
