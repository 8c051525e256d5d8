package geo

import (
	"sort"
	"strings"

	"geoverify-api/internal/models"
)

// Boundary answers whether a point lies inside a region.
type Boundary interface {
	Contains(lat, lon float64) bool
}

// BoundingBox is an axis-aligned latitude/longitude rectangle. All four edges are inside.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains implements Boundary.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return b.MinLat <= lat && lat <= b.MaxLat &&
		b.MinLon <= lon && lon <= b.MaxLon
}

// Registry maps case-insensitive country names to boundaries.
//
// Register is not synchronized: populate the registry before sharing it
// between goroutines, after which it is read-only.
type Registry struct {
	boundaries map[string]Boundary
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{boundaries: make(map[string]Boundary)}
}

// NewRegistryFromBoundaries creates a registry holding a bounding box per entry.
func NewRegistryFromBoundaries(boundaries []models.CountryBoundary) *Registry {
	r := NewRegistry()
	for _, b := range boundaries {
		r.Register(b.Name, BoundingBox{
			MinLat: b.MinLat,
			MaxLat: b.MaxLat,
			MinLon: b.MinLon,
			MaxLon: b.MaxLon,
		})
	}
	return r
}

// Register adds or replaces the boundary stored under name.
func (r *Registry) Register(name string, b Boundary) {
	r.boundaries[strings.ToLower(name)] = b
}

// Lookup returns the boundary registered under name, ignoring case.
func (r *Registry) Lookup(name string) (Boundary, bool) {
	b, ok := r.boundaries[strings.ToLower(name)]
	return b, ok
}

// Contains reports whether the point lies inside the named boundary.
// Unknown names are never inside.
func (r *Registry) Contains(lat, lon float64, name string) bool {
	b, ok := r.Lookup(name)
	if !ok {
		return false
	}
	return b.Contains(lat, lon)
}

// Names returns the registered keys in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.boundaries))
	for name := range r.boundaries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
