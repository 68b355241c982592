// Package filter selects places by area, category and list.
package filter

import (
	"github.com/bwise1/love_map/internal/model"
)

// CityRadius is the half-width in degrees of the square used for a city.
const CityRadius = 0.15

// Box is an inclusive latitude/longitude rectangle.
type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

func (b Box) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// Around returns the square of half-width radius centred on lat/lng.
func Around(lat, lng, radius float64) Box {
	return Box{
		MinLat: lat - radius,
		MaxLat: lat + radius,
		MinLng: lng - radius,
		MaxLng: lng + radius,
	}
}

type Scope int

const (
	ScopeAll Scope = iota
	ScopeWishList
)

// Criteria selects places. A nil Box matches everywhere and an empty
// Category behaves like "all".
type Criteria struct {
	Box      *Box
	Category model.Category
	Scope    Scope
}

func Match(p model.Place, c Criteria) bool {
	if c.Scope == ScopeWishList && p.Type != model.Heart {
		return false
	}
	if c.Box != nil && !c.Box.Contains(p.Lat, p.Lng) {
		return false
	}
	if c.Category != "" && c.Category != model.CategoryAll && p.Category.OrDefault() != c.Category {
		return false
	}
	return true
}

// Apply returns the matching places in their original order.
func Apply(places []model.Place, c Criteria) []model.Place {
	out := make([]model.Place, 0, len(places))
	for _, p := range places {
		if Match(p, c) {
			out = append(out, p)
		}
	}
	return out
}

// ByType returns the places of one type, in order.
func ByType(places []model.Place, t model.PlaceType) []model.Place {
	out := make([]model.Place, 0, len(places))
	for _, p := range places {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out
}

// Viewport reports the centre of whatever map the user is looking at.
type Viewport interface {
	Center() (lat, lng float64)
}

// CurrentCity is recomputed on every call so it follows the map.
func CurrentCity(v Viewport) Box {
	lat, lng := v.Center()
	return Around(lat, lng, CityRadius)
}
