package filter

import (
	"fmt"
	"sort"
	"strings"
)

const (
	RegionAll         = "all"
	RegionCurrentCity = "current_city"
)

type Location struct {
	Name string
	Lat  float64
	Lng  float64
}

var presets = map[string]Location{
	"boston":      {Name: "Boston", Lat: 42.3601, Lng: -71.0589},
	"beijing":     {Name: "Beijing", Lat: 39.9042, Lng: 116.4074},
	"shanghai":    {Name: "Shanghai", Lat: 31.2304, Lng: 121.4737},
	"guangzhou":   {Name: "Guangzhou", Lat: 23.1291, Lng: 113.2644},
	"shenzhen":    {Name: "Shenzhen", Lat: 22.5431, Lng: 114.0579},
	"chengdu":     {Name: "Chengdu", Lat: 30.5728, Lng: 104.0668},
	"atlanta":     {Name: "Atlanta", Lat: 33.7490, Lng: -84.3880},
	"new_york":    {Name: "New York", Lat: 40.7128, Lng: -74.0060},
	"los_angeles": {Name: "Los Angeles", Lat: 34.0522, Lng: -118.2437},
	"paris":       {Name: "Paris", Lat: 48.8566, Lng: 2.3522},
	"london":      {Name: "London", Lat: 51.5074, Lng: -0.1278},
	"tokyo":       {Name: "Tokyo", Lat: 35.6762, Lng: 139.6503},
}

func normalizeRegion(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(key)
}

// Preset looks a preset location up by name, ignoring case and separators.
func Preset(name string) (Location, bool) {
	loc, ok := presets[normalizeRegion(name)]
	return loc, ok
}

// Presets lists the preset locations sorted by name.
func Presets() []Location {
	out := make([]Location, 0, len(presets))
	for _, loc := range presets {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Region resolves a region name into a box. "all" yields nil, meaning no
// spatial restriction. "current_city" reads the viewport, which may be nil
// for the other regions.
func Region(name string, v Viewport) (*Box, error) {
	switch key := normalizeRegion(name); key {
	case "", RegionAll:
		return nil, nil
	case RegionCurrentCity:
		if v == nil {
			return nil, fmt.Errorf("region %q needs a viewport", name)
		}
		b := CurrentCity(v)
		return &b, nil
	default:
		loc, ok := presets[key]
		if !ok {
			return nil, fmt.Errorf("unknown region %q", name)
		}
		b := Around(loc.Lat, loc.Lng, CityRadius)
		return &b, nil
	}
}
