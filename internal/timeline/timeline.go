// Package timeline projects the most recently added places.
package timeline

import (
	"sort"

	"github.com/bwise1/love_map/internal/model"
)

const Size = 5

type Timeline struct {
	Entries []model.Place
	// Empty tells the presenter to show the empty-state marker.
	Empty bool
}

// Project returns up to Size places, newest first. Places without a creation
// time sort as the oldest and ties keep their input order.
func Project(places []model.Place) Timeline {
	sorted := make([]model.Place, len(places))
	copy(sorted, places)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > Size {
		sorted = sorted[:Size]
	}
	return Timeline{Entries: sorted, Empty: len(sorted) == 0}
}

// Activities converts the timeline into its wire form.
func (t Timeline) Activities() []model.Activity {
	out := make([]model.Activity, 0, len(t.Entries))
	for _, p := range t.Entries {
		out = append(out, model.Activity{
			PlaceID:   p.ID,
			Name:      p.Name,
			Type:      p.Type,
			CreatedAt: p.CreatedAt,
		})
	}
	return out
}
