// Package stats counts the wish list against the visited list.
package stats

import (
	"math"

	"github.com/bwise1/love_map/internal/model"
)

// Compute counts hearts and paws. The completion rate compares paws with
// hearts rather than with the total and is capped at 100.
func Compute(places []model.Place) model.Stats {
	var s model.Stats
	for _, p := range places {
		switch p.Type {
		case model.Heart:
			s.HeartCount++
		case model.Paw:
			s.PawCount++
		}
	}
	s.CompletionRate = CompletionRate(s.HeartCount, s.PawCount)
	return s
}

func CompletionRate(hearts, paws int) int {
	switch {
	case hearts == 0 && paws == 0:
		return 0
	case hearts == 0:
		return 100
	}
	rate := int(math.Round(float64(paws) / float64(hearts) * 100))
	return min(rate, 100)
}
