package gachapon

import (
	"math/rand/v2"
	"testing"

	"github.com/bwise1/love_map/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickEmpty(t *testing.T) {
	p := NewPicker()
	for i := 0; i < 1000; i++ {
		res := p.Pick(nil)
		require.True(t, res.Empty)
		require.Equal(t, model.Place{}, res.Place)
	}
}

func TestPickUniform(t *testing.T) {
	candidates := []model.Place{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	p := NewPicker(WithRand(rand.New(rand.NewPCG(7, 11))))

	const draws = 10000
	counts := map[int64]int{}
	for i := 0; i < draws; i++ {
		res := p.Pick(candidates)
		require.False(t, res.Empty)
		counts[res.Place.ID]++
	}

	expected := float64(draws) / float64(len(candidates))
	for _, c := range candidates {
		// roughly 5 standard deviations for a binomial(10000, 0.25)
		assert.InDelta(t, expected, float64(counts[c.ID]), 220, "place %d", c.ID)
	}
}

func TestPickSingle(t *testing.T) {
	res := NewPicker().Pick([]model.Place{{ID: 9, Name: "Only"}})
	assert.False(t, res.Empty)
	assert.Equal(t, "Only", res.Place.Name)
}
