// Package gachapon draws a random place from a candidate list.
package gachapon

import (
	"math/rand/v2"

	"github.com/bwise1/love_map/internal/model"
)

// Result is the outcome of a draw. Empty is set when there was nothing to
// draw from; Place is the zero value in that case.
type Result struct {
	Place model.Place
	Empty bool
}

type Picker struct {
	rng *rand.Rand
}

type Option func(*Picker)

// WithRand swaps the random source, mostly for tests.
func WithRand(r *rand.Rand) Option {
	return func(p *Picker) { p.rng = r }
}

func NewPicker(opts ...Option) *Picker {
	p := &Picker{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Picker) intN(n int) int {
	if p.rng == nil {
		return rand.IntN(n)
	}
	return p.rng.IntN(n)
}

// Pick selects each candidate with probability 1/N.
func (p *Picker) Pick(candidates []model.Place) Result {
	if len(candidates) == 0 {
		return Result{Empty: true}
	}
	return Result{Place: candidates[p.intN(len(candidates))]}
}
