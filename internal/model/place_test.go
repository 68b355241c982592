package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDraftNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   PlaceDraft
		want PlaceDraft
	}{
		{
			name: "defaults name and category",
			in:   PlaceDraft{Type: Heart},
			want: PlaceDraft{Type: Heart, Name: DefaultPlaceName, Category: CategoryOther},
		},
		{
			name: "heart rating forced to zero",
			in:   PlaceDraft{Type: Heart, Name: "Noodles", Rating: 4, Category: CategoryChinese},
			want: PlaceDraft{Type: Heart, Name: "Noodles", Rating: 0, Category: CategoryChinese},
		},
		{
			name: "paw rating clamped",
			in:   PlaceDraft{Type: Paw, Name: "Ramen", Rating: 9, Category: CategoryJapanese},
			want: PlaceDraft{Type: Paw, Name: "Ramen", Rating: 5, Category: CategoryJapanese},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestPlaceUpdateApply(t *testing.T) {
	base := Place{ID: 1, Type: Heart, Name: "Cafe", Note: "latte", Category: CategoryCafe}
	visited := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	paw := Paw
	rating := 4
	name := "Corner Cafe"

	got := PlaceUpdate{Type: &paw, Rating: &rating, VisitedAt: &visited, Name: &name}.Apply(base)

	assert.Equal(t, Paw, got.Type)
	assert.Equal(t, 4, got.Rating)
	assert.Equal(t, "Corner Cafe", got.Name)
	assert.Equal(t, "latte", got.Note)
	if assert.NotNil(t, got.VisitedAt) {
		assert.True(t, visited.Equal(*got.VisitedAt))
	}
	assert.Equal(t, Heart, base.Type, "original must not change")
}

func TestPlaceUpdateEmpty(t *testing.T) {
	assert.True(t, PlaceUpdate{}.Empty())
	note := ""
	assert.False(t, PlaceUpdate{Note: &note}.Empty())
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryHotpot.Valid())
	assert.False(t, CategoryAll.Valid())
	assert.False(t, Category("").Valid())
	assert.Equal(t, CategoryOther, Category("").OrDefault())
}
