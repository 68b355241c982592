package timeline

import (
	"testing"
	"time"

	"github.com/bwise1/love_map/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectEmpty(t *testing.T) {
	tl := Project(nil)
	assert.True(t, tl.Empty)
	assert.Empty(t, tl.Entries)
	assert.Empty(t, tl.Activities())
}

func TestProjectTopFiveNewestFirst(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var places []model.Place
	for i := 0; i < 8; i++ {
		places = append(places, model.Place{ID: int64(i + 1), CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	places = append(places, model.Place{ID: 100}) // no timestamp

	tl := Project(places)
	require.Len(t, tl.Entries, Size)
	assert.False(t, tl.Empty)
	assert.Equal(t, int64(8), tl.Entries[0].ID)
	for i := 1; i < len(tl.Entries); i++ {
		assert.False(t, tl.Entries[i].CreatedAt.After(tl.Entries[i-1].CreatedAt))
	}
	assert.Len(t, places, 9, "input must not be truncated")
}

func TestProjectStableOnTies(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	places := []model.Place{{ID: 1, CreatedAt: ts}, {ID: 2, CreatedAt: ts}, {ID: 3, CreatedAt: ts}}

	first := Project(places)
	second := Project(places)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), first.Entries[0].ID)
	assert.Equal(t, int64(3), first.Entries[2].ID)
}

func TestProjectZeroTimeSortsOldest(t *testing.T) {
	places := []model.Place{{ID: 1}, {ID: 2, CreatedAt: time.Now()}}
	tl := Project(places)
	assert.Equal(t, int64(2), tl.Entries[0].ID)
	assert.Equal(t, int64(2), tl.Activities()[0].PlaceID)
}
