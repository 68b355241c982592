package rest

import (
	"testing"
	"time"

	"github.com/bwise1/love_map/internal/model"
	"github.com/bwise1/love_map/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlaceUpdate(t *testing.T) {
	paw := model.Paw
	visited := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		update   model.PlaceUpdate
		wantSet  string
		wantArgs []interface{}
	}{
		{"empty", model.PlaceUpdate{}, "", nil},
		{"name only", model.PlaceUpdate{Name: util.StringPtr("Tea house")}, "name = $1", []interface{}{"Tea house"}},
		{
			"conversion",
			model.PlaceUpdate{Rating: util.IntPtr(4), VisitedAt: &visited, Type: &paw},
			"rating = $1, visited_at = $2, type = $3",
			[]interface{}{4, visited, model.Paw},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, args := buildPlaceUpdate(tt.update)
			assert.Equal(t, tt.wantSet, set)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestNormalizeUpdate(t *testing.T) {
	current := model.Place{Type: model.Heart, Category: model.CategoryCafe}
	now := time.Date(2026, 10, 16, 20, 30, 0, 0, time.UTC)

	got := normalizeUpdate(current, model.PlaceUpdate{Rating: util.IntPtr(4)}, now)
	require.NotNil(t, got.Rating)
	assert.Zero(t, *got.Rating, "a heart keeps a zero rating")
	assert.Nil(t, got.VisitedAt)

	paw := model.Paw
	got = normalizeUpdate(current, model.PlaceUpdate{Type: &paw, Rating: util.IntPtr(9)}, now)
	assert.Equal(t, model.MaxRating, *got.Rating)
	require.NotNil(t, got.VisitedAt, "turning a heart into a paw records the visit")
	assert.Equal(t, now, *got.VisitedAt)

	earlier := now.AddDate(0, -1, 0)
	got = normalizeUpdate(current, model.PlaceUpdate{Type: &paw, VisitedAt: &earlier}, now)
	assert.Equal(t, earlier, *got.VisitedAt)

	visited := model.Place{Type: model.Paw, VisitedAt: &earlier}
	got = normalizeUpdate(visited, model.PlaceUpdate{Type: &paw}, now)
	assert.Nil(t, got.VisitedAt, "an existing visit time is left alone")

	empty := model.Category("")
	got = normalizeUpdate(current, model.PlaceUpdate{Category: &empty}, now)
	assert.Equal(t, model.CategoryOther, *got.Category)
}

func TestBuildTrailOrdersByVisit(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.AddDate(0, 3, 0)
	places := []model.Place{
		{ID: 1, Type: model.Paw, Lat: 2, Lng: 2, VisitedAt: &late},
		{ID: 2, Type: model.Heart, Lat: 9, Lng: 9},
		{ID: 3, Type: model.Paw, Lat: 1, Lng: 1, VisitedAt: &early},
	}

	trail := buildTrail(places)
	assert.Equal(t, 2, trail.Points)

	coords, err := util.DecodePolyline(trail.Polyline)
	require.NoError(t, err)
	require.Len(t, coords, 2)
	assert.InDelta(t, 1, coords[0].Lat, 1e-5)
	assert.InDelta(t, 2, coords[1].Lat, 1e-5)
}

func TestDecodeBackup(t *testing.T) {
	bare := `{"version":"1.0","user":"Us","places":[{"lat":1,"lng":2,"type":"heart","name":"a"}]}`
	wrapped := `{"message":"export ready","status":"success","data":` + bare + `}`

	for name, doc := range map[string]string{"bare": bare, "wrapped": wrapped} {
		t.Run(name, func(t *testing.T) {
			b, err := decodeBackup([]byte(doc))
			require.NoError(t, err)
			assert.Equal(t, "1.0", b.Version)
			require.Len(t, b.Places, 1)
			assert.Equal(t, "a", b.Places[0].Name)
		})
	}
}

func TestImportableSkipsInvalidEntries(t *testing.T) {
	in := []model.BackupPlace{
		{Lat: 10, Lng: 10, Type: model.Heart, Rating: 3},
		{Lat: 100, Lng: 10, Type: model.Heart},
		{Lat: 10, Lng: 10, Type: "star"},
		{Lat: 5, Lng: 5, Type: model.Paw, Rating: 7, Category: "mystery", Name: "x"},
	}
	out := importable(in)
	require.Len(t, out, 2)
	assert.Equal(t, model.DefaultPlaceName, out[0].Name)
	assert.Zero(t, out[0].Rating)
	assert.Equal(t, model.CategoryOther, out[0].Category)
	assert.Equal(t, model.MaxRating, out[1].Rating)
	assert.Equal(t, model.CategoryOther, out[1].Category)
}

func TestTokenRoundTrip(t *testing.T) {
	h := newHarness(t)
	tok, exp, err := h.api.createToken(42)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := h.api.verifyToken(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "access", claims.Type)

	h.api.Config.JwtExpires = "-1m"
	expired, _, err := h.api.createToken(42)
	require.NoError(t, err)
	_, err = h.api.verifyToken(expired)
	assert.ErrorIs(t, err, errTokenExpired)
}
