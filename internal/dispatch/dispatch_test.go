package dispatch

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/bwise1/love_map/internal/apperr"
	"github.com/bwise1/love_map/internal/gachapon"
	"github.com/bwise1/love_map/internal/model"
	"github.com/bwise1/love_map/internal/placestore"
	"github.com/bwise1/love_map/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRemote struct {
	nextID int64
	err    error
}

func (s *stubRemote) ListPlaces(context.Context) ([]model.Place, error) {
	return nil, s.err
}

func (s *stubRemote) CreatePlace(context.Context, model.PlaceDraft) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.nextID++
	return s.nextID, nil
}

func (s *stubRemote) UpdatePlace(context.Context, int64, model.PlaceUpdate) error { return s.err }
func (s *stubRemote) DeletePlace(context.Context, int64) error                    { return s.err }

type recorder struct {
	places   []model.Place
	place    *model.Place
	pick     *gachapon.Result
	stats    *model.Stats
	timeline *timeline.Timeline
	outcomes []placestore.Outcome
	login    error
	err      error
}

func (r *recorder) Places(p []model.Place)       { r.places = p }
func (r *recorder) Place(p model.Place)          { r.place = &p }
func (r *recorder) Pick(res gachapon.Result)     { r.pick = &res }
func (r *recorder) Stats(s model.Stats)          { r.stats = &s }
func (r *recorder) Timeline(t timeline.Timeline) { r.timeline = &t }
func (r *recorder) LoginRequired(err error)      { r.login = err }
func (r *recorder) Error(err error)              { r.err = err }
func (r *recorder) Outcome(_ string, o placestore.Outcome) {
	r.outcomes = append(r.outcomes, o)
}

type center struct{ lat, lng float64 }

func (c center) Center() (float64, float64) { return c.lat, c.lng }

func setup(remote *stubRemote) (*Dispatcher, *recorder) {
	rec := &recorder{}
	var d *Dispatcher
	store := placestore.New(remote, nil, nil, nil, placestore.WithRecompute(func(s []model.Place) { d.Refresh(s) }))
	d = New(store, gachapon.NewPicker(gachapon.WithRand(rand.New(rand.NewPCG(1, 2)))), center{lat: 42.36, lng: -71.06}, rec)
	return d, rec
}

func TestCreateAndRefresh(t *testing.T) {
	d, rec := setup(&stubRemote{})
	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, CreatePlace{Draft: model.PlaceDraft{Lat: 42.36, Lng: -71.06, Type: model.Heart, Name: "Harbor"}}))
	require.NotNil(t, rec.place)
	assert.Equal(t, "Harbor", rec.place.Name)
	assert.Equal(t, []placestore.Outcome{placestore.Synced}, rec.outcomes)
	require.NotNil(t, rec.stats)
	assert.Equal(t, 1, rec.stats.HeartCount)
	require.NotNil(t, rec.timeline)
	assert.Len(t, rec.timeline.Entries, 1)
}

func TestCreateKeepLocally(t *testing.T) {
	remote := &stubRemote{err: apperr.Transport(errors.New("offline"), "offline")}
	d, rec := setup(remote)

	err := d.Dispatch(context.Background(), CreatePlace{
		Draft:       model.PlaceDraft{Lat: 1, Lng: 1, Type: model.Heart},
		KeepLocally: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []placestore.Outcome{placestore.Degraded}, rec.outcomes)
	assert.True(t, placestore.IsLocalOnly(rec.place.ID))
}

func TestAuthErrorGoesToLogin(t *testing.T) {
	d, rec := setup(&stubRemote{err: apperr.Auth("expired")})

	err := d.Dispatch(context.Background(), LoadPlaces{})
	assert.ErrorIs(t, err, apperr.ErrAuth)
	assert.Error(t, rec.login)
	assert.NoError(t, rec.err)
}

func TestSelectRandom(t *testing.T) {
	d, rec := setup(&stubRemote{})
	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, SelectRandom{Region: "all", Category: model.CategoryAll}))
	require.NotNil(t, rec.pick)
	assert.True(t, rec.pick.Empty)

	require.NoError(t, d.Dispatch(ctx, CreatePlace{Draft: model.PlaceDraft{Lat: 42.36, Lng: -71.06, Type: model.Heart, Name: "Near", Category: model.CategoryCafe}}))
	require.NoError(t, d.Dispatch(ctx, CreatePlace{Draft: model.PlaceDraft{Lat: 35.68, Lng: 139.65, Type: model.Heart, Name: "Far", Category: model.CategoryCafe}}))
	require.NoError(t, d.Dispatch(ctx, CreatePlace{Draft: model.PlaceDraft{Lat: 42.36, Lng: -71.06, Type: model.Paw, Name: "Been"}}))

	for i := 0; i < 20; i++ {
		require.NoError(t, d.Dispatch(ctx, SelectRandom{Region: "current_city", Category: model.CategoryAll}))
		require.False(t, rec.pick.Empty)
		assert.Equal(t, "Near", rec.pick.Place.Name)
	}

	require.NoError(t, d.Dispatch(ctx, SelectRandom{Region: "tokyo", Category: model.CategoryHotpot}))
	assert.True(t, rec.pick.Empty)

	err := d.Dispatch(ctx, SelectRandom{Region: "mars"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Error(t, rec.err)
}

func TestListFocusAndVisit(t *testing.T) {
	d, rec := setup(&stubRemote{})
	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, CreatePlace{Draft: model.PlaceDraft{Lat: 1, Lng: 1, Type: model.Heart, Name: "A"}}))
	id := rec.place.ID
	require.NoError(t, d.Dispatch(ctx, CreatePlace{Draft: model.PlaceDraft{Lat: 1, Lng: 1, Type: model.Paw, Name: "B"}}))

	require.NoError(t, d.Dispatch(ctx, ListPlaces{Type: model.Heart}))
	require.Len(t, rec.places, 1)
	assert.Equal(t, "A", rec.places[0].Name)

	require.NoError(t, d.Dispatch(ctx, MarkVisited{ID: id, Visit: model.VisitInput{Rating: 5}}))
	assert.Equal(t, model.Paw, rec.place.Type)
	assert.Equal(t, 100, rec.stats.CompletionRate)

	require.NoError(t, d.Dispatch(ctx, FocusPlace{ID: id}))
	assert.Equal(t, id, rec.place.ID)

	err := d.Dispatch(ctx, FocusPlace{ID: 404})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, d.Dispatch(ctx, DeletePlace{ID: id}))
	require.NoError(t, d.Dispatch(ctx, ShowStats{}))
	assert.Equal(t, 0, rec.stats.HeartCount)
	assert.Equal(t, 1, rec.stats.PawCount)

	require.NoError(t, d.Dispatch(ctx, ShowTimeline{}))
	assert.Len(t, rec.timeline.Entries, 1)
}
