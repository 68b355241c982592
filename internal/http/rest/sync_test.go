package rest

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/bwise1/love_map/internal/apperr"
	"github.com/bwise1/love_map/internal/model"
	"github.com/bwise1/love_map/internal/placestore"
	"github.com/bwise1/love_map/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncedStore(t *testing.T, h *harness) *placestore.Store {
	t.Helper()
	srv := httptest.NewServer(h.handler)
	t.Cleanup(srv.Close)

	client, err := remote.NewClient(srv.URL, remote.WithToken(h.token(t, "339233")))
	require.NoError(t, err)
	return placestore.New(client, nil, nil, nil)
}

func TestUpdatingPlaceDeletedOnServer(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	store := newSyncedStore(t, h)

	p, err := store.Create(ctx, model.PlaceDraft{Lat: 30.6, Lng: 104.1, Type: model.Heart, Name: "a"})
	require.NoError(t, err)
	require.NoError(t, h.repo.DeletePlace(ctx, p.ID))

	name := "renamed"
	_, err = store.Update(ctx, p.ID, model.PlaceUpdate{Name: &name})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NotErrorIs(t, err, apperr.ErrAuth, "the session is still valid")

	got, ok := store.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)
}

func TestStoreTypeChangeReachesServerWithVisit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	store := newSyncedStore(t, h)

	p, err := store.Create(ctx, model.PlaceDraft{Lat: 30.6, Lng: 104.1, Type: model.Heart, Name: "Hotpot"})
	require.NoError(t, err)

	paw := model.Paw
	outcome, err := store.Update(ctx, p.ID, model.PlaceUpdate{Type: &paw})
	require.NoError(t, err)
	assert.Equal(t, placestore.Synced, outcome)

	local, _ := store.Get(p.ID)
	require.NotNil(t, local.VisitedAt)
	stored := h.repo.places[p.ID].place
	require.NotNil(t, stored.VisitedAt)
	assert.True(t, local.VisitedAt.Equal(*stored.VisitedAt))
}
