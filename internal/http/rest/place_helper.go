package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bwise1/love_map/internal/events"
	"github.com/bwise1/love_map/internal/model"
	"github.com/bwise1/love_map/util/values"
)

var (
	errNotOwner       = errors.New("place does not belong to user")
	errPawToHeart     = errors.New("visited places cannot return to the wish list")
	errPhotosDisabled = errors.New("photo storage is not configured")
)

// ownedPlace loads a place for user. Missing and foreign places are reported
// the same way so ids of other accounts cannot be probed.
func (api *API) ownedPlace(ctx context.Context, user model.SessionUser, id int64) (model.Place, string, string, error) {
	place, owner, err := api.Repo.GetPlace(ctx, id)
	if errors.Is(err, ErrNoRecord) || (err == nil && owner != user.ID) {
		return model.Place{}, values.NotAllowed, "place not found or access denied", errNotOwner
	}
	if err != nil {
		return model.Place{}, values.Error, "failed to get place", err
	}
	return place, values.Success, "", nil
}

func (api *API) CreatePlaceHelper(ctx context.Context, user model.SessionUser, draft model.PlaceDraft) (model.CreatePlaceResponse, string, string, error) {
	place, err := api.Repo.CreatePlace(ctx, user.ID, user.DisplayName, draft)
	if err != nil {
		return model.CreatePlaceResponse{}, values.Error, "failed to create place", err
	}

	api.publish(ctx, events.Event{Kind: events.PlaceCreated, UserID: user.ID, PlaceID: place.ID, Place: &place})
	return model.CreatePlaceResponse{ID: place.ID}, values.Created, "place created", nil
}

// normalizeUpdate resolves req against the stored place: the rating is
// re-clamped whenever type or rating change, and an empty category becomes
// "other". A heart that turns into a paw is stamped visited at now unless
// the request carries its own visit time.
func normalizeUpdate(current model.Place, req model.PlaceUpdate, now time.Time) model.PlaceUpdate {
	if req.Type != nil && *req.Type == model.Paw && current.Type == model.Heart && req.VisitedAt == nil {
		req.VisitedAt = &now
	}
	merged := req.Apply(current)
	if req.Rating != nil || req.Type != nil {
		req.Rating = &merged.Rating
	}
	if req.Category != nil {
		req.Category = &merged.Category
	}
	return req
}

func (api *API) UpdatePlaceHelper(ctx context.Context, user model.SessionUser, id int64, req model.PlaceUpdate) (model.Place, string, string, error) {
	current, status, message, err := api.ownedPlace(ctx, user, id)
	if err != nil {
		return model.Place{}, status, message, err
	}

	if req.Type != nil && current.Type == model.Paw && *req.Type == model.Heart {
		return model.Place{}, values.BadRequestBody, "a visited place cannot go back to the wish list", errPawToHeart
	}
	if req.Empty() {
		return current, values.Success, "nothing to update", nil
	}

	req = normalizeUpdate(current, req, api.Now())
	if err := api.Repo.UpdatePlace(ctx, id, req); err != nil {
		if errors.Is(err, ErrNoRecord) {
			return model.Place{}, values.NotAllowed, "place not found or access denied", err
		}
		return model.Place{}, values.Error, "failed to update place", err
	}

	updated := req.Apply(current)
	api.publish(ctx, events.Event{Kind: events.PlaceUpdated, UserID: user.ID, PlaceID: id, Place: &updated})
	return updated, values.Success, "place updated", nil
}

func (api *API) DeletePlaceHelper(ctx context.Context, user model.SessionUser, id int64) (string, string, error) {
	if _, status, message, err := api.ownedPlace(ctx, user, id); err != nil {
		return status, message, err
	}

	if err := api.Repo.DeletePlace(ctx, id); err != nil && !errors.Is(err, ErrNoRecord) {
		return values.Error, "failed to delete place", err
	}

	api.publish(ctx, events.Event{Kind: events.PlaceDeleted, UserID: user.ID, PlaceID: id})
	return values.Success, "place deleted", nil
}

func (api *API) UploadPhotoHelper(ctx context.Context, user model.SessionUser, id int64, file io.Reader) (string, string, string, error) {
	if api.Deps == nil || api.Deps.Photos == nil {
		return "", values.Unavailable, "photo uploads are disabled", errPhotosDisabled
	}

	place, status, message, err := api.ownedPlace(ctx, user, id)
	if err != nil {
		return "", status, message, err
	}

	photoURL, err := api.Deps.Photos.UploadImage(ctx, file, fmt.Sprintf("place-%d", id))
	if err != nil {
		return "", values.Error, "failed to upload photo", err
	}
	if err := api.Repo.SetPlacePhoto(ctx, id, photoURL); err != nil {
		return "", values.Error, "failed to save photo", err
	}

	place.PhotoURL = photoURL
	api.publish(ctx, events.Event{Kind: events.PlaceUpdated, UserID: user.ID, PlaceID: id, Place: &place})
	return photoURL, values.Success, "photo uploaded", nil
}
