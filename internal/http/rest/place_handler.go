package rest

import (
	"net/http"
	"strconv"

	"github.com/bwise1/love_map/internal/model"
	"github.com/bwise1/love_map/util"
	"github.com/bwise1/love_map/util/tracing"
	"github.com/bwise1/love_map/util/values"
	"github.com/go-chi/chi/v5"
)

const maxPhotoSize = 10 << 20

func (api *API) PlaceRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Route("/", func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodGet, "/", Handler(api.GetPlaces))
		r.Method(http.MethodPost, "/", Handler(api.CreatePlace))
		r.Method(http.MethodPut, "/{id}", Handler(api.UpdatePlace))
		r.Method(http.MethodDelete, "/{id}", Handler(api.DeletePlace))
		r.Method(http.MethodPost, "/{id}/photo", Handler(api.UploadPlacePhoto))
		r.Method(http.MethodGet, "/{id}/messages", Handler(api.GetMessages))
		r.Method(http.MethodPost, "/{id}/messages", Handler(api.CreateMessage))
	})
	return mux
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (api *API) GetPlaces(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	user, err := util.GetSessionUser(r.Context())
	if err != nil {
		return respondWithError(err, "login required", values.NotAuthorised, &tc)
	}

	places, err := api.Repo.ListPlaces(r.Context(), user.ID)
	if err != nil {
		return respondWithError(err, "failed to get places", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "places retrieved",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       places,
	}
}

func (api *API) CreatePlace(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	user, err := util.GetSessionUser(r.Context())
	if err != nil {
		return respondWithError(err, "login required", values.NotAuthorised, &tc)
	}

	var req model.CreatePlaceRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	resp, status, message, err := api.CreatePlaceHelper(r.Context(), user, req.Draft())
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       resp,
	}
}

func (api *API) UpdatePlace(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	user, err := util.GetSessionUser(r.Context())
	if err != nil {
		return respondWithError(err, "login required", values.NotAuthorised, &tc)
	}

	id, err := idParam(r)
	if err != nil {
		return respondWithError(err, "invalid ID format", values.BadRequestBody, &tc)
	}

	var req model.PlaceUpdate
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	place, status, message, err := api.UpdatePlaceHelper(r.Context(), user, id, req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       place,
	}
}

func (api *API) DeletePlace(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	user, err := util.GetSessionUser(r.Context())
	if err != nil {
		return respondWithError(err, "login required", values.NotAuthorised, &tc)
	}

	id, err := idParam(r)
	if err != nil {
		return respondWithError(err, "invalid ID format", values.BadRequestBody, &tc)
	}

	status, message, err := api.DeletePlaceHelper(r.Context(), user, id)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}

func (api *API) UploadPlacePhoto(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	user, err := util.GetSessionUser(r.Context())
	if err != nil {
		return respondWithError(err, "login required", values.NotAuthorised, &tc)
	}

	id, err := idParam(r)
	if err != nil {
		return respondWithError(err, "invalid ID format", values.BadRequestBody, &tc)
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		return respondWithError(err, "unable to read upload", values.BadRequestBody, &tc)
	}
	file, _, err := r.FormFile("photo")
	if err != nil {
		return respondWithError(err, "photo file is required", values.BadRequestBody, &tc)
	}
	defer file.Close()

	photoURL, status, message, err := api.UploadPhotoHelper(r.Context(), user, id, file)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       map[string]string{"photo_url": photoURL},
	}
}
