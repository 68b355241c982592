package rest

import (
	"net/http"

	"github.com/bwise1/love_map/internal/model"
	"github.com/bwise1/love_map/util"
	"github.com/bwise1/love_map/util/tracing"
	"github.com/bwise1/love_map/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) MessageRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Route("/", func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodDelete, "/{id}", Handler(api.DeleteMessage))
	})
	return mux
}

func (api *API) GetMessages(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	user, err := util.GetSessionUser(r.Context())
	if err != nil {
		return respondWithError(err, "login required", values.NotAuthorised, &tc)
	}

	placeID, err := idParam(r)
	if err != nil {
		return respondWithError(err, "invalid ID format", values.BadRequestBody, &tc)
	}

	messages, status, message, err := api.GetMessagesHelper(r.Context(), user, placeID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       messages,
	}
}

func (api *API) CreateMessage(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	user, err := util.GetSessionUser(r.Context())
	if err != nil {
		return respondWithError(err, "login required", values.NotAuthorised, &tc)
	}

	placeID, err := idParam(r)
	if err != nil {
		return respondWithError(err, "invalid ID format", values.BadRequestBody, &tc)
	}

	var req model.MessageRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	msg, status, message, err := api.CreateMessageHelper(r.Context(), user, placeID, req.Content)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       msg,
	}
}

func (api *API) DeleteMessage(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	user, err := util.GetSessionUser(r.Context())
	if err != nil {
		return respondWithError(err, "login required", values.NotAuthorised, &tc)
	}

	id, err := idParam(r)
	if err != nil {
		return respondWithError(err, "invalid ID format", values.BadRequestBody, &tc)
	}

	status, message, err := api.DeleteMessageHelper(r.Context(), user, id)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}
