package rest

import (
	"net/http"

	"github.com/bwise1/love_map/internal/model"
	"github.com/bwise1/love_map/util"
	"github.com/bwise1/love_map/util/tracing"
	"github.com/bwise1/love_map/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) AuthRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.With(api.LoginRateLimit).Method(http.MethodPost, "/login", Handler(api.Login))
	mux.Method(http.MethodPost, "/logout", Handler(api.Logout))
	mux.With(api.RequireLogin).Method(http.MethodGet, "/user", Handler(api.CurrentUser))
	return mux
}

func (api *API) Login(w http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.LoginRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "username and password are required", values.BadRequestBody, &tc)
	}

	resp, status, message, err := api.LoginHelper(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     values.TokenCookie,
		Value:    resp.Token,
		Path:     "/",
		Expires:  resp.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       resp,
	}
}

func (api *API) Logout(w http.ResponseWriter, _ *http.Request) *ServerResponse {
	http.SetCookie(w, &http.Cookie{
		Name:     values.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return &ServerResponse{
		Message:    "logged out",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}

func (api *API) CurrentUser(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	user, err := util.GetSessionUser(r.Context())
	if err != nil {
		return respondWithError(err, "login required", values.NotAuthorised, &tc)
	}
	return &ServerResponse{
		Message:    "user retrieved",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       user,
	}
}
