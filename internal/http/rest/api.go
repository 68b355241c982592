package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bwise1/love_map/config"
	"github.com/bwise1/love_map/internal/events"
	deps "github.com/bwise1/love_map/internal/debs"
	"github.com/bwise1/love_map/util"
	"github.com/bwise1/love_map/util/values"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	defaultIdleTimeout    = time.Minute
	defaultReadTimeout    = 15 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultShutdownPeriod = 30 * time.Second
)

type Handler func(w http.ResponseWriter, r *http.Request) *ServerResponse

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h(w, r)
	respByte, err := json.Marshal(resp)
	if err != nil {
		writeErrorResponse(w, err, values.Error, "unable to marshal server response")
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

type API struct {
	Server *http.Server
	Config *config.Config
	Deps   *deps.Dependencies
	Repo   Repository
	// Now is the clock used for export timestamps.
	Now func() time.Time
}

func New(cfg *config.Config, d *deps.Dependencies, repo Repository) *API {
	return &API{Config: cfg, Deps: d, Repo: repo, Now: time.Now}
}

func (api *API) Serve() error {
	api.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", api.Config.Port),
		IdleTimeout:  defaultIdleTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		Handler:      api.setUpServerHandler(),
	}
	return api.Server.ListenAndServe()
}

func (api *API) setUpServerHandler() http.Handler {
	mux := chi.NewRouter()
	if api.Config.TrustProxy {
		mux.Use(middleware.RealIP)
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   api.Config.CorsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", values.HeaderRequestSource, values.HeaderRequestID},
		ExposedHeaders:   []string{"Content-Disposition", values.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	mux.Use(RequestTracing)

	mux.Method(http.MethodGet, "/health", Handler(api.Health))
	mux.Mount("/api", api.AuthRoutes())
	mux.Mount("/api/places", api.PlaceRoutes())
	mux.Mount("/api/messages", api.MessageRoutes())

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodGet, "/api/stats", Handler(api.GetStats))
		r.Method(http.MethodGet, "/api/export", Handler(api.ExportPlaces))
		r.Method(http.MethodPost, "/api/import", Handler(api.ImportPlaces))
		r.Method(http.MethodGet, "/api/trail", Handler(api.GetTrail))
		r.Method(http.MethodGet, "/api/geocode/search", Handler(api.SearchAddress))
		r.Get("/ws", api.LiveUpdates)
	})

	return mux
}

func (api *API) Health(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := util.TracingFromContext(r.Context())
	if api.Deps != nil && api.Deps.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := api.Deps.DB.Ping(ctx); err != nil {
			return respondWithError(err, "database unreachable", values.Unavailable, &tc)
		}
	}
	return &ServerResponse{
		Message:    "ok",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}

// publish announces e. Delivery failures are logged and never fail the
// request.
func (api *API) publish(ctx context.Context, e events.Event) {
	if api.Deps == nil || api.Deps.Events == nil {
		return
	}
	if e.At.IsZero() {
		e.At = api.Now()
	}
	if err := api.Deps.Events.Publish(ctx, e); err != nil {
		log.Printf("[Events]: publish %s: %v", e.Kind, err)
	}
}

func (api *API) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownPeriod)
	defer cancel()

	err := api.Server.Shutdown(ctx)
	if err != nil {
		return err
	}
	return nil
}
