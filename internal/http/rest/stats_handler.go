package rest

import (
	"net/http"
	"sort"

	"github.com/bwise1/love_map/internal/model"
	"github.com/bwise1/love_map/internal/stats"
	"github.com/bwise1/love_map/internal/timeline"
	"github.com/bwise1/love_map/util"
	"github.com/bwise1/love_map/util/tracing"
	"github.com/bwise1/love_map/util/values"
)

func (api *API) GetStats(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	user, err := util.GetSessionUser(r.Context())
	if err != nil {
		return respondWithError(err, "login required", values.NotAuthorised, &tc)
	}

	places, err := api.Repo.ListPlaces(r.Context(), user.ID)
	if err != nil {
		return respondWithError(err, "failed to get stats", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "stats retrieved",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: model.StatsResponse{
			Stats:            stats.Compute(places),
			RecentActivities: timeline.Project(places).Activities(),
		},
	}
}

func (api *API) GetTrail(_ http.ResponseWriter, r *http.Request) *ServerResponse {
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
		Message:    "trail retrieved",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       buildTrail(places),
	}
}

// buildTrail joins visited places in the order they were visited. Places
// without a visit time fall back to their creation time.
func buildTrail(places []model.Place) model.Trail {
	visited := make([]model.Place, 0, len(places))
	for _, p := range places {
		if p.Type == model.Paw {
			visited = append(visited, p)
		}
	}

	when := func(p model.Place) int64 {
		if p.VisitedAt != nil {
			return p.VisitedAt.UnixNano()
		}
		return p.CreatedAt.UnixNano()
	}
	sort.SliceStable(visited, func(i, j int) bool {
		return when(visited[i]) < when(visited[j])
	})

	coords := make([]util.Coordinate, 0, len(visited))
	for _, p := range visited {
		coords = append(coords, util.Coordinate{Lat: p.Lat, Lon: p.Lng})
	}
	return model.Trail{Polyline: util.EncodePolyline(coords), Points: len(coords)}
}
