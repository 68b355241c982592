package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bwise1/love_map/util"
	"github.com/bwise1/love_map/util/tracing"
	"github.com/bwise1/love_map/util/values"
)

const defaultSearchLimit = 5

func (api *API) SearchAddress(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	q := r.URL.Query().Get("q")
	if !util.NotBlank(q) {
		return respondWithError(errors.New("empty query"), "search text is required", values.BadRequestBody, &tc)
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 20 {
			return respondWithError(err, "limit must be between 1 and 20", values.BadRequestBody, &tc)
		}
		limit = n
	}

	if api.Deps == nil || api.Deps.Geocoder == nil {
		return respondWithError(errors.New("geocoder not configured"), "address search is disabled", values.Unavailable, &tc)
	}

	results, err := api.Deps.Geocoder.Search(r.Context(), q, limit)
	if err != nil {
		return respondWithError(err, "address search failed", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "search results",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       results,
	}
}
