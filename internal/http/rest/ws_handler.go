package rest

import (
	"errors"
	"net/http"

	"github.com/bwise1/love_map/util"
	"github.com/bwise1/love_map/util/values"
)

// LiveUpdates upgrades the request to a websocket that receives the
// caller's place events.
func (api *API) LiveUpdates(w http.ResponseWriter, r *http.Request) {
	user, err := util.GetSessionUser(r.Context())
	if err != nil {
		writeErrorResponse(w, err, values.NotAuthorised, "login required")
		return
	}
	if api.Deps == nil || api.Deps.WebSocket == nil {
		writeErrorResponse(w, errors.New("websocket hub not running"), values.Unavailable, "live updates are disabled")
		return
	}
	api.Deps.WebSocket.HandleConnections(w, r, user.ID)
}
