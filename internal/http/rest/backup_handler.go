package rest

import (
	"fmt"
	"io"
	"net/http"

	"github.com/bwise1/love_map/util"
	"github.com/bwise1/love_map/util/tracing"
	"github.com/bwise1/love_map/util/values"
)

const maxBackupSize = 5 << 20

func (api *API) ExportPlaces(w http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	user, err := util.GetSessionUser(r.Context())
	if err != nil {
		return respondWithError(err, "login required", values.NotAuthorised, &tc)
	}

	backup, filename, status, message, err := api.ExportHelper(r.Context(), user)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       backup,
	}
}

func (api *API) ImportPlaces(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	user, err := util.GetSessionUser(r.Context())
	if err != nil {
		return respondWithError(err, "login required", values.NotAuthorised, &tc)
	}

	if err := r.ParseMultipartForm(maxBackupSize); err != nil {
		return respondWithError(err, "unable to read upload", values.BadRequestBody, &tc)
	}
	file, _, err := r.FormFile("backup_file")
	if err != nil {
		return respondWithError(err, "please choose a backup file", values.BadRequestBody, &tc)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxBackupSize))
	if err != nil {
		return respondWithError(err, "unable to read backup file", values.BadRequestBody, &tc)
	}

	result, status, message, err := api.ImportHelper(r.Context(), user, content)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       result,
	}
}
