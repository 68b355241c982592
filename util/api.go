package util

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/bwise1/love_map/internal/model"
	"github.com/bwise1/love_map/util/tracing"
	"github.com/bwise1/love_map/util/values"
	"github.com/pkg/errors"
)

// StatusCode returns the status code represented
// by the specified status. Note that this function
// returns a status code of 200 by default
func StatusCode(status string) int {
	switch status {
	case values.Error, values.SystemErr:
		return http.StatusInternalServerError
	case values.Created:
		return http.StatusCreated
	case values.BadRequestBody:
		return http.StatusBadRequest
	case values.Unprocessable:
		return http.StatusUnprocessableEntity
	case values.NotAllowed:
		return http.StatusForbidden
	case values.Conflict:
		return http.StatusConflict
	case values.NotFound:
		return http.StatusNotFound
	case values.NotAuthorised, values.TokenExpired:
		return http.StatusUnauthorized
	case values.TooManyRequest:
		return http.StatusTooManyRequests
	case values.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusOK
	}
}

// DecodeJSONBody ...
func DecodeJSONBody(tc *tracing.Context, body io.ReadCloser, target interface{}) error {
	if body == nil {
		return fmt.Errorf("missing request body for request: %v", tc)
	}
	defer func() {
		_ = body.Close()
	}()

	if err := json.NewDecoder(body).Decode(target); err != nil {
		return errors.Wrapf(err, "Error parsing json body for request: %v", tc)
	}

	return nil
}

// RandomPassword returns a url-safe random secret of n bytes of entropy.
func RandomPassword(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// WithSessionUser stores the authenticated user on the context.
func WithSessionUser(ctx context.Context, user model.SessionUser) context.Context {
	return context.WithValue(ctx, values.ContextUserKey, user)
}

// GetSessionUser extracts the authenticated user from the context.
func GetSessionUser(ctx context.Context) (model.SessionUser, error) {
	user, ok := ctx.Value(values.ContextUserKey).(model.SessionUser)
	if !ok || user.ID == 0 {
		return model.SessionUser{}, errors.New("user not found in context")
	}
	return user, nil
}

// TracingFromContext returns the request's tracing context, or a zero value
// when RequestTracing did not run.
func TracingFromContext(ctx context.Context) tracing.Context {
	tc, _ := ctx.Value(values.ContextTracingKey).(tracing.Context)
	return tc
}
