package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwise1/love_map/internal/gachapon"
	"github.com/bwise1/love_map/internal/model"
	"github.com/bwise1/love_map/internal/placestore"
	"github.com/bwise1/love_map/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func placesServer(t *testing.T, places []model.Place) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"login required","status":"not-authorised"}`))
			return
		}
		if r.Method != http.MethodGet || r.URL.Path != "/api/places" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "places retrieved",
			"status":  "success",
			"data":    places,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testEnv(t *testing.T, token string) {
	t.Helper()
	t.Setenv("LOVEMAP_CACHE_DIR", t.TempDir())
	t.Setenv("LOVEMAP_TOKEN", token)
}

var fixturePlaces = []model.Place{
	{ID: 1, Lat: 39.9, Lng: 116.4, Type: model.Heart, Name: "Peking duck", Category: model.CategoryChinese, CreatedAt: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
	{ID: 2, Lat: 35.6, Lng: 139.7, Type: model.Paw, Name: "Ramen alley", Rating: 5, Category: model.CategoryJapanese, CreatedAt: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)},
}

func TestListFiltersByType(t *testing.T) {
	testEnv(t, "tok")
	srv := placesServer(t, fixturePlaces)

	out, _, err := runCLI(t, "--api", srv.URL, "list", "--type", "paw")
	require.NoError(t, err)
	assert.Contains(t, out, "Ramen alley")
	assert.NotContains(t, out, "Peking duck")
}

func TestListUsesCacheWhenServerIsDown(t *testing.T) {
	testEnv(t, "tok")
	srv := placesServer(t, fixturePlaces)

	_, _, err := runCLI(t, "--api", srv.URL, "list")
	require.NoError(t, err)
	srv.Close()

	out, errOut, err := runCLI(t, "--api", srv.URL, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Peking duck")
	assert.Contains(t, out, "Ramen alley")
	assert.Contains(t, errOut, "[warning]")
}

func TestListWithoutLogin(t *testing.T) {
	testEnv(t, "")
	srv := placesServer(t, fixturePlaces)

	_, errOut, err := runCLI(t, "--api", srv.URL, "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "login required")
}

func TestStatsAndPick(t *testing.T) {
	testEnv(t, "tok")
	srv := placesServer(t, fixturePlaces)

	out, _, err := runCLI(t, "--api", srv.URL, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "want to go: 1  visited: 1  completion: 100%")

	out, _, err = runCLI(t, "--api", srv.URL, "pick", "--region", "beijing")
	require.NoError(t, err)
	assert.Contains(t, out, "Peking duck")

	out, _, err = runCLI(t, "--api", srv.URL, "pick", "--region", "paris")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing on the wish list")
}

func TestArgumentErrors(t *testing.T) {
	testEnv(t, "tok")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"add without coordinates", []string{"add", "--name", "x"}, "--lat and --lng"},
		{"add at unknown preset", []string{"add", "--at", "atlantis"}, "unknown location"},
		{"bad id", []string{"delete", "abc"}, "invalid place id"},
		{"bad type", []string{"list", "--type", "star"}, "heart or paw"},
		{"empty update", []string{"update", "3"}, "nothing to update"},
		{"unknown near", []string{"--near", "atlantis", "stats"}, "unknown location"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPresets(t *testing.T) {
	testEnv(t, "")
	out, _, err := runCLI(t, "presets")
	require.NoError(t, err)
	assert.Equal(t, 12, strings.Count(out, "\n"))
	assert.Contains(t, out, "Tokyo")
}

func TestTextPresenter(t *testing.T) {
	var out, errOut bytes.Buffer
	p := newTextPresenter(&out, &errOut)

	p.Pick(gachapon.Result{Empty: true})
	p.Timeline(timeline.Timeline{Empty: true})
	p.Outcome("delete", placestore.Degraded)
	p.Outcome("create", placestore.Synced)
	p.Notify("saved", placestore.SeveritySuccess)
	p.Notify("offline", placestore.SeverityWarning)

	visited := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	p.Place(model.Place{ID: 7, Name: "Hotpot", Type: model.Paw, Rating: 3, Note: "spicy\nagain", VisitedAt: &visited})

	assert.Contains(t, out.String(), "add some hearts")
	assert.Contains(t, out.String(), "no footprints yet")
	assert.Contains(t, out.String(), "[success] saved")
	assert.Contains(t, out.String(), "#7 Hotpot (visited")
	assert.Contains(t, out.String(), "rating ***")
	assert.Contains(t, out.String(), "visited 2026-10-01")
	assert.Contains(t, errOut.String(), "delete: saved on this device only")
	assert.NotContains(t, errOut.String(), "create")
	assert.Contains(t, errOut.String(), "[warning] offline")
}
