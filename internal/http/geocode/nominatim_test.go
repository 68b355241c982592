package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "fenway park", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "love-map-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"place_id": 1, "lat": "42.3467", "lon": "-71.0972", "display_name": "Fenway Park, Boston", "type": "stadium"},
			{"place_id": 2, "lat": "bad", "lon": "0", "display_name": "Broken"}
		]`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "love-map-test")
	require.NoError(t, err)

	results, err := c.Search(context.Background(), "fenway park", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Fenway Park, Boston", results[0].Name)
	assert.InDelta(t, 42.3467, results[0].Lat, 1e-9)
	assert.InDelta(t, -71.0972, results[0].Lng, 1e-9)
	assert.Equal(t, "stadium", results[0].Kind)
}

func TestSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "")
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "tokyo", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
