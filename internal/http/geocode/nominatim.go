package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "love-map/1.0"
	DefaultLimit     = 5
)

// Client handles communication with a Nominatim compatible search API.
type Client struct {
	BaseURL    *url.URL
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient creates a geocoding client with default timeout. An empty
// baseURL uses the public Nominatim instance.
func NewClient(baseURL, userAgent string) (*Client, error) {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse geocoder url")
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		BaseURL:   u,
		UserAgent: userAgent,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}, nil
}

// SearchQuery represents parameters for the /search endpoint.
type SearchQuery struct {
	Q            string `url:"q"`
	Format       string `url:"format"`
	Limit        int    `url:"limit,omitempty"`
	AcceptLang   string `url:"accept-language,omitempty"`
	CountryCodes string `url:"countrycodes,omitempty"`
}

type nominatimResult struct {
	PlaceID     int64  `json:"place_id"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Class       string `json:"class"`
	Type        string `json:"type"`
}

// Result is one address match.
type Result struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Kind string  `json:"kind,omitempty"`
}

// buildURL constructs the API URL with query parameters.
func (c *Client) buildURL(endpoint string, queryParams interface{}) (string, error) {
	rel, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrap(err, "parse endpoint")
	}
	u := c.BaseURL.ResolveReference(rel)

	v, err := query.Values(queryParams)
	if err != nil {
		return "", errors.Wrap(err, "encode query parameters")
	}
	u.RawQuery = v.Encode()
	return u.String(), nil
}

// Search performs forward geocoding for text.
func (c *Client) Search(ctx context.Context, text string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	reqURL, err := c.buildURL("/search", SearchQuery{Q: text, Format: "json", Limit: limit})
	if err != nil {
		return nil, errors.Wrap(err, "build search URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create search request")
	}
	req.Header.Set("User-Agent", c.UserAgent)

	var raw []nominatimResult
	if err := c.do(req, &raw); err != nil {
		return nil, errors.Wrap(err, "execute search request")
	}

	results := make([]Result, 0, len(raw))
	for _, r := range raw {
		lat, err := strconv.ParseFloat(r.Lat, 64)
		if err != nil {
			continue
		}
		lng, err := strconv.ParseFloat(r.Lon, 64)
		if err != nil {
			continue
		}
		results = append(results, Result{Name: r.DisplayName, Lat: lat, Lng: lng, Kind: r.Type})
	}
	return results, nil
}

func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "execute HTTP request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return errors.Wrap(err, "decode response")
		}
	}
	return nil
}
