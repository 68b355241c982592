// Package remote talks to the love map REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/bwise1/love_map/internal/apperr"
	"github.com/bwise1/love_map/internal/http/geocode"
	"github.com/bwise1/love_map/internal/model"
	"github.com/bwise1/love_map/util/values"
	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
)

// envelope mirrors the server's response wrapper.
type envelope struct {
	Message string          `json:"message"`
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Client handles communication with the love map API.
type Client struct {
	BaseURL    *url.URL
	Source     string
	HTTPClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

func WithSource(source string) Option {
	return func(c *Client) { c.Source = source }
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse api url")
	}
	c := &Client{
		BaseURL: u,
		Source:  "cli",
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Token returns the access token in use, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) buildURL(endpoint string, queryParams interface{}) (string, error) {
	rel, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrap(err, "parse endpoint")
	}
	u := c.BaseURL.ResolveReference(rel)
	if queryParams != nil {
		v, err := query.Values(queryParams)
		if err != nil {
			return "", errors.Wrap(err, "encode query parameters")
		}
		u.RawQuery = v.Encode()
	}
	return u.String(), nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, queryParams interface{}, body io.Reader) (*http.Request, error) {
	reqURL, err := c.buildURL(endpoint, queryParams)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(values.HeaderRequestSource, c.Source)
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) jsonRequest(ctx context.Context, method, endpoint string, payload interface{}) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
		body = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, endpoint, nil, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do executes req and decodes the envelope's data into v. Failures are
// classified with apperr: no response at all is a transport error, anything
// else follows the response status.
func (c *Client) do(req *http.Request, v interface{}) (http.Header, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, apperr.Transport(err, fmt.Sprintf("%s %s", req.Method, req.URL.Path))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Transport(err, "read response")
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = fmt.Sprintf("%s %s failed with status %d", req.Method, req.URL.Path, resp.StatusCode)
		}
		return resp.Header, apperr.FromStatus(resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return resp.Header, apperr.Transport(decodeErr, "decode response")
	}
	if v != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, v); err != nil {
			return resp.Header, apperr.Transport(err, "decode response data")
		}
	}
	return resp.Header, nil
}

func placePath(id int64) string {
	return "/api/places/" + strconv.FormatInt(id, 10)
}

func (c *Client) Login(ctx context.Context, username, password string) (model.LoginResponse, error) {
	var out model.LoginResponse
	req, err := c.jsonRequest(ctx, http.MethodPost, "/api/login", model.LoginRequest{Username: username, Password: password})
	if err != nil {
		return out, err
	}
	if _, err := c.do(req, &out); err != nil {
		return out, err
	}
	c.setToken(out.Token)
	return out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/api/logout", nil)
	if err != nil {
		return err
	}
	_, err = c.do(req, nil)
	c.setToken("")
	return err
}

func (c *Client) CurrentUser(ctx context.Context) (model.SessionUser, error) {
	var out model.SessionUser
	req, err := c.jsonRequest(ctx, http.MethodGet, "/api/user", nil)
	if err != nil {
		return out, err
	}
	_, err = c.do(req, &out)
	return out, err
}

func (c *Client) ListPlaces(ctx context.Context) ([]model.Place, error) {
	req, err := c.jsonRequest(ctx, http.MethodGet, "/api/places", nil)
	if err != nil {
		return nil, err
	}
	places := []model.Place{}
	if _, err := c.do(req, &places); err != nil {
		return nil, err
	}
	return places, nil
}

// CreatePlace posts the draft and returns the id the server assigned.
func (c *Client) CreatePlace(ctx context.Context, draft model.PlaceDraft) (int64, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/api/places", draft)
	if err != nil {
		return 0, err
	}
	var out model.CreatePlaceResponse
	if _, err := c.do(req, &out); err != nil {
		return 0, err
	}
	if out.ID == 0 {
		return 0, apperr.Transport(nil, "server did not assign an id")
	}
	return out.ID, nil
}

func (c *Client) UpdatePlace(ctx context.Context, id int64, fields model.PlaceUpdate) error {
	req, err := c.jsonRequest(ctx, http.MethodPut, placePath(id), fields)
	if err != nil {
		return err
	}
	_, err = c.do(req, nil)
	return err
}

func (c *Client) DeletePlace(ctx context.Context, id int64) error {
	req, err := c.jsonRequest(ctx, http.MethodDelete, placePath(id), nil)
	if err != nil {
		return err
	}
	_, err = c.do(req, nil)
	return err
}

func (c *Client) Messages(ctx context.Context, placeID int64) ([]model.Message, error) {
	req, err := c.jsonRequest(ctx, http.MethodGet, placePath(placeID)+"/messages", nil)
	if err != nil {
		return nil, err
	}
	messages := []model.Message{}
	_, err = c.do(req, &messages)
	return messages, err
}

func (c *Client) AddMessage(ctx context.Context, placeID int64, content string) (model.Message, error) {
	var out model.Message
	req, err := c.jsonRequest(ctx, http.MethodPost, placePath(placeID)+"/messages", model.MessageRequest{Content: content})
	if err != nil {
		return out, err
	}
	_, err = c.do(req, &out)
	return out, err
}

func (c *Client) DeleteMessage(ctx context.Context, id int64) error {
	req, err := c.jsonRequest(ctx, http.MethodDelete, "/api/messages/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return err
	}
	_, err = c.do(req, nil)
	return err
}

func (c *Client) Stats(ctx context.Context) (model.StatsResponse, error) {
	var out model.StatsResponse
	req, err := c.jsonRequest(ctx, http.MethodGet, "/api/stats", nil)
	if err != nil {
		return out, err
	}
	_, err = c.do(req, &out)
	return out, err
}

// Export downloads a backup. The filename comes from Content-Disposition.
func (c *Client) Export(ctx context.Context) (model.Backup, string, error) {
	var out model.Backup
	req, err := c.jsonRequest(ctx, http.MethodGet, "/api/export", nil)
	if err != nil {
		return out, "", err
	}
	header, err := c.do(req, &out)
	if err != nil {
		return out, "", err
	}
	filename := ""
	if _, params, perr := mime.ParseMediaType(header.Get("Content-Disposition")); perr == nil {
		filename = params["filename"]
	}
	return out, filename, nil
}

// Import uploads a backup file as the multipart field backup_file.
func (c *Client) Import(ctx context.Context, filename string, backup io.Reader) (model.ImportResult, error) {
	var out model.ImportResult

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("backup_file", filename)
	if err != nil {
		return out, errors.Wrap(err, "create form file")
	}
	if _, err := io.Copy(part, backup); err != nil {
		return out, errors.Wrap(err, "copy backup")
	}
	if err := mw.Close(); err != nil {
		return out, errors.Wrap(err, "close multipart writer")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/import", nil, &buf)
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	_, err = c.do(req, &out)
	return out, err
}

type searchQuery struct {
	Q     string `url:"q"`
	Limit int    `url:"limit,omitempty"`
}

func (c *Client) SearchAddress(ctx context.Context, q string, limit int) ([]geocode.Result, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/geocode/search", searchQuery{Q: q, Limit: limit}, nil)
	if err != nil {
		return nil, err
	}
	results := []geocode.Result{}
	_, err = c.do(req, &results)
	return results, err
}

// Trail fetches the visited places as an encoded polyline, oldest visit first.
func (c *Client) Trail(ctx context.Context) (model.Trail, error) {
	var out model.Trail
	req, err := c.jsonRequest(ctx, http.MethodGet, "/api/trail", nil)
	if err != nil {
		return out, err
	}
	_, err = c.do(req, &out)
	return out, err
}

// UploadPhoto attaches an image to a place and returns its public URL.
func (c *Client) UploadPhoto(ctx context.Context, placeID int64, filename string, image io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("photo", filename)
	if err != nil {
		return "", errors.Wrap(err, "create form file")
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", errors.Wrap(err, "copy photo")
	}
	if err := mw.Close(); err != nil {
		return "", errors.Wrap(err, "close multipart writer")
	}

	req, err := c.newRequest(ctx, http.MethodPost, placePath(placeID)+"/photo", nil, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		PhotoURL string `json:"photo_url"`
	}
	_, err = c.do(req, &out)
	return out.PhotoURL, err
}
