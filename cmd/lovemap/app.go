package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bwise1/love_map/config"
	"github.com/bwise1/love_map/internal/apperr"
	"github.com/bwise1/love_map/internal/dispatch"
	"github.com/bwise1/love_map/internal/filter"
	"github.com/bwise1/love_map/internal/localcache"
	"github.com/bwise1/love_map/internal/placestore"
	"github.com/bwise1/love_map/internal/remote"
)

const tokenFile = "token"

// viewport is the map centre the CLI pretends to look at.
type viewport struct {
	lat, lng float64
}

func (v viewport) Center() (float64, float64) { return v.lat, v.lng }

type app struct {
	cfg        *config.ClientConfig
	logger     *slog.Logger
	client     *remote.Client
	cache      *localcache.Cache
	store      *placestore.Store
	presenter  *textPresenter
	dispatcher *dispatch.Dispatcher
	view       viewport
}

func newApp(cfg *config.ClientConfig, near string, out, errOut io.Writer, verbose bool) (*app, error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	token := cfg.Token
	if token == "" {
		token = readToken(cfg.CacheDir)
	}
	client, err := remote.NewClient(cfg.APIURL, remote.WithToken(token), remote.WithSource(cfg.RequestSource))
	if err != nil {
		return nil, err
	}

	view := viewport{}
	if near != "" {
		loc, ok := filter.Preset(near)
		if !ok {
			return nil, errors.New("unknown location " + near + ", see: lovemap presets")
		}
		view = viewport{lat: loc.Lat, lng: loc.Lng}
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		client:    client,
		presenter: newTextPresenter(out, errOut),
		view:      view,
	}
	return a, nil
}

// open starts the local cache and the store. Commands that only talk to the
// server skip it.
func (a *app) open() error {
	dir := ""
	if a.cfg.CacheDir != "" {
		dir = filepath.Join(a.cfg.CacheDir, "places")
	}
	cache, err := localcache.Open(dir, a.logger)
	if err != nil {
		return err
	}
	a.cache = cache
	a.store = placestore.New(a.client, cache, placestore.NewMarkerSet(), a.presenter, placestore.WithLogger(a.logger))
	a.dispatcher = dispatch.New(a.store, nil, a.view, a.presenter)
	return nil
}

func (a *app) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("closing local cache", "error", err)
		}
	}
}

// load fills the store before a command works on the snapshot.
func (a *app) load(ctx context.Context) error {
	_, err := a.store.Load(ctx)
	if err == nil {
		return nil
	}
	if apperr.KindOf(err) == apperr.KindAuth {
		a.presenter.LoginRequired(err)
	} else {
		a.presenter.Error(err)
	}
	return err
}

func (a *app) saveToken(token string) error {
	if a.cfg.CacheDir == "" {
		return nil
	}
	if err := os.MkdirAll(a.cfg.CacheDir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(a.cfg.CacheDir, tokenFile), []byte(token), 0o600)
}

func (a *app) clearToken() error {
	if a.cfg.CacheDir == "" {
		return nil
	}
	err := os.Remove(filepath.Join(a.cfg.CacheDir, tokenFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func readToken(dir string) string {
	if dir == "" {
		return ""
	}
	b, err := os.ReadFile(filepath.Join(dir, tokenFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
