// Package placestore owns the client's list of places. It keeps the list,
// the markers on the map and the local cache in step with the server.
//
// When the server cannot be reached the store keeps working on its local
// copy. Nothing replays those local changes later, so the two sides can
// drift apart until the next successful Load.
package placestore

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/bwise1/love_map/internal/apperr"
	"github.com/bwise1/love_map/internal/model"
	"github.com/google/uuid"
)

type Remote interface {
	ListPlaces(ctx context.Context) ([]model.Place, error)
	CreatePlace(ctx context.Context, draft model.PlaceDraft) (int64, error)
	UpdatePlace(ctx context.Context, id int64, fields model.PlaceUpdate) error
	DeletePlace(ctx context.Context, id int64) error
}

type LocalCache interface {
	Save(places []model.Place) error
	Load() ([]model.Place, bool, error)
}

// Outcome says whether an operation reached the server.
type Outcome int

const (
	Synced Outcome = iota
	// Degraded means the change was applied locally only.
	Degraded
)

func (o Outcome) String() string {
	if o == Degraded {
		return "degraded"
	}
	return "synced"
}

type Store struct {
	remote    Remote
	cache     LocalCache
	surface   MarkerSurface
	notifier  Notifier
	logger    *slog.Logger
	clock     func() time.Time
	author    string
	recompute func([]model.Place)

	mu        sync.Mutex
	places    []model.Place
	nextLocal int64
}

type Option func(*Store)

func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithAuthor sets the created_by stamp for places created by this client.
func WithAuthor(name string) Option {
	return func(s *Store) { s.author = name }
}

// WithRecompute registers fn to run with a fresh snapshot after every change,
// typically to refresh stats and the timeline.
func WithRecompute(fn func([]model.Place)) Option {
	return func(s *Store) { s.recompute = fn }
}

type noopNotifier struct{}

func (noopNotifier) Notify(string, Severity) {}

func New(remote Remote, cache LocalCache, surface MarkerSurface, notifier Notifier, opts ...Option) *Store {
	s := &Store{
		remote:    remote,
		cache:     cache,
		surface:   surface,
		notifier:  notifier,
		logger:    slog.Default(),
		clock:     time.Now,
		nextLocal: -1,
	}
	if s.surface == nil {
		s.surface = NewMarkerSet()
	}
	if s.notifier == nil {
		s.notifier = noopNotifier{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current list.
func (s *Store) Snapshot() []model.Place {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []model.Place {
	out := make([]model.Place, len(s.places))
	copy(out, s.places)
	return out
}

// Get looks a place up by id.
func (s *Store) Get(id int64) (model.Place, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.places[i], true
	}
	return model.Place{}, false
}

func (s *Store) indexLocked(id int64) int {
	for i := range s.places {
		if s.places[i].ID == id {
			return i
		}
	}
	return -1
}

// replaceLocked swaps the whole list and redraws every marker.
func (s *Store) replaceLocked(places []model.Place) {
	for _, p := range s.places {
		s.surface.RemoveMarker(p.ID)
	}
	s.places = dedupe(places)
	for _, p := range s.places {
		s.surface.AddMarker(p)
	}
}

// dedupe keeps the first place for each id.
func dedupe(places []model.Place) []model.Place {
	seen := make(map[int64]struct{}, len(places))
	out := make([]model.Place, 0, len(places))
	for _, p := range places {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// changed persists the new state and runs the recompute hook.
func (s *Store) changed() {
	if err := s.PersistLocally(); err != nil {
		s.logger.Warn("failed to persist places locally", "error", err)
		s.notifier.Notify("Could not save places on this device", SeverityWarning)
	}
	if s.recompute != nil {
		s.recompute(s.Snapshot())
	}
}

func isTransport(err error) bool {
	return errors.Is(err, apperr.ErrTransport) || apperr.KindOf(err) == ""
}

// classify makes sure err carries an apperr kind. Unclassified errors come
// from the network layer.
func classify(err error, msg string) error {
	if apperr.KindOf(err) != "" {
		return err
	}
	return apperr.Transport(err, msg)
}

// Load fetches every place from the server and replaces the local list.
// When the server is unreachable it falls back to the cached list, or an
// empty one, and reports Degraded. Authentication failures are returned
// with the list untouched.
func (s *Store) Load(ctx context.Context) (Outcome, error) {
	places, err := s.remote.ListPlaces(ctx)
	if err == nil {
		s.mu.Lock()
		s.replaceLocked(places)
		s.mu.Unlock()
		s.changed()
		return Synced, nil
	}
	if !isTransport(err) {
		return Synced, err
	}

	s.logger.Warn("loading places from server failed, using local copy", "error", err)
	var cached []model.Place
	if s.cache != nil {
		var ok bool
		var cerr error
		cached, ok, cerr = s.cache.Load()
		if cerr != nil || !ok {
			if cerr != nil {
				s.logger.Warn("failed to read local copy", "error", cerr)
			}
			cached = nil
		}
	}

	s.mu.Lock()
	s.replaceLocked(cached)
	s.bumpLocalLocked()
	s.mu.Unlock()
	if s.recompute != nil {
		s.recompute(s.Snapshot())
	}
	s.notifier.Notify("Offline: showing places saved on this device", SeverityWarning)
	return Degraded, nil
}

// bumpLocalLocked keeps provisional ids unique after a cached list that
// already holds some is loaded.
func (s *Store) bumpLocalLocked() {
	for _, p := range s.places {
		if p.ID <= s.nextLocal {
			s.nextLocal = p.ID - 1
		}
	}
}

func validateDraft(d model.PlaceDraft) error {
	switch {
	case math.IsNaN(d.Lat) || math.IsNaN(d.Lng) || math.IsInf(d.Lat, 0) || math.IsInf(d.Lng, 0):
		return apperr.Validation("coordinates must be numbers")
	case d.Lat < -90 || d.Lat > 90:
		return apperr.Validationf("latitude %v out of range", d.Lat)
	case d.Lng < -180 || d.Lng > 180:
		return apperr.Validationf("longitude %v out of range", d.Lng)
	case !d.Type.Valid():
		return apperr.Validationf("unknown place type %q", d.Type)
	case d.Category != "" && !d.Category.Valid():
		return apperr.Validationf("unknown category %q", d.Category)
	}
	return nil
}

// BeginPlacement shows a pending marker at lat/lng and returns the draft the
// user will fill in.
func (s *Store) BeginPlacement(lat, lng float64, t model.PlaceType) model.PlaceDraft {
	d := model.PlaceDraft{ClientKey: uuid.New(), Lat: lat, Lng: lng, Type: t}
	s.surface.ShowPending(d)
	return d
}

// CancelPlacement removes the pending marker of an abandoned draft.
func (s *Store) CancelPlacement(d model.PlaceDraft) {
	if d.ClientKey != uuid.Nil {
		s.surface.ClearPending(d.ClientKey)
	}
}

// Create sends draft to the server and adds the place once it has an id.
// Nothing changes locally when the server call fails; callers that want to
// keep the place anyway can follow up with CreateLocal.
func (s *Store) Create(ctx context.Context, draft model.PlaceDraft) (model.Place, error) {
	if err := validateDraft(draft); err != nil {
		return model.Place{}, err
	}
	draft = draft.Normalize()

	id, err := s.remote.CreatePlace(ctx, draft)
	if err != nil {
		return model.Place{}, classify(err, "create place")
	}

	p := draft.Place(id, s.author, s.clock())
	s.commit(p, draft.ClientKey)
	return p, nil
}

// CreateLocal adds draft with a provisional negative id without contacting
// the server.
func (s *Store) CreateLocal(draft model.PlaceDraft) (model.Place, error) {
	if err := validateDraft(draft); err != nil {
		return model.Place{}, err
	}
	draft = draft.Normalize()

	s.mu.Lock()
	id := s.nextLocal
	s.nextLocal--
	s.mu.Unlock()

	p := draft.Place(id, s.author, s.clock())
	s.commit(p, draft.ClientKey)
	s.logger.Info("place kept on this device only", "id", id, "name", p.Name)
	return p, nil
}

func (s *Store) commit(p model.Place, key uuid.UUID) {
	s.mu.Lock()
	if i := s.indexLocked(p.ID); i >= 0 {
		s.surface.RemoveMarker(p.ID)
		s.places[i] = p
	} else {
		s.places = append(s.places, p)
	}
	s.surface.AddMarker(p)
	if key != uuid.Nil {
		s.surface.ClearPending(key)
	}
	s.mu.Unlock()
	s.changed()
}

// IsLocalOnly reports whether id was assigned by CreateLocal.
func IsLocalOnly(id int64) bool {
	return id < 0
}

// Update merges fields into the place with the given id. If the server is
// unreachable the merge is still applied locally and Degraded is returned.
// Turning a heart into a paw records the visit at the store's clock unless
// fields carries its own visited_at.
func (s *Store) Update(ctx context.Context, id int64, fields model.PlaceUpdate) (Outcome, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return Synced, apperr.NotFoundf("place %d not found", id)
	}
	current := s.places[i]
	s.mu.Unlock()

	if err := validateUpdate(current, fields); err != nil {
		return Synced, err
	}
	if fields.Type != nil && *fields.Type == model.Paw && current.Type == model.Heart && fields.VisitedAt == nil {
		visitedAt := s.clock()
		fields.VisitedAt = &visitedAt
	}
	return s.push(ctx, id, fields)
}

func validateUpdate(current model.Place, fields model.PlaceUpdate) error {
	if fields.Type != nil {
		if !fields.Type.Valid() {
			return apperr.Validationf("unknown place type %q", *fields.Type)
		}
		if current.Type == model.Paw && *fields.Type == model.Heart {
			return apperr.Validation("a visited place cannot go back to the wish list")
		}
	}
	if fields.Category != nil && *fields.Category != "" && !fields.Category.Valid() {
		return apperr.Validationf("unknown category %q", *fields.Category)
	}
	if fields.Rating != nil && (*fields.Rating < 0 || *fields.Rating > model.MaxRating) {
		return apperr.Validationf("rating %d out of range", *fields.Rating)
	}
	return nil
}

func (s *Store) push(ctx context.Context, id int64, fields model.PlaceUpdate) (Outcome, error) {
	outcome := Synced
	if IsLocalOnly(id) {
		outcome = Degraded
	} else if err := s.remote.UpdatePlace(ctx, id, fields); err != nil {
		if !isTransport(err) {
			return Synced, err
		}
		s.logger.Warn("update failed on server, applying locally", "id", id, "error", err)
		s.notifier.Notify("Saved on this device only; the server could not be reached", SeverityWarning)
		outcome = Degraded
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		// deleted while the request was in flight
		s.mu.Unlock()
		return outcome, nil
	}
	before := s.places[i]
	after := fields.Apply(before)
	s.places[i] = after
	s.surface.RemoveMarker(id)
	s.surface.AddMarker(after)
	s.mu.Unlock()

	s.changed()
	return outcome, nil
}

// ConvertToVisited turns a wish-list place into a visited one. The visit
// note is appended to the existing note on a new line.
func (s *Store) ConvertToVisited(ctx context.Context, id int64, visit model.VisitInput) (Outcome, error) {
	current, ok := s.Get(id)
	if !ok {
		return Synced, apperr.NotFoundf("place %d not found", id)
	}
	if current.Type != model.Heart {
		return Synced, apperr.Validation("only wish-list places can be marked visited")
	}

	paw := model.Paw
	visitedAt := s.clock()
	rating := model.ClampRating(model.Paw, visit.Rating)
	fields := model.PlaceUpdate{
		Type:      &paw,
		VisitedAt: &visitedAt,
		Rating:    &rating,
	}
	if note := strings.TrimSpace(visit.Note); note != "" {
		merged := AppendNote(current.Note, note)
		fields.Note = &merged
	}
	return s.push(ctx, id, fields)
}

func AppendNote(original, addition string) string {
	if original == "" {
		return addition
	}
	return original + "\n" + addition
}

// Delete removes the place locally right away and then asks the server to
// delete it. Server failures only downgrade the outcome.
func (s *Store) Delete(ctx context.Context, id int64) Outcome {
	s.mu.Lock()
	if i := s.indexLocked(id); i >= 0 {
		s.places = append(s.places[:i:i], s.places[i+1:]...)
	}
	s.surface.RemoveMarker(id)
	s.mu.Unlock()
	s.changed()

	if IsLocalOnly(id) {
		return Degraded
	}
	if err := s.remote.DeletePlace(ctx, id); err != nil {
		s.logger.Warn("delete failed on server", "id", id, "error", err)
		return Degraded
	}
	return Synced
}

// PersistLocally writes the whole list to the local cache.
func (s *Store) PersistLocally() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Save(s.Snapshot())
}
