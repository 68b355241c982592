package placestore

import (
	"sort"
	"sync"

	"github.com/bwise1/love_map/internal/model"
	"github.com/google/uuid"
)

// MarkerSurface is whatever draws places on a map. Markers are keyed by place
// id. A pending marker is shown while a new place is being placed and has
// no id yet.
type MarkerSurface interface {
	AddMarker(p model.Place)
	RemoveMarker(id int64)
	ShowPending(d model.PlaceDraft)
	ClearPending(key uuid.UUID)
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Notifier interface {
	Notify(msg string, sev Severity)
}

// MarkerSet is an in-memory MarkerSurface. The CLI uses it as its map and
// tests use it to check markers against the snapshot.
type MarkerSet struct {
	mu      sync.Mutex
	markers map[int64]model.Place
	pending map[uuid.UUID]model.PlaceDraft
}

func NewMarkerSet() *MarkerSet {
	return &MarkerSet{
		markers: make(map[int64]model.Place),
		pending: make(map[uuid.UUID]model.PlaceDraft),
	}
}

func (m *MarkerSet) AddMarker(p model.Place) {
	m.mu.Lock()
	m.markers[p.ID] = p
	m.mu.Unlock()
}

func (m *MarkerSet) RemoveMarker(id int64) {
	m.mu.Lock()
	delete(m.markers, id)
	m.mu.Unlock()
}

func (m *MarkerSet) ShowPending(d model.PlaceDraft) {
	m.mu.Lock()
	m.pending[d.ClientKey] = d
	m.mu.Unlock()
}

func (m *MarkerSet) ClearPending(key uuid.UUID) {
	m.mu.Lock()
	delete(m.pending, key)
	m.mu.Unlock()
}

// IDs returns the ids of the drawn markers in ascending order.
func (m *MarkerSet) IDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.markers))
	for id := range m.markers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *MarkerSet) Marker(id int64) (model.Place, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.markers[id]
	return p, ok
}

func (m *MarkerSet) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
