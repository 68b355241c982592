package rest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bwise1/love_map/internal/model"
)

type storedPlace struct {
	place model.Place
	owner int64
}

// memRepo is an in-memory Repository for handler tests.
type memRepo struct {
	mu       sync.Mutex
	nextID   int64
	clock    time.Time
	users    map[int64]model.User
	places   map[int64]storedPlace
	messages map[int64]model.Message
}

func newMemRepo() *memRepo {
	return &memRepo{
		clock:    time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC),
		users:    map[int64]model.User{},
		places:   map[int64]storedPlace{},
		messages: map[int64]model.Message{},
	}
}

func (m *memRepo) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memRepo) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, ErrNoRecord
}

func (m *memRepo) GetUserByID(_ context.Context, id int64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, ErrNoRecord
	}
	return u, nil
}

func (m *memRepo) CreateUser(_ context.Context, user model.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.id()
	user.CreatedAt = m.tick()
	m.users[user.ID] = user
	return user.ID, nil
}

func (m *memRepo) TouchLastLogin(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	now := m.tick()
	u.LastLogin = &now
	m.users[id] = u
	return nil
}

func (m *memRepo) ListPlaces(_ context.Context, userID int64) ([]model.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Place{}
	for _, sp := range m.places {
		if sp.owner == userID {
			out = append(out, sp.place)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) GetPlace(_ context.Context, id int64) (model.Place, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp, ok := m.places[id]
	if !ok {
		return model.Place{}, 0, ErrNoRecord
	}
	return sp.place, sp.owner, nil
}

func (m *memRepo) CreatePlace(_ context.Context, userID int64, createdBy string, d model.PlaceDraft) (model.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := d.Place(m.id(), createdBy, m.tick())
	m.places[p.ID] = storedPlace{place: p, owner: userID}
	return p, nil
}

func (m *memRepo) UpdatePlace(_ context.Context, id int64, fields model.PlaceUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp, ok := m.places[id]
	if !ok {
		return ErrNoRecord
	}
	sp.place = fields.Apply(sp.place)
	m.places[id] = sp
	return nil
}

func (m *memRepo) SetPlacePhoto(_ context.Context, id int64, photoURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp, ok := m.places[id]
	if !ok {
		return ErrNoRecord
	}
	sp.place.PhotoURL = photoURL
	m.places[id] = sp
	return nil
}

func (m *memRepo) DeletePlace(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.places[id]; !ok {
		return ErrNoRecord
	}
	for mid, msg := range m.messages {
		if msg.PlaceID == id {
			delete(m.messages, mid)
		}
	}
	delete(m.places, id)
	return nil
}

func (m *memRepo) ListMessages(_ context.Context, placeID int64, limit int) ([]model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Message{}
	for _, msg := range m.messages {
		if msg.PlaceID == placeID {
			out = append(out, msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) CreateMessage(_ context.Context, placeID int64, author, content string) (model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := model.Message{ID: m.id(), PlaceID: placeID, Author: author, Content: content, CreatedAt: m.tick()}
	m.messages[msg.ID] = msg
	return msg, nil
}

func (m *memRepo) GetMessageOwner(_ context.Context, messageID int64) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[messageID]
	if !ok {
		return 0, 0, ErrNoRecord
	}
	return msg.PlaceID, m.places[msg.PlaceID].owner, nil
}

func (m *memRepo) DeleteMessage(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.messages[id]; !ok {
		return ErrNoRecord
	}
	delete(m.messages, id)
	return nil
}

func (m *memRepo) ImportPlaces(_ context.Context, userID int64, createdBy string, places []model.BackupPlace) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	imported := 0
	for _, bp := range places {
		duplicate := false
		for _, sp := range m.places {
			if sp.owner == userID && sp.place.Lat == bp.Lat && sp.place.Lng == bp.Lng && sp.place.Name == bp.Name {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		p := model.Place{
			ID:        m.id(),
			Lat:       bp.Lat,
			Lng:       bp.Lng,
			Type:      bp.Type,
			Name:      bp.Name,
			Note:      bp.Note,
			Rating:    bp.Rating,
			Category:  bp.Category,
			CreatedBy: createdBy,
			CreatedAt: m.tick(),
			VisitedAt: bp.VisitedAt,
		}
		m.places[p.ID] = storedPlace{place: p, owner: userID}
		imported++
	}
	return imported, nil
}
