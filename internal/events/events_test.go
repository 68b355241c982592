package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bwise1/love_map/internal/model"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

type mockHub struct {
	sent map[int64][][]byte
}

func (h *mockHub) SendToUser(userID int64, payload []byte) {
	if h.sent == nil {
		h.sent = map[int64][][]byte{}
	}
	h.sent[userID] = append(h.sent[userID], payload)
}

func TestKafkaPublisher(t *testing.T) {
	w := &mockWriter{}
	p := NewKafkaPublisherWithWriter(w)
	at := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), Event{Kind: PlaceCreated, UserID: 7, PlaceID: 3, At: at})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "7", string(w.msgs[0].Key))
	assert.Equal(t, "place.created", string(w.msgs[0].Headers[0].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, int64(3), decoded.PlaceID)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestMultiJoinsErrors(t *testing.T) {
	hub := &mockHub{}
	failing := NewKafkaPublisherWithWriter(&mockWriter{err: errors.New("broker down")})
	m := Multi{HubPublisher{Hub: hub}, failing, nil, Nop{}}

	err := m.Publish(context.Background(), Event{
		Kind:   PlaceUpdated,
		UserID: 1,
		Place:  &model.Place{ID: 5, Name: "Cafe"},
	})
	assert.ErrorContains(t, err, "broker down")
	require.Len(t, hub.sent[1], 1, "hub still receives the event")
	assert.Contains(t, string(hub.sent[1][0]), `"type":"place.updated"`)
}
