// Package events announces changes to a user's places to live map sessions
// and, optionally, to a Kafka topic.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/bwise1/love_map/internal/model"
	"github.com/segmentio/kafka-go"
)

type Kind string

const (
	PlaceCreated   Kind = "place.created"
	PlaceUpdated   Kind = "place.updated"
	PlaceDeleted   Kind = "place.deleted"
	MessageAdded   Kind = "message.created"
	MessageDeleted Kind = "message.deleted"
	PlacesImported Kind = "places.imported"
)

type Event struct {
	Kind    Kind           `json:"type"`
	UserID  int64          `json:"user_id"`
	PlaceID int64          `json:"place_id,omitempty"`
	Place   *model.Place   `json:"place,omitempty"`
	Message *model.Message `json:"message,omitempty"`
	Count   int            `json:"count,omitempty"`
	At      time.Time      `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// UserSender delivers a payload to every live session of one user.
type UserSender interface {
	SendToUser(userID int64, payload []byte)
}

// HubPublisher pushes events to the user's open websocket sessions.
type HubPublisher struct {
	Hub UserSender
}

func (h HubPublisher) Publish(_ context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	h.Hub.SendToUser(e.UserID, payload)
	return nil
}

// MessageWriter is the part of *kafka.Writer the publisher needs, so tests
// can swap it.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(broker, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Printf("[Events]: failed to deliver %d message(s): %v", len(messages), err)
			}
		},
	}
	return &KafkaPublisher{writer: w}
}

func NewKafkaPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish keys messages by user so one user's events stay ordered within a
// partition.
func (k *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(e.UserID, 10)),
		Value: value,
		Time:  e.At,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Kind)},
		},
	})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
