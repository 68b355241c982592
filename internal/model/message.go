package model

import "time"

const (
	MaxMessageLength = 500
	MessageListLimit = 50
)

type Message struct {
	ID        int64     `json:"id"`
	PlaceID   int64     `json:"place_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type MessageRequest struct {
	Content string `json:"content"`
}
