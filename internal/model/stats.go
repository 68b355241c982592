package model

import "time"

type Stats struct {
	HeartCount     int `json:"want_to_go"`
	PawCount       int `json:"visited"`
	CompletionRate int `json:"completion_rate"`
}

// Activity is one entry of the recent timeline.
type Activity struct {
	PlaceID   int64     `json:"place_id"`
	Name      string    `json:"name"`
	Type      PlaceType `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type StatsResponse struct {
	Stats
	RecentActivities []Activity `json:"recent_activities"`
}
