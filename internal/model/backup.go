package model

import "time"

const BackupVersion = "1.0"

type Backup struct {
	Version    string        `json:"version"`
	ExportedAt time.Time     `json:"exported_at"`
	User       string        `json:"user"`
	Places     []BackupPlace `json:"places"`
}

// BackupPlace omits ids and ownership so a backup can be imported into
// another account.
type BackupPlace struct {
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	Type      PlaceType  `json:"type"`
	Name      string     `json:"name"`
	Note      string     `json:"note"`
	Rating    int        `json:"rating"`
	Category  Category   `json:"category,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	VisitedAt *time.Time `json:"visited_at,omitempty"`
}

type ImportResult struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}
