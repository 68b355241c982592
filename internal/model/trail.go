package model

// Trail is the visited journey as an encoded polyline, oldest visit first.
type Trail struct {
	Polyline string `json:"polyline"`
	Points   int    `json:"points"`
}
