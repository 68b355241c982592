package util

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/twpayne/go-polyline"
)

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

// RuneLen counts characters rather than bytes, so CJK notes are measured
// the way users type them.
func RuneLen(value string) int {
	return utf8.RuneCountInString(value)
}

func formatTime(format string, t time.Time) string {
	return t.Format(format)
}

// BackupFilename names an export download for the given day.
func BackupFilename(t time.Time) string {
	return fmt.Sprintf("love-map-backup-%s.json", formatTime("20060102", t))
}

// Coordinate represents a latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lon float64
}

// EncodePolyline encodes coordinates with the standard precision 5 polyline
// algorithm, in the order given.
func EncodePolyline(coords []Coordinate) string {
	if len(coords) == 0 {
		return ""
	}
	pts := make([][]float64, len(coords))
	for i, c := range coords {
		pts[i] = []float64{c.Lat, c.Lon}
	}
	return string(polyline.EncodeCoords(pts))
}

func DecodePolyline(shape string) ([]Coordinate, error) {
	decoded, _, err := polyline.DecodeCoords([]byte(shape))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline %w", err)
	}
	coords := make([]Coordinate, len(decoded))
	for i, p := range decoded {
		coords[i] = Coordinate{Lat: p[0], Lon: p[1]}
	}
	return coords, nil
}

// IntPtr returns a pointer to the given integer.
func IntPtr(i int) *int {
	return &i
}

func StringPtr(s string) *string {
	return &s
}
