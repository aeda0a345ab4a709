package models

import (
	"sort"
	"time"
)

// PricePoint is one observation in a flight's price history.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// SortHistory orders points by timestamp ascending, in place.
func SortHistory(points []PricePoint) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
}

// CompressHistory collapses flat stretches of a time-ordered series for
// trend display. An interior point is dropped only when its price equals
// both its neighbours; the first and last points are always kept, so a
// completely flat series still renders with its start and end anchors.
//
// The input must already be sorted by timestamp. The result is a new slice.
func CompressHistory(points []PricePoint) []PricePoint {
	if len(points) <= 2 {
		return append([]PricePoint(nil), points...)
	}

	out := make([]PricePoint, 0, len(points))
	out = append(out, points[0])
	for i := 1; i < len(points)-1; i++ {
		if points[i].Price == points[i-1].Price && points[i].Price == points[i+1].Price {
			continue
		}
		out = append(out, points[i])
	}
	out = append(out, points[len(points)-1])
	return out
}
