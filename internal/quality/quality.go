// Package quality computes weighted completeness scores. Scoring is a pure
// function of an entity's current field values: callers recompute after every
// committed write instead of reusing a cached number.
package quality

import (
	"math"

	"github.com/dStensland/LostCity-sub008/internal/domain"
)

// Weights maps field names to their contribution to the completeness score.
type Weights map[string]int

// VenueWeights is the declared field->weight table for venues.
func VenueWeights() Weights {
	return Weights{
		"name":        15,
		"address":     15,
		"latitude":    5,
		"longitude":   5,
		"venue_type":  10,
		"website":     10,
		"description": 25,
		"image_url":   15,
	}
}

// EventWeights is the declared field->weight table for events.
func EventWeights() Weights {
	return Weights{
		"title":       15,
		"description": 20,
		"start_time":  10,
		"end_time":    5,
		"category":    10,
		"tags":        10,
		"price_min":   5,
		"image_url":   15,
		"ticket_url":  10,
	}
}

// Score sums the weights of all non-empty fields, scaled to 0-100.
func Score(fields map[string]any, weights Weights) int {
	total := 0
	present := 0
	for field, weight := range weights {
		total += weight
		if !domain.IsEmptyField(fields[field]) {
			present += weight
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(present) / float64(total) * 100))
}
