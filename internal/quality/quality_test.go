package quality

import (
	"testing"
)

func TestScore_EmptyEntityScoresZero(t *testing.T) {
	if got := Score(map[string]any{}, VenueWeights()); got != 0 {
		t.Errorf("no fields present should score 0, got %d", got)
	}
}

func TestScore_CompleteEntityScores100(t *testing.T) {
	fields := map[string]any{
		"name":        "The Earl",
		"address":     "488 Flat Shoals Ave SE",
		"latitude":    33.74,
		"longitude":   -84.35,
		"venue_type":  "bar",
		"website":     "https://badearl.com",
		"description": "East Atlanta rock venue and restaurant",
		"image_url":   "https://badearl.com/front.jpg",
	}

	if got := Score(fields, VenueWeights()); got != 100 {
		t.Errorf("all fields present should score 100, got %d", got)
	}
}

func TestScore_PartialWeightsSum(t *testing.T) {
	// name (15) + address (15) of a 100-point table
	fields := map[string]any{
		"name":    "The Earl",
		"address": "488 Flat Shoals Ave SE",
	}

	if got := Score(fields, VenueWeights()); got != 30 {
		t.Errorf("expected 30, got %d", got)
	}
}

func TestScore_EmptyValuesDoNotCount(t *testing.T) {
	fields := map[string]any{
		"name":        "The Earl",
		"address":     "",
		"description": "",
		"tags":        []string{},
	}

	if got := Score(fields, VenueWeights()); got != 15 {
		t.Errorf("empty strings and slices should not count, expected 15, got %d", got)
	}
}

func TestScore_MonotoneInAddedFields(t *testing.T) {
	fields := map[string]any{"title": "Jazz Night"}
	prev := Score(fields, EventWeights())

	add := []struct {
		field string
		value any
	}{
		{"description", "A night of jazz"},
		{"start_time", "20:00"},
		{"category", "music"},
		{"tags", []string{"jazz"}},
		{"image_url", "https://example.com/poster.jpg"},
	}

	for _, a := range add {
		fields[a.field] = a.value
		got := Score(fields, EventWeights())
		if got <= prev {
			t.Errorf("adding %s should raise the score: %d -> %d", a.field, prev, got)
		}
		prev = got
	}
}

func TestScore_PureFunction(t *testing.T) {
	fields := map[string]any{"title": "Jazz Night", "category": "music"}

	first := Score(fields, EventWeights())
	second := Score(fields, EventWeights())

	if first != second {
		t.Errorf("score must be deterministic: %d vs %d", first, second)
	}
}

func TestScore_UnknownFieldsIgnored(t *testing.T) {
	fields := map[string]any{
		"title":         "Jazz Night",
		"internal_note": "not a scored field",
	}

	withExtra := Score(fields, EventWeights())
	without := Score(map[string]any{"title": "Jazz Night"}, EventWeights())

	if withExtra != without {
		t.Errorf("fields outside the weight table must not affect the score: %d vs %d", withExtra, without)
	}
}
