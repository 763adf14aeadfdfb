package domain

import (
	"testing"
)

func TestLadder_Rank(t *testing.T) {
	ladder := DefaultLadder()

	if ladder.Rank(TierAutomatedCrawl) != 0 {
		t.Error("automated_crawl should be the lowest tier")
	}
	if ladder.Rank(TierManual) != len(ladder)-1 {
		t.Error("manual should be the highest tier")
	}
	if ladder.Rank("made_up") != -1 {
		t.Error("unknown tiers should rank -1")
	}
}

func TestLadder_Outranks(t *testing.T) {
	ladder := DefaultLadder()

	if !ladder.Outranks(TierManual, TierAutomatedCrawl) {
		t.Error("manual should outrank automated_crawl")
	}
	if ladder.Outranks(TierAutomatedCrawl, TierManual) {
		t.Error("automated_crawl should not outrank manual")
	}
	if ladder.Outranks(TierPlacesAPI, TierPlacesAPI) {
		t.Error("a tier never outranks itself")
	}
	// Unknown tiers rank below everything, so a typo can never clobber data
	if ladder.Outranks("typo_tier", TierAutomatedCrawl) {
		t.Error("unknown tier should not outrank the lowest known tier")
	}
}

func TestKnownTier(t *testing.T) {
	for _, tier := range DefaultLadder() {
		if !KnownTier(tier) {
			t.Errorf("%s should be known", tier)
		}
	}
	if KnownTier("premium") {
		t.Error("unlisted tiers are unknown")
	}
}

func TestIsEmptyField(t *testing.T) {
	lat := 33.74
	tests := []struct {
		name  string
		value any
		empty bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"string", "x", false},
		{"empty slice", []string{}, true},
		{"slice", []string{"a"}, false},
		{"nil float ptr", (*float64)(nil), true},
		{"float ptr", &lat, false},
		{"zero float", 0.0, true},
		{"float", 0.5, false},
		{"zero int", 0, true},
		{"false", false, true},
		{"true", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmptyField(tt.value); got != tt.empty {
				t.Errorf("IsEmptyField(%v) = %v, want %v", tt.value, got, tt.empty)
			}
		})
	}
}
