package domain

import (
	"time"
)

// EventDraft is the loosely-typed candidate record an ingestion adapter
// submits. VenueID is filled in once the venue slug has been resolved; the
// adapter itself only knows the venue by name and slug.
type EventDraft struct {
	Title          string   `json:"title"`
	VenueName      string   `json:"venue_name"`
	VenueSlug      string   `json:"venue_slug"`
	VenueID        string   `json:"-"`
	EventDate      string   `json:"event_date"`
	StartTime      string   `json:"start_time,omitempty"`
	EndTime        string   `json:"end_time,omitempty"`
	Category       string   `json:"category,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	PriceMin       *float64 `json:"price_min,omitempty"`
	PriceMax       *float64 `json:"price_max,omitempty"`
	IsFree         bool     `json:"is_free,omitempty"`
	Description    string   `json:"description,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	TicketURL      string   `json:"ticket_url,omitempty"`
	SourceURL      string   `json:"source_url,omitempty"`
	Confidence     float64  `json:"confidence,omitempty"`
	IsRecurring    bool     `json:"is_recurring,omitempty"`
	RecurrenceRule string   `json:"recurrence_rule,omitempty"`
	SourceSlug     string   `json:"source_slug"`
	SourceTier     Tier     `json:"source_tier"`
}

// Validate rejects malformed drafts before they reach fingerprinting.
func (d *EventDraft) Validate() error {
	if d.Title == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	if d.VenueName == "" && d.VenueSlug == "" {
		return &ValidationError{Field: "venue_name", Reason: "is required"}
	}
	if d.EventDate == "" {
		return &ValidationError{Field: "event_date", Reason: "is required"}
	}
	if _, err := time.Parse("2006-01-02", d.EventDate); err != nil {
		return &ValidationError{Field: "event_date", Reason: "must be an ISO date (YYYY-MM-DD)"}
	}
	if d.SourceTier != "" && !KnownTier(d.SourceTier) {
		return &ValidationError{Field: "source_tier", Reason: "unknown tier"}
	}
	return nil
}

// Fields returns the draft's proposed field values, omitting identity fields
// already fixed by the fingerprint (venue, date).
func (d *EventDraft) Fields() map[string]any {
	return map[string]any{
		"title":       d.Title,
		"start_time":  d.StartTime,
		"end_time":    d.EndTime,
		"category":    d.Category,
		"tags":        d.Tags,
		"price_min":   d.PriceMin,
		"price_max":   d.PriceMax,
		"description": d.Description,
		"image_url":   d.ImageURL,
		"ticket_url":  d.TicketURL,
		"source_url":  d.SourceURL,
		"confidence":  d.Confidence,
	}
}

// ToEvent builds the row to insert on a "new" verdict.
func (d *EventDraft) ToEvent(contentHash string) *Event {
	return &Event{
		Title:          d.Title,
		VenueID:        d.VenueID,
		EventDate:      d.EventDate,
		StartTime:      d.StartTime,
		EndTime:        d.EndTime,
		Category:       d.Category,
		Tags:           d.Tags,
		PriceMin:       d.PriceMin,
		PriceMax:       d.PriceMax,
		IsFree:         d.IsFree,
		Description:    d.Description,
		ImageURL:       d.ImageURL,
		TicketURL:      d.TicketURL,
		SourceURL:      d.SourceURL,
		Confidence:     d.Confidence,
		ContentHash:    contentHash,
		IsRecurring:    d.IsRecurring,
		RecurrenceRule: d.RecurrenceRule,
		SourceSlug:     d.SourceSlug,
	}
}
