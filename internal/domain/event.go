package domain

import (
	"time"
)

type Event struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	VenueID        string    `json:"venue_id"`
	EventDate      string    `json:"event_date"`
	StartTime      string    `json:"start_time,omitempty"`
	EndTime        string    `json:"end_time,omitempty"`
	Category       string    `json:"category,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	PriceMin       *float64  `json:"price_min,omitempty"`
	PriceMax       *float64  `json:"price_max,omitempty"`
	IsFree         bool      `json:"is_free"`
	Description    string    `json:"description,omitempty"`
	ImageURL       string    `json:"image_url,omitempty"`
	TicketURL      string    `json:"ticket_url,omitempty"`
	SourceURL      string    `json:"source_url,omitempty"`
	Confidence     float64   `json:"confidence"`
	ContentHash    string    `json:"content_hash"`
	IsRecurring    bool      `json:"is_recurring"`
	RecurrenceRule string    `json:"recurrence_rule,omitempty"`
	SourceSlug     string    `json:"source_slug,omitempty"`
	QualityScore   int       `json:"quality_score"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Fields returns the event's mergeable fields keyed by column name.
// Identity fields (title hash inputs, venue, date) are deliberately included:
// the merge engine may lengthen a title but never rewrites venue or date.
func (e *Event) Fields() map[string]any {
	return map[string]any{
		"title":       e.Title,
		"start_time":  e.StartTime,
		"end_time":    e.EndTime,
		"category":    e.Category,
		"tags":        e.Tags,
		"price_min":   e.PriceMin,
		"price_max":   e.PriceMax,
		"description": e.Description,
		"image_url":   e.ImageURL,
		"ticket_url":  e.TicketURL,
		"source_url":  e.SourceURL,
		"confidence":  e.Confidence,
	}
}
