package domain

import (
	"time"
)

type Venue struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Address      string    `json:"address,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	VenueType    string    `json:"venue_type,omitempty"`
	Website      string    `json:"website,omitempty"`
	Description  string    `json:"description,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	QualityScore int       `json:"quality_score"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fields returns the venue's mergeable fields keyed by column name. The keys
// double as the field names recorded in the enrichment log, so merge decisions
// and provenance lookups speak the same vocabulary.
func (v *Venue) Fields() map[string]any {
	return map[string]any{
		"name":        v.Name,
		"address":     v.Address,
		"latitude":    v.Latitude,
		"longitude":   v.Longitude,
		"venue_type":  v.VenueType,
		"website":     v.Website,
		"description": v.Description,
		"image_url":   v.ImageURL,
	}
}

type CreateVenueRequest struct {
	Name      string   `json:"name"`
	Slug      string   `json:"slug"`
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	VenueType string   `json:"venue_type,omitempty"`
	Website   string   `json:"website,omitempty"`
}
