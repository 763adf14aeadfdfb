package domain

import "time"

// Source kinds. The kind implies a default trust tier; it is not stored as one.
const (
	SourceKindCrawler = "crawler"
	SourceKindScraper = "scraper"
	SourceKindAPI     = "api"
	SourceKindManual  = "manual"
)

type Source struct {
	ID                 string    `json:"id"`
	Slug               string    `json:"slug"`
	Name               string    `json:"name"`
	Kind               string    `json:"kind"`
	IsActive           bool      `json:"is_active"`
	RateLimitPerSecond int       `json:"rate_limit_per_second"`
	CreatedAt          time.Time `json:"created_at"`
}

// DefaultTier maps a source's kind to the tier its writes carry when the
// adapter does not declare one itself.
func (s *Source) DefaultTier() Tier {
	switch s.Kind {
	case SourceKindManual:
		return TierManual
	case SourceKindAPI:
		return TierPlacesAPI
	case SourceKindScraper:
		return TierScrapedHeuristics
	default:
		return TierAutomatedCrawl
	}
}
