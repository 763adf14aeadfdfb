package domain

// Tier ranks how much we trust the origin of a field value. The zero value
// is treated as the lowest tier.
type Tier string

const (
	TierAutomatedCrawl    Tier = "automated_crawl"
	TierScrapedHeuristics Tier = "scraped_heuristics"
	TierPlacesAPI         Tier = "places_api"
	TierAgentCurated      Tier = "agent_curated"
	TierManual            Tier = "manual"
)

// Ladder is an ordered list of tiers, lowest trust first. It is passed
// explicitly to the merge engine so tests can substitute alternate orderings.
type Ladder []Tier

// DefaultLadder returns the production trust ordering.
func DefaultLadder() Ladder {
	return Ladder{
		TierAutomatedCrawl,
		TierScrapedHeuristics,
		TierPlacesAPI,
		TierAgentCurated,
		TierManual,
	}
}

// Rank returns the position of t in the ladder, or -1 if unknown.
// Unknown tiers rank below everything, so a typo can never clobber data.
func (l Ladder) Rank(t Tier) int {
	for i, candidate := range l {
		if candidate == t {
			return i
		}
	}
	return -1
}

// Outranks reports whether a is strictly more trusted than b.
func (l Ladder) Outranks(a, b Tier) bool {
	return l.Rank(a) > l.Rank(b)
}

// KnownTier reports whether t is part of the default ladder.
func KnownTier(t Tier) bool {
	return DefaultLadder().Rank(t) >= 0
}
