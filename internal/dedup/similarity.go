package dedup

// Default composite weights and near-duplicate cutoff. The split is tunable
// configuration, not contract: date equality is a hard gate, so its weight
// only tops up the score for rows that already share a date.
const (
	DefaultTitleWeight = 70.0
	DefaultVenueWeight = 20.0
	DefaultDateWeight  = 10.0
	DefaultCutoff      = 85.0
)

// Scorer computes a bounded [0,100] similarity between a candidate and a
// stored row scoped to the same venue and date. Cross-date comparisons are
// excluded by construction so distinct recurring-series instances never merge.
type Scorer struct {
	TitleWeight float64
	VenueWeight float64
	DateWeight  float64
	Cutoff      float64
}

func NewScorer() *Scorer {
	return &Scorer{
		TitleWeight: DefaultTitleWeight,
		VenueWeight: DefaultVenueWeight,
		DateWeight:  DefaultDateWeight,
		Cutoff:      DefaultCutoff,
	}
}

// Score compares a candidate (title, venue, date) against a stored row.
// Unequal dates force a score of 0 regardless of title similarity.
func (s *Scorer) Score(candTitle, candVenue, candDate, rowTitle, rowVenue, rowDate string) float64 {
	if candDate != rowDate {
		return 0
	}

	titleRatio := similarityRatio(Normalize(candTitle), Normalize(rowTitle))
	venueRatio := similarityRatio(Normalize(candVenue), Normalize(rowVenue))

	return titleRatio*s.TitleWeight + venueRatio*s.VenueWeight + s.DateWeight
}

// NearDuplicate reports whether a score clears the configured cutoff.
func (s *Scorer) NearDuplicate(score float64) bool {
	return score >= s.Cutoff
}

// similarityRatio is 1 - dist/maxLen over normalized inputs, with maxLen in
// runes to match the rune-based edit distance. Two empty strings are
// identical by definition.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// levenshtein computes the edit distance between two strings with the
// two-row dynamic programming form.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[lb]
}

func minInt(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
