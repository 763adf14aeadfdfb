package merge

import (
	"github.com/dStensland/LostCity-sub008/internal/domain"
)

// Strategy decides how a proposed value combines with an existing one when
// no higher-trust provenance blocks the write. The rule set is data, not
// inline branching, so it is independently testable and auditable.
type Strategy int

const (
	// FillIfEmpty applies the proposal only when the existing value is empty.
	FillIfEmpty Strategy = iota
	// PreferLonger fills an empty value, otherwise keeps the longer string.
	PreferLonger
	// Union merges string sets, keeping existing order and deduplicating.
	Union
	// PreferLower keeps the lower (more conservative) of two numbers.
	PreferLower
)

// EventStrategies is the per-field rule table for event rows.
func EventStrategies() map[string]Strategy {
	return map[string]Strategy{
		"title":       PreferLonger,
		"description": PreferLonger,
		"start_time":  FillIfEmpty,
		"end_time":    FillIfEmpty,
		"category":    FillIfEmpty,
		"tags":        Union,
		"price_min":   FillIfEmpty,
		"price_max":   FillIfEmpty,
		"image_url":   FillIfEmpty,
		"ticket_url":  FillIfEmpty,
		"source_url":  FillIfEmpty,
		"confidence":  PreferLower,
	}
}

// VenueStrategies is the per-field rule table for venue rows.
func VenueStrategies() map[string]Strategy {
	return map[string]Strategy{
		"name":        PreferLonger,
		"address":     PreferLonger,
		"latitude":    FillIfEmpty,
		"longitude":   FillIfEmpty,
		"venue_type":  FillIfEmpty,
		"website":     FillIfEmpty,
		"description": PreferLonger,
		"image_url":   FillIfEmpty,
	}
}

// apply evaluates one strategy. It returns the value to write and whether
// anything should be written at all.
func apply(s Strategy, existing, proposed any) (any, bool) {
	switch s {
	case PreferLonger:
		if domain.IsEmptyField(existing) {
			return proposed, true
		}
		ex, okE := existing.(string)
		pr, okP := proposed.(string)
		if okE && okP && len(pr) > len(ex) {
			return proposed, true
		}
		return nil, false

	case Union:
		ex := toStringSlice(existing)
		pr := toStringSlice(proposed)
		merged, grew := unionStrings(ex, pr)
		if !grew {
			return nil, false
		}
		return merged, true

	case PreferLower:
		if domain.IsEmptyField(existing) {
			return proposed, true
		}
		ex, okE := toFloat(existing)
		pr, okP := toFloat(proposed)
		if okE && okP && pr < ex {
			return proposed, true
		}
		return nil, false

	default: // FillIfEmpty
		if domain.IsEmptyField(existing) {
			return proposed, true
		}
		return nil, false
	}
}

func toStringSlice(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// unionStrings appends the members of add missing from base. The second
// return reports whether the union is larger than base.
func unionStrings(base, add []string) ([]string, bool) {
	seen := make(map[string]struct{}, len(base))
	merged := make([]string, 0, len(base)+len(add))
	for _, s := range base {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		merged = append(merged, s)
	}
	grew := false
	for _, s := range add {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		merged = append(merged, s)
		grew = true
	}
	return merged, grew
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case *float64:
		if val == nil {
			return 0, false
		}
		return *val, true
	case int:
		return float64(val), true
	default:
		return 0, false
	}
}
