package merge

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/dStensland/LostCity-sub008/internal/domain"
)

// fakeProvenance returns a fixed per-field tier map.
type fakeProvenance struct {
	tiers map[string]domain.Tier
	err   error
}

func (f *fakeProvenance) LatestFieldTier(_ context.Context, _, _, field string) (domain.Tier, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	t, ok := f.tiers[field]
	return t, ok, nil
}

func newTestEngine(prov ProvenanceReader) *Engine {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewEngine(domain.DefaultLadder(), EventStrategies(), prov, logger)
}

func TestMerge_EmptyProposalsDropped(t *testing.T) {
	e := newTestEngine(&fakeProvenance{})
	ctx := context.Background()

	applied, err := e.Merge(ctx, domain.EntityEvent, "evt-1",
		map[string]any{"description": "existing text"},
		map[string]any{"description": "", "category": "", "tags": []string{}},
		domain.TierManual)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("empty proposals must never apply, got %v", applied)
	}
}

func TestMerge_HigherRecordedTierBlocks(t *testing.T) {
	prov := &fakeProvenance{tiers: map[string]domain.Tier{
		"description": domain.TierManual,
	}}
	e := newTestEngine(prov)
	ctx := context.Background()

	applied, err := e.Merge(ctx, domain.EntityEvent, "evt-1",
		map[string]any{"description": "curated by hand"},
		map[string]any{"description": "autogenerated description that is much longer"},
		domain.TierAutomatedCrawl)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if _, ok := applied["description"]; ok {
		t.Error("manual provenance must block an automated_crawl write")
	}
}

func TestMerge_EqualOrLowerRecordedTierYields(t *testing.T) {
	tests := []struct {
		name     string
		recorded domain.Tier
		incoming domain.Tier
	}{
		{"equal tier", domain.TierPlacesAPI, domain.TierPlacesAPI},
		{"lower tier", domain.TierAutomatedCrawl, domain.TierManual},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prov := &fakeProvenance{tiers: map[string]domain.Tier{"category": tt.recorded}}
			e := newTestEngine(prov)

			applied, err := e.Merge(context.Background(), domain.EntityEvent, "evt-1",
				map[string]any{"category": "music"},
				map[string]any{"category": "live-music"},
				tt.incoming)
			if err != nil {
				t.Fatalf("merge failed: %v", err)
			}
			if applied["category"] != "live-music" {
				t.Errorf("recorded %s should yield to incoming %s, applied=%v",
					tt.recorded, tt.incoming, applied)
			}
		})
	}
}

func TestMerge_PriorityMonotonicity(t *testing.T) {
	// Every strictly-higher recorded tier blocks every lower incoming tier.
	ladder := domain.DefaultLadder()
	for i, recorded := range ladder {
		for j, incoming := range ladder {
			prov := &fakeProvenance{tiers: map[string]domain.Tier{"category": recorded}}
			e := newTestEngine(prov)

			applied, err := e.Merge(context.Background(), domain.EntityEvent, "evt-1",
				map[string]any{"category": "music"},
				map[string]any{"category": "comedy"},
				incoming)
			if err != nil {
				t.Fatalf("merge failed: %v", err)
			}

			_, wrote := applied["category"]
			if i > j && wrote {
				t.Errorf("recorded %s should block incoming %s", recorded, incoming)
			}
			if i <= j && !wrote {
				t.Errorf("recorded %s should yield to incoming %s", recorded, incoming)
			}
		}
	}
}

// A row whose every populated field carries provenance from its first writer
// must shrug off a lower-tier rescrape entirely, even when the strategy table
// would otherwise favor the incoming values.
func TestMerge_FreshlyIngestedRowResistsLowerTier(t *testing.T) {
	insertTier := domain.TierPlacesAPI
	prov := &fakeProvenance{tiers: map[string]domain.Tier{
		"title":       insertTier,
		"description": insertTier,
		"category":    insertTier,
		"tags":        insertTier,
	}}
	e := newTestEngine(prov)
	ctx := context.Background()

	existing := map[string]any{
		"title":       "Jazz Night",
		"description": "A curated evening of live jazz.",
		"category":    "music",
		"tags":        []string{"jazz", "live"},
	}
	proposal := map[string]any{
		"title":       "jazz   night!",
		"description": "jazz jazz jazz jazz jazz jazz jazz jazz",
		"category":    "events",
		"tags":        []string{"stuff"},
	}

	applied, err := e.Merge(ctx, domain.EntityEvent, "evt-1", existing, proposal, domain.TierAutomatedCrawl)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("lower-tier candidate must not touch a higher-tier row, applied %v", applied)
	}
}

func TestMerge_StrategyFillIfEmpty(t *testing.T) {
	e := newTestEngine(&fakeProvenance{})
	ctx := context.Background()

	// Empty existing: fills
	applied, err := e.Merge(ctx, domain.EntityEvent, "evt-1",
		map[string]any{"category": ""},
		map[string]any{"category": "music"},
		domain.TierAutomatedCrawl)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if applied["category"] != "music" {
		t.Errorf("empty field should fill, applied=%v", applied)
	}

	// Populated existing: keeps
	applied, err = e.Merge(ctx, domain.EntityEvent, "evt-1",
		map[string]any{"category": "music"},
		map[string]any{"category": "comedy"},
		domain.TierAutomatedCrawl)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if _, ok := applied["category"]; ok {
		t.Error("fill-if-empty must not overwrite a populated field")
	}
}

func TestMerge_StrategyPreferLonger(t *testing.T) {
	e := newTestEngine(&fakeProvenance{})
	ctx := context.Background()

	applied, err := e.Merge(ctx, domain.EntityEvent, "evt-1",
		map[string]any{"description": "short"},
		map[string]any{"description": "a considerably longer description"},
		domain.TierAutomatedCrawl)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if applied["description"] != "a considerably longer description" {
		t.Errorf("longer description should win, applied=%v", applied)
	}

	applied, err = e.Merge(ctx, domain.EntityEvent, "evt-1",
		map[string]any{"description": "the existing longer description"},
		map[string]any{"description": "short"},
		domain.TierAutomatedCrawl)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if _, ok := applied["description"]; ok {
		t.Error("shorter description must not replace a longer one")
	}
}

func TestMerge_StrategyUnion(t *testing.T) {
	e := newTestEngine(&fakeProvenance{})
	ctx := context.Background()

	applied, err := e.Merge(ctx, domain.EntityEvent, "evt-1",
		map[string]any{"tags": []string{"jazz", "live"}},
		map[string]any{"tags": []string{"live", "free"}},
		domain.TierAutomatedCrawl)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	tags, ok := applied["tags"].([]string)
	if !ok {
		t.Fatalf("expected []string tags, got %T", applied["tags"])
	}
	want := []string{"jazz", "live", "free"}
	if len(tags) != len(want) {
		t.Fatalf("expected %v, got %v", want, tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("union should keep existing order then append: expected %v, got %v", want, tags)
			break
		}
	}

	// Subset proposal adds nothing
	applied, err = e.Merge(ctx, domain.EntityEvent, "evt-1",
		map[string]any{"tags": []string{"jazz", "live"}},
		map[string]any{"tags": []string{"jazz"}},
		domain.TierAutomatedCrawl)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if _, ok := applied["tags"]; ok {
		t.Error("a subset of existing tags should be a no-op")
	}
}

func TestMerge_StrategyPreferLower(t *testing.T) {
	e := newTestEngine(&fakeProvenance{})
	ctx := context.Background()

	applied, err := e.Merge(ctx, domain.EntityEvent, "evt-1",
		map[string]any{"confidence": 0.9},
		map[string]any{"confidence": 0.6},
		domain.TierAutomatedCrawl)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if applied["confidence"] != 0.6 {
		t.Errorf("lower confidence should win, applied=%v", applied)
	}

	applied, err = e.Merge(ctx, domain.EntityEvent, "evt-1",
		map[string]any{"confidence": 0.6},
		map[string]any{"confidence": 0.9},
		domain.TierAutomatedCrawl)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if _, ok := applied["confidence"]; ok {
		t.Error("higher confidence must not replace a lower one")
	}
}

func TestMerge_ReapplyIsIdempotent(t *testing.T) {
	e := newTestEngine(&fakeProvenance{})
	ctx := context.Background()

	existing := map[string]any{"category": ""}
	proposed := map[string]any{"category": "music"}

	first, err := e.Merge(ctx, domain.EntityEvent, "evt-1", existing, proposed, domain.TierPlacesAPI)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if first["category"] != "music" {
		t.Fatalf("first apply should write, got %v", first)
	}

	// Simulate the write landing, then re-apply the same proposal
	existing["category"] = "music"
	second, err := e.Merge(ctx, domain.EntityEvent, "evt-1", existing, proposed, domain.TierPlacesAPI)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("re-applying an identical proposal should be a no-op, got %v", second)
	}
}

func TestMerge_ProvenanceErrorPropagates(t *testing.T) {
	e := newTestEngine(&fakeProvenance{err: errors.New("connection refused")})

	_, err := e.Merge(context.Background(), domain.EntityEvent, "evt-1",
		map[string]any{"category": "music"},
		map[string]any{"category": "comedy"},
		domain.TierManual)
	if err == nil {
		t.Fatal("provenance read errors must propagate")
	}
}

// Mixed-outcome merge: one field blocked by provenance, one applied through
// its strategy, one dropped as an unchanged duplicate.
func TestMerge_MixedOutcome(t *testing.T) {
	prov := &fakeProvenance{tiers: map[string]domain.Tier{
		"title": domain.TierManual,
	}}
	e := newTestEngine(prov)

	applied, err := e.Merge(context.Background(), domain.EntityEvent, "evt-1",
		map[string]any{
			"title":    "Jazz Night (Curated)",
			"category": "",
			"tags":     []string{"jazz"},
		},
		map[string]any{
			"title":    "Jazz Night at The Earl full billing",
			"category": "music",
			"tags":     []string{"jazz"},
		},
		domain.TierScrapedHeuristics)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	if _, ok := applied["title"]; ok {
		t.Error("title should be blocked by manual provenance")
	}
	if applied["category"] != "music" {
		t.Errorf("category should fill, applied=%v", applied)
	}
	if _, ok := applied["tags"]; ok {
		t.Error("identical tags should be dropped")
	}
}
