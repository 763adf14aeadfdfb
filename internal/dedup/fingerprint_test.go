package dedup

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Jazz Night", "jazz night"},
		{"strips punctuation", "Jazz Night!!!", "jazz night"},
		{"collapses whitespace", "jazz   night\t live", "jazz night live"},
		{"drops leading the", "The Earl", "earl"},
		{"drops leading a", "A Night Out", "night out"},
		{"drops leading an", "An Evening With", "evening with"},
		{"only first article dropped", "The The Band", "the band"},
		{"article mid-string kept", "Live at The Earl", "live at the earl"},
		{"empty input", "", ""},
		{"punctuation only", "?!,.", ""},
		{"keeps digits", "Trivia 2000", "trivia 2000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	h1 := Fingerprint("Jazz Night", "The Earl", "2026-03-14")
	h2 := Fingerprint("Jazz Night", "The Earl", "2026-03-14")

	if h1 != h2 {
		t.Errorf("same inputs should fingerprint identically: %s vs %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(h1))
	}
}

func TestFingerprint_NormalizationInvariance(t *testing.T) {
	base := Fingerprint("Jazz Night", "The Earl", "2026-03-14")

	variants := []struct {
		name  string
		title string
		venue string
	}{
		{"case", "JAZZ NIGHT", "the earl"},
		{"punctuation", "Jazz Night!", "The Earl."},
		{"whitespace", "  Jazz   Night ", "The  Earl"},
		{"leading article", "Jazz Night", "Earl"},
	}

	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			if got := Fingerprint(v.title, v.venue, "2026-03-14"); got != base {
				t.Errorf("%s variant should fingerprint identically", v.name)
			}
		})
	}
}

func TestFingerprint_DistinctInputsDiffer(t *testing.T) {
	base := Fingerprint("Jazz Night", "The Earl", "2026-03-14")

	if Fingerprint("Blues Night", "The Earl", "2026-03-14") == base {
		t.Error("different title should change the fingerprint")
	}
	if Fingerprint("Jazz Night", "The Drunken Unicorn", "2026-03-14") == base {
		t.Error("different venue should change the fingerprint")
	}
	if Fingerprint("Jazz Night", "The Earl", "2026-03-15") == base {
		t.Error("different date should change the fingerprint")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"The Earl", "earl"},
		{"Terminal West", "terminal-west"},
		{"529 Bar!", "529-bar"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
