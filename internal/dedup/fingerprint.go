package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/dStensland/LostCity-sub008/internal/domain"
)

var leadingArticles = map[string]struct{}{
	"the": {},
	"a":   {},
	"an":  {},
}

// Normalize produces the canonical form of a title or venue name used for
// fingerprinting and similarity: lowercased, punctuation dropped, whitespace
// collapsed, and a single leading article removed. Empty input normalizes to
// the empty string, which is a valid degenerate case.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	words := strings.Fields(b.String())
	if len(words) > 0 {
		if _, ok := leadingArticles[words[0]]; ok {
			words = words[1:]
		}
	}
	return strings.Join(words, " ")
}

// Fingerprint computes the deterministic content hash identifying one logical
// event occurrence. Variants of title or venue differing only by case,
// spacing, punctuation or a leading article fingerprint identically.
func Fingerprint(title, venueName, isoDate string) string {
	key := Normalize(title) + "|" + Normalize(venueName) + "|" + strings.TrimSpace(isoDate)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// DraftFingerprint hashes a candidate draft.
func DraftFingerprint(d *domain.EventDraft) string {
	return Fingerprint(d.Title, d.VenueName, d.EventDate)
}

// Slugify derives the canonical venue slug from a display name. Built on the
// same normalization as fingerprints so "The Earl" and "earl" share a slug.
func Slugify(name string) string {
	return strings.ReplaceAll(Normalize(name), " ", "-")
}
