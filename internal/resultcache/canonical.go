// internal/resultcache/canonical.go
package resultcache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"event-recommender/internal/models"
)

// KeyPrefix namespaces every result-cache key for observability.
const KeyPrefix = "evtrec:rank:"

// absentField is the sentinel hashed for absent/null criteria fields, so
// {"budget": null} and {} canonicalize identically.
const absentField = "-"

// CanonicalKey derives a deterministic cache key from the canonical form
// of the criteria. Two semantically equal criteria values yield the same
// key regardless of field order, numeric representation (int, float, or
// numeric string), surrounding whitespace, or preference-list order.
func CanonicalKey(criteria models.Criteria) string {
	var b strings.Builder

	// Event type participates case-sensitively in scoring, so only
	// whitespace is normalized.
	b.WriteString("type=")
	if t := criteria.TypeValue(); t != "" {
		b.WriteString(t)
	} else {
		b.WriteString(absentField)
	}

	b.WriteString("|budget=")
	if criteria.Budget != nil {
		b.WriteString(criteria.Budget.Canonical())
	} else {
		b.WriteString(absentField)
	}

	b.WriteString("|guests=")
	if criteria.Guests != nil {
		b.WriteString(criteria.Guests.Canonical())
	} else {
		b.WriteString(absentField)
	}

	// Theme and preferences are matched case-insensitively, so they fold
	// to lower case here.
	b.WriteString("|theme=")
	if th := criteria.ThemeValue(); th != "" {
		b.WriteString(strings.ToLower(th))
	} else {
		b.WriteString(absentField)
	}

	b.WriteString("|prefs=")
	prefs := make([]string, 0, len(criteria.Preferences))
	for _, p := range criteria.Preferences {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			prefs = append(prefs, p)
		}
	}
	if len(prefs) > 0 {
		sort.Strings(prefs)
		b.WriteString(strings.Join(prefs, ","))
	} else {
		b.WriteString(absentField)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return KeyPrefix + hex.EncodeToString(sum[:])
}
