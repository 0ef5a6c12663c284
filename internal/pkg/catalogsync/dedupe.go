package catalogsync

import (
	"strconv"
	"strings"

	"github.com/roamline/roamline/app/models"
)

// CompletenessScore measures how many expected fields a normalized catalog
// row has populated. The reseller ID is weighted highest because it is the
// join key back to the reseller system.
func CompletenessScore(p models.Package) int {
	score := 0
	if p.ResellerID != nil && *p.ResellerID != "" {
		score += 2
	}
	if p.Name != "" {
		score++
	}
	if p.Price > 0 {
		score++
	}
	if p.DataAmount != "" {
		score++
	}
	if p.Days > 0 {
		score++
	}
	if p.CountryName != "" {
		score++
	}
	if p.CountryCode != "" {
		score++
	}
	if !p.Features.IsZero() {
		score++
	}
	return score
}

// CombinationKey builds the semantic identity of a package: two rows with
// the same country, data amount, validity and price are the same offer even
// under different reseller IDs.
func CombinationKey(p models.Package) string {
	return strings.Join([]string{
		p.CountryName,
		p.DataAmount,
		strconv.Itoa(p.Days),
		strconv.FormatFloat(p.Price, 'f', -1, 64),
	}, "|")
}

// Dedupe removes duplicate catalog rows in two passes: first by reseller ID,
// then by combination key. Within a group the entry with the highest
// completeness score wins; on equal scores the first-seen entry is kept, so
// the result is deterministic for a given input order. Output order follows
// first occurrence in the input.
func Dedupe(pkgs []models.Package) []models.Package {
	// Pass 1: collapse duplicate reseller IDs. Entries without a reseller ID
	// cannot be deduplicated this way and pass through.
	byID := make([]models.Package, 0, len(pkgs))
	idPos := make(map[string]int)

	for _, p := range pkgs {
		if p.ResellerID == nil || *p.ResellerID == "" {
			byID = append(byID, p)
			continue
		}
		id := *p.ResellerID
		pos, seen := idPos[id]
		if !seen {
			idPos[id] = len(byID)
			byID = append(byID, p)
			continue
		}
		if CompletenessScore(p) > CompletenessScore(byID[pos]) {
			byID[pos] = p
		}
	}

	// Pass 2: collapse duplicate combinations. An entry carrying a reseller
	// ID beats one without, then completeness decides, then first-seen.
	out := make([]models.Package, 0, len(byID))
	keyPos := make(map[string]int)

	for _, p := range byID {
		key := CombinationKey(p)
		pos, seen := keyPos[key]
		if !seen {
			keyPos[key] = len(out)
			out = append(out, p)
			continue
		}
		if preferOver(p, out[pos]) {
			out[pos] = p
		}
	}

	return out
}

// preferOver reports whether candidate should replace incumbent inside one
// combination bucket.
func preferOver(candidate, incumbent models.Package) bool {
	candHasID := candidate.ResellerID != nil && *candidate.ResellerID != ""
	incHasID := incumbent.ResellerID != nil && *incumbent.ResellerID != ""
	if candHasID != incHasID {
		return candHasID
	}
	return CompletenessScore(candidate) > CompletenessScore(incumbent)
}
