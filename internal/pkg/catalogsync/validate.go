package catalogsync

import (
	"context"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/roamline/roamline/app/models"
	"github.com/roamline/roamline/internal/pkg/roamify"
)

// ValidateMappings checks every curated row's reseller reference against the
// fetched catalog and repairs stale references by similarity matching. Rows
// are only ever rewritten, never deleted or deactivated; repairs run
// sequentially because each one is a write.
func (s *Service) ValidateMappings(ctx context.Context, entries []roamify.CatalogEntry) (*ValidationReport, error) {
	curated, err := s.curated.ListAll()
	if err != nil {
		return nil, err
	}

	validIDs := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.PackageID != "" {
			validIDs[e.PackageID] = struct{}{}
		}
	}

	report := &ValidationReport{Total: len(curated), Issues: []MappingIssue{}}

	for i := range curated {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		pkg := curated[i]

		ref := pkg.ResellerRef()
		if ref == "" {
			report.MissingResellerID++
			report.Issues = append(report.Issues, MappingIssue{
				ID:     pkg.ID,
				Name:   pkg.Name,
				Issue:  "missing_reseller_id",
				Action: ActionNeedsManualReview,
			})
			continue
		}

		if _, ok := validIDs[ref]; ok {
			report.Valid++
			continue
		}

		report.Invalid++
		replacement, score := FindReplacement(pkg, entries)
		if replacement == nil || score <= 0 {
			report.Issues = append(report.Issues, MappingIssue{
				ID:            pkg.ID,
				Name:          pkg.Name,
				Issue:         "invalid_reseller_id",
				Action:        ActionNoReplacementFound,
				OldResellerID: ref,
			})
			continue
		}

		if err := s.curated.UpdateResellerID(pkg.ID, replacement.PackageID); err != nil {
			report.Issues = append(report.Issues, MappingIssue{
				ID:            pkg.ID,
				Name:          pkg.Name,
				Issue:         "invalid_reseller_id",
				Action:        ActionFixFailed,
				OldResellerID: ref,
				Error:         err.Error(),
			})
			continue
		}

		report.Fixed++
		report.Issues = append(report.Issues, MappingIssue{
			ID:            pkg.ID,
			Name:          pkg.Name,
			Issue:         "invalid_reseller_id",
			Action:        ActionAutoFixed,
			OldResellerID: ref,
			NewResellerID: replacement.PackageID,
		})
		log.Printf("sync: repaired mapping %s -> %s", pkg.Name, replacement.PackageID)
	}

	report.HealthPercentage = healthPercentage(report.Valid, report.Total)
	return report, nil
}

func healthPercentage(valid, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(valid) / float64(total) * 100))
}

// FindReplacement searches the catalog for the best substitute for a curated
// row with a stale reseller reference. Candidates must have their country
// name contained in the curated row's name; they are then scored by data
// amount and validity closeness. A positive score is required; ties keep the
// first candidate in catalog order.
func FindReplacement(pkg models.MyPackage, entries []roamify.CatalogEntry) (*roamify.CatalogEntry, int) {
	name := strings.ToLower(pkg.Name)

	var best *roamify.CatalogEntry
	bestScore := 0

	for i := range entries {
		e := entries[i]
		if e.CountryName == "" || !strings.Contains(name, strings.ToLower(e.CountryName)) {
			continue
		}

		score := scoreReplacement(pkg, e)
		if score > bestScore {
			best = &entries[i]
			bestScore = score
		}
	}

	return best, bestScore
}

func scoreReplacement(pkg models.MyPackage, e roamify.CatalogEntry) int {
	score := 0

	if pkg.DataAmount != "" {
		if candidate, ok := FormatDataAmount(e.DataAmount, e.DataUnit, e.IsUnlimited); ok {
			if candidate == pkg.DataAmount {
				score += 3
			} else if n := strings.TrimRight(pkg.DataAmount, "GMB"); n != "" && strings.Contains(candidate, n) {
				score += 2
			}
		}
	}

	if pkg.Days > 0 {
		days := ParseValidityDaysLenient(e.Day, e.Validity)
		switch {
		case days == pkg.Days:
			score += 2
		case abs(days-pkg.Days) <= 7:
			score++
		}
	}

	return score
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// curatedCompletenessScore weighs the fields of a curated row. It differs
// from the catalog score because curated rows carry pricing and visibility
// fields of their own.
func curatedCompletenessScore(p models.MyPackage) int {
	score := 0
	if p.Name != "" {
		score += 2
	}
	if p.CountryName != "" {
		score += 2
	}
	if p.CountryCode != "" {
		score++
	}
	if p.DataAmount != "" {
		score += 2
	}
	if p.Days > 0 {
		score += 2
	}
	if p.BasePrice > 0 {
		score++
	}
	if p.SalePrice > 0 {
		score += 2
	}
	if p.ResellerRef() != "" {
		score += 2
	}
	if p.Region != "" {
		score++
	}
	return score
}

// DedupeCurated removes duplicate rows from the curated table: first rows
// sharing a reseller reference, then rows describing the same offer
// (country, data, days, price). ListAll returns rows newest-first, so equal
// scores keep the most recent row. Losing rows are deleted in batches.
func (s *Service) DedupeCurated(ctx context.Context) (*CuratedDedupeReport, error) {
	rows, err := s.curated.ListAll()
	if err != nil {
		return nil, err
	}

	report := &CuratedDedupeReport{Scanned: len(rows)}
	if len(rows) == 0 {
		return report, nil
	}

	var toDelete []string

	// Pass 1: duplicate reseller references.
	kept := make([]models.MyPackage, 0, len(rows))
	refPos := make(map[string]int)
	for _, pkg := range rows {
		ref := pkg.ResellerRef()
		if ref == "" {
			kept = append(kept, pkg)
			continue
		}
		pos, seen := refPos[ref]
		if !seen {
			refPos[ref] = len(kept)
			kept = append(kept, pkg)
			continue
		}
		report.ResellerIDDuplicates++
		if curatedCompletenessScore(pkg) > curatedCompletenessScore(kept[pos]) {
			toDelete = append(toDelete, kept[pos].ID)
			kept[pos] = pkg
		} else {
			toDelete = append(toDelete, pkg.ID)
		}
	}

	// Pass 2: duplicate offers.
	final := make([]models.MyPackage, 0, len(kept))
	seenKey := make(map[string]struct{})
	for _, pkg := range kept {
		price := pkg.SalePrice
		if price == 0 {
			price = pkg.BasePrice
		}
		key := strings.Join([]string{
			pkg.CountryName,
			pkg.DataAmount,
			intString(pkg.Days),
			floatString(price),
		}, "|")

		if _, dup := seenKey[key]; dup {
			report.CombinationDuplicates++
			toDelete = append(toDelete, pkg.ID)
			continue
		}
		seenKey[key] = struct{}{}
		final = append(final, pkg)
	}

	// Delete losers in chunks to keep IN clauses bounded.
	const deleteBatch = 100
	for i := 0; i < len(toDelete); i += deleteBatch {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		end := i + deleteBatch
		if end > len(toDelete) {
			end = len(toDelete)
		}
		if err := s.curated.DeleteByIDs(toDelete[i:end]); err != nil {
			return report, err
		}
		report.Removed += end - i
	}

	report.Remaining = len(final)
	log.Printf("sync: curated dedupe removed %d of %d rows (%d by reference, %d by combination)",
		report.Removed, report.Scanned, report.ResellerIDDuplicates, report.CombinationDuplicates)
	return report, nil
}

func intString(n int) string {
	return strconv.Itoa(n)
}

func floatString(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
