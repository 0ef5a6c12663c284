package catalogsync

import (
	"testing"

	"github.com/roamline/roamline/app/models"
)

func strptr(s string) *string { return &s }

func fullPackage(resellerID, name string) models.Package {
	return models.Package{
		ID:          DeterministicUUID(resellerID),
		Name:        name,
		CountryName: "Germany",
		CountryCode: "DE",
		DataAmount:  "1GB",
		Days:        30,
		Price:       4.5,
		Features:    models.PackageFeatures{PackageID: resellerID},
		ResellerID:  strptr(resellerID),
	}
}

func TestCompletenessScore(t *testing.T) {
	full := fullPackage("pkg-1", "Germany 1GB")
	if got := CompletenessScore(full); got != 9 {
		t.Fatalf("score of fully populated package = %d, want 9", got)
	}

	sparse := models.Package{Name: "Germany 1GB"}
	if got := CompletenessScore(sparse); got != 1 {
		t.Fatalf("score of name-only package = %d, want 1", got)
	}

	noID := full
	noID.ResellerID = nil
	if got := CompletenessScore(noID); got != 7 {
		t.Fatalf("score without reseller ID = %d, want 7", got)
	}
}

func TestDedupeByResellerIDKeepsMostComplete(t *testing.T) {
	sparse := models.Package{
		Name:       "Germany",
		ResellerID: strptr("pkg-1"),
		Price:      4.5,
	}
	full := fullPackage("pkg-1", "Germany 1GB 30 Days")

	out := Dedupe([]models.Package{sparse, full})
	if len(out) != 1 {
		t.Fatalf("got %d packages, want 1", len(out))
	}
	if out[0].Name != full.Name {
		t.Fatalf("kept %q, want the more complete %q", out[0].Name, full.Name)
	}
}

func TestDedupeEqualScoresKeepFirstSeen(t *testing.T) {
	a := fullPackage("pkg-1", "First")
	b := fullPackage("pkg-1", "Second")

	out := Dedupe([]models.Package{a, b})
	if len(out) != 1 || out[0].Name != "First" {
		t.Fatalf("tie did not keep the first-seen entry: %+v", out)
	}

	// Determinism: same input, same output, every time.
	for i := 0; i < 10; i++ {
		again := Dedupe([]models.Package{a, b})
		if len(again) != 1 || again[0].Name != out[0].Name {
			t.Fatalf("run %d produced a different result: %+v", i, again)
		}
	}
}

func TestDedupeByCombinationPrefersResellerID(t *testing.T) {
	withoutID := fullPackage("", "No reference")
	withoutID.ResellerID = nil
	withoutID.ID = "local-1"
	withID := fullPackage("pkg-2", "With reference")

	out := Dedupe([]models.Package{withoutID, withID})
	if len(out) != 1 {
		t.Fatalf("got %d packages, want 1", len(out))
	}
	if out[0].ResellerID == nil {
		t.Fatalf("combination dedupe kept the entry without a reseller ID")
	}
}

func TestDedupeDistinctOffersSurvive(t *testing.T) {
	de := fullPackage("pkg-de", "Germany")
	fr := fullPackage("pkg-fr", "France")
	fr.CountryName = "France"
	fr.CountryCode = "FR"
	bigger := fullPackage("pkg-de-5", "Germany 5GB")
	bigger.DataAmount = "5GB"

	out := Dedupe([]models.Package{de, fr, bigger})
	if len(out) != 3 {
		t.Fatalf("got %d packages, want 3: %+v", len(out), out)
	}
	// Output order follows first occurrence.
	if out[0].Name != "Germany" || out[1].Name != "France" || out[2].Name != "Germany 5GB" {
		t.Fatalf("input order not preserved: %v, %v, %v", out[0].Name, out[1].Name, out[2].Name)
	}
}

func TestDedupeEmptyInput(t *testing.T) {
	if out := Dedupe(nil); len(out) != 0 {
		t.Fatalf("dedupe of nil input returned %d entries", len(out))
	}
}

func TestCombinationKey(t *testing.T) {
	p := fullPackage("pkg-1", "Germany")
	if got, want := CombinationKey(p), "Germany|1GB|30|4.5"; got != want {
		t.Fatalf("CombinationKey = %q, want %q", got, want)
	}
}
