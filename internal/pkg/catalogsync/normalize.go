package catalogsync

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/roamline/roamline/app/models"
	"github.com/roamline/roamline/internal/pkg/roamify"
)

// Drop reasons reported by Normalize. An empty reason means the entry was
// accepted.
const (
	DropMissingName    = "missing_name"
	DropMissingPrice   = "missing_price"
	DropMissingCountry = "missing_country"
	DropBadCountryCode = "invalid_country_code"
	DropBadValidity    = "unparseable_validity"
	DropBadDataAmount  = "unparseable_data_amount"
)

var leadingNumber = regexp.MustCompile(`(\d+)`)

// ParseValidityDays extracts a positive day count from the heterogeneous
// validity representations the reseller uses (a numeric day field or free
// text like "30 days"). ok is false when nothing parseable is present; the
// sync path drops such records instead of guessing an expiry.
func ParseValidityDays(day int, validity string) (int, bool) {
	if day > 0 {
		return day, true
	}
	if m := leadingNumber.FindString(validity); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// ParseValidityDaysLenient is the display-path variant: it falls back to 30
// days when the validity cannot be parsed. Never use it where the value
// feeds a paid product's expiry.
func ParseValidityDaysLenient(day int, validity string) int {
	if n, ok := ParseValidityDays(day, validity); ok {
		return n
	}
	return 30
}

// FormatDataAmount renders the canonical data string: "Unlimited", "<N>GB"
// (MB amounts of 1 GB or more are rounded), or "<N>MB" for sub-GB amounts.
// ok is false when no amount is available.
func FormatDataAmount(amount float64, unit string, unlimited bool) (string, bool) {
	if unlimited {
		return "Unlimited", true
	}
	if amount <= 0 {
		return "", false
	}
	switch strings.ToUpper(strings.TrimSpace(unit)) {
	case "MB":
		if amount >= 1024 {
			return fmt.Sprintf("%dGB", int(math.Round(amount/1024))), true
		}
		return formatAmount(amount) + "MB", true
	case "GB", "":
		return formatAmount(amount) + "GB", true
	default:
		return formatAmount(amount) + strings.ToUpper(strings.TrimSpace(unit)), true
	}
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// NormalizeCountryCode upper-cases and validates a 2-letter ISO code.
func NormalizeCountryCode(code string) (string, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != 2 {
		return "", false
	}
	for i := 0; i < len(c); i++ {
		if c[i] < 'A' || c[i] > 'Z' {
			return "", false
		}
	}
	return c, true
}

// DeterministicUUID derives a stable UUID-v4-shaped identifier from a
// reseller package ID, so re-syncing the same catalog yields the same row
// IDs. The layout (md5 with forced version and variant nibbles) must stay
// stable across releases or re-syncs would duplicate every row.
func DeterministicUUID(resellerID string) string {
	sum := md5.Sum([]byte(resellerID))
	h := hex.EncodeToString(sum[:])

	variant, _ := strconv.ParseUint(h[16:17], 16, 8)
	variantNibble := strconv.FormatUint((variant&0x3)|0x8, 16)

	return strings.Join([]string{
		h[0:8],
		h[8:12],
		"4" + h[13:16],
		variantNibble + h[17:20],
		h[20:32],
	}, "-")
}

// Normalize maps one flattened reseller entry into the canonical catalog
// row. The returned reason is non-empty when the entry must be dropped
// because a mandatory field is unrecoverable.
func Normalize(e roamify.CatalogEntry) (*models.Package, string) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return nil, DropMissingName
	}
	if e.Price <= 0 {
		return nil, DropMissingPrice
	}
	if strings.TrimSpace(e.CountryName) == "" {
		return nil, DropMissingCountry
	}
	countryCode, ok := NormalizeCountryCode(e.CountryCode)
	if !ok {
		return nil, DropBadCountryCode
	}
	days, ok := ParseValidityDays(e.Day, e.Validity)
	if !ok {
		return nil, DropBadValidity
	}
	dataAmount, ok := FormatDataAmount(e.DataAmount, e.DataUnit, e.IsUnlimited)
	if !ok {
		return nil, DropBadDataAmount
	}

	id := uuid.NewString()
	var resellerID *string
	if pid := strings.TrimSpace(e.PackageID); pid != "" {
		id = DeterministicUUID(pid)
		resellerID = &pid
	}

	return &models.Package{
		ID:          id,
		Name:        name,
		Description: fmt.Sprintf("%s for %d days in %s", dataAmount, days, e.CountryName),
		CountryName: strings.TrimSpace(e.CountryName),
		CountryCode: countryCode,
		DataAmount:  dataAmount,
		Days:        days,
		Price:       e.Price,
		Operator:    "Roamify",
		Features: models.PackageFeatures{
			PackageID:       e.PackageID,
			Plan:            e.Plan,
			Activation:      e.Activation,
			DataAmount:      e.DataAmount,
			DataUnit:        e.DataUnit,
			IsUnlimited:     e.IsUnlimited,
			WithSMS:         e.WithSMS,
			WithCall:        e.WithCall,
			WithHotspot:     e.WithHotspot,
			WithDataRoaming: e.WithDataRoaming,
			Region:          e.Region,
			Geography:       e.Geography,
			CountrySlug:     e.CountrySlug,
			Notes:           e.Notes,
		},
		IsActive:   true,
		ResellerID: resellerID,
	}, ""
}
