package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// PackageFeatures carries reseller-specific capability flags and metadata that
// has no dedicated column. Stored as a JSON blob.
type PackageFeatures struct {
	PackageID       string   `json:"packageId,omitempty"`
	Plan            string   `json:"plan,omitempty"`
	Activation      string   `json:"activation,omitempty"`
	DataAmount      float64  `json:"dataAmount,omitempty"`
	DataUnit        string   `json:"dataUnit,omitempty"`
	IsUnlimited     bool     `json:"isUnlimited"`
	WithSMS         bool     `json:"withSMS"`
	WithCall        bool     `json:"withCall"`
	WithHotspot     bool     `json:"withHotspot"`
	WithDataRoaming bool     `json:"withDataRoaming"`
	Region          string   `json:"region,omitempty"`
	Geography       string   `json:"geography,omitempty"`
	CountrySlug     string   `json:"countrySlug,omitempty"`
	Notes           []string `json:"notes,omitempty"`
}

// Value implements driver.Valuer so GORM can persist the feature blob.
func (f PackageFeatures) Value() (driver.Value, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for reading the feature blob back.
func (f *PackageFeatures) Scan(value interface{}) error {
	if value == nil {
		*f = PackageFeatures{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return errors.New("unsupported type for PackageFeatures")
	}
}

// IsZero reports whether no feature information is present.
func (f PackageFeatures) IsZero() bool {
	return f.PackageID == "" && f.Plan == "" && f.DataAmount == 0 && f.DataUnit == "" &&
		!f.IsUnlimited && f.Region == "" && f.Geography == "" && len(f.Notes) == 0
}

// Package is one row of the locally mirrored reseller catalog. Rows are
// replaced or upserted wholesale on every sync run.
type Package struct {
	ID          string          `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	CountryName string          `gorm:"type:varchar(100);not null;index" json:"country_name"`
	CountryCode string          `gorm:"type:char(2);not null;index" json:"country_code"`
	DataAmount  string          `gorm:"type:varchar(32);not null" json:"data_amount"`
	Days        int             `gorm:"not null" json:"days"`
	Price       float64         `gorm:"type:decimal(10,2);not null" json:"price"`
	Operator    string          `gorm:"type:varchar(50);default:'Roamify'" json:"operator"`
	Features    PackageFeatures `gorm:"type:json" json:"features"`
	IsActive    bool            `gorm:"default:true;index" json:"is_active"`
	ResellerID  *string         `gorm:"type:varchar(191);uniqueIndex" json:"reseller_id"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// ResellerRef returns the reseller package ID, preferring the column and
// falling back to the feature blob.
func (p *Package) ResellerRef() string {
	if p.ResellerID != nil && *p.ResellerID != "" {
		return *p.ResellerID
	}
	return p.Features.PackageID
}
