package models

import "time"

// MyPackage is an operator-curated, customer-facing package. Each row carries
// a soft reference to a reseller package (ResellerID or Features.PackageID)
// that must resolve to a live catalog entry for checkout to succeed. The sync
// pipeline repairs stale references but never deletes curated rows.
type MyPackage struct {
	ID             string          `gorm:"type:char(36);primaryKey" json:"id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	Description    string          `gorm:"type:text" json:"description"`
	CountryName    string          `gorm:"type:varchar(100);index" json:"country_name"`
	CountryCode    string          `gorm:"type:char(2);index" json:"country_code"`
	Region         string          `gorm:"type:varchar(100)" json:"region"`
	DataAmount     string          `gorm:"type:varchar(32)" json:"data_amount"`
	Days           int             `json:"days"`
	BasePrice      float64         `gorm:"type:decimal(10,2)" json:"base_price"`
	SalePrice      float64         `gorm:"type:decimal(10,2)" json:"sale_price"`
	LocationSlug   string          `gorm:"type:varchar(191);index" json:"location_slug"`
	Features       PackageFeatures `gorm:"type:json" json:"features"`
	ResellerID     *string         `gorm:"type:varchar(191);index" json:"reseller_id"`
	IsActive       bool            `gorm:"default:true;index" json:"is_active"`
	Visible        bool            `gorm:"default:true" json:"visible"`
	ShowOnFrontend bool            `gorm:"default:true" json:"show_on_frontend"`
	ViewCount      int64           `gorm:"default:0" json:"view_count"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// ResellerRef returns the reseller package reference for this curated row,
// preferring the dedicated column over the feature blob.
func (p *MyPackage) ResellerRef() string {
	if p.ResellerID != nil && *p.ResellerID != "" {
		return *p.ResellerID
	}
	return p.Features.PackageID
}
