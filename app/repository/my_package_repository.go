package repository

import (
	"time"

	"github.com/roamline/roamline/app/models"
	"gorm.io/gorm"
)

// myPackageRepository implements the MyPackageRepository interface
type myPackageRepository struct {
	db *gorm.DB
}

// NewMyPackageRepository creates a new curated package repository instance
func NewMyPackageRepository(db *gorm.DB) MyPackageRepository {
	return &myPackageRepository{db: db}
}

// Create inserts a new curated package
func (r *myPackageRepository) Create(pkg *models.MyPackage) error {
	return r.db.Create(pkg).Error
}

// GetByID retrieves a curated package by its ID
func (r *myPackageRepository) GetByID(id string) (*models.MyPackage, error) {
	var pkg models.MyPackage
	err := r.db.Where("id = ?", id).First(&pkg).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ListAll retrieves every curated package, newest first. Dedup tie-breaks
// rely on this ordering to keep the most recent row.
func (r *myPackageRepository) ListAll() ([]models.MyPackage, error) {
	var pkgs []models.MyPackage
	err := r.db.Order("created_at DESC").Find(&pkgs).Error
	return pkgs, err
}

// ListVisible retrieves customer-facing curated packages with pagination
func (r *myPackageRepository) ListVisible(offset, limit int) ([]models.MyPackage, error) {
	var pkgs []models.MyPackage
	err := r.db.Where("is_active = ? AND visible = ? AND show_on_frontend = ?", true, true, true).
		Order("country_name ASC, sale_price ASC").
		Offset(offset).Limit(limit).Find(&pkgs).Error
	return pkgs, err
}

// ListMissingResellerID retrieves curated packages with no reseller reference
// at all, for the manual review queue
func (r *myPackageRepository) ListMissingResellerID() ([]models.MyPackage, error) {
	var pkgs []models.MyPackage
	err := r.db.Where("reseller_id IS NULL OR reseller_id = ''").
		Order("created_at DESC").Find(&pkgs).Error
	return pkgs, err
}

// Update saves an existing curated package
func (r *myPackageRepository) Update(pkg *models.MyPackage) error {
	return r.db.Save(pkg).Error
}

// UpdateResellerID repoints a curated package at a different reseller package
func (r *myPackageRepository) UpdateResellerID(id, resellerID string) error {
	return r.db.Model(&models.MyPackage{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"reseller_id": resellerID,
			"updated_at":  time.Now(),
		}).Error
}

// DeleteByIDs removes the given curated packages
func (r *myPackageRepository) DeleteByIDs(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Where("id IN ?", ids).Delete(&models.MyPackage{}).Error
}

// Count returns the total number of curated packages
func (r *myPackageRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.MyPackage{}).Count(&count).Error
	return count, err
}
