package repository

import (
	"github.com/roamline/roamline/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// packageRepository implements the PackageRepository interface
type packageRepository struct {
	db *gorm.DB
}

// NewPackageRepository creates a new package repository instance
func NewPackageRepository(db *gorm.DB) PackageRepository {
	return &packageRepository{db: db}
}

// Create inserts a single catalog package
func (r *packageRepository) Create(pkg *models.Package) error {
	return r.db.Create(pkg).Error
}

// GetByID retrieves a catalog package by its row ID
func (r *packageRepository) GetByID(id string) (*models.Package, error) {
	var pkg models.Package
	err := r.db.Where("id = ?", id).First(&pkg).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

// GetByResellerID retrieves a catalog package by its reseller package ID
func (r *packageRepository) GetByResellerID(resellerID string) (*models.Package, error) {
	var pkg models.Package
	err := r.db.Where("reseller_id = ?", resellerID).First(&pkg).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

// List retrieves active catalog packages with pagination
func (r *packageRepository) List(offset, limit int) ([]models.Package, error) {
	var pkgs []models.Package
	err := r.db.Where("is_active = ?", true).
		Order("country_name ASC, price ASC").
		Offset(offset).Limit(limit).Find(&pkgs).Error
	return pkgs, err
}

// ListByCountry retrieves active catalog packages for one country
func (r *packageRepository) ListByCountry(countryCode string, offset, limit int) ([]models.Package, error) {
	var pkgs []models.Package
	err := r.db.Where("is_active = ? AND country_code = ?", true, countryCode).
		Order("price ASC").
		Offset(offset).Limit(limit).Find(&pkgs).Error
	return pkgs, err
}

// FindAlternatives retrieves packages for the same country, closest in data
// amount and validity first, for suggesting replacements at checkout
func (r *packageRepository) FindAlternatives(countryName, dataAmount string, days, limit int) ([]models.Package, error) {
	var pkgs []models.Package
	err := r.db.Where("is_active = ? AND country_name = ?", true, countryName).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "(data_amount = ?) DESC, ABS(days - ?) ASC, price ASC",
			Vars:               []interface{}{dataAmount, days},
			WithoutParentheses: true,
		}}).
		Limit(limit).Find(&pkgs).Error
	return pkgs, err
}

// UpsertBatch inserts a batch of packages, updating existing rows that share
// a reseller ID instead of failing on the unique index
func (r *packageRepository) UpsertBatch(pkgs []models.Package) error {
	if len(pkgs) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "reseller_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "country_name", "country_code",
			"data_amount", "days", "price", "operator", "features",
			"is_active", "updated_at",
		}),
	}).Create(&pkgs).Error
}

// DeleteAll removes every mirrored catalog row
func (r *packageRepository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&models.Package{}).Error
}

// Count returns the total number of mirrored catalog rows
func (r *packageRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Package{}).Count(&count).Error
	return count, err
}
