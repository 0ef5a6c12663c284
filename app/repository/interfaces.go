package repository

import (
	"github.com/roamline/roamline/app/models"
	"gorm.io/gorm"
)

// PackageRepository defines the interface for mirrored catalog operations
type PackageRepository interface {
	Create(pkg *models.Package) error
	GetByID(id string) (*models.Package, error)
	GetByResellerID(resellerID string) (*models.Package, error)
	List(offset, limit int) ([]models.Package, error)
	ListByCountry(countryCode string, offset, limit int) ([]models.Package, error)
	FindAlternatives(countryName, dataAmount string, days, limit int) ([]models.Package, error)
	UpsertBatch(pkgs []models.Package) error
	DeleteAll() error
	Count() (int64, error)
}

// MyPackageRepository defines the interface for the curated package table
type MyPackageRepository interface {
	Create(pkg *models.MyPackage) error
	GetByID(id string) (*models.MyPackage, error)
	ListAll() ([]models.MyPackage, error)
	ListVisible(offset, limit int) ([]models.MyPackage, error)
	ListMissingResellerID() ([]models.MyPackage, error)
	Update(pkg *models.MyPackage) error
	UpdateResellerID(id, resellerID string) error
	DeleteByIDs(ids []string) error
	Count() (int64, error)
}

// SyncRunRepository defines the interface for sync run history
type SyncRunRepository interface {
	Create(run *models.SyncRun) error
	GetLatest() (*models.SyncRun, error)
	List(limit int) ([]models.SyncRun, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Package   PackageRepository
	MyPackage MyPackageRepository
	SyncRun   SyncRunRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Package:   NewPackageRepository(db),
		MyPackage: NewMyPackageRepository(db),
		SyncRun:   NewSyncRunRepository(db),
	}
}
