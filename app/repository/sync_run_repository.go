package repository

import (
	"github.com/roamline/roamline/app/models"
	"gorm.io/gorm"
)

// syncRunRepository implements the SyncRunRepository interface
type syncRunRepository struct {
	db *gorm.DB
}

// NewSyncRunRepository creates a new sync run repository instance
func NewSyncRunRepository(db *gorm.DB) SyncRunRepository {
	return &syncRunRepository{db: db}
}

// Create records a completed sync run
func (r *syncRunRepository) Create(run *models.SyncRun) error {
	return r.db.Create(run).Error
}

// GetLatest retrieves the most recent sync run
func (r *syncRunRepository) GetLatest() (*models.SyncRun, error) {
	var run models.SyncRun
	err := r.db.Order("created_at DESC").First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// List retrieves the most recent sync runs, newest first
func (r *syncRunRepository) List(limit int) ([]models.SyncRun, error) {
	var runs []models.SyncRun
	err := r.db.Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
