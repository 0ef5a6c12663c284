package models

import "time"

const (
	SyncRunStatusSuccess = "success"
	SyncRunStatusPartial = "partial"
	SyncRunStatusFailed  = "failed"
)

// SyncRun records one catalog sync execution so the admin surface can report
// sync history without inferring it from row timestamps.
type SyncRun struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Status               string    `gorm:"type:varchar(16);not null;index" json:"status"`
	TotalFetched         int       `json:"total_fetched"`
	PreparedForInsertion int       `json:"prepared_for_insertion"`
	DuplicatesSkipped    int       `json:"duplicates_skipped"`
	DroppedInvalid       int       `json:"dropped_invalid"`
	SuccessfullySynced   int       `json:"successfully_synced"`
	FailedToSync         int       `json:"failed_to_sync"`
	FinalCount           int64     `json:"final_count"`
	MappingsFixed        int       `json:"mappings_fixed"`
	ReportJSON           string    `gorm:"type:longtext" json:"report_json"`
	DurationMS           int64     `json:"duration_ms"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
}
