package catalogsync

import "time"

const (
	defaultBatchSize  = 100
	defaultBatchDelay = 100 * time.Millisecond
)

// SyncOptions configures one pipeline run. The zero value performs a
// clear-and-replace sync with defaults.
type SyncOptions struct {
	// ClearExisting deletes the mirrored catalog before writing; when false
	// the run upserts by reseller ID and leaves absent rows untouched.
	ClearExisting bool `json:"clear_existing"`
	// BatchSize caps rows per write batch.
	BatchSize int `json:"batch_size"`
	// ValidateMappings runs the curated-table mapping validation after the
	// catalog write.
	ValidateMappings bool `json:"validate_mappings"`
}

func (o SyncOptions) batchSize() int {
	if o.BatchSize <= 0 {
		return defaultBatchSize
	}
	return o.BatchSize
}

// SyncReport summarizes a pipeline run. Non-fatal problems (dropped records,
// failed batches) are counted here instead of aborting the run.
type SyncReport struct {
	TotalFetched         int   `json:"total_fetched"`
	DroppedInvalid       int   `json:"dropped_invalid"`
	DuplicatesSkipped    int   `json:"duplicates_skipped"`
	PreparedForInsertion int   `json:"prepared_for_insertion"`
	SuccessfullySynced   int   `json:"successfully_synced"`
	FailedToSync         int   `json:"failed_to_sync"`
	FinalCount           int64 `json:"final_count"`
	DurationMS           int64 `json:"duration_ms"`

	DropReasons map[string]int    `json:"drop_reasons,omitempty"`
	Validation  *ValidationReport `json:"validation,omitempty"`
}

// Mapping issue actions.
const (
	ActionNeedsManualReview  = "needs_manual_review"
	ActionAutoFixed          = "auto_fixed"
	ActionFixFailed          = "fix_failed"
	ActionNoReplacementFound = "no_replacement_found"
)

// MappingIssue describes one curated row whose reseller reference could not
// be verified, and what was done about it.
type MappingIssue struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Issue         string `json:"issue"`
	Action        string `json:"action"`
	OldResellerID string `json:"old_reseller_id,omitempty"`
	NewResellerID string `json:"new_reseller_id,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ValidationReport is the outcome of checking every curated row against the
// live reseller catalog.
type ValidationReport struct {
	Total             int            `json:"total"`
	Valid             int            `json:"valid"`
	Invalid           int            `json:"invalid"`
	MissingResellerID int            `json:"missing_reseller_id"`
	Fixed             int            `json:"fixed"`
	HealthPercentage  int            `json:"health_percentage"`
	Issues            []MappingIssue `json:"issues"`
}

// CuratedDedupeReport is the outcome of deduplicating the curated table.
type CuratedDedupeReport struct {
	Scanned               int `json:"scanned"`
	Removed               int `json:"removed"`
	Remaining             int `json:"remaining"`
	ResellerIDDuplicates  int `json:"reseller_id_duplicates"`
	CombinationDuplicates int `json:"combination_duplicates"`
}
