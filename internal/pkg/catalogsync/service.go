package catalogsync

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/roamline/roamline/app/models"
	"github.com/roamline/roamline/internal/pkg/roamify"
)

// CatalogClient is the slice of the reseller client the pipeline needs.
type CatalogClient interface {
	FetchCatalog(ctx context.Context) ([]roamify.CatalogEntry, error)
}

// PackageStore persists the mirrored reseller catalog.
type PackageStore interface {
	DeleteAll() error
	UpsertBatch(pkgs []models.Package) error
	Count() (int64, error)
}

// CuratedStore reads and repairs the operator-curated table. ListAll returns
// rows newest-first so dedup tie-breaks keep the most recent row.
type CuratedStore interface {
	ListAll() ([]models.MyPackage, error)
	UpdateResellerID(id, resellerID string) error
	DeleteByIDs(ids []string) error
	Count() (int64, error)
}

// SyncRunStore records pipeline executions.
type SyncRunStore interface {
	Create(run *models.SyncRun) error
}

// Service runs the reconciliation pipeline: fetch, normalize, dedupe,
// persist, then optionally validate and repair curated mappings.
type Service struct {
	client   CatalogClient
	packages PackageStore
	curated  CuratedStore
	runs     SyncRunStore

	// sleep is swappable for tests; it paces write batches.
	sleep func(time.Duration)
}

// NewService wires the pipeline from its collaborators. runs may be nil when
// run history is not wanted (e.g. the one-shot CLI against a dry store).
func NewService(client CatalogClient, packages PackageStore, curated CuratedStore, runs SyncRunStore) *Service {
	return &Service{
		client:   client,
		packages: packages,
		curated:  curated,
		runs:     runs,
		sleep:    time.Sleep,
	}
}

// Run executes one full sync. Fetch errors abort the run; normalization,
// batch-write and repair problems are counted in the report instead.
func (s *Service) Run(ctx context.Context, opts SyncOptions) (*SyncReport, error) {
	started := time.Now()

	entries, err := s.client.FetchCatalog(ctx)
	if err != nil {
		s.recordRun(&SyncReport{DurationMS: time.Since(started).Milliseconds()}, models.SyncRunStatusFailed)
		return nil, err
	}

	report := &SyncReport{
		TotalFetched: len(entries),
		DropReasons:  map[string]int{},
	}

	normalized := make([]models.Package, 0, len(entries))
	for _, entry := range entries {
		pkg, reason := Normalize(entry)
		if reason != "" {
			report.DroppedInvalid++
			report.DropReasons[reason]++
			log.Printf("sync: dropping package %q (%s): %s", entry.PackageID, entry.CountryName, reason)
			continue
		}
		normalized = append(normalized, *pkg)
	}

	deduped := Dedupe(normalized)
	report.DuplicatesSkipped = len(normalized) - len(deduped)
	report.PreparedForInsertion = len(deduped)

	if opts.ClearExisting {
		if err := s.packages.DeleteAll(); err != nil {
			// Upserts below still converge on the new catalog; stale rows
			// just survive this run.
			log.Printf("sync: could not clear existing catalog: %v", err)
		}
	}

	batchSize := opts.batchSize()
	totalBatches := (len(deduped) + batchSize - 1) / batchSize
	for i := 0; i < len(deduped); i += batchSize {
		end := i + batchSize
		if end > len(deduped) {
			end = len(deduped)
		}
		batch := deduped[i:end]
		batchNumber := i/batchSize + 1

		if err := s.packages.UpsertBatch(batch); err != nil {
			log.Printf("sync: batch %d/%d failed (%d rows): %v", batchNumber, totalBatches, len(batch), err)
			report.FailedToSync += len(batch)
		} else {
			report.SuccessfullySynced += len(batch)
		}

		if end < len(deduped) {
			s.sleep(defaultBatchDelay)
		}
	}

	if count, err := s.packages.Count(); err == nil {
		report.FinalCount = count
	} else {
		log.Printf("sync: could not count catalog rows: %v", err)
	}

	if opts.ValidateMappings {
		validation, err := s.ValidateMappings(ctx, entries)
		if err != nil {
			log.Printf("sync: mapping validation failed: %v", err)
		} else {
			report.Validation = validation
		}
	}

	report.DurationMS = time.Since(started).Milliseconds()

	status := models.SyncRunStatusSuccess
	if report.FailedToSync > 0 {
		status = models.SyncRunStatusPartial
	}
	s.recordRun(report, status)

	log.Printf("sync: fetched=%d prepared=%d synced=%d failed=%d final=%d in %dms",
		report.TotalFetched, report.PreparedForInsertion, report.SuccessfullySynced,
		report.FailedToSync, report.FinalCount, report.DurationMS)

	return report, nil
}

func (s *Service) recordRun(report *SyncReport, status string) {
	if s.runs == nil {
		return
	}

	run := &models.SyncRun{
		Status:               status,
		TotalFetched:         report.TotalFetched,
		PreparedForInsertion: report.PreparedForInsertion,
		DuplicatesSkipped:    report.DuplicatesSkipped,
		DroppedInvalid:       report.DroppedInvalid,
		SuccessfullySynced:   report.SuccessfullySynced,
		FailedToSync:         report.FailedToSync,
		FinalCount:           report.FinalCount,
		DurationMS:           report.DurationMS,
	}
	if report.Validation != nil {
		run.MappingsFixed = report.Validation.Fixed
	}
	if b, err := json.Marshal(report); err == nil {
		run.ReportJSON = string(b)
	}

	if err := s.runs.Create(run); err != nil {
		log.Printf("sync: could not record sync run: %v", err)
	}
}
