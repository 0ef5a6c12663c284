package controllers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/roamline/roamline/app/repository"
	"github.com/roamline/roamline/internal/pkg/catalogsync"
)

var validate = validator.New()

// SyncRequest is the body of POST /admin/sync. All fields are optional; the
// default is a clear-and-replace run without mapping validation.
type SyncRequest struct {
	ClearExisting    *bool `json:"clear_existing"`
	BatchSize        int   `json:"batch_size" validate:"gte=0,lte=500"`
	ValidateMappings bool  `json:"validate_mappings"`
}

// HandleAdminSync runs a full catalog sync and returns its report. The run is
// synchronous: the reseller catalog fits in memory and admins want the report
// in the response rather than polling for it.
func HandleAdminSync(c *fiber.Ctx) error {
	req := SyncRequest{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Malformed sync options")
		}
	}
	if err := validate.Struct(req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "batch_size must be between 0 and 500")
	}

	opts := catalogsync.SyncOptions{
		ClearExisting:    true,
		BatchSize:        req.BatchSize,
		ValidateMappings: req.ValidateMappings,
	}
	if req.ClearExisting != nil {
		opts.ClearExisting = *req.ClearExisting
	}

	_, syncSvc, _ := getServices()
	report, err := syncSvc.Run(c.Context(), opts)
	if err != nil {
		log.Printf("admin sync failed: %v", err)
		return errorResponse(c, fiber.StatusBadGateway, "Catalog fetch failed")
	}

	return successResponse(c, report)
}

// HandleAdminDedupe removes duplicate rows from the curated package table.
func HandleAdminDedupe(c *fiber.Ctx) error {
	_, syncSvc, _ := getServices()
	report, err := syncSvc.DedupeCurated(c.Context())
	if err != nil {
		log.Printf("admin dedupe failed: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Dedupe failed")
	}
	return successResponse(c, report)
}

// HandleAdminValidateMappings fetches the live catalog and validates every
// curated package's reseller reference against it, repairing where possible.
func HandleAdminValidateMappings(c *fiber.Ctx) error {
	client, syncSvc, _ := getServices()

	entries, err := client.FetchCatalog(c.Context())
	if err != nil {
		log.Printf("mapping validation fetch failed: %v", err)
		return errorResponse(c, fiber.StatusBadGateway, "Catalog fetch failed")
	}

	report, err := syncSvc.ValidateMappings(c.Context(), entries)
	if err != nil {
		log.Printf("mapping validation failed: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Mapping validation failed")
	}
	return successResponse(c, report)
}

// HandleAdminInvalidPackages lists curated packages with no reseller
// reference at all, the ones only a human can fix.
func HandleAdminInvalidPackages(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetMyPackageRepository()
	pkgs, err := repo.ListMissingResellerID()
	if err != nil {
		log.Printf("invalid package listing failed: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not load packages")
	}
	return successResponse(c, fiber.Map{
		"count":    len(pkgs),
		"packages": pkgs,
	})
}

// HandleAdminSyncStatus returns the latest sync run and recent history.
func HandleAdminSyncStatus(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetSyncRunRepository()

	latest, err := repo.GetLatest()
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("sync status lookup failed: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not load sync status")
	}

	history, err := repo.List(20)
	if err != nil {
		log.Printf("sync history lookup failed: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not load sync status")
	}

	unmapped, err := repository.GetGlobalFactory().GetMyPackageRepository().ListMissingResellerID()
	if err != nil {
		log.Printf("unmapped package lookup failed: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not load sync status")
	}

	return successResponse(c, fiber.Map{
		"latest":         latest,
		"history":        history,
		"unmapped_count": len(unmapped),
	})
}

// HandleAdminHealth reports reachability of the reseller API, both local
// package tables, the availability cache, and the mapping health of the last
// validated sync run.
func HandleAdminHealth(c *fiber.Ctx) error {
	client, _, availabilitySvc := getServices()
	repos := repository.GetGlobalRepositories()

	resellerUp := client.CheckHealth(c.Context())

	catalogCount, err := repos.Package.Count()
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Database unavailable")
	}
	curatedCount, err := repos.MyPackage.Count()
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Database unavailable")
	}

	health := fiber.Map{
		"reseller_api":     resellerUp,
		"catalog_count":    catalogCount,
		"curated_count":    curatedCount,
		"validation_cache": availabilitySvc.CacheStats(),
	}

	if latest, err := repos.SyncRun.GetLatest(); err == nil {
		health["last_sync_status"] = latest.Status
		health["last_sync_at"] = latest.CreatedAt
		health["mappings_fixed"] = latest.MappingsFixed
	}

	return successResponse(c, health)
}

// HandleAdminClearValidationCache drops all cached availability verdicts.
func HandleAdminClearValidationCache(c *fiber.Ctx) error {
	_, _, availabilitySvc := getServices()
	availabilitySvc.ClearCache()
	return successResponse(c, fiber.Map{"cleared": true})
}

// HandleAdminValidationCacheStats returns the availability cache contents.
func HandleAdminValidationCacheStats(c *fiber.Ctx) error {
	_, _, availabilitySvc := getServices()
	return successResponse(c, availabilitySvc.CacheStats())
}
