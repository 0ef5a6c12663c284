package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/roamline/roamline/app/models"
	"github.com/roamline/roamline/app/repository"
	"github.com/roamline/roamline/internal/pkg/cache"
	"github.com/roamline/roamline/internal/pkg/metrics/counter"
)

const (
	packageListCacheTTL = 5 * time.Minute
	packageListMaxLimit = 100
)

// HandleListPackages returns the customer-facing package list. Responses are
// cached in Redis per page so catalog browsing does not hit the database on
// every request; a sync run does not invalidate the cache, it just ages out.
func HandleListPackages(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > packageListMaxLimit {
		limit = 50
	}

	cacheKey := fmt.Sprintf("packages:list:%d:%d", page, limit)
	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	repo := repository.GetGlobalFactory().GetMyPackageRepository()
	pkgs, err := repo.ListVisible((page-1)*limit, limit)
	if err != nil {
		log.Printf("package list failed: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not load packages")
	}
	total, err := repo.Count()
	if err != nil {
		log.Printf("package count failed: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not load packages")
	}

	payload := fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"packages": pkgs,
			"page":     page,
			"limit":    limit,
			"total":    total,
		},
	}

	if body, err := json.Marshal(payload); err == nil {
		if err := cache.Set(cacheKey, string(body), packageListCacheTTL); err != nil {
			log.Printf("package list cache write failed: %v", err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(payload)
}

// HandleGetPackage returns one curated package by ID.
func HandleGetPackage(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Package ID missing")
	}

	repo := repository.GetGlobalFactory().GetMyPackageRepository()
	pkg, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Package not found")
		}
		log.Printf("package lookup failed: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not load package")
	}

	// Best-effort popularity tracking; detail views must not depend on Redis.
	if err := counter.AddPackageView(pkg.ID); err != nil {
		log.Printf("package view counter failed: %v", err)
	}

	return successResponse(c, pkg)
}

// CheckoutValidateRequest is the body of POST /checkout/validate.
type CheckoutValidateRequest struct {
	PackageID string `json:"package_id" validate:"required"`
}

// HandleCheckoutValidate verifies that a curated package still resolves to a
// purchasable reseller package before the customer pays. When the mapping is
// broken, up to three alternatives from the live catalog are suggested.
func HandleCheckoutValidate(c *fiber.Ctx) error {
	var req CheckoutValidateRequest
	if err := c.BodyParser(&req); err != nil || req.PackageID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "package_id is required")
	}

	repo := repository.GetGlobalFactory().GetMyPackageRepository()
	pkg, err := repo.GetByID(req.PackageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Package not found")
		}
		log.Printf("checkout package lookup failed: %v", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Could not validate package")
	}

	ref := pkg.ResellerRef()
	if ref == "" {
		return successResponse(c, fiber.Map{
			"package_id":   pkg.ID,
			"available":    false,
			"reason":       "no_reseller_mapping",
			"alternatives": checkoutAlternatives(pkg),
		})
	}

	_, _, availabilitySvc := getServices()
	if !availabilitySvc.IsPackageValid(c.Context(), ref) {
		return successResponse(c, fiber.Map{
			"package_id":   pkg.ID,
			"available":    false,
			"reason":       "reseller_package_unavailable",
			"alternatives": checkoutAlternatives(pkg),
		})
	}

	return successResponse(c, fiber.Map{
		"package_id": pkg.ID,
		"available":  true,
	})
}

func checkoutAlternatives(pkg *models.MyPackage) []models.Package {
	repo := repository.GetGlobalFactory().GetPackageRepository()
	alts, err := repo.FindAlternatives(pkg.CountryName, pkg.DataAmount, pkg.Days, 3)
	if err != nil {
		log.Printf("alternative lookup for %s failed: %v", pkg.ID, err)
		return []models.Package{}
	}
	return alts
}
