package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/roamline/roamline/app/controllers"
	"github.com/roamline/roamline/internal/pkg/middleware"
)

type AdminRouter struct {
}

// InstallRouter registers the operational endpoints. Everything under /admin
// requires the admin bearer token.
func (h AdminRouter) InstallRouter(app *fiber.App) {
	admin := app.Group("/api/v1/admin", middleware.AdminAuthMiddleware())

	admin.Post("/sync", controllers.HandleAdminSync)
	admin.Get("/sync/status", controllers.HandleAdminSyncStatus)

	admin.Post("/packages/dedupe", controllers.HandleAdminDedupe)
	admin.Post("/packages/validate-mappings", controllers.HandleAdminValidateMappings)
	admin.Get("/packages/invalid", controllers.HandleAdminInvalidPackages)

	admin.Get("/health", controllers.HandleAdminHealth)

	admin.Post("/validation-cache/clear", controllers.HandleAdminClearValidationCache)
	admin.Get("/validation-cache", controllers.HandleAdminValidationCacheStats)
}

func NewAdminRouter() *AdminRouter {
	return &AdminRouter{}
}
