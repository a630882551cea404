// file: internals/route/index.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"catalogscolar_backend/internals/configs"
	aggregates "catalogscolar_backend/internals/features/school/aggregates/service"
	calService "catalogscolar_backend/internals/features/school/calendar/service"
	catalogRoutes "catalogscolar_backend/internals/features/school/catalogs/route"
	"catalogscolar_backend/internals/middlewares/auth"
)

// SetupRoutes mounts the API surface. Everything under /api/a requires a JWT.
func SetupRoutes(app *fiber.App, db *gorm.DB, calendar calService.CalendarService, scheduler aggregates.PropagationScheduler) {
	api := app.Group("/api/a", auth.AuthJWT(auth.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	}))

	catalogRoutes.CatalogRoutes(api, db, calendar, scheduler)
}
