// file: internals/features/school/catalogs/route/catalog_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	aggregates "catalogscolar_backend/internals/features/school/aggregates/service"
	calService "catalogscolar_backend/internals/features/school/calendar/service"
	"catalogscolar_backend/internals/features/school/catalogs/controller"
	"catalogscolar_backend/internals/middlewares"
)

func CatalogRoutes(api fiber.Router, db *gorm.DB, calendar calService.CalendarService, scheduler aggregates.PropagationScheduler) {
	ctl := controller.NewCatalogController(db, calendar, scheduler)

	api.Post("/grades", ctl.RecordGrade)
	api.Post("/grades/bulk", ctl.BulkRecordGrades)

	api.Post("/absences", ctl.RecordAbsence)
	api.Post("/absences/bulk", ctl.BulkRecordAbsences)
	api.Patch("/catalogs/:catalog_id/absences/:absence_id/authorize", ctl.AuthorizeAbsence)
	api.Delete("/catalogs/:catalog_id/absences/:absence_id", ctl.DeleteAbsence)

	api.Post("/examination-grades", ctl.RecordExaminationGrade)

	api.Post("/students/:student_id/classes/:class_id/years/:year_id/catalog/import",
		middlewares.ImportRateLimiter(), ctl.ImportCatalogCSV)
	api.Get("/students/:student_id/classes/:class_id/years/:year_id/catalog/export", ctl.ExportCatalogCSV)
}
