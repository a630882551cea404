// file: internals/features/school/catalogs/controller/catalog_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	aggregates "catalogscolar_backend/internals/features/school/aggregates/service"
	calService "catalogscolar_backend/internals/features/school/calendar/service"
	"catalogscolar_backend/internals/features/school/catalogs/dto"
	catalogService "catalogscolar_backend/internals/features/school/catalogs/service"
	helper "catalogscolar_backend/internals/helpers"
)

type CatalogController struct {
	DB       *gorm.DB
	Service  catalogService.CatalogService
	CSV      catalogService.CatalogCSVService
	Validate *validator.Validate
}

func NewCatalogController(db *gorm.DB, calendar calService.CalendarService, scheduler aggregates.PropagationScheduler) *CatalogController {
	return &CatalogController{
		DB:       db,
		Service:  catalogService.NewCatalogService(calendar, scheduler),
		CSV:      catalogService.NewCatalogCSVService(calendar, scheduler),
		Validate: validator.New(),
	}
}

func (ctl *CatalogController) validateStruct(c *fiber.Ctx, req any) error {
	if err := ctl.Validate.Struct(req); err != nil {
		fields := map[string][]string{}
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields[fe.Field()] = append(fields[fe.Field()], "câmp invalid: "+fe.Tag())
			}
		}
		return helper.JsonValidationError(c, fields)
	}
	return nil
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, helper.JsonError(c, fiber.StatusBadRequest, "Identificator invalid: "+name)
	}
	return id, nil
}

/* ============================================
   Handlers
============================================ */

// POST /grades
func (ctl *CatalogController) RecordGrade(c *fiber.Ctx) error {
	var req dto.RecordGradeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpul cererii este invalid")
	}
	if err := ctl.validateStruct(c, &req); err != nil {
		return err
	}
	resp, err := ctl.Service.RecordGrade(ctl.DB, &req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "Notă înregistrată", resp)
}

// POST /grades/bulk
func (ctl *CatalogController) BulkRecordGrades(c *fiber.Ctx) error {
	var req dto.BulkRecordGradesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpul cererii este invalid")
	}
	if err := ctl.validateStruct(c, &req); err != nil {
		return err
	}
	resp, err := ctl.Service.BulkRecordGrades(ctl.DB, &req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "Note înregistrate", resp)
}

// POST /absences
func (ctl *CatalogController) RecordAbsence(c *fiber.Ctx) error {
	var req dto.RecordAbsenceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpul cererii este invalid")
	}
	if err := ctl.validateStruct(c, &req); err != nil {
		return err
	}
	resp, err := ctl.Service.RecordAbsence(ctl.DB, &req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "Absență înregistrată", resp)
}

// POST /absences/bulk
func (ctl *CatalogController) BulkRecordAbsences(c *fiber.Ctx) error {
	var req dto.BulkRecordAbsencesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpul cererii este invalid")
	}
	if err := ctl.validateStruct(c, &req); err != nil {
		return err
	}
	resp, err := ctl.Service.BulkRecordAbsences(ctl.DB, &req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "Absențe înregistrate", resp)
}

// PATCH /catalogs/:catalog_id/absences/:absence_id/authorize
func (ctl *CatalogController) AuthorizeAbsence(c *fiber.Ctx) error {
	catalogID, err := parseUUIDParam(c, "catalog_id")
	if err != nil {
		return err
	}
	absenceID, err := parseUUIDParam(c, "absence_id")
	if err != nil {
		return err
	}
	resp, svcErr := ctl.Service.AuthorizeAbsence(ctl.DB, catalogID, absenceID)
	if svcErr != nil {
		return helper.JsonServiceError(c, svcErr)
	}
	return helper.JsonUpdated(c, "Absență motivată", resp)
}

// DELETE /catalogs/:catalog_id/absences/:absence_id
func (ctl *CatalogController) DeleteAbsence(c *fiber.Ctx) error {
	catalogID, err := parseUUIDParam(c, "catalog_id")
	if err != nil {
		return err
	}
	absenceID, err := parseUUIDParam(c, "absence_id")
	if err != nil {
		return err
	}
	resp, svcErr := ctl.Service.DeleteAbsence(ctl.DB, catalogID, absenceID)
	if svcErr != nil {
		return helper.JsonServiceError(c, svcErr)
	}
	return helper.JsonDeleted(c, "Absență ștearsă", resp)
}

// POST /examination-grades
func (ctl *CatalogController) RecordExaminationGrade(c *fiber.Ctx) error {
	var req dto.RecordExaminationGradeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpul cererii este invalid")
	}
	if err := ctl.validateStruct(c, &req); err != nil {
		return err
	}
	resp, err := ctl.Service.RecordExaminationGrade(ctl.DB, &req)
	if err != nil {
		return helper.JsonServiceError(c, err)
	}
	return helper.JsonCreated(c, "Notă de examen înregistrată", resp)
}

// POST /students/:student_id/classes/:class_id/years/:year_id/catalog/import
func (ctl *CatalogController) ImportCatalogCSV(c *fiber.Ctx) error {
	studentID, err := parseUUIDParam(c, "student_id")
	if err != nil {
		return err
	}
	classID, err := parseUUIDParam(c, "class_id")
	if err != nil {
		return err
	}
	yearID, err := parseUUIDParam(c, "year_id")
	if err != nil {
		return err
	}
	body := c.Body()
	if len(body) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Fișierul CSV lipsește")
	}
	report, svcErr := ctl.CSV.ImportCatalogCSV(ctl.DB, studentID, classID, yearID, body)
	if svcErr != nil {
		return helper.JsonServiceError(c, svcErr)
	}
	return helper.JsonOK(c, "Import finalizat", report)
}

// GET /students/:student_id/classes/:class_id/years/:year_id/catalog/export
func (ctl *CatalogController) ExportCatalogCSV(c *fiber.Ctx) error {
	studentID, err := parseUUIDParam(c, "student_id")
	if err != nil {
		return err
	}
	classID, err := parseUUIDParam(c, "class_id")
	if err != nil {
		return err
	}
	yearID, err := parseUUIDParam(c, "year_id")
	if err != nil {
		return err
	}
	data, svcErr := ctl.CSV.ExportCatalogCSV(ctl.DB, studentID, classID, yearID)
	if svcErr != nil {
		return helper.JsonServiceError(c, svcErr)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="catalog.csv"`)
	return c.Send(data)
}
