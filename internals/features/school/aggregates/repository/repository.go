// file: internals/features/school/aggregates/repository/repository.go
//
// Data access behind the aggregation propagator. An interface so the rollup
// arithmetic can be exercised against an in-memory fake.
package repository

import (
	"github.com/google/uuid"

	catalogmodel "catalogscolar_backend/internals/features/school/catalogs/model"
	classmodel "catalogscolar_backend/internals/features/school/classes/model"
	schoolmodel "catalogscolar_backend/internals/features/school/schools/model"
)

type Repository interface {
	// Student stage.
	SubjectCatalogsForStudent(studentID, studyClassID, academicYearID uuid.UUID) ([]catalogmodel.SubjectCatalogModel, error)
	StudentCatalog(studentID, studyClassID, academicYearID uuid.UUID) (*catalogmodel.StudentCatalogPerYearModel, error)
	SaveStudentCatalog(rollup *catalogmodel.StudentCatalogPerYearModel) error
	UpdateStudentFailingLabels(studentID uuid.UUID, oneFailing, twoFailing bool) error

	// Class stage.
	StudyClass(studyClassID uuid.UUID) (*classmodel.StudyClassModel, error)
	StudentCatalogsForClass(studyClassID, academicYearID uuid.UUID) ([]catalogmodel.StudentCatalogPerYearModel, error)
	SaveClassAggregates(class *classmodel.StudyClassModel) error

	// Program stage.
	ClassesForProgram(academicProgramID, academicYearID uuid.UUID) ([]classmodel.StudyClassModel, error)
	AcademicProgram(academicProgramID uuid.UUID) (*schoolmodel.AcademicProgramModel, error)
	SaveProgramAggregates(program *schoolmodel.AcademicProgramModel) error

	// School stage. SchoolUnitStats returns (nil, nil) when the stats row does
	// not exist yet; the propagator skips the stage in that case.
	ClassesForSchool(schoolUnitID, academicYearID uuid.UUID) ([]classmodel.StudyClassModel, error)
	SchoolUnitStats(schoolUnitID, academicYearID uuid.UUID) (*schoolmodel.SchoolUnitStatsModel, error)
	SaveSchoolUnitStats(stats *schoolmodel.SchoolUnitStatsModel) error
}
