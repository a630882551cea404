// file: internals/features/school/aggregates/repository/gorm_repository.go
package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogmodel "catalogscolar_backend/internals/features/school/catalogs/model"
	classmodel "catalogscolar_backend/internals/features/school/classes/model"
	schoolmodel "catalogscolar_backend/internals/features/school/schools/model"
)

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) SubjectCatalogsForStudent(studentID, studyClassID, academicYearID uuid.UUID) ([]catalogmodel.SubjectCatalogModel, error) {
	var rows []catalogmodel.SubjectCatalogModel
	err := r.db.
		Where("subject_catalog_student_id = ? AND subject_catalog_study_class_id = ? AND subject_catalog_academic_year_id = ?",
			studentID, studyClassID, academicYearID).
		Find(&rows).Error
	return rows, err
}

func (r *gormRepository) StudentCatalog(studentID, studyClassID, academicYearID uuid.UUID) (*catalogmodel.StudentCatalogPerYearModel, error) {
	var row catalogmodel.StudentCatalogPerYearModel
	err := r.db.
		Where("student_catalog_student_id = ? AND student_catalog_study_class_id = ? AND student_catalog_academic_year_id = ?",
			studentID, studyClassID, academicYearID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *gormRepository) SaveStudentCatalog(rollup *catalogmodel.StudentCatalogPerYearModel) error {
	return r.db.Save(rollup).Error
}

func (r *gormRepository) UpdateStudentFailingLabels(studentID uuid.UUID, oneFailing, twoFailing bool) error {
	return r.db.Model(&classmodel.StudentModel{}).
		Where("student_id = ?", studentID).
		Updates(map[string]any{
			"student_has_one_failing_subject_label":  oneFailing,
			"student_has_two_failing_subjects_label": twoFailing,
		}).Error
}

func (r *gormRepository) StudyClass(studyClassID uuid.UUID) (*classmodel.StudyClassModel, error) {
	var row classmodel.StudyClassModel
	if err := r.db.First(&row, "study_class_id = ?", studyClassID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *gormRepository) StudentCatalogsForClass(studyClassID, academicYearID uuid.UUID) ([]catalogmodel.StudentCatalogPerYearModel, error) {
	var rows []catalogmodel.StudentCatalogPerYearModel
	err := r.db.
		Where("student_catalog_study_class_id = ? AND student_catalog_academic_year_id = ?", studyClassID, academicYearID).
		Find(&rows).Error
	return rows, err
}

func (r *gormRepository) SaveClassAggregates(class *classmodel.StudyClassModel) error {
	return r.db.Model(class).
		Select("study_class_avg_sem1", "study_class_avg_sem2", "study_class_avg_annual",
			"study_class_unfounded_abs_avg_sem1", "study_class_unfounded_abs_avg_sem2", "study_class_unfounded_abs_avg_annual").
		Updates(map[string]any{
			"study_class_avg_sem1":                 class.StudyClassAvgSem1,
			"study_class_avg_sem2":                 class.StudyClassAvgSem2,
			"study_class_avg_annual":               class.StudyClassAvgAnnual,
			"study_class_unfounded_abs_avg_sem1":   class.StudyClassUnfoundedAbsAvgSem1,
			"study_class_unfounded_abs_avg_sem2":   class.StudyClassUnfoundedAbsAvgSem2,
			"study_class_unfounded_abs_avg_annual": class.StudyClassUnfoundedAbsAvgAnnual,
		}).Error
}

func (r *gormRepository) ClassesForProgram(academicProgramID, academicYearID uuid.UUID) ([]classmodel.StudyClassModel, error) {
	var rows []classmodel.StudyClassModel
	err := r.db.
		Where("study_class_academic_program_id = ? AND study_class_academic_year_id = ?", academicProgramID, academicYearID).
		Find(&rows).Error
	return rows, err
}

func (r *gormRepository) AcademicProgram(academicProgramID uuid.UUID) (*schoolmodel.AcademicProgramModel, error) {
	var row schoolmodel.AcademicProgramModel
	if err := r.db.First(&row, "academic_program_id = ?", academicProgramID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *gormRepository) SaveProgramAggregates(program *schoolmodel.AcademicProgramModel) error {
	return r.db.Model(program).
		Select("academic_program_avg_sem1", "academic_program_avg_sem2", "academic_program_avg_annual",
			"academic_program_unfounded_abs_avg_sem1", "academic_program_unfounded_abs_avg_sem2", "academic_program_unfounded_abs_avg_annual").
		Updates(map[string]any{
			"academic_program_avg_sem1":                 program.AcademicProgramAvgSem1,
			"academic_program_avg_sem2":                 program.AcademicProgramAvgSem2,
			"academic_program_avg_annual":               program.AcademicProgramAvgAnnual,
			"academic_program_unfounded_abs_avg_sem1":   program.AcademicProgramUnfoundedAbsAvgSem1,
			"academic_program_unfounded_abs_avg_sem2":   program.AcademicProgramUnfoundedAbsAvgSem2,
			"academic_program_unfounded_abs_avg_annual": program.AcademicProgramUnfoundedAbsAvgAnnual,
		}).Error
}

func (r *gormRepository) ClassesForSchool(schoolUnitID, academicYearID uuid.UUID) ([]classmodel.StudyClassModel, error) {
	var rows []classmodel.StudyClassModel
	err := r.db.
		Where("study_class_school_unit_id = ? AND study_class_academic_year_id = ?", schoolUnitID, academicYearID).
		Find(&rows).Error
	return rows, err
}

func (r *gormRepository) SchoolUnitStats(schoolUnitID, academicYearID uuid.UUID) (*schoolmodel.SchoolUnitStatsModel, error) {
	var row schoolmodel.SchoolUnitStatsModel
	err := r.db.
		Where("school_unit_stats_school_unit_id = ? AND school_unit_stats_academic_year_id = ?", schoolUnitID, academicYearID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *gormRepository) SaveSchoolUnitStats(stats *schoolmodel.SchoolUnitStatsModel) error {
	return r.db.Model(stats).
		Select("school_unit_stats_avg_sem1", "school_unit_stats_avg_sem2", "school_unit_stats_avg_annual",
			"school_unit_stats_unfounded_abs_avg_sem1", "school_unit_stats_unfounded_abs_avg_sem2", "school_unit_stats_unfounded_abs_avg_annual").
		Updates(map[string]any{
			"school_unit_stats_avg_sem1":                 stats.SchoolUnitStatsAvgSem1,
			"school_unit_stats_avg_sem2":                 stats.SchoolUnitStatsAvgSem2,
			"school_unit_stats_avg_annual":               stats.SchoolUnitStatsAvgAnnual,
			"school_unit_stats_unfounded_abs_avg_sem1":   stats.SchoolUnitStatsUnfoundedAbsAvgSem1,
			"school_unit_stats_unfounded_abs_avg_sem2":   stats.SchoolUnitStatsUnfoundedAbsAvgSem2,
			"school_unit_stats_unfounded_abs_avg_annual": stats.SchoolUnitStatsUnfoundedAbsAvgAnnual,
		}).Error
}
