package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubjectAbsenceModel: created unfounded; may be authorized (is_founded flips
// false→true once) or deleted within the editable window.
type SubjectAbsenceModel struct {
	SubjectAbsenceID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:subject_absence_id" json:"subject_absence_id"`
	SubjectAbsenceSubjectCatalogID uuid.UUID `gorm:"type:uuid;not null;index;column:subject_absence_subject_catalog_id" json:"subject_absence_subject_catalog_id"`

	SubjectAbsenceSemester  int       `gorm:"type:integer;not null;column:subject_absence_semester" json:"subject_absence_semester"`
	SubjectAbsenceTakenAt   time.Time `gorm:"type:date;not null;column:subject_absence_taken_at" json:"subject_absence_taken_at"`
	SubjectAbsenceIsFounded bool      `gorm:"not null;default:false;column:subject_absence_is_founded" json:"subject_absence_is_founded"`

	SubjectAbsenceCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:subject_absence_created_at" json:"subject_absence_created_at"`
	SubjectAbsenceUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:subject_absence_updated_at" json:"subject_absence_updated_at"`
	SubjectAbsenceDeletedAt gorm.DeletedAt `gorm:"column:subject_absence_deleted_at;index" json:"subject_absence_deleted_at,omitempty"`
}

func (SubjectAbsenceModel) TableName() string { return "subject_absences" }

func (m *SubjectAbsenceModel) BeforeSave(tx *gorm.DB) error {
	if m.SubjectAbsenceSemester != 1 && m.SubjectAbsenceSemester != 2 {
		return errors.New("subject_absence_semester must be 1 or 2")
	}
	return nil
}
