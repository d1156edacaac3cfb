package models

import (
	"time"

	"github.com/ensab/scolarite/internal/pkg/datefmt"
)

// Enrollment is a student's registration for an academic year.
type Enrollment struct {
	ID           int64            `json:"id" db:"id"`
	StudentID    int64            `json:"etudiantId" db:"student_id"`
	Student      *Student         `json:"etudiant,omitempty"`
	Type         EnrollmentType   `json:"typeInscription" db:"type_inscription"`
	AcademicYear string           `json:"anneeUniversitaire" db:"annee_universitaire"`
	Status       EnrollmentStatus `json:"status" db:"status"`
	CreatedAt    datefmt.DateTime `json:"dateCreation" db:"created_at"`
	ConfirmedAt  datefmt.DateTime `json:"dateConfirmation" db:"confirmed_at"`
	AdminID      *int64           `json:"adminId,omitempty" db:"admin_id"`
}

// Apply confirms or cancels the enrollment. Both actions stamp the
// confirmation date and the processing admin.
func (e *Enrollment) Apply(action Action, adminID int64, at time.Time) error {
	next, err := nextStatus(KindEnrollment, action, e.Status)
	if err != nil {
		return err
	}
	e.Status = next
	e.ConfirmedAt = datefmt.NewDateTime(at)
	e.AdminID = &adminID
	return nil
}

// Actions lists the transitions currently legal for e.
func (e *Enrollment) Actions() []Action {
	return AvailableActions(KindEnrollment, string(e.Status))
}

// SearchFields implements listing.Record.
func (e *Enrollment) SearchFields() []string {
	return append(studentFields(e.Student), e.AcademicYear)
}

func (e *Enrollment) StatusValue() string { return string(e.Status) }
func (e *Enrollment) KindValue() string   { return string(e.Type) }
