package models

import (
	"time"

	"github.com/ensab/scolarite/internal/pkg/datefmt"
)

// DocumentRequest is a student's request for an official document.
// ProcessedAt and AdminID are unset exactly while the request is pending.
type DocumentRequest struct {
	ID          int64         `json:"id" db:"id"`
	StudentID   int64         `json:"etudiantId" db:"student_id"`
	Student     *Student      `json:"etudiant,omitempty"`
	Type        DocumentType  `json:"typeDocument" db:"type_document"`
	Status      RequestStatus `json:"status" db:"status"`
	CreatedAt   datefmt.Date  `json:"dateCreation" db:"created_at"`
	ProcessedAt datefmt.Date  `json:"dateTraitement" db:"processed_at"`
	AdminID     *int64        `json:"adminId,omitempty" db:"admin_id"`
}

// Apply performs an approve or reject action on behalf of adminID.
func (r *DocumentRequest) Apply(action Action, adminID int64, at time.Time) error {
	next, err := nextStatus(KindRequest, action, r.Status)
	if err != nil {
		return err
	}
	r.Status = next
	r.ProcessedAt = datefmt.NewDate(at)
	r.AdminID = &adminID
	return nil
}

// DownloadableBy reports whether role may generate the requested document.
// Students must wait for approval; admins are never gated.
func (r *DocumentRequest) DownloadableBy(role RoleType) bool {
	if role == RoleAdmin {
		return true
	}
	return r.Status == RequestApproved
}

// Actions lists the transitions currently legal for r.
func (r *DocumentRequest) Actions() []Action {
	return AvailableActions(KindRequest, string(r.Status))
}

// SearchFields implements listing.Record.
func (r *DocumentRequest) SearchFields() []string {
	return append(studentFields(r.Student), r.Type.Label())
}

func (r *DocumentRequest) StatusValue() string { return string(r.Status) }
func (r *DocumentRequest) KindValue() string   { return string(r.Type) }
