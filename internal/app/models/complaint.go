package models

import (
	"strings"
	"time"

	"github.com/ensab/scolarite/internal/pkg/apperrors"
	"github.com/ensab/scolarite/internal/pkg/datefmt"
	"github.com/ensab/scolarite/internal/pkg/validation"
)

// Complaint is a free-text grievance answered by the administration.
type Complaint struct {
	ID          int64           `json:"id" db:"id"`
	StudentID   int64           `json:"etudiantId" db:"student_id"`
	Student     *Student        `json:"etudiant,omitempty"`
	Subject     string          `json:"sujet" db:"sujet"`
	Message     string          `json:"message" db:"message"`
	Status      ComplaintStatus `json:"status" db:"status"`
	CreatedAt   datefmt.Date    `json:"dateCreation" db:"created_at"`
	ProcessedAt datefmt.Date    `json:"dateTraitement" db:"processed_at"`
	Response    *string         `json:"reponse" db:"reponse"`
}

// Treat answers the complaint. The response must not be blank.
func (c *Complaint) Treat(response string, at time.Time) error {
	response = strings.TrimSpace(response)
	if response == "" {
		return apperrors.NewValidationError("reponse", validation.MsgResponse)
	}
	next, err := nextStatus(KindComplaint, ActionTreat, c.Status)
	if err != nil {
		return err
	}
	c.Status = next
	c.Response = &response
	c.ProcessedAt = datefmt.NewDate(at)
	return nil
}

// Actions lists the transitions currently legal for c.
func (c *Complaint) Actions() []Action {
	return AvailableActions(KindComplaint, string(c.Status))
}

// SearchFields implements listing.Record.
func (c *Complaint) SearchFields() []string {
	return append(studentFields(c.Student), c.Subject, c.Message)
}

func (c *Complaint) StatusValue() string { return string(c.Status) }
func (c *Complaint) KindValue() string   { return "" }
