package models

import (
	"strconv"
	"time"

	"github.com/ensab/scolarite/internal/pkg/datefmt"
)

// Payment is a fee owed or settled by a student.
type Payment struct {
	ID        int64         `json:"id" db:"id"`
	StudentID int64         `json:"etudiantId" db:"student_id"`
	Student   *Student      `json:"etudiant,omitempty"`
	Type      PaymentType   `json:"typePaiement" db:"type_paiement"`
	Amount    float64       `json:"montant" db:"montant"`
	Status    PaymentStatus `json:"status" db:"status"`
	CreatedAt datefmt.Date  `json:"dateCreation" db:"created_at"`
	PaidAt    datefmt.Date  `json:"datePaiement" db:"paid_at"`
}

// Apply marks the payment paid or cancels it. Cancelling resets the payment
// to unpaid and clears its payment date.
func (p *Payment) Apply(action Action, at time.Time) error {
	next, err := nextStatus(KindPayment, action, p.Status)
	if err != nil {
		return err
	}
	p.Status = next
	if next == PaymentPaid {
		p.PaidAt = datefmt.NewDate(at)
	} else {
		p.PaidAt = datefmt.Date{}
	}
	return nil
}

// ReceiptDate is the date printed on the receipt: the payment date when
// known, else the creation date.
func (p *Payment) ReceiptDate() datefmt.Date {
	if p.PaidAt.Valid {
		return p.PaidAt
	}
	return p.CreatedAt
}

// Actions lists the transitions currently legal for p.
func (p *Payment) Actions() []Action {
	return AvailableActions(KindPayment, string(p.Status))
}

// SearchFields implements listing.Record.
func (p *Payment) SearchFields() []string {
	return append(studentFields(p.Student), strconv.FormatInt(p.ID, 10))
}

func (p *Payment) StatusValue() string { return string(p.Status) }
func (p *Payment) KindValue() string   { return string(p.Type) }
