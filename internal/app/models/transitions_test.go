package models

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ensab/scolarite/internal/pkg/apperrors"
)

func TestAvailableActions(t *testing.T) {
	tests := []struct {
		kind   EntityKind
		status string
		want   []Action
	}{
		{KindRequest, string(RequestPending), []Action{ActionApprove, ActionReject}},
		{KindRequest, string(RequestApproved), nil},
		{KindRequest, string(RequestRejected), nil},
		{KindPayment, string(PaymentUnpaid), []Action{ActionPay, ActionCancel}},
		{KindPayment, string(PaymentInProgress), []Action{ActionPay}},
		{KindPayment, string(PaymentPaid), []Action{ActionCancel}},
		{KindEnrollment, string(EnrollmentRegistered), []Action{ActionConfirm, ActionCancel}},
		{KindEnrollment, string(EnrollmentConfirmed), []Action{ActionCancel}},
		{KindEnrollment, string(EnrollmentCancelled), []Action{ActionConfirm}},
		{KindComplaint, string(ComplaintPending), []Action{ActionTreat}},
		{KindComplaint, string(ComplaintProcessed), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.status, func(t *testing.T) {
			if got := AvailableActions(tt.kind, tt.status); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AvailableActions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequestApply(t *testing.T) {
	at := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	r := &DocumentRequest{Status: RequestPending}
	if r.ProcessedAt.Valid || r.AdminID != nil {
		t.Fatal("pending request must not carry processing stamps")
	}
	if err := r.Apply(ActionApprove, 7, at); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if r.Status != RequestApproved || !r.ProcessedAt.Valid || r.AdminID == nil || *r.AdminID != 7 {
		t.Fatalf("unexpected request after approve: %+v", r)
	}

	err := r.Apply(ActionReject, 7, at)
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("reject after approve: err = %v, want ErrInvalidTransition", err)
	}
	if r.Status != RequestApproved {
		t.Errorf("failed transition changed status to %s", r.Status)
	}
}

func TestPaymentApply(t *testing.T) {
	at := time.Now()

	p := &Payment{Status: PaymentInProgress}
	if err := p.Apply(ActionCancel, at); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("cancel in progress: err = %v", err)
	}
	if err := p.Apply(ActionPay, at); err != nil || p.Status != PaymentPaid || !p.PaidAt.Valid {
		t.Fatalf("pay: err = %v, payment = %+v", err, p)
	}
	if err := p.Apply(ActionPay, at); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("double pay: err = %v", err)
	}
	if err := p.Apply(ActionCancel, at); err != nil || p.Status != PaymentUnpaid || p.PaidAt.Valid {
		t.Fatalf("cancel paid: err = %v, payment = %+v", err, p)
	}
}

func TestEnrollmentApply(t *testing.T) {
	e := &Enrollment{Status: EnrollmentRegistered}
	steps := []struct {
		action Action
		want   EnrollmentStatus
	}{
		{ActionConfirm, EnrollmentConfirmed},
		{ActionCancel, EnrollmentCancelled},
		{ActionConfirm, EnrollmentConfirmed},
	}
	for _, s := range steps {
		if err := e.Apply(s.action, 3, time.Now()); err != nil {
			t.Fatalf("%s: %v", s.action, err)
		}
		if e.Status != s.want || !e.ConfirmedAt.Valid || *e.AdminID != 3 {
			t.Fatalf("%s: enrollment = %+v", s.action, e)
		}
	}
	if err := e.Apply(ActionConfirm, 3, time.Now()); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("confirm twice: err = %v", err)
	}
	if err := e.Apply(ActionPay, 3, time.Now()); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("foreign action: err = %v", err)
	}
}

func TestComplaintTreat(t *testing.T) {
	c := &Complaint{Status: ComplaintPending}

	if err := c.Treat("   ", time.Now()); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("blank response: err = %v", err)
	}
	if c.Status != ComplaintPending {
		t.Fatal("blank response changed status")
	}
	if err := c.Treat(" Dossier régularisé ", time.Now()); err != nil {
		t.Fatalf("treat: %v", err)
	}
	if c.Status != ComplaintProcessed || *c.Response != "Dossier régularisé" || !c.ProcessedAt.Valid {
		t.Fatalf("complaint = %+v", c)
	}
	if err := c.Treat("encore", time.Now()); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("treat twice: err = %v", err)
	}
}

func TestDownloadableBy(t *testing.T) {
	for _, status := range []RequestStatus{RequestPending, RequestApproved, RequestRejected} {
		r := &DocumentRequest{Status: status}
		if !r.DownloadableBy(RoleAdmin) {
			t.Errorf("admin gated on %s", status)
		}
		if got, want := r.DownloadableBy(RoleStudent), status == RequestApproved; got != want {
			t.Errorf("student DownloadableBy(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestAverage(t *testing.T) {
	if _, ok := Average(nil); ok {
		t.Fatal("Average(nil) reported grades")
	}
	mean, ok := Average([]*Grade{{Value: 16}, {Value: 10}, {Value: 13}})
	if !ok || mean != 13 {
		t.Fatalf("Average() = %v, %v", mean, ok)
	}
}
