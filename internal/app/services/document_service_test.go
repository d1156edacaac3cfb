package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ensab/scolarite/internal/app/auth"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	"github.com/ensab/scolarite/internal/pkg/documents"
)

type documentFixture struct {
	svc      DocumentService
	requests *fakeRequests
	payments *fakePayments
}

func newDocumentFixture() documentFixture {
	f := documentFixture{requests: newFakeRequests(), payments: newFakePayments()}
	students := seedStudents()
	grades := newFakeGrades()
	grades.insert(&models.Grade{StudentID: 1, Module: "Algorithmique", Value: 15})
	f.svc = NewDocumentService(f.requests, f.payments, students, grades,
		documents.NewGenerator(documents.DefaultInstitution, nil), nil, testLogger)
	return f
}

func TestRequestPDFGating(t *testing.T) {
	ctx := context.Background()
	f := newDocumentFixture()
	f.requests.insert(&models.DocumentRequest{StudentID: 1, Type: models.DocumentTranscript, Status: models.RequestPending})
	f.requests.insert(&models.DocumentRequest{StudentID: 1, Type: models.DocumentCertificate, Status: models.RequestApproved})

	tests := []struct {
		name    string
		who     auth.Principal
		id      int64
		wantErr error
	}{
		{"student pending", studentP, 1, apperrors.ErrDocumentNotReady},
		{"admin pending", adminP, 1, nil},
		{"student approved", studentP, 2, nil},
		{"other student", otherP, 2, apperrors.ErrPermissionDenied},
		{"missing", adminP, 9, apperrors.ErrResourceNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := f.svc.RequestPDF(ctx, tt.who, tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(doc.Content, []byte("%PDF")) {
				t.Error("not a PDF")
			}
			if !strings.HasSuffix(doc.Filename, "_El_Amrani.pdf") {
				t.Errorf("filename = %q", doc.Filename)
			}
		})
	}
}

func TestReceiptPDF(t *testing.T) {
	ctx := context.Background()
	f := newDocumentFixture()
	f.payments.insert(&models.Payment{StudentID: 1, Type: models.PaymentTuition, Amount: 1500, Status: models.PaymentUnpaid})

	doc, err := f.svc.ReceiptPDF(ctx, studentP, 1)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Filename != "Recu_Paiement_1_El_Amrani.pdf" {
		t.Errorf("filename = %q", doc.Filename)
	}
	if _, err := f.svc.ReceiptPDF(ctx, otherP, 1); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("foreign receipt = %v", err)
	}
}

func TestIdentityQR(t *testing.T) {
	f := newDocumentFixture()
	png, err := f.svc.IdentityQR(context.Background(), studentP)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("not a PNG")
	}
	if _, err := f.svc.IdentityQR(context.Background(), adminP); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("admin QR = %v", err)
	}
}
