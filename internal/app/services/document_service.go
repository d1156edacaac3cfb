package services

import (
	"context"
	"fmt"

	"github.com/ensab/scolarite/internal/app/auth"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/pkg/documents"
	"github.com/ensab/scolarite/internal/pkg/metrics"
	"github.com/rs/zerolog"
)

// Document labels used by the generation counter.
const (
	DocumentReceipt    = "recu"
	DocumentIdentityQR = "qr_identite"
)

// DocumentService renders PDF documents and identity codes
type DocumentService interface {
	RequestPDF(ctx context.Context, p auth.Principal, requestID int64) (*documents.Document, error)
	ReceiptPDF(ctx context.Context, p auth.Principal, paymentID int64) (*documents.Document, error)
	IdentityQR(ctx context.Context, p auth.Principal) ([]byte, error)
}

type documentServiceImpl struct {
	requestRepo RequestStore
	paymentRepo PaymentStore
	studentRepo StudentStore
	gradeRepo   GradeStore
	generator   *documents.Generator
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	requestRepo RequestStore,
	paymentRepo PaymentStore,
	studentRepo StudentStore,
	gradeRepo GradeStore,
	generator *documents.Generator,
	m *metrics.Metrics,
	logger zerolog.Logger,
) DocumentService {
	return &documentServiceImpl{
		requestRepo: requestRepo,
		paymentRepo: paymentRepo,
		studentRepo: studentRepo,
		gradeRepo:   gradeRepo,
		generator:   generator,
		metrics:     m,
		logger:      logger,
	}
}

func (s *documentServiceImpl) student(ctx context.Context, embedded *models.Student, id int64) (*models.Student, error) {
	if embedded != nil && embedded.ID == id {
		return embedded, nil
	}
	return s.studentRepo.GetByID(ctx, id)
}

// RequestPDF renders the document of a request. Students only get documents
// of their own approved requests.
func (s *documentServiceImpl) RequestPDF(ctx context.Context, p auth.Principal, requestID int64) (*documents.Document, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := p.AuthorizeDocument(req); err != nil {
		return nil, err
	}

	student, err := s.student(ctx, req.Student, req.StudentID)
	if err != nil {
		return nil, err
	}

	var grades []*models.Grade
	if req.Type == models.DocumentTranscript {
		if grades, err = s.gradeRepo.ListByStudent(ctx, student.ID); err != nil {
			return nil, err
		}
	}

	doc, err := s.generator.Request(req, student, grades)
	if err != nil {
		s.logger.Error().Err(err).Int64("requestID", requestID).Msg("Failed to render document")
		return nil, fmt.Errorf("failed to render document: %w", err)
	}

	s.metrics.Document(string(req.Type))
	s.logger.Info().Int64("requestID", requestID).Str("reference", doc.Reference).Str("file", doc.Filename).Msg("Document generated")
	return doc, nil
}

// ReceiptPDF renders the receipt of a payment the caller may read.
func (s *documentServiceImpl) ReceiptPDF(ctx context.Context, p auth.Principal, paymentID int64) (*documents.Document, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := p.RequireStudentAccess(payment.StudentID); err != nil {
		return nil, err
	}

	student, err := s.student(ctx, payment.Student, payment.StudentID)
	if err != nil {
		return nil, err
	}

	doc, err := s.generator.Receipt(payment, student)
	if err != nil {
		s.logger.Error().Err(err).Int64("paymentID", paymentID).Msg("Failed to render receipt")
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}

	s.metrics.Document(DocumentReceipt)
	s.logger.Info().Int64("paymentID", paymentID).Str("reference", doc.Reference).Msg("Receipt generated")
	return doc, nil
}

// IdentityQR encodes the calling student's identity card.
func (s *documentServiceImpl) IdentityQR(ctx context.Context, p auth.Principal) ([]byte, error) {
	if err := p.RequireStudent(); err != nil {
		return nil, err
	}
	student, err := s.studentRepo.GetByID(ctx, p.ProfileID)
	if err != nil {
		return nil, err
	}
	png, err := documents.IdentityQR(student.Identity())
	if err != nil {
		return nil, err
	}
	s.metrics.Document(DocumentIdentityQR)
	return png, nil
}
