package services

import (
	"context"

	"github.com/ensab/scolarite/internal/app/auth"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/app/repositories"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	"github.com/ensab/scolarite/internal/pkg/listing"
	"github.com/ensab/scolarite/internal/pkg/metrics"
	"github.com/ensab/scolarite/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// RequestService handles document requests
type RequestService interface {
	Create(ctx context.Context, req *dto.CreateRequestRequest) (*models.DocumentRequest, error)
	CreateForStudent(ctx context.Context, p auth.Principal, docType models.DocumentType) (*models.DocumentRequest, error)
	List(ctx context.Context, p auth.Principal, criteria listing.Criteria) ([]*models.DocumentRequest, error)
	GetByID(ctx context.Context, p auth.Principal, id int64) (*models.DocumentRequest, error)
	Transition(ctx context.Context, p auth.Principal, id int64, action models.Action) (*models.DocumentRequest, error)
}

type requestServiceImpl struct {
	requestRepo RequestStore
	studentRepo StudentStore
	metrics     *metrics.Metrics
	now         Clock
	logger      zerolog.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(requestRepo RequestStore, studentRepo StudentStore, m *metrics.Metrics, now Clock, logger zerolog.Logger) RequestService {
	return &requestServiceImpl{
		requestRepo: requestRepo,
		studentRepo: studentRepo,
		metrics:     m,
		now:         now,
		logger:      logger,
	}
}

// Create files a request on behalf of the student designated by the form.
func (s *requestServiceImpl) Create(ctx context.Context, req *dto.CreateRequestRequest) (*models.DocumentRequest, error) {
	student, err := resolveStudent(ctx, s.studentRepo, req.StudentRef)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, student.ID, req.Type)
}

// CreateForStudent files a request for the calling student.
func (s *requestServiceImpl) CreateForStudent(ctx context.Context, p auth.Principal, docType models.DocumentType) (*models.DocumentRequest, error) {
	if err := p.RequireStudent(); err != nil {
		return nil, err
	}
	return s.create(ctx, p.ProfileID, docType)
}

func (s *requestServiceImpl) create(ctx context.Context, studentID int64, docType models.DocumentType) (*models.DocumentRequest, error) {
	if !docType.Valid() {
		return nil, apperrors.NewValidationError("typeDocument", validation.MsgRequiredFields)
	}

	pending, err := s.requestRepo.HasPending(ctx, studentID, docType)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperrors.NewCustomError(apperrors.ErrPendingRequest, repositories.MsgPendingRequest)
	}

	req := &models.DocumentRequest{StudentID: studentID, Type: docType, Status: models.RequestPending}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("requestID", req.ID).Int64("studentID", studentID).Str("type", string(docType)).Msg("Document request created")
	return req, nil
}

func (s *requestServiceImpl) List(ctx context.Context, p auth.Principal, criteria listing.Criteria) ([]*models.DocumentRequest, error) {
	return listScoped(ctx, p, criteria, s.requestRepo.List)
}

func (s *requestServiceImpl) GetByID(ctx context.Context, p auth.Principal, id int64) (*models.DocumentRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.RequireStudentAccess(req.StudentID); err != nil {
		return nil, err
	}
	return req, nil
}

// Transition approves or rejects a pending request.
func (s *requestServiceImpl) Transition(ctx context.Context, p auth.Principal, id int64, action models.Action) (*models.DocumentRequest, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}

	req, err := s.requestRepo.Transition(ctx, id, func(r *models.DocumentRequest) error {
		return r.Apply(action, p.ProfileID, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Transition(string(models.KindRequest), string(action))
	s.logger.Info().Int64("requestID", id).Int64("adminID", p.ProfileID).Str("action", string(action)).
		Str("status", string(req.Status)).Msg("Document request processed")
	return req, nil
}
