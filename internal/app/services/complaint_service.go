package services

import (
	"context"
	"strings"

	"github.com/ensab/scolarite/internal/app/auth"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	"github.com/ensab/scolarite/internal/pkg/listing"
	"github.com/ensab/scolarite/internal/pkg/metrics"
	"github.com/ensab/scolarite/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// ComplaintService handles student complaints
type ComplaintService interface {
	Create(ctx context.Context, req *dto.CreateComplaintRequest) (*models.Complaint, error)
	CreateForStudent(ctx context.Context, p auth.Principal, req *dto.ComplaintFields) (*models.Complaint, error)
	List(ctx context.Context, p auth.Principal, criteria listing.Criteria) ([]*models.Complaint, error)
	GetByID(ctx context.Context, p auth.Principal, id int64) (*models.Complaint, error)
	Treat(ctx context.Context, p auth.Principal, id int64, response string) (*models.Complaint, error)
}

type complaintServiceImpl struct {
	complaintRepo ComplaintStore
	studentRepo   StudentStore
	metrics       *metrics.Metrics
	now           Clock
	logger        zerolog.Logger
}

// NewComplaintService creates a new ComplaintService
func NewComplaintService(complaintRepo ComplaintStore, studentRepo StudentStore, m *metrics.Metrics, now Clock, logger zerolog.Logger) ComplaintService {
	return &complaintServiceImpl{
		complaintRepo: complaintRepo,
		studentRepo:   studentRepo,
		metrics:       m,
		now:           now,
		logger:        logger,
	}
}

func (s *complaintServiceImpl) Create(ctx context.Context, req *dto.CreateComplaintRequest) (*models.Complaint, error) {
	student, err := resolveStudent(ctx, s.studentRepo, req.StudentRef)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, student.ID, &req.ComplaintFields)
}

func (s *complaintServiceImpl) CreateForStudent(ctx context.Context, p auth.Principal, req *dto.ComplaintFields) (*models.Complaint, error) {
	if err := p.RequireStudent(); err != nil {
		return nil, err
	}
	return s.create(ctx, p.ProfileID, req)
}

func (s *complaintServiceImpl) create(ctx context.Context, studentID int64, req *dto.ComplaintFields) (*models.Complaint, error) {
	subject := strings.TrimSpace(req.Subject)
	message := strings.TrimSpace(req.Message)
	if validation.Blank(subject, message) {
		return nil, apperrors.NewValidationError("", validation.MsgRequiredFields)
	}

	c := &models.Complaint{
		StudentID: studentID,
		Subject:   subject,
		Message:   message,
		Status:    models.ComplaintPending,
	}
	if err := s.complaintRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("complaintID", c.ID).Int64("studentID", studentID).Msg("Complaint created")
	return c, nil
}

// List ignores the kind filter; complaints have no type.
func (s *complaintServiceImpl) List(ctx context.Context, p auth.Principal, criteria listing.Criteria) ([]*models.Complaint, error) {
	criteria.Kind = ""
	return listScoped(ctx, p, criteria, s.complaintRepo.List)
}

func (s *complaintServiceImpl) GetByID(ctx context.Context, p auth.Principal, id int64) (*models.Complaint, error) {
	c, err := s.complaintRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.RequireStudentAccess(c.StudentID); err != nil {
		return nil, err
	}
	return c, nil
}

// Treat answers a pending complaint.
func (s *complaintServiceImpl) Treat(ctx context.Context, p auth.Principal, id int64, response string) (*models.Complaint, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(response) == "" {
		return nil, apperrors.NewValidationError("reponse", validation.MsgResponse)
	}

	c, err := s.complaintRepo.Transition(ctx, id, func(c *models.Complaint) error {
		return c.Treat(response, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Transition(string(models.KindComplaint), string(models.ActionTreat))
	s.logger.Info().Int64("complaintID", id).Int64("adminID", p.ProfileID).Msg("Complaint treated")
	return c, nil
}
