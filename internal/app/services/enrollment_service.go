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

// EnrollmentService handles enrollments
type EnrollmentService interface {
	Create(ctx context.Context, req *dto.CreateEnrollmentRequest) (*models.Enrollment, error)
	CreateForStudent(ctx context.Context, p auth.Principal, req *dto.EnrollmentFields) (*models.Enrollment, error)
	List(ctx context.Context, p auth.Principal, criteria listing.Criteria) ([]*models.Enrollment, error)
	GetByID(ctx context.Context, p auth.Principal, id int64) (*models.Enrollment, error)
	Transition(ctx context.Context, p auth.Principal, id int64, action models.Action) (*models.Enrollment, error)
}

type enrollmentServiceImpl struct {
	enrollmentRepo EnrollmentStore
	studentRepo    StudentStore
	metrics        *metrics.Metrics
	now            Clock
	logger         zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(enrollmentRepo EnrollmentStore, studentRepo StudentStore, m *metrics.Metrics, now Clock, logger zerolog.Logger) EnrollmentService {
	return &enrollmentServiceImpl{
		enrollmentRepo: enrollmentRepo,
		studentRepo:    studentRepo,
		metrics:        m,
		now:            now,
		logger:         logger,
	}
}

// Create enrolls the student selected by id.
func (s *enrollmentServiceImpl) Create(ctx context.Context, req *dto.CreateEnrollmentRequest) (*models.Enrollment, error) {
	if req.StudentID <= 0 {
		return nil, apperrors.NewValidationError("etudiantId", validation.MsgStudent)
	}
	if _, err := s.studentRepo.GetByID(ctx, req.StudentID); err != nil {
		return nil, err
	}
	return s.create(ctx, req.StudentID, &req.EnrollmentFields)
}

func (s *enrollmentServiceImpl) CreateForStudent(ctx context.Context, p auth.Principal, req *dto.EnrollmentFields) (*models.Enrollment, error) {
	if err := p.RequireStudent(); err != nil {
		return nil, err
	}
	return s.create(ctx, p.ProfileID, req)
}

func (s *enrollmentServiceImpl) create(ctx context.Context, studentID int64, req *dto.EnrollmentFields) (*models.Enrollment, error) {
	year := strings.TrimSpace(req.AcademicYear)
	if year == "" {
		return nil, apperrors.NewValidationError("anneeUniversitaire", validation.MsgAcademicYear)
	}
	if !req.Type.Valid() {
		return nil, apperrors.NewValidationError("typeInscription", validation.MsgRequiredFields)
	}
	if !validation.CompiledPatterns.AcademicYear.MatchString(year) {
		s.logger.Debug().Str("year", year).Msg("Academic year outside the YYYY-YYYY convention")
	}

	e := &models.Enrollment{
		StudentID:    studentID,
		Type:         req.Type,
		AcademicYear: year,
		Status:       models.EnrollmentRegistered,
	}
	if err := s.enrollmentRepo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("enrollmentID", e.ID).Int64("studentID", studentID).Str("year", year).Msg("Enrollment created")
	return e, nil
}

func (s *enrollmentServiceImpl) List(ctx context.Context, p auth.Principal, criteria listing.Criteria) ([]*models.Enrollment, error) {
	return listScoped(ctx, p, criteria, s.enrollmentRepo.List)
}

func (s *enrollmentServiceImpl) GetByID(ctx context.Context, p auth.Principal, id int64) (*models.Enrollment, error) {
	e, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.RequireStudentAccess(e.StudentID); err != nil {
		return nil, err
	}
	return e, nil
}

// Transition confirms or cancels an enrollment.
func (s *enrollmentServiceImpl) Transition(ctx context.Context, p auth.Principal, id int64, action models.Action) (*models.Enrollment, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}

	e, err := s.enrollmentRepo.Transition(ctx, id, func(e *models.Enrollment) error {
		return e.Apply(action, p.ProfileID, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Transition(string(models.KindEnrollment), string(action))
	s.logger.Info().Int64("enrollmentID", id).Int64("adminID", p.ProfileID).Str("action", string(action)).
		Str("status", string(e.Status)).Msg("Enrollment processed")
	return e, nil
}
