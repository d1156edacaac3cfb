package services

import (
	"context"
	"math"
	"strings"

	"github.com/ensab/scolarite/internal/app/auth"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	"github.com/ensab/scolarite/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// GradeService manages module grades
type GradeService interface {
	Create(ctx context.Context, req *dto.GradeRequest) (*models.Grade, error)
	Update(ctx context.Context, id int64, req *dto.GradeRequest) (*models.Grade, error)
	Delete(ctx context.Context, id int64) error
	ListByStudent(ctx context.Context, p auth.Principal, studentID int64) ([]*models.Grade, error)
}

type gradeServiceImpl struct {
	gradeRepo   GradeStore
	studentRepo StudentStore
	logger      zerolog.Logger
}

// NewGradeService creates a new GradeService
func NewGradeService(gradeRepo GradeStore, studentRepo StudentStore, logger zerolog.Logger) GradeService {
	return &gradeServiceImpl{gradeRepo: gradeRepo, studentRepo: studentRepo, logger: logger}
}

func normalizeGrade(req *dto.GradeRequest) (*models.Grade, error) {
	if req.StudentID <= 0 {
		return nil, apperrors.NewValidationError("etudiantId", validation.MsgStudent)
	}
	module := strings.TrimSpace(req.Module)
	if module == "" {
		return nil, apperrors.NewValidationError("module", validation.MsgRequiredFields)
	}
	if req.Value == nil || math.IsNaN(*req.Value) || !validation.ValidGrade(*req.Value) {
		return nil, apperrors.NewValidationError("valeur", validation.MsgGrade)
	}
	return &models.Grade{StudentID: req.StudentID, Module: module, Value: *req.Value}, nil
}

func (s *gradeServiceImpl) Create(ctx context.Context, req *dto.GradeRequest) (*models.Grade, error) {
	g, err := normalizeGrade(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.studentRepo.GetByID(ctx, g.StudentID); err != nil {
		return nil, err
	}
	if err := s.gradeRepo.Create(ctx, g); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("gradeID", g.ID).Int64("studentID", g.StudentID).Str("module", g.Module).Msg("Grade created")
	return g, nil
}

func (s *gradeServiceImpl) Update(ctx context.Context, id int64, req *dto.GradeRequest) (*models.Grade, error) {
	g, err := normalizeGrade(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.gradeRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	g.ID = id
	if err := s.gradeRepo.Update(ctx, g); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("gradeID", id).Msg("Grade updated")
	return g, nil
}

func (s *gradeServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.gradeRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("gradeID", id).Msg("Grade deleted")
	return nil
}

// ListByStudent returns the grades of studentID, which a student may only
// read for themselves.
func (s *gradeServiceImpl) ListByStudent(ctx context.Context, p auth.Principal, studentID int64) ([]*models.Grade, error) {
	if err := p.RequireStudentAccess(studentID); err != nil {
		return nil, err
	}
	return s.gradeRepo.ListByStudent(ctx, studentID)
}
