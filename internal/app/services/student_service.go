package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ensab/scolarite/internal/app/auth"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	pkgauth "github.com/ensab/scolarite/internal/pkg/auth"
	"github.com/ensab/scolarite/internal/pkg/listing"
	"github.com/ensab/scolarite/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// DefaultStudentPassword is the initial password of every student account.
const DefaultStudentPassword = pkgauth.DefaultStudentPassword

// StudentService manages student profiles and their login accounts
type StudentService interface {
	Create(ctx context.Context, req *dto.StudentRequest) (*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context, criteria listing.Criteria) ([]*models.Student, error)
	Update(ctx context.Context, id int64, req *dto.StudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
	Profile(ctx context.Context, p auth.Principal) (*models.Student, error)
}

type studentServiceImpl struct {
	studentRepo StudentStore
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(studentRepo StudentStore, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{studentRepo: studentRepo, logger: logger}
}

// normalizeStudent trims the request and checks what the binding tags cannot.
func normalizeStudent(req *dto.StudentRequest) (*models.Student, error) {
	s := req.ToModel()
	s.LastName = strings.TrimSpace(s.LastName)
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.Email = strings.TrimSpace(s.Email)
	s.CIN = strings.TrimSpace(s.CIN)
	s.Program = strings.TrimSpace(s.Program)
	s.Level = strings.TrimSpace(s.Level)
	s.AcademicYear = strings.TrimSpace(s.AcademicYear)

	if validation.Blank(s.LastName, s.FirstName, s.Email, s.CIN, s.Program, s.Level, s.AcademicYear) {
		return nil, apperrors.NewValidationError("", validation.MsgRequiredFields)
	}
	if !validation.ValidCodeApogee(s.CodeApogee) {
		return nil, apperrors.NewValidationError("codeApogee", validation.MsgCodeApogee)
	}
	if !validation.CompiledPatterns.Email.MatchString(s.Email) {
		return nil, apperrors.NewValidationError("email", validation.MsgEmail)
	}
	return s, nil
}

// Create registers a student. The login username is the email and the
// password starts as DefaultStudentPassword.
func (s *studentServiceImpl) Create(ctx context.Context, req *dto.StudentRequest) (*models.Student, error) {
	student, err := normalizeStudent(req)
	if err != nil {
		return nil, err
	}

	hash, err := pkgauth.HashPassword(DefaultStudentPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{Username: student.Email, Password: hash, RoleType: models.RoleStudent}

	if err := s.studentRepo.Create(ctx, student, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", student.ID).Str("email", student.Email).Msg("Student created")
	return student, nil
}

func (s *studentServiceImpl) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// List returns the students matching criteria, ordered by name.
func (s *studentServiceImpl) List(ctx context.Context, criteria listing.Criteria) ([]*models.Student, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return listing.Apply(students, criteria), nil
}

func (s *studentServiceImpl) Update(ctx context.Context, id int64, req *dto.StudentRequest) (*models.Student, error) {
	student, err := normalizeStudent(req)
	if err != nil {
		return nil, err
	}
	student.ID = id

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("studentID", id).Msg("Student updated")
	return student, nil
}

func (s *studentServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}

// Profile returns the caller's own student record.
func (s *studentServiceImpl) Profile(ctx context.Context, p auth.Principal) (*models.Student, error) {
	if err := p.RequireStudent(); err != nil {
		return nil, err
	}
	return s.studentRepo.GetByID(ctx, p.ProfileID)
}
