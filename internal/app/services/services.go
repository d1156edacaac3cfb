package services

import (
	"context"
	"strings"
	"time"

	"github.com/ensab/scolarite/internal/app/auth"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/app/repositories"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	"github.com/ensab/scolarite/internal/pkg/listing"
)

// Services defined in this package:
// - AuthService: login and token issuing
// - StudentService, AdminService: account management
// - RequestService, PaymentService, EnrollmentService, ComplaintService:
//   record creation, listing and status transitions
// - GradeService: module marks
// - DocumentService: PDF documents and identity QR codes
// - StatsService: administration dashboard

// Clock returns the current time.
type Clock func() time.Time

// UserStore is the login account storage used by the services.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	ProfileID(ctx context.Context, user *models.User) (int64, error)
	CountAdmins(ctx context.Context) (int64, error)
}

// StudentStore persists students and their login accounts.
type StudentStore interface {
	Create(ctx context.Context, student *models.Student, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	FindByIdentity(ctx context.Context, email string, codeApogee int64, cin string) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

// AdminStore persists administrators and their login accounts.
type AdminStore interface {
	Create(ctx context.Context, admin *models.Admin, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
	List(ctx context.Context) ([]*models.Admin, error)
	Update(ctx context.Context, admin *models.Admin, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

// RequestStore persists document requests.
type RequestStore interface {
	Create(ctx context.Context, req *models.DocumentRequest) error
	HasPending(ctx context.Context, studentID int64, docType models.DocumentType) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.DocumentRequest, error)
	List(ctx context.Context, filter repositories.RecordFilter) ([]*models.DocumentRequest, error)
	Transition(ctx context.Context, id int64, fn func(*models.DocumentRequest) error) (*models.DocumentRequest, error)
}

// PaymentStore persists payments.
type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id int64) (*models.Payment, error)
	List(ctx context.Context, filter repositories.RecordFilter) ([]*models.Payment, error)
	Transition(ctx context.Context, id int64, fn func(*models.Payment) error) (*models.Payment, error)
}

// EnrollmentStore persists enrollments.
type EnrollmentStore interface {
	Create(ctx context.Context, e *models.Enrollment) error
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	List(ctx context.Context, filter repositories.RecordFilter) ([]*models.Enrollment, error)
	Transition(ctx context.Context, id int64, fn func(*models.Enrollment) error) (*models.Enrollment, error)
}

// ComplaintStore persists complaints.
type ComplaintStore interface {
	Create(ctx context.Context, c *models.Complaint) error
	GetByID(ctx context.Context, id int64) (*models.Complaint, error)
	List(ctx context.Context, filter repositories.RecordFilter) ([]*models.Complaint, error)
	Transition(ctx context.Context, id int64, fn func(*models.Complaint) error) (*models.Complaint, error)
}

// GradeStore persists grades.
type GradeStore interface {
	Create(ctx context.Context, g *models.Grade) error
	GetByID(ctx context.Context, id int64) (*models.Grade, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Grade, error)
	Update(ctx context.Context, g *models.Grade) error
	Delete(ctx context.Context, id int64) error
}

// StatsStore computes dashboard aggregates.
type StatsStore interface {
	CountByStatus(ctx context.Context, table string) (map[string]int64, error)
	AverageDays(ctx context.Context, table, doneColumn string) (float64, error)
	CountStudents(ctx context.Context) (int64, error)
	MonthlyRequests(ctx context.Context) (map[string]map[string]int64, error)
}

// resolveStudent finds the student designated by an administration form.
func resolveStudent(ctx context.Context, students StudentStore, ref dto.StudentRef) (*models.Student, error) {
	return students.FindByIdentity(ctx, strings.TrimSpace(ref.Email), ref.CodeApogee, strings.TrimSpace(ref.CIN))
}

// studentScope returns the student whose records p may list, or 0 for all.
func studentScope(p auth.Principal) (int64, error) {
	switch {
	case p.IsAdmin():
		return 0, nil
	case p.IsStudent():
		return p.ProfileID, nil
	}
	return 0, apperrors.NewForbiddenError("Accès refusé.")
}

// listScoped loads the records visible to p and applies criteria. Status and
// kind are filtered by the query; the free-text term is matched here.
func listScoped[T listing.Record](ctx context.Context, p auth.Principal, criteria listing.Criteria,
	load func(context.Context, repositories.RecordFilter) ([]T, error)) ([]T, error) {
	studentID, err := studentScope(p)
	if err != nil {
		return nil, err
	}
	records, err := load(ctx, repositories.NewRecordFilter(studentID, criteria))
	if err != nil {
		return nil, err
	}
	return listing.Apply(records, criteria), nil
}
