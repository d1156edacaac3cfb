package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	"github.com/ensab/scolarite/internal/pkg/listing"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	AdminRepository      *AdminRepository
	StudentRepository    *StudentRepository
	RequestRepository    *RequestRepository
	PaymentRepository    *PaymentRepository
	EnrollmentRepository *EnrollmentRepository
	ComplaintRepository  *ComplaintRepository
	GradeRepository      *GradeRepository
	StatsRepository      *StatsRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		AdminRepository:      NewAdminRepository(db),
		StudentRepository:    NewStudentRepository(db),
		RequestRepository:    NewRequestRepository(db),
		PaymentRepository:    NewPaymentRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
		ComplaintRepository:  NewComplaintRepository(db),
		GradeRepository:      NewGradeRepository(db),
		StatsRepository:      NewStatsRepository(db),
	}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// RecordFilter narrows a record listing. StudentID restricts the rows to one
// student; Status and Kind follow the listing conventions.
type RecordFilter struct {
	StudentID int64
	Status    string
	Kind      string
}

// NewRecordFilter builds a filter from listing criteria.
func NewRecordFilter(studentID int64, c listing.Criteria) RecordFilter {
	return RecordFilter{StudentID: studentID, Status: c.Status, Kind: c.Kind}
}

func (f RecordFilter) apply(q squirrel.SelectBuilder, alias, kindColumn string) squirrel.SelectBuilder {
	if f.StudentID > 0 {
		q = q.Where(squirrel.Eq{alias + ".student_id": f.StudentID})
	}
	if listing.Active(f.Status) {
		q = q.Where(squirrel.Eq{alias + ".status": strings.ToUpper(strings.TrimSpace(f.Status))})
	}
	if kindColumn != "" && listing.Active(f.Kind) {
		q = q.Where(squirrel.Eq{alias + "." + kindColumn: strings.ToUpper(strings.TrimSpace(f.Kind))})
	}
	return q
}

// studentColumns are the joined student columns, aliased "s".
var studentColumns = []string{
	"s.id", "s.nom", "s.prenom", "s.email", "s.code_apogee", "s.cin", "s.filiere", "s.niveau", "s.annee_universitaire",
}

func studentDest(s *models.Student) []any {
	return []any{
		&s.ID, &s.LastName, &s.FirstName, &s.Email, &s.CodeApogee, &s.CIN, &s.Program, &s.Level, &s.AcademicYear,
	}
}

func withStudent(columns ...string) []string {
	return append(columns, studentColumns...)
}

// notFound maps pgx.ErrNoRows to a not found error carrying message.
func notFound(err error, message string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewResourceNotFoundError(message)
	}
	return err
}

func buildError(query string, err error) error {
	return fmt.Errorf("failed to build %s query: %w", query, err)
}

// insertUser creates the login behind an admin or a student profile.
func insertUser(ctx context.Context, q querier, sb squirrel.StatementBuilderType, user *models.User) error {
	sql, args, err := sb.Insert("users").
		Columns("username", "password", "role").
		Values(user.Username, user.Password, user.RoleType).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return buildError("insert user", err)
	}
	return q.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt)
}
