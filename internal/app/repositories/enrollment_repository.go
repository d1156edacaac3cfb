package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/db"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	"github.com/ensab/scolarite/internal/pkg/dberrors"
	"github.com/ensab/scolarite/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const enrollmentNotFound = "Inscription introuvable."

// EnrollmentRepository handles enrollments
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db, sb: newBuilder()}
}

func (r *EnrollmentRepository) selectEnrollments() squirrel.SelectBuilder {
	return r.sb.Select(withStudent("e.id", "e.student_id", "e.type_inscription", "e.annee_universitaire", "e.status",
		"e.created_at", "e.confirmed_at", "e.admin_id")...).
		From("enrollments e").
		Join("students s ON s.id = e.student_id")
}

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	e := &models.Enrollment{Student: &models.Student{}}
	dest := append([]any{&e.ID, &e.StudentID, &e.Type, &e.AcademicYear, &e.Status, &e.CreatedAt, &e.ConfirmedAt, &e.AdminID},
		studentDest(e.Student)...)
	return e, row.Scan(dest...)
}

// Create records a registered enrollment
func (r *EnrollmentRepository) Create(ctx context.Context, e *models.Enrollment) error {
	sql, args, err := r.sb.Insert("enrollments").
		Columns("student_id", "type_inscription", "annee_universitaire", "status").
		Values(e.StudentID, e.Type, e.AcademicYear, models.EnrollmentRegistered).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return buildError("create enrollment", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewCustomError(apperrors.ErrStudentNotFound, "Étudiant introuvable.")
		}
		logger.Error().Err(err).Int64("studentID", e.StudentID).Msg("Error creating enrollment")
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*e = *created
	return nil
}

// GetByID retrieves an enrollment with its student
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	sql, args, err := r.selectEnrollments().Where(squirrel.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, buildError("get enrollment", err)
	}
	e, err := scanEnrollment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err, enrollmentNotFound)
	}
	return e, nil
}

// List returns enrollments newest first
func (r *EnrollmentRepository) List(ctx context.Context, filter RecordFilter) ([]*models.Enrollment, error) {
	sql, args, err := filter.apply(r.selectEnrollments(), "e", "type_inscription").
		OrderBy("e.created_at DESC", "e.id DESC").
		ToSql()
	if err != nil {
		return nil, buildError("list enrollments", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing enrollments")
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []*models.Enrollment{}
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// Transition locks the enrollment, lets fn change it and persists the result.
func (r *EnrollmentRepository) Transition(ctx context.Context, id int64, fn func(*models.Enrollment) error) (*models.Enrollment, error) {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.selectEnrollments().Where(squirrel.Eq{"e.id": id}).Suffix("FOR UPDATE OF e").ToSql()
		if err != nil {
			return buildError("lock enrollment", err)
		}
		e, err := scanEnrollment(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			return notFound(err, enrollmentNotFound)
		}

		if err := fn(e); err != nil {
			return err
		}

		sql, args, err = r.sb.Update("enrollments").
			Set("status", e.Status).
			Set("confirmed_at", e.ConfirmedAt).
			Set("admin_id", e.AdminID).
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return buildError("update enrollment", err)
		}
		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
