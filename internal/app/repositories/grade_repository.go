package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	"github.com/ensab/scolarite/internal/pkg/dberrors"
	"github.com/ensab/scolarite/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const gradeNotFound = "Note introuvable."

// GradeRepository handles module grades
type GradeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGradeRepository creates a new GradeRepository
func NewGradeRepository(db *pgxpool.Pool) *GradeRepository {
	return &GradeRepository{db: db, sb: newBuilder()}
}

var gradeColumns = []string{"id", "student_id", "module", "valeur"}

func scanGrade(row pgx.Row) (*models.Grade, error) {
	g := &models.Grade{}
	return g, row.Scan(&g.ID, &g.StudentID, &g.Module, &g.Value)
}

func gradeWriteError(err error, g *models.Grade, op string) error {
	if dberrors.IsForeignKeyViolation(err) {
		return apperrors.NewCustomError(apperrors.ErrStudentNotFound, "Étudiant introuvable.")
	}
	logger.Error().Err(err).Int64("studentID", g.StudentID).Msgf("Error %s grade", op)
	return fmt.Errorf("error %s grade: %w", op, err)
}

// Create inserts a grade
func (r *GradeRepository) Create(ctx context.Context, g *models.Grade) error {
	sql, args, err := r.sb.Insert("grades").
		Columns(gradeColumns[1:]...).
		Values(g.StudentID, g.Module, g.Value).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return buildError("create grade", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&g.ID); err != nil {
		return gradeWriteError(err, g, "creating")
	}
	return nil
}

// GetByID retrieves a grade
func (r *GradeRepository) GetByID(ctx context.Context, id int64) (*models.Grade, error) {
	sql, args, err := r.sb.Select(gradeColumns...).From("grades").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, buildError("get grade", err)
	}
	g, err := scanGrade(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err, gradeNotFound)
	}
	return g, nil
}

// ListByStudent returns the student's grades ordered by module
func (r *GradeRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Grade, error) {
	sql, args, err := r.sb.Select(gradeColumns...).
		From("grades").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("module", "id").
		ToSql()
	if err != nil {
		return nil, buildError("list grades", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error listing grades")
		return nil, fmt.Errorf("error listing grades: %w", err)
	}
	defer rows.Close()

	grades := []*models.Grade{}
	for rows.Next() {
		g, err := scanGrade(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning grade: %w", err)
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

// Update rewrites a grade
func (r *GradeRepository) Update(ctx context.Context, g *models.Grade) error {
	sql, args, err := r.sb.Update("grades").
		Set("student_id", g.StudentID).
		Set("module", g.Module).
		Set("valeur", g.Value).
		Where(squirrel.Eq{"id": g.ID}).
		ToSql()
	if err != nil {
		return buildError("update grade", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return gradeWriteError(err, g, "updating")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(gradeNotFound)
	}
	return nil
}

// Delete removes a grade
func (r *GradeRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM grades WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Int64("gradeID", id).Msg("Error deleting grade")
		return fmt.Errorf("error deleting grade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(gradeNotFound)
	}
	return nil
}
