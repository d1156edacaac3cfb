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

const complaintNotFound = "Réclamation introuvable."

// ComplaintRepository handles complaints
type ComplaintRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewComplaintRepository creates a new ComplaintRepository
func NewComplaintRepository(db *pgxpool.Pool) *ComplaintRepository {
	return &ComplaintRepository{db: db, sb: newBuilder()}
}

func (r *ComplaintRepository) selectComplaints() squirrel.SelectBuilder {
	return r.sb.Select(withStudent("c.id", "c.student_id", "c.sujet", "c.message", "c.status", "c.created_at",
		"c.processed_at", "c.reponse")...).
		From("complaints c").
		Join("students s ON s.id = c.student_id")
}

func scanComplaint(row pgx.Row) (*models.Complaint, error) {
	c := &models.Complaint{Student: &models.Student{}}
	dest := append([]any{&c.ID, &c.StudentID, &c.Subject, &c.Message, &c.Status, &c.CreatedAt, &c.ProcessedAt, &c.Response},
		studentDest(c.Student)...)
	return c, row.Scan(dest...)
}

// Create records a pending complaint
func (r *ComplaintRepository) Create(ctx context.Context, c *models.Complaint) error {
	sql, args, err := r.sb.Insert("complaints").
		Columns("student_id", "sujet", "message", "status").
		Values(c.StudentID, c.Subject, c.Message, models.ComplaintPending).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return buildError("create complaint", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewCustomError(apperrors.ErrStudentNotFound, "Étudiant introuvable.")
		}
		logger.Error().Err(err).Int64("studentID", c.StudentID).Msg("Error creating complaint")
		return fmt.Errorf("error creating complaint: %w", err)
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*c = *created
	return nil
}

// GetByID retrieves a complaint with its student
func (r *ComplaintRepository) GetByID(ctx context.Context, id int64) (*models.Complaint, error) {
	sql, args, err := r.selectComplaints().Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, buildError("get complaint", err)
	}
	c, err := scanComplaint(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err, complaintNotFound)
	}
	return c, nil
}

// List returns complaints newest first
func (r *ComplaintRepository) List(ctx context.Context, filter RecordFilter) ([]*models.Complaint, error) {
	sql, args, err := filter.apply(r.selectComplaints(), "c", "").
		OrderBy("c.created_at DESC", "c.id DESC").
		ToSql()
	if err != nil {
		return nil, buildError("list complaints", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing complaints")
		return nil, fmt.Errorf("error listing complaints: %w", err)
	}
	defer rows.Close()

	complaints := []*models.Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning complaint: %w", err)
		}
		complaints = append(complaints, c)
	}
	return complaints, rows.Err()
}

// Transition locks the complaint, lets fn change it and persists the result.
func (r *ComplaintRepository) Transition(ctx context.Context, id int64, fn func(*models.Complaint) error) (*models.Complaint, error) {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.selectComplaints().Where(squirrel.Eq{"c.id": id}).Suffix("FOR UPDATE OF c").ToSql()
		if err != nil {
			return buildError("lock complaint", err)
		}
		c, err := scanComplaint(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			return notFound(err, complaintNotFound)
		}

		if err := fn(c); err != nil {
			return err
		}

		sql, args, err = r.sb.Update("complaints").
			Set("status", c.Status).
			Set("processed_at", c.ProcessedAt).
			Set("reponse", c.Response).
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return buildError("update complaint", err)
		}
		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
