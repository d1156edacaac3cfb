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

// MsgPendingRequest is returned when a student already waits for the same document.
const MsgPendingRequest = "Une demande en attente existe déjà pour cet étudiant."

const requestNotFound = "Demande introuvable."

// RequestRepository handles document requests
type RequestRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{db: db, sb: newBuilder()}
}

func (r *RequestRepository) selectRequests() squirrel.SelectBuilder {
	return r.sb.Select(withStudent("d.id", "d.student_id", "d.type_document", "d.status", "d.created_at", "d.processed_at", "d.admin_id")...).
		From("document_requests d").
		Join("students s ON s.id = d.student_id")
}

func scanRequest(row pgx.Row) (*models.DocumentRequest, error) {
	req := &models.DocumentRequest{Student: &models.Student{}}
	dest := append([]any{&req.ID, &req.StudentID, &req.Type, &req.Status, &req.CreatedAt, &req.ProcessedAt, &req.AdminID},
		studentDest(req.Student)...)
	return req, row.Scan(dest...)
}

// Create files a pending request. At most one pending request may exist per
// student and document type.
func (r *RequestRepository) Create(ctx context.Context, req *models.DocumentRequest) error {
	sql, args, err := r.sb.Insert("document_requests").
		Columns("student_id", "type_document", "status").
		Values(req.StudentID, req.Type, models.RequestPending).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return buildError("create request", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "document_requests_pending_key") {
			return apperrors.NewCustomError(apperrors.ErrPendingRequest, MsgPendingRequest)
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewCustomError(apperrors.ErrStudentNotFound, "Étudiant introuvable.")
		}
		logger.Error().Err(err).Int64("studentID", req.StudentID).Msg("Error creating request")
		return fmt.Errorf("error creating request: %w", err)
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*req = *created
	return nil
}

// HasPending reports whether the student already waits for docType.
func (r *RequestRepository) HasPending(ctx context.Context, studentID int64, docType models.DocumentType) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM document_requests WHERE student_id = $1 AND type_document = $2 AND status = $3)`,
		studentID, docType, models.RequestPending).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking pending requests: %w", err)
	}
	return exists, nil
}

// GetByID retrieves a request with its student
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.DocumentRequest, error) {
	sql, args, err := r.selectRequests().Where(squirrel.Eq{"d.id": id}).ToSql()
	if err != nil {
		return nil, buildError("get request", err)
	}
	req, err := scanRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err, requestNotFound)
	}
	return req, nil
}

// List returns requests newest first
func (r *RequestRepository) List(ctx context.Context, filter RecordFilter) ([]*models.DocumentRequest, error) {
	sql, args, err := filter.apply(r.selectRequests(), "d", "type_document").
		OrderBy("d.created_at DESC", "d.id DESC").
		ToSql()
	if err != nil {
		return nil, buildError("list requests", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing requests")
		return nil, fmt.Errorf("error listing requests: %w", err)
	}
	defer rows.Close()

	requests := []*models.DocumentRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Transition locks the request, lets fn change it and persists the result.
func (r *RequestRepository) Transition(ctx context.Context, id int64, fn func(*models.DocumentRequest) error) (*models.DocumentRequest, error) {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.selectRequests().Where(squirrel.Eq{"d.id": id}).Suffix("FOR UPDATE OF d").ToSql()
		if err != nil {
			return buildError("lock request", err)
		}
		req, err := scanRequest(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			return notFound(err, requestNotFound)
		}

		if err := fn(req); err != nil {
			return err
		}

		sql, args, err = r.sb.Update("document_requests").
			Set("status", req.Status).
			Set("processed_at", req.ProcessedAt).
			Set("admin_id", req.AdminID).
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return buildError("update request", err)
		}
		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
