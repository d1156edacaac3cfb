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

const paymentNotFound = "Paiement introuvable."

// PaymentRepository handles payments
type PaymentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db, sb: newBuilder()}
}

func (r *PaymentRepository) selectPayments() squirrel.SelectBuilder {
	return r.sb.Select(withStudent("p.id", "p.student_id", "p.type_paiement", "p.montant", "p.status", "p.created_at", "p.paid_at")...).
		From("payments p").
		Join("students s ON s.id = p.student_id")
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	p := &models.Payment{Student: &models.Student{}}
	dest := append([]any{&p.ID, &p.StudentID, &p.Type, &p.Amount, &p.Status, &p.CreatedAt, &p.PaidAt},
		studentDest(p.Student)...)
	return p, row.Scan(dest...)
}

// Create records an unpaid payment
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	sql, args, err := r.sb.Insert("payments").
		Columns("student_id", "type_paiement", "montant", "status").
		Values(p.StudentID, p.Type, p.Amount, models.PaymentUnpaid).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return buildError("create payment", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewCustomError(apperrors.ErrStudentNotFound, "Étudiant introuvable.")
		}
		logger.Error().Err(err).Int64("studentID", p.StudentID).Msg("Error creating payment")
		return fmt.Errorf("error creating payment: %w", err)
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

// GetByID retrieves a payment with its student
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	sql, args, err := r.selectPayments().Where(squirrel.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, buildError("get payment", err)
	}
	p, err := scanPayment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err, paymentNotFound)
	}
	return p, nil
}

// List returns payments newest first
func (r *PaymentRepository) List(ctx context.Context, filter RecordFilter) ([]*models.Payment, error) {
	sql, args, err := filter.apply(r.selectPayments(), "p", "type_paiement").
		OrderBy("p.created_at DESC", "p.id DESC").
		ToSql()
	if err != nil {
		return nil, buildError("list payments", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing payments")
		return nil, fmt.Errorf("error listing payments: %w", err)
	}
	defer rows.Close()

	payments := []*models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// Transition locks the payment, lets fn change it and persists the result.
func (r *PaymentRepository) Transition(ctx context.Context, id int64, fn func(*models.Payment) error) (*models.Payment, error) {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.selectPayments().Where(squirrel.Eq{"p.id": id}).Suffix("FOR UPDATE OF p").ToSql()
		if err != nil {
			return buildError("lock payment", err)
		}
		p, err := scanPayment(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			return notFound(err, paymentNotFound)
		}

		if err := fn(p); err != nil {
			return err
		}

		sql, args, err = r.sb.Update("payments").
			Set("status", p.Status).
			Set("paid_at", p.PaidAt).
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return buildError("update payment", err)
		}
		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
