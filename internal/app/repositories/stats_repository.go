package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/ensab/scolarite/internal/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record tables that carry a status column
const (
	TableRequests    = "document_requests"
	TablePayments    = "payments"
	TableEnrollments = "enrollments"
	TableComplaints  = "complaints"
)

// StatsRepository runs the aggregate queries behind the dashboard
type StatsRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db, sb: newBuilder()}
}

// CountByStatus returns the number of rows of table per status value.
func (r *StatsRepository) CountByStatus(ctx context.Context, table string) (map[string]int64, error) {
	sql, args, err := r.sb.Select("status", "COUNT(*)").From(table).GroupBy("status").ToSql()
	if err != nil {
		return nil, buildError("count by status", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error counting by status")
		return nil, fmt.Errorf("error counting %s: %w", table, err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("error scanning %s counts: %w", table, err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// AverageDays returns the mean number of days between created_at and
// doneColumn over rows where doneColumn is set, or 0 when none is.
func (r *StatsRepository) AverageDays(ctx context.Context, table, doneColumn string) (float64, error) {
	sql, args, err := r.sb.
		Select(fmt.Sprintf("COALESCE(AVG(EXTRACT(EPOCH FROM (%s - created_at)) / 86400), 0)::float8", doneColumn)).
		From(table).
		Where(squirrel.NotEq{doneColumn: nil}).
		ToSql()
	if err != nil {
		return 0, buildError("average days", err)
	}

	var days float64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&days); err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error computing average processing time")
		return 0, fmt.Errorf("error averaging %s: %w", table, err)
	}
	return days, nil
}

// CountStudents returns the number of students
func (r *StatsRepository) CountStudents(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return n, nil
}

// MonthlyRequests counts requests per creation month ("2006-01") and document type.
func (r *StatsRepository) MonthlyRequests(ctx context.Context) (map[string]map[string]int64, error) {
	sql, args, err := r.sb.Select("to_char(created_at, 'YYYY-MM') AS month", "type_document", "COUNT(*)").
		From(TableRequests).
		GroupBy("month", "type_document").
		OrderBy("month").
		ToSql()
	if err != nil {
		return nil, buildError("monthly requests", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error counting monthly requests")
		return nil, fmt.Errorf("error counting monthly requests: %w", err)
	}
	defer rows.Close()

	out := map[string]map[string]int64{}
	for rows.Next() {
		var month, docType string
		var n int64
		if err := rows.Scan(&month, &docType, &n); err != nil {
			return nil, fmt.Errorf("error scanning monthly requests: %w", err)
		}
		if out[month] == nil {
			out[month] = map[string]int64{}
		}
		out[month][docType] = n
	}
	return out, rows.Err()
}
