package services

import (
	"context"
	"math"

	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/app/repositories"
	"github.com/rs/zerolog"
)

// StatsService computes the administration dashboard
type StatsService interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

type statsServiceImpl struct {
	statsRepo StatsStore
	logger    zerolog.Logger
}

// NewStatsService creates a new StatsService
func NewStatsService(statsRepo StatsStore, logger zerolog.Logger) StatsService {
	return &statsServiceImpl{statsRepo: statsRepo, logger: logger}
}

func (s *statsServiceImpl) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	counts := []struct {
		table string
		dest  *map[string]int64
	}{
		{repositories.TableRequests, &stats.Requests},
		{repositories.TablePayments, &stats.Payments},
		{repositories.TableEnrollments, &stats.Enrollments},
		{repositories.TableComplaints, &stats.Complaints},
	}
	for _, c := range counts {
		m, err := s.statsRepo.CountByStatus(ctx, c.table)
		if err != nil {
			return nil, err
		}
		*c.dest = m
	}

	delays := []struct {
		table, column string
		dest          *float64
	}{
		{repositories.TablePayments, "paid_at", &stats.AvgPaymentDays},
		{repositories.TableEnrollments, "confirmed_at", &stats.AvgEnrollmentDays},
		{repositories.TableComplaints, "processed_at", &stats.AvgComplaintDays},
	}
	for _, d := range delays {
		days, err := s.statsRepo.AverageDays(ctx, d.table, d.column)
		if err != nil {
			return nil, err
		}
		*d.dest = round2(days)
	}

	var err error
	if stats.Students, err = s.statsRepo.CountStudents(ctx); err != nil {
		return nil, err
	}
	if stats.MonthlyRequests, err = s.statsRepo.MonthlyRequests(ctx); err != nil {
		return nil, err
	}

	stats.SatisfactionRate = satisfactionRate(stats.Complaints)
	s.logger.Debug().Int64("students", stats.Students).Msg("Dashboard computed")
	return stats, nil
}

// satisfactionRate is the percentage of treated complaints, 0 when there
// are none.
func satisfactionRate(byStatus map[string]int64) float64 {
	var total int64
	for _, n := range byStatus {
		total += n
	}
	if total == 0 {
		return 0
	}
	return round2(float64(byStatus[string(models.ComplaintProcessed)]) * 100 / float64(total))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
