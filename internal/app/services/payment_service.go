package services

import (
	"context"
	"math"

	"github.com/ensab/scolarite/internal/app/auth"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	"github.com/ensab/scolarite/internal/pkg/listing"
	"github.com/ensab/scolarite/internal/pkg/metrics"
	"github.com/ensab/scolarite/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// PaymentService handles student payments
type PaymentService interface {
	Create(ctx context.Context, req *dto.CreatePaymentRequest) (*models.Payment, error)
	CreateForStudent(ctx context.Context, p auth.Principal, req *dto.PaymentFields) (*models.Payment, error)
	List(ctx context.Context, p auth.Principal, criteria listing.Criteria) ([]*models.Payment, error)
	GetByID(ctx context.Context, p auth.Principal, id int64) (*models.Payment, error)
	Transition(ctx context.Context, p auth.Principal, id int64, action models.Action) (*models.Payment, error)
}

type paymentServiceImpl struct {
	paymentRepo PaymentStore
	studentRepo StudentStore
	metrics     *metrics.Metrics
	now         Clock
	logger      zerolog.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo PaymentStore, studentRepo StudentStore, m *metrics.Metrics, now Clock, logger zerolog.Logger) PaymentService {
	return &paymentServiceImpl{
		paymentRepo: paymentRepo,
		studentRepo: studentRepo,
		metrics:     m,
		now:         now,
		logger:      logger,
	}
}

func (s *paymentServiceImpl) Create(ctx context.Context, req *dto.CreatePaymentRequest) (*models.Payment, error) {
	student, err := resolveStudent(ctx, s.studentRepo, req.StudentRef)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, student.ID, &req.PaymentFields)
}

func (s *paymentServiceImpl) CreateForStudent(ctx context.Context, p auth.Principal, req *dto.PaymentFields) (*models.Payment, error) {
	if err := p.RequireStudent(); err != nil {
		return nil, err
	}
	return s.create(ctx, p.ProfileID, req)
}

// create records an unpaid payment. Amounts are kept to the cent.
func (s *paymentServiceImpl) create(ctx context.Context, studentID int64, req *dto.PaymentFields) (*models.Payment, error) {
	amount := math.Round(req.Amount*100) / 100
	if math.IsNaN(amount) || math.IsInf(amount, 0) || !validation.ValidAmount(amount) {
		return nil, apperrors.NewValidationError("montant", validation.MsgAmount)
	}
	if !req.Type.Valid() {
		return nil, apperrors.NewValidationError("typePaiement", validation.MsgRequiredFields)
	}

	payment := &models.Payment{
		StudentID: studentID,
		Type:      req.Type,
		Amount:    amount,
		Status:    models.PaymentUnpaid,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("paymentID", payment.ID).Int64("studentID", studentID).Float64("amount", payment.Amount).Msg("Payment created")
	return payment, nil
}

func (s *paymentServiceImpl) List(ctx context.Context, p auth.Principal, criteria listing.Criteria) ([]*models.Payment, error) {
	return listScoped(ctx, p, criteria, s.paymentRepo.List)
}

func (s *paymentServiceImpl) GetByID(ctx context.Context, p auth.Principal, id int64) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.RequireStudentAccess(payment.StudentID); err != nil {
		return nil, err
	}
	return payment, nil
}

// Transition marks a payment paid or cancels it.
func (s *paymentServiceImpl) Transition(ctx context.Context, p auth.Principal, id int64, action models.Action) (*models.Payment, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.Transition(ctx, id, func(pay *models.Payment) error {
		return pay.Apply(action, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Transition(string(models.KindPayment), string(action))
	s.logger.Info().Int64("paymentID", id).Int64("adminID", p.ProfileID).Str("action", string(action)).
		Str("status", string(payment.Status)).Msg("Payment processed")
	return payment, nil
}
