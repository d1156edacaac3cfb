package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ensab/scolarite/internal/app/auth"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	pkgauth "github.com/ensab/scolarite/internal/pkg/auth"
	"github.com/ensab/scolarite/internal/pkg/listing"
	"github.com/ensab/scolarite/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// MinPasswordLength applies to administrator passwords.
const MinPasswordLength = 6

// AdminService manages administrator accounts
type AdminService interface {
	Create(ctx context.Context, req *dto.AdminRequest) (*models.Admin, error)
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
	List(ctx context.Context, criteria listing.Criteria) ([]*models.Admin, error)
	Update(ctx context.Context, id int64, req *dto.AdminRequest) (*models.Admin, error)
	Delete(ctx context.Context, p auth.Principal, id int64) error
}

type adminServiceImpl struct {
	adminRepo AdminStore
	userRepo  UserStore
	logger    zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(adminRepo AdminStore, userRepo UserStore, logger zerolog.Logger) AdminService {
	return &adminServiceImpl{adminRepo: adminRepo, userRepo: userRepo, logger: logger}
}

func normalizeAdmin(req *dto.AdminRequest) (*models.Admin, error) {
	a := req.ToModel()
	a.Username = strings.TrimSpace(a.Username)
	a.LastName = strings.TrimSpace(a.LastName)
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.CIN = strings.TrimSpace(a.CIN)
	if validation.Blank(a.Username, a.LastName, a.FirstName, a.CIN) {
		return nil, apperrors.NewValidationError("", validation.MsgRequiredFields)
	}
	return a, nil
}

func hashAdminPassword(password string, required bool) (string, error) {
	if password == "" && !required {
		return "", nil
	}
	if len(password) < MinPasswordLength {
		return "", apperrors.NewValidationError("motDePasse",
			fmt.Sprintf("Le mot de passe doit contenir au moins %d caractères.", MinPasswordLength))
	}
	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func (s *adminServiceImpl) Create(ctx context.Context, req *dto.AdminRequest) (*models.Admin, error) {
	admin, err := normalizeAdmin(req)
	if err != nil {
		return nil, err
	}
	hash, err := hashAdminPassword(req.Password, true)
	if err != nil {
		return nil, err
	}

	taken, err := s.userRepo.UsernameExists(ctx, admin.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewCustomError(apperrors.ErrUsernameTaken,
			fmt.Sprintf("Le nom d'utilisateur %s est déjà utilisé.", admin.Username))
	}

	user := &models.User{Username: admin.Username, Password: hash, RoleType: models.RoleAdmin}
	if err := s.adminRepo.Create(ctx, admin, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("adminID", admin.ID).Str("username", admin.Username).Msg("Admin created")
	return admin, nil
}

func (s *adminServiceImpl) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	return s.adminRepo.GetByID(ctx, id)
}

func (s *adminServiceImpl) List(ctx context.Context, criteria listing.Criteria) ([]*models.Admin, error) {
	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return listing.Apply(admins, criteria), nil
}

// Update rewrites an admin profile. An empty password keeps the current one.
func (s *adminServiceImpl) Update(ctx context.Context, id int64, req *dto.AdminRequest) (*models.Admin, error) {
	admin, err := normalizeAdmin(req)
	if err != nil {
		return nil, err
	}
	hash, err := hashAdminPassword(req.Password, false)
	if err != nil {
		return nil, err
	}
	admin.ID = id

	if err := s.adminRepo.Update(ctx, admin, hash); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("adminID", id).Bool("passwordChanged", hash != "").Msg("Admin updated")
	return admin, nil
}

// Delete removes another administrator. Admins cannot delete themselves nor
// the last remaining admin account.
func (s *adminServiceImpl) Delete(ctx context.Context, p auth.Principal, id int64) error {
	if p.ProfileID == id {
		return apperrors.NewCustomError(apperrors.ErrConflict, "Vous ne pouvez pas supprimer votre propre compte.")
	}

	count, err := s.userRepo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count <= 1 {
		return apperrors.NewCustomError(apperrors.ErrConflict, "Impossible de supprimer le dernier administrateur.")
	}

	if err := s.adminRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("adminID", id).Int64("by", p.ProfileID).Msg("Admin deleted")
	return nil
}
