package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	"github.com/ensab/scolarite/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// MsgInvalidCredentials is returned for any failed login.
const MsgInvalidCredentials = "Nom d'utilisateur ou mot de passe incorrect."

// AuthService handles authentication operations
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authServiceImpl struct {
	userRepo   UserStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo UserStore, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login checks the credentials and issues a token carrying the caller's
// role and profile id.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("", "Veuillez saisir vos identifiants.")
	}

	invalid := apperrors.NewCustomError(apperrors.ErrInvalidCredentials, MsgInvalidCredentials)

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			s.logger.Warn().Str("username", username).Msg("Login attempt for unknown user")
			return nil, invalid
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Warn().Int64("userID", user.ID).Msg("Login attempt with wrong password")
		return nil, invalid
	}

	profileID, err := s.userRepo.ProfileID(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	token, _, err := s.jwtService.GenerateToken(user, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.RoleType)).Msg("User logged in")
	return &dto.LoginResponse{Token: token, Role: user.RoleType}, nil
}
