package seed

import (
	"context"
	"fmt"

	appModels "github.com/ensab/scolarite/internal/app/models"
	appRepos "github.com/ensab/scolarite/internal/app/repositories"
	"github.com/ensab/scolarite/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// Admin describes the bootstrap administrator account.
type Admin struct {
	Username string
	Password string
}

// CreateDefaultAdmin creates the bootstrap administrator when no account
// uses its username yet. Running it again is a no-op.
func CreateDefaultAdmin(ctx context.Context, repos *appRepos.Repositories, admin Admin, lgr zerolog.Logger) error {
	if admin.Username == "" || admin.Password == "" {
		lgr.Warn().Msg("Default admin credentials not configured, skipping creation")
		return nil
	}

	exists, err := repos.UserRepository.UsernameExists(ctx, admin.Username)
	if err != nil {
		return fmt.Errorf("checking default admin: %w", err)
	}
	if exists {
		lgr.Info().Str("username", admin.Username).Msg("Admin user already exists, skipping creation")
		return nil
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hashing default admin password: %w", err)
	}

	profile := &appModels.Admin{LastName: "Admin", FirstName: "System", CIN: "ADMIN001"}
	user := &appModels.User{Username: admin.Username, Password: hash, RoleType: appModels.RoleAdmin}
	if err := repos.AdminRepository.Create(ctx, profile, user); err != nil {
		return fmt.Errorf("creating default admin: %w", err)
	}

	event := lgr.Info()
	if admin.Password == admin.Username {
		event = lgr.Warn()
	}
	event.Str("username", admin.Username).Int64("adminID", profile.ID).Msg("Default admin user created")
	return nil
}
