package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	"github.com/ensab/scolarite/internal/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles login accounts
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db, sb: newBuilder()}
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := r.sb.Select("id", "username", "password", "role", "created_at").
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, buildError("get user", err)
	}

	user := &models.User{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.Username, &user.Password, &user.RoleType, &user.CreatedAt)
	if err != nil {
		return nil, notFound(err, "Utilisateur introuvable")
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username})
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// UsernameExists checks if a username is already taken
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		logger.Error().Err(err).Str("username", username).Msg("Error checking username")
		return false, fmt.Errorf("error checking username: %w", err)
	}
	return exists, nil
}

// ProfileID returns the admin or student id attached to user.
func (r *UserRepository) ProfileID(ctx context.Context, user *models.User) (int64, error) {
	table := "students"
	message := "Profil étudiant introuvable"
	if user.RoleType == models.RoleAdmin {
		table = "admins"
		message = "Profil administrateur introuvable"
	}

	sql, args, err := r.sb.Select("id").From(table).Where(squirrel.Eq{"user_id": user.ID}).ToSql()
	if err != nil {
		return 0, buildError("get profile", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, notFound(err, message)
	}
	return id, nil
}

// CountAdmins returns the number of administrator accounts
func (r *UserRepository) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, models.RoleAdmin).Scan(&n); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

// usernameConflict converts a users_username_key violation.
func usernameConflict(username string) error {
	return apperrors.NewCustomError(apperrors.ErrUsernameTaken,
		fmt.Sprintf("Le nom d'utilisateur %s est déjà utilisé.", username))
}
