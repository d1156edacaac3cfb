package repositories

import (
	"context"
	"errors"
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

// AdminRepository handles administrator profiles
type AdminRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db, sb: newBuilder()}
}

func (r *AdminRepository) selectAdmins() squirrel.SelectBuilder {
	return r.sb.Select("a.id", "a.user_id", "u.username", "a.nom", "a.prenom", "a.cin", "u.role").
		From("admins a").
		Join("users u ON u.id = a.user_id")
}

func scanAdmin(row pgx.Row) (*models.Admin, error) {
	a := &models.Admin{}
	err := row.Scan(&a.ID, &a.UserID, &a.Username, &a.LastName, &a.FirstName, &a.CIN, &a.Role)
	return a, err
}

func adminConflict(err error, a *models.Admin) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, "users_username_key"):
		return usernameConflict(a.Username)
	case dberrors.IsDuplicateConstraintError(err, "admins_cin_key"):
		return apperrors.NewConflictError(fmt.Sprintf("Un administrateur existe déjà avec le CIN %s.", a.CIN))
	}
	return nil
}

// Create inserts the admin and its login account in one transaction.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin, user *models.User) error {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := insertUser(ctx, tx, r.sb, user); err != nil {
			return err
		}
		admin.UserID = user.ID
		admin.Username = user.Username
		admin.Role = models.RoleAdmin

		sql, args, err := r.sb.Insert("admins").
			Columns("user_id", "nom", "prenom", "cin").
			Values(admin.UserID, admin.LastName, admin.FirstName, admin.CIN).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return buildError("create admin", err)
		}
		return tx.QueryRow(ctx, sql, args...).Scan(&admin.ID)
	})
	if err != nil {
		if conflict := adminConflict(err, admin); conflict != nil {
			return conflict
		}
		logger.Error().Err(err).Str("username", admin.Username).Msg("Error creating admin")
		return fmt.Errorf("error creating admin: %w", err)
	}

	logger.Info().Int64("adminID", admin.ID).Msg("Admin created successfully")
	return nil
}

// GetByID retrieves an admin by ID
func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	sql, args, err := r.selectAdmins().Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, buildError("get admin", err)
	}

	a, err := scanAdmin(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewCustomError(apperrors.ErrAdminNotFound, "Administrateur introuvable.")
		}
		return nil, fmt.Errorf("error fetching admin: %w", err)
	}
	return a, nil
}

// List returns every admin
func (r *AdminRepository) List(ctx context.Context) ([]*models.Admin, error) {
	sql, args, err := r.selectAdmins().OrderBy("a.nom", "a.prenom").ToSql()
	if err != nil {
		return nil, buildError("list admins", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing admins")
		return nil, fmt.Errorf("error listing admins: %w", err)
	}
	defer rows.Close()

	admins := []*models.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning admin: %w", err)
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

// Update rewrites the admin profile and username. A non-empty passwordHash
// also replaces the password.
func (r *AdminRepository) Update(ctx context.Context, admin *models.Admin, passwordHash string) error {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update("admins").
			Set("nom", admin.LastName).
			Set("prenom", admin.FirstName).
			Set("cin", admin.CIN).
			Where(squirrel.Eq{"id": admin.ID}).
			Suffix("RETURNING user_id").
			ToSql()
		if err != nil {
			return buildError("update admin", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&admin.UserID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewCustomError(apperrors.ErrAdminNotFound, "Administrateur introuvable.")
			}
			return err
		}

		user := r.sb.Update("users").Set("username", admin.Username).Where(squirrel.Eq{"id": admin.UserID})
		if passwordHash != "" {
			user = user.Set("password", passwordHash)
		}
		sql, args, err = user.ToSql()
		if err != nil {
			return buildError("update admin user", err)
		}
		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		if conflict := adminConflict(err, admin); conflict != nil {
			return conflict
		}
		if errors.Is(err, apperrors.ErrAdminNotFound) {
			return err
		}
		logger.Error().Err(err).Int64("adminID", admin.ID).Msg("Error updating admin")
		return fmt.Errorf("error updating admin: %w", err)
	}
	return nil
}

// Delete removes the admin login; processed records keep a NULL admin.
func (r *AdminRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = (SELECT user_id FROM admins WHERE id = $1)`, id)
	if err != nil {
		logger.Error().Err(err).Int64("adminID", id).Msg("Error deleting admin")
		return fmt.Errorf("error deleting admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewCustomError(apperrors.ErrAdminNotFound, "Administrateur introuvable.")
	}
	return nil
}
