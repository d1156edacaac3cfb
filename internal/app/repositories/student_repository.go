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

// MsgStudentNotFound is returned when no student matches the submitted identity.
const MsgStudentNotFound = "Étudiant non trouvé avec les informations fournies."

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db, sb: newBuilder()}
}

var studentTableColumns = []string{
	"id", "user_id", "nom", "prenom", "email", "code_apogee", "cin", "filiere", "niveau", "annee_universitaire",
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(&s.ID, &s.UserID, &s.LastName, &s.FirstName, &s.Email, &s.CodeApogee,
		&s.CIN, &s.Program, &s.Level, &s.AcademicYear)
	return s, err
}

// studentConflict maps unique violations of the student table.
func studentConflict(err error, s *models.Student) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, "users_username_key"),
		dberrors.IsDuplicateConstraintError(err, "students_email_key"):
		return apperrors.NewCustomError(apperrors.ErrStudentIdentifier,
			fmt.Sprintf("Un étudiant existe déjà avec l'e-mail %s.", s.Email))
	case dberrors.IsDuplicateConstraintError(err, "students_code_apogee_key"):
		return apperrors.NewCustomError(apperrors.ErrStudentIdentifier,
			fmt.Sprintf("Un étudiant existe déjà avec le code Apogée %d.", s.CodeApogee))
	case dberrors.IsDuplicateConstraintError(err, "students_cin_key"):
		return apperrors.NewCustomError(apperrors.ErrStudentIdentifier,
			fmt.Sprintf("Un étudiant existe déjà avec le CIN %s.", s.CIN))
	}
	return nil
}

// Create inserts the student and its login account in one transaction.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student, user *models.User) error {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := insertUser(ctx, tx, r.sb, user); err != nil {
			return err
		}
		student.UserID = user.ID

		sql, args, err := r.sb.Insert("students").
			Columns(studentTableColumns[1:]...).
			Values(student.UserID, student.LastName, student.FirstName, student.Email, student.CodeApogee,
				student.CIN, student.Program, student.Level, student.AcademicYear).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return buildError("create student", err)
		}
		return tx.QueryRow(ctx, sql, args...).Scan(&student.ID)
	})
	if err != nil {
		if conflict := studentConflict(err, student); conflict != nil {
			logger.Warn().Str("email", student.Email).Msg("Attempted to create student with duplicate identifier")
			return conflict
		}
		logger.Error().Err(err).Str("email", student.Email).Msg("Error creating student")
		return fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().Int64("studentID", student.ID).Int64("userID", student.UserID).Msg("Student created successfully")
	return nil
}

func (r *StudentRepository) getOne(ctx context.Context, where squirrel.Sqlizer, message string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentTableColumns...).From("students").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, buildError("get student", err)
	}

	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewCustomError(apperrors.ErrStudentNotFound, message)
		}
		logger.Error().Err(err).Msg("Error fetching student")
		return nil, fmt.Errorf("error fetching student: %w", err)
	}
	return s, nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "Étudiant introuvable.")
}

// GetByUserID retrieves the student attached to a login account
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"user_id": userID}, "Étudiant introuvable.")
}

// FindByIdentity resolves a student from the email, code Apogée and CIN
// triple typed in the administration forms. All three must match.
func (r *StudentRepository) FindByIdentity(ctx context.Context, email string, codeApogee int64, cin string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.And{
		squirrel.Expr("LOWER(email) = LOWER(?)", email),
		squirrel.Eq{"code_apogee": codeApogee},
		squirrel.Expr("UPPER(cin) = UPPER(?)", cin),
	}, MsgStudentNotFound)
}

// List returns every student ordered by name
func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentTableColumns...).From("students").OrderBy("nom", "prenom", "id").ToSql()
	if err != nil {
		return nil, buildError("list students", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing students")
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Update rewrites the student record and keeps the login username in step
// with the email.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update("students").
			SetMap(map[string]interface{}{
				"nom":                 student.LastName,
				"prenom":              student.FirstName,
				"email":               student.Email,
				"code_apogee":         student.CodeApogee,
				"cin":                 student.CIN,
				"filiere":             student.Program,
				"niveau":              student.Level,
				"annee_universitaire": student.AcademicYear,
			}).
			Where(squirrel.Eq{"id": student.ID}).
			Suffix("RETURNING user_id").
			ToSql()
		if err != nil {
			return buildError("update student", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&student.UserID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewCustomError(apperrors.ErrStudentNotFound, "Étudiant introuvable.")
			}
			return err
		}

		_, err = tx.Exec(ctx, `UPDATE users SET username = $1 WHERE id = $2`, student.Email, student.UserID)
		return err
	})
	if err != nil {
		if conflict := studentConflict(err, student); conflict != nil {
			return conflict
		}
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return err
		}
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error updating student")
		return fmt.Errorf("error updating student: %w", err)
	}
	return nil
}

// Delete removes the student's login; the profile and its records cascade.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = (SELECT user_id FROM students WHERE id = $1)`, id)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error deleting student")
		return fmt.Errorf("error deleting student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewCustomError(apperrors.ErrStudentNotFound, "Étudiant introuvable.")
	}
	logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}
