package auth

import (
	"context"

	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	pkgauth "github.com/ensab/scolarite/internal/pkg/auth"
)

// MsgDocumentLocked is returned to students asking for an unapproved document.
const MsgDocumentLocked = "Vous pouvez télécharger le PDF uniquement après approbation de la demande."

// Principal is the authenticated caller of a request. ProfileID is the admin
// id for administrators and the student id for students.
type Principal struct {
	UserID    int64
	ProfileID int64
	Username  string
	Role      models.RoleType
}

// FromClaims builds the principal carried by a validated token.
func FromClaims(c *pkgauth.Claims) Principal {
	return Principal{
		UserID:    c.UserID,
		ProfileID: c.ProfileID,
		Username:  c.Username,
		Role:      models.RoleType(c.RoleType),
	}
}

func (p Principal) IsAdmin() bool   { return p.Role == models.RoleAdmin }
func (p Principal) IsStudent() bool { return p.Role == models.RoleStudent }

// RequireAdmin fails unless p is an administrator.
func (p Principal) RequireAdmin() error {
	if !p.IsAdmin() {
		return apperrors.NewForbiddenError("Action réservée à l'administration.")
	}
	return nil
}

// RequireStudent fails unless p is a student.
func (p Principal) RequireStudent() error {
	if !p.IsStudent() {
		return apperrors.NewForbiddenError("Action réservée aux étudiants.")
	}
	return nil
}

// CanAccessStudent reports whether p may read records of studentID.
// Administrators see every student, students only themselves.
func (p Principal) CanAccessStudent(studentID int64) bool {
	return p.IsAdmin() || (p.IsStudent() && p.ProfileID == studentID)
}

// RequireStudentAccess is CanAccessStudent as an error.
func (p Principal) RequireStudentAccess(studentID int64) error {
	if !p.CanAccessStudent(studentID) {
		return apperrors.NewForbiddenError("Accès refusé à ce dossier étudiant.")
	}
	return nil
}

// AuthorizeDocument checks that p may generate the PDF of req.
func (p Principal) AuthorizeDocument(req *models.DocumentRequest) error {
	if err := p.RequireStudentAccess(req.StudentID); err != nil {
		return err
	}
	if !req.DownloadableBy(p.Role) {
		return apperrors.NewCustomError(apperrors.ErrDocumentNotReady, MsgDocumentLocked)
	}
	return nil
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the caller stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
