package middleware

import (
	"errors"
	"net/http"

	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	"github.com/ensab/scolarite/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// errorMappings is checked in order; the first matching sentinel wins.
var errorMappings = []errorMapping{
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Requête invalide"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Requête invalide"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Nom d'utilisateur ou mot de passe incorrect"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Session expirée"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Session invalide"},
	{apperrors.ErrInvalidFormat, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Session invalide"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Accès refusé"},
	{apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Étudiant non trouvé"},
	{apperrors.ErrAdminNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Administrateur non trouvé"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Ressource introuvable"},
	{apperrors.ErrInvalidTransition, http.StatusConflict, dto.ErrorCodeInvalidTransition, "Transition de statut impossible"},
	{apperrors.ErrDocumentNotReady, http.StatusConflict, dto.ErrorCodeDocumentLocked, "Document indisponible"},
	{apperrors.ErrPendingRequest, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Une demande en attente existe déjà"},
	{apperrors.ErrUsernameTaken, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Nom d'utilisateur déjà utilisé"},
	{apperrors.ErrStudentIdentifier, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Identifiant étudiant déjà utilisé"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Ressource déjà existante"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Conflit"},
}

// HandleAPIError handles common API errors and returns appropriate responses.
// A CustomError message replaces the generic message of its category.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := ErrorDetailFor(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

// ErrorDetailFor maps err to its HTTP status and error payload.
func ErrorDetailFor(err error) (int, *dto.ErrorDetail) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		message := m.message
		if userMsg, ok := apperrors.UserMessage(err); ok {
			message = userMsg
		}
		detail := dto.NewErrorDetail(m.code, message)

		var ce *apperrors.CustomError
		if errors.As(err, &ce) && ce.Details != nil {
			detail = detail.WithDetails(ce.Details)
			if field, ok := ce.Details["field"].(string); ok {
				detail = detail.WithField(field)
			}
		}
		return m.status, detail
	}
	return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Erreur interne du serveur")
}
