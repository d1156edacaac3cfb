package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	pkgauth "github.com/ensab/scolarite/internal/pkg/auth"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	RegisterJSONFieldNames()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return resp
}

func newAuthRouter(jwt *pkgauth.JWTService) *gin.Engine {
	am := NewAuthMiddleware(jwt)
	r := gin.New()
	admin := r.Group("/api/admin", am.JWTAuth(), am.RoleRequired(models.RoleAdmin))
	admin.GET("/whoami", func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"profile": p.ProfileID, "role": p.Role})
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	jwt := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: "s", TokenExp: time.Hour, TokenIssuer: "scolarite"})
	r := newAuthRouter(jwt)

	adminToken, _, err := jwt.GenerateToken(&models.User{ID: 1, Username: "admin", RoleType: models.RoleAdmin}, 3)
	if err != nil {
		t.Fatal(err)
	}
	studentToken, _, err := jwt.GenerateToken(&models.User{ID: 2, Username: "e@ensab.ma", RoleType: models.RoleStudent}, 5)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
		status int
		code   dto.ErrorCode
	}{
		{"missing header", "", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"raw token", adminToken, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"garbage", "Bearer nope", http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"student on admin route", "Bearer " + studentToken, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.code != "" {
				if got := decodeError(t, rec).Error.Code; got != tt.code {
					t.Errorf("code = %s, want %s", got, tt.code)
				}
				return
			}
			if !strings.Contains(rec.Body.String(), `"profile":3`) {
				t.Errorf("body = %s", rec.Body.String())
			}
		})
	}
}

func TestErrorDetailFor(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"transition", apperrors.NewCustomError(apperrors.ErrInvalidTransition, "Action impossible"), http.StatusConflict, dto.ErrorCodeInvalidTransition, "Action impossible"},
		{"locked", apperrors.NewCustomError(apperrors.ErrDocumentNotReady, "attendre"), http.StatusConflict, dto.ErrorCodeDocumentLocked, "attendre"},
		{"wrapped not found", fmt.Errorf("get payment: %w", apperrors.ErrResourceNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Ressource introuvable"},
		{"student", apperrors.NewCustomError(apperrors.ErrStudentNotFound, "Étudiant non trouvé avec les informations fournies."), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Étudiant non trouvé avec les informations fournies."},
		{"validation", apperrors.NewValidationError("montant", "Le montant doit être un nombre positif."), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Le montant doit être un nombre positif."},
		{"pending", apperrors.NewCustomError(apperrors.ErrPendingRequest, "déjà"), http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "déjà"},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Nom d'utilisateur ou mot de passe incorrect"},
		{"forbidden", apperrors.NewForbiddenError("non"), http.StatusForbidden, dto.ErrorCodeForbidden, "non"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Erreur interne du serveur"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := ErrorDetailFor(tt.err)
			if status != tt.status || detail.Code != tt.code || detail.Message != tt.message {
				t.Errorf("got %d %s %q, want %d %s %q", status, detail.Code, detail.Message, tt.status, tt.code, tt.message)
			}
		})
	}
}

func TestValidationFieldField(t *testing.T) {
	status, detail := ErrorDetailFor(apperrors.NewValidationError("reponse", "Veuillez saisir une réponse."))
	if status != http.StatusBadRequest || detail.Field != "reponse" {
		t.Errorf("got %d field=%q", status, detail.Field)
	}
}

func TestBindJSONReportsJSONNames(t *testing.T) {
	r := gin.New()
	r.POST("/paiements", func(c *gin.Context) {
		var req dto.CreatePaymentRequest
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusCreated)
	})

	body := `{"email":"a@ensab.ma","codeApogee":12,"cin":"AB1","typePaiement":"ASSURANCE","montant":-5}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/paiements", strings.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Error.Field != "montant" || resp.Error.Message != "Le montant doit être un nombre positif." {
		t.Errorf("error = %+v", resp.Error)
	}
}
