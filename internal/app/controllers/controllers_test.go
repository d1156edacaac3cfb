package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ensab/scolarite/internal/app/auth"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/app/services"
	"github.com/ensab/scolarite/internal/middleware"
	"github.com/ensab/scolarite/internal/pkg/apperrors"
	"github.com/ensab/scolarite/internal/pkg/documents"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.RegisterJSONFieldNames()
}

var (
	adminP   = auth.Principal{UserID: 1, ProfileID: 1, Role: models.RoleAdmin}
	studentP = auth.Principal{UserID: 2, ProfileID: 7, Role: models.RoleStudent}
)

// as stands in for JWTAuth.
func as(p *auth.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			c.Set(middleware.ContextPrincipal, *p)
		}
		c.Next()
	}
}

type stubRequests struct {
	services.RequestService
	gotID     int64
	gotAction models.Action
	err       error
}

func (s *stubRequests) Transition(_ context.Context, _ auth.Principal, id int64, action models.Action) (*models.DocumentRequest, error) {
	s.gotID, s.gotAction = id, action
	if s.err != nil {
		return nil, s.err
	}
	return &models.DocumentRequest{ID: id, Status: models.RequestApproved}, nil
}

type stubPayments struct {
	services.PaymentService
	created *dto.PaymentFields
}

func (s *stubPayments) CreateForStudent(_ context.Context, _ auth.Principal, req *dto.PaymentFields) (*models.Payment, error) {
	s.created = req
	return &models.Payment{ID: 1, Type: req.Type, Amount: req.Amount, Status: models.PaymentUnpaid}, nil
}

type stubDocuments struct {
	services.DocumentService
	doc *documents.Document
	err error
}

func (s *stubDocuments) RequestPDF(context.Context, auth.Principal, int64) (*documents.Document, error) {
	return s.doc, s.err
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) (dto.ErrorCode, string) {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Error == nil {
		t.Fatalf("decode error body %s: %v", rec.Body.String(), err)
	}
	return resp.Error.Code, resp.Error.Message
}

func TestRequestTransitionRoute(t *testing.T) {
	tests := []struct {
		name       string
		who        *auth.Principal
		path       string
		err        error
		status     int
		wantAction models.Action
	}{
		{"approve", &adminP, "/demandes/12/approve", nil, http.StatusOK, models.ActionApprove},
		{"reject", &adminP, "/demandes/12/reject", nil, http.StatusOK, models.ActionReject},
		{"bad id", &adminP, "/demandes/abc/approve", nil, http.StatusBadRequest, ""},
		{"zero id", &adminP, "/demandes/0/approve", nil, http.StatusBadRequest, ""},
		{"anonymous", nil, "/demandes/12/approve", nil, http.StatusUnauthorized, ""},
		{"already processed", &adminP, "/demandes/12/approve",
			apperrors.NewCustomError(apperrors.ErrInvalidTransition, "déjà traitée"), http.StatusConflict, models.ActionApprove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubRequests{err: tt.err}
			c := NewRequestController(stub, &stubDocuments{})
			r := gin.New()
			r.Use(as(tt.who))
			r.PUT("/demandes/:id/approve", c.Transition(models.ActionApprove))
			r.PUT("/demandes/:id/reject", c.Transition(models.ActionReject))

			rec := serve(r, http.MethodPut, tt.path, "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if stub.gotAction != tt.wantAction {
				t.Errorf("action = %q, want %q", stub.gotAction, tt.wantAction)
			}
			if tt.wantAction != "" && stub.gotID != 12 {
				t.Errorf("id = %d", stub.gotID)
			}
		})
	}
}

func TestRequestPDF(t *testing.T) {
	t.Run("attachment", func(t *testing.T) {
		docs := &stubDocuments{doc: &documents.Document{
			Filename:  "Attestation_de_scolarité_Amrani.pdf",
			Content:   []byte("%PDF-1.3"),
			Reference: "ref-9",
		}}
		c := NewRequestController(&stubRequests{}, docs)
		r := gin.New()
		r.Use(as(&studentP))
		r.GET("/demandes/:id/pdf", c.PDF)

		rec := serve(r, http.MethodGet, "/demandes/3/pdf", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("Content-Type = %q", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment;") || !strings.Contains(cd, "Amrani.pdf") {
			t.Errorf("Content-Disposition = %q", cd)
		}
		if ref := rec.Header().Get("X-Document-Reference"); ref != "ref-9" {
			t.Errorf("reference = %q", ref)
		}
		if rec.Body.String() != "%PDF-1.3" {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("locked for student", func(t *testing.T) {
		docs := &stubDocuments{err: apperrors.NewCustomError(apperrors.ErrDocumentNotReady, auth.MsgDocumentLocked)}
		c := NewRequestController(&stubRequests{}, docs)
		r := gin.New()
		r.Use(as(&studentP))
		r.GET("/demandes/:id/pdf", c.PDF)

		rec := serve(r, http.MethodGet, "/demandes/3/pdf", "")
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d", rec.Code)
		}
		code, msg := errorCode(t, rec)
		if code != dto.ErrorCodeDocumentLocked || msg != auth.MsgDocumentLocked {
			t.Errorf("error = %s %q", code, msg)
		}
	})
}

func TestPaymentCreateMineValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"typePaiement":"ASSURANCE","montant":150}`, http.StatusCreated},
		{"negative amount", `{"typePaiement":"ASSURANCE","montant":-5}`, http.StatusBadRequest},
		{"unknown type", `{"typePaiement":"CANTINE","montant":10}`, http.StatusBadRequest},
		{"malformed", `{"montant":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubPayments{}
			c := NewPaymentController(stub, &stubDocuments{})
			r := gin.New()
			r.Use(as(&studentP))
			r.POST("/paiements", c.CreateMine)

			rec := serve(r, http.MethodPost, "/paiements", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status != http.StatusCreated {
				if stub.created != nil {
					t.Error("invalid body reached the service")
				}
				return
			}
			var resp struct {
				Data    models.Payment `json:"data"`
				Message string         `json:"message"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Data.Amount != 150 || resp.Message == "" {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}
