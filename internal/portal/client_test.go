package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ensab/scolarite/internal/app/auth"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/pkg/listing"
	"github.com/ensab/scolarite/internal/pkg/validation"
)

// fakeAPI records every request reaching the backend.
type fakeAPI struct {
	*httptest.Server
	hits atomic.Int64

	mu       sync.Mutex
	lastBody map[string]any
	lastPath string
	lastAuth string
}

func (a *fakeAPI) last() (path, authz string, body map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastPath, a.lastAuth, a.lastBody
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Nom d'utilisateur ou mot de passe incorrect")))
			return
		}
		role := models.RoleStudent
		if req.Username == "admin" {
			role = models.RoleAdmin
		}
		writeJSON(w, http.StatusOK, dto.NewSuccessResponse(dto.LoginResponse{Token: "tok-" + req.Username, Role: role}))
	})
	mux.HandleFunc("GET /api/etudiant/demandes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.NewSuccessResponse([]*models.DocumentRequest{
			{ID: 1, Type: models.DocumentTranscript, Status: models.RequestPending},
		}))
	})
	mux.HandleFunc("POST /api/etudiant/paiements", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, dto.NewSuccessResponse(&models.Payment{ID: 4, Amount: 150, Status: models.PaymentUnpaid}))
	})
	mux.HandleFunc("PUT /api/admin/paiements/{id}/{action}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("action") == "pay" {
			writeJSON(w, http.StatusConflict, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeInvalidTransition, "Paiement déjà réglé.")))
			return
		}
		writeJSON(w, http.StatusOK, dto.NewSuccessResponse(&models.Payment{ID: 4}))
	})
	mux.HandleFunc("GET /api/etudiant/demandes/{id}/pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="Relevé_de_notes_Amrani.pdf"`)
		w.Header().Set("X-Document-Reference", "ref-3")
		_, _ = w.Write([]byte("%PDF-1.3"))
	})

	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.hits.Add(1)
		raw, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(raw))

		api.mu.Lock()
		api.lastPath = r.URL.Path
		api.lastAuth = r.Header.Get("Authorization")
		api.lastBody = nil
		if len(raw) > 0 {
			body := map[string]any{}
			if json.Unmarshal(raw, &body) == nil {
				api.lastBody = body
			}
		}
		api.mu.Unlock()

		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(api.Close)
	return api
}

func loggedIn(t *testing.T, api *fakeAPI, username string) *Client {
	t.Helper()
	c := NewClient(api.URL, nil)
	if err := c.Login(context.Background(), username, "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	return c
}

func TestLogin(t *testing.T) {
	api := newFakeAPI(t)

	t.Run("stores the session", func(t *testing.T) {
		c := loggedIn(t, api, "admin")
		s := c.Session()
		if s.Token != "tok-admin" || !s.IsAdmin() || s.Username != "admin" {
			t.Fatalf("session = %+v", s)
		}
		c.Logout()
		if s.Active() {
			t.Error("Logout kept the token")
		}
	})

	t.Run("server rejection", func(t *testing.T) {
		c := NewClient(api.URL, nil)
		err := c.Login(context.Background(), "admin", "wrong")
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
			t.Fatalf("err = %v", err)
		}
		if msg := UserMessage(err, "fallback"); msg != "Nom d'utilisateur ou mot de passe incorrect" {
			t.Errorf("UserMessage = %q", msg)
		}
		if c.Session().Active() {
			t.Error("failed login opened a session")
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1", nil)
		err := c.Login(context.Background(), "admin", "secret")
		var apiErr *APIError
		if err == nil || errors.As(err, &apiErr) {
			t.Fatalf("err = %v, want transport error", err)
		}
		if msg := UserMessage(err, "Erreur réseau"); msg != "Erreur réseau" {
			t.Errorf("UserMessage = %q", msg)
		}
	})
}

func TestNegativePaymentNeverSent(t *testing.T) {
	api := newFakeAPI(t)
	c := loggedIn(t, api, "salma@ensab.ma")
	before := api.hits.Load()

	w := NewWorkflow(nil)
	err := w.Submit(context.Background(), CreatePayment.Mutation(func(ctx context.Context) error {
		_, err := c.CreatePayment(ctx, PaymentForm{Type: models.PaymentInsurance, Amount: "-5"})
		return err
	}))

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if got := api.hits.Load(); got != before {
		t.Errorf("%d request(s) sent for an invalid amount", got-before)
	}
	if b := w.Banner(); b.Kind != BannerError || b.Message != validation.MsgAmount {
		t.Errorf("banner = %+v", b)
	}
}

func TestCreatePaymentBody(t *testing.T) {
	api := newFakeAPI(t)
	c := loggedIn(t, api, "salma@ensab.ma")

	p, err := c.CreatePayment(context.Background(), PaymentForm{Type: models.PaymentInsurance, Amount: "150,00"})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if p.ID != 4 {
		t.Errorf("payment = %+v", p)
	}
	path, authz, body := api.last()
	if path != "/api/etudiant/paiements" || authz != "Bearer tok-salma@ensab.ma" {
		t.Errorf("request = %s %q", path, authz)
	}
	if body["montant"] != 150.0 || body["typePaiement"] != "ASSURANCE" {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["email"]; ok {
		t.Error("student body carries a student reference")
	}
}

func TestTransition(t *testing.T) {
	api := newFakeAPI(t)
	admin := loggedIn(t, api, "admin")
	ctx := context.Background()

	if err := admin.Transition(ctx, models.KindPayment, 4, models.ActionCancel); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if path, _, _ := api.last(); path != "/api/admin/paiements/4/cancel" {
		t.Errorf("path = %s", path)
	}

	err := admin.Transition(ctx, models.KindPayment, 4, models.ActionPay)
	if msg := UserMessage(err, "fallback"); msg != "Paiement déjà réglé." {
		t.Errorf("conflict message = %q (%v)", msg, err)
	}

	before := api.hits.Load()
	if err := admin.Transition(ctx, models.KindPayment, 4, models.ActionApprove); err == nil {
		t.Error("approve accepted for a payment")
	}
	student := loggedIn(t, api, "salma@ensab.ma")
	if err := student.Transition(ctx, models.KindPayment, 4, models.ActionPay); !errors.Is(err, ErrWrongRole) {
		t.Errorf("student transition = %v", err)
	}
	if got := api.hits.Load(); got != before+1 {
		t.Errorf("hits = %d, want only the student login", got-before)
	}
}

func TestRequestPDF(t *testing.T) {
	api := newFakeAPI(t)
	c := loggedIn(t, api, "salma@ensab.ma")
	ctx := context.Background()

	requests, err := c.Requests(ctx, listing.Criteria{})
	if err != nil || len(requests) != 1 {
		t.Fatalf("Requests = %v, %v", requests, err)
	}

	before := api.hits.Load()
	_, err = c.RequestPDF(ctx, requests[0])
	if msg := UserMessage(err, ""); msg != auth.MsgDocumentLocked {
		t.Fatalf("pending download = %v", err)
	}
	if api.hits.Load() != before {
		t.Error("locked download reached the server")
	}

	approved := *requests[0]
	approved.Status = models.RequestApproved
	f, err := c.RequestPDF(ctx, &approved)
	if err != nil {
		t.Fatalf("approved download: %v", err)
	}
	if f.Name != "Relevé_de_notes_Amrani.pdf" || f.Reference != "ref-3" || string(f.Content) != "%PDF-1.3" {
		t.Errorf("file = %+v", f)
	}
}

func TestCallsNeedSession(t *testing.T) {
	c := NewClient("http://unused.test", nil)
	if _, err := c.Payments(context.Background(), listing.Criteria{}); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("Payments = %v", err)
	}
	if _, err := c.Statistics(context.Background()); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("Statistics = %v", err)
	}
}
