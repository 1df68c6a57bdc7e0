package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carevillage/admin-api/internal/api/middleware"
	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
	"github.com/carevillage/admin-api/internal/core/service"
	"github.com/carevillage/admin-api/internal/infrastructure/db/memory"
)

const testAdmin = "cvc@carevillage.io"

func seeded() *memory.Store {
	s := memory.NewStore()
	s.Seed()
	return s
}

// adminContext builds a context as the Auth middleware would leave it.
func adminContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, id string) echo.Context {
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextKeyEmail, testAdmin)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c
}

type recordingQueue struct {
	jobs []ports.PayoutJob
}

func (q *recordingQueue) Enqueue(_ context.Context, job ports.PayoutJob) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func TestCounselorHandler_Approve(t *testing.T) {
	e := newTestEcho()
	store := seeded()
	h := NewCounselorHandler(service.NewCounselorService(store.Counselors, store.Accounts, store.Audit, nil, zerolog.Nop()))

	rec := httptest.NewRecorder()
	c := adminContext(e, httptest.NewRequest(http.MethodPost, "/v1/cvcs/cvc-3/approve", nil), rec, "cvc-3")
	if err := h.Approve(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got domain.Counselor
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Status != domain.CounselorApproved || got.ApprovalDate == nil {
		t.Fatalf("unexpected counselor: %+v", got)
	}
}

func TestCounselorHandler_RefusedTransition(t *testing.T) {
	e := newTestEcho()
	store := seeded()
	h := NewCounselorHandler(service.NewCounselorService(store.Counselors, store.Accounts, store.Audit, nil, zerolog.Nop()))

	req := jsonRequest(http.MethodPut, "/v1/cvcs/cvc-5/status", `{"status":"approved"}`)
	c := adminContext(e, req, httptest.NewRecorder(), "cvc-5")

	var te *domain.TransitionError
	if err := h.UpdateStatus(c); !errors.As(err, &te) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if te.From != "rejected" || te.To != "approved" {
		t.Fatalf("unexpected edge: %+v", te)
	}
}

func TestCounselorHandler_RequiresActor(t *testing.T) {
	e := newTestEcho()
	store := seeded()
	h := NewCounselorHandler(service.NewCounselorService(store.Counselors, store.Accounts, store.Audit, nil, zerolog.Nop()))

	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/v1/cvcs/cvc-3/approve", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("cvc-3")

	var he *echo.HTTPError
	if err := h.Approve(c); !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAccountHandler_CreateAndToggle(t *testing.T) {
	e := newTestEcho()
	store := seeded()
	h := NewAccountHandler(service.NewAccountService(store.Accounts, store.Audit, nil, zerolog.Nop()))

	rec := httptest.NewRecorder()
	c := adminContext(e, jsonRequest(http.MethodPost, "/v1/users", `{"email":"new@example.com","name":"New","role":"user"}`), rec, "")
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var created domain.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !created.Active {
		t.Fatalf("new accounts must be active")
	}

	rec = httptest.NewRecorder()
	c = adminContext(e, jsonRequest(http.MethodPost, "/v1/users/x/toggle-active", `{"active":false}`), rec, created.ID)
	if err := h.ToggleActive(c); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	stored, _ := store.Accounts.FindByID(context.Background(), created.ID)
	if stored.Active {
		t.Fatalf("account still active")
	}
}

func TestAccountHandler_CreateRejectsBadRole(t *testing.T) {
	e := newTestEcho()
	store := seeded()
	h := NewAccountHandler(service.NewAccountService(store.Accounts, store.Audit, nil, zerolog.Nop()))

	c := adminContext(e, jsonRequest(http.MethodPost, "/v1/users", `{"email":"new@example.com","role":"root"}`), httptest.NewRecorder(), "")
	var he *echo.HTTPError
	if err := h.Create(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestPayoutHandler_Batch(t *testing.T) {
	e := newTestEcho()
	store := seeded()
	q := &recordingQueue{}
	h := NewPayoutHandler(service.NewPayoutService(store.Payouts, store.Counselors, q, store.Audit, nil, zerolog.Nop()))

	rec := httptest.NewRecorder()
	body := `{"payoutIds":["payout-1"],"processingDate":"2024-06-30"}`
	c := adminContext(e, jsonRequest(http.MethodPost, "/v1/payouts/batch", body), rec, "")
	if err := h.Batch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}

	var resp batchPayoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.ProcessedCount != 1 || len(q.jobs) != 1 {
		t.Fatalf("unexpected response %+v with %d jobs", resp, len(q.jobs))
	}
}

func TestPayoutHandler_BatchRejectsEmptyList(t *testing.T) {
	e := newTestEcho()
	store := seeded()
	h := NewPayoutHandler(service.NewPayoutService(store.Payouts, store.Counselors, &recordingQueue{}, store.Audit, nil, zerolog.Nop()))

	c := adminContext(e, jsonRequest(http.MethodPost, "/v1/payouts/batch", `{"payoutIds":[]}`), httptest.NewRecorder(), "")
	var he *echo.HTTPError
	if err := h.Batch(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestPayoutHandler_CreateRejectsBadDate(t *testing.T) {
	e := newTestEcho()
	store := seeded()
	h := NewPayoutHandler(service.NewPayoutService(store.Payouts, store.Counselors, &recordingQueue{}, store.Audit, nil, zerolog.Nop()))

	body := `{"cvcId":"cvc-1","amount":1000,"period":"June 2024","scheduledDate":"next friday"}`
	c := adminContext(e, jsonRequest(http.MethodPost, "/v1/payouts", body), httptest.NewRecorder(), "")
	if err := h.Create(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCalendarHandler_Events(t *testing.T) {
	e := newTestEcho()
	store := seeded()
	h := NewCalendarHandler(service.NewCalendarService(store.Meetings, store.Interviews))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/calendar?start=2024-01-22T00:00:00Z&end=2024-01-22T14:30:00Z", nil)
	if err := h.Events(adminContext(e, req, rec, "")); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp calendarResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(resp.Events))
	}
}

func TestCalendarHandler_InvalidRange(t *testing.T) {
	e := newTestEcho()
	store := seeded()
	h := NewCalendarHandler(service.NewCalendarService(store.Meetings, store.Interviews))

	req := httptest.NewRequest(http.MethodGet, "/v1/calendar?start=2024-02-01&end=2024-01-01", nil)
	if err := h.Events(adminContext(e, req, httptest.NewRecorder(), "")); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}
