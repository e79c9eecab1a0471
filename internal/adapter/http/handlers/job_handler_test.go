package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mecanica_jobs/internal/adapter/http/handlers/mocks"
	"mecanica_jobs/internal/adapter/http/middleware"
	"mecanica_jobs/internal/domain/billing"
	"mecanica_jobs/internal/domain/cancellation"
	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/domain/lifecycle"
	"mecanica_jobs/internal/domain/projection"
	"mecanica_jobs/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

var (
	testCustomer = entities.Actor{UserID: "cust-1", Role: entities.RoleCustomer}
	testMechanic = entities.Actor{UserID: "mech-1", Role: entities.RoleMechanic}
	testPlatform = entities.Actor{UserID: "system", Role: entities.RoleSystem}
)

func newJobRouter(t *testing.T, actor entities.Actor) (*gin.Engine, *mocks.MockIJobUseCase, *JobHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIJobUseCase(ctrl)
	h := NewJobHandler(uc)

	r := gin.New()
	v1 := r.Group("/v1", middleware.WithActor(actor))
	v1.POST("/internal/jobs", h.OpenContract)
	v1.POST("/internal/sweeps/line-items", h.SweepLineItems)
	v1.GET("/jobs/:job_id", h.GetJob)
	v1.GET("/jobs/:job_id/events", h.ListEvents)
	v1.GET("/jobs/:job_id/stream", h.StreamJob)
	v1.POST("/jobs/:job_id/depart", h.Depart)
	v1.POST("/jobs/:job_id/arrive", h.Arrive)
	v1.POST("/jobs/:job_id/confirm-arrival", h.ConfirmArrival)
	v1.POST("/jobs/:job_id/start", h.StartWork)
	v1.POST("/jobs/:job_id/complete", h.Complete)
	v1.POST("/jobs/:job_id/confirm-complete", h.ConfirmComplete)
	v1.POST("/jobs/:job_id/cancel", h.Cancel)
	v1.GET("/jobs/:job_id/cancellation-quote", h.CancellationQuote)
	v1.POST("/jobs/:job_id/dispute", h.Dispute)
	v1.POST("/jobs/:job_id/acknowledgements", h.AcceptAcknowledgement)
	v1.GET("/jobs/:job_id/acknowledgements", h.CheckAcknowledgement)
	v1.POST("/jobs/:job_id/line-items", h.AddLineItem)
	v1.POST("/line-items/:item_id/approve", h.ApproveLineItem)
	v1.POST("/line-items/:item_id/reject", h.RejectLineItem)
	return r, uc, h
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body %q: %v", w.Body.String(), err)
	}
	return body
}

func sampleView(phase lifecycle.Phase, version int64) projection.JobView {
	return projection.JobView{JobID: "job-1", Phase: phase, Version: version}
}

func TestJobHandler_OpenContract(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		r, _, _ := newJobRouter(t, testPlatform)
		w := doJSON(r, http.MethodPost, "/v1/internal/jobs", "{")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if body := decodeBody(t, w); body["code"] != "VALIDATION_ERROR" || body["success"] != false {
			t.Fatalf("unexpected body %v", body)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		r, _, _ := newJobRouter(t, testPlatform)
		w := doJSON(r, http.MethodPost, "/v1/internal/jobs", `{"job_id":"job-1"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("created", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testPlatform)
		uc.EXPECT().OpenContract(gomock.Any(), testPlatform, usecase.OpenContractInput{
			JobID: "job-1", CustomerID: "cust-1", MechanicID: "mech-1", QuotedPriceCents: 12000,
		}).Return(sampleView(lifecycle.PhaseQuoteAccepted, 1), true, nil)

		w := doJSON(r, http.MethodPost, "/v1/internal/jobs", `{"job_id":"job-1","customer_id":"cust-1","mechanic_id":"mech-1","quoted_price_cents":12000}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		body := decodeBody(t, w)
		if body["created"] != true || body["job"].(map[string]any)["phase"] != "quote_accepted" {
			t.Fatalf("unexpected body %v", body)
		}
	})

	t.Run("already open", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testPlatform)
		uc.EXPECT().OpenContract(gomock.Any(), testPlatform, gomock.Any()).Return(sampleView(lifecycle.PhaseMechanicEnRoute, 3), false, nil)
		w := doJSON(r, http.MethodPost, "/v1/internal/jobs", `{"job_id":"job-1","customer_id":"cust-1","mechanic_id":"mech-1","quoted_price_cents":12000}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestJobHandler_ProgressCommands(t *testing.T) {
	view := sampleView(lifecycle.PhaseMechanicEnRoute, 2)

	t.Run("depart with eta", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testMechanic)
		uc.EXPECT().MarkDeparted(gomock.Any(), testMechanic, "job-1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ entities.Actor, _ string, in usecase.DepartInput) (projection.JobView, error) {
				if in.EstimatedMinutes == nil || *in.EstimatedMinutes != 15 || in.Location == nil {
					t.Fatalf("unexpected input %+v", in)
				}
				return view, nil
			})
		w := doJSON(r, http.MethodPost, "/v1/jobs/job-1/depart", `{"eta_minutes":15,"location":{"lat":-23.5,"lng":-46.6}}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := decodeBody(t, w)
		if body["success"] != true || body["job"].(map[string]any)["phase"] != "mechanic_en_route" {
			t.Fatalf("unexpected body %v", body)
		}
	})

	t.Run("depart without body", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testMechanic)
		uc.EXPECT().MarkDeparted(gomock.Any(), testMechanic, "job-1", usecase.DepartInput{}).Return(view, nil)
		if w := doJSON(r, http.MethodPost, "/v1/jobs/job-1/depart", ""); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		r, _, _ := newJobRouter(t, testMechanic)
		if w := doJSON(r, http.MethodPost, "/v1/jobs/job-1/arrive", `{"location":"here"}`); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("start work precondition", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testMechanic)
		uc.EXPECT().StartWork(gomock.Any(), testMechanic, "job-1").Return(projection.JobView{}, entities.NewPreconditionFailed("add before-photos first"))
		w := doJSON(r, http.MethodPost, "/v1/jobs/job-1/start", "")
		if w.Code != http.StatusPreconditionFailed {
			t.Fatalf("expected 412, got %d", w.Code)
		}
		body := decodeBody(t, w)
		if body["code"] != "PRECONDITION_FAILED" || body["error"] != "add before-photos first" {
			t.Fatalf("unexpected body %v", body)
		}
	})

	t.Run("complete passes summary", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testMechanic)
		uc.EXPECT().MarkComplete(gomock.Any(), testMechanic, "job-1", usecase.CompleteInput{WorkSummary: "done"}).Return(view, nil)
		if w := doJSON(r, http.MethodPost, "/v1/jobs/job-1/complete", `{"work_summary":"done"}`); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("customer confirmations", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testCustomer)
		uc.EXPECT().ConfirmArrival(gomock.Any(), testCustomer, "job-1").Return(view, nil)
		uc.EXPECT().ConfirmComplete(gomock.Any(), testCustomer, "job-1").Return(projection.JobView{}, entities.NewConcurrencyConflict("lost"))
		if w := doJSON(r, http.MethodPost, "/v1/jobs/job-1/confirm-arrival", ""); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if w := doJSON(r, http.MethodPost, "/v1/jobs/job-1/confirm-complete", ""); w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})
}

func TestJobHandler_Queries(t *testing.T) {
	t.Run("get job", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testCustomer)
		uc.EXPECT().GetJobView(gomock.Any(), testCustomer, "job-1").Return(sampleView(lifecycle.PhaseWorkInProgress, 6), nil)
		w := doJSON(r, http.MethodGet, "/v1/jobs/job-1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("get job not authorized", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testCustomer)
		uc.EXPECT().GetJobView(gomock.Any(), testCustomer, "job-9").Return(projection.JobView{}, entities.NewNotAuthorized("actor is not a party"))
		if w := doJSON(r, http.MethodGet, "/v1/jobs/job-9", ""); w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})

	t.Run("events", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testMechanic)
		uc.EXPECT().ListEvents(gomock.Any(), testMechanic, "job-1").Return([]entities.JobEvent{
			{ID: "ev-1", Type: entities.EventContractCreated, Title: "New job confirmed", NotifyUserID: "mech-1"},
		}, nil)
		w := doJSON(r, http.MethodGet, "/v1/jobs/job-1/events", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		events := decodeBody(t, w)["events"].([]any)
		if len(events) != 1 || events[0].(map[string]any)["event_type"] != "contract_created" {
			t.Fatalf("unexpected events %v", events)
		}
	})

	t.Run("internal error is hidden", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testMechanic)
		uc.EXPECT().ListEvents(gomock.Any(), testMechanic, "job-1").Return(nil, errors.New("dynamodb: throttled"))
		w := doJSON(r, http.MethodGet, "/v1/jobs/job-1/events", "")
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		if strings.Contains(w.Body.String(), "throttled") {
			t.Fatalf("internal cause leaked: %s", w.Body.String())
		}
	})
}

func TestJobHandler_Exits(t *testing.T) {
	t.Run("cancel requires reason", func(t *testing.T) {
		r, _, _ := newJobRouter(t, testCustomer)
		if w := doJSON(r, http.MethodPost, "/v1/jobs/job-1/cancel", `{"note":"x"}`); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("cancel", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testCustomer)
		uc.EXPECT().CancelJob(gomock.Any(), testCustomer, "job-1", usecase.CancelInput{Reason: "too_expensive"}).Return(sampleView(lifecycle.PhaseCancelled, 3), nil)
		if w := doJSON(r, http.MethodPost, "/v1/jobs/job-1/cancel", `{"reason":"too_expensive"}`); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("cancel after work started", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testCustomer)
		uc.EXPECT().CancelJob(gomock.Any(), testCustomer, "job-1", gomock.Any()).Return(projection.JobView{}, entities.NewInvalidTransition("work has already started"))
		if w := doJSON(r, http.MethodPost, "/v1/jobs/job-1/cancel", `{"reason":"too_expensive"}`); w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("quote", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testCustomer)
		uc.EXPECT().CancellationQuote(gomock.Any(), testCustomer, "job-1").Return(cancellation.Quote{FeeCents: 1500}, nil)
		w := doJSON(r, http.MethodGet, "/v1/jobs/job-1/cancellation-quote", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if q := decodeBody(t, w)["quote"].(map[string]any); q["fee_cents"] != float64(1500) {
			t.Fatalf("unexpected quote %v", q)
		}
	})

	t.Run("dispute", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testMechanic)
		uc.EXPECT().OpenDispute(gomock.Any(), testMechanic, "job-1", usecase.DisputeInput{Category: "payment", Description: "customer left"}).Return(sampleView(lifecycle.PhaseDisputed, 8), nil)
		if w := doJSON(r, http.MethodPost, "/v1/jobs/job-1/dispute", `{"category":"payment","description":"customer left"}`); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestJobHandler_Acknowledgements(t *testing.T) {
	t.Run("accept", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testMechanic)
		uc.EXPECT().AcceptAcknowledgement(gomock.Any(), testMechanic, "job-1", usecase.AcknowledgementInput{}).Return(entities.Acknowledgement{ID: "ack-1", Version: "ACK_2026.01"}, nil)
		w := doJSON(r, http.MethodPost, "/v1/jobs/job-1/acknowledgements", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("check", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testCustomer)
		uc.EXPECT().CheckAcknowledgement(gomock.Any(), testCustomer, "job-1", "", entities.RoleMechanic).Return(true, nil)
		w := doJSON(r, http.MethodGet, "/v1/jobs/job-1/acknowledgements?role=Mechanic", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if body := decodeBody(t, w); body["accepted"] != true || body["role"] != "mechanic" {
			t.Fatalf("unexpected body %v", body)
		}
	})
}

func TestJobHandler_LineItems(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testMechanic)
		uc.EXPECT().AddLineItem(gomock.Any(), testMechanic, "job-1", billing.NewLineItemInput{
			ItemType: entities.LineItemDiagnostic, Description: "OBD scan", Quantity: 1, UnitPriceCents: 8000,
		}).Return(entities.InvoiceLineItem{ID: "item-1", ApprovalStatus: entities.ApprovalPending}, sampleView(lifecycle.PhaseWorkInProgress, 7), nil)

		w := doJSON(r, http.MethodPost, "/v1/jobs/job-1/line-items", `{"item_type":"diagnostic","description":"OBD scan","unit_price_cents":8000}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		if item := decodeBody(t, w)["line_item"].(map[string]any); item["id"] != "item-1" {
			t.Fatalf("unexpected item %v", item)
		}
	})

	t.Run("add validation from use case", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testMechanic)
		uc.EXPECT().AddLineItem(gomock.Any(), testMechanic, "job-1", gomock.Any()).Return(entities.InvoiceLineItem{}, projection.JobView{}, entities.NewValidationError("unknown item_type"))
		if w := doJSON(r, http.MethodPost, "/v1/jobs/job-1/line-items", `{"item_type":"tip","description":"x","unit_price_cents":1}`); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("approve conflict", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testCustomer)
		uc.EXPECT().ApproveLineItem(gomock.Any(), testCustomer, "item-1").Return(projection.JobView{}, entities.NewConcurrencyConflict("line item item-1 is already rejected"))
		w := doJSON(r, http.MethodPost, "/v1/line-items/item-1/approve", "")
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
		if decodeBody(t, w)["code"] != "CONCURRENCY_CONFLICT" {
			t.Fatalf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("reject with reason", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testCustomer)
		uc.EXPECT().RejectLineItem(gomock.Any(), testCustomer, "item-1", "too expensive").Return(sampleView(lifecycle.PhaseWorkInProgress, 8), nil)
		if w := doJSON(r, http.MethodPost, "/v1/line-items/item-1/reject", `{"reason":"too expensive"}`); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("sweep", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testPlatform)
		uc.EXPECT().SweepExpiredLineItems(gomock.Any()).Return(usecase.SweepResult{Jobs: 2, AutoRejected: 3}, nil)
		w := doJSON(r, http.MethodPost, "/v1/internal/sweeps/line-items", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if res := decodeBody(t, w)["result"].(map[string]any); res["auto_rejected"] != float64(3) {
			t.Fatalf("unexpected result %v", res)
		}
	})
}

// closeNotifyingRecorder lets gin's Stream run against httptest.
type closeNotifyingRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyingRecorder) CloseNotify() <-chan bool { return r.closed }

func TestJobHandler_StreamJob(t *testing.T) {
	t.Run("pushes a fresh view per change", func(t *testing.T) {
		r, uc, h := newJobRouter(t, testCustomer)
		h.keepAlive = time.Hour

		changes := make(chan projection.Change, 3)
		changes <- projection.Change{JobID: "job-1", Version: 2}
		changes <- projection.Change{JobID: "job-1", Version: 3}
		close(changes)

		cancelled := false
		uc.EXPECT().SubscribeChanges(gomock.Any(), testCustomer, "job-1").Return((<-chan projection.Change)(changes), func() { cancelled = true }, nil)
		gomock.InOrder(
			uc.EXPECT().GetJobView(gomock.Any(), testCustomer, "job-1").Return(sampleView(lifecycle.PhaseMechanicEnRoute, 2), nil),
			uc.EXPECT().GetJobView(gomock.Any(), testCustomer, "job-1").Return(sampleView(lifecycle.PhaseAwaitingArrivalConfirmation, 3), nil),
		)

		w := &closeNotifyingRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool)}
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/jobs/job-1/stream", nil))

		body := w.Body.String()
		if got := strings.Count(body, "event:job"); got != 2 {
			t.Fatalf("expected 2 job events, got %d: %s", got, body)
		}
		if !strings.Contains(body, "awaiting_arrival_confirmation") {
			t.Fatalf("expected refreshed view in stream: %s", body)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
			t.Fatalf("unexpected content type %q", ct)
		}
		if !cancelled {
			t.Fatalf("subscription was not released")
		}
	})

	t.Run("feed not configured", func(t *testing.T) {
		r, uc, _ := newJobRouter(t, testCustomer)
		uc.EXPECT().SubscribeChanges(gomock.Any(), testCustomer, "job-1").Return(nil, nil, fmt.Errorf("subscribe: %w", usecase.ErrChangeFeedNotConfigured))
		w := doJSON(r, http.MethodGet, "/v1/jobs/job-1/stream", "")
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", w.Code)
		}
	})
}

func TestMapJobError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{entities.NewValidationError("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{entities.NewNotAuthorized("no"), http.StatusForbidden, "NOT_AUTHORIZED"},
		{entities.NewNotFound("gone"), http.StatusNotFound, "NOT_FOUND"},
		{entities.NewInvalidTransition("phase"), http.StatusConflict, "INVALID_TRANSITION"},
		{entities.NewPreconditionFailed("photos"), http.StatusPreconditionFailed, "PRECONDITION_FAILED"},
		{fmt.Errorf("wrapped: %w", entities.NewConcurrencyConflict("race")), http.StatusConflict, "CONCURRENCY_CONFLICT"},
		{errInvalidJobPayload, http.StatusBadRequest, "VALIDATION_ERROR"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			appErr := mapJobError(tt.err)
			if appErr.HTTPStatus != tt.wantStatus || appErr.Code != tt.wantCode {
				t.Fatalf("got %d %s, want %d %s", appErr.HTTPStatus, appErr.Code, tt.wantStatus, tt.wantCode)
			}
		})
	}
}
