package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mecanica_jobs/internal/adapter/http/middleware"
	"mecanica_jobs/internal/adapter/persistence/repository"
	"mecanica_jobs/internal/config"
	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/infrastructure/messaging"
	"mecanica_jobs/internal/infrastructure/observability"
	"mecanica_jobs/internal/infrastructure/storage"
	"mecanica_jobs/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const testSecret = "routes-test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	jobs := usecase.NewJobUseCase(
		repository.NewJobMemoryRepository(),
		storage.NewMemoryEvidenceStore(),
		nil,
		messaging.NewMemoryChangeFeed(),
		nil,
		policyFromConfig(config.DefaultFeePolicy()),
		usecase.WithMetrics(metrics),
	)
	return NewRouter(RouterDeps{
		Jobs:        jobs,
		Metrics:     metrics,
		Gatherer:    reg,
		JWTSecret:   testSecret,
		ServiceName: "mecanica-jobs-test",
	})
}

func bearer(t *testing.T, userID string, role entities.Role) string {
	t.Helper()
	token, _, err := middleware.GenerateToken(userID, role, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return "Bearer " + token
}

func call(r http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicRoutes(t *testing.T) {
	r := newTestRouter(t)

	if w := call(r, http.MethodGet, "/ping", "", ""); w.Code != http.StatusOK {
		t.Fatalf("ping: expected 200, got %d", w.Code)
	}
	if w := call(r, http.MethodGet, "/metrics", "", ""); w.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", w.Code)
	}
	w := call(r, http.MethodGet, "/v1/jobs/job-1", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	if w.Header().Get(middleware.HeaderRequestID) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestRouter_InternalRoutesRequireSystem(t *testing.T) {
	r := newTestRouter(t)
	body := `{"job_id":"job-1","customer_id":"cust-1","mechanic_id":"mech-1","quoted_price_cents":12000}`

	if w := call(r, http.MethodPost, "/v1/internal/jobs", bearer(t, "cust-1", entities.RoleCustomer), body); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", w.Code)
	}
	if w := call(r, http.MethodPost, "/v1/internal/sweeps/line-items", bearer(t, "mech-1", entities.RoleMechanic), ""); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for mechanic, got %d", w.Code)
	}
}

func TestRouter_JobFlow(t *testing.T) {
	r := newTestRouter(t)
	system := bearer(t, "system", entities.RoleSystem)
	customer := bearer(t, "cust-1", entities.RoleCustomer)
	mechanic := bearer(t, "mech-1", entities.RoleMechanic)

	w := call(r, http.MethodPost, "/v1/internal/jobs", system, `{"job_id":"job-1","customer_id":"cust-1","mechanic_id":"mech-1","quoted_price_cents":12000}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("open: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = call(r, http.MethodPost, "/v1/jobs/job-1/depart", mechanic, `{"eta_minutes":20}`)
	if w.Code != http.StatusOK {
		t.Fatalf("depart: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = call(r, http.MethodPost, "/v1/jobs/job-1/depart", customer, "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("customer depart: expected 403, got %d", w.Code)
	}

	w = call(r, http.MethodGet, "/v1/jobs/job-1", customer, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	var got struct {
		Success bool `json:"success"`
		Job     struct {
			Phase   string `json:"phase"`
			Version int64  `json:"version"`
		} `json:"job"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Success || got.Job.Phase != "mechanic_en_route" || got.Job.Version != 2 {
		t.Fatalf("unexpected view %+v", got)
	}

	if w := call(r, http.MethodGet, "/v1/jobs/job-1", bearer(t, "cust-2", entities.RoleCustomer), ""); w.Code != http.StatusForbidden {
		t.Fatalf("stranger: expected 403, got %d", w.Code)
	}
	if w := call(r, http.MethodGet, "/v1/jobs/missing", customer, ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing: expected 404, got %d", w.Code)
	}
}

func TestBuildEvidenceStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory driver without minio", func(t *testing.T) {
		store, err := buildEvidenceStore(ctx, &config.Config{StorageDriver: config.StorageMemory})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := store.(*storage.MemoryEvidenceStore); !ok {
			t.Fatalf("expected memory store, got %T", store)
		}
	})

	t.Run("dynamodb driver without minio fails", func(t *testing.T) {
		if _, err := buildEvidenceStore(ctx, &config.Config{StorageDriver: config.StorageDynamoDB}); err == nil {
			t.Fatalf("expected error without MINIO_ENDPOINT")
		}
	})
}
