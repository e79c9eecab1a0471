package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Commands(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveCommand("start-work", "ok", 20*time.Millisecond)
	m.ObserveCommand("start-work", "PRECONDITION_FAILED", time.Millisecond)
	m.IncConflictRetry("approve-line-item")
	m.IncPayment("final", "captured")

	if got := testutil.ToFloat64(m.commandsTotal.WithLabelValues("start-work", "ok")); got != 1 {
		t.Fatalf("expected 1 ok command, got %v", got)
	}
	if got := testutil.ToFloat64(m.conflictRetries.WithLabelValues("approve-line-item")); got != 1 {
		t.Fatalf("expected 1 retry, got %v", got)
	}
	if got := testutil.ToFloat64(m.paymentsTotal.WithLabelValues("final", "captured")); got != 1 {
		t.Fatalf("expected 1 payment, got %v", got)
	}
}

func TestMetrics_GinMiddlewareUsesRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics(prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/v1/jobs/:job_id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/jobs/"+id, nil))
	}

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/v1/jobs/:job_id", "200")); got != 2 {
		t.Fatalf("expected 2 requests under the route pattern, got %v", got)
	}
}
