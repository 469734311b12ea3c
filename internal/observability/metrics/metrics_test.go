package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCapability(t *testing.T) {
	before := testutil.ToFloat64(capabilityCalls.WithLabelValues("test_capability", "error"))

	ObserveCapability("test_capability", nil, 10*time.Millisecond)
	ObserveCapability("test_capability", errors.New("boom"), 20*time.Millisecond)

	if got := testutil.ToFloat64(capabilityCalls.WithLabelValues("test_capability", "success")); got < 1 {
		t.Fatalf("expected success counter to increase, got %v", got)
	}
	if got := testutil.ToFloat64(capabilityCalls.WithLabelValues("test_capability", "error")); got != before+1 {
		t.Fatalf("expected error counter %v, got %v", before+1, got)
	}
}

func TestHandlerExposesHTTPMetrics(t *testing.T) {
	ObserveHTTPRequest("/api/v1/components", "GET", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	text := string(body)
	for _, want := range []string{
		`bizedu_http_requests_total{code="200",handler="/api/v1/components",method="GET"}`,
		`bizedu_http_request_duration_seconds_count{handler="/api/v1/components",method="GET"}`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
}

func TestStartServerValidatesAddress(t *testing.T) {
	if err := StartServer(context.Background(), ""); err == nil {
		t.Fatalf("expected empty address error")
	}
}
