package overview

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRenderOneCardPerComponent(t *testing.T) {
	components := DefaultComponents()
	if len(components) != 6 {
		t.Fatalf("expected six default components, got %d", len(components))
	}

	var buf bytes.Buffer
	if err := Render(&buf, components); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	if got := strings.Count(html, `<article class="card"`); got != len(components) {
		t.Fatalf("expected %d cards, got %d", len(components), got)
	}
	if got := strings.Count(html, `role="tabpanel"`); got != 2*len(components) {
		t.Fatalf("expected two panels per card, got %d", got)
	}
	if !strings.Contains(html, `id="knowledge-base-example"`) {
		t.Fatalf("expected slugged panel ids")
	}
}

func TestRenderOmitsMissingDetails(t *testing.T) {
	components := []Component{
		{Name: "Full", Icon: "1", Description: "d", Example: "e", Output: "o", Features: []string{"a", "b"}, Integration: "i", UseCases: []string{"u"}},
		{Name: "Bare", Icon: "2", Description: "d", Example: "e"},
	}

	var buf bytes.Buffer
	if err := Render(&buf, components); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	for _, class := range []string{"detail-output", "detail-features", "detail-integration", "detail-use-cases"} {
		if got := strings.Count(html, class); got != 1 {
			t.Fatalf("expected %s exactly once, got %d", class, got)
		}
	}
	if !strings.Contains(html, "<strong>Features:</strong> a, b") {
		t.Fatalf("expected joined features")
	}
}

func TestRenderEscapesContent(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, []Component{{Name: "X", Example: `<script>alert(1)</script>`}}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "<script>alert(1)</script>") {
		t.Fatalf("example must be escaped")
	}
}

func TestServerHandlers(t *testing.T) {
	srv := NewServer(":0", nil)
	handler := srv.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected page response: %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/components", nil))
	var got []Component
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode components: %v", err)
	}
	if diff := cmp.Diff(DefaultComponents(), got); diff != "" {
		t.Fatalf("components (-want +got):\n%s", diff)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/components", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `bizedu_http_requests_total{code="200",handler="/api/v1/components",method="GET"}`) {
		t.Fatalf("expected instrumented requests in metrics output")
	}
}
