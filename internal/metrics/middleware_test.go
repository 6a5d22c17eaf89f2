package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newInstrumentedRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Route("/api/v1/tasks", func(r chi.Router) {
		r.Get("/{id}", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("{}"))
		})
		r.Delete("/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
	r.Post("/api/v1/search", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	return r
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := newInstrumentedRouter()

	// Two different task ids must collapse into one route pattern label.
	for _, path := range []string{"/api/v1/tasks/abc", "/api/v1/tasks/def"} {
		req := httptest.NewRequest("GET", path, http.NoBody)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("GET %s: got %d", path, rr.Code)
		}
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/tasks/{id}", "200"))
	if val < 2 {
		t.Errorf("expected http_requests_total >= 2 for the task route pattern, got %f", val)
	}

	if count := testutil.CollectAndCount(httpRequestDuration); count == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_RecordsStatusAndMethod(t *testing.T) {
	r := newInstrumentedRouter()

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"DELETE", "/api/v1/tasks/abc", "204"},
		{"POST", "/api/v1/search", "400"},
	}
	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, http.NoBody)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			label := "/api/v1/search"
			if tc.method == "DELETE" {
				label = "/api/v1/tasks/{id}"
			}
			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, label, tc.want))
			if val < 1 {
				t.Errorf("expected a sample for %s %s status %s, got %f", tc.method, label, tc.want, val)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "unknown"},
		{"/api/v1/tasks/{id}", "/api/v1/tasks/{id}"},
		{"/health", "/health"},
	}
	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
