package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantHeaders string
		wantVary    bool
	}{
		{
			name:        "configured origin echoed",
			allowed:     []string{" https://ops.example.com "},
			method:      http.MethodGet,
			origin:      "https://ops.example.com",
			wantStatus:  http.StatusOK,
			wantOrigin:  "https://ops.example.com",
			wantHeaders: "Content-Type,Accept,X-Admin-Token",
			wantVary:    true,
		},
		{
			name:        "wildcard preflight",
			allowed:     []string{"*"},
			method:      http.MethodOptions,
			origin:      "https://ops.example.com",
			wantStatus:  http.StatusNoContent,
			wantOrigin:  "*",
			wantHeaders: "Content-Type,Accept,X-Admin-Token",
		},
		{
			name:       "unknown origin gets no headers",
			allowed:    []string{"https://ops.example.com"},
			method:     http.MethodPost,
			origin:     "https://elsewhere.example.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "no origin passes through",
			allowed:    []string{"*"},
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := CORS(tt.allowed, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			req := httptest.NewRequest(tt.method, "/v1/admin/sync/full", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status=%d want=%d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("allow origin=%q want=%q", got, tt.wantOrigin)
			}
			if got := rec.Header().Get("Access-Control-Allow-Headers"); got != tt.wantHeaders {
				t.Fatalf("allow headers=%q want=%q", got, tt.wantHeaders)
			}
			if got := rec.Header().Get("Vary") == "Origin"; got != tt.wantVary {
				t.Fatalf("vary origin=%v want=%v", got, tt.wantVary)
			}
		})
	}
}

func TestShouldTraceRequest(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"/healthz":               false,
		" /healthz ":             false,
		"/readyz":                false,
		"/metrics":               false,
		"/v1/admin/sync/leagues": true,
		"/v1/admin/sources":      true,
		"/docs":                  true,
	}
	for path, want := range tests {
		if got := shouldTraceRequest(path); got != want {
			t.Fatalf("shouldTraceRequest(%q)=%v want=%v", path, got, want)
		}
	}
}
