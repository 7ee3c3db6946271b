package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSyncRun(t *testing.T) {
	before := testutil.ToFloat64(SyncRuns.WithLabelValues("leagues", "COMPLETED"))
	createdBefore := testutil.ToFloat64(SyncRecords.WithLabelValues("leagues", "created"))

	RecordSyncRun("leagues", "COMPLETED", 2, 0, 1, time.Second)

	if got := testutil.ToFloat64(SyncRuns.WithLabelValues("leagues", "COMPLETED")); got != before+1 {
		t.Fatalf("unexpected run count %v", got)
	}
	if got := testutil.ToFloat64(SyncRecords.WithLabelValues("leagues", "created")); got != createdBefore+2 {
		t.Fatalf("unexpected created count %v", got)
	}
}

func TestRecordFetchAndCache(t *testing.T) {
	RecordFetch("api_football", "/teams", 0)
	RecordFetch("api_football", "/teams", 200)
	RecordCache("api_football", true)

	if got := testutil.ToFloat64(FetchRequests.WithLabelValues("api_football", "/teams", "error")); got < 1 {
		t.Fatalf("expected error-coded fetch to be counted, got %v", got)
	}
	if got := testutil.ToFloat64(FetchCache.WithLabelValues("api_football", "hit")); got < 1 {
		t.Fatalf("expected cache hit to be counted, got %v", got)
	}
}

func TestHandlerServesExposition(t *testing.T) {
	RecordCache("football_data", false)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sports_sync_fetch_cache_total") {
		t.Fatalf("expected sync metrics in exposition")
	}
}
