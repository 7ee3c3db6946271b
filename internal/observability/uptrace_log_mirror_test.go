package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/sports-sync/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

func TestMirrored(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		level logging.Level
		msg   string
		want  bool
	}{
		{name: "sync run summary", level: zapcore.InfoLevel, msg: "sync run completed", want: true},
		{name: "info request log", level: zapcore.InfoLevel, msg: "http request"},
		{name: "failed request log", level: zapcore.WarnLevel, msg: "http request", want: true},
		{name: "debug", level: zapcore.DebugLevel, msg: "cache hit"},
		{name: "error", level: zapcore.ErrorLevel, msg: "append sync log failed", want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := mirrored(tc.level, tc.msg); got != tc.want {
				t.Fatalf("mirrored(%s, %q)=%v, want %v", tc.level, tc.msg, got, tc.want)
			}
		})
	}
}

func TestSyncLogRecord_CarriesRunIDAndAttributes(t *testing.T) {
	t.Parallel()

	ctx := logging.WithRunID(context.Background(), "run-42")
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	record := syncLogRecord(ctx, now, zapcore.WarnLevel, "sync run completed with errors", []any{
		"entity_type", "matches",
		"failed", 2,
		"duration", 1500 * time.Millisecond,
		"error", errors.New("kickoff missing"),
		"detail", map[string]any{"fetched": 20},
		42, "dropped",
		"dangling",
	})

	if record.Severity() != otellog.SeverityWarn || record.SeverityText() != "WARN" {
		t.Fatalf("unexpected severity %v %q", record.Severity(), record.SeverityText())
	}
	if record.Body().AsString() != "sync run completed with errors" || !record.Timestamp().Equal(now) {
		t.Fatalf("unexpected body or timestamp")
	}

	got := map[string]otellog.Value{}
	record.WalkAttributes(func(kv otellog.KeyValue) bool {
		got[kv.Key] = kv.Value
		return true
	})
	if len(got) != 6 {
		t.Fatalf("expected 6 attributes, got %d: %v", len(got), got)
	}
	if got["entity_type"].AsString() != "matches" || got["failed"].AsInt64() != 2 {
		t.Fatalf("unexpected scalar attributes: %v", got)
	}
	if got["duration"].AsString() != "1.5s" || got["error"].AsString() != "kickoff missing" {
		t.Fatalf("unexpected text attributes: %v", got)
	}
	if got["detail"].AsString() != `{"fetched":20}` {
		t.Fatalf("unexpected detail attribute: %q", got["detail"].AsString())
	}
	if got["run_id"].AsString() != "run-42" {
		t.Fatalf("expected run_id from context, got %v", got["run_id"])
	}
}

func TestSyncLogRecord_KeepsExplicitRunID(t *testing.T) {
	t.Parallel()

	ctx := logging.WithRunID(context.Background(), "run-ctx")
	record := syncLogRecord(ctx, time.Now(), zapcore.InfoLevel, "sync run completed", []any{"run_id", "run-arg"})

	runIDs := 0
	record.WalkAttributes(func(kv otellog.KeyValue) bool {
		if kv.Key == "run_id" {
			runIDs++
			if kv.Value.AsString() != "run-arg" {
				t.Fatalf("unexpected run_id %q", kv.Value.AsString())
			}
		}
		return true
	})
	if runIDs != 1 {
		t.Fatalf("expected one run_id attribute, got %d", runIDs)
	}
}
