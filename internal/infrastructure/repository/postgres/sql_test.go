package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"
)

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows to be not found")
	}
	if !isNotFound(fmt.Errorf("get league: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fmt.Errorf("pq: relation leagues does not exist")) {
		t.Fatalf("expected unrelated error to be found")
	}
}

func TestNullableJSON(t *testing.T) {
	t.Parallel()

	if got := nullableJSON(nil); got != nil {
		t.Fatalf("expected nil for empty document, got %q", *got)
	}
	got := nullableJSON([]byte(`{"home":{"shots":3}}`))
	if got == nil || *got != `{"home":{"shots":3}}` {
		t.Fatalf("unexpected json text %v", got)
	}
	if back := jsonBytes(got); string(back) != *got {
		t.Fatalf("round trip mismatch: %s", back)
	}
	if jsonBytes(nil) != nil {
		t.Fatalf("expected nil bytes for null column")
	}
}

func TestNullableTime(t *testing.T) {
	t.Parallel()

	if nullableTime(nil) != nil {
		t.Fatalf("expected nil")
	}
	zero := time.Time{}
	if nullableTime(&zero) != nil {
		t.Fatalf("expected zero time to be stored as null")
	}
	local := time.Date(2026, 3, 10, 21, 0, 0, 0, time.FixedZone("CET", 3600))
	got := nullableTime(&local)
	if got == nil || got.Location() != time.UTC || !got.Equal(local) {
		t.Fatalf("expected utc copy, got %v", got)
	}
}
