package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder_SyncLogFilter(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	query, args, err := Select("id", "status").
		From("sync_logs").
		Where(Eq("entity_type", "matches"), Gte("started_at", from), In("status", "COMPLETED", "FAILED")).
		OrderBy("started_at DESC", "id DESC").
		Limit(50).
		Offset(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, status FROM sync_logs WHERE entity_type = $1 AND started_at >= $2 AND status IN ($3, $4) ORDER BY started_at DESC, id DESC LIMIT 50 OFFSET 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "matches" || args[3] != "FAILED" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("*").From("teams").Where(In("id")).ToSQL()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if query != "SELECT * FROM teams WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query=%q args=%v", query, args)
	}
}

func TestInsertBuilder_SuffixArgsContinueNumbering(t *testing.T) {
	query, args, err := InsertInto("api_rate_limit_counters").
		Columns("source_key", "window_start", "calls").
		Values("rate_limit:api_football", "w", 1).
		Suffix("ON CONFLICT (source_key, window_start) DO UPDATE SET calls = api_rate_limit_counters.calls + 1 WHERE api_rate_limit_counters.calls < ? RETURNING calls", 100).
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO api_rate_limit_counters (source_key, window_start, calls) VALUES ($1, $2, $3) ON CONFLICT (source_key, window_start) DO UPDATE SET calls = api_rate_limit_counters.calls + 1 WHERE api_rate_limit_counters.calls < $4 RETURNING calls"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[3] != 100 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("matches").
		Set("status", "FINISHED").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", int64(7))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE matches SET status = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "FINISHED" || args[1] != int64(7) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_RequiresWhere(t *testing.T) {
	if _, _, err := Update("matches").Set("status", "LIVE").ToSQL(); err == nil {
		t.Fatalf("expected error for unscoped update")
	}
}

type sampleRow struct {
	ID         int64   `db:"id"`
	ExternalID string  `db:"external_id"`
	Name       string  `db:"name"`
	Venue      *string `db:"venue"`
	ignored    string
	Computed   string `db:"-"`
}

func TestModelHelpers(t *testing.T) {
	row := sampleRow{ID: 1, ExternalID: "33", Name: "Manchester United", ignored: "x"}

	if cols := Columns(row); len(cols) != 4 || cols[0] != "id" || cols[3] != "venue" {
		t.Fatalf("unexpected columns %v", cols)
	}

	query, args, err := InsertModel("teams", row, "RETURNING id", "id")
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}
	if query != "INSERT INTO teams (external_id, name, venue) VALUES ($1, $2, $3) RETURNING id" {
		t.Fatalf("unexpected insert %q", query)
	}
	if len(args) != 3 || args[0] != "33" {
		t.Fatalf("unexpected args %v", args)
	}

	query, args, err = UpdateModel("teams", &row, []Condition{Eq("id", row.ID)}, "id", "external_id")
	if err != nil {
		t.Fatalf("update model: %v", err)
	}
	if query != "UPDATE teams SET name = $1, venue = $2 WHERE id = $3" {
		t.Fatalf("unexpected update %q", query)
	}
	if len(args) != 3 || args[2] != int64(1) {
		t.Fatalf("unexpected args %v", args)
	}
}

type auditedRow struct {
	sampleRow
	UpdatedAt time.Time `db:"updated_at"`
}

func TestModelHelpers_EmbeddedStructsExtendColumns(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	row := auditedRow{sampleRow: sampleRow{ID: 1, ExternalID: "33", Name: "Arsenal"}, UpdatedAt: at}

	if cols := Columns(row); len(cols) != 5 || cols[4] != "updated_at" {
		t.Fatalf("unexpected columns %v", cols)
	}

	query, args, err := UpdateModel("teams", row, []Condition{Eq("id", int64(1))}, "id", "external_id")
	if err != nil {
		t.Fatalf("update model: %v", err)
	}
	if query != "UPDATE teams SET name = $1, venue = $2, updated_at = $3 WHERE id = $4" {
		t.Fatalf("unexpected update %q", query)
	}
	if args[2] != at {
		t.Fatalf("unexpected args %v", args)
	}
}
