package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/sports-sync/internal/domain/match"
)

func intPtr(v int) *int { return &v }

func TestMergeMatch(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
	base := match.Match{ID: 5, ExternalID: "1001", LeagueID: 1, HomeTeamID: 10, AwayTeamID: 11, ScheduledAt: kickoff}

	cases := []struct {
		name        string
		stored      match.Match
		incoming    match.Match
		wantStatus  string
		wantChanges []string
	}{
		{
			name:        "finished result applied",
			stored:      with(base, match.StatusScheduled, nil, nil),
			incoming:    with(base, match.StatusFinished, intPtr(1), intPtr(0)),
			wantStatus:  match.StatusFinished,
			wantChanges: []string{"status", "home_score", "away_score"},
		},
		{
			name:        "stale live after finished ignored",
			stored:      with(base, match.StatusFinished, intPtr(2), intPtr(2)),
			incoming:    with(base, match.StatusLive, intPtr(1), intPtr(2)),
			wantStatus:  match.StatusFinished,
			wantChanges: nil,
		},
		{
			name:        "cancelled reopened by new kickoff",
			stored:      with(base, match.StatusCancelled, nil, nil),
			incoming:    rescheduled(with(base, match.StatusScheduled, nil, nil), kickoff.Add(48*time.Hour)),
			wantStatus:  match.StatusScheduled,
			wantChanges: []string{"scheduled_at", "status"},
		},
		{
			name:        "same payload unchanged",
			stored:      with(base, match.StatusLive, intPtr(0), intPtr(0)),
			incoming:    with(base, match.StatusLive, intPtr(0), intPtr(0)),
			wantStatus:  match.StatusLive,
			wantChanges: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			merged, _ := mergeMatch(tc.stored, tc.incoming)
			if merged.Status != tc.wantStatus {
				t.Fatalf("status: got %s want %s", merged.Status, tc.wantStatus)
			}
			if merged.ID != tc.stored.ID {
				t.Fatalf("merge must keep the stored identity")
			}
			got := matchChanges(tc.stored, merged)
			if len(got) != len(tc.wantChanges) {
				t.Fatalf("changes: got %v want %v", got, tc.wantChanges)
			}
			for i := range got {
				if got[i] != tc.wantChanges[i] {
					t.Fatalf("changes: got %v want %v", got, tc.wantChanges)
				}
			}
		})
	}
}

func TestJSONEqual(t *testing.T) {
	t.Parallel()

	if !jsonEqual([]byte(`{"a":1,"b":[1,2]}`), []byte(`{ "b": [1, 2], "a": 1.0 }`)) {
		t.Fatalf("expected semantic equality")
	}
	if jsonEqual([]byte(`{"a":1}`), nil) {
		t.Fatalf("document must differ from nil")
	}
	if !jsonEqual(nil, nil) {
		t.Fatalf("nil documents are equal")
	}
	if jsonEqual([]byte(`{"a":1}`), []byte(`{"a":2}`)) {
		t.Fatalf("different values must not be equal")
	}
}

func with(m match.Match, status string, home, away *int) match.Match {
	m.Status = status
	m.HomeScore, m.AwayScore = home, away
	return m
}

func rescheduled(m match.Match, at time.Time) match.Match {
	m.ScheduledAt = at
	return m
}
