package match

import (
	"testing"
	"time"
)

func TestReconcileStatus(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 8, 16, 14, 0, 0, 0, time.UTC)
	moved := kickoff.Add(72 * time.Hour)

	tests := []struct {
		name     string
		from     string
		to       string
		incoming time.Time
		want     string
		accepted bool
	}{
		{name: "scheduled to live", from: StatusScheduled, to: StatusLive, incoming: kickoff, want: StatusLive, accepted: true},
		{name: "live to finished", from: StatusLive, to: StatusFinished, incoming: kickoff, want: StatusFinished, accepted: true},
		{name: "scheduled to finished", from: StatusScheduled, to: StatusFinished, incoming: kickoff, want: StatusFinished, accepted: true},
		{name: "scheduled to postponed", from: StatusScheduled, to: StatusPostponed, incoming: kickoff, want: StatusPostponed, accepted: true},
		{name: "postponed rescheduled", from: StatusPostponed, to: StatusScheduled, incoming: moved, want: StatusScheduled, accepted: true},
		{name: "postponed back to scheduled same time", from: StatusPostponed, to: StatusScheduled, incoming: kickoff, want: StatusScheduled, accepted: true},
		{name: "stale live after finished", from: StatusFinished, to: StatusLive, incoming: kickoff, want: StatusFinished, accepted: false},
		{name: "stale scheduled after finished", from: StatusFinished, to: StatusScheduled, incoming: kickoff, want: StatusFinished, accepted: false},
		{name: "finished then cancelled", from: StatusFinished, to: StatusCancelled, incoming: kickoff, want: StatusCancelled, accepted: true},
		{name: "stale scheduled after live", from: StatusLive, to: StatusScheduled, incoming: kickoff, want: StatusLive, accepted: false},
		{name: "live suspended", from: StatusLive, to: StatusPostponed, incoming: kickoff, want: StatusPostponed, accepted: true},
		{name: "cancelled sticky against not started", from: StatusCancelled, to: StatusScheduled, incoming: kickoff, want: StatusCancelled, accepted: false},
		{name: "cancelled sticky against postponed", from: StatusCancelled, to: StatusPostponed, incoming: kickoff, want: StatusCancelled, accepted: false},
		{name: "cancelled reopened by new kickoff", from: StatusCancelled, to: StatusScheduled, incoming: moved, want: StatusScheduled, accepted: true},
		{name: "cancelled reopened by play", from: StatusCancelled, to: StatusLive, incoming: kickoff, want: StatusLive, accepted: true},
		{name: "any to cancelled", from: StatusLive, to: StatusCancelled, incoming: kickoff, want: StatusCancelled, accepted: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ReconcileStatus(
				Match{Status: tc.from, ScheduledAt: kickoff},
				Match{Status: tc.to, ScheduledAt: tc.incoming},
			)
			if got.To != tc.want {
				t.Fatalf("unexpected status: got=%s want=%s", got.To, tc.want)
			}
			if got.Accepted != tc.accepted {
				t.Fatalf("unexpected accepted: got=%v want=%v (reason=%s)", got.Accepted, tc.accepted, got.Reason)
			}
			if !got.Accepted && got.Reason == "" {
				t.Fatalf("rejected transition must carry a reason")
			}
		})
	}
}

func TestMatch_Validate(t *testing.T) {
	t.Parallel()

	two, one, minus := 2, 1, -1
	base := Match{
		ExternalID:  "1035037",
		LeagueID:    1,
		HomeTeamID:  10,
		AwayTeamID:  11,
		ScheduledAt: time.Date(2026, 8, 16, 14, 0, 0, 0, time.UTC),
		Status:      StatusFinished,
		HomeScore:   &two,
		AwayScore:   &one,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid match: %v", err)
	}

	sameTeams := base
	sameTeams.AwayTeamID = base.HomeTeamID
	negative := base
	negative.AwayScore = &minus
	scheduledWithScore := base
	scheduledWithScore.Status = StatusScheduled
	badStatus := base
	badStatus.Status = "NS"

	for name, item := range map[string]Match{
		"same teams":           sameTeams,
		"negative score":       negative,
		"scheduled with score": scheduledWithScore,
		"unknown status":       badStatus,
	} {
		if err := item.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestOutcomeOf(t *testing.T) {
	t.Parallel()

	if OutcomeOf(2, 1) != "HOME" || OutcomeOf(0, 3) != "AWAY" || OutcomeOf(1, 1) != "DRAW" {
		t.Fatalf("unexpected outcomes")
	}
	if _, ok := (Match{}).Outcome(); ok {
		t.Fatalf("expected no outcome without scores")
	}
}
