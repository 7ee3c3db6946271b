package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/sports-sync/internal/platform/ratelimit"
)

// SportDataProvider is one external sports-data source. Numeric fields of
// the raw records are left as decoded (float64, string or nil); the
// normalizer owns coercion.
type SportDataProvider interface {
	Name() string
	FetchLeagues(ctx context.Context, sportID int64) ([]RawLeague, error)
	FetchTeams(ctx context.Context, leagueExternalID, season string) ([]RawTeam, error)
	FetchMatches(ctx context.Context, leagueExternalID, season string, window DateRange) ([]RawMatch, error)
	FetchMatchStatistics(ctx context.Context, matchExternalID string) (RawMatchStatistics, error)
	FetchStandings(ctx context.Context, leagueExternalID, season string) ([]RawStanding, error)
}

// ConnectionChecker verifies credentials and reachability with one
// metered request.
type ConnectionChecker interface {
	CheckConnection(ctx context.Context) (ConnectionStatus, error)
}

type ConnectionStatus struct {
	Provider  string         `json:"provider"`
	OK        bool           `json:"ok"`
	Message   string         `json:"message"`
	Account   map[string]any `json:"account,omitempty"`
	CheckedAt time.Time      `json:"checked_at"`
}

// UsageReporter exposes the provider's local quota consumption.
type UsageReporter interface {
	Usage(ctx context.Context) (ratelimit.Usage, error)
}

type RawLeague struct {
	ExternalID string
	Name       string
	Country    string
	Season     any
	Tier       any
	LogoURL    string
	Type       string
}

type RawTeam struct {
	ExternalID    string
	Name          string
	Code          string
	Country       string
	Founded       any
	LogoURL       string
	Venue         string
	VenueCity     string
	VenueCapacity any
}

type RawMatch struct {
	ExternalID         string
	HomeTeamExternalID string
	AwayTeamExternalID string
	HomeTeamName       string
	AwayTeamName       string
	Kickoff            string
	Status             string
	HomeScore          any
	AwayScore          any
	HalftimeHome       any
	HalftimeAway       any
	Venue              string
	VenueCity          string
	Referee            string
	Round              string
}

// RawTeamStatistics maps provider stat labels ("Ball Possession") to values.
type RawTeamStatistics struct {
	TeamExternalID string
	Values         map[string]any
}

type RawMatchStatistics struct {
	MatchExternalID string
	Home            RawTeamStatistics
	Away            RawTeamStatistics
}

// RawStandingRecord is one played/won/drawn/lost split of a table row.
type RawStandingRecord struct {
	Played       any
	Won          any
	Drawn        any
	Lost         any
	GoalsFor     any
	GoalsAgainst any
}

// RawStanding is one row of a league table.
type RawStanding struct {
	TeamExternalID string
	TeamName       string
	Position       any
	Points         any
	Form           string
	Overall        RawStandingRecord
	Home           RawStandingRecord
	Away           RawStandingRecord
	UpdatedAt      string
}

// DateRange covers whole UTC days from From through To inclusive.
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange spans lookbackDays before now through daysAhead after it.
func NewDateRange(now time.Time, lookbackDays, daysAhead int) DateRange {
	today := now.UTC().Truncate(24 * time.Hour)
	return DateRange{
		From: today.AddDate(0, 0, -lookbackDays),
		To:   today.AddDate(0, 0, daysAhead),
	}
}

func (r DateRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return fmt.Errorf("%w: date range bounds are required", ErrInvalidInput)
	}
	if r.To.Before(r.From) {
		return fmt.Errorf("%w: date range end %s precedes start %s", ErrInvalidInput, r.To.Format(time.DateOnly), r.From.Format(time.DateOnly))
	}
	return nil
}

func (r DateRange) String() string {
	return r.From.Format(time.DateOnly) + ".." + r.To.Format(time.DateOnly)
}
