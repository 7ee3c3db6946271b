// Package footballdata reads competitions, teams, matches and league
// tables from football-data.org v4.
package footballdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/sports-sync/external/fetch"
	"github.com/riskibarqy/sports-sync/internal/platform/cache"
	"github.com/riskibarqy/sports-sync/internal/platform/logging"
	"github.com/riskibarqy/sports-sync/internal/platform/ratelimit"
	"github.com/riskibarqy/sports-sync/internal/platform/resilience"
	"github.com/riskibarqy/sports-sync/internal/usecase"
)

const (
	ProviderName   = "football_data"
	DefaultBaseURL = "https://api.football-data.org/v4"
	tokenHeader    = "X-Auth-Token"
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	Retry          resilience.RetryPolicy
	Limiter        ratelimit.Limiter
	Cache          cache.Cache
	TTL            cache.TTLPolicy
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

type Client struct {
	http *fetch.Client
	ttl  cache.TTLPolicy
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http: fetch.NewClient(fetch.Config{
			Provider:       ProviderName,
			BaseURL:        baseURL,
			Headers:        map[string]string{tokenHeader: strings.TrimSpace(cfg.Token)},
			HTTPClient:     cfg.HTTPClient,
			Timeout:        cfg.Timeout,
			Retry:          cfg.Retry,
			Limiter:        cfg.Limiter,
			Cache:          cfg.Cache,
			CircuitBreaker: cfg.CircuitBreaker,
			Logger:         cfg.Logger,
		}),
		ttl: cfg.TTL.Normalize(),
	}
}

func (c *Client) Name() string {
	return ProviderName
}

func (c *Client) Usage(ctx context.Context) (ratelimit.Usage, error) {
	return c.http.Usage(ctx)
}

func (c *Client) FetchLeagues(ctx context.Context, _ int64) ([]usecase.RawLeague, error) {
	var payload struct {
		Competitions []competition `json:"competitions"`
	}
	if err := c.get(ctx, "competitions", "/competitions", nil, c.ttl.Leagues, "competitions", &payload); err != nil {
		return nil, fmt.Errorf("fetch competitions: %w", err)
	}

	out := make([]usecase.RawLeague, 0, len(payload.Competitions))
	for _, item := range payload.Competitions {
		out = append(out, usecase.RawLeague{
			ExternalID: fetch.IDString(item.ID),
			Name:       item.Name,
			Country:    item.Area.Name,
			Season:     item.CurrentSeason.year(),
			LogoURL:    item.Emblem,
			Type:       item.Type,
		})
	}
	return out, nil
}

func (c *Client) FetchTeams(ctx context.Context, leagueExternalID, season string) ([]usecase.RawTeam, error) {
	query := url.Values{}
	if season != "" {
		query.Set("season", season)
	}

	var payload struct {
		Teams []team `json:"teams"`
	}
	path := "/competitions/" + url.PathEscape(leagueExternalID) + "/teams"
	if err := c.get(ctx, "competition_teams", path, query, c.ttl.Teams, "teams", &payload); err != nil {
		return nil, fmt.Errorf("fetch teams competition=%s season=%s: %w", leagueExternalID, season, err)
	}

	out := make([]usecase.RawTeam, 0, len(payload.Teams))
	for _, item := range payload.Teams {
		out = append(out, usecase.RawTeam{
			ExternalID: fetch.IDString(item.ID),
			Name:       item.Name,
			Code:       item.TLA,
			Country:    item.Area.Name,
			Founded:    item.Founded,
			LogoURL:    item.Crest,
			Venue:      item.Venue,
		})
	}
	return out, nil
}

func (c *Client) FetchMatches(ctx context.Context, leagueExternalID, season string, window usecase.DateRange) ([]usecase.RawMatch, error) {
	query := url.Values{
		"dateFrom": {window.From.Format(time.DateOnly)},
		"dateTo":   {window.To.Format(time.DateOnly)},
	}
	if season != "" {
		query.Set("season", season)
	}

	var payload struct {
		Matches []matchItem `json:"matches"`
	}
	path := "/competitions/" + url.PathEscape(leagueExternalID) + "/matches"
	if err := c.get(ctx, "competition_matches", path, query, c.ttl.Fixtures, "matches", &payload); err != nil {
		return nil, fmt.Errorf("fetch matches competition=%s window=%s: %w", leagueExternalID, window, err)
	}

	out := make([]usecase.RawMatch, 0, len(payload.Matches))
	for _, item := range payload.Matches {
		out = append(out, usecase.RawMatch{
			ExternalID:         fetch.IDString(item.ID),
			HomeTeamExternalID: fetch.IDString(item.HomeTeam.ID),
			AwayTeamExternalID: fetch.IDString(item.AwayTeam.ID),
			HomeTeamName:       item.HomeTeam.Name,
			AwayTeamName:       item.AwayTeam.Name,
			Kickoff:            item.UTCDate,
			Status:             item.Status,
			HomeScore:          item.Score.FullTime.Home,
			AwayScore:          item.Score.FullTime.Away,
			HalftimeHome:       item.Score.HalfTime.Home,
			HalftimeAway:       item.Score.HalfTime.Away,
			Venue:              item.Venue,
			Referee:            item.referee(),
			Round:              item.round(),
		})
	}
	return out, nil
}

// FetchMatchStatistics is not offered by football-data.org.
func (c *Client) FetchMatchStatistics(_ context.Context, matchExternalID string) (usecase.RawMatchStatistics, error) {
	return usecase.RawMatchStatistics{}, fmt.Errorf("%w: %s has no statistics for match %s: %w",
		usecase.ErrDataFetch, ProviderName, matchExternalID, errors.ErrUnsupported)
}

// FetchStandings merges the TOTAL, HOME and AWAY tables of the first
// group into one row per team.
func (c *Client) FetchStandings(ctx context.Context, leagueExternalID, season string) ([]usecase.RawStanding, error) {
	query := url.Values{}
	if season != "" {
		query.Set("season", season)
	}

	var payload struct {
		Standings []standingTable `json:"standings"`
	}
	path := "/competitions/" + url.PathEscape(leagueExternalID) + "/standings"
	if err := c.get(ctx, "competition_standings", path, query, c.ttl.Fixtures, "standings", &payload); err != nil {
		return nil, fmt.Errorf("fetch standings competition=%s season=%s: %w", leagueExternalID, season, err)
	}
	return mergeStandingTables(payload.Standings), nil
}

// CheckConnection lists the competitions the token can read. football-data
// has no free status endpoint, so the check costs one request.
func (c *Client) CheckConnection(ctx context.Context) (usecase.ConnectionStatus, error) {
	status := usecase.ConnectionStatus{Provider: ProviderName}

	var payload struct {
		Count        int           `json:"count"`
		Competitions []competition `json:"competitions"`
	}
	if err := c.get(ctx, "competitions_check", "/competitions", nil, 0, "competitions", &payload); err != nil {
		status.Message = err.Error()
		return status, err
	}
	status.OK = true
	status.Message = "connection successful"
	status.Account = map[string]any{"competitions": len(payload.Competitions)}
	return status, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, ttl time.Duration, collection string, target any) error {
	body, err := c.http.Get(ctx, fetch.Request{
		Endpoint: endpoint,
		Path:     path,
		Query:    query,
		TTL:      ttl,
		Validate: func(body []byte) error { return validateCollection(body, collection) },
	})
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: decode %s: %v", usecase.ErrDataParsing, path, err)
	}
	return nil
}

// validateCollection requires the named top-level array. A 2xx body with
// an errorCode is treated as a provider rejection.
func validateCollection(body []byte, collection string) error {
	var fields map[string]json.RawMessage
	if err := sonic.Unmarshal(body, &fields); err != nil {
		return fmt.Errorf("%w: decode envelope: %v", usecase.ErrDataParsing, err)
	}
	if raw, ok := fields["errorCode"]; ok {
		var message string
		_ = sonic.Unmarshal(fields["message"], &message)
		if strings.TrimSpace(string(raw)) == "429" {
			return fmt.Errorf("%w: football-data quota: %s", usecase.ErrRateLimitExceeded, message)
		}
		return fmt.Errorf("%w: football-data rejected the request: %s", usecase.ErrDataFetch, message)
	}
	raw, ok := fields[collection]
	if !ok || !strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
		return fmt.Errorf("%w: envelope has no %s array", usecase.ErrDataParsing, collection)
	}
	return nil
}
