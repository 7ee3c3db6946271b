// Package apifootball reads leagues, teams, fixtures, fixture statistics
// and league tables from API-Football v3.
package apifootball

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
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
	ProviderName   = "api_football"
	DefaultBaseURL = "https://v3.football.api-sports.io"
	apiKeyHeader   = "x-apisports-key"
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	Retry          resilience.RetryPolicy
	Limiter        ratelimit.Limiter
	Cache          cache.Cache
	TTL            cache.TTLPolicy
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

type Client struct {
	http   *fetch.Client
	ttl    cache.TTLPolicy
	logger *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		http: fetch.NewClient(fetch.Config{
			Provider:       ProviderName,
			BaseURL:        baseURL,
			Headers:        map[string]string{apiKeyHeader: strings.TrimSpace(cfg.APIKey)},
			HTTPClient:     cfg.HTTPClient,
			Timeout:        cfg.Timeout,
			Retry:          cfg.Retry,
			Limiter:        cfg.Limiter,
			Cache:          cfg.Cache,
			CircuitBreaker: cfg.CircuitBreaker,
			Logger:         logger,
		}),
		ttl:    cfg.TTL.Normalize(),
		logger: logger,
	}
}

func (c *Client) Name() string {
	return ProviderName
}

func (c *Client) Usage(ctx context.Context) (ratelimit.Usage, error) {
	return c.http.Usage(ctx)
}

// FetchLeagues lists competitions with a current season. The sport is
// implied by the API, which only serves football.
func (c *Client) FetchLeagues(ctx context.Context, _ int64) ([]usecase.RawLeague, error) {
	var items []leagueItem
	if err := c.getResponse(ctx, "leagues", "/leagues", url.Values{"current": {"true"}}, c.ttl.Leagues, &items); err != nil {
		return nil, fmt.Errorf("fetch leagues: %w", err)
	}

	out := make([]usecase.RawLeague, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.RawLeague{
			ExternalID: fetch.IDString(item.League.ID),
			Name:       item.League.Name,
			Country:    item.Country.Name,
			Season:     item.currentSeason(),
			LogoURL:    item.League.Logo,
			Type:       item.League.Type,
		})
	}
	return out, nil
}

func (c *Client) FetchTeams(ctx context.Context, leagueExternalID, season string) ([]usecase.RawTeam, error) {
	query := url.Values{"league": {leagueExternalID}}
	if season != "" {
		query.Set("season", season)
	}

	var items []teamItem
	if err := c.getResponse(ctx, "teams", "/teams", query, c.ttl.Teams, &items); err != nil {
		return nil, fmt.Errorf("fetch teams league=%s season=%s: %w", leagueExternalID, season, err)
	}

	out := make([]usecase.RawTeam, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.RawTeam{
			ExternalID:    fetch.IDString(item.Team.ID),
			Name:          item.Team.Name,
			Code:          item.Team.Code,
			Country:       item.Team.Country,
			Founded:       item.Team.Founded,
			LogoURL:       item.Team.Logo,
			Venue:         item.Venue.Name,
			VenueCity:     item.Venue.City,
			VenueCapacity: item.Venue.Capacity,
		})
	}
	return out, nil
}

func (c *Client) FetchMatches(ctx context.Context, leagueExternalID, season string, window usecase.DateRange) ([]usecase.RawMatch, error) {
	query := url.Values{
		"league": {leagueExternalID},
		"from":   {window.From.Format(time.DateOnly)},
		"to":     {window.To.Format(time.DateOnly)},
	}
	if season != "" {
		query.Set("season", season)
	}

	var items []fixtureItem
	if err := c.getResponse(ctx, "fixtures", "/fixtures", query, c.ttl.Fixtures, &items); err != nil {
		return nil, fmt.Errorf("fetch fixtures league=%s window=%s: %w", leagueExternalID, window, err)
	}

	out := make([]usecase.RawMatch, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.RawMatch{
			ExternalID:         fetch.IDString(item.Fixture.ID),
			HomeTeamExternalID: fetch.IDString(item.Teams.Home.ID),
			AwayTeamExternalID: fetch.IDString(item.Teams.Away.ID),
			HomeTeamName:       item.Teams.Home.Name,
			AwayTeamName:       item.Teams.Away.Name,
			Kickoff:            item.Fixture.Date,
			Status:             item.Fixture.Status.Short,
			HomeScore:          item.Goals.Home,
			AwayScore:          item.Goals.Away,
			HalftimeHome:       item.Score.Halftime.Home,
			HalftimeAway:       item.Score.Halftime.Away,
			Venue:              item.Fixture.Venue.Name,
			VenueCity:          item.Fixture.Venue.City,
			Referee:            item.Fixture.Referee,
			Round:              item.League.Round,
		})
	}
	return out, nil
}

// FetchMatchStatistics reads per-team statistics of one fixture. The first
// entry belongs to the home side.
func (c *Client) FetchMatchStatistics(ctx context.Context, matchExternalID string) (usecase.RawMatchStatistics, error) {
	var items []statisticsItem
	query := url.Values{"fixture": {matchExternalID}}
	if err := c.getResponse(ctx, "fixtures_statistics", "/fixtures/statistics", query, c.ttl.Detail, &items); err != nil {
		return usecase.RawMatchStatistics{}, fmt.Errorf("fetch statistics fixture=%s: %w", matchExternalID, err)
	}
	if len(items) < 2 {
		return usecase.RawMatchStatistics{}, fmt.Errorf("%w: fixture %s has statistics for %d teams", usecase.ErrDataParsing, matchExternalID, len(items))
	}

	return usecase.RawMatchStatistics{
		MatchExternalID: matchExternalID,
		Home:            items[0].raw(),
		Away:            items[1].raw(),
	}, nil
}

// FetchStandings reads the first table of the league. Cup competitions
// publish one table per group; only the first is kept.
func (c *Client) FetchStandings(ctx context.Context, leagueExternalID, season string) ([]usecase.RawStanding, error) {
	query := url.Values{"league": {leagueExternalID}}
	if season != "" {
		query.Set("season", season)
	}

	var items []standingsItem
	if err := c.getResponse(ctx, "standings", "/standings", query, c.ttl.Fixtures, &items); err != nil {
		return nil, fmt.Errorf("fetch standings league=%s season=%s: %w", leagueExternalID, season, err)
	}
	if len(items) == 0 || len(items[0].League.Standings) == 0 {
		return []usecase.RawStanding{}, nil
	}

	rows := items[0].League.Standings[0]
	out := make([]usecase.RawStanding, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.raw())
	}
	return out, nil
}

// CheckConnection calls /status, which reports the account and today's
// request count without touching any league data.
func (c *Client) CheckConnection(ctx context.Context) (usecase.ConnectionStatus, error) {
	status := usecase.ConnectionStatus{Provider: ProviderName}
	body, err := c.http.Get(ctx, fetch.Request{
		Endpoint: "status",
		Path:     "/status",
		Validate: validateStatusEnvelope,
	})
	if err != nil {
		status.Message = err.Error()
		return status, err
	}

	var env struct {
		Response accountStatus `json:"response"`
	}
	if err := sonic.Unmarshal(body, &env); err != nil {
		err = fmt.Errorf("%w: decode /status: %v", usecase.ErrDataParsing, err)
		status.Message = err.Error()
		return status, err
	}
	status.OK = true
	status.Message = "connection successful"
	status.Account = env.Response.summary()
	return status, nil
}

func (c *Client) getResponse(ctx context.Context, endpoint, path string, query url.Values, ttl time.Duration, target any) error {
	body, err := c.http.Get(ctx, fetch.Request{
		Endpoint: endpoint,
		Path:     path,
		Query:    query,
		TTL:      ttl,
		Validate: validateEnvelope,
	})
	if err != nil {
		return err
	}

	var env envelope
	if err := sonic.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: decode %s: %v", usecase.ErrDataParsing, path, err)
	}
	if err := sonic.Unmarshal(env.Response, target); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", usecase.ErrDataParsing, path, err)
	}
	c.logger.DebugContext(ctx, "provider response decoded", "path", path, "results", env.Results)
	return nil
}

// validateEnvelope rejects bodies that must not be cached: undecodable
// JSON, a missing response array or provider-reported errors.
func validateEnvelope(body []byte) error {
	env, err := decodeEnvelope(body)
	if err != nil {
		return err
	}
	trimmed := strings.TrimSpace(string(env.Response))
	if trimmed == "" || trimmed == "null" || !strings.HasPrefix(trimmed, "[") {
		return fmt.Errorf("%w: envelope has no response array", usecase.ErrDataParsing)
	}
	return nil
}

// validateStatusEnvelope accepts the object response of /status.
func validateStatusEnvelope(body []byte) error {
	env, err := decodeEnvelope(body)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(strings.TrimSpace(string(env.Response)), "{") {
		return fmt.Errorf("%w: status envelope has no response object", usecase.ErrDataParsing)
	}
	return nil
}

func decodeEnvelope(body []byte) (envelope, error) {
	var env envelope
	if err := sonic.Unmarshal(body, &env); err != nil {
		return envelope{}, fmt.Errorf("%w: decode envelope: %v", usecase.ErrDataParsing, err)
	}
	if messages := env.errorMessages(); len(messages) > 0 {
		joined := strings.Join(messages, "; ")
		for key := range env.errorMap() {
			switch strings.ToLower(key) {
			case "requests", "ratelimit":
				return envelope{}, fmt.Errorf("%w: api-football quota: %s", usecase.ErrRateLimitExceeded, joined)
			}
		}
		return envelope{}, fmt.Errorf("%w: api-football rejected the request: %s", usecase.ErrDataFetch, joined)
	}
	return env, nil
}

type envelope struct {
	Get      string          `json:"get"`
	Errors   any             `json:"errors"`
	Results  int             `json:"results"`
	Response json.RawMessage `json:"response"`
}

// errorMap returns the object form of the errors field. The API sends an
// empty array when there are none.
func (e envelope) errorMap() map[string]any {
	if m, ok := e.Errors.(map[string]any); ok {
		return m
	}
	return nil
}

func (e envelope) errorMessages() []string {
	var out []string
	switch v := e.Errors.(type) {
	case map[string]any:
		for key, value := range v {
			out = append(out, fmt.Sprintf("%s: %v", key, value))
		}
	case []any:
		for _, value := range v {
			out = append(out, fmt.Sprint(value))
		}
	}
	sort.Strings(out)
	return out
}
