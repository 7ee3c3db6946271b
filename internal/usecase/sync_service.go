package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/riskibarqy/sports-sync/internal/domain/datasource"
	"github.com/riskibarqy/sports-sync/internal/domain/league"
	"github.com/riskibarqy/sports-sync/internal/domain/match"
	"github.com/riskibarqy/sports-sync/internal/domain/sport"
	"github.com/riskibarqy/sports-sync/internal/domain/standing"
	"github.com/riskibarqy/sports-sync/internal/domain/synclog"
	"github.com/riskibarqy/sports-sync/internal/domain/team"
	idgen "github.com/riskibarqy/sports-sync/internal/platform/id"
	"github.com/riskibarqy/sports-sync/internal/platform/logging"
	"github.com/riskibarqy/sports-sync/internal/platform/metrics"
)

type SyncConfig struct {
	DefaultDaysAhead int
	LookbackDays     int
	// LogWriteTimeout bounds the audit write, which still runs after the
	// caller's context is cancelled.
	LogWriteTimeout time.Duration
	// MaxLoggedErrors caps the error list copied into the sync log detail.
	MaxLoggedErrors int
}

func (c SyncConfig) normalize() SyncConfig {
	if c.DefaultDaysAhead <= 0 {
		c.DefaultDaysAhead = 30
	}
	if c.LookbackDays < 0 {
		c.LookbackDays = 0
	}
	if c.LogWriteTimeout <= 0 {
		c.LogWriteTimeout = 5 * time.Second
	}
	if c.MaxLoggedErrors <= 0 {
		c.MaxLoggedErrors = 100
	}
	return c
}

type SyncRepositories struct {
	Sports  sport.Repository
	Leagues league.Repository
	Teams   team.Repository
	Matches match.Repository
	// Standings is optional; SyncStandings fails without it.
	Standings standing.Repository
	Logs      synclog.Repository
	// Sources is optional; when set, completed runs advance last_sync_at.
	Sources datasource.Repository
}

// PredictionGrader marks predictions once a match is final.
type PredictionGrader interface {
	GradeMatch(ctx context.Context, item match.Match) (int, error)
}

type SyncResult struct {
	RunID         string   `json:"run_id"`
	LogID         int64    `json:"log_id,omitempty"`
	Source        string   `json:"source"`
	EntityType    string   `json:"entity_type"`
	Scope         string   `json:"scope"`
	Status        string   `json:"status"`
	Created       int      `json:"created"`
	Updated       int      `json:"updated"`
	Unchanged     int      `json:"unchanged"`
	Failed        int      `json:"failed"`
	ErrorMessages []string `json:"errors"`
	// Warnings are problems that did not change the run outcome.
	Warnings    []string  `json:"warnings,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
}

func (r SyncResult) HasErrors() bool {
	return r.Failed > 0 || len(r.ErrorMessages) > 0
}

func (r SyncResult) Summary() string {
	return fmt.Sprintf("%s %s [%s]: created=%d updated=%d unchanged=%d failed=%d (%dms)",
		r.EntityType, r.Scope, r.Status, r.Created, r.Updated, r.Unchanged, r.Failed, r.DurationMs)
}

type SyncService struct {
	provider SportDataProvider
	repos    SyncRepositories
	grader   PredictionGrader
	ids      idgen.Generator
	cfg      SyncConfig
	logger   *logging.Logger
	now      func() time.Time

	sourceID int64
}

func NewSyncService(
	provider SportDataProvider,
	repos SyncRepositories,
	grader PredictionGrader,
	ids idgen.Generator,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = idgen.NewUUIDGenerator()
	}

	return &SyncService{
		provider: provider,
		repos:    repos,
		grader:   grader,
		ids:      ids,
		cfg:      cfg.normalize(),
		logger:   logger,
		now:      time.Now,
	}
}

// RegisterSource records the provider in the data source registry and
// remembers its id for sync log entries.
func (s *SyncService) RegisterSource(ctx context.Context, item datasource.DataSource) error {
	if s.repos.Sources == nil {
		return nil
	}
	if item.Name == "" {
		item.Name = s.provider.Name()
	}
	stored, err := s.repos.Sources.Ensure(ctx, item)
	if err != nil {
		return fmt.Errorf("register data source %s: %w", item.Name, err)
	}
	s.sourceID = stored.ID
	return nil
}

func (s *SyncService) SyncLeagues(ctx context.Context, sportID int64) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncLeagues")
	defer span.End()

	if sportID <= 0 {
		return SyncResult{}, fmt.Errorf("%w: sport id must be > 0", ErrInvalidInput)
	}

	run := s.begin(synclog.EntityLeagues, fmt.Sprintf("sport=%d", sportID))
	ctx = logging.WithRunID(ctx, run.result.RunID)
	if _, found, err := s.repos.Sports.GetByID(ctx, sportID); err != nil {
		return s.finish(ctx, run, fmt.Errorf("get sport id=%d: %w", sportID, err))
	} else if !found {
		return s.finish(ctx, run, fmt.Errorf("%w: sport id=%d", ErrResourceNotFound, sportID))
	}

	raws, err := s.provider.FetchLeagues(ctx, sportID)
	if err != nil {
		return s.finish(ctx, run, fmt.Errorf("fetch leagues sport_id=%d: %w", sportID, err))
	}
	run.detail["fetched"] = len(raws)

	for i, raw := range raws {
		if ctx.Err() != nil {
			break
		}
		outcome, err := s.upsertLeague(ctx, raw, sportID)
		run.record(recordLabel("league", raw.ExternalID, i), outcome, err)
	}
	return s.finish(ctx, run, nil)
}

func (s *SyncService) SyncTeams(ctx context.Context, leagueExternalID string) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncTeams")
	defer span.End()

	leagueExternalID = strings.TrimSpace(leagueExternalID)
	if leagueExternalID == "" {
		return SyncResult{}, fmt.Errorf("%w: league external id is required", ErrInvalidInput)
	}

	run := s.begin(synclog.EntityTeams, "league="+leagueExternalID)
	ctx = logging.WithRunID(ctx, run.result.RunID)
	lg, err := s.resolveLeague(ctx, leagueExternalID)
	if err != nil {
		return s.finish(ctx, run, err)
	}
	run.detail["season"] = lg.Season

	raws, err := s.provider.FetchTeams(ctx, leagueExternalID, lg.Season)
	if err != nil {
		return s.finish(ctx, run, fmt.Errorf("fetch teams league=%s season=%s: %w", leagueExternalID, lg.Season, err))
	}
	run.detail["fetched"] = len(raws)

	for i, raw := range raws {
		if ctx.Err() != nil {
			break
		}
		outcome, err := s.upsertTeam(ctx, raw, lg)
		run.record(recordLabel("team", raw.ExternalID, i), outcome, err)
	}
	return s.finish(ctx, run, nil)
}

// SyncMatches syncs fixtures from LookbackDays ago through daysAhead.
// A non-positive daysAhead uses the configured default.
func (s *SyncService) SyncMatches(ctx context.Context, leagueExternalID string, daysAhead int) (SyncResult, error) {
	if daysAhead <= 0 {
		daysAhead = s.cfg.DefaultDaysAhead
	}
	return s.SyncMatchesInRange(ctx, leagueExternalID, NewDateRange(s.now(), s.cfg.LookbackDays, daysAhead))
}

func (s *SyncService) SyncMatchesInRange(ctx context.Context, leagueExternalID string, window DateRange) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncMatches")
	defer span.End()

	leagueExternalID = strings.TrimSpace(leagueExternalID)
	if leagueExternalID == "" {
		return SyncResult{}, fmt.Errorf("%w: league external id is required", ErrInvalidInput)
	}
	if err := window.Validate(); err != nil {
		return SyncResult{}, err
	}

	run := s.begin(synclog.EntityMatches, "league="+leagueExternalID)
	ctx = logging.WithRunID(ctx, run.result.RunID)
	run.detail["window"] = window.String()
	lg, err := s.resolveLeague(ctx, leagueExternalID)
	if err != nil {
		return s.finish(ctx, run, err)
	}

	raws, err := s.provider.FetchMatches(ctx, leagueExternalID, lg.Season, window)
	if err != nil {
		return s.finish(ctx, run, fmt.Errorf("fetch matches league=%s window=%s: %w", leagueExternalID, window, err))
	}
	run.detail["fetched"] = len(raws)

	teams := newTeamResolver(s.repos.Teams, lg.SportID)
	for i, raw := range raws {
		if ctx.Err() != nil {
			break
		}
		outcome, err := s.upsertMatch(ctx, raw, lg, teams)
		run.record(recordLabel("match", raw.ExternalID, i), outcome, err)
	}
	return s.finish(ctx, run, nil)
}

// FullSync syncs teams and then matches for one league. Matches are
// skipped when the team run failed, since they resolve teams by external id.
func (s *SyncService) FullSync(ctx context.Context, leagueExternalID string) ([]SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.FullSync")
	defer span.End()

	teamsResult, err := s.SyncTeams(ctx, leagueExternalID)
	results := []SyncResult{teamsResult}
	if err != nil {
		return results, fmt.Errorf("teams run failed, matches skipped: %w", err)
	}

	matchesResult, err := s.SyncMatches(ctx, leagueExternalID, 0)
	results = append(results, matchesResult)
	return results, err
}

// SyncStandings refreshes the league table of the latest stored season.
// Rows whose team has not been synced count as record failures.
func (s *SyncService) SyncStandings(ctx context.Context, leagueExternalID string) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncStandings")
	defer span.End()

	leagueExternalID = strings.TrimSpace(leagueExternalID)
	if leagueExternalID == "" {
		return SyncResult{}, fmt.Errorf("%w: league external id is required", ErrInvalidInput)
	}

	run := s.begin(synclog.EntityStandings, "league="+leagueExternalID)
	ctx = logging.WithRunID(ctx, run.result.RunID)
	if s.repos.Standings == nil {
		return s.finish(ctx, run, fmt.Errorf("%w: standings storage is not configured", ErrDependencyUnavailable))
	}
	lg, err := s.resolveLeague(ctx, leagueExternalID)
	if err != nil {
		return s.finish(ctx, run, err)
	}
	run.detail["season"] = lg.Season

	raws, err := s.provider.FetchStandings(ctx, leagueExternalID, lg.Season)
	if err != nil {
		return s.finish(ctx, run, fmt.Errorf("fetch standings league=%s season=%s: %w", leagueExternalID, lg.Season, err))
	}
	run.detail["fetched"] = len(raws)

	teams := newTeamResolver(s.repos.Teams, lg.SportID)
	for i, raw := range raws {
		if ctx.Err() != nil {
			break
		}
		outcome, err := s.upsertStanding(ctx, raw, lg, teams)
		run.record(recordLabel("standing", raw.TeamExternalID, i), outcome, err)
	}
	return s.finish(ctx, run, nil)
}

// CheckConnection asks the provider to verify its credentials. It is not a
// sync run and writes no sync log entry.
func (s *SyncService) CheckConnection(ctx context.Context) (ConnectionStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.CheckConnection")
	defer span.End()

	checker, ok := s.provider.(ConnectionChecker)
	if !ok {
		return ConnectionStatus{}, fmt.Errorf("%w: provider %s has no connection check", ErrDependencyUnavailable, s.provider.Name())
	}
	status, err := checker.CheckConnection(ctx)
	if status.Provider == "" {
		status.Provider = s.provider.Name()
	}
	if status.CheckedAt.IsZero() {
		status.CheckedAt = s.now().UTC()
	}
	if err != nil {
		s.logger.WarnContext(ctx, "provider connection check failed", "provider", status.Provider, "error", err)
		return status, fmt.Errorf("check connection provider=%s: %w", status.Provider, err)
	}
	s.logger.InfoContext(ctx, "provider connection check passed", "provider", status.Provider)
	return status, nil
}

// SyncMatchStatistics refreshes the statistics document of one match.
func (s *SyncService) SyncMatchStatistics(ctx context.Context, matchExternalID string) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncMatchStatistics")
	defer span.End()

	matchExternalID = strings.TrimSpace(matchExternalID)
	if matchExternalID == "" {
		return SyncResult{}, fmt.Errorf("%w: match external id is required", ErrInvalidInput)
	}

	run := s.begin(synclog.EntityMatchStatistics, "match="+matchExternalID)
	ctx = logging.WithRunID(ctx, run.result.RunID)
	stored, found, err := s.repos.Matches.GetByExternalID(ctx, matchExternalID)
	if err != nil {
		return s.finish(ctx, run, fmt.Errorf("get match external_id=%s: %w", matchExternalID, err))
	}
	if !found {
		return s.finish(ctx, run, fmt.Errorf("%w: match external_id=%s has not been synced", ErrResourceNotFound, matchExternalID))
	}

	raw, err := s.provider.FetchMatchStatistics(ctx, matchExternalID)
	if err != nil {
		return s.finish(ctx, run, fmt.Errorf("fetch statistics match=%s: %w", matchExternalID, err))
	}

	outcome, err := s.applyStatistics(ctx, stored, raw)
	run.record(recordLabel("match", matchExternalID, 0), outcome, err)
	return s.finish(ctx, run, nil)
}

func (s *SyncService) applyStatistics(ctx context.Context, stored match.Match, raw RawMatchStatistics) (upsertOutcome, error) {
	stats, err := NormalizeStatistics(raw)
	if err != nil {
		return outcomeNone, err
	}
	if jsonEqual(stored.Statistics, stats) {
		return outcomeUnchanged, nil
	}
	stored.Statistics = stats
	if err := s.repos.Matches.Update(ctx, stored); err != nil {
		return outcomeNone, fmt.Errorf("update match statistics: %w", err)
	}
	return outcomeUpdated, nil
}

func (s *SyncService) resolveLeague(ctx context.Context, externalID string) (league.League, error) {
	lg, found, err := s.repos.Leagues.GetLatestByExternalID(ctx, externalID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league external_id=%s: %w", externalID, err)
	}
	if !found {
		return league.League{}, fmt.Errorf("%w: league external_id=%s has not been synced; sync leagues first", ErrResourceNotFound, externalID)
	}
	return lg, nil
}

func (s *SyncService) newPublicID() (string, error) {
	return s.ids.NewID()
}

type upsertOutcome int

const (
	outcomeNone upsertOutcome = iota
	outcomeCreated
	outcomeUpdated
	outcomeUnchanged
)

func (s *SyncService) upsertLeague(ctx context.Context, raw RawLeague, sportID int64) (upsertOutcome, error) {
	incoming, err := NormalizeLeague(raw, sportID)
	if err != nil {
		return outcomeNone, err
	}

	stored, found, err := s.repos.Leagues.GetByNaturalKey(ctx, incoming.Key())
	if err != nil {
		return outcomeNone, fmt.Errorf("get league: %w", err)
	}
	if !found {
		if incoming.PublicID, err = s.newPublicID(); err != nil {
			return outcomeNone, err
		}
		_, created, err := s.repos.Leagues.Create(ctx, incoming)
		if err != nil {
			return outcomeNone, fmt.Errorf("create league: %w", err)
		}
		if created {
			return outcomeCreated, nil
		}
		if stored, found, err = s.repos.Leagues.GetByNaturalKey(ctx, incoming.Key()); err != nil || !found {
			return outcomeNone, fmt.Errorf("%w: league external_id=%s season=%s", ErrDuplicateResource, incoming.ExternalID, incoming.Season)
		}
	}

	if len(leagueChanges(stored, incoming)) == 0 {
		return outcomeUnchanged, nil
	}
	if err := s.repos.Leagues.Update(ctx, mergeLeague(stored, incoming)); err != nil {
		return outcomeNone, fmt.Errorf("update league: %w", err)
	}
	return outcomeUpdated, nil
}

func (s *SyncService) upsertTeam(ctx context.Context, raw RawTeam, lg league.League) (upsertOutcome, error) {
	incoming, err := NormalizeTeam(raw, lg.SportID)
	if err != nil {
		return outcomeNone, err
	}

	outcome := outcomeUnchanged
	stored, found, err := s.repos.Teams.GetByNaturalKey(ctx, incoming.SportID, incoming.ExternalID)
	if err != nil {
		return outcomeNone, fmt.Errorf("get team: %w", err)
	}
	if !found {
		if incoming.PublicID, err = s.newPublicID(); err != nil {
			return outcomeNone, err
		}
		created, ok, err := s.repos.Teams.Create(ctx, incoming)
		if err != nil {
			return outcomeNone, fmt.Errorf("create team: %w", err)
		}
		if ok {
			stored, found, outcome = created, true, outcomeCreated
		} else if stored, found, err = s.repos.Teams.GetByNaturalKey(ctx, incoming.SportID, incoming.ExternalID); err != nil || !found {
			return outcomeNone, fmt.Errorf("%w: team external_id=%s", ErrDuplicateResource, incoming.ExternalID)
		}
	}

	if outcome != outcomeCreated && len(teamChanges(stored, incoming)) > 0 {
		stored = mergeTeam(stored, incoming)
		if err := s.repos.Teams.Update(ctx, stored); err != nil {
			return outcomeNone, fmt.Errorf("update team: %w", err)
		}
		outcome = outcomeUpdated
	}

	changed, err := s.repos.Teams.UpsertMembership(ctx, team.Membership{
		LeagueID:         lg.ID,
		LeagueExternalID: lg.ExternalID,
		TeamID:           stored.ID,
		Season:           lg.Season,
		IsCurrent:        true,
	})
	if err != nil {
		return outcomeNone, fmt.Errorf("upsert league membership: %w", err)
	}
	if changed && outcome == outcomeUnchanged {
		outcome = outcomeUpdated
	}
	return outcome, nil
}

func (s *SyncService) upsertMatch(ctx context.Context, raw RawMatch, lg league.League, teams *teamResolver) (upsertOutcome, error) {
	homeID, err := teams.resolve(ctx, raw.HomeTeamExternalID, "home")
	if err != nil {
		return outcomeNone, err
	}
	awayID, err := teams.resolve(ctx, raw.AwayTeamExternalID, "away")
	if err != nil {
		return outcomeNone, err
	}

	incoming, err := NormalizeMatch(raw, lg.ID, homeID, awayID)
	if err != nil {
		return outcomeNone, err
	}
	incoming.SportID = lg.SportID

	stored, found, err := s.repos.Matches.GetByExternalID(ctx, incoming.ExternalID)
	if err != nil {
		return outcomeNone, fmt.Errorf("get match: %w", err)
	}
	if !found {
		if incoming.PublicID, err = s.newPublicID(); err != nil {
			return outcomeNone, err
		}
		created, ok, err := s.repos.Matches.Create(ctx, incoming)
		if err != nil {
			return outcomeNone, fmt.Errorf("create match: %w", err)
		}
		if ok {
			s.gradeIfFinished(ctx, match.Match{}, created)
			return outcomeCreated, nil
		}
		if stored, found, err = s.repos.Matches.GetByExternalID(ctx, incoming.ExternalID); err != nil || !found {
			return outcomeNone, fmt.Errorf("%w: match external_id=%s", ErrDuplicateResource, incoming.ExternalID)
		}
	}

	merged, transition := mergeMatch(stored, incoming)
	if !transition.Accepted {
		s.logger.WarnContext(ctx, "ignored stale match status",
			"match_external_id", incoming.ExternalID,
			"stored_status", transition.From,
			"incoming_status", incoming.Status,
			"reason", transition.Reason,
		)
	}
	if len(matchChanges(stored, merged)) == 0 {
		return outcomeUnchanged, nil
	}
	if err := s.repos.Matches.Update(ctx, merged); err != nil {
		return outcomeNone, fmt.Errorf("update match: %w", err)
	}
	s.gradeIfFinished(ctx, stored, merged)
	return outcomeUpdated, nil
}

func (s *SyncService) upsertStanding(ctx context.Context, raw RawStanding, lg league.League, teams *teamResolver) (upsertOutcome, error) {
	teamID, err := teams.resolve(ctx, raw.TeamExternalID, "standing")
	if err != nil {
		return outcomeNone, err
	}
	incoming, err := NormalizeStanding(raw, lg.ID, teamID, lg.Season)
	if err != nil {
		return outcomeNone, err
	}

	stored, found, err := s.repos.Standings.GetByNaturalKey(ctx, lg.ID, teamID)
	if err != nil {
		return outcomeNone, fmt.Errorf("get standing: %w", err)
	}
	if !found {
		_, created, err := s.repos.Standings.Create(ctx, incoming)
		if err != nil {
			return outcomeNone, fmt.Errorf("create standing: %w", err)
		}
		if created {
			return outcomeCreated, nil
		}
		if stored, found, err = s.repos.Standings.GetByNaturalKey(ctx, lg.ID, teamID); err != nil || !found {
			return outcomeNone, fmt.Errorf("%w: standing league_id=%d team_id=%d", ErrDuplicateResource, lg.ID, teamID)
		}
	}

	if len(standingChanges(stored, incoming)) == 0 {
		return outcomeUnchanged, nil
	}
	if err := s.repos.Standings.Update(ctx, mergeStanding(stored, incoming)); err != nil {
		return outcomeNone, fmt.Errorf("update standing: %w", err)
	}
	return outcomeUpdated, nil
}

func (s *SyncService) gradeIfFinished(ctx context.Context, before, after match.Match) {
	if s.grader == nil || after.Status != match.StatusFinished {
		return
	}
	if before.Status == match.StatusFinished &&
		intPtrEqual(before.HomeScore, after.HomeScore) &&
		intPtrEqual(before.AwayScore, after.AwayScore) {
		return
	}
	if _, err := s.grader.GradeMatch(ctx, after); err != nil {
		s.logger.WarnContext(ctx, "grade predictions failed",
			"match_external_id", after.ExternalID,
			"error", err,
		)
	}
}

// teamResolver caches team ids by external id for one run.
type teamResolver struct {
	repo    team.Repository
	sportID int64
	ids     map[string]int64
}

func newTeamResolver(repo team.Repository, sportID int64) *teamResolver {
	return &teamResolver{repo: repo, sportID: sportID, ids: make(map[string]int64)}
}

func (r *teamResolver) resolve(ctx context.Context, externalID, side string) (int64, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return 0, fmt.Errorf("%w: %s team external id is required", ErrDataParsing, side)
	}
	if id, ok := r.ids[externalID]; ok {
		return id, nil
	}
	item, found, err := r.repo.GetByNaturalKey(ctx, r.sportID, externalID)
	if err != nil {
		return 0, fmt.Errorf("get %s team external_id=%s: %w", side, externalID, err)
	}
	if !found {
		return 0, fmt.Errorf("%w: %s team external_id=%s", ErrResourceNotFound, side, externalID)
	}
	r.ids[externalID] = item.ID
	return item.ID, nil
}

func recordLabel(kind, externalID string, index int) string {
	if strings.TrimSpace(externalID) == "" {
		return fmt.Sprintf("%s[%d]", kind, index)
	}
	return kind + " " + strings.TrimSpace(externalID)
}

// syncRun accumulates the outcome of one run before it is sealed.
type syncRun struct {
	result SyncResult
	detail map[string]any
}

func (s *SyncService) begin(entityType, scope string) *syncRun {
	return &syncRun{
		result: SyncResult{
			RunID:         uuid.NewString(),
			Source:        s.provider.Name(),
			EntityType:    entityType,
			Scope:         scope,
			Status:        synclog.StatusInProgress,
			ErrorMessages: []string{},
			StartedAt:     s.now().UTC(),
		},
		detail: map[string]any{},
	}
}

func (r *syncRun) record(label string, outcome upsertOutcome, err error) {
	if err != nil {
		r.result.Failed++
		r.result.ErrorMessages = append(r.result.ErrorMessages, label+": "+err.Error())
		return
	}
	switch outcome {
	case outcomeCreated:
		r.result.Created++
	case outcomeUpdated:
		r.result.Updated++
	case outcomeUnchanged:
		r.result.Unchanged++
	}
}

func (r *syncRun) processed() int {
	return r.result.Created + r.result.Updated + r.result.Unchanged + r.result.Failed
}

// finish seals the run and appends its single sync log entry. The entry is
// FAILED when runErr is set or ctx ended mid-batch, COMPLETED otherwise.
// A failed log write becomes a warning on the result; the run outcome stands.
func (s *SyncService) finish(ctx context.Context, run *syncRun, runErr error) (SyncResult, error) {
	result := run.result
	result.CompletedAt = s.now().UTC()
	result.DurationMs = result.CompletedAt.Sub(result.StartedAt).Milliseconds()

	if runErr == nil && ctx.Err() != nil {
		runErr = fmt.Errorf("sync run aborted after %d records: %w", run.processed(), ctx.Err())
		run.detail["truncated"] = true
		run.detail["processed"] = run.processed()
	}

	entry := synclog.Entry{
		RunID:          result.RunID,
		SourceID:       s.sourceID,
		Source:         result.Source,
		EntityType:     result.EntityType,
		Scope:          result.Scope,
		StartedAt:      result.StartedAt,
		CompletedAt:    result.CompletedAt,
		RecordsCreated: result.Created,
		RecordsUpdated: result.Updated,
		RecordsFailed:  result.Failed,
		Detail:         run.detail,
	}
	run.detail["unchanged"] = result.Unchanged
	if len(result.ErrorMessages) > 0 {
		logged := result.ErrorMessages
		if len(logged) > s.cfg.MaxLoggedErrors {
			logged = logged[:s.cfg.MaxLoggedErrors]
			run.detail["errors_truncated"] = len(result.ErrorMessages) - len(logged)
		}
		run.detail["errors"] = logged
	}

	if runErr != nil {
		result.Status = synclog.StatusFailed
		entry.ErrorMessage = runErr.Error()
		result.ErrorMessages = append(result.ErrorMessages, runErr.Error())
	} else {
		result.Status = synclog.StatusCompleted
		if result.Failed > 0 {
			entry.ErrorMessage = fmt.Sprintf("%d of %d records failed", result.Failed, run.processed())
		}
	}
	entry.Status = result.Status

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.LogWriteTimeout)
	defer cancel()

	logID, logErr := s.repos.Logs.Append(writeCtx, entry)
	if logErr != nil {
		s.logger.ErrorContext(ctx, "append sync log failed",
			"entity_type", result.EntityType,
			"status", result.Status,
			"error", logErr,
		)
		result.Warnings = append(result.Warnings, "sync log entry not written: "+logErr.Error())
	}
	result.LogID = logID

	if result.Status == synclog.StatusCompleted && s.repos.Sources != nil && s.sourceID > 0 {
		if err := s.repos.Sources.TouchLastSync(writeCtx, s.sourceID, result.CompletedAt); err != nil {
			s.logger.WarnContext(ctx, "advance data source last sync failed", "source_id", s.sourceID, "error", err)
		}
	}

	annotateRun(ctx, result, runErr)
	metrics.RecordSyncRun(result.EntityType, result.Status, result.Created, result.Updated, result.Failed,
		result.CompletedAt.Sub(result.StartedAt))

	logArgs := []any{
		"source", result.Source,
		"entity_type", result.EntityType,
		"scope", result.Scope,
		"status", result.Status,
		"created", result.Created,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"failed", result.Failed,
		"duration_ms", result.DurationMs,
	}
	switch {
	case runErr != nil:
		s.logger.ErrorContext(ctx, "sync run failed", append(logArgs, "error", runErr)...)
	case result.Failed > 0:
		s.logger.WarnContext(ctx, "sync run completed with errors", logArgs...)
	default:
		s.logger.InfoContext(ctx, "sync run completed", logArgs...)
	}

	return result, runErr
}
