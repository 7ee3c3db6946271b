package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/sports-sync/internal/config"
	"github.com/riskibarqy/sports-sync/internal/domain/synclog"
	"github.com/riskibarqy/sports-sync/internal/platform/ratelimit"
	"github.com/riskibarqy/sports-sync/internal/usecase"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSyncer struct {
	mock.Mock
}

func (m *mockSyncer) SyncLeagues(ctx context.Context, sportID int64) (usecase.SyncResult, error) {
	args := m.Called(ctx, sportID)
	return args.Get(0).(usecase.SyncResult), args.Error(1)
}

func (m *mockSyncer) SyncTeams(ctx context.Context, leagueExternalID string) (usecase.SyncResult, error) {
	args := m.Called(ctx, leagueExternalID)
	return args.Get(0).(usecase.SyncResult), args.Error(1)
}

func (m *mockSyncer) SyncMatches(ctx context.Context, leagueExternalID string, daysAhead int) (usecase.SyncResult, error) {
	args := m.Called(ctx, leagueExternalID, daysAhead)
	return args.Get(0).(usecase.SyncResult), args.Error(1)
}

func (m *mockSyncer) SyncMatchesInRange(ctx context.Context, leagueExternalID string, window usecase.DateRange) (usecase.SyncResult, error) {
	args := m.Called(ctx, leagueExternalID, window)
	return args.Get(0).(usecase.SyncResult), args.Error(1)
}

func (m *mockSyncer) FullSync(ctx context.Context, leagueExternalID string) ([]usecase.SyncResult, error) {
	args := m.Called(ctx, leagueExternalID)
	return args.Get(0).([]usecase.SyncResult), args.Error(1)
}

func (m *mockSyncer) SyncMatchStatistics(ctx context.Context, matchExternalID string) (usecase.SyncResult, error) {
	args := m.Called(ctx, matchExternalID)
	return args.Get(0).(usecase.SyncResult), args.Error(1)
}

func (m *mockSyncer) SyncStandings(ctx context.Context, leagueExternalID string) (usecase.SyncResult, error) {
	args := m.Called(ctx, leagueExternalID)
	return args.Get(0).(usecase.SyncResult), args.Error(1)
}

func (m *mockSyncer) CheckConnection(ctx context.Context) (usecase.ConnectionStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(usecase.ConnectionStatus), args.Error(1)
}

func (m *mockSyncer) BatchFullSync(ctx context.Context, input usecase.BatchSyncInput) (usecase.BatchSyncResult, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(usecase.BatchSyncResult), args.Error(1)
}

func cliConfig() config.Config {
	return config.Config{
		SyncProvider:         config.ProviderAPIFootball,
		SyncDefaultDaysAhead: 30,
		SyncDefaultSportID:   1,
		SyncWorkers:          2,
		LeagueAliases:        map[string]string{"premier_league": "39", "la_liga": "140"},
	}
}

func TestParseOptions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(t *testing.T, opts options)
	}{
		{
			name: "leagues uses default sport",
			args: []string{"-type", "leagues"},
			check: func(t *testing.T, opts options) {
				require.Equal(t, int64(1), opts.sportID)
				require.Equal(t, config.ProviderAPIFootball, opts.provider)
			},
		},
		{
			name: "alias resolved",
			args: []string{"-type", "teams", "-league", "premier_league"},
			check: func(t *testing.T, opts options) {
				require.Equal(t, "39", opts.league)
			},
		},
		{
			name: "matches with range",
			args: []string{"-type", "matches", "-league", "39", "-from", "2025-08-01", "-to", "2025-08-31"},
			check: func(t *testing.T, opts options) {
				require.NotNil(t, opts.window)
				require.Equal(t, 2025, opts.window.From.Year())
			},
		},
		{
			name: "batch leagues",
			args: []string{"-type", "full", "-leagues", "premier_league, la_liga,,78", "-workers", "3", "-provider", "FOOTBALL_DATA"},
			check: func(t *testing.T, opts options) {
				require.Equal(t, []string{"39", "140", "78"}, opts.leagues)
				require.Equal(t, 3, opts.workers)
				require.Equal(t, config.ProviderFootballData, opts.provider)
			},
		},
		{
			name: "standings alias resolved",
			args: []string{"-type", "standings", "-league", "la_liga"},
			check: func(t *testing.T, opts options) {
				require.Equal(t, "140", opts.league)
			},
		},
		{
			name: "check needs no league",
			args: []string{"-type", "check", "-provider", "football_data"},
			check: func(t *testing.T, opts options) {
				require.Equal(t, typeCheck, opts.syncType)
			},
		},
		{name: "standings without league", args: []string{"-type", "standings"}, wantErr: true},
		{name: "missing type", args: nil, wantErr: true},
		{name: "unknown type", args: []string{"-type", "players"}, wantErr: true},
		{name: "teams without league", args: []string{"-type", "teams"}, wantErr: true},
		{name: "full with both league forms", args: []string{"-type", "full", "-league", "39", "-leagues", "140"}, wantErr: true},
		{name: "stats without match", args: []string{"-type", "stats"}, wantErr: true},
		{name: "from without to", args: []string{"-type", "matches", "-league", "39", "-from", "2025-08-01"}, wantErr: true},
		{name: "bad date", args: []string{"-type", "matches", "-league", "39", "-from", "01/08/2025", "-to", "2025-08-31"}, wantErr: true},
		{name: "zero days", args: []string{"-type", "matches", "-league", "39", "-days", "0"}, wantErr: true},
		{name: "unknown provider", args: []string{"-type", "leagues", "-provider", "sportmonks"}, wantErr: true},
		{name: "stray argument", args: []string{"-type", "leagues", "extra"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			opts, err := parseOptions(tc.args, cliConfig(), io.Discard)
			if tc.wantErr {
				if !errors.Is(err, errUsage) {
					t.Fatalf("expected usage error, got %v", err)
				}
				return
			}
			require.NoError(t, err)
			tc.check(t, opts)
		})
	}
}

func completed(entity string) usecase.SyncResult {
	return usecase.SyncResult{EntityType: entity, Scope: "league:39", Status: synclog.StatusCompleted, Created: 2}
}

func TestExecute_ExitCodes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fetchErr := errors.New("provider down")

	t.Run("partial failure exits zero", func(t *testing.T) {
		t.Parallel()
		svc := &mockSyncer{}
		result := completed("teams")
		result.Failed = 1
		result.ErrorMessages = []string{"team[3]: missing name"}
		svc.On("SyncTeams", ctx, "39").Return(result, nil).Once()

		var out bytes.Buffer
		code := execute(ctx, svc, options{syncType: typeTeams, league: "39"}, &out)
		require.Equal(t, exitOK, code)
		require.Contains(t, out.String(), "missing name")
		require.Contains(t, out.String(), "COMPLETED with errors")
		svc.AssertExpectations(t)
	})

	t.Run("total failure exits one", func(t *testing.T) {
		t.Parallel()
		svc := &mockSyncer{}
		svc.On("SyncLeagues", ctx, int64(1)).
			Return(usecase.SyncResult{EntityType: "leagues", Status: synclog.StatusFailed}, fetchErr).Once()

		code := execute(ctx, svc, options{syncType: typeLeagues, sportID: 1}, io.Discard)
		require.Equal(t, exitFailure, code)
	})

	t.Run("range uses SyncMatchesInRange", func(t *testing.T) {
		t.Parallel()
		svc := &mockSyncer{}
		window := usecase.DateRange{
			From: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC),
		}
		svc.On("SyncMatchesInRange", ctx, "39", window).Return(completed("matches"), nil).Once()

		code := execute(ctx, svc, options{syncType: typeMatches, league: "39", window: &window}, io.Discard)
		require.Equal(t, exitOK, code)
		svc.AssertExpectations(t)
	})

	t.Run("full sync with a failed run exits one", func(t *testing.T) {
		t.Parallel()
		svc := &mockSyncer{}
		failed := usecase.SyncResult{EntityType: "teams", Status: synclog.StatusFailed, ErrorMessages: []string{"fetch teams: upstream 500"}}
		svc.On("FullSync", ctx, "39").Return([]usecase.SyncResult{failed}, fetchErr).Once()

		var out bytes.Buffer
		code := execute(ctx, svc, options{syncType: typeFull, league: "39"}, &out)
		require.Equal(t, exitFailure, code)
		require.Contains(t, out.String(), "Full sync stopped")
		require.Contains(t, out.String(), "upstream 500")
	})

	t.Run("full sync with record failures exits zero", func(t *testing.T) {
		t.Parallel()
		svc := &mockSyncer{}
		matches := completed("matches")
		matches.Failed = 1
		matches.ErrorMessages = []string{"match 1001: unknown status"}
		svc.On("FullSync", ctx, "39").Return([]usecase.SyncResult{completed("teams"), matches}, nil).Once()

		var out bytes.Buffer
		code := execute(ctx, svc, options{syncType: typeFull, league: "39"}, &out)
		require.Equal(t, exitOK, code)
		require.Contains(t, out.String(), "unknown status")
	})

	t.Run("full sync with nothing completed exits one", func(t *testing.T) {
		t.Parallel()
		svc := &mockSyncer{}
		svc.On("FullSync", ctx, "39").Return([]usecase.SyncResult{}, fetchErr).Once()

		code := execute(ctx, svc, options{syncType: typeFull, league: "39"}, io.Discard)
		require.Equal(t, exitFailure, code)
	})

	t.Run("batch with every league failed exits one", func(t *testing.T) {
		t.Parallel()
		svc := &mockSyncer{}
		input := usecase.BatchSyncInput{LeagueExternalIDs: []string{"39", "140"}, MaxWorkers: 2}
		svc.On("BatchFullSync", ctx, input).Return(usecase.BatchSyncResult{
			LeagueCount: 2,
			FailedCount: 2,
			WorkerCount: 2,
			Leagues: []usecase.BatchLeagueSync{
				{LeagueExternalID: "39", Status: "failed", Message: "provider down"},
				{LeagueExternalID: "140", Status: "failed", Message: "provider down"},
			},
		}, nil).Once()

		var out bytes.Buffer
		code := execute(ctx, svc, options{syncType: typeFull, leagues: []string{"39", "140"}, workers: 2}, &out)
		require.Equal(t, exitFailure, code)
		require.Contains(t, out.String(), "Failed: 2")
	})

	t.Run("standings", func(t *testing.T) {
		t.Parallel()
		svc := &mockSyncer{}
		svc.On("SyncStandings", ctx, "39").Return(completed("standings"), nil).Once()

		var out bytes.Buffer
		code := execute(ctx, svc, options{syncType: typeStandings, league: "39"}, &out)
		require.Equal(t, exitOK, code)
		require.Contains(t, out.String(), "Standings sync result")
		svc.AssertExpectations(t)
	})

	t.Run("check passes", func(t *testing.T) {
		t.Parallel()
		svc := &mockSyncer{}
		svc.On("CheckConnection", ctx).Return(usecase.ConnectionStatus{
			Provider: "api_football",
			OK:       true,
			Message:  "connection successful",
			Account:  map[string]any{"plan": "Free", "requests_today": 12},
		}, nil).Once()

		var out bytes.Buffer
		code := execute(ctx, svc, options{syncType: typeCheck}, &out)
		require.Equal(t, exitOK, code)
		require.Contains(t, out.String(), "Provider api_football connection: OK")
		require.Contains(t, out.String(), "plan: Free")
	})

	t.Run("check rejected exits one", func(t *testing.T) {
		t.Parallel()
		svc := &mockSyncer{}
		svc.On("CheckConnection", ctx).Return(usecase.ConnectionStatus{Provider: "api_football", Message: "invalid key"}, fetchErr).Once()

		var out bytes.Buffer
		code := execute(ctx, svc, options{syncType: typeCheck}, &out)
		require.Equal(t, exitFailure, code)
		require.Contains(t, out.String(), "connection: FAILED")
		require.Contains(t, out.String(), "Connection check failed")
	})

	t.Run("stats", func(t *testing.T) {
		t.Parallel()
		svc := &mockSyncer{}
		svc.On("SyncMatchStatistics", ctx, "1035037").Return(completed("match_statistics"), nil).Once()

		code := execute(ctx, svc, options{syncType: typeStats, matchID: "1035037"}, io.Discard)
		require.Equal(t, exitOK, code)
		svc.AssertExpectations(t)
	})
}

func TestPrintUsage_WarnsOnLowQuota(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	printUsage(&out, "api_football", ratelimit.Usage{
		Used: 95, Limit: 100, Remaining: 5, Window: "24h0m0s", Percentage: 95,
		ResetAt: time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC),
	})
	if !strings.Contains(out.String(), "WARNING: only 5 api_football calls left") {
		t.Fatalf("expected low quota warning, got %q", out.String())
	}

	out.Reset()
	printUsage(&out, "api_football", ratelimit.Usage{Used: 10, Limit: 100, Remaining: 90})
	if strings.Contains(out.String(), "WARNING") {
		t.Fatalf("did not expect warning, got %q", out.String())
	}
}
