// Command sync runs one sports-data sync against the configured provider
// and prints a run summary with the remaining provider quota.
//
//	sync -type leagues
//	sync -type full -league premier_league
//	sync -type matches -league 39 -from 2025-08-01 -to 2025-08-31
//	sync -type full -leagues premier_league,la_liga -workers 2
//	sync -type stats -match 1035037
//	sync -type standings -league premier_league
//	sync -type check
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/sports-sync/internal/app"
	"github.com/riskibarqy/sports-sync/internal/config"
	"github.com/riskibarqy/sports-sync/internal/domain/synclog"
	"github.com/riskibarqy/sports-sync/internal/platform/logging"
	"github.com/riskibarqy/sports-sync/internal/usecase"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type syncer interface {
	SyncLeagues(ctx context.Context, sportID int64) (usecase.SyncResult, error)
	SyncTeams(ctx context.Context, leagueExternalID string) (usecase.SyncResult, error)
	SyncMatches(ctx context.Context, leagueExternalID string, daysAhead int) (usecase.SyncResult, error)
	SyncMatchesInRange(ctx context.Context, leagueExternalID string, window usecase.DateRange) (usecase.SyncResult, error)
	FullSync(ctx context.Context, leagueExternalID string) ([]usecase.SyncResult, error)
	SyncMatchStatistics(ctx context.Context, matchExternalID string) (usecase.SyncResult, error)
	SyncStandings(ctx context.Context, leagueExternalID string) (usecase.SyncResult, error)
	CheckConnection(ctx context.Context) (usecase.ConnectionStatus, error)
	BatchFullSync(ctx context.Context, input usecase.BatchSyncInput) (usecase.BatchSyncResult, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return exitUsage
	}

	opts, err := parseOptions(args, cfg, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	cfg.SyncProvider = opts.provider

	logger := logging.NewJSON(cfg.LogLevel).With("component", "sync-cli", "provider", opts.provider)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "build app: %v\n", err)
		return exitFailure
	}
	defer func() { _ = application.Close() }()

	if opts.syncType == typeCheck {
		fmt.Fprintf(stdout, "Checking provider %s...\n", opts.provider)
	} else {
		fmt.Fprintf(stdout, "Starting %s sync (provider %s)...\n", opts.syncType, opts.provider)
	}
	started := time.Now()
	code := execute(ctx, application.Sync, opts, stdout)
	fmt.Fprintf(stdout, "\nFinished in %s\n", time.Since(started).Round(time.Millisecond))

	usageCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	usage, err := application.Provider.Usage(usageCtx)
	if err != nil {
		fmt.Fprintf(stderr, "read provider usage: %v\n", err)
		return code
	}
	printUsage(stdout, opts.provider, usage)
	return code
}

// execute runs the selected sync and maps its outcome to an exit code.
// Record-level failures exit 0; a run that FAILED as a whole exits 1.
func execute(ctx context.Context, svc syncer, opts options, out io.Writer) int {
	switch opts.syncType {
	case typeLeagues:
		return single(out, "Leagues")(svc.SyncLeagues(ctx, opts.sportID))
	case typeTeams:
		return single(out, "Teams")(svc.SyncTeams(ctx, opts.league))
	case typeMatches:
		if opts.window != nil {
			return single(out, "Matches")(svc.SyncMatchesInRange(ctx, opts.league, *opts.window))
		}
		return single(out, "Matches")(svc.SyncMatches(ctx, opts.league, opts.daysAhead))
	case typeStats:
		return single(out, "Match statistics")(svc.SyncMatchStatistics(ctx, opts.matchID))
	case typeStandings:
		return single(out, "Standings")(svc.SyncStandings(ctx, opts.league))
	case typeCheck:
		return check(ctx, svc, out)
	case typeFull:
		if len(opts.leagues) > 0 {
			return batch(ctx, svc, opts, out)
		}
		return full(ctx, svc, opts.league, out)
	}
	fmt.Fprintf(out, "unknown sync type %q\n", opts.syncType)
	return exitUsage
}

func single(out io.Writer, label string) func(usecase.SyncResult, error) int {
	return func(result usecase.SyncResult, err error) int {
		if err != nil && result.Status != synclog.StatusCompleted {
			printResult(out, label, result)
			fmt.Fprintf(out, "\n%s sync failed: %v\n", label, err)
			return exitFailure
		}
		printResult(out, label, result)
		return exitOK
	}
}

// full exits 1 when any run FAILED as a whole. Record-level failures inside
// a COMPLETED run still exit 0.
func full(ctx context.Context, svc syncer, league string, out io.Writer) int {
	runs, err := svc.FullSync(ctx, league)
	failed := len(runs) == 0
	for _, run := range runs {
		fmt.Fprintf(out, "\n=== %s ===", run.EntityType)
		printResult(out, run.EntityType, run)
		if run.Status != synclog.StatusCompleted {
			failed = true
		}
	}
	if err != nil {
		fmt.Fprintf(out, "\nFull sync stopped: %v\n", err)
		return exitFailure
	}
	if failed {
		return exitFailure
	}
	return exitOK
}

// check exits 1 when the provider rejects the credentials or is unreachable.
func check(ctx context.Context, svc syncer, out io.Writer) int {
	status, err := svc.CheckConnection(ctx)
	printConnection(out, status)
	if err != nil {
		fmt.Fprintf(out, "\nConnection check failed: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func batch(ctx context.Context, svc syncer, opts options, out io.Writer) int {
	result, err := svc.BatchFullSync(ctx, usecase.BatchSyncInput{
		LeagueExternalIDs: opts.leagues,
		MaxWorkers:        opts.workers,
	})
	if err != nil {
		fmt.Fprintf(out, "Batch sync failed: %v\n", err)
		if errors.Is(err, usecase.ErrInvalidInput) {
			return exitUsage
		}
		return exitFailure
	}

	printBatch(out, result)
	if result.LeagueCount > 0 && result.FailedCount == result.LeagueCount {
		return exitFailure
	}
	return exitOK
}
