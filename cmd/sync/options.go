package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/riskibarqy/sports-sync/internal/config"
	"github.com/riskibarqy/sports-sync/internal/usecase"
)

const (
	typeLeagues   = "leagues"
	typeTeams     = "teams"
	typeMatches   = "matches"
	typeFull      = "full"
	typeStats     = "stats"
	typeStandings = "standings"
	typeCheck     = "check"
)

var errUsage = errors.New("usage error")

type options struct {
	syncType  string
	league    string
	leagues   []string
	sportID   int64
	daysAhead int
	window    *usecase.DateRange
	matchID   string
	workers   int
	provider  string
}

// parseOptions reads the flags and resolves league aliases through cfg.
// Every returned error wraps errUsage.
func parseOptions(args []string, cfg config.Config, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		opts    options
		leagues string
		from    string
		to      string
		sportID int
	)
	fs.StringVar(&opts.syncType, "type", "", "what to sync: leagues|teams|matches|full|stats|standings, or check to test the provider connection")
	fs.StringVar(&opts.league, "league", "", "league external id or alias (premier_league, la_liga, ...)")
	fs.StringVar(&leagues, "leagues", "", "comma separated leagues for a batch full sync")
	fs.IntVar(&sportID, "sport", int(cfg.SyncDefaultSportID), "sport id for -type leagues")
	fs.IntVar(&opts.daysAhead, "days", cfg.SyncDefaultDaysAhead, "days ahead to sync matches")
	fs.StringVar(&from, "from", "", "range start YYYY-MM-DD, used with -to")
	fs.StringVar(&to, "to", "", "range end YYYY-MM-DD, used with -from")
	fs.StringVar(&opts.matchID, "match", "", "match external id for -type stats")
	fs.IntVar(&opts.workers, "workers", cfg.SyncWorkers, "parallel leagues for a batch full sync")
	fs.StringVar(&opts.provider, "provider", cfg.SyncProvider, "api_football|football_data")

	if err := fs.Parse(args); err != nil {
		return options{}, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}

	opts.syncType = strings.ToLower(strings.TrimSpace(opts.syncType))
	opts.provider = strings.ToLower(strings.TrimSpace(opts.provider))
	opts.sportID = int64(sportID)
	opts.league = cfg.ResolveLeague(opts.league)
	for _, item := range strings.Split(leagues, ",") {
		if resolved := cfg.ResolveLeague(item); resolved != "" {
			opts.leagues = append(opts.leagues, resolved)
		}
	}

	if opts.provider != config.ProviderAPIFootball && opts.provider != config.ProviderFootballData {
		return options{}, fmt.Errorf("%w: unknown -provider %q", errUsage, opts.provider)
	}
	if opts.sportID <= 0 {
		return options{}, fmt.Errorf("%w: -sport must be > 0", errUsage)
	}
	if opts.daysAhead <= 0 {
		return options{}, fmt.Errorf("%w: -days must be > 0", errUsage)
	}
	if opts.workers <= 0 {
		return options{}, fmt.Errorf("%w: -workers must be > 0", errUsage)
	}
	if (from == "") != (to == "") {
		return options{}, fmt.Errorf("%w: -from and -to must be given together", errUsage)
	}
	if from != "" {
		window, err := parseWindow(from, to)
		if err != nil {
			return options{}, fmt.Errorf("%w: %v", errUsage, err)
		}
		opts.window = &window
	}

	switch opts.syncType {
	case typeLeagues, typeCheck:
	case typeTeams, typeMatches, typeStandings:
		if opts.league == "" {
			return options{}, fmt.Errorf("%w: -league is required for -type %s", errUsage, opts.syncType)
		}
	case typeFull:
		if (opts.league == "") == (len(opts.leagues) == 0) {
			return options{}, fmt.Errorf("%w: -type full needs exactly one of -league or -leagues", errUsage)
		}
	case typeStats:
		opts.matchID = strings.TrimSpace(opts.matchID)
		if opts.matchID == "" {
			return options{}, fmt.Errorf("%w: -match is required for -type stats", errUsage)
		}
	case "":
		return options{}, fmt.Errorf("%w: -type is required", errUsage)
	default:
		return options{}, fmt.Errorf("%w: unknown -type %q", errUsage, opts.syncType)
	}

	return opts, nil
}

func parseWindow(from, to string) (usecase.DateRange, error) {
	start, err := time.Parse(time.DateOnly, strings.TrimSpace(from))
	if err != nil {
		return usecase.DateRange{}, fmt.Errorf("-from must be YYYY-MM-DD")
	}
	end, err := time.Parse(time.DateOnly, strings.TrimSpace(to))
	if err != nil {
		return usecase.DateRange{}, fmt.Errorf("-to must be YYYY-MM-DD")
	}
	window := usecase.DateRange{From: start, To: end}
	if err := window.Validate(); err != nil {
		return usecase.DateRange{}, err
	}
	return window, nil
}
