package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/riskibarqy/sports-sync/internal/domain/synclog"
	"github.com/riskibarqy/sports-sync/internal/platform/ratelimit"
	"github.com/riskibarqy/sports-sync/internal/usecase"
)

// lowQuotaThreshold triggers the quota warning after a run.
const lowQuotaThreshold = 10

func printResult(out io.Writer, label string, result usecase.SyncResult) {
	fmt.Fprintf(out, "\n%s sync result (%s):\n", label, result.Scope)
	fmt.Fprintf(out, "  Created:   %d\n", result.Created)
	fmt.Fprintf(out, "  Updated:   %d\n", result.Updated)
	fmt.Fprintf(out, "  Unchanged: %d\n", result.Unchanged)
	fmt.Fprintf(out, "  Failed:    %d\n", result.Failed)
	if result.RunID != "" {
		fmt.Fprintf(out, "  Run:       %s (log %d, %dms)\n", result.RunID, result.LogID, result.DurationMs)
	}

	if len(result.ErrorMessages) > 0 {
		fmt.Fprintln(out, "  Errors:")
		for _, msg := range result.ErrorMessages {
			fmt.Fprintf(out, "    - %s\n", msg)
		}
	}
	for _, msg := range result.Warnings {
		fmt.Fprintf(out, "  Warning:   %s\n", msg)
	}

	switch {
	case result.Status != synclog.StatusCompleted:
		fmt.Fprintf(out, "  Status:    %s\n", result.Status)
	case result.HasErrors():
		fmt.Fprintln(out, "  Status:    COMPLETED with errors")
	default:
		fmt.Fprintln(out, "  Status:    COMPLETED")
	}
}

func printConnection(out io.Writer, status usecase.ConnectionStatus) {
	state := "FAILED"
	if status.OK {
		state = "OK"
	}
	fmt.Fprintf(out, "\nProvider %s connection: %s\n", status.Provider, state)
	if status.Message != "" {
		fmt.Fprintf(out, "  Message:   %s\n", status.Message)
	}
	keys := make([]string, 0, len(status.Account))
	for key := range status.Account {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(out, "  %s: %v\n", key, status.Account[key])
	}
}

func printBatch(out io.Writer, result usecase.BatchSyncResult) {
	fmt.Fprintf(out, "\nBatch full sync: %d leagues, %d workers\n", result.LeagueCount, result.WorkerCount)
	fmt.Fprintf(out, "  Success: %d  Partial: %d  Failed: %d\n", result.SuccessCount, result.PartialCount, result.FailedCount)
	for _, league := range result.Leagues {
		line := fmt.Sprintf("  - %s: %s (%dms)", league.LeagueExternalID, league.Status, league.DurationMs)
		if league.Message != "" {
			line += " " + league.Message
		}
		fmt.Fprintln(out, line)
	}
}

func printUsage(out io.Writer, provider string, usage ratelimit.Usage) {
	if usage.Limit <= 0 {
		fmt.Fprintf(out, "Provider %s: no local quota configured\n", provider)
		return
	}

	fmt.Fprintf(out, "Provider %s quota: %d/%d used, %d remaining (%.1f%%), window %s, resets %s\n",
		provider, usage.Used, usage.Limit, usage.Remaining, usage.Percentage, usage.Window,
		usage.ResetAt.UTC().Format("2006-01-02 15:04:05 MST"))
	if usage.Remaining < lowQuotaThreshold {
		fmt.Fprintf(out, "WARNING: only %d %s calls left in this window\n", usage.Remaining, provider)
	}
}
