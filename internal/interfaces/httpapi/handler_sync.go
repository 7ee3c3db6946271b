package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/sports-sync/internal/usecase"
)

type syncLeaguesRequest struct {
	SportID int64 `json:"sport_id" validate:"omitempty,gt=0"`
}

type syncTeamsRequest struct {
	LeagueExternalID string `json:"league_external_id" validate:"required,max=64"`
}

type syncMatchesRequest struct {
	LeagueExternalID string `json:"league_external_id" validate:"required,max=64"`
	DaysAhead        int    `json:"days_ahead" validate:"omitempty,min=1,max=365"`
	From             string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To               string `json:"to" validate:"omitempty,datetime=2006-01-02"`
}

type syncFullRequest struct {
	LeagueExternalID  string   `json:"league_external_id" validate:"omitempty,max=64"`
	LeagueExternalIDs []string `json:"league_external_ids" validate:"omitempty,max=50,dive,required,max=64"`
	Workers           int      `json:"workers" validate:"omitempty,min=1,max=16"`
}

type fullSyncResponse struct {
	LeagueExternalID string               `json:"league_external_id"`
	Runs             []usecase.SyncResult `json:"runs"`
	Errors           []string             `json:"errors"`
}

func (h *Handler) SyncLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncLeagues")
	defer span.End()

	var req syncLeaguesRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	sportID := req.SportID
	if sportID == 0 {
		sportID = h.defaults.SportID
	}

	result, err := h.syncService.SyncLeagues(ctx, sportID)
	if err != nil {
		h.logger.WarnContext(ctx, "sync leagues failed", "sport_id", sportID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) SyncTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncTeams")
	defer span.End()

	var req syncTeamsRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.syncService.SyncTeams(ctx, req.LeagueExternalID)
	if err != nil {
		h.logger.WarnContext(ctx, "sync teams failed", "league_external_id", req.LeagueExternalID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) SyncMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncMatches")
	defer span.End()

	var req syncMatchesRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	var (
		result usecase.SyncResult
		err    error
	)
	switch {
	case req.From == "" && req.To == "":
		daysAhead := req.DaysAhead
		if daysAhead == 0 {
			daysAhead = h.defaults.DaysAhead
		}
		result, err = h.syncService.SyncMatches(ctx, req.LeagueExternalID, daysAhead)
	case req.From != "" && req.To != "":
		var window usecase.DateRange
		window, err = parseDateRange(req.From, req.To)
		if err == nil {
			result, err = h.syncService.SyncMatchesInRange(ctx, req.LeagueExternalID, window)
		}
	default:
		err = fmt.Errorf("%w: from and to must be provided together", usecase.ErrInvalidInput)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "sync matches failed", "league_external_id", req.LeagueExternalID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// SyncFull runs teams then matches for one league, or a batch of leagues
// on the worker pool when league_external_ids is set. A single league
// answers with an error status when either run FAILED as a whole.
func (h *Handler) SyncFull(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncFull")
	defer span.End()

	var req syncFullRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	single := strings.TrimSpace(req.LeagueExternalID)
	switch {
	case single != "" && len(req.LeagueExternalIDs) > 0:
		writeError(ctx, w, fmt.Errorf("%w: use league_external_id or league_external_ids, not both", usecase.ErrInvalidInput))
		return
	case single == "" && len(req.LeagueExternalIDs) == 0:
		writeError(ctx, w, fmt.Errorf("%w: league_external_id or league_external_ids is required", usecase.ErrInvalidInput))
		return
	case len(req.LeagueExternalIDs) > 0:
		workers := req.Workers
		if workers == 0 {
			workers = h.defaults.SyncWorkers
		}
		result, err := h.syncService.BatchFullSync(ctx, usecase.BatchSyncInput{
			LeagueExternalIDs: req.LeagueExternalIDs,
			MaxWorkers:        workers,
		})
		if err != nil {
			h.logger.WarnContext(ctx, "batch full sync failed", "leagues", len(req.LeagueExternalIDs), "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, result)
		return
	}

	runs, err := h.syncService.FullSync(ctx, single)
	if err != nil {
		h.logger.WarnContext(ctx, "full sync failed", "league_external_id", single, "runs", len(runs), "error", err)
		writeError(ctx, w, err)
		return
	}

	resp := fullSyncResponse{LeagueExternalID: single, Runs: runs, Errors: []string{}}
	for _, run := range runs {
		resp.Errors = append(resp.Errors, run.ErrorMessages...)
	}
	writeSuccess(ctx, w, http.StatusOK, resp)
}

func (h *Handler) SyncMatchStatistics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncMatchStatistics")
	defer span.End()

	externalID, err := pathValue(r, "externalID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.syncService.SyncMatchStatistics(ctx, externalID)
	if err != nil {
		h.logger.WarnContext(ctx, "sync match statistics failed", "match_external_id", externalID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) SyncStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncStandings")
	defer span.End()

	var req syncTeamsRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.syncService.SyncStandings(ctx, req.LeagueExternalID)
	if err != nil {
		h.logger.WarnContext(ctx, "sync standings failed", "league_external_id", req.LeagueExternalID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// CheckConnection verifies the active provider's credentials.
func (h *Handler) CheckConnection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckConnection")
	defer span.End()

	status, err := h.syncService.CheckConnection(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, status)
}

func parseDateRange(from, to string) (usecase.DateRange, error) {
	start, err := time.Parse(time.DateOnly, strings.TrimSpace(from))
	if err != nil {
		return usecase.DateRange{}, fmt.Errorf("%w: from must be YYYY-MM-DD", usecase.ErrInvalidInput)
	}
	end, err := time.Parse(time.DateOnly, strings.TrimSpace(to))
	if err != nil {
		return usecase.DateRange{}, fmt.Errorf("%w: to must be YYYY-MM-DD", usecase.ErrInvalidInput)
	}
	window := usecase.DateRange{From: start, To: end}
	if err := window.Validate(); err != nil {
		return usecase.DateRange{}, err
	}
	return window, nil
}
