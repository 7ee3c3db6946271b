package httpapi

import "net/http"

func (h *Handler) ListLeagueStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueStandings")
	defer span.End()

	externalID, err := pathValue(r, "externalID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	table, err := h.standingService.ListByLeague(ctx, externalID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, table)
}
