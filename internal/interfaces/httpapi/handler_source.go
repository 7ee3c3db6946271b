package httpapi

import "net/http"

// ListSources returns the data source registry with live limiter usage.
func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSources")
	defer span.End()

	items, err := h.sourceService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list data sources failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetSourceUsage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSourceUsage")
	defer span.End()

	name, err := pathValue(r, "name")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	usage, err := h.sourceService.Usage(ctx, name)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, usage)
}
