package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, cfg RouterConfig) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}
	if !cfg.SwaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, cfg RouterConfig) {
	throttle := AdminRateLimit(cfg.AdminRateLimitPerMinute)
	admin := func(next http.HandlerFunc) http.Handler {
		return RequireAdminToken(cfg.AdminToken, throttle(next))
	}

	mux.Handle("POST /v1/admin/sync/leagues", admin(handler.SyncLeagues))
	mux.Handle("POST /v1/admin/sync/teams", admin(handler.SyncTeams))
	mux.Handle("POST /v1/admin/sync/matches", admin(handler.SyncMatches))
	mux.Handle("POST /v1/admin/sync/full", admin(handler.SyncFull))
	mux.Handle("POST /v1/admin/sync/matches/{externalID}/statistics", admin(handler.SyncMatchStatistics))
	mux.Handle("POST /v1/admin/sync/standings", admin(handler.SyncStandings))
	mux.Handle("GET /v1/admin/sync/connection", admin(handler.CheckConnection))
	mux.Handle("GET /v1/admin/sync/logs", admin(handler.ListSyncLogs))

	mux.Handle("GET /v1/admin/sources", admin(handler.ListSources))
	mux.Handle("GET /v1/admin/sources/{name}/usage", admin(handler.GetSourceUsage))

	mux.Handle("GET /v1/admin/leagues/{externalID}/standings", admin(handler.ListLeagueStandings))

	mux.Handle("PUT /v1/admin/predictions", admin(handler.SubmitPrediction))
	mux.Handle("GET /v1/admin/matches/{matchID}/predictions", admin(handler.ListMatchPredictions))
}
