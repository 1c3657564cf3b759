package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("POST /v1/fantasy/teams/validate", handler.ValidateTeam)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/matches/{matchID}/process", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ProcessMatchResult)))
	mux.Handle("POST /v1/internal/gameweeks/{gameweek}/close", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.CloseGameweek)))
	mux.Handle("POST /v1/internal/prices/seed", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SeedPrices)))
	mux.Handle("POST /v1/internal/prices/update", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.UpdatePrices)))
	mux.Handle("POST /v1/internal/teams/{teamID}/wildcard", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RecordWildcardOutcome)))
}
