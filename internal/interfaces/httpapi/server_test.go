package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/schoolleague/fantasy-engine/internal/infrastructure/repository/memory"
	"github.com/schoolleague/fantasy-engine/internal/platform/cache"
	"github.com/schoolleague/fantasy-engine/internal/platform/logging"
	"github.com/schoolleague/fantasy-engine/internal/usecase"
)

const testJobToken = "job-secret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	statsRepo := memory.NewFantasyStatsRepository()
	badgeRepo := memory.NewBadgeRepository()
	historyRepo := memory.NewGameweekRepository()

	pricingService := usecase.NewPricingService(playerRepo, statsRepo, logger)
	if _, err := pricingService.SeedInitialPrices(t.Context()); err != nil {
		t.Fatalf("seed prices: %v", err)
	}

	leaderboardService := usecase.NewLeaderboardService(
		teamRepo, badgeRepo, historyRepo, statsRepo,
		nil, cache.NewStore(time.Minute), time.Time{}, logger,
	)
	matchDayService := usecase.NewMatchDayService(
		playerRepo,
		usecase.NewMatchResultService(logger),
		usecase.NewTeamUpdateService(teamRepo, statsRepo, 4, logger),
		leaderboardService,
		logger,
	)
	handler := NewHandler(
		matchDayService,
		leaderboardService,
		pricingService,
		usecase.NewSquadService(teamRepo, logger),
		logger,
	)
	return NewRouter(handler, logger, testJobToken)
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_ValidateTeamReportsAllErrors(t *testing.T) {
	router := newTestRouter(t)

	payload := `{
		"name": "ab",
		"formation": "2-2-2",
		"members": [
			{"player_id": "lions-gk-01", "position": "GK", "price": 4.5},
			{"player_id": "lions-fwd-01", "position": "FWD", "price": 11.0, "is_captain": true}
		]
	}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/fantasy/teams/validate", strings.NewReader(payload)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data struct {
			Valid  bool     `json:"valid"`
			Errors []string `json:"errors"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.Data.Valid {
		t.Fatal("expected invalid verdict")
	}
	if len(body.Data.Errors) < 2 {
		t.Fatalf("expected multiple collected errors, got %v", body.Data.Errors)
	}
}

func TestRouter_InternalRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/internal/prices/update", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/prices/update", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 with token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_ProcessMatchThenLeaderboard(t *testing.T) {
	router := newTestRouter(t)

	payload := `{
		"gameweek": 3,
		"home_team_id": "team-north-lions",
		"away_team_id": "team-south-eagles",
		"home_score": 2,
		"away_score": 0,
		"home_scorers": [
			{"player_name": "Dani Costa"},
			{"player_name": "Dani Costa", "assist_name": "Luca Romero"}
		],
		"away_yellow_cards": [{"player_name": "Pau Soler"}]
	}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/matches/match-301/process", strings.NewReader(payload))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var processBody struct {
		Data struct {
			TeamsUpdated int `json:"teamsUpdated"`
			TeamsFailed  int `json:"teamsFailed"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &processBody); err != nil {
		t.Fatalf("unmarshal process response: %v", err)
	}
	if processBody.Data.TeamsUpdated == 0 || processBody.Data.TeamsFailed != 0 {
		t.Fatalf("unexpected process summary: %+v", processBody.Data)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leaderboard", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var leaderboardBody struct {
		Data []struct {
			TeamID string `json:"teamId"`
			Rank   int    `json:"rank"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &leaderboardBody); err != nil {
		t.Fatalf("unmarshal leaderboard response: %v", err)
	}
	if len(leaderboardBody.Data) != 2 {
		t.Fatalf("expected both teams ranked, got %v", leaderboardBody.Data)
	}
	// Ana captains Dani Costa, the double scorer, so her team leads.
	if leaderboardBody.Data[0].TeamID != "ft-001" || leaderboardBody.Data[0].Rank != 1 {
		t.Fatalf("expected ft-001 first, got %+v", leaderboardBody.Data[0])
	}
}

func TestRouter_GetTeamNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/teams/ft-404", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
