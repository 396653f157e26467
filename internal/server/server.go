package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"fragstats/internal/domain"
	"fragstats/internal/middleware"
	"fragstats/internal/service"

	"github.com/rs/zerolog"
)

type Server struct {
	accountSvc *service.AccountService
	matchSvc   *service.MatchService
	profileSvc *service.ProfileService
}

func NewServer(accountSvc *service.AccountService, matchSvc *service.MatchService, profileSvc *service.ProfileService) *Server {
	return &Server{accountSvc: accountSvc, matchSvc: matchSvc, profileSvc: profileSvc}
}

// Routes builds the API mux. requireAuth wraps the handlers that need a
// signed-in account.
func (s *Server) Routes(requireAuth func(http.Handler) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/v1/profiles/{username}", s.handleGetProfile)
	mux.HandleFunc("GET /api/v1/profiles/{username}/matches", s.handleGetProfileMatches)

	mux.Handle("POST /api/v1/auth/logout", requireAuth(http.HandlerFunc(s.handleLogout)))
	mux.Handle("GET /api/v1/dashboard", requireAuth(http.HandlerFunc(s.handleDashboard)))
	mux.Handle("POST /api/v1/matches", requireAuth(http.HandlerFunc(s.handleAddMatch)))
	mux.Handle("DELETE /api/v1/matches/{id}", requireAuth(http.HandlerFunc(s.handleDeleteMatch)))
	mux.Handle("POST /api/v1/stats/reset", requireAuth(http.HandlerFunc(s.handleResetStats)))
	mux.Handle("DELETE /api/v1/account", requireAuth(http.HandlerFunc(s.handleDeleteAccount)))

	return mux
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type matchRequest struct {
	PlayedOn   string `json:"played_on"`
	PlayedAt   string `json:"played_at"`
	Category   string `json:"category"`
	Outcome    string `json:"outcome"`
	MapName    string `json:"map_name"`
	RoundsWon  int    `json:"rounds_won"`
	RoundsLost int    `json:"rounds_lost"`
	Damage     int    `json:"damage"`
	Kills      int    `json:"kills"`
	Deaths     int    `json:"deaths"`
	Assists    int    `json:"assists"`
}

type matchResponse struct {
	ID         string `json:"id"`
	PlayedOn   string `json:"played_on"`
	PlayedAt   string `json:"played_at"`
	Category   string `json:"category"`
	Outcome    string `json:"outcome"`
	MapName    string `json:"map_name"`
	RoundsWon  int    `json:"rounds_won"`
	RoundsLost int    `json:"rounds_lost"`
	Rounds     int    `json:"rounds"`
	Damage     int    `json:"damage"`
	Kills      int    `json:"kills"`
	Deaths     int    `json:"deaths"`
	Assists    int    `json:"assists"`
}

type summaryResponse struct {
	KDRatio        float64 `json:"kd_ratio"`
	DamagePerRound float64 `json:"damage_per_round"`
	WinPercentage  float64 `json:"win_percentage"`
	KillsPerRound  float64 `json:"kills_per_round"`
	Wins           int     `json:"wins"`
	Kills          int     `json:"kills"`
	Deaths         int     `json:"deaths"`
	Assists        int     `json:"assists"`
	TotalGames     int     `json:"total_games"`
	TotalRounds    int     `json:"total_rounds"`
	TotalDamage    int     `json:"total_damage"`
}

func toMatchResponse(rec domain.MatchRecord) matchResponse {
	return matchResponse{
		ID:         rec.ID,
		PlayedOn:   rec.PlayedOn,
		PlayedAt:   rec.PlayedAt,
		Category:   string(rec.Category),
		Outcome:    string(rec.Outcome),
		MapName:    rec.MapName,
		RoundsWon:  rec.RoundsWon,
		RoundsLost: rec.RoundsLost,
		Rounds:     rec.Rounds(),
		Damage:     rec.Damage,
		Kills:      rec.Kills,
		Deaths:     rec.Deaths,
		Assists:    rec.Assists,
	}
}

func toMatchResponses(records []domain.MatchRecord) []matchResponse {
	out := make([]matchResponse, len(records))
	for i, rec := range records {
		out[i] = toMatchResponse(rec)
	}
	return out
}

func toSummaryResponse(s domain.Summary) summaryResponse {
	return summaryResponse(s)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := s.accountSvc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":       account.ID,
		"username": account.Username,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := s.accountSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.accountSvc.Logout(r.Context(), middleware.GetSessionID(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profileSvc.GetProfile(r.Context(), r.PathValue("username"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"username": profile.Username,
		"summary":  toSummaryResponse(profile.Summary),
	})
}

func (s *Server) handleGetProfileMatches(w http.ResponseWriter, r *http.Request) {
	records, err := s.profileSvc.GetProfileMatches(r.Context(), r.PathValue("username"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"matches": toMatchResponses(records),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.profileSvc.GetDashboard(r.Context(), middleware.GetAccountID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"username":       dashboard.Username,
		"summary":        toSummaryResponse(dashboard.Summary),
		"recent_matches": toMatchResponses(dashboard.RecentMatches),
		"total_matches":  dashboard.TotalMatches,
	})
}

func (s *Server) handleAddMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record := &domain.MatchRecord{
		AccountID:  middleware.GetAccountID(r.Context()),
		PlayedOn:   req.PlayedOn,
		PlayedAt:   req.PlayedAt,
		Category:   domain.Category(req.Category),
		Outcome:    domain.Outcome(req.Outcome),
		MapName:    req.MapName,
		RoundsWon:  req.RoundsWon,
		RoundsLost: req.RoundsLost,
		Damage:     req.Damage,
		Kills:      req.Kills,
		Deaths:     req.Deaths,
		Assists:    req.Assists,
	}

	created, err := s.matchSvc.AddMatch(r.Context(), record)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMatchResponse(*created))
}

func (s *Server) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	err := s.matchSvc.DeleteMatch(r.Context(), middleware.GetAccountID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.matchSvc.ResetStats(r.Context(), middleware.GetAccountID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": toSummaryResponse(*summary)})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := s.accountSvc.Delete(ctx, middleware.GetAccountID(ctx), middleware.GetSessionID(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRecord), errors.Is(err, service.ErrInvalidAccount):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
