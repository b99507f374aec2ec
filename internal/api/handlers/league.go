package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"github.com/kyle/bowling-center-server/internal/league"
)

type LeagueHandler struct {
	engine *league.Engine
}

func NewLeagueHandler(engine *league.Engine) *LeagueHandler {
	return &LeagueHandler{engine: engine}
}

type CreateLeagueRequest struct {
	Name          string             `json:"name"`
	StartDate     time.Time          `json:"startDate"`
	EndDate       time.Time          `json:"endDate"`
	NumberOfWeeks int                `json:"numberOfWeeks"`
	LaneIDs       []int              `json:"laneIds"`
	Rules         domain.LeagueRules `json:"rules"`
}

func (h *LeagueHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLeagueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.engine.CreateLeague(r.Context(), league.CreateLeagueInput{
		Name:          req.Name,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		NumberOfWeeks: req.NumberOfWeeks,
		LaneIDs:       req.LaneIDs,
		Rules:         req.Rules,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidLeagueConfig) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to create league", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *LeagueHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}

	leagues, err := h.engine.ListLeagues(r.Context(), limit, offset)
	if err != nil {
		http.Error(w, "Failed to list leagues", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, leagues)
}

func (h *LeagueHandler) Get(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := parseLeagueID(w, r)
	if !ok {
		return
	}

	lg, err := h.engine.GetLeague(r.Context(), leagueID)
	if err != nil {
		http.Error(w, "League not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, lg)
}

type AddTeamRequest struct {
	Name      string   `json:"name"`
	BowlerIDs []string `json:"bowlerIds"`
}

func (h *LeagueHandler) AddTeam(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := parseLeagueID(w, r)
	if !ok {
		return
	}

	var req AddTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var bowlerIDs []uuid.UUID
	for _, raw := range req.BowlerIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "Invalid bowler id: "+raw, http.StatusBadRequest)
			return
		}
		bowlerIDs = append(bowlerIDs, id)
	}

	team, err := h.engine.AddTeam(r.Context(), leagueID, req.Name, bowlerIDs)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLeagueNotFound):
			http.Error(w, "League not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrInvalidLeagueConfig):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to add team", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, team)
}

func (h *LeagueHandler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := parseLeagueID(w, r)
	if !ok {
		return
	}

	result, err := h.engine.GenerateSchedule(r.Context(), leagueID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLeagueNotFound):
			http.Error(w, "League not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrInvalidLeagueConfig):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to generate schedule", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *LeagueHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := parseLeagueID(w, r)
	if !ok {
		return
	}

	divisionID := 0
	if raw := r.URL.Query().Get("division"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid division id", http.StatusBadRequest)
			return
		}
		divisionID = id
	}

	standings, err := h.engine.GetStandings(r.Context(), leagueID, divisionID)
	if err != nil {
		http.Error(w, "Failed to load standings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

type RecordPreBowlRequest struct {
	BowlerID string           `json:"bowlerId"`
	Score    domain.GameScore `json:"score"`
	MaxUses  int              `json:"maxUses"`
}

func (h *LeagueHandler) RecordPreBowl(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := parseLeagueID(w, r)
	if !ok {
		return
	}

	var req RecordPreBowlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	bowlerID, err := uuid.Parse(req.BowlerID)
	if err != nil {
		http.Error(w, "Invalid bowler id", http.StatusBadRequest)
		return
	}

	game, err := h.engine.RecordPreBowl(r.Context(), leagueID, bowlerID, req.Score, req.MaxUses)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLeagueNotFound):
			http.Error(w, "League not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrInvalidLeagueConfig):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to record pre-bowl", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, game)
}

type AbsentScoreRequest struct {
	BowlerID string `json:"bowlerId"`
}

type AbsentScoreResponse struct {
	Score       domain.GameScore `json:"score"`
	PreBowlUsed bool             `json:"preBowlUsed"`
}

// AbsentScore previews what an absent bowler would contribute. The
// banked pre-bowl, if any, is only spent when the game is processed.
func (h *LeagueHandler) AbsentScore(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := parseLeagueID(w, r)
	if !ok {
		return
	}

	var req AbsentScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	bowlerID, err := uuid.Parse(req.BowlerID)
	if err != nil {
		http.Error(w, "Invalid bowler id", http.StatusBadRequest)
		return
	}

	score, preBowlUsed, err := h.engine.AbsentScoreFor(r.Context(), leagueID, bowlerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLeagueNotFound), errors.Is(err, domain.ErrBowlerNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "Failed to resolve absent score", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, AbsentScoreResponse{Score: score, PreBowlUsed: preBowlUsed})
}

func parseLeagueID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	leagueID, err := uuid.Parse(chi.URLParam(r, "leagueId"))
	if err != nil {
		http.Error(w, "Invalid league id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return leagueID, true
}
