package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"github.com/kyle/bowling-center-server/internal/lanenet"
)

type LaneHandler struct {
	registry *lanenet.Registry
	sync     *lanenet.Synchronizer
}

func NewLaneHandler(registry *lanenet.Registry, sync *lanenet.Synchronizer) *LaneHandler {
	return &LaneHandler{registry: registry, sync: sync}
}

func (h *LaneHandler) List(w http.ResponseWriter, r *http.Request) {
	snaps := h.registry.Snapshot()
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].LaneID < snaps[j].LaneID })
	writeJSON(w, http.StatusOK, snaps)
}

func (h *LaneHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	laneID, ok := parseLaneID(w, r)
	if !ok {
		return
	}

	game := h.sync.Game(laneID)
	if game == nil {
		http.Error(w, "No active game on lane", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// LaneCommandRequest is the operator-facing command envelope. Command
// selects the action, the remaining fields apply per command.
type LaneCommandRequest struct {
	Command    string `json:"command"`
	Hold       bool   `json:"hold"`
	BowlerName string `json:"bowlerName"`
	Frame      int    `json:"frame"`
	Ball       int    `json:"ball"`
	NewValue   int    `json:"newValue"`
	Reason     string `json:"reason"`
	ReturnTo   string `json:"returnTo"`
	Mode       string `json:"mode"`
	LeagueID   string `json:"leagueId"`
}

type LaneCommandResponse struct {
	LaneID  int    `json:"laneId"`
	Command string `json:"command"`
	Status  string `json:"status"`
}

func (h *LaneHandler) Command(w http.ResponseWriter, r *http.Request) {
	laneID, ok := parseLaneID(w, r)
	if !ok {
		return
	}

	var req LaneCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var err error
	switch req.Command {
	case "hold_toggle":
		err = h.sync.HoldToggle(laneID, req.Hold)
	case "update_ball":
		err = h.sync.UpdateBall(laneID, req.BowlerName, req.Frame, req.Ball, req.NewValue)
	case "revert_last_ball":
		err = h.sync.RevertLastBall(laneID)
	case "shutdown_lane":
		err = h.sync.ShutdownLane(laneID, req.Reason, req.ReturnTo)
	case "display_mode":
		err = h.sync.PushDisplayMode(laneID, req.Mode)
	case "league_config":
		var leagueID uuid.UUID
		leagueID, err = uuid.Parse(req.LeagueID)
		if err != nil {
			http.Error(w, "Invalid league id", http.StatusBadRequest)
			return
		}
		err = h.sync.PushLeagueConfig(laneID, leagueID)
	default:
		http.Error(w, "Unknown command: "+req.Command, http.StatusBadRequest)
		return
	}

	if err != nil {
		if errors.Is(err, domain.ErrLaneNotRegistered) {
			http.Error(w, "Lane not registered", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusBadGateway)
		}
		return
	}

	writeJSON(w, http.StatusAccepted, LaneCommandResponse{
		LaneID:  laneID,
		Command: req.Command,
		Status:  "sent",
	})
}

func parseLaneID(w http.ResponseWriter, r *http.Request) (int, bool) {
	laneID, err := strconv.Atoi(chi.URLParam(r, "laneId"))
	if err != nil || laneID <= 0 {
		http.Error(w, "Invalid lane id", http.StatusBadRequest)
		return 0, false
	}
	return laneID, true
}
