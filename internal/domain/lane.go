package domain

type LaneStatus string

const (
	LaneStatusIdle        LaneStatus = "idle"
	LaneStatusActive      LaneStatus = "active"
	LaneStatusQuickGame   LaneStatus = "quick_game"
	LaneStatusLeagueGame  LaneStatus = "league_game"
	LaneStatusHeld        LaneStatus = "held"
	LaneStatusReady       LaneStatus = "ready"
	LaneStatusMaintenance LaneStatus = "maintenance"
	LaneStatusError       LaneStatus = "error"
	LaneStatusOffline     LaneStatus = "offline"
)

// ParseLaneStatus maps a wire status string to a LaneStatus, falling back
// to Error for anything unrecognized rather than rejecting the frame.
func ParseLaneStatus(s string) LaneStatus {
	switch LaneStatus(s) {
	case LaneStatusIdle, LaneStatusActive, LaneStatusQuickGame, LaneStatusLeagueGame,
		LaneStatusHeld, LaneStatusReady, LaneStatusMaintenance, LaneStatusError, LaneStatusOffline:
		return LaneStatus(s)
	}
	return LaneStatusError
}
