package lanenet

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
)

type MessageType string

// Inbound frame types (lane unit to server).
const (
	TypeRegistration           MessageType = "registration"
	TypeHeartbeat              MessageType = "heartbeat"
	TypeGameData               MessageType = "game_data"
	TypeQuickGameUpdate        MessageType = "quick_game_update"
	TypeLeagueGameUpdate       MessageType = "league_game_update"
	TypeGameComplete           MessageType = "game_complete"
	TypeDisplayModeChange      MessageType = "display_mode_change"
	TypeBallThrown             MessageType = "ball_thrown"
	TypeFrameComplete          MessageType = "frame_complete"
	TypeStatusUpdate           MessageType = "status_update"
	TypeHoldAcknowledged       MessageType = "hold_acknowledged"
	TypeBallUpdateAcknowledged MessageType = "ball_update_acknowledged"
	TypeRevertAcknowledged     MessageType = "revert_acknowledged"
	TypeShutdownAcknowledged   MessageType = "shutdown_acknowledged"
)

// Outbound frame types (server to lane unit).
const (
	TypeRegistrationAck   MessageType = "registration_ack"
	TypeHeartbeatAck      MessageType = "heartbeat_ack"
	TypeQuickGameStart    MessageType = "quick_game_start"
	TypeLeagueGameStart   MessageType = "league_game_start"
	TypeHoldToggle        MessageType = "hold_toggle"
	TypeUpdateBall        MessageType = "update_ball"
	TypeRevertLastBall    MessageType = "revert_last_ball"
	TypeShutdownLane      MessageType = "shutdown_lane"
	TypeLeagueConfig      MessageType = "league_config"
	TypeDisplayModeUpdate MessageType = "display_mode_update"
	TypeSpecialEffect     MessageType = "special_effect"
)

// Inbound is the envelope of every frame a lane unit sends: one JSON
// object per line with a required type and a data object.
type Inbound struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Outbound is the server-to-lane envelope. Timestamp marshals as ISO8601.
type Outbound struct {
	Type      MessageType `json:"type"`
	Data      any         `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewOutbound(msgType MessageType, data any) *Outbound {
	return &Outbound{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// Inbound payloads. Each carries its own validation; the router rejects
// and drops frames with missing required fields.

type RegistrationPayload struct {
	LaneID int `json:"lane_id"`
}

func (p *RegistrationPayload) Validate() error {
	if p.LaneID <= 0 {
		return domain.ErrInvalidLaneID
	}
	return nil
}

type QuickGameUpdatePayload struct {
	Bowlers    []string `json:"bowlers"`
	TotalGames int      `json:"total_games"`
}

func (p *QuickGameUpdatePayload) Validate() error {
	if len(p.Bowlers) == 0 {
		return errors.New("quick_game_update requires at least one bowler")
	}
	return nil
}

type LeagueGameUpdatePayload struct {
	Bowlers    []string `json:"bowlers"`
	TeamName   string   `json:"team_name"`
	LeagueID   string   `json:"league_id"`
	TotalGames int      `json:"total_games"`
}

func (p *LeagueGameUpdatePayload) Validate() error {
	if len(p.Bowlers) == 0 {
		return errors.New("league_game_update requires at least one bowler")
	}
	if p.TeamName == "" {
		return errors.New("league_game_update requires team_name")
	}
	if _, err := uuid.Parse(p.LeagueID); err != nil {
		return fmt.Errorf("league_game_update requires a valid league_id: %w", err)
	}
	return nil
}

type ScorePayload struct {
	BowlerName  string `json:"bowler_name"`
	Scratch     int    `json:"scratch"`
	Strikes     int    `json:"strikes"`
	Spares      int    `json:"spares"`
	BallsThrown int    `json:"balls_thrown"`
}

type GameCompletePayload struct {
	GameType string         `json:"game_type"`
	LeagueID string         `json:"league_id,omitempty"`
	TeamName string         `json:"team_name,omitempty"`
	Scores   []ScorePayload `json:"scores"`
	// AbsentBowlerIDs lists roster members marked absent at the lane
	// console; the server resolves their scores.
	AbsentBowlerIDs []string `json:"absent_bowler_ids,omitempty"`
}

func (p *GameCompletePayload) Validate() error {
	if len(p.Scores) == 0 && len(p.AbsentBowlerIDs) == 0 {
		return errors.New("game_complete requires at least one score or absent bowler")
	}
	for _, s := range p.Scores {
		if s.BowlerName == "" {
			return errors.New("game_complete score is missing bowler_name")
		}
	}
	return nil
}

type BallThrownPayload struct {
	BowlerName string `json:"bowler_name"`
	Frame      int    `json:"frame"`
	Ball       int    `json:"ball"`
	Pins       int    `json:"pins"`
	IsStrike   bool   `json:"is_strike"`
	IsSpare    bool   `json:"is_spare"`
}

func (p *BallThrownPayload) Validate() error {
	if p.BowlerName == "" {
		return errors.New("ball_thrown requires bowler_name")
	}
	if p.Frame < 1 || p.Frame > domain.FramesPerGame {
		return fmt.Errorf("ball_thrown frame %d out of range", p.Frame)
	}
	if p.Ball < 1 || p.Ball > domain.BallsPerFrame {
		return fmt.Errorf("ball_thrown ball %d out of range", p.Ball)
	}
	return nil
}

type FrameCompletePayload struct {
	BowlerName   string `json:"bowler_name"`
	Frame        int    `json:"frame"`
	FrameTotal   int    `json:"frame_total"`
	RunningTotal int    `json:"running_total"`
}

func (p *FrameCompletePayload) Validate() error {
	if p.BowlerName == "" {
		return errors.New("frame_complete requires bowler_name")
	}
	if p.Frame < 1 || p.Frame > domain.FramesPerGame {
		return fmt.Errorf("frame_complete frame %d out of range", p.Frame)
	}
	return nil
}

type StatusUpdatePayload struct {
	Status string `json:"status"`
}

func (p *StatusUpdatePayload) Validate() error {
	if p.Status == "" {
		return errors.New("status_update requires status")
	}
	return nil
}

type DisplayModeChangePayload struct {
	Mode string `json:"mode"`
}

func (p *DisplayModeChangePayload) Validate() error {
	if p.Mode == "" {
		return errors.New("display_mode_change requires mode")
	}
	return nil
}

type HoldAckPayload struct {
	Held bool `json:"held"`
}

type BallUpdateAckPayload struct {
	BowlerName string `json:"bowler_name"`
	Frame      int    `json:"frame"`
	Ball       int    `json:"ball"`
	NewValue   int    `json:"new_value"`
	Applied    bool   `json:"applied"`
}

type RevertAckPayload struct {
	BowlerName string `json:"bowler_name"`
	Frame      int    `json:"frame"`
	Ball       int    `json:"ball"`
}

// GameDataPayload is the lane's full-state resync push. The lane is
// authoritative for live scoring, so this overwrites the cached copy.
type GameDataPayload struct {
	GameType      string           `json:"game_type"`
	LeagueID      string           `json:"league_id,omitempty"`
	TeamName      string           `json:"team_name,omitempty"`
	Bowlers       []BowlerSnapshot `json:"bowlers"`
	CurrentBowler int              `json:"current_bowler"`
	Held          bool             `json:"held"`
	Completed     bool             `json:"completed"`
	GamesPlayed   int              `json:"games_played"`
	TotalGames    int              `json:"total_games"`
}

func (p *GameDataPayload) Validate() error {
	if len(p.Bowlers) == 0 {
		return errors.New("game_data requires at least one bowler")
	}
	return nil
}

type BowlerSnapshot struct {
	Name          string  `json:"name"`
	CurrentFrame  int     `json:"current_frame"`
	CurrentBall   int     `json:"current_ball"`
	Frames        [][]int `json:"frames"`
	FrameTotals   []int   `json:"frame_totals"`
	RunningTotals []int   `json:"running_totals"`
	Score         int     `json:"score"`
	IsActive      bool    `json:"is_active"`
}

// Outbound payloads.

type RegistrationAckPayload struct {
	LaneID     int    `json:"lane_id"`
	ServerTime string `json:"server_time"`
}

type AckPayload struct {
	OK bool `json:"ok"`
}

type HoldTogglePayload struct {
	Hold bool `json:"hold"`
}

type UpdateBallPayload struct {
	BowlerName string `json:"bowler_name"`
	Frame      int    `json:"frame"`
	Ball       int    `json:"ball"`
	NewValue   int    `json:"new_value"`
}

type ShutdownLanePayload struct {
	Reason   string `json:"reason"`
	ReturnTo string `json:"return_to"`
}

type LeagueConfigPayload struct {
	LeagueName      string `json:"league_name"`
	HandicapEnabled bool   `json:"handicap_enabled"`
	PreBowlEnabled  bool   `json:"prebowl_enabled"`
	PointSystem     string `json:"point_system"`
}

type DisplayModeUpdatePayload struct {
	Mode string `json:"mode"`
}

type SpecialEffectPayload struct {
	Effect     string `json:"effect"` // "strike" or "spare"
	BowlerName string `json:"bowler_name"`
}

// GameStartPayload is the canonical initialized game structure pushed
// back on game start; the lane unit renders from this single source of
// truth rather than computing initial state itself.
type GameStartPayload struct {
	GameType      string           `json:"game_type"`
	LeagueID      string           `json:"league_id,omitempty"`
	TeamName      string           `json:"team_name,omitempty"`
	Bowlers       []BowlerSnapshot `json:"bowlers"`
	CurrentBowler int              `json:"current_bowler"`
	Held          bool             `json:"held"`
	TotalGames    int              `json:"total_games"`
}

func snapshotBowler(b *domain.BowlerGameState) BowlerSnapshot {
	snap := BowlerSnapshot{
		Name:         b.Name,
		CurrentFrame: b.CurrentFrame,
		CurrentBall:  b.CurrentBall,
		Score:        b.Score,
		IsActive:     b.IsActive,
	}
	for f := 0; f < domain.FramesPerGame; f++ {
		frame := make([]int, domain.BallsPerFrame)
		copy(frame, b.Frames[f][:])
		snap.Frames = append(snap.Frames, frame)
		snap.FrameTotals = append(snap.FrameTotals, b.FrameTotals[f])
		snap.RunningTotals = append(snap.RunningTotals, b.RunningTotals[f])
	}
	return snap
}

// SnapshotGame converts the cached GameState into its wire shape.
func SnapshotGame(gs *domain.GameState) GameStartPayload {
	payload := GameStartPayload{
		GameType:      string(gs.Type),
		TeamName:      gs.TeamName,
		CurrentBowler: gs.CurrentBowler,
		Held:          gs.Held,
		TotalGames:    gs.TotalGames,
	}
	if gs.LeagueID != nil {
		payload.LeagueID = gs.LeagueID.String()
	}
	for _, b := range gs.Bowlers {
		payload.Bowlers = append(payload.Bowlers, snapshotBowler(b))
	}
	return payload
}

// restoreBowler rebuilds the cached bowler state from a lane snapshot,
// clamping oversized arrays instead of rejecting them.
func restoreBowler(snap BowlerSnapshot) *domain.BowlerGameState {
	b := domain.NewBowlerGameState(snap.Name)
	if snap.CurrentFrame >= 1 && snap.CurrentFrame <= domain.FramesPerGame {
		b.CurrentFrame = snap.CurrentFrame
	}
	if snap.CurrentBall >= 1 && snap.CurrentBall <= domain.BallsPerFrame {
		b.CurrentBall = snap.CurrentBall
	}
	for f := 0; f < len(snap.Frames) && f < domain.FramesPerGame; f++ {
		for ball := 0; ball < len(snap.Frames[f]) && ball < domain.BallsPerFrame; ball++ {
			b.Frames[f][ball] = snap.Frames[f][ball]
		}
	}
	for f := 0; f < len(snap.FrameTotals) && f < domain.FramesPerGame; f++ {
		b.FrameTotals[f] = snap.FrameTotals[f]
	}
	for f := 0; f < len(snap.RunningTotals) && f < domain.FramesPerGame; f++ {
		b.RunningTotals[f] = snap.RunningTotals[f]
	}
	b.Score = snap.Score
	b.IsActive = snap.IsActive
	return b
}
