package domain

import (
	"time"

	"github.com/google/uuid"
)

type GameType string

const (
	GameTypeQuick  GameType = "quick"
	GameTypeLeague GameType = "league"
)

const (
	FramesPerGame = 10
	BallsPerFrame = 3

	// BallNotThrown marks an unfilled ball slot.
	BallNotThrown = -1
)

// BowlerGameState is one bowler's live scoring sheet. Frame totals and
// running totals arrive from the lane unit, which performs the actual
// scoring; the server only caches them.
type BowlerGameState struct {
	Name          string                               `json:"name"`
	CurrentFrame  int                                  `json:"currentFrame"` // 1..10
	CurrentBall   int                                  `json:"currentBall"`  // 1..3
	Frames        [FramesPerGame][BallsPerFrame]int    `json:"frames"`
	FrameTotals   [FramesPerGame]int                   `json:"frameTotals"`
	RunningTotals [FramesPerGame]int                   `json:"runningTotals"`
	Score         int                                  `json:"score"`
	IsActive      bool                                 `json:"isActive"`
}

// NewBowlerGameState pre-initializes every ball slot to BallNotThrown so
// the lane unit renders from this canonical copy instead of computing
// initial state itself.
func NewBowlerGameState(name string) *BowlerGameState {
	b := &BowlerGameState{
		Name:         name,
		CurrentFrame: 1,
		CurrentBall:  1,
	}
	for f := 0; f < FramesPerGame; f++ {
		for ball := 0; ball < BallsPerFrame; ball++ {
			b.Frames[f][ball] = BallNotThrown
		}
	}
	return b
}

// GameState is the per-lane cached game. At most one exists per lane.
type GameState struct {
	LaneID        int                `json:"laneId"`
	Type          GameType           `json:"gameType"`
	LeagueID      *uuid.UUID         `json:"leagueId,omitempty"`
	TeamName      string             `json:"teamName,omitempty"`
	Bowlers       []*BowlerGameState `json:"bowlers"`
	CurrentBowler int                `json:"currentBowler"`
	Held          bool               `json:"held"`
	Completed     bool               `json:"completed"`
	GamesPlayed   int                `json:"gamesPlayed"`
	TotalGames    int                `json:"totalGames"`
	StartedAt     time.Time          `json:"startedAt"`
}

func NewGameState(laneID int, gameType GameType, bowlerNames []string) *GameState {
	gs := &GameState{
		LaneID:    laneID,
		Type:      gameType,
		StartedAt: time.Now(),
	}
	for i, name := range bowlerNames {
		b := NewBowlerGameState(name)
		b.IsActive = i == 0
		gs.Bowlers = append(gs.Bowlers, b)
	}
	return gs
}

// Clone deep-copies the state so readers outside the synchronizer's
// lock never alias the live cache.
func (g *GameState) Clone() *GameState {
	cp := *g
	if g.LeagueID != nil {
		id := *g.LeagueID
		cp.LeagueID = &id
	}
	cp.Bowlers = make([]*BowlerGameState, len(g.Bowlers))
	for i, b := range g.Bowlers {
		bc := *b
		cp.Bowlers[i] = &bc
	}
	return &cp
}

// ActiveBowler returns the single active bowler, or nil when the game
// is held or completed.
func (g *GameState) ActiveBowler() *BowlerGameState {
	for _, b := range g.Bowlers {
		if b.IsActive {
			return b
		}
	}
	return nil
}

// SetActiveBowler marks exactly one bowler active.
func (g *GameState) SetActiveBowler(index int) {
	if index < 0 || index >= len(g.Bowlers) {
		return
	}
	for i, b := range g.Bowlers {
		b.IsActive = i == index
	}
	g.CurrentBowler = index
}

// GameScore is a single bowler's result for one completed game. It is
// both the game_complete wire shape and the stored pre-bowl payload.
type GameScore struct {
	BowlerName  string     `json:"bowlerName"`
	BowlerID    *uuid.UUID `json:"bowlerId,omitempty"`
	Scratch     int        `json:"scratch"`
	Strikes     int        `json:"strikes"`
	Spares      int        `json:"spares"`
	BallsThrown int        `json:"ballsThrown"`
}

// GameRecord is a persisted completed game.
type GameRecord struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	LeagueID    *uuid.UUID `json:"leagueId" gorm:"type:uuid;index"`
	TeamID      *uuid.UUID `json:"teamId" gorm:"type:uuid"`
	BowlerID    *uuid.UUID `json:"bowlerId" gorm:"type:uuid;index"`
	BowlerName  string     `json:"bowlerName"`
	LaneID      int        `json:"laneId"`
	Scratch     int        `json:"scratch"`
	Handicap    float64    `json:"handicap"`
	Total       float64    `json:"total"`
	Strikes     int        `json:"strikes"`
	Spares      int        `json:"spares"`
	BallsThrown int        `json:"ballsThrown"`
	Absent      bool       `json:"absent"`
	PreBowl     bool       `json:"preBowl"`
	PlayedAt    time.Time  `json:"playedAt"`
}
