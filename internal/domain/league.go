package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type LeagueStatus string

const (
	LeagueStatusScheduled LeagueStatus = "scheduled"
	LeagueStatusActive    LeagueStatus = "active"
	LeagueStatusCompleted LeagueStatus = "completed"
	LeagueStatusCancelled LeagueStatus = "cancelled"
)

type AverageType string

const (
	AverageTotalPinsPerGame AverageType = "total_pins_per_game"
	AverageTotalPinsPerBall AverageType = "total_pins_per_ball"
	AveragePeriodicUpdate   AverageType = "periodic_update"
)

type HandicapType string

const (
	HandicapPercentageBased    HandicapType = "percentage_based"
	HandicapStraightDifference HandicapType = "straight_difference"
	HandicapWithDeduction      HandicapType = "with_deduction"
)

type AbsentType string

const (
	AbsentPercentageOfAverage AbsentType = "percentage_of_average"
	AbsentFixedValue          AbsentType = "fixed_value"
	AbsentUseAverage          AbsentType = "use_average"
)

type PointSystemType string

const (
	PointsWinLossTie PointSystemType = "win_loss_tie"
	PointsTeamVsTeam PointSystemType = "team_vs_team"
	PointsCustom     PointSystemType = "custom"
)

type AverageRules struct {
	Type           AverageType `json:"type"`
	UpdateInterval int         `json:"updateInterval"`
	DelayGames     int         `json:"delayGames"`
}

type HandicapRules struct {
	Type       HandicapType `json:"type"`
	HighValue  float64      `json:"highValue"`
	Percentage float64      `json:"percentage"`
	Deduction  float64      `json:"deduction"`
	DelayGames int          `json:"delayGames"`
}

type AbsentRules struct {
	Type       AbsentType `json:"type"`
	Percentage float64    `json:"percentage"`
	FixedValue int        `json:"fixedValue"`
}

type PreBowlRules struct {
	Enabled             bool   `json:"enabled"`
	CarryToNextSeason   bool   `json:"carryToNextSeason"`
	RandomUseWhenAbsent bool   `json:"randomUseWhenAbsent"`
	UseBy               string `json:"useBy"`
	MaxUsesPerGame      int    `json:"maxUsesPerGame"`
}

type DivisionRules struct {
	Count           int            `json:"count"`
	ReorderMidSeason bool          `json:"reorderMidSeason"`
	OrderBy         string         `json:"orderBy"`
	Assignments     map[string]int `json:"assignments"`
}

type PlayoffRules struct {
	Type           string   `json:"type"`
	DivisionOnly   bool     `json:"divisionOnly"`
	PlacementPairs [][2]int `json:"placementPairs"`
}

type PointRules struct {
	Type             PointSystemType `json:"type"`
	WinPoints        float64         `json:"winPoints"`
	LossPoints       float64         `json:"lossPoints"`
	TiePoints        float64         `json:"tiePoints"`
	StackedTiePoints bool            `json:"stackedTiePoints"`
	TrackHeadsUp     bool            `json:"trackHeadsUp"`
	TrackTeamVsTeam  bool            `json:"trackTeamVsTeam"`
	TrackDivision    bool            `json:"trackDivision"`
	TrackLeague      bool            `json:"trackLeague"`
	TrackScratch     bool            `json:"trackScratch"`
	TrackHandicap    bool            `json:"trackHandicap"`
}

// LeagueRules is the full rule block stored as one jsonb column on League.
type LeagueRules struct {
	Average   AverageRules  `json:"average"`
	Handicap  HandicapRules `json:"handicap"`
	Absent    AbsentRules   `json:"absent"`
	PreBowl   PreBowlRules  `json:"preBowl"`
	Divisions DivisionRules `json:"divisions"`
	Playoffs  PlayoffRules  `json:"playoffs"`
	Points    PointRules    `json:"points"`
}

type League struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name          string         `json:"name" gorm:"not null"`
	StartDate     time.Time      `json:"startDate" gorm:"not null"`
	EndDate       time.Time      `json:"endDate" gorm:"not null"`
	NumberOfWeeks int            `json:"numberOfWeeks" gorm:"not null"`
	LaneIDs       datatypes.JSON `json:"laneIds" gorm:"type:jsonb;default:'[]'"`
	Status        LeagueStatus   `json:"status" gorm:"not null;default:'scheduled'"`
	Rules         datatypes.JSON `json:"rules" gorm:"type:jsonb"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (l *League) DecodeRules() (*LeagueRules, error) {
	var rules LeagueRules
	if err := json.Unmarshal(l.Rules, &rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

func (l *League) SetRules(rules *LeagueRules) error {
	data, err := json.Marshal(rules)
	if err != nil {
		return err
	}
	l.Rules = datatypes.JSON(data)
	return nil
}

func (l *League) Lanes() ([]int, error) {
	var lanes []int
	if err := json.Unmarshal(l.LaneIDs, &lanes); err != nil {
		return nil, err
	}
	return lanes, nil
}

func (l *League) SetLanes(lanes []int) error {
	data, err := json.Marshal(lanes)
	if err != nil {
		return err
	}
	l.LaneIDs = datatypes.JSON(data)
	return nil
}
