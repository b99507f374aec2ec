package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"gorm.io/gorm"
)

// BowlerBuilder creates test bowlers with a builder pattern
type BowlerBuilder struct {
	name  string
	email string
}

// NewBowlerBuilder creates a new BowlerBuilder with default values
func NewBowlerBuilder() *BowlerBuilder {
	return &BowlerBuilder{
		name:  fmt.Sprintf("bowler_%s", uuid.New().String()[:8]),
		email: "bowler@example.com",
	}
}

// WithName sets the bowler name
func (b *BowlerBuilder) WithName(name string) *BowlerBuilder {
	b.name = name
	return b
}

// Create persists the bowler to the database
func (b *BowlerBuilder) Create(t *testing.T, db *gorm.DB) *domain.Bowler {
	t.Helper()

	bowler := &domain.Bowler{
		Name:  b.name,
		Email: b.email,
	}
	if err := db.WithContext(context.Background()).Create(bowler).Error; err != nil {
		t.Fatalf("failed to create test bowler: %v", err)
	}
	return bowler
}

// DefaultRules returns a league rule set covering the common case:
// 80 percent handicap against a 220 scratch base, win/loss/tie points.
func DefaultRules() domain.LeagueRules {
	return domain.LeagueRules{
		Average: domain.AverageRules{
			Type: domain.AverageTotalPinsPerGame,
		},
		Handicap: domain.HandicapRules{
			Type:       domain.HandicapPercentageBased,
			HighValue:  220,
			Percentage: 0.8,
		},
		Absent: domain.AbsentRules{
			Type:       domain.AbsentPercentageOfAverage,
			Percentage: 0.9,
		},
		PreBowl: domain.PreBowlRules{
			Enabled: true,
		},
		Points: domain.PointRules{
			Type:      domain.PointsWinLossTie,
			WinPoints: 2,
			TiePoints: 1,
		},
	}
}

// LeagueBuilder creates test leagues with a builder pattern
type LeagueBuilder struct {
	name          string
	numberOfWeeks int
	laneIDs       []int
	status        domain.LeagueStatus
	rules         domain.LeagueRules
}

// NewLeagueBuilder creates a new LeagueBuilder with default values
func NewLeagueBuilder() *LeagueBuilder {
	return &LeagueBuilder{
		name:          fmt.Sprintf("league_%s", uuid.New().String()[:8]),
		numberOfWeeks: 10,
		laneIDs:       []int{1, 2},
		status:        domain.LeagueStatusActive,
		rules:         DefaultRules(),
	}
}

// WithName sets the league name
func (b *LeagueBuilder) WithName(name string) *LeagueBuilder {
	b.name = name
	return b
}

// WithWeeks sets the season length
func (b *LeagueBuilder) WithWeeks(weeks int) *LeagueBuilder {
	b.numberOfWeeks = weeks
	return b
}

// WithLanes sets the lanes the league bowls on
func (b *LeagueBuilder) WithLanes(laneIDs ...int) *LeagueBuilder {
	b.laneIDs = laneIDs
	return b
}

// WithRules replaces the default rule set
func (b *LeagueBuilder) WithRules(rules domain.LeagueRules) *LeagueBuilder {
	b.rules = rules
	return b
}

// Create persists the league to the database
func (b *LeagueBuilder) Create(t *testing.T, db *gorm.DB) *domain.League {
	t.Helper()

	league := &domain.League{
		Name:          b.name,
		StartDate:     time.Now().AddDate(0, 0, -7),
		EndDate:       time.Now().AddDate(0, 0, 7*b.numberOfWeeks),
		NumberOfWeeks: b.numberOfWeeks,
		Status:        b.status,
	}
	if err := league.SetLanes(b.laneIDs); err != nil {
		t.Fatalf("failed to encode lanes: %v", err)
	}
	if err := league.SetRules(&b.rules); err != nil {
		t.Fatalf("failed to encode rules: %v", err)
	}
	if err := db.WithContext(context.Background()).Create(league).Error; err != nil {
		t.Fatalf("failed to create test league: %v", err)
	}
	return league
}

// TeamBuilder creates test teams with a builder pattern
type TeamBuilder struct {
	leagueID uuid.UUID
	name     string
	bowlers  []*domain.Bowler
}

// NewTeamBuilder creates a new TeamBuilder for the given league
func NewTeamBuilder(leagueID uuid.UUID) *TeamBuilder {
	return &TeamBuilder{
		leagueID: leagueID,
		name:     fmt.Sprintf("team_%s", uuid.New().String()[:8]),
	}
}

// WithName sets the team name
func (b *TeamBuilder) WithName(name string) *TeamBuilder {
	b.name = name
	return b
}

// WithBowlers attaches roster members
func (b *TeamBuilder) WithBowlers(bowlers ...*domain.Bowler) *TeamBuilder {
	b.bowlers = bowlers
	return b
}

// Create persists the team and its roster to the database
func (b *TeamBuilder) Create(t *testing.T, db *gorm.DB) *domain.Team {
	t.Helper()

	team := &domain.Team{
		LeagueID: b.leagueID,
		Name:     b.name,
		Bowlers:  b.bowlers,
	}
	if err := db.WithContext(context.Background()).Create(team).Error; err != nil {
		t.Fatalf("failed to create test team: %v", err)
	}
	return team
}
