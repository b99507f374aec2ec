package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
)

type BowlerRepository interface {
	Create(ctx context.Context, bowler *domain.Bowler) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bowler, error)
	GetByName(ctx context.Context, name string) (*domain.Bowler, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Bowler, error)
	Update(ctx context.Context, bowler *domain.Bowler) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	GetByLeagueID(ctx context.Context, leagueID uuid.UUID) ([]*domain.Team, error)
	Update(ctx context.Context, team *domain.Team) error
	AddBowler(ctx context.Context, teamID, bowlerID uuid.UUID) error
}

type LeagueRepository interface {
	Create(ctx context.Context, league *domain.League) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.League, error)
	List(ctx context.Context, limit, offset int) ([]*domain.League, error)
	GetByStatus(ctx context.Context, status domain.LeagueStatus) ([]*domain.League, error)
	Update(ctx context.Context, league *domain.League) error
}

type EventRepository interface {
	// CreateSchedule inserts a full generation run (events, their
	// matchups and the lane bookings that reserve them) in a single
	// transaction. Any failure rolls back the whole batch.
	CreateSchedule(ctx context.Context, events []*domain.LeagueEvent, bookings []*domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LeagueEvent, error)
	GetByLeagueID(ctx context.Context, leagueID uuid.UUID) ([]*domain.LeagueEvent, error)
	Update(ctx context.Context, event *domain.LeagueEvent) error
	GetMatchup(ctx context.Context, id uuid.UUID) (*domain.Matchup, error)
	UpdateMatchup(ctx context.Context, matchup *domain.Matchup) error
	// FindOpenMatchup locates the earliest incomplete matchup for a
	// league on a given lane, used to attach finished lane games.
	FindOpenMatchup(ctx context.Context, leagueID uuid.UUID, laneID int) (*domain.Matchup, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	IsLaneAvailable(ctx context.Context, laneID int, startsAt, endsAt time.Time, excludeEventID *uuid.UUID) (bool, error)
	GetConflictingEvents(ctx context.Context, laneID int, startsAt, endsAt time.Time, excludeEventID *uuid.UUID) ([]*domain.Booking, error)
	GetByLane(ctx context.Context, laneID int, from, to time.Time) ([]*domain.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PreBowlRepository interface {
	Create(ctx context.Context, game *domain.PreBowlGame) error
	GetUsable(ctx context.Context, bowlerID, leagueID uuid.UUID) ([]*domain.PreBowlGame, error)
	Update(ctx context.Context, game *domain.PreBowlGame) error
	DeleteUnused(ctx context.Context, leagueID uuid.UUID) error
}

type SeasonRepository interface {
	Get(ctx context.Context, bowlerID, leagueID uuid.UUID) (*domain.BowlerSeasonData, error)
	GetByLeague(ctx context.Context, leagueID uuid.UUID) ([]*domain.BowlerSeasonData, error)
	Upsert(ctx context.Context, data *domain.BowlerSeasonData) error
}

type GameRepository interface {
	Create(ctx context.Context, record *domain.GameRecord) error
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.GameRecord, error)
	GetByLeagueID(ctx context.Context, leagueID uuid.UUID) ([]*domain.GameRecord, error)
}

type OperatorRepository interface {
	Create(ctx context.Context, operator *domain.Operator) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Operator, error)
	GetByDisplayName(ctx context.Context, displayName string) (*domain.Operator, error)
}

type Repositories struct {
	Bowler   BowlerRepository
	Team     TeamRepository
	League   LeagueRepository
	Event    EventRepository
	Booking  BookingRepository
	PreBowl  PreBowlRepository
	Season   SeasonRepository
	Game     GameRepository
	Operator OperatorRepository
}
