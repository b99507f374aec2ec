package postgres

import (
	"github.com/kyle/bowling-center-server/internal/domain"
	"github.com/kyle/bowling-center-server/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate runs the schema auto-migration for every persisted type.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Bowler{},
		&domain.BowlerSeasonData{},
		&domain.League{},
		&domain.Team{},
		&domain.LeagueEvent{},
		&domain.Matchup{},
		&domain.Booking{},
		&domain.PreBowlGame{},
		&domain.GameRecord{},
		&domain.Operator{},
	)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Bowler:   NewBowlerRepository(db),
		Team:     NewTeamRepository(db),
		League:   NewLeagueRepository(db),
		Event:    NewEventRepository(db),
		Booking:  NewBookingRepository(db),
		PreBowl:  NewPreBowlRepository(db),
		Season:   NewSeasonRepository(db),
		Game:     NewGameRepository(db),
		Operator: NewOperatorRepository(db),
	}
}
