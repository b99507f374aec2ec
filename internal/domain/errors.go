package domain

import (
	"errors"
	"fmt"
)

// Lane protocol errors
var (
	ErrInvalidLaneID     = errors.New("lane id must be positive")
	ErrLaneNotRegistered = errors.New("lane is not registered")
	ErrNoActiveGame      = errors.New("lane has no active game")
	ErrGameInProgress    = errors.New("lane already has an active game")
)

// League errors
var (
	ErrInvalidLeagueConfig = errors.New("invalid league configuration")
	ErrLeagueNotFound      = errors.New("league not found")
	// ErrNotEnoughTeams is a league-config precondition like the rest,
	// so it matches ErrInvalidLeagueConfig too.
	ErrNotEnoughTeams  = fmt.Errorf("%w: at least two teams are required", ErrInvalidLeagueConfig)
	ErrTeamNotFound    = errors.New("team not found")
	ErrBowlerNotFound  = errors.New("bowler not found")
	ErrMatchupNotFound = errors.New("matchup not found")
)
