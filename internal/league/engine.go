package league

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"github.com/kyle/bowling-center-server/internal/notify"
	"github.com/kyle/bowling-center-server/internal/repository"
	"gorm.io/gorm"
)

// matchDuration is the lane window reserved per weekly league slot.
const matchDuration = 2 * time.Hour

// Engine owns the league, team and bowler season caches. All other
// subsystems reach league state through its methods, never through
// shared maps.
type Engine struct {
	leagues      repository.LeagueRepository
	teams        repository.TeamRepository
	bowlers      repository.BowlerRepository
	events       repository.EventRepository
	bookings     repository.BookingRepository
	seasons      repository.SeasonRepository
	preBowls     repository.PreBowlRepository
	games        repository.GameRepository
	publisher    notify.Publisher
	customPoints CustomPointFunc
}

func NewEngine(repos *repository.Repositories, publisher notify.Publisher) *Engine {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	return &Engine{
		leagues:      repos.League,
		teams:        repos.Team,
		bowlers:      repos.Bowler,
		events:       repos.Event,
		bookings:     repos.Booking,
		seasons:      repos.Season,
		preBowls:     repos.PreBowl,
		games:        repos.Game,
		publisher:    publisher,
		customPoints: defaultCustomPoints,
	}
}

// SetCustomPointFunc wires a deployment-specific formula for the custom
// point system.
func (e *Engine) SetCustomPointFunc(fn CustomPointFunc) {
	if fn != nil {
		e.customPoints = fn
	}
}

type CreateLeagueInput struct {
	Name          string
	StartDate     time.Time
	EndDate       time.Time
	NumberOfWeeks int
	LaneIDs       []int
	Rules         domain.LeagueRules
}

func validateLeagueInput(input CreateLeagueInput) error {
	switch {
	case input.Name == "":
		return fmt.Errorf("%w: name must not be empty", domain.ErrInvalidLeagueConfig)
	case input.NumberOfWeeks < 1 || input.NumberOfWeeks > 52:
		return fmt.Errorf("%w: number of weeks must be between 1 and 52", domain.ErrInvalidLeagueConfig)
	case len(input.LaneIDs) == 0:
		return fmt.Errorf("%w: at least one lane is required", domain.ErrInvalidLeagueConfig)
	case !input.StartDate.Before(input.EndDate):
		return fmt.Errorf("%w: start date must be before end date", domain.ErrInvalidLeagueConfig)
	}
	return nil
}

func (e *Engine) CreateLeague(ctx context.Context, input CreateLeagueInput) (*domain.League, error) {
	if err := validateLeagueInput(input); err != nil {
		return nil, err
	}

	rules := input.Rules
	if rules.Points.Type == "" {
		rules.Points.Type = domain.PointsWinLossTie
	}
	if rules.Points.Type == domain.PointsWinLossTie &&
		rules.Points.WinPoints == 0 && rules.Points.LossPoints == 0 && rules.Points.TiePoints == 0 {
		rules.Points.WinPoints = 2
		rules.Points.TiePoints = 1
	}
	if rules.Average.Type == "" {
		rules.Average.Type = domain.AverageTotalPinsPerGame
	}

	league := &domain.League{
		ID:            uuid.New(),
		Name:          input.Name,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		NumberOfWeeks: input.NumberOfWeeks,
		Status:        domain.LeagueStatusScheduled,
	}
	if err := league.SetLanes(input.LaneIDs); err != nil {
		return nil, err
	}
	if err := league.SetRules(&rules); err != nil {
		return nil, err
	}

	if err := e.leagues.Create(ctx, league); err != nil {
		log.Printf("ERROR [league.CreateLeague] failed to persist league %q: %v", input.Name, err)
		return nil, err
	}

	e.publisher.Publish(notify.ChannelLeagues, notify.EventLeagueCreated, league)
	return league, nil
}

func (e *Engine) GetLeague(ctx context.Context, leagueID uuid.UUID) (*domain.League, error) {
	league, err := e.leagues.GetByID(ctx, leagueID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrLeagueNotFound
	}
	return league, err
}

func (e *Engine) ListLeagues(ctx context.Context, limit, offset int) ([]*domain.League, error) {
	return e.leagues.List(ctx, limit, offset)
}

func (e *Engine) AddTeam(ctx context.Context, leagueID uuid.UUID, name string, bowlerIDs []uuid.UUID) (*domain.Team, error) {
	league, err := e.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: team name must not be empty", domain.ErrInvalidLeagueConfig)
	}

	rules, err := league.DecodeRules()
	if err != nil {
		return nil, err
	}

	team := &domain.Team{
		ID:       uuid.New(),
		LeagueID: leagueID,
		Name:     name,
	}
	if div, ok := rules.Divisions.Assignments[name]; ok {
		team.DivisionID = div
	}
	if err := e.teams.Create(ctx, team); err != nil {
		return nil, err
	}

	for _, bowlerID := range bowlerIDs {
		if err := e.teams.AddBowler(ctx, team.ID, bowlerID); err != nil {
			return nil, err
		}
		// Seed the season record so standings queries see the roster
		// before any game is bowled.
		season := &domain.BowlerSeasonData{
			ID:          uuid.New(),
			BowlerID:    bowlerID,
			LeagueID:    leagueID,
			LastUpdated: time.Now(),
		}
		if err := e.seasons.Upsert(ctx, season); err != nil {
			return nil, err
		}
	}

	return e.teams.GetByID(ctx, team.ID)
}

// SkippedSlot is a scheduling slot that collided with an existing
// booking. The pair is not rescheduled automatically.
type SkippedSlot struct {
	WeekNumber int               `json:"weekNumber"`
	LaneID     int               `json:"laneId"`
	Team1ID    uuid.UUID         `json:"team1Id"`
	Team2ID    uuid.UUID         `json:"team2Id"`
	Conflicts  []*domain.Booking `json:"conflicts"`
}

type ScheduleResult struct {
	EventIDs         []uuid.UUID   `json:"eventIds"`
	ScheduledMatches int           `json:"scheduledMatches"`
	Skipped          []SkippedSlot `json:"skipped"`
	UnscheduledPairs int           `json:"unscheduledPairs"`
}

// GenerateSchedule builds the full round-robin fixture list for a
// league. The whole generation run commits in one transaction; skipped
// conflicting slots are a deliberate partial success, not a failure.
func (e *Engine) GenerateSchedule(ctx context.Context, leagueID uuid.UUID) (*ScheduleResult, error) {
	league, err := e.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if err := validateLeagueInput(CreateLeagueInput{
		Name:          league.Name,
		StartDate:     league.StartDate,
		EndDate:       league.EndDate,
		NumberOfWeeks: league.NumberOfWeeks,
		LaneIDs:       mustLanes(league),
	}); err != nil {
		return nil, err
	}

	lanes, err := league.Lanes()
	if err != nil {
		return nil, err
	}

	teams, err := e.teams.GetByLeagueID(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if len(teams) < 2 {
		return nil, domain.ErrNotEnoughTeams
	}

	teamIDs := make([]uuid.UUID, len(teams))
	for i, t := range teams {
		teamIDs[i] = t.ID
	}

	pairs := RoundRobinPairs(teamIDs)
	weeks, unscheduled := PartitionWeeks(pairs, len(lanes), league.NumberOfWeeks)
	if len(unscheduled) > 0 {
		log.Printf("WARN [league.GenerateSchedule] league %s: %d pairs exceed the %d configured weeks and are not scheduled",
			league.ID, len(unscheduled), league.NumberOfWeeks)
	}

	result := &ScheduleResult{UnscheduledPairs: len(unscheduled)}
	var events []*domain.LeagueEvent
	var bookings []*domain.Booking

	for wi, weekPairs := range weeks {
		scheduledTime := league.StartDate.AddDate(0, 0, wi*7)
		event := &domain.LeagueEvent{
			ID:            uuid.New(),
			LeagueID:      leagueID,
			WeekNumber:    wi + 1,
			ScheduledTime: scheduledTime,
			LaneIDs:       league.LaneIDs,
		}

		for pi, pair := range weekPairs {
			laneID := lanes[pi]
			available, err := e.bookings.IsLaneAvailable(ctx, laneID, scheduledTime, scheduledTime.Add(matchDuration), &event.ID)
			if err != nil {
				return nil, err
			}
			if !available {
				conflicts, cerr := e.bookings.GetConflictingEvents(ctx, laneID, scheduledTime, scheduledTime.Add(matchDuration), &event.ID)
				if cerr != nil {
					return nil, cerr
				}
				log.Printf("WARN [league.GenerateSchedule] week %d lane %d unavailable, skipping pair %s vs %s",
					wi+1, laneID, pair.Team1, pair.Team2)
				result.Skipped = append(result.Skipped, SkippedSlot{
					WeekNumber: wi + 1,
					LaneID:     laneID,
					Team1ID:    pair.Team1,
					Team2ID:    pair.Team2,
					Conflicts:  conflicts,
				})
				continue
			}

			event.Matchups = append(event.Matchups, &domain.Matchup{
				ID:      uuid.New(),
				EventID: event.ID,
				Team1ID: pair.Team1,
				Team2ID: pair.Team2,
				LaneID:  laneID,
			})
			bookings = append(bookings, &domain.Booking{
				ID:       uuid.New(),
				LaneID:   laneID,
				Kind:     domain.BookingKindLeague,
				StartsAt: scheduledTime,
				EndsAt:   scheduledTime.Add(matchDuration),
				EventID:  &event.ID,
				Label:    league.Name,
			})
			result.ScheduledMatches++
		}

		if len(event.Matchups) > 0 {
			events = append(events, event)
			result.EventIDs = append(result.EventIDs, event.ID)
		}
	}

	if err := e.events.CreateSchedule(ctx, events, bookings); err != nil {
		log.Printf("ERROR [league.GenerateSchedule] transaction failed for league %s: %v", leagueID, err)
		return nil, err
	}

	e.publisher.Publish(notify.ChannelLeagues, notify.EventScheduleGenerated, result)
	return result, nil
}

func mustLanes(league *domain.League) []int {
	lanes, err := league.Lanes()
	if err != nil {
		return nil
	}
	return lanes
}

// GetStandings aggregates the current standings table. divisionID zero
// means the whole league.
func (e *Engine) GetStandings(ctx context.Context, leagueID uuid.UUID, divisionID int) ([]TeamStanding, error) {
	teams, err := e.teams.GetByLeagueID(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	events, err := e.events.GetByLeagueID(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return FilterDivision(ComputeStandings(teams, events), divisionID), nil
}

// GameSubmission is one completed league game arriving from a lane.
// AbsentBowlerIDs lists roster members who did not show; their scores
// are resolved during processing, consuming a banked pre-bowl where
// the rules allow it.
type GameSubmission struct {
	LeagueID        uuid.UUID
	LaneID          int
	TeamName        string
	Scores          []domain.GameScore
	AbsentBowlerIDs []uuid.UUID
}

// ProcessLeagueGame folds a finished league game into bowler season
// statistics and the open matchup for that lane, completing the matchup
// and its event when both sides are in.
func (e *Engine) ProcessLeagueGame(ctx context.Context, sub GameSubmission) error {
	league, err := e.GetLeague(ctx, sub.LeagueID)
	if err != nil {
		return err
	}
	rules, err := league.DecodeRules()
	if err != nil {
		return err
	}

	team, err := e.findTeamByName(ctx, sub.LeagueID, sub.TeamName)
	if err != nil {
		return err
	}

	matchup, err := e.events.FindOpenMatchup(ctx, sub.LeagueID, sub.LaneID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrMatchupNotFound
	}
	if err != nil {
		return err
	}
	if !matchup.InvolvesTeam(team.ID) {
		return fmt.Errorf("%w: team %s is not part of the open matchup on lane %d",
			domain.ErrMatchupNotFound, team.Name, sub.LaneID)
	}

	type scoredGame struct {
		score   domain.GameScore
		absent  bool
		preBowl bool
	}
	games := make([]scoredGame, 0, len(sub.Scores)+len(sub.AbsentBowlerIDs))
	for _, score := range sub.Scores {
		games = append(games, scoredGame{score: score})
	}
	for _, bowlerID := range sub.AbsentBowlerIDs {
		score, preBowl, err := e.resolveAbsent(ctx, league, rules, bowlerID, true)
		if err != nil {
			return err
		}
		games = append(games, scoredGame{score: score, absent: true, preBowl: preBowl})
	}

	var teamTotal float64
	for _, g := range games {
		total, record, err := e.processBowlerGame(ctx, league, rules, team.ID, sub.LaneID, g.score, g.absent, g.preBowl)
		if err != nil {
			return err
		}
		teamTotal += total
		if err := matchup.AppendGame(record.ID); err != nil {
			return err
		}
	}

	if matchup.Team1ID == team.ID {
		matchup.Team1Score = teamTotal
		matchup.Team1Done = true
	} else {
		matchup.Team2Score = teamTotal
		matchup.Team2Done = true
	}

	if matchup.Team1Done && matchup.Team2Done && !matchup.Completed {
		matchup.Completed = true
		if rules.Points.Type == domain.PointsWinLossTie {
			matchup.Team1Points, matchup.Team2Points = WinLossTiePoints(rules.Points, matchup.Team1Score, matchup.Team2Score)
		}
	}

	if err := e.events.UpdateMatchup(ctx, matchup); err != nil {
		return err
	}

	if matchup.Completed {
		if err := e.updateHighSeries(ctx, league, matchup); err != nil {
			log.Printf("WARN [league.ProcessLeagueGame] high-series update failed: %v", err)
		}
		if err := e.finalizeEvent(ctx, matchup.EventID, league, rules); err != nil {
			return err
		}
	}
	return nil
}

// processBowlerGame persists one bowler's game and recomputes their
// season record. Returns the game total (scratch plus handicap) and the
// stored record.
func (e *Engine) processBowlerGame(ctx context.Context, league *domain.League, rules *domain.LeagueRules, teamID uuid.UUID, laneID int, score domain.GameScore, absent, preBowl bool) (float64, *domain.GameRecord, error) {
	record := &domain.GameRecord{
		ID:          uuid.New(),
		LeagueID:    &league.ID,
		TeamID:      &teamID,
		BowlerName:  score.BowlerName,
		LaneID:      laneID,
		Scratch:     score.Scratch,
		Strikes:     score.Strikes,
		Spares:      score.Spares,
		BallsThrown: score.BallsThrown,
		Absent:      absent,
		PreBowl:     preBowl,
		PlayedAt:    time.Now(),
	}

	bowler, err := e.resolveBowler(ctx, score)
	if err != nil {
		// Unknown bowlers still count toward the team total; their
		// season statistics are simply not tracked.
		log.Printf("WARN [league.processBowlerGame] unknown bowler %q in league %s", score.BowlerName, league.ID)
	}

	var handicap float64
	if bowler != nil {
		record.BowlerID = &bowler.ID

		season, err := e.seasons.Get(ctx, bowler.ID, league.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			season = &domain.BowlerSeasonData{
				ID:       uuid.New(),
				BowlerID: bowler.ID,
				LeagueID: league.ID,
			}
		} else if err != nil {
			return 0, nil, err
		}

		if absent && !preBowl {
			// Formula placeholders were never bowled; they count toward
			// the team total at the current handicap but never feed the
			// bowler's average.
			handicap = season.CurrentHandicap
		} else {
			season.GamesPlayed++
			season.TotalPins += score.Scratch
			season.BallsThrown += score.BallsThrown
			season.Strikes += score.Strikes
			season.Spares += score.Spares
			if score.Scratch > season.HighGame {
				season.HighGame = score.Scratch
			}
			season.CurrentAverage = Average(rules.Average, season)
			season.CurrentHandicap = Handicap(rules.Handicap, season.CurrentAverage, season.GamesPlayed)
			season.LastUpdated = time.Now()

			if err := e.seasons.Upsert(ctx, season); err != nil {
				return 0, nil, err
			}
			handicap = season.CurrentHandicap
		}
	}

	record.Handicap = handicap
	record.Total = float64(score.Scratch) + handicap
	if err := e.games.Create(ctx, record); err != nil {
		return 0, nil, err
	}
	return record.Total, record, nil
}

func (e *Engine) resolveBowler(ctx context.Context, score domain.GameScore) (*domain.Bowler, error) {
	if score.BowlerID != nil {
		return e.bowlers.GetByID(ctx, *score.BowlerID)
	}
	return e.bowlers.GetByName(ctx, score.BowlerName)
}

// updateHighSeries sums each bowler's games within the completed
// matchup and raises their season high series where beaten.
func (e *Engine) updateHighSeries(ctx context.Context, league *domain.League, matchup *domain.Matchup) error {
	ids, err := matchup.Games()
	if err != nil {
		return err
	}
	records, err := e.games.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	series := make(map[uuid.UUID]int)
	for _, r := range records {
		if r.BowlerID != nil {
			series[*r.BowlerID] += r.Scratch
		}
	}

	for bowlerID, total := range series {
		season, err := e.seasons.Get(ctx, bowlerID, league.ID)
		if err != nil {
			continue
		}
		if total > season.HighSeries {
			season.HighSeries = total
			season.LastUpdated = time.Now()
			if err := e.seasons.Upsert(ctx, season); err != nil {
				return err
			}
		}
	}
	return nil
}

// finalizeEvent re-derives event completion from current matchup state.
// Only when every matchup is complete are event-level points finalized
// and a standings-updated notification emitted.
func (e *Engine) finalizeEvent(ctx context.Context, eventID uuid.UUID, league *domain.League, rules *domain.LeagueRules) error {
	event, err := e.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	completed := EventCompleted(event)
	if completed == event.Completed && !completed {
		return nil
	}

	if completed && !event.Completed {
		switch rules.Points.Type {
		case domain.PointsTeamVsTeam:
			if err := e.assignEventPoints(ctx, event, TeamVsTeamPoints(rules.Points, eventScores(event))); err != nil {
				return err
			}
		case domain.PointsCustom:
			if err := e.assignEventPoints(ctx, event, e.customPoints(rules.Points, eventScores(event))); err != nil {
				return err
			}
		}
	}

	if completed != event.Completed {
		event.Completed = completed
		if err := e.events.Update(ctx, event); err != nil {
			return err
		}
	}

	if !completed {
		return nil
	}

	if err := e.persistTeamAggregates(ctx, league.ID); err != nil {
		return err
	}

	standings, err := e.GetStandings(ctx, league.ID, 0)
	if err != nil {
		return err
	}
	e.publisher.Publish(notify.ChannelLeagues, notify.EventStandingsUpdated, map[string]any{
		"leagueId":  league.ID,
		"eventId":   event.ID,
		"week":      event.WeekNumber,
		"standings": standings,
	})
	return nil
}

func eventScores(event *domain.LeagueEvent) []TeamScore {
	var scores []TeamScore
	for _, m := range event.Matchups {
		scores = append(scores,
			TeamScore{TeamID: m.Team1ID, Score: m.Team1Score},
			TeamScore{TeamID: m.Team2ID, Score: m.Team2Score},
		)
	}
	return scores
}

func (e *Engine) assignEventPoints(ctx context.Context, event *domain.LeagueEvent, points map[uuid.UUID]float64) error {
	for _, m := range event.Matchups {
		m.Team1Points = points[m.Team1ID]
		m.Team2Points = points[m.Team2ID]
		if err := e.events.UpdateMatchup(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// persistTeamAggregates recomputes every team's record from the full
// completed-matchup set and writes it back. Idempotent by construction.
func (e *Engine) persistTeamAggregates(ctx context.Context, leagueID uuid.UUID) error {
	teams, err := e.teams.GetByLeagueID(ctx, leagueID)
	if err != nil {
		return err
	}
	events, err := e.events.GetByLeagueID(ctx, leagueID)
	if err != nil {
		return err
	}

	standings := ComputeStandings(teams, events)
	rows := make(map[uuid.UUID]TeamStanding, len(standings))
	for _, s := range standings {
		rows[s.TeamID] = s
	}

	headToHead := make(map[uuid.UUID]map[string]int, len(teams))
	for _, t := range teams {
		headToHead[t.ID] = make(map[string]int)
	}
	for _, event := range events {
		for _, m := range event.Matchups {
			if !m.Completed {
				continue
			}
			if m.Team1Score > m.Team2Score {
				headToHead[m.Team1ID][m.Team2ID.String()]++
			} else if m.Team2Score > m.Team1Score {
				headToHead[m.Team2ID][m.Team1ID.String()]++
			}
		}
	}

	for _, team := range teams {
		row, ok := rows[team.ID]
		if !ok {
			continue
		}
		team.Wins = row.Wins
		team.Losses = row.Losses
		team.Ties = row.Ties
		team.TotalPoints = row.Points
		if played := row.Wins + row.Losses + row.Ties; played > 0 {
			team.TeamAverage = round2(row.TotalScore / float64(played))
		}
		if err := team.SetHeadToHeadCounts(headToHead[team.ID]); err != nil {
			return err
		}
		if err := e.teams.Update(ctx, team); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) findTeamByName(ctx context.Context, leagueID uuid.UUID, name string) (*domain.Team, error) {
	teams, err := e.teams.GetByLeagueID(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, domain.ErrTeamNotFound
}

// AbsentScoreFor previews an absent bowler's resolution: the banked
// pre-bowl that would substitute (second return true), or the formula
// placeholder otherwise. Nothing is consumed; consumption happens when
// the game is processed with the bowler listed absent.
func (e *Engine) AbsentScoreFor(ctx context.Context, leagueID, bowlerID uuid.UUID) (domain.GameScore, bool, error) {
	league, err := e.GetLeague(ctx, leagueID)
	if err != nil {
		return domain.GameScore{}, false, err
	}
	rules, err := league.DecodeRules()
	if err != nil {
		return domain.GameScore{}, false, err
	}
	return e.resolveAbsent(ctx, league, rules, bowlerID, false)
}

// resolveAbsent produces the score an absent bowler contributes. If
// pre-bowl rules allow random use and the bowler has a usable banked
// game, one is picked uniformly at random and its payload is the
// actual result, bypassing the absent-score formulas entirely; with
// consume set, the pick's use is spent. Otherwise a placeholder score
// is computed by the configured absent formula.
func (e *Engine) resolveAbsent(ctx context.Context, league *domain.League, rules *domain.LeagueRules, bowlerID uuid.UUID, consume bool) (domain.GameScore, bool, error) {
	bowler, err := e.bowlers.GetByID(ctx, bowlerID)
	if err != nil {
		return domain.GameScore{}, false, domain.ErrBowlerNotFound
	}

	if rules.PreBowl.Enabled && rules.PreBowl.RandomUseWhenAbsent {
		usable, err := e.preBowls.GetUsable(ctx, bowlerID, league.ID)
		if err != nil {
			return domain.GameScore{}, false, err
		}
		if len(usable) > 0 {
			pick := usable[rand.Intn(len(usable))]
			if consume {
				pick.TimesUsed++
				if err := e.preBowls.Update(ctx, pick); err != nil {
					return domain.GameScore{}, false, err
				}
			}

			var score domain.GameScore
			if err := json.Unmarshal(pick.Payload, &score); err != nil {
				return domain.GameScore{}, false, err
			}
			score.BowlerName = bowler.Name
			score.BowlerID = &bowler.ID
			return score, true, nil
		}
	}

	var average float64
	if season, err := e.seasons.Get(ctx, bowlerID, league.ID); err == nil {
		average = season.CurrentAverage
	}

	return domain.GameScore{
		BowlerName: bowler.Name,
		BowlerID:   &bowler.ID,
		Scratch:    AbsentScore(rules.Absent, average),
	}, false, nil
}

// RecordPreBowl banks a game bowled in advance for later substitution.
func (e *Engine) RecordPreBowl(ctx context.Context, leagueID, bowlerID uuid.UUID, score domain.GameScore, maxUses int) (*domain.PreBowlGame, error) {
	league, err := e.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	rules, err := league.DecodeRules()
	if err != nil {
		return nil, err
	}
	if !rules.PreBowl.Enabled {
		return nil, fmt.Errorf("%w: pre-bowl is not enabled for this league", domain.ErrInvalidLeagueConfig)
	}
	if maxUses <= 0 {
		maxUses = rules.PreBowl.MaxUsesPerGame
	}
	if maxUses <= 0 {
		maxUses = 1
	}

	payload, err := json.Marshal(score)
	if err != nil {
		return nil, err
	}

	game := &domain.PreBowlGame{
		ID:       uuid.New(),
		BowlerID: bowlerID,
		LeagueID: leagueID,
		Payload:  payload,
		MaxUses:  maxUses,
	}
	if err := e.preBowls.Create(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// Maintenance advances league lifecycle by date and clears unused
// pre-bowls at season end when carry-over is disabled. Invoked on a
// periodic timer alongside the liveness sweep.
func (e *Engine) Maintenance(ctx context.Context) {
	now := time.Now()

	scheduled, err := e.leagues.GetByStatus(ctx, domain.LeagueStatusScheduled)
	if err != nil {
		log.Printf("ERROR [league.Maintenance] listing scheduled leagues: %v", err)
		return
	}
	for _, l := range scheduled {
		if !l.StartDate.After(now) {
			l.Status = domain.LeagueStatusActive
			if err := e.leagues.Update(ctx, l); err != nil {
				log.Printf("ERROR [league.Maintenance] activating league %s: %v", l.ID, err)
			}
		}
	}

	active, err := e.leagues.GetByStatus(ctx, domain.LeagueStatusActive)
	if err != nil {
		log.Printf("ERROR [league.Maintenance] listing active leagues: %v", err)
		return
	}
	for _, l := range active {
		if l.EndDate.Before(now) {
			l.Status = domain.LeagueStatusCompleted
			if err := e.leagues.Update(ctx, l); err != nil {
				log.Printf("ERROR [league.Maintenance] completing league %s: %v", l.ID, err)
				continue
			}
			rules, err := l.DecodeRules()
			if err != nil {
				continue
			}
			if !rules.PreBowl.CarryToNextSeason {
				if err := e.preBowls.DeleteUnused(ctx, l.ID); err != nil {
					log.Printf("ERROR [league.Maintenance] clearing pre-bowls for league %s: %v", l.ID, err)
				}
			}
		}
	}
}

// RunMaintenance ticks Maintenance until the context is cancelled.
func (e *Engine) RunMaintenance(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Maintenance(ctx)
		}
	}
}
