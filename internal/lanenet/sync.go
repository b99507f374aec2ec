package lanenet

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"github.com/kyle/bowling-center-server/internal/league"
	"github.com/kyle/bowling-center-server/internal/notify"
)

// GameProcessor is the slice of the league engine the synchronizer
// needs; satisfied by *league.Engine.
type GameProcessor interface {
	ProcessLeagueGame(ctx context.Context, sub league.GameSubmission) error
	GetLeague(ctx context.Context, leagueID uuid.UUID) (*domain.League, error)
}

// Synchronizer owns the per-lane cached GameState. It applies UI
// commands optimistically and reconciles on lane acknowledgements: the
// lane unit is the authority for live scoring, the server cache is
// corrected by acks and full game_data pushes.
type Synchronizer struct {
	mu        sync.RWMutex
	games     map[int]*domain.GameState
	registry  *Registry
	engine    GameProcessor
	publisher notify.Publisher
}

func NewSynchronizer(registry *Registry, engine GameProcessor, publisher notify.Publisher) *Synchronizer {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	return &Synchronizer{
		games:     make(map[int]*domain.GameState),
		registry:  registry,
		engine:    engine,
		publisher: publisher,
	}
}

// Game returns a copy of the cached state for a lane, or nil. The
// live state is only ever touched under the lock via mutateGame.
func (s *Synchronizer) Game(laneID int) *domain.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gs := s.games[laneID]
	if gs == nil {
		return nil
	}
	return gs.Clone()
}

// mutateGame runs fn against the live cached state under the write
// lock. Returns false when the lane has no cached game.
func (s *Synchronizer) mutateGame(laneID int, fn func(gs *domain.GameState)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs := s.games[laneID]
	if gs == nil {
		return false
	}
	fn(gs)
	return true
}

func (s *Synchronizer) setGame(laneID int, gs *domain.GameState) {
	s.mu.Lock()
	s.games[laneID] = gs
	s.mu.Unlock()
}

func (s *Synchronizer) clearGame(laneID int) {
	s.mu.Lock()
	delete(s.games, laneID)
	s.mu.Unlock()
}

// StartQuickGame builds and caches a fresh quick game and pushes the
// canonical initialized structure back to the lane.
func (s *Synchronizer) StartQuickGame(c *LaneConn, p *QuickGameUpdatePayload) {
	gs := domain.NewGameState(c.LaneID(), domain.GameTypeQuick, p.Bowlers)
	gs.TotalGames = p.TotalGames
	// Snapshot before the state is shared; after setGame only the lock
	// guards it.
	snap := SnapshotGame(gs)
	published := gs.Clone()
	s.setGame(c.LaneID(), gs)
	c.SetStatus(domain.LaneStatusQuickGame)

	if err := c.Send(NewOutbound(TypeQuickGameStart, snap)); err != nil {
		log.Printf("WARN [lanenet.Synchronizer] quick_game_start to lane %d undelivered: %v", c.LaneID(), err)
	}
	s.publisher.Publish(notify.ChannelLanes, notify.EventGameStarted, published)
}

// StartLeagueGame is StartQuickGame for league play, additionally
// pushing the league's scoring configuration to the lane.
func (s *Synchronizer) StartLeagueGame(c *LaneConn, p *LeagueGameUpdatePayload) {
	leagueID, err := uuid.Parse(p.LeagueID)
	if err != nil {
		log.Printf("ERROR [lanenet.Synchronizer] league_game_update with bad league_id %q: %v", p.LeagueID, err)
		return
	}

	gs := domain.NewGameState(c.LaneID(), domain.GameTypeLeague, p.Bowlers)
	gs.LeagueID = &leagueID
	gs.TeamName = p.TeamName
	gs.TotalGames = p.TotalGames
	snap := SnapshotGame(gs)
	published := gs.Clone()
	s.setGame(c.LaneID(), gs)
	c.SetStatus(domain.LaneStatusLeagueGame)

	if err := c.Send(NewOutbound(TypeLeagueGameStart, snap)); err != nil {
		log.Printf("WARN [lanenet.Synchronizer] league_game_start to lane %d undelivered: %v", c.LaneID(), err)
	}
	s.pushLeagueConfig(c, leagueID)
	s.publisher.Publish(notify.ChannelLanes, notify.EventGameStarted, published)
}

func (s *Synchronizer) pushLeagueConfig(c *LaneConn, leagueID uuid.UUID) {
	lg, err := s.engine.GetLeague(context.Background(), leagueID)
	if err != nil {
		log.Printf("WARN [lanenet.Synchronizer] league %s not found for config push: %v", leagueID, err)
		return
	}
	rules, err := lg.DecodeRules()
	if err != nil {
		log.Printf("ERROR [lanenet.Synchronizer] league %s has undecodable rules: %v", leagueID, err)
		return
	}
	cfg := LeagueConfigPayload{
		LeagueName:      lg.Name,
		HandicapEnabled: rules.Handicap.Type != "",
		PreBowlEnabled:  rules.PreBowl.Enabled,
		PointSystem:     string(rules.Points.Type),
	}
	if err := c.Send(NewOutbound(TypeLeagueConfig, cfg)); err != nil {
		log.Printf("WARN [lanenet.Synchronizer] league_config to lane %d undelivered: %v", c.LaneID(), err)
	}
}

// HandleGameData overwrites the cached state with the lane's full-state
// resync; this is how drift from missed acknowledgements is corrected.
func (s *Synchronizer) HandleGameData(c *LaneConn, p *GameDataPayload) {
	gs := &domain.GameState{
		LaneID:        c.LaneID(),
		Type:          domain.GameType(p.GameType),
		TeamName:      p.TeamName,
		CurrentBowler: p.CurrentBowler,
		Held:          p.Held,
		Completed:     p.Completed,
		GamesPlayed:   p.GamesPlayed,
		TotalGames:    p.TotalGames,
	}
	if p.LeagueID != "" {
		if id, err := uuid.Parse(p.LeagueID); err == nil {
			gs.LeagueID = &id
		}
	}
	for _, snap := range p.Bowlers {
		gs.Bowlers = append(gs.Bowlers, restoreBowler(snap))
	}
	s.setGame(c.LaneID(), gs)
}

// HandleBallThrown records the ball into the cache and re-broadcasts it
// as an event. Scoring stays on the lane; only the raw pinfall is
// cached. Strike and spare flags trigger visual-effect commands.
func (s *Synchronizer) HandleBallThrown(c *LaneConn, p *BallThrownPayload) {
	s.mutateGame(c.LaneID(), func(gs *domain.GameState) {
		for _, b := range gs.Bowlers {
			if b.Name == p.BowlerName {
				b.Frames[p.Frame-1][p.Ball-1] = p.Pins
				b.CurrentFrame = p.Frame
				b.CurrentBall = p.Ball
				break
			}
		}
	})

	if p.IsStrike || p.IsSpare {
		effect := "spare"
		if p.IsStrike {
			effect = "strike"
		}
		if err := c.Send(NewOutbound(TypeSpecialEffect, SpecialEffectPayload{Effect: effect, BowlerName: p.BowlerName})); err != nil {
			log.Printf("WARN [lanenet.Synchronizer] special_effect to lane %d undelivered: %v", c.LaneID(), err)
		}
	}

	s.publisher.Publish(notify.ChannelLanes, notify.EventBallThrown, map[string]any{
		"laneId":     c.LaneID(),
		"bowlerName": p.BowlerName,
		"frame":      p.Frame,
		"ball":       p.Ball,
		"pins":       p.Pins,
		"isStrike":   p.IsStrike,
		"isSpare":    p.IsSpare,
	})
}

// HandleFrameComplete caches the lane's authoritative frame totals and
// re-broadcasts. League frames are tagged with their league id for live
// consumers.
func (s *Synchronizer) HandleFrameComplete(c *LaneConn, p *FrameCompletePayload) {
	event := map[string]any{
		"laneId":       c.LaneID(),
		"bowlerName":   p.BowlerName,
		"frame":        p.Frame,
		"frameTotal":   p.FrameTotal,
		"runningTotal": p.RunningTotal,
	}
	s.mutateGame(c.LaneID(), func(gs *domain.GameState) {
		for _, b := range gs.Bowlers {
			if b.Name == p.BowlerName {
				b.FrameTotals[p.Frame-1] = p.FrameTotal
				b.RunningTotals[p.Frame-1] = p.RunningTotal
				b.Score = p.RunningTotal
				break
			}
		}
		if gs.Type == domain.GameTypeLeague && gs.LeagueID != nil {
			event["leagueId"] = gs.LeagueID.String()
		}
	})
	s.publisher.Publish(notify.ChannelLanes, notify.EventFrameCompleted, event)
}

// HandleGameComplete dispatches the finished game, then always clears
// the cached state and leaves the lane Ready, quick or league alike.
func (s *Synchronizer) HandleGameComplete(c *LaneConn, p *GameCompletePayload) {
	laneID := c.LaneID()
	gs := s.Game(laneID)

	switch {
	case p.GameType == string(domain.GameTypeLeague) || (gs != nil && gs.Type == domain.GameTypeLeague):
		s.completeLeagueGame(c, gs, p)
	default:
		s.logQuickGameSummary(laneID, p)
	}

	s.clearGame(laneID)
	c.SetStatus(domain.LaneStatusReady)
	s.publisher.Publish(notify.ChannelLanes, notify.EventGameCompleted, map[string]any{
		"laneId":   laneID,
		"gameType": p.GameType,
	})
}

func (s *Synchronizer) completeLeagueGame(c *LaneConn, gs *domain.GameState, p *GameCompletePayload) {
	sub := league.GameSubmission{LaneID: c.LaneID()}

	if p.LeagueID != "" {
		if id, err := uuid.Parse(p.LeagueID); err == nil {
			sub.LeagueID = id
		}
	}
	if sub.LeagueID == uuid.Nil && gs != nil && gs.LeagueID != nil {
		sub.LeagueID = *gs.LeagueID
	}
	sub.TeamName = p.TeamName
	if sub.TeamName == "" && gs != nil {
		sub.TeamName = gs.TeamName
	}
	if sub.LeagueID == uuid.Nil || sub.TeamName == "" {
		log.Printf("ERROR [lanenet.Synchronizer] league game_complete on lane %d missing league identity, dropping", c.LaneID())
		return
	}

	for _, score := range p.Scores {
		sub.Scores = append(sub.Scores, domain.GameScore{
			BowlerName:  score.BowlerName,
			Scratch:     score.Scratch,
			Strikes:     score.Strikes,
			Spares:      score.Spares,
			BallsThrown: score.BallsThrown,
		})
	}
	for _, raw := range p.AbsentBowlerIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			log.Printf("WARN [lanenet.Synchronizer] lane %d reported bad absent bowler id %q, skipping", c.LaneID(), raw)
			continue
		}
		sub.AbsentBowlerIDs = append(sub.AbsentBowlerIDs, id)
	}

	if err := s.engine.ProcessLeagueGame(context.Background(), sub); err != nil {
		log.Printf("ERROR [lanenet.Synchronizer] league game on lane %d not processed: %v", c.LaneID(), err)
	}
}

func (s *Synchronizer) logQuickGameSummary(laneID int, p *GameCompletePayload) {
	summary := ""
	for i, score := range p.Scores {
		if i > 0 {
			summary += ", "
		}
		summary += fmt.Sprintf("%s=%d", score.BowlerName, score.Scratch)
	}
	log.Printf("quick game complete on lane %d: %s", laneID, summary)
}

// HandleStatusUpdate is a full status resync from the lane.
func (s *Synchronizer) HandleStatusUpdate(c *LaneConn, p *StatusUpdatePayload) {
	status := domain.ParseLaneStatus(p.Status)
	if c.Status() != status {
		c.SetStatus(status)
		s.publisher.Publish(notify.ChannelLanes, notify.EventLaneStatusChanged, map[string]any{
			"laneId": c.LaneID(),
			"status": status,
		})
	}
}

func (s *Synchronizer) HandleDisplayModeChange(c *LaneConn, p *DisplayModeChangePayload) {
	s.publisher.Publish(notify.ChannelLanes, notify.EventLaneCommand, map[string]any{
		"laneId":  c.LaneID(),
		"command": "display_mode_change",
		"mode":    p.Mode,
	})
}

// HandleHoldAck is the conciliatory source of truth for hold state: it
// overwrites whatever the optimistic local flip set.
func (s *Synchronizer) HandleHoldAck(c *LaneConn, p *HoldAckPayload) {
	var gameType domain.GameType
	hasGame := s.mutateGame(c.LaneID(), func(gs *domain.GameState) {
		gs.Held = p.Held
		gameType = gs.Type
	})
	c.SetStatus(statusForHold(hasGame, gameType, p.Held))
}

func statusForHold(hasGame bool, gameType domain.GameType, held bool) domain.LaneStatus {
	if held {
		return domain.LaneStatusHeld
	}
	if !hasGame {
		return domain.LaneStatusActive
	}
	if gameType == domain.GameTypeLeague {
		return domain.LaneStatusLeagueGame
	}
	return domain.LaneStatusQuickGame
}

// HandleBallUpdateAck reconciles an edited ball value. An unapplied ack
// means the lane rejected the edit; the cache reverts on the next full
// game_data push.
func (s *Synchronizer) HandleBallUpdateAck(c *LaneConn, p *BallUpdateAckPayload) {
	if !p.Applied {
		log.Printf("WARN [lanenet.Synchronizer] lane %d rejected ball update for %s frame %d", c.LaneID(), p.BowlerName, p.Frame)
		return
	}
	s.mutateGame(c.LaneID(), func(gs *domain.GameState) {
		for _, b := range gs.Bowlers {
			if b.Name == p.BowlerName && p.Frame >= 1 && p.Frame <= domain.FramesPerGame && p.Ball >= 1 && p.Ball <= domain.BallsPerFrame {
				b.Frames[p.Frame-1][p.Ball-1] = p.NewValue
				break
			}
		}
	})
}

func (s *Synchronizer) HandleRevertAck(c *LaneConn, p *RevertAckPayload) {
	s.mutateGame(c.LaneID(), func(gs *domain.GameState) {
		for _, b := range gs.Bowlers {
			if b.Name == p.BowlerName && p.Frame >= 1 && p.Frame <= domain.FramesPerGame && p.Ball >= 1 && p.Ball <= domain.BallsPerFrame {
				b.Frames[p.Frame-1][p.Ball-1] = domain.BallNotThrown
				break
			}
		}
	})
}

// HandleShutdownAck is the forced-reset transition: allowed from any
// state, clears the cached game unconditionally and idles the lane.
func (s *Synchronizer) HandleShutdownAck(c *LaneConn) {
	s.clearGame(c.LaneID())
	c.SetStatus(domain.LaneStatusIdle)
	s.publisher.Publish(notify.ChannelLanes, notify.EventLaneStatusChanged, map[string]any{
		"laneId": c.LaneID(),
		"status": domain.LaneStatusIdle,
	})
}

// Outbound commands. Each applies the mutation locally first, then
// pushes the command; the matching acknowledgement reconciles.

func (s *Synchronizer) laneConn(laneID int) (*LaneConn, error) {
	c := s.registry.Get(laneID)
	if c == nil {
		return nil, domain.ErrLaneNotRegistered
	}
	return c, nil
}

func (s *Synchronizer) publishCommand(laneID int, command string, detail map[string]any) {
	payload := map[string]any{"laneId": laneID, "command": command}
	for k, v := range detail {
		payload[k] = v
	}
	s.publisher.Publish(notify.ChannelLanes, notify.EventLaneCommand, payload)
}

func (s *Synchronizer) HoldToggle(laneID int, hold bool) error {
	c, err := s.laneConn(laneID)
	if err != nil {
		return err
	}

	var gameType domain.GameType
	hasGame := s.mutateGame(laneID, func(gs *domain.GameState) {
		gs.Held = hold
		gameType = gs.Type
	})
	c.SetStatus(statusForHold(hasGame, gameType, hold))

	s.publishCommand(laneID, "hold_toggle", map[string]any{"hold": hold})
	return c.Send(NewOutbound(TypeHoldToggle, HoldTogglePayload{Hold: hold}))
}

func (s *Synchronizer) UpdateBall(laneID int, bowlerName string, frame, ball, newValue int) error {
	c, err := s.laneConn(laneID)
	if err != nil {
		return err
	}
	if frame < 1 || frame > domain.FramesPerGame || ball < 1 || ball > domain.BallsPerFrame {
		return fmt.Errorf("frame %d ball %d out of range", frame, ball)
	}

	s.mutateGame(laneID, func(gs *domain.GameState) {
		for _, b := range gs.Bowlers {
			if b.Name == bowlerName {
				b.Frames[frame-1][ball-1] = newValue
				break
			}
		}
	})

	s.publishCommand(laneID, "update_ball", map[string]any{"bowlerName": bowlerName, "frame": frame, "ball": ball})
	return c.Send(NewOutbound(TypeUpdateBall, UpdateBallPayload{
		BowlerName: bowlerName,
		Frame:      frame,
		Ball:       ball,
		NewValue:   newValue,
	}))
}

func (s *Synchronizer) RevertLastBall(laneID int) error {
	c, err := s.laneConn(laneID)
	if err != nil {
		return err
	}

	s.mutateGame(laneID, func(gs *domain.GameState) {
		if b := gs.ActiveBowler(); b != nil {
			frame, ball := lastThrownBall(b)
			if frame > 0 {
				b.Frames[frame-1][ball-1] = domain.BallNotThrown
			}
		}
	})

	s.publishCommand(laneID, "revert_last_ball", nil)
	return c.Send(NewOutbound(TypeRevertLastBall, struct{}{}))
}

func lastThrownBall(b *domain.BowlerGameState) (frame, ball int) {
	for f := domain.FramesPerGame - 1; f >= 0; f-- {
		for bl := domain.BallsPerFrame - 1; bl >= 0; bl-- {
			if b.Frames[f][bl] != domain.BallNotThrown {
				return f + 1, bl + 1
			}
		}
	}
	return 0, 0
}

func (s *Synchronizer) ShutdownLane(laneID int, reason, returnTo string) error {
	c, err := s.laneConn(laneID)
	if err != nil {
		return err
	}

	// Optimistic forced reset; shutdown_acknowledged reconciles.
	s.clearGame(laneID)
	c.SetStatus(domain.LaneStatusIdle)

	s.publishCommand(laneID, "shutdown_lane", map[string]any{"reason": reason})
	return c.Send(NewOutbound(TypeShutdownLane, ShutdownLanePayload{Reason: reason, ReturnTo: returnTo}))
}

func (s *Synchronizer) PushDisplayMode(laneID int, mode string) error {
	c, err := s.laneConn(laneID)
	if err != nil {
		return err
	}
	s.publishCommand(laneID, "display_mode_update", map[string]any{"mode": mode})
	return c.Send(NewOutbound(TypeDisplayModeUpdate, DisplayModeUpdatePayload{Mode: mode}))
}

func (s *Synchronizer) PushLeagueConfig(laneID int, leagueID uuid.UUID) error {
	c, err := s.laneConn(laneID)
	if err != nil {
		return err
	}
	s.pushLeagueConfig(c, leagueID)
	return nil
}
