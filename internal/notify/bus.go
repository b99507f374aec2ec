package notify

import "time"

// Publisher hands UI-facing events to whatever is listening. The core
// never depends on what, if anything, is subscribed.
type Publisher interface {
	Publish(channel, event string, payload any) bool
}

// Channels used by the core subsystems.
const (
	ChannelLanes    = "lanes"
	ChannelLeagues  = "leagues"
	ChannelBookings = "bookings"
)

// Event names.
const (
	EventLaneStatusChanged = "lane_status_changed"
	EventLaneCommand       = "lane_command"
	EventGameStarted       = "game_started"
	EventGameCompleted     = "game_completed"
	EventBallThrown        = "ball_thrown"
	EventFrameCompleted    = "frame_completed"
	EventLeagueCreated     = "league_created"
	EventScheduleGenerated = "schedule_generated"
	EventStandingsUpdated  = "standings_updated"
	EventBookingCreated    = "booking_created"
)

// Envelope is the serialized form handed to every transport.
type Envelope struct {
	Channel   string    `json:"channel"`
	Event     string    `json:"event"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(string, string, any) bool { return true }

// Multi fans one event out to several publishers.
type Multi []Publisher

func (m Multi) Publish(channel, event string, payload any) bool {
	ok := true
	for _, p := range m {
		if !p.Publish(channel, event, payload) {
			ok = false
		}
	}
	return ok
}
