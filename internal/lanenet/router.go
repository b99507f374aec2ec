package lanenet

import (
	"encoding/json"
	"log"
	"time"
)

// Router dispatches inbound frames purely on their type. Malformed
// JSON and unknown types are logged and dropped; neither is ever fatal
// to the connection.
type Router struct {
	registry *Registry
	sync     *Synchronizer
}

func NewRouter(registry *Registry, sync *Synchronizer) *Router {
	return &Router{registry: registry, sync: sync}
}

// Dispatch handles one raw frame from a lane connection.
func (r *Router) Dispatch(c *LaneConn, frame []byte) {
	var msg Inbound
	if err := json.Unmarshal(frame, &msg); err != nil {
		log.Printf("WARN [lanenet.Router] malformed frame from %s dropped: %v", c.RemoteAddr(), err)
		return
	}
	if msg.Type == "" {
		log.Printf("WARN [lanenet.Router] frame without type from %s dropped", c.RemoteAddr())
		return
	}

	// Everything except registration and heartbeat needs a bound lane.
	switch msg.Type {
	case TypeRegistration, TypeHeartbeat:
	default:
		if c.LaneID() <= 0 {
			log.Printf("WARN [lanenet.Router] %s from unregistered connection %s dropped", msg.Type, c.RemoteAddr())
			return
		}
	}

	switch msg.Type {
	case TypeRegistration:
		var p RegistrationPayload
		if !r.decode(c, msg, &p) {
			return
		}
		serverTime, err := r.registry.Register(c, p.LaneID)
		if err != nil {
			log.Printf("WARN [lanenet.Router] registration from %s rejected: %v", c.RemoteAddr(), err)
			return
		}
		r.send(c, TypeRegistrationAck, RegistrationAckPayload{
			LaneID:     p.LaneID,
			ServerTime: serverTime.UTC().Format(time.RFC3339),
		})

	case TypeHeartbeat:
		r.registry.Heartbeat(c)
		r.send(c, TypeHeartbeatAck, AckPayload{OK: true})

	case TypeGameData:
		var p GameDataPayload
		if r.decode(c, msg, &p) {
			r.sync.HandleGameData(c, &p)
		}

	case TypeQuickGameUpdate:
		var p QuickGameUpdatePayload
		if r.decode(c, msg, &p) {
			r.sync.StartQuickGame(c, &p)
		}

	case TypeLeagueGameUpdate:
		var p LeagueGameUpdatePayload
		if r.decode(c, msg, &p) {
			r.sync.StartLeagueGame(c, &p)
		}

	case TypeGameComplete:
		var p GameCompletePayload
		if r.decode(c, msg, &p) {
			r.sync.HandleGameComplete(c, &p)
		}

	case TypeDisplayModeChange:
		var p DisplayModeChangePayload
		if r.decode(c, msg, &p) {
			r.sync.HandleDisplayModeChange(c, &p)
		}

	case TypeBallThrown:
		var p BallThrownPayload
		if r.decode(c, msg, &p) {
			r.sync.HandleBallThrown(c, &p)
		}

	case TypeFrameComplete:
		var p FrameCompletePayload
		if r.decode(c, msg, &p) {
			r.sync.HandleFrameComplete(c, &p)
		}

	case TypeStatusUpdate:
		var p StatusUpdatePayload
		if r.decode(c, msg, &p) {
			r.sync.HandleStatusUpdate(c, &p)
		}

	case TypeHoldAcknowledged:
		var p HoldAckPayload
		if r.decodeLoose(c, msg, &p) {
			r.sync.HandleHoldAck(c, &p)
		}

	case TypeBallUpdateAcknowledged:
		var p BallUpdateAckPayload
		if r.decodeLoose(c, msg, &p) {
			r.sync.HandleBallUpdateAck(c, &p)
		}

	case TypeRevertAcknowledged:
		var p RevertAckPayload
		if r.decodeLoose(c, msg, &p) {
			r.sync.HandleRevertAck(c, &p)
		}

	case TypeShutdownAcknowledged:
		r.sync.HandleShutdownAck(c)

	default:
		log.Printf("WARN [lanenet.Router] unknown message type %q from lane %d dropped", msg.Type, c.LaneID())
	}
}

type validatable interface {
	Validate() error
}

// decode unmarshals and validates a payload, dropping the frame on
// failure.
func (r *Router) decode(c *LaneConn, msg Inbound, payload validatable) bool {
	if err := json.Unmarshal(msg.Data, payload); err != nil {
		log.Printf("WARN [lanenet.Router] invalid %s payload from %s dropped: %v", msg.Type, c.RemoteAddr(), err)
		return false
	}
	if err := payload.Validate(); err != nil {
		log.Printf("WARN [lanenet.Router] rejected %s from %s: %v", msg.Type, c.RemoteAddr(), err)
		return false
	}
	return true
}

// decodeLoose is decode for acknowledgement payloads, which carry no
// required fields.
func (r *Router) decodeLoose(c *LaneConn, msg Inbound, payload any) bool {
	if len(msg.Data) == 0 {
		return true
	}
	if err := json.Unmarshal(msg.Data, payload); err != nil {
		log.Printf("WARN [lanenet.Router] invalid %s payload from %s dropped: %v", msg.Type, c.RemoteAddr(), err)
		return false
	}
	return true
}

func (r *Router) send(c *LaneConn, msgType MessageType, data any) {
	if err := c.Send(NewOutbound(msgType, data)); err != nil {
		log.Printf("WARN [lanenet.Router] %s to lane %d undelivered: %v", msgType, c.LaneID(), err)
	}
}
