package lanenet

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/kyle/bowling-center-server/internal/domain"
	"github.com/kyle/bowling-center-server/internal/notify"
)

// Registry owns the lane-id to connection bindings and is the only
// component that detects silent disconnects.
type Registry struct {
	mu               sync.RWMutex
	lanes            map[int]*LaneConn
	conns            map[*LaneConn]bool
	heartbeatTimeout time.Duration
	publisher        notify.Publisher
}

func NewRegistry(heartbeatTimeout time.Duration, publisher notify.Publisher) *Registry {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	return &Registry{
		lanes:            make(map[int]*LaneConn),
		conns:            make(map[*LaneConn]bool),
		heartbeatTimeout: heartbeatTimeout,
		publisher:        publisher,
	}
}

// Accept tracks a freshly opened transport connection. The lane has no
// identity yet and sits Idle until it registers.
func (r *Registry) Accept(c *LaneConn) {
	r.mu.Lock()
	r.conns[c] = true
	r.mu.Unlock()
	log.Printf("lane connection accepted from %s", c.RemoteAddr())
}

// Register binds laneID to the connection, superseding any prior
// binding for that lane. The orphaned socket is a tolerated transient
// during lane-unit reboot; its own disconnect handler cleans it up.
func (r *Registry) Register(c *LaneConn, laneID int) (time.Time, error) {
	if laneID <= 0 {
		return time.Time{}, domain.ErrInvalidLaneID
	}

	r.mu.Lock()
	if old, ok := r.lanes[laneID]; ok && old != c {
		log.Printf("WARN [lanenet.Registry] lane %d re-registered, superseding binding from %s", laneID, old.RemoteAddr())
		old.setLaneID(0)
	}
	r.lanes[laneID] = c
	r.mu.Unlock()

	c.setLaneID(laneID)
	c.Touch()
	c.SetStatus(domain.LaneStatusActive)
	r.publishStatus(laneID, domain.LaneStatusActive)

	now := time.Now()
	log.Printf("lane %d registered from %s", laneID, c.RemoteAddr())
	return now, nil
}

// Heartbeat refreshes liveness. A lane previously marked Idle by
// timeout is restored to Active; otherwise status is untouched.
func (r *Registry) Heartbeat(c *LaneConn) {
	c.Touch()
	if c.LaneID() > 0 && c.Status() == domain.LaneStatusIdle {
		c.SetStatus(domain.LaneStatusActive)
		r.publishStatus(c.LaneID(), domain.LaneStatusActive)
	}
}

// CheckLiveness sweeps every bound lane and idles the silent ones.
// The transition fires exactly once per silence window: once Idle, the
// status guard keeps repeated sweeps from re-emitting.
func (r *Registry) CheckLiveness(now time.Time) {
	r.mu.RLock()
	bound := make(map[int]*LaneConn, len(r.lanes))
	for id, c := range r.lanes {
		bound[id] = c
	}
	r.mu.RUnlock()

	for laneID, c := range bound {
		if now.Sub(c.LastSeen()) > r.heartbeatTimeout && c.Status() != domain.LaneStatusIdle {
			log.Printf("WARN [lanenet.Registry] lane %d silent for over %s, marking idle", laneID, r.heartbeatTimeout)
			c.SetStatus(domain.LaneStatusIdle)
			r.publishStatus(laneID, domain.LaneStatusIdle)
		}
	}
}

// Run ticks CheckLiveness until the context is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.CheckLiveness(now)
		}
	}
}

// Unregister removes a closed connection. If it was bound, the lane
// goes Idle and a status change is emitted; the raw tracking entry is
// always removed.
func (r *Registry) Unregister(c *LaneConn) {
	laneID := c.LaneID()

	r.mu.Lock()
	delete(r.conns, c)
	if laneID > 0 && r.lanes[laneID] == c {
		delete(r.lanes, laneID)
	} else {
		laneID = 0
	}
	r.mu.Unlock()

	if laneID > 0 {
		c.SetStatus(domain.LaneStatusIdle)
		r.publishStatus(laneID, domain.LaneStatusIdle)
		log.Printf("lane %d unregistered (%s)", laneID, c.RemoteAddr())
	}
}

// Get returns the bound connection for a lane, or nil.
func (r *Registry) Get(laneID int) *LaneConn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lanes[laneID]
}

// LaneStatusSnapshot is one row of the lanes overview.
type LaneStatusSnapshot struct {
	LaneID   int               `json:"laneId"`
	Status   domain.LaneStatus `json:"status"`
	LastSeen time.Time         `json:"lastSeen"`
	Remote   string            `json:"remote"`
}

// Snapshot lists every bound lane for the management API.
func (r *Registry) Snapshot() []LaneStatusSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snaps := make([]LaneStatusSnapshot, 0, len(r.lanes))
	for laneID, c := range r.lanes {
		snaps = append(snaps, LaneStatusSnapshot{
			LaneID:   laneID,
			Status:   c.Status(),
			LastSeen: c.LastSeen(),
			Remote:   c.RemoteAddr(),
		})
	}
	return snaps
}

// CloseAll shuts every tracked connection, bound or not.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	conns := make([]*LaneConn, 0, len(r.conns))
	for c := range r.conns {
		conns = append(conns, c)
	}
	r.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}

func (r *Registry) publishStatus(laneID int, status domain.LaneStatus) {
	r.publisher.Publish(notify.ChannelLanes, notify.EventLaneStatusChanged, map[string]any{
		"laneId": laneID,
		"status": status,
	})
}
