package lanenet

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/kyle/bowling-center-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturePublisher records every published event for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	Channel string
	Event   string
	Payload any
}

func (p *capturePublisher) Publish(channel, event string, payload any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{Channel: channel, Event: event, Payload: payload})
	return true
}

func (p *capturePublisher) count(event string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

// newTestConn builds a LaneConn over an in-memory pipe. The peer end is
// closed on cleanup so reads never block test shutdown.
func newTestConn(t *testing.T) *LaneConn {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return newLaneConn(server)
}

func TestRegistry_RegisterInvalidLaneID(t *testing.T) {
	r := NewRegistry(30*time.Second, nil)
	c := newTestConn(t)

	_, err := r.Register(c, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidLaneID)

	_, err = r.Register(c, -3)
	assert.ErrorIs(t, err, domain.ErrInvalidLaneID)
}

func TestRegistry_Register(t *testing.T) {
	pub := &capturePublisher{}
	r := NewRegistry(30*time.Second, pub)
	c := newTestConn(t)

	_, err := r.Register(c, 7)
	require.NoError(t, err)

	assert.Equal(t, 7, c.LaneID())
	assert.Equal(t, domain.LaneStatusActive, c.Status())
	assert.Same(t, c, r.Get(7))
	assert.Equal(t, 1, pub.count("lane_status_changed"))
}

func TestRegistry_RegisterSupersedesOldBinding(t *testing.T) {
	r := NewRegistry(30*time.Second, nil)
	old := newTestConn(t)
	replacement := newTestConn(t)

	_, err := r.Register(old, 4)
	require.NoError(t, err)
	_, err = r.Register(replacement, 4)
	require.NoError(t, err)

	assert.Same(t, replacement, r.Get(4))
	assert.Equal(t, 0, old.LaneID(), "superseded connection loses its identity")
	assert.Equal(t, 4, replacement.LaneID())
}

func TestRegistry_HeartbeatRestoresIdleLane(t *testing.T) {
	pub := &capturePublisher{}
	r := NewRegistry(30*time.Second, pub)
	c := newTestConn(t)

	_, err := r.Register(c, 2)
	require.NoError(t, err)

	c.SetStatus(domain.LaneStatusIdle)
	r.Heartbeat(c)
	assert.Equal(t, domain.LaneStatusActive, c.Status())

	// An already-active lane just refreshes liveness, no event.
	before := pub.count("lane_status_changed")
	r.Heartbeat(c)
	assert.Equal(t, before, pub.count("lane_status_changed"))
}

func TestRegistry_CheckLivenessIdlesSilentLanes(t *testing.T) {
	pub := &capturePublisher{}
	timeout := 30 * time.Second
	r := NewRegistry(timeout, pub)
	c := newTestConn(t)

	_, err := r.Register(c, 9)
	require.NoError(t, err)

	// Within the window, nothing changes.
	r.CheckLiveness(time.Now())
	assert.Equal(t, domain.LaneStatusActive, c.Status())

	// Past the window, the lane goes idle exactly once.
	late := time.Now().Add(timeout + time.Second)
	before := pub.count("lane_status_changed")
	r.CheckLiveness(late)
	assert.Equal(t, domain.LaneStatusIdle, c.Status())
	assert.Equal(t, before+1, pub.count("lane_status_changed"))

	r.CheckLiveness(late.Add(time.Minute))
	assert.Equal(t, before+1, pub.count("lane_status_changed"), "repeat sweeps must not re-emit")
}

func TestRegistry_Unregister(t *testing.T) {
	pub := &capturePublisher{}
	r := NewRegistry(30*time.Second, pub)
	c := newTestConn(t)
	r.Accept(c)

	_, err := r.Register(c, 5)
	require.NoError(t, err)

	r.Unregister(c)
	assert.Nil(t, r.Get(5))
	assert.Equal(t, domain.LaneStatusIdle, c.Status())
}

func TestRegistry_UnregisterUnboundConnIsQuiet(t *testing.T) {
	pub := &capturePublisher{}
	r := NewRegistry(30*time.Second, pub)
	c := newTestConn(t)
	r.Accept(c)

	r.Unregister(c)
	assert.Equal(t, 0, pub.count("lane_status_changed"))
}

func TestRegistry_Snapshot(t *testing.T) {
	r := NewRegistry(30*time.Second, nil)
	c1 := newTestConn(t)
	c2 := newTestConn(t)

	_, err := r.Register(c1, 1)
	require.NoError(t, err)
	_, err = r.Register(c2, 2)
	require.NoError(t, err)

	snaps := r.Snapshot()
	require.Len(t, snaps, 2)
	ids := []int{snaps[0].LaneID, snaps[1].LaneID}
	assert.ElementsMatch(t, []int{1, 2}, ids)
}
