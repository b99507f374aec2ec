package lanenet

import (
	"bufio"
	"encoding/json"
	"errors"
	"log"
	"net"
	"sync"
	"time"

	"github.com/kyle/bowling-center-server/internal/domain"
)

const (
	sendQueueSize = 64
	writeTimeout  = 10 * time.Second
	// maxFrameSize bounds one newline-delimited frame.
	maxFrameSize = 256 * 1024
)

var ErrConnClosed = errors.New("lane connection is closed")

// LaneConn is one lane unit's TCP connection. A connection starts
// unbound; registration assigns it a lane identity.
type LaneConn struct {
	conn     net.Conn
	send     chan []byte
	closed   chan struct{}
	closeOne sync.Once

	mu       sync.Mutex
	laneID   int // 0 while unbound
	status   domain.LaneStatus
	lastSeen time.Time
}

func newLaneConn(conn net.Conn) *LaneConn {
	return &LaneConn{
		conn:     conn,
		send:     make(chan []byte, sendQueueSize),
		closed:   make(chan struct{}),
		status:   domain.LaneStatusIdle,
		lastSeen: time.Now(),
	}
}

func (c *LaneConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

func (c *LaneConn) LaneID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.laneID
}

func (c *LaneConn) setLaneID(id int) {
	c.mu.Lock()
	c.laneID = id
	c.mu.Unlock()
}

func (c *LaneConn) Status() domain.LaneStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *LaneConn) SetStatus(status domain.LaneStatus) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
}

func (c *LaneConn) LastSeen() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// Touch refreshes the liveness timestamp; called on every inbound frame.
func (c *LaneConn) Touch() {
	c.mu.Lock()
	c.lastSeen = time.Now()
	c.mu.Unlock()
}

// Send enqueues one outbound frame. Writes are fire-and-forget: no
// reply is awaited, reconciliation happens on the next inbound
// acknowledgement. Returns a delivery failure if the connection is
// closed or its queue is full.
func (c *LaneConn) Send(msg *Outbound) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	select {
	case <-c.closed:
		return ErrConnClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrConnClosed
	}
}

func (c *LaneConn) Close() {
	c.closeOne.Do(func() {
		close(c.closed)
		c.conn.Close()
	})
}

// writePump drains the send queue onto the socket.
func (c *LaneConn) writePump() {
	defer c.Close()
	for {
		select {
		case <-c.closed:
			return
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if _, err := c.conn.Write(data); err != nil {
				log.Printf("WARN [lanenet] write to lane %d (%s) failed: %v", c.LaneID(), c.RemoteAddr(), err)
				return
			}
		}
	}
}

// readPump splits the inbound byte stream on newlines and hands each
// frame to the router. One reader per connection keeps per-lane frame
// order strict.
func (c *LaneConn) readPump(router *Router, onClose func(*LaneConn)) {
	defer func() {
		onClose(c)
		c.Close()
	}()

	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 4096), maxFrameSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		c.Touch()
		router.Dispatch(c, line)
	}
	if err := scanner.Err(); err != nil {
		log.Printf("lane connection %s read error: %v", c.RemoteAddr(), err)
	}
}
